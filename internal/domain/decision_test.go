package domain

import (
	"testing"
	"time"
)

func openDecision() *Decision {
	now := time.Now().UTC()
	return &Decision{
		ID:        "d1",
		ProfileID: "u1",
		Title:     "pick",
		Options:   []Option{{Label: "a"}, {Label: "b"}},
		Status:    DecisionOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestLifecycleForwardOnly(t *testing.T) {
	t.Parallel()

	d := openDecision()
	if err := d.MarkResolved("a", nil, time.Now().UTC()); err == nil {
		t.Fatal("resolving an open decision must fail")
	}

	if err := d.MarkEvaluated(map[string]float64{"a": 1, "b": 2}, time.Now().UTC()); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if err := d.MarkEvaluated(nil, time.Now().UTC()); err == nil {
		t.Fatal("evaluating twice must fail")
	}

	if err := d.MarkResolved("b", nil, time.Now().UTC()); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if err := d.MarkResolved("a", nil, time.Now().UTC()); err == nil {
		t.Fatal("resolving twice must fail")
	}
}

func TestMarkResolvedValidatesRating(t *testing.T) {
	t.Parallel()

	d := openDecision()
	if err := d.MarkEvaluated(map[string]float64{"a": 1, "b": 2}, time.Now().UTC()); err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	bad := 6
	if err := d.MarkResolved("a", &bad, time.Now().UTC()); err == nil {
		t.Fatal("rating above 5 must fail")
	}
	if d.Status != DecisionEvaluated {
		t.Fatalf("failed resolve must not transition, got %s", d.Status)
	}

	good := 5
	if err := d.MarkResolved("a", &good, time.Now().UTC()); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if d.OutcomeRating == nil || *d.OutcomeRating != 5 {
		t.Fatalf("rating not recorded: %+v", d.OutcomeRating)
	}
}

func TestValidateOptions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		options []Option
		wantErr bool
	}{
		{"empty set is fine at creation", nil, false},
		{"empty label", []Option{{Label: ""}}, true},
		{"duplicate labels", []Option{{Label: "x"}, {Label: "x"}}, true},
		{"unknown attribute kind", []Option{{Label: "x", Attributes: map[string]Attribute{
			"cost": {Value: 1, Kind: AttributeKind("fuzzy")},
		}}}, true},
		{"blank kind is objective", []Option{{Label: "x", Attributes: map[string]Attribute{
			"cost": {Value: 1},
		}}}, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateOptions(tc.options)
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestDecisionCloneIsDeep(t *testing.T) {
	t.Parallel()

	d := openDecision()
	d.Options[0].Attributes = map[string]Attribute{"cost": {Value: 1}}
	clone := d.Clone()
	clone.Options[0].Attributes["cost"] = Attribute{Value: 99}

	if d.Options[0].Attributes["cost"].Value != 1 {
		t.Fatal("clone mutation leaked into the original")
	}
}

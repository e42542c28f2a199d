package domain

import (
	"encoding/json"
	"testing"
)

func TestPriorityOrdering(t *testing.T) {
	t.Parallel()

	if !(PriorityMinimal < PriorityLow && PriorityLow < PriorityMedium &&
		PriorityMedium < PriorityHigh && PriorityHigh < PriorityCritical) {
		t.Fatal("tiers must be strictly ordered")
	}
	if PriorityCritical.Distance(PriorityLow) != 3 {
		t.Fatalf("critical-low distance = %d", PriorityCritical.Distance(PriorityLow))
	}
	if PriorityLow.Distance(PriorityCritical) != 3 {
		t.Fatal("distance must be symmetric")
	}
}

func TestParsePriority(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"minimal", "low", "medium", "high", "critical"} {
		p, err := ParsePriority(name)
		if err != nil {
			t.Fatalf("parse %q: %v", name, err)
		}
		if p.String() != name {
			t.Fatalf("round trip %q -> %q", name, p.String())
		}
	}

	if _, err := ParsePriority("urgent"); err == nil {
		t.Fatal("expected error for unknown tier name")
	}
}

func TestPriorityJSON(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(PriorityHigh)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `"high"` {
		t.Fatalf("expected \"high\", got %s", raw)
	}

	var p Priority
	if err := json.Unmarshal([]byte(`"critical"`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p != PriorityCritical {
		t.Fatalf("expected critical, got %s", p)
	}

	if err := json.Unmarshal([]byte(`"severe"`), &p); err == nil {
		t.Fatal("expected error for unknown tier name")
	}
	if _, err := json.Marshal(Priority(42)); err == nil {
		t.Fatal("expected error for out-of-range tier")
	}
}

func TestItemTimestampOmitted(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(InformationItem{ID: "i1"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, present := fields["timestamp"]; present {
		t.Fatal("zero timestamp must be omitted")
	}
}

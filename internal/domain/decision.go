package domain

import (
	"fmt"
	"time"
)

// DecisionStatus enumerates the decision lifecycle. Transitions only move
// forward: open -> evaluated -> resolved.
type DecisionStatus string

const (
	DecisionOpen      DecisionStatus = "open"
	DecisionEvaluated DecisionStatus = "evaluated"
	DecisionResolved  DecisionStatus = "resolved"
)

// Valid reports whether the value is one of the enumerated statuses.
func (s DecisionStatus) Valid() bool {
	switch s {
	case DecisionOpen, DecisionEvaluated, DecisionResolved:
		return true
	}
	return false
}

// AttributeKind tags an option attribute as objective or subjective so the
// style weights of the evaluation know how to count it.
type AttributeKind string

const (
	AttributeObjective  AttributeKind = "objective"
	AttributeSubjective AttributeKind = "subjective"
)

// Valid reports whether the kind is enumerated. The empty kind is accepted
// and treated as objective.
func (k AttributeKind) Valid() bool {
	switch k {
	case "", AttributeObjective, AttributeSubjective:
		return true
	}
	return false
}

// Attribute is a named numeric fact about an option, optionally annotated
// with free text.
type Attribute struct {
	Value float64       `json:"value"`
	Kind  AttributeKind `json:"kind,omitempty"`
	Note  string        `json:"note,omitempty"`
}

// Option is one choice inside a decision.
type Option struct {
	Label      string               `json:"label"`
	Attributes map[string]Attribute `json:"attributes,omitempty"`
}

// Decision is a record moving through the open -> evaluated -> resolved
// lifecycle. Scores are filled in by evaluation; ChosenOption and
// OutcomeRating by resolution. Resolved decisions are immutable and retained
// as the learning signal.
type Decision struct {
	ID            string             `json:"id"`
	ProfileID     string             `json:"profile_id"`
	Title         string             `json:"title"`
	Options       []Option           `json:"options"`
	Status        DecisionStatus     `json:"status"`
	Scores        map[string]float64 `json:"scores,omitempty"`
	ChosenOption  *string            `json:"chosen_option,omitempty"`
	OutcomeRating *int               `json:"outcome_rating,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// Clone returns a deep copy safe for independent mutation.
func (d *Decision) Clone() *Decision {
	clone := *d
	clone.Options = make([]Option, len(d.Options))
	for i, opt := range d.Options {
		attrs := make(map[string]Attribute, len(opt.Attributes))
		for name, attr := range opt.Attributes {
			attrs[name] = attr
		}
		clone.Options[i] = Option{Label: opt.Label, Attributes: attrs}
	}
	if d.Scores != nil {
		clone.Scores = make(map[string]float64, len(d.Scores))
		for label, score := range d.Scores {
			clone.Scores[label] = score
		}
	}
	if d.ChosenOption != nil {
		chosen := *d.ChosenOption
		clone.ChosenOption = &chosen
	}
	if d.OutcomeRating != nil {
		rating := *d.OutcomeRating
		clone.OutcomeRating = &rating
	}
	return &clone
}

// OptionByLabel looks an option up by its label.
func (d *Decision) OptionByLabel(label string) (Option, bool) {
	for _, opt := range d.Options {
		if opt.Label == label {
			return opt, true
		}
	}
	return Option{}, false
}

// MarkEvaluated records scores and transitions open -> evaluated. Any other
// starting state fails with InvalidStateError and leaves the decision
// untouched.
func (d *Decision) MarkEvaluated(scores map[string]float64, now time.Time) error {
	if d.Status != DecisionOpen {
		return &InvalidStateError{Entity: "decision", ID: d.ID, State: string(d.Status), Op: "evaluate"}
	}
	d.Scores = scores
	d.Status = DecisionEvaluated
	d.UpdatedAt = now
	return nil
}

// MarkResolved records the chosen option and transitions evaluated ->
// resolved. Resolving an open decision, or resolving twice, fails with
// InvalidStateError.
func (d *Decision) MarkResolved(label string, rating *int, now time.Time) error {
	if d.Status != DecisionEvaluated {
		return &InvalidStateError{Entity: "decision", ID: d.ID, State: string(d.Status), Op: "resolve"}
	}
	if _, ok := d.OptionByLabel(label); !ok {
		return &ValidationError{Field: "option", Reason: fmt.Sprintf("decision %s has no option %q", d.ID, label)}
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		return &ValidationError{Field: "outcome_rating", Reason: fmt.Sprintf("rating %d outside 1..5", *rating)}
	}
	chosen := label
	d.ChosenOption = &chosen
	d.OutcomeRating = rating
	d.Status = DecisionResolved
	d.UpdatedAt = now
	return nil
}

// ValidateOptions checks labels and attribute kinds ahead of storage.
func ValidateOptions(options []Option) error {
	seen := make(map[string]struct{}, len(options))
	for i, opt := range options {
		if opt.Label == "" {
			return &ValidationError{Field: "options", Reason: fmt.Sprintf("option %d has an empty label", i)}
		}
		if _, dup := seen[opt.Label]; dup {
			return &ValidationError{Field: "options", Reason: fmt.Sprintf("duplicate option label %q", opt.Label)}
		}
		seen[opt.Label] = struct{}{}
		for name, attr := range opt.Attributes {
			if !attr.Kind.Valid() {
				return &ValidationError{
					Field:  "options",
					Reason: fmt.Sprintf("option %q attribute %q has unknown kind %q", opt.Label, name, attr.Kind),
				}
			}
		}
	}
	return nil
}

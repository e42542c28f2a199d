package domain

import (
	"fmt"
	"time"
)

// RiskTolerance expresses how much variance a user accepts in recommendations.
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "low"
	RiskMedium RiskTolerance = "medium"
	RiskHigh   RiskTolerance = "high"
)

// Valid reports whether the value is one of the enumerated tolerances.
func (r RiskTolerance) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// ParseRiskTolerance validates and converts a wire value.
func ParseRiskTolerance(value string) (RiskTolerance, error) {
	r := RiskTolerance(value)
	if !r.Valid() {
		return "", &ValidationError{Field: "risk_tolerance", Reason: fmt.Sprintf("unknown value %q", value)}
	}
	return r, nil
}

// DecisionStyle selects how option attributes are weighted during evaluation.
type DecisionStyle string

const (
	StyleAnalytical    DecisionStyle = "analytical"
	StyleIntuitive     DecisionStyle = "intuitive"
	StyleCollaborative DecisionStyle = "collaborative"
)

// Valid reports whether the value is one of the enumerated styles.
func (s DecisionStyle) Valid() bool {
	switch s {
	case StyleAnalytical, StyleIntuitive, StyleCollaborative:
		return true
	}
	return false
}

// ParseDecisionStyle validates and converts a wire value.
func ParseDecisionStyle(value string) (DecisionStyle, error) {
	s := DecisionStyle(value)
	if !s.Valid() {
		return "", &ValidationError{Field: "decision_style", Reason: fmt.Sprintf("unknown value %q", value)}
	}
	return s, nil
}

// UserProfile holds the preference vector read by scoring and recommendation.
// Interests map tags to non-negative weights. Profiles are created on the
// first create call, mutated in place by updates, and never implicitly
// deleted.
type UserProfile struct {
	ID                    string             `json:"id"`
	Interests             map[string]float64 `json:"interests"`
	RiskTolerance         RiskTolerance      `json:"risk_tolerance"`
	DecisionStyle         DecisionStyle      `json:"decision_style"`
	NotificationThreshold Priority           `json:"notification_threshold"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`
}

// NewUserProfile returns a profile with the documented defaults.
func NewUserProfile(id string, now time.Time) *UserProfile {
	return &UserProfile{
		ID:                    id,
		Interests:             map[string]float64{},
		RiskTolerance:         RiskMedium,
		DecisionStyle:         StyleAnalytical,
		NotificationThreshold: PriorityMedium,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// Clone returns a deep copy safe for independent mutation.
func (p *UserProfile) Clone() *UserProfile {
	clone := *p
	clone.Interests = make(map[string]float64, len(p.Interests))
	for tag, weight := range p.Interests {
		clone.Interests[tag] = weight
	}
	return &clone
}

// TotalInterestWeight sums all interest weights; the scorer's denominator.
func (p *UserProfile) TotalInterestWeight() float64 {
	var total float64
	for _, weight := range p.Interests {
		total += weight
	}
	return total
}

// ProfileUpdate carries the recognized upsert fields. Nil pointers and nil
// maps mean "leave unchanged".
type ProfileUpdate struct {
	Interests             map[string]float64
	RiskTolerance         *RiskTolerance
	DecisionStyle         *DecisionStyle
	NotificationThreshold *Priority
}

// Apply validates the update and mutates the profile in place. Out-of-enum
// values and negative weights are rejected before any field is written.
func (u ProfileUpdate) Apply(p *UserProfile, now time.Time) error {
	for tag, weight := range u.Interests {
		if tag == "" {
			return &ValidationError{Field: "interests", Reason: "empty tag"}
		}
		if weight < 0 {
			return &ValidationError{Field: "interests", Reason: fmt.Sprintf("negative weight %v for tag %q", weight, tag)}
		}
	}
	if u.RiskTolerance != nil && !u.RiskTolerance.Valid() {
		return &ValidationError{Field: "risk_tolerance", Reason: fmt.Sprintf("unknown value %q", *u.RiskTolerance)}
	}
	if u.DecisionStyle != nil && !u.DecisionStyle.Valid() {
		return &ValidationError{Field: "decision_style", Reason: fmt.Sprintf("unknown value %q", *u.DecisionStyle)}
	}
	if u.NotificationThreshold != nil && !u.NotificationThreshold.Valid() {
		return &ValidationError{Field: "notification_threshold", Reason: fmt.Sprintf("unknown tier %d", int(*u.NotificationThreshold))}
	}

	if u.Interests != nil {
		interests := make(map[string]float64, len(u.Interests))
		for tag, weight := range u.Interests {
			interests[tag] = weight
		}
		p.Interests = interests
	}
	if u.RiskTolerance != nil {
		p.RiskTolerance = *u.RiskTolerance
	}
	if u.DecisionStyle != nil {
		p.DecisionStyle = *u.DecisionStyle
	}
	if u.NotificationThreshold != nil {
		p.NotificationThreshold = *u.NotificationThreshold
	}
	p.UpdatedAt = now
	return nil
}

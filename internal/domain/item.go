package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Priority is the ordinal tier derived from a relevance score.
type Priority int

const (
	PriorityMinimal Priority = iota + 1
	PriorityLow
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

var priorityNames = map[Priority]string{
	PriorityMinimal:  "minimal",
	PriorityLow:      "low",
	PriorityMedium:   "medium",
	PriorityHigh:     "high",
	PriorityCritical: "critical",
}

// String returns the lowercase wire name of the tier.
func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// Valid reports whether p is one of the five known tiers.
func (p Priority) Valid() bool {
	_, ok := priorityNames[p]
	return ok
}

// Distance returns the ordinal distance between two tiers.
func (p Priority) Distance(other Priority) int {
	d := int(p) - int(other)
	if d < 0 {
		d = -d
	}
	return d
}

// ParsePriority maps a wire name back to a tier.
func ParsePriority(value string) (Priority, error) {
	for p, name := range priorityNames {
		if name == value {
			return p, nil
		}
	}
	return 0, &ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown tier %q", value)}
}

// MarshalJSON encodes the tier as its wire name.
func (p Priority) MarshalJSON() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("marshal priority: %d is not a tier", int(p))
	}
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a wire name into a tier.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParsePriority(name)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// InformationItem is a pre-fetched piece of content plus structured metadata.
// The content is opaque to the engine; only tags, source and timestamp carry
// meaning for scoring. Items are immutable once scored.
type InformationItem struct {
	ID        string    `json:"id"`
	Source    string    `json:"source,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Content   string    `json:"content,omitempty"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}

// ScoredItem pairs an item with its derived relevance and tier. Scores are
// computed per request and never stored back onto the item.
type ScoredItem struct {
	Item      InformationItem `json:"item"`
	Relevance float64         `json:"relevance"`
	Priority  Priority        `json:"priority"`
}

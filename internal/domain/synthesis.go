package domain

// Theme is a cluster of items connected by shared tags: the connected
// component of the tag-overlap graph that contains its members.
type Theme struct {
	Tags    []string `json:"tags"`
	ItemIDs []string `json:"item_ids"`
}

// Contradiction flags two items from different themes whose priority tiers
// disagree sharply. It is surfaced to the caller, never resolved here.
type Contradiction struct {
	ItemA     string   `json:"item_a"`
	ItemB     string   `json:"item_b"`
	PriorityA Priority `json:"priority_a"`
	PriorityB Priority `json:"priority_b"`
}

// SynthesisResult aggregates multiple scored items into themes, conflicting
// signals, and consensus. Ordering inside the result is canonical: the same
// input set produces the same result regardless of input order.
type SynthesisResult struct {
	ItemIDs         []string        `json:"item_ids"`
	Themes          []Theme         `json:"themes"`
	Contradictions  []Contradiction `json:"contradictions"`
	ConsensusTags   []string        `json:"consensus_tags"`
	OverallPriority Priority        `json:"overall_priority"`
}

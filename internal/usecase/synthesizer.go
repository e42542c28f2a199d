package usecase

import (
	"log/slog"
	"sort"

	"infoflow/internal/domain"
)

// Synthesizer aggregates scored items into themes, contradictions and
// consensus. All output ordering is canonical over the input set, so
// shuffling the input never changes the result.
type Synthesizer struct {
	contradictionGap int
	logger           *slog.Logger
}

// NewSynthesizer wires the tier gap that flags a conflicting-signal pair;
// values below 1 fall back to the default of 2.
func NewSynthesizer(contradictionGap int, logger *slog.Logger) *Synthesizer {
	if contradictionGap < 1 {
		contradictionGap = 2
	}
	return &Synthesizer{contradictionGap: contradictionGap, logger: logger}
}

// Synthesize requires at least one item. Themes are the connected components
// of the tag-overlap graph (two items share a theme iff they share a tag);
// contradictions are cross-theme pairs whose tiers differ by at least the
// configured gap; consensus tags appear on a strict majority of items.
func (s *Synthesizer) Synthesize(items []domain.ScoredItem) (*domain.SynthesisResult, error) {
	if len(items) == 0 {
		return nil, &domain.InsufficientDataError{Op: "synthesize", Need: 1, Got: 0}
	}

	// Canonical working order: by item id. This, not the caller's order,
	// drives every downstream loop.
	sorted := make([]domain.ScoredItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Item.ID < sorted[j].Item.ID
	})

	parent := make([]int, len(sorted))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	firstWithTag := map[string]int{}
	for i, scored := range sorted {
		for _, tag := range scored.Item.Tags {
			if j, ok := firstWithTag[tag]; ok {
				union(j, i)
			} else {
				firstWithTag[tag] = i
			}
		}
	}

	members := map[int][]int{}
	for i := range sorted {
		root := find(i)
		members[root] = append(members[root], i)
	}

	themes := make([]domain.Theme, 0, len(members))
	for _, idxs := range members {
		tagSet := map[string]struct{}{}
		ids := make([]string, 0, len(idxs))
		for _, i := range idxs {
			ids = append(ids, sorted[i].Item.ID)
			for _, tag := range sorted[i].Item.Tags {
				tagSet[tag] = struct{}{}
			}
		}
		tags := make([]string, 0, len(tagSet))
		for tag := range tagSet {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		sort.Strings(ids)
		themes = append(themes, domain.Theme{Tags: tags, ItemIDs: ids})
	}
	sort.Slice(themes, func(i, j int) bool {
		return themes[i].ItemIDs[0] < themes[j].ItemIDs[0]
	})

	var contradictions []domain.Contradiction
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if find(i) == find(j) {
				continue
			}
			a, b := sorted[i], sorted[j]
			if a.Priority.Distance(b.Priority) >= s.contradictionGap {
				contradictions = append(contradictions, domain.Contradiction{
					ItemA:     a.Item.ID,
					ItemB:     b.Item.ID,
					PriorityA: a.Priority,
					PriorityB: b.Priority,
				})
			}
		}
	}

	tagCounts := map[string]int{}
	for _, scored := range sorted {
		seen := map[string]struct{}{}
		for _, tag := range scored.Item.Tags {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			tagCounts[tag]++
		}
	}
	var consensus []string
	for tag, count := range tagCounts {
		if count*2 > len(sorted) {
			consensus = append(consensus, tag)
		}
	}
	sort.Strings(consensus)

	overall := domain.PriorityMinimal
	itemIDs := make([]string, 0, len(sorted))
	for _, scored := range sorted {
		itemIDs = append(itemIDs, scored.Item.ID)
		if scored.Priority > overall {
			overall = scored.Priority
		}
	}

	if s.logger != nil {
		s.logger.Debug("synthesis done",
			"items", len(sorted),
			"themes", len(themes),
			"contradictions", len(contradictions))
	}

	return &domain.SynthesisResult{
		ItemIDs:         itemIDs,
		Themes:          themes,
		Contradictions:  contradictions,
		ConsensusTags:   consensus,
		OverallPriority: overall,
	}, nil
}

package usecase

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"infoflow/internal/domain"
)

// TierPolicy holds the inclusive lower bounds mapping relevance scores onto
// priority tiers. The bounds are policy, not load-bearing magic numbers, and
// normally come from configuration.
type TierPolicy struct {
	Critical float64
	High     float64
	Medium   float64
	Low      float64
}

// DefaultTierPolicy returns the documented default bounds.
func DefaultTierPolicy() TierPolicy {
	return TierPolicy{Critical: 0.9, High: 0.7, Medium: 0.4, Low: 0.15}
}

// Tier maps a relevance score to its priority tier.
func (t TierPolicy) Tier(relevance float64) domain.Priority {
	switch {
	case relevance >= t.Critical:
		return domain.PriorityCritical
	case relevance >= t.High:
		return domain.PriorityHigh
	case relevance >= t.Medium:
		return domain.PriorityMedium
	case relevance >= t.Low:
		return domain.PriorityLow
	default:
		return domain.PriorityMinimal
	}
}

// urgencyKeywords boost items that announce their own time pressure.
var urgencyKeywords = []string{"urgent", "breaking", "alert", "critical", "important", "deadline"}

// Scorer maps items and profiles to relevance scores and priority tiers.
type Scorer struct {
	policy TierPolicy
	logger *slog.Logger
}

// NewScorer wires the tier policy; a zero policy falls back to defaults.
func NewScorer(policy TierPolicy, logger *slog.Logger) *Scorer {
	if policy == (TierPolicy{}) {
		policy = DefaultTierPolicy()
	}
	return &Scorer{policy: policy, logger: logger}
}

// Score computes the normalized weighted overlap between the item tags and
// the profile interests. A profile with no interests scores every item 0.0;
// that is a defined edge case, not an error.
func (s *Scorer) Score(item domain.InformationItem, profile *domain.UserProfile) domain.ScoredItem {
	relevance := 0.0
	total := profile.TotalInterestWeight()
	if total > 0 {
		var matched float64
		seen := make(map[string]struct{}, len(item.Tags))
		for _, tag := range item.Tags {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			if weight, ok := profile.Interests[tag]; ok {
				matched += weight
			}
		}
		relevance = matched / total
	}

	return domain.ScoredItem{
		Item:      item,
		Relevance: relevance,
		Priority:  s.policy.Tier(relevance),
	}
}

// Filter scores every item and returns those at or above minPriority, sorted
// by relevance descending. The sort is stable: equal scores keep the input
// order.
func (s *Scorer) Filter(items []domain.InformationItem, profile *domain.UserProfile, minPriority domain.Priority) []domain.ScoredItem {
	scored := make([]domain.ScoredItem, 0, len(items))
	for _, item := range items {
		candidate := s.Score(item, profile)
		if candidate.Priority >= minPriority {
			scored = append(scored, candidate)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Relevance > scored[j].Relevance
	})

	s.debug("filter done", "in", len(items), "out", len(scored), "min_priority", minPriority.String())
	return scored
}

// UrgentItem is a scored item annotated with its urgency.
type UrgentItem struct {
	domain.ScoredItem
	Urgency float64 `json:"urgency"`
}

// RankByUrgency orders items by how soon they need attention: recency plus
// weighted relevance plus urgency keywords found in content or tags. The
// resulting urgency lies in [0, 1] and the sort is stable.
func (s *Scorer) RankByUrgency(items []domain.InformationItem, profile *domain.UserProfile, now time.Time) []UrgentItem {
	ranked := make([]UrgentItem, 0, len(items))
	for _, item := range items {
		scored := s.Score(item, profile)
		urgency := recencyFactor(item.Timestamp, now) + 0.4*scored.Relevance + keywordFactor(item)
		ranked = append(ranked, UrgentItem{ScoredItem: scored, Urgency: urgency})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Urgency > ranked[j].Urgency
	})

	return ranked
}

func recencyFactor(ts, now time.Time) float64 {
	if ts.IsZero() {
		return 0.0
	}
	age := now.Sub(ts)
	switch {
	case age < time.Hour:
		return 0.4
	case age < 24*time.Hour:
		return 0.3
	case age < 7*24*time.Hour:
		return 0.2
	default:
		return 0.1
	}
}

func keywordFactor(item domain.InformationItem) float64 {
	text := strings.ToLower(item.Content + " " + strings.Join(item.Tags, " "))
	var hits int
	for _, kw := range urgencyKeywords {
		hits += strings.Count(text, kw)
	}
	factor := 0.05 * float64(hits)
	if factor > 0.2 {
		factor = 0.2
	}
	return factor
}

func (s *Scorer) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"infoflow/internal/domain"
	"infoflow/internal/ports"
)

// StyleWeights describe how much an attribute kind counts for one decision
// style.
type StyleWeights struct {
	Objective  float64
	Subjective float64
}

// DecisionPolicy holds the weighting constants for evaluation and the risk
// ceilings for recommendation. Like the tier bounds, these are configurable
// policy.
type DecisionPolicy struct {
	Styles        map[domain.DecisionStyle]StyleWeights
	RiskCeilings  map[domain.RiskTolerance]float64
	RiskAttribute string
}

// DefaultDecisionPolicy returns the documented defaults: analytical favors
// objective attributes, intuitive favors subjective ones, collaborative
// averages both; only low and medium tolerances carry a finite risk ceiling.
func DefaultDecisionPolicy() DecisionPolicy {
	return DecisionPolicy{
		Styles: map[domain.DecisionStyle]StyleWeights{
			domain.StyleAnalytical:    {Objective: 1.0, Subjective: 0.25},
			domain.StyleIntuitive:     {Objective: 0.25, Subjective: 1.0},
			domain.StyleCollaborative: {Objective: 0.625, Subjective: 0.625},
		},
		RiskCeilings: map[domain.RiskTolerance]float64{
			domain.RiskLow:    0.5,
			domain.RiskMedium: 0.8,
			domain.RiskHigh:   math.Inf(1),
		},
		RiskAttribute: "risk",
	}
}

// Recommendation is the outcome of ranking an evaluated decision's options
// under the owning profile's risk tolerance.
type Recommendation struct {
	Option domain.Option `json:"option"`
	Score  float64       `json:"score"`
}

// DecisionEngine manages decision records through the open -> evaluated ->
// resolved lifecycle. Every read-modify-write on a decision is serialized by
// a per-decision mutex; the store additionally compare-and-sets on the old
// status, so a failed transition never persists partial state.
type DecisionEngine struct {
	decisions ports.DecisionStore
	profiles  ports.ProfileStore
	policy    DecisionPolicy
	logger    *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewDecisionEngine wires stores and policy; a policy without styles falls
// back to defaults.
func NewDecisionEngine(decisions ports.DecisionStore, profiles ports.ProfileStore, policy DecisionPolicy, logger *slog.Logger) *DecisionEngine {
	if policy.Styles == nil {
		policy = DefaultDecisionPolicy()
	}
	return &DecisionEngine{
		decisions: decisions,
		profiles:  profiles,
		policy:    policy,
		logger:    logger,
		locks:     map[string]*sync.Mutex{},
	}
}

// lock returns the unlock func for the decision's keyed mutex.
func (e *DecisionEngine) lock(id string) func() {
	e.mu.Lock()
	m, ok := e.locks[id]
	if !ok {
		m = &sync.Mutex{}
		e.locks[id] = m
	}
	e.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// Create stores a new open decision owned by the given profile.
func (e *DecisionEngine) Create(ctx context.Context, profileID, title string, options []domain.Option) (*domain.Decision, error) {
	if title == "" {
		return nil, &domain.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if err := domain.ValidateOptions(options); err != nil {
		return nil, err
	}
	if _, err := e.profiles.Get(ctx, profileID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	decision := &domain.Decision{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		Title:     title,
		Options:   options,
		Status:    domain.DecisionOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.decisions.Create(ctx, decision); err != nil {
		return nil, fmt.Errorf("store decision: %w", err)
	}

	if e.logger != nil {
		e.logger.Info("decision created", "decision_id", decision.ID, "profile_id", profileID, "options", len(options))
	}
	return decision, nil
}

// Get returns the stored decision or NotFoundError.
func (e *DecisionEngine) Get(ctx context.Context, id string) (*domain.Decision, error) {
	return e.decisions.Get(ctx, id)
}

// Evaluate scores each option as the weighted sum of its numeric attributes
// under the owning profile's decision style and transitions the decision
// open -> evaluated. Fewer than two options fail with ValidationError and
// leave the decision open.
func (e *DecisionEngine) Evaluate(ctx context.Context, id string) (*domain.Decision, error) {
	unlock := e.lock(id)
	defer unlock()

	decision, err := e.decisions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if decision.Status != domain.DecisionOpen {
		return nil, &domain.InvalidStateError{Entity: "decision", ID: id, State: string(decision.Status), Op: "evaluate"}
	}
	if len(decision.Options) < 2 {
		return nil, &domain.ValidationError{Field: "options", Reason: fmt.Sprintf("evaluation needs at least 2 options, decision has %d", len(decision.Options))}
	}

	profile, err := e.profiles.Get(ctx, decision.ProfileID)
	if err != nil {
		return nil, err
	}
	weights, ok := e.policy.Styles[profile.DecisionStyle]
	if !ok {
		return nil, &domain.ValidationError{Field: "decision_style", Reason: fmt.Sprintf("no weights configured for style %q", profile.DecisionStyle)}
	}

	scores := make(map[string]float64, len(decision.Options))
	for _, opt := range decision.Options {
		scores[opt.Label] = e.scoreOption(opt, weights)
	}

	if err := decision.MarkEvaluated(scores, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := e.decisions.UpdateStatus(ctx, decision, domain.DecisionOpen); err != nil {
		return nil, err
	}

	if e.logger != nil {
		e.logger.Info("decision evaluated", "decision_id", id, "style", profile.DecisionStyle)
	}
	return decision, nil
}

// scoreOption sums the numeric attributes weighted by kind. An attribute
// without a kind counts as objective.
func (e *DecisionEngine) scoreOption(opt domain.Option, weights StyleWeights) float64 {
	var score float64
	for _, attr := range opt.Attributes {
		switch attr.Kind {
		case domain.AttributeSubjective:
			score += weights.Subjective * attr.Value
		default:
			score += weights.Objective * attr.Value
		}
	}
	return score
}

// Recommend ranks the evaluated options by score descending (stable over the
// stored option order), demotes options whose risk attribute exceeds the
// tolerance ceiling by one rank, and returns the resulting top option.
func (e *DecisionEngine) Recommend(ctx context.Context, id string) (*Recommendation, error) {
	decision, err := e.decisions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if decision.Status != domain.DecisionEvaluated {
		return nil, &domain.InvalidStateError{Entity: "decision", ID: id, State: string(decision.Status), Op: "recommend"}
	}

	profile, err := e.profiles.Get(ctx, decision.ProfileID)
	if err != nil {
		return nil, err
	}

	ranked := make([]domain.Option, len(decision.Options))
	copy(ranked, decision.Options)
	sort.SliceStable(ranked, func(i, j int) bool {
		return decision.Scores[ranked[i].Label] > decision.Scores[ranked[j].Label]
	})

	ceiling, ok := e.policy.RiskCeilings[profile.RiskTolerance]
	if !ok {
		ceiling = math.Inf(1)
	}
	// Single demotion pass: an over-ceiling option swaps with its direct
	// successor and is not reconsidered at its new position.
	for i := 0; i < len(ranked)-1; i++ {
		if e.optionRisk(ranked[i]) > ceiling {
			ranked[i], ranked[i+1] = ranked[i+1], ranked[i]
			i++
		}
	}

	top := ranked[0]
	if e.logger != nil {
		e.logger.Info("recommendation computed", "decision_id", id, "option", top.Label, "tolerance", profile.RiskTolerance)
	}
	return &Recommendation{Option: top, Score: decision.Scores[top.Label]}, nil
}

func (e *DecisionEngine) optionRisk(opt domain.Option) float64 {
	if attr, ok := opt.Attributes[e.policy.RiskAttribute]; ok {
		return attr.Value
	}
	return 0
}

// Resolve records the chosen option (and the optional outcome rating kept as
// the later learning signal) and transitions evaluated -> resolved. The
// transition is terminal.
func (e *DecisionEngine) Resolve(ctx context.Context, id, optionLabel string, outcomeRating *int) (*domain.Decision, error) {
	unlock := e.lock(id)
	defer unlock()

	decision, err := e.decisions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := decision.MarkResolved(optionLabel, outcomeRating, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := e.decisions.UpdateStatus(ctx, decision, domain.DecisionEvaluated); err != nil {
		return nil, err
	}

	if e.logger != nil {
		e.logger.Info("decision resolved", "decision_id", id, "option", optionLabel, "rated", outcomeRating != nil)
	}
	return decision, nil
}

package tools

import (
	"context"
	"encoding/json"
	"time"

	"infoflow/internal/domain"
	"infoflow/internal/usecase"
)

// Deps groups the engine components the tool surface dispatches into.
type Deps struct {
	Profiles    *usecase.Profiles
	Scorer      *usecase.Scorer
	Synthesizer *usecase.Synthesizer
	Decisions   *usecase.DecisionEngine
	Monitor     *usecase.TopicMonitor
}

// RegisterAll wires every engine operation into the registry.
func RegisterAll(r *Registry, deps Deps) {
	r.Register(Tool{
		Name:        "create_user_profile",
		Description: "Create or update a user profile (interests, risk tolerance, decision style, notification threshold).",
		Handler:     createUserProfile(deps),
	})
	r.Register(Tool{
		Name:        "get_user_profile",
		Description: "Fetch a stored user profile by id.",
		Handler:     getUserProfile(deps),
	})
	r.Register(Tool{
		Name:        "filter_information",
		Description: "Score items against a profile and return those at or above the minimum priority, most relevant first.",
		Handler:     filterInformation(deps),
	})
	r.Register(Tool{
		Name:        "rank_by_urgency",
		Description: "Order items by urgency (recency, relevance, urgency keywords).",
		Handler:     rankByUrgency(deps),
	})
	r.Register(Tool{
		Name:        "synthesize_information",
		Description: "Aggregate items into themes, contradictions and consensus under a profile.",
		Handler:     synthesizeInformation(deps),
	})
	r.Register(Tool{
		Name:        "create_decision",
		Description: "Create an open decision with its options for a profile.",
		Handler:     createDecision(deps),
	})
	r.Register(Tool{
		Name:        "update_decision",
		Description: "Advance a decision through its lifecycle: evaluate or resolve.",
		Handler:     updateDecision(deps),
	})
	r.Register(Tool{
		Name:        "get_decision_recommendation",
		Description: "Return the recommended option of an evaluated decision, adjusted for risk tolerance.",
		Handler:     getDecisionRecommendation(deps),
	})
	r.Register(Tool{
		Name:        "monitor_topic",
		Description: "Manage monitored topics: add, remove (deactivate) or list.",
		Handler:     monitorTopic(deps),
	})
	r.Register(Tool{
		Name:        "check_topics",
		Description: "Evaluate items against the profile's active topics and record alerts.",
		Handler:     checkTopics(deps),
	})
}

type profileRequest struct {
	ProfileID             string             `json:"profile_id"`
	Interests             map[string]float64 `json:"interests"`
	RiskTolerance         *string            `json:"risk_tolerance"`
	DecisionStyle         *string            `json:"decision_style"`
	NotificationThreshold *string            `json:"notification_threshold"`
}

func createUserProfile(deps Deps) HandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req profileRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}

		update := domain.ProfileUpdate{Interests: req.Interests}
		if req.RiskTolerance != nil {
			tolerance, err := domain.ParseRiskTolerance(*req.RiskTolerance)
			if err != nil {
				return nil, err
			}
			update.RiskTolerance = &tolerance
		}
		if req.DecisionStyle != nil {
			style, err := domain.ParseDecisionStyle(*req.DecisionStyle)
			if err != nil {
				return nil, err
			}
			update.DecisionStyle = &style
		}
		if req.NotificationThreshold != nil {
			threshold, err := domain.ParsePriority(*req.NotificationThreshold)
			if err != nil {
				return nil, err
			}
			update.NotificationThreshold = &threshold
		}

		profile, err := deps.Profiles.CreateOrUpdate(ctx, req.ProfileID, update)
		if err != nil {
			return nil, err
		}
		return map[string]any{"profile_id": profile.ID}, nil
	}
}

func getUserProfile(deps Deps) HandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req struct {
			ProfileID string `json:"profile_id"`
		}
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return deps.Profiles.Get(ctx, req.ProfileID)
	}
}

type itemsRequest struct {
	ProfileID   string                   `json:"profile_id"`
	Items       []domain.InformationItem `json:"items"`
	MinPriority string                   `json:"min_priority"`
}

func filterInformation(deps Deps) HandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req itemsRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		profile, err := deps.Profiles.Get(ctx, req.ProfileID)
		if err != nil {
			return nil, err
		}
		minPriority, err := parsePriority(req.MinPriority, domain.PriorityMinimal)
		if err != nil {
			return nil, err
		}
		return deps.Scorer.Filter(req.Items, profile, minPriority), nil
	}
}

func rankByUrgency(deps Deps) HandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req struct {
			ProfileID string                   `json:"profile_id"`
			Items     []domain.InformationItem `json:"items"`
		}
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		profile, err := deps.Profiles.Get(ctx, req.ProfileID)
		if err != nil {
			return nil, err
		}
		return deps.Scorer.RankByUrgency(req.Items, profile, time.Now().UTC()), nil
	}
}

func synthesizeInformation(deps Deps) HandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req struct {
			ProfileID string                   `json:"profile_id"`
			Items     []domain.InformationItem `json:"items"`
		}
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		profile, err := deps.Profiles.Get(ctx, req.ProfileID)
		if err != nil {
			return nil, err
		}

		scored := make([]domain.ScoredItem, 0, len(req.Items))
		for _, item := range req.Items {
			scored = append(scored, deps.Scorer.Score(item, profile))
		}
		return deps.Synthesizer.Synthesize(scored)
	}
}

func createDecision(deps Deps) HandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req struct {
			ProfileID string          `json:"profile_id"`
			Title     string          `json:"title"`
			Options   []domain.Option `json:"options"`
		}
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		decision, err := deps.Decisions.Create(ctx, req.ProfileID, req.Title, req.Options)
		if err != nil {
			return nil, err
		}
		return map[string]any{"decision_id": decision.ID}, nil
	}
}

func updateDecision(deps Deps) HandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req struct {
			DecisionID    string `json:"decision_id"`
			Action        string `json:"action"`
			Option        string `json:"option"`
			OutcomeRating *int   `json:"outcome_rating"`
		}
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		if err := requireField("decision_id", req.DecisionID); err != nil {
			return nil, err
		}

		switch req.Action {
		case "evaluate":
			return deps.Decisions.Evaluate(ctx, req.DecisionID)
		case "resolve":
			if err := requireField("option", req.Option); err != nil {
				return nil, err
			}
			return deps.Decisions.Resolve(ctx, req.DecisionID, req.Option, req.OutcomeRating)
		default:
			return nil, &domain.ValidationError{Field: "action", Reason: "must be evaluate or resolve"}
		}
	}
}

func getDecisionRecommendation(deps Deps) HandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req struct {
			DecisionID string `json:"decision_id"`
		}
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		if err := requireField("decision_id", req.DecisionID); err != nil {
			return nil, err
		}
		return deps.Decisions.Recommend(ctx, req.DecisionID)
	}
}

func monitorTopic(deps Deps) HandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req struct {
			Action            string   `json:"action"`
			ProfileID         string   `json:"profile_id"`
			TopicID           string   `json:"topic_id"`
			Name              string   `json:"name"`
			Keywords          []string `json:"keywords"`
			PriorityThreshold string   `json:"priority_threshold"`
		}
		if err := decode(payload, &req); err != nil {
			return nil, err
		}

		switch req.Action {
		case "add":
			threshold, err := parsePriority(req.PriorityThreshold, domain.PriorityMedium)
			if err != nil {
				return nil, err
			}
			return deps.Monitor.Add(ctx, req.ProfileID, req.Name, req.Keywords, threshold)
		case "remove":
			if err := requireField("topic_id", req.TopicID); err != nil {
				return nil, err
			}
			if err := deps.Monitor.Remove(ctx, req.TopicID); err != nil {
				return nil, err
			}
			return map[string]any{"topic_id": req.TopicID, "active": false}, nil
		case "list":
			return deps.Monitor.List(ctx, req.ProfileID)
		default:
			return nil, &domain.ValidationError{Field: "action", Reason: "must be add, remove or list"}
		}
	}
}

func checkTopics(deps Deps) HandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req struct {
			ProfileID string                   `json:"profile_id"`
			Items     []domain.InformationItem `json:"items"`
		}
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return deps.Monitor.CheckItems(ctx, req.ProfileID, req.Items)
	}
}

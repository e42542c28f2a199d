package ports

import (
	"context"

	"infoflow/internal/domain"
)

// ProfileStore persists user preference vectors. Implementations return
// NotFoundError for unknown ids and must make Upsert atomic per profile.
type ProfileStore interface {
	Get(ctx context.Context, id string) (*domain.UserProfile, error)
	Upsert(ctx context.Context, profile *domain.UserProfile) error
}

// DecisionStore persists decision records. UpdateStatus writes the decision
// only when the stored status still equals from, preserving the lifecycle
// invariants under concurrent writers; a stale status yields
// InvalidStateError.
type DecisionStore interface {
	Get(ctx context.Context, id string) (*domain.Decision, error)
	Create(ctx context.Context, decision *domain.Decision) error
	UpdateStatus(ctx context.Context, decision *domain.Decision, from domain.DecisionStatus) error
}

// TopicStore persists monitored topics and their alert history. Deactivate
// keeps the row (and all alerts) but removes the topic from active listings.
type TopicStore interface {
	Get(ctx context.Context, id string) (*domain.MonitoredTopic, error)
	Create(ctx context.Context, topic *domain.MonitoredTopic) error
	ListByProfile(ctx context.Context, profileID string, activeOnly bool) ([]domain.MonitoredTopic, error)
	Deactivate(ctx context.Context, id string) error
	SaveAlert(ctx context.Context, alert *domain.TopicAlert) error
	ListAlerts(ctx context.Context, topicID string) ([]domain.TopicAlert, error)
}

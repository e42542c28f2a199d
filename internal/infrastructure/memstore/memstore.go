// Package memstore provides volatile store implementations backed by process
// local maps. They are safe for concurrent access and best suited for tests
// or ephemeral deployments; every read returns a defensive copy.
package memstore

import (
	"context"
	"sort"
	"sync"

	"infoflow/internal/domain"
	"infoflow/internal/ports"
)

// ProfileStore keeps profiles in memory.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]*domain.UserProfile
}

var _ ports.ProfileStore = (*ProfileStore)(nil)

// NewProfileStore constructs an empty in-memory profile store.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: map[string]*domain.UserProfile{}}
}

// Get returns a clone of the stored profile or NotFoundError.
func (s *ProfileStore) Get(_ context.Context, id string) (*domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "profile", ID: id}
	}
	return profile.Clone(), nil
}

// Upsert stores a clone of the profile snapshot.
func (s *ProfileStore) Upsert(_ context.Context, profile *domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.ID] = profile.Clone()
	return nil
}

// DecisionStore keeps decisions in memory.
type DecisionStore struct {
	mu        sync.RWMutex
	decisions map[string]*domain.Decision
}

var _ ports.DecisionStore = (*DecisionStore)(nil)

// NewDecisionStore constructs an empty in-memory decision store.
func NewDecisionStore() *DecisionStore {
	return &DecisionStore{decisions: map[string]*domain.Decision{}}
}

// Get returns a clone of the stored decision or NotFoundError.
func (s *DecisionStore) Get(_ context.Context, id string) (*domain.Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	decision, ok := s.decisions[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "decision", ID: id}
	}
	return decision.Clone(), nil
}

// Create stores a clone of the new decision.
func (s *DecisionStore) Create(_ context.Context, decision *domain.Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decisions[decision.ID] = decision.Clone()
	return nil
}

// UpdateStatus writes the decision only when the stored status still equals
// from; a stale status yields InvalidStateError.
func (s *DecisionStore) UpdateStatus(_ context.Context, decision *domain.Decision, from domain.DecisionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.decisions[decision.ID]
	if !ok {
		return &domain.NotFoundError{Entity: "decision", ID: decision.ID}
	}
	if current.Status != from {
		return &domain.InvalidStateError{Entity: "decision", ID: decision.ID, State: string(current.Status), Op: "update"}
	}
	s.decisions[decision.ID] = decision.Clone()
	return nil
}

// TopicStore keeps topics and their alerts in memory.
type TopicStore struct {
	mu     sync.RWMutex
	topics map[string]*domain.MonitoredTopic
	alerts map[string][]domain.TopicAlert
}

var _ ports.TopicStore = (*TopicStore)(nil)

// NewTopicStore constructs an empty in-memory topic store.
func NewTopicStore() *TopicStore {
	return &TopicStore{topics: map[string]*domain.MonitoredTopic{}, alerts: map[string][]domain.TopicAlert{}}
}

// Get returns a clone of the stored topic or NotFoundError.
func (s *TopicStore) Get(_ context.Context, id string) (*domain.MonitoredTopic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	topic, ok := s.topics[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "topic", ID: id}
	}
	return topic.Clone(), nil
}

// Create stores a clone of the new topic.
func (s *TopicStore) Create(_ context.Context, topic *domain.MonitoredTopic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topics[topic.ID] = topic.Clone()
	return nil
}

// ListByProfile returns the profile's topics ordered by creation time, then
// id for equal timestamps.
func (s *TopicStore) ListByProfile(_ context.Context, profileID string, activeOnly bool) ([]domain.MonitoredTopic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.MonitoredTopic
	for _, topic := range s.topics {
		if topic.ProfileID != profileID {
			continue
		}
		if activeOnly && !topic.Active {
			continue
		}
		result = append(result, *topic.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// Deactivate flags the topic inactive, keeping the row and its alerts.
func (s *TopicStore) Deactivate(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	topic, ok := s.topics[id]
	if !ok {
		return &domain.NotFoundError{Entity: "topic", ID: id}
	}
	topic.Active = false
	return nil
}

// SaveAlert appends the alert to the topic's history.
func (s *TopicStore) SaveAlert(_ context.Context, alert *domain.TopicAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts[alert.TopicID] = append(s.alerts[alert.TopicID], *alert)
	return nil
}

// ListAlerts returns the topic's alerts, newest first.
func (s *TopicStore) ListAlerts(_ context.Context, topicID string) ([]domain.TopicAlert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.alerts[topicID]
	result := make([]domain.TopicAlert, len(history))
	copy(result, history)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

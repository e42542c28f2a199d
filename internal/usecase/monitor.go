package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"infoflow/internal/domain"
	"infoflow/internal/ports"
)

// TopicMonitor maintains watched topics and evaluates incoming items against
// them. Evaluation is pull-driven: callers hand items in, nothing is
// scheduled internally.
type TopicMonitor struct {
	topics   ports.TopicStore
	profiles ports.ProfileStore
	scorer   *Scorer
	logger   *slog.Logger
}

// NewTopicMonitor wires the stores and the scorer used for threshold checks.
func NewTopicMonitor(topics ports.TopicStore, profiles ports.ProfileStore, scorer *Scorer, logger *slog.Logger) *TopicMonitor {
	return &TopicMonitor{topics: topics, profiles: profiles, scorer: scorer, logger: logger}
}

// Add creates an active topic for the profile. At least one non-blank
// keyword is required.
func (m *TopicMonitor) Add(ctx context.Context, profileID, name string, keywords []string, threshold domain.Priority) (*domain.MonitoredTopic, error) {
	cleaned := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			cleaned = append(cleaned, kw)
		}
	}
	if len(cleaned) == 0 {
		return nil, &domain.ValidationError{Field: "keywords", Reason: "at least one keyword is required"}
	}
	if !threshold.Valid() {
		return nil, &domain.ValidationError{Field: "priority_threshold", Reason: fmt.Sprintf("unknown tier %d", int(threshold))}
	}
	if _, err := m.profiles.Get(ctx, profileID); err != nil {
		return nil, err
	}

	topic := &domain.MonitoredTopic{
		ID:                uuid.NewString(),
		ProfileID:         profileID,
		Name:              name,
		Keywords:          cleaned,
		PriorityThreshold: threshold,
		Active:            true,
		CreatedAt:         time.Now().UTC(),
	}
	if err := m.topics.Create(ctx, topic); err != nil {
		return nil, fmt.Errorf("store topic: %w", err)
	}

	if m.logger != nil {
		m.logger.Info("topic added", "topic_id", topic.ID, "profile_id", profileID, "keywords", len(cleaned))
	}
	return topic, nil
}

// Remove deactivates the topic. Its alert history stays.
func (m *TopicMonitor) Remove(ctx context.Context, topicID string) error {
	if err := m.topics.Deactivate(ctx, topicID); err != nil {
		return err
	}
	if m.logger != nil {
		m.logger.Info("topic deactivated", "topic_id", topicID)
	}
	return nil
}

// List returns all topics of the profile, active or not.
func (m *TopicMonitor) List(ctx context.Context, profileID string) ([]domain.MonitoredTopic, error) {
	if _, err := m.profiles.Get(ctx, profileID); err != nil {
		return nil, err
	}
	return m.topics.ListByProfile(ctx, profileID, false)
}

// Evaluate returns the ids of the profile's active topics triggered by the
// item: a keyword matches a tag or a content substring (case-insensitive)
// and the item's priority under the owner's profile clears the topic
// threshold.
func (m *TopicMonitor) Evaluate(ctx context.Context, profileID string, item domain.InformationItem) ([]string, error) {
	profile, err := m.profiles.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	topics, err := m.topics.ListByProfile(ctx, profileID, true)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}

	scored := m.scorer.Score(item, profile)
	var triggered []string
	for _, topic := range topics {
		if scored.Priority >= topic.PriorityThreshold && topicMatches(topic, item) {
			triggered = append(triggered, topic.ID)
		}
	}
	return triggered, nil
}

// CheckItems evaluates a batch of items and records one alert per triggered
// (topic, item) pair whose priority also clears the profile's notification
// threshold. The recorded alerts are returned in evaluation order.
func (m *TopicMonitor) CheckItems(ctx context.Context, profileID string, items []domain.InformationItem) ([]domain.TopicAlert, error) {
	profile, err := m.profiles.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	topics, err := m.topics.ListByProfile(ctx, profileID, true)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}

	var alerts []domain.TopicAlert
	for _, item := range items {
		scored := m.scorer.Score(item, profile)
		if scored.Priority < profile.NotificationThreshold {
			continue
		}
		for _, topic := range topics {
			if scored.Priority < topic.PriorityThreshold || !topicMatches(topic, item) {
				continue
			}
			alert := domain.TopicAlert{
				ID:        uuid.NewString(),
				TopicID:   topic.ID,
				ItemID:    item.ID,
				Priority:  scored.Priority,
				Message:   fmt.Sprintf("topic %q matched item %s (%s)", topic.Name, item.ID, scored.Priority),
				CreatedAt: time.Now().UTC(),
			}
			if err := m.topics.SaveAlert(ctx, &alert); err != nil {
				return nil, fmt.Errorf("store alert for topic %s: %w", topic.ID, err)
			}
			alerts = append(alerts, alert)
		}
	}

	if m.logger != nil {
		m.logger.Info("topics checked", "profile_id", profileID, "items", len(items), "alerts", len(alerts))
	}
	return alerts, nil
}

// Alerts returns the alert history of a topic, newest first. The topic may
// already be deactivated.
func (m *TopicMonitor) Alerts(ctx context.Context, topicID string) ([]domain.TopicAlert, error) {
	if _, err := m.topics.Get(ctx, topicID); err != nil {
		return nil, err
	}
	return m.topics.ListAlerts(ctx, topicID)
}

func topicMatches(topic domain.MonitoredTopic, item domain.InformationItem) bool {
	content := strings.ToLower(item.Content)
	for _, kw := range topic.Keywords {
		needle := strings.ToLower(kw)
		for _, tag := range item.Tags {
			if strings.ToLower(tag) == needle {
				return true
			}
		}
		if needle != "" && strings.Contains(content, needle) {
			return true
		}
	}
	return false
}

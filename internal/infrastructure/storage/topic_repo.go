package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"infoflow/internal/domain"
	"infoflow/internal/ports"
)

// TopicRepository persists monitored topics and their alert history.
type TopicRepository struct {
	db *sql.DB
}

var _ ports.TopicStore = (*TopicRepository)(nil)

// NewTopicRepository wires a sql.DB implementation.
func NewTopicRepository(db *sql.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

// Get loads the topic row or returns NotFoundError.
func (r *TopicRepository) Get(ctx context.Context, id string) (*domain.MonitoredTopic, error) {
	query, args, err := builder.
		Select("id", "profile_id", "name", "keywords", "priority_threshold", "active", "created_at").
		From("topics").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build topic query: %w", err)
	}

	topic, err := scanTopic(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "topic", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("scan topic %s: %w", id, err)
	}
	return topic, nil
}

// Create inserts a new topic row.
func (r *TopicRepository) Create(ctx context.Context, topic *domain.MonitoredTopic) error {
	keywords, err := json.Marshal(topic.Keywords)
	if err != nil {
		return fmt.Errorf("encode keywords: %w", err)
	}

	query, args, err := builder.
		Insert("topics").
		Columns("id", "profile_id", "name", "keywords", "priority_threshold", "active", "created_at").
		Values(topic.ID, topic.ProfileID, topic.Name, string(keywords),
			int(topic.PriorityThreshold), topic.Active, formatTime(topic.CreatedAt)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build topic insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert topic %s: %w", topic.ID, err)
	}
	return nil
}

// ListByProfile returns the profile's topics in creation order.
func (r *TopicRepository) ListByProfile(ctx context.Context, profileID string, activeOnly bool) ([]domain.MonitoredTopic, error) {
	q := builder.
		Select("id", "profile_id", "name", "keywords", "priority_threshold", "active", "created_at").
		From("topics").
		Where("profile_id = ?", profileID).
		OrderBy("created_at", "id")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build topic list: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list topics for %s: %w", profileID, err)
	}
	defer rows.Close()

	var topics []domain.MonitoredTopic
	for rows.Next() {
		topic, err := scanTopic(rows)
		if err != nil {
			return nil, fmt.Errorf("scan topic row: %w", err)
		}
		topics = append(topics, *topic)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("topic rows: %w", err)
	}
	return topics, nil
}

// Deactivate flags the topic inactive; the row and its alerts remain.
func (r *TopicRepository) Deactivate(ctx context.Context, id string) error {
	query, args, err := builder.
		Update("topics").
		Set("active", false).
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return fmt.Errorf("build topic deactivate: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deactivate topic %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate topic %s: %w", id, err)
	}
	if affected == 0 {
		return &domain.NotFoundError{Entity: "topic", ID: id}
	}
	return nil
}

// SaveAlert appends one alert row to the topic's history.
func (r *TopicRepository) SaveAlert(ctx context.Context, alert *domain.TopicAlert) error {
	query, args, err := builder.
		Insert("topic_alerts").
		Columns("id", "topic_id", "item_id", "priority", "message", "created_at").
		Values(alert.ID, alert.TopicID, alert.ItemID, int(alert.Priority), alert.Message, formatTime(alert.CreatedAt)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build alert insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert alert %s: %w", alert.ID, err)
	}
	return nil
}

// ListAlerts returns the topic's alerts, newest first.
func (r *TopicRepository) ListAlerts(ctx context.Context, topicID string) ([]domain.TopicAlert, error) {
	query, args, err := builder.
		Select("id", "topic_id", "item_id", "priority", "message", "created_at").
		From("topic_alerts").
		Where("topic_id = ?", topicID).
		OrderBy("created_at DESC", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build alert list: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts for %s: %w", topicID, err)
	}
	defer rows.Close()

	var alerts []domain.TopicAlert
	for rows.Next() {
		var (
			alert     domain.TopicAlert
			createdAt string
		)
		if err := rows.Scan(&alert.ID, &alert.TopicID, &alert.ItemID, &alert.Priority, &alert.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("scan alert row: %w", err)
		}
		if alert.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("alert %s created_at: %w", alert.ID, err)
		}
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("alert rows: %w", err)
	}
	return alerts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTopic(row rowScanner) (*domain.MonitoredTopic, error) {
	var (
		topic       domain.MonitoredTopic
		keywordsRaw string
		createdAt   string
	)
	if err := row.Scan(&topic.ID, &topic.ProfileID, &topic.Name, &keywordsRaw,
		&topic.PriorityThreshold, &topic.Active, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(keywordsRaw), &topic.Keywords); err != nil {
		return nil, fmt.Errorf("decode keywords: %w", err)
	}
	var err error
	if topic.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	return &topic, nil
}

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"infoflow/internal/domain"
	"infoflow/internal/ports"
)

// ProfileRepository persists user profiles in the profiles table.
type ProfileRepository struct {
	db *sql.DB
}

var _ ports.ProfileStore = (*ProfileRepository)(nil)

// NewProfileRepository wires a sql.DB implementation.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get loads the profile row or returns NotFoundError.
func (r *ProfileRepository) Get(ctx context.Context, id string) (*domain.UserProfile, error) {
	query, args, err := builder.
		Select("id", "interests", "risk_tolerance", "decision_style", "notification_threshold", "created_at", "updated_at").
		From("profiles").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build profile query: %w", err)
	}

	var (
		profile      domain.UserProfile
		interestsRaw string
		createdAt    string
		updatedAt    string
	)
	row := r.db.QueryRowContext(ctx, query, args...)
	err = row.Scan(&profile.ID, &interestsRaw, &profile.RiskTolerance, &profile.DecisionStyle,
		&profile.NotificationThreshold, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "profile", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(interestsRaw), &profile.Interests); err != nil {
		return nil, fmt.Errorf("decode interests for profile %s: %w", id, err)
	}
	if profile.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("profile %s created_at: %w", id, err)
	}
	if profile.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("profile %s updated_at: %w", id, err)
	}
	return &profile, nil
}

// Upsert inserts the profile or overwrites the mutable columns in place.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *domain.UserProfile) error {
	interests, err := json.Marshal(profile.Interests)
	if err != nil {
		return fmt.Errorf("encode interests: %w", err)
	}

	query, args, err := builder.
		Insert("profiles").
		Columns("id", "interests", "risk_tolerance", "decision_style", "notification_threshold", "created_at", "updated_at").
		Values(profile.ID, string(interests), string(profile.RiskTolerance), string(profile.DecisionStyle),
			int(profile.NotificationThreshold), formatTime(profile.CreatedAt), formatTime(profile.UpdatedAt)).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			interests = excluded.interests,
			risk_tolerance = excluded.risk_tolerance,
			decision_style = excluded.decision_style,
			notification_threshold = excluded.notification_threshold,
			updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build profile upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert profile %s: %w", profile.ID, err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}

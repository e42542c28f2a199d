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

// DecisionRepository persists decisions in the decisions table. Options and
// scores are serialized as JSON columns; they belong to the decision entity
// and are never referenced across tables.
type DecisionRepository struct {
	db *sql.DB
}

var _ ports.DecisionStore = (*DecisionRepository)(nil)

// NewDecisionRepository wires a sql.DB implementation.
func NewDecisionRepository(db *sql.DB) *DecisionRepository {
	return &DecisionRepository{db: db}
}

// Get loads the decision row or returns NotFoundError.
func (r *DecisionRepository) Get(ctx context.Context, id string) (*domain.Decision, error) {
	query, args, err := builder.
		Select("id", "profile_id", "title", "options", "scores", "status", "chosen_option", "outcome_rating", "created_at", "updated_at").
		From("decisions").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build decision query: %w", err)
	}

	var (
		decision   domain.Decision
		optionsRaw string
		scoresRaw  sql.NullString
		chosen     sql.NullString
		rating     sql.NullInt64
		createdAt  string
		updatedAt  string
	)
	row := r.db.QueryRowContext(ctx, query, args...)
	err = row.Scan(&decision.ID, &decision.ProfileID, &decision.Title, &optionsRaw, &scoresRaw,
		&decision.Status, &chosen, &rating, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "decision", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("scan decision %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(optionsRaw), &decision.Options); err != nil {
		return nil, fmt.Errorf("decode options for decision %s: %w", id, err)
	}
	if scoresRaw.Valid && scoresRaw.String != "" {
		if err := json.Unmarshal([]byte(scoresRaw.String), &decision.Scores); err != nil {
			return nil, fmt.Errorf("decode scores for decision %s: %w", id, err)
		}
	}
	if chosen.Valid {
		decision.ChosenOption = &chosen.String
	}
	if rating.Valid {
		value := int(rating.Int64)
		decision.OutcomeRating = &value
	}
	if decision.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("decision %s created_at: %w", id, err)
	}
	if decision.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("decision %s updated_at: %w", id, err)
	}
	return &decision, nil
}

// Create inserts a new decision row.
func (r *DecisionRepository) Create(ctx context.Context, decision *domain.Decision) error {
	options, err := json.Marshal(decision.Options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}

	query, args, err := builder.
		Insert("decisions").
		Columns("id", "profile_id", "title", "options", "scores", "status", "chosen_option", "outcome_rating", "created_at", "updated_at").
		Values(decision.ID, decision.ProfileID, decision.Title, string(options), nil,
			string(decision.Status), nil, nil, formatTime(decision.CreatedAt), formatTime(decision.UpdatedAt)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build decision insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert decision %s: %w", decision.ID, err)
	}
	return nil
}

// UpdateStatus writes the lifecycle columns guarded by the previous status.
// When the guard misses, the stored row is re-read to distinguish a missing
// decision from a stale transition.
func (r *DecisionRepository) UpdateStatus(ctx context.Context, decision *domain.Decision, from domain.DecisionStatus) error {
	var scores any
	if decision.Scores != nil {
		encoded, err := json.Marshal(decision.Scores)
		if err != nil {
			return fmt.Errorf("encode scores: %w", err)
		}
		scores = string(encoded)
	}
	var chosen any
	if decision.ChosenOption != nil {
		chosen = *decision.ChosenOption
	}
	var rating any
	if decision.OutcomeRating != nil {
		rating = *decision.OutcomeRating
	}

	query, args, err := builder.
		Update("decisions").
		Set("scores", scores).
		Set("status", string(decision.Status)).
		Set("chosen_option", chosen).
		Set("outcome_rating", rating).
		Set("updated_at", formatTime(decision.UpdatedAt)).
		Where("id = ? AND status = ?", decision.ID, string(from)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build decision update: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update decision %s: %w", decision.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update decision %s: %w", decision.ID, err)
	}
	if affected == 0 {
		stored, getErr := r.Get(ctx, decision.ID)
		if getErr != nil {
			return getErr
		}
		return &domain.InvalidStateError{Entity: "decision", ID: decision.ID, State: string(stored.Status), Op: "update"}
	}
	return nil
}

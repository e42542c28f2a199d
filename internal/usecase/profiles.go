package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"infoflow/internal/domain"
	"infoflow/internal/ports"
)

// Profiles implements the profile-store operations: explicit upserts of the
// recognized fields and id lookups. No other component writes profiles.
type Profiles struct {
	store  ports.ProfileStore
	logger *slog.Logger
}

// NewProfiles wires the persistence port.
func NewProfiles(store ports.ProfileStore, logger *slog.Logger) *Profiles {
	return &Profiles{store: store, logger: logger}
}

// CreateOrUpdate upserts the profile. A missing profile is created with
// defaults first, then the update is applied; validation failures leave the
// stored row untouched.
func (p *Profiles) CreateOrUpdate(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.UserProfile, error) {
	if id == "" {
		return nil, &domain.ValidationError{Field: "profile_id", Reason: "must not be empty"}
	}

	now := time.Now().UTC()
	profile, err := p.store.Get(ctx, id)
	switch {
	case err == nil:
	case errors.As(err, new(*domain.NotFoundError)):
		profile = domain.NewUserProfile(id, now)
	default:
		return nil, fmt.Errorf("load profile %s: %w", id, err)
	}

	if err := update.Apply(profile, now); err != nil {
		return nil, err
	}

	if err := p.store.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("store profile %s: %w", id, err)
	}

	if p.logger != nil {
		p.logger.Info("profile stored", "profile_id", id, "interests", len(profile.Interests))
	}
	return profile, nil
}

// Get returns the stored profile or NotFoundError.
func (p *Profiles) Get(ctx context.Context, id string) (*domain.UserProfile, error) {
	if id == "" {
		return nil, &domain.ValidationError{Field: "profile_id", Reason: "must not be empty"}
	}
	return p.store.Get(ctx, id)
}

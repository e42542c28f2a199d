package usecase

import (
	"context"
	"errors"
	"testing"

	"infoflow/internal/domain"
	"infoflow/internal/infrastructure/memstore"
)

func TestCreateOrUpdateCreatesWithDefaults(t *testing.T) {
	t.Parallel()

	profiles := NewProfiles(memstore.NewProfileStore(), nil)
	profile, err := profiles.CreateOrUpdate(context.Background(), "u1", domain.ProfileUpdate{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.RiskTolerance != domain.RiskMedium {
		t.Fatalf("expected medium tolerance default, got %s", profile.RiskTolerance)
	}
	if profile.DecisionStyle != domain.StyleAnalytical {
		t.Fatalf("expected analytical style default, got %s", profile.DecisionStyle)
	}
	if profile.NotificationThreshold != domain.PriorityMedium {
		t.Fatalf("expected medium threshold default, got %s", profile.NotificationThreshold)
	}
	if len(profile.Interests) != 0 {
		t.Fatalf("expected empty interests, got %v", profile.Interests)
	}
}

func TestCreateOrUpdateRequiresID(t *testing.T) {
	t.Parallel()

	profiles := NewProfiles(memstore.NewProfileStore(), nil)
	_, err := profiles.CreateOrUpdate(context.Background(), "", domain.ProfileUpdate{})
	if !errors.As(err, new(*domain.ValidationError)) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCreateOrUpdateMergesFields(t *testing.T) {
	t.Parallel()

	profiles := NewProfiles(memstore.NewProfileStore(), nil)
	if _, err := profiles.CreateOrUpdate(context.Background(), "u1", domain.ProfileUpdate{
		Interests: map[string]float64{"ai": 2.0},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	style := domain.StyleIntuitive
	updated, err := profiles.CreateOrUpdate(context.Background(), "u1", domain.ProfileUpdate{DecisionStyle: &style})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.DecisionStyle != domain.StyleIntuitive {
		t.Fatalf("style not applied: %s", updated.DecisionStyle)
	}
	if updated.Interests["ai"] != 2.0 {
		t.Fatalf("omitted interests must survive the update, got %v", updated.Interests)
	}
}

func TestCreateOrUpdateRejectsInvalidUpdateAtomically(t *testing.T) {
	t.Parallel()

	store := memstore.NewProfileStore()
	profiles := NewProfiles(store, nil)
	if _, err := profiles.CreateOrUpdate(context.Background(), "u1", domain.ProfileUpdate{
		Interests: map[string]float64{"ai": 1.0},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	bad := domain.RiskTolerance("reckless")
	_, err := profiles.CreateOrUpdate(context.Background(), "u1", domain.ProfileUpdate{
		Interests:     map[string]float64{"finance": 3.0},
		RiskTolerance: &bad,
	})
	if !errors.As(err, new(*domain.ValidationError)) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	stored, err := profiles.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, ok := stored.Interests["finance"]; ok {
		t.Fatal("rejected update must not leak partial changes")
	}
}

func TestCreateOrUpdateRejectsNegativeWeight(t *testing.T) {
	t.Parallel()

	profiles := NewProfiles(memstore.NewProfileStore(), nil)
	_, err := profiles.CreateOrUpdate(context.Background(), "u1", domain.ProfileUpdate{
		Interests: map[string]float64{"ai": -0.5},
	})
	if !errors.As(err, new(*domain.ValidationError)) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestGetMissingProfile(t *testing.T) {
	t.Parallel()

	profiles := NewProfiles(memstore.NewProfileStore(), nil)
	_, err := profiles.Get(context.Background(), "ghost")
	if !errors.As(err, new(*domain.NotFoundError)) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

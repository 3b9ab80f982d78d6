package usecase

import (
	"context"
	"fmt"
	"time"

	"main/config"
	"main/model"
)

// SettingsStore is the settings slice of the shield repository.
type SettingsStore interface {
	Get(ctx context.Context, userID string) (*model.ShieldSettings, error)
	Upsert(ctx context.Context, settings *model.ShieldSettings) error
}

// SettingsService reads and writes the user-editable shield settings.
// Like guardians, settings freeze once an activation is underway; the
// confirmation threshold a collecting request uses was snapshotted at
// creation anyway, so an edit racing the freeze check cannot move it.
type SettingsService struct {
	Settings SettingsStore
	Config   config.ShieldConfig
}

// Get returns the user's settings, falling back to defaults for a user
// who never configured the shield.
func (s *SettingsService) Get(ctx context.Context, userID string) (*model.ShieldSettings, error) {
	settings, err := s.Settings.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shield settings: %w", err)
	}
	if settings == nil {
		return &model.ShieldSettings{
			UserID:                 userID,
			IsShieldEnabled:        false,
			InactivityPeriodMonths: s.Config.DefaultInactivityMonths,
			RequiredGuardians:      s.Config.DefaultRequiredGuardians,
			ShieldStatus:           model.ShieldInactive,
			LastActivityAt:         time.Now().UTC(),
		}, nil
	}
	return settings, nil
}

// Update writes the editable fields. Rejected while the shield has left
// inactive.
func (s *SettingsService) Update(ctx context.Context, userID string, enabled bool, months, required int) (*model.ShieldSettings, error) {
	existing, err := s.Settings.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shield settings: %w", err)
	}
	if existing != nil && existing.ShieldStatus != model.ShieldInactive {
		return nil, fmt.Errorf("settings are frozen while shield is %s: %w", existing.ShieldStatus, model.ErrStateConflict)
	}

	settings := &model.ShieldSettings{
		UserID:                 userID,
		IsShieldEnabled:        enabled,
		InactivityPeriodMonths: months,
		RequiredGuardians:      required,
	}

	if err := s.Settings.Upsert(ctx, settings); err != nil {
		return nil, err
	}

	return s.Get(ctx, userID)
}

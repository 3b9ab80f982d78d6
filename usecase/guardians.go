package usecase

import (
	"context"
	"fmt"
	"time"

	"main/model"
	"main/utils"
)

// GuardianWriteStore extends GuardianStore with the mutating operations
// used by the owning user.
type GuardianWriteStore interface {
	GuardianStore
	Create(ctx context.Context, guardian *model.Guardian) error
	Update(ctx context.Context, guardian *model.Guardian) (int64, error)
	Delete(ctx context.Context, userID, guardianID string) (int64, error)
}

// GuardianManager handles the owning user's guardian roster. Guardians
// freeze the moment an activation leaves inactive: no creation, edits or
// removal while a request is pending or the shield is active, closing
// the last-minute privilege escalation hole.
type GuardianManager struct {
	Guardians GuardianWriteStore
	Shields   ShieldStore
}

func (m *GuardianManager) frozen(ctx context.Context, userID string) error {
	settings, err := m.Shields.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load shield settings: %w", err)
	}
	if settings != nil && settings.ShieldStatus != model.ShieldInactive {
		return fmt.Errorf("guardians are frozen while shield is %s: %w", settings.ShieldStatus, model.ErrStateConflict)
	}
	return nil
}

func (m *GuardianManager) Create(ctx context.Context, guardian *model.Guardian) error {
	if err := m.frozen(ctx, guardian.UserID); err != nil {
		return err
	}

	guardian.ID = utils.GenerateID()
	guardian.CreatedAt = time.Now().UTC()
	guardian.UpdatedAt = guardian.CreatedAt

	return m.Guardians.Create(ctx, guardian)
}

func (m *GuardianManager) Update(ctx context.Context, guardian *model.Guardian) error {
	if err := m.frozen(ctx, guardian.UserID); err != nil {
		return err
	}

	matched, err := m.Guardians.Update(ctx, guardian)
	if err != nil {
		return err
	}
	if matched == 0 {
		return fmt.Errorf("guardian %s: %w", guardian.ID, model.ErrNotFound)
	}
	return nil
}

func (m *GuardianManager) Delete(ctx context.Context, userID, guardianID string) error {
	if err := m.frozen(ctx, userID); err != nil {
		return err
	}

	deleted, err := m.Guardians.Delete(ctx, userID, guardianID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return fmt.Errorf("guardian %s: %w", guardianID, model.ErrNotFound)
	}
	return nil
}

func (m *GuardianManager) List(ctx context.Context, userID string) ([]*model.Guardian, error) {
	return m.Guardians.ListByUser(ctx, userID)
}

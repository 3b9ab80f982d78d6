package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"main/model"
	"main/utils"
)

// ShieldStateMachine owns every write to ShieldSettings.shield_status.
// The legal graph is:
//
//	inactive -> pending_verification   (inactivity threshold breached)
//	pending_verification -> active     (guardian quorum met)
//	pending_verification -> inactive   (window expired or user resumed)
//	active -> inactive                 (user resumed)
//
// Each edge is a compare-and-set on the stored status; losing the race
// surfaces as model.ErrStateConflict, never as a partial write.
type ShieldStateMachine struct {
	Shields ShieldStore
	Tokens  TokenStore
	Cache   StatusCache // optional
}

// Status returns the user's shield status, preferring the cache.
func (m *ShieldStateMachine) Status(ctx context.Context, userID string) (model.ShieldStatus, error) {
	if m.Cache != nil {
		if status, err := m.Cache.Get(ctx, userID); err == nil && status != "" {
			return status, nil
		}
	}

	settings, err := m.Shields.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load shield settings: %w", err)
	}
	if settings == nil {
		return "", fmt.Errorf("no shield settings for user %s: %w", userID, model.ErrNotFound)
	}

	if m.Cache != nil {
		if err := m.Cache.Set(ctx, userID, settings.ShieldStatus); err != nil {
			log.Printf("shield status cache write failed for %s: %v", userID, err)
		}
	}

	return settings.ShieldStatus, nil
}

// BeginVerification moves inactive -> pending_verification.
func (m *ShieldStateMachine) BeginVerification(ctx context.Context, userID string) error {
	if err := m.Shields.CompareAndSetStatus(ctx, userID, model.ShieldInactive, model.ShieldPendingVerification); err != nil {
		return err
	}
	m.afterTransition(ctx, userID, model.ShieldInactive, model.ShieldPendingVerification)
	return nil
}

// Activate moves pending_verification -> active. Called exactly once per
// activation request by the quorum coordinator.
func (m *ShieldStateMachine) Activate(ctx context.Context, userID string) error {
	if err := m.Shields.CompareAndSetStatus(ctx, userID, model.ShieldPendingVerification, model.ShieldActive); err != nil {
		return err
	}
	m.afterTransition(ctx, userID, model.ShieldPendingVerification, model.ShieldActive)
	return nil
}

// Deactivate moves the shield back to inactive from the given state and
// revokes every outstanding access token for the user. Token revocation
// runs synchronously: a token must fail verification the moment the
// shield leaves active.
func (m *ShieldStateMachine) Deactivate(ctx context.Context, userID string, from model.ShieldStatus) error {
	if from != model.ShieldPendingVerification && from != model.ShieldActive {
		return fmt.Errorf("illegal transition %s -> inactive: %w", from, model.ErrStateConflict)
	}

	if err := m.Shields.CompareAndSetStatus(ctx, userID, from, model.ShieldInactive); err != nil {
		return err
	}
	m.afterTransition(ctx, userID, from, model.ShieldInactive)

	revoked, err := m.Tokens.RevokeAllForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to revoke tokens for %s: %w", userID, err)
	}
	if revoked > 0 {
		utils.TokensRevokedTotal.Add(float64(revoked))
	}

	return nil
}

// IsStateConflict reports whether the error is a lost transition race.
func IsStateConflict(err error) bool {
	return errors.Is(err, model.ErrStateConflict)
}

func (m *ShieldStateMachine) afterTransition(ctx context.Context, userID string, from, to model.ShieldStatus) {
	utils.TrackShieldTransition(string(from), string(to))
	if m.Cache != nil {
		if err := m.Cache.Invalidate(ctx, userID); err != nil {
			log.Printf("shield status cache invalidation failed for %s: %v", userID, err)
		}
	}
}

package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"main/model"
)

// ActivityRecorder handles the user-resumed-activity signal. Any
// authenticated action lands here: it refreshes last_activity_at and,
// when the shield has left inactive, cancels the activation and revokes
// every outstanding access token immediately.
type ActivityRecorder struct {
	Shields      ShieldStore
	Requests     ActivationStore
	Guardians    GuardianStore
	StateMachine *ShieldStateMachine
	Outbox       NotificationOutbox
}

// RecordActivity stamps the activity and resets the shield if needed.
// Returns the shield status after the reset.
func (a *ActivityRecorder) RecordActivity(ctx context.Context, userID string, now time.Time) (model.ShieldStatus, error) {
	if err := a.Shields.RecordActivity(ctx, userID, now); err != nil {
		return "", err
	}

	settings, err := a.Shields.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load shield settings: %w", err)
	}
	if settings == nil {
		return "", fmt.Errorf("no shield settings for user %s: %w", userID, model.ErrNotFound)
	}

	if settings.ShieldStatus == model.ShieldInactive {
		return model.ShieldInactive, nil
	}

	// Cancellation first, then the status transition: a racing expiry
	// sweep loses its compare-and-set either way.
	if _, err := a.Requests.CancelActiveForUser(ctx, userID); err != nil {
		return "", err
	}

	// The read above may already be stale: a quorum confirmation can flip
	// pending_verification to active between it and the compare-and-set
	// below. A lost race therefore never ends the reset; re-read and retry
	// from the fresh state until the shield is observed inactive. User
	// activity always wins.
	status := settings.ShieldStatus
	for status != model.ShieldInactive {
		err := a.StateMachine.Deactivate(ctx, userID, status)
		if err == nil {
			a.notifyCancellation(ctx, status, userID)
			break
		}
		if !IsStateConflict(err) {
			return "", err
		}

		current, rerr := a.Shields.Get(ctx, userID)
		if rerr != nil {
			return "", fmt.Errorf("failed to reload shield settings: %w", rerr)
		}
		if current == nil {
			return "", fmt.Errorf("no shield settings for user %s: %w", userID, model.ErrNotFound)
		}
		status = current.ShieldStatus
	}

	return model.ShieldInactive, nil
}

func (a *ActivityRecorder) notifyCancellation(ctx context.Context, previous model.ShieldStatus, userID string) {
	guardians, err := a.Guardians.ListByUser(ctx, userID)
	if err != nil {
		log.Printf("failed to list guardians for cancellation notice: %v", err)
		return
	}

	for _, g := range guardians {
		if !g.CanTriggerEmergency {
			continue
		}
		notification := &model.GuardianNotification{
			UserID:        userID,
			GuardianID:    g.ID,
			GuardianEmail: g.Email,
			Kind:          model.NotifyShieldCancelled,
			Payload: map[string]string{
				"previous_status": string(previous),
			},
		}
		if err := a.Outbox.Enqueue(ctx, notification); err != nil {
			log.Printf("failed to enqueue cancellation notice for guardian %s: %v", g.ID, err)
		}
	}
}

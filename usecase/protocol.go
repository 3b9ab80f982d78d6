package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"main/config"
	"main/model"
	"main/services"
	"main/utils"
)

// ProtocolResult summarizes one protocol checker run.
type ProtocolResult struct {
	Processed int
	Triggered int
}

// ProtocolChecker is the second periodic job: it expires activation
// requests whose window elapsed without quorum and sends reminder
// notices for windows past their halfway point.
type ProtocolChecker struct {
	Requests     ActivationStore
	Guardians    GuardianStore
	StateMachine *ShieldStateMachine
	Outbox       NotificationOutbox
	Config       config.ShieldConfig
}

func (p *ProtocolChecker) Run(ctx context.Context, now time.Time) (*ProtocolResult, error) {
	result := &ProtocolResult{}

	expired, err := p.Requests.ListCollectingExpired(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired requests: %w", err)
	}

	for _, request := range expired {
		result.Processed++
		if p.expire(ctx, request) {
			result.Triggered++
		}
	}

	collecting, err := p.Requests.ListCollecting(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list collecting requests: %w", err)
	}

	for _, request := range collecting {
		result.Processed++
		result.Triggered += p.remind(ctx, request, now)
	}

	return result, nil
}

// expire closes a request that ran out its window. A cancellation racing
// this sweep wins: its compare-and-set lands first and ours drops out.
func (p *ProtocolChecker) expire(ctx context.Context, request *model.ActivationRequest) bool {
	if err := p.Requests.CompareAndSetStatus(ctx, request.ID, model.ActivationCollecting, model.ActivationExpired); err != nil {
		if !IsStateConflict(err) {
			utils.TrackError("protocol_checker", "expire_failed")
			log.Printf("failed to expire request %s: %v", request.ID, err)
		}
		return false
	}

	if err := p.StateMachine.Deactivate(ctx, request.UserID, model.ShieldPendingVerification); err != nil && !IsStateConflict(err) {
		utils.TrackError("protocol_checker", "deactivate_failed")
		log.Printf("failed to deactivate shield for %s after expiry: %v", request.UserID, err)
	}

	return true
}

// remind re-notifies trigger-capable guardians who have not confirmed a
// request past the halfway point of its window.
func (p *ProtocolChecker) remind(ctx context.Context, request *model.ActivationRequest, now time.Time) int {
	halfway := request.CreatedAt.Add(request.ExpiresAt.Sub(request.CreatedAt) / 2)
	if now.Before(halfway) {
		return 0
	}

	guardians, err := p.Guardians.ListByUser(ctx, request.UserID)
	if err != nil {
		utils.TrackError("protocol_checker", "guardian_list_failed")
		log.Printf("failed to list guardians for reminders on %s: %v", request.ID, err)
		return 0
	}

	sent := 0
	for _, g := range guardians {
		if !g.CanTriggerEmergency || request.HasConfirmation(g.ID) {
			continue
		}

		confirmToken, err := services.GenerateConfirmationToken(request.ID, g.ID, time.Until(request.ExpiresAt))
		if err != nil {
			log.Printf("failed to sign reminder link for guardian %s: %v", g.ID, err)
			continue
		}

		notification := &model.GuardianNotification{
			UserID:        request.UserID,
			GuardianID:    g.ID,
			GuardianEmail: g.Email,
			Kind:          model.NotifyReminder,
			Payload: map[string]string{
				"request_id":       request.ID,
				"confirmation_url": fmt.Sprintf("%s/emergency/confirm?token=%s", p.Config.BaseURL, confirmToken),
				"expires_at":       request.ExpiresAt.Format(time.RFC3339),
			},
		}

		if err := p.Outbox.Enqueue(ctx, notification); err != nil {
			log.Printf("failed to enqueue reminder for guardian %s: %v", g.ID, err)
			continue
		}
		sent++
	}

	return sent
}

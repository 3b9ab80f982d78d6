package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"main/model"
	"main/utils"
)

// ConfirmResult reports the request state after a confirmation.
type ConfirmResult struct {
	Status             model.ActivationStatus `json:"status"`
	ConfirmationsCount int                    `json:"confirmations_count"`
	Required           int                    `json:"required"`
	AlreadyConfirmed   bool                   `json:"already_confirmed"`
}

// QuorumCoordinator collects guardian confirmations and fires the
// pending_verification -> active transition exactly once when the
// threshold is crossed.
type QuorumCoordinator struct {
	Requests     ActivationStore
	Guardians    GuardianStore
	StateMachine *ShieldStateMachine
	Outbox       NotificationOutbox
}

// Confirm records a guardian's confirmation on an activation request.
// Duplicate confirms are no-ops returning success so retries and double
// clicks stay harmless. Confirming an expired or cancelled request is a
// state conflict.
func (q *QuorumCoordinator) Confirm(ctx context.Context, requestID, guardianID string) (*ConfirmResult, error) {
	request, err := q.Requests.Get(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load activation request: %w", err)
	}
	if request == nil {
		return nil, fmt.Errorf("activation request %s: %w", requestID, model.ErrNotFound)
	}

	guardian, err := q.Guardians.Get(ctx, guardianID)
	if err != nil {
		return nil, fmt.Errorf("failed to load guardian: %w", err)
	}
	if guardian == nil {
		return nil, fmt.Errorf("guardian %s: %w", guardianID, model.ErrNotFound)
	}
	if guardian.UserID != request.UserID || !guardian.CanTriggerEmergency {
		utils.QuorumConfirmationsTotal.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("guardian %s cannot confirm request %s: %w", guardianID, requestID, model.ErrForbidden)
	}

	if request.Status.Terminal() {
		// A retry after quorum was reached is still a success.
		if request.Status == model.ActivationQuorumMet && request.HasConfirmation(guardianID) {
			utils.QuorumConfirmationsTotal.WithLabelValues("duplicate").Inc()
			return &ConfirmResult{
				Status:             request.Status,
				ConfirmationsCount: len(request.Confirmations),
				Required:           request.RequiredConfirmations,
				AlreadyConfirmed:   true,
			}, nil
		}
		return nil, fmt.Errorf("request %s is %s, not collecting: %w", requestID, request.Status, model.ErrStateConflict)
	}

	now := time.Now()
	if now.After(request.ExpiresAt) {
		// Window elapsed but the protocol checker has not swept it yet.
		// Expire it here rather than accept a late confirmation.
		q.expireLate(ctx, request)
		return nil, fmt.Errorf("request %s window elapsed: %w", requestID, model.ErrStateConflict)
	}

	alreadyConfirmed := request.HasConfirmation(guardianID)

	updated, err := q.Requests.AddConfirmation(ctx, requestID, guardianID)
	if err != nil {
		if !IsStateConflict(err) {
			return nil, err
		}
		// The request left collecting between our read and the write, but
		// not necessarily towards quorum_met; it may have been cancelled
		// or expired. Re-read before reporting anything.
		current, gerr := q.Requests.Get(ctx, requestID)
		if gerr != nil {
			return nil, fmt.Errorf("failed to reload activation request: %w", gerr)
		}
		if current != nil && current.Status == model.ActivationQuorumMet && alreadyConfirmed {
			utils.QuorumConfirmationsTotal.WithLabelValues("duplicate").Inc()
			return &ConfirmResult{
				Status:             current.Status,
				ConfirmationsCount: len(current.Confirmations),
				Required:           current.RequiredConfirmations,
				AlreadyConfirmed:   true,
			}, nil
		}
		status := model.ActivationStatus("gone")
		if current != nil {
			status = current.Status
		}
		return nil, fmt.Errorf("request %s is %s, not collecting: %w", requestID, status, model.ErrStateConflict)
	}

	if alreadyConfirmed {
		utils.QuorumConfirmationsTotal.WithLabelValues("duplicate").Inc()
	} else {
		utils.QuorumConfirmationsTotal.WithLabelValues("recorded").Inc()
	}

	result := &ConfirmResult{
		Status:             updated.Status,
		ConfirmationsCount: len(updated.Confirmations),
		Required:           updated.RequiredConfirmations,
		AlreadyConfirmed:   alreadyConfirmed,
	}

	if !updated.QuorumMet() {
		return result, nil
	}

	// Exactly-once activation: only the caller that wins this
	// compare-and-set drives the state machine.
	if err := q.Requests.CompareAndSetStatus(ctx, requestID, model.ActivationCollecting, model.ActivationQuorumMet); err != nil {
		if IsStateConflict(err) {
			result.Status = model.ActivationQuorumMet
			return result, nil
		}
		return nil, err
	}
	result.Status = model.ActivationQuorumMet

	if err := q.StateMachine.Activate(ctx, updated.UserID); err != nil {
		if !IsStateConflict(err) {
			// The store failed mid-transition. Put the request back to
			// collecting so a retried confirmation can finish the job.
			if rbErr := q.Requests.CompareAndSetStatus(ctx, requestID, model.ActivationQuorumMet, model.ActivationCollecting); rbErr != nil {
				log.Printf("rollback of quorum_met failed for request %s: %v", requestID, rbErr)
			}
			return nil, err
		}
	}

	q.notifyActivated(ctx, updated)
	return result, nil
}

func (q *QuorumCoordinator) expireLate(ctx context.Context, request *model.ActivationRequest) {
	if err := q.Requests.CompareAndSetStatus(ctx, request.ID, model.ActivationCollecting, model.ActivationExpired); err != nil {
		return
	}
	if err := q.StateMachine.Deactivate(ctx, request.UserID, model.ShieldPendingVerification); err != nil && !IsStateConflict(err) {
		log.Printf("failed to deactivate shield after late expiry of %s: %v", request.ID, err)
	}
}

func (q *QuorumCoordinator) notifyActivated(ctx context.Context, request *model.ActivationRequest) {
	guardians, err := q.Guardians.ListByUser(ctx, request.UserID)
	if err != nil {
		log.Printf("failed to list guardians for activation notice: %v", err)
		return
	}

	for _, g := range guardians {
		if !g.CanTriggerEmergency {
			continue
		}
		notification := &model.GuardianNotification{
			UserID:        request.UserID,
			GuardianID:    g.ID,
			GuardianEmail: g.Email,
			Kind:          model.NotifyShieldActivated,
			Payload: map[string]string{
				"request_id": request.ID,
			},
		}
		if err := q.Outbox.Enqueue(ctx, notification); err != nil {
			log.Printf("failed to enqueue activation notice for guardian %s: %v", g.ID, err)
		}
	}
}

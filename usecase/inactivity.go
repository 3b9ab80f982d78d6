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

// UserCheckResult is the per-user outcome of one sweep pass, shaped for
// the check-inactivity contract.
type UserCheckResult struct {
	UserID                 string    `json:"userId"`
	LastSignIn             time.Time `json:"lastSignIn"`
	DaysSinceLastSignIn    int       `json:"daysSinceLastSignIn"`
	InactivityPeriodMonths int       `json:"inactivityPeriodMonths"`
	ShouldNotify           bool      `json:"shouldNotify"`
	GuardianEmails         []string  `json:"guardianEmails,omitempty"`
}

type SweepResult struct {
	Checked                int
	CandidatesCreated      int
	NotificationsTriggered int
	Results                []UserCheckResult
}

// InactivityMonitor runs the periodic sweep over enabled shields. Safe
// to run concurrently or redundantly: the inactive -> pending transition
// is a compare-and-set, and an activation request is only created by the
// sweep that wins it.
type InactivityMonitor struct {
	Shields      ShieldStore
	Guardians    GuardianStore
	Requests     ActivationStore
	StateMachine *ShieldStateMachine
	Outbox       NotificationOutbox
	Config       config.ShieldConfig
}

// Sweep examines every enabled inactive shield and opens an activation
// request for each user past their inactivity threshold. Store failures
// for one user never block the rest of the sweep.
func (m *InactivityMonitor) Sweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	shields, err := m.Shields.ListEnabledWithStatus(ctx, model.ShieldInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list enabled shields: %w", err)
	}

	result := &SweepResult{Results: make([]UserCheckResult, 0, len(shields))}

	for _, settings := range shields {
		result.Checked++

		// Observability only; a failed stamp never skips the user.
		if err := m.Shields.RecordCheck(ctx, settings.UserID, now); err != nil {
			log.Printf("failed to record check for %s: %v", settings.UserID, err)
		}

		entry := UserCheckResult{
			UserID:                 settings.UserID,
			LastSignIn:             settings.LastActivityAt,
			DaysSinceLastSignIn:    int(now.Sub(settings.LastActivityAt).Hours() / 24),
			InactivityPeriodMonths: settings.InactivityPeriodMonths,
		}

		if !settings.InactivityBreached(now) {
			result.Results = append(result.Results, entry)
			continue
		}

		notified, err := m.openActivation(ctx, settings, now)
		if err != nil {
			if IsStateConflict(err) {
				// A concurrent sweep won the transition; nothing to do.
				result.Results = append(result.Results, entry)
				continue
			}
			utils.TrackError("inactivity_monitor", "activation_open_failed")
			log.Printf("failed to open activation for %s: %v", settings.UserID, err)
			result.Results = append(result.Results, entry)
			continue
		}

		entry.ShouldNotify = true
		entry.GuardianEmails = notified
		result.CandidatesCreated++
		result.NotificationsTriggered += len(notified)
		result.Results = append(result.Results, entry)
	}

	utils.SweepsTotal.Inc()
	return result, nil
}

// openActivation performs the inactive -> pending_verification
// transition and creates the activation request. The request snapshots
// the required confirmation count so later settings edits cannot move
// the bar. Returns the emails of the guardians notified.
func (m *InactivityMonitor) openActivation(ctx context.Context, settings *model.ShieldSettings, now time.Time) ([]string, error) {
	// Idempotence guard: a collecting request means a previous sweep
	// already opened the window.
	existing, err := m.Requests.FindCollectingByUser(ctx, settings.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("activation already collecting for %s: %w", settings.UserID, model.ErrStateConflict)
	}

	if err := m.StateMachine.BeginVerification(ctx, settings.UserID); err != nil {
		return nil, err
	}

	request := &model.ActivationRequest{
		ID:                    utils.GenerateID(),
		UserID:                settings.UserID,
		Status:                model.ActivationCollecting,
		RequiredConfirmations: settings.RequiredGuardians,
		TriggerReason: fmt.Sprintf("inactivity threshold breached: %d days since last activity",
			int(now.Sub(settings.LastActivityAt).Hours()/24)),
		CreatedAt: now,
		ExpiresAt: now.Add(m.Config.ActivationWindow),
	}

	if err := m.Requests.Create(ctx, request); err != nil {
		// Roll the transition back so the shield is not stuck pending
		// without a request collecting confirmations.
		if rbErr := m.Shields.CompareAndSetStatus(ctx, settings.UserID, model.ShieldPendingVerification, model.ShieldInactive); rbErr != nil {
			log.Printf("rollback of pending_verification failed for %s: %v", settings.UserID, rbErr)
		}
		return nil, err
	}

	utils.ActivationRequestsTotal.Inc()

	return m.notifyGuardians(ctx, request), nil
}

// notifyGuardians enqueues an activation notice with a signed
// confirmation link for every trigger-capable guardian. Delivery is the
// mailer's problem; a failed enqueue is logged and skipped.
func (m *InactivityMonitor) notifyGuardians(ctx context.Context, request *model.ActivationRequest) []string {
	guardians, err := m.Guardians.ListByUser(ctx, request.UserID)
	if err != nil {
		utils.TrackError("inactivity_monitor", "guardian_list_failed")
		log.Printf("failed to list guardians for %s: %v", request.UserID, err)
		return nil
	}

	var notified []string
	for _, g := range guardians {
		if !g.CanTriggerEmergency {
			continue
		}

		confirmToken, err := services.GenerateConfirmationToken(request.ID, g.ID, m.Config.ConfirmationLinkTTL)
		if err != nil {
			log.Printf("failed to sign confirmation link for guardian %s: %v", g.ID, err)
			continue
		}

		notification := &model.GuardianNotification{
			UserID:        request.UserID,
			GuardianID:    g.ID,
			GuardianEmail: g.Email,
			Kind:          model.NotifyActivationPending,
			Payload: map[string]string{
				"request_id":       request.ID,
				"confirmation_url": fmt.Sprintf("%s/emergency/confirm?token=%s", m.Config.BaseURL, confirmToken),
				"expires_at":       request.ExpiresAt.Format(time.RFC3339),
			},
		}

		if err := m.Outbox.Enqueue(ctx, notification); err != nil {
			log.Printf("failed to enqueue activation notice for guardian %s: %v", g.ID, err)
			continue
		}
		notified = append(notified, g.Email)
	}

	return notified
}

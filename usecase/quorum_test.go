package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"main/model"
)

// openCollecting drives the sweep to open an activation request for the
// user and returns its ID.
func openCollecting(t *testing.T, env *coreEnv, userID string) string {
	t.Helper()
	if _, err := env.monitor.Sweep(context.Background(), time.Now().UTC()); err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	request, _ := env.requests.FindCollectingByUser(context.Background(), userID)
	if request == nil {
		t.Fatal("sweep did not open an activation request")
	}
	return request.ID
}

func TestQuorumTwoOfThree(t *testing.T) {
	env := newCoreEnv()
	ctx := context.Background()
	env.addUser("user-1", 3, 2, 4*months)
	env.addGuardian("g1", "user-1", true, model.GuardianPermissions{})
	env.addGuardian("g2", "user-1", true, model.GuardianPermissions{})
	env.addGuardian("g3", "user-1", true, model.GuardianPermissions{})

	requestID := openCollecting(t, env, "user-1")

	first, err := env.quorum.Confirm(ctx, requestID, "g1")
	if err != nil {
		t.Fatalf("first Confirm: %v", err)
	}
	if first.Status != model.ActivationCollecting || first.ConfirmationsCount != 1 {
		t.Fatalf("after first confirm: status=%s count=%d, want collecting/1", first.Status, first.ConfirmationsCount)
	}
	if got := env.shieldStatus("user-1"); got != model.ShieldPendingVerification {
		t.Fatalf("one confirmation moved shield to %s", got)
	}

	// Double click: same guardian again, still one confirmation.
	dup, err := env.quorum.Confirm(ctx, requestID, "g1")
	if err != nil {
		t.Fatalf("duplicate Confirm: %v", err)
	}
	if !dup.AlreadyConfirmed || dup.ConfirmationsCount != 1 {
		t.Fatalf("duplicate confirm: already=%v count=%d, want true/1", dup.AlreadyConfirmed, dup.ConfirmationsCount)
	}

	second, err := env.quorum.Confirm(ctx, requestID, "g2")
	if err != nil {
		t.Fatalf("second Confirm: %v", err)
	}
	if second.Status != model.ActivationQuorumMet {
		t.Fatalf("after quorum: status = %s, want quorum_met", second.Status)
	}
	if got := env.shieldStatus("user-1"); got != model.ShieldActive {
		t.Fatalf("shield = %s after quorum, want active", got)
	}

	// A guardian retrying after quorum still gets a success.
	retry, err := env.quorum.Confirm(ctx, requestID, "g2")
	if err != nil {
		t.Fatalf("retry after quorum: %v", err)
	}
	if !retry.AlreadyConfirmed {
		t.Error("retry after quorum should report already confirmed")
	}

	// A third guardian arriving late finds the window closed.
	if _, err := env.quorum.Confirm(ctx, requestID, "g3"); !IsStateConflict(err) {
		t.Fatalf("late third confirm = %v, want state conflict", err)
	}

	if notices := env.outbox.byKind(model.NotifyShieldActivated); len(notices) != 3 {
		t.Errorf("activation notices = %d, want 3", len(notices))
	}
}

func TestConfirmRejections(t *testing.T) {
	env := newCoreEnv()
	ctx := context.Background()
	env.addUser("user-1", 3, 1, 4*months)
	env.addUser("user-2", 3, 1, 0)
	env.addGuardian("g1", "user-1", true, model.GuardianPermissions{})
	env.addGuardian("g-other", "user-2", true, model.GuardianPermissions{})
	env.addGuardian("g-passive", "user-1", false, model.GuardianPermissions{})

	requestID := openCollecting(t, env, "user-1")

	if _, err := env.quorum.Confirm(ctx, "missing", "g1"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("unknown request = %v, want not found", err)
	}
	if _, err := env.quorum.Confirm(ctx, requestID, "missing"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("unknown guardian = %v, want not found", err)
	}
	if _, err := env.quorum.Confirm(ctx, requestID, "g-other"); !errors.Is(err, model.ErrForbidden) {
		t.Errorf("guardian of another user = %v, want forbidden", err)
	}
	if _, err := env.quorum.Confirm(ctx, requestID, "g-passive"); !errors.Is(err, model.ErrForbidden) {
		t.Errorf("non-trigger guardian = %v, want forbidden", err)
	}

	// None of the rejections may have recorded a confirmation.
	request, _ := env.requests.Get(ctx, requestID)
	if len(request.Confirmations) != 0 {
		t.Errorf("confirmations = %d after rejections, want 0", len(request.Confirmations))
	}
}

// staleRequestReads serves one read that still claims collecting, after
// the underlying request has already left that state.
type staleRequestReads struct {
	*fakeActivationStore
	served bool
}

func (s *staleRequestReads) Get(ctx context.Context, id string) (*model.ActivationRequest, error) {
	request, err := s.fakeActivationStore.Get(ctx, id)
	if err != nil || request == nil || s.served {
		return request, err
	}
	s.served = true
	staled := *request
	staled.Status = model.ActivationCollecting
	return &staled, nil
}

func TestConfirmRacingCancellationIsAConflict(t *testing.T) {
	env := newCoreEnv()
	ctx := context.Background()
	env.addUser("user-1", 3, 2, 4*months)
	env.addGuardian("g1", "user-1", true, model.GuardianPermissions{})
	env.addGuardian("g2", "user-1", true, model.GuardianPermissions{})

	requestID := openCollecting(t, env, "user-1")
	if _, err := env.quorum.Confirm(ctx, requestID, "g1"); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	// The user resumes activity and the request is cancelled under a
	// retrying guardian whose initial read still shows collecting. The
	// retry must not be reported as quorum met.
	if _, err := env.activity.RecordActivity(ctx, "user-1", time.Now().UTC()); err != nil {
		t.Fatalf("RecordActivity: %v", err)
	}

	racing := &QuorumCoordinator{
		Requests:     &staleRequestReads{fakeActivationStore: env.requests},
		Guardians:    env.guardians,
		StateMachine: env.machine,
		Outbox:       env.outbox,
	}

	if _, err := racing.Confirm(ctx, requestID, "g1"); !IsStateConflict(err) {
		t.Fatalf("confirm racing cancellation = %v, want state conflict", err)
	}
	if got := env.shieldStatus("user-1"); got != model.ShieldInactive {
		t.Errorf("shield = %s, want inactive", got)
	}
}

func TestConfirmAfterWindowExpires(t *testing.T) {
	env := newCoreEnv()
	ctx := context.Background()
	env.addUser("user-1", 3, 1, 4*months)
	env.addGuardian("g1", "user-1", true, model.GuardianPermissions{})

	requestID := openCollecting(t, env, "user-1")

	// Age the request past its window.
	env.requests.requests[requestID].ExpiresAt = time.Now().Add(-time.Minute)

	if _, err := env.quorum.Confirm(ctx, requestID, "g1"); !IsStateConflict(err) {
		t.Fatalf("confirm after expiry = %v, want state conflict", err)
	}

	request, _ := env.requests.Get(ctx, requestID)
	if request.Status != model.ActivationExpired {
		t.Errorf("request status = %s, want expired", request.Status)
	}
	if got := env.shieldStatus("user-1"); got != model.ShieldInactive {
		t.Errorf("shield = %s after late expiry, want inactive", got)
	}
}

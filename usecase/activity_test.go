package usecase

import (
	"context"
	"testing"
	"time"

	"main/model"
)

func TestResumeWhileActiveRevokesEverything(t *testing.T) {
	env := newCoreEnv()
	ctx := context.Background()
	env.addUser("user-1", 3, 1, 4*months)
	env.addGuardian("g1", "user-1", true, model.GuardianPermissions{})
	env.addGuardian("g2", "user-1", true, model.GuardianPermissions{})
	activateShield(t, env, "user-1", "g1")

	one, err := env.tokenSvc.Issue(ctx, "user-1", "g1")
	if err != nil {
		t.Fatalf("Issue g1: %v", err)
	}
	two, err := env.tokenSvc.Issue(ctx, "user-1", "g2")
	if err != nil {
		t.Fatalf("Issue g2: %v", err)
	}

	status, err := env.activity.RecordActivity(ctx, "user-1", time.Now().UTC())
	if err != nil {
		t.Fatalf("RecordActivity: %v", err)
	}
	if status != model.ShieldInactive {
		t.Fatalf("status after resume = %s, want inactive", status)
	}

	for _, issued := range []*IssueResult{one, two} {
		result, err := env.tokenSvc.Verify(ctx, issued.Token, issued.VerificationCode)
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if result.Granted {
			t.Fatal("token still verifies after the user resumed activity")
		}
	}

	if notices := env.outbox.byKind(model.NotifyShieldCancelled); len(notices) != 2 {
		t.Errorf("cancellation notices = %d, want 2", len(notices))
	}
}

// staleShieldReads serves one stale status read and then delegates, so a
// test can interleave a reader against a transition that already landed.
type staleShieldReads struct {
	*fakeShieldStore
	stale  model.ShieldStatus
	served bool
}

func (s *staleShieldReads) Get(ctx context.Context, userID string) (*model.ShieldSettings, error) {
	settings, err := s.fakeShieldStore.Get(ctx, userID)
	if err != nil || settings == nil || s.served {
		return settings, err
	}
	s.served = true
	staled := *settings
	staled.ShieldStatus = s.stale
	return &staled, nil
}

func TestResumeRacingQuorumActivationStillDeactivates(t *testing.T) {
	env := newCoreEnv()
	ctx := context.Background()
	env.addUser("user-1", 3, 1, 4*months)
	env.addGuardian("g1", "user-1", true, model.GuardianPermissions{CanAccessFinancialDocs: true})
	activateShield(t, env, "user-1", "g1")

	issued, err := env.tokenSvc.Issue(ctx, "user-1", "g1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// The resume path reads pending_verification even though the quorum
	// coordinator has already flipped the shield to active; its first
	// deactivation attempt loses the compare-and-set.
	recorder := &ActivityRecorder{
		Shields:      &staleShieldReads{fakeShieldStore: env.shields, stale: model.ShieldPendingVerification},
		Requests:     env.requests,
		Guardians:    env.guardians,
		StateMachine: env.machine,
		Outbox:       env.outbox,
	}

	status, err := recorder.RecordActivity(ctx, "user-1", time.Now().UTC())
	if err != nil {
		t.Fatalf("RecordActivity: %v", err)
	}
	if status != model.ShieldInactive {
		t.Fatalf("status after resume = %s, want inactive", status)
	}
	if got := env.shieldStatus("user-1"); got != model.ShieldInactive {
		t.Fatalf("shield = %s after user resumed activity, want inactive", got)
	}

	result, err := env.tokenSvc.Verify(ctx, issued.Token, issued.VerificationCode)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Granted {
		t.Error("token still verifies after the user resumed activity")
	}

	// No fresh tokens for an active user either.
	if _, err := env.tokenSvc.Issue(ctx, "user-1", "g1"); !IsStateConflict(err) {
		t.Errorf("Issue after resume = %v, want state conflict", err)
	}
}

func TestResumeWhileCollectingCancelsRequest(t *testing.T) {
	env := newCoreEnv()
	ctx := context.Background()
	env.addUser("user-1", 3, 2, 4*months)
	env.addGuardian("g1", "user-1", true, model.GuardianPermissions{})
	env.addGuardian("g2", "user-1", true, model.GuardianPermissions{})

	requestID := openCollecting(t, env, "user-1")
	if _, err := env.quorum.Confirm(ctx, requestID, "g1"); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	if _, err := env.activity.RecordActivity(ctx, "user-1", time.Now().UTC()); err != nil {
		t.Fatalf("RecordActivity: %v", err)
	}

	request, _ := env.requests.Get(ctx, requestID)
	if request.Status != model.ActivationCancelled {
		t.Errorf("request status = %s, want cancelled", request.Status)
	}
	if got := env.shieldStatus("user-1"); got != model.ShieldInactive {
		t.Errorf("shield = %s, want inactive", got)
	}

	// The second guardian's late confirmation must bounce.
	if _, err := env.quorum.Confirm(ctx, requestID, "g2"); !IsStateConflict(err) {
		t.Errorf("confirm on cancelled request = %v, want state conflict", err)
	}
}

func TestResumeWhileInactiveIsANoOp(t *testing.T) {
	env := newCoreEnv()
	ctx := context.Background()
	env.addUser("user-1", 3, 1, 2*months)

	before, _ := env.shields.Get(ctx, "user-1")
	status, err := env.activity.RecordActivity(ctx, "user-1", time.Now().UTC())
	if err != nil {
		t.Fatalf("RecordActivity: %v", err)
	}
	if status != model.ShieldInactive {
		t.Fatalf("status = %s, want inactive", status)
	}

	after, _ := env.shields.Get(ctx, "user-1")
	if !after.LastActivityAt.After(before.LastActivityAt) {
		t.Error("last_activity_at was not refreshed")
	}
}

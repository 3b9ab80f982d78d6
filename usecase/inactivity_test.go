package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"main/model"
)

func TestSweepBelowThreshold(t *testing.T) {
	env := newCoreEnv()
	ctx := context.Background()
	env.addUser("user-1", 3, 1, 2*months)
	env.addGuardian("g1", "user-1", true, model.GuardianPermissions{})

	result, err := env.monitor.Sweep(ctx, time.Now().UTC())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	if result.Checked != 1 || result.CandidatesCreated != 0 {
		t.Fatalf("checked=%d created=%d, want 1 and 0", result.Checked, result.CandidatesCreated)
	}
	if result.Results[0].ShouldNotify {
		t.Error("user below threshold should not be flagged")
	}
	if got := env.shieldStatus("user-1"); got != model.ShieldInactive {
		t.Errorf("status = %s, want inactive", got)
	}
	if req, _ := env.requests.FindCollectingByUser(ctx, "user-1"); req != nil {
		t.Error("no activation request should exist below threshold")
	}
}

func TestSweepOpensActivation(t *testing.T) {
	env := newCoreEnv()
	ctx := context.Background()
	env.addUser("user-1", 3, 2, 4*months)
	env.addGuardian("g1", "user-1", true, model.GuardianPermissions{})
	env.addGuardian("g2", "user-1", true, model.GuardianPermissions{})
	env.addGuardian("g3", "user-1", false, model.GuardianPermissions{})

	result, err := env.monitor.Sweep(ctx, time.Now().UTC())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	if result.CandidatesCreated != 1 {
		t.Fatalf("candidates created = %d, want 1", result.CandidatesCreated)
	}
	entry := result.Results[0]
	if !entry.ShouldNotify {
		t.Error("breached user should be flagged")
	}
	if len(entry.GuardianEmails) != 2 {
		t.Errorf("notified %d guardians, want 2 trigger-capable", len(entry.GuardianEmails))
	}
	if entry.DaysSinceLastSignIn < 119 || entry.DaysSinceLastSignIn > 121 {
		t.Errorf("daysSinceLastSignIn = %d, want ~120", entry.DaysSinceLastSignIn)
	}

	if got := env.shieldStatus("user-1"); got != model.ShieldPendingVerification {
		t.Fatalf("status = %s, want pending_verification", got)
	}

	request, _ := env.requests.FindCollectingByUser(ctx, "user-1")
	if request == nil {
		t.Fatal("expected a collecting activation request")
	}
	if request.RequiredConfirmations != 2 {
		t.Errorf("required confirmations = %d, want snapshot of 2", request.RequiredConfirmations)
	}

	notices := env.outbox.byKind(model.NotifyActivationPending)
	if len(notices) != 2 {
		t.Fatalf("enqueued %d activation notices, want 2", len(notices))
	}
	for _, n := range notices {
		url := n.Payload["confirmation_url"]
		if !strings.HasPrefix(url, env.cfg.BaseURL+"/emergency/confirm?token=") {
			t.Errorf("confirmation url %q missing signed link", url)
		}
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	env := newCoreEnv()
	ctx := context.Background()
	env.addUser("user-1", 3, 1, 4*months)
	env.addGuardian("g1", "user-1", true, model.GuardianPermissions{})

	if _, err := env.monitor.Sweep(ctx, time.Now().UTC()); err != nil {
		t.Fatalf("first Sweep: %v", err)
	}
	second, err := env.monitor.Sweep(ctx, time.Now().UTC())
	if err != nil {
		t.Fatalf("second Sweep: %v", err)
	}

	if second.CandidatesCreated != 0 {
		t.Errorf("second sweep created %d candidates, want 0", second.CandidatesCreated)
	}
	if n, _ := env.requests.CountByStatus(ctx, model.ActivationCollecting); n != 1 {
		t.Errorf("collecting requests = %d, want exactly 1", n)
	}
	if notices := env.outbox.byKind(model.NotifyActivationPending); len(notices) != 1 {
		t.Errorf("activation notices = %d, want 1", len(notices))
	}
}

func TestSweepSkipsDisabledShields(t *testing.T) {
	env := newCoreEnv()
	ctx := context.Background()
	env.addUser("user-1", 3, 1, 4*months)
	settings, _ := env.shields.Get(ctx, "user-1")
	settings.IsShieldEnabled = false
	env.shields.put(settings)

	result, err := env.monitor.Sweep(ctx, time.Now().UTC())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if result.Checked != 0 {
		t.Errorf("checked = %d, want 0 for disabled shield", result.Checked)
	}
}

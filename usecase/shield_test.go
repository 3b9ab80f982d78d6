package usecase

import (
	"context"
	"testing"
	"time"

	"main/model"
)

func TestShieldTransitionsLegalPath(t *testing.T) {
	env := newCoreEnv()
	ctx := context.Background()
	env.addUser("user-1", 3, 1, 0)

	if err := env.machine.BeginVerification(ctx, "user-1"); err != nil {
		t.Fatalf("BeginVerification: %v", err)
	}
	if got := env.shieldStatus("user-1"); got != model.ShieldPendingVerification {
		t.Fatalf("status = %s, want pending_verification", got)
	}

	if err := env.machine.Activate(ctx, "user-1"); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if got := env.shieldStatus("user-1"); got != model.ShieldActive {
		t.Fatalf("status = %s, want active", got)
	}

	if err := env.machine.Deactivate(ctx, "user-1", model.ShieldActive); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if got := env.shieldStatus("user-1"); got != model.ShieldInactive {
		t.Fatalf("status = %s, want inactive", got)
	}
}

func TestShieldIllegalTransitions(t *testing.T) {
	env := newCoreEnv()
	ctx := context.Background()
	env.addUser("user-1", 3, 1, 0)

	if err := env.machine.Activate(ctx, "user-1"); !IsStateConflict(err) {
		t.Fatalf("Activate from inactive = %v, want state conflict", err)
	}
	if err := env.machine.Deactivate(ctx, "user-1", model.ShieldInactive); !IsStateConflict(err) {
		t.Fatalf("Deactivate from inactive = %v, want state conflict", err)
	}

	if err := env.machine.BeginVerification(ctx, "user-1"); err != nil {
		t.Fatalf("BeginVerification: %v", err)
	}
	// Losing a second race on the same edge is a conflict, not an error.
	if err := env.machine.BeginVerification(ctx, "user-1"); !IsStateConflict(err) {
		t.Fatalf("second BeginVerification = %v, want state conflict", err)
	}
}

func TestDeactivateRevokesTokensSynchronously(t *testing.T) {
	env := newCoreEnv()
	ctx := context.Background()
	env.addUser("user-1", 3, 1, 0)

	env.tokens.Insert(ctx, &model.AccessToken{
		TokenHash:   "h1",
		UserID:      "user-1",
		GuardianID:  "g1",
		Status:      model.TokenActive,
		MaxAttempts: 5,
		ExpiresAt:   time.Now().Add(time.Hour),
	})
	env.tokens.Insert(ctx, &model.AccessToken{
		TokenHash:   "h2",
		UserID:      "user-1",
		GuardianID:  "g2",
		Status:      model.TokenActive,
		MaxAttempts: 5,
		ExpiresAt:   time.Now().Add(time.Hour),
	})

	env.machine.BeginVerification(ctx, "user-1")
	env.machine.Activate(ctx, "user-1")

	if err := env.machine.Deactivate(ctx, "user-1", model.ShieldActive); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	for _, hash := range []string{"h1", "h2"} {
		token, _ := env.tokens.FindByHash(ctx, hash)
		if token.Status != model.TokenRevoked {
			t.Errorf("token %s status = %s, want revoked", hash, token.Status)
		}
	}
}

package usecase

import (
	"context"
	"errors"
	"testing"

	"main/model"
)

func TestGuardianRosterFreezesOutsideInactive(t *testing.T) {
	env := newCoreEnv()
	ctx := context.Background()
	env.addUser("user-1", 3, 1, 4*months)
	env.addGuardian("g1", "user-1", true, model.GuardianPermissions{})

	manager := &GuardianManager{Guardians: env.guardians, Shields: env.shields}

	// Edits are fine while the shield is inactive.
	extra := &model.Guardian{UserID: "user-1", Name: "Backup", Email: "backup@example.com"}
	if err := manager.Create(ctx, extra); err != nil {
		t.Fatalf("Create while inactive: %v", err)
	}
	if extra.ID == "" {
		t.Fatal("Create did not assign an ID")
	}

	openCollecting(t, env, "user-1")

	// Now pending_verification: the roster is frozen.
	if err := manager.Create(ctx, &model.Guardian{UserID: "user-1", Name: "Late", Email: "late@example.com"}); !IsStateConflict(err) {
		t.Errorf("Create while pending = %v, want state conflict", err)
	}

	g, _ := env.guardians.Get(ctx, "g1")
	g.Permissions.CanAccessFinancialDocs = true
	if err := manager.Update(ctx, g); !IsStateConflict(err) {
		t.Errorf("Update while pending = %v, want state conflict", err)
	}
	if err := manager.Delete(ctx, "user-1", "g1"); !IsStateConflict(err) {
		t.Errorf("Delete while pending = %v, want state conflict", err)
	}

	// The stored guardian is untouched.
	stored, _ := env.guardians.Get(ctx, "g1")
	if stored.Permissions.CanAccessFinancialDocs {
		t.Error("frozen roster still absorbed a permission edit")
	}
}

func TestGuardianUpdateUnknownID(t *testing.T) {
	env := newCoreEnv()
	ctx := context.Background()
	env.addUser("user-1", 3, 1, 0)

	manager := &GuardianManager{Guardians: env.guardians, Shields: env.shields}

	err := manager.Update(ctx, &model.Guardian{ID: "missing", UserID: "user-1", Name: "X", Email: "x@example.com"})
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("Update unknown guardian = %v, want not found", err)
	}
	if err := manager.Delete(ctx, "user-1", "missing"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("Delete unknown guardian = %v, want not found", err)
	}
}

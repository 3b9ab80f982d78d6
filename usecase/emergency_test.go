package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"main/model"
	"main/utils"
)

func emergencyEnv(t *testing.T) (*coreEnv, *EmergencyAccessService, *model.AccessToken) {
	t.Helper()
	env := newCoreEnv()
	ctx := context.Background()
	env.addUser("user-1", 3, 1, 4*months)
	env.addGuardian("g1", "user-1", true, model.GuardianPermissions{CanAccessFinancialDocs: true})
	env.addGuardian("g2", "user-1", false, model.GuardianPermissions{CanAccessHealthDocs: true})
	activateShield(t, env, "user-1", "g1")

	docs := newFakeDocumentStore()
	docs.docs["d-fin"] = &model.Document{
		ID:          "d-fin",
		UserID:      "user-1",
		Title:       "Account overview",
		Category:    model.CategoryFinancial,
		StoragePath: "user-1/d-fin.pdf",
	}
	docs.docs["d-health"] = &model.Document{
		ID:       "d-health",
		UserID:   "user-1",
		Title:    "Medical record",
		Category: model.CategoryHealth,
	}
	docs.docs["d-foreign"] = &model.Document{
		ID:       "d-foreign",
		UserID:   "user-2",
		Category: model.CategoryFinancial,
	}

	access := &EmergencyAccessService{
		Guardians: env.guardians,
		Documents: docs,
		Profiles:  &fakeProfileStore{profiles: map[string]*model.Profile{"user-1": {UserID: "user-1", FullName: "Alex Doe"}}},
		Config:    env.cfg,
	}

	issued, err := env.tokenSvc.Issue(context.Background(), "user-1", "g1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	token, err := env.tokens.FindByHash(ctx, utils.HashString(issued.Token))
	if err != nil || token == nil {
		t.Fatalf("stored token not found: %v", err)
	}

	return env, access, token
}

func TestBuildAccessDataFiltersByScope(t *testing.T) {
	_, access, token := emergencyEnv(t)

	data, err := access.BuildAccessData(context.Background(), token)
	if err != nil {
		t.Fatalf("BuildAccessData: %v", err)
	}

	if data.UserName != "Alex Doe" {
		t.Errorf("user name = %q, want profile name", data.UserName)
	}
	if !data.GuardianPermissions.CanAccessFinancialDocs || data.GuardianPermissions.CanAccessHealthDocs {
		t.Errorf("permissions info %+v does not match frozen scopes", data.GuardianPermissions)
	}
	if len(data.Documents) != 1 || data.Documents[0].ID != "d-fin" {
		t.Fatalf("documents = %+v, want only the financial document", data.Documents)
	}
	if len(data.EmergencyContacts) != 1 || data.EmergencyContacts[0].Name != "Guardian g2" {
		t.Fatalf("contacts = %+v, want only the other guardian", data.EmergencyContacts)
	}
	if !strings.HasSuffix(data.SurvivorManual.URL, "/manual/user-1") {
		t.Errorf("survivor manual url = %q", data.SurvivorManual.URL)
	}
}

func TestSignDownloadEnforcesScopeAndOwnership(t *testing.T) {
	_, access, token := emergencyEnv(t)
	ctx := context.Background()

	data, err := access.SignDownload(ctx, token, "d-fin")
	if err != nil {
		t.Fatalf("SignDownload: %v", err)
	}
	if !strings.Contains(data.DownloadURL, "/storage/user-1/d-fin.pdf?token=") {
		t.Errorf("download url = %q, want signed storage link", data.DownloadURL)
	}
	if _, err := time.Parse(time.RFC3339, data.ExpiresAt); err != nil {
		t.Errorf("expires_at %q is not RFC3339", data.ExpiresAt)
	}

	// In scope for the owner but not for this token.
	if _, err := access.SignDownload(ctx, token, "d-health"); !errors.Is(err, model.ErrForbidden) {
		t.Errorf("out-of-scope document = %v, want forbidden", err)
	}

	// Another user's document looks like it does not exist.
	if _, err := access.SignDownload(ctx, token, "d-foreign"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("foreign document = %v, want not found", err)
	}
	if _, err := access.SignDownload(ctx, token, "missing"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("unknown document = %v, want not found", err)
	}
}

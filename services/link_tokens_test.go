package services

import (
	"errors"
	"os"
	"testing"
	"time"

	"main/model"
	"main/utils"
)

func TestMain(m *testing.M) {
	utils.JWTSecretKey = "test_secret_key"
	os.Exit(m.Run())
}

func TestConfirmationTokenRoundTrip(t *testing.T) {
	token, err := GenerateConfirmationToken("req-1", "g-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateConfirmationToken: %v", err)
	}

	requestID, guardianID, err := ParseConfirmationToken(token)
	if err != nil {
		t.Fatalf("ParseConfirmationToken: %v", err)
	}
	if requestID != "req-1" || guardianID != "g-1" {
		t.Errorf("parsed (%s, %s), want (req-1, g-1)", requestID, guardianID)
	}
}

func TestConfirmationTokenRejectsExpired(t *testing.T) {
	token, err := GenerateConfirmationToken("req-1", "g-1", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateConfirmationToken: %v", err)
	}
	if _, _, err := ParseConfirmationToken(token); err == nil {
		t.Error("expired confirmation token parsed successfully")
	}
}

func TestConfirmationTokenRejectsWrongPurpose(t *testing.T) {
	// A download token must never pass as a confirmation credential.
	token, err := GenerateDownloadToken("doc-1", "g-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateDownloadToken: %v", err)
	}
	if _, _, err := ParseConfirmationToken(token); err == nil {
		t.Error("download token accepted as confirmation token")
	}
}

func TestConfirmationTokenRejectsTampering(t *testing.T) {
	token, err := GenerateConfirmationToken("req-1", "g-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateConfirmationToken: %v", err)
	}
	tampered := token + "A"
	if _, _, err := ParseConfirmationToken(tampered); err == nil {
		t.Error("tampered token parsed successfully")
	}
}

func TestLinkTokenDenialsCarryUnauthorized(t *testing.T) {
	// Every parse failure maps to a 401 through the error taxonomy.
	for _, bad := range []string{"", "not.a.jwt"} {
		if _, _, err := ParseConfirmationToken(bad); !errors.Is(err, model.ErrUnauthorized) {
			t.Errorf("ParseConfirmationToken(%q) = %v, want unauthorized", bad, err)
		}
	}

	download, err := GenerateDownloadToken("doc-1", "g-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateDownloadToken: %v", err)
	}
	if _, _, err := ParseConfirmationToken(download); !errors.Is(err, model.ErrUnauthorized) {
		t.Errorf("wrong-purpose token = %v, want unauthorized", err)
	}
}

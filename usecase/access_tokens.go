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

// IssueResult carries the only plaintext copy of the credentials. The
// token goes to the guardian directly; the verification code travels
// out-of-band through the notifier.
type IssueResult struct {
	Token            string
	VerificationCode string
	Scopes           []model.Scope
	ExpiresAt        time.Time
}

// VerifyResult is the outcome of a token verification.
type VerifyResult struct {
	Granted           bool
	NeedsVerification bool
	Reason            string
	Scopes            []model.Scope
	AttemptsLeft      int
	Token             *model.AccessToken
}

// AccessTokenService issues and verifies scoped emergency access tokens.
type AccessTokenService struct {
	Tokens       TokenStore
	Guardians    GuardianStore
	StateMachine *ShieldStateMachine
	Outbox       NotificationOutbox
	Config       config.ShieldConfig
}

// Issue mints a token for the guardian while the user's shield is
// active. Scopes are snapshotted from the guardian's permissions at this
// moment and never change for the life of the token.
func (s *AccessTokenService) Issue(ctx context.Context, userID, guardianID string) (*IssueResult, error) {
	status, err := s.StateMachine.Status(ctx, userID)
	if err != nil {
		return nil, err
	}
	if status != model.ShieldActive {
		return nil, fmt.Errorf("shield is %s, not active: %w", status, model.ErrStateConflict)
	}

	guardian, err := s.Guardians.Get(ctx, guardianID)
	if err != nil {
		return nil, fmt.Errorf("failed to load guardian: %w", err)
	}
	if guardian == nil {
		return nil, fmt.Errorf("guardian %s: %w", guardianID, model.ErrNotFound)
	}
	if guardian.UserID != userID {
		return nil, fmt.Errorf("guardian %s does not protect user %s: %w", guardianID, userID, model.ErrForbidden)
	}

	token, err := utils.GenerateAccessToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	code, err := utils.GenerateVerificationCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification code: %w", err)
	}

	codeHash, err := services.HashVerificationCode(code)
	if err != nil {
		return nil, fmt.Errorf("failed to hash verification code: %w", err)
	}

	scopes := guardian.Permissions.Scopes()
	now := time.Now().UTC()

	record := &model.AccessToken{
		TokenHash:            utils.HashString(token),
		UserID:               userID,
		GuardianID:           guardianID,
		Scopes:               model.ScopeStrings(scopes),
		VerificationCodeHash: codeHash,
		AttemptCount:         0,
		MaxAttempts:          s.Config.MaxCodeAttempts,
		Status:               model.TokenActive,
		IssuedAt:             now,
		ExpiresAt:            now.Add(s.Config.TokenTTL),
	}

	if err := s.Tokens.Insert(ctx, record); err != nil {
		return nil, err
	}

	// The code reaches the guardian on a separate channel from the
	// token link.
	notification := &model.GuardianNotification{
		UserID:        userID,
		GuardianID:    guardianID,
		GuardianEmail: guardian.Email,
		Kind:          model.NotifyAccessCode,
		Payload: map[string]string{
			"verification_code": code,
			"expires_at":        record.ExpiresAt.Format(time.RFC3339),
		},
	}
	if err := s.Outbox.Enqueue(ctx, notification); err != nil {
		log.Printf("failed to enqueue verification code for guardian %s: %v", guardianID, err)
	}

	utils.TokensIssuedTotal.Inc()

	return &IssueResult{
		Token:            token,
		VerificationCode: code,
		Scopes:           scopes,
		ExpiresAt:        record.ExpiresAt,
	}, nil
}

// Verify checks a token and its out-of-band code. Fails closed on every
// doubt: unknown token, expired, locked, revoked, or a shield that has
// left active. A successful verification does not reset the attempt
// counter; the budget covers the token's lifetime.
func (s *AccessTokenService) Verify(ctx context.Context, token, code string) (*VerifyResult, error) {
	record, err := s.Tokens.FindByHash(ctx, utils.HashString(token))
	if err != nil {
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	if record == nil {
		utils.TrackTokenVerification("denied")
		return &VerifyResult{Reason: "unknown token"}, nil
	}

	if record.Status == model.TokenLocked || record.AttemptsExhausted() {
		utils.TrackTokenVerification("locked")
		return &VerifyResult{Reason: "token locked after too many attempts"}, nil
	}
	if record.Status != model.TokenActive {
		utils.TrackTokenVerification("denied")
		return &VerifyResult{Reason: "token revoked"}, nil
	}
	if record.Expired(time.Now()) {
		utils.TrackTokenVerification("denied")
		return &VerifyResult{Reason: "token expired"}, nil
	}

	// Revocation-on-resume without a sweep: a token is only as alive as
	// the shield it belongs to.
	status, err := s.StateMachine.Status(ctx, record.UserID)
	if err != nil {
		return nil, err
	}
	if status != model.ShieldActive {
		utils.TrackTokenVerification("denied")
		return &VerifyResult{Reason: "emergency access is no longer active"}, nil
	}

	if code == "" {
		utils.TrackTokenVerification("needs_verification")
		return &VerifyResult{
			NeedsVerification: true,
			Reason:            "verification code required",
		}, nil
	}

	match, err := services.VerifyCode(record.VerificationCodeHash, code)
	if err != nil {
		return nil, fmt.Errorf("failed to verify code: %w", err)
	}

	if !match {
		updated, err := s.Tokens.IncrementAttempts(ctx, record.TokenHash)
		if err != nil {
			return nil, err
		}
		if updated == nil || updated.Status == model.TokenLocked {
			utils.TrackTokenVerification("locked")
			return &VerifyResult{Reason: "token locked after too many attempts"}, nil
		}
		utils.TrackTokenVerification("denied")
		return &VerifyResult{
			Reason:       "invalid verification code",
			AttemptsLeft: updated.MaxAttempts - updated.AttemptCount,
		}, nil
	}

	utils.TrackTokenVerification("granted")
	return &VerifyResult{
		Granted: true,
		Scopes:  model.ScopesFromStrings(record.Scopes),
		Token:   record,
	}, nil
}

// RevokeAll invalidates every token for the user. Runs synchronously on
// the active -> inactive transition.
func (s *AccessTokenService) RevokeAll(ctx context.Context, userID string) (int64, error) {
	revoked, err := s.Tokens.RevokeAllForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if revoked > 0 {
		utils.TokensRevokedTotal.Add(float64(revoked))
	}
	return revoked, nil
}

package model

import "time"

// AccessTokenStatus tracks the credential lifecycle. A token leaves
// "active" exactly once and never comes back.
type AccessTokenStatus string

const (
	TokenActive  AccessTokenStatus = "active"
	TokenRevoked AccessTokenStatus = "revoked"
	TokenLocked  AccessTokenStatus = "locked"
)

// AccessToken is a guardian-bound emergency access credential. Only the
// SHA-256 hash of the token and the argon2 hash of the verification code
// are ever persisted. Scopes are frozen at issuance: later guardian
// permission edits do not widen or narrow an outstanding token.
type AccessToken struct {
	TokenHash            string            `bson:"token_hash" json:"token_hash"`
	UserID               string            `bson:"user_id" json:"user_id"`
	GuardianID           string            `bson:"guardian_id" json:"guardian_id"`
	Scopes               []string          `bson:"scopes" json:"scopes"`
	VerificationCodeHash string            `bson:"verification_code_hash" json:"-"`
	AttemptCount         int               `bson:"attempt_count" json:"attempt_count"`
	MaxAttempts          int               `bson:"max_attempts" json:"max_attempts"`
	Status               AccessTokenStatus `bson:"status" json:"status"`
	IssuedAt             time.Time         `bson:"issued_at" json:"issued_at"`
	ExpiresAt            time.Time         `bson:"expires_at" json:"expires_at"`
}

// Expired reports whether the token's lifetime has elapsed.
func (t *AccessToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// AttemptsExhausted reports whether the verification code attempt budget
// has been spent. Exhaustion is permanent; the token must be re-issued.
func (t *AccessToken) AttemptsExhausted() bool {
	return t.AttemptCount >= t.MaxAttempts
}

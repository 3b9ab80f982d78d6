package model

import "time"

// ActivationStatus is the lifecycle state of an activation request.
// collecting is the only non-terminal status.
type ActivationStatus string

const (
	ActivationCollecting ActivationStatus = "collecting"
	ActivationQuorumMet  ActivationStatus = "quorum_met"
	ActivationExpired    ActivationStatus = "expired"
	ActivationCancelled  ActivationStatus = "cancelled"
)

// Terminal reports whether the status accepts no further confirmations.
func (s ActivationStatus) Terminal() bool {
	return s != ActivationCollecting
}

// ActivationRequest is the bounded window during which guardian
// confirmations are collected before the shield activates.
//
// RequiredConfirmations is snapshotted from the user's shield settings at
// creation time so later settings edits cannot move the bar on a request
// that is already collecting.
type ActivationRequest struct {
	ID                    string           `bson:"request_id" json:"request_id"`
	UserID                string           `bson:"user_id" json:"user_id"`
	Status                ActivationStatus `bson:"status" json:"status"`
	RequiredConfirmations int              `bson:"required_confirmations" json:"required_confirmations"`
	Confirmations         []string         `bson:"confirmations" json:"confirmations"`
	TriggerReason         string           `bson:"trigger_reason" json:"trigger_reason,omitempty"`
	CreatedAt             time.Time        `bson:"created_at" json:"created_at"`
	ExpiresAt             time.Time        `bson:"expires_at" json:"expires_at"`
	ResolvedAt            time.Time        `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
}

// HasConfirmation reports whether the guardian already confirmed.
func (r *ActivationRequest) HasConfirmation(guardianID string) bool {
	for _, id := range r.Confirmations {
		if id == guardianID {
			return true
		}
	}
	return false
}

// QuorumMet reports whether enough distinct guardians have confirmed.
func (r *ActivationRequest) QuorumMet() bool {
	return len(r.Confirmations) >= r.RequiredConfirmations
}

package model

import "time"

// AccessAuditEntry records every emergency access attempt, successful or
// not. Guardians are told that all access is logged; this is that log.
type AccessAuditEntry struct {
	ID         string    `bson:"audit_id" json:"audit_id"`
	UserID     string    `bson:"user_id" json:"user_id"`
	GuardianID string    `bson:"guardian_id" json:"guardian_id,omitempty"`
	Action     string    `bson:"action" json:"action"`
	Outcome    string    `bson:"outcome" json:"outcome"`
	Reason     string    `bson:"reason" json:"reason,omitempty"`
	DocumentID string    `bson:"document_id,omitempty" json:"document_id,omitempty"`
	IPAddress  string    `bson:"ip_address" json:"ip_address"`
	Browser    string    `bson:"browser" json:"browser"`
	OS         string    `bson:"os" json:"os"`
	Device     string    `bson:"device" json:"device"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

package model

import "time"

// ShieldStatus is the per-user emergency access state. It only ever moves
// through the transitions in usecase.ShieldStateMachine.
type ShieldStatus string

const (
	ShieldInactive            ShieldStatus = "inactive"
	ShieldPendingVerification ShieldStatus = "pending_verification"
	ShieldActive              ShieldStatus = "active"
)

type ShieldSettings struct {
	UserID                 string       `bson:"user_id" json:"user_id"`
	IsShieldEnabled        bool         `bson:"is_shield_enabled" json:"is_shield_enabled"`
	InactivityPeriodMonths int          `bson:"inactivity_period_months" json:"inactivity_period_months" validate:"min=1,max=24"`
	RequiredGuardians      int          `bson:"required_guardians" json:"required_guardians" validate:"min=1"`
	ShieldStatus           ShieldStatus `bson:"shield_status" json:"shield_status"`
	LastActivityAt         time.Time    `bson:"last_activity_at" json:"last_activity_at"`
	LastCheckAt            time.Time    `bson:"last_check_at" json:"last_check_at"`
	UpdatedAt              time.Time    `bson:"updated_at" json:"updated_at"`
}

// InactivityPeriod converts the configured months to a duration.
// Months are counted as 30 days, matching the day-based inactivity math
// of the check-inactivity contract.
func (s *ShieldSettings) InactivityPeriod() time.Duration {
	return time.Duration(s.InactivityPeriodMonths) * 30 * 24 * time.Hour
}

// InactivityBreached reports whether the user has been inactive longer
// than their configured period.
func (s *ShieldSettings) InactivityBreached(now time.Time) bool {
	return now.Sub(s.LastActivityAt) >= s.InactivityPeriod()
}

package model

import "time"

// NotificationKind names the reason a guardian is being contacted.
type NotificationKind string

const (
	NotifyActivationPending NotificationKind = "activation_pending"
	NotifyReminder          NotificationKind = "activation_reminder"
	NotifyShieldActivated   NotificationKind = "shield_activated"
	NotifyShieldCancelled   NotificationKind = "shield_cancelled"
	NotifyAccessCode        NotificationKind = "access_verification_code"
)

// GuardianNotification is an outbox entry. The service only records the
// intent; the external mailer owns delivery and its retry policy.
type GuardianNotification struct {
	ID             string            `bson:"notification_id" json:"notification_id"`
	UserID         string            `bson:"user_id" json:"user_id"`
	GuardianID     string            `bson:"guardian_id" json:"guardian_id"`
	GuardianEmail  string            `bson:"guardian_email" json:"guardian_email"`
	Kind           NotificationKind  `bson:"kind" json:"kind"`
	Payload        map[string]string `bson:"payload" json:"payload"`
	DeliveryStatus string            `bson:"delivery_status" json:"delivery_status"`
	CreatedAt      time.Time         `bson:"created_at" json:"created_at"`
}

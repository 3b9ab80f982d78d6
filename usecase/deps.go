package usecase

import (
	"context"
	"time"

	"main/model"
)

// Store interfaces consumed by the emergency access core. The mongo
// repositories satisfy them; tests substitute in-memory fakes.

type ShieldStore interface {
	Get(ctx context.Context, userID string) (*model.ShieldSettings, error)
	ListEnabledWithStatus(ctx context.Context, status model.ShieldStatus) ([]*model.ShieldSettings, error)
	CompareAndSetStatus(ctx context.Context, userID string, from, to model.ShieldStatus) error
	RecordActivity(ctx context.Context, userID string, at time.Time) error
	RecordCheck(ctx context.Context, userID string, at time.Time) error
}

type GuardianStore interface {
	Get(ctx context.Context, guardianID string) (*model.Guardian, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Guardian, error)
}

type ActivationStore interface {
	Create(ctx context.Context, request *model.ActivationRequest) error
	Get(ctx context.Context, requestID string) (*model.ActivationRequest, error)
	FindCollectingByUser(ctx context.Context, userID string) (*model.ActivationRequest, error)
	AddConfirmation(ctx context.Context, requestID, guardianID string) (*model.ActivationRequest, error)
	CompareAndSetStatus(ctx context.Context, requestID string, from, to model.ActivationStatus) error
	CancelActiveForUser(ctx context.Context, userID string) (int64, error)
	ListCollectingExpired(ctx context.Context, now time.Time) ([]*model.ActivationRequest, error)
	ListCollecting(ctx context.Context, now time.Time) ([]*model.ActivationRequest, error)
}

type TokenStore interface {
	Insert(ctx context.Context, token *model.AccessToken) error
	FindByHash(ctx context.Context, tokenHash string) (*model.AccessToken, error)
	IncrementAttempts(ctx context.Context, tokenHash string) (*model.AccessToken, error)
	RevokeAllForUser(ctx context.Context, userID string) (int64, error)
}

type DocumentStore interface {
	Get(ctx context.Context, documentID string) (*model.Document, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Document, error)
}

type ProfileStore interface {
	Get(ctx context.Context, userID string) (*model.Profile, error)
}

// NotificationOutbox records notification intents; delivery belongs to
// the external mailer.
type NotificationOutbox interface {
	Enqueue(ctx context.Context, notification *model.GuardianNotification) error
}

// StatusCache is the optional hot-path cache for shield status reads.
type StatusCache interface {
	Get(ctx context.Context, userID string) (model.ShieldStatus, error)
	Set(ctx context.Context, userID string, status model.ShieldStatus) error
	Invalidate(ctx context.Context, userID string) error
}

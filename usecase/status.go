package usecase

import (
	"context"
	"fmt"

	"main/dto"
	"main/model"
)

type ShieldCounter interface {
	CountEnabled(ctx context.Context) (int64, error)
}

type ActivationCounter interface {
	CountByStatus(ctx context.Context, status model.ActivationStatus) (int64, error)
}

type NotificationCounter interface {
	CountPending(ctx context.Context) (int64, error)
}

// SystemStatusService summarizes shield activity for the operator
// status endpoint.
type SystemStatusService struct {
	Shields       ShieldCounter
	Activations   ActivationCounter
	Notifications NotificationCounter
}

func (s *SystemStatusService) Snapshot(ctx context.Context) (*dto.SystemStatusData, error) {
	enabled, err := s.Shields.CountEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count enabled shields: %w", err)
	}

	collecting, err := s.Activations.CountByStatus(ctx, model.ActivationCollecting)
	if err != nil {
		return nil, fmt.Errorf("failed to count collecting requests: %w", err)
	}

	pending, err := s.Notifications.CountPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending notifications: %w", err)
	}

	return &dto.SystemStatusData{
		EnabledShields:       enabled,
		CollectingRequests:   collecting,
		PendingNotifications: pending,
	}, nil
}

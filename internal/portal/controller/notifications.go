package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	e "github.com/psgplacements/interview-platform/internal/portal/errors"
	"github.com/psgplacements/interview-platform/internal/portal/models"
	"go.uber.org/zap"
)

// NotificationRepository is the storage interface for in-app notifications.
type NotificationRepository interface {
	ListNotifications(ctx context.Context, userID string) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, id uuid.UUID, userID string) error
	ClearNotifications(ctx context.Context, userID string) error
}

// NotificationService serves a user's in-app notifications. Every operation
// returns the post-operation state so clients update only on server
// acknowledgement, never optimistically.
type NotificationService struct {
	repo   NotificationRepository
	logger *zap.Logger
}

func NewNotificationService(repo NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		repo:   repo,
		logger: logger.Named("notification_service"),
	}
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string) ([]*models.Notification, error) {
	return s.repo.ListNotifications(ctx, userID)
}

// MarkRead marks one of the user's notifications read and returns the
// refreshed list.
func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID, userID string) ([]*models.Notification, error) {
	if err := s.repo.MarkNotificationRead(ctx, id, userID); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return s.repo.ListNotifications(ctx, userID)
}

// ClearAll deletes all of the user's notifications and returns the (empty)
// remaining list as the acknowledged state.
func (s *NotificationService) ClearAll(ctx context.Context, userID string) ([]*models.Notification, error) {
	if err := s.repo.ClearNotifications(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to clear notifications: %w", err)
	}
	return s.repo.ListNotifications(ctx, userID)
}

package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	e "github.com/psgplacements/interview-platform/internal/portal/errors"
	"github.com/psgplacements/interview-platform/internal/portal/models"
	"go.uber.org/zap/zaptest"
)

// MockNotificationRepository implements the NotificationRepository interface for testing
type MockNotificationRepository struct {
	listNotifications    func(context.Context, string) ([]*models.Notification, error)
	markNotificationRead func(context.Context, uuid.UUID, string) error
	clearNotifications   func(context.Context, string) error
}

func (m *MockNotificationRepository) ListNotifications(ctx context.Context, userID string) ([]*models.Notification, error) {
	return m.listNotifications(ctx, userID)
}

func (m *MockNotificationRepository) MarkNotificationRead(ctx context.Context, id uuid.UUID, userID string) error {
	return m.markNotificationRead(ctx, id, userID)
}

func (m *MockNotificationRepository) ClearNotifications(ctx context.Context, userID string) error {
	return m.clearNotifications(ctx, userID)
}

func TestNotificationService_MarkRead(t *testing.T) {
	t.Run("returns the refreshed list after marking", func(t *testing.T) {
		logger := zaptest.NewLogger(t)
		notifID := uuid.New()
		marked := false
		mockRepo := &MockNotificationRepository{
			markNotificationRead: func(_ context.Context, id uuid.UUID, userID string) error {
				if id != notifID || userID != "u1" {
					t.Errorf("unexpected mark args %s %s", id, userID)
				}
				marked = true
				return nil
			},
			listNotifications: func(_ context.Context, _ string) ([]*models.Notification, error) {
				return []*models.Notification{{ID: notifID, UserID: "u1", Read: true}}, nil
			},
		}
		service := NewNotificationService(mockRepo, logger)

		list, err := service.MarkRead(context.Background(), notifID, "u1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !marked {
			t.Error("expected the repository mark to be invoked")
		}
		if len(list) != 1 || !list[0].Read {
			t.Errorf("expected the refreshed list with the read flag set, got %+v", list)
		}
	})

	t.Run("not found passthrough", func(t *testing.T) {
		logger := zaptest.NewLogger(t)
		mockRepo := &MockNotificationRepository{
			markNotificationRead: func(_ context.Context, _ uuid.UUID, _ string) error {
				return e.ErrNotFound
			},
		}
		service := NewNotificationService(mockRepo, logger)

		_, err := service.MarkRead(context.Background(), uuid.New(), "u1")
		if !errors.Is(err, e.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestNotificationService_ClearAll(t *testing.T) {
	logger := zaptest.NewLogger(t)
	cleared := false
	mockRepo := &MockNotificationRepository{
		clearNotifications: func(_ context.Context, userID string) error {
			if userID != "u1" {
				t.Errorf("expected user u1, got %q", userID)
			}
			cleared = true
			return nil
		},
		listNotifications: func(_ context.Context, _ string) ([]*models.Notification, error) {
			return []*models.Notification{}, nil
		},
	}
	service := NewNotificationService(mockRepo, logger)

	list, err := service.ClearAll(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cleared {
		t.Error("expected the repository clear to be invoked")
	}
	if len(list) != 0 {
		t.Errorf("expected the acknowledged empty list, got %+v", list)
	}
}

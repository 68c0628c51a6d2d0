package service

import (
	"context"
	"fmt"

	"github.com/fitlife-app/backend/internal/notify"
	"github.com/fitlife-app/backend/pkg/model"
	"go.uber.org/zap"
)

// NotificationService reads and acknowledges a user's notifications. Writing
// goes through the notifier, never through here.
type NotificationService struct {
	store  notify.Store
	logger *zap.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(store notify.Store, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		store:  store,
		logger: logger,
	}
}

// ListNotifications returns the actor's notifications, newest first
func (s *NotificationService) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]model.Notification, error) {
	notifications, err := s.store.FindByUser(ctx, userID, unreadOnly)
	if err != nil {
		s.logger.Error("failed to list notifications", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks one of the actor's notifications as read. The user filter
// is part of the update, so a foreign notification surfaces as not found.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	updated, err := s.store.MarkRead(ctx, notificationID, userID)
	if err != nil {
		s.logger.Error("failed to mark notification read",
			zap.Error(err),
			zap.String("notification_id", notificationID),
			zap.String("user_id", userID),
		)
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if !updated {
		return fmt.Errorf("%w: notification %s", ErrNotFound, notificationID)
	}
	return nil
}

// MarkAllRead marks every unread notification of the actor as read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.store.MarkAllRead(ctx, userID); err != nil {
		s.logger.Error("failed to mark notifications read", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

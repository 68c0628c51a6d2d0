// Package notify delivers in-app notifications on a best-effort basis.
// Delivery failures are logged and swallowed so a notification can never
// fail the operation that triggered it.
package notify

import (
	"context"
	"time"

	"github.com/fitlife-app/backend/pkg/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store persists notifications
type Store interface {
	Create(ctx context.Context, notification *model.Notification) error
	FindByUser(ctx context.Context, userID string, unreadOnly bool) ([]model.Notification, error)
	// MarkRead reports whether a matching unread notification was updated.
	MarkRead(ctx context.Context, notificationID, userID string) (bool, error)
	MarkAllRead(ctx context.Context, userID string) error
}

// Notifier creates notifications fire-and-forget
type Notifier struct {
	store  Store
	logger *zap.Logger
}

// New creates a new Notifier
func New(store Store, logger *zap.Logger) *Notifier {
	return &Notifier{
		store:  store,
		logger: logger,
	}
}

// Send creates a notification for userID. Errors are logged, never returned.
func (n *Notifier) Send(ctx context.Context, userID, message string, notificationType model.NotificationType) {
	notification := &model.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Message:   message,
		Type:      notificationType,
		CreatedAt: time.Now(),
	}

	if err := n.store.Create(ctx, notification); err != nil {
		n.logger.Warn("failed to deliver notification",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("type", string(notificationType)),
		)
		return
	}

	n.logger.Debug("notification delivered",
		zap.String("notification_id", notification.ID),
		zap.String("user_id", userID),
	)
}

// SendMany sends the same message to each user, best effort per recipient
func (n *Notifier) SendMany(ctx context.Context, userIDs []string, message string, notificationType model.NotificationType) {
	for _, userID := range userIDs {
		n.Send(ctx, userID, message, notificationType)
	}
}

package repository

import (
	"context"
	"fmt"

	"github.com/fitlife-app/backend/pkg/model"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// NotificationRepository manages notification persistence
type NotificationRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *pgxpool.Pool, logger *zap.Logger) *NotificationRepository {
	return &NotificationRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a notification
func (r *NotificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, message, type, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		notification.ID,
		notification.UserID,
		notification.Message,
		notification.Type,
		notification.IsRead,
		notification.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to insert notification",
			zap.Error(err),
			zap.String("notification_id", notification.ID),
			zap.String("user_id", notification.UserID),
		)
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	return nil
}

// FindByUser retrieves a user's notifications, newest first
func (r *NotificationRepository) FindByUser(ctx context.Context, userID string, unreadOnly bool) ([]model.Notification, error) {
	query := `
		SELECT id, user_id, message, type, is_read, created_at
		FROM notifications
		WHERE user_id = $1
	`
	if unreadOnly {
		query += ` AND is_read = FALSE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to query notifications", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt); err != nil {
			r.logger.Error("failed to scan notification", zap.Error(err))
			continue
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating notifications", zap.Error(err))
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	return notifications, nil
}

// MarkRead marks one notification as read, scoped to its owner. Reports
// whether a row was updated.
func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID, userID string) (bool, error) {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, query, notificationID, userID)
	if err != nil {
		r.logger.Error("failed to mark notification read",
			zap.Error(err),
			zap.String("notification_id", notificationID),
		)
		return false, fmt.Errorf("failed to mark notification read: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// MarkAllRead marks every unread notification of a user as read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`

	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to mark notifications read", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return nil
}

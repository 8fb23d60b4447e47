package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cookie-shop/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// NotificationRepository defines the interface for notification data access.
// Notifications are append-only; only the read flag is ever updated.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)
	ListUnreadByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	WithTx(tx *sql.Tx) NotificationRepository
}

type notificationRepository struct {
	db DBTX
}

// NewNotificationRepository creates a new instance of NotificationRepository
func NewNotificationRepository(db DBTX) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) WithTx(tx *sql.Tx) NotificationRepository {
	return &notificationRepository{db: tx}
}

// Create inserts a new notification using parameterized queries
func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, text, read, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		notification.ID,
		notification.UserID,
		notification.Text,
		notification.Read,
		notification.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// ListByUserID retrieves all notifications for a user, newest first
func (r *notificationRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	query := `
		SELECT id, user_id, text, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	return r.list(ctx, query, userID)
}

// ListUnreadByUserID retrieves unread notifications for a user, newest first
func (r *notificationRepository) ListUnreadByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	query := `
		SELECT id, user_id, text, read, created_at
		FROM notifications
		WHERE user_id = $1 AND read = FALSE
		ORDER BY created_at DESC
	`

	return r.list(ctx, query, userID)
}

// MarkRead flags a user's notification as read. Marking an already-read
// notification is a no-op success; a notification owned by another user is
// treated as not found.
func (r *notificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

// MarkAllRead flags every notification of a user as read. Idempotent.
func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func (r *notificationRepository) list(ctx context.Context, query string, userID uuid.UUID) ([]*domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*domain.Notification{}
	for rows.Next() {
		notification := &domain.Notification{}
		err := rows.Scan(
			&notification.ID,
			&notification.UserID,
			&notification.Text,
			&notification.Read,
			&notification.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, notification)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	return notifications, nil
}

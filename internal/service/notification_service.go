package service

import (
	"context"

	"cookie-shop/internal/domain"
	"cookie-shop/internal/repository"

	"github.com/google/uuid"
)

// NotificationService defines the interface for notification business logic
type NotificationService interface {
	GetNotifications(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)
	GetUnreadNotifications(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new instance of NotificationService
func NewNotificationService(notificationRepo repository.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

// GetNotifications retrieves all of a user's notifications, newest first
func (s *notificationService) GetNotifications(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	return s.notificationRepo.ListByUserID(ctx, userID)
}

// GetUnreadNotifications retrieves a user's unread notifications
func (s *notificationService) GetUnreadNotifications(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	return s.notificationRepo.ListUnreadByUserID(ctx, userID)
}

// MarkRead flags one of the user's notifications as read. Marking an
// already read notification succeeds without change.
func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return s.notificationRepo.MarkRead(ctx, userID, notificationID)
}

// MarkAllRead flags every notification of the user as read
func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

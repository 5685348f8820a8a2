package service

import (
	"context"

	"campusride/internal/domain"
	"campusride/internal/repository"
)

// NotificationService exposes the per-user inbox.
type NotificationService struct {
	inbox repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(inbox repository.NotificationRepository) *NotificationService {
	return &NotificationService{inbox: inbox}
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string) ([]*domain.Notification, error) {
	return s.inbox.GetByRecipient(ctx, userID)
}

// MarkRead marks one notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.inbox.MarkRead(ctx, notificationID, userID)
}

// MarkAllRead marks every unread notification as read and returns the
// count affected.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.inbox.MarkAllRead(ctx, userID)
}

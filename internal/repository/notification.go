package repository

import (
	"context"

	"campusride/internal/domain"
)

// NotificationRepository defines the persistence operations for the
// per-user notification inbox.
type NotificationRepository interface {
	// Create appends a notification to the recipient's inbox.
	Create(ctx context.Context, n *domain.Notification) error

	// GetByRecipient retrieves a user's notifications, newest first.
	GetByRecipient(ctx context.Context, recipientID string) ([]*domain.Notification, error)

	// MarkRead flips one notification to read. Returns ErrNotFound when
	// the notification is absent or owned by someone else.
	MarkRead(ctx context.Context, id, recipientID string) error

	// MarkAllRead flips every unread notification for the recipient and
	// returns how many were affected.
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
}

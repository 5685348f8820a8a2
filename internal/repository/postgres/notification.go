package postgres

import (
	"context"
	"database/sql"

	"campusride/internal/domain"
	"campusride/internal/repository"
)

// NotificationRepository is a PostgreSQL implementation of
// repository.NotificationRepository.
type NotificationRepository struct {
	q Querier
}

// NewNotificationRepository creates a new PostgreSQL notification repository.
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{q: db}
}

// Create appends a notification to the recipient's inbox.
func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient_id, booking_id, message, created_at, read)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		n.ID,
		n.RecipientID,
		n.BookingID,
		n.Message,
		n.CreatedAt,
		n.Read,
	)

	return err
}

// GetByRecipient retrieves a user's notifications, newest first.
func (r *NotificationRepository) GetByRecipient(ctx context.Context, recipientID string) ([]*domain.Notification, error) {
	query := `
		SELECT id, recipient_id, booking_id, message, created_at, read
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.BookingID, &n.Message, &n.CreatedAt, &n.Read); err != nil {
			return nil, err
		}
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

// MarkRead flips one notification to read, scoped to the recipient so
// users cannot touch someone else's inbox.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID string) error {
	query := `UPDATE notifications SET read = TRUE WHERE id = $1 AND recipient_id = $2`

	result, err := r.q.ExecContext(ctx, query, id, recipientID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// MarkAllRead flips every unread notification for the recipient.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	query := `UPDATE notifications SET read = TRUE WHERE recipient_id = $1 AND read = FALSE`

	result, err := r.q.ExecContext(ctx, query, recipientID)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

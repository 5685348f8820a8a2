package domain

import "time"

// Notification is an entry in a user's in-app inbox, produced by
// booking transitions. Append-only; the only mutation is unread to read.
type Notification struct {
	ID          string
	RecipientID string
	BookingID   string
	Message     string
	CreatedAt   time.Time
	Read        bool
}

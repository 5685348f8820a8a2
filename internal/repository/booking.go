package repository

import (
	"context"
	"time"

	"campusride/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GetByRider retrieves all bookings created by a rider.
	GetByRider(ctx context.Context, riderID string) ([]*domain.Booking, error)

	// GetByRide retrieves all bookings against one ride.
	GetByRide(ctx context.Context, rideID string) ([]*domain.Booking, error)

	// GetPendingByRides retrieves REQUESTED bookings across the given
	// rides, newest first.
	GetPendingByRides(ctx context.Context, rideIDs []string) ([]*domain.Booking, error)

	// MarkResponded transitions a booking out of REQUESTED. The update
	// matches on (id, ride_id, status = REQUESTED) in a single
	// statement; a booking that is absent, belongs to another ride, or
	// already reached a terminal state yields ErrNotFound. This is what
	// makes concurrent accept/reject/cancel resolve to a single winner.
	MarkResponded(ctx context.Context, id, rideID string, status domain.BookingStatus, respondedAt time.Time) error
}

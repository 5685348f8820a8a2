package repository

import (
	"context"

	"campusride/internal/domain"
)

// RideRepository defines the persistence operations for ride offers.
type RideRepository interface {
	// Create persists a new ride offer.
	Create(ctx context.Context, ride *domain.RideOffer) error

	// GetByID retrieves a ride offer by ID.
	GetByID(ctx context.Context, id string) (*domain.RideOffer, error)

	// GetByOfferer retrieves all rides offered by a user, newest first.
	GetByOfferer(ctx context.Context, offererID string) ([]*domain.RideOffer, error)

	// GetByRoute retrieves all rides with an exactly matching route.
	GetByRoute(ctx context.Context, pickup, drop string) ([]*domain.RideOffer, error)

	// DecrementSeat atomically consumes one seat. The update is
	// predicate-guarded: it succeeds only if seats_available > 0 at the
	// instant of mutation, so two concurrent accepts can never both win
	// the last seat. Returns the post-mutation offer, or ErrNoSeats.
	DecrementSeat(ctx context.Context, id string) (*domain.RideOffer, error)

	// IncrementSeat atomically returns one seat, guarded by
	// seats_available < total_seats. Used only to compensate a seat
	// taken by an accept whose ledger transition lost the race.
	IncrementSeat(ctx context.Context, id string) error
}

package postgres

import (
	"context"
	"database/sql"
	"errors"

	"campusride/internal/domain"
	"campusride/internal/repository"
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

// NewRideRepositoryWithTx creates a ride repository using a transaction.
func NewRideRepositoryWithTx(tx *sql.Tx) *RideRepository {
	return &RideRepository{q: tx}
}

const rideColumns = `id, offerer_id, pickup_location, drop_location, ride_date, ride_time, total_seats, seats_available, luggage, created_at`

// Create persists a new ride offer.
func (r *RideRepository) Create(ctx context.Context, ride *domain.RideOffer) error {
	query := `
		INSERT INTO rides (` + rideColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.OffererID,
		ride.PickupLocation,
		ride.DropLocation,
		ride.Date,
		ride.Time,
		ride.TotalSeats,
		ride.SeatsAvailable,
		ride.Luggage,
		ride.CreatedAt,
	)

	return err
}

// GetByID retrieves a ride offer by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.RideOffer, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`

	ride, err := scanRide(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return ride, nil
}

// GetByOfferer retrieves all rides offered by a user, newest first.
func (r *RideRepository) GetByOfferer(ctx context.Context, offererID string) ([]*domain.RideOffer, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE offerer_id = $1 ORDER BY created_at DESC`
	return r.queryRides(ctx, query, offererID)
}

// GetByRoute retrieves all rides with an exactly matching route, in
// insertion order. The matching engine relies on this order for stable
// tie-breaking.
func (r *RideRepository) GetByRoute(ctx context.Context, pickup, drop string) ([]*domain.RideOffer, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE pickup_location = $1 AND drop_location = $2 ORDER BY created_at ASC`
	return r.queryRides(ctx, query, pickup, drop)
}

// DecrementSeat consumes one seat with a predicate-guarded update.
// The WHERE clause, not an application-level read, is what prevents two
// concurrent accepts from both taking the last seat.
func (r *RideRepository) DecrementSeat(ctx context.Context, id string) (*domain.RideOffer, error) {
	query := `
		UPDATE rides
		SET seats_available = seats_available - 1
		WHERE id = $1 AND seats_available > 0
		RETURNING ` + rideColumns + `
	`

	ride, err := scanRide(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNoSeats
		}
		return nil, err
	}
	return ride, nil
}

// IncrementSeat returns one seat, guarded against exceeding capacity.
func (r *RideRepository) IncrementSeat(ctx context.Context, id string) error {
	query := `
		UPDATE rides
		SET seats_available = seats_available + 1
		WHERE id = $1 AND seats_available < total_seats
	`

	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrSeatsAtCapacity
	}

	return nil
}

func (r *RideRepository) queryRides(ctx context.Context, query string, args ...any) ([]*domain.RideOffer, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*domain.RideOffer
	for rows.Next() {
		var ride domain.RideOffer
		if err := rows.Scan(
			&ride.ID,
			&ride.OffererID,
			&ride.PickupLocation,
			&ride.DropLocation,
			&ride.Date,
			&ride.Time,
			&ride.TotalSeats,
			&ride.SeatsAvailable,
			&ride.Luggage,
			&ride.CreatedAt,
		); err != nil {
			return nil, err
		}
		rides = append(rides, &ride)
	}
	return rides, rows.Err()
}

// scanRide scans a single ride row.
func scanRide(row *sql.Row) (*domain.RideOffer, error) {
	var ride domain.RideOffer
	err := row.Scan(
		&ride.ID,
		&ride.OffererID,
		&ride.PickupLocation,
		&ride.DropLocation,
		&ride.Date,
		&ride.Time,
		&ride.TotalSeats,
		&ride.SeatsAvailable,
		&ride.Luggage,
		&ride.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ride, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"campusride/internal/domain"
	"campusride/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

const bookingColumns = `id, ride_id, rider_id, offerer_id, pickup_location, drop_location, ride_date, ride_time, requested_at, responded_at, status`

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	var respondedAt sql.NullTime
	if !booking.RespondedAt.IsZero() {
		respondedAt = sql.NullTime{Time: booking.RespondedAt, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.RideID,
		booking.RiderID,
		booking.OffererID,
		booking.Ride.PickupLocation,
		booking.Ride.DropLocation,
		booking.Ride.Date,
		booking.Ride.Time,
		booking.RequestedAt,
		respondedAt,
		booking.Status,
	)

	return err
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBookingRow(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return booking, nil
}

// GetByRider retrieves all bookings created by a rider.
func (r *BookingRepository) GetByRider(ctx context.Context, riderID string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE rider_id = $1 ORDER BY requested_at DESC`
	return r.queryBookings(ctx, query, riderID)
}

// GetByRide retrieves all bookings against one ride.
func (r *BookingRepository) GetByRide(ctx context.Context, rideID string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ride_id = $1 ORDER BY requested_at DESC`
	return r.queryBookings(ctx, query, rideID)
}

// GetPendingByRides retrieves REQUESTED bookings across the given rides,
// newest first.
func (r *BookingRepository) GetPendingByRides(ctx context.Context, rideIDs []string) ([]*domain.Booking, error) {
	if len(rideIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE ride_id = ANY($1) AND status = $2
		ORDER BY requested_at DESC
	`
	return r.queryBookings(ctx, query, pq.Array(rideIDs), domain.BookingStatusRequested)
}

// MarkResponded transitions a booking out of REQUESTED with a single
// conditional update. Zero rows affected means the booking is absent,
// on another ride, or already handled.
func (r *BookingRepository) MarkResponded(ctx context.Context, id, rideID string, status domain.BookingStatus, respondedAt time.Time) error {
	query := `
		UPDATE bookings
		SET status = $1, responded_at = $2
		WHERE id = $3 AND ride_id = $4 AND status = $5
	`

	result, err := r.q.ExecContext(ctx, query, status, respondedAt, id, rideID, domain.BookingStatusRequested)
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

func (r *BookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]*domain.Booking, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		var booking domain.Booking
		var respondedAt sql.NullTime
		if err := rows.Scan(
			&booking.ID,
			&booking.RideID,
			&booking.RiderID,
			&booking.OffererID,
			&booking.Ride.PickupLocation,
			&booking.Ride.DropLocation,
			&booking.Ride.Date,
			&booking.Ride.Time,
			&booking.RequestedAt,
			&respondedAt,
			&booking.Status,
		); err != nil {
			return nil, err
		}
		if respondedAt.Valid {
			booking.RespondedAt = respondedAt.Time
		}
		bookings = append(bookings, &booking)
	}
	return bookings, rows.Err()
}

func scanBookingRow(row *sql.Row) (*domain.Booking, error) {
	var booking domain.Booking
	var respondedAt sql.NullTime
	err := row.Scan(
		&booking.ID,
		&booking.RideID,
		&booking.RiderID,
		&booking.OffererID,
		&booking.Ride.PickupLocation,
		&booking.Ride.DropLocation,
		&booking.Ride.Date,
		&booking.Ride.Time,
		&booking.RequestedAt,
		&respondedAt,
		&booking.Status,
	)
	if err != nil {
		return nil, err
	}
	if respondedAt.Valid {
		booking.RespondedAt = respondedAt.Time
	}
	return &booking, nil
}

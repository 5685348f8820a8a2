package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist,
	// or when a conditional update matched no row.
	ErrNotFound = errors.New("entity not found")

	// ErrNoSeats is returned by DecrementSeat when the ride has no
	// seats left (or does not exist) at the instant of the update.
	ErrNoSeats = errors.New("no seats available")

	// ErrSeatsAtCapacity is returned by IncrementSeat when the ride is
	// already at full capacity; incrementing past TotalSeats would
	// break the seat invariant.
	ErrSeatsAtCapacity = errors.New("seats already at capacity")
)

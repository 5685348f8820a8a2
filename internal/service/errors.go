package service

import "errors"

var (
	// ErrMissingFields is returned when required input fields are absent.
	ErrMissingFields = errors.New("missing required fields")

	// ErrInvalidSeatCount is returned when seat counts violate
	// totalSeats >= 1 or 0 <= seatsAvailable <= totalSeats.
	ErrInvalidSeatCount = errors.New("invalid seat count")

	// ErrInvalidClock is returned for a time-of-day string that is
	// neither 24-hour "HH:MM" nor 12-hour "H:MM AM/PM".
	ErrInvalidClock = errors.New("invalid time of day")

	// ErrInvalidRideID is returned when a ride ID is malformed.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrInvalidBookingID is returned when a booking ID is malformed.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrSeatUnavailable is returned when an accept loses the race for
	// the last seat, or the ride has none left.
	ErrSeatUnavailable = errors.New("no seats available to accept")

	// ErrAlreadyHandled is returned when a booking is absent or has
	// already left the REQUESTED state.
	ErrAlreadyHandled = errors.New("not found or already handled")

	// ErrCannotCancel is returned when a cancellation is not owned by
	// the caller or the booking is no longer pending.
	ErrCannotCancel = errors.New("cannot cancel")

	// ErrNotOfferer is returned when a caller tries to respond to
	// requests on a ride they did not offer.
	ErrNotOfferer = errors.New("not the offerer of this ride")
)

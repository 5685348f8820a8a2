package domain

import "time"

// BookingStatus represents the current status of a booking request.
type BookingStatus string

const (
	BookingStatusRequested BookingStatus = "REQUESTED"
	BookingStatusAccepted  BookingStatus = "ACCEPTED"
	BookingStatusRejected  BookingStatus = "REJECTED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Terminal reports whether no further transition is legal from s.
// REQUESTED is the only state a booking can leave.
func (s BookingStatus) Terminal() bool {
	return s != BookingStatusRequested
}

// RideSnapshot captures the ride details at the moment a booking was
// created. It is never refreshed; later edits to the ride do not change
// what a pending request displays.
type RideSnapshot struct {
	PickupLocation string
	DropLocation   string
	Date           time.Time
	Time           string
}

// Booking represents a rider's claim against a ride offer.
type Booking struct {
	ID          string
	RideID      string
	RiderID     string
	OffererID   string
	Ride        RideSnapshot
	RequestedAt time.Time
	RespondedAt time.Time // zero until the booking leaves REQUESTED
	Status      BookingStatus
}

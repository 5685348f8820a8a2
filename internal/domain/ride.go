package domain

import "time"

// LuggagePolicy describes how much luggage an offered ride can take.
type LuggagePolicy string

const (
	LuggageNone   LuggagePolicy = "NONE"
	LuggageSmall  LuggagePolicy = "SMALL"
	LuggageMedium LuggagePolicy = "MEDIUM"
	LuggageLarge  LuggagePolicy = "LARGE"
)

// RideOffer represents a ride posted by a student with seat capacity.
//
// SeatsAvailable is mutated only through the repository's conditional
// seat operations; 0 <= SeatsAvailable <= TotalSeats holds at all times.
type RideOffer struct {
	ID             string
	OffererID      string
	PickupLocation string
	DropLocation   string
	Date           time.Time // day of the ride, midnight local
	Time           string    // clock string as entered, "HH:MM" or "H:MM AM/PM"
	TotalSeats     int
	SeatsAvailable int
	Luggage        LuggagePolicy
	CreatedAt      time.Time
}

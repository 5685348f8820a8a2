package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"campusride/internal/domain"
	"campusride/internal/repository"
)

// OfferService handles ride offer creation and the offerer's history.
type OfferService struct {
	rideRepo    repository.RideRepository
	bookingRepo repository.BookingRepository
	directory   *IdentityDirectory
}

// NewOfferService creates a new OfferService.
func NewOfferService(
	rideRepo repository.RideRepository,
	bookingRepo repository.BookingRepository,
	directory *IdentityDirectory,
) *OfferService {
	return &OfferService{
		rideRepo:    rideRepo,
		bookingRepo: bookingRepo,
		directory:   directory,
	}
}

// CreateOfferRequest contains the parameters for posting a ride.
type CreateOfferRequest struct {
	OffererID      string
	PickupLocation string
	DropLocation   string
	Date           time.Time
	Time           string
	TotalSeats     int
	SeatsAvailable int
	Luggage        domain.LuggagePolicy
}

// CreateOffer validates and persists a new ride offer.
func (s *OfferService) CreateOffer(ctx context.Context, req CreateOfferRequest) (*domain.RideOffer, error) {
	if req.OffererID == "" || req.PickupLocation == "" || req.DropLocation == "" ||
		req.Time == "" || req.Date.IsZero() {
		return nil, ErrMissingFields
	}

	if req.TotalSeats < 1 || req.SeatsAvailable < 0 || req.SeatsAvailable > req.TotalSeats {
		return nil, ErrInvalidSeatCount
	}

	// Reject clock strings the matching engine could not rank later.
	if _, err := NormalizeClock(req.Time); err != nil {
		return nil, err
	}

	luggage := req.Luggage
	if luggage == "" {
		luggage = domain.LuggageNone
	}

	ride := &domain.RideOffer{
		ID:             uuid.New().String(),
		OffererID:      req.OffererID,
		PickupLocation: req.PickupLocation,
		DropLocation:   req.DropLocation,
		Date:           req.Date,
		Time:           req.Time,
		TotalSeats:     req.TotalSeats,
		SeatsAvailable: req.SeatsAvailable,
		Luggage:        luggage,
		CreatedAt:      time.Now(),
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}

	return ride, nil
}

// Joiner is a booking against an offered ride, enriched with the
// requester's contact details.
type Joiner struct {
	BookingID   string
	Status      domain.BookingStatus
	RequestedAt time.Time
	Requester   Contact
}

// OfferedRideHistory is one offered ride with everyone who requested it.
type OfferedRideHistory struct {
	Ride    *domain.RideOffer
	Joiners []Joiner
}

// OfferedHistory lists the caller's offered rides with their bookings.
func (s *OfferService) OfferedHistory(ctx context.Context, offererID string) ([]OfferedRideHistory, error) {
	rides, err := s.rideRepo.GetByOfferer(ctx, offererID)
	if err != nil {
		return nil, err
	}

	bookingsByRide := make(map[string][]*domain.Booking, len(rides))
	var riderIDs []string
	for _, ride := range rides {
		bookings, err := s.bookingRepo.GetByRide(ctx, ride.ID)
		if err != nil {
			return nil, err
		}
		bookingsByRide[ride.ID] = bookings
		for _, b := range bookings {
			riderIDs = append(riderIDs, b.RiderID)
		}
	}
	contacts := s.directory.Contacts(ctx, riderIDs)

	history := make([]OfferedRideHistory, 0, len(rides))
	for _, ride := range rides {
		entry := OfferedRideHistory{Ride: ride}
		for _, b := range bookingsByRide[ride.ID] {
			entry.Joiners = append(entry.Joiners, Joiner{
				BookingID:   b.ID,
				Status:      b.Status,
				RequestedAt: b.RequestedAt,
				Requester:   contacts[b.RiderID],
			})
		}
		history = append(history, entry)
	}

	return history, nil
}

package service

import (
	"context"
	"math"
	"sort"
	"time"

	"campusride/internal/domain"
	"campusride/internal/repository"
)

// MatchServiceInterface defines the matching engine contract.
// This interface allows for testing with mock implementations.
type MatchServiceInterface interface {
	Search(ctx context.Context, req SearchRequest) ([]RankedOffer, error)
}

// Ensure MatchService implements MatchServiceInterface.
var _ MatchServiceInterface = (*MatchService)(nil)

// MatchService is the read-only query path that ranks ride offers by
// proximity to a desired departure instant.
//
// Policy: route matching is exact (pickup and drop equality) and the
// whole result set is ordered by absolute time distance. There is no
// exact-date first pass or fallback window.
type MatchService struct {
	rideRepo  repository.RideRepository
	directory *IdentityDirectory
}

// NewMatchService creates a new MatchService.
func NewMatchService(rideRepo repository.RideRepository, directory *IdentityDirectory) *MatchService {
	return &MatchService{
		rideRepo:  rideRepo,
		directory: directory,
	}
}

// SearchRequest contains the rider's desired route and departure.
type SearchRequest struct {
	PickupLocation string
	DropLocation   string
	Date           time.Time
	Time           string
}

// RankedOffer is a search hit enriched with the offerer's contact.
type RankedOffer struct {
	Ride    *domain.RideOffer
	Offerer Contact
}

// Search returns offers on the requested route, nearest departure
// first. Ties keep store order, so repeated searches are stable.
func (s *MatchService) Search(ctx context.Context, req SearchRequest) ([]RankedOffer, error) {
	if req.PickupLocation == "" || req.DropLocation == "" || req.Time == "" || req.Date.IsZero() {
		return nil, ErrMissingFields
	}

	desired, err := ScheduleAt(req.Date, req.Time)
	if err != nil {
		return nil, err
	}

	rides, err := s.rideRepo.GetByRoute(ctx, req.PickupLocation, req.DropLocation)
	if err != nil {
		return nil, err
	}

	type annotated struct {
		ride *domain.RideOffer
		diff time.Duration
	}

	entries := make([]annotated, 0, len(rides))
	for _, ride := range rides {
		at, err := ScheduleAt(ride.Date, ride.Time)
		if err != nil {
			// Offers are validated on creation; anything unparseable
			// that slipped in sorts last rather than breaking search.
			entries = append(entries, annotated{ride: ride, diff: math.MaxInt64})
			continue
		}

		diff := at.Sub(desired)
		if diff < 0 {
			diff = -diff
		}
		entries = append(entries, annotated{ride: ride, diff: diff})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].diff < entries[j].diff
	})

	offererIDs := make([]string, 0, len(entries))
	for _, e := range entries {
		offererIDs = append(offererIDs, e.ride.OffererID)
	}
	contacts := s.directory.Contacts(ctx, offererIDs)

	results := make([]RankedOffer, 0, len(entries))
	for _, e := range entries {
		results = append(results, RankedOffer{
			Ride:    e.ride,
			Offerer: contacts[e.ride.OffererID],
		})
	}

	return results, nil
}

package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"campusride/internal/domain"
	"campusride/internal/service"
)

// ──────────────────────────────────────────────
// RIDE MATCHING
// ──────────────────────────────────────────────

func newMatchFixture() (*MockRideRepository, *MockStudentRepository, *service.MatchService) {
	rideRepo := NewMockRideRepository()
	students := NewMockStudentRepository()
	directory := service.NewIdentityDirectory(students, nil)
	return rideRepo, students, service.NewMatchService(rideRepo, directory)
}

func addRouteRide(rideRepo *MockRideRepository, pickup, drop, clock string, date time.Time) *domain.RideOffer {
	ride := &domain.RideOffer{
		ID:             uuid.NewString(),
		OffererID:      uuid.NewString(),
		PickupLocation: pickup,
		DropLocation:   drop,
		Date:           date,
		Time:           clock,
		TotalSeats:     3,
		SeatsAvailable: 3,
		Luggage:        domain.LuggageNone,
		CreatedAt:      time.Now(),
	}
	rideRepo.AddRide(ride)
	return ride
}

func TestSearch_OrdersByAbsoluteTimeDistance(t *testing.T) {
	t.Parallel()

	rideRepo, _, svc := newMatchFixture()
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	late := addRouteRide(rideRepo, "Hostel Gate", "Airport", "11:30", date)
	near := addRouteRide(rideRepo, "Hostel Gate", "Airport", "10:00", date)
	early := addRouteRide(rideRepo, "Hostel Gate", "Airport", "09:00", date)

	results, err := svc.Search(context.Background(), service.SearchRequest{
		PickupLocation: "Hostel Gate",
		DropLocation:   "Airport",
		Date:           date,
		Time:           "10:15",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Distances: 10:00 is 15m, 11:30 is 75m, 09:00 is 75m. The tie
	// keeps store order, so 11:30 (inserted first) precedes 09:00.
	want := []string{near.ID, late.ID, early.ID}
	if len(results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(results))
	}
	for i, id := range want {
		if results[i].Ride.ID != id {
			t.Errorf("position %d: expected ride %s, got %s", i, id, results[i].Ride.ID)
		}
	}
}

func TestSearch_ExactRouteMatchOnly(t *testing.T) {
	t.Parallel()

	rideRepo, _, svc := newMatchFixture()
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	match := addRouteRide(rideRepo, "Hostel Gate", "Airport", "10:00", date)
	addRouteRide(rideRepo, "Hostel Gate", "Railway Station", "10:00", date)
	addRouteRide(rideRepo, "Main Gate", "Airport", "10:00", date)

	results, err := svc.Search(context.Background(), service.SearchRequest{
		PickupLocation: "Hostel Gate",
		DropLocation:   "Airport",
		Date:           date,
		Time:           "10:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 1 || results[0].Ride.ID != match.ID {
		t.Errorf("expected only the exact route match, got %d results", len(results))
	}
}

func TestSearch_MixedClockFormatsRankTogether(t *testing.T) {
	t.Parallel()

	rideRepo, _, svc := newMatchFixture()
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	// "2:00 PM" and "14:05" are five minutes apart.
	afternoon := addRouteRide(rideRepo, "A", "B", "2:00 PM", date)
	canonical := addRouteRide(rideRepo, "A", "B", "14:05", date)
	morning := addRouteRide(rideRepo, "A", "B", "08:00", date)

	results, err := svc.Search(context.Background(), service.SearchRequest{
		PickupLocation: "A",
		DropLocation:   "B",
		Date:           date,
		Time:           "14:04",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{canonical.ID, afternoon.ID, morning.ID}
	for i, id := range want {
		if results[i].Ride.ID != id {
			t.Errorf("position %d: expected ride %s, got %s", i, id, results[i].Ride.ID)
		}
	}
}

func TestSearch_EnrichesOffererContact(t *testing.T) {
	t.Parallel()

	rideRepo, students, svc := newMatchFixture()
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	known := addRouteRide(rideRepo, "A", "B", "10:00", date)
	students.AddStudent(&domain.Student{
		ID:    known.OffererID,
		Name:  "Asha",
		Email: "asha@campus.edu",
		Phone: "111",
	})
	addRouteRide(rideRepo, "A", "B", "10:30", date) // offerer unknown

	results, err := svc.Search(context.Background(), service.SearchRequest{
		PickupLocation: "A",
		DropLocation:   "B",
		Date:           date,
		Time:           "10:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if results[0].Offerer.Name != "Asha" || results[0].Offerer.Phone != "111" {
		t.Errorf("expected enriched contact, got %+v", results[0].Offerer)
	}
	// Unknown identities degrade to the placeholder instead of failing
	// the search.
	if results[1].Offerer.Name != "Unknown" || results[1].Offerer.Phone != "N/A" {
		t.Errorf("expected placeholder contact, got %+v", results[1].Offerer)
	}
}

func TestSearch_ValidatesInput(t *testing.T) {
	t.Parallel()

	_, _, svc := newMatchFixture()
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	_, err := svc.Search(context.Background(), service.SearchRequest{
		PickupLocation: "",
		DropLocation:   "B",
		Date:           date,
		Time:           "10:00",
	})
	if !errors.Is(err, service.ErrMissingFields) {
		t.Errorf("expected ErrMissingFields, got %v", err)
	}

	_, err = svc.Search(context.Background(), service.SearchRequest{
		PickupLocation: "A",
		DropLocation:   "B",
		Date:           date,
		Time:           "25:99",
	})
	if !errors.Is(err, service.ErrInvalidClock) {
		t.Errorf("expected ErrInvalidClock, got %v", err)
	}
}

func TestSearch_EmptyResultIsNotAnError(t *testing.T) {
	t.Parallel()

	_, _, svc := newMatchFixture()

	results, err := svc.Search(context.Background(), service.SearchRequest{
		PickupLocation: "Nowhere",
		DropLocation:   "Elsewhere",
		Date:           time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		Time:           "10:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

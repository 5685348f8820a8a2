package tests

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"campusride/internal/domain"
	"campusride/internal/service"
)

// ──────────────────────────────────────────────
// BOOKING LIFECYCLE
// ──────────────────────────────────────────────

type bookingFixture struct {
	rideRepo    *MockRideRepository
	bookingRepo *MockBookingRepository
	inbox       *MockNotificationRepository
	students    *MockStudentRepository
	mailbox     *MailRecorder
	svc         *service.BookingService
}

func newBookingFixture() *bookingFixture {
	f := &bookingFixture{
		rideRepo:    NewMockRideRepository(),
		bookingRepo: NewMockBookingRepository(),
		inbox:       NewMockNotificationRepository(),
		students:    NewMockStudentRepository(),
		mailbox:     NewMailRecorder(),
	}
	directory := service.NewIdentityDirectory(f.students, nil)
	f.svc = service.NewBookingService(f.rideRepo, f.bookingRepo, f.inbox, directory, f.mailbox)
	return f
}

func (f *bookingFixture) addStudent(id, name, email, phone string) {
	f.students.AddStudent(&domain.Student{
		ID:    id,
		Name:  name,
		Email: email,
		Phone: phone,
	})
}

func (f *bookingFixture) addRide(offererID string, seats int) *domain.RideOffer {
	ride := &domain.RideOffer{
		ID:             uuid.NewString(),
		OffererID:      offererID,
		PickupLocation: "Hostel Gate",
		DropLocation:   "Airport",
		Date:           time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		Time:           "14:30",
		TotalSeats:     seats,
		SeatsAvailable: seats,
		Luggage:        domain.LuggageSmall,
		CreatedAt:      time.Now(),
	}
	f.rideRepo.AddRide(ride)
	return ride
}

func (f *bookingFixture) addPendingBooking(ride *domain.RideOffer, riderID string) *domain.Booking {
	booking := &domain.Booking{
		ID:        uuid.NewString(),
		RideID:    ride.ID,
		RiderID:   riderID,
		OffererID: ride.OffererID,
		Ride: domain.RideSnapshot{
			PickupLocation: ride.PickupLocation,
			DropLocation:   ride.DropLocation,
			Date:           ride.Date,
			Time:           ride.Time,
		},
		RequestedAt: time.Now(),
		Status:      domain.BookingStatusRequested,
	}
	f.bookingRepo.AddBooking(booking)
	return booking
}

func TestRequestRide_CreatesPendingBookingAndNotifiesOfferer(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	offererID := uuid.NewString()
	riderID := uuid.NewString()
	f.addStudent(offererID, "Asha", "asha@campus.edu", "111")
	f.addStudent(riderID, "Ravi", "ravi@campus.edu", "222")
	ride := f.addRide(offererID, 2)

	booking, err := f.svc.RequestRide(context.Background(), riderID, ride.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != domain.BookingStatusRequested {
		t.Errorf("expected status %s, got %s", domain.BookingStatusRequested, booking.Status)
	}
	if booking.Ride.PickupLocation != ride.PickupLocation || booking.Ride.Time != ride.Time {
		t.Error("booking snapshot does not match the ride")
	}

	// Requesting must not consume a seat.
	if got := f.rideRepo.GetRide(ride.ID).SeatsAvailable; got != 2 {
		t.Errorf("expected 2 seats still available, got %d", got)
	}

	// Offerer gets the notification and the email.
	n := f.inbox.LastFor(offererID)
	if n == nil {
		t.Fatal("expected a notification for the offerer")
	}
	if !strings.Contains(n.Message, "Ravi") {
		t.Errorf("notification should name the requester, got %q", n.Message)
	}
	messages := f.mailbox.Messages()
	if len(messages) != 1 || messages[0].To != "asha@campus.edu" {
		t.Errorf("expected one email to the offerer, got %+v", messages)
	}
}

func TestRequestRide_DuplicateRequestsAllowed(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	offererID := uuid.NewString()
	riderID := uuid.NewString()
	f.addStudent(offererID, "Asha", "asha@campus.edu", "111")
	f.addStudent(riderID, "Ravi", "ravi@campus.edu", "222")
	ride := f.addRide(offererID, 1)

	first, err := f.svc.RequestRide(context.Background(), riderID, ride.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := f.svc.RequestRide(context.Background(), riderID, ride.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID == second.ID {
		t.Error("expected two distinct bookings")
	}
}

func TestRequestRide_UnknownRide(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	_, err := f.svc.RequestRide(context.Background(), uuid.NewString(), uuid.NewString())
	if err == nil {
		t.Fatal("expected error for unknown ride")
	}

	_, err = f.svc.RequestRide(context.Background(), uuid.NewString(), "not-a-uuid")
	if !errors.Is(err, service.ErrInvalidRideID) {
		t.Errorf("expected ErrInvalidRideID, got %v", err)
	}
}

func TestAcceptRequest_ConsumesSeatAndNotifiesRider(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	offererID := uuid.NewString()
	riderID := uuid.NewString()
	f.addStudent(offererID, "Asha", "asha@campus.edu", "111")
	f.addStudent(riderID, "Ravi", "ravi@campus.edu", "222")
	ride := f.addRide(offererID, 2)
	booking := f.addPendingBooking(ride, riderID)

	accepted, updatedRide, err := f.svc.AcceptRequest(context.Background(), offererID, ride.ID, booking.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if accepted.Status != domain.BookingStatusAccepted {
		t.Errorf("expected status %s, got %s", domain.BookingStatusAccepted, accepted.Status)
	}
	if updatedRide.SeatsAvailable != 1 {
		t.Errorf("expected 1 seat left, got %d", updatedRide.SeatsAvailable)
	}

	n := f.inbox.LastFor(riderID)
	if n == nil {
		t.Fatal("expected a notification for the rider")
	}
	if !strings.Contains(n.Message, "ACCEPTED") {
		t.Errorf("unexpected notification message %q", n.Message)
	}

	messages := f.mailbox.Messages()
	if len(messages) != 1 || messages[0].To != "ravi@campus.edu" {
		t.Errorf("expected one email to the rider, got %+v", messages)
	}
	// The acceptance email carries the offerer's contact details.
	if !strings.Contains(messages[0].Body, "Asha") || !strings.Contains(messages[0].Body, "111") {
		t.Error("acceptance email should include the offerer's contact")
	}
}

func TestAcceptRequest_OnlyOffererMayRespond(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	offererID := uuid.NewString()
	riderID := uuid.NewString()
	intruderID := uuid.NewString()
	ride := f.addRide(offererID, 1)
	booking := f.addPendingBooking(ride, riderID)

	_, _, err := f.svc.AcceptRequest(context.Background(), intruderID, ride.ID, booking.ID)
	if !errors.Is(err, service.ErrNotOfferer) {
		t.Errorf("expected ErrNotOfferer, got %v", err)
	}

	// Nothing changed.
	if got := f.rideRepo.GetRide(ride.ID).SeatsAvailable; got != 1 {
		t.Errorf("expected seat untouched, got %d", got)
	}
	if got := f.bookingRepo.GetBooking(booking.ID).Status; got != domain.BookingStatusRequested {
		t.Errorf("expected booking still pending, got %s", got)
	}
}

func TestAcceptRequest_NoSeatsLeft(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	offererID := uuid.NewString()
	ride := f.addRide(offererID, 1)
	ride.SeatsAvailable = 0
	booking := f.addPendingBooking(ride, uuid.NewString())

	_, _, err := f.svc.AcceptRequest(context.Background(), offererID, ride.ID, booking.ID)
	if !errors.Is(err, service.ErrSeatUnavailable) {
		t.Errorf("expected ErrSeatUnavailable, got %v", err)
	}
	if got := f.bookingRepo.GetBooking(booking.ID).Status; got != domain.BookingStatusRequested {
		t.Errorf("expected booking still pending, got %s", got)
	}
}

func TestAcceptRequest_AlreadyHandledCompensatesSeat(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	offererID := uuid.NewString()
	riderID := uuid.NewString()
	f.addStudent(riderID, "Ravi", "ravi@campus.edu", "222")
	ride := f.addRide(offererID, 2)
	booking := f.addPendingBooking(ride, riderID)
	booking.Status = domain.BookingStatusCancelled

	_, _, err := f.svc.AcceptRequest(context.Background(), offererID, ride.ID, booking.ID)
	if !errors.Is(err, service.ErrAlreadyHandled) {
		t.Fatalf("expected ErrAlreadyHandled, got %v", err)
	}

	// The decremented seat was given back.
	if got := f.rideRepo.GetRide(ride.ID).SeatsAvailable; got != 2 {
		t.Errorf("expected seat compensated back to 2, got %d", got)
	}
	if f.rideRepo.IncrementCallCount != 1 {
		t.Errorf("expected one compensation call, got %d", f.rideRepo.IncrementCallCount)
	}
	// A failed accept must not notify anyone.
	if count := f.inbox.CountFor(riderID); count != 0 {
		t.Errorf("expected no notifications, got %d", count)
	}
}

func TestRejectRequest_LeavesSeatsUntouched(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	offererID := uuid.NewString()
	riderID := uuid.NewString()
	f.addStudent(offererID, "Asha", "asha@campus.edu", "111")
	f.addStudent(riderID, "Ravi", "ravi@campus.edu", "222")
	ride := f.addRide(offererID, 2)
	booking := f.addPendingBooking(ride, riderID)

	rejected, err := f.svc.RejectRequest(context.Background(), offererID, ride.ID, booking.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rejected.Status != domain.BookingStatusRejected {
		t.Errorf("expected status %s, got %s", domain.BookingStatusRejected, rejected.Status)
	}
	if got := f.rideRepo.GetRide(ride.ID).SeatsAvailable; got != 2 {
		t.Errorf("reject must not touch seats, got %d", got)
	}

	n := f.inbox.LastFor(riderID)
	if n == nil || !strings.Contains(n.Message, "REJECTED") {
		t.Errorf("expected rejection notification for the rider, got %+v", n)
	}
}

func TestRejectRequest_AlreadyHandled(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	offererID := uuid.NewString()
	ride := f.addRide(offererID, 1)
	booking := f.addPendingBooking(ride, uuid.NewString())
	booking.Status = domain.BookingStatusAccepted

	_, err := f.svc.RejectRequest(context.Background(), offererID, ride.ID, booking.ID)
	if !errors.Is(err, service.ErrAlreadyHandled) {
		t.Errorf("expected ErrAlreadyHandled, got %v", err)
	}
}

func TestCancelRequest_ByRequesterWhilePending(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	offererID := uuid.NewString()
	riderID := uuid.NewString()
	f.addStudent(offererID, "Asha", "asha@campus.edu", "111")
	f.addStudent(riderID, "Ravi", "ravi@campus.edu", "222")
	ride := f.addRide(offererID, 1)
	booking := f.addPendingBooking(ride, riderID)

	cancelled, err := f.svc.CancelRequest(context.Background(), riderID, ride.ID, booking.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancelled.Status != domain.BookingStatusCancelled {
		t.Errorf("expected status %s, got %s", domain.BookingStatusCancelled, cancelled.Status)
	}

	// Offerer learns about the withdrawal.
	n := f.inbox.LastFor(offererID)
	if n == nil || !strings.Contains(n.Message, "withdrew") {
		t.Errorf("expected withdrawal notification for the offerer, got %+v", n)
	}
}

func TestCancelRequest_OnlyRequesterWhilePending(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	offererID := uuid.NewString()
	riderID := uuid.NewString()
	ride := f.addRide(offererID, 1)
	booking := f.addPendingBooking(ride, riderID)

	// The offerer cannot cancel the rider's request.
	if _, err := f.svc.CancelRequest(context.Background(), offererID, ride.ID, booking.ID); !errors.Is(err, service.ErrCannotCancel) {
		t.Errorf("expected ErrCannotCancel for non-requester, got %v", err)
	}

	// An accepted booking cannot be cancelled.
	booking.Status = domain.BookingStatusAccepted
	if _, err := f.svc.CancelRequest(context.Background(), riderID, ride.ID, booking.ID); !errors.Is(err, service.ErrCannotCancel) {
		t.Errorf("expected ErrCannotCancel for handled booking, got %v", err)
	}

	// A missing booking reports the same way.
	if _, err := f.svc.CancelRequest(context.Background(), riderID, ride.ID, uuid.NewString()); !errors.Is(err, service.ErrCannotCancel) {
		t.Errorf("expected ErrCannotCancel for missing booking, got %v", err)
	}
}

func TestBookingTransitions_InvalidIDs(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	callerID := uuid.NewString()

	if _, _, err := f.svc.AcceptRequest(context.Background(), callerID, "bad", uuid.NewString()); !errors.Is(err, service.ErrInvalidRideID) {
		t.Errorf("expected ErrInvalidRideID, got %v", err)
	}
	if _, _, err := f.svc.AcceptRequest(context.Background(), callerID, uuid.NewString(), "bad"); !errors.Is(err, service.ErrInvalidBookingID) {
		t.Errorf("expected ErrInvalidBookingID, got %v", err)
	}
}

func TestNotificationFailure_FailsTransition(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.inbox.CreateError = errors.New("inbox down")
	offererID := uuid.NewString()
	riderID := uuid.NewString()
	ride := f.addRide(offererID, 1)

	_, err := f.svc.RequestRide(context.Background(), riderID, ride.ID)
	if err == nil {
		t.Fatal("expected error when the inbox write fails")
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"campusride/internal/domain"
	"campusride/internal/mail"
	"campusride/internal/repository"
)

// MailEnqueuer queues an outbound email without blocking. Delivery is
// best-effort and must never influence a booking transition.
type MailEnqueuer interface {
	Enqueue(msg mail.Message)
}

// BookingService is the coordinator for the booking state machine. It
// is the single writer of booking status and of seatsAvailable, and
// every transition it commits produces exactly one inbox notification
// and one outbound email.
type BookingService struct {
	rideRepo  repository.RideRepository
	bookings  repository.BookingRepository
	inbox     repository.NotificationRepository
	directory *IdentityDirectory
	outbox    MailEnqueuer
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	rideRepo repository.RideRepository,
	bookings repository.BookingRepository,
	inbox repository.NotificationRepository,
	directory *IdentityDirectory,
	outbox MailEnqueuer,
) *BookingService {
	return &BookingService{
		rideRepo:  rideRepo,
		bookings:  bookings,
		inbox:     inbox,
		directory: directory,
		outbox:    outbox,
	}
}

const dateLayout = "Mon Jan 02 2006"

// RequestRide creates a booking in REQUESTED state. Seats are not
// touched here: consumption is deferred to acceptance so unanswered
// requests never hold capacity hostage. Repeated calls create repeated
// requests; the offerer resolves duplicates by accepting one.
func (s *BookingService) RequestRide(ctx context.Context, riderID, rideID string) (*domain.Booking, error) {
	if uuid.Validate(rideID) != nil {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:        uuid.New().String(),
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

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	rider := s.directory.Contact(ctx, riderID)
	when := fmt.Sprintf("%s at %s", ride.Date.Format(dateLayout), ride.Time)

	if err := s.notify(ctx, ride.OffererID, booking.ID,
		fmt.Sprintf("%s requested your ride on %s.", rider.Name, when)); err != nil {
		return nil, err
	}

	s.sendMail(ctx, ride.OffererID, "New Ride Request", fmt.Sprintf(
		"Hi there,\n\nYou have a new request for your ride:\n"+
			"Route: %s to %s\nWhen: %s\n\n"+
			"Requester details:\nName: %s\nPhone: %s\n\n"+
			"Please log in to accept or reject this request.\n\n- CampusRide",
		ride.PickupLocation, ride.DropLocation, when, rider.Name, rider.Phone))

	return booking, nil
}

// AcceptRequest accepts a pending booking. The seat decrement happens
// first and the ledger transition is attempted only if it succeeded; a
// lost ledger race compensates the seat back so capacity is not leaked.
func (s *BookingService) AcceptRequest(ctx context.Context, callerID, rideID, bookingID string) (*domain.Booking, *domain.RideOffer, error) {
	if err := s.validateIDs(rideID, bookingID); err != nil {
		return nil, nil, err
	}

	if err := s.authorizeOfferer(ctx, callerID, rideID); err != nil {
		return nil, nil, err
	}

	ride, err := s.rideRepo.DecrementSeat(ctx, rideID)
	if err != nil {
		if errors.Is(err, repository.ErrNoSeats) {
			return nil, nil, ErrSeatUnavailable
		}
		return nil, nil, err
	}

	if err := s.bookings.MarkResponded(ctx, bookingID, rideID, domain.BookingStatusAccepted, time.Now()); err != nil {
		// The seat was consumed but the booking was already handled (or
		// absent). Give the seat back; losing the compensation would
		// strand capacity, so it is logged loudly.
		if incErr := s.rideRepo.IncrementSeat(ctx, rideID); incErr != nil {
			log.Printf("booking: seat compensation failed for ride %s: %v", rideID, incErr)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrAlreadyHandled
		}
		return nil, nil, err
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}

	when := fmt.Sprintf("%s at %s", booking.Ride.Date.Format(dateLayout), booking.Ride.Time)

	if err := s.notify(ctx, booking.RiderID, booking.ID,
		fmt.Sprintf("Your request for ride on %s has been ACCEPTED.", when)); err != nil {
		return nil, nil, err
	}

	offerer := s.directory.Contact(ctx, booking.OffererID)
	s.sendMail(ctx, booking.RiderID, "Your Ride Request Was Accepted", fmt.Sprintf(
		"Hello,\n\nGreat news, your request for the following ride has been accepted!\n\n"+
			"Ride details:\nRoute: %s to %s\nWhen: %s\n\n"+
			"Offerer details:\nName: %s\nPhone: %s\n\n"+
			"Please coordinate with the offerer for pickup.\n\n- CampusRide",
		booking.Ride.PickupLocation, booking.Ride.DropLocation, when, offerer.Name, offerer.Phone))

	return booking, ride, nil
}

// RejectRequest rejects a pending booking. No seat was taken, none is
// returned.
func (s *BookingService) RejectRequest(ctx context.Context, callerID, rideID, bookingID string) (*domain.Booking, error) {
	if err := s.validateIDs(rideID, bookingID); err != nil {
		return nil, err
	}

	if err := s.authorizeOfferer(ctx, callerID, rideID); err != nil {
		return nil, err
	}

	if err := s.bookings.MarkResponded(ctx, bookingID, rideID, domain.BookingStatusRejected, time.Now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAlreadyHandled
		}
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	when := fmt.Sprintf("%s at %s", booking.Ride.Date.Format(dateLayout), booking.Ride.Time)

	if err := s.notify(ctx, booking.RiderID, booking.ID,
		fmt.Sprintf("Your request for ride on %s was REJECTED.", when)); err != nil {
		return nil, err
	}

	offerer := s.directory.Contact(ctx, booking.OffererID)
	s.sendMail(ctx, booking.RiderID, "Your Ride Request Was Rejected", fmt.Sprintf(
		"Hello,\n\nWe're sorry, your request for the following ride was rejected:\n\n"+
			"Ride details:\nRoute: %s to %s\nWhen: %s\n\n"+
			"Offerer details:\nName: %s\nPhone: %s\n\n"+
			"Feel free to search for another ride.\n\n- CampusRide",
		booking.Ride.PickupLocation, booking.Ride.DropLocation, when, offerer.Name, offerer.Phone))

	return booking, nil
}

// CancelRequest withdraws a pending booking. Only the requesting rider
// may cancel, and only while the booking is still REQUESTED.
func (s *BookingService) CancelRequest(ctx context.Context, callerID, rideID, bookingID string) (*domain.Booking, error) {
	if err := s.validateIDs(rideID, bookingID); err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCannotCancel
		}
		return nil, err
	}

	if booking.RiderID != callerID || booking.RideID != rideID || booking.Status.Terminal() {
		return nil, ErrCannotCancel
	}

	if err := s.bookings.MarkResponded(ctx, bookingID, rideID, domain.BookingStatusCancelled, time.Now()); err != nil {
		// Lost a race against accept/reject on the same booking.
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCannotCancel
		}
		return nil, err
	}

	rider := s.directory.Contact(ctx, booking.RiderID)
	when := fmt.Sprintf("%s at %s", booking.Ride.Date.Format(dateLayout), booking.Ride.Time)
	msg := fmt.Sprintf("%s withdrew their request for your ride on %s.", rider.Name, when)

	if err := s.notify(ctx, booking.OffererID, booking.ID, msg); err != nil {
		return nil, err
	}

	s.sendMail(ctx, booking.OffererID, "Ride Request Withdrawn",
		fmt.Sprintf("Hello,\n\n%s\n\n- CampusRide", msg))

	booking.Status = domain.BookingStatusCancelled
	return booking, nil
}

// IncomingRequest is a pending booking on one of the caller's rides,
// enriched with the requester's contact.
type IncomingRequest struct {
	Booking   *domain.Booking
	Requester Contact
}

// IncomingRequests lists pending bookings across the caller's offered
// rides, newest first.
func (s *BookingService) IncomingRequests(ctx context.Context, offererID string) ([]IncomingRequest, error) {
	rides, err := s.rideRepo.GetByOfferer(ctx, offererID)
	if err != nil {
		return nil, err
	}

	rideIDs := make([]string, len(rides))
	for i, r := range rides {
		rideIDs[i] = r.ID
	}

	pending, err := s.bookings.GetPendingByRides(ctx, rideIDs)
	if err != nil {
		return nil, err
	}

	riderIDs := make([]string, 0, len(pending))
	for _, b := range pending {
		riderIDs = append(riderIDs, b.RiderID)
	}
	contacts := s.directory.Contacts(ctx, riderIDs)

	requests := make([]IncomingRequest, 0, len(pending))
	for _, b := range pending {
		requests = append(requests, IncomingRequest{
			Booking:   b,
			Requester: contacts[b.RiderID],
		})
	}
	return requests, nil
}

// ListBookings lists the caller's own bookings as a rider.
func (s *BookingService) ListBookings(ctx context.Context, riderID string) ([]*domain.Booking, error) {
	return s.bookings.GetByRider(ctx, riderID)
}

// BookingView is a booking enriched with the offerer's contact.
type BookingView struct {
	Booking *domain.Booking
	Offerer Contact
}

// Dashboard is the derived per-user projection: incoming pending
// requests on rides the user offered, plus the user's own bookings
// partitioned by state and schedule.
type Dashboard struct {
	IncomingRequests []IncomingRequest
	PendingBookings  []BookingView
	ActiveBookings   []BookingView
	PastBookings     []BookingView
}

// GetDashboard computes the dashboard projection. Pure derivation from
// booking status and the scheduled instant; every booking of the caller
// lands in exactly one partition.
func (s *BookingService) GetDashboard(ctx context.Context, userID string) (*Dashboard, error) {
	incoming, err := s.IncomingRequests(ctx, userID)
	if err != nil {
		return nil, err
	}

	mine, err := s.bookings.GetByRider(ctx, userID)
	if err != nil {
		return nil, err
	}

	offererIDs := make([]string, 0, len(mine))
	for _, b := range mine {
		offererIDs = append(offererIDs, b.OffererID)
	}
	contacts := s.directory.Contacts(ctx, offererIDs)

	dashboard := &Dashboard{IncomingRequests: incoming}
	now := time.Now()

	for _, b := range mine {
		view := BookingView{
			Booking: b,
			Offerer: contacts[b.OffererID],
		}

		switch {
		case b.Status == domain.BookingStatusRequested:
			dashboard.PendingBookings = append(dashboard.PendingBookings, view)
		case b.Status == domain.BookingStatusAccepted && s.scheduledAfter(b, now):
			dashboard.ActiveBookings = append(dashboard.ActiveBookings, view)
		default:
			dashboard.PastBookings = append(dashboard.PastBookings, view)
		}
	}

	return dashboard, nil
}

// scheduledAfter reports whether the booking's ride departs after t.
// An unparseable snapshot counts as elapsed.
func (s *BookingService) scheduledAfter(b *domain.Booking, t time.Time) bool {
	at, err := ScheduleAt(b.Ride.Date, b.Ride.Time)
	if err != nil {
		return false
	}
	return at.After(t)
}

func (s *BookingService) validateIDs(rideID, bookingID string) error {
	if uuid.Validate(rideID) != nil {
		return ErrInvalidRideID
	}
	if uuid.Validate(bookingID) != nil {
		return ErrInvalidBookingID
	}
	return nil
}

// authorizeOfferer verifies the caller owns the ride before letting
// them respond to its requests.
func (s *BookingService) authorizeOfferer(ctx context.Context, callerID, rideID string) error {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return err
	}
	if ride.OffererID != callerID {
		return ErrNotOfferer
	}
	return nil
}

// notify appends one inbox notification. Part of the primary flow: a
// failure here surfaces to the caller rather than being swallowed.
func (s *BookingService) notify(ctx context.Context, recipientID, bookingID, message string) error {
	return s.inbox.Create(ctx, &domain.Notification{
		ID:          uuid.New().String(),
		RecipientID: recipientID,
		BookingID:   bookingID,
		Message:     message,
		CreatedAt:   time.Now(),
		Read:        false,
	})
}

// sendMail queues the side-channel email. Best-effort: a recipient
// without a resolvable address is skipped.
func (s *BookingService) sendMail(ctx context.Context, recipientID, subject, body string) {
	if s.outbox == nil {
		return
	}

	to, ok := s.directory.Email(ctx, recipientID)
	if !ok {
		log.Printf("booking: no email on record for %s, skipping %q", recipientID, subject)
		return
	}

	s.outbox.Enqueue(mail.Message{To: to, Subject: subject, Body: body})
}

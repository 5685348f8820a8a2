package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"campusride/internal/domain"
	"campusride/internal/mail"
	"campusride/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is a mock implementation of RideRepository.
type MockRideRepository struct {
	mu    sync.RWMutex
	rides map[string]*domain.RideOffer
	order []string

	// Counters for verification
	CreateCallCount    int32
	DecrementCallCount int32
	IncrementCallCount int32

	// Error injection
	CreateError    error
	DecrementError error
	IncrementError error
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{
		rides: make(map[string]*domain.RideOffer),
	}
}

// AddRide adds a ride to the mock repository.
func (m *MockRideRepository) AddRide(ride *domain.RideOffer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
	m.order = append(m.order, ride.ID)
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.RideOffer) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
	m.order = append(m.order, ride.ID)
	return nil
}

func (m *MockRideRepository) GetByID(ctx context.Context, id string) (*domain.RideOffer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *ride
	return &copy, nil
}

func (m *MockRideRepository) GetByOfferer(ctx context.Context, offererID string) ([]*domain.RideOffer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.RideOffer
	for _, id := range m.order {
		r := m.rides[id]
		if r.OffererID == offererID {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRideRepository) GetByRoute(ctx context.Context, pickup, drop string) ([]*domain.RideOffer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.RideOffer
	for _, id := range m.order {
		r := m.rides[id]
		if r.PickupLocation == pickup && r.DropLocation == drop {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRideRepository) DecrementSeat(ctx context.Context, id string) (*domain.RideOffer, error) {
	atomic.AddInt32(&m.DecrementCallCount, 1)
	if m.DecrementError != nil {
		return nil, m.DecrementError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Guarded mutation, mirroring the conditional UPDATE.
	if ride.SeatsAvailable <= 0 {
		return nil, repository.ErrNoSeats
	}
	ride.SeatsAvailable--
	copy := *ride
	return &copy, nil
}

func (m *MockRideRepository) IncrementSeat(ctx context.Context, id string) error {
	atomic.AddInt32(&m.IncrementCallCount, 1)
	if m.IncrementError != nil {
		return m.IncrementError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[id]
	if !ok {
		return repository.ErrNotFound
	}
	if ride.SeatsAvailable >= ride.TotalSeats {
		return repository.ErrSeatsAtCapacity
	}
	ride.SeatsAvailable++
	return nil
}

// GetRide returns the stored ride for test assertions.
func (m *MockRideRepository) GetRide(id string) *domain.RideOffer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rides[id]
}

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	// Counters for verification
	CreateCallCount        int32
	MarkRespondedCallCount int32

	// Error injection
	CreateError        error
	MarkRespondedError error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(b *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = b
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *booking
	return &copy, nil
}

func (m *MockBookingRepository) GetByRider(ctx context.Context, riderID string) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Booking
	for _, b := range m.bookings {
		if b.RiderID == riderID {
			copy := *b
			result = append(result, &copy)
		}
	}
	sortBookingsNewestFirst(result)
	return result, nil
}

func (m *MockBookingRepository) GetByRide(ctx context.Context, rideID string) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Booking
	for _, b := range m.bookings {
		if b.RideID == rideID {
			copy := *b
			result = append(result, &copy)
		}
	}
	sortBookingsNewestFirst(result)
	return result, nil
}

func (m *MockBookingRepository) GetPendingByRides(ctx context.Context, rideIDs []string) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make(map[string]bool, len(rideIDs))
	for _, id := range rideIDs {
		ids[id] = true
	}
	var result []*domain.Booking
	for _, b := range m.bookings {
		if ids[b.RideID] && b.Status == domain.BookingStatusRequested {
			copy := *b
			result = append(result, &copy)
		}
	}
	sortBookingsNewestFirst(result)
	return result, nil
}

func (m *MockBookingRepository) MarkResponded(ctx context.Context, id, rideID string, status domain.BookingStatus, respondedAt time.Time) error {
	atomic.AddInt32(&m.MarkRespondedCallCount, 1)
	if m.MarkRespondedError != nil {
		return m.MarkRespondedError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	// Matches only a pending booking of the given ride, mirroring the
	// conditional UPDATE.
	if !ok || booking.RideID != rideID || booking.Status != domain.BookingStatusRequested {
		return repository.ErrNotFound
	}
	booking.Status = status
	booking.RespondedAt = respondedAt
	return nil
}

// GetBooking returns the stored booking for test assertions.
func (m *MockBookingRepository) GetBooking(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookings[id]
}

func sortBookingsNewestFirst(bookings []*domain.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].RequestedAt.After(bookings[j].RequestedAt)
	})
}

// ──────────────────────────────────────────────
// MOCK NOTIFICATION REPOSITORY
// ──────────────────────────────────────────────

// MockNotificationRepository is a mock implementation of NotificationRepository.
type MockNotificationRepository struct {
	mu            sync.RWMutex
	notifications []*domain.Notification

	// Error injection
	CreateError error
}

// NewMockNotificationRepository creates a new mock notification repository.
func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{}
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *n
	m.notifications = append(m.notifications, &copy)
	return nil
}

func (m *MockNotificationRepository) GetByRecipient(ctx context.Context, recipientID string) ([]*domain.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Notification
	// Newest first.
	for i := len(m.notifications) - 1; i >= 0; i-- {
		if m.notifications[i].RecipientID == recipientID {
			copy := *m.notifications[i]
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, recipientID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.ID == id && n.RecipientID == recipientID {
			n.Read = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var updated int64
	for _, n := range m.notifications {
		if n.RecipientID == recipientID && !n.Read {
			n.Read = true
			updated++
		}
	}
	return updated, nil
}

// CountFor returns how many notifications a recipient has, for test
// assertions.
func (m *MockNotificationRepository) CountFor(recipientID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, n := range m.notifications {
		if n.RecipientID == recipientID {
			count++
		}
	}
	return count
}

// LastFor returns the most recent notification for a recipient.
func (m *MockNotificationRepository) LastFor(recipientID string) *domain.Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.notifications) - 1; i >= 0; i-- {
		if m.notifications[i].RecipientID == recipientID {
			return m.notifications[i]
		}
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK STUDENT REPOSITORY
// ──────────────────────────────────────────────

// MockStudentRepository is a mock implementation of StudentRepository.
type MockStudentRepository struct {
	mu       sync.RWMutex
	students map[string]*domain.Student

	// Counters for verification
	GetByIDCallCount int32
}

// NewMockStudentRepository creates a new mock student repository.
func NewMockStudentRepository() *MockStudentRepository {
	return &MockStudentRepository{
		students: make(map[string]*domain.Student),
	}
}

// AddStudent adds a student to the mock repository.
func (m *MockStudentRepository) AddStudent(s *domain.Student) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students[s.ID] = s
}

func (m *MockStudentRepository) GetByID(ctx context.Context, id string) (*domain.Student, error) {
	atomic.AddInt32(&m.GetByIDCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	student, ok := m.students[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *student
	return &copy, nil
}

func (m *MockStudentRepository) GetByEmail(ctx context.Context, email string) (*domain.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.students {
		if s.Email == email {
			copy := *s
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ──────────────────────────────────────────────
// MAIL RECORDER
// ──────────────────────────────────────────────

// MailRecorder captures enqueued messages for assertions. It satisfies
// the service's mail enqueuer contract.
type MailRecorder struct {
	mu       sync.Mutex
	messages []mail.Message
}

// NewMailRecorder creates a new MailRecorder.
func NewMailRecorder() *MailRecorder {
	return &MailRecorder{}
}

func (r *MailRecorder) Enqueue(msg mail.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

// Messages returns a snapshot of everything enqueued so far.
func (r *MailRecorder) Messages() []mail.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]mail.Message, len(r.messages))
	copy(out, r.messages)
	return out
}

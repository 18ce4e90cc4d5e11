package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"marketplace/internal/domain"
	"marketplace/internal/redis"
	"marketplace/internal/repository"
)

// Interface conformance checks.
var (
	_ repository.VehicleRepository          = (*MockVehicleRepository)(nil)
	_ repository.BookingRepository          = (*MockBookingRepository)(nil)
	_ repository.ProviderRepository         = (*MockProviderRepository)(nil)
	_ repository.DriverRepository           = (*MockDriverRepository)(nil)
	_ repository.BusRepository              = (*MockBusRepository)(nil)
	_ repository.DetailingServiceRepository = (*MockDetailingServiceRepository)(nil)
	_ repository.ReviewRepository           = (*MockReviewRepository)(nil)
	_ repository.PaymentRepository          = (*MockPaymentRepository)(nil)
	_ repository.NotificationRepository     = (*MockNotificationRepository)(nil)
	_ redis.LockStoreInterface              = (*MockLockStore)(nil)
	_ redis.LocationStoreInterface          = (*MockLocationStore)(nil)
)

// ──────────────────────────────────────────────
// MOCK VEHICLE REPOSITORY
// ──────────────────────────────────────────────

// MockVehicleRepository is a mock implementation of VehicleRepository.
// GetAll preserves insertion order, matching the SQL repository's
// created_at ordering.
type MockVehicleRepository struct {
	mu       sync.RWMutex
	vehicles map[string]*domain.Vehicle
	order    []string

	// Counters for verification
	CreateCallCount          int32
	SetAvailabilityCallCount int32

	// Error injection
	CreateError          error
	SetAvailabilityError error
}

// NewMockVehicleRepository creates a new mock vehicle repository.
func NewMockVehicleRepository() *MockVehicleRepository {
	return &MockVehicleRepository{
		vehicles: make(map[string]*domain.Vehicle),
	}
}

// AddVehicle adds a vehicle to the mock repository.
func (m *MockVehicleRepository) AddVehicle(vehicle *domain.Vehicle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vehicles[vehicle.ID]; !ok {
		m.order = append(m.order, vehicle.ID)
	}
	m.vehicles[vehicle.ID] = vehicle
}

func (m *MockVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.AddVehicle(vehicle)
	return nil
}

func (m *MockVehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vehicle, ok := m.vehicles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *vehicle
	return &copy, nil
}

func (m *MockVehicleRepository) GetAll(ctx context.Context) ([]*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Vehicle, 0, len(m.order))
	for _, id := range m.order {
		copy := *m.vehicles[id]
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockVehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vehicles[vehicle.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *vehicle
	m.vehicles[vehicle.ID] = &copy
	return nil
}

func (m *MockVehicleRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	atomic.AddInt32(&m.SetAvailabilityCallCount, 1)
	if m.SetAvailabilityError != nil {
		return m.SetAvailabilityError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	vehicle, ok := m.vehicles[id]
	if !ok {
		return repository.ErrNotFound
	}
	vehicle.IsAvailable = available
	return nil
}

// GetVehicle returns the stored vehicle for test assertions.
func (m *MockVehicleRepository) GetVehicle(id string) *domain.Vehicle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.vehicles[id]
}

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking
	order    []string

	// Counters for verification
	CreateCallCount           int32
	UpdateCallCount           int32
	CountOverlappingCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[booking.ID]; !ok {
		m.order = append(m.order, booking.ID)
	}
	m.bookings[booking.ID] = booking
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.AddBooking(booking)
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

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID string, statuses []domain.BookingStatus, limit int) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Booking
	for _, id := range m.order {
		b := m.bookings[id]
		if b.UserID != userID {
			continue
		}
		if !statusIn(b.Status, statuses) {
			continue
		}
		copy := *b
		result = append(result, &copy)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[booking.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *booking
	m.bookings[booking.ID] = &copy
	return nil
}

func (m *MockBookingRepository) CountOverlapping(ctx context.Context, kind domain.BookingKind, resourceID string, statuses []domain.BookingStatus, interval domain.Interval) (int, error) {
	atomic.AddInt32(&m.CountOverlappingCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, b := range m.bookings {
		if b.Kind != kind || b.ResourceID() != resourceID {
			continue
		}
		if !statusIn(b.Status, statuses) {
			continue
		}
		stored := b.Interval
		if stored.OpenEnded() {
			// Open-ended commitments conflict with anything after their start.
			if interval.End.After(stored.Start) {
				count++
			}
			continue
		}
		if stored.Overlaps(interval) {
			count++
		}
	}
	return count, nil
}

// GetBooking returns the stored booking for test assertions.
func (m *MockBookingRepository) GetBooking(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookings[id]
}

func statusIn(status domain.BookingStatus, statuses []domain.BookingStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// ──────────────────────────────────────────────
// MOCK PROVIDER / DRIVER REPOSITORIES
// ──────────────────────────────────────────────

// MockProviderRepository is a mock implementation of ProviderRepository.
type MockProviderRepository struct {
	mu        sync.RWMutex
	providers map[string]*domain.Provider
	order     []string

	UpdateRatingCallCount int32
	UpdateRatingError     error
}

// NewMockProviderRepository creates a new mock provider repository.
func NewMockProviderRepository() *MockProviderRepository {
	return &MockProviderRepository{
		providers: make(map[string]*domain.Provider),
	}
}

// AddProvider adds a provider to the mock repository.
func (m *MockProviderRepository) AddProvider(provider *domain.Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.providers[provider.ID]; !ok {
		m.order = append(m.order, provider.ID)
	}
	m.providers[provider.ID] = provider
}

func (m *MockProviderRepository) GetByID(ctx context.Context, id string) (*domain.Provider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	provider, ok := m.providers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *provider
	return &copy, nil
}

func (m *MockProviderRepository) GetAll(ctx context.Context) ([]*domain.Provider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Provider, 0, len(m.order))
	for _, id := range m.order {
		copy := *m.providers[id]
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockProviderRepository) UpdateDetailingRating(ctx context.Context, id string, rating float64) error {
	atomic.AddInt32(&m.UpdateRatingCallCount, 1)
	if m.UpdateRatingError != nil {
		return m.UpdateRatingError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	provider, ok := m.providers[id]
	if !ok {
		return repository.ErrNotFound
	}
	provider.DetailingRating = rating
	return nil
}

func (m *MockProviderRepository) UpdateLocation(ctx context.Context, id string, lat, lng float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	provider, ok := m.providers[id]
	if !ok {
		return repository.ErrNotFound
	}
	provider.Latitude = floatPtr(lat)
	provider.Longitude = floatPtr(lng)
	return nil
}

// GetProvider returns the stored provider for test assertions.
func (m *MockProviderRepository) GetProvider(id string) *domain.Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.providers[id]
}

// MockDriverRepository is a mock implementation of DriverRepository.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver

	UpdateRatingCallCount int32
	UpdateRatingError     error
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		drivers: make(map[string]*domain.Driver),
	}
}

// AddDriver adds a driver to the mock repository.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *driver
	return &copy, nil
}

func (m *MockDriverRepository) UpdateDriverRating(ctx context.Context, id string, rating float64) error {
	atomic.AddInt32(&m.UpdateRatingCallCount, 1)
	if m.UpdateRatingError != nil {
		return m.UpdateRatingError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.DriverRating = rating
	return nil
}

// GetDriver returns the stored driver for test assertions.
func (m *MockDriverRepository) GetDriver(id string) *domain.Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drivers[id]
}

// ──────────────────────────────────────────────
// MOCK BUS REPOSITORY
// ──────────────────────────────────────────────

// MockBusRepository is a mock implementation of BusRepository.
type MockBusRepository struct {
	mu     sync.RWMutex
	routes map[string]*domain.BusRoute
	seats  map[string]*domain.BusSeat
	order  []string

	MarkSeatBookedCallCount int32
	MarkSeatBookedError     error
}

// NewMockBusRepository creates a new mock bus repository.
func NewMockBusRepository() *MockBusRepository {
	return &MockBusRepository{
		routes: make(map[string]*domain.BusRoute),
		seats:  make(map[string]*domain.BusSeat),
	}
}

// AddRoute adds a route to the mock repository.
func (m *MockBusRepository) AddRoute(route *domain.BusRoute) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[route.ID] = route
}

// AddSeat adds a seat to the mock repository.
func (m *MockBusRepository) AddSeat(seat *domain.BusSeat) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.seats[seat.ID]; !ok {
		m.order = append(m.order, seat.ID)
	}
	m.seats[seat.ID] = seat
}

func (m *MockBusRepository) GetRouteByID(ctx context.Context, id string) (*domain.BusRoute, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	route, ok := m.routes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *route
	return &copy, nil
}

func (m *MockBusRepository) ListRoutes(ctx context.Context) ([]*domain.BusRoute, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.BusRoute, 0, len(m.routes))
	for _, r := range m.routes {
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockBusRepository) GetSeatByID(ctx context.Context, id string) (*domain.BusSeat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seat, ok := m.seats[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *seat
	return &copy, nil
}

func (m *MockBusRepository) ListSeatsByRoute(ctx context.Context, routeID string) ([]*domain.BusSeat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.BusSeat
	for _, id := range m.order {
		s := m.seats[id]
		if s.RouteID != routeID {
			continue
		}
		copy := *s
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockBusRepository) MarkSeatBooked(ctx context.Context, seatID, userID string, at time.Time) error {
	atomic.AddInt32(&m.MarkSeatBookedCallCount, 1)
	if m.MarkSeatBookedError != nil {
		return m.MarkSeatBookedError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	seat, ok := m.seats[seatID]
	if !ok {
		return repository.ErrNotFound
	}
	if seat.IsBooked {
		return repository.ErrSeatTaken
	}
	seat.IsBooked = true
	seat.BookedBy = userID
	seat.BookedAt = at
	return nil
}

func (m *MockBusRepository) DecrementAvailableSeats(ctx context.Context, routeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	route, ok := m.routes[routeID]
	if !ok {
		return repository.ErrNotFound
	}
	route.AvailableSeats--
	return nil
}

func (m *MockBusRepository) ReleaseSeat(ctx context.Context, seatID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	seat, ok := m.seats[seatID]
	if !ok {
		return repository.ErrNotFound
	}
	if !seat.IsBooked {
		return nil
	}
	seat.IsBooked = false
	seat.BookedBy = ""
	seat.BookedAt = time.Time{}
	if route, ok := m.routes[seat.RouteID]; ok {
		route.AvailableSeats++
	}
	return nil
}

// GetSeat returns the stored seat for test assertions.
func (m *MockBusRepository) GetSeat(id string) *domain.BusSeat {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.seats[id]
}

// GetRoute returns the stored route for test assertions.
func (m *MockBusRepository) GetRoute(id string) *domain.BusRoute {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.routes[id]
}

// ──────────────────────────────────────────────
// MOCK DETAILING SERVICE REPOSITORY
// ──────────────────────────────────────────────

// MockDetailingServiceRepository is a mock implementation of
// DetailingServiceRepository.
type MockDetailingServiceRepository struct {
	mu       sync.RWMutex
	services map[string]*domain.DetailingService
	order    []string
}

// NewMockDetailingServiceRepository creates a new mock service repository.
func NewMockDetailingServiceRepository() *MockDetailingServiceRepository {
	return &MockDetailingServiceRepository{
		services: make(map[string]*domain.DetailingService),
	}
}

// AddService adds a service definition to the mock repository.
func (m *MockDetailingServiceRepository) AddService(service *domain.DetailingService) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.services[service.ID]; !ok {
		m.order = append(m.order, service.ID)
	}
	m.services[service.ID] = service
}

func (m *MockDetailingServiceRepository) GetByID(ctx context.Context, id string) (*domain.DetailingService, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	service, ok := m.services[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *service
	return &copy, nil
}

func (m *MockDetailingServiceRepository) ListActive(ctx context.Context) ([]*domain.DetailingService, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.DetailingService
	for _, id := range m.order {
		s := m.services[id]
		if !s.IsActive {
			continue
		}
		copy := *s
		result = append(result, &copy)
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK REVIEW REPOSITORY
// ──────────────────────────────────────────────

// MockReviewRepository is a mock implementation of ReviewRepository,
// enforcing the one-review-per-booking uniqueness the SQL schema carries.
type MockReviewRepository struct {
	mu      sync.RWMutex
	reviews map[string]*domain.Review // keyed by booking ID

	CreateCallCount int32
	CreateError     error
}

// NewMockReviewRepository creates a new mock review repository.
func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{
		reviews: make(map[string]*domain.Review),
	}
}

func (m *MockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[review.BookingID]; ok {
		return repository.ErrDuplicate
	}
	copy := *review
	m.reviews[review.BookingID] = &copy
	return nil
}

func (m *MockReviewRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	review, ok := m.reviews[bookingID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *review
	return &copy, nil
}

func (m *MockReviewRepository) ListByTarget(ctx context.Context, targetID string, reviewType domain.ReviewType) ([]*domain.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Review
	for _, r := range m.reviews {
		if r.TargetID != targetID || r.Type != reviewType {
			continue
		}
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	CreateCallCount int32
	CreateError     error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *payment
	m.payments[payment.ID] = &copy
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payment, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *payment
	return &copy, nil
}

func (m *MockPaymentRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.IdempotencyKey == key {
			copy := *p
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, transactionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	payment.Status = status
	payment.TransactionID = transactionID
	return nil
}

// GetPayment returns the stored payment for test assertions.
func (m *MockPaymentRepository) GetPayment(id string) *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.payments[id]
}

// ──────────────────────────────────────────────
// MOCK NOTIFICATION REPOSITORY
// ──────────────────────────────────────────────

// MockNotificationRepository is a mock implementation of
// NotificationRepository.
type MockNotificationRepository struct {
	mu            sync.RWMutex
	notifications []*domain.Notification

	CreateCallCount int32
}

// NewMockNotificationRepository creates a new mock notification repository.
func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{}
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *notification
	m.notifications = append(m.notifications, &copy)
	return nil
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Notification
	for i := len(m.notifications) - 1; i >= 0; i-- {
		n := m.notifications[i]
		if n.UserID != userID {
			continue
		}
		copy := *n
		result = append(result, &copy)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return repository.ErrNotFound
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is an in-memory implementation of LockStoreInterface with
// real mutual exclusion, so concurrent booking tests exercise the same
// winner-loser behavior the Redis SetNX lock gives.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	AcquireCallCount int32
	AcquireError     error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[string]bool)}
}

func (m *MockLockStore) AcquireResourceLock(ctx context.Context, kind domain.BookingKind, resourceID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := string(kind) + ":" + resourceID
	if m.locks[key] {
		return false, nil
	}
	m.locks[key] = true
	return true, nil
}

func (m *MockLockStore) ReleaseResourceLock(ctx context.Context, kind domain.BookingKind, resourceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, string(kind)+":"+resourceID)
	return nil
}

// ──────────────────────────────────────────────
// MOCK LOCATION STORE
// ──────────────────────────────────────────────

// MockLocationStore is a no-op implementation of LocationStoreInterface.
// The services treat the geo mirror as a secondary index, so tests only
// need call recording.
type MockLocationStore struct {
	UpdateVehicleCallCount  int32
	UpdateProviderCallCount int32
}

// NewMockLocationStore creates a new mock location store.
func NewMockLocationStore() *MockLocationStore {
	return &MockLocationStore{}
}

func (m *MockLocationStore) UpdateVehicleLocation(ctx context.Context, vehicleID string, lat, lng float64) error {
	atomic.AddInt32(&m.UpdateVehicleCallCount, 1)
	return nil
}

func (m *MockLocationStore) UpdateProviderLocation(ctx context.Context, providerID string, lat, lng float64) error {
	atomic.AddInt32(&m.UpdateProviderCallCount, 1)
	return nil
}

func (m *MockLocationStore) NearbyVehicles(ctx context.Context, lat, lng, radiusKm float64) ([]redis.ResourceLocation, error) {
	return nil, nil
}

func (m *MockLocationStore) NearbyProviders(ctx context.Context, lat, lng, radiusKm float64) ([]redis.ResourceLocation, error) {
	return nil, nil
}

func (m *MockLocationStore) RemoveVehicleLocation(ctx context.Context, vehicleID string) error {
	return nil
}

// ──────────────────────────────────────────────
// DECIMAL HELPERS
// ──────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

func floatPtr(f float64) *float64 {
	return &f
}

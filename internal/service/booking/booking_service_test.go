package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pawal-karki/airwings-core/internal/domain"
	"github.com/pawal-karki/airwings-core/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CreateConfirmed(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Cancel(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) CountConfirmed(ctx context.Context, flightID uuid.UUID) (int, error) {
	args := m.Called(ctx, flightID)
	return args.Int(0), args.Error(1)
}

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) List(ctx context.Context, filter repository.FlightFilter) ([]domain.Flight, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) AdjustSeats(ctx context.Context, id uuid.UUID, delta int) (*domain.Flight, error) {
	args := m.Called(ctx, id, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Retire(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) InvalidateFlights(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func (m *MockProducer) PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error {
	args := m.Called(ctx, topic, key, value, maxRetries)
	return args.Error(0)
}

func testFlight() *domain.Flight {
	return &domain.Flight{
		ID:              uuid.New(),
		FlightNumber:    "AH101",
		OriginCity:      "Kathmandu",
		DestinationCity: "Pokhara",
		DepartureTime:   time.Now().Add(24 * time.Hour),
		ArrivalTime:     time.Now().Add(25 * time.Hour),
		TotalSeats:      2,
		SeatsAvailable:  2,
	}
}

func TestBookingService_Create_Success(t *testing.T) {
	mockBookingRepo := &MockBookingRepository{}
	mockFlightRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}

	service := NewBookingService(mockBookingRepo, mockFlightRepo, mockCache, mockProducer,
		"booking-events", WithNotificationsTopic("booking-notifications"))

	ctx := context.Background()
	flight := testFlight()

	mockFlightRepo.On("GetByID", ctx, flight.ID).Return(flight, nil).Once()
	mockBookingRepo.On("CreateConfirmed", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()
	mockProducer.On("Publish", ctx, "booking-events", mock.Anything, mock.Anything).Return(nil).Once()
	mockProducer.On("PublishWithRetry", ctx, "booking-notifications", mock.Anything, mock.Anything, notificationRetries).Return(nil).Once()

	created, err := service.Create(ctx, CreateBookingInput{
		FlightID:       flight.ID,
		PassengerName:  "Alice",
		PassengerEmail: "alice@example.com",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, created.Status)
	assert.Equal(t, "Alice", created.PassengerName)
	assert.NotEqual(t, uuid.Nil, created.ID)

	mockBookingRepo.AssertExpectations(t)
	mockFlightRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_Create_EmptyName(t *testing.T) {
	service := NewBookingService(&MockBookingRepository{}, &MockFlightRepository{}, nil, nil, "")

	_, err := service.Create(context.Background(), CreateBookingInput{
		FlightID:      uuid.New(),
		PassengerName: "   ",
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestBookingService_Create_BadEmail(t *testing.T) {
	service := NewBookingService(&MockBookingRepository{}, &MockFlightRepository{}, nil, nil, "")

	_, err := service.Create(context.Background(), CreateBookingInput{
		FlightID:       uuid.New(),
		PassengerName:  "Alice",
		PassengerEmail: "not-an-email",
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestBookingService_Create_FlightNotFound(t *testing.T) {
	mockFlightRepo := &MockFlightRepository{}
	service := NewBookingService(&MockBookingRepository{}, mockFlightRepo, nil, nil, "")

	ctx := context.Background()
	flightID := uuid.New()
	mockFlightRepo.On("GetByID", ctx, flightID).Return(nil, domain.ErrNotFound).Once()

	_, err := service.Create(ctx, CreateBookingInput{FlightID: flightID, PassengerName: "Alice"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	mockFlightRepo.AssertExpectations(t)
}

func TestBookingService_Create_SoldOut(t *testing.T) {
	mockBookingRepo := &MockBookingRepository{}
	mockFlightRepo := &MockFlightRepository{}
	service := NewBookingService(mockBookingRepo, mockFlightRepo, nil, nil, "")

	ctx := context.Background()
	flight := testFlight()
	flight.SeatsAvailable = 0

	mockFlightRepo.On("GetByID", ctx, flight.ID).Return(flight, nil).Once()
	mockBookingRepo.On("CreateConfirmed", ctx, mock.AnythingOfType("*domain.Booking")).Return(domain.ErrCapacity).Once()

	_, err := service.Create(ctx, CreateBookingInput{FlightID: flight.ID, PassengerName: "Carol"})

	assert.ErrorIs(t, err, domain.ErrNoSeatsAvailable)
	mockBookingRepo.AssertExpectations(t)
}

func TestBookingService_Cancel_Success(t *testing.T) {
	mockBookingRepo := &MockBookingRepository{}
	mockFlightRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}
	service := NewBookingService(mockBookingRepo, mockFlightRepo, mockCache, mockProducer, "booking-events")

	ctx := context.Background()
	flight := testFlight()
	cancelled := &domain.Booking{
		ID:            uuid.New(),
		FlightID:      flight.ID,
		PassengerName: "Alice",
		Status:        domain.BookingStatusCancelled,
	}

	mockBookingRepo.On("Cancel", ctx, cancelled.ID).Return(cancelled, nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()
	mockFlightRepo.On("GetByID", ctx, flight.ID).Return(flight, nil).Once()
	mockProducer.On("Publish", ctx, "booking-events", cancelled.ID.String(), mock.Anything).Return(nil).Once()

	got, err := service.Cancel(ctx, cancelled.ID)

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, got.Status)
	mockBookingRepo.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_Cancel_AlreadyCancelled(t *testing.T) {
	mockBookingRepo := &MockBookingRepository{}
	service := NewBookingService(mockBookingRepo, &MockFlightRepository{}, nil, nil, "")

	ctx := context.Background()
	id := uuid.New()
	mockBookingRepo.On("Cancel", ctx, id).Return(nil, domain.ErrInvalidState).Once()

	_, err := service.Cancel(ctx, id)

	assert.ErrorIs(t, err, domain.ErrInvalidState)
	mockBookingRepo.AssertExpectations(t)
}

func TestBookingService_Stats(t *testing.T) {
	mockBookingRepo := &MockBookingRepository{}
	mockFlightRepo := &MockFlightRepository{}
	service := NewBookingService(mockBookingRepo, mockFlightRepo, nil, nil, "")

	ctx := context.Background()
	flight := testFlight()
	flight.SeatsAvailable = 1

	mockFlightRepo.On("List", ctx, repository.FlightFilter{IncludeRetired: true}).Return([]domain.Flight{*flight}, nil).Once()
	mockBookingRepo.On("List", ctx, repository.BookingFilter{}).Return([]domain.Booking{
		{Status: domain.BookingStatusConfirmed},
		{Status: domain.BookingStatusCancelled},
	}, nil).Once()

	stats, err := service.Stats(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 1, stats.TotalFlights)
	assert.Equal(t, 2, stats.TotalBookings)
	assert.Equal(t, 1, stats.ConfirmedBookings)
	assert.Equal(t, 1, stats.CancelledBookings)
	assert.Equal(t, 1, stats.SeatsSold)
}

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pawal-karki/airwings-core/internal/domain"
	"github.com/pawal-karki/airwings-core/internal/repository"
	"github.com/pawal-karki/airwings-core/internal/service/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) Create(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Cancel(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Stats(ctx context.Context) (*booking.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Stats), args.Error(1)
}

func bookingRouter(service booking.BookingUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewBookingHandler(service, testAdminToken).Register(router.Group("/api/bookings"))
	return router
}

func TestBookingHandler_Create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := bookingRouter(mockService)

	flightID := uuid.New()
	created := &domain.Booking{ID: uuid.New(), FlightID: flightID, PassengerName: "Sita Sharma", Status: domain.BookingStatusConfirmed}
	mockService.On("Create", mock.Anything, booking.CreateBookingInput{
		FlightID:       flightID,
		PassengerName:  "Sita Sharma",
		PassengerEmail: "sita@example.com",
	}).Return(created, nil).Once()

	body := `{"flight_id":"` + flightID.String() + `","passenger_name":"Sita Sharma","passenger_email":"sita@example.com"}`

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/bookings/", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "CONFIRMED")
	mockService.AssertExpectations(t)
}

func TestBookingHandler_Create_SoldOutMapsTo409(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := bookingRouter(mockService)

	mockService.On("Create", mock.Anything, mock.Anything).Return(nil, domain.ErrNoSeatsAvailable).Once()

	body := `{"flight_id":"` + uuid.NewString() + `","passenger_name":"Sita Sharma"}`

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/bookings/", strings.NewReader(body)))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingHandler_List_InvalidFlightID(t *testing.T) {
	router := bookingRouter(&MockBookingUseCase{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/bookings/?flight_id=nope", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_Cancel_AsAdmin(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := bookingRouter(mockService)

	id := uuid.New()
	cancelled := &domain.Booking{ID: id, Status: domain.BookingStatusCancelled}
	mockService.On("Cancel", mock.Anything, id).Return(cancelled, nil).Once()

	req := httptest.NewRequest("DELETE", "/api/bookings/"+id.String(), nil)
	req.Header.Set(adminTokenHeader, testAdminToken)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	// admin path never loads the booking for an ownership check
	mockService.AssertNotCalled(t, "Get")
	mockService.AssertExpectations(t)
}

func TestBookingHandler_Cancel_AsPassenger(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := bookingRouter(mockService)

	id := uuid.New()
	current := &domain.Booking{ID: id, PassengerEmail: "sita@example.com", Status: domain.BookingStatusConfirmed}
	cancelled := &domain.Booking{ID: id, PassengerEmail: "sita@example.com", Status: domain.BookingStatusCancelled}
	mockService.On("Get", mock.Anything, id).Return(current, nil).Once()
	mockService.On("Cancel", mock.Anything, id).Return(cancelled, nil).Once()

	req := httptest.NewRequest("DELETE", "/api/bookings/"+id.String(), nil)
	req.Header.Set(passengerEmailHeader, "Sita@Example.com")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_Cancel_WrongPassengerForbidden(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := bookingRouter(mockService)

	id := uuid.New()
	current := &domain.Booking{ID: id, PassengerEmail: "sita@example.com", Status: domain.BookingStatusConfirmed}
	mockService.On("Get", mock.Anything, id).Return(current, nil).Once()

	req := httptest.NewRequest("DELETE", "/api/bookings/"+id.String(), nil)
	req.Header.Set(passengerEmailHeader, "ram@example.com")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockService.AssertNotCalled(t, "Cancel")
}

func TestBookingHandler_Cancel_AlreadyCancelledMapsTo409(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := bookingRouter(mockService)

	id := uuid.New()
	mockService.On("Cancel", mock.Anything, id).Return(nil, domain.ErrInvalidState).Once()

	req := httptest.NewRequest("DELETE", "/api/bookings/"+id.String(), nil)
	req.Header.Set(adminTokenHeader, testAdminToken)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingHandler_Stats_RequiresAdmin(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := bookingRouter(mockService)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/bookings/stats", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	mockService.On("Stats", mock.Anything).Return(&booking.Stats{TotalFlights: 2, TotalBookings: 5, ConfirmedBookings: 4}, nil).Once()

	req := httptest.NewRequest("GET", "/api/bookings/stats", nil)
	req.Header.Set(adminTokenHeader, testAdminToken)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "confirmed_bookings")
	mockService.AssertExpectations(t)
}

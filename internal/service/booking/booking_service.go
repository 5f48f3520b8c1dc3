package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pawal-karki/airwings-core/internal/domain"
	"github.com/pawal-karki/airwings-core/internal/kafka"
	"github.com/pawal-karki/airwings-core/internal/repository"
	"github.com/sirupsen/logrus"
)

type BookingUseCase interface {
	Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	Cancel(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error)
	Stats(ctx context.Context) (*Stats, error)
}

type Cache interface {
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
	PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error
}

type CreateBookingInput struct {
	FlightID       uuid.UUID `json:"flight_id"`
	PassengerName  string    `json:"passenger_name"`
	PassengerEmail string    `json:"passenger_email"`
}

const notificationRetries = 3

// Stats summarizes the ledger for the admin dashboard.
type Stats struct {
	TotalFlights      int `json:"total_flights"`
	TotalBookings     int `json:"total_bookings"`
	ConfirmedBookings int `json:"confirmed_bookings"`
	CancelledBookings int `json:"cancelled_bookings"`
	SeatsSold         int `json:"seats_sold"`
}

type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	cache Cache,
	producer Producer,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		flights:      flights,
		cache:        cache,
		producer:     producer,
		bookingTopic: bookingTopic,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Create reserves one seat and records the booking as a single transition.
// A capacity failure surfaces as ErrNoSeatsAvailable with nothing persisted.
func (s *BookingService) Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if strings.TrimSpace(input.PassengerName) == "" {
		return nil, fmt.Errorf("passenger name is required: %w", domain.ErrValidation)
	}
	if input.PassengerEmail != "" && !strings.Contains(input.PassengerEmail, "@") {
		return nil, fmt.Errorf("passenger email is malformed: %w", domain.ErrValidation)
	}

	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:             uuid.New(),
		FlightID:       input.FlightID,
		PassengerName:  strings.TrimSpace(input.PassengerName),
		PassengerEmail: strings.TrimSpace(input.PassengerEmail),
		Status:         domain.BookingStatusConfirmed,
	}
	if err := s.bookings.CreateConfirmed(ctx, booking); err != nil {
		if errors.Is(err, domain.ErrCapacity) {
			return nil, fmt.Errorf("flight %s is sold out: %w", flight.FlightNumber, domain.ErrNoSeatsAvailable)
		}
		return nil, err
	}

	s.invalidateFlights(ctx)
	s.publish(ctx, kafka.EventBookingCreated, booking, flight.FlightNumber)
	return booking, nil
}

func (s *BookingService) Get(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

// Cancel moves confirmed to cancelled and releases the seat. Double-cancel
// is ErrInvalidState, distinct from ErrNotFound.
func (s *BookingService) Cancel(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	cancelled, err := s.bookings.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidateFlights(ctx)

	flightNumber := ""
	if flight, err := s.flights.GetByID(ctx, cancelled.FlightID); err == nil {
		flightNumber = flight.FlightNumber
	}
	s.publish(ctx, kafka.EventBookingCancelled, cancelled, flightNumber)
	return cancelled, nil
}

func (s *BookingService) List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	return s.bookings.List(ctx, filter)
}

func (s *BookingService) Stats(ctx context.Context) (*Stats, error) {
	flights, err := s.flights.List(ctx, repository.FlightFilter{IncludeRetired: true})
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.List(ctx, repository.BookingFilter{})
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalFlights: len(flights), TotalBookings: len(bookings)}
	for _, b := range bookings {
		switch b.Status {
		case domain.BookingStatusConfirmed:
			stats.ConfirmedBookings++
		case domain.BookingStatusCancelled:
			stats.CancelledBookings++
		}
	}
	for _, f := range flights {
		stats.SeatsSold += f.TotalSeats - f.SeatsAvailable
	}
	return stats, nil
}

func (s *BookingService) invalidateFlights(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		logrus.WithError(err).Warn("invalidate flights cache")
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking, flightNumber string) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:           eventType,
		BookingID:      booking.ID.String(),
		FlightID:       booking.FlightID.String(),
		FlightNumber:   flightNumber,
		PassengerName:  booking.PassengerName,
		PassengerEmail: booking.PassengerEmail,
		Status:         string(booking.Status),
		CreatedAt:      booking.CreatedAt,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, event.BookingID, event); err != nil {
		logrus.WithError(err).WithField("booking_id", event.BookingID).Warn("publish booking event")
		return
	}
	if s.notificationsTopic != "" {
		// The notification feeds the email worker; worth a few attempts.
		if err := s.producer.PublishWithRetry(ctx, s.notificationsTopic, event.BookingID, event, notificationRetries); err != nil {
			logrus.WithError(err).WithField("booking_id", event.BookingID).Warn("publish notification event")
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)

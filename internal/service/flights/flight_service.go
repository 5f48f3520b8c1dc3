package flights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pawal-karki/airwings-core/internal/domain"
	"github.com/pawal-karki/airwings-core/internal/repository"
	"github.com/sirupsen/logrus"
)

// FlightUseCase is the flight catalog: the sole authority for the seat
// counter. Everything that changes seats_available goes through AdjustSeats
// or the booking repository's transactional equivalent.
type FlightUseCase interface {
	Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flight, error)
	List(ctx context.Context, filter repository.FlightFilter) ([]domain.Flight, error)
	AdjustSeats(ctx context.Context, id uuid.UUID, delta int) (*domain.Flight, error)
	Retire(ctx context.Context, id uuid.UUID) error
}

type Cache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type CreateFlightInput struct {
	FlightNumber    string    `json:"flight_number"`
	OriginCity      string    `json:"departure_city"`
	DestinationCity string    `json:"arrival_city"`
	DepartureTime   time.Time `json:"departure_time"`
	ArrivalTime     time.Time `json:"arrival_time"`
	FareCents       int64     `json:"fare_cents"`
	TotalSeats      int       `json:"total_seats"`
}

type FlightService struct {
	repo  repository.FlightRepository
	cache Cache
}

func NewFlightService(repo repository.FlightRepository, cache Cache) *FlightService {
	return &FlightService{repo: repo, cache: cache}
}

func (s *FlightService) Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	flight := &domain.Flight{
		ID:              uuid.New(),
		FlightNumber:    strings.TrimSpace(input.FlightNumber),
		OriginCity:      strings.TrimSpace(input.OriginCity),
		DestinationCity: strings.TrimSpace(input.DestinationCity),
		DepartureTime:   input.DepartureTime,
		ArrivalTime:     input.ArrivalTime,
		FareCents:       input.FareCents,
		TotalSeats:      input.TotalSeats,
	}
	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return flight, nil
}

func validateInput(input CreateFlightInput) error {
	switch {
	case strings.TrimSpace(input.FlightNumber) == "":
		return fmt.Errorf("flight number is required: %w", domain.ErrValidation)
	case strings.TrimSpace(input.OriginCity) == "" || strings.TrimSpace(input.DestinationCity) == "":
		return fmt.Errorf("departure and arrival cities are required: %w", domain.ErrValidation)
	case !input.ArrivalTime.After(input.DepartureTime):
		return fmt.Errorf("arrival must be after departure: %w", domain.ErrValidation)
	case input.TotalSeats <= 0:
		return fmt.Errorf("total seats must be positive: %w", domain.ErrValidation)
	case input.FareCents < 0:
		return fmt.Errorf("fare must not be negative: %w", domain.ErrValidation)
	}
	return nil
}

func (s *FlightService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) List(ctx context.Context, filter repository.FlightFilter) ([]domain.Flight, error) {
	unfiltered := filter == (repository.FlightFilter{})
	if unfiltered && s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if unfiltered && s.cache != nil {
		_ = s.cache.SetFlights(ctx, flights)
	}
	return flights, nil
}

func (s *FlightService) AdjustSeats(ctx context.Context, id uuid.UUID, delta int) (*domain.Flight, error) {
	flight, err := s.repo.AdjustSeats(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return flight, nil
}

func (s *FlightService) Retire(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Retire(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		logrus.WithError(err).Warn("invalidate flights cache")
	}
}

var _ FlightUseCase = (*FlightService)(nil)

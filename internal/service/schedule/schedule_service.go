package schedule

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pawal-karki/airwings-core/internal/domain"
	"github.com/pawal-karki/airwings-core/internal/repository"
)

// ScheduleUseCase tracks the recurring-operation record of each flight,
// independent of booking activity. At most one entry exists per flight.
type ScheduleUseCase interface {
	Upsert(ctx context.Context, input UpsertInput) (*domain.ScheduleEntry, error)
	SetStatus(ctx context.Context, id uuid.UUID, status domain.ScheduleStatus) (*domain.ScheduleEntry, error)
	List(ctx context.Context) ([]domain.ScheduleView, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type UpsertInput struct {
	FlightID  uuid.UUID             `json:"flight_id"`
	Frequency string                `json:"frequency"`
	Status    domain.ScheduleStatus `json:"status"`
}

type ScheduleService struct {
	schedules repository.ScheduleRepository
	flights   repository.FlightRepository
}

func NewScheduleService(schedules repository.ScheduleRepository, flights repository.FlightRepository) *ScheduleService {
	return &ScheduleService{schedules: schedules, flights: flights}
}

func (s *ScheduleService) Upsert(ctx context.Context, input UpsertInput) (*domain.ScheduleEntry, error) {
	if strings.TrimSpace(input.Frequency) == "" {
		return nil, fmt.Errorf("frequency is required: %w", domain.ErrValidation)
	}
	if !domain.ValidScheduleStatus(input.Status) {
		return nil, fmt.Errorf("unknown schedule status %q: %w", input.Status, domain.ErrValidation)
	}
	if _, err := s.flights.GetByID(ctx, input.FlightID); err != nil {
		return nil, err
	}

	entry := &domain.ScheduleEntry{
		ID:        uuid.New(),
		FlightID:  input.FlightID,
		Frequency: strings.TrimSpace(input.Frequency),
		Status:    input.Status,
	}
	if err := s.schedules.Upsert(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ScheduleService) SetStatus(ctx context.Context, id uuid.UUID, status domain.ScheduleStatus) (*domain.ScheduleEntry, error) {
	if !domain.ValidScheduleStatus(status) {
		return nil, fmt.Errorf("unknown schedule status %q: %w", status, domain.ErrValidation)
	}
	return s.schedules.SetStatus(ctx, id, status)
}

func (s *ScheduleService) List(ctx context.Context) ([]domain.ScheduleView, error) {
	return s.schedules.ListJoined(ctx)
}

func (s *ScheduleService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.schedules.Delete(ctx, id)
}

var _ ScheduleUseCase = (*ScheduleService)(nil)

package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pawal-karki/airwings-core/internal/domain"
	"github.com/pawal-karki/airwings-core/internal/repository"
)

type FlightRepository struct {
	store *Store
}

func NewFlightRepository(store *Store) *FlightRepository {
	return &FlightRepository{store: store}
}

func (r *FlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.flights[flight.ID]; exists {
		return domain.ErrConflict
	}
	now := time.Now()
	flight.SeatsAvailable = flight.TotalSeats
	flight.CreatedAt = now
	flight.UpdatedAt = now
	r.store.flights[flight.ID] = *flight
	return nil
}

func (r *FlightRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flight, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	f, ok := r.store.flights[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &f, nil
}

func (r *FlightRepository) List(ctx context.Context, filter repository.FlightFilter) ([]domain.Flight, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	flights := make([]domain.Flight, 0)
	for _, f := range r.store.flights {
		if matchFlight(f, filter) {
			flights = append(flights, f)
		}
	}
	sort.Slice(flights, func(i, j int) bool {
		if !flights[i].DepartureTime.Equal(flights[j].DepartureTime) {
			return flights[i].DepartureTime.Before(flights[j].DepartureTime)
		}
		return flights[i].ID.String() < flights[j].ID.String()
	})
	return flights, nil
}

func matchFlight(f domain.Flight, filter repository.FlightFilter) bool {
	if f.Retired && !filter.IncludeRetired {
		return false
	}
	if filter.OriginCity != "" && !strings.Contains(strings.ToLower(f.OriginCity), strings.ToLower(filter.OriginCity)) {
		return false
	}
	if filter.DestinationCity != "" && !strings.Contains(strings.ToLower(f.DestinationCity), strings.ToLower(filter.DestinationCity)) {
		return false
	}
	if filter.DepartFrom != nil && f.DepartureTime.Before(*filter.DepartFrom) {
		return false
	}
	if filter.DepartTo != nil && f.DepartureTime.After(*filter.DepartTo) {
		return false
	}
	return true
}

func (r *FlightRepository) AdjustSeats(ctx context.Context, id uuid.UUID, delta int) (*domain.Flight, error) {
	unlock, err := r.store.lockFlight(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	f, ok := r.store.flights[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	next := f.SeatsAvailable + delta
	if next < 0 || next > f.TotalSeats {
		return nil, domain.ErrCapacity
	}
	f.SeatsAvailable = next
	f.UpdatedAt = time.Now()
	r.store.flights[id] = f
	return &f, nil
}

func (r *FlightRepository) Retire(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	f, ok := r.store.flights[id]
	if !ok {
		return domain.ErrNotFound
	}
	f.Retired = true
	f.UpdatedAt = time.Now()
	r.store.flights[id] = f
	return nil
}

var _ repository.FlightRepository = (*FlightRepository)(nil)

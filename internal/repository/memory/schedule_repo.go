package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pawal-karki/airwings-core/internal/domain"
	"github.com/pawal-karki/airwings-core/internal/repository"
)

type ScheduleRepository struct {
	store *Store
}

func NewScheduleRepository(store *Store) *ScheduleRepository {
	return &ScheduleRepository{store: store}
}

func (r *ScheduleRepository) Upsert(ctx context.Context, entry *domain.ScheduleEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now()
	if existingID, ok := r.store.byFlight[entry.FlightID]; ok {
		existing := r.store.schedules[existingID]
		existing.Frequency = entry.Frequency
		existing.Status = entry.Status
		existing.UpdatedAt = now
		r.store.schedules[existingID] = existing
		*entry = existing
		return nil
	}

	entry.CreatedAt = now
	entry.UpdatedAt = now
	r.store.schedules[entry.ID] = *entry
	r.store.byFlight[entry.FlightID] = entry.ID
	return nil
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ScheduleEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.schedules[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

func (r *ScheduleRepository) SetStatus(ctx context.Context, id uuid.UUID, status domain.ScheduleStatus) (*domain.ScheduleEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e, ok := r.store.schedules[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.Status = status
	e.UpdatedAt = time.Now()
	r.store.schedules[id] = e
	return &e, nil
}

func (r *ScheduleRepository) ListJoined(ctx context.Context) ([]domain.ScheduleView, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	views := make([]domain.ScheduleView, 0)
	for _, e := range r.store.schedules {
		f, ok := r.store.flights[e.FlightID]
		if !ok {
			continue
		}
		views = append(views, domain.ScheduleView{
			ScheduleEntry:   e,
			FlightNumber:    f.FlightNumber,
			OriginCity:      f.OriginCity,
			DestinationCity: f.DestinationCity,
			DepartureTime:   f.DepartureTime,
			ArrivalTime:     f.ArrivalTime,
		})
	}
	sort.Slice(views, func(i, j int) bool {
		if !views[i].DepartureTime.Equal(views[j].DepartureTime) {
			return views[i].DepartureTime.Before(views[j].DepartureTime)
		}
		return views[i].ID.String() < views[j].ID.String()
	})
	return views, nil
}

func (r *ScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e, ok := r.store.schedules[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.store.schedules, id)
	delete(r.store.byFlight, e.FlightID)
	return nil
}

var _ repository.ScheduleRepository = (*ScheduleRepository)(nil)

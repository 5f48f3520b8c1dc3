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

type BookingRepository struct {
	store *Store
}

func NewBookingRepository(store *Store) *BookingRepository {
	return &BookingRepository{store: store}
}

func (r *BookingRepository) CreateConfirmed(ctx context.Context, booking *domain.Booking) error {
	unlock, err := r.store.lockFlight(ctx, booking.FlightID)
	if err != nil {
		return err
	}
	defer unlock()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	f, ok := r.store.flights[booking.FlightID]
	if !ok {
		return domain.ErrNotFound
	}
	if f.Retired {
		return domain.ErrInvalidState
	}
	if f.SeatsAvailable <= 0 {
		return domain.ErrCapacity
	}

	now := time.Now()
	f.SeatsAvailable--
	f.UpdatedAt = now
	r.store.flights[f.ID] = f

	booking.Status = domain.BookingStatusConfirmed
	booking.CreatedAt = now
	booking.UpdatedAt = now
	r.store.bookings[booking.ID] = *booking
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	b, ok := r.store.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (r *BookingRepository) Cancel(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	r.store.mu.RLock()
	current, ok := r.store.bookings[id]
	r.store.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}

	unlock, err := r.store.lockFlight(ctx, current.FlightID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	b, ok := r.store.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if b.Status != domain.BookingStatusConfirmed {
		return nil, domain.ErrInvalidState
	}

	now := time.Now()
	b.Status = domain.BookingStatusCancelled
	b.UpdatedAt = now
	r.store.bookings[id] = b

	if f, ok := r.store.flights[b.FlightID]; ok && f.SeatsAvailable < f.TotalSeats {
		f.SeatsAvailable++
		f.UpdatedAt = now
		r.store.flights[f.ID] = f
	}
	return &b, nil
}

func (r *BookingRepository) List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	bookings := make([]domain.Booking, 0)
	for _, b := range r.store.bookings {
		if filter.FlightID != nil && b.FlightID != *filter.FlightID {
			continue
		}
		if filter.PassengerName != "" && !strings.Contains(strings.ToLower(b.PassengerName), strings.ToLower(filter.PassengerName)) {
			continue
		}
		bookings = append(bookings, b)
	}
	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].CreatedAt.Equal(bookings[j].CreatedAt) {
			return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
		}
		return bookings[i].ID.String() < bookings[j].ID.String()
	})
	return bookings, nil
}

func (r *BookingRepository) CountConfirmed(ctx context.Context, flightID uuid.UUID) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	n := 0
	for _, b := range r.store.bookings {
		if b.FlightID == flightID && b.Status == domain.BookingStatusConfirmed {
			n++
		}
	}
	return n, nil
}

var _ repository.BookingRepository = (*BookingRepository)(nil)

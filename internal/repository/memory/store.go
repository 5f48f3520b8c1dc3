// Package memory provides in-memory implementations of the repository
// interfaces. They back the test suites and small deployments where a
// database is not available; the pgx repositories remain the primary store.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pawal-karki/airwings-core/internal/domain"
)

// Store holds all records behind a single RWMutex plus a lock table keyed by
// flight id. Seat adjustments and the compound booking transitions serialize
// on the per-flight lock; plain reads only take the RWMutex.
type Store struct {
	mu        sync.RWMutex
	flights   map[uuid.UUID]domain.Flight
	bookings  map[uuid.UUID]domain.Booking
	schedules map[uuid.UUID]domain.ScheduleEntry
	byFlight  map[uuid.UUID]uuid.UUID // flight id -> schedule entry id

	lockMu sync.Mutex
	locks  map[uuid.UUID]chan struct{}
}

func NewStore() *Store {
	return &Store{
		flights:   make(map[uuid.UUID]domain.Flight),
		bookings:  make(map[uuid.UUID]domain.Booking),
		schedules: make(map[uuid.UUID]domain.ScheduleEntry),
		byFlight:  make(map[uuid.UUID]uuid.UUID),
		locks:     make(map[uuid.UUID]chan struct{}),
	}
}

func (s *Store) lockChan(flightID uuid.UUID) chan struct{} {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	l, ok := s.locks[flightID]
	if !ok {
		l = make(chan struct{}, 1)
		s.locks[flightID] = l
	}
	return l
}

// lockFlight acquires the per-flight lock or fails with ErrTimeout once the
// caller's deadline fires. No partial effect has happened at that point.
func (s *Store) lockFlight(ctx context.Context, flightID uuid.UUID) (func(), error) {
	if ctx.Err() != nil {
		return nil, domain.ErrTimeout
	}
	l := s.lockChan(flightID)
	select {
	case l <- struct{}{}:
		return func() { <-l }, nil
	case <-ctx.Done():
		return nil, domain.ErrTimeout
	}
}

package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pawal-karki/airwings-core/internal/domain"
)

// FlightFilter narrows List results. Zero-value fields are ignored.
type FlightFilter struct {
	OriginCity      string
	DestinationCity string
	DepartFrom      *time.Time
	DepartTo        *time.Time
	IncludeRetired  bool
}

type FlightRepository interface {
	Create(ctx context.Context, flight *domain.Flight) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flight, error)
	List(ctx context.Context, filter FlightFilter) ([]domain.Flight, error)
	AdjustSeats(ctx context.Context, id uuid.UUID, delta int) (*domain.Flight, error)
	Retire(ctx context.Context, id uuid.UUID) error
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, flight_number, origin_city, destination_city, departure_time, arrival_time, fare_cents, total_seats, seats_available, retired, created_at, updated_at`

func scanFlight(row pgxRow, f *domain.Flight) error {
	return row.Scan(&f.ID, &f.FlightNumber, &f.OriginCity, &f.DestinationCity, &f.DepartureTime, &f.ArrivalTime, &f.FareCents, &f.TotalSeats, &f.SeatsAvailable, &f.Retired, &f.CreatedAt, &f.UpdatedAt)
}

type pgxRow interface {
	Scan(dest ...any) error
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	err := r.db.QueryRow(ctx, `INSERT INTO flights (id, flight_number, origin_city, destination_city, departure_time, arrival_time, fare_cents, total_seats, seats_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING created_at, updated_at`,
		flight.ID, flight.FlightNumber, flight.OriginCity, flight.DestinationCity, flight.DepartureTime, flight.ArrivalTime, flight.FareCents, flight.TotalSeats).
		Scan(&flight.CreatedAt, &flight.UpdatedAt)
	if err != nil {
		return mapError(err)
	}
	flight.SeatsAvailable = flight.TotalSeats
	return nil
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	var f domain.Flight
	if err := scanFlight(row, &f); err != nil {
		return nil, mapError(err)
	}
	return &f, nil
}

func (r *PGFlightRepository) List(ctx context.Context, filter FlightFilter) ([]domain.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights`
	var (
		conds []string
		args  []any
	)
	if !filter.IncludeRetired {
		conds = append(conds, "NOT retired")
	}
	if filter.OriginCity != "" {
		args = append(args, "%"+filter.OriginCity+"%")
		conds = append(conds, fmt.Sprintf("origin_city ILIKE $%d", len(args)))
	}
	if filter.DestinationCity != "" {
		args = append(args, "%"+filter.DestinationCity+"%")
		conds = append(conds, fmt.Sprintf("destination_city ILIKE $%d", len(args)))
	}
	if filter.DepartFrom != nil {
		args = append(args, *filter.DepartFrom)
		conds = append(conds, fmt.Sprintf("departure_time >= $%d", len(args)))
	}
	if filter.DepartTo != nil {
		args = append(args, *filter.DepartTo)
		conds = append(conds, fmt.Sprintf("departure_time <= $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY departure_time, id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, mapError(err)
		}
		flights = append(flights, f)
	}
	return flights, mapError(rows.Err())
}

// AdjustSeats applies delta in a single conditional UPDATE, so concurrent
// adjustments against the same flight serialize on the row and the capacity
// invariant holds without an explicit lock.
func (r *PGFlightRepository) AdjustSeats(ctx context.Context, id uuid.UUID, delta int) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `UPDATE flights
		SET seats_available = seats_available + $2, updated_at = now()
		WHERE id=$1 AND seats_available + $2 BETWEEN 0 AND total_seats
		RETURNING `+flightColumns, id, delta)
	var f domain.Flight
	err := scanFlight(row, &f)
	if err == nil {
		return &f, nil
	}
	if mapped := mapError(err); mapped != domain.ErrNotFound {
		return nil, mapped
	}
	// No row updated: either the flight is missing or the delta would
	// leave seats_available out of range.
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, domain.ErrCapacity
}

func (r *PGFlightRepository) Retire(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `UPDATE flights SET retired = true, updated_at = now() WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)

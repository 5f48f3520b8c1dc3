package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pawal-karki/airwings-core/internal/domain"
)

const uniqueViolationCode = "23505"

type ScheduleRepository interface {
	// Upsert inserts the entry, or updates frequency/status of the
	// existing entry for the same flight. At most one entry per flight is
	// enforced by a unique index on flight_id.
	Upsert(ctx context.Context, entry *domain.ScheduleEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ScheduleEntry, error)
	SetStatus(ctx context.Context, id uuid.UUID, status domain.ScheduleStatus) (*domain.ScheduleEntry, error)
	ListJoined(ctx context.Context) ([]domain.ScheduleView, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PGScheduleRepository struct {
	db *pgxpool.Pool
}

func NewScheduleRepository(db *pgxpool.Pool) ScheduleRepository {
	return &PGScheduleRepository{db: db}
}

const scheduleColumns = `id, flight_id, frequency, status, created_at, updated_at`

func scanSchedule(row pgxRow, e *domain.ScheduleEntry) error {
	return row.Scan(&e.ID, &e.FlightID, &e.Frequency, &e.Status, &e.CreatedAt, &e.UpdatedAt)
}

func (r *PGScheduleRepository) Upsert(ctx context.Context, entry *domain.ScheduleEntry) error {
	err := r.db.QueryRow(ctx, `INSERT INTO schedule_entries (id, flight_id, frequency, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (flight_id) DO UPDATE SET frequency = EXCLUDED.frequency, status = EXCLUDED.status, updated_at = now()
		RETURNING `+scheduleColumns,
		entry.ID, entry.FlightID, entry.Frequency, entry.Status).
		Scan(&entry.ID, &entry.FlightID, &entry.Frequency, &entry.Status, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return domain.ErrConflict
		}
		return mapError(err)
	}
	return nil
}

func (r *PGScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ScheduleEntry, error) {
	row := r.db.QueryRow(ctx, `SELECT `+scheduleColumns+` FROM schedule_entries WHERE id=$1`, id)
	var e domain.ScheduleEntry
	if err := scanSchedule(row, &e); err != nil {
		return nil, mapError(err)
	}
	return &e, nil
}

func (r *PGScheduleRepository) SetStatus(ctx context.Context, id uuid.UUID, status domain.ScheduleStatus) (*domain.ScheduleEntry, error) {
	row := r.db.QueryRow(ctx, `UPDATE schedule_entries SET status=$2, updated_at=now() WHERE id=$1 RETURNING `+scheduleColumns, id, status)
	var e domain.ScheduleEntry
	if err := scanSchedule(row, &e); err != nil {
		return nil, mapError(err)
	}
	return &e, nil
}

func (r *PGScheduleRepository) ListJoined(ctx context.Context) ([]domain.ScheduleView, error) {
	rows, err := r.db.Query(ctx, `SELECT s.id, s.flight_id, s.frequency, s.status, s.created_at, s.updated_at,
			f.flight_number, f.origin_city, f.destination_city, f.departure_time, f.arrival_time
		FROM schedule_entries s
		JOIN flights f ON f.id = s.flight_id
		ORDER BY f.departure_time, s.id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	views := make([]domain.ScheduleView, 0)
	for rows.Next() {
		var v domain.ScheduleView
		if err := rows.Scan(&v.ID, &v.FlightID, &v.Frequency, &v.Status, &v.CreatedAt, &v.UpdatedAt,
			&v.FlightNumber, &v.OriginCity, &v.DestinationCity, &v.DepartureTime, &v.ArrivalTime); err != nil {
			return nil, mapError(err)
		}
		views = append(views, v)
	}
	return views, mapError(rows.Err())
}

func (r *PGScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM schedule_entries WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ ScheduleRepository = (*PGScheduleRepository)(nil)

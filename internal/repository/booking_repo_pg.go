package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pawal-karki/airwings-core/internal/domain"
)

// BookingFilter narrows List results. Zero-value fields are ignored.
type BookingFilter struct {
	FlightID      *uuid.UUID
	PassengerName string
}

type BookingRepository interface {
	// CreateConfirmed couples the seat decrement with the booking insert in
	// one transaction. On ErrCapacity or ErrNotFound nothing is persisted.
	CreateConfirmed(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	// Cancel moves a confirmed booking to cancelled and releases its seat
	// in one transaction. A booking that is already cancelled fails with
	// ErrInvalidState.
	Cancel(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error)
	CountConfirmed(ctx context.Context, flightID uuid.UUID) (int, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, flight_id, passenger_name, passenger_email, status, created_at, updated_at`

func scanBooking(row pgxRow, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.FlightID, &b.PassengerName, &b.PassengerEmail, &b.Status, &b.CreatedAt, &b.UpdatedAt)
}

func (r *PGBookingRepository) CreateConfirmed(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return mapError(err)
	}
	defer tx.Rollback(ctx)

	var available int
	err = tx.QueryRow(ctx, `UPDATE flights
		SET seats_available = seats_available - 1, updated_at = now()
		WHERE id=$1 AND NOT retired AND seats_available > 0
		RETURNING seats_available`, booking.FlightID).Scan(&available)
	if err != nil {
		if mapped := mapError(err); mapped != domain.ErrNotFound {
			return mapped
		}
		var retired bool
		if err := tx.QueryRow(ctx, `SELECT retired FROM flights WHERE id=$1`, booking.FlightID).Scan(&retired); err != nil {
			return mapError(err)
		}
		if retired {
			return domain.ErrInvalidState
		}
		return domain.ErrCapacity
	}

	booking.Status = domain.BookingStatusConfirmed
	err = tx.QueryRow(ctx, `INSERT INTO bookings (id, flight_id, passenger_name, passenger_email, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		booking.ID, booking.FlightID, booking.PassengerName, booking.PassengerEmail, booking.Status).
		Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return mapError(err)
	}

	return mapError(tx.Commit(ctx))
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		return nil, mapError(err)
	}
	return &b, nil
}

func (r *PGBookingRepository) Cancel(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, mapError(err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `UPDATE bookings
		SET status=$2, updated_at=now()
		WHERE id=$1 AND status=$3
		RETURNING `+bookingColumns, id, domain.BookingStatusCancelled, domain.BookingStatusConfirmed)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if mapped := mapError(err); mapped != domain.ErrNotFound {
			return nil, mapped
		}
		// Distinguish a missing booking from an illegal transition.
		var status domain.BookingStatus
		if err := tx.QueryRow(ctx, `SELECT status FROM bookings WHERE id=$1`, id).Scan(&status); err != nil {
			return nil, mapError(err)
		}
		return nil, domain.ErrInvalidState
	}

	if _, err := tx.Exec(ctx, `UPDATE flights
		SET seats_available = seats_available + 1, updated_at = now()
		WHERE id=$1 AND seats_available < total_seats`, b.FlightID); err != nil {
		return nil, mapError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, mapError(err)
	}
	return &b, nil
}

func (r *PGBookingRepository) List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings`
	var (
		conds []string
		args  []any
	)
	if filter.FlightID != nil {
		args = append(args, *filter.FlightID)
		conds = append(conds, fmt.Sprintf("flight_id = $%d", len(args)))
	}
	if filter.PassengerName != "" {
		args = append(args, "%"+filter.PassengerName+"%")
		conds = append(conds, fmt.Sprintf("passenger_name ILIKE $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, mapError(err)
		}
		bookings = append(bookings, b)
	}
	return bookings, mapError(rows.Err())
}

func (r *PGBookingRepository) CountConfirmed(ctx context.Context, flightID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings WHERE flight_id=$1 AND status=$2`, flightID, domain.BookingStatusConfirmed).Scan(&n)
	return n, mapError(err)
}

var _ BookingRepository = (*PGBookingRepository)(nil)

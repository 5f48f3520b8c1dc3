package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/pawal-karki/airwings-core/internal/domain"
)

// mapError translates driver-level failures into domain errors so that
// services never see pgx internals.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return domain.ErrNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return domain.ErrTimeout
	}
	return err
}

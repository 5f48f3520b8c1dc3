package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pawal-karki/airwings-core/internal/domain"
)

// respondError maps domain errors onto HTTP statuses. Every error kind the
// core can return lands on a distinct, stable category for the UI.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNoSeatsAvailable),
		errors.Is(err, domain.ErrCapacity),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrTimeout):
		status = http.StatusGatewayTimeout
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

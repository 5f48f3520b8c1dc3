package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pawal-karki/airwings-core/internal/repository"
	"github.com/pawal-karki/airwings-core/internal/service/booking"
)

type BookingHandler struct {
	service    booking.BookingUseCase
	adminToken string
}

func NewBookingHandler(service booking.BookingUseCase, adminToken string) *BookingHandler {
	return &BookingHandler{service: service, adminToken: adminToken}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.DELETE("/:id", h.cancel)

	admin := router.Group("/", AdminAuth(h.adminToken))
	admin.GET("/stats", h.stats)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *BookingHandler) list(c *gin.Context) {
	filter := repository.BookingFilter{PassengerName: c.Query("passenger_name")}
	if raw := c.Query("flight_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flight_id"})
			return
		}
		filter.FlightID = &id
	}

	bookings, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// cancel allows the admin or the booking's own passenger. Who may cancel is
// decided here at the boundary; the ledger itself stays authorization-free.
func (h *BookingHandler) cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if !adminRequest(c, h.adminToken) {
		current, err := h.service.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		email := c.GetHeader(passengerEmailHeader)
		if email == "" || !strings.EqualFold(email, current.PassengerEmail) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not authorized to cancel this booking"})
			return
		}
	}

	cancelled, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelled)
}

func (h *BookingHandler) stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pawal-karki/airwings-core/internal/domain"
	"github.com/pawal-karki/airwings-core/internal/service/schedule"
)

type ScheduleHandler struct {
	service    schedule.ScheduleUseCase
	adminToken string
}

type setStatusRequest struct {
	Status domain.ScheduleStatus `json:"status"`
}

func NewScheduleHandler(service schedule.ScheduleUseCase, adminToken string) *ScheduleHandler {
	return &ScheduleHandler{service: service, adminToken: adminToken}
}

func (h *ScheduleHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)

	admin := router.Group("/", AdminAuth(h.adminToken))
	admin.POST("/", h.upsert)
	admin.PATCH("/:id/status", h.setStatus)
	admin.DELETE("/:id", h.delete)
}

func (h *ScheduleHandler) list(c *gin.Context) {
	views, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *ScheduleHandler) upsert(c *gin.Context) {
	var req schedule.UpsertInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, err := h.service.Upsert(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *ScheduleHandler) setStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, err := h.service.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *ScheduleHandler) delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

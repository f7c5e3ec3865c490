package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/preechaw/sewline/internal/domain/models"
)

// BreakStore is the persistence surface behind the break schedule endpoints.
type BreakStore interface {
	ListBreaks(ctx context.Context) ([]models.BreakInterval, error)
	CreateBreak(ctx context.Context, interval models.BreakInterval) (models.BreakInterval, error)
	UpdateBreak(ctx context.Context, interval models.BreakInterval) error
	DeleteBreak(ctx context.Context, id string) error
}

// BreakHandler serves the break schedule CRUD endpoints.
type BreakHandler struct {
	store  BreakStore
	logger *zap.Logger
}

// NewBreakHandler constructs the HTTP adapter for break schedule management.
func NewBreakHandler(store BreakStore, logger *zap.Logger) *BreakHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BreakHandler{store: store, logger: logger}
}

type breakRequest struct {
	Name      string `json:"break_name" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Active    *bool  `json:"is_active"`
}

func (r breakRequest) interval() (models.BreakInterval, error) {
	start, err := models.ParseClock(r.StartTime)
	if err != nil {
		return models.BreakInterval{}, err
	}
	end, err := models.ParseClock(r.EndTime)
	if err != nil {
		return models.BreakInterval{}, err
	}

	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return models.BreakInterval{
		Name:            r.Name,
		Start:           start,
		End:             end,
		DurationMinutes: end.Minutes() - start.Minutes(),
		Active:          active,
	}, nil
}

// List serves GET /api/breaks.
func (h *BreakHandler) List(c *gin.Context) {
	breaks, err := h.store.ListBreaks(c.Request.Context())
	if err != nil {
		h.logger.Error("break listing failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "break schedule unavailable")
		return
	}
	respondData(c, breaks, nil)
}

// Create serves POST /api/breaks.
func (h *BreakHandler) Create(c *gin.Context) {
	interval, ok := h.bindInterval(c)
	if !ok {
		return
	}

	created, err := h.store.CreateBreak(c.Request.Context(), interval)
	if err != nil {
		h.logger.Error("break creation failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to create break")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": created})
}

// Update serves PUT /api/breaks/:id.
func (h *BreakHandler) Update(c *gin.Context) {
	interval, ok := h.bindInterval(c)
	if !ok {
		return
	}
	interval.ID = c.Param("id")

	if err := h.store.UpdateBreak(c.Request.Context(), interval); err != nil {
		h.logger.Warn("break update failed", zap.String("id", interval.ID), zap.Error(err))
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondData(c, interval, nil)
}

// Delete serves DELETE /api/breaks/:id.
func (h *BreakHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.DeleteBreak(c.Request.Context(), id); err != nil {
		h.logger.Warn("break deletion failed", zap.String("id", id), zap.Error(err))
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *BreakHandler) bindInterval(c *gin.Context) (models.BreakInterval, bool) {
	var req breakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid break payload")
		return models.BreakInterval{}, false
	}

	interval, err := req.interval()
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return models.BreakInterval{}, false
	}
	if !interval.Start.Before(interval.End) {
		respondError(c, http.StatusBadRequest, "start_time must be before end_time")
		return models.BreakInterval{}, false
	}
	return interval, true
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/preechaw/sewline/internal/service/quality"
)

// QualityHandler serves the defect analysis endpoints.
type QualityHandler struct {
	svc    *quality.Service
	logger *zap.Logger
}

// NewQualityHandler constructs the HTTP adapter for the quality service.
func NewQualityHandler(svc *quality.Service, logger *zap.Logger) *QualityHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QualityHandler{svc: svc, logger: logger}
}

// GetDefects serves GET /api/defects: the per-line quality summary plus the
// grouped defect breakdown and timeline.
func (h *QualityHandler) GetDefects(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	summary, err := h.svc.Summary(ctx, start, end)
	if err != nil {
		h.logger.Error("quality summary failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "defect data unavailable")
		return
	}
	breakdown, err := h.svc.Breakdown(ctx, start, end)
	if err != nil {
		h.logger.Error("defect breakdown failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "defect data unavailable")
		return
	}

	respondData(c, gin.H{"summary": summary, "breakdown": breakdown}, gin.H{
		"start_date": start.Format(dateLayout),
		"end_date":   end.Format(dateLayout),
	})
}

// GetCrossTabs serves GET /api/cross-tabs, the defect detail × process and
// detail × model matrices.
func (h *QualityHandler) GetCrossTabs(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	crossTabs, err := h.svc.CrossTabs(c.Request.Context(), start, end)
	if err != nil {
		h.logger.Error("cross tabs failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "defect data unavailable")
		return
	}

	respondData(c, crossTabs, gin.H{
		"start_date": start.Format(dateLayout),
		"end_date":   end.Format(dateLayout),
	})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/preechaw/sewline/internal/service/export"
)

// ExportHandler serves the spreadsheet export endpoints.
type ExportHandler struct {
	svc    *export.Service
	logger *zap.Logger
}

// NewExportHandler constructs the HTTP adapter for the export service.
func NewExportHandler(svc *export.Service, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{svc: svc, logger: logger}
}

// Production serves GET /api/export/production.
func (h *ExportHandler) Production(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.ExportProduction(c.Request.Context(), start, end); err != nil {
		h.logger.Error("production export failed", zap.Error(err))
		respondError(c, http.StatusBadGateway, "export failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Quality serves GET /api/export/quality.
func (h *ExportHandler) Quality(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.ExportQuality(c.Request.Context(), start, end); err != nil {
		h.logger.Error("quality export failed", zap.Error(err))
		respondError(c, http.StatusBadGateway, "export failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

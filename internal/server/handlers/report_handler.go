package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/preechaw/sewline/internal/domain/models"
	"github.com/preechaw/sewline/internal/service/report"
)

// ReportHandler serves the production report endpoints.
type ReportHandler struct {
	engine *report.Engine
	logger *zap.Logger
}

// NewReportHandler constructs the HTTP adapter for the aggregation engine.
func NewReportHandler(engine *report.Engine, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{engine: engine, logger: logger}
}

// GetReport serves GET /api/reports. The type parameter selects hourly,
// daily, summary or model_summary granularity; display_type switches the
// hourly report between pieces and percentage.
func (h *ReportHandler) GetReport(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	reportType := models.ReportKind(c.DefaultQuery("type", string(models.ReportHourly)))
	displayType := models.DisplayMode(c.DefaultQuery("display_type", string(models.DisplayPieces)))

	meta := gin.H{
		"start_date":   start.Format(dateLayout),
		"end_date":     end.Format(dateLayout),
		"type":         reportType,
		"display_type": displayType,
	}

	var data interface{}
	switch reportType {
	case models.ReportHourly:
		data, err = h.engine.Hourly(c.Request.Context(), start, end, displayType)
	case models.ReportDaily:
		data, err = h.engine.Daily(c.Request.Context(), start, end)
	case models.ReportSummary:
		data, err = h.engine.Summary(c.Request.Context(), start, end)
	case models.ReportModelSummary:
		data, err = h.engine.ModelSummary(c.Request.Context(), start)
	default:
		respondError(c, http.StatusBadRequest, "unknown report type")
		return
	}
	if err != nil {
		h.logger.Warn("report request rejected", zap.Error(err))
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	respondData(c, data, meta)
}

// GetTargets serves GET /api/targets, the per-line hourly rates effective on
// start_date.
func (h *ReportHandler) GetTargets(c *gin.Context) {
	start, _, err := parseDateRange(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	respondData(c, h.engine.ResolveTargets(c.Request.Context(), start), gin.H{
		"start_date": start.Format(dateLayout),
	})
}

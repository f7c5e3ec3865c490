package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/preechaw/sewline/internal/service/performance"
)

// PerformanceHandler serves the KPI and trend endpoints.
type PerformanceHandler struct {
	svc    *performance.Service
	logger *zap.Logger
}

// NewPerformanceHandler constructs the HTTP adapter for the performance service.
func NewPerformanceHandler(svc *performance.Service, logger *zap.Logger) *PerformanceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PerformanceHandler{svc: svc, logger: logger}
}

// GetPerformance serves GET /api/performance. The action parameter selects
// kpis, efficiency_trend, line_performance or all; type switches the trend
// window between daily and monthly.
func (h *PerformanceHandler) GetPerformance(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	action := c.DefaultQuery("action", "all")
	trendType := c.DefaultQuery("type", "daily")

	ctx := c.Request.Context()
	meta := gin.H{
		"start_date": start.Format(dateLayout),
		"end_date":   end.Format(dateLayout),
		"action":     action,
	}

	var data interface{}
	switch action {
	case "kpis":
		data = h.svc.KPIs(ctx, start, end)
	case "efficiency_trend":
		data = h.svc.EfficiencyTrend(ctx, start, end, trendType)
	case "line_performance":
		data = h.svc.LinePerformance(ctx, start, end)
	case "all":
		data = gin.H{
			"kpis":             h.svc.KPIs(ctx, start, end),
			"trend":            h.svc.EfficiencyTrend(ctx, start, end, trendType),
			"line_performance": h.svc.LinePerformance(ctx, start, end),
		}
	default:
		respondError(c, http.StatusBadRequest, "unknown action")
		return
	}

	respondData(c, data, meta)
}

package performance

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/preechaw/sewline/internal/domain/models"
	"github.com/preechaw/sewline/internal/service/manhour"
	"github.com/preechaw/sewline/internal/service/quality"
	"github.com/preechaw/sewline/internal/service/report"
)

// KPIFallbackRate replaces a resolved hourly rate of 0 in KPI target math.
// Historically this differs from report.DefaultHourlyRate (10); the split is
// deliberate and awaiting product clarification, so keep both.
const KPIFallbackRate = 49

// TrendMonthly extends the trend window to whole calendar months.
const TrendMonthly = "monthly"

// Service computes the range-level performance KPIs, the per-day efficiency
// trend and the per-line performance rollup.
type Service struct {
	engine   *report.Engine
	quality  *quality.Service
	manhours *manhour.Service
	logger   *zap.Logger
}

// New wires the performance service on top of the reporting, quality and
// man-hour services.
func New(engine *report.Engine, qualitySvc *quality.Service, manhours *manhour.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{engine: engine, quality: qualitySvc, manhours: manhours, logger: logger}
}

// KPIs computes the headline indicators for [start, end]. All four are
// total-based ratios over the whole range.
func (s *Service) KPIs(ctx context.Context, start, end time.Time) models.PerformanceKPIs {
	var kpis models.PerformanceKPIs

	summary, err := s.engine.Summary(ctx, start, end)
	if err != nil {
		s.logger.Warn("summary failed for kpis", zap.Error(err))
		return kpis
	}

	totalActual := 0
	totalTarget := 0
	for _, line := range models.Lines() {
		data := summary[line]
		totalActual += data.TotalQty

		rate := data.Target
		if rate == 0 {
			rate = KPIFallbackRate
		}
		totalTarget += s.engine.RangeTarget(ctx, rate, start, end)
	}

	if totalTarget > 0 {
		kpis.OverallEfficiency = round2(float64(totalActual) / float64(totalTarget) * 100)
	}

	if manHours := s.manhours.AdjustedTotal(ctx, start, end); manHours > 0 {
		kpis.ProductivityRate = round2(float64(totalActual) / manHours)
	}

	defects := s.quality.TotalDefects(ctx, start, end)
	if totalActual > 0 {
		kpis.DefectRate = quality.TotalPercent(float64(defects), float64(totalActual))
		kpis.QualityRate = quality.TotalPercent(float64(totalActual-defects), float64(totalActual))
	} else {
		kpis.QualityRate = 100
	}
	return kpis
}

// EfficiencyTrend returns one point per working day from the first of start's
// month through end (whole months when trendType is TrendMonthly). Days with
// neither actual output nor a target are omitted.
func (s *Service) EfficiencyTrend(ctx context.Context, start, end time.Time, trendType string) []models.TrendPoint {
	queryStart := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
	queryEnd := dateOnly(end)
	if trendType == TrendMonthly {
		queryEnd = dateOnly(time.Date(end.Year(), end.Month()+1, 0, 0, 0, 0, 0, end.Location()))
	}

	var points []models.TrendPoint
	for day := queryStart; !day.After(queryEnd); day = day.AddDate(0, 0, 1) {
		summary, err := s.engine.Summary(ctx, day, day)
		if err != nil {
			continue
		}

		actual := 0
		target := 0
		for _, line := range models.Lines() {
			data := summary[line]
			actual += data.TotalQty
			target += s.engine.DayTarget(ctx, data.Target, day)
		}
		if actual == 0 && target == 0 {
			continue
		}

		efficiency := 0.0
		if target > 0 {
			efficiency = round2(float64(actual) / float64(target) * 100)
		}
		weekday := day.Weekday()
		points = append(points, models.TrendPoint{
			Period:     day.Format("2006-01-02"),
			Efficiency: efficiency,
			Actual:     actual,
			Target:     target,
			IsWeekend:  weekday == time.Saturday || weekday == time.Sunday,
		})
	}
	return points
}

// LinePerformance returns actual vs range target per line.
func (s *Service) LinePerformance(ctx context.Context, start, end time.Time) []models.LinePerformance {
	summary, err := s.engine.Summary(ctx, start, end)
	if err != nil {
		s.logger.Warn("summary failed for line performance", zap.Error(err))
		return nil
	}

	out := make([]models.LinePerformance, 0, len(models.Lines()))
	for _, line := range models.Lines() {
		data := summary[line]

		rate := data.Target
		if rate == 0 {
			rate = KPIFallbackRate
		}
		target := s.engine.RangeTarget(ctx, rate, start, end)

		efficiency := 0.0
		if target > 0 {
			efficiency = round2(float64(data.TotalQty) / float64(target) * 100)
		}
		out = append(out, models.LinePerformance{
			Process:    line.Display(),
			ActualQty:  data.TotalQty,
			TargetQty:  target,
			Efficiency: efficiency,
		})
	}
	return out
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

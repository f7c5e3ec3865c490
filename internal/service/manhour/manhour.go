package manhour

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/preechaw/sewline/internal/domain/models"
)

// Morning and afternoon shifts include a 20-minute break per 4 working hours,
// so recorded hours are scaled by 220/240. Overtime is unscaled.
const breakAdjustFactor = 220.0 / 240.0

// Source supplies raw manpower (headcount × hours) rows.
type Source interface {
	FetchManpower(ctx context.Context, start, end time.Time) ([]models.ManpowerRow, error)
}

// Service computes man-hour totals per line, date and shift, and allocates
// them proportionally across the models produced on a day.
type Service struct {
	source Source
	logger *zap.Logger
}

// New wires the man-hour service.
func New(source Source, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, logger: logger}
}

// RangeTotal sums man-hours (headcount × recorded hours) for one line and
// shift over [start, end]. Source failures degrade to 0.
func (s *Service) RangeTotal(ctx context.Context, line models.Line, start, end time.Time, shift models.Shift) float64 {
	rows, err := s.source.FetchManpower(ctx, start, end)
	if err != nil {
		s.logger.Warn("manpower fetch failed", zap.Error(err))
		return 0
	}

	var total float64
	for _, row := range rows {
		if rowShift(row) != shift {
			continue
		}
		if count := row.Counts[line]; count > 0 {
			total += float64(count) * row.Hours
		}
	}
	return total
}

// rowShift returns the recorded shift, classifying by the entry timestamp when
// the record carries none.
func rowShift(row models.ManpowerRow) models.Shift {
	if row.Shift != "" {
		return row.Shift
	}
	return models.ShiftAt(row.CreatedAt)
}

// DailyTotal is RangeTotal for a single calendar day.
func (s *Service) DailyTotal(ctx context.Context, line models.Line, day time.Time, shift models.Shift) float64 {
	return s.RangeTotal(ctx, line, day, day, shift)
}

// ShiftTotals returns the per-shift man-hour totals for one line over a range.
func (s *Service) ShiftTotals(ctx context.Context, line models.Line, start, end time.Time) map[models.Shift]float64 {
	totals := make(map[models.Shift]float64, len(models.Shifts()))
	for _, shift := range models.Shifts() {
		totals[shift] = s.RangeTotal(ctx, line, start, end, shift)
	}
	return totals
}

// AdjustedTotal sums man-hours across all lines and shifts with the break
// adjustment applied to morning and afternoon shifts. This feeds the
// productivity KPI (output per adjusted man-hour).
func (s *Service) AdjustedTotal(ctx context.Context, start, end time.Time) float64 {
	rows, err := s.source.FetchManpower(ctx, start, end)
	if err != nil {
		s.logger.Warn("manpower fetch failed", zap.Error(err))
		return 0
	}

	var total float64
	for _, row := range rows {
		headcount := 0
		for _, count := range row.Counts {
			headcount += count
		}
		if headcount == 0 {
			continue
		}

		hours := row.Hours
		if shift := rowShift(row); shift == models.ShiftMorning || shift == models.ShiftAfternoon {
			hours *= breakAdjustFactor
		}
		total += float64(headcount) * hours
	}
	return total
}

// Allocate distributes a day's man-hours across models proportionally to each
// model's share of the day's total quantity. A zero day total allocates 0 to
// every model instead of dividing by zero.
func Allocate(totalManHours float64, qtyByModel map[string]int) map[string]float64 {
	allocated := make(map[string]float64, len(qtyByModel))

	dayTotal := 0
	for _, qty := range qtyByModel {
		dayTotal += qty
	}
	if dayTotal == 0 {
		for model := range qtyByModel {
			allocated[model] = 0
		}
		return allocated
	}

	for model, qty := range qtyByModel {
		allocated[model] = totalManHours * float64(qty) / float64(dayTotal)
	}
	return allocated
}

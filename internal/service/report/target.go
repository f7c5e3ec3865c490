package report

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/preechaw/sewline/internal/domain/models"
)

// DefaultHourlyRate is the flat pieces-per-hour target used when no target
// record exists for a line. The performance KPIs use their own, historically
// different fallback (see performance.KPIFallbackRate); the two are
// intentionally not unified.
const DefaultHourlyRate = 10

// The summary daily target is distributed over this fixed reference window of
// clock hours, regardless of which hours actually saw production.
const (
	referenceWindowStart = 8
	referenceWindowEnd   = 17
)

// Resolver turns (line, date) into a flat hourly piece rate. Resolution never
// fails: source errors and missing records degrade to DefaultHourlyRate.
type Resolver struct {
	source TargetSource
	logger *zap.Logger
}

// NewResolver wires a target resolver.
func NewResolver(source TargetSource, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{source: source, logger: logger}
}

// ResolveAll returns the hourly rate for every line on the given date,
// preferring a record effective exactly on the date, then the most recent
// earlier record, then the default.
func (r *Resolver) ResolveAll(ctx context.Context, date time.Time) map[models.Line]int {
	rates := make(map[models.Line]int, len(models.Lines()))
	for _, line := range models.Lines() {
		rates[line] = DefaultHourlyRate
	}

	rec, err := r.source.TargetOn(ctx, date)
	if err != nil {
		r.logger.Warn("target lookup failed, using defaults", zap.Error(err))
		return rates
	}
	if rec == nil {
		rec, err = r.source.LatestTargetBefore(ctx, date)
		if err != nil {
			r.logger.Warn("target fallback lookup failed, using defaults", zap.Error(err))
			return rates
		}
	}
	if rec == nil {
		return rates
	}

	for line, rate := range rec.Rates {
		rates[line] = rate
	}
	return rates
}

// Resolve returns the hourly rate for a single line on the given date.
func (r *Resolver) Resolve(ctx context.Context, line models.Line, date time.Time) int {
	return r.ResolveAll(ctx, date)[line]
}

// HourTarget is the time-adjusted target for one clock hour: the flat rate
// scaled by net working minutes, rounded half away from zero at the integer
// boundary.
func HourTarget(rate, netMinutes int) int {
	return int(math.Round(float64(rate) * float64(netMinutes) / 60))
}

// DayTarget sums the per-hour target over the day's discovered working hours.
func (e *Engine) DayTarget(ctx context.Context, rate int, day time.Time) int {
	return e.dayTarget(ctx, rate, day, e.activeBreaks(ctx))
}

// RangeTarget sums day targets over every calendar day in [start, end]
// inclusive, re-discovering working hours per day. This reflects actual net
// minutes rather than a nominal rate × hour-count product.
func (e *Engine) RangeTarget(ctx context.Context, rate int, start, end time.Time) int {
	if rate <= 0 {
		return 0
	}
	breaks := e.activeBreaks(ctx)
	total := 0
	for day := dateOnly(start); !day.After(dateOnly(end)); day = day.AddDate(0, 0, 1) {
		total += e.dayTarget(ctx, rate, day, breaks)
	}
	return total
}

func (e *Engine) dayTarget(ctx context.Context, rate int, day time.Time, breaks []models.BreakInterval) int {
	total := 0
	for _, hour := range e.WorkingHours(ctx, day, day) {
		total += HourTarget(rate, NetMinutes(hour, breaks))
	}
	return total
}

// referenceDailyTarget distributes the rate over the fixed 8–17 window. Note
// the rounding happens once on the day total, not per hour.
func referenceDailyTarget(rate int, breaks []models.BreakInterval) int {
	minutes := 0
	for hour := referenceWindowStart; hour <= referenceWindowEnd; hour++ {
		minutes += NetMinutes(hour, breaks)
	}
	return int(math.Round(float64(rate) * float64(minutes) / 60))
}

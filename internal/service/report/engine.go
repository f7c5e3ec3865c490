package report

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/preechaw/sewline/internal/domain/models"
)

const dateLayout = "2006-01-02"

// Engine aggregates raw production rows into hourly, daily and summary
// reports. It owns no state beyond its injected read-only sources: every
// report is a pure function of (range, break schedule, targets, rows), so
// concurrent requests are safe without locking.
type Engine struct {
	rows     RowSource
	breaks   BreakSource
	resolver *Resolver
	logger   *zap.Logger
}

// NewEngine wires the aggregation engine with its data sources.
func NewEngine(rows RowSource, breaks BreakSource, targets TargetSource, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		rows:     rows,
		breaks:   breaks,
		resolver: NewResolver(targets, logger.Named("targets")),
		logger:   logger,
	}
}

// ResolveTargets exposes per-line target resolution for the given date.
func (e *Engine) ResolveTargets(ctx context.Context, date time.Time) map[models.Line]int {
	return e.resolver.ResolveAll(ctx, date)
}

// Hourly builds the per-working-hour report over [start, end]. In percentage
// mode each hour's value is actual over the break-adjusted hour target, one
// decimal; a zero target yields 0 rather than a division error.
func (e *Engine) Hourly(ctx context.Context, start, end time.Time, display models.DisplayMode) (*models.HourlyReport, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	rowsByLine := e.collectRows(ctx, start, end)
	hours := discoverHours(rowsByLine)
	breaks := e.activeBreaks(ctx)
	targets := e.ResolveTargets(ctx, start)

	out := &models.HourlyReport{
		Labels: hourLabels(hours),
		Lines:  make(map[models.Line][]float64, len(models.Lines())),
	}

	for _, line := range models.Lines() {
		byHour := make(map[int]int)
		for _, row := range rowsByLine[line] {
			byHour[row.CreatedAt.Hour()] += row.Qty
		}

		series := make([]float64, len(hours))
		for i, hour := range hours {
			actual := byHour[hour]
			if display != models.DisplayPercentage {
				series[i] = float64(actual)
				continue
			}
			target := HourTarget(targets[line], NetMinutes(hour, breaks))
			if target > 0 {
				series[i] = round1(float64(actual) / float64(target) * 100)
			}
		}
		out.Lines[line] = series
	}
	return out, nil
}

// Daily builds the per-calendar-day piece report over [start, end]. No
// percentage mode exists at this granularity.
func (e *Engine) Daily(ctx context.Context, start, end time.Time) (*models.DailyReport, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	rowsByLine := e.collectRows(ctx, start, end)

	days := daysBetween(start, end)
	labels := make([]string, len(days))
	for i, day := range days {
		labels[i] = day.Format("02/01")
	}

	out := &models.DailyReport{
		Labels: labels,
		Lines:  make(map[models.Line][]int, len(models.Lines())),
	}

	for _, line := range models.Lines() {
		byDay := make(map[string]int)
		for _, row := range rowsByLine[line] {
			byDay[row.CreatedAt.Format(dateLayout)] += row.Qty
		}

		series := make([]int, len(days))
		for i, day := range days {
			series[i] = byDay[day.Format(dateLayout)]
		}
		out.Lines[line] = series
	}
	return out, nil
}

// Summary builds the range-level rollup per line. The Percentage field is the
// hourly-average method: per-hour actual/target ratios averaged over hours
// with nonzero activity. DailyTarget distributes the rate over the fixed
// 8–17 reference window independent of discovered hours.
func (e *Engine) Summary(ctx context.Context, start, end time.Time) (models.SummaryReport, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	rowsByLine := e.collectRows(ctx, start, end)
	breaks := e.activeBreaks(ctx)
	targets := e.ResolveTargets(ctx, start)

	out := make(models.SummaryReport, len(models.Lines()))
	for _, line := range models.Lines() {
		rows := rowsByLine[line]
		if rows == nil {
			// unavailable source: zero everything but keep the resolved target
			out[line] = models.LineSummary{Target: targets[line]}
			continue
		}

		totalQty := 0
		unique := make(map[string]struct{})
		for _, row := range rows {
			totalQty += row.Qty
			unique[row.Item] = struct{}{}
		}

		out[line] = models.LineSummary{
			TotalQty:    totalQty,
			TotalItems:  len(rows),
			UniqueItems: len(unique),
			Percentage:  round1(hourlyAveragePercentage(rows, targets[line], breaks)),
			Target:      targets[line],
			DailyTarget: referenceDailyTarget(targets[line], breaks),
		}
	}
	return out, nil
}

// hourlyAveragePercentage averages per-hour (actual / adjusted target) ratios
// across hours that recorded production. Idle hours are excluded from the
// average, not counted as 0%. This intentionally diverges from the
// total-based ratio whenever hourly activity is uneven.
func hourlyAveragePercentage(rows []models.ProductionRow, rate int, breaks []models.BreakInterval) float64 {
	byHour := make(map[int]int)
	for _, row := range rows {
		byHour[row.CreatedAt.Hour()] += row.Qty
	}

	var sum float64
	var active int
	for hour, qty := range byHour {
		if qty <= 0 {
			continue
		}
		target := HourTarget(rate, NetMinutes(hour, breaks))
		if target <= 0 {
			continue
		}
		sum += float64(qty) / float64(target) * 100
		active++
	}
	if active == 0 {
		return 0
	}
	return sum / float64(active)
}

// ModelSummary breaks one date's confirmed production down per model across
// lines. Models appear in first-seen order.
func (e *Engine) ModelSummary(ctx context.Context, date time.Time) (*models.ModelSummary, error) {
	rowsByLine := e.collectRows(ctx, date, date)

	out := &models.ModelSummary{Totals: make(map[models.Line]int, len(models.Lines()))}
	for _, line := range models.Lines() {
		out.Totals[line] = 0
	}

	index := make(map[string]int)
	for _, line := range models.Lines() {
		for _, row := range rowsByLine[line] {
			if row.Status != models.StatusConfirmed {
				continue
			}
			i, ok := index[row.Item]
			if !ok {
				i = len(out.Models)
				index[row.Item] = i
				entry := models.ModelRow{Name: row.Item, Lines: make(map[models.Line]int)}
				for _, l := range models.Lines() {
					entry.Lines[l] = 0
				}
				out.Models = append(out.Models, entry)
			}
			out.Models[i].Lines[line] += row.Qty
			out.Models[i].Total += row.Qty
			out.Totals[line] += row.Qty
		}
	}
	return out, nil
}

func (e *Engine) activeBreaks(ctx context.Context) []models.BreakInterval {
	breaks, err := e.breaks.ActiveBreaks(ctx)
	if err != nil {
		e.logger.Warn("break schedule unavailable, assuming none", zap.Error(err))
		return nil
	}
	return breaks
}

func validateRange(start, end time.Time) error {
	if dateOnly(end).Before(dateOnly(start)) {
		return fmt.Errorf("end date %s before start date %s",
			end.Format(dateLayout), start.Format(dateLayout))
	}
	return nil
}

func hourLabels(hours []int) []string {
	labels := make([]string, len(hours))
	for i, hour := range hours {
		labels[i] = fmt.Sprintf("%02d:00", hour)
	}
	return labels
}

func daysBetween(start, end time.Time) []time.Time {
	var days []time.Time
	for day := dateOnly(start); !day.After(dateOnly(end)); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

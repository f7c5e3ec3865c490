package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preechaw/sewline/internal/domain/models"
)

type fakeRowSource struct {
	rows    map[models.Line][]models.ProductionRow
	missing map[models.Line]bool
	failing map[models.Line]bool
}

func (f *fakeRowSource) SourceExists(ctx context.Context, line models.Line) bool {
	return !f.missing[line]
}

func (f *fakeRowSource) FetchProduction(ctx context.Context, line models.Line, start, end time.Time) ([]models.ProductionRow, error) {
	if f.failing[line] {
		return nil, errors.New("cursor timeout")
	}
	return f.rows[line], nil
}

type fakeBreakSource struct {
	breaks []models.BreakInterval
	err    error
}

func (f *fakeBreakSource) ActiveBreaks(ctx context.Context) ([]models.BreakInterval, error) {
	return f.breaks, f.err
}

func row(item string, qty, hour int) models.ProductionRow {
	return models.ProductionRow{
		Item:      item,
		Qty:       qty,
		Status:    models.StatusConfirmed,
		CreatedAt: time.Date(2025, 6, 2, hour, 15, 0, 0, time.Local),
	}
}

func newTestEngine(rows *fakeRowSource, breaks *fakeBreakSource, targets *fakeTargetSource) *Engine {
	return NewEngine(rows, breaks, targets, nil)
}

func TestWorkingHoursFallbackWindow(t *testing.T) {
	engine := newTestEngine(&fakeRowSource{}, &fakeBreakSource{}, &fakeTargetSource{})

	hours := engine.WorkingHours(context.Background(), day(2025, 6, 2), day(2025, 6, 2))

	assert.Equal(t, []int{8, 9, 10, 11, 12, 13, 14, 15, 16}, hours)
}

func TestWorkingHoursUnionAcrossLines(t *testing.T) {
	rows := &fakeRowSource{rows: map[models.Line][]models.ProductionRow{
		models.LineFC: {row("A-1", 3, 10)},
		models.LineRB: {row("B-2", 5, 8), row("B-2", 2, 14)},
	}}
	engine := newTestEngine(rows, &fakeBreakSource{}, &fakeTargetSource{})

	hours := engine.WorkingHours(context.Background(), day(2025, 6, 2), day(2025, 6, 2))

	assert.Equal(t, []int{8, 10, 14}, hours)
}

func TestHourlyPieces(t *testing.T) {
	rows := &fakeRowSource{rows: map[models.Line][]models.ProductionRow{
		models.LineFC: {row("A-1", 3, 9), row("A-1", 4, 9), row("A-2", 6, 11)},
	}}
	engine := newTestEngine(rows, &fakeBreakSource{}, &fakeTargetSource{})

	report, err := engine.Hourly(context.Background(), day(2025, 6, 2), day(2025, 6, 2), models.DisplayPieces)
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "11:00"}, report.Labels)
	assert.Equal(t, []float64{7, 6}, report.Lines[models.LineFC])
	assert.Equal(t, []float64{0, 0}, report.Lines[models.LineSub])
}

func TestHourlyPercentage(t *testing.T) {
	rows := &fakeRowSource{rows: map[models.Line][]models.ProductionRow{
		models.LineFC: {row("A-1", 5, 9)},
	}}
	targets := &fakeTargetSource{
		onDate: &models.TargetRecord{Rates: map[models.Line]int{models.LineFC: 10}},
	}
	engine := newTestEngine(rows, &fakeBreakSource{}, targets)

	report, err := engine.Hourly(context.Background(), day(2025, 6, 2), day(2025, 6, 2), models.DisplayPercentage)
	require.NoError(t, err)

	// 5 pieces against a full-hour target of 10
	assert.Equal(t, []float64{50}, report.Lines[models.LineFC])
}

func TestHourlyRejectsReversedRange(t *testing.T) {
	engine := newTestEngine(&fakeRowSource{}, &fakeBreakSource{}, &fakeTargetSource{})

	_, err := engine.Hourly(context.Background(), day(2025, 6, 3), day(2025, 6, 2), models.DisplayPieces)

	assert.Error(t, err)
}

func TestDailySeries(t *testing.T) {
	rows := &fakeRowSource{rows: map[models.Line][]models.ProductionRow{
		models.LineFB: {
			row("A-1", 4, 9),
			{Item: "A-1", Qty: 6, Status: models.StatusConfirmed,
				CreatedAt: time.Date(2025, 6, 3, 10, 0, 0, 0, time.Local)},
		},
	}}
	engine := newTestEngine(rows, &fakeBreakSource{}, &fakeTargetSource{})

	report, err := engine.Daily(context.Background(), day(2025, 6, 2), day(2025, 6, 4))
	require.NoError(t, err)

	assert.Equal(t, []string{"02/06", "03/06", "04/06"}, report.Labels)
	assert.Equal(t, []int{4, 6, 0}, report.Lines[models.LineFB])
}

func TestSummaryZeroFillsMissingSource(t *testing.T) {
	rows := &fakeRowSource{missing: map[models.Line]bool{models.LineSub: true}}
	targets := &fakeTargetSource{
		onDate: &models.TargetRecord{Rates: map[models.Line]int{models.LineSub: 12}},
	}
	engine := newTestEngine(rows, &fakeBreakSource{}, targets)

	summary, err := engine.Summary(context.Background(), day(2025, 6, 2), day(2025, 6, 2))
	require.NoError(t, err)

	// the resolved target survives, everything else is zeroed
	sub := summary[models.LineSub]
	assert.Equal(t, models.LineSummary{Target: 12}, sub)
}

func TestSummaryZeroFillsFailingSource(t *testing.T) {
	rows := &fakeRowSource{failing: map[models.Line]bool{models.LineFC: true}}
	engine := newTestEngine(rows, &fakeBreakSource{}, &fakeTargetSource{})

	summary, err := engine.Summary(context.Background(), day(2025, 6, 2), day(2025, 6, 2))
	require.NoError(t, err)

	assert.Equal(t, models.LineSummary{Target: DefaultHourlyRate}, summary[models.LineFC])
}

func TestSummaryHealthyIdleLine(t *testing.T) {
	rows := &fakeRowSource{rows: map[models.Line][]models.ProductionRow{}}
	engine := newTestEngine(rows, &fakeBreakSource{}, &fakeTargetSource{})

	summary, err := engine.Summary(context.Background(), day(2025, 6, 2), day(2025, 6, 2))
	require.NoError(t, err)

	// healthy but idle keeps the full daily target, unlike a missing source
	fc := summary[models.LineFC]
	assert.Equal(t, 0, fc.TotalQty)
	assert.Equal(t, 100, fc.DailyTarget)
}

func TestSummaryHourlyAveragePercentage(t *testing.T) {
	// hour 9 runs a full 60 minutes (target 10), hour 12 loses 20 minutes to
	// lunch (target 7). 5/10 = 50% and 7/7 = 100% average to 75%; a
	// total-based ratio over the same rows would give 12/17 = 70.6%.
	rows := &fakeRowSource{rows: map[models.Line][]models.ProductionRow{
		models.LineFC: {row("A-1", 5, 9), row("A-1", 7, 12)},
	}}
	breaks := &fakeBreakSource{breaks: []models.BreakInterval{interval(12, 0, 12, 20, true)}}
	targets := &fakeTargetSource{
		onDate: &models.TargetRecord{Rates: map[models.Line]int{models.LineFC: 10}},
	}
	engine := newTestEngine(rows, breaks, targets)

	summary, err := engine.Summary(context.Background(), day(2025, 6, 2), day(2025, 6, 2))
	require.NoError(t, err)

	fc := summary[models.LineFC]
	assert.Equal(t, 75.0, fc.Percentage)
	assert.Equal(t, 12, fc.TotalQty)
	assert.Equal(t, 2, fc.TotalItems)
	assert.Equal(t, 1, fc.UniqueItems)
	assert.Equal(t, 97, fc.DailyTarget)
}

func TestModelSummaryFiltersUnconfirmed(t *testing.T) {
	rows := &fakeRowSource{rows: map[models.Line][]models.ProductionRow{
		models.LineFC: {
			row("MODEL-A", 5, 9),
			{Item: "MODEL-B", Qty: 9, Status: 1,
				CreatedAt: time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local)},
		},
		models.LineRC: {row("MODEL-A", 3, 10)},
	}}
	engine := newTestEngine(rows, &fakeBreakSource{}, &fakeTargetSource{})

	summary, err := engine.ModelSummary(context.Background(), day(2025, 6, 2))
	require.NoError(t, err)

	require.Len(t, summary.Models, 1)
	assert.Equal(t, "MODEL-A", summary.Models[0].Name)
	assert.Equal(t, 8, summary.Models[0].Total)
	assert.Equal(t, 5, summary.Models[0].Lines[models.LineFC])
	assert.Equal(t, 3, summary.Totals[models.LineRC])
	assert.Equal(t, 0, summary.Totals[models.LineSub])
}

func TestPercentageMethodsDiverge(t *testing.T) {
	// hour 9 at full target 10, hour 12 at a break-reduced target 7. The
	// hourly-average and total-based methods must disagree on these rows.
	rows := []models.ProductionRow{row("A-1", 5, 9), row("A-1", 7, 12)}
	breaks := []models.BreakInterval{interval(12, 0, 12, 20, true)}

	hourlyAverage := hourlyAveragePercentage(rows, 10, breaks)

	totalActual := 0
	totalTarget := 0
	for _, hour := range []int{9, 12} {
		totalTarget += HourTarget(10, NetMinutes(hour, breaks))
	}
	for _, r := range rows {
		totalActual += r.Qty
	}
	totalBased := float64(totalActual) / float64(totalTarget) * 100

	assert.Equal(t, 75.0, hourlyAverage)
	assert.InDelta(t, 70.59, totalBased, 0.01)
	assert.NotEqual(t, hourlyAverage, totalBased)
}

func TestRangeTargetEqualsSumOfDayTargets(t *testing.T) {
	// the range total must be the plain sum of the per-day totals
	rows := &fakeRowSource{rows: map[models.Line][]models.ProductionRow{
		models.LineFC: {row("A-1", 3, 9)},
	}}
	engine := newTestEngine(rows, &fakeBreakSource{}, &fakeTargetSource{})
	ctx := context.Background()

	dayOne := engine.DayTarget(ctx, 10, day(2025, 6, 2))
	dayTwo := engine.DayTarget(ctx, 10, day(2025, 6, 3))
	total := engine.RangeTarget(ctx, 10, day(2025, 6, 2), day(2025, 6, 3))

	assert.Equal(t, dayOne+dayTwo, total)
}

func TestRangeTargetSumsPerDay(t *testing.T) {
	engine := newTestEngine(&fakeRowSource{}, &fakeBreakSource{}, &fakeTargetSource{})

	// idle plant falls back to the 9-hour default window both days
	total := engine.RangeTarget(context.Background(), 10, day(2025, 6, 2), day(2025, 6, 3))

	assert.Equal(t, 180, total)
	assert.Equal(t, 0, engine.RangeTarget(context.Background(), 0, day(2025, 6, 2), day(2025, 6, 3)))
}

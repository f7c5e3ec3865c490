package performance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/preechaw/sewline/internal/domain/models"
	"github.com/preechaw/sewline/internal/service/manhour"
	"github.com/preechaw/sewline/internal/service/quality"
	"github.com/preechaw/sewline/internal/service/report"
)

type fakeRows struct {
	rows map[models.Line][]models.ProductionRow
}

func (f *fakeRows) SourceExists(ctx context.Context, line models.Line) bool { return true }

func (f *fakeRows) FetchProduction(ctx context.Context, line models.Line, start, end time.Time) ([]models.ProductionRow, error) {
	var out []models.ProductionRow
	for _, r := range f.rows[line] {
		if !r.CreatedAt.Before(start) && r.CreatedAt.Before(end.AddDate(0, 0, 1)) {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeBreaks struct{}

func (fakeBreaks) ActiveBreaks(ctx context.Context) ([]models.BreakInterval, error) {
	return nil, nil
}

type fakeTargets struct {
	rec *models.TargetRecord
}

func (f *fakeTargets) TargetOn(ctx context.Context, date time.Time) (*models.TargetRecord, error) {
	return f.rec, nil
}

func (f *fakeTargets) LatestTargetBefore(ctx context.Context, date time.Time) (*models.TargetRecord, error) {
	return f.rec, nil
}

type fakeDefects struct {
	defects []models.DefectRow
}

func (f *fakeDefects) FetchDefects(ctx context.Context, start, end time.Time) ([]models.DefectRow, error) {
	return f.defects, nil
}

func (f *fakeDefects) InspectionSourceExists(ctx context.Context, line models.Line) bool {
	return false
}

func (f *fakeDefects) FetchInspections(ctx context.Context, line models.Line, start, end time.Time) ([]models.InspectionRow, error) {
	return nil, nil
}

func (f *fakeDefects) ItemCatalog(ctx context.Context) ([]models.CatalogItem, error) {
	return nil, nil
}

type fakeManpower struct {
	rows []models.ManpowerRow
}

func (f *fakeManpower) FetchManpower(ctx context.Context, start, end time.Time) ([]models.ManpowerRow, error) {
	return f.rows, nil
}

func zeroRates() map[models.Line]int {
	rates := make(map[models.Line]int)
	for _, line := range models.Lines() {
		rates[line] = 0
	}
	return rates
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func newTestService(rows *fakeRows, targets *fakeTargets, defects *fakeDefects, man *fakeManpower) *Service {
	engine := report.NewEngine(rows, fakeBreaks{}, targets, nil)
	return New(engine, quality.New(defects, nil), manhour.New(man, nil), nil)
}

func TestKPIsQualityRateWithoutProduction(t *testing.T) {
	svc := newTestService(&fakeRows{}, &fakeTargets{}, &fakeDefects{}, &fakeManpower{})

	kpis := svc.KPIs(context.Background(), day(2025, 6, 2), day(2025, 6, 2))

	assert.Equal(t, 100.0, kpis.QualityRate)
	assert.Equal(t, 0.0, kpis.DefectRate)
	assert.Equal(t, 0.0, kpis.OverallEfficiency)
	assert.Equal(t, 0.0, kpis.ProductivityRate)
}

func TestKPIsZeroRateFallsBackTo49(t *testing.T) {
	// a target record with explicit zeros forces the historical KPI fallback
	rows := &fakeRows{rows: map[models.Line][]models.ProductionRow{
		models.LineFC: {{
			Item: "A", Qty: 441, Status: models.StatusConfirmed,
			CreatedAt: time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local),
		}},
	}}
	svc := newTestService(rows, &fakeTargets{rec: &models.TargetRecord{Rates: zeroRates()}},
		&fakeDefects{}, &fakeManpower{})

	kpis := svc.KPIs(context.Background(), day(2025, 6, 2), day(2025, 6, 2))

	// one working hour discovered, so each of the 6 lines targets 49
	assert.InDelta(t, 441.0/(6*49)*100, kpis.OverallEfficiency, 0.01)
}

func TestKPIsDefectAndProductivityRates(t *testing.T) {
	rows := &fakeRows{rows: map[models.Line][]models.ProductionRow{
		models.LineFC: {{
			Item: "A", Qty: 200, Status: models.StatusConfirmed,
			CreatedAt: time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local),
		}},
	}}
	defects := &fakeDefects{defects: []models.DefectRow{{Process: "F/C", Qty: 10}}}
	man := &fakeManpower{rows: []models.ManpowerRow{{
		Shift: models.ShiftOvertime, Hours: 10,
		Counts: map[models.Line]int{models.LineFC: 10},
	}}}
	svc := newTestService(rows, &fakeTargets{}, defects, man)

	kpis := svc.KPIs(context.Background(), day(2025, 6, 2), day(2025, 6, 2))

	assert.Equal(t, 5.0, kpis.DefectRate)
	assert.Equal(t, 95.0, kpis.QualityRate)
	// 200 pieces over 100 unadjusted overtime man-hours
	assert.Equal(t, 2.0, kpis.ProductivityRate)
}

func TestEfficiencyTrendStartsAtMonthStart(t *testing.T) {
	rows := &fakeRows{rows: map[models.Line][]models.ProductionRow{
		models.LineFC: {{
			Item: "A", Qty: 30, Status: models.StatusConfirmed,
			CreatedAt: time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local),
		}},
	}}
	svc := newTestService(rows, &fakeTargets{}, &fakeDefects{}, &fakeManpower{})

	points := svc.EfficiencyTrend(context.Background(), day(2025, 6, 2), day(2025, 6, 2), "daily")

	// default targets keep idle June 1st in the trend
	assert.Len(t, points, 2)
	assert.Equal(t, "2025-06-01", points[0].Period)
	assert.True(t, points[0].IsWeekend) // a Sunday
	assert.Equal(t, 0, points[0].Actual)
	assert.Equal(t, "2025-06-02", points[1].Period)
	assert.False(t, points[1].IsWeekend)
	assert.Equal(t, 30, points[1].Actual)
	assert.Greater(t, points[1].Efficiency, 0.0)
}

func TestLinePerformanceUsesFallbackRate(t *testing.T) {
	rows := &fakeRows{rows: map[models.Line][]models.ProductionRow{
		models.LineRC: {{
			Item: "A", Qty: 49, Status: models.StatusConfirmed,
			CreatedAt: time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local),
		}},
	}}
	svc := newTestService(rows, &fakeTargets{rec: &models.TargetRecord{Rates: zeroRates()}},
		&fakeDefects{}, &fakeManpower{})

	lines := svc.LinePerformance(context.Background(), day(2025, 6, 2), day(2025, 6, 2))

	assert.Len(t, lines, 6)
	var rc models.LinePerformance
	for _, l := range lines {
		if l.Process == "R/C" {
			rc = l
		}
	}
	assert.Equal(t, 49, rc.ActualQty)
	assert.Equal(t, 49, rc.TargetQty)
	assert.Equal(t, 100.0, rc.Efficiency)
}

package export

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/preechaw/sewline/internal/domain/models"
	"github.com/preechaw/sewline/internal/repository/sheets"
	"github.com/preechaw/sewline/internal/service/manhour"
	"github.com/preechaw/sewline/internal/service/quality"
	"github.com/preechaw/sewline/internal/service/report"
)

const (
	productionSummaryTab = "Production Summary"
	dailyManHourTab      = "Daily Man-Hours"
	modelAllocationTab   = "Model Allocation"
	qualitySummaryTab    = "Quality Summary"
	crossProcessTab      = "Cross-Process"
	crossModelTab        = "Cross-Model"
	defectBreakdownTab   = "Defect Breakdown"
)

// Service composes production and quality reports into spreadsheet tabs.
type Service struct {
	sheet    sheets.Repository
	engine   *report.Engine
	quality  *quality.Service
	manhours *manhour.Service
	logger   *zap.Logger
}

// New wires the export service.
func New(sheet sheets.Repository, engine *report.Engine, qualitySvc *quality.Service, manhours *manhour.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sheet:    sheet,
		engine:   engine,
		quality:  qualitySvc,
		manhours: manhours,
		logger:   logger,
	}
}

// ExportProduction rebuilds the production tabs for [start, end]: the per-line
// summary with shift man-hours, the per-day man-hour breakdown, and the
// per-model man-hour allocation.
func (s *Service) ExportProduction(ctx context.Context, start, end time.Time) error {
	summary, err := s.engine.Summary(ctx, start, end)
	if err != nil {
		return err
	}

	header := []interface{}{"Line", "Produced Qty", "Unique Models",
		"Man-Hour Morning", "Man-Hour Afternoon", "Man-Hour OT", "Man-Hour Total"}
	rows := [][]interface{}{titleRow("Production Summary", start, end), header}

	for _, line := range models.Lines() {
		data := summary[line]
		shiftHours := s.manhours.ShiftTotals(ctx, line, start, end)
		total := shiftHours[models.ShiftMorning] + shiftHours[models.ShiftAfternoon] + shiftHours[models.ShiftOvertime]

		rows = append(rows, []interface{}{
			line.Display(),
			data.TotalQty,
			data.UniqueItems,
			round2(shiftHours[models.ShiftMorning]),
			round2(shiftHours[models.ShiftAfternoon]),
			round2(shiftHours[models.ShiftOvertime]),
			round2(total),
		})
	}

	if err := s.rewriteTab(ctx, productionSummaryTab, rows); err != nil {
		return err
	}
	if err := s.exportDailyManHours(ctx, start, end); err != nil {
		return err
	}
	return s.exportModelAllocation(ctx, start, end)
}

// exportDailyManHours writes one row per (date, line) with per-shift
// man-hours. Idle rows are skipped.
func (s *Service) exportDailyManHours(ctx context.Context, start, end time.Time) error {
	header := []interface{}{"Date", "Line", "Morning", "Afternoon", "OT", "Total"}
	rows := [][]interface{}{titleRow("Daily Man-Hours", start, end), header}

	for day := dateOnly(start); !day.After(dateOnly(end)); day = day.AddDate(0, 0, 1) {
		for _, line := range models.Lines() {
			shiftHours := s.manhours.ShiftTotals(ctx, line, day, day)
			total := shiftHours[models.ShiftMorning] + shiftHours[models.ShiftAfternoon] + shiftHours[models.ShiftOvertime]
			if total == 0 {
				continue
			}
			rows = append(rows, []interface{}{
				day.Format("2006-01-02"),
				line.Display(),
				round2(shiftHours[models.ShiftMorning]),
				round2(shiftHours[models.ShiftAfternoon]),
				round2(shiftHours[models.ShiftOvertime]),
				round2(total),
			})
		}
	}
	return s.rewriteTab(ctx, dailyManHourTab, rows)
}

// exportModelAllocation distributes each day's per-line man-hours across the
// models produced that day, proportionally to quantity.
func (s *Service) exportModelAllocation(ctx context.Context, start, end time.Time) error {
	header := []interface{}{"Date", "Line", "Model", "Qty", "Allocated Man-Hours"}
	rows := [][]interface{}{titleRow("Model Allocation", start, end), header}

	for day := dateOnly(start); !day.After(dateOnly(end)); day = day.AddDate(0, 0, 1) {
		daySummary, err := s.engine.ModelSummary(ctx, day)
		if err != nil {
			s.logger.Warn("model summary failed for export",
				zap.String("date", day.Format("2006-01-02")), zap.Error(err))
			continue
		}

		for _, line := range models.Lines() {
			qtyByModel := make(map[string]int)
			for _, model := range daySummary.Models {
				if qty := model.Lines[line]; qty > 0 {
					qtyByModel[model.Name] = qty
				}
			}
			if len(qtyByModel) == 0 {
				continue
			}

			shiftHours := s.manhours.ShiftTotals(ctx, line, day, day)
			dayHours := shiftHours[models.ShiftMorning] + shiftHours[models.ShiftAfternoon] + shiftHours[models.ShiftOvertime]
			allocated := manhour.Allocate(dayHours, qtyByModel)

			// preserve first-seen model order from the day summary
			for _, model := range daySummary.Models {
				qty, ok := qtyByModel[model.Name]
				if !ok {
					continue
				}
				rows = append(rows, []interface{}{
					day.Format("2006-01-02"),
					line.Display(),
					model.Name,
					qty,
					round2(allocated[model.Name]),
				})
			}
		}
	}
	return s.rewriteTab(ctx, modelAllocationTab, rows)
}

// ExportQuality rebuilds the quality tabs for [start, end]. Reversed dates
// are swapped rather than rejected.
func (s *Service) ExportQuality(ctx context.Context, start, end time.Time) error {
	if dateOnly(end).Before(dateOnly(start)) {
		start, end = end, start
	}

	lineSummaries, err := s.quality.Summary(ctx, start, end)
	if err != nil {
		return err
	}

	rows := [][]interface{}{
		titleRow("Quality Summary", start, end),
		{"Line", "NG Qty", "Inspected Qty", "NG %"},
	}
	for _, line := range lineSummaries {
		rows = append(rows, []interface{}{
			line.Process, line.NGQty, line.InspectedQty, line.TotalPercent,
		})
	}
	if err := s.rewriteTab(ctx, qualitySummaryTab, rows); err != nil {
		return err
	}

	crossTabs, err := s.quality.CrossTabs(ctx, start, end)
	if err != nil {
		return err
	}
	if err := s.rewriteTab(ctx, crossProcessTab, crossTabRows("Detail\\Process", crossTabs.ByProcess)); err != nil {
		return err
	}
	if err := s.rewriteTab(ctx, crossModelTab, crossTabRows("Detail\\Model", crossTabs.ByModel)); err != nil {
		return err
	}

	breakdown, err := s.quality.Breakdown(ctx, start, end)
	if err != nil {
		return err
	}
	return s.rewriteTab(ctx, defectBreakdownTab, breakdownRows(start, end, breakdown))
}

// crossTabRows flattens a defect matrix into header + one row per detail with
// a trailing total column.
func crossTabRows(corner string, tab models.CrossTab) [][]interface{} {
	header := make([]interface{}, 0, len(tab.Columns)+2)
	header = append(header, corner)
	for _, column := range tab.Columns {
		header = append(header, column)
	}
	header = append(header, "Total")

	rows := [][]interface{}{header}
	columnTotals := make([]int, len(tab.Columns))
	grandTotal := 0

	for _, detail := range tab.Details {
		row := make([]interface{}, 0, len(tab.Columns)+2)
		row = append(row, detail)
		rowTotal := 0
		for i, column := range tab.Columns {
			qty := tab.Data[detail][column]
			row = append(row, qty)
			rowTotal += qty
			columnTotals[i] += qty
		}
		row = append(row, rowTotal)
		grandTotal += rowTotal
		rows = append(rows, row)
	}

	footer := make([]interface{}, 0, len(tab.Columns)+2)
	footer = append(footer, "Total")
	for _, total := range columnTotals {
		footer = append(footer, total)
	}
	footer = append(footer, grandTotal)
	return append(rows, footer)
}

func breakdownRows(start, end time.Time, breakdown *models.DefectBreakdown) [][]interface{} {
	rows := [][]interface{}{titleRow("Defect Breakdown", start, end)}

	sections := []struct {
		label   string
		entries []models.CountEntry
	}{
		{"By Line", breakdown.ByLine},
		{"By Problem", breakdown.ByProblem},
		{"By Model", breakdown.ByModel},
	}
	for _, section := range sections {
		rows = append(rows, []interface{}{section.label})
		for _, entry := range section.entries {
			rows = append(rows, []interface{}{entry.Label, entry.Count})
		}
		rows = append(rows, []interface{}{})
	}

	rows = append(rows, []interface{}{"Timeline"})
	for _, point := range breakdown.Timeline {
		rows = append(rows, []interface{}{point.Date, point.Total, len(point.Processes)})
	}
	return rows
}

func (s *Service) rewriteTab(ctx context.Context, tab string, rows [][]interface{}) error {
	sheetRange := fmt.Sprintf("%s!A:Z", tab)
	if err := s.sheet.Clear(ctx, sheetRange); err != nil {
		return err
	}
	if err := s.sheet.WriteRows(ctx, sheetRange, rows); err != nil {
		return err
	}
	s.logger.Info("tab exported", zap.String("tab", tab), zap.Int("rows", len(rows)))
	return nil
}

func titleRow(title string, start, end time.Time) []interface{} {
	period := start.Format("2006-01-02")
	if !dateOnly(start).Equal(dateOnly(end)) {
		period += " to " + end.Format("2006-01-02")
	}
	return []interface{}{title, period}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

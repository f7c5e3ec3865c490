package quality

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/preechaw/sewline/internal/domain/models"
)

// DefectSource supplies NG rows, per-line inspection rows and the part
// catalog. Not every line has an inspection collection (sub in particular);
// a missing collection means "no data", never an error.
type DefectSource interface {
	FetchDefects(ctx context.Context, start, end time.Time) ([]models.DefectRow, error)
	InspectionSourceExists(ctx context.Context, line models.Line) bool
	FetchInspections(ctx context.Context, line models.Line, start, end time.Time) ([]models.InspectionRow, error)
	ItemCatalog(ctx context.Context) ([]models.CatalogItem, error)
}

// Service computes defect breakdowns and total-based quality ratios.
type Service struct {
	source DefectSource
	logger *zap.Logger
}

// New wires the quality service.
func New(source DefectSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, logger: logger}
}

// TotalPercent is the total-based percentage: a single round(a/b*100, 2)
// ratio over the whole range. Zero denominator yields 0. Keep this distinct
// from the hourly-average percentage in the summary report.
func TotalPercent(numerator, denominator float64) float64 {
	if denominator <= 0 {
		return 0
	}
	return round2(numerator / denominator * 100)
}

// TotalDefects sums NG quantity over the range. Source failures degrade to 0.
func (s *Service) TotalDefects(ctx context.Context, start, end time.Time) int {
	defects, err := s.source.FetchDefects(ctx, start, end)
	if err != nil {
		s.logger.Warn("defect fetch failed", zap.Error(err))
		return 0
	}
	total := 0
	for _, d := range defects {
		total += d.Qty
	}
	return total
}

// Summary rolls NG and inspected quantities up per line with the total-based
// defect percentage. Lines with neither defects nor inspections are omitted;
// the rest are ordered by NG quantity descending.
func (s *Service) Summary(ctx context.Context, start, end time.Time) ([]models.QualityLineSummary, error) {
	defects, err := s.source.FetchDefects(ctx, start, end)
	if err != nil {
		return nil, err
	}

	ngByLine := make(map[models.Line]int)
	for _, d := range defects {
		if line, ok := models.LineFromProcess(strings.ToUpper(strings.TrimSpace(d.Process))); ok {
			ngByLine[line] += d.Qty
		}
	}

	inspectedByLine := make(map[models.Line]int)
	for _, line := range models.Lines() {
		if !s.source.InspectionSourceExists(ctx, line) {
			continue
		}
		rows, err := s.source.FetchInspections(ctx, line, start, end)
		if err != nil {
			s.logger.Warn("inspection fetch failed",
				zap.String("line", string(line)), zap.Error(err))
			continue
		}
		for _, row := range rows {
			inspectedByLine[line] += row.Qty
		}
	}

	var out []models.QualityLineSummary
	for _, line := range models.Lines() {
		ng, inspected := ngByLine[line], inspectedByLine[line]
		if ng == 0 && inspected == 0 {
			continue
		}
		out = append(out, models.QualityLineSummary{
			Line:         line,
			Process:      line.Display(),
			NGQty:        ng,
			InspectedQty: inspected,
			TotalPercent: TotalPercent(float64(ng), float64(inspected)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].NGQty > out[j].NGQty })
	return out, nil
}

// Breakdown groups defect counts by line, problem and model, plus a daily
// timeline starting at the first of start's month.
func (s *Service) Breakdown(ctx context.Context, start, end time.Time) (*models.DefectBreakdown, error) {
	defects, err := s.source.FetchDefects(ctx, start, end)
	if err != nil {
		return nil, err
	}

	catalog := s.itemModels(ctx)

	byLine := make(map[string]int)
	byProblem := make(map[string]int)
	byModel := make(map[string]int)
	for _, d := range defects {
		byLine[d.Process] += d.Qty
		byProblem[d.Detail] += d.Qty
		if model := catalog[d.Part]; model != "" {
			byModel[model] += d.Qty
		}
	}

	monthStart := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
	timelineRows, err := s.source.FetchDefects(ctx, monthStart, end)
	if err != nil {
		s.logger.Warn("timeline fetch failed", zap.Error(err))
		timelineRows = nil
	}

	type dayAgg struct {
		total     int
		processes map[string]struct{}
	}
	byDate := make(map[string]*dayAgg)
	for _, d := range timelineRows {
		key := d.CreatedAt.Format("2006-01-02")
		agg, ok := byDate[key]
		if !ok {
			agg = &dayAgg{processes: make(map[string]struct{})}
			byDate[key] = agg
		}
		agg.total += d.Qty
		agg.processes[d.Process] = struct{}{}
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	out := &models.DefectBreakdown{
		ByLine:    sortedCounts(byLine),
		ByProblem: sortedCounts(byProblem),
		ByModel:   sortedCounts(byModel),
	}
	for _, date := range dates {
		agg := byDate[date]
		processes := make([]string, 0, len(agg.processes))
		for p := range agg.processes {
			processes = append(processes, p)
		}
		sort.Strings(processes)
		out.Timeline = append(out.Timeline, models.TimelinePoint{
			Date:      date,
			Total:     agg.total,
			Processes: processes,
		})
	}
	return out, nil
}

// CrossTabs builds detail×process and detail×model defect matrices. Part
// codes are looked up in the catalog with an AS- prefix fallback; details are
// ordered by total NG descending, processes in fixed line order, models
// alphabetically.
func (s *Service) CrossTabs(ctx context.Context, start, end time.Time) (*models.CrossTabs, error) {
	defects, err := s.source.FetchDefects(ctx, start, end)
	if err != nil {
		return nil, err
	}

	catalog := s.itemModels(ctx)

	out := &models.CrossTabs{
		ByProcess: newCrossTab(),
		ByModel:   newCrossTab(),
	}
	unmatched := make(map[string]struct{})

	for _, d := range defects {
		detail := strings.TrimSpace(d.Detail)
		part := strings.TrimSpace(d.Part)
		process := strings.TrimSpace(d.Process)
		if detail == "" || part == "" || d.Qty <= 0 {
			continue
		}

		lookup := part
		if !strings.HasPrefix(strings.ToUpper(part), "AS-") {
			lookup = "AS-" + part
		}
		model := catalog[lookup]
		if model == "" {
			model = catalog[part]
		}
		if model == "" {
			unmatched[part] = struct{}{}
		}

		out.Valid++
		tabAdd(&out.ByProcess, detail, process, d.Qty)
		if model != "" {
			tabAdd(&out.ByModel, detail, model, d.Qty)
		}
	}

	orderDetailsByTotal(&out.ByProcess)
	out.ByModel.Details = append([]string(nil), out.ByProcess.Details...)

	sort.SliceStable(out.ByProcess.Columns, func(i, j int) bool {
		return processRank(out.ByProcess.Columns[i]) < processRank(out.ByProcess.Columns[j])
	})
	sort.Strings(out.ByModel.Columns)

	out.Unmatched = len(unmatched)
	return out, nil
}

func (s *Service) itemModels(ctx context.Context) map[string]string {
	items, err := s.source.ItemCatalog(ctx)
	if err != nil {
		s.logger.Warn("item catalog unavailable", zap.Error(err))
		return nil
	}
	catalog := make(map[string]string, len(items))
	for _, item := range items {
		if item.Model != "" {
			catalog[item.Item] = item.Model
		}
	}
	return catalog
}

func newCrossTab() models.CrossTab {
	return models.CrossTab{Data: make(map[string]map[string]int)}
}

func tabAdd(tab *models.CrossTab, detail, column string, qty int) {
	if _, ok := tab.Data[detail]; !ok {
		tab.Data[detail] = make(map[string]int)
		tab.Details = append(tab.Details, detail)
	}
	if _, ok := tab.Data[detail][column]; !ok {
		known := false
		for _, c := range tab.Columns {
			if c == column {
				known = true
				break
			}
		}
		if !known {
			tab.Columns = append(tab.Columns, column)
		}
	}
	tab.Data[detail][column] += qty
}

func orderDetailsByTotal(tab *models.CrossTab) {
	sort.SliceStable(tab.Details, func(i, j int) bool {
		return detailTotal(tab, tab.Details[i]) > detailTotal(tab, tab.Details[j])
	})
}

func detailTotal(tab *models.CrossTab, detail string) int {
	total := 0
	for _, qty := range tab.Data[detail] {
		total += qty
	}
	return total
}

func processRank(process string) int {
	for i, line := range models.Lines() {
		if line.Display() == process {
			return i
		}
	}
	return len(models.Lines())
}

func sortedCounts(counts map[string]int) []models.CountEntry {
	out := make([]models.CountEntry, 0, len(counts))
	for label, count := range counts {
		out = append(out, models.CountEntry{Label: label, Count: count})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

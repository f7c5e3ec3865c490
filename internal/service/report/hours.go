package report

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/preechaw/sewline/internal/domain/models"
)

// defaultShiftWindow is the standard day shift, used when no line recorded any
// activity in the requested range (future dates, fully idle plant). Downstream
// target math depends on this exact fallback.
func defaultShiftWindow() []int {
	return []int{8, 9, 10, 11, 12, 13, 14, 15, 16}
}

// WorkingHours returns the sorted distinct hours-of-day with recorded activity
// on any line within [start, end], falling back to the default shift window
// when the union is empty.
func (e *Engine) WorkingHours(ctx context.Context, start, end time.Time) []int {
	return discoverHours(e.collectRows(ctx, start, end))
}

// collectRows fetches production rows for every line over the range. A line
// whose source is missing or failing maps to nil, which downstream aggregation
// renders as a zero-filled series; an empty slice means the source is healthy
// but idle.
func (e *Engine) collectRows(ctx context.Context, start, end time.Time) map[models.Line][]models.ProductionRow {
	out := make(map[models.Line][]models.ProductionRow, len(models.Lines()))
	for _, line := range models.Lines() {
		if !e.rows.SourceExists(ctx, line) {
			e.logger.Warn("production source missing", zap.String("line", string(line)))
			out[line] = nil
			continue
		}
		rows, err := e.rows.FetchProduction(ctx, line, dateOnly(start), dateOnly(end))
		if err != nil {
			e.logger.Warn("production fetch failed",
				zap.String("line", string(line)), zap.Error(err))
			out[line] = nil
			continue
		}
		if rows == nil {
			rows = []models.ProductionRow{}
		}
		out[line] = rows
	}
	return out
}

func discoverHours(rowsByLine map[models.Line][]models.ProductionRow) []int {
	seen := make(map[int]struct{})
	for _, rows := range rowsByLine {
		for _, row := range rows {
			seen[row.CreatedAt.Hour()] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return defaultShiftWindow()
	}

	hours := make([]int, 0, len(seen))
	for hour := range seen {
		hours = append(hours, hour)
	}
	sort.Ints(hours)
	return hours
}

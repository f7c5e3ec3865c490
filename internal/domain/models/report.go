package models

import "time"

// DisplayMode selects how hourly series are rendered.
type DisplayMode string

const (
	DisplayPieces     DisplayMode = "pieces"
	DisplayPercentage DisplayMode = "percentage"
)

// ReportKind selects the report shape.
type ReportKind string

const (
	ReportHourly       ReportKind = "hourly"
	ReportDaily        ReportKind = "daily"
	ReportSummary      ReportKind = "summary"
	ReportModelSummary ReportKind = "model_summary"
)

// HourlyReport maps each line to a per-working-hour series. Labels are
// hour-of-day strings ("08:00"); every line series has the same length as
// Labels, zero-filled where a line has no data.
type HourlyReport struct {
	Labels []string           `json:"labels"`
	Lines  map[Line][]float64 `json:"lines"`
}

// DailyReport maps each line to a per-calendar-day piece series. Labels are
// "dd/mm" date strings covering the requested range inclusive.
type DailyReport struct {
	Labels []string       `json:"labels"`
	Lines  map[Line][]int `json:"lines"`
}

// LineSummary is one line's range-level rollup. Percentage is the average of
// per-hour actual/target ratios over hours with recorded activity; it is not
// the total-based ratio used for quality KPIs and the two must never be
// substituted for one another.
type LineSummary struct {
	TotalQty    int     `json:"total_qty"`
	TotalItems  int     `json:"total_items"`
	UniqueItems int     `json:"unique_items"`
	Percentage  float64 `json:"percentage"`
	Target      int     `json:"target"`
	DailyTarget int     `json:"daily_target"`
}

// SummaryReport maps each line to its range rollup.
type SummaryReport map[Line]LineSummary

// ModelRow is one model's per-line quantity breakdown for a single date.
type ModelRow struct {
	Name  string       `json:"name"`
	Lines map[Line]int `json:"lines"`
	Total int          `json:"total"`
}

// ModelSummary lists per-model quantities across lines for one date.
type ModelSummary struct {
	Models []ModelRow   `json:"models"`
	Totals map[Line]int `json:"totals"`
}

// DailySnapshot is the persisted end-of-day summary written by the scheduler.
type DailySnapshot struct {
	Date      string                 `bson:"date" json:"date"`
	Summary   map[string]LineSummary `bson:"summary" json:"summary"`
	CreatedAt time.Time              `bson:"created_at" json:"created_at"`
}

package models

// CountEntry is a generic labelled defect count.
type CountEntry struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TimelinePoint is one day of the defect timeline.
type TimelinePoint struct {
	Date      string   `json:"date"`
	Total     int      `json:"total"`
	Processes []string `json:"processes"`
}

// DefectBreakdown groups defect counts by line, problem and model for a range.
type DefectBreakdown struct {
	ByLine    []CountEntry    `json:"line_data"`
	ByProblem []CountEntry    `json:"problem_data"`
	ByModel   []CountEntry    `json:"model_data"`
	Timeline  []TimelinePoint `json:"timeline_data"`
}

// CrossTab is a detail-by-column defect matrix. Details are sorted by total
// defect count descending; Data is keyed detail then column.
type CrossTab struct {
	Details []string                  `json:"details"`
	Columns []string                  `json:"columns"`
	Data    map[string]map[string]int `json:"data"`
}

// CrossTabs holds the detail×process and detail×model matrices.
type CrossTabs struct {
	ByProcess CrossTab `json:"process_data"`
	ByModel   CrossTab `json:"model_data"`
	Valid     int      `json:"valid_data"`
	Unmatched int      `json:"unmatched_parts_count"`
}

// QualityLineSummary is one line's total-based quality rollup. TotalPercent is
// round(ng/inspected*100, 2) over the whole range — a single ratio, not an
// average of hourly ratios.
type QualityLineSummary struct {
	Line         Line    `json:"line"`
	Process      string  `json:"process"`
	NGQty        int     `json:"ng_qty"`
	InspectedQty int     `json:"inspected_qty"`
	TotalPercent float64 `json:"total_percent"`
}

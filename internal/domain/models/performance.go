package models

// PerformanceKPIs are the range-level headline indicators. OverallEfficiency,
// QualityRate and DefectRate are total-based ratios (single ratio over the
// whole range), distinct from the hourly-average percentage in LineSummary.
type PerformanceKPIs struct {
	OverallEfficiency float64 `json:"overall_efficiency"`
	QualityRate       float64 `json:"quality_rate"`
	ProductivityRate  float64 `json:"productivity_rate"`
	DefectRate        float64 `json:"defect_rate"`
}

// TrendPoint is one day of the efficiency trend.
type TrendPoint struct {
	Period     string  `json:"period"`
	Efficiency float64 `json:"efficiency"`
	Actual     int     `json:"actual"`
	Target     int     `json:"target"`
	IsWeekend  bool    `json:"is_weekend"`
}

// LinePerformance is one line's actual-vs-target rollup for a range.
type LinePerformance struct {
	Process    string  `json:"process"`
	ActualQty  int     `json:"actual_qty"`
	TargetQty  int     `json:"target_qty"`
	Efficiency float64 `json:"efficiency"`
}

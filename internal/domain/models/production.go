package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// StatusConfirmed marks production rows that count toward model summaries.
const StatusConfirmed = 10

// ProductionRow is one recorded piece-count entry from a line collection.
// Rows are read-only inputs to report computation and are never mutated.
type ProductionRow struct {
	Item      string    `bson:"item" json:"item"`
	Qty       int       `bson:"qty" json:"qty"`
	Status    int       `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// InspectionRow is one QC inspection entry from a per-line qc collection.
type InspectionRow struct {
	Item      string    `bson:"item" json:"item"`
	Qty       int       `bson:"qty" json:"qty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// DefectRow is one NG (defect) entry from the shared qc_ng collection. Process
// holds the display line name ("F/C", "3RD", ...).
type DefectRow struct {
	Process   string    `bson:"process" json:"process"`
	Part      string    `bson:"part" json:"part"`
	Detail    string    `bson:"detail" json:"detail"`
	Lot       string    `bson:"lot" json:"lot"`
	Qty       int       `bson:"qty" json:"qty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// CatalogItem maps a part code to its model and nickname.
type CatalogItem struct {
	Item     string `bson:"item" json:"item"`
	Model    string `bson:"model" json:"model"`
	Nickname string `bson:"nickname" json:"nickname"`
}

// TargetRecord holds the flat hourly piece-rate targets for all lines,
// effective from EffectiveAt onward until superseded.
type TargetRecord struct {
	Rates       map[Line]int `json:"rates"`
	EffectiveAt time.Time    `json:"effective_at"`
}

// ClockTime is a time of day without a date, minute precision.
type ClockTime struct {
	Hour   int `bson:"hour" json:"hour"`
	Minute int `bson:"minute" json:"minute"`
}

// ParseClock parses "HH:MM" or "HH:MM:SS".
func ParseClock(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 {
		return ClockTime{}, fmt.Errorf("invalid clock time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return ClockTime{}, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return ClockTime{}, fmt.Errorf("invalid minute in %q", s)
	}
	return ClockTime{Hour: h, Minute: m}, nil
}

// String renders the clock time as "HH:MM".
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Minutes returns minutes since midnight.
func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

// Before reports whether c is earlier in the day than other.
func (c ClockTime) Before(other ClockTime) bool {
	return c.Minutes() < other.Minutes()
}

// BreakInterval is one scheduled break. Only active intervals participate in
// working-minute computation. Overnight breaks are not modeled: Start < End
// within the same day.
type BreakInterval struct {
	ID              string    `json:"id,omitempty"`
	Name            string    `json:"name"`
	Start           ClockTime `json:"start"`
	End             ClockTime `json:"end"`
	DurationMinutes int       `json:"duration_minutes"`
	Active          bool      `json:"active"`
}

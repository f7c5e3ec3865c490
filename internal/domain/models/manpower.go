package models

import "time"

// Shift identifies the working shift a manpower record or timestamp belongs to.
type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
	ShiftOvertime  Shift = "overtime"
)

// Shifts returns every shift in clock order.
func Shifts() []Shift {
	return []Shift{ShiftMorning, ShiftAfternoon, ShiftOvertime}
}

// Fixed shift boundaries in minutes since midnight. The man-hour allocator
// depends on this table but does not own it.
const (
	morningStartMin   = 8 * 60
	afternoonStartMin = 12*60 + 30
	afternoonEndMin   = 17 * 60
)

// ShiftAt classifies a timestamp by the fixed clock boundaries:
// 08:00–12:30 morning, 12:30–17:00 afternoon, anything else overtime.
func ShiftAt(t time.Time) Shift {
	minutes := t.Hour()*60 + t.Minute()
	switch {
	case minutes >= morningStartMin && minutes < afternoonStartMin:
		return ShiftMorning
	case minutes >= afternoonStartMin && minutes < afternoonEndMin:
		return ShiftAfternoon
	default:
		return ShiftOvertime
	}
}

// ManpowerRow is one headcount entry: how many operators each line had on a
// shift and for how many hours.
type ManpowerRow struct {
	Shift     Shift        `json:"shift"`
	Hours     float64      `json:"hours"`
	Counts    map[Line]int `json:"counts"`
	CreatedAt time.Time    `json:"created_at"`
}

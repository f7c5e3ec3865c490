package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	c, err := ParseClock("12:30")
	require.NoError(t, err)
	assert.Equal(t, ClockTime{Hour: 12, Minute: 30}, c)

	c, err = ParseClock("08:05:00")
	require.NoError(t, err)
	assert.Equal(t, ClockTime{Hour: 8, Minute: 5}, c)

	_, err = ParseClock("25:00")
	assert.Error(t, err)
	_, err = ParseClock("noon")
	assert.Error(t, err)
}

func TestShiftAtBoundaries(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2025, 6, 2, h, m, 0, 0, time.Local)
	}

	assert.Equal(t, ShiftOvertime, ShiftAt(at(7, 59)))
	assert.Equal(t, ShiftMorning, ShiftAt(at(8, 0)))
	assert.Equal(t, ShiftMorning, ShiftAt(at(12, 29)))
	assert.Equal(t, ShiftAfternoon, ShiftAt(at(12, 30)))
	assert.Equal(t, ShiftAfternoon, ShiftAt(at(16, 59)))
	assert.Equal(t, ShiftOvertime, ShiftAt(at(17, 0)))
	assert.Equal(t, ShiftOvertime, ShiftAt(at(22, 0)))
}

func TestLineFromProcess(t *testing.T) {
	line, ok := LineFromProcess("3RD")
	require.True(t, ok)
	assert.Equal(t, LineThird, line)

	line, ok = LineFromProcess("F/C")
	require.True(t, ok)
	assert.Equal(t, LineFC, line)

	_, ok = LineFromProcess("PACKING")
	assert.False(t, ok)
}

func TestLinesOrderMatchesDisplay(t *testing.T) {
	expected := []string{"F/C", "F/B", "R/C", "R/B", "3RD", "SUB"}
	for i, line := range Lines() {
		assert.Equal(t, expected[i], line.Display())
	}
}

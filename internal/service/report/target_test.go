package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/preechaw/sewline/internal/domain/models"
)

type fakeTargetSource struct {
	onDate *models.TargetRecord
	before *models.TargetRecord
	err    error
}

func (f *fakeTargetSource) TargetOn(ctx context.Context, date time.Time) (*models.TargetRecord, error) {
	return f.onDate, f.err
}

func (f *fakeTargetSource) LatestTargetBefore(ctx context.Context, date time.Time) (*models.TargetRecord, error) {
	return f.before, f.err
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestResolveAllPrefersSameDayRecord(t *testing.T) {
	source := &fakeTargetSource{
		onDate: &models.TargetRecord{Rates: map[models.Line]int{models.LineFC: 20}},
		before: &models.TargetRecord{Rates: map[models.Line]int{models.LineFC: 99}},
	}
	rates := NewResolver(source, nil).ResolveAll(context.Background(), day(2025, 6, 2))

	assert.Equal(t, 20, rates[models.LineFC])
	assert.Equal(t, DefaultHourlyRate, rates[models.LineSub])
}

func TestResolveAllFallsBackToPriorRecord(t *testing.T) {
	source := &fakeTargetSource{
		before: &models.TargetRecord{Rates: map[models.Line]int{models.LineRB: 15}},
	}
	rates := NewResolver(source, nil).ResolveAll(context.Background(), day(2025, 6, 2))

	assert.Equal(t, 15, rates[models.LineRB])
}

func TestResolveAllDefaultsWhenNoRecords(t *testing.T) {
	rates := NewResolver(&fakeTargetSource{}, nil).ResolveAll(context.Background(), day(2025, 6, 2))

	for _, line := range models.Lines() {
		assert.Equal(t, DefaultHourlyRate, rates[line])
	}
}

func TestResolveAllDefaultsOnSourceError(t *testing.T) {
	source := &fakeTargetSource{err: errors.New("connection reset")}
	rates := NewResolver(source, nil).ResolveAll(context.Background(), day(2025, 6, 2))

	for _, line := range models.Lines() {
		assert.Equal(t, DefaultHourlyRate, rates[line])
	}
}

func TestHourTargetScalesByNetMinutes(t *testing.T) {
	assert.Equal(t, 10, HourTarget(10, 60))
	// 10 pieces/h over 40 net minutes: 6.67 rounds to 7
	assert.Equal(t, 7, HourTarget(10, 40))
	assert.Equal(t, 0, HourTarget(10, 0))
	assert.Equal(t, 0, HourTarget(0, 60))
}

func TestReferenceDailyTargetRoundsOnceOnTotal(t *testing.T) {
	// full 8–17 window, no breaks: 10 hours
	assert.Equal(t, 100, referenceDailyTarget(10, nil))

	// a 20-minute lunch removes 20 minutes from the window total:
	// 10 * 580 / 60 = 96.67 → 97, not sum of per-hour rounding
	breaks := []models.BreakInterval{interval(12, 0, 12, 20, true)}
	assert.Equal(t, 97, referenceDailyTarget(10, breaks))
}

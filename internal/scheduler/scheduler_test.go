package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preechaw/sewline/internal/config"
	"github.com/preechaw/sewline/internal/domain/models"
	"github.com/preechaw/sewline/internal/service/report"
)

type stubRows struct{}

func (stubRows) SourceExists(ctx context.Context, line models.Line) bool {
	return true
}

func (stubRows) FetchProduction(ctx context.Context, line models.Line, start, end time.Time) ([]models.ProductionRow, error) {
	return []models.ProductionRow{}, nil
}

type stubBreaks struct{}

func (stubBreaks) ActiveBreaks(ctx context.Context) ([]models.BreakInterval, error) {
	return nil, nil
}

type stubTargets struct{}

func (stubTargets) TargetOn(ctx context.Context, date time.Time) (*models.TargetRecord, error) {
	return nil, nil
}

func (stubTargets) LatestTargetBefore(ctx context.Context, date time.Time) (*models.TargetRecord, error) {
	return nil, nil
}

type captureStore struct {
	saved []models.DailySnapshot
}

func (c *captureStore) SaveDailySnapshot(ctx context.Context, snapshot models.DailySnapshot) error {
	c.saved = append(c.saved, snapshot)
	return nil
}

func newTestScheduler(timezone string, store SnapshotStore) *Scheduler {
	engine := report.NewEngine(stubRows{}, stubBreaks{}, stubTargets{}, nil)
	cfg := config.ReportingConfig{CronSchedule: "30 17 * * *", Timezone: timezone}
	return NewScheduler(cfg, engine, store, nil)
}

func TestSaveSnapshotStampsConfiguredTimezoneDay(t *testing.T) {
	store := &captureStore{}
	s := newTestScheduler("Asia/Bangkok", store)

	location, err := time.LoadLocation("Asia/Bangkok")
	require.NoError(t, err)

	before := time.Now().In(location).Format("2006-01-02")
	s.saveSnapshot()
	after := time.Now().In(location).Format("2006-01-02")

	require.Len(t, store.saved, 1)
	assert.Contains(t, []string{before, after}, store.saved[0].Date)
	assert.Len(t, store.saved[0].Summary, len(models.Lines()))
}

func TestUnknownTimezoneFallsBackToLocal(t *testing.T) {
	s := newTestScheduler("Mars/Olympus", &captureStore{})

	assert.Equal(t, time.Local, s.location)
}

package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/preechaw/sewline/internal/config"
	"github.com/preechaw/sewline/internal/domain/models"
	"github.com/preechaw/sewline/internal/service/report"
)

// SnapshotStore persists end-of-day summary snapshots.
type SnapshotStore interface {
	SaveDailySnapshot(ctx context.Context, snapshot models.DailySnapshot) error
}

// Scheduler runs the nightly production snapshot job.
type Scheduler struct {
	cron     *cron.Cron
	engine   *report.Engine
	store    SnapshotStore
	cfg      config.ReportingConfig
	location *time.Location
	logger   *zap.Logger
}

// NewScheduler creates a scheduler in the configured timezone. An unknown
// timezone falls back to the server's local time.
func NewScheduler(cfg config.ReportingConfig, engine *report.Engine, store SnapshotStore, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, using local",
			zap.String("timezone", cfg.Timezone), zap.Error(err))
		location = time.Local
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(location)),
		engine:   engine,
		store:    store,
		cfg:      cfg,
		location: location,
		logger:   logger,
	}
}

// Start registers the snapshot job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.saveSnapshot); err != nil {
		s.logger.Error("failed to schedule daily snapshot", zap.Error(err))
		return
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) saveSnapshot() {
	s.logger.Info("saving daily snapshot")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// the plant day, not the server-local day
	now := time.Now().In(s.location)
	summary, err := s.engine.Summary(ctx, now, now)
	if err != nil {
		s.logger.Error("failed to build daily snapshot", zap.Error(err))
		return
	}

	snapshot := models.DailySnapshot{
		Date:      now.Format("2006-01-02"),
		Summary:   make(map[string]models.LineSummary, len(summary)),
		CreatedAt: now,
	}
	for line, data := range summary {
		snapshot.Summary[string(line)] = data
	}

	if err := s.store.SaveDailySnapshot(ctx, snapshot); err != nil {
		s.logger.Error("failed to save daily snapshot", zap.Error(err))
		return
	}
	s.logger.Info("daily snapshot saved", zap.String("date", snapshot.Date))
}

package report

import (
	"context"
	"time"

	"github.com/preechaw/sewline/internal/domain/models"
)

// RowSource supplies raw production rows per line. Implementations live in the
// repository layer; the engine only reads.
type RowSource interface {
	// SourceExists reports whether the line's backing collection is present.
	// Missing collections are zero-filled in reports rather than treated as
	// errors.
	SourceExists(ctx context.Context, line models.Line) bool
	FetchProduction(ctx context.Context, line models.Line, start, end time.Time) ([]models.ProductionRow, error)
}

// BreakSource supplies the currently active break schedule.
type BreakSource interface {
	ActiveBreaks(ctx context.Context) ([]models.BreakInterval, error)
}

// TargetSource supplies raw hourly-rate target records. Lookup-order policy
// (same day, then most recent prior, then default) belongs to the Resolver,
// not the source.
type TargetSource interface {
	// TargetOn returns the most recently created record effective exactly on
	// the given date, or nil when none exists.
	TargetOn(ctx context.Context, date time.Time) (*models.TargetRecord, error)
	// LatestTargetBefore returns the most recent record effective on or before
	// the given date, or nil when none exists.
	LatestTargetBefore(ctx context.Context, date time.Time) (*models.TargetRecord, error)
}

package scheduler

import (
	"context"
	"time"

	"github.com/quantlab/factorlens/internal/engine"
	"github.com/quantlab/factorlens/pkg/logger"
)

// Refresher recomputes the configured analysis over a date range.
type Refresher interface {
	Refresh(ctx context.Context, from, to time.Time) (*engine.RunResult, error)
}

// RefreshJob re-runs the analysis over a trailing window, keeping the stored
// tear sheet and its cache current after each close.
type RefreshJob struct {
	refresher Refresher
	schedule  string
	lookback  int // days of history to analyze
	logger    *logger.Logger
}

// NewRefreshJob creates a refresh job. lookback <= 0 defaults to one year.
func NewRefreshJob(refresher Refresher, schedule string, lookback int, log *logger.Logger) *RefreshJob {
	if lookback <= 0 {
		lookback = 365
	}
	return &RefreshJob{
		refresher: refresher,
		schedule:  schedule,
		lookback:  lookback,
		logger:    log,
	}
}

// Name implements Job.
func (j *RefreshJob) Name() string { return "analysis-refresh" }

// Schedule implements Job.
func (j *RefreshJob) Schedule() string { return j.schedule }

// Run implements Job.
func (j *RefreshJob) Run(ctx context.Context) error {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -j.lookback)

	result, err := j.refresher.Refresh(ctx, from, to)
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":  result.ID.String(),
		"dropped": result.Diagnostics.DroppedNoForward,
		"skipped": result.Diagnostics.SkippedDates,
	}).Info("Scheduled analysis refresh completed")
	return nil
}

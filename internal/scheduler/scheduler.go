package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/quantlab/factorlens/pkg/logger"
)

// Job is a unit of scheduled work.
type Job interface {
	// Name returns the job name for logging.
	Name() string

	// Run executes the job.
	Run(ctx context.Context) error

	// Schedule returns the cron expression, e.g. "0 18 * * 1-5" or "@daily".
	Schedule() string
}

// Scheduler runs jobs on cron schedules. The serve command uses it to
// refresh the analysis after each close without an operator in the loop.
type Scheduler struct {
	cron   *cron.Cron
	logger *logger.Logger
}

// New creates a scheduler.
func New(log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: log,
	}
}

// AddJob registers a job with its own schedule.
func (s *Scheduler) AddJob(job Job) error {
	_, err := s.cron.AddFunc(job.Schedule(), func() {
		s.runJob(job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", job.Name(), err)
	}

	s.logger.WithFields(map[string]interface{}{
		"job":      job.Name(),
		"schedule": job.Schedule(),
	}).Info("Job scheduled")
	return nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) runJob(job Job) {
	start := time.Now()
	log := s.logger.WithField("job", job.Name())
	log.Info("Job starting")

	if err := job.Run(context.Background()); err != nil {
		log.WithError(err).Error("Job failed")
		return
	}

	log.WithField("duration", time.Since(start)).Info("Job completed")
}

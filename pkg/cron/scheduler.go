// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewScheduler creates a new job scheduler.
func NewScheduler(logger *slog.Logger) *Scheduler {
	// Standard 5-field cron format, no seconds
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:   c,
		logger: logger,
	}
}

// AddJob registers a named job on a cron schedule.
func (s *Scheduler) AddJob(spec, name string, job func()) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.logger.Info("cron job starting", slog.String("job", name))
		job()
		s.logger.Info("cron job finished", slog.String("job", name))
	})
	if err != nil {
		return err
	}
	s.logger.Info("cron job registered",
		slog.String("job", name),
		slog.String("spec", spec),
	)
	return nil
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.Int("jobs", len(s.cron.Entries())),
	)
}

// Stop gracefully stops all scheduled jobs and returns a context that is
// done once running jobs have completed.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

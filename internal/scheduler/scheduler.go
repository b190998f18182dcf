// Package scheduler runs housekeeping jobs for the prediction service.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/kartoza/profit-predictor/internal/history"
)

// Scheduler owns the cron runner
type Scheduler struct {
	cron      *cron.Cron
	recorder  history.Recorder
	retention time.Duration
	log       *zap.Logger
	now       func() time.Time
}

// New creates a scheduler that prunes history older than retention
func New(recorder history.Recorder, retention time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		recorder:  recorder,
		retention: retention,
		log:       logger,
		now:       time.Now,
	}
}

// Register adds the prune job on spec (six-field cron, seconds first)
func (s *Scheduler) Register(ctx context.Context, spec string) error {
	if s.retention <= 0 {
		s.log.Info("history retention disabled, prune job not registered")
		return nil
	}
	if _, err := s.cron.AddFunc(spec, func() { s.PruneNow(ctx) }); err != nil {
		return fmt.Errorf("register prune task: %w", err)
	}
	return nil
}

// PruneNow deletes history older than the retention window
func (s *Scheduler) PruneNow(ctx context.Context) int64 {
	cutoff := s.now().Add(-s.retention)
	n, err := s.recorder.Prune(ctx, cutoff)
	if err != nil {
		s.log.Warn("history prune failed", zap.Error(err))
		return 0
	}
	s.log.Info("history pruned", zap.Int64("removed", n), zap.Time("cutoff", cutoff))
	return n
}

// Start begins running jobs in the background
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the runner and waits for running jobs
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

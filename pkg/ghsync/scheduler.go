package ghsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// SyncFunc runs one sync cycle.
type SyncFunc func(ctx context.Context) error

// Scheduler runs a sync function on a cron schedule. Overlapping runs are
// skipped.
type Scheduler struct {
	cronExpr string
	syncFn   SyncFunc
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewScheduler(logger *slog.Logger, cronExpr string, syncFn SyncFunc) (*Scheduler, error) {
	if cronExpr == "" {
		return nil, errors.New("sync schedule cron expression is required")
	}

	if _, err := cron.ParseStandard(cronExpr); err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}

	return &Scheduler{
		cronExpr: cronExpr,
		syncFn:   syncFn,
		logger:   logger.With("module", "sync_scheduler", "cron", cronExpr),
	}, nil
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Starting sync scheduler")

	s.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	_, err := s.cron.AddFunc(s.cronExpr, func() {
		if err := s.syncFn(context.Background()); err != nil {
			s.logger.Error("Scheduled sync failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add sync cron job: %w", err)
	}

	s.cron.Start()

	return nil
}

func (s *Scheduler) Stop(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Stopping sync scheduler")

	if s.cron != nil {
		s.cron.Stop()
	}

	return nil
}

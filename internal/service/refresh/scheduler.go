package refresh

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher is anything with a refreshable snapshot. Satisfied by
// market.Catalog.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler runs catalog refreshes on a cron schedule. A failed refresh is
// logged and retried at the next tick; the serving generation is untouched.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	schedule  string
	timeout   time.Duration
	logger    *zap.Logger
}

func NewScheduler(refresher Refresher, schedule string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		refresher: refresher,
		schedule:  schedule,
		timeout:   2 * time.Minute,
		logger:    logger,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runRefresh); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Refresh scheduler started", zap.String("schedule", s.schedule))
	return nil
}

func (s *Scheduler) runRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.refresher.Refresh(ctx); err != nil {
		s.logger.Error("Scheduled refresh failed, previous data still serving",
			zap.Error(err),
			zap.Duration("elapsed", time.Since(start)),
		)
		return
	}

	s.logger.Info("Scheduled refresh completed",
		zap.Duration("elapsed", time.Since(start)),
	)
}

// Stop halts the schedule and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("Refresh scheduler stopped")
}

package refresh

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (c *countingRefresher) Refresh(_ context.Context) error {
	c.calls.Add(1)
	return c.err
}

// Cron schedules have one-second granularity; sub-second intervals round up.
// Tests use @every 1s with deadlines wide enough for the ticks they await.

func TestSchedulerRunsRefresh(t *testing.T) {
	refresher := &countingRefresher{}
	scheduler := NewScheduler(refresher, "@every 1s", zap.NewNop())

	if err := scheduler.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer scheduler.Stop()

	deadline := time.After(3 * time.Second)
	for refresher.calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("refresh never ran")
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func TestSchedulerRejectsBadSchedule(t *testing.T) {
	scheduler := NewScheduler(&countingRefresher{}, "not a schedule", zap.NewNop())
	if err := scheduler.Start(); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestSchedulerSurvivesRefreshErrors(t *testing.T) {
	refresher := &countingRefresher{err: fmt.Errorf("provider down")}
	scheduler := NewScheduler(refresher, "@every 1s", zap.NewNop())

	if err := scheduler.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer scheduler.Stop()

	deadline := time.After(4 * time.Second)
	for refresher.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("scheduler stopped retrying after a failure")
		case <-time.After(50 * time.Millisecond):
		}
	}
}

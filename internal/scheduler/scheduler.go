// Package scheduler runs the recurring price back-fill.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// refreshTimeout bounds a single scheduled refresh run.
const refreshTimeout = 10 * time.Minute

// PriceRefresher back-fills stored closes for every held symbol.
type PriceRefresher interface {
	RefreshSymbols(ctx context.Context) (int, error)
}

// Scheduler wraps a cron runner evaluated in UTC.
type Scheduler struct {
	cron *cron.Cron
}

// New creates a Scheduler that calls refresher on schedule, a standard five-field cron expression.
// Overlapping runs are skipped.
func New(schedule string, refresher PriceRefresher) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := c.AddFunc(schedule, func() { RunRefresh(context.Background(), refresher) }); err != nil {
		return nil, fmt.Errorf("invalid price refresh schedule %q: %w", schedule, err)
	}
	return &Scheduler{cron: c}, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling new runs and waits, until ctx is done, for a running one to finish.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		slog.Warn("price refresh still running at shutdown")
	}
}

// Next returns when the refresh runs next. The zero time means never.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// RunRefresh performs one refresh and logs the outcome. Errors are logged, not returned.
func RunRefresh(ctx context.Context, refresher PriceRefresher) {
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	start := time.Now()
	refreshed, err := refresher.RefreshSymbols(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "scheduled price refresh failed",
			"refreshed", refreshed,
			"duration", time.Since(start),
			"error", err,
		)
		return
	}
	slog.InfoContext(ctx, "scheduled price refresh completed",
		"refreshed", refreshed,
		"duration", time.Since(start),
	)
}

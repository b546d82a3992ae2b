// Package retention purges cars that outlived the configured maximum age.
package retention

import (
	"context"
	"log/slog"
	"time"
)

const (
	// DefaultMaxAge is how long a car is kept before the sweep removes it.
	DefaultMaxAge = 24 * time.Hour
	// DefaultInterval is the time between two sweeps.
	DefaultInterval = 24 * time.Hour
)

// Purger deletes every car created before cutoff and reports how many were removed.
type Purger interface {
	SweepOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// Sweeper periodically removes old cars.
type Sweeper struct {
	purger   Purger
	maxAge   time.Duration
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewSweeper creates a Sweeper. Non-positive durations fall back to
// DefaultMaxAge and DefaultInterval.
func NewSweeper(purger Purger, maxAge, interval time.Duration, logger *slog.Logger) *Sweeper {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		purger:   purger,
		maxAge:   maxAge,
		interval: interval,
		now:      time.Now,
		logger:   logger,
	}
}

// RunOnce deletes every car older than the maximum age.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.maxAge)
	s.logger.Info("retention sweep started", "cutoff", cutoff.Format(time.RFC3339))

	n, err := s.purger.SweepOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("retention sweep failed", "deleted", n, "error", err)
		return n, err
	}
	s.logger.Info("retention sweep finished", "deleted", n)
	return n, nil
}

// Run sweeps immediately and then once per interval until ctx is cancelled.
// Failed sweeps are logged and retried at the next tick.
func (s *Sweeper) Run(ctx context.Context) error {
	_, _ = s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_, _ = s.RunOnce(ctx)
		}
	}
}

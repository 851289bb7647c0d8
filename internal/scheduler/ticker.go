// Package scheduler runs a job on wall-clock aligned ticks until cancelled.
package scheduler

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Job is invoked once per tick with the tick time.
type Job func(ctx context.Context, tick time.Time) error

type Scheduler struct {
	interval time.Duration
	job      Job
	logger   *slog.Logger

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
}

func New(interval time.Duration, job Job, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if interval < time.Minute {
		interval = time.Minute
	}
	return &Scheduler{
		interval: interval,
		job:      job,
		logger:   logger,
		now:      time.Now,
		after:    time.After,
	}
}

// Run calls the job immediately, then on every aligned tick. A failing job
// is logged and does not stop the loop. Run returns when ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.fire(ctx, s.now())

	for {
		if ctx.Err() != nil {
			return nil
		}
		next := s.nextAlignedTick(s.now())
		s.logger.Info("next run scheduled", "at", next.Format("15:04"))

		select {
		case <-ctx.Done():
			return nil
		case <-s.after(next.Sub(s.now())):
		}

		s.fire(ctx, next)
	}
}

func (s *Scheduler) fire(ctx context.Context, tick time.Time) {
	start := s.now()
	if err := s.job(ctx, tick); err != nil {
		s.logger.Error("scheduled run failed", "tick", tick.Format(time.RFC3339), "error", err)
		return
	}
	s.logger.Debug("scheduled run done", "tick", tick.Format(time.RFC3339), "elapsed", s.now().Sub(start))
}

// nextAlignedTick returns the next multiple of the interval counted from
// midnight, strictly after now.
func (s *Scheduler) nextAlignedTick(now time.Time) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	elapsed := now.Sub(midnight)
	steps := elapsed/s.interval + 1
	return midnight.Add(steps * s.interval)
}

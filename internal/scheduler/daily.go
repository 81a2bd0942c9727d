// Package scheduler triggers the daily reset at each local midnight.
//
// The reset itself does not remember whether it already ran; the Locker
// makes sure only one instance runs it per calendar day.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"habitrpg/internal/application/usecase"
	"habitrpg/internal/clock"

	"github.com/charmbracelet/log"
)

type Resetter interface {
	RunDailyReset(ctx context.Context, today time.Time) (usecase.ResetReport, error)
}

// Locker grants the right to run the reset for one day. A claim whose reset
// failed is released so the day can be retried.
type Locker interface {
	Acquire(ctx context.Context, day time.Time) (bool, error)
	Release(ctx context.Context, day time.Time) error
}

const (
	defaultRetryBase = 30 * time.Second
	defaultRetryMax  = 10 * time.Minute
	releaseTimeout   = 5 * time.Second
)

type Daily struct {
	reset  Resetter
	lock   Locker
	loc    *time.Location
	logger *log.Logger
	now    func() time.Time

	retryBase time.Duration
	retryMax  time.Duration
}

// NewDaily builds the trigger. lock may be nil when a single instance runs.
func NewDaily(reset Resetter, lock Locker, loc *time.Location, logger *log.Logger) *Daily {
	if loc == nil {
		loc = time.UTC
	}
	return &Daily{
		reset:     reset,
		lock:      lock,
		loc:       loc,
		logger:    logger,
		now:       time.Now,
		retryBase: defaultRetryBase,
		retryMax:  defaultRetryMax,
	}
}

// NextMidnight is the first midnight in loc strictly after now.
func NextMidnight(now time.Time, loc *time.Location) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, loc)
}

// Tick runs the reset for day unless another instance already claimed it.
func (d *Daily) Tick(ctx context.Context, day time.Time) (bool, error) {
	if d.lock != nil {
		ok, err := d.lock.Acquire(ctx, day)
		if err != nil {
			return false, fmt.Errorf("acquire reset lock: %w", err)
		}
		if !ok {
			d.logger.Info("daily reset already claimed", "day", day.Format(time.DateOnly))
			return false, nil
		}
	}

	if _, err := d.reset.RunDailyReset(ctx, day); err != nil {
		if d.lock != nil {
			// Release even when ctx is already cancelled.
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
			if rerr := d.lock.Release(rctx, day); rerr != nil {
				d.logger.Error("release reset lock", "day", day.Format(time.DateOnly), "err", rerr)
			}
			cancel()
		}
		return true, err
	}
	return true, nil
}

// Run blocks until ctx is done, resetting once after every local midnight.
func (d *Daily) Run(ctx context.Context) error {
	for {
		next := NextMidnight(d.now(), d.loc)
		timer := time.NewTimer(next.Sub(d.now()))
		d.logger.Debug("next daily reset scheduled", "at", next)

		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			d.runDay(ctx, next)
		}
	}
}

// runDay ticks for the day starting at midnight until the reset succeeds,
// ctx is done or the following midnight comes close.
func (d *Daily) runDay(ctx context.Context, midnight time.Time) {
	day := clock.Day(midnight)
	deadline := NextMidnight(midnight, d.loc)
	backoff := d.retryBase

	for {
		_, err := d.Tick(ctx, day)
		if err == nil || ctx.Err() != nil {
			return
		}
		if deadline.Sub(d.now()) <= backoff {
			d.logger.Error("daily reset failed, giving up for the day", "day", day.Format(time.DateOnly), "err", err)
			return
		}
		d.logger.Error("daily reset failed", "day", day.Format(time.DateOnly), "retry_in", backoff, "err", err)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		backoff = min(2*backoff, d.retryMax)
	}
}

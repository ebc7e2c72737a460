// Package scheduler drives the per-symbol evaluation loops. Each Loop owns
// exactly one timer, wakes shortly after every candle close, and stops when
// its context is cancelled.
package scheduler

import (
	"context"
	"time"

	"mako/internal/logger"
)

// Loop fires a task aligned to candle-close boundaries of Interval, Offset
// after the close so the venue has published the closed candle.
type Loop struct {
	Name           string
	Interval       time.Duration
	Offset         time.Duration
	RunImmediately bool

	nowFn func() time.Time
}

func NewLoop(name string, interval, offset time.Duration) *Loop {
	if offset < 0 {
		offset = 0
	}
	return &Loop{
		Name:     name,
		Interval: interval,
		Offset:   offset,
		nowFn:    time.Now,
	}
}

// Run blocks, invoking task once per interval tick, until ctx is done.
// task receives the loop context so in-flight exchange calls abort on
// shutdown.
func (l *Loop) Run(ctx context.Context, task func(context.Context)) {
	if l == nil || task == nil {
		return
	}
	if l.Interval <= 0 {
		logger.Warnf("scheduler %s: invalid interval=%s, loop not started", l.Name, l.Interval)
		return
	}
	if l.nowFn == nil {
		l.nowFn = time.Now
	}

	logger.Infof("scheduler %s: started interval=%s offset=%s", l.Name, l.Interval, l.Offset)
	if l.RunImmediately {
		task(ctx)
	}

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		wait := l.untilNextWake(l.nowFn())
		timer.Reset(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Infof("scheduler %s: stopped", l.Name)
			return
		case <-timer.C:
		}
		task(ctx)
	}
}

// untilNextWake returns the duration until the next candle close plus
// offset. Always positive so a slow task cannot cause a hot loop.
func (l *Loop) untilNextWake(now time.Time) time.Duration {
	now = now.UTC()
	nextClose := now.Truncate(l.Interval).Add(l.Interval)
	wait := nextClose.Add(l.Offset).Sub(now)
	if wait <= 0 {
		wait = l.Interval
	}
	return wait
}

package scheduler

import (
	"sync"
	"time"
)

const maxSleepCap = 60 * time.Second

// wallTicker fires every interval measured on the wall clock. Ticks missed
// while the receiver was busy or the machine was asleep are coalesced into
// one.
type wallTicker struct {
	c    chan time.Time
	stop chan struct{}
	once sync.Once
}

func newWallTicker(interval time.Duration, clock func() time.Time) *wallTicker {
	t := &wallTicker{
		c:    make(chan time.Time, 1),
		stop: make(chan struct{}),
	}
	go t.run(interval, clock)
	return t
}

func (t *wallTicker) C() <-chan time.Time {
	return t.c
}

func (t *wallTicker) Stop() {
	t.once.Do(func() { close(t.stop) })
}

func (t *wallTicker) run(interval time.Duration, clock func() time.Time) {
	wall := func() time.Time { return clock().Round(0) }
	next := wall().Add(interval)
	timer := time.NewTimer(sleepFor(next, wall()))
	defer timer.Stop()
	for {
		select {
		case <-t.stop:
			return
		case <-timer.C:
			now := wall()
			if !now.Before(next) {
				select {
				case t.c <- now:
				default:
				}
				next = next.Add(interval)
				if !next.After(now) {
					next = now.Add(interval)
				}
			}
			timer.Reset(sleepFor(next, wall()))
		}
	}
}

func sleepFor(next, now time.Time) time.Duration {
	d := next.Sub(now)
	if d > maxSleepCap {
		d = maxSleepCap
	}
	if d < 0 {
		d = 0
	}
	return d
}

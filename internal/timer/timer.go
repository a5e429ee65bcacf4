// Package timer tracks the elapsed time of a quiz run.
package timer

import (
	"time"

	"github.com/playperu/geoquiz/internal/clock"
)

// DefaultTick is the cadence of live elapsed-time reports.
const DefaultTick = 100 * time.Millisecond

// Timer measures elapsed seconds between Start and Stop and reports the
// running value every tick. It is not safe for concurrent use; callers drive
// it from a single event loop.
type Timer struct {
	clock  clock.Clock
	tick   time.Duration
	onTick func(seconds float64)

	running bool
	start   time.Time
	ticker  clock.Task
}

// New returns a stopped timer. onTick may be nil.
func New(c clock.Clock, tick time.Duration, onTick func(seconds float64)) *Timer {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Timer{clock: c, tick: tick, onTick: onTick}
}

// Start records the start instant and begins ticking. A running timer is
// restarted; its previous tick is cancelled rather than stacked.
func (t *Timer) Start() {
	t.cancelTick()
	t.running = true
	t.start = t.clock.Now()
	t.schedule()
}

// Stop halts the timer and returns the elapsed seconds. ok is false when the
// timer was not running.
func (t *Timer) Stop() (seconds float64, ok bool) {
	if !t.running {
		return 0, false
	}
	t.cancelTick()
	t.running = false
	return t.clock.Now().Sub(t.start).Seconds(), true
}

func (t *Timer) Running() bool { return t.running }

// Elapsed returns the seconds since Start, or 0 when stopped.
func (t *Timer) Elapsed() float64 {
	if !t.running {
		return 0
	}
	return t.clock.Now().Sub(t.start).Seconds()
}

func (t *Timer) schedule() {
	var task clock.Task
	task = t.clock.AfterFunc(t.tick, func() {
		// A tick that belongs to a replaced schedule is dropped.
		if !t.running || t.ticker != task {
			return
		}
		if t.onTick != nil {
			t.onTick(t.Elapsed())
		}
		t.schedule()
	})
	t.ticker = task
}

func (t *Timer) cancelTick() {
	if t.ticker != nil {
		t.ticker.Stop()
		t.ticker = nil
	}
}

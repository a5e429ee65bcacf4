package timer

import (
	"math"
	"testing"
	"time"

	"github.com/playperu/geoquiz/internal/clock"
)

func TestStopWhenNotStarted(t *testing.T) {
	tm := New(clock.NewFake(time.Unix(0, 0)), DefaultTick, nil)

	secs, ok := tm.Stop()
	if ok {
		t.Error("expected Stop() ok false, got true")
	}
	if secs != 0 {
		t.Errorf("expected Stop() seconds 0, got %v", secs)
	}
	if _, ok := tm.Stop(); ok {
		t.Error("expected second Stop() ok false, got true")
	}
}

func TestStartStopElapsed(t *testing.T) {
	c := clock.NewFake(time.Unix(100, 0))
	var ticks []float64
	tm := New(c, 100*time.Millisecond, func(s float64) { ticks = append(ticks, s) })

	tm.Start()
	if !tm.Running() {
		t.Fatal("expected timer to be running")
	}
	c.Advance(2500 * time.Millisecond)

	secs, ok := tm.Stop()
	if !ok {
		t.Fatal("expected Stop() ok true, got false")
	}
	if math.Abs(secs-2.5) > 1e-9 {
		t.Errorf("expected elapsed 2.5, got %v", secs)
	}
	if len(ticks) != 25 {
		t.Errorf("expected ticks 25, got %d", len(ticks))
	}
	if math.Abs(ticks[0]-0.1) > 1e-9 {
		t.Errorf("expected first tick 0.1, got %v", ticks[0])
	}
	if c.Pending() != 0 {
		t.Errorf("expected pending tasks after Stop 0, got %d", c.Pending())
	}

	c.Advance(time.Second)
	if len(ticks) != 25 {
		t.Errorf("expected ticks after stop 25, got %d", len(ticks))
	}
}

func TestRestartDoesNotStackTicks(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	ticks := 0
	tm := New(c, 100*time.Millisecond, func(float64) { ticks++ })

	tm.Start()
	c.Advance(50 * time.Millisecond)
	tm.Start()
	tm.Start()

	if c.Pending() != 1 {
		t.Fatalf("expected pending tasks 1, got %d", c.Pending())
	}
	c.Advance(time.Second)
	if ticks != 10 {
		t.Errorf("expected ticks 10, got %d", ticks)
	}

	secs, _ := tm.Stop()
	if math.Abs(secs-1.0) > 1e-9 {
		t.Errorf("expected elapsed 1.0 (measured from the last Start), got %v", secs)
	}
}

func TestNonPositiveTickFallsBack(t *testing.T) {
	tm := New(clock.NewFake(time.Unix(0, 0)), 0, nil)
	if tm.tick != DefaultTick {
		t.Errorf("expected tick %v, got %v", DefaultTick, tm.tick)
	}
}

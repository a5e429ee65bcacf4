package scoreboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"
)

func secs(v float64) *float64 { return &v }

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newTestBoard(t *testing.T, capacity int, backend Backend) *Board {
	t.Helper()
	return New(context.Background(), Options{
		Capacity: capacity,
		Backend:  backend,
		Logger:   quietLogger(),
		Now:      func() time.Time { return time.UnixMilli(1700000000000) },
	})
}

type summary struct {
	correct int
	time    float64 // -1 when untimed
}

func summarize(entries []Entry) []summary {
	out := make([]summary, len(entries))
	for i, e := range entries {
		out[i] = summary{correct: e.Correct, time: -1}
		if e.TimeSeconds != nil {
			out[i].time = *e.TimeSeconds
		}
	}
	return out
}

func TestRecordOrdering(t *testing.T) {
	b := newTestBoard(t, 10, NewMemory())
	ctx := context.Background()

	b.Record(ctx, 3, 5, secs(10))
	b.Record(ctx, 5, 5, secs(20))
	b.Record(ctx, 5, 5, secs(15))

	got := summarize(b.List())
	want := []summary{{5, 15}, {5, 20}, {3, 10}}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("expected order %v, got %v", want, got)
	}
}

func TestUntimedRanksBelowTimed(t *testing.T) {
	b := newTestBoard(t, 10, NewMemory())
	ctx := context.Background()

	b.Record(ctx, 5, 5, nil)
	b.Record(ctx, 5, 5, secs(999))
	b.Record(ctx, 4, 5, secs(1))

	got := summarize(b.List())
	want := []summary{{5, 999}, {5, -1}, {4, 1}}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("expected order %v, got %v", want, got)
	}
}

func TestUntimedTiesKeepInsertionOrder(t *testing.T) {
	b := newTestBoard(t, 10, NewMemory())
	ctx := context.Background()

	first := b.Record(ctx, 2, 5, nil)
	second := b.Record(ctx, 2, 5, nil)

	list := b.List()
	if list[0].ID != first.ID || list[1].ID != second.ID {
		t.Errorf("untimed ties reordered: expected %s,%s, got %s,%s", first.ID, second.ID, list[0].ID, list[1].ID)
	}
}

func TestNonPositiveElapsedIsUntimed(t *testing.T) {
	b := newTestBoard(t, 10, NewMemory())
	e := b.Record(context.Background(), 1, 5, secs(0))
	if e.Timed() {
		t.Errorf("entry with 0s elapsed is timed: %v", *e.TimeSeconds)
	}
}

func TestTruncation(t *testing.T) {
	const capacity = 5
	b := newTestBoard(t, capacity, NewMemory())
	ctx := context.Background()

	for i := 0; i < capacity+3; i++ {
		b.Record(ctx, i, capacity+3, secs(float64(100-i)))
	}

	list := b.List()
	if len(list) != capacity {
		t.Fatalf("expected len %d, got %d", capacity, len(list))
	}
	for i, e := range list {
		if want := capacity + 3 - 1 - i; e.Correct != want {
			t.Errorf("expected entry %d correct %d, got %d", i, want, e.Correct)
		}
	}
}

func TestDefaultCapacity(t *testing.T) {
	b := newTestBoard(t, 0, nil)
	if b.Capacity() != DefaultCapacity {
		t.Errorf("expected capacity %d, got %d", DefaultCapacity, b.Capacity())
	}
}

func TestRecordPersists(t *testing.T) {
	mem := NewMemory()
	b := newTestBoard(t, 10, mem)
	ctx := context.Background()

	b.Record(ctx, 3, 5, secs(42.5))

	reloaded := newTestBoard(t, 10, mem)
	list := reloaded.List()
	if len(list) != 1 {
		t.Fatalf("expected reloaded len 1, got %d", len(list))
	}
	if list[0].Correct != 3 || list[0].Total != 5 || *list[0].TimeSeconds != 42.5 {
		t.Errorf("reloaded entry = %+v", list[0])
	}
}

func TestReset(t *testing.T) {
	mem := NewMemory()
	b := newTestBoard(t, 10, mem)
	ctx := context.Background()

	b.Record(ctx, 3, 5, secs(1))
	b.Reset(ctx)

	if n := len(b.List()); n != 0 {
		t.Errorf("expected len after reset 0, got %d", n)
	}
	stored, _ := mem.Load(ctx)
	if len(stored) != 0 {
		t.Errorf("backend still holds %d entries", len(stored))
	}
}

type failingBackend struct{ saves int }

func (f *failingBackend) Load(context.Context) ([]Entry, error) {
	return nil, errors.New("disk on fire")
}

func (f *failingBackend) Save(context.Context, []Entry) error {
	f.saves++
	return errors.New("disk on fire")
}

func TestBackendFailuresAreNotFatal(t *testing.T) {
	backend := &failingBackend{}
	b := newTestBoard(t, 10, backend)
	ctx := context.Background()

	if n := len(b.List()); n != 0 {
		t.Fatalf("expected len after failed load 0, got %d", n)
	}

	b.Record(ctx, 4, 5, secs(12))
	b.Record(ctx, 5, 5, secs(30))

	if backend.saves != 2 {
		t.Errorf("expected saves attempted 2, got %d", backend.saves)
	}
	list := b.List()
	if len(list) != 2 || list[0].Correct != 5 {
		t.Errorf("in-memory board not kept after save failure: %+v", list)
	}
}

func TestLoadedEntriesAreRanked(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	mem.Save(ctx, []Entry{
		{ID: "a", Correct: 1, Total: 5, TimeSeconds: secs(5)},
		{ID: "b", Correct: 4, Total: 5},
		{ID: "c", Correct: 4, Total: 5, TimeSeconds: secs(9)},
		{ID: "d", Correct: 2, Total: 5, TimeSeconds: secs(3)},
	})

	b := newTestBoard(t, 3, mem)
	list := b.List()
	var ids string
	for _, e := range list {
		ids += e.ID
	}
	if ids != "cbd" {
		t.Errorf("expected ranked ids %q, got %q", "cbd", ids)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Entry
		want int
	}{
		{"more correct wins", Entry{Correct: 5}, Entry{Correct: 3, TimeSeconds: secs(1)}, -1},
		{"faster wins", Entry{Correct: 5, TimeSeconds: secs(10)}, Entry{Correct: 5, TimeSeconds: secs(20)}, -1},
		{"slower loses", Entry{Correct: 5, TimeSeconds: secs(20)}, Entry{Correct: 5, TimeSeconds: secs(10)}, 1},
		{"timed beats untimed", Entry{Correct: 5, TimeSeconds: secs(999)}, Entry{Correct: 5}, -1},
		{"untimed loses to timed", Entry{Correct: 5}, Entry{Correct: 5, TimeSeconds: secs(999)}, 1},
		{"both untimed equal", Entry{Correct: 5}, Entry{Correct: 5}, 0},
		{"same time equal", Entry{Correct: 2, TimeSeconds: secs(7)}, Entry{Correct: 2, TimeSeconds: secs(7)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Errorf("expected Compare %d, got %d", tt.want, got)
			}
		})
	}
}

package scoreboard

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultCapacity is the number of entries kept when none is configured.
const DefaultCapacity = 10

// Backend persists a leaderboard. Implementations may fail; the Board treats
// every failure as best effort.
type Backend interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
}

type Options struct {
	Capacity int
	Backend  Backend
	Logger   *slog.Logger
	// Now stamps new entries; defaults to time.Now.
	Now func() time.Time
}

// Board is a bounded leaderboard kept sorted best first. It is shared by all
// game sessions and safe for concurrent use. Saves happen under the lock so
// the backend never sees an older ranking after a newer one.
type Board struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
	backend  Backend
	logger   *slog.Logger
	now      func() time.Time
}

// New builds a board and loads its persisted entries. A load failure leaves
// the board empty.
func New(ctx context.Context, opts Options) *Board {
	b := &Board{
		capacity: opts.Capacity,
		backend:  opts.Backend,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if b.capacity <= 0 {
		b.capacity = DefaultCapacity
	}
	if b.backend == nil {
		b.backend = NewMemory()
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.now == nil {
		b.now = time.Now
	}

	entries, err := b.backend.Load(ctx)
	if err != nil {
		b.logger.Warn("leaderboard load failed, starting empty", "error", err)
		entries = nil
	}
	b.entries = b.rank(entries)
	return b
}

func (b *Board) Capacity() int { return b.capacity }

// Record inserts a finished game, re-ranks, truncates to capacity and saves.
// elapsed is nil when the run has no recorded time.
func (b *Board) Record(ctx context.Context, correct, total int, elapsed *float64) Entry {
	e := Entry{
		ID:        uuid.NewString(),
		Correct:   correct,
		Total:     total,
		Timestamp: b.now().UTC(),
	}
	if elapsed != nil && *elapsed > 0 {
		secs := *elapsed
		e.TimeSeconds = &secs
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = b.rank(append(b.entries, e))
	b.save(ctx, slices.Clone(b.entries))
	return e
}

// List returns the entries best first.
func (b *Board) List() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.entries)
}

// Reset removes every entry.
func (b *Board) Reset(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = nil
	b.save(ctx, []Entry{})
}

func (b *Board) rank(entries []Entry) []Entry {
	slices.SortStableFunc(entries, Compare)
	if len(entries) > b.capacity {
		entries = entries[:b.capacity]
	}
	return entries
}

func (b *Board) save(ctx context.Context, entries []Entry) {
	if err := b.backend.Save(ctx, entries); err != nil {
		b.logger.Warn("leaderboard save failed", "error", err, "entries", len(entries))
	}
}

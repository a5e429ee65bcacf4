// Package session runs each player's quiz on its own event loop and keeps
// the registry of live sessions.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/playperu/geoquiz/internal/clock"
	"github.com/playperu/geoquiz/internal/game"
	"github.com/playperu/geoquiz/internal/geo"
	"github.com/playperu/geoquiz/internal/scoreboard"
	"github.com/playperu/geoquiz/internal/view"
)

var (
	ErrNotFound       = errors.New("session not found")
	ErrGameInProgress = errors.New("game in progress")
	ErrClosed         = errors.New("session closed")
)

const saveTimeout = 5 * time.Second

// Snapshot combines the machine's round state with the presentation state.
type Snapshot struct {
	ID              string        `json:"id"`
	State           string        `json:"state"`
	Round           int           `json:"round"`
	Correct         int           `json:"correct"`
	Total           int           `json:"total"`
	GuessingEnabled bool          `json:"guessingEnabled"`
	StartedAt       *time.Time    `json:"startedAt"`
	View            view.Snapshot `json:"view"`
}

// Session owns one game machine. Every machine call, including clock
// callbacks, runs on the session's loop goroutine.
type Session struct {
	ID string

	inbox    chan func()
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	clock    clock.Clock
	lastSeen atomic.Int64
	board    *scoreboard.Board
	machine  *game.Machine
	view     *view.View
	logger   *slog.Logger
}

func newSession(id string, cfg Config) *Session {
	s := &Session{
		ID:     id,
		inbox:  make(chan func(), 64),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		clock:  cfg.Clock,
		board:  cfg.Board,
		logger: cfg.Logger.With("session", id),
	}
	s.touch()

	s.view = view.New(id, cfg.Publisher, cfg.Board.List())
	s.machine = game.New(game.Config{
		Catalog:         cfg.Catalog,
		Geodesy:         cfg.Geodesy,
		Presenter:       s.view,
		Recorder:        &boardRecorder{board: cfg.Board, logger: s.logger},
		Clock:           clock.Serial(cfg.Clock, s.post),
		ThresholdMeters: cfg.ThresholdMeters,
		AdvanceDelay:    cfg.AdvanceDelay,
		TimerTick:       cfg.TimerTick,
	})
	s.machine.Bind(s.view)

	go s.run()
	return s
}

func (s *Session) run() {
	defer close(s.done)
	for {
		select {
		case <-s.quit:
			return
		case fn := <-s.inbox:
			fn()
		}
	}
}

// Done is closed once the session loop has stopped.
func (s *Session) Done() <-chan struct{} { return s.done }

// Stop ends the loop. Pending callbacks are dropped.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
	<-s.done
}

// Start begins a new game. It fails with ErrGameInProgress while the start
// control is disabled, i.e. until the current game is over.
func (s *Session) Start(ctx context.Context) (Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)
	if doErr := s.do(ctx, func() {
		if !s.view.Snapshot().CanStart {
			err = ErrGameInProgress
			return
		}
		s.machine.Start()
		// Other sessions may have recorded games since this view last drew
		// the board.
		s.view.SetLeaderboardText(s.board.List())
		snap = s.snapshot()
	}); doErr != nil {
		return Snapshot{}, doErr
	}
	if err != nil {
		return Snapshot{}, err
	}
	s.logger.Debug("game started")
	return snap, nil
}

// Guess selects a coordinate on the player's map. accepted is false when no
// round was awaiting a guess; the guess is then ignored.
func (s *Session) Guess(ctx context.Context, c geo.Coordinate) (accepted bool, snap Snapshot, err error) {
	err = s.do(ctx, func() {
		st := s.machine.Snapshot()
		accepted = st.State == game.RoundActive && st.GuessingEnabled
		s.view.Select(c)
		snap = s.snapshot()
	})
	return accepted, snap, err
}

func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := s.do(ctx, func() { snap = s.snapshot() })
	return snap, err
}

// LastSeen is the time of the most recent player call.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// snapshot reads the leaderboard from the shared board, which changes when
// any session finishes a game.
func (s *Session) snapshot() Snapshot {
	g := s.machine.Snapshot()
	v := s.view.Snapshot()
	v.Leaderboard = s.board.List()
	if v.Leaderboard == nil {
		v.Leaderboard = []scoreboard.Entry{}
	}
	return Snapshot{
		ID:              s.ID,
		State:           g.State.String(),
		Round:           g.Index,
		Correct:         g.Correct,
		Total:           g.Total,
		GuessingEnabled: g.GuessingEnabled,
		StartedAt:       g.StartedAt,
		View:            v,
	}
}

// do runs fn on the loop and waits for it to finish.
func (s *Session) do(ctx context.Context, fn func()) error {
	s.touch()
	done := make(chan struct{})
	select {
	case s.inbox <- func() { fn(); close(done) }:
	case <-s.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-s.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post enqueues a clock callback; it is dropped once the session stopped.
func (s *Session) post(fn func()) {
	select {
	case s.inbox <- fn:
	case <-s.quit:
	}
}

func (s *Session) touch() {
	s.lastSeen.Store(s.clock.Now().UnixNano())
}

// boardRecorder binds the shared leaderboard to a session.
type boardRecorder struct {
	board  *scoreboard.Board
	logger *slog.Logger
}

func (r *boardRecorder) Record(correct, total int, elapsed *float64) scoreboard.Entry {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	e := r.board.Record(ctx, correct, total, elapsed)
	r.logger.Info("game recorded", "correct", correct, "total", total, "timed", e.Timed())
	return e
}

func (r *boardRecorder) List() []scoreboard.Entry { return r.board.List() }

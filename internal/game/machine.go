// Package game implements the round-based quiz state machine.
package game

import (
	"fmt"
	"time"

	"github.com/playperu/geoquiz/internal/catalog"
	"github.com/playperu/geoquiz/internal/clock"
	"github.com/playperu/geoquiz/internal/geo"
	"github.com/playperu/geoquiz/internal/timer"
)

const (
	DefaultCorrectDistanceMeters = 50.0
	DefaultAdvanceDelay          = 1500 * time.Millisecond
)

type State int

const (
	Idle State = iota
	RoundActive
	RoundResolved
	GameOver
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case RoundActive:
		return "round_active"
	case RoundResolved:
		return "round_resolved"
	case GameOver:
		return "game_over"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session is a read-only view of the current run.
type Session struct {
	State           State
	Index           int
	Correct         int
	Total           int
	GuessingEnabled bool
	StartedAt       *time.Time
}

type Config struct {
	Catalog   *catalog.Catalog
	Geodesy   geo.Geodesy
	Presenter Presenter
	Recorder  Recorder
	Clock     clock.Clock

	// ThresholdMeters is the largest distance that still counts as correct.
	ThresholdMeters float64
	AdvanceDelay    time.Duration
	TimerTick       time.Duration
}

// Machine drives one player's quiz. It is not safe for concurrent use: every
// method and every clock callback must run on the same event loop.
type Machine struct {
	catalog   *catalog.Catalog
	geodesy   geo.Geodesy
	presenter Presenter
	recorder  Recorder
	clock     clock.Clock
	timer     *timer.Timer
	threshold float64
	delay     time.Duration

	state     State
	index     int
	correct   int
	guessing  bool
	startedAt *time.Time
	advance   clock.Task
}

func New(cfg Config) *Machine {
	m := &Machine{
		catalog:   cfg.Catalog,
		geodesy:   cfg.Geodesy,
		presenter: cfg.Presenter,
		recorder:  cfg.Recorder,
		clock:     cfg.Clock,
		threshold: cfg.ThresholdMeters,
		delay:     cfg.AdvanceDelay,
	}
	if m.catalog == nil {
		m.catalog = catalog.Default()
	}
	if m.geodesy == nil {
		m.geodesy = geo.Sphere{}
	}
	if m.clock == nil {
		m.clock = clock.Real{}
	}
	if m.threshold <= 0 {
		m.threshold = DefaultCorrectDistanceMeters
	}
	if m.delay <= 0 {
		m.delay = DefaultAdvanceDelay
	}
	m.timer = timer.New(m.clock, cfg.TimerTick, m.presenter.SetTimerText)
	return m
}

// Bind routes coordinates selected on src into Submit.
func (m *Machine) Bind(src CoordinateSource) {
	src.OnCoordinateSelected(func(c geo.Coordinate) { m.Submit(c) })
}

func (m *Machine) Snapshot() Session {
	return Session{
		State:           m.state,
		Index:           m.index,
		Correct:         m.correct,
		Total:           m.catalog.Len(),
		GuessingEnabled: m.guessing,
		StartedAt:       m.startedAt,
	}
}

// Start begins a new game from any state, discarding the previous run.
func (m *Machine) Start() {
	m.cancelAdvance()

	m.index = 0
	m.correct = 0
	m.guessing = false
	now := m.clock.Now()
	m.startedAt = &now

	m.presenter.ClearAllRoundVisuals()
	m.presenter.SetStartEnabled(false)
	m.presenter.SetStatusText("")
	m.presenter.SetScoreText(0, m.catalog.Len())
	m.timer.Start()

	if m.catalog.Len() == 0 {
		m.finish()
		return
	}
	m.beginRound()
}

// Submit evaluates a guess for the active round. It reports false and does
// nothing when no round is awaiting a guess.
func (m *Machine) Submit(guess geo.Coordinate) bool {
	if m.state != RoundActive || !m.guessing {
		return false
	}
	m.guessing = false

	target := m.catalog.At(m.index)
	distance := m.geodesy.DistanceMeters(guess, target.Position)
	correct := distance <= m.threshold
	if correct {
		m.correct++
	}

	m.presenter.RenderRoundFeedback(target, guess, correct, m.threshold)
	m.presenter.SetScoreText(m.correct, m.catalog.Len())
	m.presenter.SetStatusText(verdictText(target, correct, distance))

	m.state = RoundResolved
	m.advance = m.clock.AfterFunc(m.delay, m.advanceRound)
	return true
}

// End finishes the running game: it stops the timer, records the result and
// shows the summary. It does nothing when no game is running, so a result is
// recorded once per game. The last round reaches it through the regular
// advance path.
func (m *Machine) End() {
	if m.state == Idle || m.state == GameOver {
		return
	}
	m.finish()
}

func (m *Machine) finish() {
	m.cancelAdvance()
	m.guessing = false
	m.state = GameOver

	var elapsed *float64
	if secs, ok := m.timer.Stop(); ok {
		elapsed = &secs
		m.presenter.SetTimerText(secs)
	}

	total := m.catalog.Len()
	m.presenter.SetStartEnabled(true)
	m.presenter.SetPromptText("Game over")
	m.recorder.Record(m.correct, total, elapsed)
	m.presenter.SetLeaderboardText(m.recorder.List())
	m.presenter.ShowEndOfGameSummary(m.correct, total, elapsed)
}

func (m *Machine) advanceRound() {
	m.advance = nil
	if m.state != RoundResolved {
		return
	}
	if m.index+1 < m.catalog.Len() {
		m.index++
		m.beginRound()
		return
	}
	m.index = m.catalog.Len()
	m.End()
}

func (m *Machine) beginRound() {
	loc := m.catalog.At(m.index)
	m.state = RoundActive
	m.guessing = true
	m.presenter.SetPromptText(promptText(loc, m.index, m.catalog.Len()))
}

func (m *Machine) cancelAdvance() {
	if m.advance != nil {
		m.advance.Stop()
		m.advance = nil
	}
}

func promptText(loc catalog.Location, index, total int) string {
	label := loc.Name
	switch {
	case loc.Code != "" && loc.Grid != "":
		label = fmt.Sprintf("%s (%s, grid %s)", loc.Name, loc.Code, loc.Grid)
	case loc.Code != "":
		label = fmt.Sprintf("%s (%s)", loc.Name, loc.Code)
	}
	return fmt.Sprintf("Round %d/%d: double-click on %s", index+1, total, label)
}

func verdictText(target catalog.Location, correct bool, distance float64) string {
	if correct {
		return fmt.Sprintf("Correct! %s was %.0f m away.", target.Name, distance)
	}
	return fmt.Sprintf("Missed. %s was %.0f m away.", target.Name, distance)
}

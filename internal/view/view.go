// Package view turns presenter calls from the game machine into a JSON
// snapshot and a stream of events for the map frontend.
package view

import (
	"time"

	"github.com/playperu/geoquiz/internal/catalog"
	"github.com/playperu/geoquiz/internal/geo"
	"github.com/playperu/geoquiz/internal/scoreboard"
)

// Event types published to subscribers.
const (
	EventFeedback    = "feedback"
	EventClear       = "clear"
	EventPrompt      = "prompt"
	EventStatus      = "status"
	EventScore       = "score"
	EventTimer       = "timer"
	EventLeaderboard = "leaderboard"
	EventSummary     = "summary"
	EventControls    = "controls"
)

// Event is one presentation update. Only the fields relevant to Type are set.
type Event struct {
	Type        string             `json:"type"`
	Text        string             `json:"text,omitempty"`
	Feedback    *Feedback          `json:"feedback,omitempty"`
	Score       *Score             `json:"score,omitempty"`
	Seconds     *float64           `json:"seconds,omitempty"`
	Leaderboard []scoreboard.Entry `json:"leaderboard,omitempty"`
	Summary     *Summary           `json:"summary,omitempty"`
	CanStart    *bool              `json:"canStart,omitempty"`
}

// Feedback describes a resolved round: where the target was, where the
// player clicked, and the circle radius to draw around the target.
type Feedback struct {
	Target          TargetInfo     `json:"target"`
	Guess           geo.Coordinate `json:"guess"`
	Correct         bool           `json:"correct"`
	ThresholdMeters float64        `json:"thresholdMeters"`
}

type TargetInfo struct {
	Name     string         `json:"name"`
	Code     string         `json:"code"`
	Grid     string         `json:"grid"`
	Position geo.Coordinate `json:"position"`
}

type Score struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

type Summary struct {
	Correct     int      `json:"correct"`
	Total       int      `json:"total"`
	TimeSeconds *float64 `json:"timeSeconds"`
	Text        string   `json:"text"`
}

// Snapshot is the full presentation state of one session.
type Snapshot struct {
	Prompt      string             `json:"prompt"`
	Status      string             `json:"status"`
	Score       Score              `json:"score"`
	TimeSeconds float64            `json:"timeSeconds"`
	Leaderboard []scoreboard.Entry `json:"leaderboard"`
	Feedback    []Feedback         `json:"feedback"`
	Summary     *Summary           `json:"summary"`
	CanStart    bool               `json:"canStart"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// Publisher fans events out to subscribers of a session.
type Publisher interface {
	Publish(sessionID string, event Event)
}

// View implements game.Presenter and game.CoordinateSource for one session.
// Like the machine it serves, it must only be used from the session loop.
type View struct {
	id       string
	pub      Publisher
	now      func() time.Time
	snap     Snapshot
	onSelect func(geo.Coordinate)
}

// New returns a view for session id. pub may be nil.
func New(id string, pub Publisher, leaderboard []scoreboard.Entry) *View {
	v := &View{id: id, pub: pub, now: time.Now}
	v.snap = Snapshot{
		Prompt:      "Press start to play",
		Leaderboard: nonNil(leaderboard),
		Feedback:    []Feedback{},
		CanStart:    true,
		UpdatedAt:   v.now().UTC(),
	}
	return v
}

// Snapshot returns a copy of the current presentation state.
func (v *View) Snapshot() Snapshot {
	s := v.snap
	s.Leaderboard = append([]scoreboard.Entry{}, v.snap.Leaderboard...)
	s.Feedback = append([]Feedback{}, v.snap.Feedback...)
	return s
}

func (v *View) OnCoordinateSelected(f func(geo.Coordinate)) { v.onSelect = f }

// Select forwards a map selection to the registered callback.
func (v *View) Select(c geo.Coordinate) {
	if v.onSelect != nil {
		v.onSelect(c)
	}
}

func (v *View) RenderRoundFeedback(target catalog.Location, guess geo.Coordinate, correct bool, thresholdMeters float64) {
	fb := Feedback{
		Target: TargetInfo{
			Name:     target.Name,
			Code:     target.Code,
			Grid:     target.Grid,
			Position: target.Position,
		},
		Guess:           guess,
		Correct:         correct,
		ThresholdMeters: thresholdMeters,
	}
	v.snap.Feedback = append(v.snap.Feedback, fb)
	v.emit(Event{Type: EventFeedback, Feedback: &fb})
}

func (v *View) ClearAllRoundVisuals() {
	v.snap.Feedback = []Feedback{}
	v.snap.Summary = nil
	v.emit(Event{Type: EventClear})
}

func (v *View) SetPromptText(text string) {
	v.snap.Prompt = text
	v.emit(Event{Type: EventPrompt, Text: text})
}

func (v *View) SetStatusText(text string) {
	v.snap.Status = text
	v.emit(Event{Type: EventStatus, Text: text})
}

func (v *View) SetScoreText(correct, total int) {
	v.snap.Score = Score{Correct: correct, Total: total}
	score := v.snap.Score
	v.emit(Event{Type: EventScore, Score: &score, Text: FormatScore(correct, total)})
}

func (v *View) SetTimerText(seconds float64) {
	v.snap.TimeSeconds = seconds
	v.emit(Event{Type: EventTimer, Seconds: &seconds, Text: FormatSeconds(seconds)})
}

func (v *View) SetLeaderboardText(entries []scoreboard.Entry) {
	v.snap.Leaderboard = nonNil(entries)
	v.emit(Event{Type: EventLeaderboard, Leaderboard: v.snap.Leaderboard, Text: FormatLeaderboard(entries)})
}

func (v *View) ShowEndOfGameSummary(correct, total int, elapsed *float64) {
	sum := Summary{
		Correct:     correct,
		Total:       total,
		TimeSeconds: elapsed,
		Text:        FormatSummary(correct, total, elapsed),
	}
	v.snap.Summary = &sum
	v.emit(Event{Type: EventSummary, Summary: &sum, Text: sum.Text})
}

func (v *View) SetStartEnabled(enabled bool) {
	v.snap.CanStart = enabled
	v.emit(Event{Type: EventControls, CanStart: &enabled})
}

func (v *View) emit(e Event) {
	v.snap.UpdatedAt = v.now().UTC()
	if v.pub != nil {
		v.pub.Publish(v.id, e)
	}
}

func nonNil(entries []scoreboard.Entry) []scoreboard.Entry {
	if entries == nil {
		return []scoreboard.Entry{}
	}
	return append([]scoreboard.Entry{}, entries...)
}

package game

import (
	"github.com/playperu/geoquiz/internal/catalog"
	"github.com/playperu/geoquiz/internal/geo"
	"github.com/playperu/geoquiz/internal/scoreboard"
)

// Presenter renders the game for the player. The machine calls it
// synchronously from its own event loop.
type Presenter interface {
	RenderRoundFeedback(target catalog.Location, guess geo.Coordinate, correct bool, thresholdMeters float64)
	ClearAllRoundVisuals()
	SetPromptText(text string)
	SetStatusText(text string)
	SetScoreText(correct, total int)
	SetTimerText(seconds float64)
	SetLeaderboardText(entries []scoreboard.Entry)
	ShowEndOfGameSummary(correct, total int, elapsed *float64)
	// SetStartEnabled toggles the start control; it is disabled while a game runs.
	SetStartEnabled(enabled bool)
}

// CoordinateSource delivers map selections (a double-click on the map).
type CoordinateSource interface {
	OnCoordinateSelected(func(geo.Coordinate))
}

// Recorder stores finished games.
type Recorder interface {
	Record(correct, total int, elapsed *float64) scoreboard.Entry
	List() []scoreboard.Entry
}

package view

import (
	"fmt"
	"strings"

	"github.com/playperu/geoquiz/internal/scoreboard"
)

func FormatScore(correct, total int) string {
	return fmt.Sprintf("Score: %d/%d", correct, total)
}

func FormatSeconds(seconds float64) string {
	return fmt.Sprintf("%.1f s", seconds)
}

// FormatLeaderboard renders entries one per line, best first.
func FormatLeaderboard(entries []scoreboard.Entry) string {
	if len(entries) == 0 {
		return "No scores yet"
	}
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %d/%d", i+1, e.Correct, e.Total)
		if e.TimeSeconds != nil {
			fmt.Fprintf(&b, " in %s", FormatSeconds(*e.TimeSeconds))
		} else {
			b.WriteString(" (no time)")
		}
	}
	return b.String()
}

func FormatSummary(correct, total int, elapsed *float64) string {
	if elapsed == nil {
		return fmt.Sprintf("You found %d of %d locations.", correct, total)
	}
	return fmt.Sprintf("You found %d of %d locations in %s.", correct, total, FormatSeconds(*elapsed))
}

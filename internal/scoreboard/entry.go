// Package scoreboard keeps the bounded, ranked leaderboard of finished games.
package scoreboard

import (
	"cmp"
	"time"
)

// Entry is one finished game. It is immutable once recorded.
type Entry struct {
	ID          string    `json:"id"`
	Correct     int       `json:"correct"`
	Total       int       `json:"total"`
	TimeSeconds *float64  `json:"timeSeconds"`
	Timestamp   time.Time `json:"timestamp"`
}

// Timed reports whether the entry carries an elapsed time.
func (e Entry) Timed() bool { return e.TimeSeconds != nil }

// Compare orders entries best first: more correct answers rank higher, then
// faster times. An untimed entry ranks below every timed entry with the same
// number of correct answers; two untimed entries compare equal.
func Compare(a, b Entry) int {
	if c := cmp.Compare(b.Correct, a.Correct); c != 0 {
		return c
	}
	switch {
	case a.Timed() && b.Timed():
		return cmp.Compare(*a.TimeSeconds, *b.TimeSeconds)
	case a.Timed():
		return -1
	case b.Timed():
		return 1
	default:
		return 0
	}
}

package scoreboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// ErrMalformed is returned when a stored leaderboard is not a JSON array.
var ErrMalformed = errors.New("malformed leaderboard")

// record is the serialized form of an Entry. timestamp is Unix milliseconds.
type record struct {
	ID          string   `json:"id,omitempty"`
	Correct     int      `json:"correct"`
	Total       int      `json:"total"`
	TimeSeconds *float64 `json:"timeSeconds"`
	Timestamp   int64    `json:"timestamp"`
}

// Encode serializes entries in order.
func Encode(entries []Entry) ([]byte, error) {
	recs := make([]record, len(entries))
	for i, e := range entries {
		recs[i] = record{
			ID:          e.ID,
			Correct:     e.Correct,
			Total:       e.Total,
			TimeSeconds: e.TimeSeconds,
			Timestamp:   e.Timestamp.UnixMilli(),
		}
	}
	return json.Marshal(recs)
}

// Decode parses a serialized leaderboard. Records that do not match the
// entry shape are skipped; only a payload that is not an array is an error.
func Decode(data []byte) ([]Entry, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	entries := make([]Entry, 0, len(raw))
	for _, msg := range raw {
		e, ok := decodeRecord(msg)
		if !ok {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func decodeRecord(msg json.RawMessage) (Entry, bool) {
	// Pointers distinguish a missing field from a zero value.
	var r struct {
		ID          *string         `json:"id"`
		Correct     *json.Number    `json:"correct"`
		Total       *json.Number    `json:"total"`
		TimeSeconds json.RawMessage `json:"timeSeconds"`
		Timestamp   *json.Number    `json:"timestamp"`
	}
	if err := json.Unmarshal(msg, &r); err != nil {
		return Entry{}, false
	}
	if r.Correct == nil || r.Total == nil || r.Timestamp == nil {
		return Entry{}, false
	}

	correct, err := r.Correct.Int64()
	if err != nil {
		return Entry{}, false
	}
	total, err := r.Total.Int64()
	if err != nil {
		return Entry{}, false
	}
	ts, err := r.Timestamp.Int64()
	if err != nil {
		return Entry{}, false
	}
	if correct < 0 || total < 0 || correct > total || total > math.MaxInt32 {
		return Entry{}, false
	}

	var secs *float64
	if len(r.TimeSeconds) > 0 && string(r.TimeSeconds) != "null" {
		var v float64
		if err := json.Unmarshal(r.TimeSeconds, &v); err != nil {
			return Entry{}, false
		}
		if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return Entry{}, false
		}
		secs = &v
	}

	e := Entry{
		Correct:     int(correct),
		Total:       int(total),
		TimeSeconds: secs,
		Timestamp:   time.UnixMilli(ts).UTC(),
	}
	if r.ID != nil && *r.ID != "" {
		e.ID = *r.ID
	} else {
		e.ID = uuid.NewString()
	}
	return e, true
}

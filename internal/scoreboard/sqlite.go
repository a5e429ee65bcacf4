package scoreboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DefaultBoardID names the leaderboard document when only one board exists.
const DefaultBoardID = "default"

// SQLite stores a leaderboard as one JSONB document in the leaderboards
// table. The table is created by the migrations package.
type SQLite struct {
	db *sql.DB
	id string
}

func NewSQLite(db *sql.DB, boardID string) *SQLite {
	if boardID == "" {
		boardID = DefaultBoardID
	}
	return &SQLite{db: db, id: boardID}
}

func (s *SQLite) Load(ctx context.Context) ([]Entry, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM leaderboards WHERE id = ?`, s.id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading leaderboard %q: %w", s.id, err)
	}
	return Decode([]byte(data))
}

func (s *SQLite) Save(ctx context.Context, entries []Entry) error {
	data, err := Encode(entries)
	if err != nil {
		return fmt.Errorf("encoding leaderboard: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO leaderboards (id, data, updated_at) VALUES (?, jsonb(?), strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		s.id, string(data),
	)
	if err != nil {
		return fmt.Errorf("saving leaderboard %q: %w", s.id, err)
	}
	return nil
}

// Check pings the underlying database.
func (s *SQLite) Check(ctx context.Context) error { return s.db.PingContext(ctx) }

// Package storage opens the configured leaderboard backend.
package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/playperu/geoquiz/internal/database"
	"github.com/playperu/geoquiz/internal/handler/health"
	"github.com/playperu/geoquiz/internal/migrations"
	"github.com/playperu/geoquiz/internal/scoreboard"
)

// Backend kinds.
const (
	SQLite = "sqlite"
	Redis  = "redis"
	Memory = "memory"
)

type Options struct {
	Kind     string
	DBPath   string
	RedisURL string
	RedisKey string
}

// Store is an opened backend together with its health checks.
type Store struct {
	Kind    string
	Backend scoreboard.Backend
	Checks  map[string]health.Checker

	close func() error
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open connects to the backend named by opts.Kind. The SQLite schema is
// migrated on open.
func Open(ctx context.Context, opts Options) (*Store, error) {
	switch opts.Kind {
	case SQLite:
		db, err := database.Open(ctx, opts.DBPath)
		if err != nil {
			return nil, fmt.Errorf("connecting to sqlite: %w", err)
		}
		if err := migrations.Run(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		b := scoreboard.NewSQLite(db, scoreboard.DefaultBoardID)
		return &Store{
			Kind:    SQLite,
			Backend: b,
			Checks:  map[string]health.Checker{SQLite: b},
			close:   db.Close,
		}, nil

	case Redis:
		rdb, err := openRedis(ctx, opts.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		b := scoreboard.NewRedis(rdb, opts.RedisKey)
		return &Store{
			Kind:    Redis,
			Backend: b,
			Checks:  map[string]health.Checker{Redis: b},
			close:   rdb.Close,
		}, nil

	case Memory, "":
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown leaderboard backend %q", opts.Kind)
}

// NewMemory returns a volatile store; scores are lost on restart.
func NewMemory() *Store {
	return &Store{Kind: Memory, Backend: scoreboard.NewMemory(), Checks: map[string]health.Checker{}}
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}

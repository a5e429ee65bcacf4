package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Leaderboard backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	HTTPAddr    string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel    slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir      string     `env:"SPA_DIR" envDefault:"web/dist"`
	CatalogPath string     `env:"CATALOG_PATH"`

	CorrectDistanceMeters float64 `env:"CORRECT_DISTANCE_METERS" envDefault:"50"`
	RoundAdvanceDelayMS   int     `env:"ROUND_ADVANCE_DELAY_MS" envDefault:"1500"`
	TimerTickMS           int     `env:"TIMER_TICK_MS" envDefault:"100"`

	LeaderboardCapacity int    `env:"LEADERBOARD_CAPACITY" envDefault:"10"`
	LeaderboardBackend  string `env:"LEADERBOARD_BACKEND" envDefault:"sqlite"`
	DBPath              string `env:"DB_PATH" envDefault:"data/geoquiz.db"`
	RedisURL            string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RedisKey            string `env:"REDIS_KEY" envDefault:"geoquiz:leaderboard"`

	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`
	AdminTokenHash     string        `env:"ADMIN_TOKEN_HASH"`
}

// Load reads an optional .env file and then the environment. Variables
// already set in the environment win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.CorrectDistanceMeters <= 0 {
		errs = append(errs, fmt.Errorf("CORRECT_DISTANCE_METERS must be positive, got %v", c.CorrectDistanceMeters))
	}
	if c.RoundAdvanceDelayMS <= 0 {
		errs = append(errs, fmt.Errorf("ROUND_ADVANCE_DELAY_MS must be positive, got %d", c.RoundAdvanceDelayMS))
	}
	if c.TimerTickMS <= 0 {
		errs = append(errs, fmt.Errorf("TIMER_TICK_MS must be positive, got %d", c.TimerTickMS))
	}
	if c.LeaderboardCapacity <= 0 {
		errs = append(errs, fmt.Errorf("LEADERBOARD_CAPACITY must be positive, got %d", c.LeaderboardCapacity))
	}
	if c.SessionIdleTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive, got %s", c.SessionIdleTimeout))
	}
	switch c.LeaderboardBackend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("LEADERBOARD_BACKEND must be sqlite, redis or memory, got %q", c.LeaderboardBackend))
	}
	return errors.Join(errs...)
}

func (c *Config) RoundAdvanceDelay() time.Duration {
	return time.Duration(c.RoundAdvanceDelayMS) * time.Millisecond
}

func (c *Config) TimerTick() time.Duration {
	return time.Duration(c.TimerTickMS) * time.Millisecond
}

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/playperu/geoquiz/internal/scoreboard"
	"github.com/playperu/geoquiz/internal/storage"
)

type Config struct {
	backend  string
	dbPath   string
	redisURL string
	redisKey string
	capacity int
	json     bool
	yes      bool
}

func (c *Config) validate() error {
	switch c.backend {
	case storage.SQLite, storage.Redis:
	default:
		return fmt.Errorf("invalid backend %q (must be sqlite or redis)", c.backend)
	}
	if c.capacity < 1 {
		return fmt.Errorf("invalid capacity (must be positive): %d", c.capacity)
	}
	return nil
}

func (c *Config) storageOptions() storage.Options {
	return storage.Options{
		Kind:     c.backend,
		DBPath:   c.dbPath,
		RedisURL: c.redisURL,
		RedisKey: c.redisKey,
	}
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("GEOQUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Inspect or clear the geoquiz leaderboard.",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.validate()
		},
	}

	fs := cmd.PersistentFlags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVar(&cfg.backend, "backend", storage.SQLite, "leaderboard backend, sqlite or redis (env: GEOQUIZ_BACKEND)")
	fs.StringVar(&cfg.dbPath, "db-path", "data/geoquiz.db", "path to the sqlite database (env: GEOQUIZ_DB_PATH)")
	fs.StringVar(&cfg.redisURL, "redis-url", "redis://localhost:6379/0", "redis connection url (env: GEOQUIZ_REDIS_URL)")
	fs.StringVar(&cfg.redisKey, "redis-key", scoreboard.DefaultRedisKey, "redis key holding the leaderboard (env: GEOQUIZ_REDIS_KEY)")
	fs.IntVar(&cfg.capacity, "capacity", scoreboard.DefaultCapacity, "number of entries shown (env: GEOQUIZ_CAPACITY)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.AddCommand(newListCmd(cfg), newResetCmd(cfg))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

var errNotConfirmed = errors.New("refusing to reset without --yes")

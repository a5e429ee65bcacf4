package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/playperu/geoquiz/internal/catalog"
	"github.com/playperu/geoquiz/internal/config"
	"github.com/playperu/geoquiz/internal/handler/health"
	"github.com/playperu/geoquiz/internal/scoreboard"
	"github.com/playperu/geoquiz/internal/server"
	"github.com/playperu/geoquiz/internal/session"
	"github.com/playperu/geoquiz/internal/storage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Catalog ---
	locations := catalog.Default()
	if cfg.CatalogPath != "" {
		locations, err = catalog.Load(cfg.CatalogPath)
		if err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}
	}
	logger.Info("catalog loaded", "locations", locations.Len())

	// --- Leaderboard ---
	store, err := storage.Open(ctx, storage.Options{
		Kind:     cfg.LeaderboardBackend,
		DBPath:   cfg.DBPath,
		RedisURL: cfg.RedisURL,
		RedisKey: cfg.RedisKey,
	})
	if err != nil {
		logger.Warn("leaderboard backend unavailable, scores will not survive a restart",
			"backend", cfg.LeaderboardBackend, "error", err)
		store = storage.NewMemory()
	}
	defer store.Close()
	logger.Info("leaderboard backend ready", "backend", store.Kind, "capacity", cfg.LeaderboardCapacity)

	board := scoreboard.New(ctx, scoreboard.Options{
		Capacity: cfg.LeaderboardCapacity,
		Backend:  store.Backend,
		Logger:   logger,
	})

	// --- Sessions ---
	broker := server.NewBroker()
	sessions := session.NewManager(session.Config{
		Catalog:         locations,
		Board:           board,
		Publisher:       broker,
		Logger:          logger,
		ThresholdMeters: cfg.CorrectDistanceMeters,
		AdvanceDelay:    cfg.RoundAdvanceDelay(),
		TimerTick:       cfg.TimerTick(),
		IdleTimeout:     cfg.SessionIdleTimeout,
	})

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Sessions:       sessions,
		Broker:         broker,
		Health:         health.NewHandler(logger, store.Checks, sessions.Len),
		AdminTokenHash: cfg.AdminTokenHash,
		SPADir:         cfg.SPADir,
	})
	if cfg.AdminTokenHash == "" {
		logger.Info("admin routes disabled, ADMIN_TOKEN_HASH not set")
	}

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		return sessions.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

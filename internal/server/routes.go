package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	sessions := deps.Sessions
	broker := deps.Broker

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("GeoQuiz API", "/openapi.json", "/docs"))
	if deps.Health != nil {
		r.Mount("/healthz", deps.Health.Routes())
	}

	r.Get("/api/locations", handleLocations(sessions))
	r.Get("/api/leaderboard", handleLeaderboard(sessions))
	r.Post("/api/sessions", handleCreateSession(sessions))

	// Player routes, {session} resolved by sessionMiddleware.
	r.Route("/api/sessions/{session}", func(r chi.Router) {
		r.Use(sessionMiddleware(sessions))
		r.Post("/start", handleStart())
		r.Post("/guess", handleGuess())
		r.Get("/state", handleState())
		r.Get("/events", handleEvents(broker))
		r.Get("/ws", handleWS(logger, broker))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(adminTokenMiddleware(deps.AdminTokenHash))
		r.Delete("/leaderboard", handleResetLeaderboard(logger, sessions))
	})

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}

package server

import (
	"log/slog"
	"net/http"

	"github.com/playperu/geoquiz/internal/scoreboard"
	"github.com/playperu/geoquiz/internal/session"
)

// LocationItem is a catalog entry as shown to players. Positions stay on
// the server so the answer is not given away.
type LocationItem struct {
	Name string `json:"name"`
	Code string `json:"code"`
	Grid string `json:"grid"`
}

type LeaderboardResponse struct {
	Capacity int                `json:"capacity"`
	Entries  []scoreboard.Entry `json:"entries"`
}

func handleLocations(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locs := sessions.Catalog().All()
		items := make([]LocationItem, 0, len(locs))
		for _, l := range locs {
			items = append(items, LocationItem{Name: l.Name, Code: l.Code, Grid: l.Grid})
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func handleLeaderboard(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board := sessions.Board()
		entries := board.List()
		if entries == nil {
			entries = []scoreboard.Entry{}
		}
		writeJSON(w, http.StatusOK, LeaderboardResponse{Capacity: board.Capacity(), Entries: entries})
	}
}

func handleResetLeaderboard(logger *slog.Logger, sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions.Board().Reset(r.Context())
		logger.Info("leaderboard reset", "remote", r.RemoteAddr)
		w.WriteHeader(http.StatusNoContent)
	}
}

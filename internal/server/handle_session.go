package server

import (
	"errors"
	"net/http"

	"github.com/playperu/geoquiz/internal/geo"
	"github.com/playperu/geoquiz/internal/session"
)

type CreateSessionResponse struct {
	ID string `json:"id"`
}

type GuessRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type GuessResponse struct {
	Accepted bool             `json:"accepted"`
	Snapshot session.Snapshot `json:"snapshot"`
}

func handleCreateSession(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessions.Create()
		writeJSON(w, http.StatusCreated, CreateSessionResponse{ID: sess.ID})
	}
}

func handleStart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := sessionFrom(r).Start(r.Context())
		if err != nil {
			writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func handleGuess() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GuessRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Lat == nil || req.Lng == nil {
			writeError(w, http.StatusBadRequest, "lat and lng are required")
			return
		}
		c := geo.Coordinate{Lat: *req.Lat, Lng: *req.Lng}
		if !c.Valid() {
			writeError(w, http.StatusBadRequest, "coordinate out of range")
			return
		}

		accepted, snap, err := sessionFrom(r).Guess(r.Context(), c)
		if err != nil {
			writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, GuessResponse{Accepted: accepted, Snapshot: snap})
	}
}

func handleState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := sessionFrom(r).Snapshot(r.Context())
		if err != nil {
			writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrGameInProgress):
		writeError(w, http.StatusConflict, "game in progress")
	case errors.Is(err, session.ErrClosed), errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusGone, "session closed")
	default:
		writeError(w, http.StatusServiceUnavailable, "request canceled")
	}
}

package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/geoquiz/internal/handler/health"
	"github.com/playperu/geoquiz/internal/session"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type sessionPath struct {
	Session string `path:"session"`
}

type guessOperation struct {
	sessionPath
	GuessRequest
}

type eventsOperation struct {
	sessionPath
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "GeoQuiz API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the campus map quiz.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the status of the leaderboard backend.")
	getHealthz.AddRespStructure(health.Response{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(health.Response{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/locations
	getLocations, _ := r.NewOperationContext(http.MethodGet, "/api/locations")
	getLocations.SetSummary("List locations")
	getLocations.SetDescription("Returns the locations asked in every game, in order, without positions.")
	getLocations.AddRespStructure([]LocationItem{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getLocations)

	// GET /api/leaderboard
	getLeaderboard, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard")
	getLeaderboard.SetSummary("Leaderboard")
	getLeaderboard.SetDescription("Best games, most correct first, faster first among equals.")
	getLeaderboard.AddRespStructure(LeaderboardResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getLeaderboard)

	// POST /api/sessions
	postSession, _ := r.NewOperationContext(http.MethodPost, "/api/sessions")
	postSession.SetSummary("Create session")
	postSession.SetDescription("Creates a player session. Sessions expire after a period of inactivity.")
	postSession.AddRespStructure(CreateSessionResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	_ = r.AddOperation(postSession)

	// POST /api/sessions/{session}/start
	postStart, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{session}/start")
	postStart.SetSummary("Start game")
	postStart.SetDescription("Starts a new game. Rejected while a game is running.")
	postStart.AddReqStructure(sessionPath{})
	postStart.AddRespStructure(session.Snapshot{}, openapi.WithHTTPStatus(http.StatusOK))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postStart)

	// POST /api/sessions/{session}/guess
	postGuess, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{session}/guess")
	postGuess.SetSummary("Submit guess")
	postGuess.SetDescription("Selects a point on the map. Guesses outside an open round are ignored and reported with accepted=false.")
	postGuess.AddReqStructure(guessOperation{})
	postGuess.AddRespStructure(GuessResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postGuess)

	// GET /api/sessions/{session}/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{session}/state")
	getState.SetSummary("Get session state")
	getState.AddReqStructure(sessionPath{})
	getState.AddRespStructure(session.Snapshot{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getState)

	// GET /api/sessions/{session}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{session}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of presentation updates. The first event is a snapshot.")
	getEvents.AddReqStructure(eventsOperation{})
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /api/sessions/{session}/ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{session}/ws")
	getWS.SetSummary("Play over WebSocket")
	getWS.SetDescription(`Upgrades to a WebSocket. Send {"type":"start"}, {"type":"state"} or {"type":"guess","lat":..,"lng":..}; presentation updates are pushed as they happen.`)
	getWS.AddReqStructure(eventsOperation{})
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// DELETE /api/admin/leaderboard
	deleteBoard, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/leaderboard")
	deleteBoard.SetSummary("Reset leaderboard")
	deleteBoard.SetDescription("Removes every entry. Requires the admin bearer token.")
	deleteBoard.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteBoard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(deleteBoard)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

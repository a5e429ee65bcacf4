package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/playperu/geoquiz/internal/geo"
	"github.com/playperu/geoquiz/internal/session"
)

// Replies sent on the play socket besides the pushed view events.
const (
	wsReplySnapshot = "snapshot"
	wsReplyGuess    = "guess_result"
	wsReplyError    = "error"
)

type wsCommand struct {
	Type string   `json:"type"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
}

type wsReply struct {
	Type     string            `json:"type"`
	Accepted *bool             `json:"accepted,omitempty"`
	Snapshot *session.Snapshot `json:"snapshot,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// handleWS plays a session over a WebSocket. The client sends start, guess
// and state commands; view events are pushed as they happen.
func handleWS(logger *slog.Logger, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Minute)
		defer cancel()

		ch := broker.Subscribe(sess.ID)
		defer broker.Unsubscribe(sess.ID, ch)

		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-sess.Done():
					conn.Close(websocket.StatusGoingAway, "session closed")
					cancel()
					return
				case msg := <-ch:
					if err := conn.Write(ctx, websocket.MessageText, msg.Data); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		if err := wsjson.Write(ctx, conn, replyFor(ctx, sess, wsCommand{Type: "state"})); err != nil {
			return
		}

		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				logger.Debug("websocket read ended", "session", sess.ID, "error", err)
				return
			}

			var cmd wsCommand
			reply := wsReply{Type: wsReplyError, Error: "invalid message"}
			if err := json.Unmarshal(data, &cmd); err == nil {
				reply = replyFor(ctx, sess, cmd)
			}

			if err := wsjson.Write(ctx, conn, reply); err != nil {
				logger.Debug("websocket write failed", "session", sess.ID, "error", err)
				return
			}
		}
	}
}

func replyFor(ctx context.Context, sess *session.Session, cmd wsCommand) wsReply {
	var (
		snap     session.Snapshot
		accepted bool
		err      error
	)
	switch cmd.Type {
	case "state":
		snap, err = sess.Snapshot(ctx)
	case "start":
		snap, err = sess.Start(ctx)
	case "guess":
		if cmd.Lat == nil || cmd.Lng == nil {
			return wsReply{Type: wsReplyError, Error: "lat and lng are required"}
		}
		c := geo.Coordinate{Lat: *cmd.Lat, Lng: *cmd.Lng}
		if !c.Valid() {
			return wsReply{Type: wsReplyError, Error: "coordinate out of range"}
		}
		accepted, snap, err = sess.Guess(ctx, c)
		if err == nil {
			return wsReply{Type: wsReplyGuess, Accepted: &accepted, Snapshot: &snap}
		}
	default:
		return wsReply{Type: wsReplyError, Error: "unknown command"}
	}

	switch {
	case errors.Is(err, session.ErrGameInProgress):
		return wsReply{Type: wsReplyError, Error: "game in progress"}
	case err != nil:
		return wsReply{Type: wsReplyError, Error: "session closed"}
	}
	return wsReply{Type: wsReplySnapshot, Snapshot: &snap}
}

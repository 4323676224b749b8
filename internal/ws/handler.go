package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bluffbox/liars-dice-backend/internal/engine"
	"github.com/bluffbox/liars-dice-backend/internal/hub"
	"github.com/bluffbox/liars-dice-backend/internal/lobby"
	"github.com/bluffbox/liars-dice-backend/internal/types"
)

const writeTimeout = 3 * time.Second

// Handler upgrades the connection and shuttles frames between it and a
// lobby. A connection is not bound to any lobby until its join message is
// accepted, so a rejected join (bad code, taken name) leaves it free to
// retry on the same socket.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		connID := uuid.NewString()
		outbox := make(chan []byte, 16)

		var lb *lobby.Lobby
		defer func() {
			if lb != nil {
				lb.Inbox() <- lobby.Leave{ConnID: connID}
			}
		}()

		// Writer goroutine: drains the outbox the lobby broadcasts into.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for {
				select {
				case payload, ok := <-outbox:
					if !ok {
						return
					}
					ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
					_ = conn.Write(ctx, websocket.MessageText, payload)
					cancel()
				case <-writeCtx.Done():
					return
				}
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				// Clean close and failure both end in the deferred Leave;
				// a disconnect is a game transition, not an error.
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				log.Debug("malformed frame", zap.String("conn", connID), zap.Error(err))
				_ = conn.Write(r.Context(), websocket.MessageText, []byte("Invalid JSON"))
				continue
			}

			if cm.Type == "join" {
				if lb != nil {
					continue // already seated
				}
				lb = handleJoin(r.Context(), h, conn, cm, connID, outbox)
				continue
			}

			cmd, ok := toCommand(cm)
			if !ok {
				log.Debug("unknown message type", zap.String("conn", connID), zap.String("type", cm.Type))
				_ = conn.Write(r.Context(), websocket.MessageText, []byte("Unknown message type"))
				continue
			}
			if lb == nil {
				continue // no lobby yet; same silent drop as a stale code
			}
			lb.Inbox() <- lobby.FromClient{ConnID: connID, Cmd: cmd}
		}
	}
}

// handleJoin resolves the lobby (creating it when asked) and seats the
// player. Returns nil if the connection stays unbound.
func handleJoin(ctx context.Context, h *hub.Hub, conn *websocket.Conn, cm types.ClientMessage, connID string, outbox chan []byte) *lobby.Lobby {
	if cm.Name == "" || cm.LobbyID == "" {
		writeError(ctx, conn, "Missing name or lobby ID")
		return nil
	}

	reply := make(chan *lobby.Lobby, 1)
	h.Inbox() <- hub.EnsureLobby{Code: cm.LobbyID, AllowCreate: cm.CreateLobby, Reply: reply}
	lb := <-reply
	if lb == nil {
		writeError(ctx, conn, "Match with code does not exist.")
		return nil
	}

	joined := make(chan error, 1)
	lb.Inbox() <- lobby.Join{ConnID: connID, Name: cm.Name, Outbox: outbox, Reply: joined}
	if err := <-joined; err != nil {
		// The lobby already pushed the error frame to the outbox.
		return nil
	}
	return lb
}

func toCommand(cm types.ClientMessage) (engine.Command, bool) {
	switch cm.Type {
	case "startGame":
		return engine.Command{Type: engine.CmdStartGame}, true
	case "chooseColor":
		return engine.Command{Type: engine.CmdChooseColor, Color: cm.Color}, true
	case "bid":
		return engine.Command{Type: engine.CmdBid, Quantity: cm.Quantity, Face: cm.Face}, true
	case "callBluff":
		return engine.Command{Type: engine.CmdCallBluff}, true
	case "toggleReady":
		return engine.Command{Type: engine.CmdToggleReady}, true
	case "playAgain":
		return engine.Command{Type: engine.CmdPlayAgain}, true
	default:
		return engine.Command{}, false
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, message string) {
	payload, _ := json.Marshal(types.Notification{Type: "error", Message: message})
	_ = conn.Write(ctx, websocket.MessageText, payload)
}

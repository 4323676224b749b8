package hub

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bluffbox/liars-dice-backend/internal/lobby"
)

type HubMsg interface{ isHubMsg() }

// EnsureLobby looks a lobby up by code, creating it first when
// AllowCreate is set. Reply receives nil when the code is unknown and
// creation was not requested.
type EnsureLobby struct {
	Code        string
	AllowCreate bool
	Reply       chan *lobby.Lobby
}

type GetLobby struct {
	Code  string
	Reply chan *lobby.Lobby
}

type RemoveLobby struct {
	Code string
}

// lobbyEmptied arrives from a lobby's OnEmpty callback once its last
// connection left with nobody on the roster.
type lobbyEmptied struct {
	Code string
}

type ShutdownHub struct{}

func (EnsureLobby) isHubMsg()  {}
func (GetLobby) isHubMsg()     {}
func (RemoveLobby) isHubMsg()  {}
func (lobbyEmptied) isHubMsg() {}
func (ShutdownHub) isHubMsg()  {}

type Config struct {
	RevealDelay time.Duration
	Logger      *zap.Logger
}

// Hub owns the code -> lobby registry as its own actor goroutine; lobbies
// are fully independent of each other beyond this map.
type Hub struct {
	inbox   chan HubMsg
	lobbies map[string]*lobby.Lobby
	cfg     Config
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewHub(parent context.Context, cfg Config) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		lobbies: make(map[string]*lobby.Lobby),
		cfg:     cfg,
		log:     cfg.Logger,
		ctx:     ctx,
		cancel:  cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case EnsureLobby:
				lb := h.lobbies[msg.Code]
				if lb == nil && msg.AllowCreate {
					lb = h.newLobby(msg.Code)
					h.lobbies[msg.Code] = lb
					h.log.Info("lobby created", zap.String("code", msg.Code))
				}
				msg.Reply <- lb // may be nil

			case GetLobby:
				msg.Reply <- h.lobbies[msg.Code]

			case RemoveLobby:
				h.remove(msg.Code)

			case lobbyEmptied:
				h.remove(msg.Code)
				h.log.Info("empty lobby evicted", zap.String("code", msg.Code))

			case ShutdownHub:
				for _, lb := range h.lobbies {
					lb.Inbox() <- lobby.Shutdown{}
				}
				clear(h.lobbies)
				h.cancel()
			}
		}
	}
}

func (h *Hub) newLobby(code string) *lobby.Lobby {
	return lobby.NewLobby(h.ctx, lobby.Config{
		Code:        code,
		RevealDelay: h.cfg.RevealDelay,
		Logger:      h.log,
		OnEmpty: func(code string) {
			select {
			case h.inbox <- lobbyEmptied{Code: code}:
			case <-h.ctx.Done():
			}
		},
	})
}

func (h *Hub) remove(code string) {
	if lb := h.lobbies[code]; lb != nil {
		lb.Inbox() <- lobby.Shutdown{}
		delete(h.lobbies, code)
	}
}

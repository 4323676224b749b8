package lobby

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/bluffbox/liars-dice-backend/internal/dice"
	"github.com/bluffbox/liars-dice-backend/internal/engine"
	"github.com/bluffbox/liars-dice-backend/internal/types"
)

// DefaultRevealDelay is how long clients get to animate the dice reveal
// before the next turn is announced. Protocol behavior, not a tunable the
// game rules care about.
const DefaultRevealDelay = 3 * time.Second

type Msg interface{ isLobbyMsg() }

// Join registers a connection as a named participant. Reply receives nil
// on success or the engine error (e.g. name taken); on failure the error
// frame is still pushed to Outbox so the client hears about it.
type Join struct {
	ConnID string
	Name   string
	Outbox chan []byte
	Reply  chan error
}

func (Join) isLobbyMsg() {}

// Leave is the disconnect transition for a connection.
type Leave struct{ ConnID string }

func (Leave) isLobbyMsg() {}

// FromClient carries one decoded game command from a joined connection.
type FromClient struct {
	ConnID string
	Cmd    engine.Command
}

func (FromClient) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

// GetState reflects internal state without data races. Test-only.
type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

type revealFired struct{}

func (revealFired) isLobbyMsg() {}

type View struct {
	NumClients int
	Game       engine.Game
}

type client struct {
	playerID string
	outbox   chan []byte
}

type Config struct {
	Code        string
	Roller      *dice.Roller
	RevealDelay time.Duration
	Logger      *zap.Logger
	// OnEmpty is called (from the actor goroutine) once the last
	// connection is gone and nobody is left on the roster.
	OnEmpty func(code string)
}

// Lobby runs one game as a single goroutine: every inbound message and
// lifecycle event is processed to completion before the next, so the game
// state needs no locks.
type Lobby struct {
	inbox   chan Msg
	game    *engine.Game
	clients map[string]*client // conn id -> client
	byName  map[string]string  // participant id -> conn id
	reveal  *time.Timer
	delay   time.Duration
	onEmpty func(string)
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewLobby(parent context.Context, cfg Config) *Lobby {
	ctx, cancel := context.WithCancel(parent)

	if cfg.RevealDelay == 0 {
		cfg.RevealDelay = DefaultRevealDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	l := &Lobby{
		inbox:   make(chan Msg, 64),
		game:    engine.NewGame(cfg.Code, cfg.Roller),
		clients: make(map[string]*client),
		byName:  make(map[string]string),
		delay:   cfg.RevealDelay,
		onEmpty: cfg.OnEmpty,
		log:     cfg.Logger.With(zap.String("lobby", cfg.Code)),
		ctx:     ctx,
		cancel:  cancel,
	}

	go l.loop()
	return l
}

// Inbox exposes the message channel to the WS layer and tests.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }

func (l *Lobby) loop() {
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Join:
				l.handleJoin(msg)

			case Leave:
				l.handleLeave(msg)

			case FromClient:
				l.handleCommand(msg)

			case revealFired:
				l.dispatch(l.game.AnnounceTurn())

			case GetState:
				msg.Reply <- View{NumClients: len(l.clients), Game: *l.game}

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

func (l *Lobby) handleJoin(msg Join) {
	events, err := engine.Apply(l.game, engine.Command{Type: engine.CmdJoin, Actor: msg.Name})
	if err != nil {
		l.send(msg.Outbox, encodeError(engine.CmdJoin, err))
		if msg.Reply != nil {
			msg.Reply <- err
		}
		return
	}

	l.clients[msg.ConnID] = &client{playerID: msg.Name, outbox: msg.Outbox}
	l.byName[msg.Name] = msg.ConnID
	l.log.Info("player joined", zap.String("player", msg.Name))

	if msg.Reply != nil {
		msg.Reply <- nil
	}
	l.dispatch(events)
}

func (l *Lobby) handleLeave(msg Leave) {
	c := l.clients[msg.ConnID]
	if c == nil {
		return
	}
	delete(l.clients, msg.ConnID)
	delete(l.byName, c.playerID)

	events, _ := engine.Apply(l.game, engine.Command{Type: engine.CmdLeave, Actor: c.playerID})
	l.log.Info("player disconnected", zap.String("player", c.playerID))
	l.dispatch(events)

	if len(l.clients) == 0 && len(l.game.Roster) == 0 && l.onEmpty != nil {
		l.onEmpty(l.game.Code)
	}
}

func (l *Lobby) handleCommand(msg FromClient) {
	c := l.clients[msg.ConnID]
	if c == nil {
		return
	}
	cmd := msg.Cmd
	cmd.Actor = c.playerID

	events, err := engine.Apply(l.game, cmd)
	if err != nil {
		l.send(c.outbox, encodeError(cmd.Type, err))
		return
	}
	l.dispatch(events)
}

// dispatch fans engine events out to the roster. Targeted events go only
// to that participant's connection, if any; a missing or saturated
// connection is skipped, never an error that aborts the rest.
func (l *Lobby) dispatch(events []engine.Event) {
	for _, ev := range events {
		if ev.Type == engine.EvtDeferTurnReveal {
			l.scheduleReveal()
			continue
		}

		payload := encode(ev)
		if payload == nil {
			continue
		}

		if ev.To != "" {
			if connID, ok := l.byName[ev.To]; ok {
				l.send(l.clients[connID].outbox, payload)
			}
			continue
		}
		for _, c := range l.clients {
			l.send(c.outbox, payload)
		}
	}
}

func (l *Lobby) send(out chan []byte, payload []byte) {
	select {
	case out <- payload:
	default:
		l.log.Warn("outbox full, dropping frame")
	}
}

func (l *Lobby) scheduleReveal() {
	if l.reveal != nil {
		l.reveal.Stop()
	}
	l.reveal = time.AfterFunc(l.delay, func() {
		select {
		case l.inbox <- revealFired{}:
		case <-l.ctx.Done():
		}
	})
}

func (l *Lobby) shutdown() {
	if l.reveal != nil {
		l.reveal.Stop()
	}
	for id, c := range l.clients {
		close(c.outbox)
		delete(l.clients, id)
	}
	l.cancel()
}

// encode turns one engine event into its wire frame.
func encode(ev engine.Event) []byte {
	var payload any

	switch ev.Type {
	case engine.EvtNotification:
		payload = types.Notification{Type: "notification", Message: ev.Message}
	case engine.EvtStartGame:
		payload = types.Notification{Type: "startGame", Message: ev.Message}
	case engine.EvtPlayerList:
		players := make([]types.Player, 0, len(ev.Players))
		for _, p := range ev.Players {
			players = append(players, types.Player{
				ID:           p.ID,
				Color:        p.Color,
				Ready:        p.Ready,
				Lives:        p.Lives,
				Emoji:        p.Emoji,
				Eliminated:   p.Eliminated,
				Disconnected: p.Disconnected,
				WantsRematch: p.WantsRematch,
			})
		}
		payload = types.PlayerList{Type: "playerList", Players: players}
	case engine.EvtYourDice:
		payload = types.YourDice{Type: "yourDice", Dice: ev.Dice}
	case engine.EvtTurnUpdate:
		payload = types.TurnUpdate{Type: "turnUpdate", CurrentTurn: ev.CurrentTurn}
	case engine.EvtBidPlaced:
		payload = types.BidPlaced{Type: "bidPlaced", Bid: wireBid(ev.Bid)}
	case engine.EvtBluffResult:
		payload = types.BluffResult{
			Type:           "bluffResult",
			Bid:            wireBid(ev.Bid),
			Result:         ev.Result,
			Matches:        ev.Matches,
			Loser:          ev.Loser,
			RemainingLives: ev.RemainingLives,
			Accuser:        ev.Accuser,
		}
	case engine.EvtEliminated:
		payload = types.Bare{Type: "eliminated"}
	case engine.EvtGameOver:
		payload = types.GameOver{Type: "gameOver", Winner: ev.Winner}
	case engine.EvtReturnToLobby:
		payload = types.Bare{Type: "returnToLobby"}
	case engine.EvtMatchCode:
		payload = types.MatchCode{Type: "matchCode", Code: ev.Code}
	default:
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// encodeError maps an engine error to the structured error frame the
// originating connection gets. Texts match what clients already display.
func encodeError(cmd engine.CommandType, err error) []byte {
	msgType := "error"
	var text string

	switch {
	case errors.Is(err, engine.ErrNameTaken):
		text = "Name already taken in this lobby."
	case errors.Is(err, engine.ErrNotHost):
		text = "Only the host can start the game."
	case errors.Is(err, engine.ErrPlayerCount):
		text = "You need 2 to 4 players to start the game."
	case errors.Is(err, engine.ErrNotYourTurn):
		if cmd == engine.CmdCallBluff {
			text = "It's not your turn to call bluff."
		} else {
			text = "It's not your turn."
		}
	case errors.Is(err, engine.ErrBidTooLow):
		text = "Invalid bid. Must increase quantity or face."
	case errors.Is(err, engine.ErrColorUnavailable):
		msgType = "colorError"
		text = "Color is invalid or already taken."
	default:
		text = err.Error()
	}

	data, _ := json.Marshal(types.Notification{Type: msgType, Message: text})
	return data
}

func wireBid(b *engine.Bid) types.Bid {
	if b == nil {
		return types.Bid{}
	}
	return types.Bid{Player: b.Player, Quantity: b.Quantity, Face: b.Face}
}

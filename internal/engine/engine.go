package engine

import (
	"fmt"
	"strings"

	"github.com/bluffbox/liars-dice-backend/internal/dice"
)

const (
	StartingLives = 2
	HandSize      = 5
	MinPlayers    = 2
	MaxPlayers    = 4
)

// Bid is a claim of at least Quantity dice showing Face across all live
// hands, ones wild. At most one bid is outstanding per lobby; it is
// replaced or cleared, never mutated.
type Bid struct {
	Player   string
	Quantity int
	Face     int
}

// Game is the full state of one lobby. It is owned by a single lobby
// actor goroutine, so nothing here is synchronized.
type Game struct {
	Code        string
	Roster      []*Player // join order
	HostID      string
	TurnOrder   []string
	TurnIndex   int
	LastBid     *Bid
	RoundNumber int
	Started     bool

	roll   *dice.Roller
	joined int // total joins ever, drives emoji assignment
}

// NewGame creates an empty lobby state.
func NewGame(code string, roller *dice.Roller) *Game {
	if roller == nil {
		roller = dice.New(nil)
	}
	return &Game{
		Code:        code,
		Roster:      []*Player{},
		TurnOrder:   []string{},
		RoundNumber: 1,
		roll:        roller,
	}
}

type CommandType string

const (
	CmdJoin        CommandType = "join"
	CmdStartGame   CommandType = "startGame"
	CmdChooseColor CommandType = "chooseColor"
	CmdBid         CommandType = "bid"
	CmdCallBluff   CommandType = "callBluff"
	CmdToggleReady CommandType = "toggleReady"
	CmdPlayAgain   CommandType = "playAgain"
	CmdLeave       CommandType = "leave"
)

// Command is one inbound operation. Actor is the acting participant's id
// (for CmdJoin it is the requested display name).
type Command struct {
	Type     CommandType
	Actor    string
	Color    string
	Quantity int
	Face     int
}

// Apply runs one command against the game and returns the events to emit.
// On error the game state is unchanged and the caller reports the error to
// the acting connection only.
func Apply(g *Game, cmd Command) ([]Event, error) {
	switch cmd.Type {
	case CmdJoin:
		return g.join(cmd.Actor)
	case CmdStartGame:
		return g.startGame(cmd.Actor)
	case CmdChooseColor:
		return g.chooseColor(cmd.Actor, cmd.Color)
	case CmdBid:
		return g.placeBid(cmd.Actor, cmd.Quantity, cmd.Face)
	case CmdCallBluff:
		return g.callBluff(cmd.Actor)
	case CmdToggleReady:
		return g.toggleReady(cmd.Actor)
	case CmdPlayAgain:
		return g.playAgain(cmd.Actor)
	case CmdLeave:
		return g.disconnect(cmd.Actor)
	default:
		return nil, ErrUnsupportedCommand
	}
}

func (g *Game) startGame(actor string) ([]Event, error) {
	if actor != g.HostID {
		return nil, ErrNotHost
	}
	if len(g.Roster) < MinPlayers || len(g.Roster) > MaxPlayers {
		return nil, ErrPlayerCount
	}

	g.TurnOrder = make([]string, 0, len(g.Roster))
	for _, p := range g.Roster {
		g.TurnOrder = append(g.TurnOrder, p.ID)
	}
	g.TurnIndex = g.roll.Intn(len(g.TurnOrder))
	g.RoundNumber = 1
	g.LastBid = nil
	g.Started = true

	events := []Event{}
	for _, p := range g.Roster {
		p.Dice = g.roll.Hand(HandSize)
		events = append(events, Event{Type: EvtYourDice, To: p.ID, Dice: p.Dice})
	}

	events = append(events, Event{
		Type:    EvtStartGame,
		Message: fmt.Sprintf("Game starting with %s!", strings.Join(g.TurnOrder, ", ")),
	})
	events = append(events, g.AnnounceTurn()...)
	return events, nil
}

func (g *Game) placeBid(actor string, quantity, face int) ([]Event, error) {
	if !g.Started {
		return nil, nil
	}
	if g.currentTurnID() != actor {
		return nil, ErrNotYourTurn
	}

	// Strict lexicographic increase on (quantity, face); a first bid in a
	// round is always accepted.
	if last := g.LastBid; last != nil {
		valid := quantity > last.Quantity ||
			(quantity == last.Quantity && face > last.Face)
		if !valid {
			return nil, ErrBidTooLow
		}
	}

	g.LastBid = &Bid{Player: actor, Quantity: quantity, Face: face}
	g.advance()

	events := []Event{{Type: EvtBidPlaced, Bid: g.LastBid}}
	events = append(events, g.AnnounceTurn()...)
	return events, nil
}

func (g *Game) callBluff(actor string) ([]Event, error) {
	if g.LastBid == nil {
		return nil, nil
	}
	if g.currentTurnID() != actor {
		return nil, ErrNotYourTurn
	}

	bid := g.LastBid
	bidder := g.playerByID(bid.Player)
	if bidder == nil {
		// The bidder was removed from the roster; their claim left with
		// them and there is nothing to resolve.
		g.LastBid = nil
		return nil, nil
	}
	accuser := g.playerByID(actor)

	matches := g.countMatches(bid.Face)
	bidIsTrue := matches >= bid.Quantity

	result := "bluff"
	loser := bidder
	if bidIsTrue {
		result = "valid"
		loser = accuser
	}
	loser.Lives--

	events := []Event{{
		Type:           EvtBluffResult,
		Bid:            bid,
		Result:         result,
		Matches:        matches,
		Loser:          loser.ID,
		RemainingLives: loser.Lives,
		Accuser:        accuser.ID,
	}}

	for _, p := range g.Roster {
		if p.Lives <= 0 && !p.Eliminated {
			p.Eliminated = true
			events = append(events, Event{Type: EvtEliminated, To: p.ID})
		}
	}

	events = append(events, g.playerListEvent())
	events = append(events, g.checkWinner()...)

	g.LastBid = nil
	g.rebuildAfterElimination(loser.ID)

	// Fresh hands for everyone still in the round; everyone else's dice
	// are cleared so they never count toward a later bid.
	for _, p := range g.Roster {
		if !p.Eliminated && !p.Disconnected {
			p.Dice = g.roll.Hand(HandSize)
			events = append(events, Event{Type: EvtYourDice, To: p.ID, Dice: p.Dice})
		} else {
			p.Dice = []int{}
		}
	}

	// The next turn announcement is deferred so clients can animate the
	// reveal; the lobby owns the timer.
	events = append(events, Event{Type: EvtDeferTurnReveal})
	return events, nil
}

// countMatches counts, across all eligible hands, every die showing the
// bid face or a wild one.
func (g *Game) countMatches(face int) int {
	matches := 0
	for _, p := range g.Roster {
		if p.Eliminated || p.Disconnected {
			continue
		}
		for _, die := range p.Dice {
			if die == face || die == 1 {
				matches++
			}
		}
	}
	return matches
}

func (g *Game) playerByID(id string) *Player {
	for _, p := range g.Roster {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (g *Game) playerListEvent() Event {
	players := make([]PlayerInfo, 0, len(g.Roster))
	for _, p := range g.Roster {
		players = append(players, PlayerInfo{
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
	return Event{Type: EvtPlayerList, Players: players}
}

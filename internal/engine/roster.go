package engine

import (
	"fmt"
	"slices"
)

// Colors is the fixed palette a player may claim; each is unique within
// a lobby.
var Colors = []string{"cyan", "green", "pink", "purple", "blue", "teal"}

var emojiPool = []string{"🎲", "🦊", "🐍", "🐙", "🐸", "🐧", "🦉", "🐯", "🐝", "🐺"}

// Player is one named participant in a lobby, tied to at most one live
// connection at a time.
type Player struct {
	ID           string // display name, unique within the lobby
	Color        string
	Emoji        string
	Dice         []int
	Lives        int
	Ready        bool
	Eliminated   bool
	Disconnected bool
	WantsRematch bool
}

func (g *Game) join(name string) ([]Event, error) {
	for _, p := range g.Roster {
		if p.ID == name {
			return nil, ErrNameTaken
		}
	}

	g.Roster = append(g.Roster, &Player{
		ID:           name,
		Emoji:        emojiPool[g.joined%len(emojiPool)],
		Dice:         []int{},
		Lives:        StartingLives,
		WantsRematch: true,
	})
	g.joined++
	if g.HostID == "" {
		g.HostID = name
	}

	return []Event{
		{Type: EvtNotification, Message: fmt.Sprintf("%s has joined the game.", name)},
		g.playerListEvent(),
	}, nil
}

func (g *Game) chooseColor(actor, color string) ([]Event, error) {
	if !slices.Contains(Colors, color) {
		return nil, ErrColorUnavailable
	}
	for _, p := range g.Roster {
		if p.Color == color {
			return nil, ErrColorUnavailable
		}
	}

	p := g.playerByID(actor)
	if p == nil {
		return nil, nil
	}
	p.Color = color
	return []Event{g.playerListEvent()}, nil
}

func (g *Game) toggleReady(actor string) ([]Event, error) {
	p := g.playerByID(actor)
	if p == nil {
		return nil, nil
	}
	p.Ready = !p.Ready
	return []Event{g.playerListEvent()}, nil
}

// playAgain purges participants who stayed disconnected through the last
// round, resets the caller for a rematch, and sends them back to the
// lobby screen.
func (g *Game) playAgain(actor string) ([]Event, error) {
	g.Roster = slices.DeleteFunc(g.Roster, func(p *Player) bool {
		return p.Disconnected
	})
	if g.playerByID(g.HostID) == nil && len(g.Roster) > 0 {
		g.HostID = g.Roster[0].ID
	}

	p := g.playerByID(actor)
	if p != nil {
		p.Ready = false
		p.Lives = StartingLives
		p.Eliminated = false
		p.WantsRematch = true
	}

	return []Event{
		{Type: EvtReturnToLobby, To: actor},
		g.playerListEvent(),
	}, nil
}

// disconnect is the close-of-connection transition. It is not an error:
// the player is marked disconnected first so turn and winner bookkeeping
// can still see them, then removed outright only if the game has not
// started or they are not coming back.
func (g *Game) disconnect(actor string) ([]Event, error) {
	p := g.playerByID(actor)
	if p == nil {
		return nil, nil
	}

	wasHost := actor == g.HostID
	// Captured now: the winner check below clears rematch flags lobby-wide,
	// and the removal decision goes by what the leaver wanted going in.
	intendsReturn := p.WantsRematch
	p.Disconnected = true

	events := []Event{}
	winnerChecked := false
	if g.Started && len(g.TurnOrder) > 0 && g.currentTurnID() == actor {
		if len(g.eligible()) == 1 {
			events = append(events, g.checkWinner()...)
			winnerChecked = true
		} else {
			g.advance()
			events = append(events, Event{Type: EvtTurnUpdate, CurrentTurn: g.currentTurnID()})
		}
	}

	if !g.Started || !intendsReturn {
		g.Roster = slices.DeleteFunc(g.Roster, func(q *Player) bool {
			return q.ID == actor
		})
	}

	if g.Started && !winnerChecked {
		events = append(events, g.checkWinner()...)
	}

	if wasHost {
		g.HostID = ""
		for _, q := range g.Roster {
			if !q.Disconnected {
				g.HostID = q.ID
				break
			}
		}
		if g.HostID != "" {
			events = append(events,
				Event{Type: EvtNotification, Message: fmt.Sprintf("%s is now the host.", g.HostID)},
				Event{Type: EvtMatchCode, To: g.HostID, Code: g.Code},
			)
		}
	}

	events = append(events, g.playerListEvent())
	return events, nil
}

// eligible returns every player still in the running: neither eliminated
// nor disconnected.
func (g *Game) eligible() []*Player {
	alive := []*Player{}
	for _, p := range g.Roster {
		if !p.Eliminated && !p.Disconnected {
			alive = append(alive, p)
		}
	}
	return alive
}

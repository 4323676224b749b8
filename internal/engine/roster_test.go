package engine

import (
	"errors"
	"testing"
)

func TestChooseColor(t *testing.T) {
	cases := []struct {
		name    string
		setup   func(g *Game)
		actor   string
		color   string
		wantErr bool
	}{
		{name: "palette color is assigned", actor: "Alice", color: "cyan"},
		{name: "color outside the palette", actor: "Alice", color: "mauve", wantErr: true},
		{
			name:    "color already claimed",
			setup:   func(g *Game) { g.playerByID("Bob").Color = "pink" },
			actor:   "Alice",
			color:   "pink",
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGame(t, "Alice", "Bob")
			if tc.setup != nil {
				tc.setup(g)
			}
			events, err := Apply(g, Command{Type: CmdChooseColor, Actor: tc.actor, Color: tc.color})
			if tc.wantErr {
				if !errors.Is(err, ErrColorUnavailable) {
					t.Fatalf("want ErrColorUnavailable, got %v", err)
				}
				if g.playerByID(tc.actor).Color != "" {
					t.Fatalf("failed choice must not assign")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if g.playerByID(tc.actor).Color != tc.color {
				t.Fatalf("color not assigned")
			}
			if !ContainsEvent(events, EvtPlayerList) {
				t.Fatalf("expected roster broadcast")
			}
		})
	}
}

func TestToggleReady(t *testing.T) {
	g := newTestGame(t, "Alice", "Bob")

	if _, err := Apply(g, Command{Type: CmdToggleReady, Actor: "Alice"}); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !g.playerByID("Alice").Ready {
		t.Fatalf("want ready after first toggle")
	}
	if _, err := Apply(g, Command{Type: CmdToggleReady, Actor: "Alice"}); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if g.playerByID("Alice").Ready {
		t.Fatalf("want not ready after second toggle")
	}
}

func TestDisconnectBeforeStartRemoves(t *testing.T) {
	g := newTestGame(t, "Alice", "Bob")
	events, err := Apply(g, Command{Type: CmdLeave, Actor: "Bob"})
	if err != nil {
		t.Fatalf("leave: %v", err)
	}
	if len(g.Roster) != 1 || g.playerByID("Bob") != nil {
		t.Fatalf("pre-start leave must remove from roster: %v", g.Roster)
	}
	if !ContainsEvent(events, EvtPlayerList) {
		t.Fatalf("expected roster broadcast")
	}
}

func TestDisconnectMidGameRetains(t *testing.T) {
	g := startedGame(t, "Alice", "Bob", "Carol")
	// Pick someone who is not on turn so only the roster flags move.
	var gone string
	for _, p := range g.Roster {
		if p.ID != g.TurnOrder[g.TurnIndex] {
			gone = p.ID
			break
		}
	}
	holder := g.TurnOrder[g.TurnIndex]

	events, err := Apply(g, Command{Type: CmdLeave, Actor: gone})
	if err != nil {
		t.Fatalf("leave: %v", err)
	}

	p := g.playerByID(gone)
	if p == nil || !p.Disconnected {
		t.Fatalf("mid-game leave must retain the player, marked disconnected")
	}
	if g.TurnOrder[g.TurnIndex] != holder {
		t.Fatalf("turn must not move when a bystander leaves")
	}
	if ContainsEvent(events, EvtGameOver) {
		t.Fatalf("two eligible players remain; no winner yet")
	}

	// Their slot is skipped from now on.
	if _, err := Apply(g, Command{Type: CmdBid, Actor: holder, Quantity: 1, Face: 2}); err != nil {
		t.Fatalf("bid: %v", err)
	}
	if got := g.TurnOrder[g.TurnIndex]; got == gone {
		t.Fatalf("skip logic selected a disconnected player")
	}
}

func TestDisconnectedPlayerCannotWin(t *testing.T) {
	g := startedGame(t, "Alice", "Bob", "Carol")
	holder := g.TurnOrder[g.TurnIndex]
	var gone string
	for _, p := range g.Roster {
		if p.ID != holder {
			gone = p.ID
			break
		}
	}
	if _, err := Apply(g, Command{Type: CmdLeave, Actor: gone}); err != nil {
		t.Fatalf("leave: %v", err)
	}

	// Finish the round between the two still connected: the current
	// holder bids big, the other calls, and the holder is eliminated.
	var other string
	for _, p := range g.eligible() {
		if p.ID != holder {
			other = p.ID
		}
	}
	g.playerByID(holder).Lives = 1
	for _, p := range g.Roster {
		p.Dice = []int{2, 2, 2, 2, 2}
	}
	if _, err := Apply(g, Command{Type: CmdBid, Actor: holder, Quantity: 20, Face: 6}); err != nil {
		t.Fatalf("bid: %v", err)
	}
	events, err := Apply(g, Command{Type: CmdCallBluff, Actor: other})
	if err != nil {
		t.Fatalf("callBluff: %v", err)
	}

	over, ok := firstEvent(events, EvtGameOver)
	if !ok {
		t.Fatalf("expected gameOver, got %+v", events)
	}
	if over.Winner != other {
		t.Fatalf("winner must be the surviving connected player, got %s", over.Winner)
	}
	if over.Winner == gone {
		t.Fatalf("a disconnected player must never be declared winner")
	}
}

func TestDisconnectOnTurnAdvances(t *testing.T) {
	g := startedGame(t, "Alice", "Bob", "Carol")
	holder := g.TurnOrder[g.TurnIndex]

	events, err := Apply(g, Command{Type: CmdLeave, Actor: holder})
	if err != nil {
		t.Fatalf("leave: %v", err)
	}

	turn, ok := firstEvent(events, EvtTurnUpdate)
	if !ok {
		t.Fatalf("expected the turn to advance, got %+v", events)
	}
	if turn.CurrentTurn == holder {
		t.Fatalf("turn advanced onto the leaver")
	}
	if ContainsEvent(events, EvtGameOver) {
		t.Fatalf("two eligible players remain; no winner yet")
	}
}

func TestDisconnectOnTurnDeclaresLastPlayerWinner(t *testing.T) {
	g := startedGame(t, "Alice", "Bob")
	holder := g.TurnOrder[g.TurnIndex]
	other := g.TurnOrder[(g.TurnIndex+1)%2]

	events, err := Apply(g, Command{Type: CmdLeave, Actor: holder})
	if err != nil {
		t.Fatalf("leave: %v", err)
	}

	over, ok := firstEvent(events, EvtGameOver)
	if !ok || over.Winner != other {
		t.Fatalf("want gameOver for %s, got %+v", other, events)
	}
	overs := 0
	for _, ev := range events {
		if ev.Type == EvtGameOver {
			overs++
		}
	}
	if overs != 1 {
		t.Fatalf("winner must be declared once, got %d", overs)
	}
}

func TestHostReassignmentOnDisconnect(t *testing.T) {
	g := newTestGame(t, "Alice", "Bob", "Carol")

	events, err := Apply(g, Command{Type: CmdLeave, Actor: "Alice"})
	if err != nil {
		t.Fatalf("leave: %v", err)
	}

	if g.HostID != "Bob" {
		t.Fatalf("host must pass to the next roster entry, got %q", g.HostID)
	}
	codes := eventsTo(events, "Bob", EvtMatchCode)
	if len(codes) != 1 || codes[0].Code != "123456" {
		t.Fatalf("new host must be re-sent the lobby code, got %+v", codes)
	}
	note, ok := firstEvent(events, EvtNotification)
	if !ok || note.Message != "Bob is now the host." {
		t.Fatalf("expected new-host notice, got %+v", note)
	}

	// Only the host start rule follows the new assignment.
	if _, err := Apply(g, Command{Type: CmdStartGame, Actor: "Carol"}); !errors.Is(err, ErrNotHost) {
		t.Fatalf("Carol is not host, got %v", err)
	}
	if _, err := Apply(g, Command{Type: CmdStartGame, Actor: "Bob"}); err != nil {
		t.Fatalf("new host must be able to start: %v", err)
	}
}

func TestPlayAgainResetsAndPurges(t *testing.T) {
	g := startedGame(t, "Alice", "Bob")
	holder := g.TurnOrder[g.TurnIndex]
	other := g.TurnOrder[(g.TurnIndex+1)%2]

	// The holder walks away mid-round, ending the game; everyone's
	// rematch flags are now cleared.
	if _, err := Apply(g, Command{Type: CmdLeave, Actor: holder}); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if p := g.playerByID(other); p.WantsRematch {
		t.Fatalf("game over must clear rematch intent")
	}
	surviving := g.playerByID(other)
	surviving.Lives = 0
	surviving.Eliminated = true // worst case: the survivor also busted earlier bookkeeping

	events, err := Apply(g, Command{Type: CmdPlayAgain, Actor: other})
	if err != nil {
		t.Fatalf("playAgain: %v", err)
	}

	if g.playerByID(holder) != nil {
		t.Fatalf("stale disconnected players must be purged")
	}
	p := g.playerByID(other)
	if p.Lives != StartingLives || p.Eliminated || p.Ready || !p.WantsRematch {
		t.Fatalf("caller must be reset for a rematch: %+v", p)
	}
	if len(eventsTo(events, other, EvtReturnToLobby)) != 1 {
		t.Fatalf("caller must be sent back to the lobby screen")
	}
	if !ContainsEvent(events, EvtPlayerList) {
		t.Fatalf("expected roster broadcast")
	}
	if g.HostID != other {
		t.Fatalf("sole remaining player must hold host, got %q", g.HostID)
	}
}

func TestPlayAgainReassignsPurgedHost(t *testing.T) {
	g := startedGame(t, "Alice", "Bob", "Carol")
	host := g.HostID

	// The host goes dark but is still rostered, with the host field still
	// pointing at them, so the rematch purge has to move it.
	g.playerByID(host).Disconnected = true

	if _, err := Apply(g, Command{Type: CmdPlayAgain, Actor: "Bob"}); err != nil {
		t.Fatalf("playAgain: %v", err)
	}
	if g.playerByID(host) != nil {
		t.Fatalf("disconnected host must be purged")
	}
	if g.HostID != "Bob" {
		t.Fatalf("host must pass to the first remaining player, got %q", g.HostID)
	}
	if _, err := Apply(g, Command{Type: CmdStartGame, Actor: "Bob"}); err != nil {
		t.Fatalf("reassigned host must be able to start: %v", err)
	}
}

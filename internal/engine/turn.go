package engine

import "slices"

func (g *Game) currentTurnID() string {
	if len(g.TurnOrder) == 0 {
		return ""
	}
	return g.TurnOrder[g.TurnIndex]
}

func (g *Game) playerEligible(id string) bool {
	p := g.playerByID(id)
	return p != nil && !p.Eliminated && !p.Disconnected
}

// advance moves the turn to the next eligible player, wrapping around the
// turn order. Callers must run the winner check first: with fewer than two
// eligible players left the round is over, not somebody's turn.
func (g *Game) advance() {
	if len(g.TurnOrder) == 0 {
		return
	}
	for i := 0; i < len(g.TurnOrder); i++ {
		g.TurnIndex = (g.TurnIndex + 1) % len(g.TurnOrder)
		if g.playerEligible(g.TurnOrder[g.TurnIndex]) {
			return
		}
	}
}

// rebuildAfterElimination re-derives the turn order after a bluff
// resolution. Only eliminated players drop out; a disconnected player who
// still has lives keeps a slot, so their turn comes back around if they
// return within the round. The turn passes to whoever sits after the
// loser in the new order.
func (g *Game) rebuildAfterElimination(loserID string) {
	order := []string{}
	for _, p := range g.Roster {
		if !p.Eliminated {
			order = append(order, p.ID)
		}
	}
	g.TurnOrder = order
	if len(order) == 0 {
		g.TurnIndex = 0
		return
	}
	g.TurnIndex = (slices.Index(order, loserID) + 1) % len(order)
}

// AnnounceTurn skips the cursor forward past ineligible players, emits the
// turn notice, and re-runs the winner check. The lobby calls it directly
// when the bluff-reveal delay fires.
func (g *Game) AnnounceTurn() []Event {
	if len(g.TurnOrder) == 0 {
		return nil
	}

	for i := 0; i < len(g.TurnOrder); i++ {
		if g.playerEligible(g.TurnOrder[g.TurnIndex]) {
			break
		}
		g.TurnIndex = (g.TurnIndex + 1) % len(g.TurnOrder)
	}

	events := []Event{{Type: EvtTurnUpdate, CurrentTurn: g.currentTurnID()}}
	return append(events, g.checkWinner()...)
}

// checkWinner ends the round when exactly one player is neither
// eliminated nor disconnected. Safe to call redundantly: with zero or two
// or more eligible players it emits nothing.
func (g *Game) checkWinner() []Event {
	alive := g.eligible()
	if len(alive) != 1 {
		return nil
	}

	// The round is over: no bid is outstanding, so a later rematch purge
	// can never leave the bid pointing at a player who is gone.
	g.LastBid = nil
	for _, p := range g.Roster {
		p.WantsRematch = false
		p.Ready = false
	}

	return []Event{{Type: EvtGameOver, Winner: alive[0].ID}}
}

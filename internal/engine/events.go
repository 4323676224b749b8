package engine

type EventType string

const (
	EvtNotification  EventType = "notification"
	EvtPlayerList    EventType = "playerList"
	EvtYourDice      EventType = "yourDice"
	EvtStartGame     EventType = "startGame"
	EvtTurnUpdate    EventType = "turnUpdate"
	EvtBidPlaced     EventType = "bidPlaced"
	EvtBluffResult   EventType = "bluffResult"
	EvtEliminated    EventType = "eliminated"
	EvtGameOver      EventType = "gameOver"
	EvtReturnToLobby EventType = "returnToLobby"
	EvtMatchCode     EventType = "matchCode"

	// EvtDeferTurnReveal never reaches the wire: it tells the lobby to
	// schedule AnnounceTurn after the bluff-reveal delay.
	EvtDeferTurnReveal EventType = "deferTurnReveal"
)

// PlayerInfo is a value snapshot of one roster entry, taken at the moment
// the event is built so later mutations don't leak into it.
type PlayerInfo struct {
	ID           string
	Color        string
	Ready        bool
	Lives        int
	Emoji        string
	Eliminated   bool
	Disconnected bool
	WantsRematch bool
}

// Event is one state-change emission from Apply. An empty To means
// broadcast to the whole lobby; otherwise it is private to that player.
type Event struct {
	Type EventType
	To   string

	Message        string
	Players        []PlayerInfo
	Dice           []int
	CurrentTurn    string
	Bid            *Bid
	Result         string
	Matches        int
	Loser          string
	RemainingLives int
	Accuser        string
	Winner         string
	Code           string
}

// ContainsEvent reports whether any event in the slice has the given type.
func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

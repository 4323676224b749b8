package types

// ClientMessage is every inbound frame; Type picks which payload fields
// matter. Unknown types and unparsable frames get plain-text replies, not
// structured errors.
type ClientMessage struct {
	Type        string `json:"type"`
	Name        string `json:"name,omitempty"`
	LobbyID     string `json:"lobbyId,omitempty"`
	CreateLobby bool   `json:"createLobby,omitempty"`
	Color       string `json:"color,omitempty"`
	Quantity    int    `json:"quantity,omitempty"`
	Face        int    `json:"face,omitempty"`
}

type Player struct {
	ID           string `json:"id"`
	Color        string `json:"color"`
	Ready        bool   `json:"ready"`
	Lives        int    `json:"lives"`
	Emoji        string `json:"emoji"`
	Eliminated   bool   `json:"eliminated"`
	Disconnected bool   `json:"disconnected"`
	WantsRematch bool   `json:"wantsToPlayAgain"`
}

type Bid struct {
	Player   string `json:"player"`
	Quantity int    `json:"quantity"`
	Face     int    `json:"face"`
}

// Outbound messages, one struct per wire shape.

type Notification struct {
	Type    string `json:"type"` // "notification" | "error" | "colorError" | "startGame"
	Message string `json:"message"`
}

type PlayerList struct {
	Type    string   `json:"type"` // "playerList"
	Players []Player `json:"players"`
}

type YourDice struct {
	Type string `json:"type"` // "yourDice", sent privately
	Dice []int  `json:"dice"`
}

type TurnUpdate struct {
	Type        string `json:"type"` // "turnUpdate"
	CurrentTurn string `json:"currentTurn"`
}

type BidPlaced struct {
	Type string `json:"type"` // "bidPlaced"
	Bid  Bid    `json:"bid"`
}

type BluffResult struct {
	Type           string `json:"type"` // "bluffResult"
	Bid            Bid    `json:"bid"`
	Result         string `json:"result"` // "valid" | "bluff"
	Matches        int    `json:"matches"`
	Loser          string `json:"loser"`
	RemainingLives int    `json:"remainingLives"`
	Accuser        string `json:"accuser"`
}

type GameOver struct {
	Type   string `json:"type"` // "gameOver"
	Winner string `json:"winner"`
}

type MatchCode struct {
	Type string `json:"type"` // "matchCode", sent privately to a new host
	Code string `json:"code"`
}

// Bare is for payload-free privates: "eliminated", "returnToLobby".
type Bare struct {
	Type string `json:"type"`
}

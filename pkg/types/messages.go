package types

// Client -> Server
// join:
//   name: string
//   lobbyId: string
//   createLobby: boolean
//
// startGame: {}            (host only, 2-4 players)
//
// chooseColor:
//   color: "cyan" | "green" | "pink" | "purple" | "blue" | "teal"
//
// bid:
//   quantity: number       (strictly increasing, or same quantity + higher face)
//   face: number           (1-6)
//
// callBluff: {}            (current turn holder only; no-op without a bid)
//
// toggleReady: {}
//
// playAgain: {}

// Server -> Client
// notification:  { message: string }
// error:         { message: string }
// colorError:    { message: string }
// playerList:    { players: [{ id, color, ready, lives, emoji,
//                              eliminated, disconnected, wantsToPlayAgain }] }
// yourDice:      { dice: number[] }             (private)
// startGame:     { message: string }
// turnUpdate:    { currentTurn: string }
// bidPlaced:     { bid: { player, quantity, face } }
// bluffResult:   { bid, result: "valid"|"bluff", matches, loser,
//                  remainingLives, accuser }
// eliminated:    {}                             (private)
// gameOver:      { winner: string }
// returnToLobby: {}                             (private)
// matchCode:     { code: string }               (private, to the new host)

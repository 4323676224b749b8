package engine

import "errors"

var ErrNameTaken = errors.New("name already taken in this lobby")
var ErrNotHost = errors.New("only the host can start the game")
var ErrPlayerCount = errors.New("need 2 to 4 players to start the game")
var ErrNotYourTurn = errors.New("not your turn")
var ErrBidTooLow = errors.New("bid must increase quantity or face")
var ErrColorUnavailable = errors.New("color is invalid or already taken")
var ErrUnsupportedCommand = errors.New("unsupported command")

package network

import (
	"github.com/wfunc/minefield/grid"
	"github.com/wfunc/minefield/models"
)

// Inbound request events.
const (
	EventJoinRoom    = "joinRoom"
	EventPlaceBomb   = "placeBomb"
	EventMakeMove    = "makeMove"
	EventSendMessage = "sendMessage"
)

// EventAck carries a request's reply back to the caller.
const EventAck = "ack"

// Outbound broadcast events.
const (
	EventPlayerJoined = "playerJoined"
	EventRoomUpdate   = "roomUpdate"
	EventStartPlacing = "startPlacing"
	EventGameStarted  = "gameStarted"
	EventMoveResult   = "moveResult"
	EventGameOver     = "gameOver"
	EventPlayerLeft   = "playerLeft"
	EventNewMessage   = "newMessage"
	EventChatHistory  = "chatHistory"
)

type JoinRoomRequest struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
	Gender     string `json:"gender"`
}

type PlaceBombRequest struct {
	RoomID string     `json:"roomId"`
	Coord  grid.Coord `json:"coord"`
}

type MakeMoveRequest struct {
	RoomID string     `json:"roomId"`
	Coord  grid.Coord `json:"coord"`
}

type SendMessageRequest struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

// ErrorAck is the failure reply for any request.
type ErrorAck struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason"`
}

type JoinRoomAck struct {
	OK          bool `json:"ok"`
	PlayerIndex int  `json:"playerIndex"`
}

type PlaceBombAck struct {
	OK               bool       `json:"ok"`
	Coord            grid.Coord `json:"coord"`
	AllPlayersPlaced bool       `json:"allPlayersPlaced"`
	TurnIndex        *int       `json:"turnIndex,omitempty"`
}

type MakeMoveAck struct {
	OK     bool   `json:"ok"`
	Result string `json:"result"` // hit/safe
	Reward int    `json:"reward,omitempty"`
}

type SendMessageAck struct {
	OK bool `json:"ok"`
}

type RoomUpdateEvent struct {
	Players []models.PlayerInfo `json:"players"`
}

type GameStartedEvent struct {
	TurnIndex int `json:"turnIndex"`
}

// MoveResultEvent mirrors a resolved move to both players. NextTurn is null
// once the game is over.
type MoveResultEvent struct {
	By       int        `json:"by"`
	Coord    grid.Coord `json:"coord"`
	Hit      bool       `json:"hit"`
	Balances []int      `json:"balances"`
	NextTurn *int       `json:"nextTurn"`
}

type GameOverEvent struct {
	WinnerIndex int `json:"winnerIndex"`
}

package room

import "errors"

// Error is a rule violation reported back to the client through the ack
// payload. Reason is the wire-level code, never a human sentence.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return e.Reason }

var (
	ErrInvalidData        = &Error{Reason: "invalid_data"}
	ErrRoomFull           = &Error{Reason: "room_full"}
	ErrNameTaken          = &Error{Reason: "name_taken"}
	ErrInvalidState       = &Error{Reason: "invalid_state"}
	ErrInvalidCoordinates = &Error{Reason: "invalid_coordinates"}
	ErrBombAlreadyPlaced  = &Error{Reason: "bomb_already_placed"}
	ErrMaxBombsReached    = &Error{Reason: "max_bombs_reached"}
	ErrPlayerNotFound     = &Error{Reason: "player_not_found"}
	ErrNotYourTurn        = &Error{Reason: "not_your_turn"}
	ErrCellAlreadyOpened  = &Error{Reason: "cell_already_opened"}
	ErrRoomNotFound       = &Error{Reason: "room_not_found"}
)

// Reason extracts the wire reason code from err. Anything that is not a game
// rule violation is reported as a generic server error.
func Reason(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return "server_error"
}

package game

import "fmt"

// InvalidPlayerReason classifies membership failures
type InvalidPlayerReason string

const (
	ReasonEmptyUsername     InvalidPlayerReason = "empty_username"
	ReasonDuplicateUsername InvalidPlayerReason = "duplicate_username"
	ReasonLobbyFull         InvalidPlayerReason = "lobby_full"
	ReasonGameOngoing       InvalidPlayerReason = "game_ongoing"
)

// InvalidPlayerError is returned by membership operations. It is always
// surfaced to the originating caller as a structured failure, never to the
// rest of the session.
type InvalidPlayerError struct {
	Reason InvalidPlayerReason
}

func (e *InvalidPlayerError) Error() string {
	return fmt.Sprintf("invalid player: %s", e.Reason)
}

// Message returns the user-facing text for the failure
func (e *InvalidPlayerError) Message() string {
	switch e.Reason {
	case ReasonEmptyUsername:
		return "Username is required."
	case ReasonDuplicateUsername:
		return "Username already exists."
	case ReasonLobbyFull:
		return "The game is already full."
	case ReasonGameOngoing:
		return "A game is already in progress."
	default:
		return "Unknown error encountered."
	}
}

package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants for the client-server protocol
const (
	// Client to server messages
	MessageTypeEnterLobby     MessageType = "enter_lobby"
	MessageTypeToggleReady    MessageType = "toggle_ready"
	MessageTypeGetPlayerList  MessageType = "get_player_list"
	MessageTypeFinishTurn     MessageType = "finish_turn"
	MessageTypeGetGameStatus  MessageType = "get_game_status"
	MessageTypeGetHand        MessageType = "get_hand"
	MessageTypeGetScore       MessageType = "get_score"
	MessageTypeStartCountdown MessageType = "start_countdown"

	// Server to client messages
	MessageTypeLobbyJoined MessageType = "lobby_joined"
	MessageTypePlayerList  MessageType = "player_list"
	MessageTypeGameStarted MessageType = "game_started"
	MessageTypeGameStatus  MessageType = "game_status"
	MessageTypeHand        MessageType = "hand"
	MessageTypeCardPlayed  MessageType = "card_played"
	MessageTypeCountdown   MessageType = "countdown"
	MessageTypeScore       MessageType = "score"
	MessageTypeGameEnded   MessageType = "game_ended"
	MessageTypeError       MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

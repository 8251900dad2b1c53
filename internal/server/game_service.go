package server

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"sushidraft/internal/game"
)

// evictionGrace gives the final game_ended broadcast a moment to flush
// before member connections are closed
const evictionGrace = 250 * time.Millisecond

// GameService connects the WebSocket layer to the game session: inbound
// messages become session operations, session events become outbound
// messages.
type GameService struct {
	session *game.Session
	server  *Server
	logger  *log.Logger
}

// NewGameService creates the service and subscribes it to session events
func NewGameService(session *game.Session, server *Server, logger *log.Logger) *GameService {
	gs := &GameService{
		session: session,
		server:  server,
		logger:  logger.WithPrefix("game-service"),
	}
	session.Events().Subscribe(gs)
	return gs
}

// EnterLobby admits the connection's player into the session under the
// given username. Failures are reported back on the same connection only.
func (gs *GameService) EnterLobby(c *Connection, username string) {
	if c.Joined() {
		// Already in the session; a repeated join is ignored
		return
	}

	token, err := gs.session.AddPlayer(username, c.ID())
	if err != nil {
		message := "Unknown error encountered."
		var ipe *game.InvalidPlayerError
		if errors.As(err, &ipe) {
			message = ipe.Message()
		} else {
			gs.logger.Error("Unexpected join failure", "error", err, "conn", c.ID())
		}
		gs.sendTo(c.ID(), MessageTypeLobbyJoined, LobbyJoinedData{Success: false, Message: message})
		return
	}

	c.SetJoined(true)
	gs.sendTo(c.ID(), MessageTypeLobbyJoined, LobbyJoinedData{Success: true, SessionToken: token})
}

// ToggleReady flips the player's ready flag; may start the game
func (gs *GameService) ToggleReady(connID string) {
	gs.session.ToggleReady(connID)
}

// SendPlayerList sends the roster snapshot to one connection
func (gs *GameService) SendPlayerList(c *Connection) {
	gs.sendTo(c.ID(), MessageTypePlayerList, PlayerListDataFromGame(gs.session.PlayerList()))
}

// FinishTurn commits a card pick for the connection's player
func (gs *GameService) FinishTurn(connID string, cardID int) {
	gs.session.FinishTurn(connID, game.Card(cardID))
}

// SendGameStatus sends the game status to one connection, only while a
// game is ongoing
func (gs *GameService) SendGameStatus(c *Connection) {
	status, ok := gs.session.GameStatus()
	if !ok {
		return
	}
	gs.sendTo(c.ID(), MessageTypeGameStatus, GameStatusDataFromGame(status))
}

// SendHand sends the caller's current hand
func (gs *GameService) SendHand(c *Connection) {
	hand, ok := gs.session.HandOf(c.ID())
	if !ok {
		return
	}
	gs.sendTo(c.ID(), MessageTypeHand, HandData{Cards: cardsToInts(hand)})
}

// SendScores sends the current score snapshot, only while a game is
// ongoing
func (gs *GameService) SendScores(c *Connection) {
	snapshot, ok := gs.session.Scores()
	if !ok {
		return
	}
	gs.sendTo(c.ID(), MessageTypeScore, ScoreDataFromGame(snapshot))
}

// StartCountdown idempotently starts the per-turn timer
func (gs *GameService) StartCountdown() {
	gs.session.StartCountdown()
}

// HandleDisconnect removes the departed player from the session. Safe to
// call for connections that never joined.
func (gs *GameService) HandleDisconnect(connID string) {
	gs.session.RemovePlayer(connID)
}

// OnEvent implements game.Subscriber, translating session events into
// WebSocket messages
func (gs *GameService) OnEvent(e game.Event) {
	switch ev := e.(type) {
	case game.PlayerListEvent:
		gs.broadcast(MessageTypePlayerList, PlayerListDataFromGame(ev.Players))

	case game.GameStartedEvent:
		gs.broadcast(MessageTypeGameStarted, struct{}{})

	case game.GameStatusEvent:
		gs.broadcast(MessageTypeGameStatus, GameStatusDataFromGame(ev))

	case game.HandEvent:
		gs.sendTo(ev.PlayerID, MessageTypeHand, HandData{Cards: cardsToInts(ev.Hand)})

	case game.CardPlayedEvent:
		gs.broadcast(MessageTypeCardPlayed, CardPlayedData{PlayerID: ev.PlayerID})

	case game.CountdownEvent:
		gs.broadcast(MessageTypeCountdown, CountdownData{SecondsRemaining: ev.SecondsRemaining})

	case game.ScoreEvent:
		gs.broadcast(MessageTypeScore, ScoreDataFromGame(ev))

	case game.GameEndedEvent:
		gs.broadcast(MessageTypeGameEnded, GameEndedData{
			WinnerID:       ev.WinnerID,
			WinnerUsername: ev.WinnerUsername,
		})
		ids := ev.PlayerIDs
		time.AfterFunc(evictionGrace, func() {
			gs.server.CloseConnections(ids)
		})

	default:
		gs.logger.Warn("Unhandled session event", "type", e.EventType())
	}
}

func (gs *GameService) broadcast(mt MessageType, data interface{}) {
	msg, err := NewMessage(mt, data)
	if err != nil {
		gs.logger.Error("Failed to create message", "type", mt, "error", err)
		return
	}
	gs.server.Broadcast(msg)
}

func (gs *GameService) sendTo(connID string, mt MessageType, data interface{}) {
	msg, err := NewMessage(mt, data)
	if err != nil {
		gs.logger.Error("Failed to create message", "type", mt, "error", err)
		return
	}
	if err := gs.server.SendTo(connID, msg); err != nil {
		gs.logger.Debug("Failed to deliver message", "type", mt, "conn", connID, "error", err)
	}
}

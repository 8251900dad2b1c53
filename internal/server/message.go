package server

import (
	"encoding/json"
	"time"

	"sushidraft/internal/game"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type EnterLobbyData struct {
	Username string `json:"username"`
}

type FinishTurnData struct {
	CardID int `json:"cardId"`
}

// Server → Client Messages

type LobbyJoinedData struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	SessionToken string `json:"sessionToken,omitempty"`
}

type PlayerEntry struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Ready    bool   `json:"readyStatus"`
}

type PlayerListData struct {
	Players []PlayerEntry `json:"players"`
}

type PlayerStatusEntry struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	RoundPicks  []int  `json:"roundPicks"`
	HasSelected bool   `json:"hasSelected"`
}

type GameStatusData struct {
	Round   int                 `json:"round"`
	Players []PlayerStatusEntry `json:"players"`
}

type HandData struct {
	Cards []int `json:"cards"`
}

type CardPlayedData struct {
	PlayerID string `json:"playerId"`
}

type CountdownData struct {
	SecondsRemaining int `json:"secondsRemaining"`
}

type PlayerScoreEntry struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	RoundScores []*int `json:"roundScores"`
	RoundScore  int    `json:"roundScore"`
	TotalScore  int    `json:"totalScore"`
}

type ScoreData struct {
	Round  int                `json:"round"`
	Scores []PlayerScoreEntry `json:"scores"`
}

type GameEndedData struct {
	WinnerID       string `json:"winnerId"`
	WinnerUsername string `json:"winnerUsername"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Helper functions to convert between game types and message types

func cardsToInts(cards []game.Card) []int {
	ints := make([]int, len(cards))
	for i, c := range cards {
		ints[i] = int(c)
	}
	return ints
}

func PlayerListDataFromGame(players []game.PlayerInfo) PlayerListData {
	entries := make([]PlayerEntry, len(players))
	for i, p := range players {
		entries[i] = PlayerEntry{ID: p.ID, Username: p.Username, Ready: p.Ready}
	}
	return PlayerListData{Players: entries}
}

func GameStatusDataFromGame(status game.GameStatusEvent) GameStatusData {
	players := make([]PlayerStatusEntry, len(status.Players))
	for i, p := range status.Players {
		players[i] = PlayerStatusEntry{
			ID:          p.ID,
			Username:    p.Username,
			RoundPicks:  cardsToInts(p.RoundPicks),
			HasSelected: p.HasSelected,
		}
	}
	return GameStatusData{Round: status.Round, Players: players}
}

func ScoreDataFromGame(snapshot game.ScoreEvent) ScoreData {
	scores := make([]PlayerScoreEntry, len(snapshot.Scores))
	for i, ps := range snapshot.Scores {
		roundScores := make([]*int, game.NumRounds)
		copy(roundScores, ps.RoundTotals[:])
		scores[i] = PlayerScoreEntry{
			ID:          ps.ID,
			Username:    ps.Username,
			RoundScores: roundScores,
			RoundScore:  ps.RoundScore.Total,
			TotalScore:  ps.TotalScore,
		}
	}
	return ScoreData{Round: snapshot.Round, Scores: scores}
}

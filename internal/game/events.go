package game

import "sync"

// EventType represents a session event type with type safety
type EventType string

const (
	EventTypePlayerList  EventType = "player_list"
	EventTypeGameStarted EventType = "game_started"
	EventTypeGameStatus  EventType = "game_status"
	EventTypeHand        EventType = "hand"
	EventTypeCardPlayed  EventType = "card_played"
	EventTypeCountdown   EventType = "countdown"
	EventTypeScore       EventType = "score"
	EventTypeGameEnded   EventType = "game_ended"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event is anything the session publishes as play progresses. The
// transport layer subscribes and fans events out to clients.
type Event interface {
	EventType() EventType
}

// PlayerInfo is the public lobby view of a player
type PlayerInfo struct {
	ID       string
	Username string
	Ready    bool
}

// PlayerStatus is the public in-game view of a player. The pending card
// itself is never included, only whether one exists.
type PlayerStatus struct {
	ID          string
	Username    string
	RoundPicks  []Card
	HasSelected bool
}

// PlayerScore is one player's line in a score snapshot
type PlayerScore struct {
	ID          string
	Username    string
	RoundTotals [NumRounds]*int
	RoundScore  RoundScore
	TotalScore  int
}

// PlayerListEvent is published whenever lobby membership or readiness
// changes
type PlayerListEvent struct {
	Players []PlayerInfo
}

func (e PlayerListEvent) EventType() EventType { return EventTypePlayerList }

// GameStartedEvent is published once when the session leaves the lobby
type GameStartedEvent struct{}

func (e GameStartedEvent) EventType() EventType { return EventTypeGameStarted }

// GameStatusEvent is published after every turn resolution
type GameStatusEvent struct {
	Round   int
	Players []PlayerStatus
}

func (e GameStatusEvent) EventType() EventType { return EventTypeGameStatus }

// HandEvent carries one player's hand and is delivered to that player only
type HandEvent struct {
	PlayerID string
	Hand     []Card
}

func (e HandEvent) EventType() EventType { return EventTypeHand }

// CardPlayedEvent announces that a player committed a pick, without
// revealing which card
type CardPlayedEvent struct {
	PlayerID string
}

func (e CardPlayedEvent) EventType() EventType { return EventTypeCardPlayed }

// CountdownEvent is published on every countdown tick
type CountdownEvent struct {
	SecondsRemaining int
}

func (e CountdownEvent) EventType() EventType { return EventTypeCountdown }

// ScoreEvent is the score snapshot produced when a round completes, and on
// demand while a game is ongoing
type ScoreEvent struct {
	Round  int
	Scores []PlayerScore
}

func (e ScoreEvent) EventType() EventType { return EventTypeScore }

// GameEndedEvent is published after the final round, before the session
// resets to the lobby. PlayerIDs lists the members to evict.
type GameEndedEvent struct {
	WinnerID       string
	WinnerUsername string
	PlayerIDs      []string
}

func (e GameEndedEvent) EventType() EventType { return EventTypeGameEnded }

// Subscriber receives published events
type Subscriber interface {
	OnEvent(Event)
}

// EventBus fans session events out to subscribers
type EventBus struct {
	mu   sync.RWMutex
	subs []Subscriber
}

// NewEventBus creates an empty event bus
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a subscriber for all future events
func (b *EventBus) Subscribe(s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, s)
}

// Publish delivers the event to every subscriber in registration order
func (b *EventBus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.subs {
		s.OnEvent(e)
	}
}

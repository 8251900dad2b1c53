package game

import (
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"sushidraft/internal/sessionid"
)

// State is the session lifecycle state
type State string

const (
	// StateWaiting means the lobby is open, accepting joins and ready
	// toggles
	StateWaiting State = "WAITING"

	// StateOngoing means a game is in progress
	StateOngoing State = "ONGOING"
)

// Config holds the tunable parameters of a session
type Config struct {
	MinPlayers       int
	MaxPlayers       int
	CountdownSeconds int
}

// DefaultConfig returns the standard session parameters
func DefaultConfig() Config {
	return Config{
		MinPlayers:       2,
		MaxPlayers:       5,
		CountdownSeconds: 15,
	}
}

// Session is the state machine coordinating one live game: lobby
// membership, the three-round draft loop, turn resolution, scoring and the
// per-turn countdown. All exported methods serialize through one mutex, so
// events from different connections are processed one at a time to
// completion; the countdown callback re-enters through the same mutex.
type Session struct {
	mu     sync.Mutex
	cfg    Config
	logger *log.Logger
	clock  quartz.Clock
	rng    *rand.Rand
	events *EventBus

	id           string
	state        State
	players      []*Player
	currentRound int
	handsByRound [NumRounds][][]Card
	winner       *Player

	countdownActive    bool
	countdownRemaining int
	countdownTimer     *quartz.Timer
	countdownGen       uint64
}

// NewSession creates a session in the WAITING state with a fresh id
func NewSession(cfg Config, clock quartz.Clock, rng *rand.Rand, logger *log.Logger) *Session {
	return &Session{
		cfg:          cfg,
		logger:       logger.WithPrefix("session"),
		clock:        clock,
		rng:          rng,
		events:       NewEventBus(),
		id:           sessionid.Generate(),
		state:        StateWaiting,
		currentRound: 1,
	}
}

// Events returns the bus the session publishes on
func (s *Session) Events() *EventBus {
	return s.events
}

// ID returns the current session token. A new token is issued every time
// the session resets to WAITING.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// State returns the current lifecycle state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// AddPlayer admits a new player to the lobby and returns the session
// token. Fails with an InvalidPlayerError while a game is ongoing, when
// the username collides, or when the lobby is full.
func (s *Session) AddPlayer(username, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateOngoing {
		return "", &InvalidPlayerError{Reason: ReasonGameOngoing}
	}

	player, err := NewPlayer(username, id)
	if err != nil {
		return "", err
	}

	for _, p := range s.players {
		if p.Username == player.Username {
			return "", &InvalidPlayerError{Reason: ReasonDuplicateUsername}
		}
	}
	if len(s.players) >= s.cfg.MaxPlayers {
		return "", &InvalidPlayerError{Reason: ReasonLobbyFull}
	}

	s.players = append(s.players, player)
	s.logger.Info("Player joined", "username", player.Username, "id", player.ID, "players", len(s.players))
	s.publishPlayerListLocked()

	return s.id, nil
}

// RemovePlayer removes a player by connection id and returns the index it
// occupied, or -1 if the player was already gone. A removal that leaves a
// single mid-game player ends the game with that player as winner; a
// removal that leaves every remaining player with a pending card resolves
// the turn, so a departure can never block the others.
func (s *Session) RemovePlayer(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, p := range s.players {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return -1
	}

	removed := s.players[idx]
	s.players = append(s.players[:idx], s.players[idx+1:]...)
	for r := range s.handsByRound {
		if idx < len(s.handsByRound[r]) {
			s.handsByRound[r] = append(s.handsByRound[r][:idx], s.handsByRound[r][idx+1:]...)
		}
	}
	s.logger.Info("Player left", "username", removed.Username, "id", removed.ID, "players", len(s.players))

	if s.state != StateOngoing {
		s.publishPlayerListLocked()
		s.checkStartLocked()
		return idx
	}

	if len(s.players) == 1 && s.winner == nil {
		s.endGameLocked()
		return idx
	}
	if len(s.players) == 0 {
		s.resetLocked()
		return idx
	}

	s.publishStatusLocked()
	s.resolveTurnIfReadyLocked()
	return idx
}

// ToggleReady flips a lobby player's ready flag and starts the game once
// everyone is ready
func (s *Session) ToggleReady(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateWaiting {
		return
	}
	p := s.playerByIDLocked(id)
	if p == nil {
		return
	}

	p.ToggleReady()
	s.logger.Info("Ready status changed", "username", p.Username, "ready", p.Ready)
	s.publishPlayerListLocked()
	s.checkStartLocked()
}

// FinishTurn commits a card pick for the given player. Invalid picks (a
// card not in hand, or a pick already pending) are silently ignored.
func (s *Session) FinishTurn(id string, card Card) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOngoing {
		return
	}
	p := s.playerByIDLocked(id)
	if p == nil {
		return
	}
	if !p.SelectCard(card) {
		return
	}

	s.logger.Debug("Card selected", "username", p.Username, "card", card)
	s.events.Publish(CardPlayedEvent{PlayerID: p.ID})
	s.resolveTurnIfReadyLocked()
}

// StartCountdown starts the per-turn timer if one is not already running.
// Safe to call repeatedly; clients trigger it when the game view loads.
func (s *Session) StartCountdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOngoing {
		return
	}
	s.startCountdownLocked()
}

// PlayerList returns the current roster snapshot
func (s *Session) PlayerList() []PlayerInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playerListLocked()
}

// GameStatus returns the public game status, only while a game is ongoing
func (s *Session) GameStatus() (GameStatusEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOngoing {
		return GameStatusEvent{}, false
	}
	return s.statusLocked(), true
}

// HandOf returns the given player's current hand
func (s *Session) HandOf(id string) ([]Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.playerByIDLocked(id)
	if p == nil {
		return nil, false
	}
	hand := make([]Card, len(p.Hand()))
	copy(hand, p.Hand())
	return hand, true
}

// Scores returns the current score snapshot, only while a game is ongoing
func (s *Session) Scores() (ScoreEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOngoing {
		return ScoreEvent{}, false
	}
	return s.scoreSnapshotLocked(s.currentRound), true
}

func (s *Session) playerByIDLocked(id string) *Player {
	for _, p := range s.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// checkStartLocked transitions to ONGOING when at least MinPlayers are
// ready and nobody is unready
func (s *Session) checkStartLocked() {
	if s.state != StateWaiting {
		return
	}
	ready := 0
	for _, p := range s.players {
		if p.Ready {
			ready++
		}
	}
	if ready < s.cfg.MinPlayers || ready != len(s.players) {
		return
	}
	s.startGameLocked()
}

func (s *Session) startGameLocked() {
	deck := GenerateDeck()
	hands, err := PartitionIntoHands(deck, len(s.players), s.rng)
	if err != nil {
		// Unreachable while lobby bounds are enforced
		s.logger.Error("Failed to deal hands", "error", err, "players", len(s.players))
		return
	}

	s.state = StateOngoing
	s.currentRound = 1
	s.handsByRound = hands
	s.dealRoundLocked()

	s.logger.Info("Game started", "players", len(s.players), "session", s.id)
	s.events.Publish(GameStartedEvent{})
	s.publishStatusLocked()
	s.publishHandsLocked()
}

// dealRoundLocked loads the precomputed hands for the current round and
// resets per-round player state
func (s *Session) dealRoundLocked() {
	hands := s.handsByRound[s.currentRound-1]
	for i, p := range s.players {
		p.resetForRound()
		p.SetHand(hands[i])
	}
}

// resolveTurnIfReadyLocked fires turn resolution once every current player
// has a pending pick
func (s *Session) resolveTurnIfReadyLocked() {
	if len(s.players) == 0 {
		return
	}
	for _, p := range s.players {
		if !p.HasSelected() {
			return
		}
	}
	s.resolveTurnLocked()
}

// resolveTurnLocked reveals every pending pick, passes hands left by one
// position and advances the round when hands are exhausted
func (s *Session) resolveTurnLocked() {
	s.stopCountdownLocked()

	n := len(s.players)
	if n == 0 {
		return
	}

	hands := make([][]Card, n)
	for i, p := range s.players {
		p.RevealCard()
		hands[i] = p.Hand()
	}
	rotated := rotateHands(hands)
	for i, p := range s.players {
		p.SetHand(rotated[i])
	}

	s.advanceRoundLocked()

	if s.state != StateOngoing {
		return
	}
	s.publishStatusLocked()
	s.publishHandsLocked()
	s.startCountdownLocked()
}

// rotateHands shifts hands one position around the player order: each
// player's hand goes to their predecessor, the first wraps to the last
func rotateHands(hands [][]Card) [][]Card {
	n := len(hands)
	rotated := make([][]Card, n)
	for i := range hands {
		rotated[i] = hands[(i+1)%n]
	}
	return rotated
}

// advanceRoundLocked checks for round completion: every hand down to 0 or
// 1 cards. On completion it auto-plays lone cards, scores the round,
// publishes the snapshot and either deals the next round or ends the game.
func (s *Session) advanceRoundLocked() {
	for _, p := range s.players {
		if len(p.Hand()) > 1 {
			return
		}
	}

	for _, p := range s.players {
		p.autoPlayLastCard()
	}

	round := s.currentRound
	for _, p := range s.players {
		rs := ScoreRound(p.Picks())
		p.RoundScore = rs
		total := rs.Total
		p.RoundTotals[round-1] = &total
		p.TotalScore += rs.Total
	}
	s.logger.Info("Round complete", "round", round)
	s.events.Publish(s.scoreSnapshotLocked(round))

	s.currentRound++
	if s.currentRound > NumRounds {
		s.endGameLocked()
		return
	}
	s.dealRoundLocked()
}

// endGameLocked declares the winner, notifies members and resets the
// session back to an empty lobby with a fresh id
func (s *Session) endGameLocked() {
	winner := s.determineWinnerLocked()
	s.winner = winner

	ids := make([]string, len(s.players))
	for i, p := range s.players {
		ids[i] = p.ID
	}

	ev := GameEndedEvent{PlayerIDs: ids}
	if winner != nil {
		ev.WinnerID = winner.ID
		ev.WinnerUsername = winner.Username
		s.logger.Info("Game ended", "winner", winner.Username, "totalScore", winner.TotalScore)
	} else {
		s.logger.Info("Game ended", "winner", "none")
	}
	s.events.Publish(ev)

	s.resetLocked()
}

// determineWinnerLocked picks the player with the greatest total score.
// Ties go to the earlier join order; the tie-break is explicit so results
// are reproducible.
func (s *Session) determineWinnerLocked() *Player {
	var best *Player
	for _, p := range s.players {
		if best == nil || p.TotalScore > best.TotalScore {
			best = p
		}
	}
	return best
}

// resetLocked returns the session to WAITING with cleared membership and a
// newly issued token
func (s *Session) resetLocked() {
	s.stopCountdownLocked()
	for _, p := range s.players {
		p.resetForLobby()
	}
	s.players = nil
	s.currentRound = 1
	s.handsByRound = [NumRounds][][]Card{}
	s.winner = nil
	s.state = StateWaiting
	s.id = sessionid.Generate()
	s.logger.Info("Session reset", "session", s.id)
}

// startCountdownLocked arms the per-turn timer. A no-op while one is
// already running; only one countdown may be live at a time.
func (s *Session) startCountdownLocked() {
	if s.countdownActive {
		return
	}
	if s.cfg.CountdownSeconds <= 0 {
		return
	}
	s.countdownActive = true
	s.countdownRemaining = s.cfg.CountdownSeconds
	s.countdownGen++
	gen := s.countdownGen
	s.countdownTimer = s.clock.AfterFunc(time.Second, func() { s.countdownTick(gen) })
}

// stopCountdownLocked tears the timer down. Stop is not enough on its own:
// a timer that already fired and is waiting on the mutex survives it, so
// the generation is bumped to invalidate any such tick in flight.
func (s *Session) stopCountdownLocked() {
	if s.countdownTimer != nil {
		s.countdownTimer.Stop()
		s.countdownTimer = nil
	}
	s.countdownActive = false
	s.countdownGen++
}

// countdownTick fires once a second while a countdown is live. At zero it
// forces a random selection for every player still undecided and resolves
// the turn.
func (s *Session) countdownTick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.countdownGen {
		// The countdown this tick belonged to was stopped while the tick
		// waited for the lock; a fresh one may already be live
		return
	}

	s.countdownRemaining--
	s.events.Publish(CountdownEvent{SecondsRemaining: s.countdownRemaining})

	if s.countdownRemaining > 0 {
		s.countdownTimer = s.clock.AfterFunc(time.Second, func() { s.countdownTick(gen) })
		return
	}

	s.logger.Info("Countdown expired, forcing selections", "round", s.currentRound)
	s.countdownActive = false
	s.forceSelectionsLocked()
	s.resolveTurnLocked()
}

// forceSelectionsLocked assigns a uniformly random card from their own
// hand to every player without a pending pick, through the normal
// selection path
func (s *Session) forceSelectionsLocked() {
	for _, p := range s.players {
		if p.HasSelected() || len(p.Hand()) == 0 {
			continue
		}
		card := p.Hand()[s.rng.IntN(len(p.Hand()))]
		if p.SelectCard(card) {
			s.events.Publish(CardPlayedEvent{PlayerID: p.ID})
		}
	}
}

func (s *Session) playerListLocked() []PlayerInfo {
	players := make([]PlayerInfo, len(s.players))
	for i, p := range s.players {
		players[i] = PlayerInfo{ID: p.ID, Username: p.Username, Ready: p.Ready}
	}
	return players
}

func (s *Session) statusLocked() GameStatusEvent {
	players := make([]PlayerStatus, len(s.players))
	for i, p := range s.players {
		picks := make([]Card, len(p.Picks()))
		copy(picks, p.Picks())
		players[i] = PlayerStatus{
			ID:          p.ID,
			Username:    p.Username,
			RoundPicks:  picks,
			HasSelected: p.HasSelected(),
		}
	}
	return GameStatusEvent{Round: s.currentRound, Players: players}
}

func (s *Session) scoreSnapshotLocked(round int) ScoreEvent {
	scores := make([]PlayerScore, len(s.players))
	for i, p := range s.players {
		scores[i] = PlayerScore{
			ID:          p.ID,
			Username:    p.Username,
			RoundTotals: p.RoundTotals,
			RoundScore:  p.RoundScore,
			TotalScore:  p.TotalScore,
		}
	}
	return ScoreEvent{Round: round, Scores: scores}
}

func (s *Session) publishPlayerListLocked() {
	s.events.Publish(PlayerListEvent{Players: s.playerListLocked()})
}

func (s *Session) publishStatusLocked() {
	s.events.Publish(s.statusLocked())
}

func (s *Session) publishHandsLocked() {
	for _, p := range s.players {
		hand := make([]Card, len(p.Hand()))
		copy(hand, p.Hand())
		s.events.Publish(HandEvent{PlayerID: p.ID, Hand: hand})
	}
}

package game

import "strings"

// Player represents one connected participant. Identity is the opaque
// connection id assigned by the transport; the username is chosen by the
// player and unique within the session.
type Player struct {
	ID       string
	Username string
	Ready    bool

	hand       []Card
	pending    Card
	hasPending bool
	picks      []Card

	// Per-category scores for the round in progress, reset each round
	RoundScore RoundScore

	// History of completed round totals, indexed by round-1. A nil entry
	// means the round has not been scored yet.
	RoundTotals [NumRounds]*int

	// TotalScore accumulates across rounds and never resets mid-game
	TotalScore int
}

// NewPlayer creates a player with the given username and connection id.
// The username is trimmed; an empty result is rejected.
func NewPlayer(username, id string) (*Player, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, &InvalidPlayerError{Reason: ReasonEmptyUsername}
	}
	return &Player{
		ID:       id,
		Username: username,
	}, nil
}

// ToggleReady flips the ready flag. Only meaningful before the game
// starts; the session enforces that.
func (p *Player) ToggleReady() {
	p.Ready = !p.Ready
}

// SelectCard commits a card as the player's pending pick for the current
// turn. It succeeds only if nothing is pending and the card is actually in
// the hand; the card is then removed from the hand. Invalid selections
// return false without error: duplicate or stale picks are expected under
// client races and must not surface as faults.
func (p *Player) SelectCard(card Card) bool {
	if p.hasPending {
		return false
	}
	for i, c := range p.hand {
		if c == card {
			p.hand = append(p.hand[:i], p.hand[i+1:]...)
			p.pending = card
			p.hasPending = true
			return true
		}
	}
	return false
}

// RevealCard moves the pending pick into the player's round picks. No-op
// when nothing is pending.
func (p *Player) RevealCard() {
	if !p.hasPending {
		return
	}
	p.picks = append(p.picks, p.pending)
	p.pending = 0
	p.hasPending = false
}

// HasSelected reports whether the player has a pending pick this turn
func (p *Player) HasSelected() bool {
	return p.hasPending
}

// Hand returns the player's current hand
func (p *Player) Hand() []Card {
	return p.hand
}

// SetHand replaces the player's hand, typically after a deal or rotation
func (p *Player) SetHand(hand []Card) {
	p.hand = hand
}

// Picks returns the cards revealed so far this round
func (p *Player) Picks() []Card {
	return p.picks
}

// autoPlayLastCard moves a lone remaining card straight into the round
// picks. This is the terminal move at the end of a round and bypasses the
// pending-selection mechanism.
func (p *Player) autoPlayLastCard() {
	if len(p.hand) != 1 {
		return
	}
	p.picks = append(p.picks, p.hand[0])
	p.hand = nil
}

// resetForRound clears picks and per-round scores ahead of a new round
func (p *Player) resetForRound() {
	p.picks = nil
	p.pending = 0
	p.hasPending = false
	p.RoundScore = RoundScore{}
}

// resetForLobby returns the player to a pre-game state
func (p *Player) resetForLobby() {
	p.Ready = false
	p.hand = nil
	p.resetForRound()
	p.RoundTotals = [NumRounds]*int{}
	p.TotalScore = 0
}

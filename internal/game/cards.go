package game

import (
	"fmt"
	rand "math/rand/v2"
)

// Card identifies a card type. The numeric codes are part of the wire
// protocol: clients reference cards by these values.
type Card int

const (
	Sashimi  Card = 1
	Dumpling Card = 2
	Eel      Card = 3
	Tofu     Card = 4
)

// String returns a human-readable name for the card
func (c Card) String() string {
	switch c {
	case Sashimi:
		return "sashimi"
	case Dumpling:
		return "dumpling"
	case Eel:
		return "eel"
	case Tofu:
		return "tofu"
	default:
		return fmt.Sprintf("card(%d)", int(c))
	}
}

// CardTypes lists every card type in a deck
var CardTypes = []Card{Sashimi, Dumpling, Eel, Tofu}

const (
	// CopiesPerType is how many of each card type a deck contains
	CopiesPerType = 10

	// DeckSize is the total number of cards in a full deck
	DeckSize = CopiesPerType * 4

	// NumRounds is the number of rounds in a game
	NumRounds = 3
)

// handSizes maps player count to cards dealt per hand each round. The
// totals deliberately do not consume the full deck for 2-4 players;
// leftover cards are simply not dealt.
var handSizes = map[int]int{
	2: 10,
	3: 9,
	4: 8,
	5: 7,
}

// HandSize returns the per-player hand size for the given player count
func HandSize(playerCount int) (int, bool) {
	size, ok := handSizes[playerCount]
	return size, ok
}

// GenerateDeck builds an unshuffled deck of DeckSize cards, CopiesPerType
// of each type
func GenerateDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, ct := range CardTypes {
		for i := 0; i < CopiesPerType; i++ {
			deck = append(deck, ct)
		}
	}
	return deck
}

// Shuffle permutes the deck in place using a Knuth shuffle
func Shuffle(deck []Card, rng *rand.Rand) {
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// PartitionIntoHands deals three rounds of hands for the given player
// count. Each round reshuffles the full deck and slices it into contiguous
// non-overlapping chunks, assigned in player order.
func PartitionIntoHands(deck []Card, playerCount int, rng *rand.Rand) ([NumRounds][][]Card, error) {
	var rounds [NumRounds][][]Card

	size, ok := handSizes[playerCount]
	if !ok {
		return rounds, fmt.Errorf("unsupported player count: %d", playerCount)
	}

	for r := 0; r < NumRounds; r++ {
		Shuffle(deck, rng)
		hands := make([][]Card, playerCount)
		for p := 0; p < playerCount; p++ {
			hand := make([]Card, size)
			copy(hand, deck[p*size:(p+1)*size])
			hands[p] = hand
		}
		rounds[r] = hands
	}

	return rounds, nil
}

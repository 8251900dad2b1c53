package game

import (
	"errors"
	"testing"
)

func TestNewPlayerValidation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantName string
		wantErr  bool
	}{
		{"plain", "alice", "alice", false},
		{"trimmed", "  bob  ", "bob", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPlayer(tt.username, "conn-1")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got none")
				}
				var ipe *InvalidPlayerError
				if !errors.As(err, &ipe) || ipe.Reason != ReasonEmptyUsername {
					t.Errorf("expected EmptyUsername reason, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Username != tt.wantName {
				t.Errorf("username = %q, want %q", p.Username, tt.wantName)
			}
		})
	}
}

func TestSelectCard(t *testing.T) {
	p, _ := NewPlayer("alice", "conn-1")
	p.SetHand([]Card{Sashimi, Dumpling, Dumpling})

	if p.SelectCard(Tofu) {
		t.Error("selecting a card not in hand should fail")
	}
	if !p.SelectCard(Dumpling) {
		t.Fatal("selecting a held card should succeed")
	}
	if len(p.Hand()) != 2 {
		t.Errorf("hand size = %d after selection, want 2", len(p.Hand()))
	}
	if !p.HasSelected() {
		t.Error("player should have a pending card")
	}

	// Second selection without an intervening reveal must be a silent no-op
	if p.SelectCard(Sashimi) {
		t.Error("second selection should fail while a card is pending")
	}
	if len(p.Hand()) != 2 {
		t.Errorf("failed selection mutated the hand: size %d", len(p.Hand()))
	}
}

func TestRevealCard(t *testing.T) {
	p, _ := NewPlayer("alice", "conn-1")
	p.SetHand([]Card{Eel, Tofu})

	// Reveal with nothing pending is a no-op
	p.RevealCard()
	if len(p.Picks()) != 0 {
		t.Errorf("picks = %v before any selection", p.Picks())
	}

	p.SelectCard(Eel)
	p.RevealCard()

	if len(p.Picks()) != 1 || p.Picks()[0] != Eel {
		t.Errorf("picks = %v, want [eel]", p.Picks())
	}
	if p.HasSelected() {
		t.Error("pending slot should be cleared after reveal")
	}

	// Cleared pending slot allows the next selection
	if !p.SelectCard(Tofu) {
		t.Error("selection should succeed after reveal")
	}
}

func TestAutoPlayLastCard(t *testing.T) {
	p, _ := NewPlayer("alice", "conn-1")

	p.SetHand([]Card{Sashimi, Tofu})
	p.autoPlayLastCard()
	if len(p.Hand()) != 2 || len(p.Picks()) != 0 {
		t.Error("autoPlayLastCard should only fire on a one-card hand")
	}

	p.SetHand([]Card{Tofu})
	p.autoPlayLastCard()
	if len(p.Hand()) != 0 {
		t.Errorf("hand = %v after auto-play, want empty", p.Hand())
	}
	if len(p.Picks()) != 1 || p.Picks()[0] != Tofu {
		t.Errorf("picks = %v, want [tofu]", p.Picks())
	}
}

package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDeck(t *testing.T) {
	deck := New()

	assert.Equal(t, 52, deck.CardsLeft())

	assert.Equal(t, Card{Rank: 2, Suit: Clubs}, *deck.Cards[0])

	assert.Equal(t, Card{Rank: 14, Suit: Spades}, *deck.Cards[51])

	assert.Equal(t, "79441517e1184e0e3c37383d2f7bc54996872dd8", deck.HashCode())

	deck.Shuffle(1)
	shuffled := deck.HashCode()
	assert.NotEqual(t, "79441517e1184e0e3c37383d2f7bc54996872dd8", shuffled)
	assert.Equal(t, int64(1), deck.GetSeed())

	// same seed, same order
	deck2 := New()
	deck2.Shuffle(1)
	assert.Equal(t, shuffled, deck2.HashCode())

	deck2.Shuffle(2)
	assert.NotEqual(t, shuffled, deck2.HashCode())
}

func TestDeck_Shuffle_uniqueCards(t *testing.T) {
	deck := New()
	deck.Shuffle(0)

	seen := make(map[Card]bool)
	for _, card := range deck.Cards {
		seen[*card] = true
	}

	assert.Equal(t, 52, len(seen))
}

func TestDeck_Draw(t *testing.T) {
	deck := New()

	if !deck.CanDraw(52) {
		t.Errorf("expected CanDraw(52) to be true")
	}

	if deck.CanDraw(53) {
		t.Errorf("expected CanDraw(53) to be false")
	}

	for i := 0; i < 52; i++ {
		card, err := deck.Draw()
		if card == nil {
			t.Error("expected card, got nil")
		}

		if err != nil {
			t.Errorf("expected err to be nil, got %v", err)
		}
	}

	if deck.CanDraw(1) {
		t.Errorf("expected CanDraw(1) to be false")
	}

	card, err := deck.Draw()
	if card != nil {
		t.Errorf("expected card to be nil, got %#v", card)
	}

	if err != ErrEndOfDeck {
		t.Errorf("expected err to be ErrEndOfDeck, got %#v", err)
	}

	deck.Shuffle(0)
	if !deck.CanDraw(52) {
		t.Errorf("expected Shuffle() to reshuffle the deck")
	}
}

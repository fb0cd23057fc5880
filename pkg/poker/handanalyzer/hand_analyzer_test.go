package handanalyzer

import (
	"testing"

	"botpoker-server/pkg/deck"

	"github.com/stretchr/testify/assert"
)

func analyze(s string) *HandAnalyzer {
	return New(5, deck.CardsFromString(s))
}

func TestHandAnalyzer_GetHand(t *testing.T) {
	a := assert.New(t)

	a.Equal(RoyalFlush, analyze("14s,13s,12s,11s,10s,2c,3c").GetHand())
	a.Equal(StraightFlush, analyze("9s,8s,7s,6s,5s,14c,14d").GetHand())
	a.Equal(FourOfAKind, analyze("9s,9c,9d,9h,5s,14c,2d").GetHand())
	a.Equal(FullHouse, analyze("9s,9c,9d,5h,5s,14c,2d").GetHand())
	a.Equal(Flush, analyze("13s,11s,9s,7s,2s,14c,14d").GetHand())
	a.Equal(Straight, analyze("9s,8c,7d,6h,5s,14c,2d").GetHand())
	a.Equal(ThreeOfAKind, analyze("9s,9c,9d,6h,5s,14c,2d").GetHand())
	a.Equal(TwoPair, analyze("9s,9c,5d,5h,8s,14c,2d").GetHand())
	a.Equal(OnePair, analyze("9s,9c,6d,5h,8s,14c,2d").GetHand())
	a.Equal(HighCard, analyze("9s,10c,6d,5h,8s,14c,2d").GetHand())
}

func TestHandAnalyzer_wheel(t *testing.T) {
	a := assert.New(t)

	h := analyze("14s,2c,3d,4h,5s,9c,10d")
	a.Equal(Straight, h.GetHand())

	s, ok := h.GetStraight()
	a.True(ok)
	a.Equal(5, s)

	h = analyze("14s,2s,3s,4s,5s,9c,10d")
	a.Equal(StraightFlush, h.GetHand())
	sf, ok := h.GetStraightFlush()
	a.True(ok)
	a.Equal(5, sf)
}

func TestHandAnalyzer_GetFullHouse(t *testing.T) {
	a := assert.New(t)

	// two sets of trips; the lower trips make the pair
	fh, ok := analyze("9s,9c,9d,5h,5s,5c,14d").GetFullHouse()
	a.True(ok)
	a.Equal([]int{9, 5}, fh)

	// trips with a better natural pair
	fh, ok = analyze("5s,5c,5d,9h,9s,14c,2d").GetFullHouse()
	a.True(ok)
	a.Equal([]int{5, 9}, fh)

	_, ok = analyze("5s,5c,5d,9h,8s,14c,2d").GetFullHouse()
	a.False(ok)
}

func TestHandAnalyzer_GetStrength_ordering(t *testing.T) {
	a := assert.New(t)

	// strictly ascending strengths
	hands := []string{
		"9s,10c,6d,5h,8s,14c,2d", // ace high
		"9s,9c,6d,5h,8s,14c,2d",  // pair of nines
		"9s,9c,5d,5h,8s,14c,2d",  // two pair
		"9s,9c,9d,6h,5s,14c,2d",  // trips
		"9s,8c,7d,6h,5s,14c,2d",  // straight
		"13s,11s,9s,7s,2s,14c,14d", // flush
		"9s,9c,9d,5h,5s,14c,2d",  // full house
		"9s,9c,9d,9h,5s,14c,2d",  // quads
		"9s,8s,7s,6s,5s,14c,14d", // straight flush
		"14s,13s,12s,11s,10s,2c,3c", // royal flush
	}

	prev := 0
	for _, s := range hands {
		strength := analyze(s).GetStrength()
		a.Greater(strength, prev, s)
		prev = strength
	}
}

func TestHandAnalyzer_GetStrength_kickers(t *testing.T) {
	a := assert.New(t)

	// same pair, better kicker wins
	a.Greater(
		analyze("9s,9c,14d,5h,8s,3c,2d").GetStrength(),
		analyze("9h,9d,13d,5c,8c,3h,2h").GetStrength(),
	)

	// identical hands from different suits tie exactly
	a.Equal(
		analyze("9s,9c,14d,5h,8s,3c,2d").GetStrength(),
		analyze("9h,9d,14s,5c,8c,3h,2h").GetStrength(),
	)

	// the board plays: both players have the same best five cards
	board := "14s,14c,13d,13h,9s"
	a.Equal(
		New(5, deck.CardsFromString(board+",2c,3d")).GetStrength(),
		New(5, deck.CardsFromString(board+",2h,3s")).GetStrength(),
	)
}

func TestHandAnalyzer_fiveCards(t *testing.T) {
	a := assert.New(t)

	// analyzer also works before the full board is out
	h := New(5, deck.CardsFromString("9s,9c"))
	a.Equal(OnePair, h.GetHand())

	h = New(5, deck.CardsFromString("9s,9c,9d,9h,2c"))
	a.Equal(FourOfAKind, h.GetHand())
}

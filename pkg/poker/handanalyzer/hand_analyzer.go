package handanalyzer

import (
	"math"
	"sort"

	"botpoker-server/pkg/deck"
)

// HandAnalyzer determines the best possible hand from a set of cards
type HandAnalyzer struct {
	size  int
	cards deck.Hand

	flush         []int
	quads         []int
	trips         []int
	pairs         []int
	straightFlush int
	straight      int

	hand     Hand
	strength int
}

// New will return a new HandAnalyzer instance
// size is the number of cards that make a hand (i.e., 5), and cards may
// contain up to the full seven cards of hole cards plus community cards.
func New(size int, cards []*deck.Card) *HandAnalyzer {
	// clone to prevent modifying original
	sortedCards := make(deck.Hand, len(cards))
	copy(sortedCards, cards)
	sort.Sort(sort.Reverse(sortByRank(sortedCards)))

	h := &HandAnalyzer{
		size:  size,
		cards: sortedCards,
	}

	h.analyzeHand()
	h.calculateHand()
	return h
}

// analyzeHand will loop through the cards and calculate the various combinations
// This is required to be called in order for the public Get*() methods to return properly
// This method should only be called once from the constructor
func (h *HandAnalyzer) analyzeHand() {
	// keeps track of flushes
	suitCounts := make(map[deck.Suit][]int)

	// keeps track of pairs, trips, and quads
	prevRank := math.MaxInt8
	numOfRank := 1

	nCards := len(h.cards)
	for i, card := range h.cards {
		if h.flush == nil {
			h.checkFlush(card, suitCounts)
		}

		isLastCard := i+1 == nCards
		h.checkPairs(card, isLastCard, &prevRank, &numOfRank)
	}

	h.straight = bestStraight(rankSet(h.cards, ""), h.size)

	for _, suit := range []deck.Suit{deck.Clubs, deck.Diamonds, deck.Hearts, deck.Spades} {
		if sf := bestStraight(rankSet(h.cards, suit), h.size); sf > h.straightFlush {
			h.straightFlush = sf
		}
	}
}

// calculateHand determines the best hand category the cards can make
func (h *HandAnalyzer) calculateHand() {
	if h.GetRoyalFlush() {
		h.hand = RoyalFlush
	} else if _, ok := h.GetStraightFlush(); ok {
		h.hand = StraightFlush
	} else if _, ok := h.GetFourOfAKind(); ok {
		h.hand = FourOfAKind
	} else if _, ok := h.GetFullHouse(); ok {
		h.hand = FullHouse
	} else if _, ok := h.GetFlush(); ok {
		h.hand = Flush
	} else if _, ok := h.GetStraight(); ok {
		h.hand = Straight
	} else if _, ok := h.GetThreeOfAKind(); ok {
		h.hand = ThreeOfAKind
	} else if _, ok := h.GetTwoPair(); ok {
		h.hand = TwoPair
	} else if _, ok := h.GetPair(); ok {
		h.hand = OnePair
	} else {
		h.hand = HighCard
	}
}

// GetHand will return the best possible hand the cards can make
func (h *HandAnalyzer) GetHand() Hand {
	return h.hand
}

// GetRoyalFlush will return true if there's a royal flush
func (h *HandAnalyzer) GetRoyalFlush() bool {
	return h.straightFlush == deck.Ace
}

// GetStraightFlush will return the best straight flush, if possible
func (h *HandAnalyzer) GetStraightFlush() (int, bool) {
	if h.straightFlush > 0 {
		return h.straightFlush, true
	}

	return 0, false
}

// GetFourOfAKind will return the best four of a kind, if possible
func (h *HandAnalyzer) GetFourOfAKind() (int, bool) {
	if len(h.quads) > 0 {
		return h.quads[0], true
	}

	return 0, false
}

// GetFullHouse will return the best full house, if possible
func (h *HandAnalyzer) GetFullHouse() ([]int, bool) {
	if len(h.trips) == 0 {
		return nil, false
	}

	trips := h.trips[0]

	pair, ok := h.GetPair()
	if len(h.trips) >= 2 && h.trips[1] > pair {
		// in a seven-card hand we may have two sets of trips; the lower
		// set makes a better pair than any natural pair
		pair = h.trips[1]
		ok = true
	}

	if !ok {
		return nil, false
	}

	return []int{trips, pair}, true
}

// GetFlush will return the best possible flush, if possible
func (h *HandAnalyzer) GetFlush() ([]int, bool) {
	if h.flush != nil {
		return h.flush, true
	}

	return nil, false
}

// GetStraight will return the best straight, if possible
func (h *HandAnalyzer) GetStraight() (int, bool) {
	if h.straight > 0 {
		return h.straight, true
	}

	return 0, false
}

// GetThreeOfAKind will return the best three of a kind, if possible
func (h *HandAnalyzer) GetThreeOfAKind() (int, bool) {
	if len(h.trips) > 0 {
		return h.trips[0], true
	}

	return 0, false
}

// GetTwoPair will return the best two pairs, if possible
func (h *HandAnalyzer) GetTwoPair() ([]int, bool) {
	if len(h.pairs) >= 2 {
		return h.pairs[0:2], true
	}

	return nil, false
}

// GetPair will return the best pair, if possible
func (h *HandAnalyzer) GetPair() (int, bool) {
	if len(h.pairs) > 0 {
		return h.pairs[0], true
	}

	return 0, false
}

// GetHighCard will return the high card
func (h *HandAnalyzer) GetHighCard() ([]int, bool) {
	cards := make([]int, h.size)
	for i := 0; i < h.size; i++ {
		if i < len(h.cards) {
			cards[i] = h.cards[i].Rank
		}
	}
	return cards, true
}

func calculateStrength(hand Hand, cards []int) int {
	fiveCards := make([]int, 5)
	copy(fiveCards, cards)

	strength := math.Pow(15, 5) * float64(hand)
	for i := 0; i < 5; i++ {
		val := fiveCards[4-i]
		strength += math.Pow(15, float64(i)) * float64(val)
	}

	return int(strength)
}

// GetStrength returns the strength of the hand
// Strengths form a total order: a greater value always beats a lesser one,
// and equal values are an exact tie.
func (h *HandAnalyzer) GetStrength() int {
	if h.strength > 0 {
		return h.strength
	}

	h.strength = h.getStrength()
	return h.strength
}

func (h *HandAnalyzer) getStrength() int {
	hand := h.GetHand()

	switch hand {
	case HighCard:
		c, _ := h.GetHighCard()
		return calculateStrength(hand, c)
	case OnePair:
		pair, _ := h.GetPair()
		return calculateStrength(hand, append([]int{pair}, h.kickers([]int{pair}, h.size-2)...))
	case TwoPair:
		twoPair, _ := h.GetTwoPair()
		kickers := h.kickers(twoPair, 1)
		return calculateStrength(hand, []int{twoPair[0], twoPair[1], kickers[0]})
	case ThreeOfAKind:
		trips, _ := h.GetThreeOfAKind()
		return calculateStrength(hand, append([]int{trips}, h.kickers([]int{trips}, 2)...))
	case Straight:
		s, _ := h.GetStraight()
		return calculateStrength(hand, []int{s})
	case Flush:
		f, _ := h.GetFlush()
		return calculateStrength(hand, f)
	case FullHouse:
		fh, _ := h.GetFullHouse()
		return calculateStrength(hand, fh)
	case FourOfAKind:
		fk, _ := h.GetFourOfAKind()
		return calculateStrength(hand, append([]int{fk}, h.kickers([]int{fk}, 1)...))
	case StraightFlush:
		s, _ := h.GetStraightFlush()
		return calculateStrength(hand, []int{s})
	case RoyalFlush:
		return calculateStrength(hand, []int{})
	}

	panic("unknown hand")
}

// kickers returns up to n card ranks, highest first, excluding the specified ranks
func (h *HandAnalyzer) kickers(exclude []int, n int) []int {
	excluded := make(map[int]bool, len(exclude))
	for _, rank := range exclude {
		excluded[rank] = true
	}

	kickers := make([]int, 0, n)
	for _, card := range h.cards {
		if excluded[card.Rank] {
			continue
		}

		kickers = append(kickers, card.Rank)
		if len(kickers) == n {
			break
		}
	}

	return kickers
}

func (h *HandAnalyzer) checkFlush(card *deck.Card, suitCounts map[deck.Suit][]int) {
	ranks, ok := suitCounts[card.Suit]
	if !ok {
		ranks = make([]int, 0, 1)
	}
	ranks = append(ranks, card.Rank)
	suitCounts[card.Suit] = ranks

	if len(ranks) >= h.size {
		h.flush = ranks[0:h.size]
	}
}

func (h *HandAnalyzer) checkPairs(card *deck.Card, isLastCard bool, prevRank, numOfRank *int) {
	if card.Rank == *prevRank {
		*numOfRank++
	}

	// if the card is no longer the same rank, or we're at the end,
	// record the longest group of cards we could form.
	// Note: the first check in the conditional skips the very first card
	if card.Rank != *prevRank || isLastCard {
		if *prevRank != math.MaxInt8 {
			switch *numOfRank {
			case 4:
				h.quads = append(h.quads, *prevRank)
			case 3:
				h.trips = append(h.trips, *prevRank)
			case 2:
				h.pairs = append(h.pairs, *prevRank)
			}
		}

		// the final card may start its own group of one
		if isLastCard && card.Rank != *prevRank {
			return
		}

		*prevRank = card.Rank
		*numOfRank = 1
	}
}

// rankSet returns the distinct ranks present, descending.
// If suit is non-empty, only cards of that suit are considered.
func rankSet(cards deck.Hand, suit deck.Suit) []int {
	ranks := make([]int, 0, len(cards))
	seen := make(map[int]bool)
	for _, card := range cards {
		if suit != "" && card.Suit != suit {
			continue
		}

		if !seen[card.Rank] {
			seen[card.Rank] = true
			ranks = append(ranks, card.Rank)
		}
	}

	return ranks
}

// bestStraight returns the high rank of the best size-card straight in the
// descending distinct ranks, or 0 if there is none. An ace also plays low.
func bestStraight(ranks []int, size int) int {
	if len(ranks) == 0 {
		return 0
	}

	// an ace counts as a one for the wheel
	if ranks[0] == deck.Ace {
		ranks = append(ranks, deck.LowAce)
	}

	run := 1
	for i := 1; i < len(ranks); i++ {
		if ranks[i] == ranks[i-1]-1 {
			run++
			if run >= size {
				return ranks[i] + size - 1
			}
		} else {
			run = 1
		}
	}

	return 0
}

type sortByRank deck.Hand

func (s sortByRank) Len() int {
	return len(s)
}

func (s sortByRank) Less(i, j int) bool {
	return s[i].Rank < s[j].Rank
}

func (s sortByRank) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

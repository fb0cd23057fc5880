package table

import (
	"botpoker-server/pkg/deck"
	"botpoker-server/pkg/poker/handanalyzer"
)

// Player is a seat at the table. Players persist across hands; their per-hand
// status lives in the state variant.
type Player struct {
	// PlayerID uniquely identifies the player at this table
	PlayerID int

	totalMoney int
	cards      deck.Hand
	state      State

	// eliminatedHand is the hand number the player busted on, or 0
	eliminatedHand int

	handAnalyzer         *handanalyzer.HandAnalyzer
	handAnalyzerCacheKey string
}

func newPlayer(id, startingStack int) *Player {
	return &Player{
		PlayerID:   id,
		totalMoney: startingStack,
		cards:      make(deck.Hand, 0, 2),
		state:      Active{},
	}
}

// State returns the player's current state variant
func (p *Player) State() State {
	return p.state
}

// IsEliminated returns true once the player has busted out of the game
func (p *Player) IsEliminated() bool {
	return p.eliminatedHand > 0
}

// CanAct returns true if the player may still make decisions this hand
func (p *Player) CanAct() bool {
	_, ok := p.state.(Active)
	return ok
}

// InHand returns true if the player still has a claim to the pots
func (p *Player) InHand() bool {
	switch p.state.(type) {
	case Active, AllIn:
		return true
	}

	return false
}

// CurrentBet returns the player's bet in the current betting round
func (p *Player) CurrentBet() int {
	if s, ok := p.state.(Active); ok {
		return s.CurrentBet
	}

	return 0
}

func (p *Player) setBet(amount int) {
	p.state = Active{CurrentBet: amount}
}

func (p *Player) fold() {
	p.state = Folded{}
}

func (p *Player) allIn(committed int) {
	p.state = AllIn{Committed: committed}
}

func (p *Player) eliminate(handNumber int) {
	p.state = Eliminated{}
	p.eliminatedHand = handNumber
}

// newHand resets the player's per-hand status for the next deal
func (p *Player) newHand() {
	p.cards = make(deck.Hand, 0, 2)
	p.handAnalyzer = nil
	p.handAnalyzerCacheKey = ""
	if !p.IsEliminated() {
		p.state = Active{}
	}
}

// newRound clears the player's bet for the next betting round
func (p *Player) newRound() {
	if p.CanAct() {
		p.state = Active{}
	}
}

func (p *Player) getHandAnalyzer(community []*deck.Card) *handanalyzer.HandAnalyzer {
	if len(p.cards) == 0 {
		return nil
	}

	hand := append(p.cards.Clone(), community...)
	key := deck.CardsToString(hand)
	if p.handAnalyzerCacheKey != key {
		p.handAnalyzer = handanalyzer.New(5, hand)
		p.handAnalyzerCacheKey = key
	}

	return p.handAnalyzer
}

// potmanager.Participant interface

// ID returns the player's unique identifier
func (p *Player) ID() int {
	return p.PlayerID
}

// Balance returns the player's remaining stack
func (p *Player) Balance() int {
	return p.totalMoney
}

// AdjustBalance adds the amount to the player's stack
func (p *Player) AdjustBalance(amount int) {
	p.totalMoney += amount
}

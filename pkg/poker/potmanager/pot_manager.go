package potmanager

import (
	"errors"
	"fmt"
	"sort"
)

// ErrParticipantNotFound is an error when a participant with a provided ID cannot be found
var ErrParticipantNotFound = errors.New("participant not found")

// PotManager keeps track of each player's contributions during a hand and
// partitions them into a main pot and side pots at showdown
type PotManager struct {
	participants map[int]*participantInPot
	tableOrder   []*participantInPot
}

// New instantiates a new PotManager for a single hand
func New() *PotManager {
	return &PotManager{
		participants: make(map[int]*participantInPot),
		tableOrder:   make([]*participantInPot, 0),
	}
}

// SeatParticipant adds a participant to the hand
// This method must be called in seat order
func (p *PotManager) SeatParticipant(pt Participant) {
	pip := &participantInPot{
		Participant: pt,
		tableIndex:  len(p.tableOrder),
	}
	p.participants[pt.ID()] = pip
	p.tableOrder = append(p.tableOrder, pip)
}

// Contribute moves chips from the participant's stack into the hand.
// A contribution that exhausts the stack marks the participant all-in.
// The amount actually committed is returned.
func (p *PotManager) Contribute(pt Participant, amount int) (int, error) {
	pip, ok := p.participants[pt.ID()]
	if !ok {
		return 0, ErrParticipantNotFound
	}

	if amount < 0 {
		return 0, fmt.Errorf("contribution cannot be negative: %d", amount)
	}

	if amount >= pip.Balance() {
		amount = pip.Balance()
		pip.isAllIn = true
	}

	pip.contributed += amount
	pip.Participant.AdjustBalance(-1 * amount)

	return amount, nil
}

// ParticipantFolds removes the participant from pot eligibility.
// Their contributions so far remain in the pots.
func (p *PotManager) ParticipantFolds(pt Participant) error {
	pip, ok := p.participants[pt.ID()]
	if !ok {
		return ErrParticipantNotFound
	}

	pip.isFolded = true
	return nil
}

// IsAllIn returns true if the participant has committed their entire stack
func (p *PotManager) IsAllIn(pt Participant) bool {
	pip, ok := p.participants[pt.ID()]
	return ok && pip.isAllIn
}

// Contributed returns the participant's total contribution to the hand
func (p *PotManager) Contributed(pt Participant) int {
	if pip, ok := p.participants[pt.ID()]; ok {
		return pip.contributed
	}

	return 0
}

// Total returns all chips contributed to the hand so far
func (p *PotManager) Total() int {
	total := 0
	for _, pip := range p.tableOrder {
		total += pip.contributed
	}

	return total
}

// Pots partitions the contributions into a main pot and side pots.
// A side pot boundary exists at each distinct all-in contribution level; a
// pot capped at level L is won only by players who contributed at least L
// and have not folded.
func (p *PotManager) Pots() Pots {
	levels := p.potLevels()

	pots := make(Pots, 0, len(levels))
	prev := 0
	for _, level := range levels {
		pot := &Pot{}
		for _, pip := range p.tableOrder {
			amount := pip.contributed
			if amount > level {
				amount = level
			}

			if amount > prev {
				pot.Amount += amount - prev
			}

			if pip.eligible(level) {
				pot.Eligible = append(pot.Eligible, pip.Participant)
			}
		}

		pots = append(pots, pot)
		prev = level
	}

	return pots
}

// potLevels returns the ascending contribution caps that bound each pot
func (p *PotManager) potLevels() []int {
	max := 0
	levelSet := make(map[int]bool)
	for _, pip := range p.tableOrder {
		if pip.contributed > max {
			max = pip.contributed
		}

		if pip.isAllIn && !pip.isFolded && pip.contributed > 0 {
			levelSet[pip.contributed] = true
		}
	}

	if max == 0 {
		return nil
	}

	levelSet[max] = true

	levels := make([]int, 0, len(levelSet))
	for level := range levelSet {
		levels = append(levels, level)
	}
	sort.Ints(levels)

	return levels
}

// PayWinners awards every pot independently and returns the payout per player ID.
// tiers is the showdown ranking, best hands first; each pot goes to the best
// tier with an eligible player. Ties split the pot evenly, and any remainder
// chips are paid one each starting from the seat immediately clockwise of
// the dealer button.
func (p *PotManager) PayWinners(tiers [][]Participant, dealerIndex int) (map[int]int, error) {
	payouts := make(map[int]int)

	for _, pot := range p.Pots() {
		if pot.Amount == 0 {
			continue
		}

		winners, err := p.potWinners(pot, tiers, dealerIndex)
		if err != nil {
			return nil, err
		}

		share := pot.Amount / len(winners)
		remainder := pot.Amount % len(winners)
		for i, winner := range winners {
			amount := share
			if i < remainder {
				amount++
			}

			winner.AdjustBalance(amount)
			payouts[winner.ID()] += amount
		}
	}

	return payouts, nil
}

// potWinners returns the pot's winners ordered clockwise from the dealer button
func (p *PotManager) potWinners(pot *Pot, tiers [][]Participant, dealerIndex int) ([]*participantInPot, error) {
	eligible := make(map[int]bool, len(pot.Eligible))
	for _, pt := range pot.Eligible {
		eligible[pt.ID()] = true
	}

	for _, tier := range tiers {
		winners := make([]*participantInPot, 0, len(tier))
		for _, pt := range tier {
			if !eligible[pt.ID()] {
				continue
			}

			pip, ok := p.participants[pt.ID()]
			if !ok {
				return nil, ErrParticipantNotFound
			}

			winners = append(winners, pip)
		}

		if len(winners) > 0 {
			p.sortClockwiseOfDealer(winners, dealerIndex)
			return winners, nil
		}
	}

	return nil, errors.New("no eligible winner for pot")
}

// sortClockwiseOfDealer orders participants by seat, starting left of the dealer
func (p *PotManager) sortClockwiseOfDealer(pips []*participantInPot, dealerIndex int) {
	n := len(p.tableOrder)
	sort.Slice(pips, func(i, j int) bool {
		a := (pips[i].tableIndex - dealerIndex - 1 + n) % n
		b := (pips[j].tableIndex - dealerIndex - 1 + n) % n
		return a < b
	})
}

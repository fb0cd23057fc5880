package potmanager

import "encoding/json"

// Pot is a main or side pot with the set of players who may win it
type Pot struct {
	Amount   int
	Eligible []Participant
}

type potJSON struct {
	Amount   int   `json:"amount"`
	Eligible []int `json:"eligible"`
}

// MarshalJSON provides custom marshalling
func (p Pot) MarshalJSON() ([]byte, error) {
	ids := make([]int, len(p.Eligible))
	for i, pt := range p.Eligible {
		ids[i] = pt.ID()
	}

	return json.Marshal(potJSON{
		Amount:   p.Amount,
		Eligible: ids,
	})
}

// Pots is an ordered collection of pots, the main pot first
type Pots []*Pot

// Total returns the combined total of all pots
func (p Pots) Total() int {
	total := 0
	for _, pot := range p {
		total += pot.Amount
	}

	return total
}

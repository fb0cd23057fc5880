package table

// State is a player's status within the current hand. Exactly one variant
// applies at a time.
type State interface {
	stateType() string
	details() interface{}
}

// Active means the player may still act this hand
type Active struct {
	// CurrentBet is the player's committed bet in the current betting round
	CurrentBet int
}

// Folded means the player is out of the hand and forfeits any claim to the pots
type Folded struct{}

// AllIn means the player has wagered their entire stack
type AllIn struct {
	// Committed is the player's total contribution to the hand
	Committed int
}

// Eliminated means the player busted in an earlier hand and only spectates
type Eliminated struct{}

func (s Active) stateType() string { return "Active" }
func (s Active) details() interface{} {
	return struct {
		CurrentBet int `json:"current_bet"`
	}{s.CurrentBet}
}

func (s Folded) stateType() string    { return "Folded" }
func (s Folded) details() interface{} { return nil }

func (s AllIn) stateType() string { return "AllIn" }
func (s AllIn) details() interface{} {
	return struct {
		Committed int `json:"committed"`
	}{s.Committed}
}

func (s Eliminated) stateType() string    { return "Eliminated" }
func (s Eliminated) details() interface{} { return nil }

type stateJSON struct {
	StateType string      `json:"state_type"`
	Details   interface{} `json:"details,omitempty"`
}

func stateToJSON(s State) stateJSON {
	return stateJSON{
		StateType: s.stateType(),
		Details:   s.details(),
	}
}

package table

// Stage is the phase the current hand is in
type Stage int

// Stages of a hand, in order
const (
	StagePreFlop Stage = iota
	StageFlop
	StageTurn
	StageRiver
	StageShowdown
	StageComplete
)

// IsBettingRound returns true if players act during this stage
func (s Stage) IsBettingRound() bool {
	return s >= StagePreFlop && s <= StageRiver
}

func (s Stage) String() string {
	switch s {
	case StagePreFlop:
		return "pre-flop"
	case StageFlop:
		return "flop"
	case StageTurn:
		return "turn"
	case StageRiver:
		return "river"
	case StageShowdown:
		return "showdown"
	case StageComplete:
		return "complete"
	}

	panic("unknown stage")
}

package potmanager

// Participant provides an interface for retrieving and adjusting a participant's chips
type Participant interface {
	ID() int
	Balance() int
	AdjustBalance(amount int)
}

// participantInPot is a seated participant plus the pot manager's bookkeeping
type participantInPot struct {
	Participant
	// tableIndex is where the player is seated at the table
	tableIndex int
	// contributed is the total the player has put into the hand so far
	contributed int
	isAllIn     bool
	isFolded    bool
}

// eligible returns true if the participant can win a pot capped at the given level
func (p *participantInPot) eligible(level int) bool {
	return !p.isFolded && p.contributed >= level
}

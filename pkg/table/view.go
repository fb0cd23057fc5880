package table

// hiddenCard marks a community card slot that has not been revealed yet
const hiddenCard = "Hidden"

// View is the game state as one player is allowed to see it. Other players'
// hole cards and undealt community cards never appear here.
type View struct {
	ID                int           `json:"id"`
	CurrentBet        int           `json:"current_bet"`
	Cards             []string      `json:"cards"`
	HandNumber        int           `json:"hand_number"`
	CurrentHighestBet int           `json:"current_highest_bet"`
	Flop              [3]string     `json:"flop"`
	Turn              string        `json:"turn"`
	River             string        `json:"river"`
	DealerButtonIndex int           `json:"dealer_button_index"`
	Players           []*PlayerView `json:"players"`
	Actions           []string      `json:"actions"`
	PreviousActions   []string      `json:"previous_actions"`
}

// PlayerView is the publicly visible state of a seat
type PlayerView struct {
	ID          int       `json:"id"`
	PlayerState stateJSON `json:"player_state"`
	TotalMoney  int       `json:"total_money"`
}

// ViewFor builds the view for the given player
func (t *Table) ViewFor(playerID int) *View {
	view := &View{
		ID:                playerID,
		Cards:             make([]string, 0, 2),
		HandNumber:        t.handNumber,
		CurrentHighestBet: t.currentHighestBet,
		Flop:              [3]string{hiddenCard, hiddenCard, hiddenCard},
		Turn:              hiddenCard,
		River:             hiddenCard,
		DealerButtonIndex: t.dealerButtonIndex,
		Players:           make([]*PlayerView, len(t.players)),
		Actions:           append([]string{}, t.actions...),
		PreviousActions:   append([]string{}, t.previousActions...),
	}

	for i, card := range t.flop {
		view.Flop[i] = card.Label()
	}

	if t.turnCard != nil {
		view.Turn = t.turnCard.Label()
	}

	if t.riverCard != nil {
		view.River = t.riverCard.Label()
	}

	for i, p := range t.players {
		if p.PlayerID == playerID {
			view.CurrentBet = p.CurrentBet()
			for _, card := range p.cards {
				view.Cards = append(view.Cards, card.Label())
			}
		}

		view.Players[i] = &PlayerView{
			ID:          p.PlayerID,
			PlayerState: stateToJSON(p.state),
			TotalMoney:  p.Balance(),
		}
	}

	return view
}

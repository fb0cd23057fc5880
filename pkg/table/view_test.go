package table

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"botpoker-server/pkg/deck"
	"botpoker-server/pkg/poker/action"
)

func TestTable_ViewFor(t *testing.T) {
	a := assert.New(t)

	tbl := testTable(t, []int{1, 2, 3}, DefaultOptions())
	a.NoError(tbl.StartHand())

	rigHand(tbl, map[int]string{
		1: "2c,7d",
		2: "14s,13s",
	}, "10s,11s,12s,2h,3d")

	view := tbl.ViewFor(2)
	a.Equal(2, view.ID)
	a.Equal(1, view.HandNumber)
	a.Equal(0, view.DealerButtonIndex)
	a.Equal([]string{"[ A♠ ]", "[ K♠ ]"}, view.Cards)
	a.Equal([3]string{"Hidden", "Hidden", "Hidden"}, view.Flop)
	a.Equal("Hidden", view.Turn)
	a.Equal("Hidden", view.River)
	a.Contains(view.Actions, "Hand 1 started with an ante of 1.")

	// another seat never sees player 2's hole cards
	other := tbl.ViewFor(1)
	a.NotEqual(view.Cards, other.Cards)
	a.Equal(3, len(other.Players))

	a.NoError(tbl.Act(2, action.Raise, 5))
	view = tbl.ViewFor(2)
	a.Equal(5, view.CurrentBet)
	a.Equal(5, view.CurrentHighestBet)

	a.NoError(tbl.Act(3, action.Call, 0))
	a.NoError(tbl.Act(1, action.Fold, 0))

	// the flop is revealed, the rest of the board is not
	view = tbl.ViewFor(3)
	a.Equal([3]string{"[ 10♠ ]", "[ J♠ ]", "[ Q♠ ]"}, view.Flop)
	a.Equal("Hidden", view.Turn)
	a.Equal(0, view.CurrentBet)
}

func TestTable_ViewFor_playerStates(t *testing.T) {
	a := assert.New(t)

	tbl := testTable(t, []int{1, 2, 3}, DefaultOptions())
	a.NoError(tbl.StartHand())

	a.NoError(tbl.Act(2, action.Raise, 5))
	a.NoError(tbl.Act(3, action.Fold, 0))

	view := tbl.ViewFor(1)
	a.Equal("Active", view.Players[1].PlayerState.StateType)
	a.Equal("Folded", view.Players[2].PlayerState.StateType)
	a.Equal(494, view.Players[1].TotalMoney)

	data, err := json.Marshal(view)
	a.NoError(err)

	var decoded map[string]interface{}
	a.NoError(json.Unmarshal(data, &decoded))

	players := decoded["players"].([]interface{})
	active := players[1].(map[string]interface{})["player_state"].(map[string]interface{})
	a.Equal("Active", active["state_type"])
	a.Equal(float64(5), active["details"].(map[string]interface{})["current_bet"])

	folded := players[2].(map[string]interface{})["player_state"].(map[string]interface{})
	a.Equal("Folded", folded["state_type"])
	a.Nil(folded["details"])

	// no hole cards anywhere in the public player list
	for _, p := range players {
		_, hasCards := p.(map[string]interface{})["cards"]
		a.False(hasCards)
	}
}

func TestPlayer_stateTransitions(t *testing.T) {
	a := assert.New(t)

	p := newPlayer(1, 100)
	a.True(p.CanAct())
	a.True(p.InHand())
	a.Equal(0, p.CurrentBet())

	p.setBet(25)
	a.Equal(25, p.CurrentBet())

	p.newRound()
	a.Equal(0, p.CurrentBet())

	p.allIn(100)
	a.False(p.CanAct())
	a.True(p.InHand())

	p.fold()
	a.False(p.InHand())

	p.newHand()
	a.True(p.CanAct())
	a.Equal(0, len(p.cards))

	p.eliminate(4)
	a.True(p.IsEliminated())
	a.Equal(4, p.eliminatedHand)

	p.newHand()
	a.False(p.CanAct())

	p.cards = deck.CardsFromString("14s,13s")
	a.Equal(2, len(p.cards))
}

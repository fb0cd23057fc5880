package table

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"botpoker-server/pkg/deck"
	"botpoker-server/pkg/poker/action"
)

type stubRandom struct{}

func (s stubRandom) Intn(n int) int { return 0 }
func (s stubRandom) Int63() int64   { return 1 }

func testTable(t *testing.T, playerIDs []int, opts Options) *Table {
	t.Helper()

	tbl, err := New(logrus.StandardLogger(), stubRandom{}, playerIDs, opts)
	assert.NoError(t, err)

	return tbl
}

// rigHand replaces the dealt hole cards and the undrawn deck. Strings are in
// the "14s,13s" format.
func rigHand(tbl *Table, holeCards map[int]string, community string) {
	for _, p := range tbl.players {
		if cards, ok := holeCards[p.PlayerID]; ok {
			p.cards = deck.CardsFromString(cards)
		}
	}

	tbl.deck.Cards = deck.CardsFromString(community)
}

func TestNew(t *testing.T) {
	a := assert.New(t)

	tbl, err := New(logrus.StandardLogger(), stubRandom{}, []int{1, 2, 3}, DefaultOptions())
	a.NoError(err)
	a.NotNil(tbl)
	a.Equal(1500, tbl.initialChips)
	a.False(tbl.GameOver())

	_, err = New(logrus.StandardLogger(), stubRandom{}, []int{1}, DefaultOptions())
	a.EqualError(err, "there must be at least two players")

	_, err = New(logrus.StandardLogger(), stubRandom{}, []int{1, 2, 1}, DefaultOptions())
	a.EqualError(err, "duplicate player ID: 1")

	_, err = New(logrus.StandardLogger(), stubRandom{}, []int{1, 2}, Options{StartingStack: 100, Ante: 0})
	a.EqualError(err, "ante must be > 0")

	_, err = New(logrus.StandardLogger(), stubRandom{}, []int{1, 2}, Options{StartingStack: 5, Ante: 10})
	a.EqualError(err, "ante must not exceed the starting stack")
}

func TestTable_StartHand(t *testing.T) {
	a := assert.New(t)

	tbl := testTable(t, []int{1, 2, 3}, DefaultOptions())
	a.NoError(tbl.StartHand())

	a.Equal(1, tbl.HandNumber())
	a.Equal(StagePreFlop, tbl.Stage())
	a.Equal(0, tbl.dealerButtonIndex)

	// everyone posted the ante and holds two cards
	for _, p := range tbl.players {
		a.Equal(499, p.Balance())
		a.Equal(2, len(p.cards))
	}
	a.Equal(3, tbl.potManager.Total())

	// first to act is the seat after the button
	turn, err := tbl.CurrentTurn()
	a.NoError(err)
	a.Equal(2, turn.PlayerID)

	a.Equal(ErrHandInProgress, tbl.StartHand())
}

func TestTable_anteForHand(t *testing.T) {
	a := assert.New(t)

	tbl := testTable(t, []int{1, 2, 3}, DefaultOptions())

	// the ante goes up after every two orbits of the button
	a.Equal(1, tbl.anteForHand(1))
	a.Equal(1, tbl.anteForHand(6))
	a.Equal(2, tbl.anteForHand(7))
	a.Equal(2, tbl.anteForHand(12))
	a.Equal(3, tbl.anteForHand(13))
}

func TestTable_anteShortStackIsAllIn(t *testing.T) {
	a := assert.New(t)

	tbl := testTable(t, []int{1, 2, 3}, Options{StartingStack: 500, Ante: 5})
	tbl.players[2].totalMoney = 3
	tbl.initialChips -= 497

	a.NoError(tbl.StartHand())

	a.Equal(AllIn{Committed: 3}, tbl.players[2].State())
	a.Equal(13, tbl.potManager.Total())
}

func TestTable_playScriptedHand(t *testing.T) {
	a := assert.New(t)

	tbl := testTable(t, []int{1, 2, 3}, DefaultOptions())
	a.NoError(tbl.StartHand())

	rigHand(tbl, map[int]string{
		2: "14s,13s",
		3: "2c,7d",
	}, "10s,11s,12s,2h,3d")

	// pre-flop, action starts left of the button
	a.NoError(tbl.Act(2, action.Raise, 5))
	a.Equal(5, tbl.currentHighestBet)
	a.NoError(tbl.Act(3, action.Call, 0))
	a.NoError(tbl.Act(1, action.Fold, 0))

	a.Equal(StageFlop, tbl.Stage())
	a.Equal(0, tbl.currentHighestBet)

	a.NoError(tbl.Act(2, action.Check, 0))
	a.NoError(tbl.Act(3, action.Check, 0))
	a.Equal(StageTurn, tbl.Stage())

	a.NoError(tbl.Act(2, action.Check, 0))
	a.NoError(tbl.Act(3, action.Check, 0))
	a.Equal(StageRiver, tbl.Stage())

	a.NoError(tbl.Act(2, action.Check, 0))
	a.NoError(tbl.Act(3, action.Check, 0))

	// player 2's royal flush takes the pot of 13
	a.Equal(StageComplete, tbl.Stage())
	a.Equal(507, tbl.players[1].Balance())
	a.Equal(494, tbl.players[2].Balance())
	a.Equal(499, tbl.players[0].Balance())

	a.Contains(tbl.actions, "Player 2 raised by 5.")
	a.Contains(tbl.actions, "Player 3 called 5.")
	a.Contains(tbl.actions, "Player 1 folded.")
	a.Contains(tbl.actions, "Table advanced to the flop.")
	a.Contains(tbl.actions, "Showdown.")
	a.Contains(tbl.actions, "Player 2 shows [ A♠ ] [ K♠ ] (royal flush).")
	a.Contains(tbl.actions, "Player 2 won 13.")
}

func TestTable_checkWhileOwingIsAFold(t *testing.T) {
	a := assert.New(t)

	tbl := testTable(t, []int{1, 2, 3}, DefaultOptions())
	a.NoError(tbl.StartHand())

	a.NoError(tbl.Act(2, action.Raise, 5))
	a.NoError(tbl.Act(3, action.Check, 0))

	a.Contains(tbl.actions, "Player 3 folded.")
	_, isFolded := tbl.players[2].State().(Folded)
	a.True(isFolded)
}

func TestTable_raiseIsClamped(t *testing.T) {
	a := assert.New(t)

	tbl := testTable(t, []int{1, 2, 3}, DefaultOptions())
	tbl.players[2].totalMoney = 15
	tbl.initialChips -= 485

	a.NoError(tbl.StartHand())

	// a raise below the minimum is raised to it
	a.NoError(tbl.Act(2, action.Raise, 0))
	a.Equal(1, tbl.currentHighestBet)

	// a raise beyond the stack becomes an all-in
	a.NoError(tbl.Act(3, action.Raise, 50))
	a.Equal(AllIn{Committed: 15}, tbl.players[2].State())
	a.Equal(14, tbl.currentHighestBet)

	// both are logged as raises by the amount actually applied
	a.Contains(tbl.actions, "Player 2 raised by 1.")
	a.Contains(tbl.actions, "Player 3 raised by 13.")
}

func TestTable_uncontestedPot(t *testing.T) {
	a := assert.New(t)

	tbl := testTable(t, []int{1, 2, 3}, DefaultOptions())
	a.NoError(tbl.StartHand())

	a.NoError(tbl.Act(2, action.Fold, 0))
	a.NoError(tbl.Act(3, action.Fold, 0))

	// the last contender collects the antes without a showdown
	a.Equal(StageComplete, tbl.Stage())
	a.Equal(502, tbl.players[0].Balance())
	a.NotContains(tbl.actions, "Showdown.")
	a.Contains(tbl.actions, "Player 1 won 3.")
}

func TestTable_actValidation(t *testing.T) {
	a := assert.New(t)

	tbl := testTable(t, []int{1, 2, 3}, DefaultOptions())

	a.Equal(ErrNotInBettingRound, tbl.Act(1, action.Check, 0))

	a.NoError(tbl.StartHand())
	a.Equal(ErrNotPlayersTurn, tbl.Act(1, action.Check, 0))
}

func TestTable_legalActions(t *testing.T) {
	a := assert.New(t)

	tbl := testTable(t, []int{1, 2, 3}, DefaultOptions())
	a.NoError(tbl.StartHand())

	// nothing owed yet
	a.Equal([]action.Action{action.Check, action.Raise, action.Fold}, tbl.LegalActions(2))
	a.Nil(tbl.LegalActions(1))

	a.NoError(tbl.Act(2, action.Raise, 5))
	a.Equal([]action.Action{action.Call, action.Raise, action.Fold}, tbl.LegalActions(3))
}

func TestTable_sidePots(t *testing.T) {
	a := assert.New(t)

	tbl := testTable(t, []int{1, 2, 3}, DefaultOptions())
	tbl.players[1].totalMoney = 26
	tbl.players[2].totalMoney = 51
	tbl.initialChips -= 474 + 449

	a.NoError(tbl.StartHand())

	rigHand(tbl, map[int]string{
		1: "2c,7d",
		2: "14s,14h", // short stack, best hand
		3: "13c,13d",
	}, "3s,8c,10d,4h,9h")

	// the two short stacks are all-in at different depths
	a.NoError(tbl.Act(2, action.Raise, 100))
	a.NoError(tbl.Act(3, action.Raise, 100))
	a.NoError(tbl.Act(1, action.Call, 0))

	a.Equal(StageComplete, tbl.Stage())

	// player 2 wins the main pot (25 from each + antes), player 3 the side pot
	a.Equal(78, tbl.players[1].Balance())
	a.Equal(50, tbl.players[2].Balance())
	a.Equal(449, tbl.players[0].Balance())
}

func TestTable_eliminationAndGameOver(t *testing.T) {
	a := assert.New(t)

	tbl := testTable(t, []int{1, 2}, Options{StartingStack: 10, Ante: 1})
	a.NoError(tbl.StartHand())

	rigHand(tbl, map[int]string{
		1: "2c,7d",
		2: "14s,14h",
	}, "3s,8c,10d,4h,9h")

	a.NoError(tbl.Act(2, action.Raise, 100))
	a.NoError(tbl.Act(1, action.Call, 0))

	a.Equal(StageComplete, tbl.Stage())
	a.Equal(0, tbl.players[0].Balance())
	a.Equal(20, tbl.players[1].Balance())

	a.True(tbl.players[0].IsEliminated())
	a.Contains(tbl.actions, "Player 1 was eliminated.")

	a.True(tbl.GameOver())
	a.Equal(2, tbl.Winner().PlayerID)
	a.Equal(ErrGameOver, tbl.StartHand())
}

func TestTable_Standings(t *testing.T) {
	a := assert.New(t)

	tbl := testTable(t, []int{1, 2, 3}, DefaultOptions())
	tbl.players[0].totalMoney = 900
	tbl.players[1].eliminate(4)
	tbl.players[1].totalMoney = 0
	tbl.players[2].eliminate(9)
	tbl.players[2].totalMoney = 0

	standings := tbl.Standings()
	a.Equal(1, standings[0].PlayerID)
	a.Equal(900, standings[0].Chips)
	a.Equal(3, standings[1].PlayerID)
	a.Equal(9, standings[1].EliminatedHand)
	a.Equal(2, standings[2].PlayerID)
}

func TestTable_actionLogRotation(t *testing.T) {
	a := assert.New(t)

	tbl := testTable(t, []int{1, 2, 3}, DefaultOptions())
	a.NoError(tbl.StartHand())
	a.NoError(tbl.Act(2, action.Fold, 0))
	a.NoError(tbl.Act(3, action.Fold, 0))

	firstHand := tbl.actions

	a.NoError(tbl.StartHand())
	a.Equal(2, tbl.HandNumber())
	a.Equal(firstHand, tbl.previousActions)
	a.NotContains(tbl.actions, "Player 1 won 3.")

	// the button moved, so the first actor did too
	turn, err := tbl.CurrentTurn()
	a.NoError(err)
	a.Equal(3, turn.PlayerID)
}

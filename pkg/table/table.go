package table

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"botpoker-server/internal/rng"
	"botpoker-server/pkg/deck"
	"botpoker-server/pkg/poker/action"
	"botpoker-server/pkg/poker/potmanager"
)

// table errors
var (
	ErrNotPlayersTurn    = errors.New("not the player's turn")
	ErrNotInBettingRound = errors.New("not in a betting round")
	ErrHandInProgress    = errors.New("a hand is already in progress")
	ErrGameOver          = errors.New("the game is over")
)

// Table is the authoritative state of a poker game. All mutations must be
// serialized by the caller; the table itself performs no locking.
type Table struct {
	logger logrus.FieldLogger
	opts   Options
	random rng.Generator

	// players is the fixed seat order for the table's lifetime
	players      []*Player
	initialChips int

	handNumber        int
	dealerButtonIndex int
	stage             Stage
	deck              *deck.Deck
	flop              []*deck.Card
	turnCard          *deck.Card
	riverCard         *deck.Card

	potManager        *potmanager.PotManager
	ante              int
	currentHighestBet int
	lastRaise         int

	// handOrder holds the dealt-in players clockwise from the seat after
	// the dealer button
	handOrder       []*Player
	actingPos       int
	actedSinceRaise int

	actions         []string
	previousActions []string
}

// Options configures the table
type Options struct {
	StartingStack int
	Ante          int
}

// DefaultOptions returns the default table options
func DefaultOptions() Options {
	return Options{
		StartingStack: 500,
		Ante:          1,
	}
}

// New creates a table with one seat per player ID, in the order given
func New(logger logrus.FieldLogger, random rng.Generator, playerIDs []int, opts Options) (*Table, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	if len(playerIDs) < 2 {
		return nil, errors.New("there must be at least two players")
	}

	players := make([]*Player, len(playerIDs))
	seen := make(map[int]bool)
	for i, id := range playerIDs {
		if seen[id] {
			return nil, fmt.Errorf("duplicate player ID: %d", id)
		}

		seen[id] = true
		players[i] = newPlayer(id, opts.StartingStack)
	}

	return &Table{
		logger:            logger,
		opts:              opts,
		random:            random,
		players:           players,
		initialChips:      opts.StartingStack * len(playerIDs),
		dealerButtonIndex: -1,
		stage:             StageComplete,
	}, nil
}

func validateOptions(opts Options) error {
	if opts.StartingStack <= 0 {
		return errors.New("starting stack must be > 0")
	}

	if opts.Ante <= 0 {
		return errors.New("ante must be > 0")
	}

	if opts.Ante > opts.StartingStack {
		return errors.New("ante must not exceed the starting stack")
	}

	return nil
}

// StartHand deals the next hand: the button advances to the next surviving
// player, antes are posted, and each dealt-in player receives two hole cards.
func (t *Table) StartHand() error {
	if t.handNumber > 0 && t.stage != StageComplete {
		return ErrHandInProgress
	}

	if t.GameOver() {
		return ErrGameOver
	}

	t.handNumber++
	t.previousActions = t.actions
	t.actions = make([]string, 0)

	t.advanceDealerButton()
	t.ante = t.anteForHand(t.handNumber)

	for _, p := range t.players {
		p.newHand()
	}

	t.buildHandOrder()

	t.potManager = potmanager.New()
	for _, p := range t.handOrder {
		t.potManager.SeatParticipant(p)
	}

	t.logAction(fmt.Sprintf("Hand %d started with an ante of %d.", t.handNumber, t.ante))

	// antes are dead money; a short stack posts what it can and is all-in
	for _, p := range t.handOrder {
		if _, err := t.potManager.Contribute(p, t.ante); err != nil {
			return err
		}

		if t.potManager.IsAllIn(p) {
			p.allIn(t.potManager.Contributed(p))
		}
	}

	t.deck = deck.New()
	t.deck.Shuffle(t.random.Int63())

	for i := 0; i < 2; i++ {
		for _, p := range t.handOrder {
			card, err := t.deck.Draw()
			if err != nil {
				return err
			}

			p.cards.AddCard(card)
		}
	}

	t.flop = nil
	t.turnCard = nil
	t.riverCard = nil

	t.stage = StagePreFlop
	t.newRoundSetup()

	t.logger.WithFields(logrus.Fields{
		"hand": t.handNumber,
		"ante": t.ante,
		"seed": t.deck.GetSeed(),
	}).Info("hand started")

	if err := t.checkChips(); err != nil {
		return err
	}

	// everyone may already be all-in from the antes
	if len(t.activePlayers()) < 2 {
		return t.advanceStage()
	}

	return nil
}

// anteForHand returns the ante for the given hand number. The ante goes up by
// the configured amount every time the button has circled the table twice.
func (t *Table) anteForHand(handNumber int) int {
	return t.opts.Ante + t.opts.Ante*((handNumber-1)/(2*len(t.players)))
}

func (t *Table) advanceDealerButton() {
	n := len(t.players)
	for i := 1; i <= n; i++ {
		index := (t.dealerButtonIndex + i + n) % n
		if !t.players[index].IsEliminated() {
			t.dealerButtonIndex = index
			return
		}
	}

	panic("no players remain")
}

func (t *Table) buildHandOrder() {
	n := len(t.players)
	t.handOrder = make([]*Player, 0, n)
	for i := 1; i <= n; i++ {
		p := t.players[(t.dealerButtonIndex+i)%n]
		if !p.IsEliminated() {
			t.handOrder = append(t.handOrder, p)
		}
	}
}

func (t *Table) newRoundSetup() {
	t.currentHighestBet = 0
	t.lastRaise = 0
	t.actedSinceRaise = 0
	for _, p := range t.handOrder {
		p.newRound()
	}

	t.actingPos = t.firstActor()
}

func (t *Table) firstActor() int {
	for i, p := range t.handOrder {
		if p.CanAct() {
			return i
		}
	}

	return -1
}

// CurrentTurn returns the player who is currently making a decision
func (t *Table) CurrentTurn() (*Player, error) {
	if !t.stage.IsBettingRound() {
		return nil, ErrNotInBettingRound
	}

	if t.actingPos < 0 {
		return nil, ErrNotInBettingRound
	}

	return t.handOrder[t.actingPos], nil
}

// LegalActions returns the actions the player may take right now, or nil if
// it is not their turn
func (t *Table) LegalActions(playerID int) []action.Action {
	turn, err := t.CurrentTurn()
	if err != nil || turn.PlayerID != playerID {
		return nil
	}

	owe := t.currentHighestBet - turn.CurrentBet()

	actions := make([]action.Action, 0, 3)
	if owe > 0 {
		actions = append(actions, action.Call)
	} else {
		actions = append(actions, action.Check)
	}

	if turn.Balance() > owe {
		actions = append(actions, action.Raise)
	}

	return append(actions, action.Fold)
}

// Act resolves the player's action against the current legal-action set and
// applies it. Illegal checks and unparseable input arrive here as folds or
// are converted; money-corrupting requests are clamped, never honored.
func (t *Table) Act(playerID int, act action.Action, amount int) error {
	turn, err := t.CurrentTurn()
	if err != nil {
		return err
	}

	if turn.PlayerID != playerID {
		return ErrNotPlayersTurn
	}

	if err := t.apply(turn, act, amount); err != nil {
		return err
	}

	if err := t.checkChips(); err != nil {
		return err
	}

	return t.progress()
}

// apply normalizes the action and mutates the player and pot
func (t *Table) apply(p *Player, act action.Action, amount int) error {
	switch act {
	case action.Check:
		if p.CurrentBet() != t.currentHighestBet {
			// a check while owing chips is a client error, resolved as a fold
			return t.applyFold(p)
		}

		t.actedSinceRaise++
		t.logAction(fmt.Sprintf("Player %d %s.", p.PlayerID, action.Check.LogMessage(0)))
		return nil

	case action.Call:
		return t.applyCall(p)

	case action.Raise:
		return t.applyRaise(p, amount)

	default:
		return t.applyFold(p)
	}
}

func (t *Table) applyFold(p *Player) error {
	if err := t.potManager.ParticipantFolds(p); err != nil {
		return err
	}

	p.fold()
	t.logAction(fmt.Sprintf("Player %d %s.", p.PlayerID, action.Fold.LogMessage(0)))
	return nil
}

func (t *Table) applyCall(p *Player) error {
	owe := t.currentHighestBet - p.CurrentBet()
	if owe <= 0 {
		// nothing to call; resolve as a check
		return t.apply(p, action.Check, 0)
	}

	committed, err := t.potManager.Contribute(p, owe)
	if err != nil {
		return err
	}

	if t.potManager.IsAllIn(p) {
		p.allIn(t.potManager.Contributed(p))
	} else {
		p.setBet(p.CurrentBet() + committed)
		t.actedSinceRaise++
	}

	t.logAction(fmt.Sprintf("Player %d %s.", p.PlayerID, action.Call.LogMessage(committed)))
	return nil
}

func (t *Table) applyRaise(p *Player, amount int) error {
	owe := t.currentHighestBet - p.CurrentBet()
	if p.Balance() <= owe {
		// not enough chips to go beyond a call
		return t.applyCall(p)
	}

	// clamp the requested raise into [minRaise, remaining stack]
	minRaise := t.lastRaise
	if minRaise < t.ante {
		minRaise = t.ante
	}

	if amount < minRaise {
		amount = minRaise
	}

	if amount > p.Balance() {
		amount = p.Balance()
	}

	committed, err := t.potManager.Contribute(p, owe+amount)
	if err != nil {
		return err
	}

	// the player had chips beyond the call, so even a capped contribution
	// commits more than owed and the highest bet always moves up
	newBet := p.CurrentBet() + committed
	t.lastRaise = newBet - t.currentHighestBet
	t.currentHighestBet = newBet
	t.actedSinceRaise = 0

	if t.potManager.IsAllIn(p) {
		p.allIn(t.potManager.Contributed(p))
	} else {
		p.setBet(newBet)
		t.actedSinceRaise++
	}

	t.logAction(fmt.Sprintf("Player %d %s.", p.PlayerID, action.Raise.LogMessage(t.lastRaise)))
	return nil
}

// progress moves the hand forward after an action: the next player acts, the
// next community cards come out, or the hand ends
func (t *Table) progress() error {
	if len(t.contenders()) <= 1 {
		return t.finishHand()
	}

	if t.roundOver() {
		return t.advanceStage()
	}

	t.advanceActor()
	return nil
}

// roundOver reports whether the betting round is closed: every player who can
// still act has matched the highest bet and has acted since the last raise
func (t *Table) roundOver() bool {
	active := t.activePlayers()
	if len(active) == 0 {
		return true
	}

	for _, p := range active {
		if p.CurrentBet() != t.currentHighestBet {
			return false
		}
	}

	if len(active) == 1 {
		return true
	}

	return t.actedSinceRaise >= len(active)
}

func (t *Table) advanceActor() {
	n := len(t.handOrder)
	for i := 1; i <= n; i++ {
		index := (t.actingPos + i) % n
		if t.handOrder[index].CanAct() {
			t.actingPos = index
			return
		}
	}

	panic("no player can act")
}

// advanceStage reveals the next community cards and opens the next betting
// round. If fewer than two players can still bet, the remaining cards are
// run out and the hand goes straight to showdown.
func (t *Table) advanceStage() error {
	for {
		t.stage++

		switch t.stage {
		case StageFlop:
			cards, err := t.draw(3)
			if err != nil {
				return err
			}

			t.flop = cards
		case StageTurn:
			cards, err := t.draw(1)
			if err != nil {
				return err
			}

			t.turnCard = cards[0]
		case StageRiver:
			cards, err := t.draw(1)
			if err != nil {
				return err
			}

			t.riverCard = cards[0]
		case StageShowdown:
			return t.finishHand()
		}

		t.logAction(fmt.Sprintf("Table advanced to the %s.", t.stage))
		t.newRoundSetup()

		if len(t.activePlayers()) >= 2 {
			return nil
		}
	}
}

func (t *Table) draw(count int) ([]*deck.Card, error) {
	cards := make([]*deck.Card, count)
	for i := 0; i < count; i++ {
		card, err := t.deck.Draw()
		if err != nil {
			return nil, err
		}

		cards[i] = card
	}

	return cards, nil
}

// finishHand awards the pots, applies eliminations, and settles the hand
func (t *Table) finishHand() error {
	t.stage = StageShowdown

	contenders := t.contenders()
	if len(contenders) == 0 {
		return errors.New("no contenders remain")
	}

	var tiers [][]potmanager.Participant
	if len(contenders) == 1 {
		tiers = [][]potmanager.Participant{{contenders[0]}}
	} else {
		t.logAction("Showdown.")
		community := t.communityCards()

		wm := potmanager.NewWinManager()
		for _, p := range contenders {
			ha := p.getHandAnalyzer(community)
			wm.AddParticipant(p, ha.GetStrength())
			t.logAction(fmt.Sprintf("Player %d shows %s (%s).",
				p.PlayerID, deck.CardsToLabel(p.cards), strings.ToLower(ha.GetHand().String())))
		}

		tiers = wm.GetSortedTiers()
	}

	// the dealer (or the seat nearest behind the button) is last in hand order
	payouts, err := t.potManager.PayWinners(tiers, len(t.handOrder)-1)
	if err != nil {
		return err
	}

	for _, p := range t.handOrder {
		if amount, ok := payouts[p.PlayerID]; ok {
			t.logAction(fmt.Sprintf("Player %d won %d.", p.PlayerID, amount))
		}
	}

	// the pots have been paid out into player stacks
	t.potManager = nil
	t.stage = StageComplete

	for _, p := range t.handOrder {
		if p.Balance() == 0 {
			p.eliminate(t.handNumber)
			t.logAction(fmt.Sprintf("Player %d was eliminated.", p.PlayerID))
		}
	}

	if err := t.checkChips(); err != nil {
		return err
	}

	t.logger.WithFields(logrus.Fields{
		"hand":    t.handNumber,
		"payouts": payouts,
	}).Info("hand finished")

	return nil
}

// checkChips verifies chip conservation. A failure is a logic defect and the
// hand must not continue.
func (t *Table) checkChips() error {
	total := 0
	for _, p := range t.players {
		total += p.Balance()
	}

	if t.potManager != nil {
		total += t.potManager.Total()
	}

	if total != t.initialChips {
		return fmt.Errorf("chip conservation violated: have %d, expected %d", total, t.initialChips)
	}

	return nil
}

// activePlayers returns the dealt-in players who can still make decisions
func (t *Table) activePlayers() []*Player {
	active := make([]*Player, 0, len(t.handOrder))
	for _, p := range t.handOrder {
		if p.CanAct() {
			active = append(active, p)
		}
	}

	return active
}

// contenders returns the players who still have a claim to the pots
func (t *Table) contenders() []*Player {
	contenders := make([]*Player, 0, len(t.handOrder))
	for _, p := range t.handOrder {
		if p.InHand() {
			contenders = append(contenders, p)
		}
	}

	return contenders
}

func (t *Table) communityCards() []*deck.Card {
	cards := make([]*deck.Card, 0, 5)
	cards = append(cards, t.flop...)
	if t.turnCard != nil {
		cards = append(cards, t.turnCard)
	}

	if t.riverCard != nil {
		cards = append(cards, t.riverCard)
	}

	return cards
}

func (t *Table) logAction(message string) {
	t.actions = append(t.actions, message)
}

// Stage returns the current stage of the hand
func (t *Table) Stage() Stage {
	return t.stage
}

// HandNumber returns the current hand number, starting at 1
func (t *Table) HandNumber() int {
	return t.handNumber
}

// Players returns the seats in table order
func (t *Table) Players() []*Player {
	return t.players
}

// GameOver returns true once at most one player has chips left
func (t *Table) GameOver() bool {
	remaining := 0
	for _, p := range t.players {
		if !p.IsEliminated() {
			remaining++
		}
	}

	return remaining <= 1
}

// Standing is a player's result, best finish first
type Standing struct {
	PlayerID       int `json:"id"`
	Chips          int `json:"chips"`
	EliminatedHand int `json:"eliminated_hand,omitempty"`
}

// Standings returns the players ranked by finish: survivors by chip count,
// then eliminated players by how long they lasted
func (t *Table) Standings() []Standing {
	standings := make([]Standing, len(t.players))
	for i, p := range t.players {
		standings[i] = Standing{
			PlayerID:       p.PlayerID,
			Chips:          p.Balance(),
			EliminatedHand: p.eliminatedHand,
		}
	}

	sort.SliceStable(standings, func(i, j int) bool {
		si, sj := standings[i], standings[j]
		if (si.EliminatedHand == 0) != (sj.EliminatedHand == 0) {
			return si.EliminatedHand == 0
		}

		if si.EliminatedHand == 0 {
			return si.Chips > sj.Chips
		}

		return si.EliminatedHand > sj.EliminatedHand
	})

	return standings
}

// Winner returns the last surviving player, or nil if the game is still going
func (t *Table) Winner() *Player {
	if !t.GameOver() {
		return nil
	}

	for _, p := range t.players {
		if !p.IsEliminated() {
			return p
		}
	}

	return nil
}

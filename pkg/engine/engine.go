package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"botpoker-server/internal/rng"
	"botpoker-server/pkg/table"
)

// PlayerConn is a connected player as the engine sees it. The engine never
// touches the transport; it only consumes payloads and queues views.
type PlayerConn interface {
	// ID returns the player's unique identifier
	ID() int

	// Send queues an outbound message for the player. A false return means
	// the message was dropped.
	Send(msg interface{}) bool

	// Messages returns the raw inbound payloads from the player
	Messages() <-chan []byte

	// Done is closed once the connection is gone for good
	Done() <-chan struct{}
}

// Options configures the engine
type Options struct {
	Table       table.Options
	TurnTimeout time.Duration
}

// DefaultOptions returns the default engine options
func DefaultOptions() Options {
	return Options{
		Table:       table.DefaultOptions(),
		TurnTimeout: time.Second,
	}
}

// Engine drives a table of poker hands to completion. A single goroutine owns
// the table; every mutation happens in Run's loop.
type Engine struct {
	logger      logrus.FieldLogger
	tbl         *table.Table
	conns       map[int]PlayerConn
	turnTimeout time.Duration
}

// New creates an engine for the connected players. Seat order follows the
// order of the conns slice.
func New(logger logrus.FieldLogger, random rng.Generator, conns []PlayerConn, opts Options) (*Engine, error) {
	if opts.TurnTimeout <= 0 {
		return nil, errors.New("turn timeout must be > 0")
	}

	playerIDs := make([]int, len(conns))
	connsByID := make(map[int]PlayerConn, len(conns))
	for i, conn := range conns {
		playerIDs[i] = conn.ID()
		if _, ok := connsByID[conn.ID()]; ok {
			return nil, fmt.Errorf("duplicate player ID: %d", conn.ID())
		}

		connsByID[conn.ID()] = conn
	}

	tbl, err := table.New(logger, random, playerIDs, opts.Table)
	if err != nil {
		return nil, err
	}

	return &Engine{
		logger:      logger,
		tbl:         tbl,
		conns:       connsByID,
		turnTimeout: opts.TurnTimeout,
	}, nil
}

// Run plays hands until one player holds all the chips or the context is
// canceled; cancellation is a clean stop, not an error. Errors are logic
// defects (chip conservation, illegal transitions); client misbehavior never
// surfaces here.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			e.logger.Info("game stopped")
			return nil
		}

		return err
	}

	return nil
}

func (e *Engine) run(ctx context.Context) error {
	e.logger.WithField("players", len(e.conns)).Info("game started")

	for !e.tbl.GameOver() {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := e.tbl.StartHand(); err != nil {
			return err
		}

		for e.tbl.Stage().IsBettingRound() {
			if err := e.playTurn(ctx); err != nil {
				return err
			}
		}

		e.broadcast(-1)
	}

	standings := e.tbl.Standings()
	e.logger.WithFields(logrus.Fields{
		"winner":    e.tbl.Winner().PlayerID,
		"hands":     e.tbl.HandNumber(),
		"standings": standings,
	}).Info("game over")

	return nil
}

// playTurn broadcasts the state, obtains the acting player's decision, and
// applies it
func (e *Engine) playTurn(ctx context.Context) error {
	turn, err := e.tbl.CurrentTurn()
	if err != nil {
		return err
	}

	e.broadcast(turn.PlayerID)

	act, amount := e.awaitAction(ctx, e.conns[turn.PlayerID], turn.PlayerID)
	if err := ctx.Err(); err != nil {
		// never apply a partially obtained action on shutdown
		return err
	}

	return e.tbl.Act(turn.PlayerID, act, amount)
}

// broadcast queues each player's view of the current state. The acting
// player is excluded; their view is dispatched when their turn clock starts.
func (e *Engine) broadcast(excludePlayerID int) {
	for id, conn := range e.conns {
		if id == excludePlayerID {
			continue
		}

		if !conn.Send(e.tbl.ViewFor(id)) {
			e.logger.WithField("player", id).Debug("view dropped")
		}
	}
}

// Standings returns the final results once the game is over
func (e *Engine) Standings() []table.Standing {
	return e.tbl.Standings()
}

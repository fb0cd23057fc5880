package engine

import (
	"context"
	"time"

	"botpoker-server/pkg/poker/action"
)

// awaitAction obtains the acting player's decision. The player's turn view is
// dispatched and the deadline starts; whatever arrives first wins the race.
// Silence, disconnection, and unparseable payloads all resolve to a fold.
func (e *Engine) awaitAction(ctx context.Context, conn PlayerConn, playerID int) (action.Action, int) {
	// stale payloads sent out of turn never count as the decision
	drain(conn)

	if !conn.Send(e.tbl.ViewFor(playerID)) {
		return action.Fold, 0
	}

	timer := time.NewTimer(e.turnTimeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return action.Fold, 0
	case <-conn.Done():
		return action.Fold, 0
	case data, ok := <-conn.Messages():
		if !ok {
			return action.Fold, 0
		}

		return action.ParsePayload(data)
	case <-timer.C:
		return action.Fold, 0
	}
}

func drain(conn PlayerConn) {
	for {
		select {
		case <-conn.Messages():
		default:
			return
		}
	}
}

package room

import (
	"context"
	"errors"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// ErrTableFull is returned when a connection arrives after every seat is taken
var ErrTableFull = errors.New("the table is full")

// ErrNotEnoughPlayers is returned when the join window closes before at least
// two players are seated
var ErrNotEnoughPlayers = errors.New("not enough players joined")

// Registry assigns seats to incoming connections until the table is full.
// Seat order follows join order.
type Registry struct {
	logger   logrus.FieldLogger
	expected int

	mu      sync.Mutex
	clients []*Client

	full chan struct{}
}

// NewRegistry returns a registry that waits for the expected number of players
func NewRegistry(logger logrus.FieldLogger, expected int) *Registry {
	return &Registry{
		logger:   logger,
		expected: expected,
		clients:  make([]*Client, 0, expected),
		full:     make(chan struct{}),
	}
}

// Register seats a new connection and returns its client
func (r *Registry) Register(conn *websocket.Conn) (*Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.clients) >= r.expected {
		return nil, ErrTableFull
	}

	client := NewClient(r.logger, conn, len(r.clients)+1)
	r.clients = append(r.clients, client)

	r.logger.WithFields(logrus.Fields{
		"client": client.String(),
		"seated": len(r.clients),
		"needed": r.expected,
	}).Info("player joined")

	if len(r.clients) == r.expected {
		close(r.full)
	}

	return client, nil
}

// Clients returns the seated clients in join order
func (r *Registry) Clients() []*Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	clients := make([]*Client, len(r.clients))
	copy(clients, r.clients)

	return clients
}

// WaitForPlayers blocks until every seat is taken or the join window closes.
// A partial roster is still playable: the window closing only fails if fewer
// than two players are seated.
func (r *Registry) WaitForPlayers(ctx context.Context) ([]*Client, error) {
	select {
	case <-r.full:
		return r.Clients(), nil
	case <-ctx.Done():
		clients := r.Clients()
		if len(clients) < 2 {
			return nil, ErrNotEnoughPlayers
		}

		return clients, nil
	}
}

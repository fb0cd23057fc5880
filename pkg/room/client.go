package room

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const writeWait = time.Second * 10
const pongWait = time.Second * 60
const pingPeriod = pongWait * 9 / 10

// inboundBuffer bounds how many unconsumed payloads a client may queue. The
// engine drains stale payloads each turn, so a small buffer is plenty.
const inboundBuffer = 16

// Client is a player connected to the server via websockets. It pumps
// messages between the socket and the engine; it knows nothing about poker.
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// SessionID uniquely identifies this connection
	SessionID string

	// PlayerID is the seat the client was assigned on registration
	PlayerID int

	logger   logrus.FieldLogger
	send     chan interface{}
	messages chan []byte
	done     chan struct{}
	doneOnce sync.Once
}

// NewClient returns a new client for the connection
func NewClient(logger logrus.FieldLogger, conn *websocket.Conn, playerID int) *Client {
	return &Client{
		Conn:      conn,
		SessionID: uuid.New().String(),
		PlayerID:  playerID,
		logger:    logger,
		send:      make(chan interface{}, 256),
		messages:  make(chan []byte, inboundBuffer),
		done:      make(chan struct{}),
	}
}

// ID returns the client's player ID
func (c *Client) ID() int {
	return c.PlayerID
}

// Send queues a message for the client. A false return means the client's
// send buffer is full or the connection is gone.
func (c *Client) Send(msg interface{}) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// Messages returns the client's inbound payloads
func (c *Client) Messages() <-chan []byte {
	return c.messages
}

// Done is closed once the connection is gone
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// String returns a traceable identifier for the client
func (c *Client) String() string {
	return fmt.Sprintf("player-%d:%s", c.PlayerID, c.SessionID)
}

// WriteLoop pumps outbound messages and keep-alive pings to the socket. It
// runs until the connection fails or the client is done.
func (c *Client) WriteLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case msg := <-c.send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteJSON(msg); err != nil {
				c.logger.WithError(err).WithField("client", c.String()).Error("could not write message")
				c.markDone()
				return
			}
		}
	}
}

// ReadLoop pumps inbound payloads from the socket until the connection
// closes. Payloads beyond the buffer are dropped; only the acting player's
// next message matters, and the engine drains the rest.
func (c *Client) ReadLoop() {
	defer c.markDone()

	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.WithError(err).WithField("client", c.String()).Warn("connection lost")
			}

			return
		}

		select {
		case c.messages <- data:
		default:
			c.logger.WithField("client", c.String()).Trace("dropped payload")
		}
	}
}

func (c *Client) markDone() {
	c.doneOnce.Do(func() {
		close(c.done)
	})
}

package bot

import (
	"context"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"botpoker-server/internal/util"
)

var callPayload = map[string]string{"action": "call"}

// CallBot is the built-in training opponent. It joins the table like any
// remote player and answers every message with a call.
type CallBot struct {
	logger logrus.FieldLogger
	url    string
	name   string
}

// NewCallBot returns a call bot that will connect to the given websocket URL
func NewCallBot(logger logrus.FieldLogger, url string) *CallBot {
	name := util.GetRandomName()

	return &CallBot{
		logger: logger.WithField("bot", name),
		url:    url,
		name:   name,
	}
}

// Name returns the bot's display name
func (b *CallBot) Name() string {
	return b.name
}

// Run connects and plays until the server hangs up or the context ends
func (b *CallBot) Run(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, b.url, nil)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}

		_ = conn.Close()
	}()

	b.logger.Info("connected")

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || ctx.Err() != nil {
				return nil
			}

			return err
		}

		if err := conn.WriteJSON(callPayload); err != nil {
			return err
		}
	}
}

package bot

import (
	"context"
	"math/rand"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"botpoker-server/internal/util"
)

// RandomBot is a chaos-testing opponent. It joins the table like any remote
// player and answers every message with a randomly chosen action, including
// the occasional unknown one to exercise the server's fold fallback.
type RandomBot struct {
	logger logrus.FieldLogger
	url    string
	name   string
	random *rand.Rand
}

// NewRandomBot returns a random bot that will connect to the given websocket URL
func NewRandomBot(logger logrus.FieldLogger, url string) *RandomBot {
	name := util.GetRandomName()

	return &RandomBot{
		logger: logger.WithField("bot", name),
		url:    url,
		name:   name,
		random: rand.New(rand.NewSource(time.Now().UnixNano())), // nolint:gosec
	}
}

// Name returns the bot's display name
func (b *RandomBot) Name() string {
	return b.name
}

// Run connects and plays until the server hangs up or the context ends
func (b *RandomBot) Run(ctx context.Context) error {
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

		if err := conn.WriteJSON(b.nextPayload()); err != nil {
			return err
		}
	}
}

// nextPayload picks the bot's reply. Calls dominate so hands still play out;
// the rest spread across the remaining actions plus one the server won't
// recognize.
func (b *RandomBot) nextPayload() interface{} {
	switch b.random.Intn(10) {
	case 0:
		return map[string]string{"action": "fold"}
	case 1, 2:
		return map[string]string{"action": "check"}
	case 3, 4:
		return map[string]interface{}{"action": "raise", "amount": b.random.Intn(50) + 1}
	case 5:
		return map[string]string{"action": "dance"}
	default:
		return map[string]string{"action": "call"}
	}
}

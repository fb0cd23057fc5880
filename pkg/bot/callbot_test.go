package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestCallBot_Run(t *testing.T) {
	a := assert.New(t)

	received := make(chan []byte, 8)
	upgrader := &websocket.Upgrader{}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		a.NoError(err)

		// any view provokes a decision
		a.NoError(conn.WriteMessage(websocket.TextMessage, []byte(`{"hand_number":1}`)))

		_, data, err := conn.ReadMessage()
		a.NoError(err)
		received <- data

		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	b := NewCallBot(logrus.StandardLogger(), "ws"+strings.TrimPrefix(ts.URL, "http"))
	a.NotEmpty(b.Name())
	a.NoError(b.Run(ctx))

	select {
	case data := <-received:
		a.JSONEq(`{"action":"call"}`, string(data))
	default:
		t.Fatal("bot never replied")
	}
}

func TestCallBot_Run_dialFailure(t *testing.T) {
	a := assert.New(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	b := NewCallBot(logrus.StandardLogger(), "ws://127.0.0.1:1/ws")
	a.Error(b.Run(ctx))
}

package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"botpoker-server/internal/config"
	"botpoker-server/internal/mux"
	"botpoker-server/internal/rng"
	"botpoker-server/pkg/bot"
	"botpoker-server/pkg/engine"
	"botpoker-server/pkg/room"
	"botpoker-server/pkg/table"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", "", "the listen address (overrides the config)")

type botRunner interface {
	Name() string
	Run(ctx context.Context) error
}

func main() {
	flag.Parse()

	// a .env file is optional
	_ = godotenv.Load()

	if err := config.Load(); err != nil {
		logrus.WithError(err).Fatal("could not load config")
	}

	setupLogger()

	cfg := config.Instance()
	if *addr != "" {
		cfg.Addr = *addr
	}

	if cfg.CallBots+cfg.RandomBots > cfg.Players {
		logrus.Fatal("bots cannot outnumber players")
	}

	registry := room.NewRegistry(logrus.StandardLogger(), cfg.Players)

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})

	srv := &http.Server{
		Handler:      loggingHandler(c.Handler(mux.NewMux(logrus.StandardLogger(), Version, registry))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		logrus.WithError(err).Fatal("could not listen")
	}

	logrus.WithField("addr", listener.Addr().String()).Info("listening")
	go func() {
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	botURL := fmt.Sprintf("ws://%s/ws", listener.Addr().String())
	bots := make([]botRunner, 0, cfg.CallBots+cfg.RandomBots)
	for i := 0; i < cfg.CallBots; i++ {
		bots = append(bots, bot.NewCallBot(logrus.StandardLogger(), botURL))
	}
	for i := 0; i < cfg.RandomBots; i++ {
		bots = append(bots, bot.NewRandomBot(logrus.StandardLogger(), botURL))
	}

	for _, b := range bots {
		b := b
		go func() {
			if err := b.Run(ctx); err != nil {
				logrus.WithError(err).WithField("bot", b.Name()).Error("bot stopped")
			}
		}()
	}

	joinCtx, joinCancel := context.WithTimeout(ctx, cfg.JoinWindow())
	clients, err := registry.WaitForPlayers(joinCtx)
	joinCancel()
	if err != nil {
		logrus.WithError(err).Fatal("table never filled")
	}

	conns := make([]engine.PlayerConn, len(clients))
	for i, client := range clients {
		conns[i] = client
	}

	e, err := engine.New(logrus.StandardLogger(), rng.Crypto{}, conns, engine.Options{
		Table: table.Options{
			StartingStack: cfg.StartingStack,
			Ante:          cfg.Ante,
		},
		TurnTimeout: cfg.TurnTimeout(),
	})
	if err != nil {
		logrus.WithError(err).Fatal("could not create engine")
	}

	if err := e.Run(ctx); err != nil {
		logrus.WithError(err).Fatal("game aborted")
	}

	for place, standing := range e.Standings() {
		logrus.WithFields(logrus.Fields{
			"place":  place + 1,
			"player": standing.PlayerID,
			"chips":  standing.Chips,
		}).Info("final standing")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

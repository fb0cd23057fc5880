package mux

import (
	"net/http"

	gmux "github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"botpoker-server/pkg/room"
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	logger   logrus.FieldLogger
	version  string
	registry *room.Registry
}

// NewMux returns a new HTTP mux
func NewMux(logger logrus.FieldLogger, version string, registry *room.Registry) *Mux {
	this := &Mux{
		Router:   gmux.NewRouter(),
		logger:   logger,
		version:  version,
		registry: registry,
	}

	this.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	this.Methods(http.MethodGet).Path("/ws").Handler(this.getWS())

	return this
}

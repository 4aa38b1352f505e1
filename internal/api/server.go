// Package api provides the REST surface over the town registry. It owns
// HTTP status mapping and the response envelope; the core reports boolean
// results, lookup misses, or errors from town creation and joining.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pixil98/go-town/internal/town"
)

const shutdownTimeout = 5 * time.Second

// Server is a service worker exposing the town REST API and, optionally, the
// socket transport endpoint.
type Server struct {
	addr     string
	registry *town.TownRegistry
	socket   http.Handler
}

// ServerOpt configures a Server.
type ServerOpt func(*Server)

// WithSocketHandler mounts h at /ws for the realtime transport.
func WithSocketHandler(h http.Handler) ServerOpt {
	return func(s *Server) {
		s.socket = h
	}
}

// NewServer creates a REST server over the given registry.
func NewServer(addr string, registry *town.TownRegistry, opts ...ServerOpt) *Server {
	s := &Server{
		addr:     addr,
		registry: registry,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router. Exposed for tests.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Post("/towns", s.handleCreateTown)
	r.Get("/towns", s.handleListTowns)
	r.Patch("/towns/{townID}", s.handleUpdateTown)
	r.Delete("/towns/{townID}", s.handleDeleteTown)
	r.Post("/sessions", s.handleJoinTown)
	r.Post("/towns/{townID}/conversationAreas", s.handleCreateConversationArea)
	r.Get("/status", s.handleStatus)

	if s.socket != nil {
		r.Get("/ws", s.socket.ServeHTTP)
	}

	return r
}

// Start serves until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

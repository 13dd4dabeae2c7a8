// Copyright (c) 2026 Courtrecord. All rights reserved.
// Author: m.koers.dev@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
collection handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mkoers/courtrecord/internal/catalog/evidence"
	"github.com/mkoers/courtrecord/internal/catalog/game"
	"github.com/mkoers/courtrecord/internal/catalog/gamecase"
	"github.com/mkoers/courtrecord/internal/catalog/profile"
	"github.com/mkoers/courtrecord/internal/platform/config"
	"github.com/mkoers/courtrecord/internal/platform/constants"
	"github.com/mkoers/courtrecord/internal/platform/middleware"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all collection-specific HTTP handler sets.
//
// # Usage
//
// New collections add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Evidence serves the /evidence collection.
	Evidence *evidence.Handler

	// Cases serves the /cases collection.
	Cases *gamecase.Handler

	// Profiles serves the /profiles collection.
	Profiles *profile.Handler

	// Games serves the /games collection.
	Games *game.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.AcceptJSON())
	r.Use(middleware.CORS())
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Health probes for container orchestration, exempt from content negotiation.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// The four collections are mounted at the root, mirroring the public
	// URL layout the hyperlinks advertise.
	r.Mount("/evidence", h.Evidence.Routes())
	r.Mount("/cases", h.Cases.Routes())
	r.Mount("/profiles", h.Profiles.Routes())
	r.Mount("/games", h.Games.Routes())

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}

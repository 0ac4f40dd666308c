// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

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

	"github.com/taibuivan/bookshelf/internal/catalog/book"
	"github.com/taibuivan/bookshelf/internal/platform/config"
	"github.com/taibuivan/bookshelf/internal/platform/constants"
	"github.com/taibuivan/bookshelf/internal/platform/middleware"
	"github.com/taibuivan/bookshelf/internal/social/review"
	"github.com/taibuivan/bookshelf/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     chi.Router
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler, 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler, 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Metrics serves the Prometheus exposition format. Optional.
	Metrics http.Handler

	// Auth handles register, login and the current-account probe.
	Auth *auth.Handler

	// Books serves the catalogue.
	Books *book.Handler

	// Reviews handles reader reviews.
	Reviews *review.Handler
}

// # Router

/*
NewRouter builds the chi router with the full middleware chain and all
route groups.

Parameters:
  - ctx: context.Context (stops the rate limiter's cleanup loop)
  - cfg: *config.Config
  - log: *slog.Logger
  - recorder: middleware.RequestRecorder (nil disables request metrics)
  - h: Handlers

Returns:
  - chi.Router: The root handler
*/
func NewRouter(ctx context.Context, cfg *config.Config, log *slog.Logger, recorder middleware.RequestRecorder, h Handlers) chi.Router {
	r := chi.NewRouter()

	rps, burst := cfg.RateLimitRPS, cfg.RateLimitBurst
	if rps <= 0 || burst <= 0 {
		rps, burst = constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst
	}
	limiter := middleware.NewRateLimiter(ctx, rps, burst)

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	if recorder != nil {
		r.Use(middleware.Instrument(recorder))
	}
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(limiter.Handler)
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	// # Application API
	r.Route("/api", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/books", h.Books.Routes())
		api.Mount("/reviews", h.Reviews.Routes())
	})

	return r
}

// # Server Initialization

// NewServer wraps [NewRouter] in an [http.Server] listening on cfg.ServerPort.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, recorder middleware.RequestRecorder, h Handlers) *Server {
	router := NewRouter(ctx, cfg, log, recorder, h)

	return &Server{
		router: router,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
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
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// Package server is the local trigger emulator: an HTTP front that
// synthesizes trigger events from plain requests, hands them to an
// invoker, and replays the function's wire responses back to the
// caller. It also exposes operational endpoints under /_front for
// health and recorded invocations.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/lambdafront/lambdafront/internal/config"
	"github.com/lambdafront/lambdafront/internal/domain"
	"github.com/lambdafront/lambdafront/internal/invoker"
	"github.com/lambdafront/lambdafront/internal/storage"
)

// Server hosts the invocation catch-all and the /_front endpoints.
type Server struct {
	cfg    *config.Config
	inv    invoker.Invoker
	store  storage.Store // nil when recording is disabled
	synth  *Synthesizer
	logger *slog.Logger

	httpServer *http.Server
}

// New assembles a server from validated configuration. The store may be
// nil; the record endpoints then report recording as disabled.
func New(cfg *config.Config, inv invoker.Invoker, store storage.Store, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if inv == nil {
		return nil, fmt.Errorf("invoker is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:    cfg,
		inv:    inv,
		store:  store,
		synth:  NewSynthesizer(domain.Trigger(cfg.Format)),
		logger: logger,
	}
	s.httpServer = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.buildRouter(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s, nil
}

func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(s.logger))
	r.Use(TimeoutMiddleware(s.cfg.Server.WriteTimeout))
	r.Use(middleware.Recoverer)
	if s.cfg.RateLimit.Enabled {
		limiter := rate.NewLimiter(rate.Limit(s.cfg.RateLimit.RPS), s.cfg.RateLimit.Burst)
		r.Use(ThrottleMiddleware(limiter))
	}

	r.Route("/_front", func(r chi.Router) {
		r.Get("/healthz", s.handleHealth)
		r.Get("/invocations", s.handleListInvocations)
		r.Get("/invocations/{id}", s.handleGetInvocation)
	})
	r.Handle("/*", http.HandlerFunc(s.handleInvoke))

	var handler http.Handler = r
	if s.cfg.Telemetry.Enabled {
		handler = otelhttp.NewHandler(handler, "lambdafront")
	}
	return handler
}

// Handler exposes the assembled handler chain for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start runs the server until Shutdown or a listener error.
func (s *Server) Start() error {
	s.logger.Info("emulator listening",
		slog.String("addr", s.httpServer.Addr),
		slog.String("format", string(s.synth.Trigger())),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}
	return nil
}

// Shutdown drains in-flight requests until the context expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("emulator shutting down")
	return s.httpServer.Shutdown(ctx)
}

// Package server exposes the assembly pipeline over HTTP.
//
// # Routes
//
//	GET    /healthz                 liveness and build information
//	GET    /metrics                 Prometheus metrics, when enabled
//	POST   /v1/assemble             assemble the model in the request body
//	POST   /v1/validate             check a model against the JSON schema
//	GET    /v1/models               list stored models
//	POST   /v1/models               store a model under a new id
//	PUT    /v1/models/{id}          store a model
//	GET    /v1/models/{id}          fetch a stored model
//	DELETE /v1/models/{id}          delete a stored model
//	GET    /v1/models/{id}/graph    assemble a stored model
//
// Assembly routes accept the query parameters format (json, entities, dot
// or svg), detailed, hidden and refresh. Request bodies are JSON unless the
// Content-Type names YAML.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/lyphgraph/pkg/assemble"
	"github.com/matzehuels/lyphgraph/pkg/pipeline"
	"github.com/matzehuels/lyphgraph/pkg/store"
)

// Config configures a Server.
type Config struct {
	// Addr is the TCP listen address, e.g. ":8080". Port 0 picks a free port.
	Addr string

	// MaxBodyBytes limits request bodies. Zero means 16 MiB.
	MaxBodyBytes int64

	// RequestTimeout bounds every request. Zero means one minute.
	RequestTimeout time.Duration

	// ShutdownTimeout is how long Serve waits for in-flight requests after
	// its context is cancelled. Zero means 10 seconds.
	ShutdownTimeout time.Duration

	// Assemble holds the engine options used for every request.
	Assemble assemble.Options

	// Metrics, if set, is served at /metrics.
	Metrics http.Handler
}

func (c Config) withDefaults() Config {
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 16 << 20
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = time.Minute
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	return c
}

// Server serves the HTTP API.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	router chi.Router

	ready chan struct{}
	addr  net.Addr
}

// New creates a server. runner and models are required.
func New(cfg Config, runner *pipeline.Runner, models store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:    cfg.withDefaults(),
		runner: runner,
		store:  models,
		logger: logger,
		ready:  make(chan struct{}),
	}
	s.router = s.routes()
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Ready returns a channel that is closed once the server accepts
// connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the resolved listen address. Only valid after Ready is
// closed.
func (s *Server) Addr() net.Addr {
	return s.addr
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/healthz", s.health)
	if s.cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.cfg.Metrics)
	}
	r.Route("/v1", func(r chi.Router) {
		r.Post("/assemble", s.assemble)
		r.Post("/validate", s.validate)
		r.Route("/models", func(r chi.Router) {
			r.Get("/", s.listModels)
			r.Post("/", s.createModel)
			r.Put("/{id}", s.putModel)
			r.Get("/{id}", s.getModel)
			r.Delete("/{id}", s.deleteModel)
			r.Get("/{id}/graph", s.modelGraph)
		})
	})
	return r
}

// Serve listens on the configured address and blocks until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	s.addr = listener.Addr()
	close(s.ready)

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.logger.Info("http server listening", "address", s.addr.String())

	serveDone := make(chan error, 1)
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveDone <- err
		}
		close(serveDone)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("http server shutting down")
	case err := <-serveDone:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

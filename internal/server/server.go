// Package server exposes the card renderer over HTTP.
//
// Routes:
//
//	POST /v1/cards        render one record
//	POST /v1/cards/batch  render many records, one outcome each
//	GET  /v1/cards/{name} serve a rendered PNG from the output directory
//	GET  /healthz         liveness
//
// Every response carries an X-Request-Id header. JSON responses use one
// envelope, with the request id repeated under meta:
//
//	{"success": true, "data": {...}, "meta": {"request_id": "..."}}
//	{"success": false,
//	 "error": {"code": "MALFORMED_RECORD", "message": "...",
//	           "details": [{"field": "title", "message": "..."}]},
//	 "meta": {"request_id": "..."}}
//
// code is the [errors.Code] of the failure; details lists per-field problems
// of a rejected record and is omitted otherwise.
//
// [errors.Code]: github.com/matzehuels/workcard/pkg/errors.Code
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/workcard/pkg/pipeline"
	"github.com/matzehuels/workcard/pkg/record"
)

const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 4 << 20
	DefaultMaxBatch     = 100
	DefaultWriteTimeout = 2 * time.Minute

	shutdownTimeout = 10 * time.Second
)

// Config holds the [server] section of the CLI config file.
type Config struct {
	Addr         string        `toml:"addr"`
	MaxBodyBytes int64         `toml:"max_body_bytes"`
	MaxBatch     int           `toml:"max_batch"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.MaxBatch <= 0 {
		c.MaxBatch = DefaultMaxBatch
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
}

// Renderer is the subset of [pipeline.Renderer] the server needs.
type Renderer interface {
	Render(ctx context.Context, rec *record.Work, variant string) (*pipeline.Card, error)
	RenderBatch(ctx context.Context, recs []record.Work, variant string) []pipeline.Outcome
	OutputDir() string
}

// Server routes HTTP requests to a Renderer.
type Server struct {
	cfg      Config
	renderer Renderer
	logger   *log.Logger
	router   chi.Router
}

// New builds the router. A nil logger uses log.Default().
func New(r Renderer, cfg Config, logger *log.Logger) *Server {
	cfg.SetDefaults()
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{cfg: cfg, renderer: r, logger: logger}

	router := chi.NewRouter()
	router.Use(requestID)
	router.Use(s.accessLog)
	router.Use(s.recoverer)
	router.Use(middleware.CleanPath)

	router.Get("/healthz", s.health)
	router.Route("/v1/cards", func(cr chi.Router) {
		cr.Post("/", s.renderCard)
		cr.Post("/batch", s.renderBatch)
		cr.Get("/{name}", s.serveCard)
	})
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "no such route", nil)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" not allowed", nil)
	})

	s.router = router
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

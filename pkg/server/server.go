// Package server exposes the export pipeline over a small local HTTP API.
//
// Routes:
//
//	POST /v1/export   {"input": "...", "output_dir": "..."} -> artifact paths
//	POST /v1/compile  {"input": "..."} -> DOT text
//	GET  /v1/locate   renderer search candidates and the resolved executable
//	GET  /healthz     liveness and build information
//	GET  /metrics     Prometheus metrics, when a handler is configured
//
// Requests are served concurrently. Exports share no mutable state, so two
// requests writing the same artifact paths are last-writer-wins.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/rfdraw/pkg/pipeline"
	"github.com/matzehuels/rfdraw/pkg/renderer"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:8765"

// shutdownTimeout bounds graceful shutdown once the context is done.
const shutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	// Runner executes exports. Nil uses pipeline.NewRunner().
	Runner *pipeline.Runner

	// Locator backs GET /v1/locate. Nil detects the running environment.
	Locator *renderer.Locator

	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler

	// Logger receives request logs. Nil discards them.
	Logger *log.Logger
}

// Server holds the HTTP handlers.
type Server struct {
	runner   *pipeline.Runner
	locator  *renderer.Locator
	metrics  http.Handler
	logger   *log.Logger
	validate *validator.Validate
}

// New creates a Server.
func New(opts Options) (*Server, error) {
	s := &Server{
		runner:   opts.Runner,
		locator:  opts.Locator,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(pipeline.WithLogger(s.logger))
	}
	if s.locator == nil {
		l, err := renderer.NewLocator()
		if err != nil {
			return nil, err
		}
		s.locator = l
	}
	return s, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/export", s.handleExport)
		r.Post("/compile", s.handleCompile)
		r.Get("/locate", s.handleLocate)
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully. In-flight renders run to completion.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Package server exposes the analysis engine over HTTP.
//
// The API accepts graphs in the plain-text block format (or by URL) and
// runs the same operations as the CLI. Every analysis is persisted as a
// run that can be fetched again by id:
//
//	POST /v1/graphs/width      {"text": "# g\n2\ns t 1\n..."}
//	POST /v1/graphs/antichain
//	POST /v1/graphs/safety     {"source": "https://...", "mode": "dominators"}
//	POST /v1/graphs/decompose
//	GET  /v1/runs/{id}
//	GET  /healthz
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/pathcover/pkg/engine"
	"github.com/matzehuels/pathcover/pkg/runstore"
)

// defaultRunTTL is how long completed runs stay fetchable.
const defaultRunTTL = runstore.DefaultTTL

// Server handles HTTP requests against the analysis engine.
type Server struct {
	engine *engine.Engine
	store  runstore.Store
	logger *log.Logger
	runTTL time.Duration
}

// New creates a server. A nil store falls back to an in-memory store and a
// nil logger to log.Default().
func New(eng *engine.Engine, store runstore.Store, logger *log.Logger) *Server {
	if store == nil {
		store = runstore.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		engine: eng,
		store:  store,
		logger: logger,
		runTTL: defaultRunTTL,
	}
}

// Router builds the chi router with all routes and middleware registered.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/graphs", func(r chi.Router) {
			r.Post("/width", s.handleAnalyze("width"))
			r.Post("/antichain", s.handleAnalyze("antichain"))
			r.Post("/safety", s.handleAnalyze("safety"))
			r.Post("/decompose", s.handleAnalyze("decompose"))
		})
		r.Get("/runs/{id}", s.handleGetRun)
	})

	return r
}

// Serve runs the HTTP server on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

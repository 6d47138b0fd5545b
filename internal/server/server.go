// Package server exposes the generator over HTTP.
//
// Routes:
//
//	GET  /healthz                               liveness
//	POST /v1/generate                           declarations in, document out
//	POST /v1/sort                               emission order and cycles
//	POST /v1/graph?detailed=1&format=svg        dependency graph (DOT or SVG)
//	GET  /v1/runs?limit=N                       recorded runs, newest first
//	GET  /v1/runs/{id}                          one run with its declarations
//	GET  /v1/declarations/{name}/history        fingerprints of one declaration
//
// The history routes answer 501 when the engine has no store.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/roach88/iogen/internal/engine"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// Server serves the playground API.
type Server struct {
	engine *engine.Engine
	logger *slog.Logger
	router chi.Router
}

// New creates a Server backed by e. A nil logger uses slog.Default().
func New(e *engine.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{engine: e, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Post("/sort", s.handleSort)
		r.Post("/graph", s.handleGraph)

		r.Group(func(r chi.Router) {
			r.Use(s.requireStore)
			r.Get("/runs", s.handleRuns)
			r.Get("/runs/{id}", s.handleRun)
			r.Get("/declarations/{name}/history", s.handleDeclarationHistory)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("playground server starting", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("playground server stopping")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) requireStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.engine.Store() == nil {
			writeError(w, http.StatusNotImplemented, "HISTORY_DISABLED", "server runs without a history database", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

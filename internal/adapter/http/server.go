// Package http exposes the cached artifacts plus health and metrics
// endpoints.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/acrenwood/flightwatch/internal/store"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server serves the derived documents straight from the store, so responses
// always reflect the latest completed build.
type Server struct {
	httpServer *http.Server
	store      *store.Store
	logger     *slog.Logger
}

// NewServer creates an HTTP server with document, health, readiness, and
// metrics routes.
func NewServer(addr string, st *store.Store, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		store:  st,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/normals", s.handleDocument("derived/gdd_normals.json"))
	mux.HandleFunc("GET /api/timeline", s.handleDocument("derived/gdd_timeline.json"))
	mux.HandleFunc("GET /api/profiles", s.handleDocument("derived/species_profiles.json"))
	mux.HandleFunc("GET /api/observations", s.handleDocument("live/observations.json"))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleDocument serves the payload of a cached document. The envelope's
// provenance travels in headers rather than the body, so clients get the
// bare payload they would compute themselves.
func (s *Server) handleDocument(rel string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env, found, err := s.store.ReadRaw(rel)
		if err != nil {
			s.logger.Error("document read failed", "path", rel, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "document unreadable"})
			return
		}
		if !found {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "document not built yet"})
			return
		}

		if env.Meta.Source != "" {
			w.Header().Set("X-Data-Source", env.Meta.Source)
		}
		if !env.Meta.FetchedAt.IsZero() {
			w.Header().Set("X-Fetched-At", env.Meta.FetchedAt.UTC().Format(time.RFC3339))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(env.Unwrap())
	}
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort health response
}

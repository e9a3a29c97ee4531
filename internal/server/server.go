// Package server hosts the local preview: it serves the generated site with
// clean-URL resolution, exposes build status and health endpoints, and
// rebuilds on content changes.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/elizaos/docsite/internal/config"
	"github.com/elizaos/docsite/internal/manifest"
	"github.com/elizaos/docsite/internal/metrics"
	"github.com/elizaos/docsite/internal/site"
)

// Builder is the subset of the site generator the server drives.
type Builder interface {
	Build(ctx context.Context) (*manifest.BuildRecord, error)
	BuildIfChanged(ctx context.Context) (*manifest.BuildRecord, bool, error)
	OutputDir() string
}

// Options carries optional server collaborators.
type Options struct {
	Recorder metrics.Recorder
	Store    *manifest.Store

	// Metrics exposes /metrics when the recorder can serve one.
	MetricsHandler http.Handler
}

// Server serves the built site and coordinates watch-driven rebuilds.
type Server struct {
	cfg     *config.Config
	builder Builder
	opts    Options
	router  *chi.Mux
	srv     *http.Server
}

// New wires the preview server routes. The builder's output directory is the
// document root.
func New(cfg *config.Config, builder Builder, opts Options) *Server {
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}

	s := &Server{
		cfg:     cfg,
		builder: builder,
		opts:    opts,
		router:  chi.NewRouter(),
	}
	s.setupRoutes()

	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Serve.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/api/status", s.handleStatus)
	s.router.Get("/api/builds", s.handleBuildHistory)

	if s.cfg.Serve.Metrics && s.opts.MetricsHandler != nil {
		path := s.cfg.Serve.MetricsPath
		if path == "" {
			path = config.DefaultMetricsPath
		}
		s.router.Get(path, s.opts.MetricsHandler.ServeHTTP)
	}

	s.router.NotFound(newStaticHandler(s.builder.OutputDir()).ServeHTTP)
}

// Run serves until the context ends, then shuts down gracefully. The port is
// pre-bound so address conflicts surface before any goroutine starts.
func (s *Server) Run(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("bind port %d: %w", s.cfg.Serve.Port, err)
	}

	slog.Info("Preview server listening",
		slog.Int("port", s.cfg.Serve.Port),
		slog.String("url", fmt.Sprintf("http://localhost:%d", s.cfg.Serve.Port)))

	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	slog.Info("Preview server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStatus returns the record of the most recent build in the output
// directory.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	record, err := manifest.Load(s.builder.OutputDir())
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no build yet"})
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// handleBuildHistory lists recent builds from the history store when one is
// attached.
func (s *Server) handleBuildHistory(w http.ResponseWriter, r *http.Request) {
	if s.opts.Store == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "build history not enabled"})
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	summaries, err := s.opts.Store.Recent(r.Context(), limit)
	if err != nil {
		slog.Error("Build history query failed", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "history query failed"})
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var _ Builder = (*site.Generator)(nil)

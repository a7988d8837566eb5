// Package ui serves the JSON API the grid client talks to, plus the SSE
// update stream. Mutating handlers call exactly one store or engine action;
// the broadcast to connected clients happens through the store's change hook,
// not in the handlers.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leaptable/internal/engine"
	"github.com/leapstack-labs/leaptable/internal/store"
	"github.com/leapstack-labs/leaptable/internal/ui/notifier"
)

// Server is the UI server.
type Server struct {
	store    *store.Store
	engine   *engine.Engine
	buffer   *store.EditBuffer
	notifier *notifier.Notifier
	port     int
	watchDir string
	logger   *slog.Logger
}

// Config holds configuration for the UI server.
type Config struct {
	Store  *store.Store
	Engine *engine.Engine
	// Buffer coalesces free-text cell edits; nil commits edits directly.
	Buffer   *store.EditBuffer
	Notifier *notifier.Notifier
	Port     int
	// WatchDir, when non-empty, is watched for dropped files which are
	// uploaded into the active table.
	WatchDir string
	Logger   *slog.Logger
}

// NewServer creates a UI server.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	n := cfg.Notifier
	if n == nil {
		n = notifier.New()
	}
	return &Server{
		store:    cfg.Store,
		engine:   cfg.Engine,
		buffer:   cfg.Buffer,
		notifier: n,
		port:     cfg.Port,
		watchDir: cfg.WatchDir,
		logger:   logger,
	}
}

// Notifier returns the server's notifier; wire the store's change hook to its
// Broadcast.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	s.setupRoutes(r)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watchDir != "" {
		eg.Go(func() error {
			return s.watchDrops(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

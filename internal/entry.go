// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/minhdang/planboard/internal/api"
	"github.com/minhdang/planboard/internal/auth"
	"github.com/minhdang/planboard/internal/boardservice"
	"github.com/minhdang/planboard/internal/directory"
	"github.com/minhdang/planboard/internal/notify"
	"github.com/minhdang/planboard/internal/sse"
	"github.com/minhdang/planboard/internal/store"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize SQLite store.
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	// Menu directory, SSE broker, notification center.
	dir := directory.New()
	broker := sse.NewBroker(2 * time.Second)
	notes := notify.NewCenter()

	svc := boardservice.NewService(db, dir, broker, notes)
	if err := svc.RefreshDirectory(); err != nil {
		logger.Warn("initial directory refresh failed", slog.String("error", err.Error()))
	}

	var sessions *auth.Service
	if cfg.Auth.Mode == AuthModeSession {
		sessions = auth.NewService(db, cfg.Auth.SessionTTL.Std())
	}

	apiRouter := api.NewRouter(svc, sessions, cfg.Auth.Mode, cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the database file for external writers; each burst of changes
	// triggers one directory refresh.
	g.Go(func() error {
		if err := directory.Watch(gCtx, cfg.SQLite.Path, logger, func() {
			if err := svc.RefreshDirectory(); err != nil {
				logger.Warn("directory refresh failed", slog.String("error", err.Error()))
			}
		}); err != nil {
			logger.Warn("directory watcher unavailable", slog.String("error", err.Error()))
		}
		return nil
	})

	// Periodic maintenance: notification pruning and session expiry.
	g.Go(func() error {
		interval := cfg.Notify.PruneInterval.Std()
		if interval <= 0 {
			interval = 10 * time.Minute
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				if n := notes.Prune(cfg.Notify.MaxAge.Std(), cfg.Notify.MaxCount); n > 0 {
					logger.Debug("notifications pruned", slog.Int("count", n))
				}
				if err := db.DeleteExpiredSessions(); err != nil {
					logger.Warn("session cleanup failed", slog.String("error", err.Error()))
				}
			}
		}
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		broker.Close()

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

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

	"github.com/starford/daybook/internal/account"
	"github.com/starford/daybook/internal/api"
	"github.com/starford/daybook/internal/journal"
	"github.com/starford/daybook/internal/mcpserver"
	"github.com/starford/daybook/internal/sse"
	"github.com/starford/daybook/internal/storage"
	"github.com/starford/daybook/internal/textproc"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if err := app.init(os.Stdout); err != nil {
		return err
	}

	cfg, logger := app.config, app.logger

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("data_path", cfg.Data.Path),
		slog.String("sqlite_path", cfg.Accounts.SQLitePath),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure data directory exists.
	if err := os.MkdirAll(cfg.Data.Path, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	// Initialize storage.
	store, err := storage.NewFS(cfg.Data.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	// Initialize account database and sessions.
	accounts, err := account.Open(cfg.Accounts.SQLitePath)
	if err != nil {
		return fmt.Errorf("init accounts: %w", err)
	}
	defer accounts.Close()

	sessions := account.NewSessions(cfg.Accounts.SessionTTL)

	// Optional Ollama-backed text processing. Warm the model up in the
	// background so the first request doesn't pay the load cost.
	proc := textproc.New(cfg.Text.OllamaURL, cfg.Text.Model, logger)
	proc.WarmUp()

	// SSE broker.
	broker := sse.NewBroker()
	defer broker.Close()

	// Journal service pushes every diary/note event to SSE clients.
	svc := journal.NewService(store, logger, broker.PublishJournalEvent)

	apiRouter := api.NewRouter(svc, store, accounts, sessions, proc, http.HandlerFunc(broker.ServeHTTP))

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

	// Watch every known user's quick-note directory so out-of-band
	// edits (sync clients, manual file drops) still reach SSE clients.
	users, err := accounts.Usernames()
	if err != nil {
		logger.Warn("list users for watchers failed", slog.String("error", err.Error()))
	}
	for _, user := range users {
		user := user
		dir, err := store.NoteDir(user)
		if err != nil {
			logger.Warn("note dir for watcher failed",
				slog.String("user", user), slog.String("error", err.Error()))
			continue
		}
		g.Go(func() error {
			if err := journal.Watch(gCtx, dir, logger, broker.PublishJournalEvent, user); err != nil {
				logger.Warn("note watcher stopped",
					slog.String("user", user), slog.String("error", err.Error()))
			}
			return nil
		})
	}

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

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP starts the stdio MCP server for the configured user. Logs go
// to stderr so they don't corrupt the stdio transport.
func RunMCP(opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if err := app.init(os.Stderr); err != nil {
		return err
	}

	cfg, logger := app.config, app.logger

	if err := os.MkdirAll(cfg.Data.Path, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Data.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	svc := journal.NewService(store, logger, nil)
	srv := mcpserver.New(svc, store, cfg.MCP.User)

	logger.Info("MCP server starting on stdio", slog.String("user", cfg.MCP.User))
	return srv.ServeStdio()
}

package internal

import (
	"fmt"
	"log/slog"
	"os"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	logger *slog.Logger
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// init validates the assembled options and builds the structured JSON
// logger. Logs go to dest so MCP mode can keep stdout clean for its
// stdio transport.
func (a *application) init(dest *os.File) error {
	if a.config == nil {
		return fmt.Errorf("config is required")
	}

	a.logger = slog.New(slog.NewJSONHandler(dest, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
	slog.SetDefault(a.logger)

	return nil
}

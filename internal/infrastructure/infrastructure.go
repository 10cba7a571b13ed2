// Package infrastructure provides core service initialization for application startup.
// It assembles the shared dependencies (logging, subprocess execution, storage, and
// the optional run-history database) that domain systems require.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JaimeStill/regtriage/internal/config"
	"github.com/JaimeStill/regtriage/pkg/database"
	"github.com/JaimeStill/regtriage/pkg/lifecycle"
	"github.com/JaimeStill/regtriage/pkg/process"
	"github.com/JaimeStill/regtriage/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Database is nil unless run history is enabled.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Runner    process.Runner
	Database  database.System
	Storage   storage.System
}

// NewLogger returns the text logger used by the server and CLI.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
// A nil logger logs at info level to stderr.
func New(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	if logger == nil {
		logger = NewLogger(os.Stderr, slog.LevelInfo)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	var db database.System
	if cfg.Database.Enabled {
		db, err = database.New(&cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Runner:    process.NewExec(),
		Database:  db,
		Storage:   store,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}

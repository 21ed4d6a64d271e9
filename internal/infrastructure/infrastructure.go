// Package infrastructure assembles the shared runtime systems that every
// domain module depends on: lifecycle coordination, structured logging, the
// report database, and evidence blob storage.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aquaguardian/aquaguardian/internal/config"
	"github.com/aquaguardian/aquaguardian/pkg/database"
	"github.com/aquaguardian/aquaguardian/pkg/lifecycle"
	"github.com/aquaguardian/aquaguardian/pkg/storage"
)

// Infrastructure is the bundle of core systems handed to domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
}

// New builds the infrastructure from configuration. Systems are constructed
// but not connected; call Start to register them with the lifecycle.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
	}, nil
}

// Start registers database and storage startup and shutdown hooks with the
// lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start: %w", err)
	}
	return nil
}

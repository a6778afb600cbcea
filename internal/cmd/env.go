package cmd

import (
	"context"
	"fmt"

	"github.com/launchmap/launchmap/internal/audit"
	"github.com/launchmap/launchmap/internal/config"
	"github.com/launchmap/launchmap/internal/depgraph"
	"github.com/launchmap/launchmap/internal/depstore"
	"github.com/launchmap/launchmap/internal/logging"
)

// store is what the CLI needs from a backend: the engine's collaborator
// contracts plus direct task CRUD.
type store interface {
	depgraph.EdgeStore
	depgraph.TaskDirectory
	depgraph.AccessPolicy

	PutTask(ctx context.Context, task depgraph.Task) error
	DeleteTask(ctx context.Context, taskID string) error
}

// env bundles the wired engine and its backends for one command run.
type env struct {
	cfg    *config.Config
	store  store
	engine *depgraph.Engine
	audit  *audit.Log
	log    *logging.Logger

	closers []func() error
}

// openEnv loads config and wires the engine over the configured backend.
func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	e := &env{cfg: cfg}

	if cfg.Logging.Enabled {
		log, err := logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
		if err != nil {
			return nil, fmt.Errorf("opening log: %w", err)
		}
		e.log = log
		e.closers = append(e.closers, log.Close)
	} else {
		e.log = logging.NopLogger()
	}

	switch cfg.Storage.Driver {
	case "memory":
		e.store = depstore.NewMemory()
	default:
		sqlite, err := depstore.OpenSQLite(cfg.StoragePath())
		if err != nil {
			return nil, err
		}
		e.store = sqlite
		e.closers = append(e.closers, sqlite.Close)
	}

	auditLog, err := audit.NewLog(cfg.AuditDir())
	if err != nil {
		return nil, err
	}
	e.audit = auditLog

	e.engine = depgraph.New(e.store, e.store, e.store, auditLog, depgraph.WithLogger(e.log))
	return e, nil
}

// Close releases backends in reverse open order.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i]()
	}
}

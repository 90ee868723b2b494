// Package backend selects a storage backend by name.
package backend

import (
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/booklib/internal/jsonfile"
	"github.com/mesh-intelligence/booklib/internal/postgres"
	"github.com/mesh-intelligence/booklib/internal/redisstore"
	"github.com/mesh-intelligence/booklib/internal/sqlite"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

// Names lists the supported backend names in the order shown by help text.
var Names = []string{
	types.BackendJSON,
	types.BackendSQLite,
	types.BackendRedis,
	types.BackendPostgres,
}

// New returns an unattached backend for name. An empty name selects the JSON
// file backend.
func New(name string, logger *slog.Logger) (types.Backend, error) {
	switch name {
	case "", types.BackendJSON:
		return jsonfile.NewBackend(logger), nil
	case types.BackendSQLite:
		return sqlite.NewBackend(logger), nil
	case types.BackendRedis:
		return redisstore.NewBackend(logger), nil
	case types.BackendPostgres:
		return postgres.NewBackend(logger), nil
	default:
		return nil, fmt.Errorf("%q: %w", name, types.ErrBackendUnknown)
	}
}

// Open creates the backend named by config.Backend and attaches it.
// The caller must Detach the returned backend.
func Open(config types.Config, logger *slog.Logger) (types.Backend, error) {
	if config.Backend == "" {
		config.Backend = types.BackendJSON
	}
	b, err := New(config.Backend, logger)
	if err != nil {
		return nil, err
	}
	if err := b.Attach(config); err != nil {
		return nil, fmt.Errorf("attach %s backend: %w", config.Backend, err)
	}
	return b, nil
}

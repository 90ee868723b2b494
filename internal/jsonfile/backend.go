// Package jsonfile implements the default booklib storage backend: one JSON
// array file per collection inside the data directory.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/mesh-intelligence/booklib/internal/logging"
	"github.com/mesh-intelligence/booklib/internal/paths"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

// Backend implements types.Backend over library.json and reservations.json.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	dataDir  string
	logger   *slog.Logger
}

// NewBackend creates a new JSON file backend instance. The backend is not
// attached; call Attach with a Config to initialize. A nil logger discards.
func NewBackend(logger *slog.Logger) *Backend {
	return &Backend{
		logger: logging.OrDiscard(logger).With(logging.AttrBackend, types.BackendJSON),
	}
}

// Attach creates DataDir if needed and seeds missing collection files with
// an empty array. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	if err := initCollectionFiles(dataDir); err != nil {
		return err
	}

	b.dataDir = dataDir
	b.attached = true
	return nil
}

// Detach marks the backend detached. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.attached = false
	return nil
}

// ReadAll returns the records of the named collection in file order. A
// missing, empty, or malformed file yields an empty slice and a warning.
func (b *Backend) ReadAll(name string) ([]json.RawMessage, error) {
	if !types.ValidCollection(name) {
		return nil, fmt.Errorf("%q: %w", name, types.ErrInvalidCollection)
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrDetached
	}

	path := paths.CollectionFile(b.dataDir, name)
	records, err := readJSONArray(path)
	if err != nil {
		b.logger.Warn("collection unreadable, treating as empty",
			logging.AttrCollection, name,
			logging.AttrPath, path,
			logging.AttrError, err.Error())
		return []json.RawMessage{}, nil
	}
	return records, nil
}

// WriteAll replaces the named collection file with records.
func (b *Backend) WriteAll(name string, records []json.RawMessage) error {
	if !types.ValidCollection(name) {
		return fmt.Errorf("%q: %w", name, types.ErrInvalidCollection)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrDetached
	}

	path := paths.CollectionFile(b.dataDir, name)
	if err := writeJSONArray(path, records); err != nil {
		b.logger.Error("collection write failed",
			logging.AttrCollection, name,
			logging.AttrPath, path,
			logging.AttrError, err.Error())
		return fmt.Errorf("writing %s: %w: %w", name, types.ErrStorageUnwritable, err)
	}
	b.logger.Debug("collection written",
		logging.AttrCollection, name,
		logging.AttrCount, len(records))
	return nil
}

// initCollectionFiles writes "[]" to every collection file that does not exist.
func initCollectionFiles(dataDir string) error {
	for _, name := range types.StandardCollections {
		path := paths.CollectionFile(dataDir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if err := writeJSONArray(path, nil); err != nil {
			return fmt.Errorf("initializing %s: %w", path, err)
		}
	}
	return nil
}

// Package sqlite implements the SQLite storage backend for booklib. Each
// collection is a set of rows in a single records table ordered by position;
// the database file is the source of truth.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/booklib/internal/logging"
	"github.com/mesh-intelligence/booklib/internal/paths"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

const (
	driverName  = "sqlite"
	dialectName = "sqlite3"
)

// Backend implements types.Backend using SQLite.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	db       *sql.DB
	logger   *slog.Logger
	dialect  goqu.DialectWrapper
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(logger *slog.Logger) *Backend {
	return &Backend{
		logger:  logging.OrDiscard(logger).With(logging.AttrBackend, types.BackendSQLite),
		dialect: goqu.Dialect(dialectName),
	}
}

// Attach opens (or creates) booklib.db in DataDir and ensures the schema.
// Existing rows are kept. Returns ErrAlreadyAttached if already attached.
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

	db, err := sql.Open(driverName, paths.SQLiteFile(dataDir))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	// One connection serializes writers inside this process.
	db.SetMaxOpenConns(1)

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	b.db = db
	b.attached = true
	return nil
}

// Detach closes the database. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.attached = false
	if b.db != nil {
		err := b.db.Close()
		b.db = nil
		return err
	}
	return nil
}

// ReadAll returns the collection's records ordered by position. Query
// failures are logged and yield an empty slice.
func (b *Backend) ReadAll(name string) ([]json.RawMessage, error) {
	if !types.ValidCollection(name) {
		return nil, fmt.Errorf("%q: %w", name, types.ErrInvalidCollection)
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrDetached
	}

	records, err := b.selectRecords(name)
	if err != nil {
		b.logger.Warn("collection unreadable, treating as empty",
			logging.AttrCollection, name,
			logging.AttrError, err.Error())
		return []json.RawMessage{}, nil
	}
	return records, nil
}

func (b *Backend) selectRecords(name string) ([]json.RawMessage, error) {
	query, args, err := b.dialect.
		From(tableRecords).
		Select(colBody).
		Where(goqu.C(colCollection).Eq(name)).
		Order(goqu.C(colPosition).Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}

	rows, err := b.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", name, err)
	}
	defer rows.Close()

	records := []json.RawMessage{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, json.RawMessage(body))
	}
	return records, rows.Err()
}

// WriteAll deletes the collection's rows and inserts records in one
// transaction.
func (b *Backend) WriteAll(name string, records []json.RawMessage) error {
	if !types.ValidCollection(name) {
		return fmt.Errorf("%q: %w", name, types.ErrInvalidCollection)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrDetached
	}

	if err := b.replaceRecords(name, records); err != nil {
		b.logger.Error("collection write failed",
			logging.AttrCollection, name,
			logging.AttrError, err.Error())
		return fmt.Errorf("writing %s: %w: %w", name, types.ErrStorageUnwritable, err)
	}
	b.logger.Debug("collection written",
		logging.AttrCollection, name,
		logging.AttrCount, len(records))
	return nil
}

func (b *Backend) replaceRecords(name string, records []json.RawMessage) error {
	deleteSQL, deleteArgs, err := b.dialect.
		Delete(tableRecords).
		Where(goqu.C(colCollection).Eq(name)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("building delete: %w", err)
	}
	insertSQL, _, err := b.dialect.
		Insert(tableRecords).
		Cols(colCollection, colPosition, colBody).
		Vals([]any{name, 0, ""}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("building insert: %w", err)
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(deleteSQL, deleteArgs...); err != nil {
		return fmt.Errorf("deleting %s: %w", name, err)
	}

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.Exec(name, i, string(rec)); err != nil {
			return fmt.Errorf("inserting record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// Package postgres implements a booklib storage backend over a single
// Postgres table holding one jsonb row per record.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mesh-intelligence/booklib/internal/logging"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

const (
	dialectName   = "postgres"
	tableRecords  = "booklib_records"
	colCollection = "collection"
	colPosition   = "position"
	colBody       = "body"

	// opTimeout bounds every statement sent to the server.
	opTimeout = 3 * time.Second
)

const createRecords = `CREATE TABLE IF NOT EXISTS booklib_records (
    collection TEXT NOT NULL,
    position INTEGER NOT NULL,
    body JSONB NOT NULL,
    PRIMARY KEY (collection, position)
)`

// Backend implements types.Backend using a pgx connection pool.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	pool     *pgxpool.Pool
	logger   *slog.Logger
	dialect  goqu.DialectWrapper
}

// NewBackend creates a new Postgres backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(logger *slog.Logger) *Backend {
	return &Backend{
		logger:  logging.OrDiscard(logger).With(logging.AttrBackend, types.BackendPostgres),
		dialect: goqu.Dialect(dialectName),
	}
}

// Attach opens a pool for Config.Postgres.DSN and creates the records table
// if it does not exist. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, config.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("opening pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, createRecords); err != nil {
		pool.Close()
		return fmt.Errorf("creating schema: %w", err)
	}

	b.pool = pool
	b.attached = true
	return nil
}

// Detach closes the pool. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.attached = false
	b.pool.Close()
	b.pool = nil
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

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := b.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", name, err)
	}
	defer rows.Close()

	records := []json.RawMessage{}
	for rows.Next() {
		var body []byte
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

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, deleteSQL, deleteArgs...); err != nil {
		return fmt.Errorf("deleting %s: %w", name, err)
	}
	for i, rec := range records {
		if _, err := tx.Exec(ctx, insertSQL, name, i, string(rec)); err != nil {
			return fmt.Errorf("inserting record %d: %w", i, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

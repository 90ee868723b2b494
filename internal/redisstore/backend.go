// Package redisstore implements a booklib storage backend that keeps each
// collection as a Redis list of JSON records.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mesh-intelligence/booklib/internal/logging"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

// opTimeout bounds every Redis round trip.
const opTimeout = 3 * time.Second

// Backend implements types.Backend over Redis lists keyed <prefix>:<collection>.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	client   *redis.Client
	prefix   string
	logger   *slog.Logger
}

// NewBackend creates a new Redis backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(logger *slog.Logger) *Backend {
	return &Backend{
		logger: logging.OrDiscard(logger).With(logging.AttrBackend, types.BackendRedis),
	}
}

// Attach connects to Redis and verifies the connection with PING.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
	})
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("connecting to redis at %s: %w", config.Redis.Addr, err)
	}

	b.client = client
	b.prefix = config.GetRedisPrefix()
	b.attached = true
	return nil
}

// Detach closes the Redis client. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.attached = false
	err := b.client.Close()
	b.client = nil
	return err
}

func (b *Backend) key(collection string) string {
	return b.prefix + ":" + collection
}

// ReadAll returns the list elements in order. Redis errors are logged and
// yield an empty slice.
func (b *Backend) ReadAll(name string) ([]json.RawMessage, error) {
	if !types.ValidCollection(name) {
		return nil, fmt.Errorf("%q: %w", name, types.ErrInvalidCollection)
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrDetached
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	vals, err := b.client.LRange(ctx, b.key(name), 0, -1).Result()
	if err != nil && err != redis.Nil {
		b.logger.Warn("collection unreadable, treating as empty",
			logging.AttrCollection, name,
			logging.AttrError, err.Error())
		return []json.RawMessage{}, nil
	}

	records := make([]json.RawMessage, 0, len(vals))
	for _, v := range vals {
		records = append(records, json.RawMessage(v))
	}
	return records, nil
}

// WriteAll replaces the list with DEL and RPUSH inside MULTI/EXEC.
func (b *Backend) WriteAll(name string, records []json.RawMessage) error {
	if !types.ValidCollection(name) {
		return fmt.Errorf("%q: %w", name, types.ErrInvalidCollection)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrDetached
	}

	key := b.key(name)
	vals := make([]any, len(records))
	for i, rec := range records {
		vals[i] = string(rec)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(vals) > 0 {
			pipe.RPush(ctx, key, vals...)
		}
		return nil
	})
	if err != nil {
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

package types

import "errors"

// Config holds backend selection and parameters for Backend.Attach.
type Config struct {
	Backend  string         `json:"backend" yaml:"backend"`
	DataDir  string         `json:"data_dir" yaml:"data_dir"`
	Redis    RedisConfig    `json:"redis" yaml:"redis"`
	Postgres PostgresConfig `json:"postgres" yaml:"postgres"`
}

// RedisConfig holds connection parameters for the redis backend.
type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password" yaml:"password"`
	Prefix   string `json:"prefix" yaml:"prefix"`
}

// PostgresConfig holds connection parameters for the postgres backend.
type PostgresConfig struct {
	DSN string `json:"dsn" yaml:"dsn"`
}

// Supported backend names.
const (
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// DefaultRedisPrefix namespaces collection keys when RedisConfig.Prefix is empty.
const DefaultRedisPrefix = "booklib"

// Config validation errors.
var (
	ErrBackendEmpty     = errors.New("backend must not be empty")
	ErrBackendUnknown   = errors.New("unknown backend")
	ErrRedisAddrEmpty   = errors.New("redis address must not be empty")
	ErrPostgresDSNEmpty = errors.New("postgres dsn must not be empty")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendJSON:     true,
	BackendSQLite:   true,
	BackendRedis:    true,
	BackendPostgres: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	switch c.Backend {
	case BackendRedis:
		if c.Redis.Addr == "" {
			return ErrRedisAddrEmpty
		}
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return ErrPostgresDSNEmpty
		}
	}
	return nil
}

// GetRedisPrefix returns the configured key prefix or DefaultRedisPrefix.
func (c Config) GetRedisPrefix() string {
	if c.Redis.Prefix == "" {
		return DefaultRedisPrefix
	}
	return c.Redis.Prefix
}

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/booklib/internal/logging"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "BOOKLIB"

	cfgKeyBackend       = "backend"
	cfgKeyDataDir       = "data_dir"
	cfgKeyLogLevel      = "log_level"
	cfgKeyRedisAddr     = "redis.addr"
	cfgKeyRedisPassword = "redis.password"
	cfgKeyRedisPrefix   = "redis.prefix"
	cfgKeyPostgresDSN   = "postgres.dsn"

	defaultBackend   = types.BackendJSON
	defaultRedisAddr = "localhost:6379"
)

// envKeys are the settings that BOOKLIB_* environment variables override.
// data_dir is resolved by the paths package, which gives the config file
// precedence over BOOKLIB_DATA_DIR.
var envKeys = []string{
	cfgKeyBackend,
	cfgKeyLogLevel,
	cfgKeyRedisAddr,
	cfgKeyRedisPassword,
	cfgKeyRedisPrefix,
	cfgKeyPostgresDSN,
}

// configFile is the structure written to config.yaml by init.
type configFile struct {
	Backend  string               `yaml:"backend"`
	DataDir  string               `yaml:"data_dir,omitempty"`
	LogLevel string               `yaml:"log_level,omitempty"`
	Redis    *types.RedisConfig    `yaml:"redis,omitempty"`
	Postgres *types.PostgresConfig `yaml:"postgres,omitempty"`
}

// loadConfig reads config.yaml from configDir. A missing file is not an
// error; defaults and environment variables still apply.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyLogLevel, logging.DefaultLevel)
	v.SetDefault(cfgKeyRedisAddr, defaultRedisAddr)
	v.SetDefault(cfgKeyRedisPrefix, types.DefaultRedisPrefix)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	for _, key := range envKeys {
		if err := v.BindEnv(key, envName(key)); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// envName maps a config key such as redis.addr to BOOKLIB_REDIS_ADDR.
func envName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// storageConfig builds the backend configuration from v. dataDir is the
// already-resolved data directory.
func storageConfig(v *viper.Viper, dataDir string) types.Config {
	return types.Config{
		Backend: v.GetString(cfgKeyBackend),
		DataDir: dataDir,
		Redis: types.RedisConfig{
			Addr:     v.GetString(cfgKeyRedisAddr),
			Password: v.GetString(cfgKeyRedisPassword),
			Prefix:   v.GetString(cfgKeyRedisPrefix),
		},
		Postgres: types.PostgresConfig{
			DSN: v.GetString(cfgKeyPostgresDSN),
		},
	}
}

// writeConfigIfMissing creates config.yaml describing cfg if the file does
// not exist. An existing file is left alone.
func writeConfigIfMissing(path string, cfg types.Config, logLevel string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	file := configFile{
		Backend:  cfg.Backend,
		DataDir:  cfg.DataDir,
		LogLevel: logLevel,
	}
	switch cfg.Backend {
	case types.BackendRedis:
		redis := cfg.Redis
		file.Redis = &redis
	case types.BackendPostgres:
		pg := cfg.Postgres
		file.Postgres = &pg
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

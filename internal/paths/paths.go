// Package paths resolves configuration and data directory locations and the
// file names of the persisted collections.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appName is the directory name used under platform config and data roots.
const appName = "booklib"

// CWD-relative data directory used when nothing else is configured.
const DefaultDataDirName = ".booklib-data"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "BOOKLIB_CONFIG_DIR"
	EnvDataDir   = "BOOKLIB_DATA_DIR"
)

// Collection file suffix and SQLite database name inside the data directory.
const (
	CollectionExt  = ".json"
	SQLiteFileName = "booklib.db"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/booklib (fallback ~/.config/booklib)
// macOS:   ~/Library/Application Support/booklib
// Windows: %APPDATA%/booklib
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > BOOKLIB_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > config.yaml value > BOOKLIB_DATA_DIR env > $(CWD)/.booklib-data.
func ResolveDataDir(flag, configValue string) (string, error) {
	for _, candidate := range []string{flag, configValue, os.Getenv(EnvDataDir)} {
		if candidate != "" {
			return filepath.Abs(candidate)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// CollectionFile returns the JSON file path holding the named collection.
func CollectionFile(dataDir, collection string) string {
	return filepath.Join(dataDir, collection+CollectionExt)
}

// SQLiteFile returns the SQLite database path inside dataDir.
func SQLiteFile(dataDir string) string {
	return filepath.Join(dataDir, SQLiteFileName)
}

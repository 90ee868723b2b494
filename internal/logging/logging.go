// Package logging builds the slog loggers used across booklib.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Log attribute keys shared by the storage backends and the CLI.
const (
	AttrOpID       = "op_id"
	AttrBackend    = "backend"
	AttrCollection = "collection"
	AttrPath       = "path"
	AttrError      = "error"
	AttrGUID       = "guid"
	AttrPerson     = "person"
	AttrOutcome    = "outcome"
	AttrCount      = "count"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "warn"

// ParseLevel maps a level name (debug, info, warn, error) to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("unknown log level %q", name)
	}
}

// New returns a logger writing to w at the given level. jsonMode selects the
// JSON handler; otherwise the text handler is used.
func New(w io.Writer, level slog.Level, jsonMode bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if jsonMode {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops every record. Used when a component is
// constructed without a logger.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}

package types

import (
	"encoding/json"
	"errors"
)

// RecordStore provides whole-collection access to a named record collection.
// Records are untyped JSON objects; callers decode them into entities.
type RecordStore interface {
	// ReadAll returns every record of the collection in stored order.
	// An empty or unreadable collection yields an empty slice; read failures
	// are logged by the implementation, not returned. Returns
	// ErrInvalidCollection if name is not a standard collection.
	ReadAll(name string) ([]json.RawMessage, error)

	// WriteAll replaces the entire collection with records. Once WriteAll
	// returns nil the previous contents are gone. Failures wrap
	// ErrStorageUnwritable.
	WriteAll(name string, records []json.RawMessage) error
}

// Backend is a RecordStore with a lifecycle. Callers attach to a backend,
// use it as a RecordStore, and detach when done.
type Backend interface {
	RecordStore

	// Attach connects the backend to the storage described by config.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, ReadAll and WriteAll return ErrDetached.
	Detach() error
}

// Storage errors.
var (
	ErrInvalidCollection = errors.New("invalid collection name")
	ErrStorageUnwritable = errors.New("storage unwritable")
	ErrDetached          = errors.New("backend is detached")
	ErrAlreadyAttached   = errors.New("backend is already attached")
	ErrWouldEraseTarget  = errors.New("source collection is empty but target is not")
)

// Catalog and query errors.
var (
	ErrDuplicateGUID      = errors.New("book with this GUID already exists")
	ErrEmptyField         = errors.New("field must not be empty")
	ErrInvalidDate        = errors.New("not a calendar date")
	ErrInvalidPeriod      = errors.New("period out of range")
	ErrInvalidFilterField = errors.New("invalid filter field")
)

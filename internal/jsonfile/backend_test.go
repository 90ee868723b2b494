package jsonfile

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/booklib/internal/logging"
	"github.com/mesh-intelligence/booklib/internal/storetest"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

func newAttachedBackend(t *testing.T) (*Backend, string) {
	t.Helper()
	dataDir := t.TempDir()
	b := NewBackend(nil)
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendJSON, DataDir: dataDir}))
	t.Cleanup(func() { b.Detach() })
	return b, dataDir
}

func raw(s string) json.RawMessage {
	return json.RawMessage(s)
}

func TestAttach_SeedsEmptyCollectionFiles(t *testing.T) {
	_, dataDir := newAttachedBackend(t)

	for _, name := range []string{"library.json", "reservations.json"} {
		data, err := os.ReadFile(filepath.Join(dataDir, name))
		require.NoError(t, err, name)
		assert.Equal(t, "[]", string(data), name)
	}
}

func TestAttach_KeepsExistingFiles(t *testing.T) {
	dataDir := t.TempDir()
	existing := `[{"Person":"Alice","Period":10,"GUID":"1064A"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "reservations.json"), []byte(existing), 0o644))

	b := NewBackend(nil)
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendJSON, DataDir: dataDir}))
	defer b.Detach()

	records, err := b.ReadAll(types.CollectionReservations)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.JSONEq(t, `{"Person":"Alice","Period":10,"GUID":"1064A"}`, string(records[0]))
}

func TestAttach_TwiceReturnsErrAlreadyAttached(t *testing.T) {
	b, dataDir := newAttachedBackend(t)
	err := b.Attach(types.Config{Backend: types.BackendJSON, DataDir: dataDir})
	assert.ErrorIs(t, err, types.ErrAlreadyAttached)
}

func TestAttach_InvalidConfig(t *testing.T) {
	b := NewBackend(nil)
	assert.ErrorIs(t, b.Attach(types.Config{}), types.ErrBackendEmpty)
}

func TestReadAll_EmptyCollection(t *testing.T) {
	b, _ := newAttachedBackend(t)

	records, err := b.ReadAll(types.CollectionLibrary)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestWriteAll_ThenReadAllPreservesOrder(t *testing.T) {
	b, _ := newAttachedBackend(t)

	in := []json.RawMessage{raw(`{"GUID":"1"}`), raw(`{"GUID":"2"}`), raw(`{"GUID":"3"}`)}
	require.NoError(t, b.WriteAll(types.CollectionLibrary, in))

	out, err := b.ReadAll(types.CollectionLibrary)
	require.NoError(t, err)
	require.Len(t, out, 3)
	for i := range in {
		assert.JSONEq(t, string(in[i]), string(out[i]))
	}
}

func TestWriteAll_ReplacesPreviousContents(t *testing.T) {
	b, dataDir := newAttachedBackend(t)

	require.NoError(t, b.WriteAll(types.CollectionLibrary, []json.RawMessage{raw(`{"GUID":"old"}`)}))
	require.NoError(t, b.WriteAll(types.CollectionLibrary, []json.RawMessage{raw(`{"GUID":"new"}`)}))

	data, err := os.ReadFile(filepath.Join(dataDir, "library.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "old")
	assert.Contains(t, string(data), "new")

	require.NoError(t, b.WriteAll(types.CollectionLibrary, nil))
	data, err = os.ReadFile(filepath.Join(dataDir, "library.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestWriteAll_LeavesNoTempFiles(t *testing.T) {
	b, dataDir := newAttachedBackend(t)
	require.NoError(t, b.WriteAll(types.CollectionReservations, []json.RawMessage{raw(`{"GUID":"x"}`)}))

	entries, err := os.ReadDir(dataDir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}

func TestInvalidCollection(t *testing.T) {
	b, _ := newAttachedBackend(t)

	_, err := b.ReadAll("bookLibrary")
	assert.ErrorIs(t, err, types.ErrInvalidCollection)

	err = b.WriteAll("bookLibrary", nil)
	assert.ErrorIs(t, err, types.ErrInvalidCollection)
}

func TestReadAll_UnreadableFileIsEmptyAndLogged(t *testing.T) {
	var logBuf bytes.Buffer
	logger := logging.New(&logBuf, slog.LevelWarn, true)

	dataDir := t.TempDir()
	b := NewBackend(logger)
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendJSON, DataDir: dataDir}))
	defer b.Detach()

	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "library.json"), []byte("{not an array"), 0o644))

	records, err := b.ReadAll(types.CollectionLibrary)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Contains(t, logBuf.String(), "collection unreadable")
	assert.Contains(t, logBuf.String(), `"collection":"library"`)

	require.NoError(t, os.Remove(filepath.Join(dataDir, "reservations.json")))
	records, err = b.ReadAll(types.CollectionReservations)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestWriteAll_FailureReturnsErrStorageUnwritable(t *testing.T) {
	b, dataDir := newAttachedBackend(t)
	require.NoError(t, os.RemoveAll(dataDir))

	err := b.WriteAll(types.CollectionLibrary, []json.RawMessage{raw(`{"GUID":"1"}`)})
	assert.ErrorIs(t, err, types.ErrStorageUnwritable)
}

func TestDetach_IsIdempotentAndBlocksOperations(t *testing.T) {
	b, _ := newAttachedBackend(t)

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach())

	_, err := b.ReadAll(types.CollectionLibrary)
	assert.ErrorIs(t, err, types.ErrDetached)
	assert.ErrorIs(t, b.WriteAll(types.CollectionLibrary, nil), types.ErrDetached)
}

func TestRecordsSurviveReattach(t *testing.T) {
	dataDir := t.TempDir()
	cfg := types.Config{Backend: types.BackendJSON, DataDir: dataDir}

	b := NewBackend(nil)
	require.NoError(t, b.Attach(cfg))
	require.NoError(t, b.WriteAll(types.CollectionLibrary, []json.RawMessage{raw(`{"GUID":"keep"}`)}))
	require.NoError(t, b.Detach())

	b2 := NewBackend(nil)
	require.NoError(t, b2.Attach(cfg))
	defer b2.Detach()

	records, err := b2.ReadAll(types.CollectionLibrary)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.JSONEq(t, `{"GUID":"keep"}`, string(records[0]))
}

func TestRecordStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) types.RecordStore {
		b, _ := newAttachedBackend(t)
		return b
	})
}

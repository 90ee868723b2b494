package sqlite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/booklib/internal/storetest"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

func newAttachedBackend(t *testing.T) (*Backend, string) {
	t.Helper()
	dataDir := t.TempDir()
	b := NewBackend(nil)
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dataDir}))
	t.Cleanup(func() { b.Detach() })
	return b, dataDir
}

func TestRecordStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) types.RecordStore {
		b, _ := newAttachedBackend(t)
		return b
	})
}

func TestAttach_CreatesDatabaseFile(t *testing.T) {
	_, dataDir := newAttachedBackend(t)

	_, err := os.Stat(filepath.Join(dataDir, "booklib.db"))
	assert.NoError(t, err)
}

func TestAttach_TwiceReturnsErrAlreadyAttached(t *testing.T) {
	b, dataDir := newAttachedBackend(t)
	err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dataDir})
	assert.ErrorIs(t, err, types.ErrAlreadyAttached)
}

func TestRecordsSurviveReattach(t *testing.T) {
	dataDir := t.TempDir()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: dataDir}

	b := NewBackend(nil)
	require.NoError(t, b.Attach(cfg))
	require.NoError(t, b.WriteAll(types.CollectionLibrary, []json.RawMessage{
		json.RawMessage(`{"GUID":"1"}`),
		json.RawMessage(`{"GUID":"2"}`),
	}))
	require.NoError(t, b.Detach())

	b2 := NewBackend(nil)
	require.NoError(t, b2.Attach(cfg))
	defer b2.Detach()

	records, err := b2.ReadAll(types.CollectionLibrary)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.JSONEq(t, `{"GUID":"1"}`, string(records[0]))
	assert.JSONEq(t, `{"GUID":"2"}`, string(records[1]))
}

func TestDetach_IsIdempotentAndBlocksOperations(t *testing.T) {
	b, _ := newAttachedBackend(t)

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach())

	_, err := b.ReadAll(types.CollectionLibrary)
	assert.ErrorIs(t, err, types.ErrDetached)
	assert.ErrorIs(t, b.WriteAll(types.CollectionLibrary, nil), types.ErrDetached)
}

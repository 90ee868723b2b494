package library

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/booklib/internal/jsonfile"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

// newJSONStore returns an attached JSON file backend in a temp directory.
func newJSONStore(t *testing.T) *jsonfile.Backend {
	t.Helper()
	b := jsonfile.NewBackend(nil)
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendJSON, DataDir: t.TempDir()}))
	t.Cleanup(func() { b.Detach() })
	return b
}

func newLibrary(t *testing.T) (*Library, *jsonfile.Backend) {
	t.Helper()
	store := newJSONStore(t)
	return New(store, nil), store
}

func book(guid string) types.Book {
	return types.Book{
		Name:            "Book " + guid,
		Author:          "Author " + guid,
		Category:        "Fiction",
		Language:        "English",
		PublicationDate: types.Date{Year: 2000, Month: time.October, Day: 10},
		ISBN:            1000,
		GUID:            guid,
	}
}

func guids(books []types.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.GUID
	}
	return out
}

func mustAdd(t *testing.T, lib *Library, books ...types.Book) {
	t.Helper()
	for _, b := range books {
		require.NoError(t, lib.AddBook(b))
	}
}

func rawRecords(t *testing.T, store types.RecordStore, collection string) []json.RawMessage {
	t.Helper()
	records, err := store.ReadAll(collection)
	require.NoError(t, err)
	return records
}

func newJSONStoreAt(t *testing.T, cfg types.Config) *jsonfile.Backend {
	t.Helper()
	b := jsonfile.NewBackend(nil)
	require.NoError(t, b.Attach(cfg))
	t.Cleanup(func() { b.Detach() })
	return b
}

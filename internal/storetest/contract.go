// Package storetest holds the behavioral contract every types.RecordStore
// implementation must satisfy. Backend packages run it from their tests.
package storetest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/booklib/pkg/types"
)

// Factory returns a fresh, attached, empty store. It registers its own cleanup.
type Factory func(t *testing.T) types.RecordStore

// Run executes the RecordStore contract against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("empty collections read as empty slices", func(t *testing.T) {
		s := newStore(t)
		for _, name := range types.StandardCollections {
			records, err := s.ReadAll(name)
			require.NoError(t, err, name)
			assert.Empty(t, records, name)
		}
	})

	t.Run("write then read preserves order", func(t *testing.T) {
		s := newStore(t)
		in := records(`{"GUID":"3"}`, `{"GUID":"1"}`, `{"GUID":"2"}`)
		require.NoError(t, s.WriteAll(types.CollectionLibrary, in))

		out, err := s.ReadAll(types.CollectionLibrary)
		require.NoError(t, err)
		assertSameRecords(t, in, out)
	})

	t.Run("write replaces the whole collection", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.WriteAll(types.CollectionLibrary, records(`{"GUID":"a"}`, `{"GUID":"b"}`)))
		require.NoError(t, s.WriteAll(types.CollectionLibrary, records(`{"GUID":"c"}`)))

		out, err := s.ReadAll(types.CollectionLibrary)
		require.NoError(t, err)
		assertSameRecords(t, records(`{"GUID":"c"}`), out)

		require.NoError(t, s.WriteAll(types.CollectionLibrary, nil))
		out, err = s.ReadAll(types.CollectionLibrary)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("collections are independent", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.WriteAll(types.CollectionLibrary, records(`{"GUID":"book"}`)))
		require.NoError(t, s.WriteAll(types.CollectionReservations, records(`{"Person":"Alice","Period":5,"GUID":"book"}`)))

		lib, err := s.ReadAll(types.CollectionLibrary)
		require.NoError(t, err)
		assertSameRecords(t, records(`{"GUID":"book"}`), lib)

		res, err := s.ReadAll(types.CollectionReservations)
		require.NoError(t, err)
		assertSameRecords(t, records(`{"Person":"Alice","Period":5,"GUID":"book"}`), res)
	})

	t.Run("unknown collection is rejected", func(t *testing.T) {
		s := newStore(t)
		_, err := s.ReadAll("bookLibrary")
		assert.ErrorIs(t, err, types.ErrInvalidCollection)
		assert.ErrorIs(t, s.WriteAll("bookLibrary", nil), types.ErrInvalidCollection)
	})
}

func records(objs ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(objs))
	for i, o := range objs {
		out[i] = json.RawMessage(o)
	}
	return out
}

func assertSameRecords(t *testing.T, want, got []json.RawMessage) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.JSONEq(t, string(want[i]), string(got[i]), "record %d", i)
	}
}

package library

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/booklib/pkg/types"
)

func TestCatalog_EmptyListsNothing(t *testing.T) {
	lib, _ := newLibrary(t)

	books, err := lib.ListBooks()
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestCatalog_AddThenFind(t *testing.T) {
	lib, _ := newLibrary(t)
	b := book("1064A")
	require.NoError(t, lib.AddBook(b))

	got, err := lib.FindBookByGUID("1064A")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, b, *got)
}

func TestCatalog_AddThenFind_DateFromOtherZone(t *testing.T) {
	lib, _ := newLibrary(t)
	cet := time.FixedZone("CET", 3600)

	midnight := book("cet-midnight")
	midnight.PublicationDate = types.DateOf(time.Date(2000, time.October, 10, 0, 0, 0, 0, cet))
	evening := book("cet-evening")
	evening.PublicationDate = types.DateOf(time.Date(2000, time.October, 10, 23, 30, 0, 0, cet))
	mustAdd(t, lib, midnight, evening)

	for _, want := range []types.Book{midnight, evening} {
		got, err := lib.FindBookByGUID(want.GUID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, want, *got)
		assert.Equal(t, "2000-10-10", got.PublicationDate.String())
	}
}

func TestCatalog_FindSurvivesFreshStore(t *testing.T) {
	dir := t.TempDir()
	cfg := types.Config{Backend: types.BackendJSON, DataDir: dir}

	first := newJSONStoreAt(t, cfg)
	require.NoError(t, New(first, nil).AddBook(book("7")))
	require.NoError(t, first.Detach())

	second := newJSONStoreAt(t, cfg)
	got, err := New(second, nil).FindBookByGUID("7")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, book("7"), *got)
}

func TestCatalog_FindIsCaseSensitive(t *testing.T) {
	lib, _ := newLibrary(t)
	mustAdd(t, lib, book("abc"))

	got, err := lib.FindBookByGUID("ABC")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCatalog_InsertionOrderPreserved(t *testing.T) {
	lib, _ := newLibrary(t)
	mustAdd(t, lib, book("1"), book("2"), book("3"))

	books, err := lib.ListBooks()
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, guids(books))
}

func TestCatalog_DuplicateGUIDLeavesCatalogUnchanged(t *testing.T) {
	lib, _ := newLibrary(t)
	mustAdd(t, lib, book("1"), book("2"))
	before, err := lib.ListBooks()
	require.NoError(t, err)

	dup := book("2")
	dup.Name = "Another title"
	err = lib.AddBook(dup)
	assert.ErrorIs(t, err, types.ErrDuplicateGUID)

	after, err := lib.ListBooks()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCatalog_RemoveAbsentIsNoOp(t *testing.T) {
	lib, _ := newLibrary(t)
	mustAdd(t, lib, book("1"), book("2"))
	before, err := lib.ListBooks()
	require.NoError(t, err)

	require.NoError(t, lib.RemoveBookByGUID("9999"))

	after, err := lib.ListBooks()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCatalog_RemoveThenFindIsNil(t *testing.T) {
	lib, _ := newLibrary(t)
	mustAdd(t, lib, book("1"), book("2"), book("3"))

	require.NoError(t, lib.RemoveBookByGUID("2"))

	got, err := lib.FindBookByGUID("2")
	require.NoError(t, err)
	assert.Nil(t, got)

	books, err := lib.ListBooks()
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, guids(books))
}

func TestCatalog_RemoveDropsEveryMatch(t *testing.T) {
	lib, store := newLibrary(t)
	rec, err := json.Marshal(book("1"))
	require.NoError(t, err)
	other, err := json.Marshal(book("2"))
	require.NoError(t, err)
	require.NoError(t, store.WriteAll(types.CollectionLibrary, []json.RawMessage{rec, other, rec}))

	require.NoError(t, lib.RemoveBookByGUID("1"))

	books, err := lib.ListBooks()
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, guids(books))
}

func TestCatalog_RecordShape(t *testing.T) {
	lib, store := newLibrary(t)
	mustAdd(t, lib, book("1064A"))

	records := rawRecords(t, store, types.CollectionLibrary)
	require.Len(t, records, 1)
	assert.JSONEq(t, `{
		"Name": "Book 1064A",
		"Author": "Author 1064A",
		"Category": "Fiction",
		"Language": "English",
		"Publication date": "2000-10-10",
		"ISBN": 1000,
		"GUID": "1064A"
	}`, string(records[0]))
}

func TestCatalog_MalformedRecordsSkippedButKept(t *testing.T) {
	lib, store := newLibrary(t)
	bad := json.RawMessage(`{"Name":"Broken","Publication date":"not a date","GUID":"bad"}`)
	require.NoError(t, store.WriteAll(types.CollectionLibrary, []json.RawMessage{bad}))

	books, err := lib.ListBooks()
	require.NoError(t, err)
	assert.Empty(t, books)

	mustAdd(t, lib, book("1"))
	records := rawRecords(t, store, types.CollectionLibrary)
	require.Len(t, records, 2)
	assert.JSONEq(t, string(bad), string(records[0]))

	err = lib.AddBook(book("bad"))
	assert.ErrorIs(t, err, types.ErrDuplicateGUID)
}

func TestCatalog_DetachedStoreSurfacesError(t *testing.T) {
	lib, store := newLibrary(t)
	require.NoError(t, store.Detach())

	err := lib.AddBook(book("1"))
	assert.ErrorIs(t, err, types.ErrDetached)
}

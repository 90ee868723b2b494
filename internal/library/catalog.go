package library

import (
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/booklib/internal/logging"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

// Catalog manages Book records in the library collection. Every mutation
// reads the whole collection, changes it in memory and writes it back.
type Catalog struct {
	store  types.RecordStore
	logger *slog.Logger
}

// NewCatalog returns a Catalog over store.
func NewCatalog(store types.RecordStore, logger *slog.Logger) *Catalog {
	return &Catalog{store: store, logger: logging.OrDiscard(logger)}
}

// AddBook appends book to the catalog. Returns ErrDuplicateGUID, leaving
// the collection unchanged, if a record with the same GUID exists. The book
// is stored as given; callers validate it first.
func (c *Catalog) AddBook(book types.Book) error {
	records, err := c.store.ReadAll(types.CollectionLibrary)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if guid, ok := recordGUID(rec); ok && guid == book.GUID {
			return fmt.Errorf("%q: %w", book.GUID, types.ErrDuplicateGUID)
		}
	}

	rec, err := codec.Marshal(book)
	if err != nil {
		return fmt.Errorf("encoding book %q: %w", book.GUID, err)
	}
	if err := c.store.WriteAll(types.CollectionLibrary, append(records, rec)); err != nil {
		return err
	}
	c.logger.Info("book added", logging.AttrGUID, book.GUID)
	return nil
}

// FindByGUID returns the first book whose GUID equals guid, or nil if there
// is none. Comparison is exact and case-sensitive.
func (c *Catalog) FindByGUID(guid string) (*types.Book, error) {
	records, err := c.store.ReadAll(types.CollectionLibrary)
	if err != nil {
		return nil, err
	}
	for i, rec := range records {
		if g, ok := recordGUID(rec); !ok || g != guid {
			continue
		}
		book, err := decodeBook(rec)
		if err != nil {
			logMalformed(c.logger, types.CollectionLibrary, i, err)
			continue
		}
		return &book, nil
	}
	return nil, nil
}

// ListAll returns every book in insertion order.
func (c *Catalog) ListAll() ([]types.Book, error) {
	records, err := c.store.ReadAll(types.CollectionLibrary)
	if err != nil {
		return nil, err
	}
	books := make([]types.Book, 0, len(records))
	for i, rec := range records {
		book, err := decodeBook(rec)
		if err != nil {
			logMalformed(c.logger, types.CollectionLibrary, i, err)
			continue
		}
		books = append(books, book)
	}
	return books, nil
}

// RemoveByGUID removes every book whose GUID equals guid. Removing an
// absent GUID is a no-op. Reservations are not touched.
func (c *Catalog) RemoveByGUID(guid string) error {
	records, err := c.store.ReadAll(types.CollectionLibrary)
	if err != nil {
		return err
	}
	kept, removed := withoutGUID(records, guid)
	if removed == 0 {
		return nil
	}
	if err := c.store.WriteAll(types.CollectionLibrary, kept); err != nil {
		return err
	}
	c.logger.Info("book removed",
		logging.AttrGUID, guid,
		logging.AttrCount, removed)
	return nil
}

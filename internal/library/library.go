// Package library implements the book catalog, the reservation ledger and
// the filter engine over a types.RecordStore.
//
// Nothing is cached between calls: each operation reads the collections it
// needs from the store. Removing a book does not remove its reservation;
// callers that want both issue RemoveBookByGUID and RemoveReservationByGUID.
package library

import (
	"log/slog"

	"github.com/mesh-intelligence/booklib/internal/logging"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

// Library is the entry point used by the CLI.
type Library struct {
	catalog *Catalog
	ledger  *Ledger
	query   *Query
}

// New wires a catalog, ledger and query engine over store.
func New(store types.RecordStore, logger *slog.Logger) *Library {
	logger = logging.OrDiscard(logger)
	catalog := NewCatalog(store, logger)
	ledger := NewLedger(store, catalog, logger)
	return &Library{
		catalog: catalog,
		ledger:  ledger,
		query:   NewQuery(ledger),
	}
}

// AddBook registers book. See Catalog.AddBook.
func (l *Library) AddBook(book types.Book) error {
	return l.catalog.AddBook(book)
}

// FindBookByGUID returns the book with guid, or nil.
func (l *Library) FindBookByGUID(guid string) (*types.Book, error) {
	return l.catalog.FindByGUID(guid)
}

// ListBooks returns every book in insertion order.
func (l *Library) ListBooks() ([]types.Book, error) {
	return l.catalog.ListAll()
}

// RemoveBookByGUID removes the book with guid. Its reservation, if any, stays.
func (l *Library) RemoveBookByGUID(guid string) error {
	return l.catalog.RemoveByGUID(guid)
}

// RemoveReservationByGUID removes the reservation for book guid.
func (l *Library) RemoveReservationByGUID(guid string) error {
	return l.ledger.RemoveByGUID(guid)
}

// FindReservationByGUID returns the reservation for book guid, or nil.
func (l *Library) FindReservationByGUID(guid string) (*types.Reservation, error) {
	return l.ledger.FindByGUID(guid)
}

// TakeBook reserves book guid for person for period days.
func (l *Library) TakeBook(person string, period int, guid string) (types.Outcome, error) {
	return l.ledger.TakeBook(person, period, guid)
}

// ListReservations returns every live reservation.
func (l *Library) ListReservations() ([]types.Reservation, error) {
	return l.ledger.ListAll()
}

// ListFilterableFields returns the fixed filter fields.
func (l *Library) ListFilterableFields() []string {
	return l.query.FilterableFields()
}

// OptionsFor returns the selectable values of field across books.
func (l *Library) OptionsFor(books []types.Book, field string) ([]string, error) {
	return l.query.OptionsFor(books, field)
}

// Filter returns the subsequence of books matching field and value.
func (l *Library) Filter(books []types.Book, field, value string) ([]types.Book, error) {
	return l.query.Filter(books, field, value)
}

// PartitionByAvailability returns the taken or available subsequence of books.
func (l *Library) PartitionByAvailability(books []types.Book, wantTaken bool) ([]types.Book, error) {
	return l.ledger.PartitionByAvailability(books, wantTaken)
}

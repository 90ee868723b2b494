package library

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/booklib/internal/logging"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

// Ledger manages Reservation records in the reservations collection.
//
// TakeBook checks and appends without holding a lock across the read and
// the write, so two concurrent calls for the same book can both succeed.
type Ledger struct {
	store   types.RecordStore
	catalog *Catalog
	logger  *slog.Logger
}

// NewLedger returns a Ledger over store that checks book existence in catalog.
func NewLedger(store types.RecordStore, catalog *Catalog, logger *slog.Logger) *Ledger {
	return &Ledger{store: store, catalog: catalog, logger: logging.OrDiscard(logger)}
}

// TakeBook reserves the book guid for person. The checks run in order and
// the first failure decides the outcome: the book must exist, it must not be
// reserved, and person must hold fewer than MaxReservationsPerPerson
// reservations. The error is non-nil only for storage failures.
func (l *Ledger) TakeBook(person string, period int, guid string) (types.Outcome, error) {
	outcome, err := l.takeBook(person, period, guid)
	if err != nil {
		return outcome, err
	}
	l.logger.Info("take book",
		logging.AttrPerson, person,
		logging.AttrGUID, guid,
		logging.AttrOutcome, outcome.String())
	return outcome, nil
}

func (l *Ledger) takeBook(person string, period int, guid string) (types.Outcome, error) {
	book, err := l.catalog.FindByGUID(guid)
	if err != nil {
		return types.OutcomeBookNotFound, err
	}
	if book == nil {
		return types.OutcomeBookNotFound, nil
	}

	records, err := l.store.ReadAll(types.CollectionReservations)
	if err != nil {
		return types.OutcomeBookNotFound, err
	}
	reservations := l.decode(records)
	for _, r := range reservations {
		if r.BookGUID == guid {
			return types.OutcomeAlreadyReserved, nil
		}
	}
	held := 0
	for _, r := range reservations {
		if r.Person == person {
			held++
		}
	}
	if held >= types.MaxReservationsPerPerson {
		return types.OutcomePersonLimitReached, nil
	}

	rec, err := codec.Marshal(types.Reservation{Person: person, Period: period, BookGUID: guid})
	if err != nil {
		return types.OutcomeBookNotFound, fmt.Errorf("encoding reservation %q: %w", guid, err)
	}
	if err := l.store.WriteAll(types.CollectionReservations, append(records, rec)); err != nil {
		return types.OutcomeBookNotFound, err
	}
	return types.OutcomeSuccess, nil
}

// FindByGUID returns the reservation for book guid, or nil if there is none.
func (l *Ledger) FindByGUID(guid string) (*types.Reservation, error) {
	reservations, err := l.ListAll()
	if err != nil {
		return nil, err
	}
	for _, r := range reservations {
		if r.BookGUID == guid {
			return &r, nil
		}
	}
	return nil, nil
}

// CountForPerson returns how many live reservations name person exactly.
func (l *Ledger) CountForPerson(person string) (int, error) {
	reservations, err := l.ListAll()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, r := range reservations {
		if r.Person == person {
			n++
		}
	}
	return n, nil
}

// ListAll returns every reservation in stored order.
func (l *Ledger) ListAll() ([]types.Reservation, error) {
	records, err := l.store.ReadAll(types.CollectionReservations)
	if err != nil {
		return nil, err
	}
	return l.decode(records), nil
}

// RemoveByGUID removes every reservation for book guid. Removing an absent
// GUID is a no-op.
func (l *Ledger) RemoveByGUID(guid string) error {
	records, err := l.store.ReadAll(types.CollectionReservations)
	if err != nil {
		return err
	}
	kept, removed := withoutGUID(records, guid)
	if removed == 0 {
		return nil
	}
	if err := l.store.WriteAll(types.CollectionReservations, kept); err != nil {
		return err
	}
	l.logger.Info("reservation removed",
		logging.AttrGUID, guid,
		logging.AttrCount, removed)
	return nil
}

// PartitionByAvailability returns the books that are taken (wantTaken) or
// available (!wantTaken), in input order. A book is taken when a reservation
// with its GUID exists.
func (l *Ledger) PartitionByAvailability(books []types.Book, wantTaken bool) ([]types.Book, error) {
	reservations, err := l.ListAll()
	if err != nil {
		return nil, err
	}
	reserved := make(map[string]bool, len(reservations))
	for _, r := range reservations {
		reserved[r.BookGUID] = true
	}

	out := make([]types.Book, 0, len(books))
	for _, b := range books {
		if reserved[b.GUID] == wantTaken {
			out = append(out, b)
		}
	}
	return out, nil
}

// decode skips records that are not valid reservations.
func (l *Ledger) decode(records []json.RawMessage) []types.Reservation {
	out := make([]types.Reservation, 0, len(records))
	for i, rec := range records {
		r, err := decodeReservation(rec)
		if err != nil {
			logMalformed(l.logger, types.CollectionReservations, i, err)
			continue
		}
		out = append(out, r)
	}
	return out
}

package library

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mesh-intelligence/booklib/pkg/types"
)

// Query derives filter options and filtered subsets from a book list the
// caller already holds. Availability filtering consults the ledger.
type Query struct {
	ledger *Ledger
}

// NewQuery returns a Query that resolves Taken and Available against ledger.
func NewQuery(ledger *Ledger) *Query {
	return &Query{ledger: ledger}
}

// FilterableFields returns the fixed list of filter fields.
func (q *Query) FilterableFields() []string {
	out := make([]string, len(types.FilterableFields))
	copy(out, types.FilterableFields)
	return out
}

// OptionsFor returns the distinct values of field across books, sorted.
// For FilterTakenOrAvailable it always returns Taken and Available.
func (q *Query) OptionsFor(books []types.Book, field string) ([]string, error) {
	if !types.ValidFilterField(field) {
		return nil, fmt.Errorf("%q: %w", field, types.ErrInvalidFilterField)
	}
	if field == types.FilterTakenOrAvailable {
		return []string{types.Taken, types.Available}, nil
	}

	seen := make(map[string]bool)
	options := []string{}
	for _, b := range books {
		v, _ := b.FieldValue(field)
		if seen[v] {
			continue
		}
		seen[v] = true
		options = append(options, v)
	}
	sort.Strings(options)
	return options, nil
}

// Filter returns the books matching value, in input order. A value of Taken
// or Available selects by reservation state whatever the field; any other
// value must equal the book's stringified field exactly.
func (q *Query) Filter(books []types.Book, field, value string) ([]types.Book, error) {
	if !types.ValidFilterField(field) {
		return nil, fmt.Errorf("%q: %w", field, types.ErrInvalidFilterField)
	}
	switch value {
	case types.Taken:
		return q.ledger.PartitionByAvailability(books, true)
	case types.Available:
		return q.ledger.PartitionByAvailability(books, false)
	}

	out := make([]types.Book, 0, len(books))
	for _, b := range books {
		if v, ok := b.FieldValue(field); ok && v == value {
			out = append(out, b)
		}
	}
	return out, nil
}

// FilterSummary returns the heading and count lines shown above a listing.
// The heading names field and value in upper case and is empty when field is
// empty.
func FilterSummary(field, value string, n int) (heading, count string) {
	if field != "" {
		heading = fmt.Sprintf("Books list filtered: %s → %s", strings.ToUpper(field), strings.ToUpper(value))
	}
	return heading, fmt.Sprintf("Showing %d books", n)
}

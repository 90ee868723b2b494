package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Book is a single catalog entry. GUID is caller-supplied, unique across the
// catalog, and never changes once the book is registered.
type Book struct {
	Name            string
	Author          string
	Category        string
	Language        string
	PublicationDate Date
	ISBN            int
	GUID            string
}

// bookJSON mirrors the on-disk record shape of the library collection.
type bookJSON struct {
	Name            string `json:"Name"`
	Author          string `json:"Author"`
	Category        string `json:"Category"`
	Language        string `json:"Language"`
	PublicationDate string `json:"Publication date"`
	ISBN            int    `json:"ISBN"`
	GUID            string `json:"GUID"`
}

// MarshalJSON encodes the book in the library record shape.
func (b Book) MarshalJSON() ([]byte, error) {
	return json.Marshal(bookJSON{
		Name:            b.Name,
		Author:          b.Author,
		Category:        b.Category,
		Language:        b.Language,
		PublicationDate: b.PublicationDate.String(),
		ISBN:            b.ISBN,
		GUID:            b.GUID,
	})
}

// UnmarshalJSON decodes a library record. The publication date must be a
// valid calendar date.
func (b *Book) UnmarshalJSON(data []byte) error {
	var rec bookJSON
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	date, err := ParseDate(rec.PublicationDate)
	if err != nil {
		return err
	}
	*b = Book{
		Name:            rec.Name,
		Author:          rec.Author,
		Category:        rec.Category,
		Language:        rec.Language,
		PublicationDate: date,
		ISBN:            rec.ISBN,
		GUID:            rec.GUID,
	}
	return nil
}

// ParseISBN parses a decimal ISBN string into an int.
func ParseISBN(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parsing ISBN %q: %w", s, err)
	}
	return n, nil
}

// Validate checks that every text field is non-empty and the publication
// date is set. Returns ErrEmptyField naming the first missing field, or
// ErrInvalidDate when the date is not a real day.
func (b Book) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"name", b.Name},
		{"author", b.Author},
		{"category", b.Category},
		{"language", b.Language},
		{"GUID", b.GUID},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%s: %w", f.name, ErrEmptyField)
		}
	}
	if b.PublicationDate.IsZero() {
		return fmt.Errorf("publication date: %w", ErrEmptyField)
	}
	if !b.PublicationDate.Valid() {
		return fmt.Errorf("publication date %s: %w", b.PublicationDate, ErrInvalidDate)
	}
	return nil
}

// FieldValue returns the stringified value of a plain filter field.
// The second result is false for fields that are not plain book fields,
// including FilterTakenOrAvailable.
func (b Book) FieldValue(field string) (string, bool) {
	switch field {
	case FilterName:
		return b.Name, true
	case FilterAuthor:
		return b.Author, true
	case FilterCategory:
		return b.Category, true
	case FilterLanguage:
		return b.Language, true
	case FilterISBN:
		return strconv.Itoa(b.ISBN), true
	default:
		return "", false
	}
}

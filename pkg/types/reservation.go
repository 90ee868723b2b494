package types

import "fmt"

// Reservation limits.
const (
	MinPeriodDays            = 1
	MaxPeriodDays            = 60
	MaxReservationsPerPerson = 3
)

// Reservation records that a person has taken the book identified by
// BookGUID. It references the book by GUID only; it carries no book data.
type Reservation struct {
	Person   string `json:"Person"`
	Period   int    `json:"Period"` // Days, MinPeriodDays..MaxPeriodDays.
	BookGUID string `json:"GUID"`
}

// ValidatePeriod returns ErrInvalidPeriod unless days is within
// MinPeriodDays..MaxPeriodDays inclusive.
func ValidatePeriod(days int) error {
	if days < MinPeriodDays || days > MaxPeriodDays {
		return fmt.Errorf("%d days: %w", days, ErrInvalidPeriod)
	}
	return nil
}

// Validate checks that person and book GUID are set and the period is in range.
func (r Reservation) Validate() error {
	if r.Person == "" {
		return fmt.Errorf("person: %w", ErrEmptyField)
	}
	if r.BookGUID == "" {
		return fmt.Errorf("GUID: %w", ErrEmptyField)
	}
	return ValidatePeriod(r.Period)
}

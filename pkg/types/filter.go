package types

// Filter fields accepted by the query engine.
const (
	FilterName             = "name"
	FilterAuthor           = "author"
	FilterCategory         = "category"
	FilterLanguage         = "language"
	FilterISBN             = "ISBN"
	FilterTakenOrAvailable = "taken or available books"
)

// Availability values for FilterTakenOrAvailable.
const (
	Taken     = "Taken"
	Available = "Available"
)

// FilterableFields lists the filter fields in display order. The list is
// fixed and does not depend on catalog contents.
var FilterableFields = []string{
	FilterName,
	FilterAuthor,
	FilterCategory,
	FilterLanguage,
	FilterISBN,
	FilterTakenOrAvailable,
}

// ValidFilterField reports whether field is one of FilterableFields.
func ValidFilterField(field string) bool {
	for _, f := range FilterableFields {
		if f == field {
			return true
		}
	}
	return false
}

package types

// Standard collection names accepted by RecordStore.
const (
	CollectionLibrary      = "library"
	CollectionReservations = "reservations"
)

// StandardCollections lists all collection names for enumeration.
var StandardCollections = []string{
	CollectionLibrary,
	CollectionReservations,
}

// ValidCollection reports whether name is one of the standard collections.
func ValidCollection(name string) bool {
	for _, c := range StandardCollections {
		if c == name {
			return true
		}
	}
	return false
}

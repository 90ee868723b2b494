package library

import (
	"encoding/json"
	"log/slog"

	jsoniter "github.com/json-iterator/go"

	"github.com/mesh-intelligence/booklib/internal/logging"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// keyed is the part of a record both collections share: the book GUID.
type keyed struct {
	GUID string `json:"GUID"`
}

// recordGUID extracts the GUID of a raw record. ok is false when the record
// is not a JSON object.
func recordGUID(rec json.RawMessage) (guid string, ok bool) {
	var k keyed
	if err := codec.Unmarshal(rec, &k); err != nil {
		return "", false
	}
	return k.GUID, true
}

// withoutGUID returns records whose GUID differs from guid, and how many were
// dropped. Records that cannot be decoded are kept.
func withoutGUID(records []json.RawMessage, guid string) ([]json.RawMessage, int) {
	kept := make([]json.RawMessage, 0, len(records))
	for _, rec := range records {
		if g, ok := recordGUID(rec); ok && g == guid {
			continue
		}
		kept = append(kept, rec)
	}
	return kept, len(records) - len(kept)
}

func decodeBook(rec json.RawMessage) (types.Book, error) {
	var b types.Book
	err := codec.Unmarshal(rec, &b)
	return b, err
}

func decodeReservation(rec json.RawMessage) (types.Reservation, error) {
	var r types.Reservation
	err := codec.Unmarshal(rec, &r)
	return r, err
}

// logMalformed reports a record that was skipped because it did not decode.
func logMalformed(logger *slog.Logger, collection string, index int, err error) {
	logger.Warn("skipping malformed record",
		logging.AttrCollection, collection,
		"index", index,
		logging.AttrError, err.Error())
}

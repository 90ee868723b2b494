package backend

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/booklib/internal/logging"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

// Copy replaces each standard collection in dst with the records read from
// src, library first. It returns the number of records copied per
// collection.
//
// Every source collection is read before anything is written. Backends read
// an unreadable store as empty, so unless force is set Copy writes nothing
// and returns ErrWouldEraseTarget when a source collection is empty and the
// matching target collection is not. A write failure part way leaves
// earlier collections copied.
func Copy(src, dst types.RecordStore, force bool, logger *slog.Logger) (map[string]int, error) {
	logger = logging.OrDiscard(logger)
	counts := make(map[string]int, len(types.StandardCollections))

	sources := make(map[string][]json.RawMessage, len(types.StandardCollections))
	for _, name := range types.StandardCollections {
		records, err := src.ReadAll(name)
		if err != nil {
			return counts, fmt.Errorf("reading %s: %w", name, err)
		}
		sources[name] = records
	}

	if !force {
		for _, name := range types.StandardCollections {
			if len(sources[name]) > 0 {
				continue
			}
			existing, err := dst.ReadAll(name)
			if err != nil {
				return counts, fmt.Errorf("reading target %s: %w", name, err)
			}
			if len(existing) > 0 {
				logger.Warn("refusing to empty target collection",
					logging.AttrCollection, name,
					logging.AttrCount, len(existing))
				return counts, fmt.Errorf("%s holds %d records: %w", name, len(existing), types.ErrWouldEraseTarget)
			}
		}
	}

	for _, name := range types.StandardCollections {
		records := sources[name]
		if err := dst.WriteAll(name, records); err != nil {
			return counts, fmt.Errorf("copying %s: %w", name, err)
		}
		counts[name] = len(records)
		logger.Info("collection copied",
			logging.AttrCollection, name,
			logging.AttrCount, len(records))
	}
	return counts, nil
}

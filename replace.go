package changekit

import (
	"github.com/autom8ter/changekit/errors"
)

// buildReplacement builds the record a set modification replaces its match
// with - a blank record carrying the modification's key and field values.
// Fields the modification omits hold their defaults.
func buildReplacement(entry *Modification, typ *EntityType) (*Record, error) {
	record := typ.NewRecord()
	if err := applyValues(record, entry.Key); err != nil {
		return nil, errors.Wrap(err, 0, "%s", entry.Collection)
	}
	if err := applyValues(record, entry.Values); err != nil {
		return nil, errors.Wrap(err, 0, "%s", entry.Collection)
	}
	return record, nil
}

package changekit

import (
	"context"

	"github.com/autom8ter/changekit/errors"
)

// errRecordNotFound is returned when a lookup by key matches no record. A
// miss and a concurrent delete are indistinguishable here - the message
// names both.
func errRecordNotFound(collection string) error {
	return errors.New(errors.NotFound, "%s: no record matched the modification key(s); the record may have been deleted or modified concurrently", collection)
}

// resolveRecord finds the single record matching the modification's key
// values. Exactly one match is required.
func resolveRecord(ctx context.Context, q Querier, entry *Modification, typ *EntityType) (*Record, error) {
	query := entry.ApplyTo(Query{Select: []Select{{Field: SelectAllField}}})
	for i, w := range query.Where {
		def, ok := typ.FieldDef(w.Field)
		if !ok {
			return nil, errors.New(errors.UnknownField, "%s: unknown key field: %s", entry.Collection, w.Field)
		}
		coerced, err := coerceValue(def, w.Value)
		if err != nil {
			return nil, errors.Wrap(err, 0, "%s", entry.Collection)
		}
		query.Where[i].Value = coerced
	}
	results, err := q.Query(ctx, entry.Collection, query)
	if err != nil {
		return nil, err
	}
	switch results.Count {
	case 1:
		return results.Documents[0], nil
	case 0:
		return nil, errRecordNotFound(entry.Collection)
	}
	return nil, errors.New(errors.Internal, "%s: modification key(s) matched %d records - expected exactly one", entry.Collection, results.Count)
}

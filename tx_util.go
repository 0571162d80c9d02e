package changekit

import (
	"context"
	"sort"
	"time"

	"github.com/autom8ter/changekit/errors"
	"github.com/autom8ter/changekit/kv"
	"github.com/nqd/flat"
	"github.com/samber/lo"
)

// Command is a staged mutation against a collection's primary index
type Command struct {
	// Collection is the collection the command targets
	Collection string `json:"collection" validate:"required"`
	// Action is the kind of mutation
	Action Action `json:"action" validate:"required,oneof='create' 'update' 'delete' 'set'"`
	// DocID is the primary key of the record the command targets
	DocID string `json:"docID"`
	// Record is the record the command persists - the merged result for
	// updates, the removed record for deletes
	Record *Record `json:"record,omitempty"`
	// Patch holds flattened field writes for update commands
	Patch map[string]any `json:"patch,omitempty"`
	// Timestamp is the time the command was staged
	Timestamp time.Time `json:"timestamp"`
	// Metadata is the metadata attached to the command
	Metadata *Metadata `json:"metadata,omitempty"`
}

// stage runs a command through the staging pipeline - triggers, record
// validation, persist hooks and the write to the primary index. Staged
// writes are visible to later reads in the same transaction.
func (t *transaction) stage(ctx context.Context, command *Command) error {
	if t.readOnly {
		return errors.New(errors.Forbidden, "%s: cannot stage mutations in a read only transaction", command.Collection)
	}
	typ := t.store.schemas.Get(command.Collection)
	if typ == nil {
		return errors.New(errors.Validation, "unsupported collection: %s", command.Collection)
	}
	if typ.IsReadOnly() {
		return errors.New(errors.Forbidden, "collection %s is read only", command.Collection)
	}
	if command.DocID == "" {
		return errors.New(errors.Validation, "%s: %s command requires a primary key", command.Collection, command.Action)
	}
	if command.Timestamp.IsZero() {
		command.Timestamp = time.Now()
	}
	if command.Metadata == nil {
		command.Metadata, _ = GetMetadata(ctx)
	}
	before, err := t.getRecord(ctx, command.Collection, command.DocID)
	if err != nil {
		return err
	}
	switch command.Action {
	case CreateAction:
		if before != nil {
			return errors.New(errors.Validation, "%s: a record with primary key %s already exists", command.Collection, command.DocID)
		}
	case UpdateAction:
		if before == nil {
			return errRecordNotFound(command.Collection)
		}
		after := before.Clone()
		if err := after.Patch(command.Patch); err != nil {
			return err
		}
		command.Record = after
	case DeleteAction:
		if before == nil {
			return errRecordNotFound(command.Collection)
		}
		command.Record = before
	case SetAction:
	default:
		return errors.New(errors.UnsupportedOperation, "unsupported command action: %s", command.Action)
	}
	if err := t.evaluate(ctx, typ, command); err != nil {
		return err
	}
	if command.Action != DeleteAction {
		if err := typ.ValidateRecord(ctx, command.Record); err != nil {
			return err
		}
	}
	if err := t.applyPersistHooks(ctx, command, true); err != nil {
		return err
	}
	if command.Action == DeleteAction {
		if err := t.kv.Delete(ctx, recordKey(command.Collection, command.DocID)); err != nil {
			return errors.Wrap(err, errors.Internal, "failed to delete record from primary index")
		}
	} else {
		bits, err := command.Record.MarshalJSON()
		if err != nil {
			return err
		}
		if err := t.kv.Set(ctx, recordKey(command.Collection, command.DocID), bits); err != nil {
			return errors.Wrap(err, errors.Internal, "failed to set record to primary index")
		}
	}
	if err := t.applyPersistHooks(ctx, command, false); err != nil {
		return err
	}
	diff := command.Record.Diff(before)
	if command.Action == DeleteAction || diff == nil {
		diff = []FieldChange{}
	}
	t.cdc = append(t.cdc, CDC{
		ID:         newID(),
		Collection: command.Collection,
		Action:     command.Action,
		RecordID:   command.DocID,
		Record:     command.Record,
		Diff:       diff,
		Timestamp:  command.Timestamp,
		Metadata:   command.Metadata,
	})
	return nil
}

func (t *transaction) applyPersistHooks(ctx context.Context, command *Command, before bool) error {
	for _, hook := range t.store.persistHooks.Get(command.Collection) {
		if hook.Before != before {
			continue
		}
		if err := hook.Func(ctx, t, command); err != nil {
			return errors.Wrap(err, 0, "persist hook: %s", hook.Name)
		}
	}
	return nil
}

// evaluate runs the entity type's triggers against the command's record -
// the record the triggers see is the final merged state
func (t *transaction) evaluate(ctx context.Context, typ *EntityType, command *Command) error {
	if len(typ.Triggers()) == 0 {
		return nil
	}
	if err := t.vm.Set("metadata", command.Metadata); err != nil {
		return err
	}
	if err := t.vm.Set("action", string(command.Action)); err != nil {
		return err
	}
	if err := t.vm.Set("record", command.Record); err != nil {
		return err
	}
	for _, trigger := range typ.Triggers() {
		if !lo.Contains(trigger.Events, command.Action) {
			continue
		}
		if _, err := t.vm.RunString(trigger.Script); err != nil {
			return errors.Wrap(err, errors.Validation, "%s: trigger %s failed", typ.Collection(), trigger.Name)
		}
	}
	return nil
}

// getRecord returns the record at the given primary key - nil when absent
func (t *transaction) getRecord(ctx context.Context, collection, id string) (*Record, error) {
	typ := t.store.schemas.Get(collection)
	if typ == nil {
		return nil, errors.New(errors.Validation, "unsupported collection: %s", collection)
	}
	bits, err := t.kv.Get(ctx, recordKey(collection, id))
	if err != nil {
		return nil, errors.Wrap(err, errors.Internal, "failed to get record: %s/%s", collection, id)
	}
	if bits == nil {
		return nil, nil
	}
	return DecodeRecord(typ.Fields(), bits)
}

// flushTracked merges each dirty tracked record's buffered writes into the
// primary index as a single update command
func (t *transaction) flushTracked(ctx context.Context) error {
	for _, tracked := range t.tracked {
		if !tracked.IsDirty() {
			continue
		}
		patch, err := flat.Flatten(tracked.dirty.Map(), nil)
		if err != nil {
			return errors.Wrap(err, errors.Internal, "failed to flatten tracked writes")
		}
		command := &Command{
			Collection: tracked.Collection(),
			Action:     UpdateAction,
			DocID:      tracked.typ.GetPrimaryKey(tracked.Record()),
			Patch:      patch,
		}
		tracked.dirty = nil
		if err := t.stage(ctx, command); err != nil {
			return err
		}
	}
	return nil
}

func (t *transaction) queryCollection(ctx context.Context, collection string, query Query) (Page, error) {
	typ := t.store.schemas.Get(collection)
	if typ == nil {
		return Page{}, errors.New(errors.Validation, "unsupported collection: %s", collection)
	}
	if err := query.Validate(ctx); err != nil {
		return Page{}, err
	}
	now := time.Now()
	var results Records
	if err := t.queryScan(ctx, typ, query.Where, func(record *Record) (bool, error) {
		results = append(results, record)
		return true, nil
	}); err != nil {
		return Page{}, err
	}
	results, err := orderRecords(query.OrderBy, results)
	if err != nil {
		return Page{}, err
	}
	if query.Limit > 0 {
		results = results.Slice(query.Page*query.Limit, (query.Page+1)*query.Limit)
	}
	if !query.isSelectAll() {
		results, err = projectRecords(typ, query.Select, results)
		if err != nil {
			return Page{}, err
		}
	}
	return Page{
		Documents: results,
		NextPage:  query.Page + 1,
		Count:     len(results),
		Stats: PageStats{
			ExecutionTime: time.Since(now),
		},
	}, nil
}

// queryScan scans the collection's primary index, delivering records passing
// the where clauses to fn
func (t *transaction) queryScan(ctx context.Context, typ *EntityType, where []Where, fn ForEachFunc) error {
	if fn == nil {
		return errors.New(errors.Validation, "empty scan handler")
	}
	it, err := t.kv.NewIterator(kv.IterOpts{
		Prefix: recordPrefix(typ.Collection()),
	})
	if err != nil {
		return errors.Wrap(err, errors.Internal, "failed to scan collection: %s", typ.Collection())
	}
	defer it.Close()
	for it.Valid() {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.Internal, "%s: scan aborted", typ.Collection())
		}
		bits, err := it.Value()
		if err != nil {
			return err
		}
		record, err := DecodeRecord(typ.Fields(), bits)
		if err != nil {
			return err
		}
		pass, err := record.Where(where)
		if err != nil {
			return err
		}
		if pass {
			shouldContinue, err := fn(record)
			if err != nil {
				return err
			}
			if !shouldContinue {
				return nil
			}
		}
		if err := it.Next(); err != nil {
			return err
		}
	}
	return nil
}

func orderRecords(orderBys []OrderBy, records Records) (Records, error) {
	if len(orderBys) == 0 {
		return records, nil
	}
	var sortErr error
	sort.SliceStable(records, func(i, j int) bool {
		for _, ob := range orderBys {
			cmp, err := compareValues(normalizeCompare(records[i].Get(ob.Field)), normalizeCompare(records[j].Get(ob.Field)))
			if err != nil {
				if sortErr == nil {
					sortErr = errors.Wrap(err, 0, "field %s", ob.Field)
				}
				return false
			}
			if cmp == 0 {
				continue
			}
			if ob.Direction == OrderByDirectionDesc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return records, nil
}

// projectRecords reduces each record to the selected fields - unselected
// fields hold their zero values
func projectRecords(typ *EntityType, selects []Select, records Records) (Records, error) {
	projected := make(Records, 0, len(records))
	for _, record := range records {
		blank := typ.NewRecord()
		for _, sel := range selects {
			value := record.Get(sel.Field)
			if nested, ok := value.(*Record); ok {
				value = nested.Clone()
			}
			if err := blank.SetField(sel.Field, value); err != nil {
				return nil, err
			}
		}
		projected = append(projected, blank)
	}
	return projected, nil
}

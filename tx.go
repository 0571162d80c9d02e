package changekit

import (
	"context"

	"github.com/autom8ter/changekit/errors"
	"github.com/autom8ter/changekit/kv"
	"github.com/dop251/goja"
)

// Tx is a transaction against a store. It is the persistence context change
// sets are prepared against - mutations stage against the underlying key
// value transaction and become durable on commit.
type Tx interface {
	Context
	// Get returns the record with the given primary key
	Get(ctx context.Context, collection, id string) (*Record, error)
	// QueryPaginate queries the collection page by page until the handler
	// returns false or the result set is exhausted
	QueryPaginate(ctx context.Context, collection string, query Query, handlePage PageHandler) error
	// Commit commits the transaction, broadcasting its change events
	Commit(ctx context.Context) error
	// Rollback discards the transaction's staged mutations
	Rollback(ctx context.Context)
}

// TxFunc is a function executed against a transaction - if the function
// returns an error, all changes are rolled back. Otherwise the changes are
// committed.
type TxFunc func(ctx context.Context, tx Tx) error

type transaction struct {
	store    *defaultStore
	kv       kv.Tx
	vm       *goja.Runtime
	readOnly bool
	tracked  []*Tracked
	cdc      []CDC
}

func (t *transaction) GetSchema(ctx context.Context, collection string) *EntityType {
	return t.store.GetSchema(ctx, collection)
}

func (t *transaction) Collection(collection string) (Collection, error) {
	typ := t.store.schemas.Get(collection)
	if typ == nil {
		return nil, errors.New(errors.Validation, "unsupported collection: %s", collection)
	}
	return &txCollection{tx: t, typ: typ}, nil
}

func (t *transaction) Attach(ctx context.Context, collection string, record *Record) (*Tracked, error) {
	typ := t.store.schemas.Get(collection)
	if typ == nil {
		return nil, errors.New(errors.Validation, "unsupported collection: %s", collection)
	}
	if record == nil {
		return nil, errors.New(errors.Validation, "%s: cannot attach an empty record", collection)
	}
	if typ.GetPrimaryKey(record) == "" {
		return nil, errors.New(errors.Validation, "%s: cannot attach a record with an unset primary key", collection)
	}
	tracked := newTracked(typ, record)
	t.tracked = append(t.tracked, tracked)
	return tracked, nil
}

func (t *transaction) Replace(ctx context.Context, collection string, record *Record) error {
	typ := t.store.schemas.Get(collection)
	if typ == nil {
		return errors.New(errors.Validation, "unsupported collection: %s", collection)
	}
	return t.stage(ctx, &Command{
		Collection: collection,
		Action:     SetAction,
		DocID:      typ.GetPrimaryKey(record),
		Record:     record,
	})
}

func (t *transaction) Get(ctx context.Context, collection, id string) (*Record, error) {
	if err := t.flushTracked(ctx); err != nil {
		return nil, err
	}
	record, err := t.getRecord(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errors.New(errors.NotFound, "%s: no record with primary key: %s", collection, id)
	}
	return record, nil
}

func (t *transaction) Query(ctx context.Context, collection string, query Query) (Page, error) {
	if err := t.flushTracked(ctx); err != nil {
		return Page{}, err
	}
	return t.queryCollection(ctx, collection, query)
}

func (t *transaction) QueryPaginate(ctx context.Context, collection string, query Query, handlePage PageHandler) error {
	if query.Limit == 0 {
		return errors.New(errors.Validation, "pagination requires a limit")
	}
	page := query.Page
	for {
		results, err := t.Query(ctx, collection, Query{
			Select:  query.Select,
			Where:   query.Where,
			OrderBy: query.OrderBy,
			Page:    page,
			Limit:   query.Limit,
		})
		if err != nil {
			return errors.Wrap(err, 0, "failed to paginate query")
		}
		if results.Count == 0 {
			return nil
		}
		if !handlePage(results) {
			return nil
		}
		page = results.NextPage
	}
}

func (t *transaction) Commit(ctx context.Context) error {
	if err := t.flushTracked(ctx); err != nil {
		return err
	}
	for _, hook := range t.store.onCommit {
		if hook.Before {
			if err := hook.Func(ctx, t); err != nil {
				return errors.Wrap(err, 0, "commit hook: %s", hook.Name)
			}
		}
	}
	if err := t.kv.Commit(ctx); err != nil {
		return errors.Wrap(err, errors.Internal, "failed to commit transaction")
	}
	for _, hook := range t.store.onCommit {
		if !hook.Before {
			if err := hook.Func(ctx, t); err != nil {
				return errors.Wrap(err, 0, "commit hook: %s", hook.Name)
			}
		}
	}
	for _, event := range t.cdc {
		t.store.stream.Broadcast(ctx, event.Collection, event)
	}
	t.store.logger.Debug(ctx, "committed transaction", map[string]any{
		"events": len(t.cdc),
	})
	t.cdc = nil
	t.tracked = nil
	return nil
}

func (t *transaction) Rollback(ctx context.Context) {
	for _, hook := range t.store.onRollback {
		hook.Func(ctx, t)
	}
	t.kv.Rollback(ctx)
	t.cdc = nil
	t.tracked = nil
}

// txCollection stages mutations against a single collection
type txCollection struct {
	tx  *transaction
	typ *EntityType
}

func (c *txCollection) Add(ctx context.Context, record *Record) error {
	if record == nil {
		return errors.New(errors.Validation, "%s: empty record", c.typ.Collection())
	}
	if c.typ.primary.Kind == KindString && c.typ.GetPrimaryKey(record) == "" {
		if err := c.typ.SetPrimaryKey(record, newID()); err != nil {
			return err
		}
	}
	docID := c.typ.GetPrimaryKey(record)
	if docID == "" {
		return errors.New(errors.Validation, "%s: records require a primary key", c.typ.Collection())
	}
	return c.tx.stage(ctx, &Command{
		Collection: c.typ.Collection(),
		Action:     CreateAction,
		DocID:      docID,
		Record:     record,
	})
}

func (c *txCollection) Remove(ctx context.Context, record *Record) error {
	if record == nil {
		return errors.New(errors.Validation, "%s: empty record", c.typ.Collection())
	}
	return c.tx.stage(ctx, &Command{
		Collection: c.typ.Collection(),
		Action:     DeleteAction,
		DocID:      c.typ.GetPrimaryKey(record),
	})
}

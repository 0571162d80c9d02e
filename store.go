package changekit

import (
	"context"
	"sort"
	"time"

	"github.com/autom8ter/changekit/errors"
	"github.com/autom8ter/changekit/kv"
	"github.com/autom8ter/changekit/kv/registry"
	"github.com/autom8ter/machine/v4"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// ChangeStreamHandler handles change events pulled from a change stream -
// returning an error stops the stream
type ChangeStreamHandler func(ctx context.Context, event CDC) error

// Store is an embedded change application store. It persists entity types and
// records in a key value database and applies protocol neutral change sets
// against them transactionally.
type Store interface {
	// ConfigureCollection parses a yaml entity type definition, persists it
	// and registers it with the store
	ConfigureCollection(ctx context.Context, yamlDef []byte) error
	// ConfigureCollections configures the given collections concurrently
	ConfigureCollections(ctx context.Context, yamlDefs ...[]byte) error
	// GetSchema returns the entity type registered for the collection - nil
	// when the collection is unknown
	GetSchema(ctx context.Context, collection string) *EntityType
	// Collections returns the registered collection names in sorted order
	Collections(ctx context.Context) []string
	// HasCollection returns true if the collection is registered
	HasCollection(ctx context.Context, collection string) bool
	// NewTx creates a new transaction
	NewTx(ctx context.Context, opts kv.TxOpts) (Tx, error)
	// Tx runs the given function against a new transaction, committing on
	// success and rolling back on error
	Tx(ctx context.Context, opts kv.TxOpts, fn TxFunc) error
	// Apply applies the change set in a single transaction
	Apply(ctx context.Context, set *ChangeSet) error
	// ChangeStream blocks, delivering the collection's change events to fn
	// until fn returns an error or the context cancels
	ChangeStream(ctx context.Context, collection string, fn ChangeStreamHandler) error
	// Close closes the store
	Close(ctx context.Context) error
}

type defaultStore struct {
	logger       Logger
	kv           kv.DB
	machine      machine.Machine
	stream       Stream[CDC]
	schemas      Cache[*EntityType]
	persistHooks Cache[[]OnPersist]
	onCommit     []OnCommit
	onRollback   []OnRollback
	preparer     *Preparer
}

// Open opens a store against the named key value database provider. Entity
// types persisted by previous runs are restored.
func Open(ctx context.Context, provider string, providerParams map[string]any, opts ...StoreOpt) (Store, error) {
	db, err := registry.Open(provider, providerParams)
	if err != nil {
		return nil, errors.Wrap(err, 0, "failed to open kv database provider: %s", provider)
	}
	m := machine.New()
	s := &defaultStore{
		kv:           db,
		machine:      m,
		stream:       newStream[CDC](m),
		schemas:      newCache(map[string]*EntityType{}),
		persistHooks: newCache(map[string][]OnPersist{}),
	}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		lgger, err := NewLogger("info", map[string]any{})
		if err != nil {
			return nil, err
		}
		s.logger = lgger
	}
	s.preparer = NewPreparer(WithPreparerLogger(s.logger))
	if err := s.restoreCollections(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *defaultStore) restoreCollections(ctx context.Context) error {
	return s.kv.Tx(ctx, kv.TxOpts{IsReadOnly: true}, func(ctx context.Context, tx kv.Tx) error {
		it, err := tx.NewIterator(kv.IterOpts{Prefix: schemaPrefix})
		if err != nil {
			return errors.Wrap(err, errors.Internal, "failed to scan entity types")
		}
		defer it.Close()
		for it.Valid() {
			bits, err := it.Value()
			if err != nil {
				return errors.Wrap(err, errors.Internal, "failed to read entity type: %s", string(it.Key()))
			}
			typ, err := NewEntityType(bits)
			if err != nil {
				return errors.Wrap(err, 0, "failed to restore entity type: %s", string(it.Key()))
			}
			s.schemas.Set(typ.Collection(), typ)
			if err := it.Next(); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *defaultStore) ConfigureCollection(ctx context.Context, yamlDef []byte) error {
	typ, err := NewEntityType(yamlDef)
	if err != nil {
		return err
	}
	locker, err := s.kv.NewLocker(lockKey(typ.Collection()), 1*time.Second)
	if err != nil {
		return errors.Wrap(err, errors.Internal, "failed to lock collection configuration: %s", typ.Collection())
	}
	gotLock, err := locker.TryLock(ctx)
	if err != nil {
		return errors.Wrap(err, errors.Internal, "failed to lock collection configuration: %s", typ.Collection())
	}
	if !gotLock {
		return errors.New(errors.Forbidden, "collection configuration is locked: %s", typ.Collection())
	}
	defer locker.Unlock()
	canonical, err := typ.Bytes()
	if err != nil {
		return err
	}
	if err := s.kv.Tx(ctx, kv.TxOpts{}, func(ctx context.Context, tx kv.Tx) error {
		return tx.Set(ctx, schemaKey(typ.Collection()), canonical)
	}); err != nil {
		return errors.Wrap(err, errors.Internal, "failed to persist entity type: %s", typ.Collection())
	}
	s.schemas.Set(typ.Collection(), typ)
	s.logger.Info(ctx, "configured collection", map[string]any{
		"collection": typ.Collection(),
	})
	return nil
}

func (s *defaultStore) ConfigureCollections(ctx context.Context, yamlDefs ...[]byte) error {
	egp, ctx := errgroup.WithContext(ctx)
	for _, yamlDef := range yamlDefs {
		yamlDef := yamlDef
		egp.Go(func() error {
			return s.ConfigureCollection(ctx, yamlDef)
		})
	}
	return egp.Wait()
}

func (s *defaultStore) GetSchema(ctx context.Context, collection string) *EntityType {
	return s.schemas.Get(collection)
}

func (s *defaultStore) Collections(ctx context.Context) []string {
	names := lo.Keys(s.schemas.AsMap())
	sort.Strings(names)
	return names
}

func (s *defaultStore) HasCollection(ctx context.Context, collection string) bool {
	return s.schemas.Exists(collection)
}

func (s *defaultStore) NewTx(ctx context.Context, opts kv.TxOpts) (Tx, error) {
	ktx, err := s.kv.NewTx(opts)
	if err != nil {
		return nil, errors.Wrap(err, errors.Internal, "failed to create transaction")
	}
	vm, err := getTriggerVM(ctx, map[string]any{})
	if err != nil {
		ktx.Rollback(ctx)
		return nil, err
	}
	return &transaction{
		store:    s,
		kv:       ktx,
		vm:       vm,
		readOnly: opts.IsReadOnly,
	}, nil
}

func (s *defaultStore) Tx(ctx context.Context, opts kv.TxOpts, fn TxFunc) error {
	tx, err := s.NewTx(ctx, opts)
	if err != nil {
		return err
	}
	if err := fn(ctx, tx); err != nil {
		tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func (s *defaultStore) Apply(ctx context.Context, set *ChangeSet) error {
	return s.Tx(ctx, kv.TxOpts{}, func(ctx context.Context, tx Tx) error {
		return s.preparer.Prepare(ctx, set, tx)
	})
}

func (s *defaultStore) ChangeStream(ctx context.Context, collection string, fn ChangeStreamHandler) error {
	if !s.HasCollection(ctx, collection) {
		return errors.New(errors.Validation, "unsupported collection: %s", collection)
	}
	return s.stream.Pull(ctx, collection, func(ctx context.Context, event CDC) (bool, error) {
		if err := fn(ctx, event); err != nil {
			return false, err
		}
		return true, nil
	})
}

func (s *defaultStore) Close(ctx context.Context) error {
	if err := s.machine.Wait(); err != nil {
		return errors.Wrap(err, errors.Internal, "failed to drain change streams")
	}
	return errors.Wrap(s.kv.Close(ctx), errors.Internal, "failed to close key value database")
}

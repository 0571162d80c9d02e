package badger

import (
	"context"
	"time"

	"github.com/autom8ter/changekit/kv"
	"github.com/autom8ter/changekit/kv/registry"
	"github.com/dgraph-io/badger/v3"
	"github.com/segmentio/ksuid"
	"github.com/spf13/cast"
)

func init() {
	registry.Register("badger", func(params map[string]interface{}) (kv.DB, error) {
		return open(cast.ToString(params["storage_path"]))
	})
}

type badgerKV struct {
	db *badger.DB
}

// open opens a badger key value database at the given storage path - an empty path opens an in-memory database
func open(storagePath string) (kv.DB, error) {
	opts := badger.DefaultOptions(storagePath)
	if storagePath == "" {
		opts.InMemory = true
		opts.Dir = ""
		opts.ValueDir = ""
	}
	opts = opts.WithLoggingLevel(badger.ERROR)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &badgerKV{db: db}, nil
}

func (b *badgerKV) NewTx(opts kv.TxOpts) (kv.Tx, error) {
	if opts.IsBatch {
		return &badgerTx{opts: opts, batch: b.db.NewWriteBatch(), db: b}, nil
	}
	return &badgerTx{opts: opts, txn: b.db.NewTransaction(!opts.IsReadOnly), db: b}, nil
}

func (b *badgerKV) Tx(ctx context.Context, opts kv.TxOpts, fn kv.TxFunc) error {
	tx, err := b.NewTx(opts)
	if err != nil {
		return err
	}
	defer tx.Close(ctx)
	if err := fn(ctx, tx); err != nil {
		tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func (b *badgerKV) NewLocker(key []byte, leaseInterval time.Duration) (kv.Locker, error) {
	return &badgerLock{
		id:            ksuid.New().String(),
		key:           key,
		db:            b,
		leaseInterval: leaseInterval,
		unlock:        make(chan struct{}),
		hasUnlocked:   make(chan struct{}),
	}, nil
}

func (b *badgerKV) DropPrefix(ctx context.Context, prefix ...[]byte) error {
	return b.db.DropPrefix(prefix...)
}

func (b *badgerKV) Close(ctx context.Context) error {
	return b.db.Close()
}

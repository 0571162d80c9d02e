package badger

import (
	"context"

	"github.com/autom8ter/changekit/kv"
	"github.com/autom8ter/changekit/kv/kvutil"
	"github.com/dgraph-io/badger/v3"
)

type badgerTx struct {
	opts  kv.TxOpts
	txn   *badger.Txn
	batch *badger.WriteBatch
	db    *badgerKV
}

// readTxn lazily opens a read transaction for batch transactions, which cannot serve reads themselves.
// Reads in batch mode will not observe the batch's uncommitted writes.
func (b *badgerTx) readTxn() *badger.Txn {
	if b.txn == nil {
		b.txn = b.db.db.NewTransaction(false)
	}
	return b.txn
}

func (b *badgerTx) Get(ctx context.Context, key []byte) ([]byte, error) {
	item, err := b.readTxn().Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (b *badgerTx) Set(ctx context.Context, key, value []byte) error {
	e := &badger.Entry{
		Key:   key,
		Value: value,
	}
	if b.batch != nil {
		return b.batch.SetEntry(e)
	}
	return b.txn.SetEntry(e)
}

func (b *badgerTx) Delete(ctx context.Context, key []byte) error {
	if b.batch != nil {
		return b.batch.Delete(key)
	}
	return b.txn.Delete(key)
}

func (b *badgerTx) NewIterator(kopts kv.IterOpts) (kv.Iterator, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	opts.PrefetchSize = 10
	opts.Prefix = kopts.Prefix
	opts.Reverse = kopts.Reverse
	if kopts.Reverse && kopts.Seek == nil {
		if kopts.UpperBound != nil {
			kopts.Seek = kopts.UpperBound
		} else if kopts.Prefix != nil {
			kopts.Seek = kvutil.NextPrefix(kopts.Prefix)
		}
	}
	iter := b.readTxn().NewIterator(opts)
	if kopts.Seek == nil {
		iter.Rewind()
	} else {
		iter.Seek(kopts.Seek)
	}
	it := &badgerIterator{iter: iter, opts: kopts}
	// the upper bound is exclusive - a reverse seek may land exactly on it
	if kopts.Reverse && kopts.UpperBound != nil && it.Valid() && string(it.Key()) == string(kopts.UpperBound) {
		if err := it.Next(); err != nil {
			it.Close()
			return nil, err
		}
	}
	return it, nil
}

func (b *badgerTx) Commit(ctx context.Context) error {
	if b.batch != nil {
		return b.batch.Flush()
	}
	return b.txn.Commit()
}

func (b *badgerTx) Rollback(ctx context.Context) {
	if b.batch != nil {
		b.batch.Cancel()
	}
	if b.txn != nil {
		b.txn.Discard()
	}
}

func (b *badgerTx) Close(ctx context.Context) {
	if b.txn != nil {
		b.txn.Discard()
	}
	if b.batch != nil {
		b.batch.Cancel()
	}
}

package tikv

import (
	"context"
	"fmt"

	"github.com/autom8ter/changekit/kv"
	"github.com/autom8ter/changekit/kv/kvutil"
	tikvErr "github.com/tikv/client-go/v2/error"
	"github.com/tikv/client-go/v2/txnkv/transaction"
)

type tikvTx struct {
	txn  *transaction.KVTxn
	opts kv.TxOpts
	db   *tikvKV
}

func (t *tikvTx) NewIterator(kopts kv.IterOpts) (kv.Iterator, error) {
	if kopts.Reverse {
		// IterReverse yields keys strictly below the given bound in
		// descending order.
		start := kopts.UpperBound
		if kopts.Seek != nil {
			start = kvutil.NextPrefix(kopts.Seek)
		}
		if start == nil {
			start = kvutil.NextPrefix(kopts.Prefix)
		}
		iter, err := t.txn.IterReverse(start)
		if err != nil {
			return nil, err
		}
		return &tikvIterator{iter: iter, opts: kopts}, nil
	}
	start := kopts.Prefix
	if kopts.Seek != nil {
		start = kopts.Seek
	}
	upper := kopts.UpperBound
	if upper == nil {
		upper = kvutil.NextPrefix(kopts.Prefix)
	}
	iter, err := t.txn.Iter(start, upper)
	if err != nil {
		return nil, err
	}
	return &tikvIterator{iter: iter, opts: kopts}, nil
}

func (t *tikvTx) Get(ctx context.Context, key []byte) ([]byte, error) {
	val, err := t.txn.Get(ctx, key)
	if err != nil {
		if tikvErr.IsErrNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return val, nil
}

func (t *tikvTx) Set(ctx context.Context, key, value []byte) error {
	if t.opts.IsReadOnly {
		return fmt.Errorf("writes forbidden in read-only transaction")
	}
	return t.txn.Set(key, value)
}

func (t *tikvTx) Delete(ctx context.Context, key []byte) error {
	if t.opts.IsReadOnly {
		return fmt.Errorf("writes forbidden in read-only transaction")
	}
	return t.txn.Delete(key)
}

func (t *tikvTx) Rollback(ctx context.Context) {
	t.txn.Rollback()
}

func (t *tikvTx) Commit(ctx context.Context) error {
	return t.txn.Commit(ctx)
}

func (t *tikvTx) Close(ctx context.Context) {
}

package kv

import (
	"context"
	"time"
)

// TxOpts are options when creating a transaction
type TxOpts struct {
	// IsReadOnly makes the transaction read only - writes will fail
	IsReadOnly bool `json:"isReadOnly"`
	// IsBatch uses a write batch instead of a transaction when the provider supports one
	IsBatch bool `json:"isBatch"`
}

// TxFunc is a function that runs against a transaction
type TxFunc func(ctx context.Context, tx Tx) error

// DB is a key value database implementation
type DB interface {
	// NewTx creates a new transaction
	NewTx(opts TxOpts) (Tx, error)
	// Tx runs the given function against a new transaction, committing on success and discarding on error
	Tx(ctx context.Context, opts TxOpts, fn TxFunc) error
	// NewLocker returns a lease-based locker on the given key
	NewLocker(key []byte, leaseInterval time.Duration) (Locker, error)
	// DropPrefix drops all keys with the given prefix(es) from the database
	DropPrefix(ctx context.Context, prefix ...[]byte) error
	// Close closes the key value database
	Close(ctx context.Context) error
}

// IterOpts are options when creating an iterator
type IterOpts struct {
	// Prefix restricts the iterator to keys with the given prefix
	Prefix []byte `json:"prefix"`
	// Seek positions the iterator at the first key >= the given key (<= when reversed)
	Seek []byte `json:"seek"`
	// UpperBound restricts the iterator to keys < the given key
	UpperBound []byte `json:"upperBound"`
	// Reverse iterates in descending key order
	Reverse bool `json:"reverse"`
}

// Tx is a transaction against a key value database
type Tx interface {
	// Get gets the value of the given key - a nil value and nil error are returned when the key does not exist
	Get(ctx context.Context, key []byte) ([]byte, error)
	// Set sets the value of the given key
	Set(ctx context.Context, key, value []byte) error
	// Delete deletes the given key
	Delete(ctx context.Context, key []byte) error
	// NewIterator creates a new iterator against the transaction
	NewIterator(opts IterOpts) (Iterator, error)
	// Commit commits the transaction
	Commit(ctx context.Context) error
	// Rollback discards the transaction
	Rollback(ctx context.Context)
	// Close releases the transaction's resources
	Close(ctx context.Context)
}

// Iterator iterates over keys in a transaction
type Iterator interface {
	// Seek moves the iterator to the given key
	Seek(key []byte)
	// Valid reports whether the iterator is positioned on a key within its bounds
	Valid() bool
	// Key returns the key the iterator is positioned on
	Key() []byte
	// Value returns the value the iterator is positioned on
	Value() ([]byte, error)
	// Next moves the iterator to the next key
	Next() error
	// Close closes the iterator
	Close()
}

// Locker is a lease-based distributed lock on a single key
type Locker interface {
	// TryLock attempts to acquire the lock without blocking
	TryLock(ctx context.Context) (bool, error)
	// IsLocked reports whether another holder has an active lease on the lock
	IsLocked(ctx context.Context) (bool, error)
	// Unlock releases the lock and stops its keepalive
	Unlock()
}

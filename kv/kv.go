// Package kv declares the storage-transaction contract the rest of the
// engine (out of scope here) backs with a real key-value store. Callers
// already select namespace/database via dbs.Options before obtaining a
// Tx; keys passed to Tx are scoped relative to that selection.
package kv

import "context"

// Tx is a read-only transaction handle.
type Tx interface {
	Get(ctx context.Context, key []byte) ([]byte, error)
	Scan(ctx context.Context, prefix []byte) (Iterator, error)
	Writable() bool
	Cancel(ctx context.Context) error
}

// RwTx is a read-write transaction handle.
type RwTx interface {
	Tx
	Set(ctx context.Context, key, value []byte) error
	Del(ctx context.Context, key []byte) error
	Commit(ctx context.Context) error
}

// Iterator walks a key range in ascending key order.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Err() error
	Close() error
}

// ErrNotFound is returned by Get when key has no value.
type ErrNotFound struct{ Key []byte }

func (e *ErrNotFound) Error() string { return "kv: key not found: " + string(e.Key) }

// Package memkv is an in-memory kv.RwTx test double: a single mutex-
// guarded map, snapshotted per transaction so concurrent readers see a
// consistent view while a writer is open. It is explicitly not a real
// storage engine.
package memkv

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/driftdb/core/kv"
)

// Store is the shared backing map. NewTx/NewRwTx open transactions
// against it.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewStore creates an empty Store.
func NewStore() *Store { return &Store{data: make(map[string][]byte)} }

// NewTx opens a read-only transaction against a snapshot of the store.
func (s *Store) NewTx() kv.Tx { return s.newTx(false) }

// NewRwTx opens a read-write transaction.
func (s *Store) NewRwTx() kv.RwTx { return s.newTx(true) }

func (s *Store) newTx(writable bool) *tx {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make(map[string][]byte, len(s.data))
	for k, v := range s.data {
		snapshot[k] = v
	}
	return &tx{store: s, snapshot: snapshot, writable: writable}
}

type tx struct {
	store    *Store
	snapshot map[string][]byte
	writes   map[string][]byte
	deletes  map[string]bool
	writable bool
	done     bool
}

func (t *tx) Writable() bool { return t.writable }

func (t *tx) Get(_ context.Context, key []byte) ([]byte, error) {
	k := string(key)
	if t.deletes != nil && t.deletes[k] {
		return nil, &kv.ErrNotFound{Key: key}
	}
	if v, ok := t.writes[k]; ok {
		return v, nil
	}
	v, ok := t.snapshot[k]
	if !ok {
		return nil, &kv.ErrNotFound{Key: key}
	}
	return v, nil
}

func (t *tx) Set(_ context.Context, key, value []byte) error {
	if !t.writable {
		return errReadOnly
	}
	if t.writes == nil {
		t.writes = make(map[string][]byte)
	}
	t.writes[string(key)] = value
	if t.deletes != nil {
		delete(t.deletes, string(key))
	}
	return nil
}

func (t *tx) Del(_ context.Context, key []byte) error {
	if !t.writable {
		return errReadOnly
	}
	if t.deletes == nil {
		t.deletes = make(map[string]bool)
	}
	t.deletes[string(key)] = true
	if t.writes != nil {
		delete(t.writes, string(key))
	}
	return nil
}

func (t *tx) Scan(_ context.Context, prefix []byte) (kv.Iterator, error) {
	merged := make(map[string][]byte, len(t.snapshot))
	for k, v := range t.snapshot {
		merged[k] = v
	}
	for k, v := range t.writes {
		merged[k] = v
	}
	for k := range t.deletes {
		delete(merged, k)
	}

	var keys []string
	for k := range merged {
		if bytes.HasPrefix([]byte(k), prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	return &iterator{keys: keys, values: merged, pos: -1}, nil
}

func (t *tx) Commit(_ context.Context) error {
	if !t.writable {
		return errReadOnly
	}
	if t.done {
		return errTxDone
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for k, v := range t.writes {
		t.store.data[k] = v
	}
	for k := range t.deletes {
		delete(t.store.data, k)
	}
	t.done = true
	return nil
}

func (t *tx) Cancel(_ context.Context) error {
	t.done = true
	return nil
}

type iterator struct {
	keys   []string
	values map[string][]byte
	pos    int
}

func (it *iterator) Next() bool {
	it.pos++
	return it.pos < len(it.keys)
}

func (it *iterator) Key() []byte   { return []byte(it.keys[it.pos]) }
func (it *iterator) Value() []byte { return it.values[it.keys[it.pos]] }
func (it *iterator) Err() error    { return nil }
func (it *iterator) Close() error  { return nil }

type kvError string

func (e kvError) Error() string { return string(e) }

const (
	errReadOnly kvError = "memkv: transaction is read-only"
	errTxDone   kvError = "memkv: transaction already closed"
)

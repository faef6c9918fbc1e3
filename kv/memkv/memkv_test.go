package memkv

import (
	"context"
	"testing"
)

func TestSetGetCommit(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	wtx := store.NewRwTx()
	if err := wtx.Set(ctx, []byte("a"), []byte("1")); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := wtx.Commit(ctx); err != nil {
		t.Fatalf("Commit error: %v", err)
	}

	rtx := store.NewTx()
	v, err := rtx.Get(ctx, []byte("a"))
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if string(v) != "1" {
		t.Errorf("expected %q, got %q", "1", v)
	}
}

func TestReadOnlyTxRejectsWrites(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	rtx := store.NewTx().(interface {
		Set(ctx context.Context, key, value []byte) error
	})
	if err := rtx.Set(ctx, []byte("a"), []byte("1")); err == nil {
		t.Error("expected a read-only transaction to reject Set")
	}
}

func TestScanReturnsPrefixedKeysInOrder(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	wtx := store.NewRwTx()
	wtx.Set(ctx, []byte("person:b"), []byte("2"))
	wtx.Set(ctx, []byte("person:a"), []byte("1"))
	wtx.Set(ctx, []byte("company:a"), []byte("3"))
	wtx.Commit(ctx)

	rtx := store.NewTx()
	it, err := rtx.Scan(ctx, []byte("person:"))
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	var got []string
	for it.Next() {
		got = append(got, string(it.Key()))
	}
	if len(got) != 2 || got[0] != "person:a" || got[1] != "person:b" {
		t.Errorf("unexpected scan order: %v", got)
	}
}

func TestUncommittedWritesAreInvisibleToOtherTx(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	wtx := store.NewRwTx()
	wtx.Set(ctx, []byte("a"), []byte("1"))

	rtx := store.NewTx()
	if _, err := rtx.Get(ctx, []byte("a")); err == nil {
		t.Error("expected an uncommitted write to be invisible to a concurrent transaction")
	}
}

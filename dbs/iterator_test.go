package dbs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/driftdb/core/dbs/notify"
)

type recordingSink struct {
	got []notify.Notification
}

func (s *recordingSink) Send(n notify.Notification) { s.got = append(s.got, n) }

func TestIteratorPrepareCollectsOutput(t *testing.T) {
	it := NewIterator(New())
	if err := it.Prepare(Target{Kind: "thing", Value: "person:1"}, "ok-1"); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := it.Prepare(Target{Kind: "thing", Value: "person:2"}, "ok-2"); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	out, err := it.Output(context.Background())
	if err != nil {
		t.Fatalf("output: %v", err)
	}
	if len(out) != 2 || out[0] != "ok-1" || out[1] != "ok-2" {
		t.Fatalf("unexpected output: %v", out)
	}
}

func TestIteratorPreservesTargetOrderUnderParallel(t *testing.T) {
	it := NewIterator(New().WithFutures(true))
	it.Parallel = true
	for i := 0; i < 20; i++ {
		v := i
		if err := it.PrepareFunc(Target{Kind: "thing", Value: string(rune('a' + i))}, func(context.Context) (any, error) {
			return v, nil
		}); err != nil {
			t.Fatalf("prepare: %v", err)
		}
	}
	out, err := it.Output(context.Background())
	if err != nil {
		t.Fatalf("output: %v", err)
	}
	for i, v := range out {
		if v.(int) != i {
			t.Fatalf("out of order output at %d: %v", i, v)
		}
	}
}

func TestIteratorDedupesRepeatedTargets(t *testing.T) {
	it := NewIterator(New())
	tg := Target{Kind: "thing", Value: "person:1"}
	calls := 0
	prep := func(context.Context) (any, error) {
		calls++
		return calls, nil
	}
	if err := it.PrepareFunc(tg, prep); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := it.PrepareFunc(tg, prep); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	out, err := it.Output(context.Background())
	if err != nil {
		t.Fatalf("output: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected dedup to collapse to a single result, got %v", out)
	}
}

func TestIteratorWrapsInvalidTargetError(t *testing.T) {
	it := NewIterator(New())
	err := it.Prepare(Target{Kind: "invalid", Value: "???"}, nil)
	if err == nil {
		t.Fatal("expected an error for an invalid target")
	}
	var wrapped *wrappedTargetError
	if !errors.As(err, &wrapped) {
		t.Fatalf("expected a wrapped target error, got %v (%T)", err, err)
	}
}

func TestIteratorTimeoutStopsOutput(t *testing.T) {
	it := NewIterator(New())
	it.Timeout = 10 * time.Millisecond
	if err := it.PrepareFunc(Target{Kind: "thing", Value: "slow"}, func(ctx context.Context) (any, error) {
		select {
		case <-time.After(200 * time.Millisecond):
			return "too-late", nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	_, err := it.Output(context.Background())
	if err == nil {
		t.Fatal("expected a timeout error")
	}
}

func TestIteratorEmitsNotifications(t *testing.T) {
	sink := &recordingSink{}
	it := NewIterator(New().NewWithSender(sink).WithLive(true))
	if err := it.Prepare(Target{Kind: "thing", Value: "person:1"}, map[string]any{"id": "person:1"}); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if _, err := it.Output(context.Background()); err != nil {
		t.Fatalf("output: %v", err)
	}
	if len(sink.got) != 1 {
		t.Fatalf("expected one notification, got %d", len(sink.got))
	}
}

func TestIteratorSkipsNotificationsWhenNotLive(t *testing.T) {
	sink := &recordingSink{}
	it := NewIterator(New().NewWithSender(sink))
	if err := it.Prepare(Target{Kind: "thing", Value: "person:1"}, map[string]any{"id": "person:1"}); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if _, err := it.Output(context.Background()); err != nil {
		t.Fatalf("output: %v", err)
	}
	if len(sink.got) != 0 {
		t.Fatalf("expected no notifications while Live is false, got %d", len(sink.got))
	}
}

package dbs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/driftdb/core/dberr"
	"github.com/driftdb/core/dbs/notify"
)

// Target names one thing a statement is computing over: a single
// record, a whole table, a range scan, or an inline object literal.
type Target struct {
	Kind  string
	Value string
}

var recognizedTargetKinds = map[string]bool{
	"thing":  true,
	"table":  true,
	"range":  true,
	"object": true,
}

// wrappedTargetError rewraps a target-evaluation failure with the
// Target that produced it, so a caller can report which clause of a
// multi-target statement failed.
type wrappedTargetError struct {
	Target Target
	Cause  error
}

func (e *wrappedTargetError) Error() string {
	return fmt.Sprintf("target %s %q: %v", e.Target.Kind, e.Target.Value, e.Cause)
}

func (e *wrappedTargetError) Unwrap() error { return e.Cause }

type prepFunc func(context.Context) (any, error)

type prepEntry struct {
	target Target
	fn     prepFunc
}

// Iterator accumulates the per-target work for a statement (CREATE,
// UPDATE, DELETE, SELECT) and drives it to completion: evaluating
// every prepared target (sequentially or, when Parallel is set,
// concurrently while preserving target order), enforcing Timeout, and
// emitting a notification per result when the Options sender is set
// and Live is on.
type Iterator struct {
	opts Options

	Parallel bool
	Timeout  time.Duration
	Action   notify.Action

	// Project, when set, reshapes each raw result before it is
	// returned and before it is handed to the notification sink —
	// the iterator's half of a statement's RETURN clause.
	Project func(any) (any, error)

	entries []prepEntry
	seen    map[string]bool
}

// NewIterator creates an Iterator bound to opts. The notification
// action defaults to CREATE; set Action to override it for UPDATE or
// DELETE statements.
func NewIterator(opts Options) *Iterator {
	return &Iterator{opts: opts, Action: notify.ActionCreate, seen: map[string]bool{}}
}

func targetKey(t Target) string { return t.Kind + "|" + t.Value }

// Prepare registers an already-computed result for target. Repeated
// targets (same kind and value) are deduplicated: only the first
// registration is kept.
func (it *Iterator) Prepare(target Target, result any) error {
	return it.PrepareFunc(target, func(context.Context) (any, error) { return result, nil })
}

// PrepareFunc registers a lazily-evaluated result for target, deferred
// until Output runs it. Used when evaluation has side effects (a write
// through a kv.RwTx) that should only happen once Output actually
// drives the iterator.
func (it *Iterator) PrepareFunc(target Target, fn prepFunc) error {
	if !recognizedTargetKinds[target.Kind] {
		return &wrappedTargetError{Target: target, Cause: &dberr.InvalidStatementTarget{Value: target.Value}}
	}
	key := targetKey(target)
	if it.seen[key] {
		return nil
	}
	it.seen[key] = true
	it.entries = append(it.entries, prepEntry{target: target, fn: fn})
	return nil
}

// Output drives every prepared target to completion and returns their
// results in target-registration order. A per-target deadline exceeded
// error surfaces as dberr.QueryTimedout; any other per-target error
// aborts the whole statement.
func (it *Iterator) Output(ctx context.Context) ([]any, error) {
	if it.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, it.Timeout)
		defer cancel()
	}

	results := make([]any, len(it.entries))
	errs := make([]error, len(it.entries))

	if it.Parallel {
		var wg sync.WaitGroup
		for i, e := range it.entries {
			wg.Add(1)
			go func(i int, e prepEntry) {
				defer wg.Done()
				v, err := e.fn(ctx)
				results[i] = v
				errs[i] = err
			}(i, e)
		}
		wg.Wait()
	} else {
		for i, e := range it.entries {
			v, err := e.fn(ctx)
			results[i], errs[i] = v, err
			if err != nil {
				break
			}
		}
	}

	for _, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &dberr.QueryTimedout{}
		}
		return nil, err
	}

	if it.Project != nil {
		for i, v := range results {
			projected, err := it.Project(v)
			if err != nil {
				return nil, err
			}
			results[i] = projected
		}
	}

	if sender := it.opts.Sender(); sender != nil && it.opts.Live {
		for _, v := range results {
			sender.Send(notify.Notification{ID: uuid.New(), Action: it.Action, Result: v})
		}
	}

	return results, nil
}

// Package exec glues the parsed statement surface (package ast) to the
// runtime collaborators (dbs.Options, dbs.Iterator, kv.RwTx): it
// evaluates a statement's target and data expressions into runtime
// values and drives the shared iterator runtime to a final result.
package exec

import (
	"context"
	"encoding/json"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/driftdb/core/ast"
	"github.com/driftdb/core/dberr"
	"github.com/driftdb/core/dbs"
	"github.com/driftdb/core/dbs/notify"
	"github.com/driftdb/core/geometry"
	"github.com/driftdb/core/kv"
	"github.com/driftdb/core/value"
)

// Doc is a record value: a flat field-name to runtime-value map. Runtime
// values are one of string, value.Number, geometry.Geometry, Doc (nested
// object), or []any (nested array, not currently producible by the
// grammar but reserved for object-literal arrays).
type Doc map[string]any

func recordKey(table, id string) []byte { return []byte(table + ":" + id) }

// evalExpression turns a parsed expression into its runtime value.
func evalExpression(expr ast.Expression) (any, error) {
	switch e := expr.(type) {
	case *ast.Identifier:
		return e.Value, nil
	case *ast.RecordID:
		return e.Table + ":" + e.ID, nil
	case *ast.StringLiteral:
		return e.Value, nil
	case *ast.NumberLiteral:
		return value.ParseNumber(e.Value)
	case *ast.GeometryLiteral:
		return geometry.Parse(e.Raw)
	case *ast.ObjectLiteral:
		doc := Doc{}
		for _, f := range e.Fields {
			v, err := evalExpression(f.Value)
			if err != nil {
				return nil, err
			}
			doc[f.Key] = v
		}
		return doc, nil
	default:
		return nil, &dberr.Unreachable{Detail: "unsupported expression node in evalExpression"}
	}
}

// evalTarget resolves a CREATE/DELETE `what` expression to a table name
// and an optional record id. A bare table Identifier leaves id empty,
// meaning "generate one" for CREATE; DELETE rejects such a target.
func evalTarget(expr ast.Expression) (table, id string, err error) {
	switch e := expr.(type) {
	case *ast.RecordID:
		return e.Table, e.ID, nil
	case *ast.Identifier:
		return e.Value, "", nil
	default:
		return "", "", &dberr.InvalidStatementTarget{Value: expr.String()}
	}
}

// dataClauseDoc evaluates a DataClause's CONTENT or SET payload into a
// base document. A MERGE clause is treated the same as CONTENT for
// record creation, since there is no prior record state to merge onto.
func dataClauseDoc(data *ast.DataClause) (Doc, error) {
	doc := Doc{}
	if data == nil {
		return doc, nil
	}
	switch {
	case data.Content != nil:
		v, err := evalExpression(data.Content)
		if err != nil {
			return nil, err
		}
		obj, ok := v.(Doc)
		if !ok {
			return nil, &dberr.Unreachable{Detail: "CONTENT value did not evaluate to an object"}
		}
		return obj, nil
	case data.Merge != nil:
		v, err := evalExpression(data.Merge)
		if err != nil {
			return nil, err
		}
		obj, ok := v.(Doc)
		if !ok {
			return nil, &dberr.Unreachable{Detail: "MERGE value did not evaluate to an object"}
		}
		return obj, nil
	case len(data.Set) > 0:
		for _, a := range data.Set {
			v, err := evalExpression(a.Value)
			if err != nil {
				return nil, err
			}
			doc[a.Field.Value] = v
		}
		return doc, nil
	default:
		return doc, nil
	}
}

func cloneDoc(src Doc) Doc {
	dst := make(Doc, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// project applies a RETURN clause to the before/after state of one
// target's statement result.
func project(output *ast.OutputClause, before, after Doc) any {
	if output == nil {
		return after
	}
	switch output.Kind {
	case ast.OutputNone, ast.OutputNull:
		return nil
	case ast.OutputBefore:
		return before
	case ast.OutputDiff:
		return diff(before, after)
	case ast.OutputFields:
		projected := Doc{}
		for _, f := range output.Fields {
			name, ok := f.(*ast.Identifier)
			if !ok {
				continue
			}
			if v, present := after[name.Value]; present {
				projected[name.Value] = v
			}
		}
		return projected
	default:
		return after
	}
}

// diff reports, per field, the before/after pair for every field that
// changed, was added, or was removed between before and after.
func diff(before, after Doc) Doc {
	changes := Doc{}
	seen := map[string]bool{}
	for k, av := range after {
		seen[k] = true
		if bv, ok := before[k]; !ok || !reflect.DeepEqual(bv, av) {
			changes[k] = Doc{"before": before[k], "after": av}
		}
	}
	for k, bv := range before {
		if seen[k] {
			continue
		}
		changes[k] = Doc{"before": bv, "after": nil}
	}
	return changes
}

func timeoutFrom(clause *ast.TimeoutClause) (time.Duration, error) {
	if clause == nil {
		return 0, nil
	}
	return time.ParseDuration(clause.Value)
}

// ComputeCreate implements CreateStatement.compute: it derives options
// with futures disabled, prepares one iterator target per `what`
// expression (writing each through tx), and returns the iterator's
// projected output.
func ComputeCreate(ctx context.Context, opts dbs.Options, tx kv.RwTx, stmt *ast.CreateStatement) ([]any, error) {
	if err := opts.ValidForDB(); err != nil {
		return nil, err
	}
	derived := opts.WithFutures(false)

	base, err := dataClauseDoc(stmt.Data)
	if err != nil {
		return nil, err
	}

	it := dbs.NewIterator(derived)
	it.Action = notify.ActionCreate
	it.Parallel = stmt.Parallel
	if it.Timeout, err = timeoutFrom(stmt.Timeout); err != nil {
		return nil, err
	}
	it.Project = func(v any) (any, error) {
		after, _ := v.(Doc)
		return project(stmt.Output, nil, after), nil
	}

	for _, w := range stmt.What {
		table, id, terr := evalTarget(w)
		if terr != nil {
			return nil, &dberr.CreateStatement{Value: w.String()}
		}
		if id == "" {
			id = uuid.New().String()
		}

		doc := cloneDoc(base)
		doc["id"] = table + ":" + id
		key := recordKey(table, id)

		target := dbs.Target{Kind: "thing", Value: table + ":" + id}
		if perr := it.PrepareFunc(target, func(ctx context.Context) (any, error) {
			payload, merr := json.Marshal(doc)
			if merr != nil {
				return nil, merr
			}
			if serr := tx.Set(ctx, key, payload); serr != nil {
				return nil, serr
			}
			return doc, nil
		}); perr != nil {
			return nil, perr
		}
	}

	return it.Output(ctx)
}

// ComputeDelete implements DeleteStatement.compute: identical five-step
// shape to ComputeCreate (§4.5), but removes the target record instead
// of writing it, reading its prior state first so RETURN BEFORE/DIFF
// have something to report.
func ComputeDelete(ctx context.Context, opts dbs.Options, tx kv.RwTx, stmt *ast.DeleteStatement) ([]any, error) {
	if err := opts.ValidForDB(); err != nil {
		return nil, err
	}
	derived := opts.WithFutures(false)

	it := dbs.NewIterator(derived)
	it.Action = notify.ActionDelete
	it.Parallel = stmt.Parallel
	var err error
	if it.Timeout, err = timeoutFrom(stmt.Timeout); err != nil {
		return nil, err
	}
	it.Project = func(v any) (any, error) {
		before, _ := v.(Doc)
		return project(stmt.Output, before, Doc{}), nil
	}

	for _, w := range stmt.What {
		table, id, terr := evalTarget(w)
		if terr != nil {
			return nil, &dberr.DeleteStatement{Value: w.String()}
		}
		if id == "" {
			return nil, &dberr.DeleteStatement{Value: w.String()}
		}
		key := recordKey(table, id)

		target := dbs.Target{Kind: "thing", Value: table + ":" + id}
		if perr := it.PrepareFunc(target, func(ctx context.Context) (any, error) {
			raw, gerr := tx.Get(ctx, key)
			var before Doc
			if gerr == nil {
				before = Doc{}
				_ = json.Unmarshal(raw, &before)
			}
			if derr := tx.Del(ctx, key); derr != nil {
				return nil, derr
			}
			return before, nil
		}); perr != nil {
			return nil, perr
		}
	}

	return it.Output(ctx)
}

// Command coredb parses a single statement, prints its AST form, and
// optionally runs it against an in-memory store with default options.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/driftdb/core"
	"github.com/driftdb/core/ast"
	"github.com/driftdb/core/dbs"
	"github.com/driftdb/core/exec"
	"github.com/driftdb/core/kv/memkv"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		ns, db string
		run    bool
	)

	cmd := &cobra.Command{
		Use:   "coredb <statement>",
		Short: "Parse, and optionally run, a single CREATE/DELETE statement.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatement(cmd, args[0], ns, db, run)
		},
	}

	cmd.Flags().StringVar(&ns, "ns", "demo", "namespace to select before running the statement")
	cmd.Flags().StringVar(&db, "db", "main", "database to select before running the statement")
	cmd.Flags().BoolVar(&run, "run", false, "execute the statement against an in-memory store, not just parse it")

	return cmd
}

func runStatement(cmd *cobra.Command, input, ns, db string, run bool) error {
	log, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	program, errs := coredb.Parse(input)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(cmd.ErrOrStderr(), "parse error:", e)
		}
		return fmt.Errorf("%d parse error(s)", len(errs))
	}

	for _, stmt := range program.Statements {
		fmt.Fprintln(cmd.OutOrStdout(), stmt.String())
	}

	if !run {
		return nil
	}

	store := memkv.NewStore()
	opts := dbs.New().WithNS(&ns).WithDB(&db).WithAuthEnabled(false)
	ctx := context.Background()

	for _, stmt := range program.Statements {
		tx := store.NewRwTx()

		var (
			out error
			res []any
		)
		switch s := stmt.(type) {
		case *ast.CreateStatement:
			res, out = exec.ComputeCreate(ctx, opts, tx, s)
		case *ast.DeleteStatement:
			res, out = exec.ComputeDelete(ctx, opts, tx, s)
		default:
			out = fmt.Errorf("statement kind %T has no runnable compute path", s)
		}
		if out != nil {
			log.Error("statement failed", zap.Error(out))
			return out
		}
		if cerr := tx.Commit(ctx); cerr != nil {
			return cerr
		}
		for _, r := range res {
			fmt.Fprintf(cmd.OutOrStdout(), "-> %+v\n", r)
		}
	}

	return nil
}

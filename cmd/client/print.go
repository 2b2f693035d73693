package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"minisql/pkg/server"
	"minisql/pkg/sql"
)

// run executes stmts in order, printing each result or error, and returns
// how many failed.
func run(ctx context.Context, r runner, stmts []string, w io.Writer) int {
	failed := 0
	for _, stmt := range stmts {
		result, err := r.ExecSql(ctx, stmt)
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			failed++
			continue
		}
		printResult(w, result)
	}
	return failed
}

func printResult(w io.Writer, r *server.Result) {
	switch r.Kind {
	case sql.CREATE_STMT:
		fmt.Fprintf(w, "table %s created\n", r.Table)
	case sql.SELECT_STMT:
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(r.Columns, "\t"))
		for _, row := range r.Rows {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		tw.Flush()
		fmt.Fprintf(w, "(%d rows)\n", len(r.Rows))
	default:
		fmt.Fprintf(w, "%s %s: %d rows affected\n", r.Kind, r.Table, r.Affected)
	}
}

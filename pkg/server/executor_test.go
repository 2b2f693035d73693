package server

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"minisql/pkg/catalog"
	"minisql/pkg/sql"

	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"
)

func TestExecSql(t *testing.T) {
	e := NewExecutor(zaptest.NewLogger(t).Sugar())
	ctx := context.Background()

	tests := []struct {
		sql  string
		want *Result
	}{
		{
			sql:  "CREATE TABLE users (id INT, name VARCHAR, age INT);",
			want: &Result{Kind: sql.CREATE_STMT, Table: "users"},
		},
		{
			sql:  "INSERT INTO users VALUES (1, 'Alice', 25)",
			want: &Result{Kind: sql.INSERT_STMT, Table: "users", Affected: 1},
		},
		{
			sql:  "INSERT INTO users VALUES (2, 'Bob', 30)",
			want: &Result{Kind: sql.INSERT_STMT, Table: "users", Affected: 1},
		},
		{
			sql: "SELECT * FROM users",
			want: &Result{
				Kind:    sql.SELECT_STMT,
				Table:   "users",
				Columns: []string{"id", "name", "age"},
				Rows:    [][]string{{"1", "Alice", "25"}, {"2", "Bob", "30"}},
			},
		},
		{
			sql:  "UPDATE users SET age = 26 WHERE name = 'Alice'",
			want: &Result{Kind: sql.UPDATE_STMT, Table: "users", Affected: 1},
		},
		{
			sql: "SELECT name, age FROM users WHERE age >= 26",
			want: &Result{
				Kind:    sql.SELECT_STMT,
				Table:   "users",
				Columns: []string{"name", "age"},
				Rows:    [][]string{{"Alice", "26"}, {"Bob", "30"}},
			},
		},
		{
			sql:  "DELETE FROM users WHERE id = 1",
			want: &Result{Kind: sql.DELETE_STMT, Table: "users", Affected: 1},
		},
		{
			sql: "SELECT id FROM users",
			want: &Result{
				Kind:    sql.SELECT_STMT,
				Table:   "users",
				Columns: []string{"id"},
				Rows:    [][]string{{"2"}},
			},
		},
	}

	for _, tt := range tests {
		got, err := e.ExecSql(ctx, tt.sql)
		if err != nil {
			t.Fatalf("%s: %v", tt.sql, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("%s: got %+v, want %+v", tt.sql, got, tt.want)
		}
	}
}

func TestExecSqlErrors(t *testing.T) {
	e := NewExecutor(zaptest.NewLogger(t).Sugar())
	ctx := context.Background()

	if _, err := e.ExecSql(ctx, "CREATE TABLE t (a INT)"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		sql  string
		want error
	}{
		{"DROP TABLE t", sql.ErrUnknownStatement},
		{"SELECT FROM t", sql.ErrUnexpectedToken},
		{"INSERT INTO t VALUES ('open", sql.ErrUnterminatedString},
		{"CREATE TABLE t (b INT)", catalog.ErrTableExists},
		{"INSERT INTO missing VALUES (1)", catalog.ErrTableNotFound},
		{"INSERT INTO t VALUES (1, 2)", catalog.ErrColumnCount},
		{"SELECT b FROM t", catalog.ErrColumnNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			res, err := e.ExecSql(ctx, tt.sql)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if res != nil {
				t.Fatalf("got result %+v with an error", res)
			}
		})
	}

	table, err := e.Catalog().GetTable("t")
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Columns) != 1 || len(table.Rows) != 0 {
		t.Errorf("failed statements changed the table: %+v", table)
	}
}

func TestExecSqlCanceled(t *testing.T) {
	e := NewExecutor(zaptest.NewLogger(t).Sugar())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.ExecSql(ctx, "CREATE TABLE t (a INT)"); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if e.Catalog().TableExists("t") {
		t.Fatal("canceled statement ran")
	}
}

func TestExecBatchContinuesAfterFailures(t *testing.T) {
	e := NewExecutor(zaptest.NewLogger(t).Sugar())

	results, err := e.ExecBatch(context.Background(), []string{
		"CREATE TABLE t (a INT)",
		"INSERT INTO missing VALUES (1)",
		"INSERT INTO t VALUES (1)",
		"SELEC a FROM t",
		"SELECT a FROM t",
	})

	errs := multierr.Errors(err)
	if len(errs) != 2 {
		t.Fatalf("got %d errors (%v), want 2", len(errs), err)
	}
	if !errors.Is(errs[0], catalog.ErrTableNotFound) || !strings.HasPrefix(errs[0].Error(), "statement 2: ") {
		t.Errorf("first error %v", errs[0])
	}
	if !errors.Is(errs[1], sql.ErrUnknownStatement) || !strings.HasPrefix(errs[1].Error(), "statement 4: ") {
		t.Errorf("second error %v", errs[1])
	}

	if len(results) != 5 || results[1] != nil || results[3] != nil {
		t.Fatalf("results %v", results)
	}
	if want := [][]string{{"1"}}; !reflect.DeepEqual(results[4].Rows, want) {
		t.Errorf("rows %v, want %v", results[4].Rows, want)
	}
}

func TestExecute(t *testing.T) {
	e := NewExecutor(zaptest.NewLogger(t).Sugar())

	root := (&sql.CreateStmt{Table: "t", Columns: []sql.Column{{Name: "a", Type: "INT"}}}).Tree()
	cmd, err := sql.DescribeTree(root)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Execute(cmd); err != nil {
		t.Fatal(err)
	}
	if !e.Catalog().TableExists("t") {
		t.Fatal("table not created from a described tree")
	}
}

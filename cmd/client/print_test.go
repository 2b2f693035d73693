package main

import (
	"bytes"
	"context"
	"testing"

	"minisql/pkg/server"

	"go.uber.org/zap/zaptest"
)

func TestRunLocal(t *testing.T) {
	e := server.NewExecutor(zaptest.NewLogger(t).Sugar())

	var out bytes.Buffer
	failed := run(context.Background(), e, []string{
		"CREATE TABLE users (id INT, name VARCHAR)",
		"INSERT INTO users VALUES (1, 'Alice')",
		"INSERT INTO users VALUES (22, 'Bob')",
		"INSERT INTO users VALUES (3)",
		"SELECT * FROM users",
		"DELETE FROM users WHERE id = 1",
	}, &out)

	if failed != 1 {
		t.Errorf("failed %d, want 1", failed)
	}

	want := "table users created\n" +
		"INSERT users: 1 rows affected\n" +
		"INSERT users: 1 rows affected\n" +
		"error: column count mismatch: table users has 2 columns, got 1 values\n" +
		"id  name\n" +
		"1   Alice\n" +
		"22  Bob\n" +
		"(2 rows)\n" +
		"DELETE users: 1 rows affected\n"
	if out.String() != want {
		t.Errorf("got\n%s\nwant\n%s", out.String(), want)
	}
}

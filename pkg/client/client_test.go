package client

import (
	"context"
	"errors"
	"net"
	"reflect"
	"testing"

	"minisql/pkg/server"
	"minisql/pkg/sql"

	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func connect(t *testing.T, compress bool) *Client {
	t.Helper()
	logger := zaptest.NewLogger(t).Sugar()

	lis := bufconn.Listen(1 << 20)
	s := server.Bootstrap(&server.Config{Logger: logger})
	go s.Serve(lis)

	c := NewClient("bufnet", compress, logger)
	err := c.Connect(context.Background(), grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		c.Close()
		s.Stop()
	})
	return c
}

func TestExecSql(t *testing.T) {
	for _, compress := range []bool{false, true} {
		c := connect(t, compress)
		ctx := context.Background()

		if _, err := c.ExecSql(ctx, "CREATE TABLE products (id INT, name VARCHAR, price INT)"); err != nil {
			t.Fatal(err)
		}
		res, err := c.ExecSql(ctx, "INSERT INTO products VALUES (7, 'pen', 3)")
		if err != nil {
			t.Fatal(err)
		}
		if res.Kind != sql.INSERT_STMT || res.Affected != 1 {
			t.Errorf("got %+v", res)
		}

		res, err = c.ExecSql(ctx, "SELECT * FROM products WHERE name = 'pen'")
		if err != nil {
			t.Fatal(err)
		}
		want := &server.Result{
			Kind:    sql.SELECT_STMT,
			Table:   "products",
			Columns: []string{"id", "name", "price"},
			Rows:    [][]string{{"7", "pen", "3"}},
		}
		if !reflect.DeepEqual(res, want) {
			t.Errorf("compress=%v: got %+v, want %+v", compress, res, want)
		}

		_, err = c.ExecSql(ctx, "INSERT INTO products VALUES (8)")
		if status.Code(err) != codes.FailedPrecondition {
			t.Errorf("got %v, want FailedPrecondition", err)
		}
	}
}

func TestExecBatch(t *testing.T) {
	c := connect(t, true)

	results, err := c.ExecBatch(context.Background(), []string{
		"CREATE TABLE t (a INT)",
		"CREATE TABLE t (a INT)",
		"INSERT INTO t VALUES (1)",
		"UPDATE t SET a = 2",
		"SELECT a FROM t",
	})

	errs := multierr.Errors(err)
	if len(errs) != 2 {
		t.Fatalf("got %v, want 2 errors", err)
	}
	if status.Code(errors.Unwrap(errs[0])) != codes.AlreadyExists {
		t.Errorf("got %v", errs[0])
	}
	if status.Code(errors.Unwrap(errs[1])) != codes.InvalidArgument {
		t.Errorf("got %v", errs[1])
	}
	if results[1] != nil || results[3] != nil {
		t.Errorf("results of failed statements %v %v", results[1], results[3])
	}
	if want := [][]string{{"1"}}; !reflect.DeepEqual(results[4].Rows, want) {
		t.Errorf("rows %v, want %v", results[4].Rows, want)
	}
}

func TestNotConnected(t *testing.T) {
	c := NewClient("localhost:0", false, zaptest.NewLogger(t).Sugar())
	if _, err := c.ExecSql(context.Background(), "SELECT * FROM t"); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("got %v, want ErrNotConnected", err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
}

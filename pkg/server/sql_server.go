package server

import (
	"context"
	"errors"
	"fmt"

	"minisql/pkg/catalog"
	"minisql/pkg/sql"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// SqlServer is the minisql.Sql service. Exec takes one statement and
// answers with the Result encoded by ToStruct.
type SqlServer interface {
	Exec(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

const ExecMethod = "/minisql.Sql/Exec"

func execHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SqlServer).Exec(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ExecMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SqlServer).Exec(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

var SqlServiceDesc = grpc.ServiceDesc{
	ServiceName: "minisql.Sql",
	HandlerType: (*SqlServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Exec",
			Handler:    execHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "minisql/sql.proto",
}

func RegisterSqlServer(s grpc.ServiceRegistrar, srv SqlServer) {
	s.RegisterService(&SqlServiceDesc, srv)
}

// ToStruct encodes a Result as
// {kind, table, columns: [..], rows: [[..]..], affected}.
func (r *Result) ToStruct() (*structpb.Struct, error) {
	columns := make([]interface{}, len(r.Columns))
	for i, c := range r.Columns {
		columns[i] = c
	}
	rows := make([]interface{}, len(r.Rows))
	for i, row := range r.Rows {
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		rows[i] = values
	}

	return structpb.NewStruct(map[string]interface{}{
		"kind":     r.Kind.String(),
		"table":    r.Table,
		"columns":  columns,
		"rows":     rows,
		"affected": r.Affected,
	})
}

func ResultFromStruct(s *structpb.Struct) (*Result, error) {
	fields := s.GetFields()

	kind, ok := sql.ParseStmtType(fields["kind"].GetStringValue())
	if !ok {
		return nil, fmt.Errorf("unknown statement kind %q", fields["kind"].GetStringValue())
	}

	r := &Result{
		Kind:     kind,
		Table:    fields["table"].GetStringValue(),
		Affected: int(fields["affected"].GetNumberValue()),
	}
	for _, c := range fields["columns"].GetListValue().GetValues() {
		r.Columns = append(r.Columns, c.GetStringValue())
	}
	for _, row := range fields["rows"].GetListValue().GetValues() {
		values := make([]string, 0)
		for _, v := range row.GetListValue().GetValues() {
			values = append(values, v.GetStringValue())
		}
		r.Rows = append(r.Rows, values)
	}
	if kind == sql.SELECT_STMT && r.Rows == nil {
		r.Rows = make([][]string, 0)
	}
	return r, nil
}

// toStatus maps statement errors onto gRPC status codes.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var code codes.Code
	switch {
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	case errors.Is(err, sql.ErrUnterminatedString),
		errors.Is(err, sql.ErrUnexpectedToken),
		errors.Is(err, sql.ErrUnknownStatement),
		errors.Is(err, sql.ErrTreeShape),
		errors.Is(err, catalog.ErrInvalidValue):
		code = codes.InvalidArgument
	case errors.Is(err, catalog.ErrTableExists):
		code = codes.AlreadyExists
	case errors.Is(err, catalog.ErrTableNotFound),
		errors.Is(err, catalog.ErrColumnNotFound):
		code = codes.NotFound
	case errors.Is(err, catalog.ErrColumnCount):
		code = codes.FailedPrecondition
	default:
		code = codes.Internal
	}
	return status.Error(code, err.Error())
}

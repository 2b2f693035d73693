package client

import (
	"context"
	"errors"
	"fmt"

	"minisql/pkg/server"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var ErrNotConnected = errors.New("client is not connected")

type Client struct {
	address  string
	compress bool
	conn     *grpc.ClientConn
	logger   *zap.SugaredLogger
}

func NewClient(address string, compress bool, logger *zap.SugaredLogger) *Client {
	return &Client{
		address:  address,
		compress: compress,
		logger:   logger,
	}
}

// Connect 连接服务器，opts 追加在默认选项之后
func (c *Client) Connect(ctx context.Context, opts ...grpc.DialOption) error {
	dialOpts := []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	if c.compress {
		dialOpts = append(dialOpts, grpc.WithDefaultCallOptions(grpc.UseCompressor(server.SnappyName)))
	}
	dialOpts = append(dialOpts, opts...)

	conn, err := grpc.DialContext(ctx, c.address, dialOpts...)
	if err != nil {
		return fmt.Errorf("connect to %s: %v", c.address, err)
	}
	c.conn = conn
	c.logger.Infof("连接 %s 成功", c.address)
	return nil
}

func (c *Client) ExecSql(ctx context.Context, sqlStr string) (*server.Result, error) {
	if c.conn == nil {
		return nil, ErrNotConnected
	}

	out := new(structpb.Struct)
	err := c.conn.Invoke(ctx, server.ExecMethod, wrapperspb.String(sqlStr), out)
	if err != nil {
		return nil, err
	}
	return server.ResultFromStruct(out)
}

// ExecBatch sends the statements one by one and keeps going after a
// failure, like Executor.ExecBatch.
func (c *Client) ExecBatch(ctx context.Context, sqls []string) ([]*server.Result, error) {
	results := make([]*server.Result, len(sqls))
	var errs error
	for i, s := range sqls {
		if err := ctx.Err(); err != nil {
			return results, multierr.Append(errs, err)
		}
		result, err := c.ExecSql(ctx, s)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("statement %d: %w", i+1, err))
			continue
		}
		results[i] = result
	}
	return results, errs
}

func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

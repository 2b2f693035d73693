package server

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type Config struct {
	Address string
	// 为 0 时不输出指标日志
	MetricsInterval time.Duration
	Logger          *zap.SugaredLogger
}

// Server serves the minisql.Sql service on top of one Executor.
type Server struct {
	address    string
	interval   time.Duration
	executor   *Executor
	grpcServer *grpc.Server
	requests   atomic.Int64
	failures   atomic.Int64
	mu         sync.Mutex
	stopped    bool
	stopc      chan struct{}
	wg         sync.WaitGroup
	logger     *zap.SugaredLogger
}

func Bootstrap(conf *Config) *Server {
	s := &Server{
		address:  conf.Address,
		interval: conf.MetricsInterval,
		executor: NewExecutor(conf.Logger),
		stopc:    make(chan struct{}),
		logger:   conf.Logger,
	}

	s.grpcServer = grpc.NewServer()
	RegisterSqlServer(s.grpcServer, s)
	return s
}

func (s *Server) Executor() *Executor {
	return s.executor
}

func (s *Server) Exec(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	s.requests.Inc()

	result, err := s.executor.ExecSql(ctx, req.GetValue())
	if err != nil {
		s.failures.Inc()
		s.logger.Warnf("执行 %q 失败: %v", req.GetValue(), err)
		return nil, toStatus(err)
	}

	ret, err := result.ToStruct()
	if err != nil {
		s.failures.Inc()
		return nil, status.Errorf(codes.Internal, "encode result: %v", err)
	}
	return ret, nil
}

// Requests and Failures count Exec calls since the server was created.
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

func (s *Server) Failures() int64 {
	return s.failures.Load()
}

// Serve blocks until the listener fails or Stop is called. Serving a
// stopped server returns grpc.ErrServerStopped.
func (s *Server) Serve(lis net.Listener) error {
	// 指标协程在持有 mu 时加入 wg，Stop 等待时 wg 不会再增加
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		lis.Close()
		return grpc.ErrServerStopped
	}
	if s.interval > 0 {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.showMetrics()
		}()
	}
	s.mu.Unlock()

	s.logger.Infof("SQL服务器启动成功 %s", lis.Addr())
	err := s.grpcServer.Serve(lis)
	if err != nil && err != grpc.ErrServerStopped {
		s.logger.Errorf("SQL服务器关闭: %v", err)
	}
	return err
}

func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("listen on %s: %v", s.address, err)
	}
	return s.Serve(lis)
}

// Stop may be called more than once and before Serve.
func (s *Server) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.stopc)
	s.mu.Unlock()

	s.grpcServer.GracefulStop()
	s.wg.Wait()
}

func (s *Server) showMetrics() {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		s.logger.Warnf("获取进程指标失败: %v", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var prevRequests, prevFailures int64
	for {
		select {
		case <-s.stopc:
			return
		case <-ticker.C:
		}

		requests := s.requests.Load()
		failures := s.failures.Load()

		var rss uint64
		if proc != nil {
			if mem, err := proc.MemoryInfo(); err == nil {
				rss = mem.RSS
			}
		}

		s.logger.Infof("请求: %6d, 失败: %6d, 总请求: %8d, 表: %4d, 内存: %8d KiB",
			requests-prevRequests, failures-prevFailures, requests,
			len(s.executor.Catalog().Tables()), rss/1024)

		prevRequests = requests
		prevFailures = failures
	}
}

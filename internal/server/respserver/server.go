package respserver

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/time/rate"

	"github.com/barthorre/redstub-go/internal/core/command"
	"github.com/barthorre/redstub-go/internal/core/reply"
	"github.com/barthorre/redstub-go/internal/server/config"
	"github.com/barthorre/redstub-go/internal/telemetry/logger"
	"github.com/barthorre/redstub-go/internal/telemetry/metric"
	"github.com/barthorre/redstub-go/pkg/cmap"
)

// Conn is one served client connection.
type Conn struct {
	id      string
	netConn net.Conn
	reader  *CommandReader
	bw      *bufio.Writer
	cancel  context.CancelFunc
}

// Server serves the executor over TCP.
type Server struct {
	cfg      *config.ServerConfig
	exec     *command.Executor
	log      logger.Logger
	metrics  *metric.Registry
	pool     *ants.Pool
	conns    *cmap.Map[*Conn]
	limiters *cmap.Map[*rate.Limiter]

	mu sync.Mutex
	ln net.Listener

	baseCtx context.Context
	stop    context.CancelFunc
}

// New creates a server. The metrics registry may be nil.
func New(exec *command.Executor, cfg *config.ServerConfig, log logger.Logger, metrics *metric.Registry) (*Server, error) {
	if log == nil {
		log = logger.Default()
	}
	pool, err := ants.NewPool(cfg.Limits.MaxConns)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:      cfg,
		exec:     exec,
		log:      log,
		metrics:  metrics,
		pool:     pool,
		conns:    cmap.New[*Conn](),
		limiters: cmap.New[*rate.Limiter](),
		baseCtx:  ctx,
		stop:     cancel,
	}, nil
}

// ListenAndServe binds the configured address and serves until Shutdown.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until the listener is closed.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	s.log.Info("resp server listening", "addr", ln.Addr().String())

	for {
		netConn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.baseCtx.Done():
				return nil
			default:
			}
			var nerr net.Error
			if errors.As(err, &nerr) && nerr.Timeout() {
				continue
			}
			return err
		}
		if submitErr := s.pool.Submit(func() {
			s.handle(netConn)
		}); submitErr != nil {
			s.log.Warn("connection rejected", "error", submitErr)
			netConn.Close()
		}
	}
}

// Addr returns the bound listener address, usable once Serve started.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

func (s *Server) handle(netConn net.Conn) {
	ctx, cancel := context.WithCancel(s.baseCtx)
	conn := &Conn{
		id:      ulid.Make().String(),
		netConn: netConn,
		reader:  NewCommandReader(netConn),
		bw:      bufio.NewWriter(netConn),
		cancel:  cancel,
	}
	s.conns.Set(conn.id, conn)
	if s.metrics != nil {
		s.metrics.ConnectionsTotal.Inc()
		s.metrics.ConnectionsOpen.Inc()
	}
	s.log.Debug("client connected", "conn", conn.id, "remote", netConn.RemoteAddr().String())

	defer func() {
		cancel()
		s.conns.Delete(conn.id)
		if s.metrics != nil {
			s.metrics.ConnectionsOpen.Dec()
		}
		netConn.Close()
		s.log.Debug("client disconnected", "conn", conn.id)
	}()

	limiter := s.limiterFor(netConn.RemoteAddr())

	for {
		args, errReply, err := conn.reader.Next()
		if err != nil {
			if err != io.EOF && !errors.Is(err, net.ErrClosed) {
				s.log.Debug("read failed", "conn", conn.id, "error", err)
			}
			return
		}
		if errReply.IsError() {
			// A framing violation poisons the stream; report it and
			// drop the connection.
			s.log.Debug("protocol violation", "conn", conn.id, "error", errReply.Str)
			_ = WriteReply(conn.bw, errReply)
			_ = conn.bw.Flush()
			return
		}
		if args == nil {
			continue
		}
		if limiter != nil && !limiter.Allow() {
			_ = WriteError(conn.bw, "ERR rate limit exceeded")
			_ = conn.bw.Flush()
			continue
		}

		rep, err := s.execute(ctx, args)
		if err != nil {
			if ctx.Err() != nil {
				// Cancellation produces no reply.
				return
			}
			_ = WriteError(conn.bw, "ERR "+err.Error())
			_ = conn.bw.Flush()
			continue
		}
		if err := WriteReply(conn.bw, rep); err != nil {
			return
		}
		if err := conn.bw.Flush(); err != nil {
			return
		}
	}
}

func (s *Server) execute(ctx context.Context, args [][]byte) (reply.Reply, error) {
	opcode := "unknown"
	if len(args) > 0 {
		opcode = strings.ToUpper(string(args[0]))
	}
	start := time.Now()
	rep, err := s.exec.Execute(ctx, args)
	if s.metrics != nil {
		s.metrics.CommandsTotal.WithLabelValues(opcode).Inc()
		s.metrics.CommandDuration.WithLabelValues(opcode).Observe(time.Since(start).Seconds())
		if err != nil || rep.IsError() {
			s.metrics.CommandErrors.WithLabelValues(opcode).Inc()
		}
	}
	return rep, err
}

func (s *Server) limiterFor(addr net.Addr) *rate.Limiter {
	if s.cfg.Limits.RateLimit <= 0 {
		return nil
	}
	ip := addr.String()
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	if limiter, ok := s.limiters.Get(ip); ok {
		return limiter
	}
	limiter := rate.NewLimiter(rate.Limit(s.cfg.Limits.RateLimit), s.cfg.Limits.RateLimit)
	s.limiters.Set(ip, limiter)
	return limiter
}

// Shutdown closes the listener, cancels in-flight blocking commands and
// waits for connections to drain or the context to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stop()
	s.mu.Lock()
	if s.ln != nil {
		s.ln.Close()
	}
	s.mu.Unlock()

	s.conns.Range(func(_ string, conn *Conn) bool {
		conn.cancel()
		conn.netConn.Close()
		return true
	})

	done := make(chan struct{})
	go func() {
		s.pool.Release()
		for s.pool.Running() > 0 {
			time.Sleep(10 * time.Millisecond)
		}
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

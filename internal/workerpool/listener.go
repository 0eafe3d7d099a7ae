package workerpool

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Listener hands connections accepted from an inner listener to pool
// workers. Each connection is claimed by one worker, passed to the caller of
// Accept (normally http.Server) and keeps that worker until it is closed.
type Listener struct {
	inner  net.Listener
	pool   *Pool
	logger *slog.Logger

	conns     chan net.Conn
	done      chan struct{}
	closeOnce sync.Once

	acceptErrors rate.Sometimes
}

// NewListener starts accepting on inner. The pool must be started.
func NewListener(inner net.Listener, pool *Pool, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Listener{
		inner:        inner,
		pool:         pool,
		logger:       logger.With(slog.String("component", "listener")),
		conns:        make(chan net.Conn),
		done:         make(chan struct{}),
		acceptErrors: rate.Sometimes{First: 1, Interval: 10 * time.Second},
	}
	go l.acceptLoop()
	return l
}

// Accept returns the next connection claimed by a worker
func (l *Listener) Accept() (net.Conn, error) {
	select {
	case c := <-l.conns:
		return c, nil
	case <-l.done:
		return nil, net.ErrClosed
	}
}

// Close stops accepting. Connections already handed out stay open.
func (l *Listener) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.done)
		err = l.inner.Close()
	})
	return err
}

// Addr returns the inner listener's address
func (l *Listener) Addr() net.Addr {
	return l.inner.Addr()
}

func (l *Listener) closed() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

func (l *Listener) acceptLoop() {
	var delay time.Duration
	for {
		conn, err := l.inner.Accept()
		if err != nil {
			if l.closed() || errors.Is(err, net.ErrClosed) {
				return
			}
			// Back off on transient failures such as fd exhaustion
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else {
				delay *= 2
			}
			if delay > time.Second {
				delay = time.Second
			}
			l.acceptErrors.Do(func() {
				l.logger.Warn("accept failed, retrying",
					slog.String("error", err.Error()),
					slog.Duration("retry_in", delay))
			})
			select {
			case <-time.After(delay):
			case <-l.done:
				return
			}
			continue
		}
		delay = 0

		if err := l.pool.Submit(context.Background(), l.bind(conn)); err != nil {
			l.logger.Debug("connection rejected", slog.String("error", err.Error()))
			conn.Close()
		}
	}
}

// bind returns the task that owns conn for its lifetime
func (l *Listener) bind(conn net.Conn) Task {
	return func(ctx context.Context) {
		if ctx.Err() != nil {
			conn.Close()
			return
		}

		tc := newTrackedConn(conn)
		select {
		case l.conns <- tc:
		case <-l.done:
			conn.Close()
			return
		case <-ctx.Done():
			conn.Close()
			return
		}

		select {
		case <-tc.closed:
		case <-ctx.Done():
			tc.Close()
		}
	}
}

// trackedConn signals when it is closed
type trackedConn struct {
	net.Conn
	once   sync.Once
	closed chan struct{}
}

func newTrackedConn(c net.Conn) *trackedConn {
	return &trackedConn{Conn: c, closed: make(chan struct{})}
}

func (c *trackedConn) Close() error {
	err := c.Conn.Close()
	c.once.Do(func() { close(c.closed) })
	return err
}

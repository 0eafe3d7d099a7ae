package workerpool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// ErrPoolClosed is returned by Submit after Stop
var ErrPoolClosed = errors.New("worker pool is closed")

// Task is a unit of work. ctx is cancelled when the pool stops; a task that
// starts with a cancelled ctx has been abandoned and should only release its
// resources.
type Task func(ctx context.Context)

// Stats is a snapshot of pool activity
type Stats struct {
	Workers   int   `json:"workers"`
	Active    int   `json:"active"`
	Peak      int   `json:"peak"`
	Queued    int   `json:"queued"`
	Completed int64 `json:"completed"`
	Panics    int64 `json:"panics"`
}

// Pool runs tasks on a fixed set of workers fed by a FIFO queue
type Pool struct {
	tasks   chan Task
	workers int
	wg      sync.WaitGroup
	logger  *slog.Logger

	ctx      context.Context
	cancel   context.CancelFunc
	shutdown chan struct{}
	start    sync.Once
	stop     sync.Once

	// mu is held shared by Submit for its whole send so that Stop can
	// wait out in-flight sends before draining
	mu     sync.RWMutex
	closed bool

	active    atomic.Int64
	peak      atomic.Int64
	completed atomic.Int64
	panics    atomic.Int64
}

// New creates a pool. workers <= 0 means one per CPU; queueSize <= 0 means
// twice the worker count.
func New(workers, queueSize int, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if queueSize <= 0 {
		queueSize = workers * 2
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		tasks:    make(chan Task, queueSize),
		workers:  workers,
		logger:   logger.With(slog.String("component", "workerpool")),
		ctx:      ctx,
		cancel:   cancel,
		shutdown: make(chan struct{}),
	}
}

// Start launches the workers. Calling it again has no effect.
func (p *Pool) Start() {
	p.start.Do(func() {
		p.logger.Info("starting worker pool",
			slog.Int("workers", p.workers),
			slog.Int("queue_size", cap(p.tasks)))

		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go p.worker(i)
		}
	})
}

// Submit queues task, waiting only for queue space, never for a free worker
func (p *Pool) Submit(ctx context.Context, task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task:
		return nil
	case <-p.shutdown:
		return ErrPoolClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop cancels running tasks, waits up to timeout for the workers and then
// runs every still-queued task with the cancelled context.
func (p *Pool) Stop(timeout time.Duration) error {
	var err error
	p.stop.Do(func() {
		p.logger.Info("stopping worker pool")

		close(p.shutdown)
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		p.cancel()

		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(timeout):
			p.logger.Warn("worker pool stop timeout exceeded")
			err = fmt.Errorf("timeout waiting for workers to finish")
		}

		abandoned := p.drain()
		p.logger.Info("worker pool stopped",
			slog.Int("abandoned", abandoned),
			slog.Int64("completed", p.completed.Load()))
	})
	return err
}

// Stats returns current counters
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:   p.workers,
		Active:    int(p.active.Load()),
		Peak:      int(p.peak.Load()),
		Queued:    len(p.tasks),
		Completed: p.completed.Load(),
		Panics:    p.panics.Load(),
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	logger := p.logger.With(slog.Int("worker_id", id))
	logger.Debug("worker started")

	for {
		select {
		case <-p.shutdown:
			logger.Debug("worker stopped by shutdown")
			return
		case task := <-p.tasks:
			p.run(task, logger)
		}
	}
}

func (p *Pool) drain() int {
	n := 0
	for {
		select {
		case task := <-p.tasks:
			p.run(task, p.logger)
			n++
		default:
			return n
		}
	}
}

// run executes one task, containing any panic
func (p *Pool) run(task Task, logger *slog.Logger) {
	active := p.active.Add(1)
	for {
		peak := p.peak.Load()
		if active <= peak || p.peak.CompareAndSwap(peak, active) {
			break
		}
	}

	defer func() {
		if r := recover(); r != nil {
			p.panics.Add(1)
			logger.Error("task panicked",
				slog.Any("panic", r),
				slog.String("stack", string(stack())))
		}
		p.active.Add(-1)
		p.completed.Add(1)
	}()

	task(p.ctx)
}

func stack() []byte {
	buf := make([]byte, 4096)
	return buf[:runtime.Stack(buf, false)]
}

// Package tasks runs the assessment pipeline work in the background. The
// mentoring endpoint returns 202 as soon as both pipeline tasks are
// scheduled; the pool bounds how many run at once.
package tasks

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultPoolSize = 4

// Pool executes submitted tasks on a bounded set of workers. Submit blocks
// while all workers are busy, which backpressures the HTTP handler instead
// of queueing unbounded work.
type Pool struct {
	semaphore chan struct{}
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewPool creates a task pool with the given number of workers.
func NewPool(size int, logger *slog.Logger) *Pool {
	if size <= 0 {
		size = defaultPoolSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		semaphore: make(chan struct{}, size),
		logger:    logger.With(slog.String("component", "task_pool")),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Submit schedules a task for execution, blocking until a worker slot is
// free. The task's context is cancelled when the pool shuts down. Returns
// false when the pool is shutting down.
func (p *Pool) Submit(name string, task func(ctx context.Context)) bool {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return false
	}
	p.wg.Add(1)
	p.mu.Unlock()

	select {
	case p.semaphore <- struct{}{}:
	case <-p.ctx.Done():
		p.wg.Done()
		return false
	}

	taskID := uuid.New().String()
	go func() {
		defer p.wg.Done()
		defer func() { <-p.semaphore }()
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("task panic recovered",
					slog.String("task", name),
					slog.String("task_id", taskID),
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())),
				)
			}
		}()

		start := time.Now()
		p.logger.Debug("task started",
			slog.String("task", name),
			slog.String("task_id", taskID),
		)

		task(p.ctx)

		p.logger.Debug("task finished",
			slog.String("task", name),
			slog.String("task_id", taskID),
			slog.Duration("duration", time.Since(start)),
		)
	}()

	return true
}

// Shutdown stops accepting tasks and waits for running ones to finish, up to
// the context deadline. Running tasks see their context cancelled if the
// deadline expires first.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		return ctx.Err()
	}
}

// Package loop implements the designated execution context: a single
// goroutine that runs posted tasks one at a time in submission order.
// State confined to the loop needs no locking as long as it is only touched
// from inside tasks.
package loop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/ozonewl/dhost/internal/fifo"
	"go.uber.org/zap"
)

var ErrStopped = errors.New("loop stopped")

// Task is a unit of work submitted to a Loop. It carries its own arguments;
// nothing is returned to the submitter.
type Task interface {
	Run(ctx context.Context)
}

type TaskFunc func(ctx context.Context)

func (f TaskFunc) Run(ctx context.Context) { f(ctx) }

// Poster is the part of a Loop that other components depend on.
type Poster interface {
	Post(task Task) bool
	IsCurrent(ctx context.Context) bool
}

type Loop struct {
	name   string
	logger *zap.Logger

	mu      sync.Mutex
	queue   fifo.Queue[Task]
	stopped bool

	wake    chan struct{}
	done    chan struct{}
	running atomic.Bool
}

func New(name string, logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		name:   name,
		logger: logger.Named("loop").With(zap.String("loop", name)),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// token marks a context as belonging to one task execution on one loop.
// It is deactivated when the task returns, so a context that escapes a task
// does not keep claiming loop identity.
type token struct {
	loop   *Loop
	active atomic.Bool
}

type tokenKey struct{}

// IsCurrent reports whether ctx is the context of a task running on l.
func (l *Loop) IsCurrent(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	tok, ok := ctx.Value(tokenKey{}).(*token)
	return ok && tok.loop == l && tok.active.Load()
}

// Post appends task to the queue and returns without waiting. It returns
// false once the loop has stopped.
func (l *Loop) Post(task Task) bool {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	l.queue.Push(task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Run executes tasks until ctx is cancelled. Tasks still queued at that point
// are dropped and later Posts are rejected.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return errors.New("loop " + l.name + " already running")
	}
	defer close(l.done)
	defer l.stop()

	l.logger.Debug("loop started")
	for {
		if ctx.Err() != nil {
			return nil
		}
		task, ok := l.next()
		if ok {
			l.execute(ctx, task)
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case <-l.wake:
		}
	}
}

func (l *Loop) next() (Task, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.queue.Pop()
}

func (l *Loop) execute(ctx context.Context, task Task) {
	tok := &token{loop: l}
	tok.active.Store(true)
	defer tok.active.Store(false)
	task.Run(context.WithValue(ctx, tokenKey{}, tok))
}

func (l *Loop) stop() {
	l.mu.Lock()
	l.stopped = true
	dropped := l.queue.Clear()
	l.mu.Unlock()
	if dropped > 0 {
		l.logger.Warn("loop stopped with queued tasks", zap.Int("dropped", dropped))
	}
	l.logger.Debug("loop stopped")
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Invoke runs task on the loop and waits for it to finish. Called from a
// loop task it runs inline.
func (l *Loop) Invoke(ctx context.Context, task Task) error {
	if l.IsCurrent(ctx) {
		task.Run(ctx)
		return nil
	}
	finished := make(chan struct{})
	if !l.Post(TaskFunc(func(loopCtx context.Context) {
		defer close(finished)
		task.Run(loopCtx)
	})) {
		return ErrStopped
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		select {
		case <-finished:
			return nil
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

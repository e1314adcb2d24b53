package process

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/ozonewl/dhost/internal/channel"
	"github.com/ozonewl/dhost/internal/loop"
	"github.com/ozonewl/dhost/internal/runtime"
	"github.com/ozonewl/dhost/internal/transport"
	"go.uber.org/zap"
)

const (
	stopTimeout = 10 * time.Second
	// A worker that stayed up this long resets the restart backoff.
	stableUptime = 30 * time.Second
	exitLogLines = 20
)

type SupervisorConfig struct {
	Worker         runtime.WorkerConfig
	Type           Type
	Restart        bool
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Supervisor runs one worker process at a time through a Runtime, wraps its
// connection in a transport bound to the channel loop, and tells observers
// when the worker comes and goes.
type Supervisor struct {
	rt     runtime.Runtime
	loop   loop.Poster
	cfg    SupervisorConfig
	logger *zap.Logger

	mu        sync.Mutex
	observers map[int]Observer
	nextObs   int
	current   *incarnation
}

type incarnation struct {
	info Info
	conn *transport.Conn
}

var _ channel.Locator = (*Supervisor)(nil)

func NewSupervisor(rt runtime.Runtime, poster loop.Poster, cfg SupervisorConfig, logger *zap.Logger) *Supervisor {
	if cfg.Type == "" {
		cfg.Type = TypeDisplay
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = backoff.DefaultInitialInterval
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = backoff.DefaultMaxInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Supervisor{
		rt:        rt,
		loop:      poster,
		cfg:       cfg,
		logger:    logger.Named("supervisor"),
		observers: make(map[int]Observer),
	}
}

// AddObserver subscribes o to lifecycle events. The returned func removes
// it again.
func (s *Supervisor) AddObserver(o Observer) (remove func()) {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = o
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}

func (s *Supervisor) notify(kind EventKind, info Info) {
	s.mu.Lock()
	observers := make([]Observer, 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o)
	}
	s.mu.Unlock()

	for _, o := range observers {
		o.OnProcessEvent(kind, info)
	}
}

// Endpoint returns the connection of the running worker, or
// channel.ErrNoWorker.
func (s *Supervisor) Endpoint(context.Context) (channel.Endpoint, error) {
	s.mu.Lock()
	cur := s.current
	s.mu.Unlock()
	if cur == nil {
		return nil, channel.ErrNoWorker
	}
	select {
	case <-cur.conn.Closed():
		return nil, channel.ErrNoWorker
	default:
		return cur.conn, nil
	}
}

// Current describes the running worker, if any.
func (s *Supervisor) Current() (Info, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Info{}, false
	}
	return s.current.info, true
}

// Run keeps a worker alive until ctx is cancelled. Without restarts it
// returns after the first worker exits; a non-zero exit is an error.
func (s *Supervisor) Run(ctx context.Context) error {
	if err := s.rt.Healthy(ctx); err != nil {
		return fmt.Errorf("runtime not healthy: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.cfg.InitialBackoff
	b.MaxInterval = s.cfg.MaxBackoff

	for {
		started := time.Now()
		code, err := s.runOnce(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil && code != 0 {
			err = fmt.Errorf("worker exited with code %d", code)
		}
		if !s.cfg.Restart {
			return err
		}

		if time.Since(started) >= stableUptime {
			b.Reset()
		}
		delay := b.NextBackOff()
		s.logger.Warn("worker stopped, restarting", zap.Error(err), zap.Duration("backoff", delay))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

func (s *Supervisor) runOnce(ctx context.Context) (int, error) {
	h, err := s.rt.Start(ctx, s.cfg.Worker)
	if err != nil {
		return -1, fmt.Errorf("starting worker: %w", err)
	}

	conn := transport.New(h.Conn, s.loop, s.logger)
	conn.Start()
	info := Info{
		ID:   uuid.New(),
		Type: s.cfg.Type,
		Name: s.cfg.Worker.Name,
		PID:  h.PID,
	}
	s.mu.Lock()
	s.current = &incarnation{info: info, conn: conn}
	s.mu.Unlock()

	s.logger.Info("worker spawned", zap.Stringer("id", info.ID), zap.Int("pid", info.PID))
	s.notify(Spawned, info)

	code, waitErr := s.rt.Wait(ctx, h)

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopTimeout)
	defer cancel()

	// Filters must have seen the closure before anyone is told the worker
	// is gone, or a quick respawn would find the old channel still attached.
	_ = conn.Close()
	select {
	case <-conn.Closed():
	case <-ctx.Done():
	}
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if waitErr == nil && code != 0 {
		if logs, err := s.rt.Logs(stopCtx, h, exitLogLines); err == nil && logs != "" {
			s.logger.Warn("worker exited", zap.Int("code", code), zap.String("logs", logs))
		}
	}
	if err := s.rt.Stop(stopCtx, h); err != nil {
		s.logger.Warn("releasing worker", zap.Error(err))
	}

	info.ExitCode = code
	s.logger.Info("worker exited", zap.Stringer("id", info.ID), zap.Int("code", code))
	s.notify(Exited, info)

	if waitErr != nil && !errors.Is(waitErr, context.Canceled) {
		return code, fmt.Errorf("waiting for worker: %w", waitErr)
	}
	return code, nil
}

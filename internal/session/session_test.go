package session

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/ozonewl/dhost/internal/config"
	"github.com/ozonewl/dhost/internal/message"
	"github.com/ozonewl/dhost/internal/output"
	"github.com/ozonewl/dhost/internal/runtime"
	"github.com/ozonewl/dhost/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// pipeRuntime runs a reference worker in-process over net.Pipe.
type pipeRuntime struct {
	t      *testing.T
	output message.OutputSize

	mu      sync.Mutex
	started int
	workers map[string]*pipeWorker
}

type pipeWorker struct {
	err    error
	exited chan struct{}
}

func newPipeRuntime(t *testing.T) *pipeRuntime {
	return &pipeRuntime{
		t:       t,
		output:  message.OutputSize{Width: 800, Height: 600},
		workers: make(map[string]*pipeWorker),
	}
}

func (r *pipeRuntime) Healthy(context.Context) error { return nil }

func (r *pipeRuntime) Start(ctx context.Context, _ runtime.WorkerConfig) (*runtime.Handle, error) {
	hostEnd, workerEnd := net.Pipe()
	peer := worker.NewPeer(workerEnd, worker.Config{Output: r.output}, zaptest.NewLogger(r.t))

	r.mu.Lock()
	r.started++
	id := fmt.Sprintf("worker-%d", r.started)
	w := &pipeWorker{exited: make(chan struct{})}
	r.workers[id] = w
	pid := 100 + r.started
	r.mu.Unlock()

	go func() {
		defer close(w.exited)
		w.err = peer.Run(context.WithoutCancel(ctx))
	}()
	return &runtime.Handle{ID: id, PID: pid, Conn: hostEnd}, nil
}

func (r *pipeRuntime) lookup(id string) *pipeWorker {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.workers[id]
}

func (r *pipeRuntime) Wait(ctx context.Context, h *runtime.Handle) (int, error) {
	w := r.lookup(h.ID)
	select {
	case <-w.exited:
		if w.err != nil {
			return 1, nil
		}
		return 0, nil
	case <-ctx.Done():
		return -1, ctx.Err()
	}
}

// Stop waits for the peer, which exits once the host end is closed.
func (r *pipeRuntime) Stop(ctx context.Context, h *runtime.Handle) error {
	select {
	case <-r.lookup(h.ID).exited:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *pipeRuntime) Logs(context.Context, *runtime.Handle, int) (string, error) { return "", nil }

type collector struct {
	mu     sync.Mutex
	events []any
}

func (c *collector) sink() output.Sink {
	return output.SinkFunc(func(event any) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.events = append(c.events, event)
	})
}

func (c *collector) snapshot() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]any(nil), c.events...)
}

func (c *collector) has(match func(any) bool) bool {
	for _, e := range c.snapshot() {
		if match(e) {
			return true
		}
	}
	return false
}

func testConfig() *config.Config {
	return &config.Config{
		Worker: config.WorkerConfig{Runtime: "exec", Type: "display", Name: "test-worker"},
		Output: config.OutputConfig{Width: 800, Height: 600},
		Windows: []config.WindowConfig{
			{Title: "main", Width: 100, Height: 50},
		},
	}
}

func TestSessionEndToEnd(t *testing.T) {
	rt := newPipeRuntime(t)
	events := &collector{}

	s, err := New(Options{
		Config:        testConfig(),
		Runtime:       rt,
		Sink:          events.sink(),
		Logger:        zaptest.NewLogger(t),
		WatchInterval: 10 * time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		return events.has(func(e any) bool {
			p, ok := e.(message.PointerEnter)
			return ok && p.Widget == 1 && p.X == 50 && p.Y == 25
		})
	}, 5*time.Second, 10*time.Millisecond, "window shown through the worker")

	assert.True(t, events.has(func(e any) bool {
		p, ok := e.(message.OutputSize)
		return ok && p.Width == 800 && p.Height == 600
	}))
	assert.True(t, events.has(func(e any) bool {
		w, ok := e.(output.WorkerStatusEvent)
		return ok && w.Phase == "spawned" && w.PID == 101
	}))
	require.Eventually(t, func() bool {
		return events.has(func(e any) bool {
			c, ok := e.(output.ChannelStatusEvent)
			return ok && c.State == "connected"
		})
	}, 5*time.Second, 10*time.Millisecond)

	widgets := s.Widgets().Widgets()
	require.Len(t, widgets, 1)
	assert.Equal(t, "main", widgets[0].Spec.Title)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("session did not stop")
	}
	assert.Equal(t, "disconnected", s.Host().State().String())
}

func TestSessionWithoutWorkerDropsDeferredCommands(t *testing.T) {
	events := &collector{}
	s, err := New(Options{
		Config:  testConfig(),
		Runtime: unhealthyRuntime{},
		Sink:    events.sink(),
		Logger:  zaptest.NewLogger(t),
	})
	require.NoError(t, err)

	err = s.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "runtime not healthy")
	assert.True(t, events.has(func(e any) bool {
		m, ok := e.(output.MessageEvent)
		return ok && m.Severity == output.SeverityWarning && m.Text == "3 commands were never delivered"
	}))
}

type unhealthyRuntime struct{ runtime.Runtime }

func (unhealthyRuntime) Healthy(context.Context) error { return errors.New("no daemon") }

func TestNewRequiresConfigAndRuntime(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestNewRuntimeSelectsByName(t *testing.T) {
	rt, err := NewRuntime(config.WorkerConfig{Runtime: "exec", Binary: "/bin/true"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.IsType(t, &runtime.ExecRuntime{}, rt)

	_, err = NewRuntime(config.WorkerConfig{Runtime: "vm"}, nil)
	assert.ErrorContains(t, err, `unknown worker runtime "vm"`)
}

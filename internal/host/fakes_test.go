package host

import (
	"context"
	"sync"

	"github.com/ozonewl/dhost/internal/channel"
	"github.com/ozonewl/dhost/internal/loop"
	"github.com/ozonewl/dhost/internal/message"
	"github.com/ozonewl/dhost/internal/process"
)

type sentMessage struct {
	msg    message.Message
	onLoop bool
}

// fakeChannel records every send and whether it happened on the loop.
type fakeChannel struct {
	loop   *loop.Loop
	failAt int // 1-based send that fails; 0 never fails

	mu   sync.Mutex
	sent []sentMessage
}

func (c *fakeChannel) Send(ctx context.Context, msg message.Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, sentMessage{msg: msg, onLoop: c.loop.IsCurrent(ctx)})
	return c.failAt == 0 || len(c.sent) != c.failAt
}

func (c *fakeChannel) messages() []sentMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]sentMessage(nil), c.sent...)
}

type fakeEndpoint struct {
	ch     channel.Channel
	filter channel.Filter
}

func (e *fakeEndpoint) AddFilter(ctx context.Context, f channel.Filter) {
	e.filter = f
	f.OnChannelAttached(ctx, e.ch)
}

// fakeLocator returns whatever endpoint is currently installed.
type fakeLocator struct {
	mu       sync.Mutex
	endpoint channel.Endpoint
	calls    int
}

func (l *fakeLocator) Endpoint(context.Context) (channel.Endpoint, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if l.endpoint == nil {
		return nil, channel.ErrNoWorker
	}
	return l.endpoint, nil
}

func (l *fakeLocator) set(ep channel.Endpoint) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.endpoint = ep
}

func (l *fakeLocator) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

type fakeRegistry struct {
	mu        sync.Mutex
	observers []process.Observer
	removed   int
}

func (r *fakeRegistry) AddObserver(o process.Observer) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, o)
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.removed++
	}
}

func (r *fakeRegistry) notify(kind process.EventKind, info process.Info) {
	r.mu.Lock()
	observers := append([]process.Observer(nil), r.observers...)
	r.mu.Unlock()
	for _, o := range observers {
		o.OnProcessEvent(kind, info)
	}
}

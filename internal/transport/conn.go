// Package transport carries display-channel messages over a net.Conn as a
// CBOR stream. Outbound sends are queued and written by a dedicated
// goroutine; inbound messages are handed to the owning loop, where the
// registered filters are consulted in order.
package transport

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/ozonewl/dhost/internal/channel"
	"github.com/ozonewl/dhost/internal/codec"
	"github.com/ozonewl/dhost/internal/fifo"
	"github.com/ozonewl/dhost/internal/loop"
	"github.com/ozonewl/dhost/internal/message"
	"go.uber.org/zap"
)

var ErrClosed = errors.New("transport closed")

const writeTimeout = 10 * time.Second

// Conn implements channel.Endpoint and channel.Channel for one worker
// connection.
type Conn struct {
	nc     net.Conn
	loop   loop.Poster
	logger *zap.Logger

	// Loop-confined.
	filters  []channel.Filter
	detached bool

	mu     sync.Mutex
	outbox fifo.Queue[message.Message]
	closed bool
	err    error
	wake   chan struct{}

	stopping  chan struct{}
	closedCh  chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

var (
	_ channel.Channel  = (*Conn)(nil)
	_ channel.Endpoint = (*Conn)(nil)
)

func New(nc net.Conn, poster loop.Poster, logger *zap.Logger) *Conn {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Conn{
		nc:       nc,
		loop:     poster,
		logger:   logger.Named("transport"),
		wake:     make(chan struct{}, 1),
		stopping: make(chan struct{}),
		closedCh: make(chan struct{}),
	}
}

// Start launches the reader and writer goroutines.
func (c *Conn) Start() {
	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		c.readLoop()
	}()
	go func() {
		defer c.wg.Done()
		c.writeLoop()
	}()
}

// Send queues msg for the writer and never blocks on the peer.
func (c *Conn) Send(_ context.Context, msg message.Message) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	c.outbox.Push(msg)
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
	return true
}

// AddFilter registers f and immediately tells it which channel it is
// attached to. Off the loop the registration is posted to it.
func (c *Conn) AddFilter(ctx context.Context, f channel.Filter) {
	if !c.loop.IsCurrent(ctx) {
		c.loop.Post(loop.TaskFunc(func(ctx context.Context) {
			c.AddFilter(ctx, f)
		}))
		return
	}
	if c.detached {
		c.logger.Debug("filter added to closed connection")
		f.OnChannelClosing(ctx)
		return
	}
	c.filters = append(c.filters, f)
	f.OnChannelAttached(ctx, c)
}

// Close shuts the connection down and waits for its goroutines. Filters are
// told about the closure on the loop; Closed reports when that happened.
func (c *Conn) Close() error {
	c.shutdown(ErrClosed)
	c.wg.Wait()
	return nil
}

// Closed is closed once every filter has seen OnChannelClosing.
func (c *Conn) Closed() <-chan struct{} {
	return c.closedCh
}

// Err returns the reason the connection stopped, if it has.
func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Conn) shutdown(reason error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.err = reason
		pending := c.outbox.Clear()
		c.mu.Unlock()

		close(c.stopping)
		if err := c.nc.Close(); err != nil {
			c.logger.Debug("closing connection", zap.Error(err))
		}
		if pending > 0 {
			c.logger.Warn("connection closed with unsent messages", zap.Int("dropped", pending))
		}
		if errors.Is(reason, io.EOF) || errors.Is(reason, ErrClosed) {
			c.logger.Debug("connection closed", zap.Error(reason))
		} else {
			c.logger.Warn("connection failed", zap.Error(reason))
		}

		if !c.loop.Post(loop.TaskFunc(c.detach)) {
			close(c.closedCh)
		}
	})
}

func (c *Conn) detach(ctx context.Context) {
	defer close(c.closedCh)
	c.detached = true
	filters := c.filters
	c.filters = nil
	for _, f := range filters {
		f.OnChannelClosing(ctx)
	}
}

func (c *Conn) readLoop() {
	dec := codec.NewDecoder(bufio.NewReader(c.nc))
	for {
		var msg message.Message
		if err := dec.Decode(&msg); err != nil {
			select {
			case <-c.stopping:
				c.shutdown(ErrClosed)
			default:
				c.shutdown(err)
			}
			return
		}
		if !c.loop.Post(dispatchTask{conn: c, msg: msg}) {
			c.shutdown(loop.ErrStopped)
			return
		}
	}
}

// dispatchTask delivers one inbound message to the filters on the loop.
type dispatchTask struct {
	conn *Conn
	msg  message.Message
}

func (t dispatchTask) Run(ctx context.Context) {
	c := t.conn
	if c.detached {
		return
	}
	for _, f := range c.filters {
		if f.OnMessageReceived(ctx, t.msg) {
			return
		}
	}
	c.logger.Debug("unhandled message", zap.Stringer("kind", t.msg.Kind), zap.Int32("route", t.msg.Route))
}

func (c *Conn) writeLoop() {
	w := bufio.NewWriter(c.nc)
	enc := codec.NewEncoder(w)
	for {
		select {
		case <-c.stopping:
			return
		case <-c.wake:
		}

		c.mu.Lock()
		batch := c.outbox.Drain()
		c.mu.Unlock()
		if len(batch) == 0 {
			continue
		}

		if err := c.nc.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			c.logger.Debug("setting write deadline", zap.Error(err))
		}
		for _, msg := range batch {
			if err := enc.Encode(msg); err != nil {
				c.shutdown(err)
				return
			}
		}
		if err := w.Flush(); err != nil {
			c.shutdown(err)
			return
		}
	}
}

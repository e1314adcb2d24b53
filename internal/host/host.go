// Package host implements the host side of the display channel. A Host
// keeps the channel to the worker process alive across worker restarts,
// funnels every send through one loop, buffers commands while the worker is
// unreachable, and decodes inbound events for an EventSink.
package host

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/ozonewl/dhost/internal/channel"
	"github.com/ozonewl/dhost/internal/loop"
	"github.com/ozonewl/dhost/internal/process"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/ozonewl/dhost/internal/host"

// ObserverRegistry is where the host subscribes to worker lifecycle events.
type ObserverRegistry interface {
	AddObserver(o process.Observer) (remove func())
}

type Options struct {
	Loop       *loop.Loop
	Locator    channel.Locator
	Processes  ObserverRegistry
	Sink       EventSink
	WorkerType process.Type
	Logger     *zap.Logger
	Tracer     trace.Tracer
}

type Host struct {
	loop       *loop.Loop
	locator    channel.Locator
	sink       EventSink
	workerType process.Type
	logger     *zap.Logger
	tracer     trace.Tracer

	unsubscribe func()

	state        atomic.Int32
	pending      atomic.Int64
	acquisitions atomic.Int64

	// Loop-confined.
	channel channel.Channel
	queue   DeferredQueue
	closed  bool
}

var (
	_ channel.Filter   = (*Host)(nil)
	_ process.Observer = (*Host)(nil)
)

// New builds a Host, subscribes it to worker lifecycle events and asks for a
// channel right away in case the worker is already up.
func New(opts Options) *Host {
	if opts.Loop == nil || opts.Locator == nil {
		panic("host: Loop and Locator are required")
	}
	h := &Host{
		loop:       opts.Loop,
		locator:    opts.Locator,
		sink:       opts.Sink,
		workerType: opts.WorkerType,
		logger:     opts.Logger,
		tracer:     opts.Tracer,
	}
	if h.sink == nil {
		h.sink = NopSink{}
	}
	if h.workerType == "" {
		h.workerType = process.TypeDisplay
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	h.logger = h.logger.Named("host")
	if h.tracer == nil {
		h.tracer = otel.Tracer(tracerName)
	}
	if opts.Processes != nil {
		h.unsubscribe = opts.Processes.AddObserver(h)
	}
	h.RequestEstablish()
	return h
}

func (h *Host) State() State {
	return State(h.state.Load())
}

// Status is a point-in-time view of the host, safe to read from any
// goroutine.
type Status struct {
	State        State
	Pending      int
	Acquisitions int64
}

func (h *Host) Status() Status {
	return Status{
		State:        h.State(),
		Pending:      int(h.pending.Load()),
		Acquisitions: h.acquisitions.Load(),
	}
}

// OnProcessEvent reacts to the worker (re)spawning by asking for a channel.
func (h *Host) OnProcessEvent(kind process.EventKind, info process.Info) {
	if kind != process.Spawned || info.Type != h.workerType {
		return
	}
	h.logger.Debug("worker spawned", zap.Stringer("id", info.ID), zap.Int("pid", info.PID))
	h.RequestEstablish()
}

// RequestEstablish schedules channel acquisition on the loop. It does
// nothing while a channel is connected or an acquisition is pending.
func (h *Host) RequestEstablish() {
	if !h.state.CompareAndSwap(int32(Disconnected), int32(Connecting)) {
		return
	}
	if !h.loop.Post(acquireTask{host: h}) {
		h.state.Store(int32(Disconnected))
	}
}

type acquireTask struct {
	host *Host
}

func (t acquireTask) Run(ctx context.Context) {
	t.host.acquire(ctx)
}

func (h *Host) acquire(ctx context.Context) {
	ctx, span := h.tracer.Start(ctx, "host.establish")
	defer span.End()

	h.acquisitions.Add(1)
	if h.closed {
		h.state.Store(int32(Disconnected))
		return
	}
	if h.channel != nil {
		h.state.Store(int32(Connected))
		return
	}

	endpoint, err := h.locator.Endpoint(ctx)
	if err != nil {
		h.logger.Debug("channel not available", zap.Error(err))
		span.SetAttributes(attribute.String("dhost.outcome", "unavailable"))
		h.state.Store(int32(Disconnected))
		return
	}

	// The endpoint calls back OnChannelAttached before returning.
	endpoint.AddFilter(ctx, h)
	if h.channel == nil {
		h.logger.Debug("endpoint closed before attaching")
		span.SetAttributes(attribute.String("dhost.outcome", "closed"))
		h.state.Store(int32(Disconnected))
		return
	}

	h.state.Store(int32(Connected))
	span.SetAttributes(attribute.String("dhost.outcome", "connected"))
	h.logger.Info("channel established", zap.Int("deferred", h.queue.Len()))
	h.flush(ctx)
}

// flush sends every deferred command in order. The first failed send
// abandons the rest of the queue.
func (h *Host) flush(ctx context.Context) {
	if h.queue.Len() == 0 {
		return
	}
	ctx, span := h.tracer.Start(ctx, "host.flush", trace.WithAttributes(
		attribute.Int("dhost.deferred", h.queue.Len()),
	))
	defer span.End()

	sent := 0
	for h.channel != nil {
		msg, ok := h.queue.Pop()
		if !ok {
			break
		}
		h.pending.Add(-1)
		if !h.send(ctx, msg) {
			dropped := h.queue.Discard()
			h.pending.Store(0)
			h.logger.Warn("channel rejected deferred command, dropping the rest",
				zap.Stringer("kind", msg.Kind),
				zap.Int("dropped", dropped),
			)
			span.SetStatus(codes.Error, "send failed")
			span.SetAttributes(attribute.Int("dhost.dropped", dropped+1))
			return
		}
		sent++
	}
	span.SetAttributes(attribute.Int("dhost.sent", sent))
}

func (h *Host) mustBeOnLoop(ctx context.Context, op string) {
	if !h.loop.IsCurrent(ctx) {
		panic(fmt.Sprintf("host: %s called off the channel loop", op))
	}
}

// OnChannelAttached stores ch as the active channel. Deferred commands are
// flushed by the acquisition step, not here.
func (h *Host) OnChannelAttached(ctx context.Context, ch channel.Channel) {
	h.mustBeOnLoop(ctx, "OnChannelAttached")
	if h.channel != nil && h.channel != ch {
		h.logger.Warn("replacing active channel")
	}
	h.channel = ch
}

// OnChannelClosing forgets the channel. Later sends are deferred again until
// the next successful acquisition.
func (h *Host) OnChannelClosing(ctx context.Context) {
	h.mustBeOnLoop(ctx, "OnChannelClosing")
	h.channel = nil
	h.state.Store(int32(Disconnected))
	h.logger.Info("channel closed")
}

// Close tears the host down on its loop. Undelivered deferred commands at
// this point are a caller bug and cause a panic.
func (h *Host) Close(ctx context.Context) error {
	return h.loop.Invoke(ctx, loop.TaskFunc(h.teardown))
}

// DropDeferred discards commands still waiting for a channel and returns
// how many were dropped. Call it before Close when giving up on a worker
// that never came up.
func (h *Host) DropDeferred(ctx context.Context) (int, error) {
	var dropped int
	err := h.loop.Invoke(ctx, loop.TaskFunc(func(context.Context) {
		dropped = h.queue.Discard()
		h.pending.Store(0)
	}))
	if dropped > 0 {
		h.logger.Warn("dropped deferred commands", zap.Int("dropped", dropped))
	}
	return dropped, err
}

func (h *Host) teardown(context.Context) {
	if h.closed {
		return
	}
	if n := h.queue.Len(); n > 0 {
		panic(fmt.Sprintf("host: torn down with %d undelivered commands", n))
	}
	h.closed = true
	if h.unsubscribe != nil {
		h.unsubscribe()
	}
	h.channel = nil
	h.state.Store(int32(Disconnected))
}

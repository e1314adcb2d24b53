package host

import (
	"context"

	"github.com/ozonewl/dhost/internal/message"
	"go.uber.org/zap"
)

// SendCommand delivers msg to the worker. Off the loop the call is reposted
// to the loop and returns at once; without a channel msg is deferred. Both
// report true, so callers cannot tell a sent command from a deferred one.
func (h *Host) SendCommand(ctx context.Context, msg message.Message) bool {
	if !h.loop.IsCurrent(ctx) {
		return h.loop.Post(sendTask{host: h, msg: msg})
	}
	if h.closed {
		h.logger.Warn("command after teardown", zap.Stringer("kind", msg.Kind))
		return false
	}
	if h.channel == nil {
		h.queue.Push(msg)
		h.pending.Add(1)
		return true
	}
	return h.send(ctx, msg)
}

// send never issues a blocking call: the worker does not reply to commands,
// so waiting on it would only stall the loop.
func (h *Host) send(ctx context.Context, msg message.Message) bool {
	return h.channel.Send(ctx, msg.WithUnblock())
}

// sendTask is a SendCommand reposted from another goroutine.
type sendTask struct {
	host *Host
	msg  message.Message
}

func (t sendTask) Run(ctx context.Context) {
	t.host.SendCommand(ctx, t.msg)
}

func (h *Host) SetWidgetState(ctx context.Context, widget uint32, state message.WidgetState, width, height uint32) bool {
	return h.SendCommand(ctx, message.NewSetState(message.SetState{
		Widget: widget,
		State:  state,
		Width:  width,
		Height: height,
	}))
}

func (h *Host) SetWidgetTitle(ctx context.Context, widget uint32, title string) bool {
	return h.SendCommand(ctx, message.NewSetTitle(message.SetTitle{Widget: widget, Title: title}))
}

func (h *Host) SetWidgetAttributes(ctx context.Context, widget, parent, x, y uint32, typ message.WidgetType) bool {
	return h.SendCommand(ctx, message.NewSetAttributes(message.SetAttributes{
		Widget: widget,
		Parent: parent,
		X:      x,
		Y:      y,
		Type:   typ,
	}))
}

package host

import (
	"context"

	"github.com/ozonewl/dhost/internal/message"
	"go.uber.org/zap"
)

// OnMessageReceived decodes an inbound event and hands it to the sink. It
// returns false for kinds it does not handle so the transport can offer the
// message to other filters.
func (h *Host) OnMessageReceived(ctx context.Context, msg message.Message) bool {
	h.mustBeOnLoop(ctx, "OnMessageReceived")
	if h.closed {
		return false
	}

	switch msg.Kind {
	case message.KindPointerMotion:
		return deliver(h, msg, h.sink.PointerMotion)
	case message.KindPointerButton:
		return deliver(h, msg, h.sink.PointerButton)
	case message.KindPointerAxis:
		return deliver(h, msg, h.sink.PointerAxis)
	case message.KindPointerEnter:
		return deliver(h, msg, h.sink.PointerEnter)
	case message.KindPointerLeave:
		return deliver(h, msg, h.sink.PointerLeave)
	case message.KindKey:
		return deliver(h, msg, h.sink.Key)
	case message.KindOutputSize:
		return deliver(h, msg, h.sink.OutputSizeChanged)
	case message.KindCloseWidget:
		return deliver(h, msg, h.sink.CloseWidget)
	default:
		return false
	}
}

// deliver decodes the payload of msg and calls handler with it. A payload
// that fails to decode still counts as handled: the kind is ours.
func deliver[P any](h *Host, msg message.Message, handler func(P)) bool {
	var payload P
	if err := msg.Decode(&payload); err != nil {
		h.logger.Warn("dropping malformed event", zap.Stringer("kind", msg.Kind), zap.Error(err))
		return true
	}
	handler(payload)
	return true
}

package host

//go:generate mockgen -source=sink.go -destination=mock_sink.go -package=host

import "github.com/ozonewl/dhost/internal/message"

// EventSink receives decoded input events, one method per event kind.
// Methods are called on the host's loop and must not block it.
type EventSink interface {
	PointerMotion(message.PointerMotion)
	PointerButton(message.PointerButton)
	PointerAxis(message.PointerAxis)
	PointerEnter(message.PointerEnter)
	PointerLeave(message.PointerLeave)
	Key(message.Key)
	OutputSizeChanged(message.OutputSize)
	CloseWidget(message.CloseWidget)
}

// NopSink ignores every event. Embed it to implement only some methods.
type NopSink struct{}

func (NopSink) PointerMotion(message.PointerMotion)  {}
func (NopSink) PointerButton(message.PointerButton)  {}
func (NopSink) PointerAxis(message.PointerAxis)      {}
func (NopSink) PointerEnter(message.PointerEnter)    {}
func (NopSink) PointerLeave(message.PointerLeave)    {}
func (NopSink) Key(message.Key)                      {}
func (NopSink) OutputSizeChanged(message.OutputSize) {}
func (NopSink) CloseWidget(message.CloseWidget)      {}

type tee []EventSink

// Tee returns a sink that forwards every event to each of sinks in order.
func Tee(sinks ...EventSink) EventSink {
	return tee(sinks)
}

func (t tee) PointerMotion(p message.PointerMotion) {
	for _, s := range t {
		s.PointerMotion(p)
	}
}

func (t tee) PointerButton(p message.PointerButton) {
	for _, s := range t {
		s.PointerButton(p)
	}
}

func (t tee) PointerAxis(p message.PointerAxis) {
	for _, s := range t {
		s.PointerAxis(p)
	}
}

func (t tee) PointerEnter(p message.PointerEnter) {
	for _, s := range t {
		s.PointerEnter(p)
	}
}

func (t tee) PointerLeave(p message.PointerLeave) {
	for _, s := range t {
		s.PointerLeave(p)
	}
}

func (t tee) Key(p message.Key) {
	for _, s := range t {
		s.Key(p)
	}
}

func (t tee) OutputSizeChanged(p message.OutputSize) {
	for _, s := range t {
		s.OutputSizeChanged(p)
	}
}

func (t tee) CloseWidget(p message.CloseWidget) {
	for _, s := range t {
		s.CloseWidget(p)
	}
}

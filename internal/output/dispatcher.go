package output

import (
	"github.com/ozonewl/dhost/internal/host"
	"github.com/ozonewl/dhost/internal/message"
	"github.com/ozonewl/dhost/internal/process"
)

// Dispatcher turns decoded worker events into output events. Pointer
// motion is dropped unless asked for; it would drown everything else.
type Dispatcher struct {
	sink   Sink
	motion bool
}

var _ host.EventSink = (*Dispatcher)(nil)

func NewDispatcher(sink Sink, motion bool) *Dispatcher {
	return &Dispatcher{sink: sink, motion: motion}
}

func (d *Dispatcher) PointerMotion(p message.PointerMotion) {
	if d.motion {
		Emit(d.sink, p)
	}
}

func (d *Dispatcher) PointerButton(p message.PointerButton)  { Emit(d.sink, p) }
func (d *Dispatcher) PointerAxis(p message.PointerAxis)      { Emit(d.sink, p) }
func (d *Dispatcher) PointerEnter(p message.PointerEnter)    { Emit(d.sink, p) }
func (d *Dispatcher) PointerLeave(p message.PointerLeave)    { Emit(d.sink, p) }
func (d *Dispatcher) Key(p message.Key)                      { Emit(d.sink, p) }
func (d *Dispatcher) OutputSizeChanged(p message.OutputSize) { Emit(d.sink, p) }
func (d *Dispatcher) CloseWidget(p message.CloseWidget)      { Emit(d.sink, p) }

// ProcessObserver reports worker lifecycle events on sink.
func ProcessObserver(sink Sink) process.Observer {
	return process.ObserverFunc(func(kind process.EventKind, info process.Info) {
		Emit(sink, WorkerStatusEvent{
			Phase:    kind.String(),
			ID:       info.ID.String(),
			PID:      info.PID,
			ExitCode: info.ExitCode,
		})
	})
}

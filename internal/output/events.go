package output

import "github.com/ozonewl/dhost/internal/message"

// InputEvent is any decoded worker event forwarded to the user.
type InputEvent interface {
	message.PointerMotion | message.PointerButton | message.PointerAxis |
		message.PointerEnter | message.PointerLeave | message.Key |
		message.OutputSize | message.CloseWidget
}

type Event interface {
	MessageEvent | ErrorEvent | WorkerStatusEvent | ChannelStatusEvent | InputEvent
}

type Sink interface {
	// using any as the type only here; at call sites we'll have type safety from the union interface
	emit(event any)
}

type SinkFunc func(event any)

func (f SinkFunc) emit(event any) {
	if f == nil {
		return
	}
	f(event)
}

type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityNote
	SeverityWarning
)

type MessageEvent struct {
	Severity Severity
	Text     string
}

type ErrorEvent struct {
	Title  string
	Detail string
}

// WorkerStatusEvent reports a worker lifecycle change.
type WorkerStatusEvent struct {
	Phase    string // "spawned", "exited"
	ID       string
	PID      int
	ExitCode int
}

// ChannelStatusEvent reports the channel state as seen by the host.
type ChannelStatusEvent struct {
	State   string // "disconnected", "connecting", "connected"
	Pending int
}

// Emit sends an event to the sink with compile-time type safety via generics.
func Emit[E Event](sink Sink, event E) {
	if sink == nil {
		return
	}
	sink.emit(event)
}

func EmitInfo(sink Sink, text string) {
	Emit(sink, MessageEvent{Severity: SeverityInfo, Text: text})
}

func EmitSuccess(sink Sink, text string) {
	Emit(sink, MessageEvent{Severity: SeveritySuccess, Text: text})
}

func EmitNote(sink Sink, text string) {
	Emit(sink, MessageEvent{Severity: SeverityNote, Text: text})
}

func EmitWarning(sink Sink, text string) {
	Emit(sink, MessageEvent{Severity: SeverityWarning, Text: text})
}

func EmitError(sink Sink, title, detail string) {
	Emit(sink, ErrorEvent{Title: title, Detail: detail})
}

func EmitChannelStatus(sink Sink, state string, pending int) {
	Emit(sink, ChannelStatusEvent{State: state, Pending: pending})
}

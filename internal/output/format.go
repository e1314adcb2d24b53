package output

import (
	"fmt"

	"github.com/ozonewl/dhost/internal/message"
)

// FormatEventLine converts an output event into a single display line.
func FormatEventLine(event any) (string, bool) {
	switch e := event.(type) {
	case MessageEvent:
		return formatMessage(e), true
	case ErrorEvent:
		if e.Detail != "" {
			return fmt.Sprintf("Error: %s\n  %s", e.Title, e.Detail), true
		}
		return "Error: " + e.Title, true
	case WorkerStatusEvent:
		return formatWorkerStatus(e), true
	case ChannelStatusEvent:
		return formatChannelStatus(e), true
	default:
		return formatInput(event)
	}
}

func formatMessage(e MessageEvent) string {
	switch e.Severity {
	case SeveritySuccess:
		return "> Success: " + e.Text
	case SeverityNote:
		return "> Note: " + e.Text
	case SeverityWarning:
		return "> Warning: " + e.Text
	default:
		return e.Text
	}
}

func formatWorkerStatus(e WorkerStatusEvent) string {
	switch e.Phase {
	case "spawned":
		return fmt.Sprintf("Worker spawned (pid %d)", e.PID)
	case "exited":
		if e.ExitCode != 0 {
			return fmt.Sprintf("Worker exited with code %d", e.ExitCode)
		}
		return "Worker exited"
	default:
		return "Worker " + e.Phase
	}
}

func formatChannelStatus(e ChannelStatusEvent) string {
	if e.Pending > 0 {
		return fmt.Sprintf("Channel %s (%d deferred)", e.State, e.Pending)
	}
	return "Channel " + e.State
}

func formatInput(event any) (string, bool) {
	switch e := event.(type) {
	case message.PointerMotion:
		return fmt.Sprintf("pointer motion %g,%g", e.X, e.Y), true
	case message.PointerButton:
		return fmt.Sprintf("%s on widget %d at %g,%g (flags %#x)", e.Type, e.Widget, e.X, e.Y, uint32(e.Flags)), true
	case message.PointerAxis:
		return fmt.Sprintf("scroll %d,%d at %g,%g", e.XOffset, e.YOffset, e.X, e.Y), true
	case message.PointerEnter:
		return fmt.Sprintf("pointer entered widget %d at %g,%g", e.Widget, e.X, e.Y), true
	case message.PointerLeave:
		return fmt.Sprintf("pointer left widget %d", e.Widget), true
	case message.Key:
		return fmt.Sprintf("%s code %#x (modifiers %#x)", e.Type, e.Code, e.Modifiers), true
	case message.OutputSize:
		return fmt.Sprintf("output size %dx%d", e.Width, e.Height), true
	case message.CloseWidget:
		return fmt.Sprintf("widget %d closed by worker", e.Widget), true
	default:
		return "", false
	}
}

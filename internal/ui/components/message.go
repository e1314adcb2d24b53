package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/ozonewl/dhost/internal/output"
	"github.com/ozonewl/dhost/internal/ui/styles"
)

var severityLabels = map[output.Severity]struct {
	label string
	style lipgloss.Style
}{
	output.SeveritySuccess: {"Success:", styles.Success},
	output.SeverityNote:    {"Note:", styles.Note},
	output.SeverityWarning: {"Warning:", styles.Warning},
}

func RenderMessage(e output.MessageEvent) string {
	l, ok := severityLabels[e.Severity]
	if !ok {
		return styles.Message.Render(e.Text)
	}
	return styles.Secondary.Render("> ") + l.style.Render(l.label) + " " + styles.Message.Render(e.Text)
}

// RenderWorker renders a worker lifecycle line; a worker that died with a
// non-zero code stands out.
func RenderWorker(e output.WorkerStatusEvent) string {
	switch {
	case e.Phase == "spawned":
		return styles.Success.Render("▲") + " " + styles.SecondaryMessage.Render(fmt.Sprintf("worker %d up", e.PID))
	case e.ExitCode != 0:
		return styles.Warning.Render("▼") + " " + styles.Message.Render(fmt.Sprintf("worker %d exited with code %d", e.PID, e.ExitCode))
	default:
		return styles.Secondary.Render("▼") + " " + styles.SecondaryMessage.Render(fmt.Sprintf("worker %d exited", e.PID))
	}
}

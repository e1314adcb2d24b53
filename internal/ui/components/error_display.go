package components

import (
	"strings"

	"github.com/ozonewl/dhost/internal/output"
	"github.com/ozonewl/dhost/internal/ui/styles"
)

type ErrorDisplay struct {
	event   *output.ErrorEvent
	visible bool
}

func NewErrorDisplay() ErrorDisplay {
	return ErrorDisplay{}
}

func (e ErrorDisplay) Show(event output.ErrorEvent) ErrorDisplay {
	e.event = &event
	e.visible = true
	return e
}

// Clear hides the error, e.g. once the channel is back.
func (e ErrorDisplay) Clear() ErrorDisplay {
	return ErrorDisplay{}
}

func (e ErrorDisplay) Visible() bool {
	return e.visible
}

func (e ErrorDisplay) View() string {
	if !e.visible || e.event == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(styles.ErrorTitle.Render("✗ " + e.event.Title))
	sb.WriteString("\n")
	if e.event.Detail != "" {
		for _, line := range strings.Split(e.event.Detail, "\n") {
			sb.WriteString("  ")
			sb.WriteString(styles.ErrorDetail.Render(line))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

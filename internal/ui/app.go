package ui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ozonewl/dhost/internal/output"
	"github.com/ozonewl/dhost/internal/ui/components"
	"github.com/ozonewl/dhost/internal/ui/styles"
)

const (
	maxLines           = 200
	spinnerMinDuration = 500 * time.Millisecond

	waitingText    = "Waiting for worker..."
	connectingText = "Connecting to worker..."
)

type runDoneMsg struct{}

type runErrMsg struct {
	err error
}

type App struct {
	header   components.Header
	status   components.ChannelStatus
	spinner  components.Spinner
	errorBox components.ErrorDisplay
	lines    []string
	width    int
	cancel   func()
	err      error
}

func NewApp(version string, cancel func()) App {
	return App{
		header:   components.NewHeader(version),
		status:   components.NewChannelStatus(),
		spinner:  components.NewSpinner().Start(waitingText, spinnerMinDuration),
		errorBox: components.NewErrorDisplay(),
		lines:    make([]string, 0, maxLines),
		cancel:   cancel,
	}
}

func (a App) Init() tea.Cmd {
	return a.spinner.Tick()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			if a.cancel != nil {
				a.cancel()
			}
			a.err = context.Canceled
			return a, tea.Quit
		}
	case tea.WindowSizeMsg:
		a.width = msg.Width
	case runDoneMsg:
		return a, tea.Quit
	case runErrMsg:
		a.err = msg.err
		return a, tea.Quit
	case components.SpinnerMinDurationElapsedMsg:
		a.spinner = a.spinner.HandleMinDurationElapsed()
	case output.ChannelStatusEvent:
		return a.updateChannel(msg)
	case output.WorkerStatusEvent:
		a.status = a.status.WithWorker(msg)
		a.lines = appendLine(a.lines, components.RenderWorker(msg))
	case output.ErrorEvent:
		a.errorBox = a.errorBox.Show(msg)
	case output.MessageEvent:
		a.lines = appendLine(a.lines, components.RenderMessage(msg))
	default:
		if line, ok := output.FormatEventLine(msg); ok {
			a.lines = appendLine(a.lines, styles.Message.Render(line))
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a App) updateChannel(e output.ChannelStatusEvent) (tea.Model, tea.Cmd) {
	wasConnected := a.status.Connected()
	a.status = a.status.WithChannel(e)

	switch {
	case a.status.Connected():
		a.errorBox = a.errorBox.Clear()
		if !a.spinner.Visible() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Stop()
		return a, cmd
	case wasConnected:
		a.spinner = a.spinner.Start(waitingText, spinnerMinDuration)
		return a, a.spinner.Tick()
	case e.State == "connecting":
		a.spinner = a.spinner.WithText(connectingText)
	}
	return a, nil
}

func appendLine(lines []string, line string) []string {
	lines = append(lines, line)
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines
}

const lineIndent = 2

func hardWrap(s string, maxWidth int) string {
	rs := []rune(s)
	if maxWidth <= 0 || len(rs) <= maxWidth {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(rs); i += maxWidth {
		if i > 0 {
			sb.WriteByte('\n')
		}
		end := min(i+maxWidth, len(rs))
		sb.WriteString(string(rs[i:end]))
	}
	return sb.String()
}

func (a App) View() string {
	var sb strings.Builder
	sb.WriteString(a.header.View())
	sb.WriteString("\n  ")
	sb.WriteString(a.status.View())
	sb.WriteString("\n\n")

	contentWidth := a.width - lineIndent
	for _, line := range a.lines {
		sb.WriteString("  ")
		if strings.Contains(line, "\x1b") {
			sb.WriteString(line)
		} else {
			sb.WriteString(hardWrap(line, contentWidth))
		}
		sb.WriteString("\n")
	}
	if view := a.spinner.View(); view != "" {
		sb.WriteString("  ")
		sb.WriteString(view)
		sb.WriteString("\n")
	}
	if view := a.errorBox.View(); view != "" {
		sb.WriteString("\n  ")
		sb.WriteString(strings.ReplaceAll(strings.TrimRight(view, "\n"), "\n", "\n  "))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (a App) Err() error {
	return a.err
}

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ozonewl/dhost/internal/ui/styles"
)

type SpinnerMinDurationElapsedMsg struct{}

// Spinner stays on screen for at least minDuration once started, so a
// channel that reconnects quickly does not make it flicker.
type Spinner struct {
	model       spinner.Model
	text        string
	visible     bool
	startedAt   time.Time
	minDuration time.Duration
	pendingStop bool
}

func NewSpinner() Spinner {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = styles.SpinnerStyle
	return Spinner{model: s}
}

func (s Spinner) Start(text string, minDuration time.Duration) Spinner {
	s.text = text
	s.visible = true
	s.startedAt = time.Now()
	s.pendingStop = false
	s.minDuration = minDuration
	return s
}

// WithText changes the caption without restarting the minimum duration.
func (s Spinner) WithText(text string) Spinner {
	s.text = text
	return s
}

func (s Spinner) Stop() (Spinner, tea.Cmd) {
	remaining := s.minDuration - time.Since(s.startedAt)
	if remaining <= 0 {
		s.visible = false
		s.pendingStop = false
		return s, nil
	}

	s.pendingStop = true
	return s, tea.Tick(remaining, func(time.Time) tea.Msg {
		return SpinnerMinDurationElapsedMsg{}
	})
}

func (s Spinner) HandleMinDurationElapsed() Spinner {
	if s.pendingStop {
		s.visible = false
		s.pendingStop = false
	}
	return s
}

func (s Spinner) Visible() bool {
	return s.visible
}

func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.visible {
		return s, nil
	}
	var cmd tea.Cmd
	s.model, cmd = s.model.Update(msg)
	return s, cmd
}

func (s Spinner) View() string {
	if !s.visible {
		return ""
	}
	return s.model.View() + " " + styles.Secondary.Render(s.text)
}

func (s Spinner) Tick() tea.Cmd {
	return s.model.Tick
}

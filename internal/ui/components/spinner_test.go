package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

func TestSpinner_StartStop(t *testing.T) {
	t.Parallel()

	s := NewSpinner()
	if s.Visible() {
		t.Fatal("expected spinner to be hidden initially")
	}

	s = s.Start("Waiting for worker", 0)
	if !s.Visible() {
		t.Fatal("expected spinner to be visible after Start")
	}

	s, cmd := s.Stop()
	if s.Visible() {
		t.Fatal("expected spinner to be hidden after Stop")
	}
	if cmd != nil {
		t.Fatal("expected no delayed stop without a minimum duration")
	}
}

func TestSpinner_StopHonoursMinDuration(t *testing.T) {
	t.Parallel()

	s := NewSpinner().Start("Waiting for worker", time.Hour)
	s, cmd := s.Stop()
	if !s.Visible() {
		t.Fatal("expected spinner to stay visible until the minimum duration elapses")
	}
	if cmd == nil {
		t.Fatal("expected a tick command for the delayed stop")
	}

	s = s.HandleMinDurationElapsed()
	if s.Visible() {
		t.Fatal("expected spinner to be hidden after the minimum duration")
	}
}

func TestSpinner_View(t *testing.T) {
	t.Parallel()

	s := NewSpinner()
	if s.View() != "" {
		t.Fatal("expected empty view when spinner is hidden")
	}

	s = s.Start("Loading", 0)
	if view := s.View(); !strings.Contains(view, "Loading") {
		t.Fatalf("expected view to contain 'Loading', got: %q", view)
	}
}

func TestSpinner_Update(t *testing.T) {
	t.Parallel()

	s := NewSpinner().Start("Loading", 0)
	_, cmd := s.Update(spinner.TickMsg{ID: 0})
	_ = cmd
}

func TestSpinner_WithTextKeepsRunning(t *testing.T) {
	t.Parallel()

	s := NewSpinner().Start("Waiting for worker", time.Hour).WithText("Connecting to worker")
	if !s.Visible() {
		t.Fatal("expected spinner to stay visible")
	}
	if !strings.Contains(s.View(), "Connecting to worker") {
		t.Fatalf("expected new caption, got: %q", s.View())
	}
	if _, cmd := s.Stop(); cmd == nil {
		t.Fatal("expected the original minimum duration to still apply")
	}
}

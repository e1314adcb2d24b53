package components

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/ozonewl/dhost/internal/output"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestChannelStatusView(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	c := NewChannelStatus()
	assert.Equal(t, c.View(), "○ disconnected · no worker")
	assert.Assert(t, !c.Connected())

	c = c.WithWorker(output.WorkerStatusEvent{Phase: "spawned", PID: 42})
	c = c.WithChannel(output.ChannelStatusEvent{State: "connecting", Pending: 3})
	assert.Equal(t, c.View(), "◐ connecting · worker pid 42 · 3 deferred")

	c = c.WithChannel(output.ChannelStatusEvent{State: "connected"})
	assert.Assert(t, c.Connected())
	assert.Assert(t, is.Contains(c.View(), "● connected"))

	c = c.WithWorker(output.WorkerStatusEvent{Phase: "exited", PID: 42})
	assert.Assert(t, is.Contains(c.View(), "no worker"))
}

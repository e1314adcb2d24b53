package components

import (
	"fmt"
	"strings"

	"github.com/ozonewl/dhost/internal/output"
	"github.com/ozonewl/dhost/internal/ui/styles"
)

// ChannelStatus is the one-line summary of channel and worker state.
type ChannelStatus struct {
	state   string
	pending int
	pid     int
}

func NewChannelStatus() ChannelStatus {
	return ChannelStatus{state: "disconnected"}
}

func (c ChannelStatus) WithChannel(e output.ChannelStatusEvent) ChannelStatus {
	c.state = e.State
	c.pending = e.Pending
	return c
}

func (c ChannelStatus) WithWorker(e output.WorkerStatusEvent) ChannelStatus {
	if e.Phase == "spawned" {
		c.pid = e.PID
	} else {
		c.pid = 0
	}
	return c
}

func (c ChannelStatus) Connected() bool {
	return c.state == "connected"
}

func (c ChannelStatus) View() string {
	var badge string
	switch c.state {
	case "connected":
		badge = styles.Connected.Render("● " + c.state)
	case "connecting":
		badge = styles.Connecting.Render("◐ " + c.state)
	default:
		badge = styles.Disconnected.Render("○ " + c.state)
	}

	parts := []string{badge}
	if c.pid > 0 {
		parts = append(parts, styles.Secondary.Render(fmt.Sprintf("worker pid %d", c.pid)))
	} else {
		parts = append(parts, styles.Secondary.Render("no worker"))
	}
	if c.pending > 0 {
		parts = append(parts, styles.Warning.Render(fmt.Sprintf("%d deferred", c.pending)))
	}
	return strings.Join(parts, styles.Secondary.Render(" · "))
}

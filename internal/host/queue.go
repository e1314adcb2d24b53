package host

import (
	"github.com/ozonewl/dhost/internal/fifo"
	"github.com/ozonewl/dhost/internal/message"
)

// DeferredQueue holds commands issued while no channel is connected. It is
// confined to the host's loop.
type DeferredQueue struct {
	q fifo.Queue[message.Message]
}

func (d *DeferredQueue) Push(msg message.Message) {
	d.q.Push(msg)
}

func (d *DeferredQueue) Pop() (message.Message, bool) {
	return d.q.Pop()
}

func (d *DeferredQueue) Len() int {
	return d.q.Len()
}

// Discard drops everything still queued and returns the count.
func (d *DeferredQueue) Discard() int {
	return d.q.Clear()
}

// Package channel declares the contracts between the channel host and the
// transport that carries messages to and from the worker process.
package channel

import (
	"context"
	"errors"

	"github.com/ozonewl/dhost/internal/message"
)

// ErrNoWorker is returned by a Locator when no worker process is running.
var ErrNoWorker = errors.New("no worker process available")

// Channel is a connected conduit to the worker. Send is fire-and-forget;
// false means the conduit is no longer usable.
type Channel interface {
	Send(ctx context.Context, msg message.Message) bool
}

// Filter is consulted by an Endpoint for every inbound message. All three
// callbacks run on the loop that owns the endpoint.
type Filter interface {
	// OnChannelAttached is called once when the filter is added.
	OnChannelAttached(ctx context.Context, ch Channel)
	// OnMessageReceived reports whether the filter consumed msg.
	OnMessageReceived(ctx context.Context, msg message.Message) bool
	// OnChannelClosing is called when the conduit goes away.
	OnChannelClosing(ctx context.Context)
}

// Endpoint is the host-side end of a worker's conduit.
type Endpoint interface {
	AddFilter(ctx context.Context, f Filter)
}

// Locator hands out the endpoint of the currently running worker.
type Locator interface {
	Endpoint(ctx context.Context) (Endpoint, error)
}

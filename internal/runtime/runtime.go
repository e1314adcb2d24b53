// Package runtime starts and stops worker processes and hands back the
// connection the display channel runs over.
package runtime

//go:generate mockgen -source=runtime.go -destination=mock_runtime.go -package=runtime

import (
	"context"
	"net"
)

// Environment variables a worker reads to find its end of the channel.
const (
	ChannelFDEnv   = "DHOST_CHANNEL_FD"
	ChannelAddrEnv = "DHOST_CHANNEL_ADDR"
)

// channelFD is the descriptor the exec runtime passes the child socket on:
// the first entry of ExtraFiles.
const channelFD = 3

type WorkerConfig struct {
	Name   string
	Binary string
	Args   []string
	Image  string
	Port   string
	Env    []string // e.g., ["KEY=value", "FOO=bar"]
}

// Handle identifies a started worker. Conn is the host's end of the channel
// and belongs to the caller once Start returns.
type Handle struct {
	ID   string
	PID  int
	Conn net.Conn
}

// Runtime abstracts how a worker is run (local process, container).
type Runtime interface {
	Healthy(ctx context.Context) error
	Start(ctx context.Context, config WorkerConfig) (*Handle, error)
	Wait(ctx context.Context, h *Handle) (int, error)
	Stop(ctx context.Context, h *Handle) error
	Logs(ctx context.Context, h *Handle, tail int) (string, error)
}

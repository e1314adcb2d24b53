package runtime

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
)

var ErrNoChannel = errors.New("no channel in environment: set " + ChannelFDEnv + " or " + ChannelAddrEnv)

// WorkerConn returns the worker's end of the channel as set up by one of the
// runtimes: an inherited descriptor or a port to accept a single connection
// on. getenv is usually os.Getenv.
func WorkerConn(ctx context.Context, getenv func(string) string) (net.Conn, error) {
	if v := getenv(ChannelFDEnv); v != "" {
		fd, err := strconv.Atoi(v)
		if err != nil || fd < 0 {
			return nil, fmt.Errorf("invalid %s %q", ChannelFDEnv, v)
		}
		f := os.NewFile(uintptr(fd), "dhost-channel")
		defer func() { _ = f.Close() }()
		conn, err := net.FileConn(f)
		if err != nil {
			return nil, fmt.Errorf("wrapping channel descriptor %d: %w", fd, err)
		}
		return conn, nil
	}
	if addr := getenv(ChannelAddrEnv); addr != "" {
		return acceptOne(ctx, addr)
	}
	return nil, ErrNoChannel
}

func acceptOne(ctx context.Context, addr string) (net.Conn, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}
	defer func() { _ = ln.Close() }()

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	conn, err := ln.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("accepting host connection: %w", err)
	}
	return conn, nil
}

package integration_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execConfig(statusAddr string) string {
	return fmt.Sprintf(`[worker]
runtime = 'exec'
restart = false

[output]
width = 640
height = 480

[status]
addr = '%s'

[[windows]]
title = 'main'
width = 200
height = 100
`, statusAddr)
}

func TestStartRunsWorkerAndShowsWindows(t *testing.T) {
	addr := freeAddr(t)
	host := startHost(t, writeConfig(t, execConfig(addr)))

	var st statusResponse
	require.Eventually(t, func() bool {
		var err error
		st, err = fetchStatus(addr)
		return err == nil && st.State == "connected"
	}, 15*time.Second, 100*time.Millisecond, "channel should connect\noutput:\n%s", host.output.String())

	require.NotNil(t, st.Worker)
	assert.Positive(t, st.Worker.PID)
	assert.Equal(t, 0, st.Pending)

	require.Eventually(t, func() bool {
		return strings.Contains(host.output.String(), "pointer entered widget 1 at 100,50")
	}, 10*time.Second, 50*time.Millisecond, "worker should answer the window being shown\noutput:\n%s", host.output.String())

	out := host.output.String()
	assert.Contains(t, out, "Worker spawned (pid")
	assert.Contains(t, out, "output size 640x480")

	require.NoError(t, host.interrupt(t), "output:\n%s", host.output.String())
}

func TestStatusEndpointPortInUse(t *testing.T) {
	addr := freeAddr(t)
	first := startHost(t, writeConfig(t, execConfig(addr)))
	require.Eventually(t, func() bool {
		_, err := fetchStatus(addr)
		return err == nil
	}, 15*time.Second, 100*time.Millisecond)

	second := startHost(t, writeConfig(t, execConfig(addr)))
	select {
	case err := <-second.done:
		second.done <- err
		require.Error(t, err)
		assert.Contains(t, second.output.String(), "already in use")
	case <-time.After(15 * time.Second):
		t.Fatal("second host should refuse to start")
	}

	require.NoError(t, first.interrupt(t))
}

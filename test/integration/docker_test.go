package integration_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/ozonewl/dhost/test/integration/env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const containerName = "dhost-integration-worker"

func TestStartWithDockerRuntime(t *testing.T) {
	requireDocker(t)
	image := env.Require(t, env.WorkerImage)

	cleanup()
	t.Cleanup(cleanup)

	addr := freeAddr(t)
	host := startHost(t, writeConfig(t, fmt.Sprintf(`[worker]
runtime = 'docker'
name = '%s'
image = '%s'
restart = false

[status]
addr = '%s'
`, containerName, image, addr)))

	require.Eventually(t, func() bool {
		st, err := fetchStatus(addr)
		return err == nil && st.State == "connected"
	}, 2*time.Minute, 250*time.Millisecond, "channel should connect\noutput:\n%s", host.output.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	inspect, err := dockerClient.ContainerInspect(ctx, containerName)
	require.NoError(t, err, "failed to inspect container")
	assert.True(t, inspect.State.Running, "container should be running")

	require.NoError(t, host.interrupt(t), "output:\n%s", host.output.String())

	_, err = dockerClient.ContainerInspect(ctx, containerName)
	assert.Error(t, err, "container should be removed on exit")
}

func cleanup() {
	ctx := context.Background()
	_ = dockerClient.ContainerStop(ctx, containerName, container.StopOptions{})
	_ = dockerClient.ContainerRemove(ctx, containerName, container.RemoveOptions{Force: true})
}

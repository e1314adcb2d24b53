package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"
	"go.uber.org/zap"
)

const (
	defaultChannelPort = "7420"
	dialTimeout        = 30 * time.Second
)

// DockerRuntime runs the worker as a container. The worker listens on its
// channel port inside the container; the port is published on loopback and
// the host dials it.
type DockerRuntime struct {
	client *client.Client
	logger *zap.Logger
}

func NewDockerRuntime(logger *zap.Logger) (*DockerRuntime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DockerRuntime{client: cli, logger: logger.Named("runtime.docker")}, nil
}

func (d *DockerRuntime) Healthy(ctx context.Context) error {
	if _, err := d.client.Ping(ctx); err != nil {
		return fmt.Errorf("docker not reachable: %w", err)
	}
	return nil
}

func (d *DockerRuntime) Start(ctx context.Context, config WorkerConfig) (*Handle, error) {
	if config.Image == "" {
		return nil, errors.New("docker runtime needs a worker image")
	}
	portNum := config.Port
	if portNum == "" {
		portNum = defaultChannelPort
	}
	port := nat.Port(portNum + "/tcp")

	// A container left over from an earlier run would hold the name.
	if config.Name != "" {
		err := d.client.ContainerRemove(ctx, config.Name, container.RemoveOptions{Force: true})
		if err != nil && !errdefs.IsNotFound(err) {
			return nil, fmt.Errorf("removing stale container %s: %w", config.Name, err)
		}
	}
	if err := d.ensureImage(ctx, config.Image); err != nil {
		return nil, err
	}

	env := append([]string{}, config.Env...)
	env = append(env, ChannelAddrEnv+"=:"+portNum)
	resp, err := d.client.ContainerCreate(ctx,
		&container.Config{
			Image:        config.Image,
			Cmd:          config.Args,
			ExposedPorts: nat.PortSet{port: struct{}{}},
			Env:          env,
		},
		&container.HostConfig{
			PortBindings: nat.PortMap{port: []nat.PortBinding{{HostIP: "127.0.0.1"}}},
		},
		nil, nil, config.Name,
	)
	if err != nil {
		return nil, fmt.Errorf("creating worker container: %w", err)
	}
	if err := d.client.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return nil, fmt.Errorf("starting worker container: %w", err)
	}

	inspect, err := d.client.ContainerInspect(ctx, resp.ID)
	if err != nil {
		return nil, fmt.Errorf("inspecting worker container: %w", err)
	}
	bindings := inspect.NetworkSettings.Ports[port]
	if len(bindings) == 0 {
		return nil, fmt.Errorf("worker container %s published no port for %s", shortID(resp.ID), port)
	}
	addr := net.JoinHostPort("127.0.0.1", bindings[0].HostPort)

	conn, err := d.dial(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to worker container %s: %w", shortID(resp.ID), err)
	}
	d.logger.Debug("worker container started", zap.String("id", shortID(resp.ID)), zap.String("addr", addr))
	return &Handle{ID: resp.ID, PID: inspect.State.Pid, Conn: conn}, nil
}

func (d *DockerRuntime) ensureImage(ctx context.Context, ref string) error {
	_, err := d.client.ImageInspect(ctx, ref)
	if err == nil {
		return nil
	}
	if !errdefs.IsNotFound(err) {
		return fmt.Errorf("inspecting image %s: %w", ref, err)
	}

	d.logger.Info("pulling worker image", zap.String("image", ref))
	reader, err := d.client.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("pulling image %s: %w", ref, err)
	}
	defer func() {
		if err := reader.Close(); err != nil {
			d.logger.Debug("failed to close image pull reader", zap.Error(err))
		}
	}()

	decoder := json.NewDecoder(reader)
	for {
		var msg struct {
			Status string `json:"status"`
			ID     string `json:"id"`
			Error  string `json:"error"`
		}
		if err := decoder.Decode(&msg); err == io.EOF {
			return nil
		} else if err != nil {
			return fmt.Errorf("reading pull progress: %w", err)
		}
		if msg.Error != "" {
			return fmt.Errorf("image pull failed: %s", msg.Error)
		}
		d.logger.Debug("pull", zap.String("layer", msg.ID), zap.String("status", msg.Status))
	}
}

// dial retries until the worker inside the container starts listening.
func (d *DockerRuntime) dial(ctx context.Context, addr string) (net.Conn, error) {
	var dialer net.Dialer
	return backoff.Retry(ctx, func() (net.Conn, error) {
		return dialer.DialContext(ctx, "tcp", addr)
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(dialTimeout),
	)
}

func (d *DockerRuntime) Wait(ctx context.Context, h *Handle) (int, error) {
	statusCh, errCh := d.client.ContainerWait(ctx, h.ID, container.WaitConditionNotRunning)
	select {
	case status := <-statusCh:
		if status.Error != nil && status.Error.Message != "" {
			return int(status.StatusCode), fmt.Errorf("waiting for worker container: %s", status.Error.Message)
		}
		return int(status.StatusCode), nil
	case err := <-errCh:
		return -1, fmt.Errorf("waiting for worker container: %w", err)
	}
}

// Stop stops and removes the container. A container that is already gone is
// not an error.
func (d *DockerRuntime) Stop(ctx context.Context, h *Handle) error {
	if err := d.client.ContainerStop(ctx, h.ID, container.StopOptions{}); err != nil {
		if errdefs.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("stopping worker container: %w", err)
	}
	if err := d.client.ContainerRemove(ctx, h.ID, container.RemoveOptions{}); err != nil && !errdefs.IsNotFound(err) {
		return fmt.Errorf("removing worker container: %w", err)
	}
	return nil
}

func (d *DockerRuntime) Logs(ctx context.Context, h *Handle, tail int) (string, error) {
	options := container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       "50",
	}
	if tail > 0 {
		options.Tail = strconv.Itoa(tail)
	}

	reader, err := d.client.ContainerLogs(ctx, h.ID, options)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			d.logger.Debug("failed to close logs reader", zap.Error(err))
		}
	}()

	var out strings.Builder
	if _, err := stdcopy.StdCopy(&out, &out, reader); err != nil {
		return "", err
	}
	return out.String(), nil
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

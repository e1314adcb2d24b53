package runtime

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const helperEnv = "DHOST_RUNTIME_TEST_HELPER"

// TestMain doubles as the worker binary: with helperEnv set the test
// executable echoes lines from its channel until told to exit.
func TestMain(m *testing.M) {
	if os.Getenv(helperEnv) == "1" {
		os.Exit(echoWorker())
	}
	os.Exit(m.Run())
}

func echoWorker() int {
	conn, err := WorkerConn(context.Background(), os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	defer func() { _ = conn.Close() }()
	fmt.Fprintln(os.Stderr, "worker ready")

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "exit" {
			return 7
		}
		if _, err := fmt.Fprintln(conn, "echo "+line); err != nil {
			return 3
		}
	}
	return 0
}

func startHelper(t *testing.T) (*ExecRuntime, *Handle) {
	t.Helper()
	self, err := os.Executable()
	require.NoError(t, err)
	rt, err := NewExecRuntime(self, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, rt.Healthy(context.Background()))

	h, err := rt.Start(context.Background(), WorkerConfig{Env: []string{helperEnv + "=1"}})
	require.NoError(t, err)
	require.NotNil(t, h.Conn)
	assert.Positive(t, h.PID)
	return rt, h
}

func TestExecRuntimeChannelRoundTrip(t *testing.T) {
	rt, h := startHelper(t)
	defer func() { _ = h.Conn.Close() }()

	_, err := fmt.Fprintln(h.Conn, "hello")
	require.NoError(t, err)
	reply, err := bufio.NewReader(h.Conn).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "echo hello\n", reply)

	_, err = io.WriteString(h.Conn, "exit\n")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	code, err := rt.Wait(ctx, h)
	require.NoError(t, err)
	assert.Equal(t, 7, code)

	logs, err := rt.Logs(ctx, h, 5)
	require.NoError(t, err)
	assert.Contains(t, logs, "worker ready")

	require.NoError(t, rt.Stop(ctx, h))
	_, err = rt.Logs(ctx, h, 5)
	assert.Error(t, err)
}

func TestExecRuntimeStopTerminatesWorker(t *testing.T) {
	rt, h := startHelper(t)
	defer func() { _ = h.Conn.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, rt.Stop(ctx, h))

	_, err := rt.Wait(ctx, h)
	assert.Error(t, err, "handle is released by Stop")
}

func TestExecRuntimeHealthyMissingBinary(t *testing.T) {
	rt, err := NewExecRuntime("/nonexistent/dhost-worker", nil)
	require.NoError(t, err)
	assert.Error(t, rt.Healthy(context.Background()))
}

func TestWorkerConnWithoutEnvironment(t *testing.T) {
	_, err := WorkerConn(context.Background(), func(string) string { return "" })
	assert.ErrorIs(t, err, ErrNoChannel)
}

func TestWorkerConnAcceptHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := WorkerConn(ctx, func(k string) string {
		if k == ChannelAddrEnv {
			return "127.0.0.1:0"
		}
		return ""
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTailBufferKeepsLastLines(t *testing.T) {
	b := newTailBuffer(16)
	_, _ = b.Write([]byte("one\ntwo\n"))
	_, _ = b.Write([]byte("three\nfour\n"))

	assert.Equal(t, "three\nfour", b.Lines(2))
	assert.NotContains(t, b.Lines(0), "one")
	assert.Equal(t, "", newTailBuffer(8).Lines(3))
}

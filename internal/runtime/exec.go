package runtime

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

const (
	stderrTail  = 64 << 10
	stopTimeout = 5 * time.Second
)

// ExecRuntime runs the worker as a child process. The channel is one end of
// a socketpair, inherited by the child as descriptor 3.
type ExecRuntime struct {
	binary string
	logger *zap.Logger

	mu    sync.Mutex
	procs map[string]*execProc
}

type execProc struct {
	cmd    *exec.Cmd
	stderr *tailBuffer
	done   chan struct{}
	code   int
	err    error
}

// NewExecRuntime returns a runtime that starts binary when a WorkerConfig
// names none. An empty binary means the running executable.
func NewExecRuntime(binary string, logger *zap.Logger) (*ExecRuntime, error) {
	if binary == "" {
		self, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("locating own executable: %w", err)
		}
		binary = self
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecRuntime{
		binary: binary,
		logger: logger.Named("runtime.exec"),
		procs:  make(map[string]*execProc),
	}, nil
}

func (r *ExecRuntime) Healthy(context.Context) error {
	if _, err := exec.LookPath(r.binary); err != nil {
		return fmt.Errorf("worker binary: %w", err)
	}
	return nil
}

func (r *ExecRuntime) Start(ctx context.Context, config WorkerConfig) (*Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	binary := config.Binary
	if binary == "" {
		binary = r.binary
	}

	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, fmt.Errorf("creating channel socketpair: %w", err)
	}
	unix.CloseOnExec(fds[0])
	unix.CloseOnExec(fds[1])
	local := os.NewFile(uintptr(fds[0]), "dhost-channel")
	remote := os.NewFile(uintptr(fds[1]), "dhost-channel-worker")
	defer func() { _ = remote.Close() }()

	// Not CommandContext: ctx bounds the start, not the worker's lifetime.
	cmd := exec.Command(binary, config.Args...)
	cmd.ExtraFiles = []*os.File{remote}
	cmd.Env = append(os.Environ(), config.Env...)
	cmd.Env = append(cmd.Env, ChannelFDEnv+"="+strconv.Itoa(channelFD))
	stderr := newTailBuffer(stderrTail)
	cmd.Stdout = stderr
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		_ = local.Close()
		return nil, fmt.Errorf("starting %s: %w", binary, err)
	}

	conn, err := net.FileConn(local)
	_ = local.Close()
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, fmt.Errorf("wrapping channel socket: %w", err)
	}

	p := &execProc{cmd: cmd, stderr: stderr, done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.err = cmd.Wait()
		p.code = cmd.ProcessState.ExitCode()
	}()

	h := &Handle{ID: strconv.Itoa(cmd.Process.Pid), PID: cmd.Process.Pid, Conn: conn}
	r.mu.Lock()
	r.procs[h.ID] = p
	r.mu.Unlock()

	r.logger.Debug("worker started", zap.String("binary", binary), zap.Int("pid", h.PID))
	return h, nil
}

func (r *ExecRuntime) proc(h *Handle) (*execProc, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.procs[h.ID]
	if !ok {
		return nil, fmt.Errorf("unknown worker %s", h.ID)
	}
	return p, nil
}

// Wait blocks until the worker exits and returns its exit code, which is -1
// when it was killed by a signal.
func (r *ExecRuntime) Wait(ctx context.Context, h *Handle) (int, error) {
	p, err := r.proc(h)
	if err != nil {
		return -1, err
	}
	select {
	case <-p.done:
	case <-ctx.Done():
		return -1, ctx.Err()
	}

	var exitErr *exec.ExitError
	if p.err != nil && !errors.As(p.err, &exitErr) {
		return -1, p.err
	}
	return p.code, nil
}

// Stop asks the worker to terminate and kills it if it is still running
// after a grace period. The handle is unusable afterwards.
func (r *ExecRuntime) Stop(ctx context.Context, h *Handle) error {
	p, err := r.proc(h)
	if err != nil {
		return err
	}
	defer func() {
		r.mu.Lock()
		delete(r.procs, h.ID)
		r.mu.Unlock()
	}()
	select {
	case <-p.done:
		return nil
	default:
	}

	if err := p.cmd.Process.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("signalling worker %d: %w", h.PID, err)
	}
	timer := time.NewTimer(stopTimeout)
	defer timer.Stop()
	select {
	case <-p.done:
		return nil
	case <-timer.C:
	case <-ctx.Done():
	}
	r.logger.Warn("worker ignored SIGTERM, killing", zap.Int("pid", h.PID))
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("killing worker %d: %w", h.PID, err)
	}
	<-p.done
	return nil
}

func (r *ExecRuntime) Logs(_ context.Context, h *Handle, tail int) (string, error) {
	p, err := r.proc(h)
	if err != nil {
		return "", err
	}
	return p.stderr.Lines(tail), nil
}

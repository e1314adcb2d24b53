// Package session wires the channel loop, the worker supervisor, the host
// and its widgets together and runs them until the context ends.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ozonewl/dhost/internal/config"
	"github.com/ozonewl/dhost/internal/host"
	"github.com/ozonewl/dhost/internal/loop"
	"github.com/ozonewl/dhost/internal/output"
	"github.com/ozonewl/dhost/internal/process"
	"github.com/ozonewl/dhost/internal/runtime"
	"github.com/ozonewl/dhost/internal/status"
	"github.com/ozonewl/dhost/internal/widget"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultWatchInterval = 250 * time.Millisecond

type Options struct {
	Config  *config.Config
	Runtime runtime.Runtime
	Sink    output.Sink
	Logger  *zap.Logger

	// PointerMotion forwards motion events to Sink.
	PointerMotion bool
	// WatchInterval is how often the channel state is polled for Sink.
	WatchInterval time.Duration
}

type Session struct {
	cfg    *config.Config
	sink   output.Sink
	logger *zap.Logger
	watch  time.Duration

	loop       *loop.Loop
	supervisor *process.Supervisor
	host       *host.Host
	widgets    *widget.Manager
}

// relay lets the host be built before the sinks that need the host.
type relay struct {
	host.EventSink
}

func New(opts Options) (*Session, error) {
	if opts.Config == nil || opts.Runtime == nil {
		return nil, errors.New("session: Config and Runtime are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	watch := opts.WatchInterval
	if watch <= 0 {
		watch = defaultWatchInterval
	}
	cfg := opts.Config

	l := loop.New("channel", logger)
	workerType := process.Type(cfg.Worker.Type)
	sup := process.NewSupervisor(opts.Runtime, l, process.SupervisorConfig{
		Worker:     WorkerConfig(cfg.Worker),
		Type:       workerType,
		Restart:    cfg.Worker.Restart,
		MaxBackoff: cfg.Worker.MaxBackoff,
	}, logger)

	r := &relay{EventSink: host.NopSink{}}
	h := host.New(host.Options{
		Loop:       l,
		Locator:    sup,
		Processes:  sup,
		Sink:       r,
		WorkerType: workerType,
		Logger:     logger,
	})
	widgets := widget.NewManager(h, logger)
	r.EventSink = host.Tee(widgets, output.NewDispatcher(opts.Sink, opts.PointerMotion))

	return &Session{
		cfg:        cfg,
		sink:       opts.Sink,
		logger:     logger.Named("session"),
		watch:      watch,
		loop:       l,
		supervisor: sup,
		host:       h,
		widgets:    widgets,
	}, nil
}

// WorkerConfig maps the worker section of the config onto what a Runtime
// needs to start one.
func WorkerConfig(c config.WorkerConfig) runtime.WorkerConfig {
	return runtime.WorkerConfig{
		Name:   c.Name,
		Binary: c.Binary,
		Args:   c.Args,
		Image:  c.Image,
		Port:   c.Port,
		Env:    c.Env,
	}
}

// NewRuntime builds the runtime selected by c.Runtime.
func NewRuntime(c config.WorkerConfig, logger *zap.Logger) (runtime.Runtime, error) {
	switch c.Runtime {
	case "", "exec":
		return runtime.NewExecRuntime(c.Binary, logger)
	case "docker":
		return runtime.NewDockerRuntime(logger)
	default:
		return nil, fmt.Errorf("unknown worker runtime %q", c.Runtime)
	}
}

func (s *Session) Host() *host.Host                { return s.host }
func (s *Session) Widgets() *widget.Manager        { return s.widgets }
func (s *Session) Supervisor() *process.Supervisor { return s.supervisor }

// Run starts the loop, supervises the worker, opens the configured windows
// and serves the status endpoint if one is configured. It returns when ctx
// is cancelled or the worker stops for good; the host is torn down before
// the loop stops.
func (s *Session) Run(ctx context.Context) error {
	loopCtx, stopLoop := context.WithCancel(context.WithoutCancel(ctx))
	loopErr := make(chan error, 1)
	go func() { loopErr <- s.loop.Run(loopCtx) }()

	removeObserver := s.supervisor.AddObserver(output.ProcessObserver(s.sink))
	defer removeObserver()

	s.openWindows(ctx)

	g, gctx := errgroup.WithContext(ctx)
	gctx, cancel := context.WithCancel(gctx)
	defer cancel()

	g.Go(func() error {
		defer cancel()
		return s.supervisor.Run(gctx)
	})
	if addr := s.cfg.Status.Addr; addr != "" {
		g.Go(func() error {
			return status.Serve(gctx, addr, status.NewHandler(s.host, s.supervisor), s.logger)
		})
	}
	g.Go(func() error {
		s.watchChannel(gctx)
		return nil
	})

	err := g.Wait()
	if shutdownErr := s.shutdown(); err == nil {
		err = shutdownErr
	}

	stopLoop()
	if lerr := <-loopErr; err == nil {
		err = lerr
	}
	return err
}

func (s *Session) openWindows(ctx context.Context) {
	for _, w := range s.cfg.Windows {
		id := s.widgets.Open(ctx, widget.Spec{
			Title:      w.Title,
			Type:       w.WidgetType(),
			Width:      w.Width,
			Height:     w.Height,
			Fullscreen: w.Fullscreen,
		})
		s.logger.Debug("opened configured window", zap.Uint32("widget", id), zap.String("title", w.Title))
	}
}

func (s *Session) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if dropped, err := s.host.DropDeferred(ctx); err != nil {
		return fmt.Errorf("draining host: %w", err)
	} else if dropped > 0 {
		output.EmitWarning(s.sink, fmt.Sprintf("%d commands were never delivered", dropped))
	}
	if err := s.host.Close(ctx); err != nil {
		return fmt.Errorf("closing host: %w", err)
	}
	return nil
}

// watchChannel reports channel state changes on the sink.
func (s *Session) watchChannel(ctx context.Context) {
	ticker := time.NewTicker(s.watch)
	defer ticker.Stop()

	last := host.Status{State: -1}
	report := func() {
		st := s.host.Status()
		if st.State == last.State && st.Pending == last.Pending {
			return
		}
		last = st
		output.EmitChannelStatus(s.sink, st.State.String(), st.Pending)
	}

	report()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report()
		}
	}
}

package ui

import (
	"context"
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ozonewl/dhost/internal/output"
	"golang.org/x/term"
)

type programSender struct {
	p *tea.Program
}

func (s programSender) Send(msg any) {
	if s.p == nil {
		return
	}
	s.p.Send(msg)
}

// RunFunc is the work shown by the UI. It reports progress on sink and
// returns when ctx is cancelled or it fails.
type RunFunc func(ctx context.Context, sink output.Sink) error

// Run shows the live view while fn runs. Quitting the view cancels fn.
func Run(parentCtx context.Context, version string, fn RunFunc) error {
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	app := NewApp(version, cancel)
	p := tea.NewProgram(app, tea.WithContext(ctx))
	runErrCh := make(chan error, 1)

	go func() {
		var err error
		defer func() { runErrCh <- err }()
		err = fn(ctx, output.NewTUISink(programSender{p: p}))
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			p.Send(runErrMsg{err: err})
			return
		}
		p.Send(runDoneMsg{})
	}()

	model, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	cancel()

	runErr := <-runErrCh
	if app, ok := model.(App); ok && app.Err() != nil && !errors.Is(app.Err(), context.Canceled) {
		return app.Err()
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

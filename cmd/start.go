package cmd

import (
	"context"
	"fmt"

	"github.com/ozonewl/dhost/internal/config"
	"github.com/ozonewl/dhost/internal/output"
	"github.com/ozonewl/dhost/internal/ports"
	"github.com/ozonewl/dhost/internal/session"
	"github.com/ozonewl/dhost/internal/telemetry"
	"github.com/ozonewl/dhost/internal/ui"
	"github.com/ozonewl/dhost/internal/version"
	"github.com/spf13/cobra"
)

var pointerMotion bool

var startCmd = &cobra.Command{
	Use:     "start",
	Short:   "Start the worker and the display channel",
	Long:    "Start the display worker, open the configured windows and report worker events until interrupted.",
	GroupID: groupChannel,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStart(cmd.Context(), cmd)
	},
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, startCmd} {
		c.Flags().BoolVar(&pointerMotion, "motion", false, "Also report pointer motion events")
	}
}

func runStart(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := config.Get()
	if err != nil {
		return err
	}

	shutdown, err := telemetry.Init(ctx, cfg.Telemetry.Endpoint, version.Version())
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(context.WithoutCancel(ctx)) }()

	if cfg.Status.Addr != "" {
		if err := ports.CheckAvailable(cfg.Status.Addr); err != nil {
			return fmt.Errorf("status endpoint: %w", err)
		}
	}

	rt, err := session.NewRuntime(cfg.Worker, logger)
	if err != nil {
		return err
	}

	run := func(ctx context.Context, sink output.Sink) error {
		s, err := session.New(session.Options{
			Config:        cfg,
			Runtime:       rt,
			Sink:          sink,
			Logger:        logger,
			PointerMotion: pointerMotion,
		})
		if err != nil {
			return err
		}
		output.EmitInfo(sink, fmt.Sprintf("Starting %s worker %q", cfg.Worker.Runtime, cfg.Worker.Name))
		if err := s.Run(ctx); err != nil {
			return output.Fail(sink, "Display channel stopped", err)
		}
		return nil
	}

	if ui.IsInteractive() {
		return ui.Run(ctx, version.Version(), run)
	}
	return run(ctx, output.NewPlainSink(cmd.OutOrStdout()))
}

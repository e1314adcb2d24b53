package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/ozonewl/dhost/internal/config"
	"github.com/ozonewl/dhost/internal/env"
	"github.com/ozonewl/dhost/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose bool
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "dhost",
	Short: "Display channel host",
	Long:  "dhost runs a display worker and keeps a command channel to it open across restarts.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		env.Init()
		if env.Vars.NoColor {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
		if err := config.Init(); err != nil {
			return err
		}
		l, err := newLogger(cmd, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStart(cmd.Context(), cmd)
	},
}

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.Version = version.Version()
	rootCmd.SetVersionTemplate(version.Line() + "\n")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")
	rootCmd.AddCommand(startCmd, workerCmd, configCmd, versionCmd)
	configureHelp(rootCmd)
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

package cmd

import (
	"fmt"

	"github.com/ozonewl/dhost/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Manage configuration",
	GroupID: groupSetup,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := config.ConfigFilePath()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), configPath)
		return err
	},
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and summarize the worker setup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Get()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		target := cfg.Worker.Binary
		if cfg.Worker.Runtime == "docker" {
			target = cfg.Worker.Image
		}
		if target == "" {
			target = "(self)"
		}
		_, err = fmt.Fprintf(out, "worker: %s %s %s (restart %t)\noutput: %dx%d\nwindows: %d\n",
			cfg.Worker.Runtime, cfg.Worker.Name, target, cfg.Worker.Restart,
			cfg.Output.Width, cfg.Output.Height, len(cfg.Windows))
		return err
	},
}

func init() {
	configCmd.AddCommand(configPathCmd, configCheckCmd)
}

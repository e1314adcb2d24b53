package cmd

import (
	"os"

	"github.com/ozonewl/dhost/internal/config"
	"github.com/ozonewl/dhost/internal/message"
	"github.com/ozonewl/dhost/internal/runtime"
	"github.com/ozonewl/dhost/internal/worker"
	"github.com/spf13/cobra"
)

// workerCmd is what the exec runtime starts by default.
var workerCmd = &cobra.Command{
	Use:     "worker",
	Short:   "Run the reference display worker",
	Hidden:  true,
	GroupID: groupChannel,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Get()
		if err != nil {
			return err
		}
		conn, err := runtime.WorkerConn(cmd.Context(), os.Getenv)
		if err != nil {
			return err
		}
		peer := worker.NewPeer(conn, worker.Config{
			Output: message.OutputSize{Width: cfg.Output.Width, Height: cfg.Output.Height},
		}, logger)
		return peer.Run(cmd.Context())
	},
}

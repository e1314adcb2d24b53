package cmd

import (
	"fmt"

	"github.com/ozonewl/dhost/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Print the dhost version",
	Long:    "Print version information for the dhost binary.",
	GroupID: groupSetup,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Line())
		return err
	},
}

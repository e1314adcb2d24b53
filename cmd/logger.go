package cmd

import (
	"os"
	"path/filepath"

	"github.com/ozonewl/dhost/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const logFileName = "dhost.log"

// newLogger builds the process logger. The live view owns the terminal, so
// while it runs logs go to a file in the temp dir instead of stderr.
func newLogger(cmd *cobra.Command, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else if level, err := zapcore.ParseLevel(viper.GetString("log.level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(level)
	}
	if ownsTerminal(cmd) {
		path := filepath.Join(os.TempDir(), logFileName)
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
	}
	return cfg.Build()
}

func ownsTerminal(cmd *cobra.Command) bool {
	if cmd.HasParent() && cmd.Name() != "start" {
		return false
	}
	return ui.IsInteractive()
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"transmute/core/environment"
	"transmute/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags shared by every command
	configDir string
	logOutput string
	verbose   bool
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "transmute",
	Short: "Synchronize records between two GIS feature layers",
	Long: `Transmute reconciles a destination feature layer with a source feature layer.

Each destination record carries the object id of the source record it was copied from
in a reference field. A sync adds new source records, updates linked records and deletes
destination records whose source record no longer exists.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := RootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		// Use the application's standard logger for error reporting
		// We default to console format to match user expectations (CLI tool)
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory holding the .env file")
	RootCmd.PersistentFlags().StringVarP(&logOutput, "output", "o", "", "Logger output path (receives every level)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print all staged edits to console")
}

// newEnvironment builds the environment from the shared flags plus the given overrides.
func newEnvironment(o environment.Overrides) *environment.Environment {
	o.ConfigDir = configDir
	o.LogOutput = logOutput
	o.Verbose = verbose
	return environment.New(o)
}

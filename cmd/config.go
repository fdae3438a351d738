package cmd

import (
	"fmt"

	"transmute/core/config"

	"github.com/spf13/cobra"
)

// configCmd is the parent command for job file helpers.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage job files",
}

// configInitCmd writes a sample job file.
var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a sample job file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "job.yml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.WriteSampleJob(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample job to %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	RootCmd.AddCommand(configCmd)
}

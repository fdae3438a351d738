package cmd

import (
	"fmt"

	"transmute/core/environment"
	"transmute/feature/restore"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for restore command
	restorePaths []string
)

// restoreCmd adds the features of backup files back to the layers they were taken from.
var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore features from backup files",
	Long: `Read backups written by sync and add their features back to the layer recorded in each
backup. Features still present on the layer are skipped. Paths may be local files or
s3://bucket/key objects when object storage is configured.

Examples:
  transmute restore -r ./backups/1b4e...-parcels.json.bak
  transmute restore -r a.json.bak -r s3://transmute-backups/backups/b.json.bak`,
	RunE: runRestore,
}

func init() {
	restoreCmd.Flags().StringSliceVarP(&restorePaths, "restore", "r", nil, "Paths to backups")
	addPortalFlags(restoreCmd)
	_ = restoreCmd.MarkFlagRequired("restore")

	RootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) error {
	env := newEnvironment(environment.Overrides{
		PortalURL: portalURL,
		Username:  username,
		Password:  password,
	})
	defer env.Close()

	l, err := env.Logger()
	if err != nil {
		return err
	}

	session, err := env.Session()
	if err != nil {
		return err
	}

	backups, err := env.Backups()
	if err != nil {
		return err
	}

	outcomes, err := restore.NewService(session, backups, l).Run(cmd.Context(), restorePaths)
	for _, out := range outcomes {
		l.Info("Backup restored",
			zap.String("path", out.Path),
			zap.String("layer", out.Layer),
			zap.Int("skipped", out.Skipped),
			zap.Int("succeeded", out.Tally.Succeeded),
			zap.Int("failed", out.Tally.Failed),
		)
	}
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	return nil
}

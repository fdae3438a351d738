package cmd

import (
	"fmt"

	"transmute/core/environment"
	"transmute/feature/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for sync command
	jobPath   string
	backupDir string
	dryRun    bool
	username  string
	password  string
	portalURL string
)

// syncCmd runs one source to destination sync described by a job file.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync a destination layer with a source layer",
	Long: `Fetch the source and destination layers named in the job file, validate that their
schemas match, and submit the adds, updates and deletes that bring the destination in line
with the source.

Examples:
  # Sync with credentials from the environment
  transmute sync -c job.yml

  # Keep a backup of the destination and log everything to a file
  transmute sync -c job.yml -b ./backups -o sync.log -v

  # Show what would change without submitting anything
  transmute sync -c job.yml --dry-run`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVarP(&jobPath, "configuration", "c", "", "Job file describing the source and destination layers")
	syncCmd.Flags().StringVarP(&backupDir, "backup", "b", "", "Directory where backups will be written")
	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute the edits without submitting them")
	addPortalFlags(syncCmd)
	_ = syncCmd.MarkFlagRequired("configuration")

	RootCmd.AddCommand(syncCmd)
}

// addPortalFlags registers the portal connection overrides on cmd.
func addPortalFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&username, "username", "u", "", "Portal username (case-sensitive)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Portal password (case-sensitive)")
	cmd.Flags().StringVarP(&portalURL, "gis", "g", "", "Portal url")
}

func runSync(cmd *cobra.Command, args []string) error {
	env := newEnvironment(environment.Overrides{
		JobPath:   jobPath,
		BackupDir: backupDir,
		PortalURL: portalURL,
		Username:  username,
		Password:  password,
	})
	defer env.Close()

	// Validate the job before anything touches the network
	job, err := env.Job()
	if err != nil {
		return err
	}

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

	recorder, err := env.History()
	if err != nil {
		return err
	}

	svc := sync.NewService(session, backups, recorder, l)
	out, err := svc.Run(cmd.Context(), job, sync.Options{DryRun: dryRun, Verbose: verbose})
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	fields := []zap.Field{
		zap.String("source", out.Source),
		zap.String("destination", out.Destination),
		zap.Int("adds", out.Counts.Adds),
		zap.Int("updates", out.Counts.Updates),
		zap.Int("deletes", out.Counts.Deletes),
	}
	if out.BackupPath != "" {
		fields = append(fields, zap.String("backup", out.BackupPath))
	}
	l.Info("Sync complete", fields...)
	return nil
}

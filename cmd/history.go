package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"transmute/core/environment"

	"github.com/spf13/cobra"
)

var (
	// Flags for history command
	historyLimit int
)

// historyCmd lists recorded sync runs.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent sync runs",
	Long: `List the sync runs recorded in the history database, newest first.
Requires DATABASE_ENABLED=true.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to show (0 for all)")

	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	env := newEnvironment(environment.Overrides{})
	defer env.Close()

	repo, err := env.HistoryRepository()
	if err != nil {
		return err
	}

	runs, err := repo.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tSTATUS\tDESTINATION\tADDS\tUPDATES\tDELETES\tFAILED\tDURATION")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			r.StartedAt.Local().Format(time.DateTime),
			r.Status,
			r.DestinationLayer,
			r.Adds, r.Updates, r.Deletes,
			r.AddsFailed+r.UpdatesFailed+r.DeletesFailed,
			r.Duration().Round(time.Millisecond),
		)
	}
	return w.Flush()
}

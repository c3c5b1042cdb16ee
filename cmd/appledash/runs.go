package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/appledash/internal/storage"
)

var flagRunsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Long: `Display the most recent recorded input journals.

Runs are recorded with 'appledash play --record'. Only inputs are stored;
use 'appledash replay <id>' to recompute a run's score.

Examples:
  appledash runs
  appledash runs --limit 50`,
	Args: cobra.NoArgs,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 20, "Number of runs to show")
}

func runRuns(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(flagRunsLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play with 'appledash play --record' to record one.")
		return nil
	}

	fmt.Printf("  %-5s  %-16s  %-8s  %-8s  %-8s  %s\n", "ID", "Started", "Mode", "Engine", "Length", "Events")
	fmt.Printf("  %-5s  %-16s  %-8s  %-8s  %-8s  %s\n", "--", "-------", "----", "------", "------", "------")

	for _, r := range runs {
		fmt.Printf("  %-5d  %-16s  %-8s  %-8s  %-8s  %d\n",
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.Mode,
			r.Engine,
			r.Duration().Round(100*time.Millisecond).String(),
			r.EventCount,
		)
	}
	return nil
}

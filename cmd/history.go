package cmd

import (
	"fmt"
	"os"

	"github.com/gordyrad/notereport/internal/store"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent generation runs",
	Long: `Lists the most recent report generation runs recorded in the run-history
database, newest first. Requires a configured database path.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	checkConfig()

	if cfg.DBPath == "" {
		fmt.Fprintln(os.Stderr, "Configuration error: run history requires REPORT_DB_PATH")
		os.Exit(3)
	}

	runs, err := store.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	defer runs.Close()

	recent, err := runs.RecentRuns(historyLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if len(recent) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	for _, r := range recent {
		line := fmt.Sprintf("%s  %-7s %-9s %s:%s", r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.RunType, r.Status, r.SourceType, r.SourceID)
		switch r.Status {
		case store.StatusGenerated:
			line += " -> " + r.OutputPath
		case store.StatusFailed:
			line += " (" + r.Error + ")"
		}
		fmt.Println(line)
	}
	return nil
}

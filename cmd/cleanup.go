package cmd

import (
	"fmt"
	"os"

	"github.com/gordyrad/notereport/internal/index"
	"github.com/gordyrad/notereport/internal/scratch"
	"github.com/spf13/cobra"
)

var cleanupDryRun bool

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete scratch notes that already have a generated report",
	Long: `Hashes every file under the scratch directory and removes those whose
content hash appears in the daily report indexes. Use --dry-run to list
what would be removed without touching anything.`,
	RunE: runCleanup,
}

func init() {
	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "List removable files without deleting them")
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	checkConfig()

	removed, err := scratch.Cleanup(cfg.ScratchDir, index.New(cfg.DailyDir), cleanupDryRun)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	verb := "removed"
	if cleanupDryRun {
		verb = "would remove"
	}
	for _, path := range removed {
		fmt.Printf("%s %s\n", verb, path)
	}
	fmt.Printf("%s %d file(s)\n", verb, len(removed))
	return nil
}

package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gordyrad/notereport/internal/config"
	"github.com/gordyrad/notereport/internal/engine"
	"github.com/gordyrad/notereport/internal/index"
	"github.com/gordyrad/notereport/internal/llm"
	"github.com/gordyrad/notereport/internal/store"
	"github.com/gordyrad/notereport/internal/weekly"
	"github.com/spf13/cobra"
)

var weeklyNow string

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Aggregate the past week's daily reports into a weekly summary",
	Long: `Collects the daily reports in the trailing seven-day window, summarizes
them through the configured completion API, and writes a weekly summary
under the weekly output directory. With schedule enforcement enabled the
command exits quietly outside the configured day and hour.`,
	RunE: runWeekly,
}

func init() {
	weeklyCmd.Flags().StringVar(&weeklyNow, "now", "", "Override the current time (RFC 3339, for testing schedules)")
	rootCmd.AddCommand(weeklyCmd)
}

// scheduleGate builds the weekly gate from config, rejecting an
// unparsable day up front rather than silently never running.
func scheduleGate(cfg *config.Config) (weekly.Gate, error) {
	if _, ok := weekly.ParseWeekday(cfg.Weekly.Day); !ok {
		return weekly.Gate{}, fmt.Errorf("invalid weekly day %q", cfg.Weekly.Day)
	}
	return weekly.Gate{
		Enforce: cfg.Weekly.EnforceSchedule,
		Day:     cfg.Weekly.Day,
		HourUTC: cfg.Weekly.HourUTC,
	}, nil
}

func runWeekly(cmd *cobra.Command, args []string) error {
	checkConfig()

	now := time.Now().UTC()
	if weeklyNow != "" {
		parsed, err := time.Parse(time.RFC3339, weeklyNow)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Configuration error: invalid --now %q\n", weeklyNow)
			os.Exit(3)
		}
		now = parsed.UTC()
	}

	gate, err := scheduleGate(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(3)
	}
	if !gate.ShouldRun(now) {
		log.Printf("weekly: outside scheduled window (%s %02d:00 UTC); skipping", cfg.Weekly.Day, cfg.Weekly.HourUTC)
		return nil
	}

	client, err := llm.NewClient(cfg.API)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(3)
	}

	runs, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Printf("weekly: warning: run history disabled: %v", err)
	}
	defer runs.Close()

	eng := engine.New(cfg, client, index.New(cfg.DailyDir), runs)
	agg := weekly.New(cfg, eng, runs)

	path, err := agg.Run(cmd.Context(), now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if path != "" {
		fmt.Printf("REPORT_PATH=%s\n", path)
	}
	return nil
}

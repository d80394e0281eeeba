package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gordyrad/notereport/internal/engine"
	"github.com/gordyrad/notereport/internal/index"
	"github.com/gordyrad/notereport/internal/llm"
	"github.com/gordyrad/notereport/internal/store"
	"github.com/spf13/cobra"
)

var (
	generateInput    string
	generateInputDir string
	generateDate     string
	generateSource   string
	generateSourceID string
	generateForce    bool
	generateFailFast bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a daily report from a note file or a directory of notes",
	Long: `Reads rough notes, calls the configured completion API, and writes a
structured Markdown report under the daily output directory. Notes whose
content hash already has a report are skipped unless --force is given.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateInput, "input", "", "Note file to generate from")
	generateCmd.Flags().StringVar(&generateInputDir, "input-dir", "", "Directory of note files to generate from")
	generateCmd.Flags().StringVar(&generateDate, "date", "", "Report date (YYYY-MM-DD, default today)")
	generateCmd.Flags().StringVar(&generateSource, "source-type", engine.SourceManual, "Source type: manual, commit, issue")
	generateCmd.Flags().StringVar(&generateSourceID, "source-id", "", "Source identifier (default: input filename)")
	generateCmd.Flags().BoolVar(&generateForce, "force", false, "Regenerate even when the input hash already has a report")
	generateCmd.Flags().BoolVar(&generateFailFast, "fail-fast", false, "Abort a directory run on the first failure")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	checkConfig()

	if generateInput == "" && generateInputDir == "" {
		fmt.Fprintln(os.Stderr, "Configuration error: one of --input or --input-dir is required")
		os.Exit(3)
	}
	if generateInput != "" && generateInputDir != "" {
		fmt.Fprintln(os.Stderr, "Configuration error: --input and --input-dir are mutually exclusive")
		os.Exit(3)
	}
	switch generateSource {
	case engine.SourceManual, engine.SourceCommit, engine.SourceIssue:
	default:
		fmt.Fprintf(os.Stderr, "Configuration error: unknown source type %q\n", generateSource)
		os.Exit(3)
	}

	date := generateDate
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: invalid --date %q\n", generateDate)
		os.Exit(3)
	}

	client, err := llm.NewClient(cfg.API)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(3)
	}

	runs, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Printf("generate: warning: run history disabled: %v", err)
	}
	defer runs.Close()

	eng := engine.New(cfg, client, index.New(cfg.DailyDir), runs)
	ctx := cmd.Context()

	if generateInputDir != "" {
		err := eng.GenerateDir(ctx, generateInputDir, engine.BatchOptions{
			Date:       date,
			SourceType: generateSource,
			Force:      generateForce,
			FailFast:   generateFailFast,
		})
		var partial *engine.PartialError
		switch {
		case err == nil:
			return nil
		case errors.As(err, &partial):
			for _, ferr := range partial.Errors {
				fmt.Fprintf(os.Stderr, "Error: %v\n", ferr)
			}
			os.Exit(1)
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		return nil
	}

	raw, err := os.ReadFile(generateInput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading input: %v\n", err)
		os.Exit(2)
	}
	sourceID := generateSourceID
	if sourceID == "" {
		sourceID = generateInput
	}

	req := engine.NewRequest(date, generateSource, sourceID, string(raw), generateForce)
	res, err := eng.Generate(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// Machine-readable path for workflow scripts capturing the output.
	fmt.Printf("REPORT_PATH=%s\n", res.OutputPath)
	if res.Skipped {
		fmt.Println("REPORT_SKIPPED=true")
	}
	return nil
}

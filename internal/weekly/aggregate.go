package weekly

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/gordyrad/notereport/internal/config"
	"github.com/gordyrad/notereport/internal/engine"
	"github.com/gordyrad/notereport/internal/report"
	"github.com/gordyrad/notereport/internal/store"
)

// DefaultWeeklySystemPrompt is used when no weekly prompt is configured.
const DefaultWeeklySystemPrompt = `You are a rigorous technical writing assistant.
Summarize one week of daily reports into a concise weekly report in Markdown.

Output requirements:
1) Use this exact section order:
   - ## Weekly Highlights
   - ## Progress by Area
   - ## Problems / Blockers
   - ## Risks
   - ## Key Learnings
   - ## Next Week Plan
   - ## Metrics
2) Keep it concise and factual.
3) If information is missing, write "N/A" for that bullet.
4) Keep language in the same language as input notes when possible.
5) Return only final answer. Do not include reasoning or thinking process.
`

var dailyFileRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)\.md$`)

// entry is one daily report gathered for aggregation.
type entry struct {
	path string
	date time.Time
	text string
}

// Aggregator folds the window's daily reports into one weekly summary by
// driving the engine's completion chain with a weekly prompt.
type Aggregator struct {
	cfg  *config.Config
	eng  *engine.Engine
	runs *store.Store // nil disables run history
}

// New creates an Aggregator. The run-history store may be nil.
func New(cfg *config.Config, eng *engine.Engine, runs *store.Store) *Aggregator {
	return &Aggregator{cfg: cfg, eng: eng, runs: runs}
}

// Run aggregates the window ending at now. It returns the written path,
// or "" when no daily reports fall in the window (which is a notice, not
// an error).
func (a *Aggregator) Run(ctx context.Context, now time.Time) (string, error) {
	started := time.Now()

	win := ComputeWindow(now, a.cfg.Weekly.IncludeToday)
	slug := win.Slug()

	entries, err := collectDailyReports(a.cfg.DailyDir, win)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		log.Printf("weekly: no daily reports found for week %s", slug)
		return "", nil
	}
	log.Printf("weekly: aggregating %d daily report(s) for week %s (%s to %s)",
		len(entries), slug, win.Start.Format("2006-01-02"), win.End.Format("2006-01-02"))

	systemPrompt := a.cfg.Weekly.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = DefaultWeeklySystemPrompt
	}
	userPrompt := weeklyUserPrompt(entries, win, slug)
	inputHash := engine.HashContent(userPrompt)

	resp, err := a.eng.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		a.logRun(win, slug, inputHash, started, &store.Run{Status: store.StatusFailed, Error: err.Error()})
		return "", err
	}

	title := fmt.Sprintf("Weekly Report - %s (%s to %s)",
		slug, win.Start.Format("2006-01-02"), win.End.Format("2006-01-02"))
	body := report.EnsureSections(resp.Content, "# "+title, report.WeeklySections)

	doc := &report.Document{
		Title:       title,
		Slug:        strings.ToLower(slug),
		Date:        win.End.Format("2006-01-02"),
		SourceType:  "weekly",
		SourceID:    slug,
		InputHash:   inputHash,
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
		Tags:        []string{"weekly"},
		Body:        body,
	}

	data, err := doc.Render()
	if err != nil {
		return "", err
	}

	outputPath := filepath.Join(a.cfg.WeeklyDir, fmt.Sprintf("%d", year(win)), slug+"-summary.md")
	if err := report.WriteAtomic(outputPath, data); err != nil {
		a.logRun(win, slug, inputHash, started, &store.Run{Status: store.StatusFailed, Error: err.Error()})
		return "", fmt.Errorf("writing weekly summary: %w", err)
	}

	log.Printf("weekly: wrote summary %s", outputPath)
	a.logRun(win, slug, inputHash, started, &store.Run{
		Status:     store.StatusGenerated,
		OutputPath: outputPath,
		Model:      resp.Model,
		TokensUsed: resp.TokensUsed,
	})
	return outputPath, nil
}

// collectDailyReports gathers every daily report whose filename date
// falls in the window, in date order. Missing dates are simply absent.
func collectDailyReports(dailyRoot string, win Window) ([]entry, error) {
	var entries []entry

	err := filepath.WalkDir(dailyRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) && path == dailyRoot {
				return filepath.SkipAll
			}
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		m := dailyFileRe.FindStringSubmatch(d.Name())
		if m == nil {
			return nil
		}
		date, err := time.Parse("2006-01-02", m[1])
		if err != nil || !win.Contains(date) {
			return nil
		}
		text, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading daily report %s: %w", path, err)
		}
		entries = append(entries, entry{path: path, date: date, text: string(text)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collecting daily reports: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].date.Equal(entries[j].date) {
			return entries[i].date.Before(entries[j].date)
		}
		return entries[i].path < entries[j].path
	})
	return entries, nil
}

// weeklyUserPrompt frames the gathered reports for the model, in date
// order.
func weeklyUserPrompt(entries []entry, win Window, slug string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Week: %s\n", slug)
	fmt.Fprintf(&b, "Range: %s to %s\n\n", win.Start.Format("2006-01-02"), win.End.Format("2006-01-02"))
	b.WriteString("Daily reports:\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "\n---\nFile: %s\n%s\n", filepath.ToSlash(e.path), e.text)
	}
	b.WriteString("\nPlease generate a structured weekly report in Markdown.\n")
	fmt.Fprintf(&b, "Add a title line at top: '# Weekly Report - %s (%s to %s)'.\n",
		slug, win.Start.Format("2006-01-02"), win.End.Format("2006-01-02"))
	b.WriteString("Use the required section order exactly.\n")
	b.WriteString("Use bullet lists in each section.\n")
	return b.String()
}

func year(win Window) int {
	y, _ := win.Start.ISOWeek()
	return y
}

func (a *Aggregator) logRun(win Window, slug, hash string, started time.Time, run *store.Run) {
	run.RunType = "weekly"
	run.SourceType = "weekly"
	run.SourceID = slug
	run.Date = win.End.Format("2006-01-02")
	run.InputHash = hash
	run.DurationMS = time.Since(started).Milliseconds()
	if err := a.runs.LogRun(run); err != nil {
		log.Printf("weekly: warning: failed to record run history: %v", err)
	}
}

// Package engine orchestrates report generation: idempotency check,
// prompt construction, the completion call, output cleaning, and the
// atomic write plus index update.
package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gordyrad/notereport/internal/config"
	"github.com/gordyrad/notereport/internal/index"
	"github.com/gordyrad/notereport/internal/llm"
	"github.com/gordyrad/notereport/internal/report"
	"github.com/gordyrad/notereport/internal/store"
)

// Source types accepted for generation requests.
const (
	SourceManual = "manual"
	SourceCommit = "commit"
	SourceIssue  = "issue"
)

// Request describes one note to turn into a daily report. It is immutable
// once constructed; InputHash is the idempotency key.
type Request struct {
	Date       string
	SourceType string
	SourceID   string
	RawNotes   string
	InputHash  string
	Force      bool
}

// NewRequest builds a Request, computing the input hash from the note
// text.
func NewRequest(date, sourceType, sourceID, rawNotes string, force bool) *Request {
	return &Request{
		Date:       date,
		SourceType: sourceType,
		SourceID:   sourceID,
		RawNotes:   rawNotes,
		InputHash:  HashContent(rawNotes),
		Force:      force,
	}
}

// HashContent returns the hex SHA-256 digest of text.
func HashContent(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Result is the outcome of a single generation run.
type Result struct {
	Skipped    bool
	OutputPath string
	Model      string
	TokensUsed int
}

// Engine drives the generation chain for daily reports and exposes the
// completion chain for the weekly aggregator.
type Engine struct {
	cfg    *config.Config
	client llm.Client
	idx    *index.Index
	runs   *store.Store // nil disables run history
}

// New creates an Engine. The run-history store may be nil.
func New(cfg *config.Config, client llm.Client, idx *index.Index, runs *store.Store) *Engine {
	return &Engine{cfg: cfg, client: client, idx: idx, runs: runs}
}

// Index returns the engine's idempotency index.
func (e *Engine) Index() *index.Index {
	return e.idx
}

// Generate runs the full chain for one request. When the input hash is
// already recorded (and the recorded report still exists), the request is
// skipped with no network call and no writes. A failure at any stage
// leaves neither a report file nor an index entry behind.
func (e *Engine) Generate(ctx context.Context, req *Request) (*Result, error) {
	started := time.Now()

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", req.Date, err)
	}
	bucket := e.idx.BucketDir(date)

	if !req.Force {
		if rec, ok := e.idx.Lookup(req.InputHash, bucket); ok {
			log.Printf("engine: no changes for %s:%s (hash match, %s); use --force to override",
				req.SourceType, req.SourceID, rec.OutputPath)
			e.logRun(req, started, &store.Run{Status: store.StatusSkipped, OutputPath: rec.OutputPath})
			return &Result{Skipped: true, OutputPath: rec.OutputPath}, nil
		}
	}

	systemPrompt := e.cfg.API.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = DefaultDailySystemPrompt
	}

	resp, err := e.Complete(ctx, systemPrompt, dailyUserPrompt(req))
	if err != nil {
		e.logRun(req, started, &store.Run{Status: store.StatusFailed, Error: err.Error()})
		return nil, err
	}

	meta, body := report.ExtractMeta(resp.Content)
	body = report.EnsureSections(body, "# Daily Report - "+req.Date, report.DailySections)

	title := meta.Title
	if title == "" {
		title = "Daily Report - " + req.Date
	}
	tags := meta.Tags
	if len(tags) == 0 {
		log.Printf("engine: generated report for %s:%s is missing tags; review recommended",
			req.SourceType, req.SourceID)
		tags = []string{"untagged"}
	}

	doc := &report.Document{
		Title:       title,
		Slug:        meta.Slug,
		Date:        req.Date,
		SourceType:  req.SourceType,
		SourceID:    req.SourceID,
		InputHash:   req.InputHash,
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
		Tags:        tags,
		Body:        body,
	}

	data, err := doc.Render()
	if err != nil {
		e.logRun(req, started, &store.Run{Status: store.StatusFailed, Error: err.Error()})
		return nil, err
	}

	outputPath := filepath.Join(bucket, doc.Filename())
	if err := report.WriteAtomic(outputPath, data); err != nil {
		e.logRun(req, started, &store.Run{Status: store.StatusFailed, Error: err.Error()})
		return nil, fmt.Errorf("writing report: %w", err)
	}

	if err := e.idx.Put(req.InputHash, bucket, outputPath, doc.GeneratedAt); err != nil {
		// A report without an index entry would break the idempotency
		// invariant, so roll the write back.
		_ = os.Remove(outputPath)
		e.logRun(req, started, &store.Run{Status: store.StatusFailed, Error: err.Error()})
		return nil, fmt.Errorf("updating index: %w", err)
	}

	log.Printf("engine: wrote report %s", outputPath)
	e.logRun(req, started, &store.Run{
		Status:     store.StatusGenerated,
		OutputPath: outputPath,
		Model:      resp.Model,
		TokensUsed: resp.TokensUsed,
	})

	return &Result{
		OutputPath: outputPath,
		Model:      resp.Model,
		TokensUsed: resp.TokensUsed,
	}, nil
}

// Complete runs the completion chain shared by daily generation and the
// weekly aggregator: one provider call, think-block stripping per
// configuration, and an empty-content check.
func (e *Engine) Complete(ctx context.Context, systemPrompt, userPrompt string) (*llm.Response, error) {
	resp, err := e.client.Complete(ctx, &llm.Request{
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
	})
	if err != nil {
		return nil, err
	}

	if e.cfg.API.StripThink {
		resp.Content = llm.StripThink(resp.Content)
	}
	if resp.Content == "" {
		return nil, fmt.Errorf("api returned empty content after filtering")
	}
	return resp, nil
}

func (e *Engine) logRun(req *Request, started time.Time, run *store.Run) {
	run.RunType = "daily"
	run.SourceType = req.SourceType
	run.SourceID = req.SourceID
	run.Date = req.Date
	run.InputHash = req.InputHash
	run.DurationMS = time.Since(started).Milliseconds()
	if err := e.runs.LogRun(run); err != nil {
		log.Printf("engine: warning: failed to record run history: %v", err)
	}
}

package engine

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// PartialError indicates that some notes in a batch failed while others
// were generated or skipped.
type PartialError struct {
	Errors []error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("partial failure: %d note(s) failed", len(e.Errors))
}

// BatchOptions control a directory run.
type BatchOptions struct {
	Date       string
	SourceType string
	Force      bool
	FailFast   bool
}

// GenerateDir runs the engine once per note file under dir. Notes are
// processed with a bounded worker pool, and calls to the API are rate
// limited to one per second. One note's failure does not abort the rest
// unless FailFast is set; the collected failures come back as a
// *PartialError.
func (e *Engine) GenerateDir(ctx context.Context, dir string, opts BatchOptions) error {
	notes, err := listNoteFiles(dir)
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		log.Printf("engine: no note files found under %s", dir)
		return nil
	}
	log.Printf("engine: processing %d note(s) from %s", len(notes), dir)

	limiter := rate.NewLimiter(rate.Every(time.Second), 1)

	var mu sync.Mutex
	var failures []error

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)

	for _, note := range notes {
		note := note
		g.Go(func() error {
			raw, err := os.ReadFile(note)
			if err != nil {
				err = fmt.Errorf("reading note %s: %w", note, err)
				if opts.FailFast {
					return err
				}
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
				return nil
			}

			req := NewRequest(opts.Date, opts.SourceType, filepath.Base(note), string(raw), opts.Force)

			if err := limiter.Wait(gctx); err != nil {
				return err
			}
			if _, err := e.Generate(gctx, req); err != nil {
				err = fmt.Errorf("note %s: %w", note, err)
				if opts.FailFast {
					return err
				}
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if len(failures) > 0 {
		return &PartialError{Errors: failures}
	}
	return nil
}

// listNoteFiles returns the regular, non-hidden files under dir, sorted
// by the walk order.
func listNoteFiles(dir string) ([]string, error) {
	var notes []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		notes = append(notes, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	return notes, nil
}

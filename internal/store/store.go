// Package store records generation run history in SQLite so past runs can
// be inspected after the fact. The store is optional; a nil *Store is a
// no-op recorder.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Run statuses.
const (
	StatusGenerated = "generated"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
)

// Run is one engine invocation: a daily generation, a skip, a failure, or
// a weekly aggregation.
type Run struct {
	ID         int64
	RunType    string // "daily" or "weekly"
	SourceType string
	SourceID   string
	Date       string
	InputHash  string
	OutputPath string
	Status     string
	Error      string
	Model      string
	TokensUsed int
	DurationMS int64
	CreatedAt  time.Time
}

// Store provides database operations for run history.
type Store struct {
	db *sql.DB
}

// Open creates a Store at dbPath and runs migrations. An empty path
// returns a nil store, which ignores all calls.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, nil
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// WAL mode so a concurrent trigger reading history does not block a
	// writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// LogRun inserts a run record. A nil store ignores the call.
func (s *Store) LogRun(r *Run) error {
	if s == nil {
		return nil
	}
	_, err := s.db.Exec(`
		INSERT INTO runs (run_type, source_type, source_id, date, input_hash, output_path, status, error, model, tokens_used, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, r.RunType, r.SourceType, r.SourceID, r.Date, r.InputHash, r.OutputPath, r.Status, r.Error, r.Model, r.TokensUsed, r.DurationMS)
	return err
}

// RecentRuns retrieves the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]*Run, error) {
	if s == nil {
		return nil, nil
	}
	rows, err := s.db.Query(`
		SELECT id, run_type, source_type, source_id, date, input_hash, output_path, status, error, model, tokens_used, duration_ms, created_at
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r := &Run{}
		if err := rows.Scan(&r.ID, &r.RunType, &r.SourceType, &r.SourceID, &r.Date,
			&r.InputHash, &r.OutputPath, &r.Status, &r.Error, &r.Model,
			&r.TokensUsed, &r.DurationMS, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LastRunForHash retrieves the most recent run for an input hash.
func (s *Store) LastRunForHash(hash string) (*Run, error) {
	if s == nil {
		return nil, sql.ErrNoRows
	}
	r := &Run{}
	err := s.db.QueryRow(`
		SELECT id, run_type, source_type, source_id, date, input_hash, output_path, status, error, model, tokens_used, duration_ms, created_at
		FROM runs WHERE input_hash = ? ORDER BY id DESC LIMIT 1`, hash).Scan(
		&r.ID, &r.RunType, &r.SourceType, &r.SourceID, &r.Date,
		&r.InputHash, &r.OutputPath, &r.Status, &r.Error, &r.Model,
		&r.TokensUsed, &r.DurationMS, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

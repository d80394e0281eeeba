package store

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenEmptyPathDisablesStore(t *testing.T) {
	s, err := Open("")
	if err != nil {
		t.Fatalf("Open(\"\") failed: %v", err)
	}
	if s != nil {
		t.Error("Open(\"\") should return a nil store")
	}
}

func TestNilStoreIsNoOp(t *testing.T) {
	var s *Store
	if err := s.LogRun(&Run{RunType: "daily", Date: "2026-02-17", Status: StatusGenerated}); err != nil {
		t.Errorf("nil LogRun = %v, want nil", err)
	}
	if runs, err := s.RecentRuns(10); err != nil || runs != nil {
		t.Errorf("nil RecentRuns = (%v, %v), want (nil, nil)", runs, err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("nil Close = %v, want nil", err)
	}
}

func TestLogAndQueryRuns(t *testing.T) {
	s := newTestStore(t)

	runs := []*Run{
		{RunType: "daily", SourceType: "manual", SourceID: "notes.txt", Date: "2026-02-16",
			InputHash: "h1", OutputPath: "content/daily/2026/02/2026-02-16-a.md",
			Status: StatusGenerated, Model: "m1", TokensUsed: 100, DurationMS: 1200},
		{RunType: "daily", SourceType: "manual", SourceID: "notes.txt", Date: "2026-02-17",
			InputHash: "h1", Status: StatusSkipped},
		{RunType: "weekly", SourceType: "weekly", SourceID: "2026-W07", Date: "2026-02-15",
			InputHash: "h2", Status: StatusFailed, Error: "api down"},
	}
	for _, r := range runs {
		if err := s.LogRun(r); err != nil {
			t.Fatalf("LogRun failed: %v", err)
		}
	}

	recent, err := s.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("run count = %d, want 3", len(recent))
	}
	// Newest first.
	if recent[0].RunType != "weekly" {
		t.Errorf("newest run type = %q, want weekly", recent[0].RunType)
	}
	if recent[0].Error != "api down" {
		t.Errorf("Error = %q, want the recorded failure", recent[0].Error)
	}
	if recent[2].TokensUsed != 100 {
		t.Errorf("TokensUsed = %d, want 100", recent[2].TokensUsed)
	}
	if recent[2].CreatedAt.IsZero() {
		t.Error("CreatedAt was not populated")
	}

	last, err := s.LastRunForHash("h1")
	if err != nil {
		t.Fatalf("LastRunForHash failed: %v", err)
	}
	if last.Status != StatusSkipped {
		t.Errorf("last h1 status = %q, want the skip", last.Status)
	}
	if last.Date != "2026-02-17" {
		t.Errorf("last h1 date = %q, want 2026-02-17", last.Date)
	}
}

func TestRecentRunsLimit(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 5; i++ {
		if err := s.LogRun(&Run{RunType: "daily", Date: "2026-02-17", Status: StatusGenerated}); err != nil {
			t.Fatalf("LogRun failed: %v", err)
		}
	}
	recent, err := s.RecentRuns(3)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(recent) != 3 {
		t.Errorf("run count = %d, want 3", len(recent))
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("first open failed: %v", err)
	}
	if err := s.LogRun(&Run{RunType: "daily", Date: "2026-02-17", Status: StatusGenerated}); err != nil {
		t.Fatalf("LogRun failed: %v", err)
	}
	s.Close()

	// Reopening runs the migration loop again over the same file.
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second open failed: %v", err)
	}
	defer s2.Close()
	recent, err := s2.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(recent) != 1 {
		t.Errorf("run count after reopen = %d, want 1", len(recent))
	}
}

package scratch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gordyrad/notereport/internal/engine"
	"github.com/gordyrad/notereport/internal/index"
)

func setupScratch(t *testing.T) (scratchDir string, idx *index.Index) {
	t.Helper()
	dailyRoot := t.TempDir()
	scratchDir = t.TempDir()
	idx = index.New(dailyRoot)

	// One report exists for the "done" note content.
	bucket := filepath.Join(dailyRoot, "2026", "02")
	reportPath := filepath.Join(bucket, "2026-02-17-done.md")
	report := "---\ntitle: Done\nslug: done\ninput_hash: " + engine.HashContent("done note") + "\n---\n\nbody\n"
	if err := os.MkdirAll(bucket, 0o755); err != nil {
		t.Fatalf("creating bucket: %v", err)
	}
	if err := os.WriteFile(reportPath, []byte(report), 0o644); err != nil {
		t.Fatalf("writing report: %v", err)
	}

	if err := os.WriteFile(filepath.Join(scratchDir, "done.txt"), []byte("done note"), 0o644); err != nil {
		t.Fatalf("writing scratch: %v", err)
	}
	if err := os.WriteFile(filepath.Join(scratchDir, "pending.txt"), []byte("pending note"), 0o644); err != nil {
		t.Fatalf("writing scratch: %v", err)
	}
	return scratchDir, idx
}

func TestCleanupRemovesReportedNotes(t *testing.T) {
	scratchDir, idx := setupScratch(t)

	removed, err := Cleanup(scratchDir, idx, false)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if len(removed) != 1 || filepath.Base(removed[0]) != "done.txt" {
		t.Errorf("removed = %v, want only done.txt", removed)
	}

	if _, err := os.Stat(filepath.Join(scratchDir, "done.txt")); !os.IsNotExist(err) {
		t.Error("done.txt should have been deleted")
	}
	if _, err := os.Stat(filepath.Join(scratchDir, "pending.txt")); err != nil {
		t.Error("pending.txt should have been kept")
	}
}

func TestCleanupDryRun(t *testing.T) {
	scratchDir, idx := setupScratch(t)

	removed, err := Cleanup(scratchDir, idx, true)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if len(removed) != 1 {
		t.Errorf("removed = %v, want one candidate", removed)
	}
	// Nothing actually deleted.
	for _, name := range []string{"done.txt", "pending.txt"} {
		if _, err := os.Stat(filepath.Join(scratchDir, name)); err != nil {
			t.Errorf("%s touched during dry run: %v", name, err)
		}
	}
}

func TestCleanupNoReports(t *testing.T) {
	scratchDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(scratchDir, "note.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("writing scratch: %v", err)
	}

	removed, err := Cleanup(scratchDir, index.New(filepath.Join(t.TempDir(), "missing")), false)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if len(removed) != 0 {
		t.Errorf("removed = %v, want nothing with no reports", removed)
	}
}

func TestCleanupMissingScratchDir(t *testing.T) {
	dailyRoot := t.TempDir()
	idx := index.New(dailyRoot)
	bucket := filepath.Join(dailyRoot, "2026", "02")
	report := "---\ninput_hash: " + engine.HashContent("x") + "\n---\n\nbody\n"
	if err := os.MkdirAll(bucket, 0o755); err != nil {
		t.Fatalf("creating bucket: %v", err)
	}
	if err := os.WriteFile(filepath.Join(bucket, "2026-02-17-x.md"), []byte(report), 0o644); err != nil {
		t.Fatalf("writing report: %v", err)
	}

	removed, err := Cleanup(filepath.Join(t.TempDir(), "gone"), idx, false)
	if err != nil {
		t.Fatalf("Cleanup on a missing scratch dir failed: %v", err)
	}
	if len(removed) != 0 {
		t.Errorf("removed = %v, want nothing", removed)
	}
}

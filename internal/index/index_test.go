package index

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func writeReport(t *testing.T, bucketDir, name, hash string) string {
	t.Helper()
	if err := os.MkdirAll(bucketDir, 0o755); err != nil {
		t.Fatalf("creating bucket: %v", err)
	}
	path := filepath.Join(bucketDir, name)
	content := "---\ntitle: Test Report\nslug: test-report\ninput_hash: " + hash +
		"\ngenerated_at: 2026-02-17T09:00:00Z\n---\n\n# Test Report\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing report: %v", err)
	}
	return path
}

func TestBucketDir(t *testing.T) {
	ix := New("content/daily")
	date := time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC)
	want := filepath.Join("content/daily", "2026", "02")
	if got := ix.BucketDir(date); got != want {
		t.Errorf("BucketDir = %q, want %q", got, want)
	}
}

func TestPutAndLookup(t *testing.T) {
	root := t.TempDir()
	ix := New(root)
	bucket := filepath.Join(root, "2026", "02")
	path := writeReport(t, bucket, "2026-02-17-test-report.md", "hash1")

	generatedAt := time.Date(2026, 2, 17, 9, 0, 0, 0, time.UTC)
	if err := ix.Put("hash1", bucket, path, generatedAt); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	rec, ok := ix.Lookup("hash1", bucket)
	if !ok {
		t.Fatal("Lookup missed a stored hash")
	}
	if rec.OutputPath != path {
		t.Errorf("OutputPath = %q, want %q", rec.OutputPath, path)
	}
	if !rec.GeneratedAt.Equal(generatedAt) {
		t.Errorf("GeneratedAt = %v, want %v", rec.GeneratedAt, generatedAt)
	}

	if _, ok := ix.Lookup("other-hash", bucket); ok {
		t.Error("Lookup hit an unknown hash")
	}
}

func TestPutMergesExistingRecords(t *testing.T) {
	root := t.TempDir()
	ix := New(root)
	bucket := filepath.Join(root, "2026", "02")
	p1 := writeReport(t, bucket, "2026-02-16-one.md", "h1")
	p2 := writeReport(t, bucket, "2026-02-17-two.md", "h2")

	now := time.Now().UTC().Truncate(time.Second)
	if err := ix.Put("h1", bucket, p1, now); err != nil {
		t.Fatalf("first Put failed: %v", err)
	}
	if err := ix.Put("h2", bucket, p2, now); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	for _, h := range []string{"h1", "h2"} {
		if _, ok := ix.Lookup(h, bucket); !ok {
			t.Errorf("Lookup(%s) missed after merge", h)
		}
	}
}

func TestPutConcurrentWorkersKeepAllRecords(t *testing.T) {
	root := t.TempDir()
	ix := New(root)
	bucket := filepath.Join(root, "2026", "02")

	const workers = 20
	paths := make([]string, workers)
	for i := 0; i < workers; i++ {
		paths[i] = writeReport(t, bucket, fmt.Sprintf("2026-02-17-note-%02d.md", i), fmt.Sprintf("hash-%02d", i))
	}

	var wg sync.WaitGroup
	now := time.Now().UTC()
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := ix.Put(fmt.Sprintf("hash-%02d", i), bucket, paths[i], now); err != nil {
				t.Errorf("Put %d failed: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	records, err := readIndexFile(filepath.Join(bucket, FileName))
	if err != nil {
		t.Fatalf("reading index: %v", err)
	}
	if len(records) != workers {
		t.Errorf("record count = %d, want %d", len(records), workers)
	}
	for i := 0; i < workers; i++ {
		if _, ok := ix.Lookup(fmt.Sprintf("hash-%02d", i), bucket); !ok {
			t.Errorf("Lookup(hash-%02d) missed after concurrent puts", i)
		}
	}
}

func TestLookupStalePathIsMiss(t *testing.T) {
	root := t.TempDir()
	ix := New(root)
	bucket := filepath.Join(root, "2026", "02")
	path := writeReport(t, bucket, "2026-02-17-test-report.md", "hash1")

	if err := ix.Put("hash1", bucket, path, time.Now()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("removing report: %v", err)
	}

	if _, ok := ix.Lookup("hash1", bucket); ok {
		t.Error("Lookup hit a record whose report file is gone")
	}
}

func TestLookupCorruptIndexFallsBackToScan(t *testing.T) {
	root := t.TempDir()
	ix := New(root)
	bucket := filepath.Join(root, "2026", "02")
	path := writeReport(t, bucket, "2026-02-17-test-report.md", "hash1")

	if err := os.WriteFile(filepath.Join(bucket, FileName), []byte("{corrupt"), 0o644); err != nil {
		t.Fatalf("writing corrupt index: %v", err)
	}

	rec, ok := ix.Lookup("hash1", bucket)
	if !ok {
		t.Fatal("frontmatter scan did not recover the hash")
	}
	if rec.OutputPath != path {
		t.Errorf("OutputPath = %q, want %q", rec.OutputPath, path)
	}
}

func TestLookupMissingIndexScansFrontmatter(t *testing.T) {
	root := t.TempDir()
	ix := New(root)
	bucket := filepath.Join(root, "2026", "02")
	writeReport(t, bucket, "2026-02-17-test-report.md", "hash1")

	if _, ok := ix.Lookup("hash1", bucket); !ok {
		t.Error("Lookup missed a hash present only in frontmatter")
	}
}

func TestLookupLegacyHashList(t *testing.T) {
	root := t.TempDir()
	ix := New(root)
	bucket := filepath.Join(root, "2026", "02")
	path := writeReport(t, bucket, "2026-02-17-test-report.md", "hash1")

	// Old index format: a bare list of hashes with no record objects.
	if err := os.WriteFile(filepath.Join(bucket, FileName), []byte(`["hash1", "gone"]`), 0o644); err != nil {
		t.Fatalf("writing legacy index: %v", err)
	}

	rec, ok := ix.Lookup("hash1", bucket)
	if !ok {
		t.Fatal("legacy entry with a live report not found")
	}
	if rec.OutputPath != path {
		t.Errorf("OutputPath = %q, want %q", rec.OutputPath, path)
	}

	// Legacy entry with no backing report file is a miss.
	if _, ok := ix.Lookup("gone", bucket); ok {
		t.Error("legacy entry without a report file should miss")
	}
}

func TestRebuild(t *testing.T) {
	root := t.TempDir()
	ix := New(root)
	bucket := filepath.Join(root, "2026", "02")
	writeReport(t, bucket, "2026-02-16-one.md", "h1")
	writeReport(t, bucket, "2026-02-17-two.md", "h2")

	if err := ix.Rebuild(bucket); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	for _, h := range []string{"h1", "h2"} {
		if _, ok := ix.Lookup(h, bucket); !ok {
			t.Errorf("Lookup(%s) missed after rebuild", h)
		}
	}
}

func TestAllHashes(t *testing.T) {
	root := t.TempDir()
	ix := New(root)

	febBucket := filepath.Join(root, "2026", "02")
	marBucket := filepath.Join(root, "2026", "03")
	p := writeReport(t, febBucket, "2026-02-17-one.md", "feb-hash")
	writeReport(t, marBucket, "2026-03-02-two.md", "mar-hash")
	if err := ix.Put("feb-hash", febBucket, p, time.Now()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	hashes, err := ix.AllHashes()
	if err != nil {
		t.Fatalf("AllHashes failed: %v", err)
	}
	for _, h := range []string{"feb-hash", "mar-hash"} {
		if !hashes[h] {
			t.Errorf("AllHashes missing %s", h)
		}
	}
}

func TestAllHashesMissingRoot(t *testing.T) {
	ix := New(filepath.Join(t.TempDir(), "does-not-exist"))
	hashes, err := ix.AllHashes()
	if err != nil {
		t.Fatalf("AllHashes on a missing root failed: %v", err)
	}
	if len(hashes) != 0 {
		t.Errorf("hashes = %v, want empty", hashes)
	}
}

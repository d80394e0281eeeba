// Package index maintains the per-month idempotency index: a JSON file in
// each monthly report bucket mapping input hashes to the report generated
// from them.
package index

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gordyrad/notereport/internal/report"
)

// FileName is the index file kept alongside each bucket's reports.
const FileName = ".report_index.json"

// Record is one idempotency entry.
type Record struct {
	OutputPath  string    `json:"output_path"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Index resolves and updates monthly idempotency buckets under the daily
// report root. Writes within one process are serialized so concurrent
// batch workers cannot lose each other's records.
type Index struct {
	dailyRoot string
	mu        sync.Mutex
}

// New creates an Index over the given daily report root.
func New(dailyRoot string) *Index {
	return &Index{dailyRoot: dailyRoot}
}

// BucketDir returns the directory of the (year, month) bucket a date
// belongs to: <dailyRoot>/YYYY/MM.
func (ix *Index) BucketDir(date time.Time) string {
	return filepath.Join(ix.dailyRoot, date.Format("2006"), date.Format("01"))
}

// Lookup returns the live record for hash in the bucket. The persisted
// index file is consulted first; if it is absent or unparsable the
// bucket's report frontmatter is scanned instead. A recorded output path
// that no longer exists on disk is a miss, so regeneration proceeds.
func (ix *Index) Lookup(hash, bucketDir string) (*Record, bool) {
	records, err := readIndexFile(filepath.Join(bucketDir, FileName))
	if err == nil {
		rec, ok := records[hash]
		if !ok {
			return nil, false
		}
		if rec.OutputPath != "" {
			if _, statErr := os.Stat(rec.OutputPath); statErr == nil {
				return &rec, true
			}
			return nil, false
		}
		// Legacy bare-hash entry: confirm against frontmatter.
		return scanBucket(bucketDir, hash)
	}
	if !os.IsNotExist(err) {
		log.Printf("index: %s unreadable, falling back to frontmatter scan: %v", bucketDir, err)
	}
	return scanBucket(bucketDir, hash)
}

// Put merges hash → record into the bucket's index file. The file is
// rewritten wholesale via an atomic replace, never patched incrementally,
// so a concurrent reader always sees a complete index. In-process writers
// are serialized; two separate processes that both read before either
// writes can still lose one update, and that race is accepted rather than
// locked against.
func (ix *Index) Put(hash, bucketDir, outputPath string, generatedAt time.Time) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	path := filepath.Join(bucketDir, FileName)

	records, err := readIndexFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("index: rebuilding unparsable index %s", path)
		}
		records = map[string]Record{}
	}
	records[hash] = Record{OutputPath: outputPath, GeneratedAt: generatedAt}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}
	if err := report.WriteAtomic(path, append(data, '\n')); err != nil {
		return fmt.Errorf("writing index %s: %w", path, err)
	}
	return nil
}

// Rebuild reconstructs a bucket's index file from report frontmatter.
func (ix *Index) Rebuild(bucketDir string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	records := map[string]Record{}

	entries, err := os.ReadDir(bucketDir)
	if err != nil {
		return fmt.Errorf("reading bucket %s: %w", bucketDir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		path := filepath.Join(bucketDir, entry.Name())
		rec, hash, ok := recordFromFile(path)
		if !ok {
			continue
		}
		records[hash] = rec
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}
	return report.WriteAtomic(filepath.Join(bucketDir, FileName), append(data, '\n'))
}

// AllHashes collects every known report hash under the daily root, from
// index files and report frontmatter alike.
func (ix *Index) AllHashes() (map[string]bool, error) {
	hashes := map[string]bool{}

	err := filepath.WalkDir(ix.dailyRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) && path == ix.dailyRoot {
				return filepath.SkipAll
			}
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		switch {
		case d.Name() == FileName:
			if records, err := readIndexFile(path); err == nil {
				for h := range records {
					hashes[h] = true
				}
			}
		case strings.HasSuffix(d.Name(), ".md"):
			if _, h, ok := recordFromFile(path); ok {
				hashes[h] = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", ix.dailyRoot, err)
	}
	return hashes, nil
}

// scanBucket reads each report file in the bucket and matches the
// input_hash frontmatter field. The reconstructed view is ephemeral; it
// is only persisted when a record is written this run.
func scanBucket(bucketDir, hash string) (*Record, bool) {
	entries, err := os.ReadDir(bucketDir)
	if err != nil {
		return nil, false
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		path := filepath.Join(bucketDir, entry.Name())
		rec, fileHash, ok := recordFromFile(path)
		if ok && fileHash == hash {
			return &rec, true
		}
	}
	return nil, false
}

// recordFromFile builds a Record from a report file's frontmatter.
func recordFromFile(path string) (Record, string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, "", false
	}
	fm, _ := report.SplitFrontmatter(data)
	hash := report.FrontmatterString(fm, "input_hash")
	if hash == "" {
		return Record{}, "", false
	}

	generatedAt := time.Time{}
	if raw := report.FrontmatterString(fm, "generated_at"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			generatedAt = t
		}
	}
	if generatedAt.IsZero() {
		if info, err := os.Stat(path); err == nil {
			generatedAt = info.ModTime().UTC()
		}
	}
	return Record{OutputPath: path, GeneratedAt: generatedAt}, hash, true
}

// readIndexFile decodes an index file. Both the current object form and
// the legacy bare hash list are accepted.
func readIndexFile(path string) (map[string]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	records := map[string]Record{}
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	var hashes []string
	if err := json.Unmarshal(data, &hashes); err == nil {
		for _, h := range hashes {
			if h != "" {
				records[h] = Record{}
			}
		}
		return records, nil
	}
	return nil, fmt.Errorf("unparsable index file %s", path)
}

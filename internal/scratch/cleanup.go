// Package scratch removes scratch notes whose content already has a
// generated report.
package scratch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gordyrad/notereport/internal/engine"
	"github.com/gordyrad/notereport/internal/index"
)

// Cleanup deletes every file under scratchRoot whose content hash appears
// in the report index. With dryRun set, the matches are returned without
// deleting anything. The returned paths are the files that were (or would
// be) removed.
func Cleanup(scratchRoot string, idx *index.Index, dryRun bool) ([]string, error) {
	hashes, err := idx.AllHashes()
	if err != nil {
		return nil, err
	}
	if len(hashes) == 0 {
		return nil, nil
	}

	var deleted []string
	err = filepath.WalkDir(scratchRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) && path == scratchRoot {
				return filepath.SkipAll
			}
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			// Unreadable scratch files are left alone.
			return nil
		}
		if !hashes[engine.HashContent(string(content))] {
			return nil
		}
		if !dryRun {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("removing %s: %w", path, err)
			}
		}
		deleted = append(deleted, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", scratchRoot, err)
	}
	return deleted, nil
}

// =============================================================================
// SEPA Batch Generator - File Utility
// =============================================================================
//
// Payment files get picked up by bank upload jobs the moment they appear, so
// the output must never be visible half-written. The document is staged as
// <output>.<uuid>.tmp in the destination directory and renamed into place;
// the rename is atomic on the same filesystem, which staging next to the
// target guarantees. A failed run removes the staging file and leaves no
// output at all.
//
// =============================================================================

package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// WriteAtomic streams write's output into path without exposing a partial
// file. The content is flushed to disk before the rename. On any failure the
// staging file is removed and path is untouched.
func WriteAtomic(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf("%s.%s.tmp", filepath.Base(path), uuid.New().String()))

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create staging file: %w", err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if err = write(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

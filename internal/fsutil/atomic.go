// Package fsutil holds filesystem helpers shared by the object store, the
// reference store and the staging index.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// WriteFileAtomic writes data to path so that readers observe either the old
// content or the new content, never a partial write. The data goes to a temp
// file in the destination directory which is then renamed into place. The
// temp file is removed on any failure.
func WriteFileAtomic(fs afero.Fs, path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("atomic write %s: mkdir: %w", path, err)
	}

	tmp, err := afero.TempFile(fs, dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("atomic write %s: tmpfile: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fs.Remove(tmpName)
		return fmt.Errorf("atomic write %s: write: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		fs.Remove(tmpName)
		return fmt.Errorf("atomic write %s: sync: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("atomic write %s: close: %w", path, err)
	}
	if err := fs.Chmod(tmpName, perm); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("atomic write %s: chmod: %w", path, err)
	}

	if err := fs.Rename(tmpName, path); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("atomic write %s: rename: %w", path, err)
	}
	return nil
}

// IsTempName reports whether a file name was produced by WriteFileAtomic and
// left behind by an interrupted write.
func IsTempName(name string) bool {
	return len(name) > 5 && name[:5] == ".tmp-"
}

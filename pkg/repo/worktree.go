package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/odvcencio/gitlet/internal/fsutil"
	"github.com/odvcencio/gitlet/internal/logging"
	"github.com/spf13/afero"
)

// repoRelPath converts a path into a slash-separated path relative to the
// repository root. Absolute paths must live under the root; relative paths
// are taken as already repo-relative.
func (r *Repo) repoRelPath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	native := filepath.FromSlash(p)
	if filepath.IsAbs(native) {
		rel, err := filepath.Rel(r.RootDir, native)
		if err != nil {
			return "", fmt.Errorf("%w: %q: %v", ErrInvalidPath, p, err)
		}
		native = rel
	}

	rel := filepath.ToSlash(filepath.Clean(native))
	switch {
	case rel == "." || rel == ".." || strings.HasPrefix(rel, "../"):
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	case rel == DirName || strings.HasPrefix(rel, DirName+"/"):
		return "", fmt.Errorf("%w: %q is inside %s", ErrInvalidPath, p, DirName)
	}
	return rel, nil
}

func (r *Repo) workPath(rel string) string {
	return filepath.Join(r.RootDir, filepath.FromSlash(rel))
}

// readWorkFile returns the content of a working-tree file. Missing files
// and directories yield ErrFileNotFound.
func (r *Repo) readWorkFile(rel string) ([]byte, error) {
	path := r.workPath(rel)
	info, err := r.fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%q: %w", rel, ErrFileNotFound)
		}
		return nil, fmt.Errorf("stat %q: %w", rel, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%q is a directory: %w", rel, ErrFileNotFound)
	}
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", rel, err)
	}
	return data, nil
}

func (r *Repo) workFileExists(rel string) bool {
	info, err := r.fs.Stat(r.workPath(rel))
	return err == nil && !info.IsDir()
}

// writeWorkFile replaces a working-tree file atomically.
func (r *Repo) writeWorkFile(rel string, data []byte) error {
	if err := fsutil.WriteFileAtomic(r.fs, r.workPath(rel), data, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", rel, err)
	}
	r.log.WithField(logging.PathFieldKey, rel).Debug("working file written")
	return nil
}

// removeWorkFile deletes a working-tree file if present, then prunes
// directories it leaves empty.
func (r *Repo) removeWorkFile(rel string) error {
	path := r.workPath(rel)
	if err := r.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %q: %w", rel, err)
	}
	r.removeEmptyParents(filepath.Dir(path))
	r.log.WithField(logging.PathFieldKey, rel).Debug("working file removed")
	return nil
}

// removeEmptyParents removes empty directories up to (but not including)
// the repository root.
func (r *Repo) removeEmptyParents(dir string) {
	for {
		if dir == r.RootDir || !strings.HasPrefix(dir, r.RootDir+string(filepath.Separator)) {
			return
		}
		entries, err := afero.ReadDir(r.fs, dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := r.fs.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}

// workFiles lists every regular file in the working tree as sorted
// repo-relative paths, skipping .gitlet/ and ignored paths.
func (r *Repo) workFiles() ([]string, error) {
	ic := NewIgnoreChecker(r.fs, r.RootDir)

	var files []string
	err := afero.Walk(r.fs, r.RootDir, func(path string, info fs.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == r.RootDir {
			return nil
		}
		rel, err := filepath.Rel(r.RootDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if rel == DirName || ic.IsIgnored(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() || fsutil.IsTempName(info.Name()) || ic.IsIgnored(rel, false) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk working tree: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

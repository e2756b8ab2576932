package repo

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/odvcencio/gitlet/internal/fsutil"
	"github.com/odvcencio/gitlet/internal/logging"
	"github.com/odvcencio/gitlet/pkg/object"
	"github.com/spf13/afero"
)

// Staging is the set of changes queued for the next commit. A filename is
// never staged for addition and removal at the same time.
type Staging struct {
	toAdd    map[string]object.Hash
	toRemove map[string]struct{}
}

// NewStaging returns an empty staging area.
func NewStaging() *Staging {
	return &Staging{
		toAdd:    make(map[string]object.Hash),
		toRemove: make(map[string]struct{}),
	}
}

// StageAdd queues name with the given blob, replacing any pending removal.
func (s *Staging) StageAdd(name string, blob object.Hash) {
	delete(s.toRemove, name)
	s.toAdd[name] = blob
}

// StageRemove queues name for removal, replacing any pending addition.
func (s *Staging) StageRemove(name string) {
	delete(s.toAdd, name)
	s.toRemove[name] = struct{}{}
}

// Unstage drops name from both sets and reports whether it was staged.
func (s *Staging) Unstage(name string) bool {
	_, added := s.toAdd[name]
	_, removed := s.toRemove[name]
	delete(s.toAdd, name)
	delete(s.toRemove, name)
	return added || removed
}

// StagedBlob returns the blob staged for addition under name.
func (s *Staging) StagedBlob(name string) (object.Hash, bool) {
	h, ok := s.toAdd[name]
	return h, ok
}

// IsRemoved reports whether name is staged for removal.
func (s *Staging) IsRemoved(name string) bool {
	_, ok := s.toRemove[name]
	return ok
}

// Added returns the names staged for addition, sorted.
func (s *Staging) Added() []string {
	return slices.Sorted(maps.Keys(s.toAdd))
}

// Removed returns the names staged for removal, sorted.
func (s *Staging) Removed() []string {
	return slices.Sorted(maps.Keys(s.toRemove))
}

// IsEmpty reports whether nothing is staged.
func (s *Staging) IsEmpty() bool {
	return len(s.toAdd) == 0 && len(s.toRemove) == 0
}

// Clear drops every staged change.
func (s *Staging) Clear() {
	clear(s.toAdd)
	clear(s.toRemove)
}

// apply returns base with every staged addition and removal applied. base
// is not modified.
func (s *Staging) apply(base map[string]object.Hash) map[string]object.Hash {
	out := maps.Clone(base)
	if out == nil {
		out = make(map[string]object.Hash, len(s.toAdd))
	}
	maps.Copy(out, s.toAdd)
	for name := range s.toRemove {
		delete(out, name)
	}
	return out
}

type stagingFile struct {
	ToAdd    map[string]object.Hash `json:"to_add"`
	ToRemove []string               `json:"to_remove"`
}

func (s *Staging) MarshalJSON() ([]byte, error) {
	removed := s.Removed()
	if removed == nil {
		removed = []string{}
	}
	return json.Marshal(stagingFile{
		ToAdd:    s.toAdd,
		ToRemove: removed,
	})
}

func (s *Staging) UnmarshalJSON(data []byte) error {
	var f stagingFile
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	s.toAdd = make(map[string]object.Hash, len(f.ToAdd))
	s.toRemove = make(map[string]struct{}, len(f.ToRemove))
	maps.Copy(s.toAdd, f.ToAdd)
	for _, name := range f.ToRemove {
		if _, dup := s.toAdd[name]; dup {
			return fmt.Errorf("%q is staged for addition and removal", name)
		}
		s.toRemove[name] = struct{}{}
	}
	return nil
}

// indexPath returns the filesystem path to the staging index file.
func (r *Repo) indexPath() string {
	return filepath.Join(r.GitletDir, "index")
}

// ReadStaging loads the staging area from .gitlet/index. If the file does
// not exist, an empty Staging is returned (no error).
func (r *Repo) ReadStaging() (*Staging, error) {
	data, err := afero.ReadFile(r.fs, r.indexPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewStaging(), nil
		}
		return nil, fmt.Errorf("read staging: %w", err)
	}

	stg := NewStaging()
	if err := json.Unmarshal(data, stg); err != nil {
		return nil, fmt.Errorf("read staging: %v: %w", err, ErrStorageCorruption)
	}
	return stg, nil
}

// WriteStaging atomically writes the staging area to .gitlet/index.
func (r *Repo) WriteStaging(s *Staging) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("write staging: marshal: %w", err)
	}
	if err := fsutil.WriteFileAtomic(r.fs, r.indexPath(), data, 0o644); err != nil {
		return fmt.Errorf("write staging: %w", err)
	}
	r.opLog("stage").WithFields(logging.Fields{
		"added":   len(s.toAdd),
		"removed": len(s.toRemove),
	}).Debug("staging written")
	return nil
}

// Add stages the current content of a working-tree file. A file whose
// content matches HEAD and that is not staged for removal is left unstaged,
// and any stale pending addition for it is dropped.
func (r *Repo) Add(name string) error {
	rel, err := r.repoRelPath(name)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	content, err := r.readWorkFile(rel)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}

	_, head, err := r.headCommit()
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	stg, err := r.ReadStaging()
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}

	blob := r.Store.BlobID(content)
	if headBlob, ok := head.Blob(rel); ok && headBlob == blob && !stg.IsRemoved(rel) {
		if stg.Unstage(rel) {
			return r.WriteStaging(stg)
		}
		return nil
	}

	if _, err := r.Store.PutBlob(content); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	stg.StageAdd(rel, blob)
	if err := r.WriteStaging(stg); err != nil {
		return fmt.Errorf("add: %w", err)
	}

	r.opLog("add").WithFields(logging.Fields{
		logging.PathFieldKey: rel,
		logging.BlobFieldKey: blob,
	}).Debug("file staged")
	return nil
}

// Remove unstages a file staged for addition, or stages a tracked file for
// removal and deletes it from the working tree.
func (r *Repo) Remove(name string) error {
	rel, err := r.repoRelPath(name)
	if err != nil {
		return fmt.Errorf("rm: %w", err)
	}

	_, head, err := r.headCommit()
	if err != nil {
		return fmt.Errorf("rm: %w", err)
	}
	stg, err := r.ReadStaging()
	if err != nil {
		return fmt.Errorf("rm: %w", err)
	}

	_, staged := stg.StagedBlob(rel)
	tracked := head.Tracks(rel)
	if !staged && !tracked {
		return fmt.Errorf("rm %q: %w", rel, ErrNoReasonToRemove)
	}

	if tracked {
		stg.StageRemove(rel)
	} else {
		stg.Unstage(rel)
	}
	if err := r.WriteStaging(stg); err != nil {
		return fmt.Errorf("rm: %w", err)
	}

	if tracked {
		if err := r.removeWorkFile(rel); err != nil {
			return fmt.Errorf("rm: %w", err)
		}
	}
	r.opLog("rm").WithFields(logging.Fields{
		logging.PathFieldKey: rel,
		"tracked":            tracked,
	}).Debug("file removed")
	return nil
}

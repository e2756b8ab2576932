package repo

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/odvcencio/gitlet/internal/logging"
	"github.com/odvcencio/gitlet/pkg/object"
	"github.com/spf13/afero"
)

// CheckoutFile restores name in the working tree to its content in the
// HEAD commit. Staging is left untouched.
func (r *Repo) CheckoutFile(name string) error {
	head, err := r.Head()
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	return r.checkoutFile(head.Commit, name)
}

// CheckoutFileFromCommit restores name in the working tree to its content
// in the given commit. The commit ID may be abbreviated.
func (r *Repo) CheckoutFileFromCommit(commitID, name string) error {
	id, err := r.resolveCommit(commitID)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	return r.checkoutFile(id, name)
}

func (r *Repo) checkoutFile(id object.Hash, name string) error {
	rel, err := r.repoRelPath(name)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	c, err := r.readCommit(id)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	blob, ok := c.Blob(rel)
	if !ok {
		return fmt.Errorf("checkout %q from %s: %w", rel, id.Short(), ErrFileNotInCommit)
	}
	data, err := r.Store.GetBlob(blob)
	if err != nil {
		return fmt.Errorf("checkout %q: %w: %w", rel, ErrStorageCorruption, err)
	}
	if err := r.writeWorkFile(rel, data); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	r.opLog("checkout").WithFields(logging.Fields{
		logging.PathFieldKey:   rel,
		logging.CommitFieldKey: id,
	}).Debug("file restored")
	return nil
}

// CheckoutBranch switches the working tree and HEAD to the named branch.
// Files tracked by HEAD but absent from the branch are deleted, every file
// of the branch's commit is written, and staging is cleared.
func (r *Repo) CheckoutBranch(name string) error {
	target, err := r.BranchHead(name)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	head, cur, err := r.headCommit()
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	if head.Branch == name {
		return fmt.Errorf("checkout %q: %w", name, ErrNoOpCheckout)
	}
	to, err := r.readCommit(target)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	if err := r.switchTree(cur, to); err != nil {
		return fmt.Errorf("checkout %q: %w", name, err)
	}
	if err := r.setHead(name, target, fmt.Sprintf("checkout: moving from %s to %s", head, name)); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	if err := r.WriteStaging(NewStaging()); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	return nil
}

// CheckoutCommit switches the working tree to a commit and detaches HEAD
// there. It applies the same safety check as CheckoutBranch.
func (r *Repo) CheckoutCommit(commitID string) error {
	target, err := r.resolveCommit(commitID)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	head, cur, err := r.headCommit()
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	to, err := r.readCommit(target)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	if err := r.switchTree(cur, to); err != nil {
		return fmt.Errorf("checkout %s: %w", target.Short(), err)
	}
	if err := r.setDetachedHead(target, fmt.Sprintf("checkout: moving from %s to %s", head, target.Short())); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	if err := r.WriteStaging(NewStaging()); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	return nil
}

// switchTree replaces the working tree contents of from with those of to.
// All checks and blob reads happen before the first file is touched, see
// checkWritable for what aborts the switch.
func (r *Repo) switchTree(from, to *object.Commit) error {
	for _, name := range to.Files() {
		if err := r.checkWritable(from, to, name); err != nil {
			return err
		}
	}

	contents := make(map[string][]byte, len(to.Snapshot))
	for _, name := range to.Files() {
		data, err := r.Store.GetBlob(to.Snapshot[name])
		if err != nil {
			return fmt.Errorf("%q: %w: %w", name, ErrStorageCorruption, err)
		}
		contents[name] = data
	}

	for _, name := range from.Files() {
		if to.Tracks(name) {
			continue
		}
		if err := r.removeWorkFile(name); err != nil {
			return err
		}
	}
	for _, name := range to.Files() {
		if err := r.writeWorkFile(name, contents[name]); err != nil {
			return err
		}
	}
	return nil
}

// checkWritable reports ErrUntrackedFileWouldBeOverwritten when writing the
// target file name would clobber or be blocked by something from does not
// track: an untracked file at name, a directory at name holding untracked
// entries, or an ancestor of name that is a file surviving the switch.
func (r *Repo) checkWritable(from, to *object.Commit, name string) error {
	info, err := r.fs.Stat(r.workPath(name))
	switch {
	case err == nil && info.IsDir():
		if r.dirHasUntracked(from, name) {
			return fmt.Errorf("%q is a directory with untracked content: %w", name, ErrUntrackedFileWouldBeOverwritten)
		}
	case err == nil && !from.Tracks(name):
		return fmt.Errorf("%q: %w", name, ErrUntrackedFileWouldBeOverwritten)
	}

	for dir := path.Dir(name); dir != "."; dir = path.Dir(dir) {
		info, err := r.fs.Stat(r.workPath(dir))
		if err != nil || info.IsDir() {
			continue
		}
		// A file from tracks and to drops is removed before any write.
		if !from.Tracks(dir) || to.Tracks(dir) {
			return fmt.Errorf("%q is a file where %q needs a directory: %w", dir, name, ErrUntrackedFileWouldBeOverwritten)
		}
	}
	return nil
}

// dirHasUntracked reports whether the directory rel would still exist after
// the files from tracks beneath it are removed.
func (r *Repo) dirHasUntracked(from *object.Commit, rel string) bool {
	found := false
	err := afero.Walk(r.fs, r.workPath(rel), func(p string, info fs.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		sub, err := filepath.Rel(r.RootDir, p)
		if err != nil {
			return err
		}
		sub = filepath.ToSlash(sub)
		if info.IsDir() {
			// Only directories that lose a tracked file get pruned.
			if !hasTrackedUnder(from, sub) {
				found = true
				return filepath.SkipAll
			}
			return nil
		}
		if !from.Tracks(sub) {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found || err != nil
}

func hasTrackedUnder(c *object.Commit, dir string) bool {
	prefix := dir + "/"
	for name := range c.Snapshot {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

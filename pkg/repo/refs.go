package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/odvcencio/gitlet/internal/fsutil"
	"github.com/odvcencio/gitlet/internal/logging"
	"github.com/odvcencio/gitlet/pkg/object"
	"github.com/spf13/afero"
)

const (
	headFile     = "HEAD"
	headsPrefix  = "refs/heads/"
	symrefPrefix = "ref: "
)

func branchRef(name string) string {
	return headsPrefix + name
}

// HeadState is the decoded content of HEAD.
type HeadState struct {
	Branch string      // current branch, empty when HEAD is detached
	Commit object.Hash // commit HEAD resolves to
}

// Detached reports whether HEAD points directly at a commit.
func (h HeadState) Detached() bool {
	return h.Branch == ""
}

func (h HeadState) String() string {
	if h.Detached() {
		return "detached at " + h.Commit.Short()
	}
	return h.Branch
}

// readRef reads the hash stored in .gitlet/<ref>. A missing ref returns
// ok=false and no error.
func (r *Repo) readRef(ref string) (object.Hash, bool, error) {
	data, err := afero.ReadFile(r.fs, filepath.Join(r.GitletDir, filepath.FromSlash(ref)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read ref %q: %w", ref, err)
	}
	h := object.Hash(strings.TrimSpace(string(data)))
	if !r.Store.Algorithm().IsValid(h) {
		return "", false, fmt.Errorf("read ref %q: malformed hash %q: %w", ref, h, ErrStorageCorruption)
	}
	return h, true, nil
}

// updateRef atomically points ref at h and records the move in the ref's
// reflog.
func (r *Repo) updateRef(ref string, h object.Hash, reason string) error {
	old, _, err := r.readRef(ref)
	if err != nil && !errors.Is(err, ErrStorageCorruption) {
		return fmt.Errorf("update ref %q: %w", ref, err)
	}

	path := filepath.Join(r.GitletDir, filepath.FromSlash(ref))
	if err := fsutil.WriteFileAtomic(r.fs, path, []byte(string(h)+"\n"), 0o644); err != nil {
		return fmt.Errorf("update ref %q: %w", ref, err)
	}
	r.appendReflog(ref, old, h, reason)

	r.opLog("update-ref").WithFields(logging.Fields{
		logging.RefFieldKey:    ref,
		logging.CommitFieldKey: h,
	}).Debug("ref moved")
	return nil
}

// writeHead atomically replaces HEAD with content and records the move from
// old to h in the HEAD reflog.
func (r *Repo) writeHead(content string, old, h object.Hash, reason string) error {
	path := filepath.Join(r.GitletDir, headFile)
	if err := fsutil.WriteFileAtomic(r.fs, path, []byte(content+"\n"), 0o644); err != nil {
		return fmt.Errorf("write HEAD: %w", err)
	}
	r.appendReflog(headFile, old, h, reason)

	r.opLog("update-ref").WithFields(logging.Fields{
		logging.RefFieldKey:    headFile,
		logging.CommitFieldKey: h,
	}).Debug("HEAD moved")
	return nil
}

// Head reads .gitlet/HEAD. A symbolic HEAD ("ref: refs/heads/<b>") yields
// the branch and the commit it points at; a detached HEAD yields only the
// commit.
func (r *Repo) Head() (HeadState, error) {
	data, err := afero.ReadFile(r.fs, filepath.Join(r.GitletDir, headFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return HeadState{}, fmt.Errorf("head: %w", ErrNotARepository)
		}
		return HeadState{}, fmt.Errorf("head: %w", err)
	}
	content := strings.TrimSpace(string(data))

	if target, ok := strings.CutPrefix(content, symrefPrefix); ok {
		name, ok := strings.CutPrefix(target, headsPrefix)
		if !ok {
			return HeadState{}, fmt.Errorf("head: unexpected target %q: %w", target, ErrStorageCorruption)
		}
		h, found, err := r.readRef(target)
		if err != nil {
			return HeadState{}, fmt.Errorf("head: %w", err)
		}
		if !found {
			return HeadState{}, fmt.Errorf("head: branch %q is missing: %w", name, ErrStorageCorruption)
		}
		return HeadState{Branch: name, Commit: h}, nil
	}

	h := object.Hash(content)
	if !r.Store.Algorithm().IsValid(h) {
		return HeadState{}, fmt.Errorf("head: malformed content %q: %w", content, ErrStorageCorruption)
	}
	return HeadState{Commit: h}, nil
}

// SetHead makes branch the current branch and ensures it points at commit.
// The branch is moved first when needed, so HEAD never names a branch that
// resolves elsewhere.
func (r *Repo) SetHead(branch string, commit object.Hash) error {
	return r.setHead(branch, commit, "checkout: moving to "+branch)
}

func (r *Repo) setHead(branch string, commit object.Hash, reason string) error {
	cur, err := r.BranchHead(branch)
	if err != nil {
		return fmt.Errorf("set head: %w", err)
	}
	if !r.Store.Has(commit) {
		return fmt.Errorf("set head %s: %w", commit, ErrCommitNotFound)
	}
	old, err := r.Head()
	if err != nil && !errors.Is(err, ErrStorageCorruption) {
		return fmt.Errorf("set head: %w", err)
	}

	if cur != commit {
		if err := r.updateRef(branchRef(branch), commit, reason); err != nil {
			return fmt.Errorf("set head: %w", err)
		}
	}
	return r.writeHead(symrefPrefix+branchRef(branch), old.Commit, commit, reason)
}

// SetDetachedHead points HEAD directly at commit.
func (r *Repo) SetDetachedHead(commit object.Hash) error {
	return r.setDetachedHead(commit, "checkout: moving to "+commit.Short())
}

func (r *Repo) setDetachedHead(commit object.Hash, reason string) error {
	if !r.Store.Has(commit) {
		return fmt.Errorf("set detached head %s: %w", commit, ErrCommitNotFound)
	}
	old, err := r.Head()
	if err != nil && !errors.Is(err, ErrStorageCorruption) {
		return fmt.Errorf("set detached head: %w", err)
	}
	return r.writeHead(string(commit), old.Commit, commit, reason)
}

// resolveCommit expands a full or abbreviated commit ID.
func (r *Repo) resolveCommit(id string) (object.Hash, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if h := object.Hash(id); r.Store.Algorithm().IsValid(h) {
		if _, err := r.Store.GetCommit(h); err != nil {
			if errors.Is(err, object.ErrObjectNotFound) {
				return "", fmt.Errorf("commit %s: %w", id, ErrCommitNotFound)
			}
			return "", err
		}
		return h, nil
	}

	h, err := r.Store.ResolveCommitPrefix(id)
	switch {
	case errors.Is(err, object.ErrAmbiguousPrefix):
		return "", fmt.Errorf("commit %s: %w", id, ErrAmbiguousCommitID)
	case errors.Is(err, object.ErrObjectNotFound):
		return "", fmt.Errorf("commit %s: %w", id, ErrCommitNotFound)
	case err != nil:
		return "", err
	}
	return h, nil
}

// readCommit loads a commit a ref or snapshot claims exists. A missing
// object at that point means the store is damaged.
func (r *Repo) readCommit(h object.Hash) (*object.Commit, error) {
	c, err := r.Store.GetCommit(h)
	if err != nil {
		if errors.Is(err, object.ErrObjectNotFound) {
			return nil, fmt.Errorf("commit %s: %w: %w", h, ErrStorageCorruption, err)
		}
		return nil, err
	}
	return c, nil
}

func (r *Repo) headCommit() (HeadState, *object.Commit, error) {
	head, err := r.Head()
	if err != nil {
		return HeadState{}, nil, err
	}
	c, err := r.readCommit(head.Commit)
	if err != nil {
		return HeadState{}, nil, err
	}
	return head, c, nil
}

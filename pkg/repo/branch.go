package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/odvcencio/gitlet/internal/fsutil"
	"github.com/odvcencio/gitlet/pkg/object"
	"github.com/spf13/afero"
)

// validateBranchName rejects names that cannot be stored as a single file
// under refs/heads/.
func validateBranchName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidBranchName)
	case name == headFile:
		return fmt.Errorf("%w: %q is reserved", ErrInvalidBranchName, name)
	case strings.HasPrefix(name, "."), strings.HasPrefix(name, "-"):
		return fmt.Errorf("%w: %q starts with %q", ErrInvalidBranchName, name, name[:1])
	case strings.ContainsAny(name, `/\:~^?*[`):
		return fmt.Errorf("%w: %q contains a reserved character", ErrInvalidBranchName, name)
	}
	for _, c := range name {
		if unicode.IsSpace(c) || unicode.IsControl(c) {
			return fmt.Errorf("%w: %q contains whitespace or control characters", ErrInvalidBranchName, name)
		}
	}
	return nil
}

// Branch creates a branch named name at the current HEAD commit. It never
// creates a commit and never switches branches.
func (r *Repo) Branch(name string) error {
	head, err := r.Head()
	if err != nil {
		return fmt.Errorf("branch: %w", err)
	}
	return r.CreateBranch(name, head.Commit)
}

// CreateBranch creates a new branch pointing at the given commit. Returns
// ErrBranchExists if the branch already exists.
func (r *Repo) CreateBranch(name string, target object.Hash) error {
	if err := validateBranchName(name); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	_, found, err := r.readRef(branchRef(name))
	if err != nil && !errors.Is(err, ErrStorageCorruption) {
		return fmt.Errorf("create branch %q: %w", name, err)
	}
	if found || errors.Is(err, ErrStorageCorruption) {
		return fmt.Errorf("create branch %q: %w", name, ErrBranchExists)
	}
	if !r.Store.Has(target) {
		return fmt.Errorf("create branch %q: %s: %w", name, target, ErrCommitNotFound)
	}
	if err := r.updateRef(branchRef(name), target, "branch: created from "+target.Short()); err != nil {
		return fmt.Errorf("create branch %q: %w", name, err)
	}
	return nil
}

// MoveBranch points an existing branch at commit. It does not touch HEAD
// or the working tree.
func (r *Repo) MoveBranch(name string, commit object.Hash) error {
	return r.moveBranch(name, commit, "branch: moved to "+commit.Short())
}

func (r *Repo) moveBranch(name string, commit object.Hash, reason string) error {
	if _, err := r.BranchHead(name); err != nil {
		return fmt.Errorf("move branch: %w", err)
	}
	if !r.Store.Has(commit) {
		return fmt.Errorf("move branch %q: %s: %w", name, commit, ErrCommitNotFound)
	}
	if err := r.updateRef(branchRef(name), commit, reason); err != nil {
		return fmt.Errorf("move branch %q: %w", name, err)
	}
	return nil
}

// BranchHead returns the commit a branch points at.
func (r *Repo) BranchHead(name string) (object.Hash, error) {
	if validateBranchName(name) != nil {
		return "", fmt.Errorf("branch %q: %w", name, ErrNoSuchBranch)
	}
	h, found, err := r.readRef(branchRef(name))
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("branch %q: %w", name, ErrNoSuchBranch)
	}
	return h, nil
}

// ListBranches reads .gitlet/refs/heads/ and returns the branch names sorted
// alphabetically.
func (r *Repo) ListBranches() ([]string, error) {
	headsDir := filepath.Join(r.GitletDir, "refs", "heads")

	entries, err := afero.ReadDir(r.fs, headsDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list branches: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || fsutil.IsTempName(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// CurrentBranch returns the branch HEAD points at, or "" when detached.
func (r *Repo) CurrentBranch() (string, error) {
	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("current branch: %w", err)
	}
	return head.Branch, nil
}

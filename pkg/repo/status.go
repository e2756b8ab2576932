package repo

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/odvcencio/gitlet/pkg/object"
)

// FileStatus describes how a working-tree file differs from what the next
// commit would record.
type FileStatus int

const (
	StatusModified FileStatus = iota + 1 // content differs from HEAD or staging
	StatusDeleted                        // tracked or staged, but gone from disk
)

func (s FileStatus) String() string {
	switch s {
	case StatusModified:
		return "modified"
	case StatusDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("FileStatus(%d)", int(s))
	}
}

// StatusEntry records an unstaged change to a single file.
type StatusEntry struct {
	Path   string // repo-relative path
	Status FileStatus
}

// BranchInfo is a branch as listed by status.
type BranchInfo struct {
	Name    string
	Current bool
}

// Status is a snapshot of the repository state. Every list is sorted.
type Status struct {
	Head      HeadState
	Branches  []BranchInfo
	Staged    []string      // staged for addition
	Removed   []string      // staged for removal
	Unstaged  []StatusEntry // modifications not staged for commit
	Untracked []string
}

// Status computes the working tree status for the repository.
//
// A file is listed as modified but not staged when it is tracked by HEAD,
// changed on disk and not staged, or when it is staged for addition with
// content that no longer matches the working copy. It is listed as deleted
// when it is staged for addition but missing from disk, or tracked by HEAD,
// missing from disk and not staged for removal. Untracked files are present
// on disk and neither staged for addition nor tracked; a file staged for
// removal and then re-created also counts as untracked.
func (r *Repo) Status() (*Status, error) {
	head, commit, err := r.headCommit()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	stg, err := r.ReadStaging()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	branches, err := r.ListBranches()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	work, err := r.workFiles()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	st := &Status{
		Head:    head,
		Staged:  stg.Added(),
		Removed: stg.Removed(),
	}
	for _, b := range branches {
		st.Branches = append(st.Branches, BranchInfo{Name: b, Current: b == head.Branch})
	}

	// Tracked or staged files are checked directly so that ignore rules
	// never hide a change to them.
	candidates := make(map[string]struct{}, len(commit.Snapshot))
	for _, name := range commit.Files() {
		candidates[name] = struct{}{}
	}
	for _, name := range st.Staged {
		candidates[name] = struct{}{}
	}
	for name := range candidates {
		entry, changed, err := r.unstagedChange(name, commit, stg)
		if err != nil {
			return nil, fmt.Errorf("status: %w", err)
		}
		if changed {
			st.Unstaged = append(st.Unstaged, entry)
		}
	}
	slices.SortFunc(st.Unstaged, func(a, b StatusEntry) int {
		return cmp.Compare(a.Path, b.Path)
	})

	for _, name := range work {
		_, staged := stg.StagedBlob(name)
		if staged {
			continue
		}
		if !commit.Tracks(name) || stg.IsRemoved(name) {
			st.Untracked = append(st.Untracked, name)
		}
	}
	return st, nil
}

func (r *Repo) unstagedChange(name string, commit *object.Commit, stg *Staging) (StatusEntry, bool, error) {
	staged, isStaged := stg.StagedBlob(name)
	tracked, isTracked := commit.Blob(name)

	if !r.workFileExists(name) {
		if isStaged || (isTracked && !stg.IsRemoved(name)) {
			return StatusEntry{Path: name, Status: StatusDeleted}, true, nil
		}
		return StatusEntry{}, false, nil
	}

	data, err := r.readWorkFile(name)
	if err != nil {
		return StatusEntry{}, false, err
	}
	current := r.Store.BlobID(data)

	switch {
	case isStaged && current != staged:
		return StatusEntry{Path: name, Status: StatusModified}, true, nil
	case !isStaged && isTracked && !stg.IsRemoved(name) && current != tracked:
		return StatusEntry{Path: name, Status: StatusModified}, true, nil
	}
	return StatusEntry{}, false, nil
}

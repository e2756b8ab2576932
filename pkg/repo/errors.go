package repo

import (
	"errors"

	"github.com/odvcencio/gitlet/pkg/object"
)

var (
	ErrNotARepository     = errors.New("not in an initialized gitlet directory")
	ErrAlreadyInitialized = errors.New("a gitlet version-control system already exists in the current directory")

	ErrFileNotFound         = errors.New("file does not exist")
	ErrInvalidPath          = errors.New("path is outside the working tree")
	ErrNoReasonToRemove     = errors.New("no reason to remove the file")
	ErrNothingToCommit      = errors.New("no changes added to the commit")
	ErrInvalidCommitMessage = errors.New("please enter a commit message")

	ErrBranchExists      = errors.New("a branch with that name already exists")
	ErrNoSuchBranch      = errors.New("no such branch exists")
	ErrInvalidBranchName = errors.New("invalid branch name")
	ErrNoOpCheckout      = errors.New("no need to checkout the current branch")

	ErrCommitNotFound    = errors.New("no commit with that id exists")
	ErrAmbiguousCommitID = errors.New("commit id prefix is ambiguous")
	ErrFileNotInCommit   = errors.New("file does not exist in that commit")

	ErrUntrackedFileWouldBeOverwritten = errors.New("there is an untracked file in the way; delete it, or add and commit it first")

	// ErrStorageCorruption is the object store's corruption error, so callers
	// of either package can test for it with errors.Is.
	ErrStorageCorruption = object.ErrCorruptObject
)

package repo

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Verify checks the object store and that HEAD and every branch resolve to
// a stored commit. All problems found are returned together.
func (r *Repo) Verify() error {
	var result *multierror.Error
	if err := r.Store.Verify(); err != nil {
		result = multierror.Append(result, err)
	}

	head, err := r.Head()
	if err != nil {
		result = multierror.Append(result, err)
	} else if _, err := r.readCommit(head.Commit); err != nil {
		result = multierror.Append(result, fmt.Errorf("HEAD: %w", err))
	}

	branches, err := r.ListBranches()
	if err != nil {
		result = multierror.Append(result, err)
	}
	for _, b := range branches {
		h, err := r.BranchHead(b)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if _, err := r.readCommit(h); err != nil {
			result = multierror.Append(result, fmt.Errorf("branch %q: %w", b, err))
		}
	}
	return result.ErrorOrNil()
}

package repo

import (
	"fmt"

	"github.com/odvcencio/gitlet/internal/logging"
)

// Reset checks out every file of the given commit, moves the current
// branch (or a detached HEAD) to it and clears staging. Files tracked by
// HEAD but absent from the commit are deleted. The commit ID may be
// abbreviated.
func (r *Repo) Reset(commitID string) error {
	target, err := r.resolveCommit(commitID)
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	head, cur, err := r.headCommit()
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	to, err := r.readCommit(target)
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	if err := r.switchTree(cur, to); err != nil {
		return fmt.Errorf("reset %s: %w", target.Short(), err)
	}

	reason := "reset: moving to " + target.Short()
	if head.Detached() {
		err = r.setDetachedHead(target, reason)
	} else {
		err = r.setHead(head.Branch, target, reason)
	}
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	if err := r.WriteStaging(NewStaging()); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	r.opLog("reset").WithFields(logging.Fields{
		logging.RefFieldKey:    head.String(),
		logging.CommitFieldKey: target,
	}).Debug("reset")
	return nil
}

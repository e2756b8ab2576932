package repo

import (
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/odvcencio/gitlet/internal/logging"
	"github.com/odvcencio/gitlet/pkg/object"
)

// Commit creates a new commit from the staging area:
//  1. Reject an empty message, then an empty staging area.
//  2. Copy the HEAD commit's snapshot.
//  3. Apply staged additions, then staged removals.
//  4. Store the commit with HEAD's commit as parent.
//  5. Advance the current branch (or a detached HEAD) and clear staging.
//
// Nothing is written before every check has passed.
func (r *Repo) Commit(message string) (object.Hash, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("commit: %w", ErrInvalidCommitMessage)
	}

	head, parent, err := r.headCommit()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	stg, err := r.ReadStaging()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	if stg.IsEmpty() {
		return "", fmt.Errorf("commit: %w", ErrNothingToCommit)
	}

	snapshot := stg.apply(parent.Snapshot)
	for _, name := range stg.Added() {
		if blob := snapshot[name]; !r.Store.Has(blob) {
			return "", fmt.Errorf("commit: %q: blob %s missing: %w", name, blob, ErrStorageCorruption)
		}
	}

	c := object.NewCommit(message, r.now().Unix(), head.Commit, snapshot)
	id, err := r.Store.PutCommit(c)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	reason := "commit: " + firstLine(message)
	if head.Detached() {
		err = r.writeHead(string(id), head.Commit, id, reason)
	} else {
		err = r.updateRef(branchRef(head.Branch), id, reason)
		if err == nil {
			r.appendReflog(headFile, head.Commit, id, reason)
		}
	}
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	stg.Clear()
	if err := r.WriteStaging(stg); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	r.opLog("commit").WithFields(logging.Fields{
		logging.CommitFieldKey: id,
		logging.RefFieldKey:    head.String(),
		"files":                len(snapshot),
	}).Debug("commit created")
	return id, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// LogEntry is one commit as shown by log and global-log.
type LogEntry struct {
	ID        object.Hash
	Parent    object.Hash
	Timestamp int64
	Message   string
}

// Time returns the commit timestamp in local time.
func (e LogEntry) Time() time.Time {
	return time.Unix(e.Timestamp, 0)
}

func newLogEntry(id object.Hash, c *object.Commit) LogEntry {
	return LogEntry{
		ID:        id,
		Parent:    c.Parent,
		Timestamp: c.Timestamp,
		Message:   c.Message,
	}
}

// Log walks the first-parent chain from HEAD back to the initial commit.
// Commits are read lazily as the sequence is consumed, and every range
// over the result re-reads HEAD.
func (r *Repo) Log() iter.Seq2[LogEntry, error] {
	return func(yield func(LogEntry, error) bool) {
		head, err := r.Head()
		if err != nil {
			yield(LogEntry{}, fmt.Errorf("log: %w", err))
			return
		}
		for cur := head.Commit; cur != ""; {
			c, err := r.readCommit(cur)
			if err != nil {
				yield(LogEntry{}, fmt.Errorf("log: %w", err))
				return
			}
			if !yield(newLogEntry(cur, c), nil) {
				return
			}
			cur = c.Parent
		}
	}
}

// GlobalLog yields every commit ever made, ordered by ID.
func (r *Repo) GlobalLog() iter.Seq2[LogEntry, error] {
	return func(yield func(LogEntry, error) bool) {
		ids, err := r.Store.ListCommits()
		if err != nil {
			yield(LogEntry{}, fmt.Errorf("global log: %w", err))
			return
		}
		for _, id := range ids {
			c, err := r.readCommit(id)
			if err != nil {
				yield(LogEntry{}, fmt.Errorf("global log: %w", err))
				return
			}
			if !yield(newLogEntry(id, c), nil) {
				return
			}
		}
	}
}

// Find returns the IDs of every commit whose message is exactly message.
func (r *Repo) Find(message string) ([]object.Hash, error) {
	var ids []object.Hash
	for e, err := range r.GlobalLog() {
		if err != nil {
			return nil, fmt.Errorf("find: %w", err)
		}
		if e.Message == message {
			ids = append(ids, e.ID)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("find %q: %w", message, ErrCommitNotFound)
	}
	return ids, nil
}

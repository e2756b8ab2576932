package object

import (
	"maps"
	"slices"
)

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeCommit ObjectType = "commit"
)

func (t ObjectType) valid() bool {
	return t == TypeBlob || t == TypeCommit
}

// Commit is an immutable snapshot record. Its ID is derived from all of its
// fields, see MarshalCommit.
type Commit struct {
	Parent    Hash // empty only for the initial commit
	Timestamp int64
	Message   string
	Snapshot  map[string]Hash // filename -> blob
}

// NewCommit builds a commit that owns a private copy of snapshot.
func NewCommit(message string, timestamp int64, parent Hash, snapshot map[string]Hash) *Commit {
	files := make(map[string]Hash, len(snapshot))
	maps.Copy(files, snapshot)
	return &Commit{
		Parent:    parent,
		Timestamp: timestamp,
		Message:   message,
		Snapshot:  files,
	}
}

// Files returns the tracked filenames in lexicographic order.
func (c *Commit) Files() []string {
	return slices.Sorted(maps.Keys(c.Snapshot))
}

// Blob returns the blob recorded for name.
func (c *Commit) Blob(name string) (Hash, bool) {
	h, ok := c.Snapshot[name]
	return h, ok
}

// Tracks reports whether the commit records name.
func (c *Commit) Tracks(name string) bool {
	_, ok := c.Snapshot[name]
	return ok
}

// CloneSnapshot returns a fresh mutable copy of the snapshot.
func (c *Commit) CloneSnapshot() map[string]Hash {
	out := make(map[string]Hash, len(c.Snapshot))
	maps.Copy(out, c.Snapshot)
	return out
}

// IsInitial reports whether the commit has no parent.
func (c *Commit) IsInitial() bool {
	return c.Parent == ""
}

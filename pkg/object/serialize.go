package object

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// MarshalCommit serializes a Commit to its canonical form:
//
//	parent <hash>                       (omitted for the initial commit)
//	timestamp <unix seconds>
//	file <blob hash> <quoted filename>  (one per entry, sorted by filename)
//
//	<message>
//
// The encoding depends only on the commit's fields, so equal commits always
// hash to the same ID.
func MarshalCommit(c *Commit) []byte {
	var buf bytes.Buffer
	if c.Parent != "" {
		fmt.Fprintf(&buf, "parent %s\n", c.Parent)
	}
	fmt.Fprintf(&buf, "timestamp %d\n", c.Timestamp)
	for _, name := range c.Files() {
		fmt.Fprintf(&buf, "file %s %s\n", c.Snapshot[name], strconv.Quote(name))
	}
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return buf.Bytes()
}

// UnmarshalCommit parses a Commit from its canonical form.
func UnmarshalCommit(data []byte) (*Commit, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return nil, fmt.Errorf("unmarshal commit: missing header/message separator: %w", ErrCorruptObject)
	}
	header := string(data[:idx])

	c := &Commit{
		Message:  string(data[idx+2:]),
		Snapshot: make(map[string]Hash),
	}

	seenTimestamp := false
	for _, line := range strings.Split(header, "\n") {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("unmarshal commit: invalid header line %q: %w", line, ErrCorruptObject)
		}
		switch key {
		case "parent":
			if c.Parent != "" {
				return nil, fmt.Errorf("unmarshal commit: duplicate parent: %w", ErrCorruptObject)
			}
			c.Parent = Hash(val)
		case "timestamp":
			ts, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: invalid timestamp %q: %w", val, ErrCorruptObject)
			}
			c.Timestamp = ts
			seenTimestamp = true
		case "file":
			blob, quoted, ok := strings.Cut(val, " ")
			if !ok {
				return nil, fmt.Errorf("unmarshal commit: invalid file entry %q: %w", val, ErrCorruptObject)
			}
			name, err := strconv.Unquote(quoted)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: invalid file name %q: %w", quoted, ErrCorruptObject)
			}
			if _, dup := c.Snapshot[name]; dup {
				return nil, fmt.Errorf("unmarshal commit: duplicate file %q: %w", name, ErrCorruptObject)
			}
			c.Snapshot[name] = Hash(blob)
		default:
			return nil, fmt.Errorf("unmarshal commit: unknown header %q: %w", key, ErrCorruptObject)
		}
	}
	if !seenTimestamp {
		return nil, fmt.Errorf("unmarshal commit: missing timestamp: %w", ErrCorruptObject)
	}
	return c, nil
}

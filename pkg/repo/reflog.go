package repo

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/odvcencio/gitlet/internal/logging"
	"github.com/odvcencio/gitlet/pkg/object"
)

// ReflogEntry records one movement of a ref.
type ReflogEntry struct {
	Ref       string
	OldHash   object.Hash // empty when the ref was created
	NewHash   object.Hash
	Timestamp int64
	Reason    string
}

func (r *Repo) zeroHash() string {
	return strings.Repeat("0", r.Store.Algorithm().HexLen())
}

// appendReflog records a ref movement in .gitlet/logs/<ref>. The ref update
// has already happened when this runs, so a failure is logged, not returned.
func (r *Repo) appendReflog(ref string, oldHash, newHash object.Hash, reason string) {
	if strings.TrimSpace(reason) == "" {
		reason = "update"
	}
	reason = strings.ReplaceAll(reason, "\n", " ")

	old := string(oldHash)
	if old == "" {
		old = r.zeroHash()
	}
	line := fmt.Sprintf("%s %s %d %s\n", old, newHash, r.now().Unix(), reason)

	if err := r.writeReflogLine(ref, line); err != nil {
		r.opLog("reflog").WithError(err).WithField(logging.RefFieldKey, ref).Warn("reflog append failed")
	}
}

func (r *Repo) writeReflogLine(ref, line string) error {
	logPath := filepath.Join(r.GitletDir, "logs", filepath.FromSlash(ref))
	if err := r.fs.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("reflog mkdir: %w", err)
	}

	f, err := r.fs.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("reflog open: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("reflog write: %w", err)
	}
	return nil
}

// Reflog returns the recorded movements of ref, newest first. An empty ref
// or "HEAD" reads the HEAD log; a bare name reads refs/heads/<name>. A limit
// of zero or less returns every entry.
func (r *Repo) Reflog(ref string, limit int) ([]ReflogEntry, error) {
	refName := resolveReflogRefName(ref)
	if strings.Contains(refName, "..") {
		return nil, fmt.Errorf("read reflog %q: %w", ref, ErrNoSuchBranch)
	}

	logPath := filepath.Join(r.GitletDir, "logs", filepath.FromSlash(refName))
	f, err := r.fs.Open(logPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read reflog: %w", err)
	}
	defer f.Close()

	zero := object.Hash(r.zeroHash())
	var entries []ReflogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, " ", 4)
		if len(parts) < 4 {
			continue
		}
		ts, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			continue
		}
		old := object.Hash(parts[0])
		if old == zero {
			old = ""
		}
		entries = append(entries, ReflogEntry{
			Ref:       refName,
			OldHash:   old,
			NewHash:   object.Hash(parts[1]),
			Timestamp: ts,
			Reason:    parts[3],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read reflog: %w", err)
	}

	slices.Reverse(entries)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func resolveReflogRefName(ref string) string {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "" || ref == headFile:
		return headFile
	case strings.HasPrefix(ref, "refs/"):
		return ref
	default:
		return branchRef(ref)
	}
}

package repo

import (
	"iter"
	"path/filepath"
	"testing"
	"time"

	"github.com/odvcencio/gitlet/internal/logging"
	"github.com/odvcencio/gitlet/pkg/object"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const testRoot = "/work"

// stepClock returns a clock that advances one minute per call, so every
// commit in a test gets a distinct timestamp.
func stepClock() func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func testOptions(fs afero.Fs) Options {
	return Options{
		Fs:     fs,
		Logger: logging.Discard(),
		Clock:  stepClock(),
	}
}

// newTestRepo initializes a repository on an in-memory filesystem.
func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	r, err := InitWithOptions(testRoot, InitOptions{Options: testOptions(afero.NewMemMapFs())})
	require.NoError(t, err)
	return r
}

func writeFile(t *testing.T, r *Repo, name, content string) {
	t.Helper()
	path := filepath.Join(r.RootDir, filepath.FromSlash(name))
	require.NoError(t, r.fs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(r.fs, path, []byte(content), 0o644))
}

func readFile(t *testing.T, r *Repo, name string) string {
	t.Helper()
	data, err := afero.ReadFile(r.fs, filepath.Join(r.RootDir, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}

func fileExists(t *testing.T, r *Repo, name string) bool {
	t.Helper()
	ok, err := afero.Exists(r.fs, filepath.Join(r.RootDir, filepath.FromSlash(name)))
	require.NoError(t, err)
	return ok
}

// commitFiles writes, stages and commits the given files in one commit.
func commitFiles(t *testing.T, r *Repo, message string, files map[string]string) object.Hash {
	t.Helper()
	for name, content := range files {
		writeFile(t, r, name, content)
		require.NoError(t, r.Add(name))
	}
	id, err := r.Commit(message)
	require.NoError(t, err)
	return id
}

func headCommitID(t *testing.T, r *Repo) object.Hash {
	t.Helper()
	head, err := r.Head()
	require.NoError(t, err)
	return head.Commit
}

func collect(t *testing.T, seq iter.Seq2[LogEntry, error]) []LogEntry {
	t.Helper()
	var out []LogEntry
	for e, err := range seq {
		require.NoError(t, err)
		out = append(out, e)
	}
	return out
}

package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusClean(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	commitFiles(t, r, "base", map[string]string{"a.txt": "a"})

	st, err := r.Status()
	require.NoError(t, err)
	assert.Equal(t, []BranchInfo{{Name: "master", Current: true}}, st.Branches)
	assert.Empty(t, st.Staged)
	assert.Empty(t, st.Removed)
	assert.Empty(t, st.Unstaged)
	assert.Empty(t, st.Untracked)
}

func TestStatus(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	commitFiles(t, r, "base", map[string]string{
		"modified.txt":   "1",
		"deleted.txt":    "d",
		"removed.txt":    "r",
		"recreated.txt":  "c",
		"unchanged.txt":  "u",
		"staged-mod.txt": "s1",
	})
	require.NoError(t, r.Branch("other"))

	writeFile(t, r, "modified.txt", "2")
	require.NoError(t, r.fs.Remove(testRoot+"/deleted.txt"))
	require.NoError(t, r.Remove("removed.txt"))
	require.NoError(t, r.Remove("recreated.txt"))
	writeFile(t, r, "recreated.txt", "back")

	writeFile(t, r, "staged-mod.txt", "s2")
	require.NoError(t, r.Add("staged-mod.txt"))
	writeFile(t, r, "staged-mod.txt", "s3")

	writeFile(t, r, "new.txt", "n")
	require.NoError(t, r.Add("new.txt"))
	writeFile(t, r, "gone-before-commit.txt", "g")
	require.NoError(t, r.Add("gone-before-commit.txt"))
	require.NoError(t, r.fs.Remove(testRoot+"/gone-before-commit.txt"))

	writeFile(t, r, "stray.txt", "?")
	writeFile(t, r, "dir/nested.txt", "?")

	st, err := r.Status()
	require.NoError(t, err)

	assert.Equal(t, []BranchInfo{{Name: "master", Current: true}, {Name: "other"}}, st.Branches)
	assert.Equal(t, []string{"gone-before-commit.txt", "new.txt", "staged-mod.txt"}, st.Staged)
	assert.Equal(t, []string{"recreated.txt", "removed.txt"}, st.Removed)
	assert.Equal(t, []StatusEntry{
		{Path: "deleted.txt", Status: StatusDeleted},
		{Path: "gone-before-commit.txt", Status: StatusDeleted},
		{Path: "modified.txt", Status: StatusModified},
		{Path: "staged-mod.txt", Status: StatusModified},
	}, st.Unstaged)
	assert.Equal(t, []string{"dir/nested.txt", "recreated.txt", "stray.txt"}, st.Untracked)
}

func TestStatusIgnore(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	commitFiles(t, r, "base", map[string]string{"app.log": "tracked"})
	writeFile(t, r, IgnoreFile, "*.log\nbuild/\n")
	writeFile(t, r, "debug.log", "x")
	writeFile(t, r, "build/out.bin", "x")
	writeFile(t, r, "app.log", "changed")

	st, err := r.Status()
	require.NoError(t, err)
	assert.Equal(t, []string{IgnoreFile}, st.Untracked)
	assert.Equal(t, []StatusEntry{{Path: "app.log", Status: StatusModified}}, st.Unstaged,
		"ignore rules never hide tracked files")
}

func TestStatusDetached(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	id := commitFiles(t, r, "one", map[string]string{"f": "1"})
	require.NoError(t, r.SetDetachedHead(id))

	st, err := r.Status()
	require.NoError(t, err)
	assert.True(t, st.Head.Detached())
	assert.Equal(t, []BranchInfo{{Name: "master"}}, st.Branches)
}

func TestFileStatusString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "modified", StatusModified.String())
	assert.Equal(t, "deleted", StatusDeleted.String())
	assert.Equal(t, "FileStatus(0)", FileStatus(0).String())
}

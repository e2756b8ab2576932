package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReset(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	v1 := commitFiles(t, r, "v1", map[string]string{"f": "1"})
	commitFiles(t, r, "v2", map[string]string{"f": "2", "g": "g"})
	writeFile(t, r, "pending.txt", "p")
	require.NoError(t, r.Add("pending.txt"))

	require.NoError(t, r.Reset(v1.Short()))

	head, err := r.Head()
	require.NoError(t, err)
	assert.Equal(t, HeadState{Branch: "master", Commit: v1}, head)
	assert.Equal(t, "1", readFile(t, r, "f"))
	assert.False(t, fileExists(t, r, "g"))

	stg, err := r.ReadStaging()
	require.NoError(t, err)
	assert.True(t, stg.IsEmpty())

	entries := collect(t, r.Log())
	assert.Len(t, entries, 2)
}

func TestResetDetached(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	v1 := commitFiles(t, r, "v1", map[string]string{"f": "1"})
	v2 := commitFiles(t, r, "v2", map[string]string{"f": "2"})
	require.NoError(t, r.SetDetachedHead(v2))

	require.NoError(t, r.Reset(v1.String()))
	head, err := r.Head()
	require.NoError(t, err)
	assert.True(t, head.Detached())
	assert.Equal(t, v1, head.Commit)

	master, err := r.BranchHead("master")
	require.NoError(t, err)
	assert.Equal(t, v2, master)
}

func TestResetErrors(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	initial := headCommitID(t, r)
	commitFiles(t, r, "v1", map[string]string{"f": "1"})

	require.ErrorIs(t, r.Reset("0123456789abcdef"), ErrCommitNotFound)

	require.NoError(t, r.Branch("side"))
	require.NoError(t, r.CheckoutBranch("side"))
	side := commitFiles(t, r, "side", map[string]string{"s": "side"})
	require.NoError(t, r.Reset(initial.String()))
	writeFile(t, r, "s", "untracked now")

	err := r.Reset(side.String())
	require.ErrorIs(t, err, ErrUntrackedFileWouldBeOverwritten)
	assert.Equal(t, "untracked now", readFile(t, r, "s"))
	assert.Equal(t, initial, headCommitID(t, r))
}

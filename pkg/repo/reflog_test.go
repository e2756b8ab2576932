package repo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReflog(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	initial := headCommitID(t, r)
	c1 := commitFiles(t, r, "first\n\nbody", map[string]string{"f": "1"})
	c2 := commitFiles(t, r, "second", map[string]string{"f": "2"})

	entries, err := r.Reflog("master", 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, c2, entries[0].NewHash)
	assert.Equal(t, c1, entries[0].OldHash)
	assert.Equal(t, "commit: second", entries[0].Reason)
	assert.Equal(t, "commit: first", entries[1].Reason)
	assert.Equal(t, initial, entries[2].NewHash)
	assert.Empty(t, entries[2].OldHash, "creation has no old hash")
	assert.True(t, strings.HasPrefix(entries[2].Reason, "commit (initial)"))
	assert.Greater(t, entries[0].Timestamp, entries[1].Timestamp)

	limited, err := r.Reflog("refs/heads/master", 1)
	require.NoError(t, err)
	assert.Equal(t, entries[:1], limited)
}

func TestReflogHead(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	commitFiles(t, r, "one", map[string]string{"f": "1"})
	require.NoError(t, r.Branch("side"))
	require.NoError(t, r.CheckoutBranch("side"))

	entries, err := r.Reflog("", 0)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "checkout: moving from master to side", entries[0].Reason)
	assert.Equal(t, "HEAD", entries[0].Ref)

	same, err := r.Reflog("HEAD", 0)
	require.NoError(t, err)
	assert.Equal(t, entries, same)
}

func TestReflogMissing(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	entries, err := r.Reflog("never-created", 0)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = r.Reflog("refs/../../HEAD", 0)
	require.ErrorIs(t, err, ErrNoSuchBranch)
}

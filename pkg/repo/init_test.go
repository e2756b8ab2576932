package repo

import (
	"path/filepath"
	"testing"

	"github.com/odvcencio/gitlet/pkg/object"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	assert.Equal(t, testRoot, r.RootDir)
	assert.Equal(t, filepath.Join(testRoot, DirName), r.GitletDir)

	for _, p := range []string{"HEAD", "config.toml", "index", "objects", "refs/heads/master", "logs/HEAD"} {
		ok, err := afero.Exists(r.fs, filepath.Join(r.GitletDir, filepath.FromSlash(p)))
		require.NoError(t, err)
		assert.True(t, ok, "missing %s", p)
	}

	head, err := r.Head()
	require.NoError(t, err)
	assert.Equal(t, "master", head.Branch)
	assert.False(t, head.Detached())

	c, err := r.Store.GetCommit(head.Commit)
	require.NoError(t, err)
	assert.Equal(t, "initial commit", c.Message)
	assert.Equal(t, int64(0), c.Timestamp)
	assert.True(t, c.IsInitial())
	assert.Empty(t, c.Snapshot)

	stg, err := r.ReadStaging()
	require.NoError(t, err)
	assert.True(t, stg.IsEmpty())
}

func TestInitSharedInitialCommit(t *testing.T) {
	t.Parallel()

	a := newTestRepo(t)
	b := newTestRepo(t)
	assert.Equal(t, headCommitID(t, a), headCommitID(t, b))
}

func TestInitAlreadyInitialized(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	_, err := InitWithOptions(testRoot, InitOptions{Options: testOptions(r.fs)})
	require.ErrorIs(t, err, ErrAlreadyInitialized)
}

func TestInitResumesAfterInterruptedInit(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	// A crash before HEAD was written leaves directories behind.
	require.NoError(t, fs.MkdirAll(filepath.Join(testRoot, DirName, "objects"), 0o755))

	r, err := InitWithOptions(testRoot, InitOptions{Options: testOptions(fs)})
	require.NoError(t, err)
	_, err = r.Head()
	require.NoError(t, err)
}

func TestInitOptions(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc    string
		opts    InitOptions
		wantErr error
	}{
		{desc: "xxh3 on trunk", opts: InitOptions{Hash: object.XXH3, DefaultBranch: "trunk"}},
		{desc: "sha1", opts: InitOptions{Hash: object.SHA1}},
		{desc: "blake2b", opts: InitOptions{Hash: object.BLAKE2b}},
		{desc: "unknown hash", opts: InitOptions{Hash: "md5"}, wantErr: object.ErrUnknownAlgorithm},
		{desc: "bad branch", opts: InitOptions{DefaultBranch: "a b"}, wantErr: ErrInvalidBranchName},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			fs := afero.NewMemMapFs()
			tc.opts.Options = testOptions(fs)
			r, err := InitWithOptions(testRoot, tc.opts)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)

			head, err := r.Head()
			require.NoError(t, err)
			assert.Len(t, head.Commit, tc.opts.Hash.HexLen())
			if tc.opts.DefaultBranch != "" {
				assert.Equal(t, tc.opts.DefaultBranch, head.Branch)
			}

			reopened, err := OpenWithOptions(testRoot, testOptions(fs))
			require.NoError(t, err)
			assert.Equal(t, tc.opts.Hash, reopened.Store.Algorithm())
		})
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("from a subdirectory", func(t *testing.T) {
		t.Parallel()
		r := newTestRepo(t)
		require.NoError(t, r.fs.MkdirAll(filepath.Join(testRoot, "a", "b"), 0o755))

		opened, err := OpenWithOptions(filepath.Join(testRoot, "a", "b"), testOptions(r.fs))
		require.NoError(t, err)
		assert.Equal(t, testRoot, opened.RootDir)
		assert.Equal(t, headCommitID(t, r), headCommitID(t, opened))
	})

	t.Run("not a repository", func(t *testing.T) {
		t.Parallel()
		_, err := OpenWithOptions(testRoot, testOptions(afero.NewMemMapFs()))
		require.ErrorIs(t, err, ErrNotARepository)
	})

	t.Run("directory without HEAD", func(t *testing.T) {
		t.Parallel()
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll(filepath.Join(testRoot, DirName), 0o755))
		_, err := OpenWithOptions(testRoot, testOptions(fs))
		require.ErrorIs(t, err, ErrNotARepository)
	})
}

func TestInitOnDisk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r, err := Init(dir)
	require.NoError(t, err)

	writeFile(t, r, "f.txt", "on disk")
	require.NoError(t, r.Add("f.txt"))
	id, err := r.Commit("disk commit")
	require.NoError(t, err)

	opened, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, id, headCommitID(t, opened))
}

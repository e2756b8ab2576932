package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlgorithm(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in      string
		want    Algorithm
		wantErr bool
	}{
		{in: "", want: DefaultAlgorithm},
		{in: "sha1", want: SHA1},
		{in: "SHA256", want: SHA256},
		{in: " blake2b ", want: BLAKE2b},
		{in: "xxh3", want: XXH3},
		{in: "md5", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseAlgorithm(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrUnknownAlgorithm)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAlgorithmHexLen(t *testing.T) {
	t.Parallel()

	for _, a := range []Algorithm{SHA1, SHA256, BLAKE2b, XXH3} {
		t.Run(string(a), func(t *testing.T) {
			t.Parallel()
			h := a.HashBytes([]byte("hello world"))
			assert.Len(t, h, a.HexLen())
			assert.True(t, a.IsValid(h))
			assert.Equal(t, h, a.HashBytes([]byte("hello world")), "hashing must be deterministic")
			assert.NotEqual(t, h, a.HashBytes([]byte("hello world!")))
		})
	}
}

func TestHashObjectEnvelope(t *testing.T) {
	t.Parallel()

	data := []byte("hello")
	blob := SHA256.HashObject(TypeBlob, data)
	assert.NotEqual(t, SHA256.HashBytes(data), blob, "envelope should change the digest")
	assert.NotEqual(t, SHA256.HashObject(TypeCommit, data), blob, "types must not collide")

	// Known value: sha256("blob 5\x00hello")
	assert.Equal(t, SHA256.HashBytes([]byte("blob 5\x00hello")), blob)
}

func TestIsValid(t *testing.T) {
	t.Parallel()

	h := SHA256.HashBytes([]byte("x"))
	assert.True(t, SHA256.IsValid(h))
	assert.False(t, SHA1.IsValid(h), "wrong length")
	assert.False(t, SHA256.IsValid(Hash("ZZ"+string(h[2:]))), "uppercase is not valid hex")
	assert.False(t, SHA256.IsValid(""))
}

func TestHashShort(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abcdef01", Hash("abcdef0123456789").Short())
	assert.Equal(t, "abc", Hash("abc").Short())
}

package object

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// Hash is a lowercase hex-encoded object digest.
type Hash string

func (h Hash) String() string {
	return string(h)
}

// Short returns the first 8 characters of the hash.
func (h Hash) Short() string {
	if len(h) > 8 {
		return string(h[:8])
	}
	return string(h)
}

// Algorithm names the digest used to derive object IDs. It is fixed when a
// repository is created.
type Algorithm string

const (
	SHA1    Algorithm = "sha1"    // 160 bit
	SHA256  Algorithm = "sha256"  // 256 bit
	BLAKE2b Algorithm = "blake2b" // BLAKE2b-256
	XXH3    Algorithm = "xxh3"    // XXH3-128, not cryptographic

	DefaultAlgorithm = SHA256
)

// ErrUnknownAlgorithm is returned for hash names ParseAlgorithm does not know.
var ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

// ParseAlgorithm returns the Algorithm with the given name. An empty name
// selects DefaultAlgorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(name))); a {
	case "":
		return DefaultAlgorithm, nil
	case SHA1, SHA256, BLAKE2b, XXH3:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

// Sum returns the raw digest of data.
func (a Algorithm) Sum(data []byte) []byte {
	switch a {
	case SHA1:
		sum := sha1.Sum(data)
		return sum[:]
	case BLAKE2b:
		sum := blake2b.Sum256(data)
		return sum[:]
	case XXH3:
		sum := xxh3.Hash128(data).Bytes()
		return sum[:]
	default:
		sum := sha256.Sum256(data)
		return sum[:]
	}
}

// HexLen is the length of a Hash produced by the algorithm.
func (a Algorithm) HexLen() int {
	switch a {
	case SHA1:
		return 40
	case XXH3:
		return 32
	default:
		return 64
	}
}

// HashBytes hashes data as-is.
func (a Algorithm) HashBytes(data []byte) Hash {
	return Hash(hex.EncodeToString(a.Sum(data)))
}

// HashObject hashes the envelope "type len\0content" so that a blob and a
// commit with the same payload never share an ID.
func (a Algorithm) HashObject(objType ObjectType, data []byte) Hash {
	return a.HashBytes(envelope(objType, data))
}

// IsValid reports whether h has the shape of a hash produced by a.
func (a Algorithm) IsValid(h Hash) bool {
	return len(h) == a.HexLen() && isHex(string(h))
}

func envelope(objType ObjectType, data []byte) []byte {
	header := fmt.Sprintf("%s %d\x00", objType, len(data))
	raw := make([]byte, 0, len(header)+len(data))
	raw = append(raw, header...)
	return append(raw, data...)
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

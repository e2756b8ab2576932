package object

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/odvcencio/gitlet/internal/fsutil"
	"github.com/odvcencio/gitlet/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

var (
	// ErrObjectNotFound is returned when no object has the requested ID.
	ErrObjectNotFound = errors.New("object not found")
	// ErrCorruptObject is returned when a stored object cannot be decoded or
	// does not match its ID.
	ErrCorruptObject = errors.New("object is corrupt")
	// ErrAmbiguousPrefix is returned when an abbreviated ID matches several
	// commits.
	ErrAmbiguousPrefix = errors.New("ambiguous object id prefix")
)

// DefaultCacheSize is the number of decoded commits kept in memory.
const DefaultCacheSize = 256

// Store is a content-addressed object store with a 2-character fan-out
// directory layout: objects/ab/cdef0123... Every object is stored zstd
// compressed as "type len\0content".
type Store struct {
	fs      afero.Fs
	root    string
	algo    Algorithm
	commits *lru.Cache[Hash, *Commit]
	log     logrus.FieldLogger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithCacheSize sets the commit cache size. Zero disables the cache.
func WithCacheSize(n int) StoreOption {
	return func(s *Store) {
		if n <= 0 {
			s.commits = nil
			return
		}
		if c, err := lru.New[Hash, *Commit](n); err == nil {
			s.commits = c
		}
	}
}

// WithLogger sets the logger used for write tracing.
func WithLogger(l logrus.FieldLogger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// NewStore creates a Store rooted at the given repository directory. The
// objects/ subdirectory is created lazily on first write.
func NewStore(fsys afero.Fs, root string, algo Algorithm, opts ...StoreOption) *Store {
	s := &Store{
		fs:   fsys,
		root: root,
		algo: algo,
		log:  logging.Default(),
	}
	WithCacheSize(DefaultCacheSize)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Algorithm returns the hash algorithm used for object IDs.
func (s *Store) Algorithm() Algorithm {
	return s.algo
}

func (s *Store) objectsDir() string {
	return filepath.Join(s.root, "objects")
}

// objectPath returns the filesystem path for a given hash.
func (s *Store) objectPath(h Hash) string {
	return filepath.Join(s.objectsDir(), string(h[:2]), string(h[2:]))
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	if !s.algo.IsValid(h) {
		return false
	}
	_, err := s.fs.Stat(s.objectPath(h))
	return err == nil
}

// Write stores an object and returns its content hash. Writing an object
// that already exists is a no-op. Writes are atomic: data is written to a
// temp file and then renamed into place.
func (s *Store) Write(objType ObjectType, data []byte) (Hash, error) {
	h := s.algo.HashObject(objType, data)

	// Fast path: already exists.
	if s.Has(h) {
		return h, nil
	}

	compressed, err := compressZstd(envelope(objType, data))
	if err != nil {
		return "", fmt.Errorf("object write %s: compress: %w", h, err)
	}
	if err := fsutil.WriteFileAtomic(s.fs, s.objectPath(h), compressed, 0o444); err != nil {
		return "", fmt.Errorf("object write %s: %w", h, err)
	}

	s.log.WithFields(logging.Fields{"type": objType, "id": h, "size": len(data)}).Debug("object written")
	return h, nil
}

// Read retrieves an object by hash, returning its type and raw content.
func (s *Store) Read(h Hash) (ObjectType, []byte, error) {
	if !s.algo.IsValid(h) {
		return "", nil, fmt.Errorf("object read %q: %w", h, ErrObjectNotFound)
	}
	raw, err := afero.ReadFile(s.fs, s.objectPath(h))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("object read %s: %w", h, ErrObjectNotFound)
		}
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}

	plain, err := decompressZstd(raw)
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: decompress: %v: %w", h, err, ErrCorruptObject)
	}

	// Parse envelope: "type len\0content"
	nulIdx := bytes.IndexByte(plain, 0)
	if nulIdx < 0 {
		return "", nil, fmt.Errorf("object read %s: invalid format (no NUL): %w", h, ErrCorruptObject)
	}
	objType, length, err := parseHeader(string(plain[:nulIdx]))
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %v: %w", h, err, ErrCorruptObject)
	}
	content := plain[nulIdx+1:]
	if len(content) != length {
		return "", nil, fmt.Errorf("object read %s: length mismatch (header=%d, actual=%d): %w", h, length, len(content), ErrCorruptObject)
	}

	return objType, content, nil
}

// PutBlob stores file content and returns its blob ID.
func (s *Store) PutBlob(data []byte) (Hash, error) {
	return s.Write(TypeBlob, data)
}

// BlobID returns the ID data would be stored under, without storing it.
func (s *Store) BlobID(data []byte) Hash {
	return s.algo.HashObject(TypeBlob, data)
}

// GetBlob returns the content of a blob.
func (s *Store) GetBlob(h Hash) ([]byte, error) {
	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if objType != TypeBlob {
		return nil, fmt.Errorf("object %s: type mismatch: got %q, want %q: %w", h, objType, TypeBlob, ErrCorruptObject)
	}
	return data, nil
}

// PutCommit serializes and stores a Commit.
func (s *Store) PutCommit(c *Commit) (Hash, error) {
	return s.Write(TypeCommit, MarshalCommit(c))
}

// CommitID returns the ID c would be stored under, without storing it.
func (s *Store) CommitID(c *Commit) Hash {
	return s.algo.HashObject(TypeCommit, MarshalCommit(c))
}

// GetCommit reads and deserializes a Commit. The returned commit may be
// shared with other callers and must not be modified.
func (s *Store) GetCommit(h Hash) (*Commit, error) {
	if s.commits != nil {
		if c, ok := s.commits.Get(h); ok {
			return c, nil
		}
	}

	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if objType != TypeCommit {
		return nil, fmt.Errorf("object %s: type mismatch: got %q, want %q: %w", h, objType, TypeCommit, ErrObjectNotFound)
	}
	c, err := UnmarshalCommit(data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}

	if s.commits != nil {
		s.commits.Add(h, c)
	}
	return c, nil
}

// walkObjects calls fn for every stored object ID. Temp files left by
// interrupted writes are skipped.
func (s *Store) walkObjects(fn func(h Hash, path string) error) error {
	root := s.objectsDir()
	err := afero.Walk(s.fs, root, func(path string, info fs.FileInfo, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, os.ErrNotExist) {
				return nil
			}
			return walkErr
		}
		if info.IsDir() || fsutil.IsTempName(info.Name()) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		h := Hash(strings.ReplaceAll(filepath.ToSlash(rel), "/", ""))
		if !s.algo.IsValid(h) {
			return nil
		}
		return fn(h, path)
	})
	if err != nil {
		return fmt.Errorf("walk objects: %w", err)
	}
	return nil
}

// ListCommits returns the IDs of every stored commit, sorted.
func (s *Store) ListCommits() ([]Hash, error) {
	var ids []Hash
	err := s.walkObjects(func(h Hash, path string) error {
		if s.commits != nil && s.commits.Contains(h) {
			ids = append(ids, h)
			return nil
		}
		f, err := s.fs.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		objType, _, err := readHeaderZstd(f)
		if err != nil {
			return fmt.Errorf("object %s: %v: %w", h, err, ErrCorruptObject)
		}
		if objType == TypeCommit {
			ids = append(ids, h)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list commits: %w", err)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// ResolveCommitPrefix expands an abbreviated commit ID. A full-length ID is
// returned as-is when the commit exists.
func (s *Store) ResolveCommitPrefix(prefix string) (Hash, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" || !isHex(prefix) || len(prefix) > s.algo.HexLen() {
		return "", fmt.Errorf("resolve %q: %w", prefix, ErrObjectNotFound)
	}

	ids, err := s.ListCommits()
	if err != nil {
		return "", err
	}
	var match Hash
	for _, id := range ids {
		if !strings.HasPrefix(string(id), prefix) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("resolve %q: %w", prefix, ErrAmbiguousPrefix)
		}
		match = id
	}
	if match == "" {
		return "", fmt.Errorf("resolve %q: %w", prefix, ErrObjectNotFound)
	}
	return match, nil
}

package object

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Verify re-reads every stored object and checks that it decodes and that
// its content still hashes to its ID. Every failure is reported; the
// result is nil when the store is intact.
func (s *Store) Verify() error {
	var result *multierror.Error
	checked := 0

	walkErr := s.walkObjects(func(h Hash, _ string) error {
		checked++
		objType, data, err := s.Read(h)
		if err != nil {
			result = multierror.Append(result, err)
			return nil
		}
		if got := s.algo.HashObject(objType, data); got != h {
			result = multierror.Append(result, fmt.Errorf("object %s: content hashes to %s: %w", h, got, ErrCorruptObject))
			return nil
		}
		if objType == TypeCommit {
			c, err := UnmarshalCommit(data)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("object %s: %w", h, err))
				return nil
			}
			if c.Parent != "" && !s.Has(c.Parent) {
				result = multierror.Append(result, fmt.Errorf("commit %s: missing parent %s: %w", h, c.Parent, ErrCorruptObject))
			}
			for _, name := range c.Files() {
				if blob := c.Snapshot[name]; !s.Has(blob) {
					result = multierror.Append(result, fmt.Errorf("commit %s: file %q: missing blob %s: %w", h, name, blob, ErrCorruptObject))
				}
			}
		}
		return nil
	})
	if walkErr != nil {
		result = multierror.Append(result, walkErr)
	}

	s.log.WithField("objects", checked).Debug("verify finished")
	return result.ErrorOrNil()
}

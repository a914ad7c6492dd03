package reference

import (
	"errors"
	"sync/atomic"
)

// ErrNotLoaded is returned by Snapshot before the first successful load.
var ErrNotLoaded = errors.New("reference: table not loaded")

// Store holds the process-wide correlation table behind an atomically
// swapped pointer. Readers take a snapshot and use it for the whole
// request; a concurrent reload never exposes a partially-built table.
type Store struct {
	path    string
	current atomic.Pointer[Table]
}

// NewStore creates a store bound to a table file. No load is performed.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load parses the table file and swaps it in. On error the previously
// loaded table (if any) stays active.
func (s *Store) Load() error {
	table, err := LoadFile(s.path)
	if err != nil {
		return err
	}
	s.current.Store(table)
	return nil
}

// Snapshot returns the currently active table.
func (s *Store) Snapshot() (*Table, error) {
	t := s.current.Load()
	if t == nil {
		return nil, ErrNotLoaded
	}
	return t, nil
}

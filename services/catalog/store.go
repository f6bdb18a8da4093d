package catalog

import (
	"errors"
	"sync/atomic"
)

// Store publishes the current catalog. Readers call Current without locking;
// a caller that already holds a snapshot keeps ranking against it even if a
// newer catalog is swapped in meanwhile.
type Store struct {
	current atomic.Pointer[Catalog]
	version atomic.Uint64
}

// NewStore creates a store publishing initial
func NewStore(initial *Catalog) (*Store, error) {
	s := &Store{}
	if err := s.Swap(initial); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns the published catalog
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Version increments on every successful swap
func (s *Store) Version() uint64 {
	return s.version.Load()
}

// Swap publishes next in place of the current catalog
func (s *Store) Swap(next *Catalog) error {
	if next == nil || next.Len() == 0 {
		return errors.New("cannot publish an empty catalog")
	}
	s.current.Store(next)
	s.version.Add(1)
	return nil
}

// ReloadFile loads path and publishes it. On failure the current catalog stays published.
func (s *Store) ReloadFile(path string) (*Catalog, error) {
	next, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := s.Swap(next); err != nil {
		return nil, err
	}
	return next, nil
}

package content

import (
	"sync/atomic"

	"github.com/jonathan/portfolio-site/internal/types"
)

// Store holds the portfolio currently served. Readers never block a reload.
type Store struct {
	current atomic.Pointer[types.Portfolio]
	path    string
}

// NewStore creates a store seeded with p. path is the file Reload reads; empty means built-in content.
func NewStore(p *types.Portfolio, path string) *Store {
	s := &Store{path: path}
	s.current.Store(p)
	return s
}

// Get returns the current portfolio. Callers must not mutate it.
func (s *Store) Get() *types.Portfolio {
	return s.current.Load()
}

// Path returns the content file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Reload re-reads the content file. On error the previous content stays in place.
func (s *Store) Reload() error {
	p, err := Load(s.path)
	if err != nil {
		return err
	}
	s.current.Store(p)
	return nil
}

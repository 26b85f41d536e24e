// Package memory is an in-process directory.Resolver for tests and demos.
package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/TheusHen/feal4/feal4/directory"
)

type Store struct {
	mu      sync.RWMutex
	parties map[string]directory.Entry
}

func New() *Store {
	return &Store{parties: map[string]directory.Entry{}}
}

// Announce records e, replacing any previous entry with the same name.
func (s *Store) Announce(e directory.Entry) error {
	if e.Name == "" {
		return fmt.Errorf("memory: announce without a name")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parties[e.Name] = e
	return nil
}

func (s *Store) Lookup(name string) (directory.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.parties[name]
	if !ok {
		return directory.Entry{}, fmt.Errorf("%w: %s", directory.ErrNotFound, name)
	}
	return e, nil
}

// List returns all entries sorted by name.
func (s *Store) List() ([]directory.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]directory.Entry, 0, len(s.parties))
	for _, e := range s.parties {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

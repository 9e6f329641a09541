// Package store holds the set of distinct qualified function names observed
// during a run.
package store

import (
	"sort"
	"sync"
)

// NameSet is a deduplicating, unordered set of qualified names.
// The zero value is not usable; create one with NewNameSet.
// It is safe for concurrent use.
type NameSet struct {
	mu    sync.RWMutex
	names map[string]struct{}
}

// NewNameSet returns an empty set.
func NewNameSet() *NameSet {
	return &NameSet{names: make(map[string]struct{})}
}

// Add inserts name and reports whether it was not already present.
func (s *NameSet) Add(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.names[name]; ok {
		return false
	}
	s.names[name] = struct{}{}
	return true
}

// Contains reports whether name is in the set.
func (s *NameSet) Contains(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.names[name]
	return ok
}

// Len returns the number of distinct names.
func (s *NameSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.names)
}

// Names returns every name in map iteration order, which is unspecified
// and differs between calls.
func (s *NameSet) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.names))
	for name := range s.names {
		names = append(names, name)
	}
	return names
}

// Sorted returns every name in lexical order.
func (s *NameSet) Sorted() []string {
	names := s.Names()
	sort.Strings(names)
	return names
}

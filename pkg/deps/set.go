package deps

import (
	"slices"
	"strings"
)

// Set is a deduplicated collection of package names that remembers
// insertion order. Names are compared exactly: "Flask" and "flask" are
// distinct entries. The zero value is ready to use.
type Set struct {
	index map[string]struct{}
	order []string
}

// NewSet returns a Set holding names.
func NewSet(names ...string) *Set {
	s := &Set{}
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts name after trimming surrounding whitespace. Empty names are
// ignored. It reports whether the name was new.
func (s *Set) Add(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[name]; ok {
		return false
	}
	s.index[name] = struct{}{}
	s.order = append(s.order, name)
	return true
}

// Merge adds every name of other.
func (s *Set) Merge(other *Set) {
	if other == nil {
		return
	}
	for _, n := range other.order {
		s.Add(n)
	}
}

// Has reports whether name is in the set.
func (s *Set) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Len returns the number of distinct names.
func (s *Set) Len() int { return len(s.order) }

// Names returns the names in insertion order.
func (s *Set) Names() []string { return slices.Clone(s.order) }

// Sorted returns the names in lexical order.
func (s *Set) Sorted() []string {
	out := slices.Clone(s.order)
	slices.Sort(out)
	return out
}

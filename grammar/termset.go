package grammar

import (
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// termSet is a set of terminal tags (or the internal epsilon marker) with a
// deterministic, alphabetically-ordered enumeration. Reproducible state
// numbering depends on reproducible enumeration order, so FIRST/FOLLOW sets
// are backed by a sorted container rather than a Go map, making sorted order
// a property of the container instead of something every call site has to
// remember to do itself. The merged-state lookahead sets in package lr are
// plain maps and are sorted where they are enumerated.
type termSet struct {
	set *treeset.Set
}

func newTermSet() *termSet {
	return &termSet{set: treeset.NewWith(utils.StringComparator)}
}

// Add adds t to the set, reporting whether it was not already present.
func (s *termSet) Add(t string) bool {
	if s.set.Contains(t) {
		return false
	}
	s.set.Add(t)
	return true
}

// AddAll adds every element of o, reporting whether anything changed.
func (s *termSet) AddAll(o *termSet) bool {
	changed := false
	for _, v := range o.Slice() {
		if s.Add(v) {
			changed = true
		}
	}
	return changed
}

// Has reports whether t is in the set.
func (s *termSet) Has(t string) bool {
	return s.set.Contains(t)
}

// Slice returns the set's elements in sorted order.
func (s *termSet) Slice() []string {
	vals := s.set.Values()
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.(string)
	}
	return out
}

// Len returns the number of elements in the set.
func (s *termSet) Len() int {
	return s.set.Size()
}

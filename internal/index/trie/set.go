package trie

import "slices"

// Set is a set of recipe ids.
type Set map[int64]struct{}

// Add inserts id.
func (s Set) Add(id int64) { s[id] = struct{}{} }

// Has reports whether id is present.
func (s Set) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

// Union adds every id of other into s.
func (s Set) Union(other Set) {
	for id := range other {
		s[id] = struct{}{}
	}
}

// Sorted returns the ids in ascending order.
func (s Set) Sorted() []int64 {
	out := make([]int64, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

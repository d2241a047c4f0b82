package model

import (
	"cmp"
	"slices"
)

// CellSet is a set of alive coordinates
type CellSet map[Coordinate]struct{}

// NewCellSet creates a set holding the given coordinates
func NewCellSet(coords ...Coordinate) CellSet {
	s := make(CellSet, len(coords))
	for _, c := range coords {
		s.Add(c)
	}
	return s
}

// Add marks c alive
func (s CellSet) Add(c Coordinate) {
	s[c] = struct{}{}
}

// Has reports whether c is in the set
func (s CellSet) Has(c Coordinate) bool {
	_, ok := s[c]
	return ok
}

// Len returns the number of coordinates
func (s CellSet) Len() int {
	return len(s)
}

// Clone returns an independent copy
func (s CellSet) Clone() CellSet {
	out := make(CellSet, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}

// Equal reports whether both sets hold the same coordinates
func (s CellSet) Equal(other CellSet) bool {
	if len(s) != len(other) {
		return false
	}
	for c := range s {
		if !other.Has(c) {
			return false
		}
	}
	return true
}

// Sorted returns the coordinates ordered by x, then y
func (s CellSet) Sorted() []Coordinate {
	out := make([]Coordinate, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Coordinate) int {
		if a.X != b.X {
			return cmp.Compare(a.X, b.X)
		}
		return cmp.Compare(a.Y, b.Y)
	})
	return out
}

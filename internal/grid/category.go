package grid

// Category tags an occupancy index so unrelated concerns (walls, machines)
// keep separate tables over the same cells.
type Category string

const (
	Wall    Category = "wall"
	Machine Category = "machine"
)

// Set is the per-category collection of indexes an application owns.
type Set map[Category]*Index

// NewSet builds one index of the given size per category, all publishing to
// the same notifier.
func NewSet(size int, notify Notifier, categories ...Category) Set {
	s := make(Set, len(categories))
	for _, c := range categories {
		s[c] = NewIndex(c, size, notify)
	}
	return s
}

// Get returns the index for c, or nil if the set has none.
func (s Set) Get(c Category) *Index {
	return s[c]
}

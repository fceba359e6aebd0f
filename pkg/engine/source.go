package engine

// DataSource is the ordered collection being virtualized. The coordinator
// never reads item values; it needs only the count and, after a data
// replacement, the smallest index whose content changed so relayout can be
// bounded to the suffix from that index.
type DataSource interface {
	// Count returns the number of items.
	Count() int

	// FirstDirty returns the smallest index whose item differs from the
	// previous data generation, or -1 when nothing changed. Reading the
	// value acknowledges it: subsequent calls return -1 until the next
	// change.
	FirstDirty() int
}

// SliceSource is a DataSource over an in-memory slice with a caller-supplied
// equality test. Update replaces the items and records the first index where
// the old and new generations disagree.
type SliceSource[T any] struct {
	items  []T
	equals func(a, b T) bool
	dirty  int
}

// NewSliceSource creates a source over items. equals drives dirty-index
// detection on Update; a nil equals treats every index as changed.
func NewSliceSource[T any](items []T, equals func(a, b T) bool) *SliceSource[T] {
	return &SliceSource[T]{items: items, equals: equals, dirty: -1}
}

// Count implements DataSource.
func (s *SliceSource[T]) Count() int { return len(s.items) }

// Item returns the item at index. Panics on out-of-range indices like a
// slice access; callers index only within [0, Count()).
func (s *SliceSource[T]) Item(index int) T { return s.items[index] }

// Update replaces the items. The recorded dirty index is the smallest index
// where the two generations differ, including the shorter length when one
// is a prefix of the other. Repeated updates keep the minimum seen since
// the last FirstDirty read.
func (s *SliceSource[T]) Update(items []T) {
	first := s.firstDifference(items)
	if first >= 0 && (s.dirty < 0 || first < s.dirty) {
		s.dirty = first
	}
	s.items = items
}

func (s *SliceSource[T]) firstDifference(next []T) int {
	shared := len(s.items)
	if len(next) < shared {
		shared = len(next)
	}
	if s.equals == nil {
		if shared > 0 || len(next) != len(s.items) {
			return 0
		}
		return -1
	}
	for i := 0; i < shared; i++ {
		if !s.equals(s.items[i], next[i]) {
			return i
		}
	}
	if len(next) != len(s.items) {
		return shared
	}
	return -1
}

// FirstDirty implements DataSource. Reading acknowledges the change.
func (s *SliceSource[T]) FirstDirty() int {
	d := s.dirty
	s.dirty = -1
	return d
}

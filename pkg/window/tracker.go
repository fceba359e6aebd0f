// Package window computes which item indices must be materialized for a
// given scroll position.
//
// The tracker answers two queries against the layout array: the required
// index set (viewport plus render-ahead margins, everything that must exist
// to mask scroll latency) and the visible index set (strictly inside the
// viewport, used for impression signaling). Both run in O(log n + k) where k
// is the window size: a binary search locates the window start and a linear
// scan collects members, so cost is independent of the total item count.
//
// Rectangle leading edges are monotonically non-decreasing in index order by
// construction of the layout engine. Trailing edges are not (lanes fill
// unevenly), so the backward bound of the search widens by the largest
// primary-axis item size ever laid, which caps how far before the window a
// straddling rectangle can begin.
package window

import (
	"sort"

	"github.com/matzehuels/recyclist/pkg/layout"
)

// State is the scroll window: the offset along the primary axis, the
// viewport extent, and the render-ahead margins ahead of and behind the
// scroll direction.
type State struct {
	Offset     float64
	Viewport   float64
	AheadFront float64
	AheadBack  float64
}

// Source is the layout view the tracker queries. *layout.Engine implements
// it.
type Source interface {
	Rects() []layout.Rect
	Axis() layout.Axis
	MaxPrimarySize() float64
}

// Tracker computes required and visible index sets and remembers the
// previous visible set for delta computation. Not safe for concurrent use.
type Tracker struct {
	prevVisible []int
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{}
}

// Required returns the ordered indices whose rectangles intersect the
// window extended by the render-ahead margins. An empty layout or a
// non-positive viewport yields an empty set; that is a valid steady state,
// not an error.
func Required(src Source, st State) []int {
	return scan(src, st.Offset-st.AheadBack, st.Offset+st.Viewport+st.AheadFront, st.Viewport)
}

// Visible returns the ordered indices strictly intersecting the bare
// viewport, without render-ahead margins.
func Visible(src Source, st State) []int {
	return scan(src, st.Offset, st.Offset+st.Viewport, st.Viewport)
}

// FirstVisibleIndex returns the first index whose rectangle intersects the
// viewport, or -1 when nothing is visible. Used for scroll restoration and
// approximate-position queries.
func FirstVisibleIndex(src Source, st State) int {
	visible := Visible(src, st)
	if len(visible) == 0 {
		return -1
	}
	return visible[0]
}

// scan collects indices whose rectangles strictly intersect (lo, hi) along
// the primary axis.
func scan(src Source, lo, hi, viewport float64) []int {
	rects := src.Rects()
	if len(rects) == 0 || viewport <= 0 || hi <= lo {
		return nil
	}
	axis := src.Axis()

	// A rectangle intersecting the window has trailing > lo, and its leading
	// edge can precede lo by at most the largest item size. Leading edges
	// are monotonic, so binary search for the earliest candidate.
	floor := lo - src.MaxPrimarySize()
	start := sort.Search(len(rects), func(i int) bool {
		return rects[i].Leading(axis) > floor
	})

	var out []int
	for i := start; i < len(rects); i++ {
		r := rects[i]
		if r.Leading(axis) >= hi {
			break
		}
		if r.Trailing(axis) > lo {
			out = append(out, i)
		}
	}
	return out
}

// Deltas folds a freshly computed visible set into the tracker and reports
// the transition. all is the new visible set, entered the indices that were
// not visible before, exited the indices that no longer are. changed is
// false when the set is unchanged (order-insensitive comparison); callers
// skip observer notification in that case.
func (t *Tracker) Deltas(visible []int) (all, entered, exited []int, changed bool) {
	prev := t.prevVisible
	if equalSets(prev, visible) {
		return visible, nil, nil, false
	}

	entered = difference(visible, prev)
	exited = difference(prev, visible)
	t.prevVisible = append(t.prevVisible[:0:0], visible...)
	return visible, entered, exited, true
}

// PrevVisible returns the visible set recorded by the last Deltas call.
func (t *Tracker) PrevVisible() []int {
	return t.prevVisible
}

// Reset clears the recorded visible set, forcing the next Deltas call to
// report every visible index as entered.
func (t *Tracker) Reset() {
	t.prevVisible = nil
}

// equalSets compares two ordered index slices for set equality. Both inputs
// come from scan and are sorted, so positional comparison suffices.
func equalSets(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// difference returns the elements of a not present in b. Both slices are
// sorted ascending.
func difference(a, b []int) []int {
	var out []int
	j := 0
	for _, v := range a {
		for j < len(b) && b[j] < v {
			j++
		}
		if j < len(b) && b[j] == v {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Package layout computes item rectangles for a windowed virtualization
// engine.
//
// The engine places an ordered sequence of items into cross-axis lanes using
// a greedy least-extent rule: each item goes into the lane whose filled
// extent is smallest, and that lane's extent advances by the item's
// primary-axis size. With one lane this is a plain linear flow; with several
// lanes and varying sizes it produces a staggered (masonry) grid.
//
// Placement is incremental. A change at index k invalidates only indices
// >= k; ComputeFrom replays recorded rectangles for the prefix (no size
// queries) and lays out the suffix. The full rectangle array can be exported
// and re-imported to skip recomputation across a teardown/recreate cycle.
package layout

import (
	"github.com/matzehuels/recyclist/pkg/errors"
)

// indexState tracks the layout lifecycle of a single index.
type indexState uint8

const (
	stateUnlaid indexState = iota
	stateLaid
	stateOverridden
)

// Config carries engine tuning.
type Config struct {
	// Axis is the primary scroll direction.
	Axis Axis

	// Columns is the number of cross-axis lanes. One lane yields a linear
	// flow; more lanes yield a staggered grid. Must be >= 1.
	Columns int

	// SizeTolerance is the slack applied when deciding whether a measured
	// size warrants a relayout. A measured extent within [declared -
	// SizeTolerance, recorded max] never triggers one. Zero means exact
	// comparison.
	SizeTolerance float64
}

// DefaultConfig returns a vertical single-lane configuration.
func DefaultConfig() Config {
	return Config{Axis: AxisVertical, Columns: 1}
}

// Engine computes and stores one rectangle per item index.
// It is not safe for concurrent use; the owning coordinator serializes all
// calls.
type Engine struct {
	oracle SizeOracle
	cfg    Config

	crossSpan float64

	rects  []Rect
	states []indexState
	types  []Type

	overrides map[int]Size
	maxBounds map[Type]Size

	// maxPrimary is the largest primary-axis item extent ever laid. The
	// viewability tracker uses it to bound its backward search for
	// rectangles straddling the window start.
	maxPrimary float64

	content Size
}

// New creates an engine for the given oracle and configuration.
func New(oracle SizeOracle, cfg Config) (*Engine, error) {
	if oracle == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "layout engine requires a size oracle")
	}
	if err := errors.ValidateColumns(cfg.Columns); err != nil {
		return nil, err
	}
	return &Engine{
		oracle:    oracle,
		cfg:       cfg,
		overrides: make(map[int]Size),
		maxBounds: make(map[Type]Size),
	}, nil
}

// SetCrossSpan sets the cross-axis extent available to lanes, typically the
// viewport width for vertical layouts. Lane width is span divided by the
// configured column count. The caller must trigger a recompute afterwards.
func (e *Engine) SetCrossSpan(span float64) {
	e.crossSpan = span
}

// CrossSpan returns the configured cross-axis extent.
func (e *Engine) CrossSpan() float64 { return e.crossSpan }

// Count returns the number of indices currently laid out.
func (e *Engine) Count() int { return len(e.rects) }

// Rects returns the layout array. The slice is owned by the engine and must
// not be mutated by callers.
func (e *Engine) Rects() []Rect { return e.rects }

// Axis returns the primary scroll axis.
func (e *Engine) Axis() Axis { return e.cfg.Axis }

// MaxPrimarySize returns the largest primary-axis item extent ever laid.
func (e *Engine) MaxPrimarySize() float64 { return e.maxPrimary }

// laneSpan returns the cross-axis width of a single lane.
func (e *Engine) laneSpan() float64 {
	if e.crossSpan <= 0 {
		return 0
	}
	return e.crossSpan / float64(e.cfg.Columns)
}

// laneOf recovers the lane a recorded rectangle was placed in.
func (e *Engine) laneOf(r Rect, laneSpan float64) int {
	if laneSpan <= 0 {
		return 0
	}
	var cross float64
	if e.cfg.Axis == AxisHorizontal {
		cross = r.Y
	} else {
		cross = r.X
	}
	lane := int(cross / laneSpan)
	if lane < 0 {
		lane = 0
	}
	if lane >= e.cfg.Columns {
		lane = e.cfg.Columns - 1
	}
	return lane
}

// ComputeFrom lays out indices [start, count), leaving indices < start
// untouched. Lane extents for the prefix are replayed from the recorded
// rectangles, so a suffix recompute issues no size queries for indices that
// are already laid.
//
// Growing count extends the layout array; shrinking it truncates. start is
// clamped into [0, count].
func (e *Engine) ComputeFrom(start, count int) error {
	if count < 0 {
		return errors.New(errors.ErrCodeOutOfRange, "item count %d is negative", count)
	}
	if start < 0 {
		start = 0
	}
	if start > count {
		start = count
	}
	if start > len(e.rects) {
		// Never lay out past a gap of unlaid indices.
		start = len(e.rects)
	}

	e.resize(count)

	lane := e.laneSpan()
	extents := make([]float64, e.cfg.Columns)
	maxCross := 0.0

	// Replay the prefix from recorded rectangles.
	for i := 0; i < start; i++ {
		r := e.rects[i]
		c := e.laneOf(r, lane)
		if t := r.Trailing(e.cfg.Axis); t > extents[c] {
			extents[c] = t
		}
		if cr := e.crossTrailing(r); cr > maxCross {
			maxCross = cr
		}
	}

	// Lay out the suffix.
	for i := start; i < count; i++ {
		size, typ, err := e.sizeAt(i)
		if err != nil {
			return err
		}

		c := minLane(extents)
		e.rects[i] = e.place(size, c, lane, extents[c])
		extents[c] += size.Primary(e.cfg.Axis)

		if e.overridden(i) {
			e.states[i] = stateOverridden
		} else {
			e.states[i] = stateLaid
		}
		e.types[i] = typ

		if p := size.Primary(e.cfg.Axis); p > e.maxPrimary {
			e.maxPrimary = p
		}
		e.recordBounds(typ, size)

		if cr := e.crossTrailing(e.rects[i]); cr > maxCross {
			maxCross = cr
		}
	}

	maxExtent := 0.0
	for _, ext := range extents {
		if ext > maxExtent {
			maxExtent = ext
		}
	}
	if e.cfg.Axis == AxisHorizontal {
		e.content = Size{Width: maxExtent, Height: maxCross}
	} else {
		e.content = Size{Width: maxCross, Height: maxExtent}
	}
	return nil
}

// resize adjusts the layout arrays to hold count indices.
func (e *Engine) resize(count int) {
	if count <= len(e.rects) {
		e.rects = e.rects[:count]
		e.states = e.states[:count]
		e.types = e.types[:count]
		return
	}
	for len(e.rects) < count {
		e.rects = append(e.rects, Rect{})
		e.states = append(e.states, stateUnlaid)
		e.types = append(e.types, "")
	}
}

// sizeAt resolves the size for index i, preferring an override.
func (e *Engine) sizeAt(i int) (Size, Type, error) {
	typ, err := e.oracle.TypeOf(i)
	if err != nil {
		return Size{}, "", errors.Wrap(errors.ErrCodeUnknownType, err, "resolve type for index %d", i)
	}
	if typ == "" {
		return Size{}, "", errors.New(errors.ErrCodeUnknownType, "oracle returned empty type for index %d", i)
	}
	if s, ok := e.overrides[i]; ok {
		return s, typ, nil
	}
	s, err := e.oracle.SizeOf(typ, i)
	if err != nil {
		return Size{}, "", errors.Wrap(errors.ErrCodeUnknownType, err, "resolve size for type %q at index %d", typ, i)
	}
	return s, typ, nil
}

// place builds the rectangle for a size placed into lane c at extent.
func (e *Engine) place(size Size, c int, laneSpan, extent float64) Rect {
	crossPos := float64(c) * laneSpan
	if e.cfg.Axis == AxisHorizontal {
		return Rect{X: extent, Y: crossPos, Width: size.Width, Height: size.Height}
	}
	return Rect{X: crossPos, Y: extent, Width: size.Width, Height: size.Height}
}

// crossTrailing returns the far cross-axis edge of a rectangle.
func (e *Engine) crossTrailing(r Rect) float64 {
	if e.cfg.Axis == AxisHorizontal {
		return r.Bottom()
	}
	return r.Right()
}

// minLane returns the lane with the least filled extent, lowest index on
// ties. The minimum extent is non-decreasing over placements, which keeps
// rectangle leading edges monotonic in index order.
func minLane(extents []float64) int {
	best := 0
	for c := 1; c < len(extents); c++ {
		if extents[c] < extents[best] {
			best = c
		}
	}
	return best
}

// overridden reports whether index i carries a size override.
func (e *Engine) overridden(i int) bool {
	_, ok := e.overrides[i]
	return ok
}

// Override marks index i as carrying an ad-hoc size, replacing whatever the
// oracle declares. No recomputation happens here; the coordinator coalesces
// dirty indices and issues a single ComputeFrom later.
//
// Overrides may target indices that are not laid out yet, so only negative
// indices are rejected.
func (e *Engine) Override(index int, size Size) error {
	if index < 0 {
		return errors.New(errors.ErrCodeOutOfRange, "override index %d is negative", index)
	}
	e.overrides[index] = size
	if index < len(e.states) {
		e.states[index] = stateOverridden
	}
	return nil
}

// ClearOverride removes the override for index i, restoring oracle sizing on
// the next recompute.
func (e *Engine) ClearOverride(index int) {
	delete(e.overrides, index)
}

// RectFor returns the rectangle for a laid-out index.
func (e *Engine) RectFor(index int) (Rect, error) {
	if err := errors.ValidateIndex(index, len(e.rects)); err != nil {
		return Rect{}, err
	}
	return e.rects[index], nil
}

// OffsetFor returns the origin of a laid-out index, used for
// scroll-to-index.
func (e *Engine) OffsetFor(index int) (Point, error) {
	r, err := e.RectFor(index)
	if err != nil {
		return Point{}, err
	}
	return r.Origin(), nil
}

// TypeFor returns the layout type recorded for a laid-out index.
func (e *Engine) TypeFor(index int) (Type, error) {
	if err := errors.ValidateIndex(index, len(e.types)); err != nil {
		return "", err
	}
	return e.types[index], nil
}

// ContentSize returns the bounding extent over all laid-out rectangles.
// This is the scrollable content size exposed to the scroll surface.
func (e *Engine) ContentSize() Size { return e.content }

// RecordMaxBounds records a measured size for a type, growing the recorded
// maximum per axis.
func (e *Engine) RecordMaxBounds(t Type, s Size) {
	e.recordBounds(t, s)
}

func (e *Engine) recordBounds(t Type, s Size) {
	max := e.maxBounds[t]
	if s.Width > max.Width {
		max.Width = s.Width
	}
	if s.Height > max.Height {
		max.Height = s.Height
	}
	e.maxBounds[t] = max
}

// MaxBoundsFor returns the maximum size ever recorded for a type.
func (e *Engine) MaxBoundsFor(t Type) (Size, bool) {
	s, ok := e.maxBounds[t]
	return s, ok
}

// RelayoutNeeded decides whether a measured size for a type warrants a
// suffix relayout. Growth past the recorded maximum always does. Shrink
// counts only when the measured extent falls below the declared size by more
// than the configured tolerance: a measurement that comes back smaller than
// declared but within tolerance is treated as noise.
func (e *Engine) RelayoutNeeded(t Type, declared, measured Size) bool {
	max, ok := e.maxBounds[t]
	if !ok {
		max = declared
	}
	if measured.Width > max.Width || measured.Height > max.Height {
		return true
	}
	tol := e.cfg.SizeTolerance
	if measured.Width < declared.Width-tol || measured.Height < declared.Height-tol {
		return true
	}
	return false
}

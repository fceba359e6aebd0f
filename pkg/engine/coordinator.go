// Package engine orchestrates windowed virtualization: it owns a layout
// engine, a viewability tracker, and a slot pool, and turns external events
// (scroll, data change, dimension change, item resize) into render stacks
// and visibility notifications.
//
// A Coordinator is single-threaded by contract. All methods must be called
// from the one goroutine driving events into it; no internal locking is
// performed. Every call is a fast synchronous computation bounded by the
// window size, so a stale scroll update is simply superseded by the next
// one.
package engine

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/recyclist/pkg/errors"
	"github.com/matzehuels/recyclist/pkg/layout"
	"github.com/matzehuels/recyclist/pkg/observability"
	"github.com/matzehuels/recyclist/pkg/recycle"
	"github.com/matzehuels/recyclist/pkg/window"
)

// Config tunes a Coordinator.
type Config struct {
	// Axis is the primary scroll direction.
	Axis layout.Axis

	// Columns is the number of cross-axis lanes (see layout.Config).
	Columns int

	// RenderAhead is the margin beyond the viewport, in layout units,
	// within which items are kept materialized ahead of the scroll
	// direction.
	RenderAhead float64

	// RenderAheadBack is the margin behind the window start. Zero means
	// "same as RenderAhead".
	RenderAheadBack float64

	// SizeTolerance is the measured-size slack (see layout.Config).
	SizeTolerance float64

	// Recycling pools released slots for reuse. Disable for workloads that
	// need progressive rendering but cannot tolerate content-reuse
	// artifacts.
	Recycling bool

	// DebounceDelay coalesces bursts of resize notifications into a single
	// relayout pass. Zero still defers to the next scheduler tick.
	DebounceDelay time.Duration

	// InitialIndex positions the first window at an item; takes precedence
	// over InitialOffset when positive.
	InitialIndex int

	// InitialOffset positions the first window at an absolute offset.
	InitialOffset float64
}

// DefaultConfig returns a vertical single-lane configuration with recycling
// enabled and a render-ahead of 250 units.
func DefaultConfig() Config {
	return Config{
		Axis:        layout.AxisVertical,
		Columns:     1,
		RenderAhead: 250,
		Recycling:   true,
	}
}

// Option configures optional collaborators.
type Option func(*Coordinator)

// WithSurface attaches the scroll surface sink.
func WithSurface(s ScrollSurface) Option {
	return func(c *Coordinator) { c.surface = s }
}

// WithRenderSink attaches the render-stack consumer. Required.
func WithRenderSink(s RenderSink) Option {
	return func(c *Coordinator) { c.sink = s }
}

// WithObserver attaches the visibility observer.
func WithObserver(o VisibilityObserver) Option {
	return func(c *Coordinator) { c.observer = o }
}

// WithScheduler replaces the debounce scheduler.
func WithScheduler(s Scheduler) Option {
	return func(c *Coordinator) { c.sched = s }
}

// WithLogger attaches a logger; defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// Coordinator wires the layout engine, viewability tracker, and slot pool
// together and reacts to external events.
type Coordinator struct {
	src    DataSource
	oracle layout.SizeOracle
	cfg    Config

	le      *layout.Engine
	tracker *window.Tracker
	pool    *recycle.Pool

	surface  ScrollSurface
	sink     RenderSink
	observer VisibilityObserver
	sched    Scheduler
	logger   *log.Logger

	viewport    layout.Size
	offset      float64
	dimsSet     bool
	initialized bool

	// Two-phase resize coalescing: dirty marks a pending relayout,
	// pendingMin the smallest affected index since the last flush.
	dirty       bool
	pendingMin  int
	cancelFlush func()

	lastStack recycle.Stack
}

// New creates a coordinator. src, oracle, and a render sink are required
// collaborators; their absence is a fatal configuration error.
func New(src DataSource, oracle layout.SizeOracle, cfg Config, opts ...Option) (*Coordinator, error) {
	if src == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "coordinator requires a data source")
	}
	if oracle == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "coordinator requires a size oracle")
	}
	if err := errors.ValidateRenderAhead(cfg.RenderAhead, cfg.RenderAheadBack); err != nil {
		return nil, err
	}
	if cfg.Columns == 0 {
		cfg.Columns = 1
	}

	le, err := layout.New(oracle, layout.Config{
		Axis:          cfg.Axis,
		Columns:       cfg.Columns,
		SizeTolerance: cfg.SizeTolerance,
	})
	if err != nil {
		return nil, err
	}

	c := &Coordinator{
		src:     src,
		oracle:  oracle,
		cfg:     cfg,
		le:      le,
		tracker: window.New(),
		pool:    recycle.NewPool(cfg.Recycling),
		surface: NullSurface{},
		sched:   TimerScheduler{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sink == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "coordinator requires a render sink")
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c, nil
}

// SetObserver replaces the visibility observer; nil detaches it. The
// observer holds a single slot, there is no fan-out.
func (c *Coordinator) SetObserver(o VisibilityObserver) {
	c.observer = o
}

// SetDimensions sets the viewport size. A zero or negative axis is a fatal
// configuration error. After initialization a dimension change re-anchors
// the window on the previously first-visible item so content does not jump.
func (c *Coordinator) SetDimensions(viewport layout.Size) error {
	if err := errors.ValidateViewport(viewport.Width, viewport.Height); err != nil {
		return err
	}
	if c.dimsSet && viewport == c.viewport {
		return nil
	}
	c.viewport = viewport
	c.dimsSet = true
	c.le.SetCrossSpan(viewport.Cross(c.cfg.Axis))

	if !c.initialized {
		return nil
	}
	return c.RefreshWithAnchor()
}

// Init computes the first layout, resolves the configured initial position
// to a scroll offset, and performs the first reconciliation. The render sink
// sees its first stack before Init returns. Dimensions must be set first.
func (c *Coordinator) Init() error {
	if !c.dimsSet {
		return errors.New(errors.ErrCodeInvalidConfig, "Init requires viewport dimensions")
	}
	if err := c.relayout(0); err != nil {
		return err
	}

	offset := c.cfg.InitialOffset
	if c.cfg.InitialIndex > 0 {
		p, err := c.le.OffsetFor(c.cfg.InitialIndex)
		if err != nil {
			return err
		}
		offset = c.primaryOf(p)
	}
	c.offset = c.clampOffset(offset)
	c.scrollSurfaceTo(c.offset, false)

	if err := c.reconcile(); err != nil {
		return err
	}
	c.emitVisibility()
	c.initialized = true
	c.logger.Debug("engine initialized",
		"items", c.src.Count(),
		"offset", c.offset,
		"window", len(c.lastStack))
	return nil
}

// OnScroll updates the window state for a new scroll offset, reconciles,
// and notifies the visibility observer if the visible set changed.
func (c *Coordinator) OnScroll(offset float64) error {
	c.offset = c.clampOffset(offset)
	if err := c.reconcile(); err != nil {
		return err
	}
	c.emitVisibility()
	return nil
}

// SetItemCount relays a pure count change: appended items are laid out as a
// suffix, removed items truncate the layout. The offset is re-clamped
// against the new content extent.
func (c *Coordinator) SetItemCount(n int) error {
	if n < 0 {
		return errors.New(errors.ErrCodeOutOfRange, "item count %d is negative", n)
	}
	start := c.le.Count()
	if n < start {
		start = n
	}
	if err := c.relayoutRange(start, n); err != nil {
		return err
	}
	c.offset = c.clampOffset(c.offset)
	if err := c.reconcile(); err != nil {
		return err
	}
	c.emitVisibility()
	return nil
}

// OnDataChanged reacts to a data replacement in the source: relayout starts
// at the source's first dirty index, bounding the recompute to the suffix
// that can actually have moved.
func (c *Coordinator) OnDataChanged() error {
	dirty := c.src.FirstDirty()
	count := c.src.Count()

	start := count
	if c.le.Count() < start {
		start = c.le.Count()
	}
	if dirty >= 0 && dirty < start {
		start = dirty
	}
	if err := c.relayoutRange(start, count); err != nil {
		return err
	}
	c.offset = c.clampOffset(c.offset)
	if err := c.reconcile(); err != nil {
		return err
	}
	c.emitVisibility()
	return nil
}

// OnItemResized records an ad-hoc size for one item and schedules a
// coalesced relayout. Repeated calls within the debounce window collapse
// into a single pass starting at the minimum index seen: relayout is always
// suffix-based, so the smallest dirty index governs, not the latest.
func (c *Coordinator) OnItemResized(index int, newSize layout.Size) error {
	if err := errors.ValidateIndex(index, c.src.Count()); err != nil {
		return err
	}
	if err := c.le.Override(index, newSize); err != nil {
		return err
	}

	if !c.dirty || index < c.pendingMin {
		c.pendingMin = index
	}
	c.dirty = true

	if c.cancelFlush != nil {
		c.cancelFlush()
	}
	c.cancelFlush = c.sched.Schedule(c.cfg.DebounceDelay, c.flushResize)
	return nil
}

// OnItemMeasured feeds back a measured size for an item whose oracle size
// is a non-deterministic estimate. The measurement is recorded against the
// type's maximum bounds; a relayout is triggered only when the measurement
// grew past everything seen for the type, or shrank below the declared size
// by more than the configured tolerance.
func (c *Coordinator) OnItemMeasured(index int, measured layout.Size) error {
	if err := errors.ValidateIndex(index, c.src.Count()); err != nil {
		return err
	}
	typ, err := c.oracle.TypeOf(index)
	if err != nil || typ == "" {
		return errors.Wrap(errors.ErrCodeUnknownType, err, "resolve type for index %d", index)
	}
	declared, err := c.oracle.SizeOf(typ, index)
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnknownType, err, "resolve size for type %q", typ)
	}

	needed := c.le.RelayoutNeeded(typ, declared, measured)
	c.le.RecordMaxBounds(typ, measured)
	if !needed {
		return nil
	}
	return c.OnItemResized(index, measured)
}

// flushResize performs the coalesced relayout pass. It runs from the
// scheduler, so errors are logged rather than returned.
func (c *Coordinator) flushResize() {
	if !c.dirty {
		return
	}
	from := c.pendingMin
	c.dirty = false
	c.pendingMin = 0
	c.cancelFlush = nil

	if err := c.relayout(from); err != nil {
		c.logger.Error("coalesced relayout failed", "from", from, "err", err)
		return
	}
	c.offset = c.clampOffset(c.offset)
	if err := c.reconcile(); err != nil {
		c.logger.Error("reconcile after relayout failed", "err", err)
		return
	}
	c.emitVisibility()
}

// Refresh re-runs reconciliation against the current window state without
// touching layout. Used after non-geometric state changes.
func (c *Coordinator) Refresh() error {
	if err := c.reconcile(); err != nil {
		return err
	}
	c.emitVisibility()
	return nil
}

// RefreshWithAnchor re-runs layout and reconciliation while keeping the
// previously first-visible item at its prior position on screen, so a
// geometry change does not make the content jump.
func (c *Coordinator) RefreshWithAnchor() error {
	anchor := window.FirstVisibleIndex(c.le, c.windowState())
	var screenPos float64
	if anchor >= 0 {
		r, err := c.le.RectFor(anchor)
		if err != nil {
			return err
		}
		screenPos = r.Leading(c.cfg.Axis) - c.offset
	}

	if err := c.relayout(0); err != nil {
		return err
	}

	if anchor >= 0 && anchor < c.le.Count() {
		r, err := c.le.RectFor(anchor)
		if err != nil {
			return err
		}
		c.offset = c.clampOffset(r.Leading(c.cfg.Axis) - screenPos)
		c.scrollSurfaceTo(c.offset, false)
	} else {
		c.offset = c.clampOffset(c.offset)
	}

	if err := c.reconcile(); err != nil {
		return err
	}
	c.emitVisibility()
	return nil
}

// ScrollToIndex issues an imperative scroll that brings an item's origin to
// the window start.
func (c *Coordinator) ScrollToIndex(index int, animate bool) error {
	if err := errors.ValidateIndex(index, c.le.Count()); err != nil {
		return err
	}
	p, err := c.le.OffsetFor(index)
	if err != nil {
		return err
	}
	target := c.clampOffset(c.primaryOf(p))
	c.scrollSurfaceTo(target, animate)
	return c.OnScroll(target)
}

// ScrollToOffset issues an imperative scroll to an absolute position.
func (c *Coordinator) ScrollToOffset(x, y float64, animate bool) error {
	target := y
	if c.cfg.Axis == layout.AxisHorizontal {
		target = x
	}
	target = c.clampOffset(target)
	c.scrollSurfaceTo(target, animate)
	return c.OnScroll(target)
}

// CurrentOffset returns the current scroll offset along the primary axis.
func (c *Coordinator) CurrentOffset() float64 { return c.offset }

// FindApproxFirstVisibleIndex returns the first index intersecting the bare
// viewport, or -1 for an empty window. Used for scroll restoration.
func (c *Coordinator) FindApproxFirstVisibleIndex() int {
	return window.FirstVisibleIndex(c.le, c.windowState())
}

// ContentSize returns the scrollable content extent.
func (c *Coordinator) ContentSize() layout.Size { return c.le.ContentSize() }

// RectFor returns the layout rectangle of an item. Hosts use it to position
// the view bound to a slot.
func (c *Coordinator) RectFor(index int) (layout.Rect, error) {
	return c.le.RectFor(index)
}

// RenderStack returns the last emitted render stack.
func (c *Coordinator) RenderStack() recycle.Stack { return c.lastStack }

// SlotsMinted returns the total number of slots created so far.
func (c *Coordinator) SlotsMinted() int { return c.pool.Minted() }

// TrimPool destroys free slots beyond maxFreePerType per type and returns
// the number destroyed.
func (c *Coordinator) TrimPool(maxFreePerType int) int {
	return c.pool.Trim(maxFreePerType)
}

// ExportLayout captures the layout array for reuse across a
// teardown/recreate cycle. Ownership of the snapshot transfers to the
// caller.
func (c *Coordinator) ExportLayout() *layout.Snapshot { return c.le.Export() }

// ImportLayout restores a previously exported layout and reconciles against
// it, skipping recomputation. The item count and type assignments must be
// unchanged since export.
func (c *Coordinator) ImportLayout(snap *layout.Snapshot) error {
	if err := c.le.Import(snap); err != nil {
		return err
	}
	c.pushContentSize()
	c.offset = c.clampOffset(c.offset)
	if err := c.reconcile(); err != nil {
		return err
	}
	c.emitVisibility()
	c.initialized = true
	return nil
}

// ---- internal plumbing ----

// relayout recomputes layout for indices >= from against the source's
// current count.
func (c *Coordinator) relayout(from int) error {
	return c.relayoutRange(from, c.src.Count())
}

func (c *Coordinator) relayoutRange(from, count int) error {
	hooks := observability.Engine()
	hooks.OnLayoutStart(from, count)
	start := time.Now()
	err := c.le.ComputeFrom(from, count)
	hooks.OnLayoutComplete(from, count, time.Since(start), err)
	if err != nil {
		return err
	}
	c.pushContentSize()
	return nil
}

// reconcile runs one window query and slot-assignment pass and pushes the
// resulting stack to the render sink.
func (c *Coordinator) reconcile() error {
	required := window.Required(c.le, c.windowState())

	hooks := observability.Engine()
	hooks.OnReconcileStart(len(required))
	start := time.Now()
	stack, err := c.pool.Reconcile(required, c.resolveType)
	hooks.OnReconcileComplete(len(required), c.pool.Minted(), time.Since(start), err)
	if err != nil {
		return err
	}

	c.lastStack = stack
	c.sink.OnRenderStack(stack)
	return nil
}

func (c *Coordinator) resolveType(index int) (layout.Type, error) {
	return c.oracle.TypeOf(index)
}

// emitVisibility notifies the observer when the visible set changed.
func (c *Coordinator) emitVisibility() {
	visible := window.Visible(c.le, c.windowState())
	all, entered, exited, changed := c.tracker.Deltas(visible)
	if !changed {
		return
	}
	observability.Engine().OnVisibilityChange(len(all), len(entered), len(exited))
	if c.observer != nil {
		c.observer.OnVisibilityChanged(all, entered, exited)
	}
}

func (c *Coordinator) windowState() window.State {
	back := c.cfg.RenderAheadBack
	if back == 0 {
		back = c.cfg.RenderAhead
	}
	return window.State{
		Offset:     c.offset,
		Viewport:   c.viewport.Primary(c.cfg.Axis),
		AheadFront: c.cfg.RenderAhead,
		AheadBack:  back,
	}
}

// clampOffset keeps the offset within the scrollable range.
func (c *Coordinator) clampOffset(offset float64) float64 {
	max := c.le.ContentSize().Primary(c.cfg.Axis) - c.viewport.Primary(c.cfg.Axis)
	if max < 0 {
		max = 0
	}
	if offset < 0 {
		return 0
	}
	if offset > max {
		return max
	}
	return offset
}

func (c *Coordinator) primaryOf(p layout.Point) float64 {
	if c.cfg.Axis == layout.AxisHorizontal {
		return p.X
	}
	return p.Y
}

func (c *Coordinator) pushContentSize() {
	c.surface.SetContentSize(c.le.ContentSize())
}

func (c *Coordinator) scrollSurfaceTo(offset float64, animate bool) {
	if c.cfg.Axis == layout.AxisHorizontal {
		c.surface.ScrollTo(offset, 0, animate)
		return
	}
	c.surface.ScrollTo(0, offset, animate)
}

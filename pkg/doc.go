// Package pkg provides the core libraries for Recyclist list virtualization.
//
// # Overview
//
// Recyclist keeps long scrolling lists cheap: layout is computed
// incrementally, only the items near the viewport are materialized, and
// rendering slots are recycled by type as the window moves. The pkg
// directory is organized into:
//
//  1. [layout] - Incremental rectangle computation over a size oracle
//  2. [window] - Required/visible index windowing and visibility deltas
//  3. [recycle] - Typed slot pool and render-stack reconciliation
//  4. [engine] - The coordinator orchestrating the three above
//  5. [cache] - Layout snapshot persistence (memory, file, Redis, MongoDB)
//  6. [errors], [observability], [buildinfo] - Shared infrastructure
//
// # Architecture
//
// The typical event flow through Recyclist:
//
//	Scroll / data / dimension events
//	         ↓
//	    [engine] Coordinator (clamp, coalesce, schedule)
//	         ↓
//	    [layout] Engine (suffix recompute of item rectangles)
//	         ↓
//	    [window] Required / Visible index sets
//	         ↓
//	    [recycle] Pool reconciliation
//	         ↓
//	    Render stack + visibility callbacks
//
// # Quick Start
//
// Virtualize a uniform list:
//
//	import (
//	    "github.com/matzehuels/recyclist/pkg/engine"
//	    "github.com/matzehuels/recyclist/pkg/layout"
//	    "github.com/matzehuels/recyclist/pkg/recycle"
//	)
//
//	oracle := layout.StaticOracle{Type: "row", Size: layout.Size{Width: 400, Height: 48}}
//	src := engine.NewSliceSource(items, nil)
//
//	coord, _ := engine.New(src, oracle, engine.DefaultConfig(),
//	    engine.WithRenderSink(engine.RenderSinkFunc(func(stack recycle.Stack) {
//	        // Bind each stack entry's item index to its slot.
//	    })))
//
//	coord.SetDimensions(layout.Size{Width: 400, Height: 800})
//	coord.Init()
//
//	// Feed scroll offsets from the host scroll view.
//	coord.OnScroll(1200)
//
// # Main Packages
//
// [layout] - One rectangle per item index, computed lane by lane along the
// cross axis. Supports suffix recomputation from any index, ad-hoc size
// overrides, per-type maximum bounds, and snapshot export/import.
//
// [window] - Pure windowing queries over the layout array: the required set
// (viewport plus render-ahead margins), the strictly visible set, and a
// tracker that diffs successive visible sets into entered/exited deltas.
//
// [recycle] - Slot pool keyed by layout type. Reconciliation releases slots
// whose indices left the window and covers new indices from the type's free
// list before minting, producing a stable index-ordered render stack.
//
// [engine] - The coordinator owns one instance of each of the above and
// turns host events into render stacks: offset clamping, resize debouncing,
// anchored refresh on dimension changes, scroll-to-index, and snapshot
// round-trips.
//
// [cache] - Snapshot persistence behind a byte-level Cache interface with
// memory, file, null, Redis, and MongoDB backends, plus hashed keying that
// binds snapshots to the geometry that produced them.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/layout/...     # Specific package
//
// [layout]: https://pkg.go.dev/github.com/matzehuels/recyclist/pkg/layout
// [window]: https://pkg.go.dev/github.com/matzehuels/recyclist/pkg/window
// [recycle]: https://pkg.go.dev/github.com/matzehuels/recyclist/pkg/recycle
// [engine]: https://pkg.go.dev/github.com/matzehuels/recyclist/pkg/engine
// [cache]: https://pkg.go.dev/github.com/matzehuels/recyclist/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/recyclist/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/recyclist/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/recyclist/pkg/buildinfo
package pkg

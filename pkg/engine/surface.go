package engine

import (
	"github.com/matzehuels/recyclist/pkg/layout"
	"github.com/matzehuels/recyclist/pkg/recycle"
)

// ScrollSurface is the sink side of the host's scroll view. The coordinator
// pushes the scrollable content extent into it and issues imperative scroll
// commands; the host feeds offset and viewport changes back through
// Coordinator.OnScroll and Coordinator.SetDimensions.
type ScrollSurface interface {
	SetContentSize(size layout.Size)
	ScrollTo(x, y float64, animate bool)
}

// RenderSink receives each new render stack. This callback is the only
// channel between the virtualization core and the rendering leaf.
type RenderSink interface {
	OnRenderStack(stack recycle.Stack)
}

// RenderSinkFunc adapts a function to RenderSink.
type RenderSinkFunc func(stack recycle.Stack)

// OnRenderStack implements RenderSink.
func (f RenderSinkFunc) OnRenderStack(stack recycle.Stack) { f(stack) }

// VisibilityObserver is notified when the visible index set changes. all is
// the full visible set, entered the newly visible indices, exited the
// indices that left the viewport. All three are ordered ascending.
type VisibilityObserver interface {
	OnVisibilityChanged(all, entered, exited []int)
}

// VisibilityObserverFunc adapts a function to VisibilityObserver.
type VisibilityObserverFunc func(all, entered, exited []int)

// OnVisibilityChanged implements VisibilityObserver.
func (f VisibilityObserverFunc) OnVisibilityChanged(all, entered, exited []int) {
	f(all, entered, exited)
}

// NullSurface is a ScrollSurface that ignores everything, for headless use.
type NullSurface struct{}

// SetContentSize implements ScrollSurface.
func (NullSurface) SetContentSize(layout.Size) {}

// ScrollTo implements ScrollSurface.
func (NullSurface) ScrollTo(float64, float64, bool) {}

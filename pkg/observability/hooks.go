// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about layout passes, reconciliations, visibility changes,
// and snapshot-store operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEngineHooks(&myEngineHooks{})
//	    observability.SetSnapshotHooks(&mySnapshotHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Engine().OnLayoutStart(startIndex, itemCount)
//	// ... compute layout ...
//	observability.Engine().OnLayoutComplete(startIndex, itemCount, duration, err)
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from the virtualization engine.
type EngineHooks interface {
	// Layout events. startIndex is the first recomputed index; a full pass
	// has startIndex 0.
	OnLayoutStart(startIndex, itemCount int)
	OnLayoutComplete(startIndex, itemCount int, duration time.Duration, err error)

	// Reconciliation events. requiredCount is the size of the required index
	// set; minted is how many new slots the pass created.
	OnReconcileStart(requiredCount int)
	OnReconcileComplete(requiredCount, minted int, duration time.Duration, err error)

	// OnVisibilityChange records a visible-set transition.
	OnVisibilityChange(visible, entered, exited int)
}

// =============================================================================
// Snapshot Hooks
// =============================================================================

// SnapshotHooks receives events from the layout snapshot store.
type SnapshotHooks interface {
	// OnHit records a snapshot store hit.
	OnHit(token string)

	// OnMiss records a snapshot store miss.
	OnMiss(token string)

	// OnStore records a snapshot write.
	OnStore(token string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnLayoutStart(int, int)                                {}
func (NoopEngineHooks) OnLayoutComplete(int, int, time.Duration, error)       {}
func (NoopEngineHooks) OnReconcileStart(int)                                  {}
func (NoopEngineHooks) OnReconcileComplete(int, int, time.Duration, error)    {}
func (NoopEngineHooks) OnVisibilityChange(int, int, int)                      {}

// NoopSnapshotHooks is a no-op implementation of SnapshotHooks.
type NoopSnapshotHooks struct{}

func (NoopSnapshotHooks) OnHit(string)        {}
func (NoopSnapshotHooks) OnMiss(string)       {}
func (NoopSnapshotHooks) OnStore(string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	engineHooks   EngineHooks   = NoopEngineHooks{}
	snapshotHooks SnapshotHooks = NoopSnapshotHooks{}
	hooksMu       sync.RWMutex
)

// SetEngineHooks registers custom engine hooks.
// This should be called once at application startup before any engine operations.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// SetSnapshotHooks registers custom snapshot hooks.
// This should be called once at application startup before any snapshot operations.
func SetSnapshotHooks(h SnapshotHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		snapshotHooks = h
	}
}

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
}

// Snapshot returns the registered snapshot hooks.
func Snapshot() SnapshotHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return snapshotHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	engineHooks = NoopEngineHooks{}
	snapshotHooks = NoopSnapshotHooks{}
}

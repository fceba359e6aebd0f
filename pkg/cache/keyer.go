package cache

import "github.com/google/uuid"

// SnapshotKeyOpts captures the geometry a snapshot was computed under.
// Snapshots are only valid for the exact configuration that produced them,
// so every discriminating parameter participates in the key.
type SnapshotKeyOpts struct {
	ItemCount int
	Axis      string
	Columns   int
}

// Keyer generates cache keys for stored snapshots.
type Keyer interface {
	// SnapshotKey generates a key for a layout snapshot.
	SnapshotKey(token string, opts SnapshotKeyOpts) string
}

// DefaultKeyer generates keys by hashing the token together with the
// snapshot geometry.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SnapshotKey generates a key for a layout snapshot.
func (DefaultKeyer) SnapshotKey(token string, opts SnapshotKeyOpts) string {
	return hashKey("snapshot", token, opts.ItemCount, opts.Axis, opts.Columns)
}

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation, so
// different users or list instances sharing a backend get separate
// namespaces.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SnapshotKey generates a prefixed key for a layout snapshot.
func (k *ScopedKeyer) SnapshotKey(token string, opts SnapshotKeyOpts) string {
	return k.prefix + k.inner.SnapshotKey(token, opts)
}

// NewToken returns a fresh snapshot token. Embedders hold on to the token
// across a teardown/recreate cycle and use it to retrieve the snapshot.
func NewToken() string {
	return uuid.NewString()
}

package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/recyclist/pkg/layout"
	"github.com/matzehuels/recyclist/pkg/observability"
)

// SnapshotStore saves and loads layout snapshots through a Cache backend.
// A nil cache disables persistence, a nil keyer uses the default.
type SnapshotStore struct {
	cache Cache
	keyer Keyer
	ttl   time.Duration
}

// NewSnapshotStore creates a snapshot store.
func NewSnapshotStore(c Cache, k Keyer, ttl time.Duration) *SnapshotStore {
	if c == nil {
		c = NewNullCache()
	}
	if k == nil {
		k = NewDefaultKeyer()
	}
	if ttl <= 0 {
		ttl = TTLSnapshot
	}
	return &SnapshotStore{cache: c, keyer: k, ttl: ttl}
}

// KeyOptsFor derives the key options from a snapshot's own geometry.
func KeyOptsFor(snap *layout.Snapshot) SnapshotKeyOpts {
	return SnapshotKeyOpts{
		ItemCount: snap.ItemCount,
		Axis:      snap.Axis,
		Columns:   snap.Columns,
	}
}

// Save serializes a snapshot under the token. The key binds the snapshot's
// geometry, so a Load with different geometry misses instead of producing a
// mismatched import.
func (s *SnapshotStore) Save(ctx context.Context, token string, snap *layout.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	key := s.keyer.SnapshotKey(token, KeyOptsFor(snap))
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		return err
	}
	observability.Snapshot().OnStore(token, len(data))
	return nil
}

// Load retrieves a snapshot for the token and geometry. A missing or
// unreadable entry is a miss, not an error; unreadable entries are removed.
func (s *SnapshotStore) Load(ctx context.Context, token string, opts SnapshotKeyOpts) (*layout.Snapshot, bool, error) {
	key := s.keyer.SnapshotKey(token, opts)
	data, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !hit {
		observability.Snapshot().OnMiss(token)
		return nil, false, nil
	}

	var snap layout.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		_ = s.cache.Delete(ctx, key)
		observability.Snapshot().OnMiss(token)
		return nil, false, nil
	}
	observability.Snapshot().OnHit(token)
	return &snap, true, nil
}

// Delete removes the snapshot stored under the token and geometry.
func (s *SnapshotStore) Delete(ctx context.Context, token string, opts SnapshotKeyOpts) error {
	return s.cache.Delete(ctx, s.keyer.SnapshotKey(token, opts))
}

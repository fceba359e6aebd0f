package cache

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/recyclist/pkg/layout"
	"github.com/matzehuels/recyclist/pkg/observability"
)

// recordingSnapshotHooks counts store activity for assertions.
type recordingSnapshotHooks struct {
	hits, misses, stores int
}

func (h *recordingSnapshotHooks) OnHit(string)        { h.hits++ }
func (h *recordingSnapshotHooks) OnMiss(string)       { h.misses++ }
func (h *recordingSnapshotHooks) OnStore(string, int) { h.stores++ }

func testSnapshot(t *testing.T) *layout.Snapshot {
	t.Helper()

	oracle := layout.StaticOracle{Type: "row", Size: layout.Size{Width: 100, Height: 40}}
	le, err := layout.New(oracle, layout.DefaultConfig())
	if err != nil {
		t.Fatalf("layout.New: %v", err)
	}
	le.SetCrossSpan(100)
	if err := le.ComputeFrom(0, 5); err != nil {
		t.Fatalf("ComputeFrom: %v", err)
	}
	return le.Export()
}

func TestSnapshotStoreRoundTrip(t *testing.T) {
	hooks := &recordingSnapshotHooks{}
	observability.SetSnapshotHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	store := NewSnapshotStore(NewMemoryCache(), nil, 0)
	snap := testSnapshot(t)
	token := NewToken()

	if err := store.Save(ctx, token, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, hit, err := store.Load(ctx, token, KeyOptsFor(snap))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Save")
	}
	if diff := cmp.Diff(snap, got); diff != "" {
		t.Errorf("snapshot round trip (-want +got):\n%s", diff)
	}

	if hooks.stores != 1 || hooks.hits != 1 || hooks.misses != 0 {
		t.Errorf("hooks = %+v, want 1 store, 1 hit, 0 misses", hooks)
	}
}

func TestSnapshotStoreGeometryMiss(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore(NewMemoryCache(), nil, 0)
	snap := testSnapshot(t)
	token := NewToken()

	if err := store.Save(ctx, token, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// A different geometry must key differently and miss.
	opts := KeyOptsFor(snap)
	opts.Columns = 2
	if _, hit, err := store.Load(ctx, token, opts); err != nil || hit {
		t.Errorf("Load with different geometry: hit=%v err=%v, want miss", hit, err)
	}
}

func TestSnapshotStoreCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryCache()
	keyer := NewDefaultKeyer()
	store := NewSnapshotStore(mem, keyer, 0)
	snap := testSnapshot(t)

	opts := KeyOptsFor(snap)
	key := keyer.SnapshotKey("tok", opts)
	if err := mem.Set(ctx, key, []byte("not json"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if _, hit, err := store.Load(ctx, "tok", opts); err != nil || hit {
		t.Errorf("Load of corrupt entry: hit=%v err=%v, want clean miss", hit, err)
	}
	// The corrupt entry is removed.
	if _, hit, _ := mem.Get(ctx, key); hit {
		t.Error("corrupt entry still present after Load")
	}
}

func TestSnapshotStoreNilCollaborators(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore(nil, nil, 0)
	snap := testSnapshot(t)

	// Null cache: saving succeeds, loading misses.
	if err := store.Save(ctx, "tok", snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, hit, err := store.Load(ctx, "tok", KeyOptsFor(snap)); err != nil || hit {
		t.Errorf("Load via null cache: hit=%v err=%v, want miss", hit, err)
	}
}

func TestSnapshotStoreImportCompatibility(t *testing.T) {
	// A loaded snapshot must import cleanly into a fresh engine with the
	// same configuration.
	ctx := context.Background()
	store := NewSnapshotStore(NewMemoryCache(), nil, 0)
	snap := testSnapshot(t)
	token := NewToken()

	if err := store.Save(ctx, token, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, hit, err := store.Load(ctx, token, KeyOptsFor(snap))
	if err != nil || !hit {
		t.Fatalf("Load: hit=%v err=%v", hit, err)
	}

	oracle := layout.StaticOracle{Type: "row", Size: layout.Size{Width: 100, Height: 40}}
	le, err := layout.New(oracle, layout.DefaultConfig())
	if err != nil {
		t.Fatalf("layout.New: %v", err)
	}
	le.SetCrossSpan(100)
	if err := le.Import(got); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if le.Count() != 5 {
		t.Errorf("Count() after import = %d, want 5", le.Count())
	}
}

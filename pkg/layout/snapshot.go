package layout

import (
	"github.com/matzehuels/recyclist/pkg/errors"
)

// Snapshot is a verbatim dump of a computed layout, exported so a recreated
// engine can skip recomputation. The contract mirrors the engine's in-memory
// state: it is only valid to import when the item count and type assignments
// of the collection are unchanged.
//
// Snapshots serialize to JSON for file storage and to BSON for document
// stores.
type Snapshot struct {
	Axis      string  `json:"axis" bson:"axis"`
	Columns   int     `json:"columns" bson:"columns"`
	CrossSpan float64 `json:"cross_span" bson:"cross_span"`

	ItemCount  int     `json:"item_count" bson:"item_count"`
	Rects      []Rect  `json:"rects" bson:"rects"`
	States     []uint8 `json:"states" bson:"states"`
	Types      []Type  `json:"types" bson:"types"`
	MaxPrimary float64 `json:"max_primary" bson:"max_primary"`
	Content    Size    `json:"content" bson:"content"`

	Overrides []OverrideEntry `json:"overrides,omitempty" bson:"overrides,omitempty"`
}

// OverrideEntry records one per-index size override.
type OverrideEntry struct {
	Index int  `json:"index" bson:"index"`
	Size  Size `json:"size" bson:"size"`
}

// Export captures the engine's layout state. The returned snapshot owns its
// slices; subsequent engine mutations do not affect it.
func (e *Engine) Export() *Snapshot {
	snap := &Snapshot{
		Axis:       e.cfg.Axis.String(),
		Columns:    e.cfg.Columns,
		CrossSpan:  e.crossSpan,
		ItemCount:  len(e.rects),
		Rects:      append([]Rect(nil), e.rects...),
		States:     make([]uint8, len(e.states)),
		Types:      append([]Type(nil), e.types...),
		MaxPrimary: e.maxPrimary,
		Content:    e.content,
	}
	for i, s := range e.states {
		snap.States[i] = uint8(s)
	}
	for idx, size := range e.overrides {
		snap.Overrides = append(snap.Overrides, OverrideEntry{Index: idx, Size: size})
	}
	return snap
}

// Import restores a previously exported layout. The snapshot must match the
// engine's axis and column configuration and must be internally consistent;
// otherwise SNAPSHOT_MISMATCH is returned and the engine is left unchanged.
func (e *Engine) Import(snap *Snapshot) error {
	if snap == nil {
		return errors.New(errors.ErrCodeSnapshot, "nil snapshot")
	}
	if snap.Axis != e.cfg.Axis.String() {
		return errors.New(errors.ErrCodeSnapshotMismatch, "snapshot axis %q, engine axis %q", snap.Axis, e.cfg.Axis)
	}
	if snap.Columns != e.cfg.Columns {
		return errors.New(errors.ErrCodeSnapshotMismatch, "snapshot has %d columns, engine has %d", snap.Columns, e.cfg.Columns)
	}
	if len(snap.Rects) != snap.ItemCount || len(snap.States) != snap.ItemCount || len(snap.Types) != snap.ItemCount {
		return errors.New(errors.ErrCodeSnapshotMismatch,
			"snapshot arrays disagree with item count %d (rects %d, states %d, types %d)",
			snap.ItemCount, len(snap.Rects), len(snap.States), len(snap.Types))
	}

	e.crossSpan = snap.CrossSpan
	e.rects = append(e.rects[:0], snap.Rects...)
	e.types = append(e.types[:0], snap.Types...)
	e.states = e.states[:0]
	for _, s := range snap.States {
		e.states = append(e.states, indexState(s))
	}
	e.overrides = make(map[int]Size, len(snap.Overrides))
	for _, o := range snap.Overrides {
		e.overrides[o.Index] = o.Size
	}
	e.maxPrimary = snap.MaxPrimary
	e.content = snap.Content

	// Rebuild max bounds from the restored rectangles.
	e.maxBounds = make(map[Type]Size)
	for i, r := range e.rects {
		e.recordBounds(e.types[i], r.Size())
	}
	return nil
}

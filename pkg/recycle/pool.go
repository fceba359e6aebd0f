// Package recycle assigns reusable render slots to required item indices.
//
// A slot is an identity for an expensive-to-create render surface. Slots are
// typed: a slot freed by an item of layout type T is only ever rebound to
// another item of type T, so the render surface keeps its structural shape
// and only its content changes. The reconciler is a typed free-list
// allocator: each pass keeps slots whose index is still required, releases
// the rest into per-type free lists, and covers newly required indices by
// popping a free slot of the matching type before minting a new one.
//
// Free-slot selection is LIFO: the most recently released slot of a type is
// reused first, which favors surfaces still warm in caches. Any selection
// would be correct.
package recycle

import (
	"sort"

	"github.com/matzehuels/recyclist/pkg/errors"
	"github.com/matzehuels/recyclist/pkg/layout"
)

// SlotUnbound marks a slot with no assigned index.
const SlotUnbound = -1

// Slot is a reusable render identity.
type Slot struct {
	ID    int
	Type  layout.Type
	Index int // SlotUnbound while in a free list
}

// Entry is one element of a render stack.
type Entry struct {
	SlotID int
	Index  int
	Type   layout.Type
}

// Stack is the reconciler's output: one entry per required index, ordered by
// index. The rendering leaf consumes it as "slot SlotID now shows item
// Index".
type Stack []Entry

// Pool owns all slots and their assignments. Not safe for concurrent use.
type Pool struct {
	active  map[int]*Slot         // slot ID -> bound slot
	byIndex map[int]int           // item index -> slot ID
	free    map[layout.Type][]int // per-type LIFO of free slot IDs
	slots   map[int]*Slot         // every live slot, bound or free

	nextID  int
	minted  int
	recycle bool
}

// NewPool creates a pool. With recycle false, released slots are destroyed
// instead of pooled and every uncovered index mints a fresh slot; workloads
// that must avoid content-reuse artifacts run in this mode.
func NewPool(recycle bool) *Pool {
	return &Pool{
		active:  make(map[int]*Slot),
		byIndex: make(map[int]int),
		free:    make(map[layout.Type][]int),
		slots:   make(map[int]*Slot),
		recycle: recycle,
	}
}

// TypeResolver returns the layout type required at an index.
type TypeResolver func(index int) (layout.Type, error)

// Reconcile computes a new slot assignment for the required index set.
// required must be ordered ascending. The pass is idempotent: reconciling
// the same set twice produces an identical stack.
//
// Slots bound to indices no longer required are released first, so they are
// available for reuse within the same pass. A released slot rebound to a new
// index keeps its identity but its content is invalid; the rendering leaf
// must treat the binding as new data with a reused surface.
func (p *Pool) Reconcile(required []int, resolve TypeResolver) (Stack, error) {
	if resolve == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "reconcile requires a type resolver")
	}

	requiredSet := make(map[int]struct{}, len(required))
	for _, idx := range required {
		requiredSet[idx] = struct{}{}
	}

	// Phase 1: release slots whose index fell out of the window.
	for id, slot := range p.active {
		if _, ok := requiredSet[slot.Index]; ok {
			continue
		}
		delete(p.active, id)
		delete(p.byIndex, slot.Index)
		if p.recycle {
			slot.Index = SlotUnbound
			p.free[slot.Type] = append(p.free[slot.Type], id)
		} else {
			delete(p.slots, id)
		}
	}

	// Phase 2: cover uncovered indices, reusing typed free slots first.
	for _, idx := range required {
		if _, ok := p.byIndex[idx]; ok {
			continue
		}
		typ, err := resolve(idx)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnknownType, err, "resolve type for index %d", idx)
		}
		if typ == "" {
			return nil, errors.New(errors.ErrCodeUnknownType, "empty type for index %d", idx)
		}

		slot := p.takeFree(typ)
		if slot == nil {
			slot = &Slot{ID: p.nextID, Type: typ}
			p.nextID++
			p.minted++
			p.slots[slot.ID] = slot
		}
		slot.Index = idx
		p.active[slot.ID] = slot
		p.byIndex[idx] = slot.ID
	}

	return p.stack(), nil
}

// takeFree pops the most recently freed slot of the given type, if any.
func (p *Pool) takeFree(typ layout.Type) *Slot {
	if !p.recycle {
		return nil
	}
	ids := p.free[typ]
	if len(ids) == 0 {
		return nil
	}
	id := ids[len(ids)-1]
	p.free[typ] = ids[:len(ids)-1]
	return p.slots[id]
}

// stack builds the render stack from the active assignment, ordered by item
// index.
func (p *Pool) stack() Stack {
	out := make(Stack, 0, len(p.active))
	for _, slot := range p.active {
		out = append(out, Entry{SlotID: slot.ID, Index: slot.Index, Type: slot.Type})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Trim destroys free slots beyond maxFreePerType in each type bucket and
// returns the number destroyed. This is the pool-trim pressure hook; the
// coordinator never calls it on its own.
func (p *Pool) Trim(maxFreePerType int) int {
	if maxFreePerType < 0 {
		maxFreePerType = 0
	}
	destroyed := 0
	for typ, ids := range p.free {
		if len(ids) <= maxFreePerType {
			continue
		}
		// Oldest entries sit at the front of the LIFO; drop those.
		drop := ids[:len(ids)-maxFreePerType]
		for _, id := range drop {
			delete(p.slots, id)
		}
		destroyed += len(drop)
		p.free[typ] = append([]int(nil), ids[len(ids)-maxFreePerType:]...)
	}
	return destroyed
}

// Minted returns the total number of slots created since the pool was built.
func (p *Pool) Minted() int { return p.minted }

// ActiveCount returns the number of bound slots.
func (p *Pool) ActiveCount() int { return len(p.active) }

// FreeCount returns the number of pooled free slots across all types.
func (p *Pool) FreeCount() int {
	n := 0
	for _, ids := range p.free {
		n += len(ids)
	}
	return n
}

// FreeCountFor returns the number of pooled free slots for one type.
func (p *Pool) FreeCountFor(typ layout.Type) int {
	return len(p.free[typ])
}

package silo

import (
	"fmt"
	"sort"

	"github.com/TheBitDrifter/bark"
	"github.com/kamstrup/intmap"
)

// signature is the pair (sorted data-component set, sorted tag set) that
// defines an archetype.
type signature struct {
	data []ComponentID
	tags []ComponentID
}

// hash is the FNV-1a hash of the signature over its sorted data IDs
// followed by its sorted tag IDs. Because both slices are sorted first,
// permuting the caller's input component order never changes the result.
func (s signature) hash() ArchetypeID {
	const offset64 = 1469598103934665603
	const prime64 = 1099511628211

	h := uint64(offset64)
	step := func(id ComponentID) {
		v := uint64(id)
		for i := 0; i < 8; i++ {
			h ^= v & 0xFF
			h *= prime64
			v >>= 8
		}
	}
	for _, id := range s.data {
		step(id)
	}
	// A partition marker between the data and tag runs so that, e.g., a
	// component moving from data to tag (impossible in practice, since
	// tag-ness is fixed by type, but kept for robustness) still changes
	// the hash rather than colliding with a different data/tag split.
	step(ComponentID(0))
	for _, id := range s.tags {
		step(id)
	}
	return ArchetypeID(h)
}

func sortedCopy(ids []ComponentID) []ComponentID {
	out := make([]ComponentID, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// bitset is a sparse word-addressed bitset over ComponentID values, used
// by Archetype to answer "does this archetype's signature contain this
// component set" in O(words) rather than O(components).
type bitset map[uint64]uint64

func (b bitset) mark(id ComponentID) {
	word, bit := uint64(id)/64, uint64(id)%64
	b[word] |= 1 << bit
}

func (b bitset) has(id ComponentID) bool {
	word, bit := uint64(id)/64, uint64(id)%64
	return b[word]&(1<<bit) != 0
}

func (b bitset) containsAll(other bitset) bool {
	for word, bits := range other {
		if b[word]&bits != bits {
			return false
		}
	}
	return true
}

// Archetype holds every entity sharing one exact component signature, one
// byte column per data component, and cached add/remove transition edges.
type Archetype struct {
	id           ArchetypeID
	componentIDs []ComponentID // sorted, data components only (invariant A3)
	tagSet       map[ComponentID]struct{}
	disabledSet  map[ComponentID]struct{}
	dataMask     bitset
	tagMask      bitset

	columns  map[ComponentID]*column
	entities []EntityID

	addEdges    *intmap.Map[ComponentID, *Archetype]
	removeEdges *intmap.Map[ComponentID, *Archetype]
}

func newArchetypeFromSignature(id ArchetypeID, sig signature, registry *componentRegistry) *Archetype {
	a := &Archetype{
		id:           id,
		componentIDs: sig.data,
		tagSet:       make(map[ComponentID]struct{}, len(sig.tags)),
		disabledSet:  make(map[ComponentID]struct{}),
		dataMask:     make(bitset),
		tagMask:      make(bitset),
		columns:      make(map[ComponentID]*column, len(sig.data)),
		addEdges:     intmap.New[ComponentID, *Archetype](8),
		removeEdges:  intmap.New[ComponentID, *Archetype](8),
	}
	for _, c := range sig.data {
		info, _ := registry.info(c)
		a.columns[c] = newColumn(info.size)
		a.dataMask.mark(c)
	}
	// Deep clone the tag set rather than aliasing the caller's slice/map,
	// since the signature may be reused or mutated by the caller afterward.
	for _, t := range sig.tags {
		a.tagSet[t] = struct{}{}
		a.tagMask.mark(t)
	}
	return a
}

// ID returns the archetype's signature hash.
func (a *Archetype) ID() ArchetypeID { return a.id }

// ComponentIDs returns the sorted data-component IDs of this archetype.
func (a *Archetype) ComponentIDs() []ComponentID { return a.componentIDs }

// Len returns the number of entities currently stored in this archetype.
func (a *Archetype) Len() int { return len(a.entities) }

// Entities returns the archetype's entity vector in row order.
func (a *Archetype) Entities() []EntityID { return a.entities }

// HasComponent reports whether c is a data component of this archetype.
func (a *Archetype) HasComponent(c ComponentID) bool {
	_, ok := a.columns[c]
	return ok
}

// HasTag reports whether c is a tag of this archetype.
func (a *Archetype) HasTag(c ComponentID) bool {
	_, ok := a.tagSet[c]
	return ok
}

// IsDisabled reports whether c is currently disabled on this archetype.
// Disabling is membership-only bookkeeping; it never moves the entity.
func (a *Archetype) IsDisabled(c ComponentID) bool {
	_, ok := a.disabledSet[c]
	return ok
}

func (a *Archetype) setDisabled(c ComponentID, disabled bool) {
	if disabled {
		a.disabledSet[c] = struct{}{}
	} else {
		delete(a.disabledSet, c)
	}
}

// containsAll reports whether this archetype's data signature is a
// superset of the requested component set.
func (a *Archetype) containsAll(requested bitset) bool {
	return a.dataMask.containsAll(requested)
}

// appendEntity appends e to the entity vector and grows every data
// column by one uninitialized row, returning the new row index.
func (a *Archetype) appendEntity(e EntityID) int {
	row := len(a.entities)
	a.entities = append(a.entities, e)
	for _, col := range a.columns {
		col.grow()
	}
	a.checkColumnLengths()
	return row
}

// write copies size(c) bytes from src into column c at row r.
func (a *Archetype) write(c ComponentID, row int, src []byte) {
	a.columns[c].write(row, src)
}

// read returns the bytes of column c at row r.
func (a *Archetype) read(c ComponentID, row int) []byte {
	return a.columns[c].read(row)
}

// swapRemoveRow swap-removes row r from the entity vector and every data
// column. It reports the entity that was moved into row r (if any, i.e.
// r was not already the last row) so the caller can fix up that entity's
// location in the entity index.
func (a *Archetype) swapRemoveRow(r int) (moved EntityID, movedRow int, ok bool) {
	last := len(a.entities) - 1
	for _, col := range a.columns {
		col.swapRemove(r)
	}
	if r != last {
		a.entities[r] = a.entities[last]
		moved, movedRow, ok = a.entities[r], r, true
	}
	a.entities = a.entities[:last]
	a.checkColumnLengths()
	return
}

// checkColumnLengths panics (via bark.AddTrace) if any data column's row
// count has drifted from the entity vector's length, halting on invariant
// A1 rather than letting a corrupted archetype serve a later read.
func (a *Archetype) checkColumnLengths() {
	n := len(a.entities)
	for c, col := range a.columns {
		if col.len() != n {
			panic(bark.AddTrace(invariantViolation{
				what: fmt.Sprintf("archetype %d: column %d has %d rows, entity vector has %d", a.id, c, col.len(), n),
			}))
		}
	}
}

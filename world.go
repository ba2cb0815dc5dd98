package silo

import (
	"fmt"

	"github.com/TheBitDrifter/bark"
)

// entityLocation is the entity index's (archetype, row) pointer for a
// live entity: for every live entity e at row r, the entity index maps
// e to (this archetype, row).
type entityLocation struct {
	archetype *Archetype
	row       int
}

// World owns one entity index, one component registry and one archetype
// graph. Worlds are independent values; there is no global/process-wide
// state.
type World struct {
	entities  *entityIndex
	registry  *componentRegistry
	graph     *archetypeGraph
	locations []entityLocation
	lockDepth int
	queue     *operationQueue
	events    *WorldEvents
}

// NewWorld constructs a World per cfg.
func NewWorld(cfg WorldConfig) *World {
	w := &World{
		entities: newEntityIndex(cfg.Versioning, cfg.VersionBits),
		registry: newComponentRegistry(),
		events:   cfg.Events,
		queue:    newOperationQueue(),
	}
	w.graph = newArchetypeGraph(w.registry, w.events)
	return w
}

// DeleteWorld releases w's internal state. Go's GC reclaims a World once
// unreferenced regardless, but the operation is named explicitly so
// callers have somewhere to put cleanup if they ever need it (e.g.
// flushing OnEntityDestroyed subscribers).
func DeleteWorld(w *World) {
	*w = World{}
}

// Locked reports whether the world is currently inside a read scan
// (Lock/Unlock), during which mutating operations are queued instead of
// applied immediately. Lock depth is a simple reentrant counter rather
// than a per-bit mask, since there is exactly one reason to lock a
// World: an in-progress Cursor scan.
func (w *World) Locked() bool { return w.lockDepth > 0 }

// Lock increments the lock depth.
func (w *World) Lock() { w.lockDepth++ }

// Unlock decrements the lock depth, draining the operation queue once it
// reaches zero.
func (w *World) Unlock() {
	if w.lockDepth == 0 {
		return
	}
	w.lockDepth--
	if w.lockDepth == 0 {
		w.queue.processAll(w)
	}
}

func (w *World) growLocations(forSlot uint64) {
	if forSlot < uint64(len(w.locations)) {
		return
	}
	newLen := uint64(len(w.locations)) * 2
	if newLen <= forSlot {
		newLen = forSlot + 1
	}
	grown := make([]entityLocation, newLen)
	copy(grown, w.locations)
	w.locations = grown
}

func (w *World) locationOf(e EntityID) (*entityLocation, bool) {
	if !w.entities.isAlive(e) {
		return nil, false
	}
	slot := entityBitsOf(e, w.entities.entityBits)
	return &w.locations[slot], true
}

// checkLocation panics (via bark.AddTrace) if the location table disagrees
// with the archetype's own entity vector at loc.row, halting on invariant
// A2 rather than letting a corrupted index serve a later lookup.
func checkLocation(e EntityID, loc entityLocation) {
	if loc.archetype.entities[loc.row] != e {
		panic(bark.AddTrace(invariantViolation{
			what: fmt.Sprintf("entity %v location points at archetype %d row %d, which holds entity %v", e, loc.archetype.id, loc.row, loc.archetype.entities[loc.row]),
		}))
	}
}

// CreateEntity allocates a new handle and places it in the empty archetype.
func (w *World) CreateEntity() EntityID {
	e := w.entities.add()
	slot := entityBitsOf(e, w.entities.entityBits)
	w.growLocations(slot)
	row := w.graph.empty.appendEntity(e)
	w.locations[slot] = entityLocation{archetype: w.graph.empty, row: row}
	checkLocation(e, w.locations[slot])
	return e
}

// IsAlive reports whether e is a currently live handle.
func (w *World) IsAlive(e EntityID) bool {
	return w.entities.isAlive(e)
}

// DeleteEntity retires e: swap-removes it from its archetype, fixes up
// whichever entity was moved into its old row, then frees the handle in
// the entity index. Dead handles are a silent no-op.
func (w *World) DeleteEntity(e EntityID) {
	if w.Locked() {
		w.queue.enqueue(deleteEntityOp{entity: e})
		return
	}
	w.deleteEntityNow(e)
}

func (w *World) deleteEntityNow(e EntityID) {
	loc, ok := w.locationOf(e)
	if !ok {
		return
	}
	arch := loc.archetype
	row := loc.row

	moved, movedRow, hasMoved := arch.swapRemoveRow(row)
	if hasMoved {
		slot := entityBitsOf(moved, w.entities.entityBits)
		w.locations[slot] = entityLocation{archetype: arch, row: movedRow}
		checkLocation(moved, w.locations[slot])
	}

	w.entities.remove(e)

	if w.events != nil && w.events.OnEntityDestroyed != nil {
		w.events.OnEntityDestroyed(e)
	}
}

// addComponent attaches a single data or tag component to e, given its
// already-resolved ComponentID. value is nil for a tag or when the
// caller wants the destination column left uninitialized; otherwise it
// is exactly size(c) bytes to write.
func (w *World) addComponent(e EntityID, c ComponentID, value []byte) {
	if w.Locked() {
		w.queue.enqueue(addComponentOp{entity: e, component: c, value: append([]byte(nil), value...)})
		return
	}
	w.addComponentNow(e, c, value)
}

func (w *World) addComponentNow(e EntityID, c ComponentID, value []byte) {
	loc, ok := w.locationOf(e)
	if !ok {
		return
	}
	oldArch, oldRow := loc.archetype, loc.row

	info, registered := w.registry.info(c)
	if !registered {
		panic(bark.AddTrace(fmt.Errorf("silo: component %v used before registration", c)))
	}

	if oldArch.HasComponent(c) {
		if !info.isTag() {
			oldArch.write(c, oldRow, value)
		}
		return
	}
	if oldArch.HasTag(c) {
		return
	}

	newArch := w.graph.addEdge(oldArch, c)
	w.moveEntity(e, oldArch, oldRow, newArch)
	newRow := w.locations[entityBitsOf(e, w.entities.entityBits)].row

	if !info.isTag() && value != nil {
		newArch.write(c, newRow, value)
	}
}

// removeComponent detaches a component from e, given its ComponentID.
func (w *World) removeComponent(e EntityID, c ComponentID) {
	if w.Locked() {
		w.queue.enqueue(removeComponentOp{entity: e, component: c})
		return
	}
	w.removeComponentNow(e, c)
}

func (w *World) removeComponentNow(e EntityID, c ComponentID) {
	loc, ok := w.locationOf(e)
	if !ok {
		return
	}
	oldArch, oldRow := loc.archetype, loc.row

	if !oldArch.HasComponent(c) && !oldArch.HasTag(c) {
		return
	}

	newArch := w.graph.removeEdge(oldArch, c)
	w.moveEntity(e, oldArch, oldRow, newArch)
}

// moveEntity is the shared core of addComponent/removeComponent: append
// to the destination first, copy every carried-over data column, then
// swap-remove the source row, so the entity is never transiently absent
// from the world.
func (w *World) moveEntity(e EntityID, oldArch *Archetype, oldRow int, newArch *Archetype) {
	newRow := newArch.appendEntity(e)

	for _, cid := range newArch.componentIDs {
		if oldArch.HasComponent(cid) {
			newArch.write(cid, newRow, oldArch.read(cid, oldRow))
		}
	}

	moved, movedRow, hasMoved := oldArch.swapRemoveRow(oldRow)
	if hasMoved {
		slot := entityBitsOf(moved, w.entities.entityBits)
		w.locations[slot] = entityLocation{archetype: oldArch, row: movedRow}
		checkLocation(moved, w.locations[slot])
	}

	slot := entityBitsOf(e, w.entities.entityBits)
	w.locations[slot] = entityLocation{archetype: newArch, row: newRow}
	checkLocation(e, w.locations[slot])

	if w.events != nil && w.events.OnEntityMoved != nil {
		w.events.OnEntityMoved(e, oldArch, newArch)
	}
}

// hasComponent reports whether e carries c, dead or missing counting as false.
func (w *World) hasComponent(e EntityID, c ComponentID) bool {
	loc, ok := w.locationOf(e)
	if !ok {
		return false
	}
	return loc.archetype.HasComponent(c) || loc.archetype.HasTag(c)
}

// getComponent returns the raw bytes of c on e, or ok=false if e lacks c
// or is dead.
func (w *World) getComponent(e EntityID, c ComponentID) (data []byte, ok bool) {
	loc, alive := w.locationOf(e)
	if !alive {
		return nil, false
	}
	if !loc.archetype.HasComponent(c) {
		return nil, false
	}
	return loc.archetype.read(c, loc.row), true
}

// setEnabled flips membership in the archetype's disabled set for c on e,
// without moving the entity to a different archetype.
func (w *World) setEnabled(e EntityID, c ComponentID, enabled bool) {
	loc, ok := w.locationOf(e)
	if !ok {
		return
	}
	loc.archetype.setDisabled(c, !enabled)
}

// isEnabled reports whether c is enabled on e (true if e lacks c).
func (w *World) isEnabled(e EntityID, c ComponentID) bool {
	loc, ok := w.locationOf(e)
	if !ok {
		return true
	}
	if !loc.archetype.HasComponent(c) && !loc.archetype.HasTag(c) {
		return true
	}
	return !loc.archetype.IsDisabled(c)
}

// archetypesWith returns every archetype carrying all of components, the
// core primitive queries are built on.
func (w *World) archetypesWith(components []ComponentID) []*Archetype {
	return w.graph.archetypesWith(components)
}

// EntityCount returns the number of currently live entities in w.
func (w *World) EntityCount() int {
	return w.entities.aliveCountTotal()
}

// ComponentSize returns the byte size of a registered component, or 0 if
// c is a tag or was never registered.
func (w *World) ComponentSize(c ComponentID) uintptr {
	return w.registry.sizeOf(c)
}

// ComponentIDByName looks up a previously-registered component's ID by
// the qualified name its type was registered under (reflect.Type.String(),
// e.g. "mypkg.Position"), for debug/introspection tooling that only has a
// name to go on.
func (w *World) ComponentIDByName(name string) (ComponentID, bool) {
	return w.registry.idByName(name)
}

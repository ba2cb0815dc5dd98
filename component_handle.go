package silo

import (
	"reflect"
	"unsafe"
)

// ComponentHandle[T] is a typed, per-World reference to a registered
// component type. Go does not allow type parameters on methods, so the
// generic entry point is a free function (RegisterComponent[T]) while
// ComponentHandle[T]'s own methods close over T via its struct type
// parameter.
type ComponentHandle[T any] struct {
	id   ComponentID
	size uintptr
}

// RegisterComponent idempotently registers T against w and returns a
// handle for adding/removing/reading it.
func RegisterComponent[T any](w *World) ComponentHandle[T] {
	var zero T
	t := reflect.TypeOf(zero)
	id := w.registry.register(t)
	info, _ := w.registry.info(id)
	return ComponentHandle[T]{id: id, size: info.size}
}

// ID returns the ComponentID backing this handle.
func (h ComponentHandle[T]) ID() ComponentID { return h.id }

func (h ComponentHandle[T]) bytesOf(value *T) []byte {
	if h.size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(value)), h.size)
}

// Add attaches value to e, moving e to a new archetype if this is the
// first time e has carried T. A dead handle is a silent no-op.
func (h ComponentHandle[T]) Add(w *World, e EntityID, value T) {
	w.addComponent(e, h.id, h.bytesOf(&value))
}

// AddZero attaches the zero value of T to e without requiring a caller-
// supplied value, primarily useful for tags (size 0) where there is
// nothing to write.
func (h ComponentHandle[T]) AddZero(w *World, e EntityID) {
	var zero T
	w.addComponent(e, h.id, h.bytesOf(&zero))
}

// Remove detaches T from e, moving e to a new archetype. A dead handle
// or an entity that never had T is a silent no-op.
func (h ComponentHandle[T]) Remove(w *World, e EntityID) {
	w.removeComponent(e, h.id)
}

// Has reports whether e currently carries T.
func (h ComponentHandle[T]) Has(w *World, e EntityID) bool {
	return w.hasComponent(e, h.id)
}

// Get returns a pointer to e's T value and true, or (nil, false) if e is
// dead or lacks T.
func (h ComponentHandle[T]) Get(w *World, e EntityID) (*T, bool) {
	if h.size == 0 {
		if !w.hasComponent(e, h.id) {
			return nil, false
		}
		var zero T
		return &zero, true
	}
	data, ok := w.getComponent(e, h.id)
	if !ok {
		return nil, false
	}
	return (*T)(unsafe.Pointer(&data[0])), true
}

// Enable re-enables T on e's archetype without moving e to a new
// archetype. The enable state is held per archetype, so it applies to
// every entity sharing e's archetype.
func (h ComponentHandle[T]) Enable(w *World, e EntityID) {
	w.setEnabled(e, h.id, true)
}

// Disable disables T on e's archetype without moving e to a new
// archetype. The enable state is held per archetype, so it applies to
// every entity sharing e's archetype. Disabled components remain in
// storage; Query and Cursor do not consult the enable state.
func (h ComponentHandle[T]) Disable(w *World, e EntityID) {
	w.setEnabled(e, h.id, false)
}

// Enabled reports whether T is currently enabled on e's archetype (true
// if e lacks T at all, matching "nothing to filter out").
func (h ComponentHandle[T]) Enabled(w *World, e EntityID) bool {
	return w.isEnabled(e, h.id)
}

// Table returns a contiguous []T view over every row of a's T column.
// The slice is invalidated by any subsequent mutating call on the
// owning World.
func (h ComponentHandle[T]) Table(a *Archetype) []T {
	col, ok := a.columns[h.id]
	if !ok {
		return nil
	}
	return columnSlice[T](col)
}

// GetFromCursor returns a pointer to T for the entity at the cursor's
// current position.
func (h ComponentHandle[T]) GetFromCursor(cur *Cursor) *T {
	col := cur.currentArchetype.columns[h.id]
	return columnAt[T](col, cur.entityIndex-1)
}

// CheckCursor reports whether the cursor's current archetype carries T
// at all.
func (h ComponentHandle[T]) CheckCursor(cur *Cursor) bool {
	return cur.currentArchetype.HasComponent(h.id)
}

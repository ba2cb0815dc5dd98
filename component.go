package silo

import "reflect"

// componentTypeInfo records size, align and the originating reflect.Type
// of a registered component. Size 0 marks a tag: a zero-sized component
// that participates in archetype identity but owns no column.
type componentTypeInfo struct {
	id    ComponentID
	typ   reflect.Type
	size  uintptr
	align uintptr
}

func (info componentTypeInfo) isTag() bool {
	return info.size == 0
}

// componentRegistry maps a user-declared component type to a stable
// ComponentID. Registration is idempotent: re-registering the same type
// returns the same ID and an identical componentTypeInfo.
type componentRegistry struct {
	byType map[reflect.Type]ComponentID
	byName *SimpleCache[componentTypeInfo]
	infos  map[ComponentID]componentTypeInfo
	next   ComponentID
}

func newComponentRegistry() *componentRegistry {
	return &componentRegistry{
		byType: make(map[reflect.Type]ComponentID),
		byName: NewSimpleCache[componentTypeInfo](1 << 20),
		infos:  make(map[ComponentID]componentTypeInfo),
		next:   reservedComponentIDs,
	}
}

// register returns the type's ComponentID, allocating a fresh one on
// first sight. Two registrations of the same type always agree.
func (r *componentRegistry) register(t reflect.Type) ComponentID {
	if id, ok := r.byType[t]; ok {
		return id
	}

	r.next++
	id := r.next

	size := t.Size()
	align := uintptr(t.Align())
	if isZeroSized(t) {
		size = 0
	}

	info := componentTypeInfo{id: id, typ: t, size: size, align: align}
	r.byType[t] = id
	r.infos[id] = info
	// The registry's name cache is an auxiliary lookup path (debug
	// tooling, introspection) keyed on the type's qualified name.
	r.byName.Register(t.String(), info)
	return id
}

// idByName looks up a previously-registered component's ID by the
// qualified name its reflect.Type.String() was registered under.
func (r *componentRegistry) idByName(name string) (ComponentID, bool) {
	idx, ok := r.byName.GetIndex(name)
	if !ok {
		return 0, false
	}
	return r.byName.GetItem(idx).id, true
}

// isZeroSized reports whether every instance of t occupies zero bytes,
// i.e. t.Size() == 0. This includes structs composed entirely of
// zero-sized fields, for which Go also reports a size of 0.
func isZeroSized(t reflect.Type) bool {
	return t.Size() == 0
}

func (r *componentRegistry) sizeOf(id ComponentID) uintptr {
	return r.infos[id].size
}

func (r *componentRegistry) info(id ComponentID) (componentTypeInfo, bool) {
	info, ok := r.infos[id]
	return info, ok
}

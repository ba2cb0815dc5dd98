package silo

// EntityID is an opaque 64-bit entity handle. It packs a dense slot number
// in its low bits and a generation counter in its high bits; the split is
// fixed by the World's VersionBits configuration at creation time (see
// WorldConfig): the slot uses the remaining 64-VersionBits bits, or all 64
// bits when versioning is disabled.
type EntityID uint64

// ComponentID identifies a registered component type within one World.
// IDs are allocated sequentially by the component registry and are only
// stable within the process that allocated them; they are not meant to
// be portable across runs or processes.
type ComponentID uint64

// ArchetypeID is the FNV-1a hash of an archetype's signature: its sorted
// data-component IDs followed by its sorted tag IDs.
type ArchetypeID uint64

// reservedComponentIDs holds back a small block of the ComponentID space
// for a future Pair(relation, target) extension, so plain components
// allocated today never collide with relationship IDs introduced later.
const reservedComponentIDs = ComponentID(1 << 16)

// entityBitsOf returns the slot portion of h, given an entity-bits width.
func entityBitsOf(h EntityID, entityBits uint) uint64 {
	mask := uint64(1)<<entityBits - 1
	return uint64(h) & mask
}

// versionOf returns the generation portion of h, given an entity-bits width.
func versionOf(h EntityID, entityBits uint) uint64 {
	return uint64(h) >> entityBits
}

// makeEntityID packs a slot and a generation into an EntityID.
func makeEntityID(slot, version uint64, entityBits uint) EntityID {
	return EntityID(slot | version<<entityBits)
}

// withVersion returns h with its generation replaced by version.
func withVersion(h EntityID, version uint64, entityBits uint) EntityID {
	mask := uint64(1)<<entityBits - 1
	return EntityID(uint64(h)&mask | version<<entityBits)
}

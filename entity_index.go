package silo

// sentinelRow marks a sparse-array slot that has no live entry.
const sentinelRow = ^uint32(0)

// entityIndex is the sparse-set that allocates and recycles EntityID
// handles: dense holds live handles in [0, aliveCount) and recycled
// handles (most-recently-freed first) in [aliveCount, len(dense));
// sparse maps a slot number to its position in dense.
type entityIndex struct {
	versioning  bool
	entityBits  uint
	versionBits uint

	maxID      uint64
	aliveCount uint32
	dense      []EntityID
	sparse     []uint32
}

// newEntityIndex constructs an index with pre-reserved sparse capacity.
func newEntityIndex(versioning bool, versionBits uint) *entityIndex {
	const minSparse = 16
	entityBits := uint(64) - versionBits
	if !versioning {
		entityBits = 64
		versionBits = 0
	}
	sparse := make([]uint32, minSparse)
	for i := range sparse {
		sparse[i] = sentinelRow
	}
	return &entityIndex{
		versioning:  versioning,
		entityBits:  entityBits,
		versionBits: versionBits,
		sparse:      sparse,
	}
}

func (ix *entityIndex) growSparse(forSlot uint64) {
	if forSlot < uint64(len(ix.sparse)) {
		return
	}
	newLen := uint64(len(ix.sparse)) * 2
	if newLen <= forSlot {
		newLen = forSlot + 1
	}
	grown := make([]uint32, newLen)
	copy(grown, ix.sparse)
	for i := len(ix.sparse); i < len(grown); i++ {
		grown[i] = sentinelRow
	}
	ix.sparse = grown
}

// add allocates a live handle, reusing a recycled one (LIFO) if available.
func (ix *entityIndex) add() EntityID {
	if uint32(len(ix.dense)) > ix.aliveCount {
		h := ix.dense[ix.aliveCount]
		slot := entityBitsOf(h, ix.entityBits)
		ix.sparse[slot] = ix.aliveCount
		ix.aliveCount++
		return h
	}

	ix.maxID++
	h := makeEntityID(ix.maxID, 0, ix.entityBits)
	ix.dense = append(ix.dense, h)
	ix.growSparse(ix.maxID)
	ix.sparse[ix.maxID] = ix.aliveCount
	ix.aliveCount++
	return h
}

// remove retires h. Unknown or already-dead handles are silent no-ops,
// a deliberate choice so callers never need to guard a mutation behind
// an extra liveness check.
func (ix *entityIndex) remove(h EntityID) {
	slot := entityBitsOf(h, ix.entityBits)
	if slot >= uint64(len(ix.sparse)) {
		return
	}
	row := ix.sparse[slot]
	if row == sentinelRow || row >= ix.aliveCount {
		return
	}
	if ix.dense[row] != h {
		return
	}

	last := ix.aliveCount - 1
	ix.dense[row], ix.dense[last] = ix.dense[last], ix.dense[row]
	movedSlot := entityBitsOf(ix.dense[row], ix.entityBits)
	ix.sparse[movedSlot] = row

	if ix.versioning {
		nextVersion := (versionOf(h, ix.entityBits) + 1) % (uint64(1) << ix.versionBits)
		ix.dense[last] = withVersion(h, nextVersion, ix.entityBits)
	} else {
		ix.dense[last] = h
	}

	ix.aliveCount--
	ix.sparse[slot] = sentinelRow
}

// isAlive reports whether h is exactly (slot and version) a live handle.
func (ix *entityIndex) isAlive(h EntityID) bool {
	slot := entityBitsOf(h, ix.entityBits)
	if slot >= uint64(len(ix.sparse)) {
		return false
	}
	row := ix.sparse[slot]
	if row == sentinelRow || row >= ix.aliveCount {
		return false
	}
	return ix.dense[row] == h
}

// aliveCountTotal returns the number of currently live entities.
func (ix *entityIndex) aliveCountTotal() int {
	return int(ix.aliveCount)
}

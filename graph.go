package silo

import "github.com/kamstrup/intmap"

// archetypeGraph interns archetypes by signature hash and maintains the
// ComponentID -> {archetypes containing it} reverse index the query
// primitive scans. Archetypes are retained for the lifetime of the graph
// once created, even after draining back to zero entities: other
// archetypes may hold cached addEdges/removeEdges entries pointing at
// them, and there is no cheap way to find and invalidate every such
// incoming edge when an archetype empties out.
type archetypeGraph struct {
	registry     *componentRegistry
	byID         *intmap.Map[ArchetypeID, *Archetype]
	reverseIndex map[ComponentID]*intmap.Map[ArchetypeID, *Archetype]
	empty        *Archetype
	events       *WorldEvents
}

func newArchetypeGraph(registry *componentRegistry, events *WorldEvents) *archetypeGraph {
	g := &archetypeGraph{
		registry:     registry,
		byID:         intmap.New[ArchetypeID, *Archetype](64),
		reverseIndex: make(map[ComponentID]*intmap.Map[ArchetypeID, *Archetype]),
		events:       events,
	}
	g.empty = g.intern(signature{})
	return g
}

// intern returns the archetype with this signature, creating and wiring
// it into the reverse index on first demand.
func (g *archetypeGraph) intern(sig signature) *Archetype {
	sig.data = sortedCopy(sig.data)
	sig.tags = sortedCopy(sig.tags)
	id := sig.hash()

	if existing, ok := g.byID.Get(id); ok {
		return existing
	}

	a := newArchetypeFromSignature(id, sig, g.registry)
	g.byID.Put(id, a)

	for _, c := range a.componentIDs {
		idx, ok := g.reverseIndex[c]
		if !ok {
			idx = intmap.New[ArchetypeID, *Archetype](8)
			g.reverseIndex[c] = idx
		}
		idx.Put(id, a)
	}

	if g.events != nil && g.events.OnArchetypeCreated != nil {
		g.events.OnArchetypeCreated(a)
	}
	return a
}

// addEdge resolves (and caches) the archetype reached from `from` by
// adding component c.
func (g *archetypeGraph) addEdge(from *Archetype, c ComponentID) *Archetype {
	if to, ok := from.addEdges.Get(c); ok {
		return to
	}

	info, _ := g.registry.info(c)
	var next signature
	if info.isTag() {
		next = signature{data: from.componentIDs, tags: appendUnique(from.tagKeys(), c)}
	} else {
		next = signature{data: appendUnique(from.componentIDs, c), tags: from.tagKeys()}
	}
	to := g.intern(next)
	from.addEdges.Put(c, to)
	return to
}

// removeEdge resolves (and caches) the archetype reached from `from` by
// removing component c.
func (g *archetypeGraph) removeEdge(from *Archetype, c ComponentID) *Archetype {
	if to, ok := from.removeEdges.Get(c); ok {
		return to
	}

	next := signature{
		data: removeID(from.componentIDs, c),
		tags: removeID(from.tagKeys(), c),
	}
	to := g.intern(next)
	from.removeEdges.Put(c, to)
	return to
}

// archetypesWith intersects the reverse indices of every requested
// component and yields each matching archetype exactly once.
func (g *archetypeGraph) archetypesWith(components []ComponentID) []*Archetype {
	if len(components) == 0 {
		return g.all()
	}

	requested := make(bitset)
	for _, c := range components {
		requested.mark(c)
	}

	smallest := g.reverseIndex[components[0]]
	for _, c := range components[1:] {
		idx := g.reverseIndex[c]
		if idx == nil || smallest == nil {
			return nil
		}
		if idx.Len() < smallest.Len() {
			smallest = idx
		}
	}
	if smallest == nil {
		return nil
	}

	var out []*Archetype
	smallest.ForEach(func(id ArchetypeID, a *Archetype) {
		if a.containsAll(requested) {
			out = append(out, a)
		}
	})
	return out
}

// all returns every interned archetype, in unspecified but stable order
// for the lifetime of one call.
func (g *archetypeGraph) all() []*Archetype {
	out := make([]*Archetype, 0, g.byID.Len())
	g.byID.ForEach(func(id ArchetypeID, a *Archetype) {
		out = append(out, a)
	})
	return out
}

func (a *Archetype) tagKeys() []ComponentID {
	keys := make([]ComponentID, 0, len(a.tagSet))
	for k := range a.tagSet {
		keys = append(keys, k)
	}
	return keys
}

func appendUnique(ids []ComponentID, c ComponentID) []ComponentID {
	for _, id := range ids {
		if id == c {
			return ids
		}
	}
	out := make([]ComponentID, len(ids)+1)
	copy(out, ids)
	out[len(ids)] = c
	return out
}

func removeID(ids []ComponentID, c ComponentID) []ComponentID {
	out := make([]ComponentID, 0, len(ids))
	for _, id := range ids {
		if id != c {
			out = append(out, id)
		}
	}
	return out
}

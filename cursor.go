package silo

// Cursor iterates the entities across every archetype a QueryNode
// matches. While a Cursor is initialized it holds the World locked, so
// any add/remove/delete triggered mid-scan is deferred rather than
// invalidating the in-progress scan.
type Cursor struct {
	query            QueryNode
	world            *World
	currentArchetype *Archetype
	archetypeIndex   int
	entityIndex      int
	remaining        int

	initialized       bool
	matchedArchetypes []*Archetype
}

// NewCursor creates a Cursor over every archetype query matches in w.
func NewCursor(query QueryNode, w *World) *Cursor {
	return &Cursor{query: query, world: w}
}

// Next advances to the next matching entity, returning false once
// exhausted (at which point the Cursor releases its lock and can be
// reused by calling Next again).
func (c *Cursor) Next() bool {
	if c.entityIndex < c.remaining {
		c.entityIndex++
		return true
	}
	return c.advance()
}

// advance moves to the next archetype with remaining entities.
func (c *Cursor) advance() bool {
	if !c.initialized {
		c.initialize()
	}

	for c.archetypeIndex < len(c.matchedArchetypes) {
		c.currentArchetype = c.matchedArchetypes[c.archetypeIndex]
		c.remaining = c.currentArchetype.Len()
		if c.entityIndex < c.remaining {
			c.entityIndex++
			return true
		}
		c.archetypeIndex++
		c.entityIndex = 0
	}

	c.reset()
	return false
}

func (c *Cursor) initialize() {
	if c.initialized {
		return
	}
	c.world.Lock()
	all := c.world.archetypesWith(nil)
	c.matchedArchetypes = make([]*Archetype, 0, len(all))
	for _, a := range all {
		if c.query.Evaluate(a) {
			c.matchedArchetypes = append(c.matchedArchetypes, a)
		}
	}

	if len(c.matchedArchetypes) > 0 {
		c.archetypeIndex = 0
		c.currentArchetype = c.matchedArchetypes[0]
		c.remaining = c.currentArchetype.Len()
	}
	c.initialized = true
}

// reset clears cursor state and releases the World lock.
func (c *Cursor) reset() {
	c.archetypeIndex = 0
	c.entityIndex = 0
	c.remaining = 0
	c.matchedArchetypes = nil
	c.initialized = false
	c.world.Unlock()
}

// CurrentEntity returns the entity at the cursor's current position.
func (c *Cursor) CurrentEntity() EntityID {
	return c.currentArchetype.entities[c.entityIndex-1]
}

// EntityAtOffset returns the entity at offset rows from the current
// position, within the current archetype only.
func (c *Cursor) EntityAtOffset(offset int) EntityID {
	return c.currentArchetype.entities[c.entityIndex-1+offset]
}

// EntityIndex returns the 1-based position of the current entity within
// the current archetype (its row plus one).
func (c *Cursor) EntityIndex() int {
	return c.entityIndex
}

// RemainingInArchetype returns how many rows are left in the current archetype.
func (c *Cursor) RemainingInArchetype() int {
	return c.remaining - c.entityIndex
}

// TotalMatched returns the total number of entities matching the query,
// across every matched archetype, and releases the cursor's lock.
func (c *Cursor) TotalMatched() int {
	if !c.initialized {
		c.initialize()
	}
	total := 0
	for _, a := range c.matchedArchetypes {
		total += a.Len()
	}
	c.reset()
	return total
}

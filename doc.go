/*
Package silo provides an archetype-based Entity Component System (ECS).

Silo offers a performant approach to managing entities through component-
based design. It is built on an archetype storage model that keeps entities
with the same exact component signature together in contiguous per-
component columns, so iterating entities that share a shape is a
sequential scan of packed arrays rather than a pointer chase.

Core Concepts:

  - Entity: a stable 64-bit handle (slot + generation) naming a row in some archetype.
  - Component: a typed datum attached to an entity; identified by a ComponentID.
  - Archetype: a collection of entities sharing an identical component signature.
  - Query: a way to find archetypes matching a component combination.

Basic Usage:

	world := silo.NewWorld(silo.DefaultWorldConfig())

	position := silo.RegisterComponent[Position](world)
	velocity := silo.RegisterComponent[Velocity](world)

	e := world.CreateEntity()
	position.Add(world, e, Position{X: 10, Y: 20})
	velocity.Add(world, e, Velocity{X: 1, Y: 1})

	query := silo.NewQuery()
	node := query.And(position, velocity)
	cursor := silo.NewCursor(node, world)

	for cursor.Next() {
		pos := position.GetFromCursor(cursor)
		vel := velocity.GetFromCursor(cursor)
		pos.X += vel.X
		pos.Y += vel.Y
	}

Silo has no external collaborators: no command-line driver, no profiling
harness, no pub-sub layer. It is a standalone core library.
*/
package silo

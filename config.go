package silo

// WorldEvents carries optional callback hooks for archetype and entity
// lifecycle events. It is held per-World rather than as a package-level
// singleton, so that worlds remain independent values with no
// process-wide shared state between them.
type WorldEvents struct {
	// OnArchetypeCreated fires the first time a given signature is interned.
	OnArchetypeCreated func(*Archetype)
	// OnEntityMoved fires whenever add_component/remove_component moves
	// an entity from one archetype to another.
	OnEntityMoved func(e EntityID, from, to *Archetype)
	// OnEntityDestroyed fires after delete_entity has retired a handle.
	OnEntityDestroyed func(e EntityID)
}

// WorldConfig configures a World at construction time.
type WorldConfig struct {
	// Versioning enables generational versioning of entity handles.
	// Disabled, recycled handles carry version 0.
	Versioning bool
	// VersionBits is the width of the generation field when Versioning
	// is enabled; typical split is 48 entity bits / 16 version bits.
	VersionBits uint
	// Events, if non-nil, receives archetype/entity lifecycle callbacks.
	Events *WorldEvents
}

// DefaultWorldConfig returns the typical split: versioning enabled with a
// 16-bit generation counter over a 48-bit entity slot space.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Versioning:  true,
		VersionBits: 16,
	}
}

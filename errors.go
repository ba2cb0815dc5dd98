package silo

import "fmt"

// LockedWorldError describes a world that is locked: a cursor's iteration
// holds a lock so archetype moves triggered mid-scan are deferred instead
// of invalidating the scan in progress. Mutating operations on a locked
// World queue themselves and do not return this error.
type LockedWorldError struct{}

func (e LockedWorldError) Error() string {
	return "world is currently locked"
}

// UnknownEntityError reports that a handle is not live in the entity
// index. Operations in this package treat a dead handle as a silent
// no-op and do not return this error; it exists for callers that want to
// distinguish "no-op because dead" from "no-op because already satisfied".
type UnknownEntityError struct {
	Entity EntityID
}

func (e UnknownEntityError) Error() string {
	return fmt.Sprintf("entity %v is not alive", e.Entity)
}

// MissingComponentError reports that an entity lacks a requested component.
type MissingComponentError struct {
	Entity      EntityID
	ComponentID ComponentID
}

func (e MissingComponentError) Error() string {
	return fmt.Sprintf("entity %v has no component %v", e.Entity, e.ComponentID)
}

// TypeMismatchError reports a typed get/get_table call against an
// archetype with no column for the requested type.
type TypeMismatchError struct {
	ComponentID ComponentID
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("no column for component %v in this archetype", e.ComponentID)
}

// invariantViolation is the error wrapped (via bark.AddTrace) and
// panicked when an impossible internal state is observed.
type invariantViolation struct {
	what string
}

func (e invariantViolation) Error() string {
	return fmt.Sprintf("silo: invariant violated: %s", e.what)
}

package ecs

// TypeID is a compact integer identity assigned to a component type the
// first time it is registered with a ComponentRegistry. Per-entity
// component maps and query signatures key on TypeID rather than on
// reflect.Type or a class-name string, so lookups stay cheap.
type TypeID int

// EntityID is a handle to a live entity, unique over the lifetime of the
// World that issued it. Unlike a generational handle, a released entity's
// id is never reassigned to another entity — the World's counter only
// increases, so a stale EntityID can never alias a different, later entity.
type EntityID uint64

// IsZero reports whether id is the zero value, used as a sentinel for "no
// entity" in places that need one (e.g. an uninitialized reference field).
func (id EntityID) IsZero() bool { return id == 0 }

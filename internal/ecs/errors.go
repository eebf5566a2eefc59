package ecs

import "errors"

// ErrQueryHasNoPositiveComponents is returned by World.Query when the spec
// carries zero positive terms. Constructing such a query is a programming
// error, not a usage pattern the engine tolerates.
var ErrQueryHasNoPositiveComponents = errors.New("ecs: query must have at least one positive component")

// ErrEntityNotOwnedByWorld is the panic value of Entity.Remove (via
// EntityStore.removeEntity) when the entity is no longer owned by a world:
// it was already force-removed, or its deferred removal was committed.
var ErrEntityNotOwnedByWorld = errors.New("ecs: entity is not owned by this world")

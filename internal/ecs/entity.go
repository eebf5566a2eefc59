package ecs

// Entity is an opaque handle bundling a component-set and query
// back-edges. It is never constructed directly — World.CreateEntity pulls
// one from the entity pool.
//
// Invariants (§3): a TypeID appears in at most one of {attached,
// pendingRemoval} at a time; attached and instances agree on keys; for
// every query in queries, this entity sits in that query's matched vector
// exactly once and Query.Match holds for it (barring a remove in flight).
type Entity struct {
	id       EntityID
	world    *World
	attached []TypeID
	instances map[TypeID]any

	pendingTypes     []TypeID
	pendingInstances map[TypeID]any

	queries []*Query
}

// Reset restores a released Entity to pool-clean defaults. It implements
// Resetter so Entity recycling goes through the same ObjectPool machinery
// as every other pooled type.
func (e *Entity) Reset() {
	e.id = 0
	e.world = nil
	e.attached = e.attached[:0]
	for k := range e.instances {
		delete(e.instances, k)
	}
	e.pendingTypes = e.pendingTypes[:0]
	for k := range e.pendingInstances {
		delete(e.pendingInstances, k)
	}
	e.queries = e.queries[:0]
}

// ID returns the entity's world-scoped identity.
func (e *Entity) ID() EntityID { return e.id }

func (e *Entity) hasType(id TypeID) bool {
	for _, t := range e.attached {
		if t == id {
			return true
		}
	}
	return false
}

func (e *Entity) hasPendingType(id TypeID) bool {
	for _, t := range e.pendingTypes {
		if t == id {
			return true
		}
	}
	return false
}

func (e *Entity) removeAttachedType(id TypeID) {
	for i, t := range e.attached {
		if t == id {
			e.attached = append(e.attached[:i], e.attached[i+1:]...)
			return
		}
	}
}

func (e *Entity) removePendingType(id TypeID) {
	for i, t := range e.pendingTypes {
		if t == id {
			e.pendingTypes = append(e.pendingTypes[:i], e.pendingTypes[i+1:]...)
			return
		}
	}
}

func (e *Entity) addQueryBackEdge(q *Query) {
	e.queries = append(e.queries, q)
}

func (e *Entity) removeQueryBackEdge(q *Query) {
	for i, existing := range e.queries {
		if existing == q {
			e.queries = append(e.queries[:i], e.queries[i+1:]...)
			return
		}
	}
}

// HasComponent reports whether T is currently attached (not pending
// removal) on e.
func HasComponent[T any](e *Entity) bool {
	id, ok := ComponentID[T](e.world)
	if !ok {
		return false
	}
	return e.hasType(id)
}

// HasAllComponents reports whether every id in ids is currently attached.
func (e *Entity) HasAllComponents(ids ...TypeID) bool {
	for _, id := range ids {
		if !e.hasType(id) {
			return false
		}
	}
	return true
}

// HasAnyComponents reports whether at least one id in ids is attached.
func (e *Entity) HasAnyComponents(ids ...TypeID) bool {
	for _, id := range ids {
		if e.hasType(id) {
			return true
		}
	}
	return false
}

// GetComponent returns a read-only view of T on e. Callers must not mutate
// through the returned pointer and expect change events to fire — use
// GetMutableComponent for that.
func GetComponent[T any](e *Entity) (*T, bool) {
	id, ok := ComponentID[T](e.world)
	if !ok {
		return nil, false
	}
	inst, ok := e.instances[id]
	if !ok {
		return nil, false
	}
	return inst.(*T), true
}

// GetMutableComponent returns a mutable view of T on e and fires
// COMPONENT_CHANGED on every reactive query this entity currently belongs
// to, before returning (§4.3).
func GetMutableComponent[T any](e *Entity) (*T, bool) {
	id, ok := ComponentID[T](e.world)
	if !ok {
		return nil, false
	}
	inst, ok := e.instances[id]
	if !ok {
		return nil, false
	}
	ptr := inst.(*T)
	e.world.queryEngine.notifyComponentChanged(e, id, ptr)
	return ptr, true
}

// GetRemovedComponent returns the staged-for-removal instance of T, valid
// until the owning World's next commitDeferred.
func GetRemovedComponent[T any](e *Entity) (*T, bool) {
	id, ok := ComponentID[T](e.world)
	if !ok {
		return nil, false
	}
	inst, ok := e.pendingInstances[id]
	if !ok {
		return nil, false
	}
	return inst.(*T), true
}

// AddComponent attaches T to e, acquiring an instance from T's pool. If T
// is already attached this is a silent no-op (§7) and the existing
// instance is returned unchanged. If values is non-nil it seeds the new
// instance: via the instance's CopyFrom(values) if T implements Copier, otherwise by
// direct field-wise assignment (the two records share the same static
// type, so this is just `*instance = *values`).
func AddComponent[T any](e *Entity, values *T) *T {
	w := e.world
	id := RegisterComponent[T](w)
	if e.hasType(id) {
		return e.instances[id].(*T)
	}

	pool := getPool[T](w.registry, id)
	instance := pool.Acquire().(*T)
	if values != nil {
		if c, ok := any(instance).(Copier); ok {
			c.CopyFrom(values)
		} else {
			*instance = *values
		}
	}

	e.attached = append(e.attached, id)
	if e.instances == nil {
		e.instances = make(map[TypeID]any)
	}
	e.instances[id] = instance

	w.registry.componentAddedToEntity(id)
	w.queryEngine.onComponentAdded(e, id)
	w.dispatcher.Dispatch(EventComponentAdded, e, instance)
	return instance
}

// RemoveComponent detaches T from e. If T is not attached this is a silent
// no-op. Query membership reindexes immediately regardless of force; only
// the underlying pool release is deferred when force is false (§4.2).
func RemoveComponent[T any](e *Entity, force bool) {
	w := e.world
	id, ok := ComponentID[T](w)
	if !ok || !e.hasType(id) {
		return
	}

	instance := e.instances[id]
	w.dispatcher.Dispatch(EventComponentRemove, e, instance)

	if force {
		e.removeAttachedType(id)
		delete(e.instances, id)
		pool := getPool[T](w.registry, id)
		pool.Release(instance)
		w.registry.componentRemovedFromEntity(id)
		w.queryEngine.onComponentRemoved(e, id)
		return
	}

	e.removeAttachedType(id)
	delete(e.instances, id)
	if e.pendingInstances == nil {
		e.pendingInstances = make(map[TypeID]any)
	}
	e.pendingInstances[id] = instance
	if !e.hasPendingType(id) {
		e.pendingTypes = append(e.pendingTypes, id)
	}
	w.registry.componentRemovedFromEntity(id)
	w.queryEngine.onComponentRemoved(e, id)
	w.entityStore.markPendingComponents(e)
}

// RemoveAllComponents detaches every attached component type, in reverse
// attachment order, per §4.2.
func (e *Entity) RemoveAllComponents(force bool) {
	for i := len(e.attached) - 1; i >= 0; i-- {
		id := e.attached[i]
		e.world.removeComponentByID(e, id, force)
	}
}

// Remove destroys the entity. With force it is reclaimed immediately
// (components force-detached, world back-pointer cleared, entity released
// to the pool); otherwise it is staged and reclaimed at the next
// commitDeferred (§4.2). Removing an entity that has already been
// reclaimed panics with ErrEntityNotOwnedByWorld.
func (e *Entity) Remove(force bool) {
	if e.world == nil {
		panic(ErrEntityNotOwnedByWorld)
	}
	e.world.entityStore.removeEntity(e, force)
}

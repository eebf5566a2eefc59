package ecs

import "go.uber.org/zap"

// EntityStore owns every live entity, mediates component attach/detach,
// and stages deferred removals for the end of the frame (§4.2).
type EntityStore struct {
	world *World
	log   *zap.Logger

	pool   *ObjectPool[Entity]
	nextID EntityID

	live       []*Entity
	positionOf map[EntityID]int

	pendingComponentEntities []*Entity
	pendingComponentSeen     map[EntityID]bool
	pendingRemovalEntities   []*Entity
}

func newEntityStore(w *World, log *zap.Logger) *EntityStore {
	return &EntityStore{
		world:                w,
		log:                  log,
		pool:                 NewObjectPool[Entity](),
		positionOf:           make(map[EntityID]int),
		pendingComponentSeen: make(map[EntityID]bool),
	}
}

// createEntity pulls an Entity from the pool, assigns it a fresh id, and
// adds it to the live-entity vector.
func (s *EntityStore) createEntity() *Entity {
	e := s.pool.Acquire().(*Entity)
	s.nextID++
	e.id = s.nextID
	e.world = s.world
	s.positionOf[e.id] = len(s.live)
	s.live = append(s.live, e)
	s.world.dispatcher.Dispatch(EventEntityCreated, e)
	return e
}

// alive reports whether id currently names a live entity in this store.
func (s *EntityStore) alive(id EntityID) bool {
	_, ok := s.positionOf[id]
	return ok
}

func (s *EntityStore) markPendingComponents(e *Entity) {
	if s.pendingComponentSeen[e.id] {
		return
	}
	s.pendingComponentSeen[e.id] = true
	s.pendingComponentEntities = append(s.pendingComponentEntities, e)
}

// removeEntity marks e as gone: queries drop it immediately, but the
// Entity record itself (and its pool release) is only reclaimed right away
// when force is true; otherwise it is staged for commitDeferred.
//
// Removing an entity not in the live vector is a programming-contract
// failure and panics (§7) — EntityStore does not return an error here
// because the call sites (Entity.Remove) have no error-returning shape in
// the consumer surface (§6); the failure is meant to surface loudly during
// development, not be swallowed.
func (s *EntityStore) removeEntity(e *Entity, force bool) {
	if !s.alive(e.id) {
		panic(ErrEntityNotOwnedByWorld)
	}

	s.world.dispatcher.Dispatch(EventEntityRemoved, e)
	s.world.queryEngine.onEntityRemoved(e)

	if force {
		s.spliceLive(e)
		s.forceDetachAllComponents(e)
		e.world = nil
		s.pool.Release(e)
		return
	}

	e.RemoveAllComponents(false)
	s.pendingRemovalEntities = append(s.pendingRemovalEntities, e)
}

// forceDetachAllComponents releases every attached component instance
// straight to its pool, bypassing query reindexing and component events:
// by the time this runs, e has already been pulled out of every query via
// onEntityRemoved, so routing through the normal RemoveComponent path would
// re-evaluate Query.Match against a half-destroyed entity and could
// wrongly re-add it to a negated-only query.
func (s *EntityStore) forceDetachAllComponents(e *Entity) {
	for _, id := range e.attached {
		instance := e.instances[id]
		ct := s.world.registry.byID[id]
		ct.pool.Release(instance)
		s.world.registry.componentRemovedFromEntity(id)
	}
	e.attached = e.attached[:0]
	for k := range e.instances {
		delete(e.instances, k)
	}
}

func (s *EntityStore) spliceLive(e *Entity) {
	idx, ok := s.positionOf[e.id]
	if !ok {
		return
	}
	last := len(s.live) - 1
	moved := s.live[last]
	s.live[idx] = moved
	s.live = s.live[:last]
	if moved != e {
		s.positionOf[moved.id] = idx
	}
	delete(s.positionOf, e.id)
}

// commitDeferred flushes both staged worklists: entities with pending
// component removals have each staged instance released to its pool
// first, then entities queued for full removal are spliced out of the
// live vector and released to the entity pool. The component worklist
// must drain before the removal one — a deferred Entity.Remove stages
// its components via RemoveAllComponents(false) and so lands on both
// lists, and releasing the entity to its pool calls Entity.Reset, which
// clears pendingTypes/pendingInstances; draining components afterward
// would find nothing left to release and leak every staged instance.
// Both worklists end empty. Calling this twice in a row with no
// interleaved mutation is a no-op the second time (§8 property 6).
func (s *EntityStore) commitDeferred() {
	for _, e := range s.pendingComponentEntities {
		for _, id := range e.pendingTypes {
			instance := e.pendingInstances[id]
			ct := s.world.registry.byID[id]
			if ct.pool != nil {
				ct.pool.Release(instance)
			}
			delete(e.pendingInstances, id)
		}
		e.pendingTypes = e.pendingTypes[:0]
		delete(s.pendingComponentSeen, e.id)
	}
	s.pendingComponentEntities = s.pendingComponentEntities[:0]

	for _, e := range s.pendingRemovalEntities {
		s.spliceLive(e)
		e.world = nil
		s.pool.Release(e)
	}
	s.pendingRemovalEntities = s.pendingRemovalEntities[:0]
}

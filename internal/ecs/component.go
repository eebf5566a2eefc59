package ecs

import (
	"math"
	"reflect"

	"go.uber.org/zap"
)

// Resetter is implemented by data components that want to be recycled
// through a pool: Reset restores the instance to pool-clean defaults before
// it is pushed back onto the free list. Tag components implement Reset as a
// no-op so they remain poolable; a component type that implements no Reset
// at all bypasses pooling entirely (§4.1).
type Resetter interface {
	Reset()
}

// Copier is implemented by a component that wants custom init-from-defaults
// semantics instead of the default field-wise assignment AddComponent falls
// back to when no Copier is present.
type Copier interface {
	CopyFrom(src any)
}

// Pool is the type-erased face every per-component-type pool presents to
// the registry and to World.Stats. The concrete pool is either a
// *ObjectPool[T] (free-list, for Resetter types) or a *degeneratePool[T]
// (allocate-every-time, for everything else).
type Pool interface {
	Acquire() any
	Release(instance any)
	TotalSize() int
	TotalFree() int
	TotalUsed() int
}

// ObjectPool is a generic free-list pool. It grows on demand by
// ceil(count*0.2)+1 fresh instances, and calls Reset on every release.
type ObjectPool[T any] struct {
	free []*T
	size int
	used int
}

// NewObjectPool constructs an empty pool; the first Acquire triggers the
// initial grow.
func NewObjectPool[T any]() *ObjectPool[T] {
	return &ObjectPool[T]{}
}

func (p *ObjectPool[T]) grow() {
	growBy := int(math.Ceil(float64(p.size)*0.2)) + 1
	for i := 0; i < growBy; i++ {
		p.free = append(p.free, new(T))
	}
	p.size += growBy
}

// Acquire pops a free instance, growing the pool first if the free list is
// empty.
func (p *ObjectPool[T]) Acquire() any {
	if len(p.free) == 0 {
		p.grow()
	}
	n := len(p.free) - 1
	item := p.free[n]
	p.free[n] = nil
	p.free = p.free[:n]
	p.used++
	return item
}

// Release resets instance and returns it to the free list.
func (p *ObjectPool[T]) Release(instance any) {
	item := instance.(*T)
	if r, ok := any(item).(Resetter); ok {
		r.Reset()
	}
	p.free = append(p.free, item)
	p.used--
}

// Warm grows the free list by exactly n instances, bypassing the
// ceil(count*0.2)+1 on-demand policy. Meant for startup sizing only —
// growth triggered by Acquire always uses the normal policy, never this
// one.
func (p *ObjectPool[T]) Warm(n int) {
	for i := 0; i < n; i++ {
		p.free = append(p.free, new(T))
	}
	p.size += n
}

func (p *ObjectPool[T]) TotalSize() int { return p.size }
func (p *ObjectPool[T]) TotalFree() int { return len(p.free) }
func (p *ObjectPool[T]) TotalUsed() int { return p.used }

// degeneratePool backs component types with no Reset contract: every
// Acquire allocates a fresh instance and Release merely decrements the used
// counter. TotalFree reports -1 ("unbounded") since nothing is ever kept on
// a free list, and TotalSize tracks TotalUsed since there is no
// pre-allocation concept to report separately.
type degeneratePool[T any] struct {
	used int
}

func newDegeneratePool[T any]() *degeneratePool[T] { return &degeneratePool[T]{} }

func (p *degeneratePool[T]) Acquire() any {
	p.used++
	return new(T)
}

func (p *degeneratePool[T]) Release(_ any) {
	p.used--
}

func (p *degeneratePool[T]) TotalSize() int { return p.used }
func (p *degeneratePool[T]) TotalFree() int { return -1 }
func (p *degeneratePool[T]) TotalUsed() int { return p.used }

// componentType is the registry's bookkeeping record for one registered
// component type.
type componentType struct {
	id         TypeID
	name       string
	foldedName string
	resettable bool
	pool       Pool
	liveCount  int
}

// ComponentRegistry records component types under a canonical TypeID,
// builds their pool on first use, and tracks per-type live-attachment
// counts. World.Stats reports pool occupancy, not these counts.
type ComponentRegistry struct {
	byReflect map[reflect.Type]*componentType
	byID      []*componentType
	log       *zap.Logger
}

func newComponentRegistry(log *zap.Logger) *ComponentRegistry {
	return &ComponentRegistry{
		byReflect: make(map[reflect.Type]*componentType),
		log:       log,
	}
}

// RegisterComponent assigns T a TypeID, deciding nothing about pooling yet
// (that happens lazily on first getPool). Re-registration is a no-op — the
// original TypeID is returned.
func RegisterComponent[T any](w *World) TypeID {
	reg := w.registry
	rt := reflect.TypeOf((*T)(nil)).Elem()
	if ct, ok := reg.byReflect[rt]; ok {
		return ct.id
	}

	var zero T
	_, resettable := any(&zero).(Resetter)

	ct := &componentType{
		id:         TypeID(len(reg.byID)),
		name:       rt.Name(),
		foldedName: foldName(rt.Name()),
		resettable: resettable,
	}
	reg.byReflect[rt] = ct
	reg.byID = append(reg.byID, ct)
	return ct.id
}

// ComponentID returns the TypeID assigned to T and whether it has been
// registered at all.
func ComponentID[T any](w *World) (TypeID, bool) {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	ct, ok := w.registry.byReflect[rt]
	if !ok {
		return 0, false
	}
	return ct.id, true
}

// getPool returns T's pool, building it on first call: a free-list
// ObjectPool if T implements Resetter, otherwise a degeneratePool with a
// logged warning (§4.1 "soft warning").
func getPool[T any](reg *ComponentRegistry, id TypeID) Pool {
	ct := reg.byID[id]
	if ct.pool == nil {
		if ct.resettable {
			ct.pool = NewObjectPool[T]()
		} else {
			if reg.log != nil {
				reg.log.Warn("pooling component with no Reset contract; falling back to non-pooling allocation",
					zap.String("component", ct.name))
			}
			ct.pool = newDegeneratePool[T]()
		}
	}
	return ct.pool
}

// removeComponentByID is the type-erased half of RemoveComponent[T], used
// by Entity.RemoveAllComponents which must walk mixed component types
// without static type information. The pool for id is guaranteed to exist
// already since id can only appear in e.attached after AddComponent[T]
// built it.
func (w *World) removeComponentByID(e *Entity, id TypeID, force bool) {
	ct := w.registry.byID[id]
	instance, ok := e.instances[id]
	if !ok {
		return
	}
	w.dispatcher.Dispatch(EventComponentRemove, e, instance)

	e.removeAttachedType(id)
	delete(e.instances, id)

	if force {
		ct.pool.Release(instance)
		w.registry.componentRemovedFromEntity(id)
		w.queryEngine.onComponentRemoved(e, id)
		return
	}

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

func (reg *ComponentRegistry) componentAddedToEntity(id TypeID) {
	reg.byID[id].liveCount++
}

func (reg *ComponentRegistry) componentRemovedFromEntity(id TypeID) {
	reg.byID[id].liveCount--
}

// PoolStats is the diagnostic shape returned per pool by World.Stats.
type PoolStats struct {
	Component string
	Used      int
	Free      int
	Size      int
}

func (reg *ComponentRegistry) poolStats() []PoolStats {
	out := make([]PoolStats, 0, len(reg.byID))
	for _, ct := range reg.byID {
		if ct.pool == nil {
			continue
		}
		out = append(out, PoolStats{
			Component: ct.name,
			Used:      ct.pool.TotalUsed(),
			Free:      ct.pool.TotalFree(),
			Size:      ct.pool.TotalSize(),
		})
	}
	return out
}

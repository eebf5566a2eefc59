package ecs

import (
	"reflect"
	"time"

	"go.uber.org/zap"

	"github.com/noxwright/ecsforge/internal/event"
)

// Scheduler is the contract World delegates system management to (§4.4).
// The interface lives here, not in the scheduler package, so World never
// needs to import it — the concrete *scheduler.Runner satisfies this
// structurally, keeping the dependency pointed one way (scheduler -> ecs).
type Scheduler interface {
	Register(w *World, s any, priority int)
	Execute(w *World, delta time.Duration, t time.Time)
	GetSystem(rt reflect.Type) (any, bool)
	GetSystems() []any
	RemoveSystem(target any) bool
}

// Stats is the diagnostic snapshot returned by World.Stats (§6).
type Stats struct {
	EntityCount int
	Queries     []QueryStats
	Pools       []PoolStats
	EventsFired map[string]int
	EventsHandled map[string]int
}

// QueryStats is the per-query slice of World.Stats.
type QueryStats struct {
	Signature     string
	NumComponents int
	NumEntities   int
}

// World is the façade aggregating the four managers plus the world-level
// event dispatcher (§4.7). Nothing outside this package constructs one
// directly — use New.
type World struct {
	log *zap.Logger

	registry    *ComponentRegistry
	entityStore *EntityStore
	queryEngine *QueryEngine
	scheduler   Scheduler
	dispatcher  *event.Dispatcher

	enabled bool
}

// New constructs a World wired to sched for system management. sched is
// normally a *scheduler.Runner; any type satisfying the Scheduler
// interface works. A nil log falls back to zap.NewNop().
func New(log *zap.Logger, sched Scheduler) *World {
	if log == nil {
		log = zap.NewNop()
	}
	w := &World{
		log:        log,
		scheduler:  sched,
		dispatcher: event.NewDispatcher(),
		enabled:    true,
	}
	w.registry = newComponentRegistry(log)
	w.entityStore = newEntityStore(w, log)
	w.queryEngine = newQueryEngine(w.entityStore)
	return w
}

// WarmEntityPool pre-grows the entity pool by n instances, bypassing the
// normal on-demand growth policy. Intended to be called once at startup
// from a config's initial-capacity setting.
func (w *World) WarmEntityPool(n int) {
	w.entityStore.pool.Warm(n)
}

// CreateEntity pulls a fresh Entity from the entity pool and adds it to the
// live set, emitting ENTITY_CREATED (§4.2).
func (w *World) CreateEntity() *Entity {
	return w.entityStore.createEntity()
}

// Query returns the deduplicated Query for terms, constructing and seeding
// it on first request (§4.3). terms must include at least one positive
// term — use Positive[T](w) and Not[T](w) to build them.
func (w *World) Query(terms ...Term) (*Query, error) {
	return w.queryEngine.getQuery(terms)
}

// RegisterSystem hands s to the scheduler at the given priority (lower
// runs first); ties break by registration order (§4.4).
func (w *World) RegisterSystem(s any, priority int) {
	w.scheduler.Register(w, s, priority)
}

// GetSystem returns the first registered system whose concrete type
// matches rt.
func (w *World) GetSystem(rt reflect.Type) (any, bool) {
	return w.scheduler.GetSystem(rt)
}

// GetSystems returns every registered system in priority/order.
func (w *World) GetSystems() []any {
	return w.scheduler.GetSystems()
}

// RemoveSystem removes by identity when target is a system instance, or
// removes the first system whose concrete type matches when target is a
// reflect.Type — resolving the source's ambiguous removeSystem(class)
// contract (§9 open question) rather than leaving it a no-op.
func (w *World) RemoveSystem(target any) bool {
	return w.scheduler.RemoveSystem(target)
}

// Execute runs one frame: the scheduler's systems in priority order, then
// commits every deferred component/entity removal staged during the
// frame. A no-op while the world is stopped (§5).
func (w *World) Execute(delta time.Duration, t time.Time) {
	if !w.enabled {
		return
	}
	w.scheduler.Execute(w, delta, t)
	w.entityStore.commitDeferred()
}

// Stop disables subsequent Execute calls until Play. A frame already in
// progress always completes (§5) — Stop only takes effect on the next
// call.
func (w *World) Stop() { w.enabled = false }

// Play re-enables Execute after Stop.
func (w *World) Play() { w.enabled = true }

// Enabled reports whether the world will currently run frames.
func (w *World) Enabled() bool { return w.enabled }

// AddEventListener subscribes l to the world-level event name (ENTITY_*,
// COMPONENT_*, or any name a consumer passes to EmitEvent).
func (w *World) AddEventListener(name string, l event.Listener) event.Token {
	return w.dispatcher.Add(name, l)
}

// RemoveEventListener unregisters a subscription returned by
// AddEventListener.
func (w *World) RemoveEventListener(tok event.Token) { w.dispatcher.Remove(tok) }

// EmitEvent dispatches an arbitrary consumer-defined event on the world
// dispatcher.
func (w *World) EmitEvent(name string, data ...any) { w.dispatcher.Dispatch(name, data...) }

// ResetCounters zeroes the world dispatcher's fired/handled diagnostic
// counters (§9 open question, resolved: expose it).
func (w *World) ResetCounters() { w.dispatcher.ResetCounters() }

// Stats reports entity count, per-query and per-pool occupancy, and event
// dispatcher counters (§6). No stable format is promised beyond these
// field names.
func (w *World) Stats() Stats {
	queries := make([]QueryStats, 0, len(w.queryEngine.order))
	for _, q := range w.queryEngine.order {
		queries = append(queries, QueryStats{
			Signature:     q.signature,
			NumComponents: len(q.positive) + len(q.negated),
			NumEntities:   q.Len(),
		})
	}
	fired, handled := w.dispatcher.Counters()
	return Stats{
		EntityCount:   len(w.entityStore.live),
		Queries:       queries,
		Pools:         w.registry.poolStats(),
		EventsFired:   fired,
		EventsHandled: handled,
	}
}

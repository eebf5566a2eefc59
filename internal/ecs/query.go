package ecs

import (
	"github.com/noxwright/ecsforge/internal/event"
)

// Query is a declarative component predicate over positive AND / negative
// NOT component sets, exposing a live matched-entity view and an event
// stream (§3). Two queries built from specs with the same multiset of
// positive/negated types, regardless of order or letter case, are the same
// *Query — QueryEngine deduplicates by signature.
type Query struct {
	signature string
	positive  []TypeID
	negated   []TypeID

	entities   []*Entity
	positionOf map[EntityID]int

	dispatcher *event.Dispatcher
	reactive   bool
}

// Match reports whether e currently satisfies q: every positive type
// attached, no negated type attached.
func (q *Query) Match(e *Entity) bool {
	for _, id := range q.positive {
		if !e.hasType(id) {
			return false
		}
	}
	for _, id := range q.negated {
		if e.hasType(id) {
			return false
		}
	}
	return true
}

// Entities returns the query's current matched-entity vector. Callers must
// not mutate the returned slice.
func (q *Query) Entities() []*Entity { return q.entities }

// Len returns the number of entities currently matched.
func (q *Query) Len() int { return len(q.entities) }

// On subscribes l to a query-level event (ENTITY_ADDED, ENTITY_REMOVED, or
// COMPONENT_CHANGED). Subscribing to COMPONENT_CHANGED marks the query
// reactive, so GetMutableComponent starts paying the cost of notifying it.
func (q *Query) On(name string, l event.Listener) event.Token {
	if name == QueryEventComponentChange {
		q.reactive = true
	}
	return q.dispatcher.Add(name, l)
}

// Off removes a previously registered subscription.
func (q *Query) Off(tok event.Token) { q.dispatcher.Remove(tok) }

func (q *Query) addEntity(e *Entity, silent bool) {
	q.positionOf[e.id] = len(q.entities)
	q.entities = append(q.entities, e)
	e.addQueryBackEdge(q)
	if !silent {
		q.dispatcher.Dispatch(QueryEventEntityAdded, e)
	}
}

func (q *Query) removeEntity(e *Entity) {
	idx, ok := q.positionOf[e.id]
	if !ok {
		return
	}
	last := len(q.entities) - 1
	moved := q.entities[last]
	q.entities[idx] = moved
	q.entities = q.entities[:last]
	if moved != e {
		q.positionOf[moved.id] = idx
	}
	delete(q.positionOf, e.id)
	e.removeQueryBackEdge(q)
	q.dispatcher.Dispatch(QueryEventEntityRemoved, e)
}

// QueryEngine owns every registered Query and keeps their matched-entity
// vectors consistent as components and entities change (§4.3).
type QueryEngine struct {
	store       *EntityStore
	bySignature map[string]*Query
	order       []*Query
}

func newQueryEngine(store *EntityStore) *QueryEngine {
	return &QueryEngine{
		store:       store,
		bySignature: make(map[string]*Query),
	}
}

// getQuery returns the deduplicated Query for terms, constructing and
// seeding it on first request. Seeding scans every currently live entity
// and adds matches silently — no ENTITY_ADDED fires for the initial
// population.
func (qe *QueryEngine) getQuery(terms []Term) (*Query, error) {
	if len(terms) == 0 {
		return nil, ErrQueryHasNoPositiveComponents
	}
	sig := signature(terms)
	if q, ok := qe.bySignature[sig]; ok {
		return q, nil
	}

	positive, negated := splitTerms(terms)
	if len(positive) == 0 {
		return nil, ErrQueryHasNoPositiveComponents
	}

	q := &Query{
		signature:  sig,
		positive:   positive,
		negated:    negated,
		positionOf: make(map[EntityID]int),
		dispatcher: event.NewDispatcher(),
	}
	qe.bySignature[sig] = q
	qe.order = append(qe.order, q)

	for _, e := range qe.store.live {
		if q.Match(e) {
			q.addEntity(e, true)
		}
	}
	return q, nil
}

// onComponentAdded reindexes every query against e after T (id) was
// attached.
func (qe *QueryEngine) onComponentAdded(e *Entity, id TypeID) {
	for _, q := range qe.order {
		inQuery := queryHasEntity(q, e)
		if containsID(q.negated, id) && inQuery {
			q.removeEntity(e)
			continue
		}
		if containsID(q.positive, id) && !inQuery && q.Match(e) {
			q.addEntity(e, false)
		}
	}
}

// onComponentRemoved reindexes every query against e after T (id) was
// detached (logically — pool release may be deferred).
func (qe *QueryEngine) onComponentRemoved(e *Entity, id TypeID) {
	for _, q := range qe.order {
		inQuery := queryHasEntity(q, e)
		if containsID(q.negated, id) && !inQuery && q.Match(e) {
			q.addEntity(e, false)
			continue
		}
		if containsID(q.positive, id) && inQuery && !q.Match(e) {
			q.removeEntity(e)
		}
	}
}

// onEntityRemoved removes e from every query in its back-edge list.
func (qe *QueryEngine) onEntityRemoved(e *Entity) {
	// e.queries shrinks as removeEntity pops back-edges, so walk a
	// snapshot rather than the live slice.
	snapshot := make([]*Query, len(e.queries))
	copy(snapshot, e.queries)
	for _, q := range snapshot {
		q.removeEntity(e)
	}
}

// notifyComponentChanged dispatches COMPONENT_CHANGED on every reactive
// query e belongs to, in the engine's insertion order (§4.3 determinism).
// The TypeID travels alongside the entity and component so a consumer
// bound to ComponentChanged with an allow-list can filter without a type
// switch on the component value.
func (qe *QueryEngine) notifyComponentChanged(e *Entity, id TypeID, component any) {
	for _, q := range qe.order {
		if !q.reactive {
			continue
		}
		if _, ok := q.positionOf[e.id]; !ok {
			continue
		}
		q.dispatcher.Dispatch(QueryEventComponentChange, e, id, component)
	}
}

func queryHasEntity(q *Query, e *Entity) bool {
	_, ok := q.positionOf[e.id]
	return ok
}

func containsID(ids []TypeID, id TypeID) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

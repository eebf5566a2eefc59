// Package scheduler runs registered systems in priority order each frame
// and wires their declared query/event bindings to a World (spec §4.4).
package scheduler

import (
	"time"

	"github.com/noxwright/ecsforge/internal/ecs"
)

// Executor is implemented by systems that do work each frame. A system
// with no Executor is still registered (its bindings stay wired and its
// event buffers still get cleared) but execute never runs.
type Executor interface {
	Execute(ctx *Context, delta time.Duration, t time.Time)
}

// Initializer is implemented by systems that declare query and event
// bindings. A system with no Initializer gets no bindings and is never
// gated by a mandatory query.
type Initializer interface {
	Init() Config
}

// EventKind names the four event bindings a query binding can map to
// (§4.4). World-event bindings use WorldEventSpec instead.
type EventKind int

const (
	// EntityAdded fires when an entity newly satisfies a query.
	EntityAdded EventKind = iota
	// EntityRemoved fires when an entity stops satisfying a query.
	EntityRemoved
	// EntityChanged fires on every GetMutableComponent borrow by an
	// entity in the query, regardless of which component changed.
	// Binding it marks the query reactive.
	EntityChanged
	// ComponentChanged is EntityChanged filtered to a component-type
	// allow-list. Binding it also marks the query reactive.
	ComponentChanged
)

// QuerySpec declares one query binding: the term set it resolves to,
// whether it gates execution (§4.4 canExecute), and the events the system
// wants delivered into its per-frame buffer for this binding.
type QuerySpec struct {
	Terms      []ecs.Term
	Mandatory  bool
	Events     []EventKind
	// Components filters ComponentChanged deliveries to this allow-list.
	// Ignored for the other three EventKinds.
	Components []ecs.TypeID
}

// WorldEventSpec declares a subscription to a world-level event name
// (ENTITY_CREATED, COMPONENT_ADDED, ...), delivered into the system's
// buffer under the Config.Events key it is declared with. Runner does not
// read LocalName.
type WorldEventSpec struct {
	LocalName string
	WorldName string
}

// Config is what Initializer.Init returns: named query bindings and named
// world-event bindings.
type Config struct {
	Queries map[string]QuerySpec
	Events  map[string]WorldEventSpec
}

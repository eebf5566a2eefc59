package scheduler

import "github.com/noxwright/ecsforge/internal/ecs"

// ChangeEvent pairs the entity and the TypeID of the component that
// triggered a GetMutableComponent borrow, as delivered into an
// EntityChanged/ComponentChanged buffer.
type ChangeEvent struct {
	Entity    *ecs.Entity
	Component ecs.TypeID
}

// QueryBuffer accumulates the ENTITY_ADDED/ENTITY_REMOVED/COMPONENT_CHANGED
// deliveries for one query binding since the owning system's last turn.
// Runner.Execute clears it right after the system's Execute returns (or
// right away if the system was skipped for mandatory-query gating).
type QueryBuffer struct {
	Added   []*ecs.Entity
	Removed []*ecs.Entity
	Changed []ChangeEvent
}

// WorldEvent is one delivery into a world-event buffer: the positional
// payload the emitter passed to Dispatch/EmitEvent, kept as-is since
// world events are heterogeneous by name.
type WorldEvent struct {
	Args []any
}

// Context is what a system's Execute receives in place of the source's
// dynamically-populated `this.queries` / `this.events` fields: a handle
// back to this system's own registration, scoped to the bindings it
// declared in Init.
type Context struct {
	reg *registration
}

// Query returns the live Query bound under name, or nil if name was never
// declared in this system's Init.
func (c *Context) Query(name string) *ecs.Query {
	return c.reg.queries[name]
}

// QueryEvents returns the current accumulated buffer for the query bound
// under name. The returned value is a snapshot copy of the buffer's
// slices' headers — safe to read after the frame clears the underlying
// buffer, but the slices themselves are reused across frames, so copy
// out anything that must outlive this Execute call.
func (c *Context) QueryEvents(name string) QueryBuffer {
	if buf, ok := c.reg.queryBuf[name]; ok {
		return *buf
	}
	return QueryBuffer{}
}

// WorldEvents returns the accumulated deliveries for the world-event
// binding registered under name.
func (c *Context) WorldEvents(name string) []WorldEvent {
	return c.reg.worldBuf[name]
}

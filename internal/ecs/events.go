package ecs

// World-level event names, dispatched on World's own EventDispatcher and
// reachable from a system's `events` bindings (§4.4).
const (
	EventEntityCreated   = "ENTITY_CREATED"
	EventEntityRemoved   = "ENTITY_REMOVED"
	EventComponentAdded  = "COMPONENT_ADDED"
	EventComponentRemove = "COMPONENT_REMOVE"
)

// Query-level event names, dispatched on a Query's own EventDispatcher and
// reachable from a system's query event bindings (§4.3, §4.4).
const (
	QueryEventEntityAdded     = "ENTITY_ADDED"
	QueryEventEntityRemoved   = "ENTITY_REMOVED"
	QueryEventComponentChange = "COMPONENT_CHANGED"
)

package scripting

import (
	"time"

	"github.com/noxwright/ecsforge/internal/ecs"
	"github.com/noxwright/ecsforge/internal/scheduler"
)

// Extract builds the flat record handed to the Lua function for one
// matched entity. Kept as a plain function rather than a schema-driven
// marshaler — the scripting package only needs to prove the System
// contract works from a non-Go implementation, not provide a general
// entity-to-table codec.
type Extract func(e *ecs.Entity) map[string]any

// LuaSystem is a System (per the scheduler package's Executor/Initializer
// contracts) whose execute body is a named Lua function, called once per
// entity matched by a single mandatory query. It exercises query
// bindings, the mandatory-query canExecute gate, and ENTITY_ADDED /
// ENTITY_REMOVED event bindings end-to-end without any Go-side logic of
// its own beyond marshaling.
type LuaSystem struct {
	engine    *Engine
	queryName string
	terms     []ecs.Term
	fn        string
	extract   Extract
}

// NewLuaSystem builds a system that calls fn (a Lua global) once per
// entity matched by terms, every frame the query is non-empty. extract
// builds the table passed to fn for a given entity.
func NewLuaSystem(engine *Engine, fn string, extract Extract, terms ...ecs.Term) *LuaSystem {
	return &LuaSystem{engine: engine, queryName: "matched", terms: terms, fn: fn, extract: extract}
}

// Init declares one mandatory query binding named "matched", with both
// ENTITY_ADDED and ENTITY_REMOVED events bound, so their buffers are
// populated and cleared each frame; Execute does not read them.
func (s *LuaSystem) Init() scheduler.Config {
	return scheduler.Config{
		Queries: map[string]scheduler.QuerySpec{
			s.queryName: {
				Terms:     s.terms,
				Mandatory: true,
				Events:    []scheduler.EventKind{scheduler.EntityAdded, scheduler.EntityRemoved},
			},
		},
	}
}

// Execute calls the bound Lua function once per currently matched
// entity. Per-entity errors are swallowed here (the Engine already logs
// them) so one bad script invocation doesn't stop the rest of the frame.
func (s *LuaSystem) Execute(ctx *scheduler.Context, delta time.Duration, t time.Time) {
	q := ctx.Query(s.queryName)
	for _, e := range q.Entities() {
		args := s.extract(e)
		if args == nil {
			args = map[string]any{}
		}
		args["entity_id"] = int64(e.ID())
		_, _ = s.engine.Call(s.fn, args)
	}
}

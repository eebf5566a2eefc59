package scheduler

import (
	"reflect"
	"sort"
	"time"

	"github.com/noxwright/ecsforge/internal/ecs"
)

// registration is one system's bookkeeping: its declared bindings, the
// live Query each query binding resolved to, and the per-binding buffers
// its Execute turn reads from.
type registration struct {
	instance any
	priority int
	order    int

	queries   map[string]*ecs.Query
	mandatory []string

	queryBuf map[string]*QueryBuffer
	worldBuf map[string][]WorldEvent
}

func (r *registration) clearEvents() {
	for _, buf := range r.queryBuf {
		buf.Added = buf.Added[:0]
		buf.Removed = buf.Removed[:0]
		buf.Changed = buf.Changed[:0]
	}
	for name := range r.worldBuf {
		r.worldBuf[name] = r.worldBuf[name][:0]
	}
}

// Runner is the concrete Scheduler World delegates to: it sorts systems
// by (priority asc, order asc), gates execution on mandatory queries, and
// clears every system's event buffers after its turn (§4.4).
type Runner struct {
	regs     []*registration
	nextOrder int
	dirty    bool
}

// NewRunner constructs an empty Runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Register wires s's declared bindings against w and inserts it into the
// priority-ordered system list. Binding a query pulls (or builds) it from
// w.Query and, for each declared event, subscribes a listener that
// appends into this registration's buffer — so delivery into the buffer
// starts immediately, not just from the next frame.
func (r *Runner) Register(w *ecs.World, s any, priority int) {
	reg := &registration{
		instance: s,
		priority: priority,
		order:    r.nextOrder,
		queries:  make(map[string]*ecs.Query),
		queryBuf: make(map[string]*QueryBuffer),
		worldBuf: make(map[string][]WorldEvent),
	}
	r.nextOrder++

	if init, ok := s.(Initializer); ok {
		cfg := init.Init()
		for name, spec := range cfg.Queries {
			q, err := w.Query(spec.Terms...)
			if err != nil {
				continue
			}
			reg.queries[name] = q
			if spec.Mandatory {
				reg.mandatory = append(reg.mandatory, name)
			}
			buf := &QueryBuffer{}
			reg.queryBuf[name] = buf
			bindQueryEvents(q, spec, buf)
		}
		for localName, spec := range cfg.Events {
			name := localName
			wname := spec.WorldName
			w.AddEventListener(wname, func(args ...any) {
				reg.worldBuf[name] = append(reg.worldBuf[name], WorldEvent{Args: args})
			})
		}
	}

	r.regs = append(r.regs, reg)
	r.dirty = true
}

func bindQueryEvents(q *ecs.Query, spec QuerySpec, buf *QueryBuffer) {
	for _, kind := range spec.Events {
		switch kind {
		case EntityAdded:
			q.On(ecs.QueryEventEntityAdded, func(args ...any) {
				buf.Added = append(buf.Added, args[0].(*ecs.Entity))
			})
		case EntityRemoved:
			q.On(ecs.QueryEventEntityRemoved, func(args ...any) {
				buf.Removed = append(buf.Removed, args[0].(*ecs.Entity))
			})
		case EntityChanged:
			q.On(ecs.QueryEventComponentChange, func(args ...any) {
				buf.Changed = append(buf.Changed, ChangeEvent{
					Entity:    args[0].(*ecs.Entity),
					Component: args[1].(ecs.TypeID),
				})
			})
		case ComponentChanged:
			allow := spec.Components
			q.On(ecs.QueryEventComponentChange, func(args ...any) {
				id := args[1].(ecs.TypeID)
				if !containsTypeID(allow, id) {
					return
				}
				buf.Changed = append(buf.Changed, ChangeEvent{
					Entity:    args[0].(*ecs.Entity),
					Component: id,
				})
			})
		}
	}
}

func containsTypeID(ids []ecs.TypeID, id ecs.TypeID) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

func (r *Runner) ensureSorted() {
	if !r.dirty {
		return
	}
	sort.Slice(r.regs, func(i, j int) bool {
		if r.regs[i].priority != r.regs[j].priority {
			return r.regs[i].priority < r.regs[j].priority
		}
		return r.regs[i].order < r.regs[j].order
	})
	r.dirty = false
}

// Execute runs every registered system whose mandatory query bindings (if
// any) all currently hold at least one entity, in (priority, order)
// order, then clears that system's event buffers regardless of whether
// it ran (§4.4, §8 property 8).
func (r *Runner) Execute(w *ecs.World, delta time.Duration, t time.Time) {
	r.ensureSorted()
	for _, reg := range r.regs {
		if canExecute(reg) {
			if ex, ok := reg.instance.(Executor); ok {
				ex.Execute(&Context{reg: reg}, delta, t)
			}
		}
		reg.clearEvents()
	}
}

func canExecute(reg *registration) bool {
	for _, name := range reg.mandatory {
		if reg.queries[name].Len() == 0 {
			return false
		}
	}
	return true
}

// GetSystem returns the first registered system whose concrete type
// matches rt.
func (r *Runner) GetSystem(rt reflect.Type) (any, bool) {
	for _, reg := range r.regs {
		if reflect.TypeOf(reg.instance) == rt {
			return reg.instance, true
		}
	}
	return nil, false
}

// GetSystems returns every registered system in (priority, order) order.
func (r *Runner) GetSystems() []any {
	r.ensureSorted()
	out := make([]any, len(r.regs))
	for i, reg := range r.regs {
		out[i] = reg.instance
	}
	return out
}

// RemoveSystem removes by identity when target is a system instance, or
// removes the first system whose concrete type matches when target is a
// reflect.Type (§9 open question — the source's removeSystem took a
// class but compared by instance identity, making it a no-op for class
// arguments; this accepts both and treats them correctly).
func (r *Runner) RemoveSystem(target any) bool {
	if rt, ok := target.(reflect.Type); ok {
		for i, reg := range r.regs {
			if reflect.TypeOf(reg.instance) == rt {
				r.regs = append(r.regs[:i], r.regs[i+1:]...)
				return true
			}
		}
		return false
	}
	for i, reg := range r.regs {
		if reg.instance == target {
			r.regs = append(r.regs[:i], r.regs[i+1:]...)
			return true
		}
	}
	return false
}

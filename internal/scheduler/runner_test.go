package scheduler

import (
	"reflect"
	"testing"
	"time"

	"github.com/noxwright/ecsforge/internal/ecs"
)

type markerAttr struct{ N int }

func (m *markerAttr) Reset() { m.N = 0 }

func newTestWorld() (*ecs.World, *Runner) {
	r := NewRunner()
	w := ecs.New(nil, r)
	return w, r
}

type recordingSystem struct {
	name string
	log  *[]string
}

func (s *recordingSystem) Execute(ctx *Context, delta time.Duration, t time.Time) {
	*s.log = append(*s.log, s.name)
}

func TestPriorityOrdering(t *testing.T) {
	// S4: priority order.
	w, r := newTestWorld()
	var order []string

	lo := &recordingSystem{name: "lo", log: &order}
	hi := &recordingSystem{name: "hi", log: &order}
	mid := &recordingSystem{name: "mid", log: &order}

	w.RegisterSystem(lo, 1)
	w.RegisterSystem(hi, -1)
	w.RegisterSystem(mid, 0)

	r.Execute(w, time.Millisecond, time.Time{})

	want := []string{"hi", "mid", "lo"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("expected %v, got %v", want, order)
			break
		}
	}
}

type mandatorySystem struct {
	terms    []ecs.Term
	executed *int
}

func (s *mandatorySystem) Init() Config {
	return Config{
		Queries: map[string]QuerySpec{
			"gate": {Terms: s.terms, Mandatory: true},
		},
	}
}

func (s *mandatorySystem) Execute(ctx *Context, delta time.Duration, t time.Time) {
	*s.executed++
}

func TestMandatoryQueryGating(t *testing.T) {
	// S8: mandatory-query gating.
	w, r := newTestWorld()
	executed := 0
	sys := &mandatorySystem{terms: []ecs.Term{ecs.Positive[markerAttr](w)}, executed: &executed}
	w.RegisterSystem(sys, 0)

	r.Execute(w, time.Millisecond, time.Time{})
	if executed != 0 {
		t.Errorf("expected skipped with empty mandatory query, got executed=%d", executed)
	}

	e := w.CreateEntity()
	ecs.AddComponent(e, &markerAttr{})

	r.Execute(w, time.Millisecond, time.Time{})
	if executed != 1 {
		t.Errorf("expected executed once mandatory query is non-empty, got %d", executed)
	}
}

type bufferedSystem struct {
	terms      []ecs.Term
	lastAdded  int
	ran        bool
}

func (s *bufferedSystem) Init() Config {
	return Config{
		Queries: map[string]QuerySpec{
			"watched": {
				Terms:  s.terms,
				Events: []EventKind{EntityAdded},
			},
		},
	}
}

func (s *bufferedSystem) Execute(ctx *Context, delta time.Duration, t time.Time) {
	s.ran = true
	s.lastAdded = len(ctx.QueryEvents("watched").Added)
}

func TestEventClearingAfterSystemTurn(t *testing.T) {
	// S10: event clearing.
	w, r := newTestWorld()
	sys := &bufferedSystem{terms: []ecs.Term{ecs.Positive[markerAttr](w)}}
	w.RegisterSystem(sys, 0)

	e := w.CreateEntity()
	ecs.AddComponent(e, &markerAttr{})

	r.Execute(w, time.Millisecond, time.Time{})
	if !sys.ran || sys.lastAdded != 1 {
		t.Fatalf("expected one ENTITY_ADDED delivered on first turn, got ran=%v added=%d", sys.ran, sys.lastAdded)
	}

	sys.ran = false
	r.Execute(w, time.Millisecond, time.Time{})
	if !sys.ran || sys.lastAdded != 0 {
		t.Errorf("expected buffer cleared by the second turn, got added=%d", sys.lastAdded)
	}
}

func TestRemoveSystemByInstanceAndType(t *testing.T) {
	w, r := newTestWorld()
	var order []string
	sys := &recordingSystem{name: "a", log: &order}
	w.RegisterSystem(sys, 0)

	if !w.RemoveSystem(sys) {
		t.Fatal("expected RemoveSystem by instance to succeed")
	}
	r.Execute(w, time.Millisecond, time.Time{})
	if len(order) != 0 {
		t.Errorf("expected no systems to run after removal, got %v", order)
	}

	other := &recordingSystem{name: "b", log: &order}
	w.RegisterSystem(other, 0)
	if !w.RemoveSystem(reflect.TypeOf(other)) {
		t.Fatal("expected RemoveSystem by reflect.Type to succeed")
	}
}

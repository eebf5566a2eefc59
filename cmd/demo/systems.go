package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/noxwright/ecsforge/internal/ecs"
	"github.com/noxwright/ecsforge/internal/scheduler"
)

// MovementSystem advances every unmarked moving entity's Position by its
// Velocity each frame, via GetMutableComponent — so any reactive query
// watching Position sees COMPONENT_CHANGED fire every tick.
type MovementSystem struct {
	terms []ecs.Term
}

func NewMovementSystem(w *ecs.World) *MovementSystem {
	return &MovementSystem{
		terms: []ecs.Term{
			ecs.Positive[Position](w),
			ecs.Positive[Velocity](w),
			ecs.Not[Marked](w),
		},
	}
}

func (s *MovementSystem) Init() scheduler.Config {
	return scheduler.Config{
		Queries: map[string]scheduler.QuerySpec{
			"moving": {
				Terms:     s.terms,
				Mandatory: true,
				Events:    []scheduler.EventKind{scheduler.EntityAdded, scheduler.EntityRemoved},
			},
		},
	}
}

func (s *MovementSystem) Execute(ctx *scheduler.Context, delta time.Duration, t time.Time) {
	dt := delta.Seconds()
	for _, e := range ctx.Query("moving").Entities() {
		vel, ok := ecs.GetComponent[Velocity](e)
		if !ok {
			continue
		}
		pos, ok := ecs.GetMutableComponent[Position](e)
		if !ok {
			continue
		}
		pos.X += vel.DX * dt
		pos.Y += vel.DY * dt
	}
}

// SpawnerSystem periodically spawns a fresh moving entity and marks the
// oldest one for (non-forced) removal, so the demo exercises deferred
// removal and the Marked negated term on every cycle.
type SpawnerSystem struct {
	world   *ecs.World
	log     *zap.Logger
	everyN  int
	tick    int
	spawned []*ecs.Entity
}

func NewSpawnerSystem(w *ecs.World, everyN int, log *zap.Logger) *SpawnerSystem {
	return &SpawnerSystem{
		world:  w,
		log:    log,
		everyN: everyN,
	}
}

func (s *SpawnerSystem) Execute(ctx *scheduler.Context, delta time.Duration, t time.Time) {
	s.tick++
	if s.tick%s.everyN != 0 {
		return
	}

	e := s.world.CreateEntity()
	ecs.AddComponent(e, &Position{X: float64(s.tick), Y: 0})
	ecs.AddComponent(e, &Velocity{DX: 1, DY: 0.5})
	s.spawned = append(s.spawned, e)
	s.log.Debug("spawned entity", zap.Uint64("entity_id", uint64(e.ID())))

	if len(s.spawned) > 5 {
		oldest := s.spawned[0]
		s.spawned = s.spawned[1:]
		ecs.AddComponent(oldest, &Marked{})
		oldest.Remove(false)
		s.log.Debug("retired entity", zap.Uint64("entity_id", uint64(oldest.ID())))
	}
}

// StatsSystem logs the world's ENTITY_CREATED/ENTITY_REMOVED traffic
// accumulated since its last turn, demonstrating a world-event binding
// rather than a query binding.
type StatsSystem struct {
	world *ecs.World
	log   *zap.Logger
}

func NewStatsSystem(w *ecs.World, log *zap.Logger) *StatsSystem {
	return &StatsSystem{world: w, log: log}
}

func (s *StatsSystem) Init() scheduler.Config {
	return scheduler.Config{
		Events: map[string]scheduler.WorldEventSpec{
			"created": {LocalName: "created", WorldName: ecs.EventEntityCreated},
			"removed": {LocalName: "removed", WorldName: ecs.EventEntityRemoved},
		},
	}
}

func (s *StatsSystem) Execute(ctx *scheduler.Context, delta time.Duration, t time.Time) {
	created := ctx.WorldEvents("created")
	removed := ctx.WorldEvents("removed")
	if len(created) == 0 && len(removed) == 0 {
		return
	}
	stats := s.world.Stats()
	s.log.Info("world tick",
		zap.Int("created", len(created)),
		zap.Int("removed", len(removed)),
		zap.Int("entities", stats.EntityCount))
}

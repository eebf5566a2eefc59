// Command demo drives a World the way an external consumer would: load
// config, build a logger, register components and systems, then run a
// ticker loop calling World.Execute until interrupted. It is a thin
// consumer-side harness, not part of the core.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/noxwright/ecsforge/internal/applog"
	"github.com/noxwright/ecsforge/internal/config"
	"github.com/noxwright/ecsforge/internal/ecs"
	"github.com/noxwright/ecsforge/internal/scheduler"
	"github.com/noxwright/ecsforge/internal/scripting"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := "cmd/demo/config.toml"
	if p := os.Getenv("ECSFORGE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := applog.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	tickRate, err := time.ParseDuration(cfg.World.TickRate)
	if err != nil {
		return fmt.Errorf("parse tick_rate: %w", err)
	}

	runner := scheduler.NewRunner()
	w := ecs.New(log, runner)
	w.WarmEntityPool(cfg.World.InitialEntityCapacity)

	w.RegisterSystem(NewMovementSystem(w), 0)
	w.RegisterSystem(NewSpawnerSystem(w, 5, log), 10)
	w.RegisterSystem(NewStatsSystem(w, log), 20)

	var engine *scripting.Engine
	if cfg.Scripting.Enabled {
		engine, err = scripting.NewEngine(cfg.Scripting.ScriptsDir, log)
		if err != nil {
			return fmt.Errorf("scripting engine: %w", err)
		}
		defer engine.Close()

		lua := scripting.NewLuaSystem(engine, "report", extractPosition,
			ecs.Positive[Position](w))
		w.RegisterSystem(lua, 30)
	}

	for i := 0; i < 3; i++ {
		e := w.CreateEntity()
		ecs.AddComponent(e, &Position{X: float64(i), Y: float64(i) * 2})
		ecs.AddComponent(e, &Velocity{DX: 0.5, DY: -0.5})
	}

	log.Info("world ready", zap.Duration("tick_rate", tickRate))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(tickRate)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			w.Execute(tickRate, now)
		case sig := <-shutdownCh:
			log.Info("shutting down", zap.String("signal", sig.String()))
			w.Stop()
			return nil
		}
	}
}

func extractPosition(e *ecs.Entity) map[string]any {
	pos, ok := ecs.GetComponent[Position](e)
	if !ok {
		return nil
	}
	return map[string]any{"x": pos.X, "y": pos.Y}
}

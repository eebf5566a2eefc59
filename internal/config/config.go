package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the runtime's own tunables — tick rate, entity-pool
// pre-sizing, logging, and the optional Lua scripting surface. The pool
// growth policy itself is fixed and not configurable. None of this is consumer
// component/system data; that stays entirely in Go types the consumer
// registers directly with a World.
type Config struct {
	World     WorldConfig     `toml:"world"`
	Logging   LoggingConfig   `toml:"logging"`
	Scripting ScriptingConfig `toml:"scripting"`
}

// WorldConfig covers the knobs a driver loop needs to run a World: how
// often to call Execute, and how pools behave at startup.
type WorldConfig struct {
	// TickRate is the delta passed to World.Execute by a driver loop such
	// as cmd/demo; the core itself has no notion of real time.
	TickRate string `toml:"tick_rate"`
	// InitialEntityCapacity pre-warms the entity pool via
	// World.WarmEntityPool so a known-size scene doesn't pay for several
	// incremental ceil(count*0.2)+1 grows on startup.
	InitialEntityCapacity int `toml:"initial_entity_capacity"`
}

// LoggingConfig selects the zap construction cmd/demo (or any other
// driver) builds from — see internal/applog.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// ScriptingConfig controls the optional Lua-scripted example system
// (internal/scripting). Disabled by default — it is consumer surface,
// not something the core requires.
type ScriptingConfig struct {
	Enabled    bool   `toml:"enabled"`
	ScriptsDir string `toml:"scripts_dir"`
}

// Load reads path and unmarshals it onto defaults(), so any field absent
// from the file keeps its default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		World: WorldConfig{
			TickRate:              "16ms",
			InitialEntityCapacity: 256,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Scripting: ScriptingConfig{
			Enabled:    false,
			ScriptsDir: "scripts",
		},
	}
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/automoto/doomerang-rooms/solids"
	"github.com/automoto/doomerang-rooms/transition"
)

type Config struct {
	Transition  TransitionConfig         `toml:"transition"`
	Spatial     transition.SpatialConfig `toml:"spatial"`
	Solids      solids.Config            `toml:"solids"`
	Player      PlayerConfig             `toml:"player"`
	Simulation  SimulationConfig         `toml:"simulation"`
	Logging     LoggingConfig            `toml:"logging"`
	Persistence PersistenceConfig        `toml:"persistence"`
}

// TransitionConfig tunes the room transition gate.
type TransitionConfig struct {
	Cooldown           time.Duration `toml:"cooldown"`
	ExitPrefix         string        `toml:"exit_prefix"`
	ExitLayers         []string      `toml:"exit_layers"`
	DefaultEntrance    string        `toml:"default_entrance"`
	MinSpeedSq         float64       `toml:"min_speed_sq"`
	DirectionThreshold float64       `toml:"direction_threshold"`
}

// PlayerConfig contains the simulated character's movement values. Speeds are
// in world pixels per second.
type PlayerConfig struct {
	Width        float64 `toml:"width"`
	Height       float64 `toml:"height"`
	MaxSpeed     float64 `toml:"max_speed"`
	Acceleration float64 `toml:"acceleration"`
	Friction     float64 `toml:"friction"`
}

type SimulationConfig struct {
	TickRate int     `toml:"tick_rate"` // ticks per simulated second
	MapsDir  string  `toml:"maps_dir"`  // empty = embedded demo maps
	StartMap string  `toml:"start_map"`
	Scale    float64 `toml:"scale"`
}

// TickDuration is the simulated time one tick covers.
func (s SimulationConfig) TickDuration() time.Duration {
	if s.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(s.TickRate)
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

type PersistenceConfig struct {
	Enabled bool   `toml:"enabled"`
	AppName string `toml:"app_name"`
}

// Load reads the TOML file at path over the defaults.
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

// Default returns the configuration used when no file is given.
func Default() *Config {
	return defaults()
}

func defaults() *Config {
	tr := transition.DefaultConfig()
	return &Config{
		Transition: TransitionConfig{
			Cooldown:           tr.Cooldown,
			ExitPrefix:         tr.ExitPrefix,
			ExitLayers:         tr.ExitLayers,
			DefaultEntrance:    tr.DefaultEntrance,
			MinSpeedSq:         tr.MinSpeedSq,
			DirectionThreshold: tr.DirectionThreshold,
		},
		Spatial: tr.Spatial,
		Solids:  solids.DefaultConfig(),
		Player: PlayerConfig{
			Width:        12,
			Height:       12,
			MaxSpeed:     120,
			Acceleration: 600,
			Friction:     900,
		},
		Simulation: SimulationConfig{
			TickRate: 60,
			StartMap: "hub",
			Scale:    1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Persistence: PersistenceConfig{
			Enabled: false,
			AppName: "doomerang-rooms",
		},
	}
}

// TransitionSettings assembles the controller configuration.
func (c *Config) TransitionSettings() transition.Config {
	return transition.Config{
		Cooldown:           c.Transition.Cooldown,
		ExitPrefix:         c.Transition.ExitPrefix,
		ExitLayers:         c.Transition.ExitLayers,
		DefaultEntrance:    c.Transition.DefaultEntrance,
		MinSpeedSq:         c.Transition.MinSpeedSq,
		DirectionThreshold: c.Transition.DirectionThreshold,
		Spatial:            c.Spatial,
	}
}

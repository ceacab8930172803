package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rooms.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[transition]
cooldown = "750ms"
exit_layers = ["Doors"]

[spatial]
enabled = false
max_depth = 3

[simulation]
tick_rate = 30
start_map = "cave"

[logging]
level = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Transition.Cooldown != 750*time.Millisecond {
		t.Errorf("Cooldown = %v", cfg.Transition.Cooldown)
	}
	if len(cfg.Transition.ExitLayers) != 1 || cfg.Transition.ExitLayers[0] != "Doors" {
		t.Errorf("ExitLayers = %v", cfg.Transition.ExitLayers)
	}
	if cfg.Transition.ExitPrefix != "Exit" || cfg.Transition.DirectionThreshold != 0.5 {
		t.Error("unset transition keys lost their defaults")
	}
	if cfg.Spatial.Enabled || cfg.Spatial.MaxDepth != 3 || cfg.Spatial.MaxObjectsPerNode != 8 {
		t.Errorf("Spatial = %+v", cfg.Spatial)
	}
	if cfg.Simulation.TickDuration() != time.Second/30 || cfg.Simulation.StartMap != "cave" {
		t.Errorf("Simulation = %+v", cfg.Simulation)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}

	tc := cfg.TransitionSettings()
	if tc.Cooldown != 750*time.Millisecond || tc.Spatial.MaxDepth != 3 || tc.DefaultEntrance != "default" {
		t.Errorf("TransitionSettings = %+v", tc)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Transition.Cooldown != 500*time.Millisecond {
		t.Errorf("Cooldown = %v, want 500ms", cfg.Transition.Cooldown)
	}
	if cfg.Simulation.TickDuration() != time.Second/60 {
		t.Errorf("TickDuration = %v", cfg.Simulation.TickDuration())
	}
	if DefaultLayer != 0 {
		t.Errorf("DefaultLayer = %d, want the first layer", DefaultLayer)
	}
	if cfg.Persistence.Enabled {
		t.Error("persistence should be off by default")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil || !strings.Contains(err.Error(), "read config") {
		t.Errorf("missing file: err = %v", err)
	}
	path := writeConfig(t, "[transition\ncooldown = ")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Errorf("bad toml: err = %v", err)
	}
}

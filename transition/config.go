package transition

import (
	"math"
	"time"

	"github.com/automoto/doomerang-rooms/tilemap"
	"go.uber.org/zap"
)

// Map properties that tune spatial partitioning per map.
const (
	PropSpatialPartitioning    = "spatialPartitioning"
	PropSpatialMaxObjects      = "spatialMaxObjects"
	PropSpatialMaxDepth        = "spatialMaxDepth"
	PropSpatialDetectionRadius = "spatialDetectionRadius"
)

// Valid ranges for the spatial map properties.
const (
	MinObjectsPerNode  = 1
	MaxObjectsPerNode  = 128
	MinDepth           = 1
	MaxDepth           = 12
	MaxDetectionRadius = 4096.0
)

// Exit object properties.
const (
	PropTargetRoom   = "targetRoom"
	PropEntranceExit = "entranceExit"
)

// SpatialConfig controls the exit index of one map.
type SpatialConfig struct {
	Enabled           bool    `toml:"enabled"`
	MaxObjectsPerNode int     `toml:"max_objects_per_node"`
	MaxDepth          int     `toml:"max_depth"`
	DetectionRadius   float64 `toml:"detection_radius"`
}

func DefaultSpatialConfig() SpatialConfig {
	return SpatialConfig{
		Enabled:           true,
		MaxObjectsPerNode: 8,
		MaxDepth:          6,
		DetectionRadius:   96,
	}
}

// Config is the controller configuration.
type Config struct {
	// Cooldown is how long transitions stay suppressed after one fires.
	Cooldown time.Duration
	// ExitPrefix selects exit objects by name.
	ExitPrefix string
	// ExitLayers are merged, in order, into one pool of exits. Empty means
	// every object layer.
	ExitLayers []string
	// DefaultEntrance is reported when an exit has no entranceExit property.
	DefaultEntrance string
	// MinSpeedSq is the squared speed a character must exceed to count as
	// moving.
	MinSpeedSq float64
	// DirectionThreshold is the minimum dot product between the heading and
	// the direction to the exit.
	DirectionThreshold float64
	// Spatial holds the defaults map properties override.
	Spatial SpatialConfig
}

func DefaultConfig() Config {
	return Config{
		Cooldown:           500 * time.Millisecond,
		ExitPrefix:         "Exit",
		ExitLayers:         []string{"Exits", "Triggers"},
		DefaultEntrance:    "default",
		MinSpeedSq:         0.01,
		DirectionThreshold: 0.5,
		Spatial:            DefaultSpatialConfig(),
	}
}

// sanitize replaces unusable defaults so map properties always have a valid
// fallback.
func (s SpatialConfig) sanitize() SpatialConfig {
	d := DefaultSpatialConfig()
	if s.MaxObjectsPerNode < MinObjectsPerNode || s.MaxObjectsPerNode > MaxObjectsPerNode {
		s.MaxObjectsPerNode = d.MaxObjectsPerNode
	}
	if s.MaxDepth < MinDepth || s.MaxDepth > MaxDepth {
		s.MaxDepth = d.MaxDepth
	}
	if !validRadius(s.DetectionRadius) {
		s.DetectionRadius = d.DetectionRadius
	}
	return s
}

func validRadius(r float64) bool {
	return !math.IsNaN(r) && !math.IsInf(r, 0) && r > 0 && r <= MaxDetectionRadius
}

// spatialConfigFrom reads the spatial properties of m over defaults. Invalid
// values are reported on logger and replaced by the default.
func spatialConfigFrom(m *tilemap.Map, defaults SpatialConfig, logger *zap.Logger) SpatialConfig {
	cfg := defaults.sanitize()
	props := m.Properties

	reject := func(key string, v tilemap.Value, def any) {
		logger.Warn("invalid spatial config value, using default",
			zap.String("map", m.Name),
			zap.String("key", key),
			zap.Stringer("value", v),
			zap.Any("default", def))
	}

	if v, ok := props.Lookup(PropSpatialPartitioning); ok {
		if v.Kind == tilemap.BoolKind {
			cfg.Enabled = v.Bool
		} else {
			reject(PropSpatialPartitioning, v, cfg.Enabled)
		}
	}

	if v, ok := props.Lookup(PropSpatialMaxObjects); ok {
		n, isInt := intValue(v)
		if isInt && n >= MinObjectsPerNode && n <= MaxObjectsPerNode {
			cfg.MaxObjectsPerNode = n
		} else {
			reject(PropSpatialMaxObjects, v, cfg.MaxObjectsPerNode)
		}
	}

	if v, ok := props.Lookup(PropSpatialMaxDepth); ok {
		n, isInt := intValue(v)
		if isInt && n >= MinDepth && n <= MaxDepth {
			cfg.MaxDepth = n
		} else {
			reject(PropSpatialMaxDepth, v, cfg.MaxDepth)
		}
	}

	if v, ok := props.Lookup(PropSpatialDetectionRadius); ok {
		r := props.GetFloat(PropSpatialDetectionRadius, math.NaN())
		if validRadius(r) {
			cfg.DetectionRadius = r
		} else {
			reject(PropSpatialDetectionRadius, v, cfg.DetectionRadius)
		}
	}

	return cfg
}

func intValue(v tilemap.Value) (int, bool) {
	switch v.Kind {
	case tilemap.IntKind:
		return int(v.Int), true
	case tilemap.FloatKind:
		if v.Float == math.Trunc(v.Float) && !math.IsInf(v.Float, 0) {
			return int(v.Float), true
		}
	}
	return 0, false
}

// Package transition decides when a moving character walks through an exit
// into another room.
//
// A Controller is driven once per simulation tick. It owns the exit cache and
// the exit quadtree of the active map and rebuilds both on SetCurrentMap. It is
// not safe for concurrent use.
package transition

import (
	"strings"
	"time"

	"github.com/automoto/doomerang-rooms/geometry"
	"github.com/automoto/doomerang-rooms/spatial"
	"github.com/automoto/doomerang-rooms/tilemap"
	dmath "github.com/yohamta/donburi/features/math"
	"go.uber.org/zap"
)

// State is the gate a controller is in.
type State uint8

const (
	// Idle permits transitions.
	Idle State = iota
	// Cooldown suppresses transitions until the timer runs out.
	Cooldown
)

func (s State) String() string {
	if s == Cooldown {
		return "cooldown"
	}
	return "idle"
}

// Mover is the character being tracked.
type Mover interface {
	Position() dmath.Vec2
	Velocity() dmath.Vec2
}

// Collider is implemented by movers with a collision shape. Movers without one
// are tested as a point at their position.
type Collider interface {
	CollisionShape() (geometry.Shape, dmath.Vec2)
}

// Event is a room change request.
type Event struct {
	TargetRoom   string
	EntranceExit string
	FromMap      string
	Exit         *ExitRecord
}

type subscriber struct {
	id uint64
	fn func(Event)
}

// Controller gates room transitions for one character.
type Controller struct {
	cfg    Config
	logger *zap.Logger

	current  *tilemap.Map
	spatial  SpatialConfig
	cooldown time.Duration

	exits  []*ExitRecord
	byName map[string]*ExitRecord
	index  *spatial.Quadtree[*ExitRecord]
	nearby []*ExitRecord

	configs     map[string]SpatialConfig
	subscribers []subscriber
	nextID      uint64
}

// New creates a controller with no active map. A nil logger discards
// diagnostics.
func New(cfg Config, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		cfg:     cfg,
		logger:  logger,
		byName:  make(map[string]*ExitRecord),
		configs: make(map[string]SpatialConfig),
	}
}

// SetCurrentMap activates m, replacing the exit cache and the exit index. The
// cooldown carries over so a character spawned on top of an exit does not
// bounce straight back. A nil map clears the controller.
func (c *Controller) SetCurrentMap(m *tilemap.Map) {
	c.current = m
	c.exits = nil
	c.byName = make(map[string]*ExitRecord)
	c.index = nil
	c.nearby = c.nearby[:0]
	if m == nil {
		return
	}

	c.spatial = c.SpatialConfigFor(m)

	scale := m.Scale
	if scale <= 0 {
		scale = 1
	}
	var registered []*ExitRecord
	for _, obj := range m.CollectObjects(c.cfg.ExitLayers...) {
		if !strings.HasPrefix(obj.Name, c.cfg.ExitPrefix) {
			continue
		}
		rec := newExitRecord(obj, scale, c.cfg.DefaultEntrance)
		if prev, dup := c.byName[rec.Name]; dup {
			c.logger.Debug("duplicate exit name, later one wins",
				zap.String("map", m.Name),
				zap.String("exit", rec.Name),
				zap.Int("shadowed_id", prev.Object.ID),
				zap.Int("id", obj.ID))
		}
		c.byName[rec.Name] = rec
		registered = append(registered, rec)
	}
	for _, rec := range registered {
		if c.byName[rec.Name] == rec {
			c.exits = append(c.exits, rec)
		}
	}

	if c.spatial.Enabled {
		b := m.PixelBounds()
		c.index = spatial.New[*ExitRecord](
			spatial.Rect{X: b.X, Y: b.Y, W: b.W, H: b.H},
			c.spatial.MaxObjectsPerNode,
			c.spatial.MaxDepth,
		)
		for _, rec := range c.exits {
			c.index.Insert(rec)
		}
	}

	c.logger.Debug("room activated",
		zap.String("map", m.Name),
		zap.Int("exits", len(c.exits)),
		zap.Bool("spatial", c.spatial.Enabled))
}

// SpatialConfigFor returns the spatial configuration of m, reading it from the
// map properties the first time a map name is seen.
func (c *Controller) SpatialConfigFor(m *tilemap.Map) SpatialConfig {
	if cfg, ok := c.configs[m.Name]; ok {
		return cfg
	}
	cfg := spatialConfigFrom(m, c.cfg.Spatial, c.logger)
	c.configs[m.Name] = cfg
	return cfg
}

// ForgetSpatialConfig drops the cached configuration of a map so the next
// SetCurrentMap reads its properties again.
func (c *Controller) ForgetSpatialConfig(name string) {
	delete(c.configs, name)
}

// Update advances the cooldown by dt and checks the mover against the exits of
// the active map. It returns the event and true when a transition fires;
// subscribers are notified before Update returns.
func (c *Controller) Update(dt time.Duration, mover Mover) (Event, bool) {
	c.cooldown = max(c.cooldown-dt, 0)
	if c.current == nil || mover == nil {
		return Event{}, false
	}

	shape, at := moverShape(mover)
	exit := c.overlappingExit(mover.Position(), shape, at)
	if exit == nil {
		return Event{}, false
	}
	if !c.headingInto(mover, exit) {
		return Event{}, false
	}
	if c.cooldown > 0 {
		return Event{}, false
	}

	c.cooldown = c.cfg.Cooldown
	ev := Event{
		TargetRoom:   exit.TargetRoom,
		EntranceExit: exit.EntranceExit,
		FromMap:      c.current.Name,
		Exit:         exit,
	}
	c.logger.Info("room transition",
		zap.String("from", ev.FromMap),
		zap.String("exit", exit.Name),
		zap.String("target", ev.TargetRoom),
		zap.String("entrance", ev.EntranceExit))
	c.notify(ev)
	return ev, true
}

func moverShape(m Mover) (geometry.Shape, dmath.Vec2) {
	if col, ok := m.(Collider); ok {
		return col.CollisionShape()
	}
	return geometry.NewPoint(), m.Position()
}

// overlappingExit returns the first candidate exit touching the mover, in
// index order when partitioning is on and registration order otherwise.
func (c *Controller) overlappingExit(pos dmath.Vec2, shape geometry.Shape, at dmath.Vec2) *ExitRecord {
	candidates := c.exits
	if c.index != nil {
		c.nearby = c.index.Query(pos, c.spatial.DetectionRadius, c.nearby[:0])
		candidates = c.nearby
	}
	for _, exit := range candidates {
		if geometry.Intersects(shape, at, exit.Shape, exit.At) {
			return exit
		}
	}
	return nil
}

// headingInto reports whether the mover is moving and pointed at the exit.
// A mover standing exactly on the exit position only needs to be moving.
func (c *Controller) headingInto(m Mover, exit *ExitRecord) bool {
	vel := m.Velocity()
	if geometry.LengthSq(vel) <= c.cfg.MinSpeedSq {
		return false
	}
	toExit := geometry.Sub(exit.Position, m.Position())
	if geometry.LengthSq(toExit) == 0 {
		return true
	}
	return geometry.Dot(geometry.Normalize(vel), geometry.Normalize(toExit)) > c.cfg.DirectionThreshold
}

// Subscribe registers fn for every transition. The returned function removes
// it.
func (c *Controller) Subscribe(fn func(Event)) (cancel func()) {
	c.nextID++
	id := c.nextID
	c.subscribers = append(c.subscribers, subscriber{id: id, fn: fn})
	return func() {
		for i, o := range c.subscribers {
			if o.id == id {
				c.subscribers = append(c.subscribers[:i:i], c.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (c *Controller) notify(ev Event) {
	// Subscribers may swap the map or unsubscribe while being notified.
	subs := append([]subscriber(nil), c.subscribers...)
	for _, o := range subs {
		o.fn(ev)
	}
}

// GetExitByName looks up an exit of the active map.
func (c *Controller) GetExitByName(name string) (*ExitRecord, bool) {
	e, ok := c.byName[name]
	return e, ok
}

// SpawnPosition is the centre of the named exit.
func (c *Controller) SpawnPosition(name string) (dmath.Vec2, bool) {
	e, ok := c.byName[name]
	if !ok {
		return dmath.Vec2{}, false
	}
	return e.SpawnPosition(), true
}

// Exits lists the active exits in registration order.
func (c *Controller) Exits() []*ExitRecord { return c.exits }

func (c *Controller) CurrentMap() *tilemap.Map { return c.current }

// Cooldown is the time left before another transition may fire.
func (c *Controller) Cooldown() time.Duration { return c.cooldown }

func (c *Controller) State() State {
	if c.cooldown > 0 {
		return Cooldown
	}
	return Idle
}

// ActiveSpatialConfig is the spatial configuration of the active map.
func (c *Controller) ActiveSpatialConfig() SpatialConfig { return c.spatial }

// Indexed reports whether the active map's exits are served from the
// quadtree.
func (c *Controller) Indexed() bool { return c.index != nil }

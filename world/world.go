// Package world is the room loader. It owns the map library and the ECS the
// simulation runs in, and swaps the active room whenever the transition
// controller fires.
package world

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/automoto/doomerang-rooms/components"
	"github.com/automoto/doomerang-rooms/config"
	"github.com/automoto/doomerang-rooms/geometry"
	"github.com/automoto/doomerang-rooms/solids"
	"github.com/automoto/doomerang-rooms/systems"
	"github.com/automoto/doomerang-rooms/systems/factory"
	"github.com/automoto/doomerang-rooms/tilemap"
	"github.com/automoto/doomerang-rooms/transition"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	dmath "github.com/yohamta/donburi/features/math"
	"go.uber.org/zap"
)

// PropDefaultEntrance is the map property naming the exit to spawn at when a
// transition names no usable entrance.
const PropDefaultEntrance = "defaultEntrance"

var ErrUnknownMap = errors.New("unknown map")

type Option func(*World)

func WithLogger(logger *zap.Logger) Option {
	return func(w *World) { w.logger = logger }
}

// WithProgressStore saves the player's room and entrance after every
// transition.
func WithProgressStore(store systems.ProgressStore) Option {
	return func(w *World) { w.store = store }
}

// WithAutopilot lets the autopilot walk the player from room to room.
func WithAutopilot() Option {
	return func(w *World) { w.autopilot = true }
}

// WithMapOptions sets the options reloaded maps are built with.
func WithMapOptions(opts ...tilemap.Option) Option {
	return func(w *World) { w.mapOpts = opts }
}

// World runs the room simulation one tick at a time. It is not safe for
// concurrent use.
type World struct {
	cfg       *config.Config
	logger    *zap.Logger
	store     systems.ProgressStore
	autopilot bool
	mapOpts   []tilemap.Option

	ecs         *ecs.ECS
	maps        map[string]*tilemap.Map
	transitions *transition.Controller
	room        *donburi.Entry
	player      *donburi.Entry
	pending     *transition.Event
	unsubscribe func()
	ticks       int

	watcher *Watcher
	watchFS fs.FS
	dir     string
}

// New creates a world over maps. Nothing is active until Start or Resume.
func New(cfg *config.Config, maps map[string]*tilemap.Map, opts ...Option) *World {
	w := &World{
		cfg:  cfg,
		maps: make(map[string]*tilemap.Map, len(maps)),
		ecs:  ecs.NewECS(donburi.NewWorld()),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	for name, m := range maps {
		w.maps[name] = m
	}

	w.transitions = transition.New(cfg.TransitionSettings(), w.logger)
	w.unsubscribe = w.transitions.Subscribe(w.onTransition)
	w.room = factory.CreateRoom(w.ecs, w.transitions)

	dt := cfg.Simulation.TickDuration()
	w.ecs.AddSystem(systems.UpdateAutopilot)
	w.ecs.AddSystem(systems.NewUpdatePlayer(dt))
	w.ecs.AddSystem(systems.NewUpdateMovement(dt))
	w.ecs.AddSystem(systems.UpdateStates)
	w.ecs.AddSystem(systems.NewUpdateRoom(dt))
	return w
}

// onTransition records the event; the swap happens after the systems ran.
func (w *World) onTransition(ev transition.Event) {
	if w.pending == nil {
		w.pending = &ev
	}
}

// Start enters the named map at its default spawn.
func (w *World) Start(name string) error {
	return w.Enter(name, "")
}

// Resume enters the room saved in the progress store, or the named map when
// there is no usable save.
func (w *World) Resume(fallback string) error {
	if w.store != nil {
		saved, err := w.store.LoadProgress()
		if err != nil {
			w.logger.Warn("ignoring saved progress", zap.Error(err))
		}
		if saved != nil {
			if _, ok := w.maps[saved.Room]; ok {
				if err := w.Enter(saved.Room, saved.Entrance); err != nil {
					return err
				}
				components.Player.Get(w.player).Transitions = saved.Transitions
				return nil
			}
			w.logger.Warn("saved room no longer exists", zap.String("room", saved.Room))
		}
	}
	return w.Start(fallback)
}

// Enter makes the named map the active room and places the player at the
// entrance exit. When the map has no such exit the player spawns at the exit
// named by the map's defaultEntrance property, then the first exit, then the
// centre of the map.
func (w *World) Enter(name, entrance string) error {
	m, ok := w.maps[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMap, name)
	}

	w.transitions.SetCurrentMap(m)
	pos, at := w.spawnPoint(m, entrance)
	if entrance != "" && at != entrance {
		log := w.logger.Warn
		if entrance == w.cfg.Transition.DefaultEntrance {
			log = w.logger.Debug
		}
		log("entrance not found, using fallback",
			zap.String("map", name),
			zap.String("entrance", entrance),
			zap.String("spawn", at))
	}
	w.activate(m, pos, at)

	w.logger.Info("entered room",
		zap.String("map", name),
		zap.String("entrance", at),
		zap.Float64("x", pos.X),
		zap.Float64("y", pos.Y))
	return nil
}

func (w *World) spawnPoint(m *tilemap.Map, entrance string) (dmath.Vec2, string) {
	for _, name := range []string{entrance, m.Properties.GetString(PropDefaultEntrance, "")} {
		if name == "" {
			continue
		}
		if pos, ok := w.transitions.SpawnPosition(name); ok {
			return pos, name
		}
	}
	if exits := w.transitions.Exits(); len(exits) > 0 {
		return exits[0].SpawnPosition(), exits[0].Name
	}
	return m.PixelBounds().Center(), ""
}

// activate builds the solid space of m and moves the player body into it,
// centred at pos.
func (w *World) activate(m *tilemap.Map, pos dmath.Vec2, entrance string) {
	room := components.Room.Get(w.room)
	space := solids.Build(m, w.cfg.Solids, w.logger)
	tw, th := m.DrawnTileSize()
	inset := max(0, (min(tw, th)-max(w.cfg.Player.Width, w.cfg.Player.Height))/2)

	if w.player == nil {
		w.player = factory.CreatePlayer(w.ecs, space, pos, w.cfg.Player)
		if w.autopilot {
			factory.AttachAutopilot(w.player)
		}
	} else {
		obj := components.Object.Get(w.player)
		if room.Solids != nil {
			room.Solids.Remove(obj.Body)
		}
		r := obj.Rect()
		obj.Body = space.NewBody(geometry.Rect{X: pos.X - r.W/2, Y: pos.Y - r.H/2, W: r.W, H: r.H})
	}
	components.Player.Get(w.player).LastEntrance = entrance

	room.Map = m
	room.Solids = space
	room.Nav = space.NavGrid(tw, th, inset)
	room.Entrance = entrance
	room.Ticks = 0
}

// Tick runs the systems once and then performs a pending room swap, pulling
// in any map files the watcher reported first. A failed swap leaves the
// player in the current room.
func (w *World) Tick() error {
	w.drainWatcher()
	w.ecs.Update()
	w.ticks++

	if w.pending == nil {
		return nil
	}
	ev := *w.pending
	w.pending = nil
	if err := w.Enter(ev.TargetRoom, ev.EntranceExit); err != nil {
		return fmt.Errorf("transition from %s through %s: %w", ev.FromMap, ev.Exit.Name, err)
	}

	player := components.Player.Get(w.player)
	player.Transitions++
	if w.store != nil {
		progress := &systems.Progress{
			Room:        ev.TargetRoom,
			Entrance:    player.LastEntrance,
			Transitions: player.Transitions,
		}
		if err := w.store.SaveProgress(progress); err != nil {
			w.logger.Warn("could not save progress", zap.Error(err))
		}
	}
	return nil
}

// Replace swaps in a new version of a map. The active room is rebuilt in
// place, keeping the player where it stands.
func (w *World) Replace(m *tilemap.Map) {
	w.maps[m.Name] = m
	w.transitions.ForgetSpatialConfig(m.Name)

	current := w.transitions.CurrentMap()
	if current == nil || current.Name != m.Name {
		return
	}
	pos := components.Object.Get(w.player).Center()
	entrance := components.Room.Get(w.room).Entrance
	w.transitions.SetCurrentMap(m)
	w.activate(m, pos, entrance)
	w.logger.Info("reloaded room", zap.String("map", m.Name))
}

// Watch reloads map files reported by watcher at the start of each tick.
// Paths are resolved against dir, which fsys must be rooted at.
func (w *World) Watch(watcher *Watcher, fsys fs.FS, dir string) {
	w.watcher = watcher
	w.watchFS = fsys
	w.dir = dir
}

func (w *World) drainWatcher() {
	for w.watcher != nil {
		select {
		case p, ok := <-w.watcher.Events:
			if !ok {
				w.watcher = nil
				return
			}
			if err := w.ReloadFile(p); err != nil {
				w.logger.Warn("map reload failed", zap.String("file", p), zap.Error(err))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.watcher = nil
				return
			}
			w.logger.Warn("map watcher error", zap.Error(err))
		default:
			return
		}
	}
}

// ReloadFile rebuilds the maps defined in the file at p and replaces them.
// Maps already loaded are kept when the file can't be read or built.
func (w *World) ReloadFile(p string) error {
	if w.watchFS == nil {
		return fmt.Errorf("reload %s: no map directory", p)
	}
	name, err := filepath.Rel(w.dir, p)
	if err != nil {
		return fmt.Errorf("reload %s: %w", p, err)
	}
	name = filepath.ToSlash(name)

	var maps []*tilemap.Map
	switch {
	case tilemap.IsTMXFile(name):
		m, err := tilemap.LoadTMX(w.watchFS, name, w.mapOpts...)
		if err != nil {
			return err
		}
		maps = append(maps, m)
	case tilemap.IsDescriptionFile(name):
		descs, err := tilemap.LoadDescriptions(w.watchFS, name)
		if err != nil {
			return err
		}
		for _, d := range descs {
			m, err := tilemap.Build(d, w.mapOpts...)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			maps = append(maps, m)
		}
	default:
		return nil
	}
	for _, m := range maps {
		w.Replace(m)
	}
	return nil
}

// Close detaches the world from its transition controller.
func (w *World) Close() {
	if w.unsubscribe != nil {
		w.unsubscribe()
		w.unsubscribe = nil
	}
}

// Run ticks the world n times, stopping early on the first failed swap.
func (w *World) Run(n int) error {
	for range n {
		if err := w.Tick(); err != nil {
			return err
		}
	}
	return nil
}

// Elapsed is the simulated time covered by the ticks run so far.
func (w *World) Elapsed() time.Duration {
	return time.Duration(w.ticks) * w.cfg.Simulation.TickDuration()
}

func (w *World) Ticks() int { return w.ticks }

func (w *World) Transitions() *transition.Controller { return w.transitions }

// CurrentMap is the active room's map, nil before Start.
func (w *World) CurrentMap() *tilemap.Map { return w.transitions.CurrentMap() }

// Player is the player entity, nil before Start.
func (w *World) Player() *donburi.Entry { return w.player }

// PlayerPosition is the centre of the player body.
func (w *World) PlayerPosition() dmath.Vec2 {
	return components.Object.Get(w.player).Center()
}

// PlayerState is the player's current movement state.
func (w *World) PlayerState() config.StateID {
	return components.State.Get(w.player).CurrentState
}

// SetInput sets the player's movement intent for the next ticks.
func (w *World) SetInput(dir components.Vector) {
	components.Input.Get(w.player).Direction = dir
}

// MapNames lists the loaded maps in order.
func (w *World) MapNames() []string {
	names := make([]string, 0, len(w.maps))
	for name := range w.maps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

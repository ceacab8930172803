package systems

import (
	"math"
	"testing"
	"time"

	"github.com/automoto/doomerang-rooms/components"
	cfg "github.com/automoto/doomerang-rooms/config"
	"github.com/automoto/doomerang-rooms/solids"
	"github.com/automoto/doomerang-rooms/systems/factory"
	"github.com/automoto/doomerang-rooms/tilemap"
	"github.com/automoto/doomerang-rooms/transition"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	dmath "github.com/yohamta/donburi/features/math"
)

const tick = time.Second / 60

// walledRoom is 6x4 tiles of 16px with a wall all around and an exit in the
// east column of the interior.
func walledRoom(t *testing.T) *tilemap.Map {
	t.Helper()
	m, err := tilemap.Build(tilemap.MapDescription{
		Name: "room", Width: 6, Height: 4, TileWidth: 16, TileHeight: 16,
		Tilesets: []tilemap.TilesetDescription{{
			Name: "stone", FirstGID: 1, TileWidth: 16, TileHeight: 16, TileCount: 1, Columns: 1,
		}},
		TileLayers: []tilemap.TileLayerDescription{{
			Name: "Walls",
			Tiles: []uint32{
				1, 1, 1, 1, 1, 1,
				1, 0, 0, 0, 0, 1,
				1, 0, 0, 0, 0, 1,
				1, 1, 1, 1, 1, 1,
			},
		}},
		ObjectLayers: []tilemap.ObjectLayerDescription{{
			Name: "Exits",
			Objects: []tilemap.ObjectDescription{{
				Name: "Exit_East", X: 64, Y: 16, Width: 16, Height: 32,
				Properties: map[string]any{"targetRoom": "next"},
			}},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

type fixture struct {
	ecs    *ecs.ECS
	room   *components.RoomData
	player *donburi.Entry
}

func newFixture(t *testing.T, pos dmath.Vec2) *fixture {
	t.Helper()
	m := walledRoom(t)
	e := ecs.NewECS(donburi.NewWorld())
	ctrl := transition.New(transition.DefaultConfig(), nil)
	ctrl.SetCurrentMap(m)

	roomEntry := factory.CreateRoom(e, ctrl)
	room := components.Room.Get(roomEntry)
	room.Map = m
	room.Solids = solids.Build(m, solids.DefaultConfig(), nil)
	room.Nav = room.Solids.NavGrid(16, 16, 2)

	player := factory.CreatePlayer(e, room.Solids, pos, cfg.Default().Player)
	return &fixture{ecs: e, room: room, player: player}
}

func (f *fixture) run(n int, systems ...func(*ecs.ECS)) {
	for range n {
		for _, s := range systems {
			s(f.ecs)
		}
	}
}

func TestApproach(t *testing.T) {
	cases := []struct{ v, target, step, want float64 }{
		{0, 120, 10, 10},
		{115, 120, 10, 120},
		{-30, 0, 15, -15},
		{5, 0, 15, 0},
		{120, -120, 10, 110},
	}
	for _, tc := range cases {
		if got := approach(tc.v, tc.target, tc.step); got != tc.want {
			t.Errorf("approach(%v, %v, %v) = %v, want %v", tc.v, tc.target, tc.step, got, tc.want)
		}
	}
}

func TestPlayerReachesMaxSpeed(t *testing.T) {
	f := newFixture(t, dmath.Vec2{X: 40, Y: 32})
	components.Input.Get(f.player).Direction = components.Vector{X: 3, Y: 4}
	f.run(60, NewUpdatePlayer(tick))

	physics := components.Physics.Get(f.player)
	speed := math.Hypot(physics.SpeedX, physics.SpeedY)
	if math.Abs(speed-physics.MaxSpeed) > 1e-9 {
		t.Errorf("speed = %v, want %v", speed, physics.MaxSpeed)
	}
	if dir := components.Player.Get(f.player).Direction; math.Abs(dir.X-0.6) > 1e-9 || math.Abs(dir.Y-0.8) > 1e-9 {
		t.Errorf("Direction = %+v, want normalised input", dir)
	}
}

func TestPlayerFriction(t *testing.T) {
	f := newFixture(t, dmath.Vec2{X: 40, Y: 32})
	physics := components.Physics.Get(f.player)
	physics.SpeedX = 100
	f.run(1, NewUpdatePlayer(tick))
	if math.Abs(physics.SpeedX-85) > 1e-6 {
		t.Errorf("SpeedX = %v after one tick of friction, want 85", physics.SpeedX)
	}
	f.run(10, NewUpdatePlayer(tick))
	if physics.SpeedX != 0 {
		t.Errorf("SpeedX = %v, want rest", physics.SpeedX)
	}
}

func TestMovementStopsAtWall(t *testing.T) {
	f := newFixture(t, dmath.Vec2{X: 24, Y: 32})
	components.Input.Get(f.player).Direction = components.Vector{X: 1}
	f.run(60, NewUpdatePlayer(tick), NewUpdateMovement(tick), UpdateStates)

	obj := components.Object.Get(f.player)
	if right := obj.Rect().Right(); math.Abs(right-80) > 1e-9 {
		t.Errorf("right edge = %v, want flush with the wall at 80", right)
	}
	physics := components.Physics.Get(f.player)
	if !physics.BlockedX || physics.SpeedX != 0 {
		t.Errorf("physics = %+v, want blocked on x", physics)
	}
	if got := components.State.Get(f.player).CurrentState; got != cfg.Blocked {
		t.Errorf("state = %v, want blocked", got)
	}

	components.Input.Get(f.player).Direction = components.Vector{}
	f.run(2, NewUpdatePlayer(tick), NewUpdateMovement(tick), UpdateStates)
	if got := components.State.Get(f.player).CurrentState; got != cfg.Idle {
		t.Errorf("state = %v, want idle", got)
	}
}

func TestUpdateRoomFiresTransition(t *testing.T) {
	f := newFixture(t, dmath.Vec2{X: 60, Y: 32})
	var events []transition.Event
	f.room.Transitions.Subscribe(func(ev transition.Event) { events = append(events, ev) })

	components.Physics.Get(f.player).SpeedX = 60
	f.run(1, NewUpdateRoom(tick))
	if len(events) != 1 || events[0].TargetRoom != "next" || events[0].Exit.Name != "Exit_East" {
		t.Fatalf("events = %+v", events)
	}
	if f.room.Ticks != 1 {
		t.Errorf("Ticks = %d", f.room.Ticks)
	}

	f.run(1, NewUpdateRoom(tick))
	if len(events) != 1 {
		t.Error("fired again during cooldown")
	}
}

func TestPlayerMoverShape(t *testing.T) {
	f := newFixture(t, dmath.Vec2{X: 40, Y: 32})
	shape, at := PlayerMover{Entry: f.player}.CollisionShape()
	if shape.Width != 12 || shape.Height != 12 || at != (dmath.Vec2{X: 34, Y: 26}) {
		t.Errorf("shape %+v at %v", shape, at)
	}
}

func TestChooseExit(t *testing.T) {
	exits := []*transition.ExitRecord{
		{Name: "Exit_West", TargetRoom: "hub"},
		{Name: "Exit_East", TargetRoom: "cave"},
		{Name: "Exit_North", TargetRoom: "vault"},
	}
	cases := []struct {
		name     string
		entrance string
		visited  []string
		want     string
	}{
		{"first unvisited", "", []string{"hub"}, "Exit_East"},
		{"skips entrance", "Exit_East", []string{"hub"}, "Exit_North"},
		{"least recent", "Exit_West", []string{"vault", "cave", "hub"}, "Exit_North"},
		{"nothing visited", "Exit_West", nil, "Exit_East"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := chooseExit(exits, tc.entrance, tc.visited); got == nil || got.Name != tc.want {
				t.Errorf("chose %+v, want %s", got, tc.want)
			}
		})
	}
	if got := chooseExit(exits[:1], "Exit_West", nil); got == nil || got.Name != "Exit_West" {
		t.Errorf("single exit: chose %+v", got)
	}
	if chooseExit(nil, "", nil) != nil {
		t.Error("chose an exit from none")
	}
}

func TestSteer(t *testing.T) {
	pilot := &components.AutopilotData{Path: []dmath.Vec2{{X: 10, Y: 0}, {X: 10, Y: 20}}}
	dir := steer(pilot, dmath.Vec2{X: 0, Y: 0}, components.Vector{})
	if dir != (components.Vector{X: 1}) {
		t.Errorf("dir = %+v, want east", dir)
	}

	dir = steer(pilot, dmath.Vec2{X: 10, Y: 1}, components.Vector{})
	if len(pilot.Path) != 1 || dir != (components.Vector{Y: 1}) {
		t.Errorf("dir = %+v with %d waypoints left", dir, len(pilot.Path))
	}

	facing := components.Vector{X: -1}
	if dir := steer(pilot, dmath.Vec2{X: 10, Y: 20}, facing); dir != facing {
		t.Errorf("on the exit: dir = %+v, want facing", dir)
	}
}

func TestAutopilotPlansAroundWalls(t *testing.T) {
	f := newFixture(t, dmath.Vec2{X: 24, Y: 40})
	factory.AttachAutopilot(f.player)
	f.run(1, UpdateAutopilot)

	pilot := components.Autopilot.Get(f.player)
	if pilot.Room != "room" || pilot.Target != "Exit_East" {
		t.Fatalf("pilot = %+v", pilot)
	}
	if last := pilot.Path[len(pilot.Path)-1]; last != (dmath.Vec2{X: 72, Y: 32}) {
		t.Errorf("route ends at %v, want the exit centre", last)
	}
	if len(pilot.Visited) != 1 {
		t.Errorf("Visited = %v", pilot.Visited)
	}
	if dir := components.Input.Get(f.player).Direction; dir.X <= 0 {
		t.Errorf("input = %+v, want heading east", dir)
	}

	systems := []func(*ecs.ECS){UpdateAutopilot, NewUpdatePlayer(tick), NewUpdateMovement(tick), UpdateStates, NewUpdateRoom(tick)}
	fired := false
	f.room.Transitions.Subscribe(func(transition.Event) { fired = true })
	for i := 0; i < 120 && !fired; i++ {
		f.run(1, systems...)
	}
	if !fired {
		t.Errorf("autopilot never reached the exit, stopped at %v", components.Object.Get(f.player).Center())
	}
}

func TestMemoryStore(t *testing.T) {
	var s MemoryStore
	if p, err := s.LoadProgress(); p != nil || err != nil {
		t.Fatalf("empty store returned %+v, %v", p, err)
	}
	p := &Progress{Room: "cave", Entrance: "Exit_West", Transitions: 2}
	_ = s.SaveProgress(p)
	p.Room = "changed"
	got, _ := s.LoadProgress()
	if got.Room != "cave" || s.Saves != 1 {
		t.Errorf("loaded %+v after %d saves", got, s.Saves)
	}
	_ = s.ClearProgress()
	if got, _ := s.LoadProgress(); got != nil {
		t.Errorf("cleared store returned %+v", got)
	}
}

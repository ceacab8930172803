package factory

import (
	"github.com/automoto/doomerang-rooms/archetypes"
	"github.com/automoto/doomerang-rooms/components"
	cfg "github.com/automoto/doomerang-rooms/config"
	"github.com/automoto/doomerang-rooms/geometry"
	"github.com/automoto/doomerang-rooms/solids"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	dmath "github.com/yohamta/donburi/features/math"
)

// CreatePlayer spawns the player with its body centred at pos in space.
func CreatePlayer(ecs *ecs.ECS, space *solids.Space, pos dmath.Vec2, pc cfg.PlayerConfig) *donburi.Entry {
	player := archetypes.Player.Spawn(ecs)

	body := space.NewBody(geometry.Rect{
		X: pos.X - pc.Width/2,
		Y: pos.Y - pc.Height/2,
		W: pc.Width,
		H: pc.Height,
	})
	components.Object.SetValue(player, components.ObjectData{Body: body})
	components.Player.SetValue(player, components.PlayerData{
		Direction: components.Vector{X: 1, Y: 0},
	})
	components.State.SetValue(player, components.StateData{
		CurrentState:  cfg.Idle,
		PreviousState: cfg.StateNone,
	})
	components.Physics.SetValue(player, components.PhysicsData{
		Acceleration: pc.Acceleration,
		Friction:     pc.Friction,
		MaxSpeed:     pc.MaxSpeed,
	})

	return player
}

// AttachAutopilot lets the autopilot system drive e.
func AttachAutopilot(e *donburi.Entry) {
	donburi.Add(e, components.Autopilot, &components.AutopilotData{})
}

package systems

import (
	"time"

	"github.com/automoto/doomerang-rooms/components"
	"github.com/automoto/doomerang-rooms/geometry"
	"github.com/automoto/doomerang-rooms/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	dmath "github.com/yohamta/donburi/features/math"
)

func activeRoom(ecs *ecs.ECS) (*components.RoomData, bool) {
	entry, ok := components.Room.First(ecs.World)
	if !ok {
		return nil, false
	}
	return components.Room.Get(entry), true
}

// NewUpdateRoom advances the tile animations of the active room and runs its
// transition gate against the player. Transitions reach the room loader
// through the controller's subscribers.
func NewUpdateRoom(dt time.Duration) func(*ecs.ECS) {
	return func(ecs *ecs.ECS) {
		room, ok := activeRoom(ecs)
		if !ok || room.Map == nil {
			return
		}
		room.Ticks++
		room.Map.UpdateAnimations(dt)
		if room.Transitions == nil {
			return
		}

		player, ok := tags.Player.First(ecs.World)
		if !ok {
			room.Transitions.Update(dt, nil)
			return
		}
		room.Transitions.Update(dt, PlayerMover{Entry: player})
	}
}

// PlayerMover exposes a player entity to the transition controller. Its
// collision shape is the body's box.
type PlayerMover struct {
	Entry *donburi.Entry
}

func (m PlayerMover) Position() dmath.Vec2 {
	return components.Object.Get(m.Entry).Center()
}

func (m PlayerMover) Velocity() dmath.Vec2 {
	physics := components.Physics.Get(m.Entry)
	return dmath.Vec2{X: physics.SpeedX, Y: physics.SpeedY}
}

func (m PlayerMover) CollisionShape() (geometry.Shape, dmath.Vec2) {
	r := components.Object.Get(m.Entry).Rect()
	return geometry.NewRectangle(r.W, r.H), dmath.Vec2{X: r.X, Y: r.Y}
}

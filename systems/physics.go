package systems

import (
	"time"

	"github.com/automoto/doomerang-rooms/components"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// NewUpdateMovement moves every body through the solids of the active room.
// A blocked axis loses its speed.
func NewUpdateMovement(dt time.Duration) func(*ecs.ECS) {
	secs := dt.Seconds()
	return func(ecs *ecs.ECS) {
		room, ok := activeRoom(ecs)
		if !ok || room.Solids == nil {
			return
		}
		components.Physics.Each(ecs.World, func(e *donburi.Entry) {
			if !e.HasComponent(components.Object) {
				return
			}
			obj := components.Object.Get(e)
			if obj.Body == nil {
				return
			}
			physics := components.Physics.Get(e)
			if physics.SpeedX == 0 && physics.SpeedY == 0 {
				physics.BlockedX, physics.BlockedY = false, false
				return
			}

			_, blockedX, blockedY := room.Solids.Move(obj.Body, physics.SpeedX*secs, physics.SpeedY*secs)
			physics.BlockedX, physics.BlockedY = blockedX, blockedY
			if blockedX {
				physics.SpeedX = 0
			}
			if blockedY {
				physics.SpeedY = 0
			}
		})
	}
}

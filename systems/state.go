package systems

import (
	"github.com/automoto/doomerang-rooms/components"
	cfg "github.com/automoto/doomerang-rooms/config"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

func UpdateStates(ecs *ecs.ECS) {
	components.State.Each(ecs.World, func(e *donburi.Entry) {
		state := components.State.Get(e)
		physics := components.Physics.Get(e)

		var intent components.Vector
		if e.HasComponent(components.Input) {
			intent = components.Input.Get(e).Direction
		}

		next := cfg.Idle
		switch {
		case physics.SpeedX != 0 || physics.SpeedY != 0:
			next = cfg.Walk
		case (intent.X != 0 && physics.BlockedX) || (intent.Y != 0 && physics.BlockedY):
			next = cfg.Blocked
		}

		state.PreviousState = state.CurrentState
		if next != state.CurrentState {
			state.CurrentState = next
			state.StateTimer = 0
			return
		}
		state.StateTimer++
	})
}

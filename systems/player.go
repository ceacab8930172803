package systems

import (
	"math"
	"time"

	"github.com/automoto/doomerang-rooms/components"
	"github.com/automoto/doomerang-rooms/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// NewUpdatePlayer turns each player's input into velocity. Each axis moves
// toward the input's share of MaxSpeed by Acceleration per second, and axes
// without input slow down by Friction.
func NewUpdatePlayer(dt time.Duration) func(*ecs.ECS) {
	secs := dt.Seconds()
	return func(ecs *ecs.ECS) {
		tags.Player.Each(ecs.World, func(e *donburi.Entry) {
			input := components.Input.Get(e)
			physics := components.Physics.Get(e)
			player := components.Player.Get(e)

			dir := normalized(input.Direction)
			if dir.X != 0 || dir.Y != 0 {
				player.Direction = dir
			}

			physics.SpeedX = steerAxis(physics, physics.SpeedX, dir.X, secs)
			physics.SpeedY = steerAxis(physics, physics.SpeedY, dir.Y, secs)

			if speed := math.Hypot(physics.SpeedX, physics.SpeedY); speed > physics.MaxSpeed && speed > 0 {
				k := physics.MaxSpeed / speed
				physics.SpeedX *= k
				physics.SpeedY *= k
			}
		})
	}
}

func steerAxis(physics *components.PhysicsData, speed, dir, secs float64) float64 {
	if dir == 0 {
		return approach(speed, 0, physics.Friction*secs)
	}
	return approach(speed, dir*physics.MaxSpeed, physics.Acceleration*secs)
}

func approach(v, target, step float64) float64 {
	if v < target {
		return min(v+step, target)
	}
	return max(v-step, target)
}

func normalized(v components.Vector) components.Vector {
	l := math.Hypot(v.X, v.Y)
	if l == 0 {
		return components.Vector{}
	}
	return components.Vector{X: v.X / l, Y: v.Y / l}
}

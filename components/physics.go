package components

import (
	"github.com/yohamta/donburi"
)

// Vector represents a 2D vector.
type Vector struct {
	X, Y float64
}

// PhysicsData holds a body's velocity in world pixels per second.
type PhysicsData struct {
	SpeedX       float64
	SpeedY       float64
	Acceleration float64
	Friction     float64
	MaxSpeed     float64
	BlockedX     bool
	BlockedY     bool
}

var Physics = donburi.NewComponentType[PhysicsData]()

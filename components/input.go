package components

import (
	"github.com/yohamta/donburi"
	dmath "github.com/yohamta/donburi/features/math"
)

// InputData is the movement intent fed to a body each tick.
type InputData struct {
	Direction Vector
}

var Input = donburi.NewComponentType[InputData]()

// AutopilotData walks a body from exit to exit.
type AutopilotData struct {
	Room    string       // Room the current plan was made in
	Target  string       // Exit being walked to
	Path    []dmath.Vec2 // Remaining waypoints, the exit last
	Visited []string     // Rooms in the order they were entered
}

var Autopilot = donburi.NewComponentType[AutopilotData]()

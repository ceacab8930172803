package systems

import (
	"math"
	"slices"

	"github.com/automoto/doomerang-rooms/components"
	"github.com/automoto/doomerang-rooms/geometry"
	"github.com/automoto/doomerang-rooms/transition"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	dmath "github.com/yohamta/donburi/features/math"
)

// waypointReach is how close a body gets to a waypoint before moving on.
const waypointReach = 3.0

// UpdateAutopilot plans a route to an exit whenever a body enters a room and
// steers it along the route. It prefers exits leading to rooms it hasn't
// seen, then the least recently seen, and leaves through the exit it came in
// by only when there is no other.
func UpdateAutopilot(ecs *ecs.ECS) {
	room, ok := activeRoom(ecs)
	if !ok || room.Map == nil || room.Transitions == nil {
		return
	}
	components.Autopilot.Each(ecs.World, func(e *donburi.Entry) {
		pilot := components.Autopilot.Get(e)
		pos := components.Object.Get(e).Center()

		var entrance string
		var facing components.Vector
		if e.HasComponent(components.Player) {
			player := components.Player.Get(e)
			entrance, facing = player.LastEntrance, player.Direction
		}

		if pilot.Room != room.Map.Name {
			pilot.Room = room.Map.Name
			pilot.Visited = append(pilot.Visited, room.Map.Name)
			planRoute(pilot, room, pos, entrance)
		} else if room.Ticks == 0 {
			// Same room, freshly entered or reloaded.
			planRoute(pilot, room, pos, entrance)
		}

		components.Input.Get(e).Direction = steer(pilot, pos, facing)
	})
}

func planRoute(pilot *components.AutopilotData, room *components.RoomData, pos dmath.Vec2, entrance string) {
	pilot.Target, pilot.Path = "", nil
	exit := chooseExit(room.Transitions.Exits(), entrance, pilot.Visited)
	if exit == nil {
		return
	}
	pilot.Target = exit.Name
	if room.Nav != nil {
		if path := room.Nav.FindPath(pos, exit.Position); len(path) > 1 {
			// The first waypoint is the cell the body is already in.
			pilot.Path = path[1:]
		}
	}
	pilot.Path = append(pilot.Path, exit.Position)
}

func chooseExit(exits []*transition.ExitRecord, entrance string, visited []string) *transition.ExitRecord {
	var best *transition.ExitRecord
	bestSeen := 0
	for _, exit := range exits {
		if exit.Name == entrance && len(exits) > 1 {
			continue
		}
		seen := lastVisit(visited, exit.TargetRoom)
		if best == nil || seen < bestSeen {
			best, bestSeen = exit, seen
		}
	}
	return best
}

// lastVisit returns the index of the latest visit to room, -1 when never.
func lastVisit(visited []string, room string) int {
	for i, name := range slices.Backward(visited) {
		if name == room {
			return i
		}
	}
	return -1
}

// steer drops reached waypoints and points at the next one. Once only the
// exit is left and the body stands on it, it keeps walking the way it faces.
func steer(pilot *components.AutopilotData, pos dmath.Vec2, facing components.Vector) components.Vector {
	for len(pilot.Path) > 1 && geometry.LengthSq(geometry.Sub(pilot.Path[0], pos)) <= waypointReach*waypointReach {
		pilot.Path = pilot.Path[1:]
	}
	if len(pilot.Path) == 0 {
		return components.Vector{}
	}
	to := geometry.Sub(pilot.Path[0], pos)
	if l := math.Hypot(to.X, to.Y); l > 0.5 {
		return components.Vector{X: to.X / l, Y: to.Y / l}
	}
	return facing
}

package factory

import (
	"github.com/automoto/doomerang-rooms/archetypes"
	"github.com/automoto/doomerang-rooms/components"
	"github.com/automoto/doomerang-rooms/transition"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CreateRoom spawns the entity holding the active room. The room loader
// fills in the map when it enters one.
func CreateRoom(ecs *ecs.ECS, transitions *transition.Controller) *donburi.Entry {
	room := archetypes.Room.Spawn(ecs)
	components.Room.SetValue(room, components.RoomData{
		Transitions: transitions,
	})
	return room
}

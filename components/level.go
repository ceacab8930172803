package components

import (
	"github.com/automoto/doomerang-rooms/solids"
	"github.com/automoto/doomerang-rooms/tilemap"
	"github.com/automoto/doomerang-rooms/transition"
	"github.com/yohamta/donburi"
)

// RoomData is the active room: its map, solid space and transition gate.
type RoomData struct {
	Map         *tilemap.Map
	Solids      *solids.Space
	Nav         *solids.NavGrid
	Transitions *transition.Controller
	Entrance    string // Exit the player spawned at
	Ticks       int    // Ticks spent in this room
}

var Room = donburi.NewComponentType[RoomData]()

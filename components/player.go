package components

import (
	"github.com/yohamta/donburi"
)

type PlayerData struct {
	Direction    Vector // Facing, updated while moving
	Transitions  int    // Rooms entered through exits
	LastEntrance string
}

var Player = donburi.NewComponentType[PlayerData]()

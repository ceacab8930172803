package components

import (
	"github.com/automoto/doomerang-rooms/solids"
	"github.com/yohamta/donburi"
)

type ObjectData struct {
	*solids.Body
}

var Object = donburi.NewComponentType[ObjectData]()

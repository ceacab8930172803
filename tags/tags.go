package tags

import "github.com/yohamta/donburi"

var (
	Player = donburi.NewTag().SetName("Player")
	Room   = donburi.NewTag().SetName("Room")
)

// Resolv tags for solid space objects
const (
	ResolvSolid = "solid"
	ResolvBody  = "body"
)

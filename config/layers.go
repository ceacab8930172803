package config

import "github.com/yohamta/donburi/ecs"

const (
	DefaultLayer ecs.LayerID = iota
)

package archetypes

import (
	"github.com/automoto/doomerang-rooms/components"
	cfg "github.com/automoto/doomerang-rooms/config"
	"github.com/automoto/doomerang-rooms/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var (
	Player = newArchetype(
		tags.Player,
		components.Player,
		components.Object,
		components.Physics,
		components.State,
		components.Input,
	)
	Room = newArchetype(
		tags.Room,
		components.Room,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(ecs *ecs.ECS, cs ...donburi.IComponentType) *donburi.Entry {
	e := ecs.World.Entry(ecs.Create(
		cfg.DefaultLayer,
		append(a.components, cs...)...,
	))
	return e
}

package transition

import (
	"github.com/automoto/doomerang-rooms/geometry"
	"github.com/automoto/doomerang-rooms/spatial"
	"github.com/automoto/doomerang-rooms/tilemap"
	dmath "github.com/yohamta/donburi/features/math"
)

// ExitRecord is an exit object placed in world coordinates.
type ExitRecord struct {
	Name   string
	Object *tilemap.CollisionObject

	// Shape is placed at At. Rect is its bounding box and Position the
	// centre of Rect.
	Shape    geometry.Shape
	At       dmath.Vec2
	Rect     geometry.Rect
	Position dmath.Vec2

	TargetRoom   string
	EntranceExit string
}

func newExitRecord(obj *tilemap.CollisionObject, scale float64, defaultEntrance string) *ExitRecord {
	shape, at := obj.Shape()
	if scale != 1 {
		shape = shape.Scaled(scale)
		at = geometry.Scale(at, scale)
	}
	rect := geometry.Bounds(shape, at)
	entrance := obj.Properties.GetString(PropEntranceExit, "")
	if entrance == "" {
		entrance = defaultEntrance
	}
	return &ExitRecord{
		Name:         obj.Name,
		Object:       obj,
		Shape:        shape,
		At:           at,
		Rect:         rect,
		Position:     rect.Center(),
		TargetRoom:   obj.Properties.GetString(PropTargetRoom, ""),
		EntranceExit: entrance,
	}
}

// Bounds implements spatial.Item.
func (e *ExitRecord) Bounds() spatial.Rect {
	return spatial.Rect{X: e.Rect.X, Y: e.Rect.Y, W: e.Rect.W, H: e.Rect.H}
}

// SpawnPosition is where a character entering through this exit is placed.
func (e *ExitRecord) SpawnPosition() dmath.Vec2 {
	return e.Position
}

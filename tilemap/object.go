package tilemap

import (
	"fmt"
	"math"
	"strings"

	"github.com/automoto/doomerang-rooms/geometry"
	dmath "github.com/yohamta/donburi/features/math"
)

// ShapeKind is the shape an object was authored as.
type ShapeKind uint8

const (
	ShapeRectangle ShapeKind = iota
	ShapeEllipse
	ShapePoint
	ShapePolygon
	ShapePolyline
	ShapeTile
	ShapeText
)

var shapeKindNames = [...]string{
	ShapeRectangle: "rectangle",
	ShapeEllipse:   "ellipse",
	ShapePoint:     "point",
	ShapePolygon:   "polygon",
	ShapePolyline:  "polyline",
	ShapeTile:      "tile",
	ShapeText:      "text",
}

func (k ShapeKind) String() string {
	if int(k) < len(shapeKindNames) {
		return shapeKindNames[k]
	}
	return fmt.Sprintf("ShapeKind(%d)", uint8(k))
}

// ParseShapeKind accepts the objectType names of the map description.
func ParseShapeKind(s string) (ShapeKind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range shapeKindNames {
		if name == s {
			return ShapeKind(i), true
		}
	}
	return 0, false
}

// circleTolerance is how far width and height of an ellipse may differ for it
// to be treated as a circle.
const circleTolerance = 1.0

// CollisionObject is one entry of an object layer.
type CollisionObject struct {
	ID       int
	Name     string
	Type     string
	Kind     ShapeKind
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Rotation float64
	GID      uint32
	Visible  bool
	Text     string

	// Points are relative to (X, Y) and only set for polygons and polylines.
	Points     []dmath.Vec2
	Properties Properties
}

// IsCircle reports whether an ellipse is round enough to collide as a circle.
func (o *CollisionObject) IsCircle() bool {
	return o.Kind == ShapeEllipse && math.Abs(o.Width-o.Height) <= circleTolerance
}

// Shape returns the collision shape and the position it is placed at.
// Rotation is ignored. Ellipses that are not circles collide as their
// bounding rectangle, and tile objects are anchored at their bottom-left
// corner the way Tiled places them.
func (o *CollisionObject) Shape() (geometry.Shape, dmath.Vec2) {
	origin := dmath.Vec2{X: o.X, Y: o.Y}
	switch o.Kind {
	case ShapeEllipse:
		if o.IsCircle() {
			r := (o.Width + o.Height) / 4
			return geometry.NewCircle(r), dmath.Vec2{X: o.X + o.Width/2, Y: o.Y + o.Height/2}
		}
		return geometry.NewRectangle(o.Width, o.Height), origin
	case ShapePoint:
		return geometry.NewPoint(), origin
	case ShapePolygon:
		return geometry.NewPolygon(o.Points), origin
	case ShapePolyline:
		return geometry.NewPolyline(o.Points), origin
	case ShapeTile:
		return geometry.NewRectangle(o.Width, o.Height), dmath.Vec2{X: o.X, Y: o.Y - o.Height}
	case ShapeRectangle, ShapeText:
		return geometry.NewRectangle(o.Width, o.Height), origin
	}
	return geometry.NewRectangle(o.Width, o.Height), origin
}

// Bounds is the axis-aligned box around the object's collision shape.
func (o *CollisionObject) Bounds() geometry.Rect {
	s, pos := o.Shape()
	return geometry.Bounds(s, pos)
}

// Intersects tests this object against another shape.
func (o *CollisionObject) Intersects(s geometry.Shape, pos dmath.Vec2) bool {
	mine, at := o.Shape()
	return geometry.Intersects(mine, at, s, pos)
}

// ObjectLayer is a named, ordered group of objects.
type ObjectLayer struct {
	ID         int
	Name       string
	Visible    bool
	Opacity    float64
	Objects    []*CollisionObject
	Properties Properties
}

// Object returns the last object named name. Later objects shadow earlier ones.
func (l *ObjectLayer) Object(name string) (*CollisionObject, bool) {
	for i := len(l.Objects) - 1; i >= 0; i-- {
		if l.Objects[i].Name == name {
			return l.Objects[i], true
		}
	}
	return nil, false
}

func (l *ObjectLayer) SetVisible(visible bool) { l.Visible = visible }

func (l *ObjectLayer) SetOpacity(opacity float64) {
	l.Opacity = min(max(opacity, 0), 1)
}

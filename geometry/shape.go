// Package geometry holds the collision shapes used by map objects and movers,
// and the pairwise intersection rules between them.
//
// Positions follow one convention per kind: a rectangle is anchored at its
// top-left corner, circles and points at their centre, and polygons and
// polylines at the origin their local points are relative to.
package geometry

import (
	"fmt"

	dmath "github.com/yohamta/donburi/features/math"
)

// Kind tags the variant held by a Shape.
type Kind uint8

const (
	Rectangle Kind = iota
	Circle
	Point
	Polygon
	Polyline
)

func (k Kind) String() string {
	switch k {
	case Rectangle:
		return "rectangle"
	case Circle:
		return "circle"
	case Point:
		return "point"
	case Polygon:
		return "polygon"
	case Polyline:
		return "polyline"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// PointRadius is the radius a Point shape is tested with.
const PointRadius = 1.0

// Shape is a closed tagged union over the supported collision shapes. Only the
// fields belonging to Kind are meaningful.
type Shape struct {
	Kind   Kind
	Width  float64
	Height float64
	Radius float64
	Points []dmath.Vec2
}

func NewRectangle(w, h float64) Shape {
	return Shape{Kind: Rectangle, Width: w, Height: h}
}

func NewCircle(radius float64) Shape {
	return Shape{Kind: Circle, Radius: radius}
}

func NewPoint() Shape {
	return Shape{Kind: Point, Radius: PointRadius}
}

// NewPolygon copies points so later edits to the caller's slice don't leak in.
func NewPolygon(points []dmath.Vec2) Shape {
	return Shape{Kind: Polygon, Points: append([]dmath.Vec2(nil), points...)}
}

func NewPolyline(points []dmath.Vec2) Shape {
	return Shape{Kind: Polyline, Points: append([]dmath.Vec2(nil), points...)}
}

// radius reports the radius used for circle tests; points always use PointRadius.
func (s Shape) radius() float64 {
	if s.Kind == Point {
		return PointRadius
	}
	return s.Radius
}

// Degenerate reports whether the shape can never intersect anything.
func (s Shape) Degenerate() bool {
	switch s.Kind {
	case Polygon, Polyline:
		return len(s.Points) < 2
	case Circle:
		return s.Radius < 0
	case Rectangle:
		return s.Width < 0 || s.Height < 0
	}
	return false
}

// Bounds returns the axis-aligned bounds of s placed at pos.
func Bounds(s Shape, pos dmath.Vec2) Rect {
	switch s.Kind {
	case Rectangle:
		return Rect{X: pos.X, Y: pos.Y, W: s.Width, H: s.Height}
	case Circle, Point:
		r := s.radius()
		return Rect{X: pos.X - r, Y: pos.Y - r, W: 2 * r, H: 2 * r}
	case Polygon, Polyline:
		return BoundingBoxOf(s.Points).Translate(pos)
	}
	return Rect{X: pos.X, Y: pos.Y}
}

// CenteredRect returns a rectangle shape of the given size and the top-left
// position that centres it on center.
func CenteredRect(center dmath.Vec2, w, h float64) (Shape, dmath.Vec2) {
	return NewRectangle(w, h), dmath.Vec2{X: center.X - w/2, Y: center.Y - h/2}
}

// Scaled returns s with every dimension multiplied by k. Points keep their
// fixed radius.
func (s Shape) Scaled(k float64) Shape {
	out := Shape{Kind: s.Kind, Width: s.Width * k, Height: s.Height * k, Radius: s.Radius}
	if s.Kind != Point {
		out.Radius *= k
	}
	if len(s.Points) > 0 {
		out.Points = make([]dmath.Vec2, len(s.Points))
		for i, p := range s.Points {
			out.Points[i] = Scale(p, k)
		}
	}
	return out
}

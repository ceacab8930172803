package geometry

import (
	dmath "github.com/yohamta/donburi/features/math"
)

// Intersects reports whether shape a placed at pa touches shape b placed at pb.
//
// Polygons are approximated by their bounding box. Polylines are open paths:
// each segment is tested against the other shape's bounds, and two polylines
// collide only when a pair of their segments cross. Degenerate shapes never
// intersect. The result does not depend on argument order.
func Intersects(a Shape, pa dmath.Vec2, b Shape, pb dmath.Vec2) bool {
	if a.Degenerate() || b.Degenerate() {
		return false
	}

	switch {
	case a.Kind == Polyline && b.Kind == Polyline:
		return polylinesIntersect(a.Points, pa, b.Points, pb)
	case a.Kind == Polyline:
		return PolylineIntersectsRect(a.Points, pa, Bounds(b, pb))
	case b.Kind == Polyline:
		return PolylineIntersectsRect(b.Points, pb, Bounds(a, pa))
	}

	a, pa = asArea(a, pa)
	b, pb = asArea(b, pb)

	switch a.Kind {
	case Rectangle:
		switch b.Kind {
		case Rectangle:
			return Bounds(a, pa).Overlaps(Bounds(b, pb))
		case Circle, Point:
			return CircleIntersectsRect(pb, b.radius(), Bounds(a, pa))
		}
	case Circle, Point:
		switch b.Kind {
		case Rectangle:
			return CircleIntersectsRect(pa, a.radius(), Bounds(b, pb))
		case Circle, Point:
			return circlesIntersect(pa, a.radius(), pb, b.radius())
		}
	}
	return false
}

// asArea swaps a polygon for the rectangle covering its points.
func asArea(s Shape, pos dmath.Vec2) (Shape, dmath.Vec2) {
	if s.Kind != Polygon {
		return s, pos
	}
	box := Bounds(s, pos)
	return NewRectangle(box.W, box.H), dmath.Vec2{X: box.X, Y: box.Y}
}

func circlesIntersect(ca dmath.Vec2, ra float64, cb dmath.Vec2, rb float64) bool {
	d := Sub(ca, cb)
	sum := ra + rb
	return LengthSq(d) <= sum*sum
}

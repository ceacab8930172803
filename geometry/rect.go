package geometry

import (
	"math"

	dmath "github.com/yohamta/donburi/features/math"
)

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

func (r Rect) Center() dmath.Vec2 {
	return dmath.Vec2{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

func (r Rect) Translate(v dmath.Vec2) Rect {
	return Rect{X: r.X + v.X, Y: r.Y + v.Y, W: r.W, H: r.H}
}

// Overlaps is the half-open test on [x, x+w) × [y, y+h).
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W &&
		r.X+r.W > o.X &&
		r.Y < o.Y+o.H &&
		r.Y+r.H > o.Y
}

// Contains reports whether p lies inside r using the same half-open bounds as
// Overlaps.
func (r Rect) Contains(p dmath.Vec2) bool {
	return PointInRectangle(p, r)
}

// PointInRectangle reports whether p lies in [x, x+w) × [y, y+h).
func PointInRectangle(p dmath.Vec2, r Rect) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// BoundingBoxOf returns the smallest rectangle holding every point. An empty
// slice yields the zero Rect.
func BoundingBoxOf(points []dmath.Vec2) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// CircleIntersectsRect is boundary inclusive: a circle touching an edge counts.
func CircleIntersectsRect(center dmath.Vec2, radius float64, r Rect) bool {
	closestX := clamp(center.X, r.X, r.X+r.W)
	closestY := clamp(center.Y, r.Y, r.Y+r.H)
	dx := center.X - closestX
	dy := center.Y - closestY
	return dx*dx+dy*dy <= radius*radius
}

func clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

func Sub(a, b dmath.Vec2) dmath.Vec2 {
	return dmath.Vec2{X: a.X - b.X, Y: a.Y - b.Y}
}

func Add(a, b dmath.Vec2) dmath.Vec2 {
	return dmath.Vec2{X: a.X + b.X, Y: a.Y + b.Y}
}

func Scale(v dmath.Vec2, s float64) dmath.Vec2 {
	return dmath.Vec2{X: v.X * s, Y: v.Y * s}
}

func Dot(a, b dmath.Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// Cross is the z component of the 3-D cross product of a and b.
func Cross(a, b dmath.Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

func LengthSq(v dmath.Vec2) float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns v scaled to unit length, or the zero vector when v is zero.
func Normalize(v dmath.Vec2) dmath.Vec2 {
	l := math.Sqrt(LengthSq(v))
	if l == 0 {
		return dmath.Vec2{}
	}
	return dmath.Vec2{X: v.X / l, Y: v.Y / l}
}

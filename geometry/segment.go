package geometry

import (
	"math"

	dmath "github.com/yohamta/donburi/features/math"
)

// SegmentEpsilon keeps exact endpoint touches from counting as crossings, so
// a path that only grazes a corner does not collide.
const SegmentEpsilon = 1e-4

// SegmentsIntersect reports whether segment a1→a2 crosses segment b1→b2.
// Touching at an endpoint is not a crossing, and neither is a collinear overlap
// shorter than SegmentEpsilon.
func SegmentsIntersect(a1, a2, b1, b2 dmath.Vec2) bool {
	r := Sub(a2, a1)
	s := Sub(b2, b1)
	if LengthSq(r) == 0 || LengthSq(s) == 0 {
		return false
	}

	qp := Sub(b1, a1)
	denom := Cross(r, s)

	if math.Abs(denom) < SegmentEpsilon {
		if math.Abs(Cross(qp, r)) >= SegmentEpsilon {
			// parallel, not collinear
			return false
		}
		rr := Dot(r, r)
		t0 := Dot(qp, r) / rr
		t1 := t0 + Dot(s, r)/rr
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		lo := math.Max(t0, 0)
		hi := math.Min(t1, 1)
		return hi-lo > SegmentEpsilon
	}

	t := Cross(qp, s) / denom
	u := Cross(qp, r) / denom
	return t > SegmentEpsilon && t < 1-SegmentEpsilon &&
		u > SegmentEpsilon && u < 1-SegmentEpsilon
}

// SegmentIntersectsRect tests segment p1→p2 against r: a bounding box
// rejection first, then endpoint containment, then each of the four edges.
func SegmentIntersectsRect(p1, p2 dmath.Vec2, r Rect) bool {
	if p1 == p2 {
		return false
	}

	minX, maxX := math.Min(p1.X, p2.X), math.Max(p1.X, p2.X)
	minY, maxY := math.Min(p1.Y, p2.Y), math.Max(p1.Y, p2.Y)
	if maxX < r.X || minX > r.Right() || maxY < r.Y || minY > r.Bottom() {
		return false
	}

	if PointInRectangle(p1, r) || PointInRectangle(p2, r) {
		return true
	}

	tl := dmath.Vec2{X: r.X, Y: r.Y}
	tr := dmath.Vec2{X: r.Right(), Y: r.Y}
	br := dmath.Vec2{X: r.Right(), Y: r.Bottom()}
	bl := dmath.Vec2{X: r.X, Y: r.Bottom()}

	return SegmentsIntersect(p1, p2, tl, tr) ||
		SegmentsIntersect(p1, p2, tr, br) ||
		SegmentsIntersect(p1, p2, br, bl) ||
		SegmentsIntersect(p1, p2, bl, tl)
}

// PolylineIntersectsRect tests every consecutive point pair of the polyline,
// offset by origin, against r.
func PolylineIntersectsRect(points []dmath.Vec2, origin dmath.Vec2, r Rect) bool {
	if len(points) < 2 {
		return false
	}
	for i := 1; i < len(points); i++ {
		if SegmentIntersectsRect(Add(points[i-1], origin), Add(points[i], origin), r) {
			return true
		}
	}
	return false
}

func polylinesIntersect(a []dmath.Vec2, pa dmath.Vec2, b []dmath.Vec2, pb dmath.Vec2) bool {
	if len(a) < 2 || len(b) < 2 {
		return false
	}
	for i := 1; i < len(a); i++ {
		a1, a2 := Add(a[i-1], pa), Add(a[i], pa)
		for j := 1; j < len(b); j++ {
			if SegmentsIntersect(a1, a2, Add(b[j-1], pb), Add(b[j], pb)) {
				return true
			}
		}
	}
	return false
}

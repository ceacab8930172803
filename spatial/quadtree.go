// Package spatial provides a region quadtree for "what is near this point"
// queries over items with axis-aligned bounds.
//
// The tree is owned by a single tick loop and is not safe for concurrent use.
package spatial

import (
	dmath "github.com/yohamta/donburi/features/math"
)

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// overlaps is closed on every edge so zero-area items still land in the
// quadrants that touch them.
func (r Rect) overlaps(o Rect) bool {
	return r.X <= o.X+o.W && r.X+r.W >= o.X && r.Y <= o.Y+o.H && r.Y+r.H >= o.Y
}

func (r Rect) contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.X+o.W <= r.X+r.W && o.Y+o.H <= r.Y+r.H
}

// IntersectsCircle is boundary inclusive.
func (r Rect) IntersectsCircle(center dmath.Vec2, radius float64) bool {
	cx := min(max(center.X, r.X), r.X+r.W)
	cy := min(max(center.Y, r.Y), r.Y+r.H)
	dx := center.X - cx
	dy := center.Y - cy
	return dx*dx+dy*dy <= radius*radius
}

// Item is anything the tree can store.
type Item interface {
	Bounds() Rect
}

type entry[T Item] struct {
	item   T
	bounds Rect
	stamp  uint64
}

type node[T Item] struct {
	bounds   Rect
	depth    int
	items    []*entry[T]
	children *[4]*node[T]
}

// Quadtree stores items in a recursive four-way split of its bounds.
type Quadtree[T Item] struct {
	root     *node[T]
	maxItems int
	maxDepth int
	count    int
	stamp    uint64
}

// New creates an empty tree over bounds. maxItems below 1 is treated as 1 and
// a negative maxDepth as 0 (never subdivide).
func New[T Item](bounds Rect, maxItems, maxDepth int) *Quadtree[T] {
	if maxItems < 1 {
		maxItems = 1
	}
	if maxDepth < 0 {
		maxDepth = 0
	}
	return &Quadtree[T]{
		root:     &node[T]{bounds: bounds},
		maxItems: maxItems,
		maxDepth: maxDepth,
	}
}

func (q *Quadtree[T]) Bounds() Rect { return q.root.bounds }

// Len is the number of inserted items, counting an item once however many
// quadrants hold it.
func (q *Quadtree[T]) Len() int { return q.count }

// Clear drops every item and collapses the tree to its root.
func (q *Quadtree[T]) Clear() {
	q.root = &node[T]{bounds: q.root.bounds}
	q.count = 0
}

// Insert adds item. Items straddling quadrant boundaries are stored in every
// quadrant they overlap; items not fully inside the tree bounds stay at the
// root so queries outside the bounds still see them.
func (q *Quadtree[T]) Insert(item T) {
	e := &entry[T]{item: item, bounds: item.Bounds()}
	q.count++
	if !q.root.bounds.contains(e.bounds) {
		q.root.items = append(q.root.items, e)
		return
	}
	q.insert(q.root, e)
}

func (q *Quadtree[T]) insert(n *node[T], e *entry[T]) {
	if n.children != nil {
		q.insertIntoChildren(n, e)
		return
	}

	if len(n.items) >= q.maxItems && n.depth < q.maxDepth {
		n.subdivide()
		existing := n.items
		n.items = nil
		for _, old := range existing {
			q.insertIntoChildren(n, old)
		}
		q.insertIntoChildren(n, e)
		return
	}

	n.items = append(n.items, e)
}

func (q *Quadtree[T]) insertIntoChildren(n *node[T], e *entry[T]) {
	placed := false
	for _, child := range n.children {
		if child.bounds.overlaps(e.bounds) {
			q.insert(child, e)
			placed = true
		}
	}
	if !placed {
		n.items = append(n.items, e)
	}
}

func (n *node[T]) subdivide() {
	w := n.bounds.W / 2
	h := n.bounds.H / 2
	x, y := n.bounds.X, n.bounds.Y
	d := n.depth + 1
	n.children = &[4]*node[T]{
		{bounds: Rect{X: x, Y: y, W: w, H: h}, depth: d},
		{bounds: Rect{X: x + w, Y: y, W: w, H: h}, depth: d},
		{bounds: Rect{X: x, Y: y + h, W: w, H: h}, depth: d},
		{bounds: Rect{X: x + w, Y: y + h, W: w, H: h}, depth: d},
	}
}

// Query appends to out every item whose bounds intersect the circle and
// returns the extended slice. Each item is reported once.
func (q *Quadtree[T]) Query(center dmath.Vec2, radius float64, out []T) []T {
	q.stamp++
	return q.query(q.root, center, radius, out)
}

func (q *Quadtree[T]) query(n *node[T], center dmath.Vec2, radius float64, out []T) []T {
	for _, e := range n.items {
		if e.stamp == q.stamp {
			continue
		}
		if e.bounds.IntersectsCircle(center, radius) {
			e.stamp = q.stamp
			out = append(out, e.item)
		}
	}
	if n.children == nil {
		return out
	}
	for _, child := range n.children {
		if child.bounds.IntersectsCircle(center, radius) {
			out = q.query(child, center, radius, out)
		}
	}
	return out
}

// Depth is the deepest level reached so far; the root is depth 0.
func (q *Quadtree[T]) Depth() int {
	return q.root.maxDepth()
}

func (n *node[T]) maxDepth() int {
	if n.children == nil {
		return n.depth
	}
	deepest := n.depth
	for _, child := range n.children {
		deepest = max(deepest, child.maxDepth())
	}
	return deepest
}

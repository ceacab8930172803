package spatial

import (
	"math/rand"
	"sort"
	"testing"

	dmath "github.com/yohamta/donburi/features/math"
)

type box struct {
	id int
	r  Rect
}

func (b *box) Bounds() Rect { return b.r }

func randomBoxes(rng *rand.Rand, n int, bounds Rect) []*box {
	boxes := make([]*box, n)
	for i := range boxes {
		w := rng.Float64() * 40
		h := rng.Float64() * 40
		boxes[i] = &box{
			id: i,
			r: Rect{
				X: bounds.X + rng.Float64()*(bounds.W-w),
				Y: bounds.Y + rng.Float64()*(bounds.H-h),
				W: w,
				H: h,
			},
		}
	}
	return boxes
}

func ids(items []*box) []int {
	out := make([]int, len(items))
	for i, b := range items {
		out[i] = b.id
	}
	sort.Ints(out)
	return out
}

func bruteForce(items []*box, center dmath.Vec2, radius float64) []*box {
	var out []*box
	for _, b := range items {
		if b.r.IntersectsCircle(center, radius) {
			out = append(out, b)
		}
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestQueryMatchesLinearScan(t *testing.T) {
	bounds := Rect{X: 0, Y: 0, W: 1024, H: 768}
	cases := []struct {
		name   string
		n      int
		radius float64
		center dmath.Vec2
	}{
		{"empty", 0, 100, dmath.Vec2{X: 500, Y: 300}},
		{"few items wide radius", 10, 400, dmath.Vec2{X: 512, Y: 384}},
		{"many items small radius", 500, 50, dmath.Vec2{X: 200, Y: 600}},
		{"many items on a corner", 800, 120, dmath.Vec2{X: 0, Y: 0}},
		{"query outside bounds", 300, 80, dmath.Vec2{X: 1100, Y: -40}},
	}

	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(int64(i + 1)))
			items := randomBoxes(rng, tc.n, bounds)

			tree := New[*box](bounds, 4, 6)
			for _, b := range items {
				tree.Insert(b)
			}

			got := ids(tree.Query(tc.center, tc.radius, nil))
			want := ids(bruteForce(items, tc.center, tc.radius))
			if !equalInts(got, want) {
				t.Fatalf("query returned %d items %v, linear scan %d items %v", len(got), got, len(want), want)
			}
		})
	}
}

func TestRepeatedQueriesStayConsistent(t *testing.T) {
	bounds := Rect{W: 512, H: 512}
	rng := rand.New(rand.NewSource(42))
	items := randomBoxes(rng, 200, bounds)
	tree := New[*box](bounds, 2, 5)
	for _, b := range items {
		tree.Insert(b)
	}

	for i := 0; i < 50; i++ {
		center := dmath.Vec2{X: rng.Float64() * 512, Y: rng.Float64() * 512}
		radius := rng.Float64() * 100
		got := ids(tree.Query(center, radius, nil))
		want := ids(bruteForce(items, center, radius))
		if !equalInts(got, want) {
			t.Fatalf("query %d at %+v r=%.1f: got %v want %v", i, center, radius, got, want)
		}
	}
}

func TestDepthNeverExceedsLimit(t *testing.T) {
	bounds := Rect{W: 256, H: 256}
	tree := New[*box](bounds, 1, 3)
	// Identical tiny items force the tree to split as deep as it may.
	for i := 0; i < 64; i++ {
		tree.Insert(&box{id: i, r: Rect{X: 10, Y: 10, W: 1, H: 1}})
	}
	if d := tree.Depth(); d > 3 {
		t.Fatalf("Depth = %d, want <= 3", d)
	}
	if tree.Len() != 64 {
		t.Fatalf("Len = %d, want 64", tree.Len())
	}
	if got := len(tree.Query(dmath.Vec2{X: 10, Y: 10}, 1, nil)); got != 64 {
		t.Fatalf("query found %d items, want 64", got)
	}
}

func TestBelowThresholdStaysLeaf(t *testing.T) {
	tree := New[*box](Rect{W: 100, H: 100}, 8, 4)
	for i := 0; i < 8; i++ {
		tree.Insert(&box{id: i, r: Rect{X: float64(i * 10), Y: 5, W: 2, H: 2}})
	}
	if d := tree.Depth(); d != 0 {
		t.Fatalf("Depth = %d, want 0 before the threshold is exceeded", d)
	}
	tree.Insert(&box{id: 8, r: Rect{X: 90, Y: 90, W: 2, H: 2}})
	if d := tree.Depth(); d != 1 {
		t.Fatalf("Depth = %d, want 1 after the ninth insert", d)
	}
}

func TestStraddlingItemReportedOnce(t *testing.T) {
	tree := New[*box](Rect{W: 100, H: 100}, 1, 4)
	tree.Insert(&box{id: 0, r: Rect{X: 10, Y: 10, W: 5, H: 5}})
	// Crosses both split lines, so it lives in all four quadrants.
	tree.Insert(&box{id: 1, r: Rect{X: 40, Y: 40, W: 20, H: 20}})

	got := ids(tree.Query(dmath.Vec2{X: 50, Y: 50}, 100, nil))
	if !equalInts(got, []int{0, 1}) {
		t.Fatalf("got %v, want [0 1]", got)
	}
}

func TestZeroAreaAndOutsideItems(t *testing.T) {
	tree := New[*box](Rect{W: 100, H: 100}, 1, 4)
	tree.Insert(&box{id: 0, r: Rect{X: 50, Y: 50}})
	tree.Insert(&box{id: 1, r: Rect{X: 150, Y: 150, W: 10, H: 10}})
	tree.Insert(&box{id: 2, r: Rect{X: 20, Y: 20, W: 1, H: 1}})

	if got := ids(tree.Query(dmath.Vec2{X: 50, Y: 50}, 0.5, nil)); !equalInts(got, []int{0}) {
		t.Errorf("zero-area item query got %v", got)
	}
	if got := ids(tree.Query(dmath.Vec2{X: 155, Y: 155}, 1, nil)); !equalInts(got, []int{1}) {
		t.Errorf("outside item query got %v", got)
	}
}

func TestClear(t *testing.T) {
	tree := New[*box](Rect{W: 100, H: 100}, 1, 4)
	for i := 0; i < 10; i++ {
		tree.Insert(&box{id: i, r: Rect{X: float64(i * 9), Y: 1, W: 1, H: 1}})
	}
	tree.Clear()
	if tree.Len() != 0 || tree.Depth() != 0 {
		t.Fatalf("after Clear: Len=%d Depth=%d", tree.Len(), tree.Depth())
	}
	if got := tree.Query(dmath.Vec2{X: 50, Y: 50}, 500, nil); len(got) != 0 {
		t.Fatalf("empty tree returned %d items", len(got))
	}
}

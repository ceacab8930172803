package solids

import (
	"testing"

	"github.com/automoto/doomerang-rooms/geometry"
	dmath "github.com/yohamta/donburi/features/math"
)

func TestNavGridWalkable(t *testing.T) {
	g := Build(room(t), DefaultConfig(), nil).NavGrid(16, 16, 2)
	if g.Width != 6 || g.Height != 4 {
		t.Fatalf("grid = %dx%d, want 6x4", g.Width, g.Height)
	}
	walkable := 0
	for _, row := range g.Nodes {
		for _, n := range row {
			if n.Walkable {
				walkable++
			}
		}
	}
	// 24 cells minus the floor row and the wall column.
	if walkable != 15 {
		t.Errorf("walkable cells = %d, want 15", walkable)
	}
	if !g.Walkable(dmath.Vec2{X: 24, Y: 40}) {
		t.Error("cell under the non-solid tile should be walkable")
	}
	if g.Walkable(dmath.Vec2{X: 88, Y: 8}) {
		t.Error("wall cell reported walkable")
	}
}

func TestFindPath(t *testing.T) {
	g := Build(room(t), DefaultConfig(), nil).NavGrid(16, 16, 2)
	path := g.FindPath(dmath.Vec2{X: 8, Y: 8}, dmath.Vec2{X: 72, Y: 40})
	if len(path) != 7 {
		t.Fatalf("path has %d steps, want 7: %v", len(path), path)
	}
	if path[0] != (dmath.Vec2{X: 8, Y: 8}) || path[6] != (dmath.Vec2{X: 72, Y: 40}) {
		t.Errorf("path runs %v -> %v", path[0], path[6])
	}
	for i := 1; i < len(path); i++ {
		d := geometry.Sub(path[i], path[i-1])
		if d.X*d.X+d.Y*d.Y != 256 {
			t.Fatalf("step %d jumps %v", i, d)
		}
	}
}

func TestFindPathGoalInSolid(t *testing.T) {
	g := Build(room(t), DefaultConfig(), nil).NavGrid(16, 16, 2)
	path := g.FindPath(dmath.Vec2{X: 8, Y: 8}, dmath.Vec2{X: 88, Y: 56})
	if len(path) == 0 {
		t.Fatal("no path to the nearest walkable cell")
	}
	if last := path[len(path)-1]; last != (dmath.Vec2{X: 72, Y: 40}) {
		t.Errorf("path ends at %v, want the nearest walkable cell", last)
	}
}

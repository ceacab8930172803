package solids

import (
	"math"
	"testing"

	"github.com/automoto/doomerang-rooms/geometry"
	"github.com/automoto/doomerang-rooms/tilemap"
)

// room is 6x4 tiles of 16px: a floor on the bottom row, a wall on the right
// column and one decorative tile marked solid=false.
func room(t *testing.T) *tilemap.Map {
	t.Helper()
	desc := tilemap.MapDescription{
		Name: "room", Width: 6, Height: 4, TileWidth: 16, TileHeight: 16,
		Tilesets: []tilemap.TilesetDescription{{
			Name: "walls", FirstGID: 1, TileWidth: 16, TileHeight: 16, TileCount: 2, Columns: 2,
			Tiles: []tilemap.TileDescription{{ID: 1, Properties: map[string]any{"solid": false}}},
		}},
		TileLayers: []tilemap.TileLayerDescription{
			{Name: "Solid", Tiles: []uint32{
				0, 0, 0, 0, 0, 1,
				0, 0, 0, 0, 0, 1,
				0, 2, 0, 0, 0, 1,
				1, 1, 1, 1, 1, 1,
			}},
			{Name: "Background", Tiles: []uint32{1, 1, 1, 1, 1, 1}},
		},
	}
	m, err := tilemap.Build(desc)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestBuildCountsSolidTiles(t *testing.T) {
	s := Build(room(t), DefaultConfig(), nil)
	if got := s.Solids(); got != 9 {
		t.Errorf("Solids = %d, want 9", got)
	}
}

func TestLayerPropertyMarksSolid(t *testing.T) {
	m := room(t)
	bg, _ := m.TileLayer("Background")
	bg.Properties = tilemap.Properties{"solid": tilemap.BoolValue(true)}
	s := Build(m, Config{}, nil)
	if got := s.Solids(); got != 6 {
		t.Errorf("Solids = %d, want only the background row", got)
	}
}

func TestFree(t *testing.T) {
	s := Build(room(t), DefaultConfig(), nil)
	cases := []struct {
		name string
		r    geometry.Rect
		want bool
	}{
		{"open air", geometry.Rect{X: 2, Y: 2, W: 10, H: 10}, true},
		{"resting on floor", geometry.Rect{X: 2, Y: 38, W: 10, H: 10}, true},
		{"in floor", geometry.Rect{X: 2, Y: 40, W: 10, H: 10}, false},
		{"in wall", geometry.Rect{X: 75, Y: 2, W: 10, H: 10}, false},
		{"on non-solid tile", geometry.Rect{X: 17, Y: 33, W: 8, H: 8}, true},
		{"outside map", geometry.Rect{X: -5, Y: 2, W: 10, H: 10}, false},
		{"half a pixel into wall", geometry.Rect{X: 68.5, Y: 10, W: 12, H: 12}, false},
		{"half a pixel into floor", geometry.Rect{X: 2, Y: 36.5, W: 12, H: 12}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.Free(tc.r); got != tc.want {
				t.Errorf("Free(%+v) = %v, want %v", tc.r, got, tc.want)
			}
		})
	}
}

func TestMoveStopsAtWall(t *testing.T) {
	s := Build(room(t), DefaultConfig(), nil)
	b := s.NewBody(geometry.Rect{X: 60, Y: 10, W: 10, H: 10})

	moved, bx, by := s.Move(b, 14, 0)
	if !bx || by {
		t.Fatalf("blocked = %v,%v, want x only", bx, by)
	}
	if moved.X != 10 || b.Rect().Right() != 80 {
		t.Errorf("moved %v, right edge %v; want flush at 80", moved.X, b.Rect().Right())
	}
	if !s.Free(b.Rect()) {
		t.Error("body ended inside the wall")
	}
}

func TestMoveLandsOnFloor(t *testing.T) {
	s := Build(room(t), DefaultConfig(), nil)
	b := s.NewBody(geometry.Rect{X: 32, Y: 30, W: 10, H: 10})

	_, _, by := s.Move(b, 0, 12)
	if !by || b.Rect().Bottom() != 48 {
		t.Fatalf("bottom = %v blocked = %v, want 48 and blocked", b.Rect().Bottom(), by)
	}

	// Sliding along the floor is not blocked by it.
	moved, bx, _ := s.Move(b, -4, 0)
	if bx || moved.X != -4 {
		t.Errorf("slide moved %v blocked %v", moved.X, bx)
	}
}

func TestMoveSubPixelGaps(t *testing.T) {
	cases := []struct {
		name   string
		start  geometry.Rect
		dx, dy float64
		edge   func(geometry.Rect) float64
		want   float64
	}{
		{"wall", geometry.Rect{X: 66.5, Y: 10, W: 12, H: 12}, 2, 0, geometry.Rect.Right, 80},
		{"floor", geometry.Rect{X: 32, Y: 35.6, W: 10, H: 12}, 0, 0.8, geometry.Rect.Bottom, 48},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Build(room(t), DefaultConfig(), nil)
			b := s.NewBody(tc.start)
			blocked := false
			for range 12 {
				_, bx, by := s.Move(b, tc.dx, tc.dy)
				blocked = blocked || bx || by
			}
			if got := tc.edge(b.Rect()); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("edge = %.2f, want flush at %v", got, tc.want)
			}
			if !blocked {
				t.Error("move was never blocked")
			}
			if !s.Free(b.Rect()) {
				t.Errorf("body ended inside a solid at %+v", b.Rect())
			}
		})
	}
}

func TestMoveOutOfOverlap(t *testing.T) {
	s := Build(room(t), DefaultConfig(), nil)
	b := s.NewBody(geometry.Rect{X: 70, Y: 10, W: 12, H: 12})

	if moved, bx, _ := s.Move(b, 3, 0); moved.X != 0 || !bx {
		t.Errorf("moving deeper into the wall went %v, blocked %v", moved.X, bx)
	}
	if moved, bx, _ := s.Move(b, -3, 0); moved.X != -3 || bx {
		t.Errorf("backing out of the wall went %v, blocked %v", moved.X, bx)
	}
}

func TestSetCenter(t *testing.T) {
	s := Build(room(t), DefaultConfig(), nil)
	b := s.NewBody(geometry.Rect{W: 10, H: 20})
	b.SetCenter(geometry.Rect{X: 20, Y: 10, W: 10, H: 20}.Center())
	if b.Rect().X != 20 || b.Rect().Y != 10 {
		t.Errorf("rect = %+v", b.Rect())
	}
	s.Remove(b)
}

// Package solids answers position validity against the solid tiles of a map.
// Every occupied cell of a solid tile layer becomes a tagged object in a
// resolv space, and bodies are moved through that space one axis at a time.
package solids

import (
	"github.com/automoto/doomerang-rooms/geometry"
	"github.com/automoto/doomerang-rooms/tags"
	"github.com/automoto/doomerang-rooms/tilemap"
	"github.com/solarlune/resolv"
	dmath "github.com/yohamta/donburi/features/math"
	"go.uber.org/zap"
)

// PropSolid marks a tile layer, or a single tile of a tileset, as solid.
const PropSolid = "solid"

// Config selects the solid layers of a map.
type Config struct {
	// Layers are always solid. Other layers are solid when they carry the
	// solid property.
	Layers []string `toml:"layers"`
}

func DefaultConfig() Config {
	return Config{Layers: []string{"Solid", "Walls"}}
}

// Space holds the solid geometry of one map.
type Space struct {
	space  *resolv.Space
	bounds geometry.Rect
	solids int
}

// Build creates the solid space of m. Tiles whose tileset marks them with
// solid=false are skipped even on solid layers.
func Build(m *tilemap.Map, cfg Config, logger *zap.Logger) *Space {
	if logger == nil {
		logger = zap.NewNop()
	}
	bounds := m.PixelBounds()
	tw, th := m.DrawnTileSize()
	s := &Space{
		space:  resolv.NewSpace(int(bounds.W), int(bounds.H), max(int(tw), 1), max(int(th), 1)),
		bounds: bounds,
	}

	for _, l := range m.TileLayers {
		if !isSolidLayer(l, cfg) {
			continue
		}
		l.Each(func(x, y int, gid uint32) {
			if ts, local, ok := m.ResolveGID(gid); ok && !ts.Properties(local).GetBool(PropSolid, true) {
				return
			}
			pos := m.TileToWorld(x, y)
			obj := resolv.NewObject(pos.X, pos.Y, tw, th, tags.ResolvSolid)
			obj.SetShape(resolv.NewRectangle(0, 0, tw, th))
			s.space.Add(obj)
			s.solids++
		})
	}

	logger.Debug("built solid space",
		zap.String("map", m.Name),
		zap.Int("solid_tiles", s.solids),
		zap.Float64("width", bounds.W),
		zap.Float64("height", bounds.H))
	return s
}

func isSolidLayer(l *tilemap.TileLayer, cfg Config) bool {
	for _, name := range cfg.Layers {
		if l.Name == name {
			return true
		}
	}
	return l.Properties.GetBool(PropSolid, false)
}

// Solids is the number of solid tiles in the space.
func (s *Space) Solids() int { return s.solids }

// Bounds covers the whole map.
func (s *Space) Bounds() geometry.Rect { return s.bounds }

// Free reports whether r lies inside the map and touches no solid tile.
func (s *Space) Free(r geometry.Rect) bool {
	if r.X < s.bounds.X || r.Y < s.bounds.Y || r.Right() > s.bounds.Right() || r.Bottom() > s.bounds.Bottom() {
		return false
	}
	for _, o := range s.solidsNear(r) {
		if r.Overlaps(objectRect(o)) {
			return false
		}
	}
	return true
}

// solidsNear returns every solid object registered in a cell r touches,
// widened by one cell on each side, without duplicates.
func (s *Space) solidsNear(r geometry.Rect) []*resolv.Object {
	x0, y0 := s.space.WorldToSpace(r.X, r.Y)
	x1, y1 := s.space.WorldToSpace(r.Right(), r.Bottom())
	var found []*resolv.Object
	seen := make(map[*resolv.Object]struct{})
	for cy := y0 - 1; cy <= y1+1; cy++ {
		for cx := x0 - 1; cx <= x1+1; cx++ {
			cell := s.space.Cell(cx, cy)
			if cell == nil {
				continue
			}
			for _, o := range cell.Objects {
				if _, ok := seen[o]; ok || !o.HasTags(tags.ResolvSolid) {
					continue
				}
				seen[o] = struct{}{}
				found = append(found, o)
			}
		}
	}
	return found
}

func objectRect(o *resolv.Object) geometry.Rect {
	return geometry.Rect{X: o.X, Y: o.Y, W: o.W, H: o.H}
}

// Body is a movable box in a Space.
type Body struct {
	obj *resolv.Object
}

// NewBody adds a body with its top-left corner at r's.
func (s *Space) NewBody(r geometry.Rect) *Body {
	obj := resolv.NewObject(r.X, r.Y, r.W, r.H, tags.ResolvBody)
	obj.SetShape(resolv.NewRectangle(0, 0, r.W, r.H))
	s.space.Add(obj)
	return &Body{obj: obj}
}

// Remove takes b out of the space.
func (s *Space) Remove(b *Body) {
	s.space.Remove(b.obj)
}

func (b *Body) Rect() geometry.Rect {
	return geometry.Rect{X: b.obj.X, Y: b.obj.Y, W: b.obj.W, H: b.obj.H}
}

// Center is the middle of the body.
func (b *Body) Center() dmath.Vec2 { return b.Rect().Center() }

// SetCenter teleports the body so its centre is at c.
func (b *Body) SetCenter(c dmath.Vec2) {
	b.obj.X = c.X - b.obj.W/2
	b.obj.Y = c.Y - b.obj.H/2
	b.obj.Update()
}

// Move displaces b by (dx, dy), horizontal axis first, stopping flush
// against the nearest solid tile on each axis. It returns the distance
// actually travelled and whether each axis was blocked.
func (s *Space) Move(b *Body, dx, dy float64) (moved dmath.Vec2, blockedX, blockedY bool) {
	obj := b.obj
	if dx != 0 {
		r := b.Rect()
		dx, blockedX = sweep(r, dx, s.solidsNear(swept(r, dx, 0)), true)
		obj.X += dx
		moved.X = dx
	}
	if dy != 0 {
		r := b.Rect()
		dy, blockedY = sweep(r, dy, s.solidsNear(swept(r, 0, dy)), false)
		obj.Y += dy
		moved.Y = dy
	}
	obj.Update()
	return moved, blockedX, blockedY
}

// swept is the area r covers while moving by (dx, dy).
func swept(r geometry.Rect, dx, dy float64) geometry.Rect {
	return geometry.Rect{
		X: min(r.X, r.X+dx),
		Y: min(r.Y, r.Y+dy),
		W: r.W + max(dx, -dx),
		H: r.H + max(dy, -dy),
	}
}

// sweep shortens a move of r by d along one axis so it ends flush with the
// nearest solid in its path. A solid r already overlaps blocks any move
// towards its far side.
func sweep(r geometry.Rect, d float64, hits []*resolv.Object, horizontal bool) (float64, bool) {
	blocked := false
	for _, h := range hits {
		var lo, hi, hlo, hhi float64
		if horizontal {
			if r.Y >= h.Y+h.H || r.Bottom() <= h.Y {
				continue
			}
			lo, hi, hlo, hhi = r.X, r.Right(), h.X, h.X+h.W
		} else {
			if r.X >= h.X+h.W || r.Right() <= h.X {
				continue
			}
			lo, hi, hlo, hhi = r.Y, r.Bottom(), h.Y, h.Y+h.H
		}
		switch {
		case hlo < hi && hhi > lo:
			if (d > 0) == (hlo+hhi > lo+hi) {
				d, blocked = 0, true
			}
		case d > 0 && hlo >= hi:
			if gap := hlo - hi; gap < d {
				d, blocked = gap, true
			}
		case d < 0 && hhi <= lo:
			if gap := hhi - lo; gap > d {
				d, blocked = gap, true
			}
		}
	}
	return d, blocked
}

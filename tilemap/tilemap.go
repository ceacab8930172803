// Package tilemap is the layered map model: tilesets and gid resolution, tile
// layers with animated cells, and object layers of typed collision objects.
//
// Maps are built once from a description (Build, ParseDescriptions) or a
// Tiled TMX file (LoadTMX) and are read-only afterwards, except for
// animation cursors and layer visibility and opacity.
package tilemap

import (
	"errors"
	"image/color"
	"sort"
	"time"

	"github.com/automoto/doomerang-rooms/geometry"
	dmath "github.com/yohamta/donburi/features/math"
)

var (
	ErrMissingField   = errors.New("missing required field")
	ErrInvalidField   = errors.New("invalid field")
	ErrRegionNotFound = errors.New("region not found")
)

// Map is one room: its tilesets, tile layers and object layers.
type Map struct {
	Name          string
	Width         int
	Height        int
	TileWidth     int
	TileHeight    int
	Orientation   string
	Background    color.RGBA
	HasBackground bool
	Properties    Properties

	// Scale is the factor tiles are drawn at; world positions are in drawn
	// pixels.
	Scale float64

	Tilesets     []*Tileset
	TileLayers   []*TileLayer
	ObjectLayers []*ObjectLayer
}

// resolve finds the tileset with the greatest FirstGID not above gid and the
// local id within it. gid 0 and gids past the end of that tileset resolve to
// nothing. tilesets must be sorted by FirstGID.
func resolve(tilesets []*Tileset, gid uint32) (*Tileset, uint32, bool) {
	gid &= gidMask
	if gid == 0 {
		return nil, 0, false
	}
	i := sort.Search(len(tilesets), func(i int) bool {
		return tilesets[i].FirstGID > gid
	})
	if i == 0 {
		return nil, 0, false
	}
	ts := tilesets[i-1]
	if !ts.Contains(gid) {
		return nil, 0, false
	}
	return ts, gid - ts.FirstGID, true
}

// ResolveGID maps a gid to its tileset and local tile id.
func (m *Map) ResolveGID(gid uint32) (*Tileset, uint32, bool) {
	return resolve(m.Tilesets, gid)
}

// Tileset looks a tileset up by name.
func (m *Map) Tileset(name string) (*Tileset, bool) {
	for _, ts := range m.Tilesets {
		if ts.Name == name {
			return ts, true
		}
	}
	return nil, false
}

// UpdateAnimations advances every animated cell by dt.
func (m *Map) UpdateAnimations(dt time.Duration) {
	for _, l := range m.TileLayers {
		l.updateAnimations(dt)
	}
}

func (m *Map) TileLayer(name string) (*TileLayer, bool) {
	for _, l := range m.TileLayers {
		if l.Name == name {
			return l, true
		}
	}
	return nil, false
}

func (m *Map) ObjectLayer(name string) (*ObjectLayer, bool) {
	for _, l := range m.ObjectLayers {
		if l.Name == name {
			return l, true
		}
	}
	return nil, false
}

func (m *Map) ObjectLayerAt(i int) (*ObjectLayer, bool) {
	if i < 0 || i >= len(m.ObjectLayers) {
		return nil, false
	}
	return m.ObjectLayers[i], true
}

// CollectObjects flattens the objects of the named layers, in the order the
// names are given. With no names every layer is collected in map order.
// Unknown names are skipped.
func (m *Map) CollectObjects(layers ...string) []*CollisionObject {
	var out []*CollisionObject
	if len(layers) == 0 {
		for _, l := range m.ObjectLayers {
			out = append(out, l.Objects...)
		}
		return out
	}
	for _, name := range layers {
		if l, ok := m.ObjectLayer(name); ok {
			out = append(out, l.Objects...)
		}
	}
	return out
}

// DrawnTileSize is the on-screen size of one tile.
func (m *Map) DrawnTileSize() (w, h float64) {
	s := m.Scale
	if s <= 0 {
		s = 1
	}
	return float64(m.TileWidth) * s, float64(m.TileHeight) * s
}

// PixelBounds covers the whole map in world pixels.
func (m *Map) PixelBounds() geometry.Rect {
	w, h := m.DrawnTileSize()
	return geometry.Rect{W: w * float64(m.Width), H: h * float64(m.Height)}
}

// WorldToTile converts a world position to tile coordinates. ok is false
// outside the map.
func (m *Map) WorldToTile(pos dmath.Vec2) (x, y int, ok bool) {
	w, h := m.DrawnTileSize()
	if w <= 0 || h <= 0 || pos.X < 0 || pos.Y < 0 {
		return 0, 0, false
	}
	x = int(pos.X / w)
	y = int(pos.Y / h)
	if x >= m.Width || y >= m.Height {
		return 0, 0, false
	}
	return x, y, true
}

// TileToWorld returns the top-left world position of tile (x, y).
func (m *Map) TileToWorld(x, y int) dmath.Vec2 {
	w, h := m.DrawnTileSize()
	return dmath.Vec2{X: float64(x) * w, Y: float64(y) * h}
}

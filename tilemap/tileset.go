package tilemap

import (
	"image"
	"time"
)

// Tiled stores flip and rotation flags in the top bits of a gid.
const (
	FlipHorizontal uint32 = 0x80000000
	FlipVertical   uint32 = 0x40000000
	FlipDiagonal   uint32 = 0x20000000
	RotateHex120   uint32 = 0x10000000

	gidMask = ^(FlipHorizontal | FlipVertical | FlipDiagonal | RotateHex120)
)

// Tileset maps the contiguous gid range [FirstGID, FirstGID+TileCount) onto
// equally sized cells of a region in a shared image.
type Tileset struct {
	Name       string
	FirstGID   uint32
	TileCount  int
	TileWidth  int
	TileHeight int
	Columns    int
	Margin     int
	Spacing    int

	// Image names the texture and Region is the rectangle of it the tiles
	// are cut from.
	Image  string
	Region image.Rectangle

	Animations     map[uint32]*AnimatedTile
	TileProperties map[uint32]Properties
}

// Contains reports whether gid falls inside this tileset's range.
func (ts *Tileset) Contains(gid uint32) bool {
	gid &= gidMask
	return gid >= ts.FirstGID && gid < ts.FirstGID+uint32(ts.TileCount)
}

// SourceRect is the rectangle of local tile id within the tileset image.
func (ts *Tileset) SourceRect(local uint32) image.Rectangle {
	cols := ts.Columns
	if cols <= 0 {
		cols = 1
	}
	col := int(local) % cols
	row := int(local) / cols
	x := ts.Region.Min.X + ts.Margin + col*(ts.TileWidth+ts.Spacing)
	y := ts.Region.Min.Y + ts.Margin + row*(ts.TileHeight+ts.Spacing)
	return image.Rect(x, y, x+ts.TileWidth, y+ts.TileHeight)
}

// Animation returns the animation defined for local tile id, if any.
func (ts *Tileset) Animation(local uint32) (*AnimatedTile, bool) {
	a, ok := ts.Animations[local]
	return a, ok
}

// Properties returns the custom properties of local tile id.
func (ts *Tileset) Properties(local uint32) Properties {
	return ts.TileProperties[local]
}

// AnimationFrame is one step of an animated tile.
type AnimationFrame struct {
	Source   image.Rectangle
	Duration time.Duration
}

// AnimatedTile is the animation shared by every occurrence of a tile.
type AnimatedTile struct {
	Frames []AnimationFrame
}

// AnimatedTileInstance is the animation cursor of one grid cell.
type AnimatedTileInstance struct {
	Tile    *AnimatedTile
	Frame   int
	Elapsed time.Duration
}

// Advance accumulates dt and steps to the next frame once the current frame's
// duration is reached. The accumulator resets rather than carrying the
// remainder, so a call advances at most one frame.
func (a *AnimatedTileInstance) Advance(dt time.Duration) {
	n := len(a.Tile.Frames)
	if n == 0 {
		return
	}
	a.Elapsed += dt
	if a.Elapsed >= a.Tile.Frames[a.Frame].Duration {
		a.Elapsed = 0
		a.Frame = (a.Frame + 1) % n
	}
}

// Source is the image rectangle of the current frame.
func (a *AnimatedTileInstance) Source() image.Rectangle {
	return a.Tile.Frames[a.Frame].Source
}

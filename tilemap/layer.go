package tilemap

import (
	"image"
	"time"
)

// TileLayer is a grid of gids. Cells beyond the end of a short gid slice read
// as empty.
type TileLayer struct {
	ID         int
	Name       string
	Width      int
	Height     int
	Opacity    float64
	Visible    bool
	OffsetX    float64
	OffsetY    float64
	Properties Properties

	gids       []uint32
	animations map[int]*AnimatedTileInstance
	tilesets   []*Tileset
}

func (l *TileLayer) cell(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return 0, false
	}
	i := y*l.Width + x
	if i >= len(l.gids) {
		return 0, false
	}
	return i, true
}

// GID returns the raw gid at (x, y). ok is false outside the grid or past the
// end of a truncated tile array.
func (l *TileLayer) GID(x, y int) (gid uint32, ok bool) {
	i, ok := l.cell(x, y)
	if !ok {
		return 0, false
	}
	return l.gids[i], true
}

// Tile resolves the cell at (x, y) to its tileset and local id. Empty cells
// report false.
func (l *TileLayer) Tile(x, y int) (*Tileset, uint32, bool) {
	gid, ok := l.GID(x, y)
	if !ok {
		return nil, 0, false
	}
	return resolve(l.tilesets, gid)
}

// SourceRect is what a renderer should draw for (x, y): the current frame of
// an animated cell, otherwise the static tile region.
func (l *TileLayer) SourceRect(x, y int) (image.Rectangle, bool) {
	i, ok := l.cell(x, y)
	if !ok {
		return image.Rectangle{}, false
	}
	if inst, ok := l.animations[i]; ok {
		return inst.Source(), true
	}
	ts, local, ok := resolve(l.tilesets, l.gids[i])
	if !ok {
		return image.Rectangle{}, false
	}
	return ts.SourceRect(local), true
}

// Animation returns the cursor of an animated cell.
func (l *TileLayer) Animation(x, y int) (*AnimatedTileInstance, bool) {
	i, ok := l.cell(x, y)
	if !ok {
		return nil, false
	}
	inst, ok := l.animations[i]
	return inst, ok
}

// AnimatedCells is the number of cells carrying an animation cursor.
func (l *TileLayer) AnimatedCells() int { return len(l.animations) }

func (l *TileLayer) SetVisible(visible bool) { l.Visible = visible }

// SetOpacity clamps to [0, 1].
func (l *TileLayer) SetOpacity(opacity float64) {
	l.Opacity = min(max(opacity, 0), 1)
}

// Each calls fn for every non-empty cell in row-major order.
func (l *TileLayer) Each(fn func(x, y int, gid uint32)) {
	n := min(len(l.gids), l.Width*l.Height)
	for i := 0; i < n; i++ {
		if gid := l.gids[i] & gidMask; gid != 0 {
			fn(i%l.Width, i/l.Width, gid)
		}
	}
}

func (l *TileLayer) updateAnimations(dt time.Duration) {
	for _, inst := range l.animations {
		inst.Advance(dt)
	}
}

// bindAnimations creates a cursor for each cell whose tile is animated.
// Static cells get none.
func (l *TileLayer) bindAnimations() {
	l.animations = nil
	l.Each(func(x, y int, gid uint32) {
		ts, local, ok := resolve(l.tilesets, gid)
		if !ok {
			return
		}
		anim, ok := ts.Animation(local)
		if !ok {
			return
		}
		if l.animations == nil {
			l.animations = make(map[int]*AnimatedTileInstance)
		}
		l.animations[y*l.Width+x] = &AnimatedTileInstance{Tile: anim}
	})
}

package tilemap

import "image"

// RegionLookup resolves the named texture regions tilesets cut their tiles
// from. The renderer owns the textures; the map only needs the rectangles.
type RegionLookup interface {
	Region(name string) (image.Rectangle, bool)
}

// Atlas is a RegionLookup backed by a map.
type Atlas map[string]image.Rectangle

func (a Atlas) Region(name string) (image.Rectangle, bool) {
	r, ok := a[name]
	return r, ok
}

// Package assets embeds the demo rooms the simulator runs when no map
// directory is given.
package assets

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/automoto/doomerang-rooms/tilemap"
)

//go:embed all:maps
var assetFS embed.FS

// MapsDir is the directory inside FS holding the demo maps.
const MapsDir = "maps"

// FS exposes the embedded files.
func FS() fs.FS { return assetFS }

type MapLoader struct {
	opts []tilemap.Option
}

func NewMapLoader(opts ...tilemap.Option) *MapLoader {
	return &MapLoader{opts: opts}
}

// LoadMaps builds every embedded map, keyed by name, and returns the sorted
// names.
func (l *MapLoader) LoadMaps() (map[string]*tilemap.Map, []string, error) {
	return tilemap.LoadDir(assetFS, MapsDir, l.opts...)
}

// MustLoadMaps is LoadMaps for callers that can't recover from broken
// embedded data.
func (l *MapLoader) MustLoadMaps() (map[string]*tilemap.Map, []string) {
	maps, names, err := l.LoadMaps()
	if err != nil {
		panic(fmt.Sprintf("Failed to load embedded maps: %v", err))
	}
	return maps, names
}

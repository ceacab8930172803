package tilemap

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/lafriks/go-tiled"
)

// LoadTMX parses a Tiled map from fsys and builds it. The map is named after
// the file stem. External tilesets and images are resolved relative to the
// map inside fsys, so embed.FS and os.DirFS both work.
func LoadTMX(fsys fs.FS, tmxPath string, opts ...Option) (*Map, error) {
	tm, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}
	desc := describeTMX(tm, stem(tmxPath))
	return Build(desc, opts...)
}

func stem(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}

func describeTMX(tm *tiled.Map, name string) MapDescription {
	desc := MapDescription{
		Name:        name,
		Width:       tm.Width,
		Height:      tm.Height,
		TileWidth:   tm.TileWidth,
		TileHeight:  tm.TileHeight,
		Orientation: tm.Orientation,
		Properties:  tiledProperties(tm.Properties),
	}

	for _, ts := range tm.Tilesets {
		td := TilesetDescription{
			Name:       ts.Name,
			FirstGID:   ts.FirstGID,
			TileWidth:  ts.TileWidth,
			TileHeight: ts.TileHeight,
			TileCount:  ts.TileCount,
			Columns:    ts.Columns,
			Margin:     ts.Margin,
			Spacing:    ts.Spacing,
		}
		if ts.Image != nil {
			td.Image = ts.Image.Source
		}
		for _, t := range ts.Tiles {
			tile := TileDescription{ID: t.ID, Properties: tiledProperties(t.Properties)}
			for _, f := range t.Animation {
				tile.Animation = append(tile.Animation, FrameDescription{
					TileID:   f.TileID,
					Duration: int(f.Duration),
				})
			}
			td.Tiles = append(td.Tiles, tile)
		}
		desc.Tilesets = append(desc.Tilesets, td)
	}

	for _, l := range tm.Layers {
		opacity := float64(l.Opacity)
		visible := l.Visible
		ld := TileLayerDescription{
			ID:         int(l.ID),
			Name:       l.Name,
			Width:      tm.Width,
			Height:     tm.Height,
			Opacity:    &opacity,
			Visible:    &visible,
			OffsetX:    float64(l.OffsetX),
			OffsetY:    float64(l.OffsetY),
			Properties: tiledProperties(l.Properties),
			Tiles:      make([]uint32, len(l.Tiles)),
		}
		for i, t := range l.Tiles {
			if t == nil || t.IsNil() {
				continue
			}
			gid := t.Tileset.FirstGID + t.ID
			if t.HorizontalFlip {
				gid |= FlipHorizontal
			}
			if t.VerticalFlip {
				gid |= FlipVertical
			}
			if t.DiagonalFlip {
				gid |= FlipDiagonal
			}
			ld.Tiles[i] = gid
		}
		desc.TileLayers = append(desc.TileLayers, ld)
	}

	for _, og := range tm.ObjectGroups {
		opacity := float64(og.Opacity)
		visible := og.Visible
		ld := ObjectLayerDescription{
			ID:         int(og.ID),
			Name:       og.Name,
			Visible:    &visible,
			Opacity:    &opacity,
			Properties: tiledProperties(og.Properties),
		}
		for _, o := range og.Objects {
			ld.Objects = append(ld.Objects, describeTMXObject(o))
		}
		desc.ObjectLayers = append(desc.ObjectLayers, ld)
	}
	return desc
}

func describeTMXObject(o *tiled.Object) ObjectDescription {
	typ := o.Class
	if typ == "" {
		typ = o.Type //nolint:staticcheck // older maps use type=
	}
	od := ObjectDescription{
		ID:         int(o.ID),
		Name:       o.Name,
		Type:       typ,
		X:          o.X,
		Y:          o.Y,
		Width:      o.Width,
		Height:     o.Height,
		Rotation:   o.Rotation,
		GID:        o.GID,
		Ellipse:    len(o.Ellipses) > 0,
		Properties: tiledProperties(o.Properties),
	}
	if len(o.Polygons) > 0 {
		od.Polygon = tiledPoints(o.Polygons[0].Points)
	}
	if len(o.PolyLines) > 0 {
		od.Polyline = tiledPoints(o.PolyLines[0].Points)
	}
	if o.Text != nil {
		od.Text = &TextDescription{Content: o.Text.Text}
	}
	return od
}

func tiledPoints(pts *tiled.Points) []PointDescription {
	out := []PointDescription{}
	if pts == nil {
		return out
	}
	for _, p := range *pts {
		out = append(out, PointDescription{X: p.X, Y: p.Y})
	}
	return out
}

// tiledProperties flattens go-tiled properties into the description form,
// keeping their declared type. go-tiled hands some property lists out by
// pointer and some by value.
func tiledProperties(p any) map[string]any {
	var list tiled.Properties
	switch v := p.(type) {
	case tiled.Properties:
		list = v
	case *tiled.Properties:
		if v != nil {
			list = *v
		}
	}
	if len(list) == 0 {
		return nil
	}
	out := make(map[string]any, len(list))
	for _, prop := range list {
		if prop == nil {
			continue
		}
		v := parseTyped(prop.Type, prop.Value)
		switch v.Kind {
		case IntKind:
			out[prop.Name] = v.Int
		case FloatKind:
			out[prop.Name] = v.Float
		case BoolKind:
			out[prop.Name] = v.Bool
		default:
			out[prop.Name] = v.Str
		}
	}
	return out
}

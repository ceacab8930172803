package tilemap

import (
	"fmt"
	"image"
	"image/color"
	"sort"
	"strconv"
	"strings"
	"time"

	dmath "github.com/yohamta/donburi/features/math"
)

type buildOptions struct {
	regions RegionLookup
	scale   float64
}

// Option customises Build and the loaders.
type Option func(*buildOptions)

// WithRegions makes every tileset resolve its region through lookup. Without
// it a tileset's region is the grid its columns and tile count describe,
// starting at the image origin.
func WithRegions(lookup RegionLookup) Option {
	return func(o *buildOptions) { o.regions = lookup }
}

// WithScale sets the factor tiles are drawn at.
func WithScale(scale float64) Option {
	return func(o *buildOptions) { o.scale = scale }
}

func missing(field string) error {
	return fmt.Errorf("%w %q", ErrMissingField, field)
}

func invalid(field string, value any) error {
	return fmt.Errorf("%w %q: %v", ErrInvalidField, field, value)
}

// Build validates desc and turns it into a Map. Validation stops at the first
// problem; the error names the map and the offending field.
func Build(desc MapDescription, opts ...Option) (*Map, error) {
	o := buildOptions{scale: 1}
	for _, opt := range opts {
		opt(&o)
	}

	if desc.Name == "" {
		return nil, fmt.Errorf("map: %w", missing("name"))
	}
	m, err := buildMap(desc, o)
	if err != nil {
		return nil, fmt.Errorf("map %q: %w", desc.Name, err)
	}
	return m, nil
}

func buildMap(desc MapDescription, o buildOptions) (*Map, error) {
	switch {
	case desc.Width <= 0:
		return nil, missing("width")
	case desc.Height <= 0:
		return nil, missing("height")
	case desc.TileWidth <= 0:
		return nil, missing("tileWidth")
	case desc.TileHeight <= 0:
		return nil, missing("tileHeight")
	}
	if o.scale <= 0 {
		return nil, invalid("scale", o.scale)
	}

	m := &Map{
		Name:        desc.Name,
		Width:       desc.Width,
		Height:      desc.Height,
		TileWidth:   desc.TileWidth,
		TileHeight:  desc.TileHeight,
		Orientation: desc.Orientation,
		Properties:  propertiesFrom(desc.Properties),
		Scale:       o.scale,
	}
	if m.Orientation == "" {
		m.Orientation = "orthogonal"
	}

	if desc.BackgroundColor != "" {
		c, err := parseHexColor(desc.BackgroundColor)
		if err != nil {
			return nil, invalid("backgroundColor", desc.BackgroundColor)
		}
		m.Background = c
		m.HasBackground = true
	}

	for i, td := range desc.Tilesets {
		ts, err := buildTileset(td, o.regions)
		if err != nil {
			return nil, fmt.Errorf("tileset %d: %w", i, err)
		}
		m.Tilesets = append(m.Tilesets, ts)
	}
	sort.SliceStable(m.Tilesets, func(i, j int) bool {
		return m.Tilesets[i].FirstGID < m.Tilesets[j].FirstGID
	})

	for i, ld := range desc.TileLayers {
		l, err := buildTileLayer(ld, m)
		if err != nil {
			return nil, fmt.Errorf("tile layer %d: %w", i, err)
		}
		m.TileLayers = append(m.TileLayers, l)
	}

	for i, ld := range desc.ObjectLayers {
		l, err := buildObjectLayer(ld)
		if err != nil {
			return nil, fmt.Errorf("object layer %d: %w", i, err)
		}
		m.ObjectLayers = append(m.ObjectLayers, l)
	}

	return m, nil
}

func buildTileset(td TilesetDescription, regions RegionLookup) (*Tileset, error) {
	switch {
	case td.Name == "":
		return nil, missing("name")
	case td.FirstGID == 0:
		return nil, missing("firstGid")
	case td.TileWidth <= 0:
		return nil, missing("tileWidth")
	case td.TileHeight <= 0:
		return nil, missing("tileHeight")
	case td.TileCount <= 0:
		return nil, missing("tileCount")
	case td.Margin < 0:
		return nil, invalid("margin", td.Margin)
	case td.Spacing < 0:
		return nil, invalid("spacing", td.Spacing)
	}

	ts := &Tileset{
		Name:       td.Name,
		FirstGID:   td.FirstGID,
		TileCount:  td.TileCount,
		TileWidth:  td.TileWidth,
		TileHeight: td.TileHeight,
		Columns:    td.Columns,
		Margin:     td.Margin,
		Spacing:    td.Spacing,
		Image:      td.Image,
	}

	regionName := td.Region
	if regionName == "" {
		regionName = td.Image
	}
	if regions != nil {
		if regionName == "" {
			return nil, fmt.Errorf("tileset %q: %w", td.Name, missing("region"))
		}
		r, ok := regions.Region(regionName)
		if !ok {
			return nil, fmt.Errorf("tileset %q: %w: %q", td.Name, ErrRegionNotFound, regionName)
		}
		ts.Region = r
		if ts.Columns <= 0 {
			ts.Columns = (r.Dx() - 2*ts.Margin + ts.Spacing) / (ts.TileWidth + ts.Spacing)
		}
	}
	if ts.Columns <= 0 {
		return nil, fmt.Errorf("tileset %q: %w", td.Name, missing("columns"))
	}
	if regions == nil {
		rows := (ts.TileCount + ts.Columns - 1) / ts.Columns
		ts.Region = image.Rect(0, 0,
			2*ts.Margin+ts.Columns*(ts.TileWidth+ts.Spacing)-ts.Spacing,
			2*ts.Margin+rows*(ts.TileHeight+ts.Spacing)-ts.Spacing)
	}

	for _, tile := range td.Tiles {
		if int(tile.ID) >= ts.TileCount {
			return nil, fmt.Errorf("tileset %q: %w", td.Name, invalid("tiles.id", tile.ID))
		}
		if len(tile.Properties) > 0 {
			if ts.TileProperties == nil {
				ts.TileProperties = make(map[uint32]Properties)
			}
			ts.TileProperties[tile.ID] = propertiesFrom(tile.Properties)
		}
		// A single frame is a static tile.
		if len(tile.Animation) < 2 {
			continue
		}
		anim := &AnimatedTile{Frames: make([]AnimationFrame, 0, len(tile.Animation))}
		for _, f := range tile.Animation {
			if int(f.TileID) >= ts.TileCount {
				return nil, fmt.Errorf("tileset %q: tile %d: %w", td.Name, tile.ID, invalid("animation.tileId", f.TileID))
			}
			if f.Duration < 0 {
				return nil, fmt.Errorf("tileset %q: tile %d: %w", td.Name, tile.ID, invalid("animation.duration", f.Duration))
			}
			anim.Frames = append(anim.Frames, AnimationFrame{
				Source:   ts.SourceRect(f.TileID),
				Duration: time.Duration(f.Duration) * time.Millisecond,
			})
		}
		if ts.Animations == nil {
			ts.Animations = make(map[uint32]*AnimatedTile)
		}
		ts.Animations[tile.ID] = anim
	}

	return ts, nil
}

func buildTileLayer(ld TileLayerDescription, m *Map) (*TileLayer, error) {
	if ld.Name == "" {
		return nil, missing("name")
	}
	w, h := ld.Width, ld.Height
	if w == 0 && h == 0 {
		w, h = m.Width, m.Height
	}
	if w <= 0 {
		return nil, fmt.Errorf("layer %q: %w", ld.Name, missing("width"))
	}
	if h <= 0 {
		return nil, fmt.Errorf("layer %q: %w", ld.Name, missing("height"))
	}

	l := &TileLayer{
		ID:         ld.ID,
		Name:       ld.Name,
		Width:      w,
		Height:     h,
		Opacity:    1,
		Visible:    true,
		OffsetX:    ld.OffsetX,
		OffsetY:    ld.OffsetY,
		Properties: propertiesFrom(ld.Properties),
		gids:       ld.Tiles,
		tilesets:   m.Tilesets,
	}
	if ld.Opacity != nil {
		l.SetOpacity(*ld.Opacity)
	}
	if ld.Visible != nil {
		l.Visible = *ld.Visible
	}
	l.bindAnimations()
	return l, nil
}

func buildObjectLayer(ld ObjectLayerDescription) (*ObjectLayer, error) {
	if ld.Name == "" {
		return nil, missing("name")
	}
	l := &ObjectLayer{
		ID:         ld.ID,
		Name:       ld.Name,
		Visible:    true,
		Opacity:    1,
		Properties: propertiesFrom(ld.Properties),
	}
	if ld.Visible != nil {
		l.Visible = *ld.Visible
	}
	if ld.Opacity != nil {
		l.SetOpacity(*ld.Opacity)
	}
	for i, od := range ld.Objects {
		obj, err := buildObject(od)
		if err != nil {
			return nil, fmt.Errorf("layer %q: object %d: %w", ld.Name, i, err)
		}
		l.Objects = append(l.Objects, obj)
	}
	return l, nil
}

func buildObject(od ObjectDescription) (*CollisionObject, error) {
	kind, err := objectKind(od)
	if err != nil {
		return nil, err
	}
	if od.Width < 0 || od.Height < 0 {
		return nil, invalid("size", fmt.Sprintf("%gx%g", od.Width, od.Height))
	}

	obj := &CollisionObject{
		ID:         od.ID,
		Name:       od.Name,
		Type:       od.Type,
		Kind:       kind,
		X:          od.X,
		Y:          od.Y,
		Width:      od.Width,
		Height:     od.Height,
		Rotation:   od.Rotation,
		GID:        od.GID,
		Visible:    true,
		Properties: propertiesFrom(od.Properties),
	}
	if od.Visible != nil {
		obj.Visible = *od.Visible
	}
	if od.Text != nil {
		obj.Text = od.Text.Content
	}

	var pts []PointDescription
	switch kind {
	case ShapePolygon:
		pts = od.Polygon
	case ShapePolyline:
		pts = od.Polyline
	}
	if len(pts) > 0 {
		obj.Points = make([]dmath.Vec2, len(pts))
		for i, p := range pts {
			obj.Points[i] = dmath.Vec2{X: p.X, Y: p.Y}
		}
	}
	return obj, nil
}

// objectKind uses objectType when present and otherwise infers the shape from
// which fields are set.
func objectKind(od ObjectDescription) (ShapeKind, error) {
	if od.ObjectType != "" {
		k, ok := ParseShapeKind(od.ObjectType)
		if !ok {
			return 0, invalid("objectType", od.ObjectType)
		}
		return k, nil
	}
	switch {
	case od.Polygon != nil:
		return ShapePolygon, nil
	case od.Polyline != nil:
		return ShapePolyline, nil
	case od.Ellipse:
		return ShapeEllipse, nil
	case od.Point:
		return ShapePoint, nil
	case od.Text != nil:
		return ShapeText, nil
	case od.GID != 0:
		return ShapeTile, nil
	case od.Width == 0 && od.Height == 0:
		return ShapePoint, nil
	}
	return ShapeRectangle, nil
}

// parseHexColor accepts #RRGGBB and Tiled's #AARRGGBB.
func parseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	c := color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
	if len(hex) == 8 {
		c.A = uint8(v >> 24)
	}
	return c, nil
}

package tilemap

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// MapDescription is the on-disk form of one map. Descriptions are YAML; JSON
// documents decode the same way.
type MapDescription struct {
	Name            string                   `yaml:"name"`
	Width           int                      `yaml:"width"`
	Height          int                      `yaml:"height"`
	TileWidth       int                      `yaml:"tileWidth"`
	TileHeight      int                      `yaml:"tileHeight"`
	Orientation     string                   `yaml:"orientation"`
	BackgroundColor string                   `yaml:"backgroundColor"`
	Properties      map[string]any           `yaml:"properties"`
	Tilesets        []TilesetDescription     `yaml:"tilesets"`
	TileLayers      []TileLayerDescription   `yaml:"tileLayers"`
	ObjectLayers    []ObjectLayerDescription `yaml:"objectLayers"`
}

type TilesetDescription struct {
	Name       string            `yaml:"name"`
	FirstGID   uint32            `yaml:"firstGid"`
	TileWidth  int               `yaml:"tileWidth"`
	TileHeight int               `yaml:"tileHeight"`
	TileCount  int               `yaml:"tileCount"`
	Columns    int               `yaml:"columns"`
	Margin     int               `yaml:"margin"`
	Spacing    int               `yaml:"spacing"`
	Image      string            `yaml:"image"`
	Region     string            `yaml:"region"`
	Tiles      []TileDescription `yaml:"tiles"`
}

// TileDescription carries per-tile data keyed by local id.
type TileDescription struct {
	ID         uint32             `yaml:"id"`
	Properties map[string]any     `yaml:"properties"`
	Animation  []FrameDescription `yaml:"animation"`
}

// FrameDescription is one animation frame; Duration is in milliseconds.
type FrameDescription struct {
	TileID   uint32 `yaml:"tileId"`
	Duration int    `yaml:"duration"`
}

type TileLayerDescription struct {
	ID         int            `yaml:"id"`
	Name       string         `yaml:"name"`
	Width      int            `yaml:"width"`
	Height     int            `yaml:"height"`
	Opacity    *float64       `yaml:"opacity"`
	Visible    *bool          `yaml:"visible"`
	OffsetX    float64        `yaml:"offsetX"`
	OffsetY    float64        `yaml:"offsetY"`
	Properties map[string]any `yaml:"properties"`
	Tiles      []uint32       `yaml:"tiles"`
}

type ObjectLayerDescription struct {
	ID         int                 `yaml:"id"`
	Name       string              `yaml:"name"`
	Visible    *bool               `yaml:"visible"`
	Opacity    *float64            `yaml:"opacity"`
	Properties map[string]any      `yaml:"properties"`
	Objects    []ObjectDescription `yaml:"objects"`
}

type ObjectDescription struct {
	ID         int                `yaml:"id"`
	Name       string             `yaml:"name"`
	Type       string             `yaml:"type"`
	ObjectType string             `yaml:"objectType"`
	X          float64            `yaml:"x"`
	Y          float64            `yaml:"y"`
	Width      float64            `yaml:"width"`
	Height     float64            `yaml:"height"`
	Rotation   float64            `yaml:"rotation"`
	GID        uint32             `yaml:"gid"`
	Visible    *bool              `yaml:"visible"`
	Ellipse    bool               `yaml:"ellipse"`
	Point      bool               `yaml:"point"`
	Polygon    []PointDescription `yaml:"polygon"`
	Polyline   []PointDescription `yaml:"polyline"`
	Text       *TextDescription   `yaml:"text"`
	Properties map[string]any     `yaml:"properties"`
}

type PointDescription struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type TextDescription struct {
	Content string `yaml:"content"`
}

// ParseDescriptions decodes a sequence of map descriptions. A document holding
// a single map object is accepted too. source names the input in errors.
func ParseDescriptions(r io.Reader, source string) ([]MapDescription, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read map description %s: %w", source, err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("parse map description %s: empty document", source)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("parse map description %s: %w", source, err)
	}
	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	var descs []MapDescription
	switch root.Kind {
	case yaml.SequenceNode:
		err = root.Decode(&descs)
	case yaml.MappingNode:
		var one MapDescription
		err = root.Decode(&one)
		descs = []MapDescription{one}
	default:
		err = fmt.Errorf("expected a list of maps")
	}
	if err != nil {
		return nil, fmt.Errorf("parse map description %s: %w", source, err)
	}
	return descs, nil
}

// LoadDescriptions reads and decodes the description file at name in fsys.
func LoadDescriptions(fsys fs.FS, name string) ([]MapDescription, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open map description %s: %w", name, err)
	}
	defer f.Close()
	return ParseDescriptions(f, name)
}

// IsDescriptionFile reports whether name has an extension LoadDir reads as a
// description.
func IsDescriptionFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// IsTMXFile reports whether name is a Tiled map.
func IsTMXFile(name string) bool {
	return strings.EqualFold(path.Ext(name), ".tmx")
}

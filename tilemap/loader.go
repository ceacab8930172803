package tilemap

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
)

// LoadDir loads every map in dir: each .tmx file becomes one map named after
// its stem, and each description file may hold several maps. It returns the
// maps keyed by name and the sorted names. A name defined twice is an error.
func LoadDir(fsys fs.FS, dir string, opts ...Option) (map[string]*Map, []string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read map dir %s: %w", dir, err)
	}

	maps := make(map[string]*Map)
	add := func(m *Map, source string) error {
		if _, dup := maps[m.Name]; dup {
			return fmt.Errorf("map %q in %s: defined twice", m.Name, source)
		}
		maps[m.Name] = m
		return nil
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p := path.Join(dir, e.Name())
		switch {
		case IsTMXFile(p):
			m, err := LoadTMX(fsys, p, opts...)
			if err != nil {
				return nil, nil, err
			}
			if err := add(m, p); err != nil {
				return nil, nil, err
			}
		case IsDescriptionFile(p):
			descs, err := LoadDescriptions(fsys, p)
			if err != nil {
				return nil, nil, err
			}
			for _, d := range descs {
				m, err := Build(d, opts...)
				if err != nil {
					return nil, nil, fmt.Errorf("%s: %w", p, err)
				}
				if err := add(m, p); err != nil {
					return nil, nil, err
				}
			}
		}
	}
	if len(maps) == 0 {
		return nil, nil, fmt.Errorf("no maps found in %s", dir)
	}

	names := make([]string, 0, len(maps))
	for name := range maps {
		names = append(names, name)
	}
	sort.Strings(names)
	return maps, names, nil
}

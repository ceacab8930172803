package assets

import (
	"strings"
	"testing"

	"github.com/automoto/doomerang-rooms/tilemap"
)

func TestLoadMaps(t *testing.T) {
	maps, names, err := NewMapLoader().LoadMaps()
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(names, ","); got != "cave,hub,vault" {
		t.Fatalf("names = %s", got)
	}
	for name, m := range maps {
		if _, ok := m.TileLayer("Walls"); !ok {
			t.Errorf("%s has no Walls layer", name)
		}
		if floor, ok := m.TileLayer("Floor"); !ok || floor.AnimatedCells() != 1 {
			t.Errorf("%s should have one torch on its floor", name)
		}
	}
}

// Every exit must lead to a loaded room and name an exit there.
func TestExitsConnect(t *testing.T) {
	maps, _, err := NewMapLoader().LoadMaps()
	if err != nil {
		t.Fatal(err)
	}
	for name, m := range maps {
		exits := m.CollectObjects("Exits")
		if len(exits) < 2 {
			t.Errorf("%s has %d exits", name, len(exits))
		}
		for _, exit := range exits {
			if !strings.HasPrefix(exit.Name, "Exit") {
				continue
			}
			target, ok := maps[exit.Properties.GetString("targetRoom", "")]
			if !ok {
				t.Errorf("%s/%s leads nowhere", name, exit.Name)
				continue
			}
			entrance := exit.Properties.GetString("entranceExit", "")
			if !hasObject(target, entrance) {
				t.Errorf("%s/%s enters %s at missing %q", name, exit.Name, target.Name, entrance)
			}
		}
	}
}

func TestScaledMaps(t *testing.T) {
	maps, _ := NewMapLoader(tilemap.WithScale(2)).MustLoadMaps()
	if b := maps["hub"].PixelBounds(); b.W != 320 || b.H != 256 {
		t.Errorf("scaled hub bounds = %+v", b)
	}
}

func hasObject(m *tilemap.Map, name string) bool {
	for _, o := range m.CollectObjects() {
		if o.Name == name {
			return true
		}
	}
	return false
}

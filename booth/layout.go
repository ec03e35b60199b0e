package booth

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Zone is one named area of the venue. Rows lists the aisle characters that
// belong to it; a code belongs to the zone when its hall character is the
// first character of Name and its row character appears in Rows.
type Zone struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	Rows string `yaml:"rows" json:"rows"`
}

func (z Zone) Hall() rune {
	for _, r := range z.Name {
		return r
	}
	return 0
}

func (z Zone) HasRow(row rune) bool {
	return row != 0 && strings.ContainsRune(z.Rows, row)
}

// Layout is the ordered zone table. Order matters: the first zone that
// matches a code wins.
type Layout struct {
	Zones []Zone `yaml:"zones" json:"zones"`
}

func DefaultLayout() Layout {
	return Layout{Zones: []Zone{
		{ID: "e456", Name: "東456", Rows: "アイウエオカキクケコサシスセソタチツテトナニヌネノハヒフヘホマミムメモヤユヨ"},
		{ID: "e7", Name: "東7", Rows: "ABCDEFGHIJKLMNOPQRSTUVWXYZ"},
		{ID: "w12", Name: "西12", Rows: "あいうえおかきくけこさしすせそたちつてとなにぬねのはひふへほまみむめ"},
		{ID: "s12", Name: "南12", Rows: "abcdefghijklmnopqrstuvwxyz"},
	}}
}

func ParseLayout(data []byte) (Layout, error) {
	var layout Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return Layout{}, fmt.Errorf("decode layout: %w", err)
	}
	for i := range layout.Zones {
		layout.Zones[i].Name = strings.TrimSpace(layout.Zones[i].Name)
		if layout.Zones[i].ID == "" {
			layout.Zones[i].ID = layout.Zones[i].Name
		}
	}
	if err := layout.Validate(); err != nil {
		return Layout{}, err
	}
	return layout, nil
}

func (l Layout) Encode() ([]byte, error) {
	return yaml.Marshal(l)
}

func (l Layout) Validate() error {
	if len(l.Zones) == 0 {
		return fmt.Errorf("layout has no zones")
	}
	seen := map[string]struct{}{}
	for i, zone := range l.Zones {
		if zone.Name == "" {
			return fmt.Errorf("zone %d: name is required", i)
		}
		if zone.Rows == "" {
			return fmt.Errorf("zone %q: rows are required", zone.Name)
		}
		if _, ok := seen[zone.ID]; ok {
			return fmt.Errorf("zone %q: duplicate id %q", zone.Name, zone.ID)
		}
		seen[zone.ID] = struct{}{}
	}
	return nil
}

// Lookup returns the first zone accepting the hall/row pair, or nil.
func (l Layout) Lookup(hall, row rune) *Zone {
	if hall == 0 || row == 0 {
		return nil
	}
	for i := range l.Zones {
		zone := &l.Zones[i]
		if zone.Hall() == hall && zone.HasRow(row) {
			return zone
		}
	}
	return nil
}

func (l Layout) ZoneNames() []string {
	names := make([]string, 0, len(l.Zones))
	for _, zone := range l.Zones {
		names = append(names, zone.Name)
	}
	return names
}

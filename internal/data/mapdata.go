package data

// MapEntry holds metadata for a single map, loaded from map_list.yaml.
type MapEntry struct {
	ID          uint32  `yaml:"map_id"`
	Name        string  `yaml:"name"`
	Dungeon     bool    `yaml:"dungeon"`
	EntranceMap int32   `yaml:"entrance_map"` // -1 = none
	EntranceX   float32 `yaml:"entrance_x"`
	EntranceY   float32 `yaml:"entrance_y"`
	EntranceZ   float32 `yaml:"entrance_z"` // ground height at the entrance
}

// HasEntrance reports whether a dungeon map is entered from another map.
func (m *MapEntry) HasEntrance() bool {
	return m.Dungeon && m.EntranceMap >= 0
}

type mapListFile struct {
	Maps []MapEntry `yaml:"maps"`
}

// LoadMapTable loads map metadata from a YAML file.
func LoadMapTable(path string) (*Table[MapEntry], error) {
	var f mapListFile
	if err := readYAML(path, "map_list", &f); err != nil {
		return nil, err
	}
	return newTable(f.Maps, func(m *MapEntry) uint32 { return m.ID }), nil
}

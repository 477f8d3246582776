package data

import "fmt"

// CreatureTemplate holds static data for a creature type loaded from YAML.
type CreatureTemplate struct {
	Entry        uint32                    `yaml:"entry"`
	Name         string                    `yaml:"name"`
	SubName      string                    `yaml:"subname"`
	IconName     string                    `yaml:"icon_name"`
	Type         uint32                    `yaml:"type"`
	TypeFlags    uint32                    `yaml:"type_flags"`
	TypeFlags2   uint32                    `yaml:"type_flags2"`
	Family       uint32                    `yaml:"family"`
	Rank         uint32                    `yaml:"rank"`
	KillCredit   []uint32                  `yaml:"kill_credit"` // up to 2
	ModelIDs     []uint32                  `yaml:"model_ids"`   // up to 4
	ModHealth    float32                   `yaml:"mod_health"`
	ModMana      float32                   `yaml:"mod_mana"`
	RacialLeader bool                      `yaml:"racial_leader"`
	MovementID   uint32                    `yaml:"movement_id"`
	Expansion    uint32                    `yaml:"expansion"`
	QuestItems   []uint32                  `yaml:"quest_items"` // up to 6
	NpcFlags     uint32                    `yaml:"npc_flags"`
	Locales      map[string]CreatureLocale `yaml:"locales,omitempty"`
}

// CreatureLocale holds the translated strings of one creature for one locale.
type CreatureLocale struct {
	Name    string `yaml:"name"`
	SubName string `yaml:"subname"`
}

// Longest creature strings the query reply can declare. The reply counts the
// terminator in a 6-bit field for the icon and 11-bit fields for the names.
const (
	MaxCreatureIconLen = 1<<6 - 2
	MaxCreatureNameLen = 1<<11 - 2
)

// NPC flag bits used by query responses.
const (
	NpcFlagGossip uint32 = 0x00000001
)

// LocalizedNames returns name and subname for loc, falling back to the
// default text per field.
func (c *CreatureTemplate) LocalizedNames(loc Locale) (name, subName string) {
	name = pick(c.Locales, loc, func(l *CreatureLocale) string { return l.Name }, c.Name)
	subName = pick(c.Locales, loc, func(l *CreatureLocale) string { return l.SubName }, c.SubName)
	return name, subName
}

// KillCreditAt returns kill credit i or 0.
func (c *CreatureTemplate) KillCreditAt(i int) uint32 {
	return at(c.KillCredit, i)
}

// ModelAt returns model id i or 0.
func (c *CreatureTemplate) ModelAt(i int) uint32 {
	return at(c.ModelIDs, i)
}

func at(s []uint32, i int) uint32 {
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}

type creatureListFile struct {
	Creatures []CreatureTemplate `yaml:"creatures"`
}

// LoadCreatureTable loads creature templates from a YAML file.
func LoadCreatureTable(path string) (*Table[CreatureTemplate], error) {
	var f creatureListFile
	if err := readYAML(path, "creature_template", &f); err != nil {
		return nil, err
	}
	for i := range f.Creatures {
		if err := f.Creatures[i].validate(); err != nil {
			return nil, fmt.Errorf("creature_template entry %d: %w", f.Creatures[i].Entry, err)
		}
	}
	return newTable(f.Creatures, func(c *CreatureTemplate) uint32 { return c.Entry }), nil
}

func (c *CreatureTemplate) validate() error {
	if len(c.IconName) > MaxCreatureIconLen {
		return fmt.Errorf("icon_name is %d bytes, max %d", len(c.IconName), MaxCreatureIconLen)
	}
	if err := checkNameLen("name", c.Name); err != nil {
		return err
	}
	if err := checkNameLen("subname", c.SubName); err != nil {
		return err
	}
	for loc, l := range c.Locales {
		if err := checkNameLen(loc+" name", l.Name); err != nil {
			return err
		}
		if err := checkNameLen(loc+" subname", l.SubName); err != nil {
			return err
		}
	}
	return nil
}

func checkNameLen(field, s string) error {
	if len(s) > MaxCreatureNameLen {
		return fmt.Errorf("%s is %d bytes, max %d", field, len(s), MaxCreatureNameLen)
	}
	return nil
}

// CreatureSpawn places one creature in the world.
type CreatureSpawn struct {
	GUID     uint32   `yaml:"guid"`
	Entry    uint32   `yaml:"entry"`
	MapID    uint32   `yaml:"map_id"`
	Position Position `yaml:"position"`
}

type spawnListFile struct {
	Spawns []CreatureSpawn `yaml:"spawns"`
}

// LoadSpawnList loads creature spawn entries from a YAML file.
func LoadSpawnList(path string) ([]CreatureSpawn, error) {
	var f spawnListFile
	if err := readYAML(path, "creature_spawn", &f); err != nil {
		return nil, err
	}
	return f.Spawns, nil
}

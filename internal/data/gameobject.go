package data

// GameObjectDataSize is the number of type-specific data slots sent to the client.
const GameObjectDataSize = 32

// GameObjectTemplate holds static data for a game object type.
type GameObjectTemplate struct {
	Entry          uint32                      `yaml:"entry"`
	Type           uint32                      `yaml:"type"`
	DisplayID      uint32                      `yaml:"display_id"`
	Name           string                      `yaml:"name"`
	IconName       string                      `yaml:"icon_name"`
	CastBarCaption string                      `yaml:"cast_bar_caption"`
	Unk1           string                      `yaml:"unk1"`
	Data           []int32                     `yaml:"data"` // up to GameObjectDataSize
	Size           float32                     `yaml:"size"`
	QuestItems     []uint32                    `yaml:"quest_items"` // up to 6
	Expansion      int32                       `yaml:"expansion"`
	Locales        map[string]GameObjectLocale `yaml:"locales,omitempty"`
}

// GameObjectLocale holds translated game object strings.
type GameObjectLocale struct {
	Name           string `yaml:"name"`
	CastBarCaption string `yaml:"cast_bar_caption"`
}

// LocalizedStrings returns name and cast bar caption for loc.
func (g *GameObjectTemplate) LocalizedStrings(loc Locale) (name, castBarCaption string) {
	name = pick(g.Locales, loc, func(l *GameObjectLocale) string { return l.Name }, g.Name)
	castBarCaption = pick(g.Locales, loc, func(l *GameObjectLocale) string { return l.CastBarCaption }, g.CastBarCaption)
	return name, castBarCaption
}

type gameObjectListFile struct {
	GameObjects []GameObjectTemplate `yaml:"gameobjects"`
}

// LoadGameObjectTable loads game object templates from a YAML file.
func LoadGameObjectTable(path string) (*Table[GameObjectTemplate], error) {
	var f gameObjectListFile
	if err := readYAML(path, "gameobject_template", &f); err != nil {
		return nil, err
	}
	return newTable(f.GameObjects, func(g *GameObjectTemplate) uint32 { return g.Entry }), nil
}

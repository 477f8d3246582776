package data

import (
	"fmt"
	"path/filepath"
)

// Catalog bundles every static table the world server reads.
type Catalog struct {
	Creatures      *Table[CreatureTemplate]
	GameObjects    *Table[GameObjectTemplate]
	NpcTexts       *Table[NpcText]
	Pages          *Table[PageText]
	QuestPOIs      *Table[QuestPOISet]
	Maps           *Table[MapEntry]
	SceneTemplates *Table[SceneTemplate]
	ScenePackages  *Table[ScenePackage]
	Spawns         []CreatureSpawn
}

// LoadCatalog loads all tables from the YAML files in dir.
func LoadCatalog(dir string) (*Catalog, error) {
	c := &Catalog{}
	var err error
	p := func(name string) string { return filepath.Join(dir, name) }

	if c.Creatures, err = LoadCreatureTable(p("creature_template.yaml")); err != nil {
		return nil, err
	}
	if c.GameObjects, err = LoadGameObjectTable(p("gameobject_template.yaml")); err != nil {
		return nil, err
	}
	if c.NpcTexts, err = LoadNpcTextTable(p("npc_text.yaml")); err != nil {
		return nil, err
	}
	if c.Pages, err = LoadPageTextTable(p("page_text.yaml")); err != nil {
		return nil, err
	}
	if c.QuestPOIs, err = LoadQuestPOITable(p("quest_poi.yaml")); err != nil {
		return nil, err
	}
	if c.Maps, err = LoadMapTable(p("map_list.yaml")); err != nil {
		return nil, err
	}
	if c.SceneTemplates, err = LoadSceneTemplateTable(p("scene_template.yaml")); err != nil {
		return nil, err
	}
	if c.ScenePackages, err = LoadScenePackageTable(p("scene_package.yaml")); err != nil {
		return nil, err
	}
	if c.Spawns, err = LoadSpawnList(p("creature_spawn.yaml")); err != nil {
		return nil, err
	}
	for _, s := range c.Spawns {
		if c.Creatures.Get(s.Entry) == nil {
			return nil, fmt.Errorf("creature_spawn guid %d: unknown entry %d", s.GUID, s.Entry)
		}
	}
	return c, nil
}

// SceneTemplate returns the scene template for sceneID, or nil.
func (c *Catalog) SceneTemplate(sceneID uint32) *SceneTemplate {
	return c.SceneTemplates.Get(sceneID)
}

// ScenePackage returns the scene package entry, or nil.
func (c *Catalog) ScenePackage(id uint32) *ScenePackage {
	return c.ScenePackages.Get(id)
}

package data

// QuestPOIPoint is one vertex of a point-of-interest polygon.
type QuestPOIPoint struct {
	X int32 `yaml:"x"`
	Y int32 `yaml:"y"`
}

// QuestPOI is one map region highlighted for a quest objective.
type QuestPOI struct {
	ID             uint32          `yaml:"id"`
	ObjectiveIndex int32           `yaml:"objective_index"`
	MapID          uint32          `yaml:"map_id"`
	AreaID         uint32          `yaml:"area_id"`
	FloorID        uint32          `yaml:"floor_id"`
	Unk3           uint32          `yaml:"unk3"`
	Unk4           uint32          `yaml:"unk4"`
	Points         []QuestPOIPoint `yaml:"points"`
}

// QuestPOISet holds every POI of one quest.
type QuestPOISet struct {
	QuestID uint32     `yaml:"quest_id"`
	POIs    []QuestPOI `yaml:"pois"`
}

type questPOIListFile struct {
	Quests []QuestPOISet `yaml:"quests"`
}

// LoadQuestPOITable loads quest POIs from a YAML file.
func LoadQuestPOITable(path string) (*Table[QuestPOISet], error) {
	var f questPOIListFile
	if err := readYAML(path, "quest_poi", &f); err != nil {
		return nil, err
	}
	return newTable(f.Quests, func(q *QuestPOISet) uint32 { return q.QuestID }), nil
}

package data

// GossipOptionCount is the number of text options of an NPC text.
const GossipOptionCount = 8

// NpcText is the gossip text shown when talking to an NPC.
type NpcText struct {
	ID            uint32    `yaml:"id"`
	Probabilities []float32 `yaml:"probabilities"` // up to GossipOptionCount
}

// Probability returns the weight of option i or 0.
func (t *NpcText) Probability(i int) float32 {
	if t == nil || i < 0 || i >= len(t.Probabilities) {
		return 0
	}
	return t.Probabilities[i]
}

// PageText is one page of a readable item or object. Pages chain through NextPage.
type PageText struct {
	ID       uint32                    `yaml:"id"`
	Text     string                    `yaml:"text"`
	NextPage uint32                    `yaml:"next_page"`
	Locales  map[string]PageTextLocale `yaml:"locales,omitempty"`
}

// PageTextLocale holds the translated page text.
type PageTextLocale struct {
	Text string `yaml:"text"`
}

// LocalizedText returns the page text for loc.
func (p *PageText) LocalizedText(loc Locale) string {
	return pick(p.Locales, loc, func(l *PageTextLocale) string { return l.Text }, p.Text)
}

type npcTextListFile struct {
	Texts []NpcText `yaml:"npc_texts"`
}

type pageTextListFile struct {
	Pages []PageText `yaml:"pages"`
}

// LoadNpcTextTable loads NPC gossip texts from a YAML file.
func LoadNpcTextTable(path string) (*Table[NpcText], error) {
	var f npcTextListFile
	if err := readYAML(path, "npc_text", &f); err != nil {
		return nil, err
	}
	return newTable(f.Texts, func(t *NpcText) uint32 { return t.ID }), nil
}

// LoadPageTextTable loads page texts from a YAML file.
func LoadPageTextTable(path string) (*Table[PageText], error) {
	var f pageTextListFile
	if err := readYAML(path, "page_text", &f); err != nil {
		return nil, err
	}
	return newTable(f.Pages, func(p *PageText) uint32 { return p.ID }), nil
}

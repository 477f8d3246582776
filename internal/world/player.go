package world

import (
	"github.com/mopgo/server/internal/data"
	"github.com/mopgo/server/internal/net/packet"
	"github.com/mopgo/server/internal/scene"
	"go.uber.org/zap"
)

// MaxQuestLogSize is the number of quest log slots of a character.
const MaxQuestLogSize = 50

// Sender delivers server messages to a client. Implemented by net.Session.
type Sender interface {
	Send(op packet.Opcode, payload []byte)
}

// Aura is one active aura effect on a player.
type Aura struct {
	SpellID uint32
	Type    uint32
	Misc    int32
}

// MiscValue returns the effect's misc value (the scene id for play-scene auras).
func (a *Aura) MiscValue() int32 { return a.Misc }

// Corpse is where a dead character's body lies.
type Corpse struct {
	GUID  packet.ObjectGUID
	MapID uint32
	Pos   data.Position
}

// Player holds in-memory data for a character currently in-world.
// Accessed only from the game loop goroutine.
type Player struct {
	SessionID uint64
	Session   Sender

	GUID      packet.ObjectGUID
	AccountID uint32
	Name      string
	Race      uint8
	Gender    uint8
	Class     uint8
	Level     uint8

	Map       uint32
	Pos       data.Position
	Transport packet.ObjectGUID
	Locale    data.Locale

	// QuestLog maps slot → quest id (0 = empty slot).
	QuestLog [MaxQuestLogSize]uint32

	Scenes *scene.Manager

	// Dirty marks state that the persistence pass still has to save.
	Dirty bool

	corpse *Corpse
	auras  []*Aura
}

// AttachScenes creates the player's scene manager.
func (p *Player) AttachScenes(catalog scene.Catalog, hook scene.TriggerHook, log *zap.Logger) {
	p.Scenes = scene.NewManager(p, catalog, hook, log.With(zap.String("player", p.Name)))
}

// Send forwards a message to the player's session; no-op when detached.
func (p *Player) Send(op packet.Opcode, payload []byte) {
	if p.Session == nil {
		return
	}
	p.Session.Send(op, payload)
}

func (p *Player) Position() data.Position { return p.Pos }

func (p *Player) TransportGUID() packet.ObjectGUID { return p.Transport }

func (p *Player) LocaleIndex() data.Locale { return p.Locale }

func (p *Player) MapID() uint32 { return p.Map }

func (p *Player) Corpse() *Corpse { return p.corpse }

func (p *Player) SetCorpse(c *Corpse) {
	p.corpse = c
	p.Dirty = true
}

// AddAura applies an aura effect.
func (p *Player) AddAura(a *Aura) {
	p.auras = append(p.auras, a)
}

// Auras returns the active aura effects in application order.
func (p *Player) Auras() []*Aura {
	return p.auras
}

// AuraEffects returns the active effects of one aura type in application order.
func (p *Player) AuraEffects(auraType uint32) []scene.AuraEffect {
	var out []scene.AuraEffect
	for _, a := range p.auras {
		if a.Type == auraType {
			out = append(out, a)
		}
	}
	return out
}

// RemoveAuraEffect removes one effect instance.
func (p *Player) RemoveAuraEffect(e scene.AuraEffect) {
	for i, a := range p.auras {
		if scene.AuraEffect(a) == e {
			p.auras = append(p.auras[:i], p.auras[i+1:]...)
			return
		}
	}
}

// FindQuestSlot returns the quest log slot holding questID.
func (p *Player) FindQuestSlot(questID uint32) (uint16, bool) {
	if questID == 0 {
		return 0, false
	}
	for slot, id := range p.QuestLog {
		if id == questID {
			return uint16(slot), true
		}
	}
	return 0, false
}

// QuestSlotQuestID returns the quest in slot, 0 when empty or out of range.
func (p *Player) QuestSlotQuestID(slot uint16) uint32 {
	if int(slot) >= MaxQuestLogSize {
		return 0
	}
	return p.QuestLog[slot]
}

// NameData returns the name cache record describing this player.
func (p *Player) NameData() *NameData {
	return &NameData{
		GUID:      p.GUID,
		AccountID: p.AccountID,
		Name:      p.Name,
		Race:      p.Race,
		Gender:    p.Gender,
		Class:     p.Class,
		Level:     p.Level,
	}
}

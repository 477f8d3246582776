package world

import (
	"github.com/mopgo/server/internal/data"
	"github.com/mopgo/server/internal/net/packet"
)

// Unit holds runtime data for a spawned creature.
// Accessed only from the game loop goroutine.
type Unit struct {
	GUID     packet.ObjectGUID
	Entry    uint32
	Map      uint32
	Pos      data.Position
	NpcFlags uint32
}

// HasNpcFlag reports whether every bit of f is set.
func (u *Unit) HasNpcFlag(f uint32) bool {
	return u.NpcFlags&f == f
}

// CreatureLookup resolves creature templates by entry.
type CreatureLookup interface {
	Get(entry uint32) *data.CreatureTemplate
}

// SpawnCreatures places every spawn into the world and returns how many
// were placed. Spawns whose template is missing are skipped.
func (s *State) SpawnCreatures(spawns []data.CreatureSpawn, creatures CreatureLookup) int {
	n := 0
	for _, sp := range spawns {
		tpl := creatures.Get(sp.Entry)
		if tpl == nil {
			continue
		}
		s.AddUnit(&Unit{
			GUID:     packet.MakeGUID(packet.HighGUIDUnit, sp.Entry, sp.GUID),
			Entry:    sp.Entry,
			Map:      sp.MapID,
			Pos:      sp.Position,
			NpcFlags: tpl.NpcFlags,
		})
		n++
	}
	return n
}

package query

import (
	"github.com/mopgo/server/internal/data"
	"github.com/mopgo/server/internal/net/packet"
	"go.uber.org/zap"
)

const (
	creatureQuestItems = 6
	creatureNameSlots  = 8
	entryNotFound      = 0x80000000
)

// CreatureQuery answers CMSG_CREATURE_QUERY (u32 entry).
//
// A miss replies with the entry ORed with 0x80000000 and a cleared has-data
// bit. A hit packs the string lengths into a bit header, then the fields.
func (q *Responder) CreatureQuery(r *packet.Reader, req Requester) ([]Response, error) {
	entry := r.ReadUint32()
	if err := r.Err(); err != nil {
		return nil, err
	}

	w := packet.NewWriterSize(packet.SMSG_CREATURE_QUERY_RESPONSE, 128)
	info := q.stores.Creatures.Get(entry)
	if info == nil {
		q.log.Debug("creature query miss", zap.Uint32("entry", entry))
		w.WriteUint32(entry | entryNotFound)
		w.WriteBit(false)
		w.FlushBits()
		return []Response{reply(w)}, nil
	}

	name, subName := info.LocalizedNames(req.LocaleIndex())
	name = clip(name, data.MaxCreatureNameLen)
	subName = clip(subName, data.MaxCreatureNameLen)
	iconName := clip(info.IconName, data.MaxCreatureIconLen)

	w.WriteUint32(entry)
	w.WriteBit(true)
	w.WriteBit(info.RacialLeader)
	w.WriteBits(uint32(len(iconName)+1), 6)
	for i := 0; i < creatureNameSlots; i++ {
		if i == 1 {
			w.WriteBits(uint32(len(name)+1), 11)
		} else {
			w.WriteBits(0, 11)
		}
	}
	w.WriteBits(creatureQuestItems, 22)
	if subName != "" {
		w.WriteBits(uint32(len(subName)+1), 11)
	} else {
		w.WriteBits(0, 11)
	}
	w.WriteBits(0, 11)
	w.FlushBits()

	w.WriteFloat(info.ModMana)
	w.WriteCString(name)
	w.WriteFloat(info.ModHealth)
	w.WriteUint32(info.KillCreditAt(1))
	w.WriteUint32(info.ModelAt(1))
	for i := 0; i < creatureQuestItems; i++ {
		var item uint32
		if i < len(info.QuestItems) {
			item = info.QuestItems[i]
		}
		w.WriteUint32(item)
	}
	w.WriteUint32(info.Type)
	// The length bits always count the terminator, so the string is always written.
	w.WriteCString(iconName)
	w.WriteUint32(info.TypeFlags)
	w.WriteUint32(info.TypeFlags2)
	w.WriteUint32(info.KillCreditAt(0))
	w.WriteUint32(info.Family)
	w.WriteUint32(info.MovementID)
	w.WriteUint32(info.Expansion)
	w.WriteUint32(info.ModelAt(0))
	w.WriteUint32(info.ModelAt(2))
	w.WriteUint32(info.Rank)
	if subName != "" {
		w.WriteCString(subName)
	}
	w.WriteUint32(info.ModelAt(3))

	return []Response{reply(w)}, nil
}

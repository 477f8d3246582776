package query

import (
	"github.com/mopgo/server/internal/net/packet"
	"github.com/mopgo/server/internal/world"
)

// QuestPOIQuery answers CMSG_QUEST_POI_QUERY.
//
// The request always carries world.MaxQuestLogSize quest ids followed by the
// number of watched quests; unused entries hold garbage. Only ids of quests
// in the requester's log are kept, truncated to the declared count. Nothing
// is sent when the declared count is out of range or no quest is left.
func (q *Responder) QuestPOIQuery(r *packet.Reader, req Requester) ([]Response, error) {
	var slots []uint16
	for i := 0; i < world.MaxQuestLogSize; i++ {
		questID := r.ReadUint32()
		if questID == 0 {
			continue
		}
		if slot, ok := req.FindQuestSlot(questID); ok {
			slots = append(slots, slot)
		}
	}
	watched := r.ReadUint32()
	if err := r.Err(); err != nil {
		return nil, err
	}

	if watched >= world.MaxQuestLogSize {
		return nil, nil
	}
	if uint32(len(slots)) > watched {
		slots = slots[:watched]
	}
	if len(slots) == 0 {
		return nil, nil
	}

	questIDs := make([]uint32, len(slots))
	for i, slot := range slots {
		questIDs[i] = req.QuestSlotQuestID(slot)
	}

	w := packet.NewWriterSize(packet.SMSG_QUEST_POI_QUERY_RESPONSE, 256)
	w.WriteBits(uint32(len(questIDs)), 20)
	for _, questID := range questIDs {
		set := q.stores.QuestPOIs.Get(questID)
		if set == nil {
			w.WriteBits(0, 18)
			continue
		}
		w.WriteBits(uint32(len(set.POIs)), 18)
		for i := range set.POIs {
			w.WriteBits(uint32(len(set.POIs[i].Points)), 21)
		}
	}
	w.FlushBits()

	for _, questID := range questIDs {
		set := q.stores.QuestPOIs.Get(questID)
		if set == nil {
			w.WriteUint32(0)
			w.WriteUint32(questID)
			continue
		}
		for i := range set.POIs {
			poi := &set.POIs[i]
			w.WriteUint32(poi.Unk4)
			w.WriteUint32(0)
			w.WriteUint32(0)
			w.WriteUint32(0)
			for _, pt := range poi.Points {
				w.WriteInt32(pt.X)
				w.WriteInt32(pt.Y)
			}
			w.WriteUint32(poi.MapID)
			w.WriteUint32(poi.FloorID)
			w.WriteUint32(poi.Unk3)
			w.WriteUint32(uint32(len(poi.Points)))
			w.WriteUint32(poi.AreaID)
			w.WriteUint32(poi.ID)
			w.WriteInt32(poi.ObjectiveIndex)
		}
		w.WriteUint32(uint32(len(set.POIs)))
		w.WriteUint32(questID)
	}
	w.WriteUint32(uint32(len(questIDs)))

	return []Response{reply(w)}, nil
}

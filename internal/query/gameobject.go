package query

import (
	"github.com/mopgo/server/internal/data"
	"github.com/mopgo/server/internal/net/packet"
	"go.uber.org/zap"
)

const gameObjectQuestItems = 6

// GameObjectQuery answers CMSG_GAMEOBJECT_QUERY (u32 entry, GUID).
//
// The reply declares the byte size of the record before the record, so the
// size is reserved and patched once the record is written. A miss keeps the
// size at 0. The found bit trails the message.
func (q *Responder) GameObjectQuery(r *packet.Reader, req Requester) ([]Response, error) {
	entry := r.ReadUint32()
	guid := packet.GameObjectQuery.Read(r)
	if err := r.Err(); err != nil {
		return nil, err
	}

	info := q.stores.GameObjects.Get(entry)

	w := packet.NewWriterSize(packet.SMSG_GAMEOBJECT_QUERY_RESPONSE, 256)
	if info == nil {
		w.WriteUint32(entry | entryNotFound)
	} else {
		w.WriteUint32(entry)
	}
	size := w.Reserve(4)

	if info != nil {
		writeGameObjectRecord(w, info, req)
		w.PatchUint32(size, uint32(w.SizeSince(size)))
	} else {
		q.log.Debug("gameobject query miss",
			zap.Uint32("entry", entry),
			zap.Stringer("guid", guid),
		)
	}

	w.WriteBit(info != nil)
	w.FlushBits()
	return []Response{reply(w)}, nil
}

func writeGameObjectRecord(w *packet.Writer, info *data.GameObjectTemplate, req Requester) {
	name, castBarCaption := info.LocalizedStrings(req.LocaleIndex())

	w.WriteUint32(info.Type)
	w.WriteUint32(info.DisplayID)
	w.WriteCString(name)
	w.WriteUint8(0) // name2..name4
	w.WriteUint8(0)
	w.WriteUint8(0)
	w.WriteCString(info.IconName)
	w.WriteCString(castBarCaption)
	w.WriteCString(info.Unk1)
	for i := 0; i < data.GameObjectDataSize; i++ {
		var v int32
		if i < len(info.Data) {
			v = info.Data[i]
		}
		w.WriteInt32(v)
	}
	w.WriteFloat(info.Size)
	w.WriteUint8(gameObjectQuestItems)
	for i := 0; i < gameObjectQuestItems; i++ {
		var item uint32
		if i < len(info.QuestItems) {
			item = info.QuestItems[i]
		}
		w.WriteUint32(item)
	}
	w.WriteInt32(info.Expansion)
}

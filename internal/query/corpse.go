package query

import (
	"github.com/mopgo/server/internal/net/packet"
)

// CorpseQuery answers CMSG_CORPSE_QUERY (no payload) with the location of
// the requester's corpse.
//
// A corpse inside a dungeon the player is not on is reported at the
// dungeon's entrance; the corpse map id field still names the real map.
func (q *Responder) CorpseQuery(_ *packet.Reader, req Requester) ([]Response, error) {
	w := packet.NewWriterSize(packet.SMSG_CORPSE_QUERY, 1+6*4+8)

	corpse := req.Corpse()
	if corpse == nil {
		w.WriteBits(0, 9) // found bit and an empty GUID mask
		w.FlushBits()
		for i := 0; i < 5; i++ {
			w.WriteUint32(0)
		}
		return []Response{reply(w)}, nil
	}

	mapID := int32(corpse.MapID)
	x, y, z := corpse.Pos.X, corpse.Pos.Y, corpse.Pos.Z
	if corpse.MapID != req.MapID() {
		if m := q.stores.Maps.Get(corpse.MapID); m != nil && m.HasEntrance() {
			mapID = m.EntranceMap
			x, y, z = m.EntranceX, m.EntranceY, m.EntranceZ
		}
	}

	l := &packet.CorpseQuery
	g := corpse.GUID

	w.WriteGUIDMask(g, l.Mask[:7]...)
	w.WriteBit(true)
	w.WriteGUIDMask(g, l.Mask[7])
	w.FlushBits()

	w.WriteGUIDBytes(g, l.Bytes[0:3]...)
	w.WriteInt32(mapID)
	w.WriteFloat(x)
	w.WriteGUIDBytes(g, l.Bytes[3:6]...)
	w.WriteUint32(corpse.MapID)
	w.WriteGUIDBytes(g, l.Bytes[6])
	w.WriteFloat(z)
	w.WriteGUIDBytes(g, l.Bytes[7])
	w.WriteFloat(y)

	return []Response{reply(w)}, nil
}

// CorpseMapPositionQuery answers CMSG_CORPSE_MAP_POSITION_QUERY (transport
// GUID). Transports are not tracked, so the position is always zero.
func (q *Responder) CorpseMapPositionQuery(r *packet.Reader, _ Requester) ([]Response, error) {
	packet.CorpseMapPositionQuery.Read(r)
	if err := r.Err(); err != nil {
		return nil, err
	}

	w := packet.NewWriterSize(packet.SMSG_CORPSE_MAP_POSITION_QUERY_RESPONSE, 16)
	for i := 0; i < 4; i++ {
		w.WriteFloat(0)
	}
	return []Response{reply(w)}, nil
}

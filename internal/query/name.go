package query

import (
	"github.com/mopgo/server/internal/net/packet"
	"github.com/mopgo/server/internal/world"
	"go.uber.org/zap"
)

// nameQueryPlayerTime is a constant the client expects in every found reply.
const nameQueryPlayerTime = 50397209

// NameQuery answers CMSG_NAME_QUERY.
//
// Request: GUID mask with two flag bits (after mask index 4 and after the
// full mask), flush, GUID bytes, then an optional u32 per set flag in
// reverse order.
func (q *Responder) NameQuery(r *packet.Reader, _ Requester) ([]Response, error) {
	l := &packet.NameQueryRequest
	var s packet.GUIDStream

	r.ReadGUIDMask(&s, l.Mask[0])
	hasVirtualRealm := r.ReadBit()
	r.ReadGUIDMask(&s, l.Mask[1:]...)
	hasNativeRealm := r.ReadBit()
	r.FlushBits()
	r.ReadGUIDBytes(&s, l.Bytes[:]...)

	if hasNativeRealm {
		r.ReadUint32()
	}
	if hasVirtualRealm {
		r.ReadUint32()
	}
	if err := r.Err(); err != nil {
		return nil, err
	}

	g := s.GUID()
	return []Response{q.nameResponse(g, q.stores.Names.NameData(g.Low()))}, nil
}

// nameResponse builds SMSG_NAME_QUERY_RESPONSE. The header carries the
// queried GUID and a not-found byte; found replies continue with a second
// bit block that interleaves the character GUID with the account GUID.
func (q *Responder) nameResponse(g packet.ObjectGUID, nd *world.NameData) Response {
	l := &packet.NameQueryResponse
	w := packet.NewWriterSize(packet.SMSG_NAME_QUERY_RESPONSE, 64)

	w.WriteGUIDMask(g, l.Mask[:]...)
	w.FlushBits()
	w.WriteGUIDBytes(g, l.Bytes[0])
	w.WriteUint8(boolByte(nd == nil))
	if nd != nil {
		w.WriteUint32(q.cfg.RealmID)
		w.WriteUint32(nameQueryPlayerTime)
		w.WriteUint8(nd.Level)
		w.WriteUint8(nd.Race)
		w.WriteUint8(nd.Gender)
		w.WriteUint8(nd.Class)
	}
	w.WriteGUIDBytes(g, l.Bytes[1:]...)

	if nd == nil {
		q.log.Debug("name query miss", zap.Stringer("guid", g))
		return reply(w)
	}

	// Account GUIDs are not exposed to other clients.
	var account packet.ObjectGUID

	w.WriteGUIDMask(account, 1)
	w.WriteGUIDMask(g, 2, 5, 0, 7)
	w.WriteGUIDMask(account, 5)
	w.WriteGUIDMask(g, 3)
	w.WriteGUIDMask(account, 4)
	w.WriteBit(false)
	w.WriteGUIDMask(g, 6)
	w.WriteBits(uint32(len(nd.Name)), 6)
	w.WriteGUIDMask(account, 2, 6, 0)
	w.WriteGUIDMask(g, 1, 4)
	for i := 0; i < world.DeclinedNameCases; i++ {
		n := 0
		if nd.Declined != nil {
			n = len(nd.Declined[i])
		}
		w.WriteBits(uint32(n), 7)
	}
	w.WriteGUIDMask(account, 7, 3)
	w.FlushBits()

	if nd.Declined != nil {
		for _, name := range nd.Declined {
			w.WriteString(name)
		}
	}

	w.WriteGUIDBytes(g, 4, 5, 7, 0)
	w.WriteGUIDBytes(account, 7, 0, 1, 4)
	w.WriteGUIDBytes(g, 1)
	w.WriteGUIDBytes(account, 2, 5)
	w.WriteGUIDBytes(g, 6, 2, 3)
	w.WriteString(nd.Name)
	w.WriteGUIDBytes(account, 3, 6)

	return reply(w)
}

package query

import (
	"time"

	"github.com/mopgo/server/internal/net/packet"
)

// RealmNameQuery answers CMSG_REALM_NAME_QUERY (u32 realm id).
func (q *Responder) RealmNameQuery(r *packet.Reader, _ Requester) ([]Response, error) {
	realmID := r.ReadUint32()
	if err := r.Err(); err != nil {
		return nil, err
	}

	name, found := q.cfg.Realms[realmID]
	name = clip(name, 0xFF)

	w := packet.NewWriterSize(packet.SMSG_REALM_NAME_QUERY_RESPONSE, 6+2*len(name))
	w.WriteUint32(realmID)
	w.WriteUint8(boolByte(!found))
	if found {
		w.WriteBits(uint32(len(name)), 8)
		w.WriteBit(realmID == q.cfg.RealmID)
		w.WriteBits(uint32(len(name)), 8)
		w.FlushBits()
		w.WriteString(name) // realm name
		w.WriteString(name) // normalized realm name
	}
	return []Response{reply(w)}, nil
}

// QueryTime answers CMSG_QUERY_TIME with the server clock and the seconds
// left until the daily quest reset.
func (q *Responder) QueryTime(_ *packet.Reader, _ Requester) ([]Response, error) {
	now := q.now()
	next := NextDailyReset(now, q.cfg.DailyResetHour)

	w := packet.NewWriterSize(packet.SMSG_QUERY_TIME_RESPONSE, 8)
	w.WriteUint32(uint32(now.Unix()))
	w.WriteUint32(uint32(next.Unix() - now.Unix()))
	return []Response{reply(w)}, nil
}

// NextDailyReset returns the first reset strictly after now. hour is in
// now's location.
func NextDailyReset(now time.Time, hour int) time.Time {
	t := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !t.After(now) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

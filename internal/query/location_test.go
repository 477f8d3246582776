package query

import (
	"testing"

	"github.com/mopgo/server/internal/data"
	"github.com/mopgo/server/internal/net/packet"
	"github.com/mopgo/server/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type corpseReply struct {
	guid      packet.ObjectGUID
	mapID     int32
	corpseMap uint32
	x, y, z   float32
}

func decodeCorpse(t *testing.T, resp Response) corpseReply {
	t.Helper()
	r := decode(t, resp, packet.SMSG_CORPSE_QUERY)
	l := &packet.CorpseQuery
	var s packet.GUIDStream
	var c corpseReply

	r.ReadGUIDMask(&s, l.Mask[:7]...)
	require.True(t, r.ReadBit(), "found")
	r.ReadGUIDMask(&s, l.Mask[7])
	r.FlushBits()
	r.ReadGUIDBytes(&s, l.Bytes[0:3]...)
	c.mapID = r.ReadInt32()
	c.x = r.ReadFloat()
	r.ReadGUIDBytes(&s, l.Bytes[3:6]...)
	c.corpseMap = r.ReadUint32()
	r.ReadGUIDBytes(&s, l.Bytes[6])
	c.z = r.ReadFloat()
	r.ReadGUIDBytes(&s, l.Bytes[7])
	c.y = r.ReadFloat()
	c.guid = s.GUID()

	require.NoError(t, r.Err())
	assert.Zero(t, r.Remaining())
	return c
}

func TestCorpseQueryNoCorpse(t *testing.T) {
	f := newFixture(t, Config{})

	out, err := f.q.CorpseQuery(readerFor(packet.CMSG_CORPSE_QUERY, nil), f.player)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, make([]byte, 2+5*4), out[0].Payload)
}

func TestCorpseQuerySameMap(t *testing.T) {
	f := newFixture(t, Config{})
	g := packet.MakeGUID(packet.HighGUIDCorpse, 0, 0x3344)
	f.player.SetCorpse(&world.Corpse{GUID: g, MapID: 870, Pos: data.Position{X: 1, Y: 2, Z: 3}})

	out, err := f.q.CorpseQuery(readerFor(packet.CMSG_CORPSE_QUERY, nil), f.player)
	require.NoError(t, err)

	assert.Equal(t, corpseReply{guid: g, mapID: 870, corpseMap: 870, x: 1, y: 2, z: 3}, decodeCorpse(t, out[0]))
}

func TestCorpseQueryDungeonEntrance(t *testing.T) {
	f := newFixture(t, Config{})
	g := packet.MakeGUID(packet.HighGUIDCorpse, 0, 7)
	f.player.SetCorpse(&world.Corpse{GUID: g, MapID: 996, Pos: data.Position{X: -1017, Y: -3049, Z: 12}})

	out, err := f.q.CorpseQuery(readerFor(packet.CMSG_CORPSE_QUERY, nil), f.player)
	require.NoError(t, err)

	c := decodeCorpse(t, out[0])
	assert.Equal(t, int32(870), c.mapID, "reported at the entrance map")
	assert.Equal(t, uint32(996), c.corpseMap)
	assert.Equal(t, float32(955.6), c.x)
	assert.Equal(t, float32(-55.4), c.y)
	assert.Equal(t, float32(510.3), c.z)

	// Inside the dungeon the real position is reported.
	f.player.Map = 996
	out, err = f.q.CorpseQuery(readerFor(packet.CMSG_CORPSE_QUERY, nil), f.player)
	require.NoError(t, err)
	c = decodeCorpse(t, out[0])
	assert.Equal(t, int32(996), c.mapID)
	assert.Equal(t, float32(-1017), c.x)
}

func TestCorpseMapPositionQuery(t *testing.T) {
	f := newFixture(t, Config{})
	w := packet.NewWriter(packet.CMSG_CORPSE_MAP_POSITION_QUERY)
	packet.CorpseMapPositionQuery.Write(w, packet.MakeGUID(packet.HighGUIDTransport, 0, 0x0101))

	out, err := f.q.CorpseMapPositionQuery(frame(w), f.player)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, packet.SMSG_CORPSE_MAP_POSITION_QUERY_RESPONSE, out[0].Opcode)
	assert.Equal(t, make([]byte, 16), out[0].Payload)

	_, err = f.q.CorpseMapPositionQuery(readerFor(packet.CMSG_CORPSE_MAP_POSITION_QUERY, []byte{0xFF, 1}), f.player)
	assert.ErrorIs(t, err, packet.ErrTruncated)
}

func questPOIRequest(declared uint32, ids ...uint32) *packet.Reader {
	w := packet.NewWriter(packet.CMSG_QUEST_POI_QUERY)
	for i := 0; i < world.MaxQuestLogSize; i++ {
		var id uint32
		if i < len(ids) {
			id = ids[i]
		}
		w.WriteUint32(id)
	}
	w.WriteUint32(declared)
	return frame(w)
}

func TestQuestPOIQuery(t *testing.T) {
	f := newFixture(t, Config{})
	f.player.QuestLog[0] = 29408
	f.player.QuestLog[4] = 31450 // tracked, no POI data

	out, err := f.q.QuestPOIQuery(questPOIRequest(2, 29408, 777, 31450), f.player)
	require.NoError(t, err)
	require.Len(t, out, 1)

	r := decode(t, out[0], packet.SMSG_QUEST_POI_QUERY_RESPONSE)
	assert.Equal(t, uint32(2), r.ReadBits(20))
	assert.Equal(t, uint32(1), r.ReadBits(18), "poi count of 29408")
	assert.Equal(t, uint32(3), r.ReadBits(21), "points of poi 0")
	assert.Equal(t, uint32(0), r.ReadBits(18), "poi count of 31450")

	assert.Equal(t, uint32(3), r.ReadUint32(), "unk4")
	for i := 0; i < 3; i++ {
		assert.Zero(t, r.ReadUint32())
	}
	for _, want := range [][2]int32{{1, 2}, {3, 4}, {5, 6}} {
		assert.Equal(t, want[0], r.ReadInt32())
		assert.Equal(t, want[1], r.ReadInt32())
	}
	assert.Equal(t, uint32(870), r.ReadUint32())
	assert.Equal(t, uint32(0), r.ReadUint32(), "floor")
	assert.Equal(t, uint32(1), r.ReadUint32(), "unk3")
	assert.Equal(t, uint32(3), r.ReadUint32(), "points")
	assert.Equal(t, uint32(5785), r.ReadUint32())
	assert.Equal(t, uint32(0), r.ReadUint32(), "poi id")
	assert.Equal(t, int32(-1), r.ReadInt32())
	assert.Equal(t, uint32(1), r.ReadUint32())
	assert.Equal(t, uint32(29408), r.ReadUint32())

	assert.Equal(t, uint32(0), r.ReadUint32())
	assert.Equal(t, uint32(31450), r.ReadUint32())

	assert.Equal(t, uint32(2), r.ReadUint32())
	require.NoError(t, r.Err())
	assert.Zero(t, r.Remaining())
}

func TestQuestPOIQueryTruncatesToDeclaredCount(t *testing.T) {
	f := newFixture(t, Config{})
	f.player.QuestLog[1] = 29408
	f.player.QuestLog[2] = 31450

	out, err := f.q.QuestPOIQuery(questPOIRequest(1, 31450, 29408), f.player)
	require.NoError(t, err)
	require.Len(t, out, 1)

	r := decode(t, out[0], packet.SMSG_QUEST_POI_QUERY_RESPONSE)
	assert.Equal(t, uint32(1), r.ReadBits(20))
	assert.Equal(t, uint32(0), r.ReadBits(18), "only the first listed quest is kept")
	assert.Zero(t, r.ReadUint32())
	assert.Equal(t, uint32(31450), r.ReadUint32())
	assert.Equal(t, uint32(1), r.ReadUint32())
	assert.Zero(t, r.Remaining())
}

func TestQuestPOIQuerySendsNothing(t *testing.T) {
	tests := []struct {
		name     string
		declared uint32
		ids      []uint32
	}{
		{"no tracked quest", 2, []uint32{777, 888}},
		{"empty list", 0, nil},
		{"declared zero", 0, []uint32{29408}},
		{"declared count at log size", world.MaxQuestLogSize, []uint32{29408}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Config{})
			f.player.QuestLog[0] = 29408

			out, err := f.q.QuestPOIQuery(questPOIRequest(tt.declared, tt.ids...), f.player)
			require.NoError(t, err)
			assert.Empty(t, out)
		})
	}
}

func TestQuestPOIQueryTruncated(t *testing.T) {
	f := newFixture(t, Config{})
	out, err := f.q.QuestPOIQuery(readerFor(packet.CMSG_QUEST_POI_QUERY, make([]byte, 20)), f.player)
	assert.ErrorIs(t, err, packet.ErrTruncated)
	assert.Nil(t, out)
}

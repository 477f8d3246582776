package system

import (
	"context"
	"errors"
	gonet "net"
	"testing"
	"time"

	"github.com/mopgo/server/internal/core/event"
	"github.com/mopgo/server/internal/data"
	"github.com/mopgo/server/internal/net"
	"github.com/mopgo/server/internal/net/packet"
	"github.com/mopgo/server/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type chanSource chan *net.Session

func (c chanSource) NewSessions() <-chan *net.Session { return c }

func newIdleSession(t *testing.T, id uint64) *net.Session {
	t.Helper()
	a, b := gonet.Pipe()
	t.Cleanup(func() { b.Close() })
	sess := net.NewSession(a, id, net.SessionOptions{InQueueSize: 8, OutQueueSize: 8}, zap.NewNop())
	t.Cleanup(sess.Close)
	return sess
}

type inputFixture struct {
	src          chanSource
	store        *net.SessionStore
	ws           *world.State
	sys          *InputSystem
	handled      []uint64
	disconnected []uint64
	logs         *observer.ObservedLogs
}

func newInputFixture(t *testing.T, maxPerTick int) *inputFixture {
	t.Helper()
	f := &inputFixture{
		src:   make(chanSource, 4),
		store: net.NewSessionStore(),
		ws:    world.NewState(),
	}
	core, logs := observer.New(zapcore.DebugLevel)
	f.logs = logs
	log := zap.New(core)
	reg := packet.NewRegistry(log)
	reg.Register(packet.CMSG_QUERY_TIME,
		[]packet.SessionState{packet.StateConnected, packet.StateInWorld},
		func(s any, _ *packet.Reader) error {
			sess := s.(*net.Session)
			f.handled = append(f.handled, sess.ID)
			sess.Send(packet.SMSG_QUERY_TIME_RESPONSE, nil)
			return nil
		})
	f.sys = NewInputSystem(f.src, reg, f.store, f.ws, func(sess *net.Session) {
		f.disconnected = append(f.disconnected, sess.ID)
	}, maxPerTick, log)
	return f
}

func queryTime() []byte { return net.EncodeBody(packet.CMSG_QUERY_TIME, nil) }

func TestInputSystemAcceptsAndDispatches(t *testing.T) {
	f := newInputFixture(t, 8)
	sess := newIdleSession(t, 1)
	f.src <- sess
	sess.InQueue <- queryTime()

	f.sys.Update(0)
	assert.Equal(t, 1, f.sys.SessionCount())
	assert.Equal(t, []uint64{1}, f.handled)
	require.Len(t, sess.OutQueue, 1, "replies are flushed within the input phase")
	assert.Zero(t, sess.Pending())
}

func TestInputSystemLimitsPacketsPerTick(t *testing.T) {
	f := newInputFixture(t, 2)
	sess := newIdleSession(t, 1)
	f.src <- sess
	for i := 0; i < 3; i++ {
		sess.InQueue <- queryTime()
	}

	f.sys.Update(0)
	assert.Len(t, f.handled, 2)
	f.sys.Update(0)
	assert.Len(t, f.handled, 3)
}

func TestInputSystemDropsQueueOfClosedSession(t *testing.T) {
	f := newInputFixture(t, 8)
	sess := newIdleSession(t, 7)
	f.src <- sess
	f.sys.Update(0)

	sess.SetState(packet.StateInWorld)
	sess.InQueue <- queryTime()
	sess.InQueue <- queryTime()
	sess.Close()

	f.sys.Update(0)
	assert.Empty(t, f.handled, "packets of a closed session are not dispatched")
	assert.Empty(t, sess.InQueue)
	assert.Zero(t, f.logs.FilterLevelExact(zapcore.WarnLevel).Len(), "nothing reaches the registry")
	dropped := f.logs.FilterField(zap.Int("dropped", 2)).All()
	require.Len(t, dropped, 1)
	assert.Equal(t, zap.Uint64("session", 7), dropped[0].Context[0])
	assert.Equal(t, []uint64{7}, f.disconnected)
	assert.Zero(t, f.store.Count())

	f.sys.Update(0)
	assert.Len(t, f.disconnected, 1)
}

func TestInputSystemMarksInWorldPlayersDirty(t *testing.T) {
	f := newInputFixture(t, 8)
	sess := newIdleSession(t, 3)
	f.src <- sess
	p := &world.Player{SessionID: 3, GUID: packet.MakeGUID(packet.HighGUIDPlayer, 0, 30), Name: "Chen"}
	f.ws.AddPlayer(p)

	sess.InQueue <- queryTime()
	f.sys.Update(0)
	assert.False(t, p.Dirty, "not in world yet")

	sess.SetState(packet.StateInWorld)
	sess.InQueue <- queryTime()
	f.sys.Update(0)
	assert.True(t, p.Dirty)
}

func TestOutputSystemFlushes(t *testing.T) {
	store := net.NewSessionStore()
	sess := newIdleSession(t, 1)
	store.Add(sess)
	sess.Send(packet.SMSG_QUERY_TIME_RESPONSE, []byte{1})
	sess.Send(packet.SMSG_QUERY_TIME_RESPONSE, []byte{2})

	NewOutputSystem(store).Update(0)
	assert.Len(t, sess.OutQueue, 2)
	assert.Zero(t, sess.Pending())
}

func TestEventDispatchSystem(t *testing.T) {
	bus := event.NewBus()
	var got []string
	event.Subscribe(bus, func(e event.PlayerLeftWorld) { got = append(got, e.Name) })
	sys := NewEventDispatchSystem(bus)

	event.Emit(bus, event.PlayerLeftWorld{Name: "Chen"})
	sys.Update(0)
	assert.Equal(t, []string{"Chen"}, got)
	sys.Update(0)
	assert.Equal(t, []string{"Chen"}, got)
}

type savedChar struct {
	mapID uint32
	pos   data.Position
	quest [world.MaxQuestLogSize]uint32
}

type fakeCharStore struct {
	saved map[uint32]savedChar
	fail  bool
}

func (f *fakeCharStore) SavePosition(_ context.Context, guid, mapID uint32, pos data.Position) error {
	if f.fail {
		return errors.New("db down")
	}
	c := f.saved[guid]
	c.mapID, c.pos = mapID, pos
	f.saved[guid] = c
	return nil
}

func (f *fakeCharStore) SaveQuestLog(_ context.Context, guid uint32, log [world.MaxQuestLogSize]uint32) error {
	c := f.saved[guid]
	c.quest = log
	f.saved[guid] = c
	return nil
}

func TestPersistenceSavesDirtyPlayersOnInterval(t *testing.T) {
	ws := world.NewState()
	dirty := &world.Player{SessionID: 1, GUID: packet.MakeGUID(packet.HighGUIDPlayer, 0, 10), Name: "Chen",
		Map: 870, Pos: data.Position{X: 1, Y: 2, Z: 3}, Dirty: true}
	dirty.QuestLog[3] = 29408
	clean := &world.Player{SessionID: 2, GUID: packet.MakeGUID(packet.HighGUIDPlayer, 0, 11), Name: "Li"}
	ws.AddPlayer(dirty)
	ws.AddPlayer(clean)

	store := &fakeCharStore{saved: map[uint32]savedChar{}}
	sys := NewPersistenceSystem(ws, store, zap.NewNop(), 3)

	sys.Update(50 * time.Millisecond)
	sys.Update(50 * time.Millisecond)
	assert.Empty(t, store.saved)

	sys.Update(50 * time.Millisecond)
	require.Contains(t, store.saved, uint32(10))
	assert.NotContains(t, store.saved, uint32(11))
	assert.Equal(t, uint32(870), store.saved[10].mapID)
	assert.Equal(t, uint32(29408), store.saved[10].quest[3])
	assert.False(t, dirty.Dirty)

	assert.Equal(t, 2, sys.SaveAllPlayers())
}

func TestPersistenceKeepsDirtyOnFailure(t *testing.T) {
	ws := world.NewState()
	p := &world.Player{SessionID: 1, GUID: packet.MakeGUID(packet.HighGUIDPlayer, 0, 10), Name: "Chen", Dirty: true}
	ws.AddPlayer(p)

	sys := NewPersistenceSystem(ws, &fakeCharStore{saved: map[uint32]savedChar{}, fail: true}, zap.NewNop(), 1)
	sys.Update(0)
	assert.True(t, p.Dirty)
	assert.Zero(t, sys.SaveAllPlayers())
}

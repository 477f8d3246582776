package system

import (
	"time"

	coresys "github.com/mopgo/server/internal/core/system"
	"github.com/mopgo/server/internal/net"
	"github.com/mopgo/server/internal/net/packet"
	"github.com/mopgo/server/internal/world"
	"go.uber.org/zap"
)

// SessionSource hands newly accepted sessions to the game loop.
type SessionSource interface {
	NewSessions() <-chan *net.Session
}

// DisconnectFunc cleans up after a closed session (world removal, saving).
type DisconnectFunc func(sess *net.Session)

// InputSystem drains packet queues from all sessions and dispatches them
// through the packet registry. PhaseInput.
type InputSystem struct {
	source       SessionSource
	registry     *packet.Registry
	store        *net.SessionStore
	worldState   *world.State
	onDisconnect DisconnectFunc
	maxPerTick   int
	log          *zap.Logger
}

func NewInputSystem(
	source SessionSource,
	registry *packet.Registry,
	store *net.SessionStore,
	worldState *world.State,
	onDisconnect DisconnectFunc,
	maxPerTick int,
	log *zap.Logger,
) *InputSystem {
	return &InputSystem{
		source:       source,
		registry:     registry,
		store:        store,
		worldState:   worldState,
		onDisconnect: onDisconnect,
		maxPerTick:   maxPerTick,
		log:          log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	s.acceptNew()

	s.store.ForEach(func(sess *net.Session) {
		if sess.IsClosed() {
			// The session is already Disconnecting and its connection is
			// gone, so queued packets are dropped unhandled.
			if n := s.discard(sess); n > 0 {
				s.log.Debug("丟棄斷線連線的封包",
					zap.Uint64("session", sess.ID),
					zap.Int("dropped", n),
				)
			}
			if s.onDisconnect != nil {
				s.onDisconnect(sess)
			}
			s.store.Remove(sess.ID)
			return
		}

		// Mark the player dirty if any in-world packets were processed;
		// the persistence system only saves dirty players.
		if s.drain(sess) > 0 && sess.State() == packet.StateInWorld {
			if p := s.worldState.GetBySession(sess.ID); p != nil {
				p.Dirty = true
			}
		}
	})

	// Early flush so replies start going out while later phases run.
	s.store.ForEach(func(sess *net.Session) {
		sess.FlushOutput()
	})
}

func (s *InputSystem) acceptNew() {
	for {
		select {
		case sess := <-s.source.NewSessions():
			s.store.Add(sess)
		default:
			return
		}
	}
}

// drain dispatches up to maxPerTick queued packets and returns how many ran.
func (s *InputSystem) drain(sess *net.Session) int {
	n := 0
	for ; n < s.maxPerTick; n++ {
		select {
		case body := <-sess.InQueue:
			if err := s.registry.Dispatch(sess, sess.State(), body); err != nil {
				s.log.Debug("封包分派錯誤",
					zap.Uint64("session", sess.ID),
					zap.Bool("closed", sess.IsClosed()),
					zap.Error(err),
				)
			}
		default:
			return n
		}
	}
	return n
}

// discard empties the inbound queue without dispatching and returns how
// many packets were dropped.
func (s *InputSystem) discard(sess *net.Session) int {
	n := 0
	for {
		select {
		case <-sess.InQueue:
			n++
		default:
			return n
		}
	}
}

// SessionCount returns the current number of connected sessions.
func (s *InputSystem) SessionCount() int {
	return s.store.Count()
}

package net

import (
	"encoding/binary"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mopgo/server/internal/data"
	"github.com/mopgo/server/internal/net/packet"
	"go.uber.org/zap"
)

// SessionOptions sizes the per-session queues and timeouts.
type SessionOptions struct {
	InQueueSize      int
	OutQueueSize     int
	PacketsPerSecond int // 0 = unlimited
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
}

// Session represents a single client connection. Network I/O runs in
// dedicated goroutines; game state is accessed only from the game loop.
type Session struct {
	ID   uint64
	conn frameConn

	state atomic.Int32 // packet.SessionState stored as int32

	InQueue  chan []byte // game loop reads frame bodies from here
	OutQueue chan []byte // writer goroutine reads from here

	IP          string
	AccountID   uint32
	AccountName string
	Locale      data.Locale

	outBuf [][]byte // buffered frame bodies, flushed by OutputSystem (game loop only)

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	readTimeout  time.Duration
	writeTimeout time.Duration

	// Per-second packet rate limiter (readLoop goroutine only, no lock needed)
	pktPerSec  int   // max packets/sec (0 = unlimited)
	pktCount   int   // packets received this second
	pktResetAt int64 // unix second of last counter reset

	log *zap.Logger
}

// NewSession wraps a stream connection using length-prefixed frames.
// The session is idle until Start.
func NewSession(conn net.Conn, id uint64, opts SessionOptions, log *zap.Logger) *Session {
	return newSession(&tcpConn{c: conn}, id, opts, log)
}

func newSession(conn frameConn, id uint64, opts SessionOptions, log *zap.Logger) *Session {
	s := &Session{
		ID:           id,
		conn:         conn,
		InQueue:      make(chan []byte, opts.InQueueSize),
		OutQueue:     make(chan []byte, opts.OutQueueSize),
		IP:           conn.RemoteAddr(),
		closeCh:      make(chan struct{}),
		readTimeout:  opts.ReadTimeout,
		writeTimeout: opts.WriteTimeout,
		pktPerSec:    opts.PacketsPerSecond,
		log:          log.With(zap.Uint64("session", id)),
	}
	s.state.Store(int32(packet.StateConnected))
	return s
}

func (s *Session) State() packet.SessionState {
	return packet.SessionState(s.state.Load())
}

func (s *Session) SetState(st packet.SessionState) {
	s.state.Store(int32(st))
}

// Start launches the reader and writer goroutines.
func (s *Session) Start() {
	go s.readLoop()
	go s.writeLoop()
}

// Send buffers a message for sending. It is not written to the connection
// until FlushOutput is called by the output system.
// Called only from the game loop goroutine; no lock needed on outBuf.
func (s *Session) Send(op packet.Opcode, payload []byte) {
	if s.closed.Load() {
		return
	}
	s.outBuf = append(s.outBuf, EncodeBody(op, payload))
}

// Pending returns the number of buffered, unflushed messages.
func (s *Session) Pending() int {
	return len(s.outBuf)
}

// FlushOutput drains the output buffer to OutQueue for the writeLoop goroutine.
// Non-blocking: if OutQueue is full, the session is disconnected (backpressure).
func (s *Session) FlushOutput() {
	for _, body := range s.outBuf {
		select {
		case s.OutQueue <- body:
		default:
			s.log.Warn("輸出佇列已滿，斷開慢速連線")
			s.Close()
			s.outBuf = s.outBuf[:0]
			return
		}
	}
	s.outBuf = s.outBuf[:0]
}

// Close gracefully shuts down the session.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.SetState(packet.StateDisconnecting)
		close(s.closeCh)
		s.conn.Close()
	})
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

func (s *Session) deadline(d time.Duration) time.Time {
	if d <= 0 {
		return time.Time{}
	}
	return time.Now().Add(d)
}

// readLoop runs in its own goroutine. It reads frames from the connection
// and pushes them onto InQueue for the game loop to consume.
func (s *Session) readLoop() {
	defer s.Close()

	for {
		select {
		case <-s.closeCh:
			return
		default:
		}

		body, err := s.conn.ReadFrame(s.deadline(s.readTimeout))
		if err != nil {
			if !s.closed.Load() {
				s.log.Debug("讀取錯誤", zap.Error(err))
			}
			return
		}

		if s.pktPerSec > 0 {
			now := time.Now().Unix()
			if now != s.pktResetAt {
				s.pktCount = 0
				s.pktResetAt = now
			}
			s.pktCount++
			if s.pktCount > s.pktPerSec {
				s.log.Warn("封包速率超限，斷開連線", zap.Int("pps", s.pktCount))
				return
			}
		}

		// Block until InQueue has space or the session closes. Only this
		// client's reader stalls.
		select {
		case s.InQueue <- body:
		case <-s.closeCh:
			return
		}
	}
}

// writeLoop runs in its own goroutine. It reads bodies from OutQueue and
// writes them as frames to the connection.
func (s *Session) writeLoop() {
	defer s.Close()

	for {
		select {
		case body := <-s.OutQueue:
			if !s.writeOne(body) {
				return
			}
		case <-s.closeCh:
			return
		}
	}
}

// writeOne writes a single frame. Returns false when the connection failed.
func (s *Session) writeOne(body []byte) bool {
	if ce := s.log.Check(zap.DebugLevel, "TX"); ce != nil {
		ce.Write(
			zap.Stringer("op", packet.Opcode(binary.LittleEndian.Uint16(body))),
			zap.Int("len", len(body)),
		)
	}

	if err := s.conn.WriteFrame(body, s.deadline(s.writeTimeout)); err != nil {
		if !s.closed.Load() {
			s.log.Debug("寫入錯誤", zap.Error(err))
		}
		return false
	}
	return true
}

package packet

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// SessionState represents the session's current protocol phase.
type SessionState int

const (
	StateConnected     SessionState = iota // awaiting CMSG_AUTH_SESSION
	StateAuthenticated                     // logged in, at character select
	StateInWorld                           // playing
	StateDisconnecting
)

func (s SessionState) String() string {
	switch s {
	case StateConnected:
		return "Connected"
	case StateAuthenticated:
		return "Authenticated"
	case StateInWorld:
		return "InWorld"
	case StateDisconnecting:
		return "Disconnecting"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// HandlerFunc is the callback signature for packet handlers.
// The session pointer is passed as an opaque interface to avoid import cycles.
// A non-nil error aborts the message only; the session stays up.
type HandlerFunc func(sess any, r *Reader) error

// stateSet is a bitmask of SessionState values.
type stateSet uint8

func (s stateSet) has(st SessionState) bool {
	return st >= 0 && st < 8 && s&(1<<uint(st)) != 0
}

type handlerEntry struct {
	fn      HandlerFunc
	allowed stateSet
}

// Registry maps opcodes to handlers with state-based access control.
// Registration happens at startup; Dispatch runs on the game loop only.
type Registry struct {
	handlers map[Opcode]handlerEntry
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		handlers: make(map[Opcode]handlerEntry),
		log:      log,
	}
}

// Register maps an opcode to a handler, restricted to the given session
// states. Registering an opcode twice panics.
func (reg *Registry) Register(op Opcode, states []SessionState, fn HandlerFunc) {
	if _, dup := reg.handlers[op]; dup {
		panic(fmt.Sprintf("packet: %s registered twice", op))
	}
	var allowed stateSet
	for _, st := range states {
		allowed |= 1 << uint(st)
	}
	reg.handlers[op] = handlerEntry{fn: fn, allowed: allowed}
}

// Registered reports whether op has a handler.
func (reg *Registry) Registered(op Opcode) bool {
	_, ok := reg.handlers[op]
	return ok
}

// Opcodes returns every registered opcode in ascending order.
func (reg *Registry) Opcodes() []Opcode {
	ops := make([]Opcode, 0, len(reg.handlers))
	for op := range reg.handlers {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

// Dispatch finds the handler for the opcode in data[0:2], validates the
// session state, and calls the handler. Unknown opcodes are ignored.
func (reg *Registry) Dispatch(sess any, state SessionState, data []byte) error {
	if len(data) < 2 {
		return ErrEmptyFrame
	}
	r := NewReader(data)
	op := r.Opcode()

	entry, ok := reg.handlers[op]
	if !ok {
		reg.log.Debug("未知操作碼", zap.Stringer("opcode", op), zap.Stringer("state", state))
		return nil
	}
	if !entry.allowed.has(state) {
		reg.log.Warn("操作碼在此狀態下不允許",
			zap.Stringer("opcode", op),
			zap.Stringer("state", state),
		)
		return fmt.Errorf("%w: %s in %s", ErrStateNotAllowed, op, state)
	}

	if ce := reg.log.Check(zap.DebugLevel, "收到封包"); ce != nil {
		ce.Write(zap.Stringer("opcode", op), zap.Int("size", len(data)))
	}
	if err := reg.safeCall(entry.fn, sess, r, op); err != nil {
		return fmt.Errorf("handle %s: %w", op, err)
	}
	return nil
}

// safeCall runs a handler, turning a panic into an error so one bad
// message cannot stop the game loop.
func (reg *Registry) safeCall(fn HandlerFunc, sess any, r *Reader, op Opcode) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reg.log.Error("處理器 panic 已恢復",
				zap.Stringer("opcode", op),
				zap.Any("panic", rec),
				zap.Stack("stack"),
			)
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, rec)
		}
	}()
	return fn(sess, r)
}

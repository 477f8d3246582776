package packet

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegistryDispatch(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	var got uint32
	reg.Register(CMSG_CREATURE_QUERY, []SessionState{StateInWorld}, func(sess any, r *Reader) error {
		got = r.ReadUint32()
		return r.Err()
	})

	err := reg.Dispatch(nil, StateInWorld, frame(CMSG_CREATURE_QUERY, 0x2A, 0, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, uint32(42), got)
	assert.True(t, reg.Registered(CMSG_CREATURE_QUERY))
}

func TestRegistryRejectsState(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	reg.Register(CMSG_CREATURE_QUERY, []SessionState{StateInWorld}, func(any, *Reader) error { return nil })

	err := reg.Dispatch(nil, StateConnected, frame(CMSG_CREATURE_QUERY))
	require.ErrorIs(t, err, ErrStateNotAllowed)
}

func TestRegistryIgnoresUnknownOpcode(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	require.NoError(t, reg.Dispatch(nil, StateInWorld, frame(0x7777)))
	require.ErrorIs(t, reg.Dispatch(nil, StateInWorld, []byte{1}), ErrEmptyFrame)
}

func TestRegistryWrapsHandlerErrors(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	reg.Register(CMSG_PAGE_TEXT_QUERY, []SessionState{StateInWorld}, func(_ any, r *Reader) error {
		r.ReadUint32()
		return r.Err()
	})
	err := reg.Dispatch(nil, StateInWorld, frame(CMSG_PAGE_TEXT_QUERY, 1))
	require.True(t, errors.Is(err, ErrTruncated))
}

func TestRegistryRecoversPanic(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	reg.Register(CMSG_CORPSE_QUERY, []SessionState{StateInWorld}, func(any, *Reader) error {
		w := NewWriter(SMSG_CORPSE_QUERY)
		w.WriteBit(true)
		w.WriteUint32(0)
		return nil
	})
	err := reg.Dispatch(nil, StateInWorld, frame(CMSG_CORPSE_QUERY))
	require.ErrorIs(t, err, ErrHandlerPanic)
	assert.Contains(t, err.Error(), CMSG_CORPSE_QUERY.String())
}

func TestRegistryMultipleStates(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	calls := 0
	reg.Register(CMSG_QUERY_TIME, []SessionState{StateAuthenticated, StateInWorld}, func(any, *Reader) error {
		calls++
		return nil
	})

	require.NoError(t, reg.Dispatch(nil, StateAuthenticated, frame(CMSG_QUERY_TIME)))
	require.NoError(t, reg.Dispatch(nil, StateInWorld, frame(CMSG_QUERY_TIME)))
	require.ErrorIs(t, reg.Dispatch(nil, StateDisconnecting, frame(CMSG_QUERY_TIME)), ErrStateNotAllowed)
	require.ErrorIs(t, reg.Dispatch(nil, SessionState(-1), frame(CMSG_QUERY_TIME)), ErrStateNotAllowed)
	assert.Equal(t, 2, calls)
}

func TestRegistryOpcodesAndDuplicates(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	noop := func(any, *Reader) error { return nil }
	reg.Register(CMSG_PAGE_TEXT_QUERY, []SessionState{StateInWorld}, noop)
	reg.Register(CMSG_AUTH_SESSION, []SessionState{StateConnected}, noop)

	ops := reg.Opcodes()
	require.Len(t, ops, 2)
	assert.Less(t, ops[0], ops[1])

	assert.Panics(t, func() {
		reg.Register(CMSG_AUTH_SESSION, []SessionState{StateConnected}, noop)
	})
}

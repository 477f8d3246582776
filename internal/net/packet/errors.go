package packet

import "errors"

var (
	// ErrTruncated is recorded by a Reader that runs past the end of its frame.
	ErrTruncated = errors.New("packet: truncated message")
	// ErrEmptyFrame is returned by Dispatch for a frame without an opcode.
	ErrEmptyFrame = errors.New("packet: empty frame")
	// ErrStateNotAllowed is returned by Dispatch when the session state forbids the opcode.
	ErrStateNotAllowed = errors.New("packet: opcode not allowed in session state")
	// ErrHandlerPanic wraps a panic recovered from a handler.
	ErrHandlerPanic = errors.New("packet: handler panic")
)

package net

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/mopgo/server/internal/net/packet"
)

// MaxFrameSize bounds a frame body (opcode plus payload).
const MaxFrameSize = 0xFFFF - 2

// ReadFrame reads one frame from r.
// Wire format: [2 bytes LE: total length including header][2 bytes LE: opcode][payload].
// Returns the opcode and payload bytes (without the 2-byte length header).
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [2]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read frame header: %w", err)
	}

	totalLen := int(binary.LittleEndian.Uint16(header[:]))
	bodyLen := totalLen - 2
	if bodyLen < 2 {
		return nil, fmt.Errorf("invalid frame length: %d", totalLen)
	}

	body := make([]byte, bodyLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("read frame body (%d bytes): %w", bodyLen, err)
	}
	return body, nil
}

// WriteFrame writes one frame to w. body holds the opcode and payload.
// Wire format: [2 bytes LE: len(body)+2][body].
func WriteFrame(w io.Writer, body []byte) error {
	if len(body) > MaxFrameSize {
		return fmt.Errorf("frame body too large: %d bytes", len(body))
	}
	buf := make([]byte, 2+len(body))
	binary.LittleEndian.PutUint16(buf, uint16(len(buf)))
	copy(buf[2:], body)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// EncodeBody prefixes a payload with its opcode.
func EncodeBody(op packet.Opcode, payload []byte) []byte {
	body := make([]byte, 2+len(payload))
	binary.LittleEndian.PutUint16(body, uint16(op))
	copy(body[2:], payload)
	return body
}

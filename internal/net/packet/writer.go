package packet

import (
	"encoding/binary"
	"math"
)

// Writer builds a server packet. Multi-byte fields are little-endian.
//
// Single-bit fields are accumulated MSB-first into a pending byte that is
// appended once eight bits are collected or FlushBits is called. Every
// message flushes its bits before writing byte-aligned fields; writing a
// byte-aligned field with bits pending panics.
type Writer struct {
	op     Opcode
	buf    []byte
	curBit byte
	bitPos uint8 // bits already written into curBit (0-7)
}

func NewWriter(op Opcode) *Writer {
	return &Writer{op: op, buf: make([]byte, 0, 64)}
}

// NewWriterSize preallocates size bytes of payload capacity.
func NewWriterSize(op Opcode, size int) *Writer {
	return &Writer{op: op, buf: make([]byte, 0, size)}
}

// WriteBit appends one bit to the pending byte.
func (w *Writer) WriteBit(v bool) {
	if v {
		w.curBit |= 1 << (7 - w.bitPos)
	}
	w.bitPos++
	if w.bitPos == 8 {
		w.buf = append(w.buf, w.curBit)
		w.curBit = 0
		w.bitPos = 0
	}
}

// WriteBits writes the low n bits of v, most significant first.
func (w *Writer) WriteBits(v uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		w.WriteBit((v>>uint(i))&1 != 0)
	}
}

// FlushBits pads the pending byte with zero bits and appends it.
// No-op when nothing is pending.
func (w *Writer) FlushBits() {
	if w.bitPos == 0 {
		return
	}
	w.buf = append(w.buf, w.curBit)
	w.curBit = 0
	w.bitPos = 0
}

// PendingBits returns the number of bits waiting for a flush.
func (w *Writer) PendingBits() int {
	return int(w.bitPos)
}

func (w *Writer) mustBeAligned() {
	if w.bitPos != 0 {
		panic("packet: byte-aligned write with unflushed bits (opcode " + w.op.String() + ")")
	}
}

// WriteUint8 writes 1 byte.
func (w *Writer) WriteUint8(v uint8) {
	w.mustBeAligned()
	w.buf = append(w.buf, v)
}

// WriteUint16 writes 2 bytes.
func (w *Writer) WriteUint16(v uint16) {
	w.mustBeAligned()
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

// WriteUint32 writes 4 bytes.
func (w *Writer) WriteUint32(v uint32) {
	w.mustBeAligned()
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// WriteInt32 writes 4 bytes (two's complement).
func (w *Writer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

// WriteUint64 writes 8 bytes.
func (w *Writer) WriteUint64(v uint64) {
	w.mustBeAligned()
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

// WriteFloat writes an IEEE-754 float32.
func (w *Writer) WriteFloat(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

// WriteString writes the raw bytes of s with no terminator. The length is
// carried elsewhere in the message, usually as a bit field.
func (w *Writer) WriteString(s string) {
	w.mustBeAligned()
	w.buf = append(w.buf, s...)
}

// WriteCString writes s followed by a NUL terminator.
func (w *Writer) WriteCString(s string) {
	w.mustBeAligned()
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
}

// WriteBytes writes raw bytes.
func (w *Writer) WriteBytes(b []byte) {
	w.mustBeAligned()
	w.buf = append(w.buf, b...)
}

// Cursor marks a reserved region of the payload to be patched later.
type Cursor struct {
	off   int
	width int
}

// Reserve appends width zero bytes and returns their position.
func (w *Writer) Reserve(width int) Cursor {
	w.mustBeAligned()
	c := Cursor{off: len(w.buf), width: width}
	for i := 0; i < width; i++ {
		w.buf = append(w.buf, 0)
	}
	return c
}

// SizeSince returns the number of payload bytes written after the reserved
// region of c.
func (w *Writer) SizeSince(c Cursor) int {
	return len(w.buf) - (c.off + c.width)
}

// PatchUint32 overwrites a 4-byte reserved region.
func (w *Writer) PatchUint32(c Cursor, v uint32) {
	if c.width != 4 {
		panic("packet: PatchUint32 on a reservation that is not 4 bytes wide")
	}
	binary.LittleEndian.PutUint32(w.buf[c.off:], v)
}

// Opcode returns the message opcode.
func (w *Writer) Opcode() Opcode {
	return w.op
}

// Bytes flushes pending bits and returns the payload (without opcode).
func (w *Writer) Bytes() []byte {
	w.FlushBits()
	return w.buf
}

// Len returns the current payload length, not counting pending bits.
func (w *Writer) Len() int {
	return len(w.buf)
}

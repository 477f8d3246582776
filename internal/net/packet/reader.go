package packet

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Reader reads client packet fields from a frame body.
// Bytes 0-1 are always the opcode (little-endian).
//
// Reading past the end records ErrTruncated; every later read returns a
// zero value. Handlers decode the whole request and check Err once.
type Reader struct {
	data   []byte
	off    int
	curBit byte
	bitPos uint8 // bits consumed from curBit; 8 means a new byte is needed
	err    error
}

func NewReader(data []byte) *Reader {
	off := 2
	if len(data) < 2 {
		off = len(data)
	}
	return &Reader{data: data, off: off, bitPos: 8}
}

func (r *Reader) Opcode() Opcode {
	if len(r.data) < 2 {
		return 0
	}
	return Opcode(binary.LittleEndian.Uint16(r.data))
}

// Err returns the first decode error, if any.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if r.off+n > len(r.data) {
		r.err = fmt.Errorf("%w: need %d bytes at offset %d of %d", ErrTruncated, n, r.off, len(r.data))
		r.off = len(r.data)
		return false
	}
	return true
}

// ReadBit reads one bit, MSB-first within the current byte.
func (r *Reader) ReadBit() bool {
	if r.bitPos == 8 {
		if !r.need(1) {
			return false
		}
		r.curBit = r.data[r.off]
		r.off++
		r.bitPos = 0
	}
	v := r.curBit&(1<<(7-r.bitPos)) != 0
	r.bitPos++
	return v
}

// ReadBits reads an n-bit unsigned value, most significant bit first.
func (r *Reader) ReadBits(n int) uint32 {
	var v uint32
	for i := n - 1; i >= 0; i-- {
		if r.ReadBit() {
			v |= 1 << uint(i)
		}
	}
	return v
}

// FlushBits discards the unread bits of the current byte.
func (r *Reader) FlushBits() {
	r.bitPos = 8
	r.curBit = 0
}

// ReadUint8 reads 1 byte.
func (r *Reader) ReadUint8() uint8 {
	r.FlushBits()
	if !r.need(1) {
		return 0
	}
	v := r.data[r.off]
	r.off++
	return v
}

// ReadUint16 reads 2 bytes.
func (r *Reader) ReadUint16() uint16 {
	r.FlushBits()
	if !r.need(2) {
		return 0
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v
}

// ReadUint32 reads 4 bytes.
func (r *Reader) ReadUint32() uint32 {
	r.FlushBits()
	if !r.need(4) {
		return 0
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v
}

// ReadInt32 reads 4 bytes as a signed value.
func (r *Reader) ReadInt32() int32 {
	return int32(r.ReadUint32())
}

// ReadUint64 reads 8 bytes.
func (r *Reader) ReadUint64() uint64 {
	r.FlushBits()
	if !r.need(8) {
		return 0
	}
	v := binary.LittleEndian.Uint64(r.data[r.off:])
	r.off += 8
	return v
}

// ReadFloat reads an IEEE-754 float32.
func (r *Reader) ReadFloat() float32 {
	return math.Float32frombits(r.ReadUint32())
}

// ReadString reads n raw bytes as a string.
func (r *Reader) ReadString(n int) string {
	r.FlushBits()
	if n < 0 || !r.need(n) {
		return ""
	}
	s := string(r.data[r.off : r.off+n])
	r.off += n
	return s
}

// ReadCString reads a NUL-terminated string. A missing terminator is a
// truncated message.
func (r *Reader) ReadCString() string {
	r.FlushBits()
	if r.err != nil {
		return ""
	}
	for i := r.off; i < len(r.data); i++ {
		if r.data[i] == 0 {
			s := string(r.data[r.off:i])
			r.off = i + 1
			return s
		}
	}
	r.need(len(r.data) - r.off + 1)
	return ""
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

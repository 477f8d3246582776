package packet

import "fmt"

// ObjectGUID is the opaque 64-bit identifier of a player, creature, game
// object or corpse. Byte i is bits 8*i..8*i+7.
type ObjectGUID uint64

// HighGUID is the type tag stored in the top 16 bits of an ObjectGUID.
type HighGUID uint16

const (
	HighGUIDPlayer     HighGUID = 0x0000
	HighGUIDGameObject HighGUID = 0xF110
	HighGUIDTransport  HighGUID = 0xF120
	HighGUIDUnit       HighGUID = 0xF130
	HighGUIDCorpse     HighGUID = 0xF101
)

// MakeGUID composes a GUID from its type tag, template entry and counter.
// Only the world and persistence layers mint GUIDs; the codec never does.
func MakeGUID(high HighGUID, entry, low uint32) ObjectGUID {
	if entry == 0 {
		return ObjectGUID(uint64(high)<<48 | uint64(low))
	}
	return ObjectGUID(uint64(high)<<48 | uint64(entry&0xFFFFFF)<<24 | uint64(low&0xFFFFFF))
}

// Byte returns byte i (0 = least significant).
func (g ObjectGUID) Byte(i uint8) byte {
	return byte(g >> (8 * uint(i&7)))
}

// High returns the type tag.
func (g ObjectGUID) High() HighGUID {
	return HighGUID(g >> 48)
}

// Low returns the low 32 bits, the counter part of player GUIDs.
func (g ObjectGUID) Low() uint32 {
	return uint32(g)
}

func (g ObjectGUID) String() string {
	return fmt.Sprintf("0x%016X", uint64(g))
}

// WriteGUIDMask writes one presence bit per index in order: set when that
// byte of g is non-zero.
func (w *Writer) WriteGUIDMask(g ObjectGUID, order ...uint8) {
	for _, i := range order {
		w.WriteBit(g.Byte(i) != 0)
	}
}

// WriteGUIDBytes writes the non-zero bytes of g in order, each XORed with 1.
// Zero bytes are omitted; their presence bit already told the client so.
func (w *Writer) WriteGUIDBytes(g ObjectGUID, order ...uint8) {
	for _, i := range order {
		if b := g.Byte(i); b != 0 {
			w.WriteUint8(b ^ 1)
		}
	}
}

// GUIDStream collects a GUID while its mask and bytes are read off the wire.
// A byte holds 1 after its presence bit is read and the decoded value after
// its byte is read.
type GUIDStream [8]byte

// GUID assembles the decoded value. Bytes whose presence bit was clear are zero.
func (s *GUIDStream) GUID() ObjectGUID {
	var g ObjectGUID
	for i := 7; i >= 0; i-- {
		g = g<<8 | ObjectGUID(s[i])
	}
	return g
}

// ReadGUIDMask reads one presence bit per index in order.
func (r *Reader) ReadGUIDMask(s *GUIDStream, order ...uint8) {
	for _, i := range order {
		if r.ReadBit() {
			s[i&7] = 1
		} else {
			s[i&7] = 0
		}
	}
}

// ReadGUIDBytes reads the byte of every present index in order.
func (r *Reader) ReadGUIDBytes(s *GUIDStream, order ...uint8) {
	for _, i := range order {
		if s[i&7] != 0 {
			s[i&7] ^= r.ReadUint8()
		}
	}
}

// GUIDLayout is the wire ordering of one message's GUID: the order of the
// eight presence bits and, independently, the order of the eight bytes.
type GUIDLayout struct {
	Mask  [8]uint8
	Bytes [8]uint8
}

// Write emits the mask, flushes, then emits the bytes.
func (l *GUIDLayout) Write(w *Writer, g ObjectGUID) {
	w.WriteGUIDMask(g, l.Mask[:]...)
	w.FlushBits()
	w.WriteGUIDBytes(g, l.Bytes[:]...)
}

// Read is the inverse of Write.
func (l *GUIDLayout) Read(r *Reader) ObjectGUID {
	var s GUIDStream
	r.ReadGUIDMask(&s, l.Mask[:]...)
	r.FlushBits()
	r.ReadGUIDBytes(&s, l.Bytes[:]...)
	return s.GUID()
}

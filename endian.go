package xo2

import (
	"encoding/binary"
	"math/bits"
)

func Swap16(v uint16) uint16 { return bits.ReverseBytes16(v) }
func Swap32(v uint32) uint32 { return bits.ReverseBytes32(v) }
func Swap64(v uint64) uint64 { return bits.ReverseBytes64(v) }

// ByteOrder describes how a raw register word is laid out relative to the
// register numbering of [TN1204]. LittleEndian words carry DONE at bit 8;
// BigEndian words are byte reversed and carry DONE at bit 16.
type ByteOrder uint8

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

func (o ByteOrder) String() string {
	if o == BigEndian {
		return "big-endian"
	}
	return "little-endian"
}

// HostOrder returns the byte order of the running platform.
func HostOrder() ByteOrder {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)
	if b[0] == 1 {
		return LittleEndian
	}
	return BigEndian
}

// The device shifts register values MSB first. Word* assemble a raw word from
// reply bytes in layout o.

func (o ByteOrder) Word16(b []byte) uint16 {
	if o == BigEndian {
		return binary.LittleEndian.Uint16(b)
	}
	return binary.BigEndian.Uint16(b)
}

func (o ByteOrder) Word32(b []byte) uint32 {
	if o == BigEndian {
		return binary.LittleEndian.Uint32(b)
	}
	return binary.BigEndian.Uint32(b)
}

func (o ByteOrder) Word64(b []byte) uint64 {
	if o == BigEndian {
		return binary.LittleEndian.Uint64(b)
	}
	return binary.BigEndian.Uint64(b)
}

// Normalize* bring a raw word in layout o back into register order.

func (o ByteOrder) Normalize16(v uint16) uint16 {
	if o == BigEndian {
		return Swap16(v)
	}
	return v
}

func (o ByteOrder) Normalize32(v uint32) uint32 {
	if o == BigEndian {
		return Swap32(v)
	}
	return v
}

func (o ByteOrder) Normalize64(v uint64) uint64 {
	if o == BigEndian {
		return Swap64(v)
	}
	return v
}

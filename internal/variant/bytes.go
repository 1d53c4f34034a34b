package variant

import (
	"math"

	"basic/internal/rterr"
)

// ByteSize implements §4.1 byte_size(): Integer=2, Long=4, Single=4,
// Double=8, fixed-length String=declared length, variable String=current
// byte length (§6.4, §3.3). Arrays/records compute their own byte_size in
// the arrays/rtypes packages, which call this per-element.
func (v Variant) ByteSize() int {
	switch v.Kind {
	case KindInteger:
		return 2
	case KindLong, KindSingle:
		return 4
	case KindDouble:
		return 8
	case KindString:
		return len(v.s)
	default:
		return 0
	}
}

func (v Variant) toBytes() []byte {
	switch v.Kind {
	case KindInteger:
		n := uint16(int16(v.i))
		return []byte{byte(n), byte(n >> 8)}
	case KindLong:
		n := uint32(int32(v.i))
		return []byte{byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24)}
	case KindSingle:
		n := math.Float32bits(v.SingleVal())
		return []byte{byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24)}
	case KindDouble:
		n := math.Float64bits(v.f)
		buf := make([]byte, 8)
		for i := 0; i < 8; i++ {
			buf[i] = byte(n >> (8 * i))
		}
		return buf
	case KindString:
		return []byte(v.s)
	default:
		return nil
	}
}

func fromBytes(k Kind, buf []byte, fixedLen int, isFixed bool) Variant {
	switch k {
	case KindInteger:
		n := uint16(buf[0]) | uint16(buf[1])<<8
		return Int(int32(int16(n)))
	case KindLong:
		n := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
		return Long(int32(n))
	case KindSingle:
		n := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
		return Single(math.Float32frombits(n))
	case KindDouble:
		var n uint64
		for i := 0; i < 8; i++ {
			n |= uint64(buf[i]) << (8 * i)
		}
		return Double(math.Float64frombits(n))
	case KindString:
		v := Variant{Kind: KindString, s: string(buf), isFixed: isFixed, fixedLen: fixedLen}
		return v
	default:
		return Variant{}
	}
}

// PeekByte implements §4.1 peek_byte(addr): addr is relative to this
// value's own byte layout (0-indexed). Out-of-range addresses raise
// SubscriptOutOfRange, matching §4.3's peek/poke contract.
func (v Variant) PeekByte(addr int) (byte, error) {
	buf := v.toBytes()
	if addr < 0 || addr >= len(buf) {
		return 0, rterr.New(rterr.SubscriptOutOfRange, "byte offset %d out of range (size %d)", addr, len(buf))
	}
	return buf[addr], nil
}

// PokeByte implements §4.1 poke_byte(addr, b): returns a new Variant of
// the same kind (and, for strings, the same fixed/variable-length status)
// with one byte replaced.
func (v Variant) PokeByte(addr int, b byte) (Variant, error) {
	buf := v.toBytes()
	if addr < 0 || addr >= len(buf) {
		return Variant{}, rterr.New(rterr.SubscriptOutOfRange, "byte offset %d out of range (size %d)", addr, len(buf))
	}
	buf[addr] = b
	return fromBytes(v.Kind, buf, v.fixedLen, v.isFixed), nil
}

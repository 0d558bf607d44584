package scale

import (
	"encoding/binary"

	"github.com/holiman/uint256"
)

// Compact integer mode boundaries.
const (
	compactSingleMax = 1<<6 - 1
	compactTwoMax    = 1<<14 - 1
	compactFourMax   = 1<<30 - 1

	// compactMaxBytes is the widest big-integer payload accepted; wider
	// payloads cannot belong to any supported integer type.
	compactMaxBytes = 32
)

// AppendCompact appends the compact encoding of v to dst.
//
//	0 .. 2^6-1     1 byte   v<<2
//	.. 2^14-1      2 bytes  v<<2 | 0b01
//	.. 2^30-1      4 bytes  v<<2 | 0b10
//	larger         1 + n    ((n-4)<<2 | 0b11), then n little-endian bytes, n >= 4 minimal
func AppendCompact(dst []byte, v *uint256.Int) []byte {
	if v.IsUint64() {
		return AppendCompactUint64(dst, v.Uint64())
	}
	return appendCompactBig(dst, v)
}

// AppendCompactUint64 appends the compact encoding of v to dst.
func AppendCompactUint64(dst []byte, v uint64) []byte {
	switch {
	case v <= compactSingleMax:
		return append(dst, byte(v)<<2)
	case v <= compactTwoMax:
		return binary.LittleEndian.AppendUint16(dst, uint16(v)<<2|0b01)
	case v <= compactFourMax:
		return binary.LittleEndian.AppendUint32(dst, uint32(v)<<2|0b10)
	default:
		n := 8
		for n > 4 && v>>(8*(n-1)) == 0 {
			n--
		}
		dst = append(dst, byte(n-4)<<2|0b11)
		for i := 0; i < n; i++ {
			dst = append(dst, byte(v>>(8*i)))
		}
		return dst
	}
}

func appendCompactBig(dst []byte, v *uint256.Int) []byte {
	be := v.Bytes32()
	n := v.ByteLen()
	if n < 4 {
		n = 4
	}
	dst = append(dst, byte(n-4)<<2|0b11)
	for i := 0; i < n; i++ {
		dst = append(dst, be[31-i])
	}
	return dst
}

// CompactLen returns the number of bytes the compact encoding of v occupies.
func CompactLen(v uint64) int {
	switch {
	case v <= compactSingleMax:
		return 1
	case v <= compactTwoMax:
		return 2
	case v <= compactFourMax:
		return 4
	default:
		n := 8
		for n > 4 && v>>(8*(n-1)) == 0 {
			n--
		}
		return 1 + n
	}
}

// EncodeCompact returns the compact encoding of v.
func EncodeCompact(v uint64) []byte {
	return AppendCompactUint64(make([]byte, 0, CompactLen(v)), v)
}

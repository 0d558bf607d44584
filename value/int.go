package value

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/holiman/uint256"

	"github.com/wippyai/contract-transcode/errors"
)

// MaxBits is the widest supported integer.
const MaxBits = 256

// Int is a fixed-width integer of 8 to 256 bits held as sign and magnitude.
// Bits and Signed record the width the value was parsed or decoded for;
// equality compares only the numeric value.
type Int struct {
	mag    uint256.Int
	Bits   int
	Signed bool
	neg    bool
}

// NewUint returns an unsigned integer of the given width.
func NewUint(bits int, v uint64) *Int {
	i := &Int{Bits: bits}
	i.mag.SetUint64(v)
	return i
}

// NewInt returns a signed integer of the given width.
func NewInt(bits int, v int64) *Int {
	i := &Int{Bits: bits, Signed: true}
	if v < 0 {
		i.neg = true
		i.mag.SetUint64(uint64(-(v + 1)) + 1)
	} else {
		i.mag.SetUint64(uint64(v))
	}
	return i
}

// NewFromUint256 returns a non-negative integer with magnitude m.
func NewFromUint256(bits int, signed bool, m *uint256.Int) *Int {
	i := &Int{Bits: bits, Signed: signed}
	i.mag.Set(m)
	return i
}

// ParseInt parses a decimal or 0x-prefixed hexadecimal integer for a type
// of the given width. Underscores between digits are ignored and a leading
// '-' is allowed for signed types. Unsigned hex for a signed type that
// spells exactly the type's width is two's complement: 0xff is -1 for i8,
// while 0x0ff is 255 and overflows. Syntax errors have kind
// literal_parse_error, out-of-range values overflow.
func ParseInt(s string, bits int, signed bool) (*Int, error) {
	text := s
	neg := false
	if strings.HasPrefix(text, "-") {
		neg = true
		text = text[1:]
	} else if strings.HasPrefix(text, "+") {
		text = text[1:]
	}
	digits := strings.ReplaceAll(text, "_", "")
	if digits == "" || strings.HasPrefix(text, "_") || strings.HasSuffix(text, "_") {
		return nil, syntaxError(s)
	}

	i := &Int{Bits: bits, Signed: signed, neg: neg}
	if len(digits) > 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		h := digits[2:]
		if len(h)%2 == 1 {
			h = "0" + h
		}
		raw, err := hex.DecodeString(h)
		if err != nil {
			return nil, syntaxError(s)
		}
		if signed && !neg && len(h) == bits/4 && raw[0]&0x80 != 0 {
			raw = negate(raw)
			i.neg = true
		}
		raw = trimLeadingZeros(raw)
		if len(raw) > 32 {
			return nil, errors.Overflow(errors.PhaseParse, nil, s, typeName(bits, signed))
		}
		i.mag.SetBytes(raw)
	} else {
		for _, c := range digits {
			if c < '0' || c > '9' {
				return nil, syntaxError(s)
			}
		}
		if err := i.mag.SetFromDecimal(digits); err != nil {
			return nil, errors.Overflow(errors.PhaseParse, nil, s, typeName(bits, signed))
		}
	}

	if i.mag.IsZero() {
		i.neg = false
	}
	if neg && !signed && !i.mag.IsZero() {
		return nil, errors.Overflow(errors.PhaseParse, nil, s, typeName(bits, signed))
	}
	if !i.FitsIn(bits, signed) {
		return nil, errors.Overflow(errors.PhaseParse, nil, s, typeName(bits, signed))
	}
	return i, nil
}

func syntaxError(s string) *errors.Error {
	return errors.New(errors.PhaseParse, errors.KindLiteralParse).
		Value(s).
		Detail("invalid integer %q", s).
		Build()
}

func typeName(bits int, signed bool) string {
	if signed {
		return "i" + strconv.Itoa(bits)
	}
	return "u" + strconv.Itoa(bits)
}

// negate returns the two's complement of the big-endian bytes b.
func negate(b []byte) []byte {
	out := make([]byte, len(b))
	carry := 1
	for j := len(b) - 1; j >= 0; j-- {
		v := int(^b[j]) + carry
		out[j] = byte(v)
		carry = v >> 8
	}
	return out
}

func trimLeadingZeros(b []byte) []byte {
	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	return b
}

// FromLE decodes a little-endian two's complement integer. The width is
// len(b)*8 bits and must not exceed MaxBits.
func FromLE(b []byte, signed bool) *Int {
	bits := len(b) * 8
	i := &Int{Bits: bits, Signed: signed}
	if len(b) == 0 {
		return i
	}

	var be [32]byte
	for k, c := range b {
		be[31-k] = c
	}
	var x uint256.Int
	x.SetBytes32(be[:])

	if signed && b[len(b)-1]&0x80 != 0 {
		i.neg = true
		if bits == MaxBits {
			i.mag.Neg(&x)
		} else {
			var limit uint256.Int
			limit.Lsh(uint256.NewInt(1), uint(bits))
			i.mag.Sub(&limit, &x)
		}
		return i
	}
	i.mag.Set(&x)
	return i
}

// PutLE writes the value as a little-endian two's complement integer of
// len(dst) bytes. The caller checks the range with FitsIn first.
func (i *Int) PutLE(dst []byte) {
	var x uint256.Int
	if i.neg {
		x.Neg(&i.mag)
	} else {
		x.Set(&i.mag)
	}
	be := x.Bytes32()
	for k := range dst {
		dst[k] = be[31-k]
	}
}

// FitsIn reports whether the value is representable in the given width.
func (i *Int) FitsIn(bits int, signed bool) bool {
	if bits <= 0 || bits > MaxBits {
		return false
	}
	n := i.mag.BitLen()
	if !signed {
		return !i.neg && n <= bits
	}
	if !i.neg {
		return n <= bits-1
	}
	if n < bits {
		return true
	}
	// -2^(bits-1) is the only negative value with a full-width magnitude.
	var lowest uint256.Int
	lowest.Lsh(uint256.NewInt(1), uint(bits-1))
	return i.mag.Eq(&lowest)
}

// IsNeg reports whether the value is below zero.
func (i *Int) IsNeg() bool {
	return i.neg
}

// IsZero reports whether the value is zero.
func (i *Int) IsZero() bool {
	return i.mag.IsZero()
}

// Magnitude returns a copy of the absolute value.
func (i *Int) Magnitude() *uint256.Int {
	return new(uint256.Int).Set(&i.mag)
}

// Uint64 returns the value as uint64 and whether it fits.
func (i *Int) Uint64() (uint64, bool) {
	if i.neg || !i.mag.IsUint64() {
		return 0, false
	}
	return i.mag.Uint64(), true
}

// Int64 returns the value as int64 and whether it fits.
func (i *Int) Int64() (int64, bool) {
	if !i.mag.IsUint64() {
		return 0, false
	}
	m := i.mag.Uint64()
	if i.neg {
		if m > 1<<63 {
			return 0, false
		}
		return -int64(m-1) - 1, true
	}
	if m > 1<<63-1 {
		return 0, false
	}
	return int64(m), true
}

// Cmp compares the numeric values of i and o.
func (i *Int) Cmp(o *Int) int {
	switch {
	case i.neg && !o.neg:
		return -1
	case !i.neg && o.neg:
		return 1
	case i.neg:
		return o.mag.Cmp(&i.mag)
	default:
		return i.mag.Cmp(&o.mag)
	}
}

// String returns the decimal representation.
func (i *Int) String() string {
	if i.neg {
		return "-" + i.mag.Dec()
	}
	return i.mag.Dec()
}

// Hex returns the 0x-prefixed hexadecimal representation of the magnitude,
// with a leading '-' for negative values.
func (i *Int) Hex() string {
	if i.neg {
		return "-" + i.mag.Hex()
	}
	return i.mag.Hex()
}

package registry

// Kind is the shape of a type definition.
type Kind uint8

const (
	KindPrimitive Kind = iota
	KindComposite
	KindVariant
	KindSequence
	KindArray
	KindTuple
	KindCompact
	KindBitSequence
)

var kindNames = [...]string{
	KindPrimitive:   "primitive",
	KindComposite:   "composite",
	KindVariant:     "variant",
	KindSequence:    "sequence",
	KindArray:       "array",
	KindTuple:       "tuple",
	KindCompact:     "compact",
	KindBitSequence: "bitSequence",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Prim is a primitive type.
type Prim uint8

const (
	PrimBool Prim = iota
	PrimChar
	PrimStr
	PrimU8
	PrimU16
	PrimU32
	PrimU64
	PrimU128
	PrimU256
	PrimI8
	PrimI16
	PrimI32
	PrimI64
	PrimI128
	PrimI256
)

var primNames = [...]string{
	PrimBool: "bool",
	PrimChar: "char",
	PrimStr:  "str",
	PrimU8:   "u8",
	PrimU16:  "u16",
	PrimU32:  "u32",
	PrimU64:  "u64",
	PrimU128: "u128",
	PrimU256: "u256",
	PrimI8:   "i8",
	PrimI16:  "i16",
	PrimI32:  "i32",
	PrimI64:  "i64",
	PrimI128: "i128",
	PrimI256: "i256",
}

func (p Prim) String() string {
	if int(p) < len(primNames) {
		return primNames[p]
	}
	return "unknown"
}

// ParsePrim maps a metadata primitive name to a Prim.
func ParsePrim(name string) (Prim, bool) {
	for i, n := range primNames {
		if n == name {
			return Prim(i), true
		}
	}
	return 0, false
}

// IsInt reports whether p is a fixed-width integer.
func (p Prim) IsInt() bool {
	return p >= PrimU8 && p <= PrimI256
}

// IsSigned reports whether p is a signed integer.
func (p Prim) IsSigned() bool {
	return p >= PrimI8 && p <= PrimI256
}

// Bits returns the integer width in bits, 0 for non-integers.
func (p Prim) Bits() int {
	switch p {
	case PrimU8, PrimI8:
		return 8
	case PrimU16, PrimI16:
		return 16
	case PrimU32, PrimI32:
		return 32
	case PrimU64, PrimI64:
		return 64
	case PrimU128, PrimI128:
		return 128
	case PrimU256, PrimI256:
		return 256
	default:
		return 0
	}
}

// Size returns the fixed encoded size in bytes, or 0 for str.
func (p Prim) Size() int {
	switch p {
	case PrimBool:
		return 1
	case PrimChar:
		return 4
	case PrimStr:
		return 0
	default:
		return p.Bits() / 8
	}
}

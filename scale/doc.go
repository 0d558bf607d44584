// Package scale encodes and decodes contract values in the SCALE binary
// wire format, driven entirely by a type registry.
//
// # Wire Format
//
//	Type              Encoding
//	─────────────────────────────────────────────────────────
//	bool              0x00 or 0x01
//	u8..u256          little-endian, width bytes
//	i8..i256          two's complement little-endian
//	char              u32 little-endian Unicode scalar
//	str, Vec<u8>      compact length, raw bytes
//	Vec<T>            compact length, elements
//	[T; N]            N elements, no prefix
//	tuple, struct     fields in declaration order
//	enum              index byte, case fields
//	Compact<T>        1, 2, 4 or 5..33 bytes (see AppendCompact)
//
// # Safety
//
// The decoder never trusts a length prefix: a prefix is accepted only if
// that many elements of the element type's minimum encoded size fit in the
// remaining input. Compact integers must be in canonical form. Nesting is
// bounded by Limits.MaxDepth.
//
// Encoder and Decoder are stateless and may be shared between goroutines.
package scale

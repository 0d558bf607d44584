// Package value defines the dynamic values exchanged with the codec.
//
// Values mirror the shapes of the type registry without referring to it:
//
//	Type                      Value
//	────────────────────────────────────────────
//	bool                      Bool
//	char                      Char
//	str                       String
//	u8..u256, i8..i256        *Int
//	Vec<u8>, [u8; N]          Bytes (or Seq of *Int)
//	sequence, array           Seq
//	tuple                     Tuple, unit is Tuple{}
//	composite                 *Composite
//	variant                   *Variant
//	compact                   *Int
//
// Integers are stored as sign and 256-bit magnitude so every width up to
// 256 bits round-trips exactly. Format renders the literal syntax and
// MarshalJSON the JSON surface; both are accepted back by package literal.
package value

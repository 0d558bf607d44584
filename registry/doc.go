// Package registry holds the type table of a contract's metadata.
//
// A Registry is an arena of immutable TypeDef nodes addressed by TypeID.
// Types refer to each other by id, never by pointer, so recursive types
// need no special handling. The whole graph is validated once in New:
//
//	duplicate ids                  duplicate_type
//	references to undefined ids    dangling_type_reference
//	mixed named/unnamed fields     invalid_data
//	duplicate variant indices      invalid_data
//	compact over a non-integer     invalid_data
//
// After construction a Registry is read-only and safe to share between
// goroutines.
//
// # Kinds
//
//	Kind            Wire form
//	──────────────────────────────────────────────
//	primitive       fixed width little-endian, str is length-prefixed
//	composite       fields in declaration order
//	variant         index byte, then the case's fields
//	sequence        compact length, then elements
//	array           exactly Len elements, no prefix
//	tuple           elements in order
//	compact         variable-length integer
//	bitSequence     recognised, not transcoded
//
// Besides lookup the registry answers layout and display questions:
// MinSize bounds decoders against hostile length prefixes, TypeName renders
// source-style names such as Option<u32> and [u8; 32], and WIT maps a type
// onto the WIT vocabulary.
package registry

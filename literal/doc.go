// Package literal parses human-written values against registry types.
//
// Two surfaces feed one type-directed conversion: a compact literal
// grammar for command lines and JSON for scripts. Both first build an
// untyped syntax tree; the conversion then walks it together with the
// expected type, so the same text can mean different things in different
// positions (42 is an integer for u32 and the string "42" for str).
//
// # Literal grammar
//
//	value  = word [ group ] | string | char | group
//	group  = "(" items ")" | "[" items "]" | "{" fields "}"
//	items  = [ value { "," value } [ "," ] ]
//	fields = [ key ":" value { "," key ":" value } [ "," ] ]
//
// Words cover identifiers, paths (Option::Some), integers (-5, 0xff,
// 1_000) and blobs (0xdeadbeef). Strings use Go quoting.
//
// # Mapping
//
//	bool           true | false
//	char           'x' | "x" | x
//	str            "quoted" or a bare word
//	integers       decimal or 0x hex, '_' separators, '-' for signed types;
//	               full-width hex is two's complement for signed types
//	               (0xff is -1 for i8)
//	Vec<u8>        0x... or a list of integers
//	Vec<T>         [a, b, c]
//	[T; N]         [a, b, c] with exactly N items
//	(A, B)         (a, b); () is unit
//	struct         { name: value } or Name { name: value }
//	tuple struct   (a, b) or Name(a, b)
//	newtype        the inner literal, or Name(inner)
//	enum           Case | Case(a, b) | Case { f: v }
//	Option<T>      None | null | Some(x) | x; "None" is a Some payload
//	Compact<T>     the integer
//
// Case names match exactly first, then case-insensitively when the match
// is unique. #N names the case with index N, the form used when rendering a
// variant that carries only its index.
//
// # JSON
//
// Numbers (any size) and numeric strings are integers. Arrays map to
// sequences, arrays, tuples and tuple structs; objects map to structs.
// Enums are "Case" or {"Case": payload} where payload is the single
// unnamed field, an array of unnamed fields or an object of named fields.
// Option also takes null for None and a bare value for Some. A JSON string
// is always a Some payload, never a case name, and nested options are
// written {"Some": payload}.
//
// # Custom types
//
// Options.Custom attaches alternative literal forms to types by path, for
// example SS58 addresses for AccountId.
package literal

// Package contract turns a contract metadata document into an encoder and
// decoder for that contract's calls and events.
//
// Load builds the type registry from the document's type table and
// indexes the constructors, messages and events that refer to it:
//
//	c, err := contract.LoadFile("flipper.json", contract.DefaultOptions())
//	call, err := c.EncodeMessage("flip")
//	// call.Data == selector of flip, no argument bytes
//
// Call data is the 4-byte selector followed by the encoded arguments in
// declaration order. Selectors come from the document or, when absent,
// from the first four bytes of the BLAKE2b-256 hash of the label.
//
// Arguments are literal text, JSON or ready values (see Arg). Calls are
// found by label, by label without a trait prefix, or by 0x selector.
// Labels may be overloaded; the argument count and, for named arguments,
// the argument names pick the overload.
//
// DecodeEvent, DecodeReturn and DecodeMessageCall read the other
// direction. Display and Format render account ids as SS58 addresses.
//
// A .contract bundle also carries code; InspectCode compiles it with
// wazero to list its exports and imports without running it.
package contract

// Package errors provides structured error types for the contract transcoder.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the context needed for a precise diagnostic: field path,
// registry type id and name, byte offset for decoding, text span for parsing,
// and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseParse, errors.KindLiteralParse).
//		Path("args", "amount").
//		Type(7, "u128").
//		Span("12x", 4, 7).
//		Detail("invalid digit").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ArityMismatch(errors.PhaseEncode, path, 2, 3)
//	err := errors.UnexpectedEnd(path, 10, 4, 1)
//
// Every Kind has a sentinel for kind-only matching:
//
//	if errors.Is(err, errors.ErrTrailingBytes) { ... }
//
// All errors implement the standard error interface and support errors.Is/As.
package errors

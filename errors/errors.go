package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseRegistry Phase = "registry" // type table construction
	PhaseLoad     Phase = "load"     // metadata document loading
	PhaseEncode   Phase = "encode"   // value to wire bytes
	PhaseDecode   Phase = "decode"   // wire bytes to value
	PhaseParse    Phase = "parse"    // literal/JSON to value
	PhaseResolve  Phase = "resolve"  // constructor/message/event lookup
	PhaseConfig   Phase = "config"   // CLI configuration
)

// Kind categorizes the error
type Kind string

const (
	KindTypeNotFound          Kind = "type_not_found"
	KindDanglingTypeReference Kind = "dangling_type_reference"
	KindDuplicateType         Kind = "duplicate_type"
	KindArityMismatch         Kind = "arity_mismatch"
	KindInvalidVariantCase    Kind = "invalid_variant_case"
	KindInvalidDiscriminant   Kind = "invalid_discriminant"
	KindUnexpectedEnd         Kind = "unexpected_end_of_input"
	KindTrailingBytes         Kind = "trailing_bytes"
	KindUnknownEventVariant   Kind = "unknown_event_variant"
	KindLiteralParse          Kind = "literal_parse_error"
	KindUnknownVariantCase    Kind = "unknown_variant_case"
	KindLengthMismatch        Kind = "length_mismatch"
	KindCallNotFound          Kind = "call_not_found"
	KindAmbiguousCall         Kind = "ambiguous_call"
	KindDuplicateSelector     Kind = "duplicate_selector"
	KindTypeMismatch          Kind = "type_mismatch"
	KindOverflow              Kind = "overflow"
	KindInvalidData           Kind = "invalid_data"
	KindInvalidUTF8           Kind = "invalid_utf8"
	KindRecursionLimit        Kind = "recursion_limit"
	KindUnsupported           Kind = "unsupported"
)

// Sentinels for errors.Is matching by kind, independent of phase.
var (
	ErrTypeNotFound          = &Error{Kind: KindTypeNotFound}
	ErrDanglingTypeReference = &Error{Kind: KindDanglingTypeReference}
	ErrDuplicateType         = &Error{Kind: KindDuplicateType}
	ErrArityMismatch         = &Error{Kind: KindArityMismatch}
	ErrInvalidVariantCase    = &Error{Kind: KindInvalidVariantCase}
	ErrInvalidDiscriminant   = &Error{Kind: KindInvalidDiscriminant}
	ErrUnexpectedEnd         = &Error{Kind: KindUnexpectedEnd}
	ErrTrailingBytes         = &Error{Kind: KindTrailingBytes}
	ErrUnknownEventVariant   = &Error{Kind: KindUnknownEventVariant}
	ErrLiteralParse          = &Error{Kind: KindLiteralParse}
	ErrUnknownVariantCase    = &Error{Kind: KindUnknownVariantCase}
	ErrLengthMismatch        = &Error{Kind: KindLengthMismatch}
	ErrCallNotFound          = &Error{Kind: KindCallNotFound}
	ErrAmbiguousCall         = &Error{Kind: KindAmbiguousCall}
	ErrDuplicateSelector     = &Error{Kind: KindDuplicateSelector}
	ErrTypeMismatch          = &Error{Kind: KindTypeMismatch}
	ErrOverflow              = &Error{Kind: KindOverflow}
	ErrInvalidData           = &Error{Kind: KindInvalidData}
	ErrInvalidUTF8           = &Error{Kind: KindInvalidUTF8}
	ErrRecursionLimit        = &Error{Kind: KindRecursionLimit}
	ErrUnsupported           = &Error{Kind: KindUnsupported}
)

// Span locates a fragment of literal input.
type Span struct {
	Text  string
	Start int
	End   int
}

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Span     *Span
	Phase    Phase
	Kind     Kind
	TypeName string
	Detail   string
	Path     []string
	Offset   int
	TypeID   uint32
	HasType  bool
	HasOff   bool
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.HasOff {
		b.WriteString(" (offset ")
		b.WriteString(strconv.Itoa(e.Offset))
		b.WriteByte(')')
	}

	if e.HasType || e.TypeName != "" {
		b.WriteString(": type ")
		if e.TypeName != "" {
			b.WriteString(e.TypeName)
		}
		if e.HasType {
			if e.TypeName != "" {
				b.WriteByte(' ')
			}
			b.WriteString("#")
			b.WriteString(strconv.FormatUint(uint64(e.TypeID), 10))
		}
	}

	if e.Span != nil {
		if e.HasType || e.TypeName != "" {
			b.WriteString(", ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString("near ")
		b.WriteString(strconv.Quote(e.Span.Text))
		b.WriteString(" at ")
		b.WriteString(strconv.Itoa(e.Span.Start))
	}

	if e.Detail != "" {
		if e.HasType || e.TypeName != "" || e.Span != nil {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Kinds must be equal; the
// phase is compared only when the target sets one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Type sets the registry type the error refers to
func (b *Builder) Type(id uint32, name string) *Builder {
	b.err.TypeID = id
	b.err.HasType = true
	b.err.TypeName = name
	return b
}

// TypeName sets only a display name for the expected type
func (b *Builder) TypeName(name string) *Builder {
	b.err.TypeName = name
	return b
}

// Offset sets the byte offset in the input
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
	b.err.HasOff = true
	return b
}

// Span sets the offending text fragment
func (b *Builder) Span(text string, start, end int) *Builder {
	b.err.Span = &Span{Text: text, Start: start, End: end}
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// TypeNotFound creates an error for a missing registry entry
func TypeNotFound(phase Phase, path []string, id uint32) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindTypeNotFound,
		Path:    path,
		TypeID:  id,
		HasType: true,
		Detail:  fmt.Sprintf("type id %d is not in the registry", id),
	}
}

// ArityMismatch creates a field/argument count mismatch error
func ArityMismatch(phase Phase, path []string, want, got int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindArityMismatch,
		Path:   path,
		Detail: fmt.Sprintf("expected %d values, got %d", want, got),
		Value:  got,
	}
}

// TypeMismatch creates a shape mismatch error between a value and its target type
func TypeMismatch(phase Phase, path []string, valueKind, typeName string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Path:     path,
		TypeName: typeName,
		Detail:   fmt.Sprintf("%s value is not compatible", valueKind),
	}
}

// UnexpectedEnd creates an error for input exhausted mid-value
func UnexpectedEnd(path []string, offset, need, have int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnexpectedEnd,
		Path:   path,
		Offset: offset,
		HasOff: true,
		Detail: fmt.Sprintf("need %d bytes, %d remaining", need, have),
	}
}

// TrailingBytes creates an error for unconsumed input after a complete value
func TrailingBytes(offset, remaining int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindTrailingBytes,
		Offset: offset,
		HasOff: true,
		Detail: fmt.Sprintf("%d bytes left after value", remaining),
		Value:  remaining,
	}
}

// InvalidDiscriminant creates an invalid discriminant error for variants
func InvalidDiscriminant(path []string, offset int, disc uint8) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidDiscriminant,
		Path:   path,
		Offset: offset,
		HasOff: true,
		Detail: fmt.Sprintf("no variant case has index %d", disc),
		Value:  disc,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, targetType string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindOverflow,
		Path:     path,
		TypeName: targetType,
		Detail:   fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:    value,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// WithPath returns err with prefix prepended to its path when err is an *Error.
// Other errors are returned unchanged.
func WithPath(err error, prefix ...string) error {
	e, ok := err.(*Error)
	if !ok || len(prefix) == 0 {
		return err
	}
	cp := *e
	cp.Path = append(append(make([]string, 0, len(prefix)+len(e.Path)), prefix...), e.Path...)
	return &cp
}

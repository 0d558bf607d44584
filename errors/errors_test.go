package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:    PhaseParse,
				Kind:     KindLiteralParse,
				Path:     []string{"args", "to"},
				TypeName: "u32",
				TypeID:   3,
				HasType:  true,
				Span:     &Span{Text: "12x", Start: 4, End: 7},
				Detail:   "invalid digit",
			},
			contains: []string{"[parse]", "literal_parse_error", "args.to", "u32", "#3", `"12x"`, "invalid digit"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindUnexpectedEnd,
			},
			contains: []string{"[decode]", "unexpected_end_of_input"},
		},
		{
			name:     "offset",
			err:      TrailingBytes(4, 1),
			contains: []string{"trailing_bytes", "offset 4", "1 bytes left"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindInvalidData,
				Detail: "bad metadata",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[load]", "invalid_data", "bad metadata", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindArityMismatch,
		Path:  []string{"foo"},
	}

	if !err.Is(&Error{Phase: PhaseEncode, Kind: KindArityMismatch}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindArityMismatch}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseEncode, Kind: KindOverflow}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, ErrArityMismatch) {
		t.Error("errors.Is should match kind sentinel")
	}
	if errors.Is(err, ErrTrailingBytes) {
		t.Error("errors.Is matched wrong sentinel")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseDecode, KindInvalidDiscriminant).
		Path("event", "value").
		Type(9, "Option<u32>").
		Offset(12).
		Value(7).
		Cause(cause).
		Detail("index %d, max %d", 7, 1).
		Build()

	if err.Phase != PhaseDecode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseDecode)
	}
	if err.Kind != KindInvalidDiscriminant {
		t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidDiscriminant)
	}
	if len(err.Path) != 2 || err.Path[0] != "event" {
		t.Errorf("Path = %v", err.Path)
	}
	if !err.HasType || err.TypeID != 9 || err.TypeName != "Option<u32>" {
		t.Errorf("type = %v/%d/%q", err.HasType, err.TypeID, err.TypeName)
	}
	if !err.HasOff || err.Offset != 12 {
		t.Errorf("offset = %v/%d", err.HasOff, err.Offset)
	}
	if err.Value != 7 {
		t.Errorf("Value = %v, want 7", err.Value)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not reachable through errors.Is")
	}
	if err.Detail != "index 7, max 1" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestSpanBuilder(t *testing.T) {
	err := New(PhaseParse, KindLengthMismatch).Span("[1, 2]", 0, 6).TypeName("[u8; 3]").Build()
	if err.Span == nil || err.Span.Text != "[1, 2]" || err.Span.End != 6 {
		t.Fatalf("Span = %+v", err.Span)
	}
	if !strings.Contains(err.Error(), "[u8; 3]") {
		t.Errorf("message %q lacks type name", err.Error())
	}
}

func TestWithPath(t *testing.T) {
	inner := ArityMismatch(PhaseEncode, []string{"x"}, 2, 1)
	got := WithPath(inner, "args", "point")

	var e *Error
	if !errors.As(got, &e) {
		t.Fatal("WithPath lost *Error")
	}
	if strings.Join(e.Path, ".") != "args.point.x" {
		t.Errorf("Path = %v", e.Path)
	}
	if strings.Join(inner.Path, ".") != "x" {
		t.Error("WithPath mutated the original error")
	}

	plain := errors.New("plain")
	if WithPath(plain, "a") != plain {
		t.Error("non-structured errors must pass through")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		err  *Error
		kind Kind
	}{
		{TypeNotFound(PhaseRegistry, nil, 4), KindTypeNotFound},
		{ArityMismatch(PhaseEncode, nil, 1, 2), KindArityMismatch},
		{TypeMismatch(PhaseEncode, nil, "string", "u8"), KindTypeMismatch},
		{UnexpectedEnd(nil, 3, 4, 1), KindUnexpectedEnd},
		{TrailingBytes(2, 1), KindTrailingBytes},
		{InvalidDiscriminant(nil, 0, 9), KindInvalidDiscriminant},
		{InvalidUTF8(PhaseDecode, nil, []byte{0xff}), KindInvalidUTF8},
		{Overflow(PhaseParse, nil, 300, "u8"), KindOverflow},
		{Unsupported(PhaseDecode, "bit sequences"), KindUnsupported},
		{InvalidData(PhaseLoad, nil, "bad"), KindInvalidData},
		{Wrap(PhaseLoad, KindInvalidData, errors.New("x"), "wrap"), KindInvalidData},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if tt.err.Error() == "" {
				t.Error("empty message")
			}
		})
	}

	if e := TypeNotFound(PhaseRegistry, nil, 4); !e.HasType || e.TypeID != 4 {
		t.Errorf("TypeNotFound did not record type id: %+v", e)
	}
}

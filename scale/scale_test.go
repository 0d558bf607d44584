package scale_test

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	terrors "github.com/wippyai/contract-transcode/errors"
	"github.com/wippyai/contract-transcode/registry"
	"github.com/wippyai/contract-transcode/scale"
	"github.com/wippyai/contract-transcode/value"
)

type fixture struct {
	reg *registry.Registry

	boolean, char, str                   registry.TypeID
	u8, u16, u32, u64, u128, u256        registry.TypeID
	i8, i32, i128                        registry.TypeID
	vecBool, vecU8, vecU32, arr3, arrU8  registry.TypeID
	pair, unit, optU32, resU32           registry.TypeID
	compactU32, compactU128, compactBal  registry.TypeID
	point, wrapper, shape, node, vecUnit registry.TypeID
	bits, vecVecUnit                     registry.TypeID
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	b := registry.NewBuilder()
	f := &fixture{}

	f.boolean = b.Prim(registry.PrimBool)
	f.char = b.Prim(registry.PrimChar)
	f.str = b.Prim(registry.PrimStr)
	f.u8 = b.Prim(registry.PrimU8)
	f.u16 = b.Prim(registry.PrimU16)
	f.u32 = b.Prim(registry.PrimU32)
	f.u64 = b.Prim(registry.PrimU64)
	f.u128 = b.Prim(registry.PrimU128)
	f.u256 = b.Prim(registry.PrimU256)
	f.i8 = b.Prim(registry.PrimI8)
	f.i32 = b.Prim(registry.PrimI32)
	f.i128 = b.Prim(registry.PrimI128)

	f.vecBool = b.Sequence(f.boolean)
	f.vecU8 = b.Sequence(f.u8)
	f.vecU32 = b.Sequence(f.u32)
	f.arr3 = b.Array(f.u16, 3)
	f.arrU8 = b.Array(f.u8, 4)
	f.pair = b.Tuple(f.u32, f.boolean)
	f.unit = b.Tuple()
	f.vecUnit = b.Sequence(f.unit)
	f.vecVecUnit = b.Sequence(f.vecUnit)
	f.optU32 = b.Option(f.u32)
	f.resU32 = b.Result(f.u32, f.str)
	f.compactU32 = b.Compact(f.u32)
	f.compactU128 = b.Compact(f.u128)
	balance := b.Composite([]string{"Balance"}, registry.Field{Type: f.u128})
	f.compactBal = b.Compact(balance)

	f.point = b.Composite([]string{"Point"},
		registry.Field{Name: "x", Type: f.i32},
		registry.Field{Name: "y", Type: f.i32},
	)
	f.wrapper = b.Composite([]string{"Id"}, registry.Field{Type: f.u64})
	f.shape = b.Variant([]string{"Shape"},
		registry.Case{Name: "Empty", Index: 0},
		registry.Case{Name: "Circle", Index: 1, Fields: []registry.Field{{Name: "r", Type: f.u32}}},
		registry.Case{Name: "Rect", Index: 5, Fields: []registry.Field{{Type: f.u32}, {Type: f.u32}}},
	)

	f.node = b.Reserve()
	children := b.Sequence(f.node)
	b.Define(f.node, registry.TypeDef{
		Kind: registry.KindComposite,
		Path: []string{"Node"},
		Fields: []registry.Field{
			{Name: "value", Type: f.u8},
			{Name: "children", Type: children},
		},
	})

	f.bits = b.Reserve()
	b.Define(f.bits, registry.TypeDef{Kind: registry.KindBitSequence, Elem: f.u8, Order: f.unit})

	reg, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	f.reg = reg
	return f
}

func u(bits int, v uint64) *value.Int { return value.NewUint(bits, v) }
func s(bits int, v int64) *value.Int  { return value.NewInt(bits, v) }

func TestEncode_Vectors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		v    value.Value
		name string
		want string
		id   registry.TypeID
	}{
		{value.Bool(true), "bool", "01", f.boolean},
		{value.Char('A'), "char", "41000000", f.char},
		{value.String("abc"), "str", "0c616263", f.str},
		{u(8, 255), "u8", "ff", f.u8},
		{u(16, 0x0102), "u16", "0201", f.u16},
		{u(32, 42), "u32", "2a000000", f.u32},
		{u(64, 1), "u64", "0100000000000000", f.u64},
		{u(128, 1), "u128", "01000000000000000000000000000000", f.u128},
		{s(8, -1), "i8", "ff", f.i8},
		{s(32, -2), "i32", "feffffff", f.i32},
		{s(128, -1), "i128", "ffffffffffffffffffffffffffffffff", f.i128},
		{value.Seq{value.Bool(true), value.Bool(false), value.Bool(true)}, "vec bool", "0c010001", f.vecBool},
		{value.Bytes{1, 2}, "vec u8 bytes", "080102", f.vecU8},
		{value.Seq{u(8, 1), u(8, 2)}, "vec u8 seq", "080102", f.vecU8},
		{value.Seq{}, "empty vec", "00", f.vecU32},
		{value.Seq{u(16, 1), u(16, 2), u(16, 3)}, "array", "010002000300", f.arr3},
		{value.Bytes{9, 8, 7, 6}, "byte array", "09080706", f.arrU8},
		{value.Tuple{u(32, 7), value.Bool(true)}, "tuple", "0700000001", f.pair},
		{value.Unit(), "unit", "", f.unit},
		{value.NewVariant("Some", value.Positional(u(32, 42))...), "option some", "012a000000", f.optU32},
		{value.NewVariant("None"), "option none", "00", f.optU32},
		{value.NewVariant("Err", value.Positional(value.String("x"))...), "result err", "010478", f.resU32},
		{u(32, 1<<30), "compact u32", "0300000040", f.compactU32},
		{u(128, 69), "compact u128", "1501", f.compactU128},
		{value.NewComposite("Balance", value.Field{Value: u(128, 1)}), "compact wrapper", "04", f.compactBal},
		{u(128, 1), "compact wrapper bare", "04", f.compactBal},
		{value.NewComposite("Point", value.Named("x", s(32, 1)), value.Named("y", s(32, -1))), "struct", "01000000ffffffff", f.point},
		{value.NewComposite("Point", value.Named("y", s(32, -1)), value.Named("x", s(32, 1))), "struct fields by name", "01000000ffffffff", f.point},
		{&value.Composite{Fields: value.Positional(s(32, 1), s(32, -1))}, "struct positional", "01000000ffffffff", f.point},
		{u(64, 5), "newtype bare inner", "0500000000000000", f.wrapper},
		{value.NewVariant("Rect", value.Positional(u(32, 1), u(32, 2))...), "variant sparse index", "050100000002000000", f.shape},
		{&value.Variant{Index: 0}, "variant by index", "00", f.shape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scale.Encode(f.reg, tt.id, tt.v)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if hex.EncodeToString(got) != tt.want {
				t.Errorf("Encode = %x, want %s", got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	f := newFixture(t)
	leaf := func(v uint64) value.Value {
		return value.NewComposite("Node", value.Named("value", u(8, v)), value.Named("children", value.Seq{}))
	}

	tests := []struct {
		v    value.Value
		name string
		id   registry.TypeID
	}{
		{value.Bool(false), "bool", f.boolean},
		{value.Char('€'), "char", f.char},
		{value.String("héllo"), "str", f.str},
		{u(256, 1<<63), "u256", f.u256},
		{s(128, -1<<62), "i128", f.i128},
		{value.Bytes("payload"), "bytes", f.vecU8},
		{value.Seq{u(32, 1), u(32, 1 << 31)}, "vec u32", f.vecU32},
		{value.Seq{value.Unit(), value.Unit()}, "vec unit", f.vecUnit},
		{value.Tuple{u(32, 0), value.Bool(true)}, "tuple", f.pair},
		{value.NewVariant("Circle", value.Named("r", u(32, 9))), "variant named", f.shape},
		{value.NewVariant("Ok", value.Positional(u(32, 3))...), "result ok", f.resU32},
		{u(32, 16384), "compact", f.compactU32},
		{value.NewComposite("Balance", value.Field{Value: u(128, 1<<40)}), "compact wrapper", f.compactBal},
		{
			value.NewComposite("Node",
				value.Named("value", u(8, 1)),
				value.Named("children", value.Seq{leaf(2), leaf(3)}),
			),
			"recursive", f.node,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := scale.Encode(f.reg, tt.id, tt.v)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, n, err := scale.Decode(f.reg, tt.id, enc, 0)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if n != len(enc) {
				t.Errorf("consumed %d of %d bytes", n, len(enc))
			}
			if !value.Equal(got, tt.v) {
				t.Errorf("round trip: got %s, want %s", value.Format(got), value.Format(tt.v))
			}
		})
	}
}

func TestEncode_Errors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		v    value.Value
		want *terrors.Error
		name string
		path string
		id   registry.TypeID
	}{
		{value.Tuple{u(32, 1)}, terrors.ErrArityMismatch, "tuple too short", "", f.pair},
		{value.NewComposite("Point", value.Named("x", s(32, 1))), terrors.ErrArityMismatch, "struct missing field", "", f.point},
		{value.NewComposite("Point", value.Named("x", s(32, 1)), value.Named("z", s(32, 1))), terrors.ErrArityMismatch, "struct wrong name", "", f.point},
		{value.NewVariant("Rect", value.Positional(u(32, 1))...), terrors.ErrArityMismatch, "variant arity", "Rect", f.shape},
		{value.NewVariant("Triangle"), terrors.ErrInvalidVariantCase, "unknown case", "", f.shape},
		{&value.Variant{Index: 3}, terrors.ErrInvalidVariantCase, "unknown index", "", f.shape},
		{value.Seq{u(16, 1)}, terrors.ErrLengthMismatch, "array length", "", f.arr3},
		{value.Bytes{1, 2, 3}, terrors.ErrLengthMismatch, "byte array length", "", f.arrU8},
		{u(8, 256), terrors.ErrOverflow, "u8 overflow", "", f.u8},
		{s(8, -1), terrors.ErrOverflow, "negative unsigned", "", f.u32},
		{s(32, -1), terrors.ErrOverflow, "negative compact", "", f.compactU32},
		{u(64, 1<<40), terrors.ErrOverflow, "compact target overflow", "", f.compactU32},
		{value.String("1"), terrors.ErrTypeMismatch, "string for int", "", f.u32},
		{value.Bytes{1}, terrors.ErrTypeMismatch, "bytes for vec u32", "", f.vecU32},
		{value.Bool(true), terrors.ErrTypeMismatch, "bool for struct", "", f.point},
		{value.NewComposite("Id"), terrors.ErrArityMismatch, "newtype without fields", "", f.wrapper},
		{value.NewComposite("Id", value.Positional(u(64, 1), u(64, 2))...), terrors.ErrArityMismatch, "newtype with two fields", "", f.wrapper},
		{value.String(string([]byte{0xff})), terrors.ErrInvalidUTF8, "invalid utf8", "", f.str},
		{value.Seq{value.Bool(true)}, terrors.ErrUnsupported, "bit sequence", "", f.bits},
		{u(8, 1), terrors.ErrTypeNotFound, "unknown type", "", 999},
		{value.Seq{u(32, 1), value.Bool(true)}, terrors.ErrTypeMismatch, "nested element", "1", f.vecU32},
		{
			value.NewComposite("Point", value.Named("x", s(32, 1)), value.Named("y", u(64, 1<<40))),
			terrors.ErrOverflow, "nested field", "y", f.point,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scale.Encode(f.reg, tt.id, tt.v)
			if err == nil {
				t.Fatalf("Encode succeeded: %x", got)
			}
			if got != nil {
				t.Errorf("partial output %x", got)
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %s", err, tt.want.Kind)
			}
			var e *terrors.Error
			if errors.As(err, &e) && tt.path != "" && joinPath(e.Path) != tt.path {
				t.Errorf("path = %v, want %s", e.Path, tt.path)
			}
		})
	}
}

func TestEncodeTo_RestoresWriterOnError(t *testing.T) {
	f := newFixture(t)
	w := scale.NewWriter()
	w.Byte(0xaa)

	err := scale.NewEncoder().EncodeTo(w, f.reg, f.pair, value.Tuple{u(32, 1), value.String("x")})
	if err == nil {
		t.Fatal("expected error")
	}
	if !bytes.Equal(w.Bytes(), []byte{0xaa}) {
		t.Errorf("writer = %x, want aa", w.Bytes())
	}
}

func TestDecode_Errors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		want   *terrors.Error
		name   string
		input  string
		offset int
		id     registry.TypeID
	}{
		{terrors.ErrUnexpectedEnd, "short u32", "2a0000", 0, f.u32},
		{terrors.ErrUnexpectedEnd, "empty", "", 0, f.boolean},
		{terrors.ErrInvalidData, "bool byte", "02", 0, f.boolean},
		{terrors.ErrInvalidData, "surrogate char", "00d80000", 0, f.char},
		{terrors.ErrInvalidData, "char out of range", "00001100", 0, f.char},
		{terrors.ErrInvalidUTF8, "invalid utf8", "04ff", 0, f.str},
		{terrors.ErrInvalidDiscriminant, "option index", "02", 0, f.optU32},
		{terrors.ErrInvalidDiscriminant, "sparse variant gap", "03", 0, f.shape},
		{terrors.ErrUnexpectedEnd, "string longer than input", "1061", 0, f.str},
		{terrors.ErrUnexpectedEnd, "vec u32 longer than input", "0c0100000002000000", 0, f.vecU32},
		{terrors.ErrUnexpectedEnd, "adversarial length", "13ffffffffffffff7f", 0, f.vecU32},
		{terrors.ErrInvalidData, "zero-sized flood", "13ffffffffffffff7f", 0, f.vecUnit},
		{terrors.ErrOverflow, "compact exceeds target", "0700000000" + "01", 0, f.compactU32},
		{terrors.ErrInvalidData, "non-canonical compact", "0100", 0, f.compactU32},
		{terrors.ErrUnexpectedEnd, "array short", "0100", 0, f.arr3},
		{terrors.ErrUnexpectedEnd, "offset at end", "01", 1, f.boolean},
		{terrors.ErrInvalidData, "offset past end", "01", 2, f.boolean},
		{terrors.ErrInvalidData, "negative offset", "01", -1, f.boolean},
		{terrors.ErrInvalidData, "nested zero-sized flood", "40" + strings.Repeat("02004000", 16), 0, f.vecVecUnit},
		{terrors.ErrUnsupported, "bit sequence", "00", 0, f.bits},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := hex.DecodeString(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			v, _, err := scale.Decode(f.reg, tt.id, data, tt.offset)
			if err == nil {
				t.Fatalf("Decode succeeded: %s", value.Format(v))
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %s", err, tt.want.Kind)
			}
		})
	}
}

func TestDecode_ErrorContext(t *testing.T) {
	f := newFixture(t)
	data := []byte{0x00, 0x01, 0x09}

	_, _, err := scale.Decode(f.reg, f.optU32, data, 1)
	var e *terrors.Error
	if !errors.As(err, &e) {
		t.Fatalf("error = %v", err)
	}
	if e.Kind != terrors.KindUnexpectedEnd || !e.HasOff || e.Offset != 2 {
		t.Errorf("error = %+v", e)
	}
	if joinPath(e.Path) != "Some.0" {
		t.Errorf("path = %v", e.Path)
	}
}

func TestDecodeAll_TrailingBytes(t *testing.T) {
	f := newFixture(t)

	v, err := scale.DecodeAll(f.reg, f.u32, []byte{1, 0, 0, 0})
	if err != nil || !value.Equal(v, u(32, 1)) {
		t.Fatalf("DecodeAll = %v, %v", v, err)
	}

	_, err = scale.DecodeAll(f.reg, f.u32, []byte{1, 0, 0, 0, 9})
	if !errors.Is(err, terrors.ErrTrailingBytes) {
		t.Fatalf("error = %v, want trailing_bytes", err)
	}
	var e *terrors.Error
	if errors.As(err, &e) && e.Offset != 4 {
		t.Errorf("offset = %d, want 4", e.Offset)
	}

	// Decode ignores trailing input and reports what it consumed.
	v, n, err := scale.Decode(f.reg, f.u32, []byte{1, 0, 0, 0, 9}, 0)
	if err != nil || n != 4 || !value.Equal(v, u(32, 1)) {
		t.Errorf("Decode = %v, %d, %v", v, n, err)
	}
}

func TestDecode_Shapes(t *testing.T) {
	f := newFixture(t)

	v, err := scale.DecodeAll(f.reg, f.vecU8, []byte{0x08, 0xde, 0xad})
	if err != nil {
		t.Fatal(err)
	}
	if b, ok := v.(value.Bytes); !ok || !bytes.Equal(b, []byte{0xde, 0xad}) {
		t.Errorf("Vec<u8> decoded as %T %s", v, value.Format(v))
	}

	v, err = scale.DecodeAll(f.reg, f.point, []byte{1, 0, 0, 0, 2, 0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	c, ok := v.(*value.Composite)
	if !ok || c.Name != "Point" || c.Fields[1].Name != "y" {
		t.Errorf("struct decoded as %s", value.Format(v))
	}

	v, err = scale.DecodeAll(f.reg, f.shape, []byte{5, 1, 0, 0, 0, 2, 0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if vv, ok := v.(*value.Variant); !ok || vv.Name != "Rect" || vv.Index != 5 || len(vv.Fields) != 2 {
		t.Errorf("variant decoded as %s", value.Format(v))
	}

	v, err = scale.DecodeAll(f.reg, f.compactBal, []byte{0x04})
	if err != nil {
		t.Fatal(err)
	}
	if got := value.Format(v); got != "Balance(1)" {
		t.Errorf("compact wrapper decoded as %s", got)
	}
}

func TestDecode_OffsetAtEnd(t *testing.T) {
	f := newFixture(t)

	v, n, err := scale.Decode(f.reg, f.unit, []byte{1, 2}, 2)
	if err != nil || n != 0 || !value.Equal(v, value.Unit()) {
		t.Errorf("Decode = %v, %d, %v", v, n, err)
	}
}

func TestZeroSizedBudget(t *testing.T) {
	f := newFixture(t)
	dec := scale.NewDecoderWithLimits(scale.Limits{MaxSequenceLength: 3})

	// [[()], [(), ()]] spends the whole budget across both inner vectors.
	v, n, err := dec.Decode(f.reg, f.vecVecUnit, []byte{0x08, 0x04, 0x08}, 0)
	if err != nil || n != 3 {
		t.Fatalf("Decode = %v, %d, %v", v, n, err)
	}
	want := value.Seq{value.Seq{value.Unit()}, value.Seq{value.Unit(), value.Unit()}}
	if !value.Equal(v, want) {
		t.Errorf("decoded %s", value.Format(v))
	}

	// Each inner vector fits on its own but together they do not.
	_, _, err = dec.Decode(f.reg, f.vecVecUnit, []byte{0x08, 0x08, 0x08}, 0)
	if !errors.Is(err, terrors.ErrInvalidData) {
		t.Fatalf("error = %v, want invalid_data", err)
	}

	// The budget is per decode, so a fresh call starts over.
	if _, _, err := dec.Decode(f.reg, f.vecVecUnit, []byte{0x04, 0x0c}, 0); err != nil {
		t.Errorf("second decode: %v", err)
	}
}

func TestDepthLimit(t *testing.T) {
	f := newFixture(t)
	limits := scale.Limits{MaxDepth: 4}

	// Node { value, children: [Node { value, children: [Node {..}] }] }
	deep := value.Value(value.NewComposite("Node", value.Named("value", u(8, 0)), value.Named("children", value.Seq{})))
	for i := 0; i < 3; i++ {
		deep = value.NewComposite("Node", value.Named("value", u(8, 0)), value.Named("children", value.Seq{deep}))
	}

	_, err := scale.NewEncoderWithLimits(limits).Encode(f.reg, f.node, deep)
	if !errors.Is(err, terrors.ErrRecursionLimit) {
		t.Fatalf("encode error = %v, want recursion_limit", err)
	}

	enc, err := scale.Encode(f.reg, f.node, deep)
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = scale.NewDecoderWithLimits(limits).Decode(f.reg, f.node, enc, 0)
	if !errors.Is(err, terrors.ErrRecursionLimit) {
		t.Fatalf("decode error = %v, want recursion_limit", err)
	}
}

func joinPath(p []string) string {
	out := ""
	for i, s := range p {
		if i > 0 {
			out += "."
		}
		out += s
	}
	return out
}

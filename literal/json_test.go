package literal_test

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"testing"

	terrors "github.com/wippyai/contract-transcode/errors"
	"github.com/wippyai/contract-transcode/literal"
	"github.com/wippyai/contract-transcode/registry"
	"github.com/wippyai/contract-transcode/scale"
	"github.com/wippyai/contract-transcode/value"
)

func TestParseJSON(t *testing.T) {
	f := newFixture(t)
	none := &value.Variant{Name: "None", Index: 0}
	maxU128, _ := value.ParseInt("340282366920938463463374607431768211455", 128, false)

	tests := []struct {
		want value.Value
		name string
		doc  string
		id   registry.TypeID
	}{
		{u(32, 42), "number", `42`, f.u32},
		{u(32, 42), "numeric string", `"42"`, f.u32},
		{u(32, 255), "hex string", `"0xff"`, f.u32},
		{maxU128, "large number", `340282366920938463463374607431768211455`, f.u128},
		{s(32, -7), "negative", `-7`, f.i32},
		{value.Bool(false), "bool", `false`, f.boolean},
		{value.Char('z'), "char", `"z"`, f.char},
		{value.String("hi"), "string", `"hi"`, f.str},
		{value.Bytes{1, 2}, "hex bytes", `"0x0102"`, f.vecU8},
		{value.Bytes{1, 2}, "byte array", `[1, 2]`, f.vecU8},
		{value.Seq{value.Bool(true), value.Bool(false), value.Bool(true)}, "bools", `[true, false, true]`, f.vecBool},
		{value.Tuple{u(32, 1), value.Bool(true)}, "tuple", `[1, true]`, f.pair},
		{value.Unit(), "unit array", `[]`, f.unit},
		{value.Unit(), "unit null", `null`, f.unit},
		{point(1, 2), "object", `{"y": 2, "x": 1}`, f.point},
		{point(1, 2), "positional struct", `[1, 2]`, f.point},
		{value.NewComposite("Id", value.Field{Value: u(32, 9)}), "newtype", `9`, f.id},
		{none, "option null", `null`, f.optU32},
		{none, "option tagged none", `{"None": null}`, f.optU32},
		{some(u(32, 7)), "option bare", `7`, f.optU32},
		{some(u(32, 7)), "option tagged", `{"Some": 7}`, f.optU32},
		{value.NewVariant("Empty"), "unit case", `"Empty"`, f.shape},
		{value.NewVariant("Circle", value.Named("r", u(32, 3))), "struct case", `{"Circle": {"r": 3}}`, f.shape},
		{value.NewVariant("Rect", value.Positional(u(32, 1), u(32, 2))...), "tuple case", `{"Rect": [1, 2]}`, f.shape},
		{value.NewVariant("Ok", value.Positional(u(32, 5))...), "newtype case", `{"Ok": 5}`, f.resU32},
		{value.NewComposite("Balance", value.Field{Value: u(128, 10)}), "compact", `10`, f.compactBal},
		{value.Seq{point(1, 2)}, "nested", `[{"x": 1, "y": 2}]`, f.vecPoint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := literal.ParseJSON(f.reg, tt.id, []byte(tt.doc))
			if err != nil {
				t.Fatalf("ParseJSON(%s): %v", tt.doc, err)
			}
			if !value.Equal(got, tt.want) {
				t.Errorf("ParseJSON(%s) = %s, want %s", tt.doc, value.Format(got), value.Format(tt.want))
			}
		})
	}
}

func TestParseJSON_BoolSequenceEncodes(t *testing.T) {
	f := newFixture(t)

	v, err := literal.ParseJSON(f.reg, f.vecBool, []byte(`[true, false, true]`))
	if err != nil {
		t.Fatal(err)
	}
	enc, err := scale.Encode(f.reg, f.vecBool, v)
	if err != nil {
		t.Fatal(err)
	}
	if hex.EncodeToString(enc) != "0c010001" {
		t.Errorf("encoded = %x", enc)
	}
}

func TestParseJSON_Errors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		want *terrors.Error
		name string
		doc  string
		id   registry.TypeID
	}{
		{terrors.ErrLiteralParse, "malformed", `[1, 2`, f.vecU32},
		{terrors.ErrLiteralParse, "empty", ``, f.u32},
		{terrors.ErrLiteralParse, "trailing", `1 2`, f.u32},
		{terrors.ErrLiteralParse, "float", `1.5`, f.u32},
		{terrors.ErrLiteralParse, "object for int", `{"a": 1}`, f.u32},
		{terrors.ErrOverflow, "overflow", `300`, f.u8},
		{terrors.ErrArityMismatch, "missing field", `{"x": 1}`, f.point},
		{terrors.ErrUnknownVariantCase, "unknown case", `{"Square": 1}`, f.shape},
		{terrors.ErrArityMismatch, "unit case with payload", `{"Empty": 1}`, f.shape},
		{terrors.ErrLengthMismatch, "array length", `"0x01"`, f.arrU8},
		{terrors.ErrLiteralParse, "quoted none for number option", `"None"`, f.optU32},
		{terrors.ErrUnknownVariantCase, "case index out of range", `"#7"`, f.shape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := literal.ParseJSON(f.reg, tt.id, []byte(tt.doc))
			if err == nil {
				t.Fatalf("ParseJSON(%s) = %s, want error", tt.doc, value.Format(v))
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %s", err, tt.want.Kind)
			}
		})
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	f := newFixture(t)
	none := &value.Variant{Name: "None", Index: 0}

	tests := []struct {
		v    value.Value
		name string
		json string
		id   registry.TypeID
	}{
		{some(value.String("None")), "string naming none", `"None"`, f.optStr},
		{some(value.String("Some")), "string naming some", `"Some"`, f.optStr},
		{some(none), "some none", `{"Some":null}`, f.optOpt},
		{some(some(u(32, 5))), "some some", `{"Some":5}`, f.optOpt},
		{none, "none", `null`, f.optOpt},
		{&value.Variant{Index: 2, Fields: value.Positional(u(32, 1), u(32, 2))}, "case by index", `{"#2":[1,2]}`, f.shape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := value.MarshalJSON(tt.v)
			if err != nil {
				t.Fatal(err)
			}
			if string(doc) != tt.json {
				t.Errorf("MarshalJSON = %s, want %s", doc, tt.json)
			}
			back, err := literal.ParseJSON(f.reg, tt.id, doc)
			if err != nil {
				t.Fatalf("ParseJSON(%s): %v", doc, err)
			}
			if !value.Equal(back, tt.v) {
				t.Errorf("round trip = %s, want %s", value.Format(back), value.Format(tt.v))
			}
			want, err := scale.Encode(f.reg, tt.id, tt.v)
			if err != nil {
				t.Fatal(err)
			}
			got, err := scale.Encode(f.reg, tt.id, back)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, want) {
				t.Errorf("encoded %x, want %x", got, want)
			}
		})
	}
}

func TestParseJSON_ErrorPath(t *testing.T) {
	f := newFixture(t)

	_, err := literal.ParseJSON(f.reg, f.vecPoint, []byte(`[{"x": 1, "y": 2}, {"x": "a", "y": 2}]`))
	var e *terrors.Error
	if !errors.As(err, &e) {
		t.Fatalf("error = %v", err)
	}
	if len(e.Path) != 2 || e.Path[0] != "1" || e.Path[1] != "x" {
		t.Errorf("path = %v", e.Path)
	}
	if e.Span != nil {
		t.Errorf("JSON errors carry no span, got %+v", e.Span)
	}
}

func TestFromJSONValue(t *testing.T) {
	f := newFixture(t)

	var doc any
	if err := json.Unmarshal([]byte(`{"x": 3, "y": -4}`), &doc); err != nil {
		t.Fatal(err)
	}
	v, err := literal.FromJSONValue(f.reg, f.point, doc)
	if err != nil {
		t.Fatal(err)
	}
	if !value.Equal(v, point(3, -4)) {
		t.Errorf("FromJSONValue = %s", value.Format(v))
	}

	v, err = literal.FromJSONValue(f.reg, f.pair, []any{int64(5), true})
	if err != nil {
		t.Fatal(err)
	}
	if !value.Equal(v, value.Tuple{u(32, 5), value.Bool(true)}) {
		t.Errorf("FromJSONValue = %s", value.Format(v))
	}

	if _, err := literal.FromJSONValue(f.reg, f.u32, struct{}{}); !errors.Is(err, terrors.ErrLiteralParse) {
		t.Errorf("unsupported Go type error = %v", err)
	}
}

package value

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
)

// MarshalJSON renders v in the JSON surface accepted by the literal
// package. Field order is preserved.
//
//	Int        number (arbitrary size)
//	Bytes      "0x.." string
//	Char       one-character string
//	Seq/Tuple  array
//	Composite  object when named, array when positional
//	Variant    "Case" without fields, otherwise {"Case": payload}
//	None/Some  null / the payload, or {"Some": payload} when the payload
//	           would itself read as an option case
func MarshalJSON(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v Value) error {
	switch x := v.(type) {
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(x)))
	case Char:
		return writeJSONString(buf, string(rune(x)))
	case String:
		return writeJSONString(buf, string(x))
	case Bytes:
		buf.WriteString(`"0x`)
		buf.WriteString(hex.EncodeToString(x))
		buf.WriteByte('"')
	case *Int:
		buf.WriteString(x.String())
	case Seq:
		return writeJSONArray(buf, x)
	case Tuple:
		return writeJSONArray(buf, x)
	case *Composite:
		return writeJSONFields(buf, x.Fields)
	case *Variant:
		return writeJSONVariant(buf, x)
	case nil:
		buf.WriteString("null")
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(raw)
	return nil
}

func writeJSONArray(buf *bytes.Buffer, vs []Value) error {
	buf.WriteByte('[')
	for i, v := range vs {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(buf, v); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func writeJSONFields(buf *bytes.Buffer, fields []Field) error {
	if !IsNamed(fields) {
		return writeJSONArray(buf, Values(fields))
	}
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(buf, f.Name); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := writeJSON(buf, f.Value); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeJSONVariant(buf *bytes.Buffer, v *Variant) error {
	name := v.Name
	if name == "" {
		name = "#" + strconv.Itoa(int(v.Index))
	}
	switch {
	case name == "None" && len(v.Fields) == 0:
		buf.WriteString("null")
		return nil
	case name == "Some" && len(v.Fields) == 1 && v.Fields[0].Name == "" && !namesOptionCase(v.Fields[0].Value):
		return writeJSON(buf, v.Fields[0].Value)
	case len(v.Fields) == 0:
		return writeJSONString(buf, name)
	}

	buf.WriteByte('{')
	if err := writeJSONString(buf, name); err != nil {
		return err
	}
	buf.WriteByte(':')
	var err error
	if len(v.Fields) == 1 && v.Fields[0].Name == "" {
		err = writeJSON(buf, v.Fields[0].Value)
	} else {
		err = writeJSONFields(buf, v.Fields)
	}
	if err != nil {
		return err
	}
	buf.WriteByte('}')
	return nil
}

// namesOptionCase reports whether v renders as a None or Some case.
func namesOptionCase(v Value) bool {
	isCase := func(name string) bool {
		return strings.EqualFold(name, "None") || strings.EqualFold(name, "Some")
	}
	switch x := v.(type) {
	case *Variant:
		return isCase(x.Name)
	case *Composite:
		return len(x.Fields) == 1 && isCase(x.Fields[0].Name)
	}
	return false
}

package value

import (
	"encoding/hex"
	"strconv"
	"strings"
)

// Format renders v in the literal syntax accepted by the literal parser:
//
//	true  'c'  "text"  0x0102  -42
//	[1, 2, 3]  (1, true)  ()
//	Point { x: 1, y: 2 }  Pair(1, 2)
//	None  Some(5)  Transfer { to: 0x.., value: 10 }
func Format(v Value) string {
	var b strings.Builder
	write(&b, v)
	return b.String()
}

func write(b *strings.Builder, v Value) {
	switch x := v.(type) {
	case Bool:
		b.WriteString(strconv.FormatBool(bool(x)))
	case Char:
		b.WriteString(strconv.QuoteRune(rune(x)))
	case String:
		b.WriteString(strconv.Quote(string(x)))
	case Bytes:
		b.WriteString("0x")
		b.WriteString(hex.EncodeToString(x))
	case *Int:
		b.WriteString(x.String())
	case Seq:
		writeList(b, "[", "]", x)
	case Tuple:
		writeList(b, "(", ")", x)
	case *Composite:
		writeFields(b, x.Name, x.Fields, true)
	case *Variant:
		name := x.Name
		if name == "" {
			name = "#" + strconv.Itoa(int(x.Index))
		}
		writeFields(b, name, x.Fields, false)
	case nil:
		b.WriteString("<nil>")
	}
}

func writeList(b *strings.Builder, open, end string, vs []Value) {
	b.WriteString(open)
	for i, v := range vs {
		if i > 0 {
			b.WriteString(", ")
		}
		write(b, v)
	}
	b.WriteString(end)
}

func writeFields(b *strings.Builder, name string, fields []Field, composite bool) {
	b.WriteString(name)
	switch {
	case len(fields) == 0:
		if composite && name == "" {
			b.WriteString("()")
		}
	case IsNamed(fields):
		if name != "" {
			b.WriteByte(' ')
		}
		b.WriteString("{ ")
		for i, f := range fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			write(b, f.Value)
		}
		b.WriteString(" }")
	default:
		writeList(b, "(", ")", Values(fields))
	}
}

func (v Bool) String() string       { return Format(v) }
func (v Char) String() string       { return Format(v) }
func (v String) String() string     { return Format(v) }
func (v Bytes) String() string      { return Format(v) }
func (v Seq) String() string        { return Format(v) }
func (v Tuple) String() string      { return Format(v) }
func (v *Composite) String() string { return Format(v) }
func (v *Variant) String() string   { return Format(v) }

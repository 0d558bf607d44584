package value

// Value is a decoded or to-be-encoded contract value. The set of
// implementations is closed: Bool, Char, String, Bytes, *Int, Seq, Tuple,
// *Composite and *Variant. Values carry no type id; the registry type they
// are encoded against decides their wire shape.
type Value interface {
	// Kind names the value shape for diagnostics.
	Kind() string
	isValue()
}

// Bool is a boolean.
type Bool bool

// Char is a single Unicode scalar value.
type Char rune

// String is UTF-8 text.
type String string

// Bytes is a byte string. It stands for any sequence or array of u8.
type Bytes []byte

// Seq holds the elements of a sequence or array.
type Seq []Value

// Tuple holds the elements of a tuple. The empty tuple is the unit value.
type Tuple []Value

// Field is a named or positional member of a composite or variant case.
type Field struct {
	Value Value
	Name  string
}

// Composite is a struct value. Fields are either all named or all
// positional. Name is the type name when known and is informational.
type Composite struct {
	Name   string
	Fields []Field
}

// Variant is an enum value. When Name is set it selects the case;
// otherwise Index does.
type Variant struct {
	Name   string
	Fields []Field
	Index  uint8
}

func (Bool) Kind() string       { return "bool" }
func (Char) Kind() string       { return "char" }
func (String) Kind() string     { return "string" }
func (Bytes) Kind() string      { return "bytes" }
func (*Int) Kind() string       { return "int" }
func (Seq) Kind() string        { return "sequence" }
func (Tuple) Kind() string      { return "tuple" }
func (*Composite) Kind() string { return "composite" }
func (*Variant) Kind() string   { return "variant" }

func (Bool) isValue()       {}
func (Char) isValue()       {}
func (String) isValue()     {}
func (Bytes) isValue()      {}
func (*Int) isValue()       {}
func (Seq) isValue()        {}
func (Tuple) isValue()      {}
func (*Composite) isValue() {}
func (*Variant) isValue()   {}

// Unit returns the unit value.
func Unit() Tuple {
	return Tuple{}
}

// NewComposite builds a composite from fields.
func NewComposite(name string, fields ...Field) *Composite {
	return &Composite{Name: name, Fields: fields}
}

// NewVariant builds a variant selecting the case by name.
func NewVariant(name string, fields ...Field) *Variant {
	return &Variant{Name: name, Fields: fields}
}

// Named returns a named field.
func Named(name string, v Value) Field {
	return Field{Name: name, Value: v}
}

// Positional returns positional fields for vs.
func Positional(vs ...Value) []Field {
	fields := make([]Field, len(vs))
	for i, v := range vs {
		fields[i] = Field{Value: v}
	}
	return fields
}

// Get returns the field called name.
func (c *Composite) Get(name string) (Value, bool) {
	return lookup(c.Fields, name)
}

// Get returns the field called name.
func (v *Variant) Get(name string) (Value, bool) {
	return lookup(v.Fields, name)
}

func lookup(fields []Field, name string) (Value, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Values returns the field values in order.
func Values(fields []Field) []Value {
	out := make([]Value, len(fields))
	for i, f := range fields {
		out[i] = f.Value
	}
	return out
}

// IsNamed reports whether fields are struct-like.
func IsNamed(fields []Field) bool {
	return len(fields) > 0 && fields[0].Name != ""
}

package registry

// TypeID addresses a type definition in a Registry.
type TypeID uint32

// TypeDef is an immutable type definition. Which fields are meaningful
// depends on Kind:
//
//	KindPrimitive   Prim
//	KindComposite   Fields
//	KindVariant     Cases
//	KindSequence    Elem
//	KindArray       Elem, Len
//	KindTuple       Elems
//	KindCompact     Elem
//	KindBitSequence Elem (store), Order
type TypeDef struct {
	Path   []string
	Params []Param
	Docs   []string
	Fields []Field
	Cases  []Case
	Elems  []TypeID
	Order  TypeID
	Len    uint32
	Elem   TypeID
	ID     TypeID
	Kind   Kind
	Prim   Prim
}

// Field is a composite or variant-case field. Name is empty for tuple-like fields.
type Field struct {
	Name     string
	TypeName string
	Docs     []string
	Type     TypeID
}

// Case is a variant case.
type Case struct {
	Name   string
	Docs   []string
	Fields []Field
	Index  uint8
}

// Param is a generic parameter of a type. Type is nil when the parameter is
// erased in the metadata.
type Param struct {
	Type *TypeID
	Name string
}

// Named reports whether the fields are struct-like. An empty field list is
// tuple-like.
func Named(fields []Field) bool {
	return len(fields) > 0 && fields[0].Name != ""
}

// CaseByIndex returns the case with discriminant idx.
func (t *TypeDef) CaseByIndex(idx uint8) (*Case, bool) {
	for i := range t.Cases {
		if t.Cases[i].Index == idx {
			return &t.Cases[i], true
		}
	}
	return nil, false
}

// CaseByName returns the case with the exact name.
func (t *TypeDef) CaseByName(name string) (*Case, bool) {
	for i := range t.Cases {
		if t.Cases[i].Name == name {
			return &t.Cases[i], true
		}
	}
	return nil, false
}

// refs returns every type id t references, generic parameters included.
func (t *TypeDef) refs() []TypeID {
	var out []TypeID
	switch t.Kind {
	case KindComposite:
		for _, f := range t.Fields {
			out = append(out, f.Type)
		}
	case KindVariant:
		for _, c := range t.Cases {
			for _, f := range c.Fields {
				out = append(out, f.Type)
			}
		}
	case KindSequence, KindArray, KindCompact:
		out = append(out, t.Elem)
	case KindTuple:
		out = append(out, t.Elems...)
	case KindBitSequence:
		out = append(out, t.Elem, t.Order)
	}
	for _, p := range t.Params {
		if p.Type != nil {
			out = append(out, *p.Type)
		}
	}
	return out
}

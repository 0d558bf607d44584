package registry

import (
	"strconv"
	"strings"
)

const maxNameDepth = 16

// TypeName renders id the way contract sources spell it: Option<u32>,
// Vec<u8>, [u8; 32], (u32, bool), Compact<u128>, AccountId. Unknown ids
// render as "#id".
func (r *Registry) TypeName(id TypeID) string {
	var b strings.Builder
	r.writeName(&b, id, 0)
	return b.String()
}

func (r *Registry) writeName(b *strings.Builder, id TypeID, depth int) {
	def, ok := r.defs[id]
	if !ok {
		b.WriteByte('#')
		b.WriteString(strconv.FormatUint(uint64(id), 10))
		return
	}
	if depth > maxNameDepth {
		b.WriteString("...")
		return
	}

	switch def.Kind {
	case KindPrimitive:
		b.WriteString(def.Prim.String())
	case KindComposite, KindVariant:
		if len(def.Path) == 0 {
			r.writeAnonymous(b, def, depth)
			return
		}
		b.WriteString(def.Path[len(def.Path)-1])
		r.writeParams(b, def.Params, depth)
	case KindSequence:
		b.WriteString("Vec<")
		r.writeName(b, def.Elem, depth+1)
		b.WriteByte('>')
	case KindArray:
		b.WriteByte('[')
		r.writeName(b, def.Elem, depth+1)
		b.WriteString("; ")
		b.WriteString(strconv.FormatUint(uint64(def.Len), 10))
		b.WriteByte(']')
	case KindTuple:
		r.writeList(b, "(", ")", def.Elems, depth)
	case KindCompact:
		b.WriteString("Compact<")
		r.writeName(b, def.Elem, depth+1)
		b.WriteByte('>')
	case KindBitSequence:
		b.WriteString("BitVec")
	}
}

func (r *Registry) writeParams(b *strings.Builder, params []Param, depth int) {
	var ids []TypeID
	for _, p := range params {
		if p.Type != nil {
			ids = append(ids, *p.Type)
		}
	}
	if len(ids) == 0 {
		return
	}
	r.writeList(b, "<", ">", ids, depth)
}

func (r *Registry) writeAnonymous(b *strings.Builder, def *TypeDef, depth int) {
	if def.Kind == KindVariant {
		b.WriteString("enum")
		return
	}
	if Named(def.Fields) {
		b.WriteString("{ ")
		for i, f := range def.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			r.writeName(b, f.Type, depth+1)
		}
		b.WriteString(" }")
		return
	}
	ids := make([]TypeID, len(def.Fields))
	for i, f := range def.Fields {
		ids[i] = f.Type
	}
	r.writeList(b, "(", ")", ids, depth)
}

func (r *Registry) writeList(b *strings.Builder, open, end string, ids []TypeID, depth int) {
	b.WriteString(open)
	for i, id := range ids {
		if i > 0 {
			b.WriteString(", ")
		}
		r.writeName(b, id, depth+1)
	}
	b.WriteString(end)
}

// PathString joins the type's path with "::", or returns "" for anonymous types.
func (r *Registry) PathString(id TypeID) string {
	def, ok := r.defs[id]
	if !ok {
		return ""
	}
	return strings.Join(def.Path, "::")
}

// IsOption reports whether id is an Option-shaped variant: None at index 0
// without fields and Some at index 1 with exactly one field. It returns the
// payload type.
func (r *Registry) IsOption(id TypeID) (TypeID, bool) {
	def, ok := r.defs[id]
	if !ok || def.Kind != KindVariant || len(def.Cases) != 2 {
		return 0, false
	}
	none, ok := def.CaseByName("None")
	if !ok || none.Index != 0 || len(none.Fields) != 0 {
		return 0, false
	}
	some, ok := def.CaseByName("Some")
	if !ok || some.Index != 1 || len(some.Fields) != 1 {
		return 0, false
	}
	return some.Fields[0].Type, true
}

// IsResult reports whether id is a Result-shaped variant with Ok and Err
// cases of at most one field each. A field-less case yields a nil type for
// that side.
func (r *Registry) IsResult(id TypeID) (okType, errType *TypeID, isResult bool) {
	def, found := r.defs[id]
	if !found || def.Kind != KindVariant || len(def.Cases) != 2 {
		return nil, nil, false
	}
	okCase, found := def.CaseByName("Ok")
	if !found || len(okCase.Fields) > 1 {
		return nil, nil, false
	}
	errCase, found := def.CaseByName("Err")
	if !found || len(errCase.Fields) > 1 {
		return nil, nil, false
	}
	if len(okCase.Fields) == 1 {
		t := okCase.Fields[0].Type
		okType = &t
	}
	if len(errCase.Fields) == 1 {
		t := errCase.Fields[0].Type
		errType = &t
	}
	return okType, errType, true
}

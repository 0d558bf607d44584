package registry

import (
	"strings"
	"unicode"

	"go.bytecodealliance.org/wit"
)

// WIT returns a WIT-vocabulary view of id for display and interop. The
// mapping is lossy: integers wider than 64 bits become named tuples of
// 64-bit limbs, compact wrappers disappear, bit sequences become list<bool>.
// Recursive types map to a shared *wit.TypeDef.
func (r *Registry) WIT(id TypeID) (wit.Type, error) {
	c := &witConverter{reg: r, memo: make(map[TypeID]*wit.TypeDef)}
	return c.convert(id)
}

type witConverter struct {
	reg  *Registry
	memo map[TypeID]*wit.TypeDef
}

func (c *witConverter) convert(id TypeID) (wit.Type, error) {
	if td, ok := c.memo[id]; ok {
		return td, nil
	}
	def, err := c.reg.Resolve(id)
	if err != nil {
		return nil, err
	}

	switch def.Kind {
	case KindPrimitive:
		return c.primitive(def.Prim), nil
	case KindCompact:
		return c.convert(def.Elem)
	}

	td := &wit.TypeDef{}
	c.memo[id] = td
	if name := witName(def); name != "" {
		td.Name = &name
	}

	switch def.Kind {
	case KindComposite:
		if Named(def.Fields) {
			fields := make([]wit.Field, len(def.Fields))
			for i, f := range def.Fields {
				t, err := c.convert(f.Type)
				if err != nil {
					return nil, err
				}
				fields[i] = wit.Field{Name: kebab(f.Name), Type: t}
			}
			td.Kind = &wit.Record{Fields: fields}
		} else {
			types, err := c.fieldTypes(def.Fields)
			if err != nil {
				return nil, err
			}
			td.Kind = &wit.Tuple{Types: types}
		}
	case KindVariant:
		kind, err := c.variant(id, def)
		if err != nil {
			return nil, err
		}
		td.Kind = kind
	case KindSequence, KindArray:
		t, err := c.convert(def.Elem)
		if err != nil {
			return nil, err
		}
		td.Kind = &wit.List{Type: t}
	case KindTuple:
		types := make([]wit.Type, len(def.Elems))
		for i, e := range def.Elems {
			t, err := c.convert(e)
			if err != nil {
				return nil, err
			}
			types[i] = t
		}
		td.Kind = &wit.Tuple{Types: types}
	case KindBitSequence:
		td.Kind = &wit.List{Type: wit.Bool{}}
	}
	return td, nil
}

func (c *witConverter) variant(id TypeID, def *TypeDef) (wit.TypeDefKind, error) {
	if some, ok := c.reg.IsOption(id); ok {
		t, err := c.convert(some)
		if err != nil {
			return nil, err
		}
		return &wit.Option{Type: t}, nil
	}
	if okType, errType, ok := c.reg.IsResult(id); ok {
		res := &wit.Result{}
		if okType != nil && !c.isUnit(*okType) {
			t, err := c.convert(*okType)
			if err != nil {
				return nil, err
			}
			res.OK = t
		}
		if errType != nil && !c.isUnit(*errType) {
			t, err := c.convert(*errType)
			if err != nil {
				return nil, err
			}
			res.Err = t
		}
		return res, nil
	}

	allUnit := true
	for _, cs := range def.Cases {
		if len(cs.Fields) > 0 {
			allUnit = false
			break
		}
	}
	if allUnit && len(def.Cases) > 0 {
		cases := make([]wit.EnumCase, len(def.Cases))
		for i, cs := range def.Cases {
			cases[i] = wit.EnumCase{Name: kebab(cs.Name)}
		}
		return &wit.Enum{Cases: cases}, nil
	}

	cases := make([]wit.Case, len(def.Cases))
	for i, cs := range def.Cases {
		cases[i] = wit.Case{Name: kebab(cs.Name)}
		switch len(cs.Fields) {
		case 0:
		case 1:
			t, err := c.convert(cs.Fields[0].Type)
			if err != nil {
				return nil, err
			}
			cases[i].Type = t
		default:
			types, err := c.fieldTypes(cs.Fields)
			if err != nil {
				return nil, err
			}
			cases[i].Type = &wit.TypeDef{Kind: &wit.Tuple{Types: types}}
		}
	}
	return &wit.Variant{Cases: cases}, nil
}

func (c *witConverter) fieldTypes(fields []Field) ([]wit.Type, error) {
	types := make([]wit.Type, len(fields))
	for i, f := range fields {
		t, err := c.convert(f.Type)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	return types, nil
}

func (c *witConverter) isUnit(id TypeID) bool {
	def, ok := c.reg.defs[id]
	return ok && def.Kind == KindTuple && len(def.Elems) == 0
}

func (c *witConverter) primitive(p Prim) wit.Type {
	switch p {
	case PrimBool:
		return wit.Bool{}
	case PrimChar:
		return wit.Char{}
	case PrimStr:
		return wit.String{}
	case PrimU8:
		return wit.U8{}
	case PrimU16:
		return wit.U16{}
	case PrimU32:
		return wit.U32{}
	case PrimU64:
		return wit.U64{}
	case PrimI8:
		return wit.S8{}
	case PrimI16:
		return wit.S16{}
	case PrimI32:
		return wit.S32{}
	case PrimI64:
		return wit.S64{}
	case PrimU128, PrimU256, PrimI128, PrimI256:
		limbs := p.Bits() / 64
		types := make([]wit.Type, limbs)
		for i := range types {
			types[i] = wit.U64{}
		}
		if p.IsSigned() {
			types[limbs-1] = wit.S64{}
		}
		name := p.String()
		return &wit.TypeDef{Name: &name, Kind: &wit.Tuple{Types: types}}
	default:
		return wit.U8{}
	}
}

func witName(def *TypeDef) string {
	if len(def.Path) == 0 {
		return ""
	}
	return kebab(def.Path[len(def.Path)-1])
}

// kebab converts CamelCase and snake_case identifiers to kebab-case.
func kebab(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	prevLower := false
	for _, r := range s {
		switch {
		case r == '_' || r == ' ':
			if b.Len() > 0 {
				b.WriteByte('-')
			}
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return b.String()
}

package contract

import (
	"github.com/wippyai/contract-transcode/registry"
	"github.com/wippyai/contract-transcode/value"
)

// Display rewrites v of type id for presentation: account ids become
// SS58 address strings in the contract's address format. Everything else
// is returned as is.
func (c *Contract) Display(id registry.TypeID, v value.Value) value.Value {
	def, err := c.reg.Resolve(id)
	if err != nil {
		return v
	}
	if addr, ok := c.address(def, v); ok {
		return value.String(addr)
	}

	switch def.Kind {
	case registry.KindComposite:
		if comp, ok := v.(*value.Composite); ok && len(comp.Fields) == len(def.Fields) {
			return &value.Composite{Name: comp.Name, Fields: c.displayFields(def.Fields, comp.Fields)}
		}
	case registry.KindVariant:
		if vr, ok := v.(*value.Variant); ok {
			cs, found := def.CaseByName(vr.Name)
			if !found {
				cs, found = def.CaseByIndex(vr.Index)
			}
			if found && len(cs.Fields) == len(vr.Fields) {
				return &value.Variant{Name: vr.Name, Index: vr.Index, Fields: c.displayFields(cs.Fields, vr.Fields)}
			}
		}
	case registry.KindSequence, registry.KindArray:
		if seq, ok := v.(value.Seq); ok {
			out := make(value.Seq, len(seq))
			for i, e := range seq {
				out[i] = c.Display(def.Elem, e)
			}
			return out
		}
	case registry.KindTuple:
		if tup, ok := v.(value.Tuple); ok && len(tup) == len(def.Elems) {
			out := make(value.Tuple, len(tup))
			for i, e := range tup {
				out[i] = c.Display(def.Elems[i], e)
			}
			return out
		}
	case registry.KindPrimitive, registry.KindCompact, registry.KindBitSequence:
	}
	return v
}

// Format renders v of type id as literal text, with account ids shown as
// SS58 addresses.
func (c *Contract) Format(id registry.TypeID, v value.Value) string {
	return value.Format(c.Display(id, v))
}

// DisplayFields applies Display to decoded call arguments.
func (c *Contract) DisplayFields(params []Param, fields []value.Field) []value.Field {
	out := make([]value.Field, len(fields))
	for i, f := range fields {
		out[i] = f
		if i < len(params) {
			out[i].Value = c.Display(params[i].Type, f.Value)
		}
	}
	return out
}

// DisplayEvent applies Display to a decoded event.
func (c *Contract) DisplayEvent(e *EventEntry, ev *value.Composite) *value.Composite {
	out := &value.Composite{Name: ev.Name, Fields: make([]value.Field, len(ev.Fields))}
	for i, f := range ev.Fields {
		out.Fields[i] = f
		if i < len(e.Fields) {
			out.Fields[i].Value = c.Display(e.Fields[i].Type, f.Value)
		}
	}
	return out
}

func (c *Contract) displayFields(defs []registry.Field, fields []value.Field) []value.Field {
	out := make([]value.Field, len(fields))
	for i, f := range fields {
		out[i] = value.Field{Name: f.Name, Value: c.Display(defs[i].Type, f.Value)}
	}
	return out
}

// address returns the SS58 form of v when def is an account id type.
func (c *Contract) address(def *registry.TypeDef, v value.Value) (string, bool) {
	if len(def.Path) == 0 || def.Path[len(def.Path)-1] != "AccountId" {
		return "", false
	}
	if _, ok := accountField(c.reg, def); !ok {
		return "", false
	}
	comp, ok := v.(*value.Composite)
	if !ok || len(comp.Fields) != 1 {
		return "", false
	}
	b, ok := comp.Fields[0].Value.(value.Bytes)
	if !ok {
		return "", false
	}
	addr, err := SS58Encode(b, c.ss58)
	if err != nil {
		return "", false
	}
	return addr, true
}

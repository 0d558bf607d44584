package literal

import (
	"encoding/hex"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/wippyai/contract-transcode/errors"
	"github.com/wippyai/contract-transcode/registry"
	"github.com/wippyai/contract-transcode/value"
)

// converter turns a syntax tree into a value, guided by the expected type.
// Every recursive step carries the type it expects.
type converter struct {
	reg   *registry.Registry
	src   string
	path  []string
	opts  Options
	depth int
}

func (c *converter) push(name string) { c.path = append(c.path, name) }
func (c *converter) pop()             { c.path = c.path[:len(c.path)-1] }

func (c *converter) pathCopy() []string {
	if len(c.path) == 0 {
		return nil
	}
	return append([]string(nil), c.path...)
}

// fail starts an error about node n, which was expected to be of type def.
func (c *converter) fail(kind errors.Kind, n *node, def *registry.TypeDef) *errors.Builder {
	b := errors.New(errors.PhaseParse, kind).
		Path(c.pathCopy()...).
		Type(uint32(def.ID), c.reg.TypeName(def.ID))
	if n != nil && n.hasSpan() && c.src != "" {
		b.Span(c.src[n.start:n.end], n.start, n.end)
	}
	return b
}

func (c *converter) expected(n *node, def *registry.TypeDef, what string) error {
	return c.fail(errors.KindLiteralParse, n, def).
		Value(n.kind.String()).
		Detail("expected %s, got %s", what, describe(n)).
		Build()
}

func describe(n *node) string {
	switch n.kind {
	case nodeWord:
		return strconv.Quote(n.text)
	case nodeString:
		return "string " + strconv.Quote(n.text)
	case nodeTuple, nodeStruct:
		if n.name != "" {
			return n.kind.String() + " " + n.name
		}
	}
	return n.kind.String()
}

func (c *converter) convert(id registry.TypeID, n *node) (value.Value, error) {
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > c.opts.MaxDepth {
		return nil, errors.New(errors.PhaseParse, errors.KindRecursionLimit).
			Path(c.pathCopy()...).
			Type(uint32(id), c.reg.TypeName(id)).
			Detail("nesting exceeds %d levels", c.opts.MaxDepth).
			Build()
	}

	def, err := c.reg.Resolve(id)
	if err != nil {
		return nil, errors.TypeNotFound(errors.PhaseParse, c.pathCopy(), uint32(id))
	}

	if n.kind == nodeWord || n.kind == nodeString {
		if ct, ok := c.opts.custom(def); ok {
			v, handled, err := ct.ParseLiteral(c.reg, id, n.text)
			if err != nil {
				return nil, c.fail(errors.KindLiteralParse, n, def).
					Value(n.text).
					Cause(err).
					Detail("invalid %s literal", c.reg.TypeName(id)).
					Build()
			}
			if handled {
				return v, nil
			}
		}
	}

	switch def.Kind {
	case registry.KindPrimitive:
		return c.primitive(def, n)
	case registry.KindComposite:
		return c.composite(def, n)
	case registry.KindVariant:
		return c.variant(def, n)
	case registry.KindSequence:
		return c.sequence(def, n)
	case registry.KindArray:
		return c.array(def, n)
	case registry.KindTuple:
		return c.tuple(def, n)
	case registry.KindCompact:
		return c.compact(def, n)
	case registry.KindBitSequence:
		return nil, c.fail(errors.KindUnsupported, n, def).Detail("bit sequences are not supported").Build()
	default:
		return nil, c.fail(errors.KindUnsupported, n, def).Detail("unknown type kind %s", def.Kind).Build()
	}
}

func (c *converter) primitive(def *registry.TypeDef, n *node) (value.Value, error) {
	switch def.Prim {
	case registry.PrimBool:
		if n.kind == nodeWord {
			switch n.text {
			case "true":
				return value.Bool(true), nil
			case "false":
				return value.Bool(false), nil
			}
		}
		return nil, c.expected(n, def, "true or false")

	case registry.PrimChar:
		switch n.kind {
		case nodeChar, nodeString, nodeWord:
			if utf8.RuneCountInString(n.text) == 1 {
				r, _ := utf8.DecodeRuneInString(n.text)
				if r != utf8.RuneError {
					return value.Char(r), nil
				}
			}
		}
		return nil, c.expected(n, def, "a single character")

	case registry.PrimStr:
		if n.kind == nodeString || n.kind == nodeWord {
			return value.String(n.text), nil
		}
		return nil, c.expected(n, def, "a string")

	default:
		if !def.Prim.IsInt() {
			return nil, c.fail(errors.KindUnsupported, n, def).Detail("unknown primitive %s", def.Prim).Build()
		}
		i, err := c.integer(def, n, def.Prim.Bits(), def.Prim.IsSigned())
		if err != nil {
			return nil, err
		}
		return i, nil
	}
}

func (c *converter) integer(def *registry.TypeDef, n *node, bits int, signed bool) (*value.Int, error) {
	if n.kind != nodeWord && n.kind != nodeString {
		return nil, c.expected(n, def, "an integer")
	}
	i, err := value.ParseInt(n.text, bits, signed)
	if err != nil {
		kind := "u"
		if signed {
			kind = "i"
		}
		return nil, c.fail(errors.KindLiteralParse, n, def).
			Value(n.text).
			Cause(err).
			Detail("%q is not a valid %s%d", n.text, kind, bits).
			Build()
	}
	return i, nil
}

func (c *converter) composite(def *registry.TypeDef, n *node) (value.Value, error) {
	name := shortName(def)

	switch {
	case len(def.Fields) == 0:
		if n.isEmptyGroup() || (n.kind == nodeWord && n.text == name) ||
			((n.kind == nodeTuple || n.kind == nodeStruct) && len(n.items) == 0) {
			return &value.Composite{Name: name}, nil
		}
		return nil, c.expected(n, def, "an empty struct")

	case n.kind == nodeStruct && (len(def.Fields) != 1 || isFieldStruct(def.Fields[0], n)),
		n.kind == nodeTuple && (len(def.Fields) != 1 || len(n.items) == 1),
		n.kind == nodeList && len(def.Fields) != 1:
		fields, err := c.fields(def, def.Fields, n)
		if err != nil {
			return nil, err
		}
		return &value.Composite{Name: name, Fields: fields}, nil

	case len(def.Fields) == 1:
		// Single-field wrappers accept the inner literal directly
		f := def.Fields[0]
		v, err := c.field(f, 0, n)
		if err != nil {
			return nil, err
		}
		return &value.Composite{Name: name, Fields: []value.Field{{Name: f.Name, Value: v}}}, nil
	}

	what := "a parenthesized list"
	if registry.Named(def.Fields) {
		what = "a struct"
	}
	return nil, c.expected(n, def, what)
}

func isFieldStruct(f registry.Field, n *node) bool {
	return f.Name != "" && len(n.keys) == 1 && n.keys[0] == f.Name
}

// fields converts the items of a struct, tuple or list node into values for
// want, in declaration order.
func (c *converter) fields(def *registry.TypeDef, want []registry.Field, n *node) ([]value.Field, error) {
	out := make([]value.Field, len(want))

	switch n.kind {
	case nodeStruct:
		if !registry.Named(want) && len(want) > 0 {
			return nil, c.expected(n, def, "a parenthesized list")
		}
		seen := make([]bool, len(want))
		for i, key := range n.keys {
			j := fieldIndex(want, key)
			if j < 0 {
				return nil, c.fail(errors.KindLiteralParse, n.items[i], def).
					Value(key).
					Detail("unknown field %q", key).
					Build()
			}
			if seen[j] {
				return nil, c.fail(errors.KindLiteralParse, n.items[i], def).
					Value(key).
					Detail("duplicate field %q", key).
					Build()
			}
			seen[j] = true
			v, err := c.field(want[j], j, n.items[i])
			if err != nil {
				return nil, err
			}
			out[j] = value.Field{Name: want[j].Name, Value: v}
		}
		for j, ok := range seen {
			if !ok {
				return nil, c.fail(errors.KindArityMismatch, n, def).
					Value(want[j].Name).
					Detail("missing field %q", want[j].Name).
					Build()
			}
		}
		return out, nil

	case nodeTuple, nodeList:
		if len(n.items) != len(want) {
			return nil, c.fail(errors.KindArityMismatch, n, def).
				Value(len(n.items)).
				Detail("expected %d values, got %d", len(want), len(n.items)).
				Build()
		}
		for i, item := range n.items {
			v, err := c.field(want[i], i, item)
			if err != nil {
				return nil, err
			}
			out[i] = value.Field{Name: want[i].Name, Value: v}
		}
		return out, nil
	}

	return nil, c.expected(n, def, "a struct or parenthesized list")
}

func fieldIndex(fields []registry.Field, name string) int {
	for i, f := range fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func (c *converter) field(f registry.Field, i int, n *node) (value.Value, error) {
	name := f.Name
	if name == "" {
		name = strconv.Itoa(i)
	}
	c.push(name)
	defer c.pop()
	return c.convert(f.Type, n)
}

func (c *converter) variant(def *registry.TypeDef, n *node) (value.Value, error) {
	if _, isOpt := c.reg.IsOption(def.ID); isOpt {
		if n.kind == nodeNull || (n.kind == nodeWord && n.text == "null") {
			none, _ := def.CaseByName("None")
			return &value.Variant{Name: none.Name, Index: none.Index}, nil
		}
		// Anything not written as a case is the Some payload
		if !c.namesCase(def, n) {
			some, _ := def.CaseByName("Some")
			c.push(some.Name)
			v, err := c.field(some.Fields[0], 0, n)
			c.pop()
			if err != nil {
				return nil, err
			}
			return &value.Variant{Name: some.Name, Index: some.Index, Fields: value.Positional(v)}, nil
		}
	}

	label, payload, ok := caseForm(n)
	if !ok {
		return nil, c.expected(n, def, "a variant case")
	}
	vc, ok := lookupCase(def, label)
	if !ok {
		return nil, c.fail(errors.KindUnknownVariantCase, n, def).
			Value(label).
			Detail("no case %q in %s", label, c.reg.TypeName(def.ID)).
			Build()
	}

	c.push(vc.Name)
	fields, err := c.caseFields(def, vc, n, payload)
	c.pop()
	if err != nil {
		return nil, err
	}
	return &value.Variant{Name: vc.Name, Index: vc.Index, Fields: fields}, nil
}

// caseFields converts the fields of case vc. payload is set for the
// externally tagged form {"Case": payload}; otherwise the fields come from
// n itself.
func (c *converter) caseFields(def *registry.TypeDef, vc *registry.Case, n, payload *node) ([]value.Field, error) {
	if payload != nil {
		switch {
		case len(vc.Fields) == 0:
			if !payload.isEmptyGroup() {
				return nil, c.fail(errors.KindArityMismatch, payload, def).
					Detail("case %s takes no fields", vc.Name).
					Build()
			}
			return nil, nil
		case len(vc.Fields) == 1 && vc.Fields[0].Name == "":
			v, err := c.field(vc.Fields[0], 0, payload)
			if err != nil {
				return nil, err
			}
			return value.Positional(v), nil
		default:
			return c.fields(def, vc.Fields, payload)
		}
	}

	switch n.kind {
	case nodeTuple, nodeStruct:
		return c.fields(def, vc.Fields, n)
	}
	if len(vc.Fields) != 0 {
		return nil, c.fail(errors.KindArityMismatch, n, def).
			Value(0).
			Detail("case %s expects %d values, got 0", vc.Name, len(vc.Fields)).
			Build()
	}
	return nil, nil
}

// caseForm extracts the case label of a variant literal: Case, "Case",
// Case(..), Case{..} or the single-key object {"Case": payload}.
func caseForm(n *node) (label string, payload *node, ok bool) {
	switch n.kind {
	case nodeWord, nodeString:
		return n.text, nil, true
	case nodeTuple, nodeStruct:
		if n.name != "" {
			return n.name, nil, true
		}
		if n.kind == nodeStruct && len(n.keys) == 1 {
			return n.keys[0], n.items[0], true
		}
	}
	return "", nil, false
}

// namesCase reports whether n is written as one of def's cases. A quoted
// string is always a payload: "None" is Some("None") for Option<str>.
func (c *converter) namesCase(def *registry.TypeDef, n *node) bool {
	if n.kind == nodeString {
		return false
	}
	label, _, ok := caseForm(n)
	if !ok {
		return false
	}
	_, ok = lookupCase(def, label)
	return ok
}

// lookupCase finds a case by exact name, then by a unique case-insensitive
// match. A path prefix such as Option::Some is ignored. #N names the case
// with index N.
func lookupCase(def *registry.TypeDef, label string) (*registry.Case, bool) {
	if i := strings.LastIndex(label, "::"); i >= 0 {
		label = label[i+2:]
	}
	if rest, ok := strings.CutPrefix(label, "#"); ok {
		idx, err := strconv.ParseUint(rest, 10, 8)
		if err != nil {
			return nil, false
		}
		return def.CaseByIndex(uint8(idx))
	}
	if vc, ok := def.CaseByName(label); ok {
		return vc, true
	}
	var found *registry.Case
	for i := range def.Cases {
		if strings.EqualFold(def.Cases[i].Name, label) {
			if found != nil {
				return nil, false
			}
			found = &def.Cases[i]
		}
	}
	return found, found != nil
}

func (c *converter) sequence(def *registry.TypeDef, n *node) (value.Value, error) {
	b, isHex, err := c.hexBytes(def, n)
	if err != nil {
		return nil, err
	}
	if isHex {
		return b, nil
	}
	if n.kind != nodeList {
		return nil, c.expected(n, def, "a list")
	}
	return c.elems(def, n)
}

func (c *converter) array(def *registry.TypeDef, n *node) (value.Value, error) {
	b, isHex, err := c.hexBytes(def, n)
	if err != nil {
		return nil, err
	}

	var count int
	switch {
	case isHex:
		count = len(b)
	case n.kind == nodeList:
		count = len(n.items)
	default:
		return nil, c.expected(n, def, "a list")
	}
	if count != int(def.Len) {
		return nil, c.fail(errors.KindLengthMismatch, n, def).
			Value(count).
			Detail("expected %d elements, got %d", def.Len, count).
			Build()
	}
	if isHex {
		return b, nil
	}
	return c.elems(def, n)
}

// elems converts list items. Byte elements collapse into Bytes.
func (c *converter) elems(def *registry.TypeDef, n *node) (value.Value, error) {
	isByte := c.isByte(def.Elem)
	out := make(value.Seq, len(n.items))
	for i, item := range n.items {
		c.push(strconv.Itoa(i))
		v, err := c.convert(def.Elem, item)
		c.pop()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	if !isByte {
		return out, nil
	}
	b := make(value.Bytes, len(out))
	for i, v := range out {
		u, _ := v.(*value.Int).Uint64()
		b[i] = byte(u)
	}
	return b, nil
}

// hexBytes parses a 0x blob. ok is false when n is not written as one.
func (c *converter) hexBytes(def *registry.TypeDef, n *node) (value.Bytes, bool, error) {
	if (n.kind != nodeWord && n.kind != nodeString) || !hasHexPrefix(n.text) {
		return nil, false, nil
	}
	if !c.isByte(def.Elem) {
		return nil, false, nil
	}
	digits := strings.ReplaceAll(n.text[2:], "_", "")
	b, err := hex.DecodeString(digits)
	if err != nil {
		return nil, false, c.fail(errors.KindLiteralParse, n, def).
			Value(n.text).
			Cause(err).
			Detail("invalid hex bytes").
			Build()
	}
	return value.Bytes(b), true, nil
}

func hasHexPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func (c *converter) tuple(def *registry.TypeDef, n *node) (value.Value, error) {
	if len(def.Elems) == 0 {
		if n.isEmptyGroup() {
			return value.Unit(), nil
		}
		return nil, c.expected(n, def, "()")
	}
	if (n.kind != nodeTuple && n.kind != nodeList) || n.name != "" {
		return nil, c.expected(n, def, "a tuple")
	}
	if len(n.items) != len(def.Elems) {
		return nil, c.fail(errors.KindArityMismatch, n, def).
			Value(len(n.items)).
			Detail("expected %d values, got %d", len(def.Elems), len(n.items)).
			Build()
	}
	out := make(value.Tuple, len(def.Elems))
	for i, et := range def.Elems {
		c.push(strconv.Itoa(i))
		v, err := c.convert(et, n.items[i])
		c.pop()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// compact parses the inner integer. Wrapper structs around the integer may
// be written out or left implicit; the result always carries them.
func (c *converter) compact(def *registry.TypeDef, n *node) (value.Value, error) {
	target, wrappers, err := c.reg.CompactTarget(def.Elem)
	if err != nil {
		return nil, errors.WithPath(err, c.pathCopy()...)
	}
	for range wrappers {
		if (n.kind == nodeTuple || n.kind == nodeStruct) && len(n.items) == 1 {
			n = n.items[0]
		}
	}

	var v value.Value
	if target.Kind == registry.KindTuple {
		if !n.isEmptyGroup() {
			return nil, c.expected(n, def, "()")
		}
		v = value.Unit()
	} else {
		i, err := c.integer(def, n, target.Prim.Bits(), false)
		if err != nil {
			return nil, err
		}
		v = i
	}

	for i := len(wrappers) - 1; i >= 0; i-- {
		w, err := c.reg.Resolve(wrappers[i])
		if err != nil {
			return nil, errors.WithPath(err, c.pathCopy()...)
		}
		v = &value.Composite{
			Name:   shortName(w),
			Fields: []value.Field{{Name: w.Fields[0].Name, Value: v}},
		}
	}
	return v, nil
}

func (c *converter) isByte(id registry.TypeID) bool {
	def, err := c.reg.Resolve(id)
	return err == nil && def.Kind == registry.KindPrimitive && def.Prim == registry.PrimU8
}

func shortName(def *registry.TypeDef) string {
	if len(def.Path) == 0 {
		return ""
	}
	return def.Path[len(def.Path)-1]
}

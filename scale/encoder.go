package scale

import (
	"strconv"
	"unicode/utf8"

	"github.com/wippyai/contract-transcode/errors"
	"github.com/wippyai/contract-transcode/registry"
	"github.com/wippyai/contract-transcode/value"
)

// Encoder writes values in the binary wire format described by a registry.
// It holds no per-call state and is safe for concurrent use.
type Encoder struct {
	limits Limits
}

func NewEncoder() *Encoder {
	return &Encoder{limits: DefaultLimits()}
}

func NewEncoderWithLimits(l Limits) *Encoder {
	return &Encoder{limits: l.withDefaults()}
}

var defaultEncoder = NewEncoder()

// Encode encodes v as type id using default limits.
func Encode(reg *registry.Registry, id registry.TypeID, v value.Value) ([]byte, error) {
	return defaultEncoder.Encode(reg, id, v)
}

// Encode encodes v as type id. On error no bytes are returned.
func (e *Encoder) Encode(reg *registry.Registry, id registry.TypeID, v value.Value) ([]byte, error) {
	w := getWriter()
	defer putWriter(w)

	if err := e.EncodeTo(w, reg, id, v); err != nil {
		return nil, err
	}

	// Return a copy since the buffer goes back to the pool
	out := make([]byte, w.Len())
	copy(out, w.Bytes())
	return out, nil
}

// EncodeTo appends the encoding of v to w. On error w is restored to its
// previous length.
func (e *Encoder) EncodeTo(w *Writer, reg *registry.Registry, id registry.TypeID, v value.Value) error {
	mark := w.Len()
	s := &encodeState{reg: reg, w: w, limits: e.limits}
	if err := s.encode(id, v); err != nil {
		w.Truncate(mark)
		return err
	}
	return nil
}

type encodeState struct {
	reg    *registry.Registry
	w      *Writer
	path   []string
	limits Limits
	depth  int
}

func (s *encodeState) push(name string) { s.path = append(s.path, name) }
func (s *encodeState) pop()             { s.path = s.path[:len(s.path)-1] }

func (s *encodeState) pathCopy() []string {
	if len(s.path) == 0 {
		return nil
	}
	return append([]string(nil), s.path...)
}

func (s *encodeState) encode(id registry.TypeID, v value.Value) error {
	s.depth++
	defer func() { s.depth-- }()
	if s.depth > s.limits.MaxDepth {
		return errors.New(errors.PhaseEncode, errors.KindRecursionLimit).
			Path(s.pathCopy()...).
			Type(uint32(id), s.reg.TypeName(id)).
			Detail("nesting exceeds %d levels", s.limits.MaxDepth).
			Build()
	}

	def, err := s.reg.Resolve(id)
	if err != nil {
		return errors.TypeNotFound(errors.PhaseEncode, s.pathCopy(), uint32(id))
	}
	if v == nil {
		return s.mismatch(def, "nil")
	}

	switch def.Kind {
	case registry.KindPrimitive:
		return s.encodePrimitive(def, v)
	case registry.KindComposite:
		return s.encodeComposite(def, v)
	case registry.KindVariant:
		return s.encodeVariant(def, v)
	case registry.KindSequence:
		return s.encodeSequence(def, v)
	case registry.KindArray:
		return s.encodeArray(def, v)
	case registry.KindTuple:
		return s.encodeTuple(def, v)
	case registry.KindCompact:
		return s.encodeCompact(def, v)
	case registry.KindBitSequence:
		return s.unsupported(def, "bit sequences are not supported")
	default:
		return s.unsupported(def, "unknown type kind "+def.Kind.String())
	}
}

func (s *encodeState) encodePrimitive(def *registry.TypeDef, v value.Value) error {
	switch def.Prim {
	case registry.PrimBool:
		b, ok := v.(value.Bool)
		if !ok {
			return s.mismatch(def, v.Kind())
		}
		if b {
			s.w.Byte(1)
		} else {
			s.w.Byte(0)
		}
		return nil

	case registry.PrimChar:
		var r rune
		switch c := v.(type) {
		case value.Char:
			r = rune(c)
		case value.String:
			if utf8.RuneCountInString(string(c)) != 1 {
				return s.mismatch(def, "multi-character string")
			}
			r, _ = utf8.DecodeRuneInString(string(c))
		default:
			return s.mismatch(def, v.Kind())
		}
		if !utf8.ValidRune(r) {
			return errors.New(errors.PhaseEncode, errors.KindInvalidData).
				Path(s.pathCopy()...).
				Type(uint32(def.ID), "char").
				Value(r).
				Detail("%U is not a Unicode scalar value", r).
				Build()
		}
		u := uint32(r)
		s.w.Byte(byte(u))
		s.w.Byte(byte(u >> 8))
		s.w.Byte(byte(u >> 16))
		s.w.Byte(byte(u >> 24))
		return nil

	case registry.PrimStr:
		str, ok := v.(value.String)
		if !ok {
			return s.mismatch(def, v.Kind())
		}
		if !utf8.ValidString(string(str)) {
			return errors.InvalidUTF8(errors.PhaseEncode, s.pathCopy(), []byte(str))
		}
		s.w.CompactUint64(uint64(len(str)))
		s.w.WriteString(string(str))
		return nil

	default:
		if !def.Prim.IsInt() {
			return s.unsupported(def, "unknown primitive "+def.Prim.String())
		}
		i, ok := v.(*value.Int)
		if !ok {
			return s.mismatch(def, v.Kind())
		}
		if !i.FitsIn(def.Prim.Bits(), def.Prim.IsSigned()) {
			err := errors.Overflow(errors.PhaseEncode, s.pathCopy(), i.String(), def.Prim.String())
			err.TypeID, err.HasType = uint32(def.ID), true
			return err
		}
		s.w.Int(i, def.Prim.Size())
		return nil
	}
}

func (s *encodeState) encodeComposite(def *registry.TypeDef, v value.Value) error {
	var fields []value.Field
	switch c := v.(type) {
	case *value.Composite:
		// A wrapper around a struct accepts the inner struct value.
		if len(def.Fields) == 1 && !wrapsField(def.Fields[0], c) && s.isComposite(def.Fields[0].Type) {
			return s.encodeField(def.Fields[0], 0, v)
		}
		fields = c.Fields
	case value.Tuple:
		if registry.Named(def.Fields) && len(c) > 0 {
			return s.mismatch(def, v.Kind())
		}
		fields = value.Positional(c...)
	default:
		// Single-field wrappers accept their inner value directly.
		if len(def.Fields) == 1 {
			return s.encodeField(def.Fields[0], 0, v)
		}
		return s.mismatch(def, v.Kind())
	}
	return s.encodeFields(def, def.Fields, fields)
}

func (s *encodeState) encodeVariant(def *registry.TypeDef, v value.Value) error {
	vv, ok := v.(*value.Variant)
	if !ok {
		return s.mismatch(def, v.Kind())
	}

	var c *registry.Case
	if vv.Name != "" {
		c, ok = def.CaseByName(vv.Name)
	} else {
		c, ok = def.CaseByIndex(vv.Index)
	}
	if !ok {
		name := vv.Name
		if name == "" {
			name = "#" + strconv.Itoa(int(vv.Index))
		}
		return errors.New(errors.PhaseEncode, errors.KindInvalidVariantCase).
			Path(s.pathCopy()...).
			Type(uint32(def.ID), s.reg.TypeName(def.ID)).
			Value(name).
			Detail("no case %s", name).
			Build()
	}

	s.w.Byte(c.Index)
	s.push(c.Name)
	defer s.pop()
	return s.encodeFields(def, c.Fields, vv.Fields)
}

// encodeFields writes want in declaration order. Named values are matched
// by name, positional values by position.
func (s *encodeState) encodeFields(def *registry.TypeDef, want []registry.Field, got []value.Field) error {
	if len(want) != len(got) {
		err := errors.ArityMismatch(errors.PhaseEncode, s.pathCopy(), len(want), len(got))
		err.TypeID, err.HasType, err.TypeName = uint32(def.ID), true, s.reg.TypeName(def.ID)
		return err
	}
	byName := registry.Named(want) && value.IsNamed(got)
	for i, f := range want {
		var fv value.Value
		if byName {
			var ok bool
			fv, ok = lookupField(got, f.Name)
			if !ok {
				return errors.New(errors.PhaseEncode, errors.KindArityMismatch).
					Path(s.pathCopy()...).
					Type(uint32(def.ID), s.reg.TypeName(def.ID)).
					Value(f.Name).
					Detail("missing field %q", f.Name).
					Build()
			}
		} else {
			fv = got[i].Value
		}
		if err := s.encodeField(f, i, fv); err != nil {
			return err
		}
	}
	return nil
}

func (s *encodeState) encodeField(f registry.Field, i int, v value.Value) error {
	name := f.Name
	if name == "" {
		name = strconv.Itoa(i)
	}
	s.push(name)
	defer s.pop()
	return s.encode(f.Type, v)
}

// wrapsField reports whether c is shaped like a composite whose only field is f.
func wrapsField(f registry.Field, c *value.Composite) bool {
	return len(c.Fields) == 1 && (c.Fields[0].Name == "" || c.Fields[0].Name == f.Name)
}

func (s *encodeState) isComposite(id registry.TypeID) bool {
	def, err := s.reg.Resolve(id)
	return err == nil && def.Kind == registry.KindComposite
}

func lookupField(fields []value.Field, name string) (value.Value, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

func (s *encodeState) encodeSequence(def *registry.TypeDef, v value.Value) error {
	switch x := v.(type) {
	case value.Bytes:
		if !s.isByte(def.Elem) {
			return s.mismatch(def, v.Kind())
		}
		s.w.CompactUint64(uint64(len(x)))
		_, _ = s.w.Write(x)
		return nil
	case value.Seq:
		s.w.CompactUint64(uint64(len(x)))
		return s.encodeElems(def.Elem, x)
	default:
		return s.mismatch(def, v.Kind())
	}
}

func (s *encodeState) encodeArray(def *registry.TypeDef, v value.Value) error {
	var n int
	switch x := v.(type) {
	case value.Bytes:
		if !s.isByte(def.Elem) {
			return s.mismatch(def, v.Kind())
		}
		n = len(x)
	case value.Seq:
		n = len(x)
	default:
		return s.mismatch(def, v.Kind())
	}
	if n != int(def.Len) {
		return errors.New(errors.PhaseEncode, errors.KindLengthMismatch).
			Path(s.pathCopy()...).
			Type(uint32(def.ID), s.reg.TypeName(def.ID)).
			Value(n).
			Detail("expected %d elements, got %d", def.Len, n).
			Build()
	}
	if b, ok := v.(value.Bytes); ok {
		_, _ = s.w.Write(b)
		return nil
	}
	return s.encodeElems(def.Elem, v.(value.Seq))
}

func (s *encodeState) encodeElems(elem registry.TypeID, vs []value.Value) error {
	for i, ev := range vs {
		s.push(strconv.Itoa(i))
		err := s.encode(elem, ev)
		s.pop()
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *encodeState) encodeTuple(def *registry.TypeDef, v value.Value) error {
	var elems []value.Value
	switch x := v.(type) {
	case value.Tuple:
		elems = x
	case value.Seq:
		elems = x
	default:
		return s.mismatch(def, v.Kind())
	}
	if len(elems) != len(def.Elems) {
		err := errors.ArityMismatch(errors.PhaseEncode, s.pathCopy(), len(def.Elems), len(elems))
		err.TypeID, err.HasType, err.TypeName = uint32(def.ID), true, s.reg.TypeName(def.ID)
		return err
	}
	for i, et := range def.Elems {
		s.push(strconv.Itoa(i))
		err := s.encode(et, elems[i])
		s.pop()
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *encodeState) encodeCompact(def *registry.TypeDef, v value.Value) error {
	target, wrappers, err := s.reg.CompactTarget(def.Elem)
	if err != nil {
		return errors.WithPath(err, s.pathCopy()...)
	}
	for range wrappers {
		if c, ok := v.(*value.Composite); ok && len(c.Fields) == 1 {
			v = c.Fields[0].Value
		}
	}

	if target.Kind == registry.KindTuple {
		if t, ok := v.(value.Tuple); !ok || len(t) != 0 {
			return s.mismatch(def, v.Kind())
		}
		return nil
	}

	i, ok := v.(*value.Int)
	if !ok {
		return s.mismatch(def, v.Kind())
	}
	if !i.FitsIn(target.Prim.Bits(), false) {
		err := errors.Overflow(errors.PhaseEncode, s.pathCopy(), i.String(), "Compact<"+target.Prim.String()+">")
		err.TypeID, err.HasType = uint32(def.ID), true
		return err
	}
	s.w.Compact(i.Magnitude())
	return nil
}

func (s *encodeState) isByte(id registry.TypeID) bool {
	def, err := s.reg.Resolve(id)
	return err == nil && def.Kind == registry.KindPrimitive && def.Prim == registry.PrimU8
}

func (s *encodeState) mismatch(def *registry.TypeDef, kind string) error {
	err := errors.TypeMismatch(errors.PhaseEncode, s.pathCopy(), kind, s.reg.TypeName(def.ID))
	err.TypeID, err.HasType = uint32(def.ID), true
	return err
}

func (s *encodeState) unsupported(def *registry.TypeDef, what string) error {
	err := errors.Unsupported(errors.PhaseEncode, what)
	err.Path = s.pathCopy()
	err.TypeID, err.HasType, err.TypeName = uint32(def.ID), true, s.reg.TypeName(def.ID)
	return err
}

package scale

import (
	"strconv"
	"unicode/utf8"

	"github.com/wippyai/contract-transcode/errors"
	"github.com/wippyai/contract-transcode/registry"
	"github.com/wippyai/contract-transcode/value"
)

// Decoder reads values in the binary wire format described by a registry.
// It holds no per-call state and is safe for concurrent use.
type Decoder struct {
	limits Limits
}

func NewDecoder() *Decoder {
	return &Decoder{limits: DefaultLimits()}
}

func NewDecoderWithLimits(l Limits) *Decoder {
	return &Decoder{limits: l.withDefaults()}
}

var defaultDecoder = NewDecoder()

// Decode decodes a value of type id starting at offset using default limits.
func Decode(reg *registry.Registry, id registry.TypeID, data []byte, offset int) (value.Value, int, error) {
	return defaultDecoder.Decode(reg, id, data, offset)
}

// DecodeAll decodes data as exactly one value of type id using default limits.
func DecodeAll(reg *registry.Registry, id registry.TypeID, data []byte) (value.Value, error) {
	return defaultDecoder.DecodeAll(reg, id, data)
}

// Decode decodes a value of type id starting at offset. It returns the
// value and the number of bytes consumed. Bytes after the value are left
// alone.
func (d *Decoder) Decode(reg *registry.Registry, id registry.TypeID, data []byte, offset int) (value.Value, int, error) {
	if offset < 0 || offset > len(data) {
		return nil, 0, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Value(offset).
			Detail("offset %d is outside the %d-byte input", offset, len(data)).
			Build()
	}
	r := NewReader(data, offset)
	start := r.Position()
	v, err := d.DecodeFrom(r, reg, id)
	if err != nil {
		return nil, 0, err
	}
	return v, r.Position() - start, nil
}

// DecodeAll decodes data as exactly one value of type id and fails with
// trailing_bytes when input is left over.
func (d *Decoder) DecodeAll(reg *registry.Registry, id registry.TypeID, data []byte) (value.Value, error) {
	r := NewReader(data, 0)
	v, err := d.DecodeFrom(r, reg, id)
	if err != nil {
		return nil, err
	}
	if r.Remaining() > 0 {
		return nil, errors.TrailingBytes(r.Position(), r.Remaining())
	}
	return v, nil
}

// DecodeFrom decodes one value of type id at the reader's position and
// advances it.
func (d *Decoder) DecodeFrom(r *Reader, reg *registry.Registry, id registry.TypeID) (value.Value, error) {
	s := &decodeState{reg: reg, r: r, limits: d.limits, zeroItems: d.limits.MaxSequenceLength}
	return s.decode(id)
}

type decodeState struct {
	reg    *registry.Registry
	r      *Reader
	path   []string
	limits Limits
	depth  int
	// zeroItems is what is left of the budget for zero-sized elements,
	// shared by every sequence and array in one decode.
	zeroItems int
}

func (s *decodeState) push(name string) { s.path = append(s.path, name) }
func (s *decodeState) pop()             { s.path = s.path[:len(s.path)-1] }

func (s *decodeState) pathCopy() []string {
	if len(s.path) == 0 {
		return nil
	}
	return append([]string(nil), s.path...)
}

// fail attaches the current path and type to reader errors, which are
// raised without either.
func (s *decodeState) fail(def *registry.TypeDef, err error) error {
	e, ok := err.(*errors.Error)
	if !ok {
		return err
	}
	cp := *e
	if cp.Path == nil {
		cp.Path = s.pathCopy()
	}
	if !cp.HasType {
		cp.TypeID, cp.HasType = uint32(def.ID), true
		if cp.TypeName == "" {
			cp.TypeName = s.reg.TypeName(def.ID)
		}
	}
	return &cp
}

func (s *decodeState) decode(id registry.TypeID) (value.Value, error) {
	s.depth++
	defer func() { s.depth-- }()
	if s.depth > s.limits.MaxDepth {
		return nil, errors.New(errors.PhaseDecode, errors.KindRecursionLimit).
			Path(s.pathCopy()...).
			Type(uint32(id), s.reg.TypeName(id)).
			Offset(s.r.Position()).
			Detail("nesting exceeds %d levels", s.limits.MaxDepth).
			Build()
	}

	def, err := s.reg.Resolve(id)
	if err != nil {
		return nil, errors.TypeNotFound(errors.PhaseDecode, s.pathCopy(), uint32(id))
	}

	switch def.Kind {
	case registry.KindPrimitive:
		return s.decodePrimitive(def)
	case registry.KindComposite:
		return s.decodeComposite(def)
	case registry.KindVariant:
		return s.decodeVariant(def)
	case registry.KindSequence:
		return s.decodeSequence(def)
	case registry.KindArray:
		return s.decodeArray(def)
	case registry.KindTuple:
		return s.decodeTuple(def)
	case registry.KindCompact:
		return s.decodeCompact(def)
	case registry.KindBitSequence:
		return nil, s.fail(def, errors.Unsupported(errors.PhaseDecode, "bit sequences are not supported"))
	default:
		return nil, s.fail(def, errors.Unsupported(errors.PhaseDecode, "unknown type kind "+def.Kind.String()))
	}
}

func (s *decodeState) decodePrimitive(def *registry.TypeDef) (value.Value, error) {
	start := s.r.Position()
	switch def.Prim {
	case registry.PrimBool:
		b, err := s.r.ReadByte()
		if err != nil {
			return nil, s.fail(def, err)
		}
		switch b {
		case 0:
			return value.Bool(false), nil
		case 1:
			return value.Bool(true), nil
		default:
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Path(s.pathCopy()...).
				Type(uint32(def.ID), "bool").
				Offset(start).
				Value(b).
				Detail("bool byte must be 0 or 1, got %#02x", b).
				Build()
		}

	case registry.PrimChar:
		b, err := s.r.ReadBytes(4)
		if err != nil {
			return nil, s.fail(def, err)
		}
		r := rune(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24)
		if r < 0 || !utf8.ValidRune(r) {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Path(s.pathCopy()...).
				Type(uint32(def.ID), "char").
				Offset(start).
				Detail("%#x is not a Unicode scalar value", b).
				Build()
		}
		return value.Char(r), nil

	case registry.PrimStr:
		raw, err := s.readByteString()
		if err != nil {
			return nil, s.fail(def, err)
		}
		if !utf8.Valid(raw) {
			e := errors.InvalidUTF8(errors.PhaseDecode, s.pathCopy(), raw)
			e.Offset, e.HasOff = start, true
			return nil, e
		}
		return value.String(raw), nil

	default:
		if !def.Prim.IsInt() {
			return nil, s.fail(def, errors.Unsupported(errors.PhaseDecode, "unknown primitive "+def.Prim.String()))
		}
		b, err := s.r.ReadBytes(def.Prim.Size())
		if err != nil {
			return nil, s.fail(def, err)
		}
		return value.FromLE(b, def.Prim.IsSigned()), nil
	}
}

func (s *decodeState) readByteString() ([]byte, error) {
	n, err := s.r.ReadLength(1, 0)
	if err != nil {
		return nil, err
	}
	return s.r.ReadBytes(n)
}

func (s *decodeState) decodeComposite(def *registry.TypeDef) (value.Value, error) {
	fields, err := s.decodeFields(def.Fields)
	if err != nil {
		return nil, err
	}
	return &value.Composite{Name: shortName(def), Fields: fields}, nil
}

func (s *decodeState) decodeVariant(def *registry.TypeDef) (value.Value, error) {
	start := s.r.Position()
	idx, err := s.r.ReadByte()
	if err != nil {
		return nil, s.fail(def, err)
	}
	c, ok := def.CaseByIndex(idx)
	if !ok {
		e := errors.InvalidDiscriminant(s.pathCopy(), start, idx)
		e.TypeID, e.HasType, e.TypeName = uint32(def.ID), true, s.reg.TypeName(def.ID)
		return nil, e
	}

	s.push(c.Name)
	defer s.pop()
	fields, err := s.decodeFields(c.Fields)
	if err != nil {
		return nil, err
	}
	return &value.Variant{Name: c.Name, Index: c.Index, Fields: fields}, nil
}

func (s *decodeState) decodeFields(want []registry.Field) ([]value.Field, error) {
	fields := make([]value.Field, len(want))
	for i, f := range want {
		name := f.Name
		if name == "" {
			name = strconv.Itoa(i)
		}
		s.push(name)
		v, err := s.decode(f.Type)
		s.pop()
		if err != nil {
			return nil, err
		}
		fields[i] = value.Field{Name: f.Name, Value: v}
	}
	return fields, nil
}

func (s *decodeState) decodeSequence(def *registry.TypeDef) (value.Value, error) {
	if s.isByte(def.Elem) {
		raw, err := s.readByteString()
		if err != nil {
			return nil, s.fail(def, err)
		}
		return value.Bytes(append([]byte(nil), raw...)), nil
	}

	start := s.r.Position()
	n, err := s.r.ReadLength(s.reg.MinSize(def.Elem), s.limits.MaxSequenceLength)
	if err != nil {
		return nil, s.fail(def, err)
	}
	if err := s.spendZeroItems(def, def.Elem, n, start); err != nil {
		return nil, err
	}
	return s.decodeElems(def.Elem, n)
}

// spendZeroItems charges n elements of type elem against the decode's
// zero-sized element budget. Elements that occupy input are bounded by the
// input itself and cost nothing.
func (s *decodeState) spendZeroItems(def *registry.TypeDef, elem registry.TypeID, n, offset int) error {
	if n == 0 || s.reg.MinSize(elem) > 0 {
		return nil
	}
	if n > s.zeroItems {
		return errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path(s.pathCopy()...).
			Type(uint32(def.ID), s.reg.TypeName(def.ID)).
			Offset(offset).
			Value(n).
			Detail("%d zero-sized elements exceed the decoder limit of %d", n, s.limits.MaxSequenceLength).
			Build()
	}
	s.zeroItems -= n
	return nil
}

func (s *decodeState) decodeArray(def *registry.TypeDef) (value.Value, error) {
	if need := s.reg.MinSize(def.ID); need > s.r.Remaining() {
		return nil, s.fail(def, errors.UnexpectedEnd(nil, s.r.Position(), need, s.r.Remaining()))
	}
	if int64(def.Len) > int64(maxInt) {
		return nil, s.fail(def, s.r.badLength(s.r.Position(), strconv.FormatUint(uint64(def.Len), 10)))
	}
	if err := s.spendZeroItems(def, def.Elem, int(def.Len), s.r.Position()); err != nil {
		return nil, err
	}

	if s.isByte(def.Elem) {
		raw, err := s.r.ReadBytes(int(def.Len))
		if err != nil {
			return nil, s.fail(def, err)
		}
		return value.Bytes(append([]byte(nil), raw...)), nil
	}
	return s.decodeElems(def.Elem, int(def.Len))
}

func (s *decodeState) decodeElems(elem registry.TypeID, n int) (value.Value, error) {
	out := make(value.Seq, n)
	for i := range out {
		s.push(strconv.Itoa(i))
		v, err := s.decode(elem)
		s.pop()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *decodeState) decodeTuple(def *registry.TypeDef) (value.Value, error) {
	out := make(value.Tuple, len(def.Elems))
	for i, et := range def.Elems {
		s.push(strconv.Itoa(i))
		v, err := s.decode(et)
		s.pop()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *decodeState) decodeCompact(def *registry.TypeDef) (value.Value, error) {
	target, wrappers, err := s.reg.CompactTarget(def.Elem)
	if err != nil {
		return nil, s.fail(def, err)
	}

	var v value.Value
	if target.Kind == registry.KindTuple {
		v = value.Unit()
	} else {
		start := s.r.Position()
		n, err := s.r.ReadCompact()
		if err != nil {
			return nil, s.fail(def, err)
		}
		bits := target.Prim.Bits()
		if n.BitLen() > bits {
			e := errors.Overflow(errors.PhaseDecode, s.pathCopy(), n.Dec(), "Compact<"+target.Prim.String()+">")
			e.TypeID, e.HasType = uint32(def.ID), true
			e.Offset, e.HasOff = start, true
			return nil, e
		}
		v = value.NewFromUint256(bits, false, n)
	}

	for i := len(wrappers) - 1; i >= 0; i-- {
		w, err := s.reg.Resolve(wrappers[i])
		if err != nil {
			return nil, s.fail(def, err)
		}
		v = &value.Composite{
			Name:   shortName(w),
			Fields: []value.Field{{Name: w.Fields[0].Name, Value: v}},
		}
	}
	return v, nil
}

func (s *decodeState) isByte(id registry.TypeID) bool {
	def, err := s.reg.Resolve(id)
	return err == nil && def.Kind == registry.KindPrimitive && def.Prim == registry.PrimU8
}

func shortName(def *registry.TypeDef) string {
	if len(def.Path) == 0 {
		return ""
	}
	return def.Path[len(def.Path)-1]
}

package registry

import (
	"sort"

	"github.com/wippyai/contract-transcode/errors"
)

// Registry is an immutable arena of type definitions addressed by TypeID.
// It is safe for concurrent use.
type Registry struct {
	defs    map[TypeID]*TypeDef
	minSize map[TypeID]int
	ids     []TypeID
}

// New builds a registry from defs. It validates the whole graph once and
// fails fast: duplicate ids, dangling references, mixed field naming,
// duplicate variant indices and non-integer compact targets are rejected.
// Definitions are copied by value; the slices inside them are shared and
// must not be modified afterwards.
func New(defs []TypeDef) (*Registry, error) {
	r := &Registry{
		defs: make(map[TypeID]*TypeDef, len(defs)),
		ids:  make([]TypeID, 0, len(defs)),
	}

	for i := range defs {
		def := defs[i]
		if _, dup := r.defs[def.ID]; dup {
			return nil, errors.New(errors.PhaseRegistry, errors.KindDuplicateType).
				Type(uint32(def.ID), "").
				Detail("type id %d defined more than once", def.ID).
				Build()
		}
		r.defs[def.ID] = &def
		r.ids = append(r.ids, def.ID)
	}
	sort.Slice(r.ids, func(i, j int) bool { return r.ids[i] < r.ids[j] })

	for _, id := range r.ids {
		if err := r.checkRefs(r.defs[id]); err != nil {
			return nil, err
		}
	}
	for _, id := range r.ids {
		if err := r.validate(r.defs[id]); err != nil {
			return nil, err
		}
	}

	r.minSize = computeMinSizes(r)
	return r, nil
}

func (r *Registry) checkRefs(def *TypeDef) error {
	for _, ref := range def.refs() {
		if _, ok := r.defs[ref]; !ok {
			return errors.New(errors.PhaseRegistry, errors.KindDanglingTypeReference).
				Type(uint32(def.ID), "").
				Value(uint32(ref)).
				Detail("references missing type %d", ref).
				Build()
		}
	}
	return nil
}

func (r *Registry) validate(def *TypeDef) error {
	switch def.Kind {
	case KindPrimitive:
		if def.Prim > PrimI256 {
			return r.invalid(def, "unknown primitive %d", def.Prim)
		}
	case KindComposite:
		if err := r.checkFieldNames(def, def.Fields); err != nil {
			return err
		}
	case KindVariant:
		seenIdx := make(map[uint8]string, len(def.Cases))
		seenName := make(map[string]struct{}, len(def.Cases))
		for _, c := range def.Cases {
			if prev, dup := seenIdx[c.Index]; dup {
				return r.invalid(def, "cases %q and %q share index %d", prev, c.Name, c.Index)
			}
			if _, dup := seenName[c.Name]; dup {
				return r.invalid(def, "duplicate case name %q", c.Name)
			}
			seenIdx[c.Index] = c.Name
			seenName[c.Name] = struct{}{}
			if err := r.checkFieldNames(def, c.Fields); err != nil {
				return err
			}
		}
	case KindCompact:
		if !r.compactable(def.Elem, 0) {
			return r.invalid(def, "compact target %d is not an unsigned integer", def.Elem)
		}
	case KindSequence, KindArray, KindTuple, KindBitSequence:
	default:
		return r.invalid(def, "unknown kind %d", def.Kind)
	}
	return nil
}

func (r *Registry) invalid(def *TypeDef, format string, args ...any) error {
	return errors.New(errors.PhaseRegistry, errors.KindInvalidData).
		Type(uint32(def.ID), "").
		Detail(format, args...).
		Build()
}

func (r *Registry) checkFieldNames(def *TypeDef, fields []Field) error {
	if len(fields) == 0 {
		return nil
	}
	named := fields[0].Name != ""
	for _, f := range fields[1:] {
		if (f.Name != "") != named {
			return r.invalid(def, "fields mix named and unnamed entries")
		}
	}
	return nil
}

// compactable reports whether id can be the target of a compact encoding:
// an unsigned integer, the unit tuple, or a single-field wrapper of one.
func (r *Registry) compactable(id TypeID, depth int) bool {
	if depth > 8 {
		return false
	}
	def, ok := r.defs[id]
	if !ok {
		return false
	}
	switch def.Kind {
	case KindPrimitive:
		return def.Prim.IsInt() && !def.Prim.IsSigned()
	case KindTuple:
		return len(def.Elems) == 0
	case KindComposite:
		return len(def.Fields) == 1 && r.compactable(def.Fields[0].Type, depth+1)
	default:
		return false
	}
}

// Resolve returns the definition for id. The result must not be modified.
func (r *Registry) Resolve(id TypeID) (*TypeDef, error) {
	def, ok := r.defs[id]
	if !ok {
		return nil, errors.TypeNotFound(errors.PhaseRegistry, nil, uint32(id))
	}
	return def, nil
}

// Has reports whether id is defined.
func (r *Registry) Has(id TypeID) bool {
	_, ok := r.defs[id]
	return ok
}

// Len returns the number of definitions.
func (r *Registry) Len() int {
	return len(r.ids)
}

// IDs returns all type ids in ascending order.
func (r *Registry) IDs() []TypeID {
	out := make([]TypeID, len(r.ids))
	copy(out, r.ids)
	return out
}

// CompactTarget follows single-field wrappers from a compact's element type
// down to the integer primitive or unit tuple that is actually encoded.
// The returned path lists the wrapper ids from outermost to innermost.
func (r *Registry) CompactTarget(id TypeID) (*TypeDef, []TypeID, error) {
	var wrappers []TypeID
	for depth := 0; depth <= 8; depth++ {
		def, err := r.Resolve(id)
		if err != nil {
			return nil, nil, err
		}
		if def.Kind != KindComposite {
			return def, wrappers, nil
		}
		if len(def.Fields) != 1 {
			break
		}
		wrappers = append(wrappers, id)
		id = def.Fields[0].Type
	}
	return nil, nil, errors.New(errors.PhaseRegistry, errors.KindInvalidData).
		Type(uint32(id), "").
		Detail("not a compact-encodable type").
		Build()
}

package registry

// Builder assembles type definitions with sequential ids for programmatic
// registries. Primitive types are interned so each is defined once.
type Builder struct {
	prims map[Prim]TypeID
	defs  []TypeDef
}

// NewBuilder returns an empty builder. The first defined type gets id 0.
func NewBuilder() *Builder {
	return &Builder{prims: make(map[Prim]TypeID)}
}

func (b *Builder) add(def TypeDef) TypeID {
	def.ID = TypeID(len(b.defs))
	b.defs = append(b.defs, def)
	return def.ID
}

// Reserve allocates an id whose definition is supplied later with Define.
// It allows recursive types.
func (b *Builder) Reserve() TypeID {
	return b.add(TypeDef{Kind: KindTuple})
}

// Define replaces the definition of a reserved id.
func (b *Builder) Define(id TypeID, def TypeDef) {
	def.ID = id
	b.defs[id] = def
}

// Prim returns the id of primitive p, defining it on first use.
func (b *Builder) Prim(p Prim) TypeID {
	if id, ok := b.prims[p]; ok {
		return id
	}
	id := b.add(TypeDef{Kind: KindPrimitive, Prim: p})
	b.prims[p] = id
	return id
}

// Sequence defines Vec<elem>.
func (b *Builder) Sequence(elem TypeID) TypeID {
	return b.add(TypeDef{Kind: KindSequence, Elem: elem})
}

// Array defines [elem; n].
func (b *Builder) Array(elem TypeID, n uint32) TypeID {
	return b.add(TypeDef{Kind: KindArray, Elem: elem, Len: n})
}

// Tuple defines (elems...). No elements defines the unit type.
func (b *Builder) Tuple(elems ...TypeID) TypeID {
	return b.add(TypeDef{Kind: KindTuple, Elems: elems})
}

// Compact defines Compact<elem>.
func (b *Builder) Compact(elem TypeID) TypeID {
	return b.add(TypeDef{Kind: KindCompact, Elem: elem})
}

// Composite defines a struct with the given path and fields.
func (b *Builder) Composite(path []string, fields ...Field) TypeID {
	return b.add(TypeDef{Kind: KindComposite, Path: path, Fields: fields})
}

// Variant defines an enum with the given path and cases.
func (b *Builder) Variant(path []string, cases ...Case) TypeID {
	return b.add(TypeDef{Kind: KindVariant, Path: path, Cases: cases})
}

// Option defines Option<elem> with None at index 0 and Some at index 1.
func (b *Builder) Option(elem TypeID) TypeID {
	return b.add(TypeDef{
		Kind:   KindVariant,
		Path:   []string{"Option"},
		Params: []Param{{Name: "T", Type: &elem}},
		Cases: []Case{
			{Name: "None", Index: 0},
			{Name: "Some", Index: 1, Fields: []Field{{Type: elem}}},
		},
	})
}

// Result defines Result<ok, err> with Ok at index 0 and Err at index 1.
func (b *Builder) Result(ok, err TypeID) TypeID {
	return b.add(TypeDef{
		Kind:   KindVariant,
		Path:   []string{"Result"},
		Params: []Param{{Name: "T", Type: &ok}, {Name: "E", Type: &err}},
		Cases: []Case{
			{Name: "Ok", Index: 0, Fields: []Field{{Type: ok}}},
			{Name: "Err", Index: 1, Fields: []Field{{Type: err}}},
		},
	})
}

// Defs returns the definitions added so far.
func (b *Builder) Defs() []TypeDef {
	return b.defs
}

// Build validates the definitions and returns the registry.
func (b *Builder) Build() (*Registry, error) {
	return New(b.defs)
}

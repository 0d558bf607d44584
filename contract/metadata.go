package contract

import (
	"encoding/json"
	"strings"

	"github.com/wippyai/contract-transcode/errors"
	"github.com/wippyai/contract-transcode/registry"
)

// metadataDoc mirrors the metadata JSON document. Only the parts the
// transcoder uses are modelled.
type metadataDoc struct {
	Source   *sourceSection   `json:"source"`
	Contract *contractSection `json:"contract"`
	Spec     *specSection     `json:"spec"`
	V3       *legacyBody      `json:"V3"`
	V2       *legacyBody      `json:"V2"`
	V1       *legacyBody      `json:"V1"`
	Version  json.RawMessage  `json:"version"`
	Types    []typeEntry      `json:"types"`
}

// legacyBody is the versioned wrapper of older documents.
type legacyBody struct {
	Spec  *specSection `json:"spec"`
	Types []typeEntry  `json:"types"`
}

type sourceSection struct {
	Hash     string `json:"hash"`
	Language string `json:"language"`
	Compiler string `json:"compiler"`
	Wasm     string `json:"wasm"`
}

type contractSection struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Authors []string `json:"authors"`
}

type specSection struct {
	Constructors []callSpec  `json:"constructors"`
	Messages     []callSpec  `json:"messages"`
	Events       []eventSpec `json:"events"`
	Docs         []string    `json:"docs"`
}

// label is a call, argument or event name. Current documents use a string
// under "label"; older ones use "name" holding a string or a path array.
type label struct {
	Label string          `json:"label"`
	Name  json.RawMessage `json:"name"`
}

func (l label) text() string {
	if l.Label != "" {
		return l.Label
	}
	if len(l.Name) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(l.Name, &s) == nil {
		return s
	}
	var parts []string
	if json.Unmarshal(l.Name, &parts) == nil {
		return strings.Join(parts, "::")
	}
	return ""
}

type typeSpec struct {
	DisplayName []string `json:"displayName"`
	Type        uint32   `json:"type"`
}

type argSpec struct {
	label
	Type    typeSpec `json:"type"`
	Docs    []string `json:"docs"`
	Indexed bool     `json:"indexed"`
}

type callSpec struct {
	label
	ReturnType *typeSpec `json:"returnType"`
	Selector   string    `json:"selector"`
	Args       []argSpec `json:"args"`
	Docs       []string  `json:"docs"`
	Mutates    bool      `json:"mutates"`
	Payable    bool      `json:"payable"`
	Default    bool      `json:"default"`
}

type eventSpec struct {
	label
	Index *uint8    `json:"index"`
	Args  []argSpec `json:"args"`
	Docs  []string  `json:"docs"`
}

type typeEntry struct {
	Type typeInfo `json:"type"`
	ID   uint32   `json:"id"`
}

type typeInfo struct {
	Def    typeDefJSON `json:"def"`
	Path   []string    `json:"path"`
	Params []paramJSON `json:"params"`
	Docs   []string    `json:"docs"`
}

type paramJSON struct {
	Type *uint32 `json:"type"`
	Name string  `json:"name"`
}

type typeDefJSON struct {
	Primitive   *string       `json:"primitive"`
	Composite   *compositeDef `json:"composite"`
	Variant     *variantDef   `json:"variant"`
	Sequence    *elemDef      `json:"sequence"`
	Array       *arrayDef     `json:"array"`
	Tuple       *[]uint32     `json:"tuple"`
	Compact     *elemDef      `json:"compact"`
	BitSequence *bitSeqDef    `json:"bitSequence"`
}

type fieldDef struct {
	Name     string   `json:"name"`
	TypeName string   `json:"typeName"`
	Docs     []string `json:"docs"`
	Type     uint32   `json:"type"`
}

type compositeDef struct {
	Fields []fieldDef `json:"fields"`
}

type variantCase struct {
	Name   string     `json:"name"`
	Fields []fieldDef `json:"fields"`
	Docs   []string   `json:"docs"`
	Index  uint8      `json:"index"`
}

type variantDef struct {
	Variants []variantCase `json:"variants"`
}

type elemDef struct {
	Type uint32 `json:"type"`
}

type arrayDef struct {
	Len  uint32 `json:"len"`
	Type uint32 `json:"type"`
}

type bitSeqDef struct {
	BitStoreType uint32 `json:"bit_store_type"`
	BitOrderType uint32 `json:"bit_order_type"`
}

// body returns the spec and type table, unwrapping versioned documents.
func (d *metadataDoc) body() (*specSection, []typeEntry) {
	if d.Spec != nil {
		return d.Spec, d.Types
	}
	for _, b := range []*legacyBody{d.V3, d.V2, d.V1} {
		if b != nil {
			return b.Spec, b.Types
		}
	}
	return nil, d.Types
}

// toTypeDef converts a type table entry to a registry definition.
func (e *typeEntry) toTypeDef() (registry.TypeDef, error) {
	def := registry.TypeDef{
		ID:   registry.TypeID(e.ID),
		Path: e.Type.Path,
		Docs: e.Type.Docs,
	}
	for _, p := range e.Type.Params {
		param := registry.Param{Name: p.Name}
		if p.Type != nil {
			id := registry.TypeID(*p.Type)
			param.Type = &id
		}
		def.Params = append(def.Params, param)
	}

	d := &e.Type.Def
	set := 0
	if d.Primitive != nil {
		set++
		prim, ok := registry.ParsePrim(*d.Primitive)
		if !ok {
			return def, errors.New(errors.PhaseLoad, errors.KindUnsupported).
				Type(e.ID, *d.Primitive).
				Detail("unknown primitive %q", *d.Primitive).
				Build()
		}
		def.Kind, def.Prim = registry.KindPrimitive, prim
	}
	if d.Composite != nil {
		set++
		def.Kind = registry.KindComposite
		def.Fields = fields(d.Composite.Fields)
	}
	if d.Variant != nil {
		set++
		def.Kind = registry.KindVariant
		for _, v := range d.Variant.Variants {
			def.Cases = append(def.Cases, registry.Case{
				Name:   v.Name,
				Index:  v.Index,
				Fields: fields(v.Fields),
				Docs:   v.Docs,
			})
		}
	}
	if d.Sequence != nil {
		set++
		def.Kind, def.Elem = registry.KindSequence, registry.TypeID(d.Sequence.Type)
	}
	if d.Array != nil {
		set++
		def.Kind, def.Elem, def.Len = registry.KindArray, registry.TypeID(d.Array.Type), d.Array.Len
	}
	if d.Tuple != nil {
		set++
		def.Kind = registry.KindTuple
		for _, id := range *d.Tuple {
			def.Elems = append(def.Elems, registry.TypeID(id))
		}
	}
	if d.Compact != nil {
		set++
		def.Kind, def.Elem = registry.KindCompact, registry.TypeID(d.Compact.Type)
	}
	if d.BitSequence != nil {
		set++
		def.Kind = registry.KindBitSequence
		def.Elem = registry.TypeID(d.BitSequence.BitStoreType)
		def.Order = registry.TypeID(d.BitSequence.BitOrderType)
	}

	if set != 1 {
		return def, errors.New(errors.PhaseLoad, errors.KindInvalidData).
			Type(e.ID, strings.Join(e.Type.Path, "::")).
			Detail("type definition must have exactly one kind, found %d", set).
			Build()
	}
	return def, nil
}

func fields(in []fieldDef) []registry.Field {
	if len(in) == 0 {
		return nil
	}
	out := make([]registry.Field, len(in))
	for i, f := range in {
		out[i] = registry.Field{
			Name:     f.Name,
			TypeName: f.TypeName,
			Docs:     f.Docs,
			Type:     registry.TypeID(f.Type),
		}
	}
	return out
}

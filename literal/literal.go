package literal

import (
	"strings"

	"github.com/wippyai/contract-transcode/errors"
	"github.com/wippyai/contract-transcode/registry"
	"github.com/wippyai/contract-transcode/value"
)

// DefaultMaxDepth bounds literal nesting.
const DefaultMaxDepth = 128

// Options configures a Parser.
type Options struct {
	// Custom maps type paths to custom literal forms. A key is either the
	// full path joined with "::" or the last path segment; the full path
	// wins when both match.
	Custom map[string]CustomType

	// MaxDepth caps nesting of both the literal and the target type.
	MaxDepth int
}

func (o Options) withDefaults() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}

// Parser converts literal text and JSON into values of registry types.
// It is immutable and safe for concurrent use.
type Parser struct {
	reg  *registry.Registry
	opts Options
}

// New returns a parser for types in reg.
func New(reg *registry.Registry, opts Options) *Parser {
	return &Parser{reg: reg, opts: opts.withDefaults()}
}

// Parse parses literal text as a value of type id with default options.
func Parse(reg *registry.Registry, id registry.TypeID, text string) (value.Value, error) {
	return New(reg, Options{}).Parse(id, text)
}

// Parse parses literal text as a value of type id.
//
// A top-level string type takes unquoted text verbatim, so hello world is
// the string "hello world". Everywhere else the literal grammar applies.
func (p *Parser) Parse(id registry.TypeID, text string) (value.Value, error) {
	def, err := p.reg.Resolve(id)
	if err != nil {
		return nil, errors.TypeNotFound(errors.PhaseParse, nil, uint32(id))
	}

	trimmed := strings.TrimSpace(text)
	if def.Kind == registry.KindPrimitive && def.Prim == registry.PrimStr &&
		trimmed != "" && !strings.HasPrefix(trimmed, `"`) {
		return value.String(trimmed), nil
	}

	n, err := parseText(text, p.opts.MaxDepth)
	if err != nil {
		if e, ok := err.(*errors.Error); ok && !e.HasType {
			e.TypeID, e.HasType, e.TypeName = uint32(id), true, p.reg.TypeName(id)
		}
		return nil, err
	}
	c := &converter{reg: p.reg, opts: p.opts, src: text}
	return c.convert(id, n)
}

// fromNode converts a tree built by the JSON surface.
func (p *Parser) fromNode(id registry.TypeID, n *node) (value.Value, error) {
	c := &converter{reg: p.reg, opts: p.opts}
	return c.convert(id, n)
}

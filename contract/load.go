package contract

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/contract-transcode/errors"
	"github.com/wippyai/contract-transcode/literal"
	"github.com/wippyai/contract-transcode/registry"
	"github.com/wippyai/contract-transcode/scale"
)

// DefaultSS58Prefix is the generic substrate address format.
const DefaultSS58Prefix = 42

// Options configures contract loading.
type Options struct {
	// Custom adds literal forms for types, keyed like literal.Options.Custom.
	// Entries override the built-in AccountId form.
	Custom map[string]literal.CustomType

	// Limits bound encoding, decoding and literal nesting.
	Limits scale.Limits

	// SS58Prefix is the address format used to display account ids.
	// Parsing accepts addresses of any format.
	SS58Prefix uint16
}

// DefaultOptions returns default loading configuration.
func DefaultOptions() Options {
	return Options{
		Limits:     scale.DefaultLimits(),
		SS58Prefix: DefaultSS58Prefix,
	}
}

// LoadFile reads a metadata document or a .contract bundle from path.
func LoadFile(path string, opts Options) (*Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	return Load(data, opts)
}

// LoadWithDefaults parses a metadata document with default options.
func LoadWithDefaults(data []byte) (*Contract, error) {
	return Load(data, DefaultOptions())
}

// Load parses a metadata document. A .contract bundle is a metadata
// document that also carries the contract code under source.wasm.
func Load(data []byte, opts Options) (*Contract, error) {
	var doc metadataDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, err, "metadata is not valid JSON")
	}

	spec, entries := doc.body()
	if spec == nil {
		return nil, errors.InvalidData(errors.PhaseLoad, nil, "metadata has no spec section")
	}

	defs := make([]registry.TypeDef, 0, len(entries))
	for i := range entries {
		def, err := entries[i].toTypeDef()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	reg, err := registry.New(defs)
	if err != nil {
		return nil, err
	}

	c := &Contract{
		reg:     reg,
		version: versionString(doc.Version),
		docs:    spec.Docs,
		ss58:    opts.SS58Prefix,
		events:  make(map[uint8]*EventEntry),
		enc:     scale.NewEncoderWithLimits(opts.Limits),
		dec:     scale.NewDecoderWithLimits(opts.Limits),
	}
	if doc.Contract != nil {
		c.name = doc.Contract.Name
		c.contractVersion = doc.Contract.Version
		c.authors = doc.Contract.Authors
	}
	if doc.Source != nil {
		c.language = doc.Source.Language
		c.compiler = doc.Source.Compiler
		if doc.Source.Wasm != "" {
			code, err := decodeHex(doc.Source.Wasm)
			if err != nil {
				return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, err, "source.wasm is not hex")
			}
			c.code = code
		}
	}

	custom := map[string]literal.CustomType{"AccountId": AccountIDLiteral{}}
	for k, v := range opts.Custom {
		custom[k] = v
	}
	c.parser = literal.New(reg, literal.Options{Custom: custom, MaxDepth: opts.Limits.MaxDepth})

	if c.constructors, err = c.loadCalls(CallConstructor, spec.Constructors); err != nil {
		return nil, err
	}
	if c.messages, err = c.loadCalls(CallMessage, spec.Messages); err != nil {
		return nil, err
	}
	if err := c.loadEvents(spec.Events); err != nil {
		return nil, err
	}

	Logger().Debug("loaded contract metadata",
		zap.String("name", c.name),
		zap.String("version", c.version),
		zap.Int("types", reg.Len()),
		zap.Int("constructors", len(c.constructors)),
		zap.Int("messages", len(c.messages)),
		zap.Int("events", len(c.eventList)),
		zap.Int("code_size", len(c.code)))
	return c, nil
}

func (c *Contract) loadCalls(kind CallKind, specs []callSpec) ([]*CallEntry, error) {
	out := make([]*CallEntry, 0, len(specs))
	seen := make(map[Selector]string, len(specs))
	for i := range specs {
		s := &specs[i]
		e := &CallEntry{
			Kind:    kind,
			Label:   s.text(),
			Docs:    s.Docs,
			Mutates: s.Mutates,
			Payable: s.Payable,
			Default: s.Default,
		}
		if e.Label == "" {
			return nil, errors.InvalidData(errors.PhaseLoad, []string{kind.String() + "s", fmt.Sprint(i)}, "missing label")
		}

		sel, err := selectorFor(e.Label, s.Selector)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[sel]; dup {
			return nil, errors.New(errors.PhaseLoad, errors.KindDuplicateSelector).
				Path(e.Label).
				Value(sel.String()).
				Detail("selector %s already used by %s %s", sel, kind, prev).
				Build()
		}
		seen[sel] = e.Label
		e.Selector = sel

		if s.ReturnType != nil {
			id := registry.TypeID(s.ReturnType.Type)
			if err := c.checkType(id, e.Label, "return"); err != nil {
				return nil, err
			}
			e.ReturnType = &id
		}

		for j, a := range s.Args {
			name := a.text()
			if name == "" {
				name = fmt.Sprint(j)
			}
			id := registry.TypeID(a.Type.Type)
			if err := c.checkType(id, e.Label, name); err != nil {
				return nil, err
			}
			e.Args = append(e.Args, Param{Name: name, DisplayName: a.Type.DisplayName, Type: id})
		}
		out = append(out, e)
	}
	return out, nil
}

func (c *Contract) loadEvents(specs []eventSpec) error {
	for i := range specs {
		s := &specs[i]
		e := &EventEntry{Label: s.text(), Docs: s.Docs, Index: uint8(i)}
		if s.Index != nil {
			e.Index = *s.Index
		} else if i > 255 {
			return errors.InvalidData(errors.PhaseLoad, []string{e.Label}, "more than 256 events")
		}
		if prev, dup := c.events[e.Index]; dup {
			return errors.New(errors.PhaseLoad, errors.KindDuplicateSelector).
				Path(e.Label).
				Value(e.Index).
				Detail("event index %d already used by %s", e.Index, prev.Label).
				Build()
		}

		for j, a := range s.Args {
			name := a.text()
			if name == "" {
				name = fmt.Sprint(j)
			}
			id := registry.TypeID(a.Type.Type)
			if err := c.checkType(id, e.Label, name); err != nil {
				return err
			}
			e.Fields = append(e.Fields, EventField{
				Name:        name,
				DisplayName: a.Type.DisplayName,
				Docs:        a.Docs,
				Type:        id,
				Indexed:     a.Indexed,
			})
		}
		c.events[e.Index] = e
		c.eventList = append(c.eventList, e)
	}
	return nil
}

func (c *Contract) checkType(id registry.TypeID, path ...string) error {
	if c.reg.Has(id) {
		return nil
	}
	return errors.TypeNotFound(errors.PhaseLoad, path, uint32(id))
}

func versionString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if hasHexPrefix(s) {
		s = s[2:]
	}
	return hex.DecodeString(s)
}

package contract

import (
	"github.com/wippyai/contract-transcode/literal"
	"github.com/wippyai/contract-transcode/registry"
	"github.com/wippyai/contract-transcode/scale"
)

// Contract is a loaded metadata document: the type registry plus the
// constructors, messages and events that refer to it. It is immutable
// and safe for concurrent use.
type Contract struct {
	reg             *registry.Registry
	enc             *scale.Encoder
	dec             *scale.Decoder
	parser          *literal.Parser
	events          map[uint8]*EventEntry
	name            string
	version         string
	contractVersion string
	language        string
	compiler        string
	authors         []string
	docs            []string
	constructors    []*CallEntry
	messages        []*CallEntry
	eventList       []*EventEntry
	code            []byte
	ss58            uint16
}

// Registry returns the contract's type registry.
func (c *Contract) Registry() *registry.Registry { return c.reg }

// Parser returns the literal parser configured with the contract's
// custom types.
func (c *Contract) Parser() *literal.Parser { return c.parser }

// Encoder returns the encoder configured with the contract's limits.
func (c *Contract) Encoder() *scale.Encoder { return c.enc }

// Decoder returns the decoder configured with the contract's limits.
func (c *Contract) Decoder() *scale.Decoder { return c.dec }

// Name returns the contract name, empty when the document has none.
func (c *Contract) Name() string { return c.name }

// Version returns the contract version, or the metadata format version
// when the document names no contract.
func (c *Contract) Version() string {
	if c.contractVersion != "" {
		return c.contractVersion
	}
	return c.version
}

// MetadataVersion returns the metadata format version.
func (c *Contract) MetadataVersion() string { return c.version }

// Language returns the source language recorded in the document.
func (c *Contract) Language() string { return c.language }

// Compiler returns the compiler recorded in the document.
func (c *Contract) Compiler() string { return c.compiler }

// Authors returns the contract authors.
func (c *Contract) Authors() []string { return c.authors }

// Docs returns the contract-level documentation.
func (c *Contract) Docs() []string { return c.docs }

// SS58Prefix returns the address format used for display.
func (c *Contract) SS58Prefix() uint16 { return c.ss58 }

// Constructors returns the constructors in document order.
func (c *Contract) Constructors() []*CallEntry { return c.constructors }

// Messages returns the messages in document order.
func (c *Contract) Messages() []*CallEntry { return c.messages }

// Events returns the events in document order.
func (c *Contract) Events() []*EventEntry { return c.eventList }

// Event returns the event with the given index.
func (c *Contract) Event(index uint8) (*EventEntry, bool) {
	e, ok := c.events[index]
	return e, ok
}

// Code returns the contract code embedded in a bundle, or nil.
func (c *Contract) Code() []byte { return c.code }

// HasCode reports whether the document carried contract code.
func (c *Contract) HasCode() bool { return len(c.code) > 0 }

func (c *Contract) entries(kind CallKind) []*CallEntry {
	if kind == CallConstructor {
		return c.constructors
	}
	return c.messages
}

package contract

import (
	"encoding/hex"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/wippyai/contract-transcode/errors"
	"github.com/wippyai/contract-transcode/registry"
)

// CallKind distinguishes constructors from messages.
type CallKind uint8

const (
	CallMessage CallKind = iota
	CallConstructor
)

func (k CallKind) String() string {
	switch k {
	case CallMessage:
		return "message"
	case CallConstructor:
		return "constructor"
	}
	return "unknown"
}

// Selector is the 4-byte prefix identifying a call.
type Selector [4]byte

func (s Selector) String() string {
	return "0x" + hex.EncodeToString(s[:])
}

// ComputeSelector derives the selector of a call label: the first four
// bytes of its BLAKE2b-256 hash.
func ComputeSelector(label string) Selector {
	sum := blake2b.Sum256([]byte(label))
	var s Selector
	copy(s[:], sum[:4])
	return s
}

// ParseSelector parses a 0x-prefixed 4-byte hex selector.
func ParseSelector(text string) (Selector, bool) {
	var s Selector
	if !hasHexPrefix(text) || len(text) != 10 {
		return s, false
	}
	if _, err := hex.Decode(s[:], []byte(text[2:])); err != nil {
		return s, false
	}
	return s, true
}

func hasHexPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// Param is a constructor or message argument.
type Param struct {
	Name        string
	DisplayName []string
	Type        registry.TypeID
}

// CallEntry describes one constructor or message.
type CallEntry struct {
	ReturnType *registry.TypeID
	Label      string
	Args       []Param
	Docs       []string
	Kind       CallKind
	Selector   Selector
	Mutates    bool
	Payable    bool
	Default    bool
}

// ShortLabel returns the label without a trait prefix: transfer for
// PSP22::transfer.
func (e *CallEntry) ShortLabel() string {
	if i := strings.LastIndex(e.Label, "::"); i >= 0 {
		return e.Label[i+2:]
	}
	return e.Label
}

// EventField is one field of an event.
type EventField struct {
	Name        string
	DisplayName []string
	Docs        []string
	Type        registry.TypeID
	Indexed     bool
}

// EventEntry describes one event. Index is the leading byte of its
// encoding.
type EventEntry struct {
	Label  string
	Fields []EventField
	Docs   []string
	Index  uint8
}

func selectorFor(label, explicit string) (Selector, error) {
	if explicit == "" {
		s := ComputeSelector(label)
		Logger().Debug("computed selector", zap.String("label", label), zap.Stringer("selector", s))
		return s, nil
	}
	s, ok := ParseSelector(explicit)
	if !ok {
		return s, errInvalidSelector(label, explicit)
	}
	return s, nil
}

func errInvalidSelector(label, text string) error {
	return errors.New(errors.PhaseLoad, errors.KindInvalidData).
		Path(label).
		Value(text).
		Detail("selector %q is not 4 bytes of 0x-prefixed hex", text).
		Build()
}

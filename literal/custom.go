package literal

import (
	"strings"

	"github.com/wippyai/contract-transcode/registry"
	"github.com/wippyai/contract-transcode/value"
)

// CustomType gives a type an alternative literal form, such as an address
// written in a chain-specific encoding. It is consulted before the
// structural rules whenever the literal is a bare word or a string.
type CustomType interface {
	// ParseLiteral converts text to a value of type id. It returns ok false
	// when text is not in the custom form, in which case the structural
	// rules apply.
	ParseLiteral(reg *registry.Registry, id registry.TypeID, text string) (v value.Value, ok bool, err error)
}

// CustomFunc adapts a function to CustomType.
type CustomFunc func(reg *registry.Registry, id registry.TypeID, text string) (value.Value, bool, error)

func (f CustomFunc) ParseLiteral(reg *registry.Registry, id registry.TypeID, text string) (value.Value, bool, error) {
	return f(reg, id, text)
}

func (o Options) custom(def *registry.TypeDef) (CustomType, bool) {
	if len(o.Custom) == 0 || len(def.Path) == 0 {
		return nil, false
	}
	if ct, ok := o.Custom[strings.Join(def.Path, "::")]; ok {
		return ct, true
	}
	ct, ok := o.Custom[def.Path[len(def.Path)-1]]
	return ct, ok
}

package contract

import (
	"github.com/wippyai/contract-transcode/errors"
	"github.com/wippyai/contract-transcode/scale"
	"github.com/wippyai/contract-transcode/value"
)

// DecodedCall is encoded call data read back into its entry and
// arguments.
type DecodedCall struct {
	Entry *CallEntry
	Args  []value.Field
}

// DecodeMessageCall decodes call data addressed to a message.
func (c *Contract) DecodeMessageCall(data []byte) (*DecodedCall, error) {
	return c.decodeCall(CallMessage, data)
}

// DecodeConstructorCall decodes call data addressed to a constructor.
func (c *Contract) DecodeConstructorCall(data []byte) (*DecodedCall, error) {
	return c.decodeCall(CallConstructor, data)
}

func (c *Contract) decodeCall(kind CallKind, data []byte) (*DecodedCall, error) {
	r := scale.NewReader(data, 0)
	raw, err := r.ReadBytes(len(Selector{}))
	if err != nil {
		return nil, errors.WithPath(err, "selector")
	}
	var sel Selector
	copy(sel[:], raw)

	var e *CallEntry
	for _, cand := range c.entries(kind) {
		if cand.Selector == sel {
			e = cand
			break
		}
	}
	if e == nil {
		return nil, errors.New(errors.PhaseResolve, errors.KindCallNotFound).
			Offset(0).
			Value(sel.String()).
			Detail("no %s has selector %s", kind, sel).
			Build()
	}

	out := &DecodedCall{Entry: e, Args: make([]value.Field, len(e.Args))}
	for i, p := range e.Args {
		v, err := c.dec.DecodeFrom(r, c.reg, p.Type)
		if err != nil {
			return nil, errors.WithPath(err, p.Name)
		}
		out.Args[i] = value.Named(p.Name, v)
	}
	if r.Remaining() > 0 {
		return nil, errors.TrailingBytes(r.Position(), r.Remaining())
	}
	return out, nil
}

// DecodeReturn decodes the output of the message identified by name
// against its return type. A message without a return type returns unit
// and expects no bytes.
func (c *Contract) DecodeReturn(name string, data []byte) (value.Value, error) {
	e, err := c.one(name, CallMessage)
	if err != nil {
		return nil, err
	}
	return c.DecodeEntryReturn(e, data)
}

// DecodeConstructorReturn decodes the output of a constructor.
func (c *Contract) DecodeConstructorReturn(name string, data []byte) (value.Value, error) {
	e, err := c.one(name, CallConstructor)
	if err != nil {
		return nil, err
	}
	return c.DecodeEntryReturn(e, data)
}

// DecodeEntryReturn decodes output against e's return type.
func (c *Contract) DecodeEntryReturn(e *CallEntry, data []byte) (value.Value, error) {
	if e.ReturnType == nil {
		if len(data) > 0 {
			return nil, errors.TrailingBytes(0, len(data))
		}
		return value.Unit(), nil
	}
	v, err := c.dec.DecodeAll(c.reg, *e.ReturnType, data)
	if err != nil {
		return nil, errors.WithPath(err, e.Label)
	}
	return v, nil
}

// one resolves name to a single entry regardless of arity.
func (c *Contract) one(name string, kind CallKind) (*CallEntry, error) {
	es := c.Lookup(name, kind)
	switch len(es) {
	case 1:
		return es[0], nil
	case 0:
		return nil, errors.New(errors.PhaseResolve, errors.KindCallNotFound).
			Path(name).
			Detail("no %s named %s", kind, name).
			Build()
	}
	return nil, errors.New(errors.PhaseResolve, errors.KindAmbiguousCall).
		Path(name).
		Detail("%d %ss named %s; use a selector", len(es), kind, name).
		Build()
}

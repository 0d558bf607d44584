package contract

import (
	"github.com/wippyai/contract-transcode/errors"
	"github.com/wippyai/contract-transcode/scale"
	"github.com/wippyai/contract-transcode/value"
)

// DecodeEvent decodes an emitted event. The first byte selects the event,
// the rest holds its fields in declaration order. All input must be
// consumed.
func (c *Contract) DecodeEvent(data []byte) (*EventEntry, *value.Composite, error) {
	r := scale.NewReader(data, 0)
	idx, err := r.ReadByte()
	if err != nil {
		return nil, nil, err
	}

	e, ok := c.events[idx]
	if !ok {
		return nil, nil, errors.New(errors.PhaseResolve, errors.KindUnknownEventVariant).
			Offset(0).
			Value(idx).
			Detail("no event has index %d", idx).
			Build()
	}

	fields := make([]value.Field, len(e.Fields))
	for i, f := range e.Fields {
		v, err := c.dec.DecodeFrom(r, c.reg, f.Type)
		if err != nil {
			return nil, nil, errors.WithPath(err, e.Label, f.Name)
		}
		fields[i] = value.Named(f.Name, v)
	}
	if r.Remaining() > 0 {
		return nil, nil, errors.TrailingBytes(r.Position(), r.Remaining())
	}
	return e, value.NewComposite(e.Label, fields...), nil
}

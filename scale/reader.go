package scale

import (
	"encoding/binary"

	"github.com/holiman/uint256"

	"github.com/wippyai/contract-transcode/errors"
)

// Reader is a bounds-checked cursor over encoded input. Every read that
// would pass the end of the input fails with unexpected_end_of_input and
// leaves the position unchanged.
type Reader struct {
	data []byte
	pos  int
}

// NewReader returns a reader positioned at offset.
func NewReader(data []byte, offset int) *Reader {
	if offset < 0 {
		offset = 0
	}
	if offset > len(data) {
		offset = len(data)
	}
	return &Reader{data: data, pos: offset}
}

// Position returns the current byte offset.
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

func (r *Reader) need(n int) error {
	if n < 0 || n > r.Remaining() {
		return errors.UnexpectedEnd(nil, r.pos, n, r.Remaining())
	}
	return nil
}

// ReadByte reads one byte.
func (r *Reader) ReadByte() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes returns the next n bytes. The result aliases the input.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadCompact reads a compact integer. Encodings that are not the shortest
// form of their value are rejected with invalid_data, payloads wider than
// 256 bits overflow.
func (r *Reader) ReadCompact() (*uint256.Int, error) {
	start := r.pos
	if err := r.need(1); err != nil {
		return nil, err
	}
	head := r.data[r.pos]

	switch head & 0b11 {
	case 0b00:
		r.pos++
		return uint256.NewInt(uint64(head >> 2)), nil
	case 0b01:
		if err := r.need(2); err != nil {
			return nil, err
		}
		v := uint64(binary.LittleEndian.Uint16(r.data[r.pos:]) >> 2)
		if v <= compactSingleMax {
			return nil, r.nonCanonical(start)
		}
		r.pos += 2
		return uint256.NewInt(v), nil
	case 0b10:
		if err := r.need(4); err != nil {
			return nil, err
		}
		v := uint64(binary.LittleEndian.Uint32(r.data[r.pos:]) >> 2)
		if v <= compactTwoMax {
			return nil, r.nonCanonical(start)
		}
		r.pos += 4
		return uint256.NewInt(v), nil
	default:
		n := int(head>>2) + 4
		if n > compactMaxBytes {
			return nil, errors.New(errors.PhaseDecode, errors.KindOverflow).
				Offset(start).
				Detail("compact integer of %d bytes exceeds 256 bits", n).
				Build()
		}
		if err := r.need(1 + n); err != nil {
			return nil, err
		}
		payload := r.data[r.pos+1 : r.pos+1+n]
		if payload[n-1] == 0 {
			return nil, r.nonCanonical(start)
		}
		var be [32]byte
		for i, b := range payload {
			be[31-i] = b
		}
		v := new(uint256.Int).SetBytes32(be[:])
		if v.IsUint64() && v.Uint64() <= compactFourMax {
			return nil, r.nonCanonical(start)
		}
		r.pos += 1 + n
		return v, nil
	}
}

// ReadLength reads a compact length prefix for items of at least minItem
// bytes each. Lengths that cannot fit in the remaining input are rejected
// before any allocation happens; zero-sized items are capped by maxItems.
func (r *Reader) ReadLength(minItem, maxItems int) (int, error) {
	start := r.pos
	n, err := r.ReadCompact()
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() || n.Uint64() > uint64(maxInt) {
		r.pos = start
		return 0, r.badLength(start, n.Dec())
	}
	length := int(n.Uint64())
	if minItem > 0 {
		if length > r.Remaining()/minItem {
			r.pos = start
			return 0, errors.New(errors.PhaseDecode, errors.KindUnexpectedEnd).
				Offset(start).
				Value(length).
				Detail("%d items of at least %d bytes cannot fit in %d remaining", length, minItem, r.Remaining()).
				Build()
		}
	} else if maxItems > 0 && length > maxItems {
		r.pos = start
		return 0, r.badLength(start, n.Dec())
	}
	return length, nil
}

const maxInt = int(^uint(0) >> 1)

func (r *Reader) badLength(offset int, n string) error {
	return errors.New(errors.PhaseDecode, errors.KindInvalidData).
		Offset(offset).
		Value(n).
		Detail("length prefix %s exceeds the decoder limit", n).
		Build()
}

func (r *Reader) nonCanonical(offset int) error {
	return errors.New(errors.PhaseDecode, errors.KindInvalidData).
		Offset(offset).
		Detail("compact integer is not in canonical form").
		Build()
}

package contract

import (
	"bytes"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"

	"github.com/wippyai/contract-transcode/errors"
	"github.com/wippyai/contract-transcode/registry"
	"github.com/wippyai/contract-transcode/value"
)

const (
	accountIDLen    = 32
	ss58ChecksumLen = 2
	maxSS58Prefix   = 1<<14 - 1
)

var ss58Pre = []byte("SS58PRE")

func ss58Checksum(payload []byte) []byte {
	h, _ := blake2b.New512(nil)
	h.Write(ss58Pre)
	h.Write(payload)
	return h.Sum(nil)[:ss58ChecksumLen]
}

// SS58Encode renders a 32-byte account id as an SS58 address with the
// given network prefix.
func SS58Encode(id []byte, prefix uint16) (string, error) {
	if len(id) != accountIDLen {
		return "", errors.InvalidData(errors.PhaseEncode, nil, fmt.Sprintf("account id must be %d bytes, got %d", accountIDLen, len(id)))
	}
	if prefix > maxSS58Prefix {
		return "", errors.InvalidData(errors.PhaseEncode, nil, fmt.Sprintf("ss58 prefix %d out of range", prefix))
	}

	buf := make([]byte, 0, 2+accountIDLen+ss58ChecksumLen)
	if prefix < 64 {
		buf = append(buf, byte(prefix))
	} else {
		buf = append(buf,
			byte((prefix&0xFC)>>2)|0x40,
			byte(prefix>>8)|byte(prefix&0x03)<<6)
	}
	buf = append(buf, id...)
	buf = append(buf, ss58Checksum(buf)...)
	return base58.Encode(buf), nil
}

// SS58Decode parses an SS58 address into its 32-byte account id and
// network prefix.
func SS58Decode(addr string) ([]byte, uint16, error) {
	raw, err := base58.Decode(addr)
	if err != nil {
		return nil, 0, errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err, "address is not base58")
	}
	if len(raw) == 0 {
		return nil, 0, errors.InvalidData(errors.PhaseParse, nil, "empty address")
	}

	var prefix uint16
	var n int
	switch {
	case raw[0] < 64:
		prefix, n = uint16(raw[0]), 1
	case raw[0] < 128:
		if len(raw) < 2 {
			return nil, 0, errors.InvalidData(errors.PhaseParse, nil, "truncated address prefix")
		}
		lower := (raw[0]&0x3F)<<2 | raw[1]>>6
		upper := raw[1] & 0x3F
		prefix, n = uint16(lower)|uint16(upper)<<8, 2
	default:
		return nil, 0, errors.InvalidData(errors.PhaseParse, nil, fmt.Sprintf("invalid address prefix byte 0x%02x", raw[0]))
	}

	if len(raw) != n+accountIDLen+ss58ChecksumLen {
		return nil, 0, errors.InvalidData(errors.PhaseParse, nil, fmt.Sprintf("address decodes to %d bytes, want %d", len(raw), n+accountIDLen+ss58ChecksumLen))
	}
	body := raw[:len(raw)-ss58ChecksumLen]
	if !bytes.Equal(ss58Checksum(body), raw[len(raw)-ss58ChecksumLen:]) {
		return nil, 0, errors.InvalidData(errors.PhaseParse, nil, "address checksum mismatch")
	}
	return body[n:], prefix, nil
}

// AccountIDLiteral accepts SS58 addresses for account id types: a
// composite wrapping 32 bytes, or the 32-byte array itself. Other text,
// hex included, is left to the structural rules.
type AccountIDLiteral struct{}

func (AccountIDLiteral) ParseLiteral(reg *registry.Registry, id registry.TypeID, text string) (value.Value, bool, error) {
	if text == "" || hasHexPrefix(text) {
		return nil, false, nil
	}
	def, err := reg.Resolve(id)
	if err != nil {
		return nil, false, nil
	}
	field, ok := accountField(reg, def)
	if !ok {
		return nil, false, nil
	}
	if _, err := base58.Decode(text); err != nil {
		return nil, false, nil
	}

	pub, _, err := SS58Decode(text)
	if err != nil {
		return nil, false, err
	}
	b := value.Bytes(pub)
	if def.Kind == registry.KindArray {
		return b, true, nil
	}
	return value.NewComposite(def.Path[len(def.Path)-1], value.Field{Name: field, Value: b}), true, nil
}

// accountField reports whether def is shaped like an account id and
// returns the name of its byte field.
func accountField(reg *registry.Registry, def *registry.TypeDef) (string, bool) {
	switch def.Kind {
	case registry.KindArray:
		return "", def.Len == accountIDLen && isU8(reg, def.Elem)
	case registry.KindComposite:
		if len(def.Fields) != 1 || len(def.Path) == 0 {
			return "", false
		}
		inner, err := reg.Resolve(def.Fields[0].Type)
		if err != nil || inner.Kind != registry.KindArray {
			return "", false
		}
		return def.Fields[0].Name, inner.Len == accountIDLen && isU8(reg, inner.Elem)
	}
	return "", false
}

func isU8(reg *registry.Registry, id registry.TypeID) bool {
	def, err := reg.Resolve(id)
	return err == nil && def.Kind == registry.KindPrimitive && def.Prim == registry.PrimU8
}

package literal

import (
	"bytes"
	"encoding/json"
	"io"
	"slices"
	"strconv"

	"github.com/wippyai/contract-transcode/errors"
	"github.com/wippyai/contract-transcode/registry"
	"github.com/wippyai/contract-transcode/value"
)

// ParseJSON parses a JSON document as a value of type id with default
// options.
func ParseJSON(reg *registry.Registry, id registry.TypeID, data []byte) (value.Value, error) {
	return New(reg, Options{}).ParseJSON(id, data)
}

// FromJSONValue converts an already decoded JSON value (as produced by
// encoding/json into an any) to a value of type id with default options.
func FromJSONValue(reg *registry.Registry, id registry.TypeID, v any) (value.Value, error) {
	return New(reg, Options{}).FromJSONValue(id, v)
}

// ParseJSON parses a JSON document as a value of type id. Numbers keep
// their full precision.
func (p *Parser) ParseJSON(id registry.TypeID, data []byte) (value.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	n, err := readJSON(dec, 0, p.opts.MaxDepth)
	if err != nil {
		return nil, p.jsonError(id, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New(errors.PhaseParse, errors.KindLiteralParse).
			Type(uint32(id), p.reg.TypeName(id)).
			Detail("unexpected data after JSON value").
			Build()
	}
	return p.fromNode(id, n)
}

// FromJSONValue converts a decoded JSON value to a value of type id.
// Besides the types encoding/json produces it accepts Go integers.
func (p *Parser) FromJSONValue(id registry.TypeID, v any) (value.Value, error) {
	n, err := fromGo(v, 0, p.opts.MaxDepth)
	if err != nil {
		return nil, p.jsonError(id, err)
	}
	return p.fromNode(id, n)
}

func (p *Parser) jsonError(id registry.TypeID, err error) error {
	if e, ok := err.(*errors.Error); ok {
		if !e.HasType {
			e.TypeID, e.HasType, e.TypeName = uint32(id), true, p.reg.TypeName(id)
		}
		return e
	}
	return errors.New(errors.PhaseParse, errors.KindLiteralParse).
		Type(uint32(id), p.reg.TypeName(id)).
		Cause(err).
		Detail("invalid JSON").
		Build()
}

func jsonNode(kind nodeKind, text string) *node {
	return &node{kind: kind, text: text, start: -1, end: -1}
}

func tooDeep(maxDepth int) error {
	return errors.New(errors.PhaseParse, errors.KindRecursionLimit).
		Detail("nesting exceeds %d levels", maxDepth).
		Build()
}

func readJSON(dec *json.Decoder, depth, maxDepth int) (*node, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch t := tok.(type) {
	case nil:
		return jsonNode(nodeNull, ""), nil
	case bool:
		return jsonNode(nodeWord, strconv.FormatBool(t)), nil
	case json.Number:
		return jsonNode(nodeWord, string(t)), nil
	case string:
		return jsonNode(nodeString, t), nil
	case json.Delim:
		if depth >= maxDepth {
			return nil, tooDeep(maxDepth)
		}
		switch t {
		case '[':
			n := jsonNode(nodeList, "")
			for dec.More() {
				item, err := readJSON(dec, depth+1, maxDepth)
				if err != nil {
					return nil, err
				}
				n.items = append(n.items, item)
			}
			_, err := dec.Token()
			return n, err
		case '{':
			n := jsonNode(nodeStruct, "")
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				item, err := readJSON(dec, depth+1, maxDepth)
				if err != nil {
					return nil, err
				}
				n.keys = append(n.keys, kt.(string))
				n.items = append(n.items, item)
			}
			_, err := dec.Token()
			return n, err
		}
	}
	return nil, errors.New(errors.PhaseParse, errors.KindLiteralParse).
		Detail("unexpected JSON token %v", tok).
		Build()
}

func fromGo(v any, depth, maxDepth int) (*node, error) {
	switch x := v.(type) {
	case nil:
		return jsonNode(nodeNull, ""), nil
	case bool:
		return jsonNode(nodeWord, strconv.FormatBool(x)), nil
	case json.Number:
		return jsonNode(nodeWord, string(x)), nil
	case float64:
		return jsonNode(nodeWord, strconv.FormatFloat(x, 'f', -1, 64)), nil
	case int:
		return jsonNode(nodeWord, strconv.Itoa(x)), nil
	case int64:
		return jsonNode(nodeWord, strconv.FormatInt(x, 10)), nil
	case uint64:
		return jsonNode(nodeWord, strconv.FormatUint(x, 10)), nil
	case string:
		return jsonNode(nodeString, x), nil
	case []any:
		if depth >= maxDepth {
			return nil, tooDeep(maxDepth)
		}
		n := jsonNode(nodeList, "")
		for _, e := range x {
			item, err := fromGo(e, depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
			n.items = append(n.items, item)
		}
		return n, nil
	case map[string]any:
		if depth >= maxDepth {
			return nil, tooDeep(maxDepth)
		}
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		n := jsonNode(nodeStruct, "")
		for _, k := range keys {
			item, err := fromGo(x[k], depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
			n.keys = append(n.keys, k)
			n.items = append(n.items, item)
		}
		return n, nil
	}
	return nil, errors.New(errors.PhaseParse, errors.KindLiteralParse).
		Value(v).
		Detail("unsupported JSON value of type %T", v).
		Build()
}

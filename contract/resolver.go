package contract

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/contract-transcode/errors"
	"github.com/wippyai/contract-transcode/scale"
	"github.com/wippyai/contract-transcode/value"
)

// Arg is one call argument. Exactly one of Value, JSON and Text is used,
// in that order of precedence. Name is empty for positional arguments.
type Arg struct {
	Value value.Value
	Name  string
	Text  string
	JSON  json.RawMessage
}

// Positional returns literal arguments in parameter order.
func Positional(texts ...string) []Arg {
	out := make([]Arg, len(texts))
	for i, t := range texts {
		out[i] = Arg{Text: t}
	}
	return out
}

// Named returns a literal argument for the parameter name.
func Named(name, text string) Arg {
	return Arg{Name: name, Text: text}
}

// JSONArg returns a JSON argument. name may be empty.
func JSONArg(name string, raw json.RawMessage) Arg {
	return Arg{Name: name, JSON: raw}
}

// ValueArg returns an argument holding a ready value. name may be empty.
func ValueArg(name string, v value.Value) Arg {
	return Arg{Name: name, Value: v}
}

// EncodedCall is the result of encoding a call.
type EncodedCall struct {
	Entry *CallEntry
	// Args holds the parsed arguments in parameter order, named after
	// the parameters.
	Args []value.Field
	// Data is the selector followed by the encoded arguments.
	Data []byte
}

// EncodeMessage encodes a call of the message identified by name: its
// label, its label without a trait prefix, or its 0x selector.
func (c *Contract) EncodeMessage(name string, args ...Arg) (*EncodedCall, error) {
	return c.encode(name, args, CallMessage)
}

// EncodeConstructor encodes a call of the constructor identified by name.
func (c *Contract) EncodeConstructor(name string, args ...Arg) (*EncodedCall, error) {
	return c.encode(name, args, CallConstructor)
}

// EncodeCall encodes a call of the constructor or message identified by
// name. A name matching both a constructor and a message is ambiguous.
func (c *Contract) EncodeCall(name string, args ...Arg) (*EncodedCall, error) {
	return c.encode(name, args, CallConstructor, CallMessage)
}

func (c *Contract) encode(name string, args []Arg, kinds ...CallKind) (*EncodedCall, error) {
	e, err := c.Resolve(name, args, kinds...)
	if err != nil {
		return nil, err
	}

	ordered, err := orderArgs(e, args)
	if err != nil {
		return nil, err
	}

	w := scale.NewWriter()
	w.Write(e.Selector[:])
	out := &EncodedCall{Entry: e, Args: make([]value.Field, len(e.Args))}
	for i, p := range e.Args {
		v, err := c.argValue(p, ordered[i])
		if err != nil {
			return nil, errors.WithPath(err, p.Name)
		}
		if err := c.enc.EncodeTo(w, c.reg, p.Type, v); err != nil {
			return nil, errors.WithPath(err, p.Name)
		}
		out.Args[i] = value.Named(p.Name, v)
	}
	out.Data = w.Bytes()

	Logger().Debug("encoded call",
		zap.Stringer("kind", e.Kind),
		zap.String("label", e.Label),
		zap.Stringer("selector", e.Selector),
		zap.Int("size", len(out.Data)))
	return out, nil
}

func (c *Contract) argValue(p Param, a Arg) (value.Value, error) {
	switch {
	case a.Value != nil:
		return a.Value, nil
	case a.JSON != nil:
		return c.parser.ParseJSON(p.Type, a.JSON)
	default:
		return c.parser.Parse(p.Type, a.Text)
	}
}

// Resolve finds the single entry of the given kinds that name and args
// select. Entries matching name are filtered by argument count and, for
// named arguments, by the set of names.
func (c *Contract) Resolve(name string, args []Arg, kinds ...CallKind) (*CallEntry, error) {
	candidates := c.Lookup(name, kinds...)
	if len(candidates) == 0 {
		return nil, errors.New(errors.PhaseResolve, errors.KindCallNotFound).
			Path(name).
			Detail("no %s named %s", kindList(kinds), name).
			Build()
	}
	for _, e := range candidates[1:] {
		if e.Kind != candidates[0].Kind {
			return nil, errors.New(errors.PhaseResolve, errors.KindAmbiguousCall).
				Path(name).
				Detail("%s names both a constructor and a message", name).
				Build()
		}
	}

	named, err := argsNamed(name, args)
	if err != nil {
		return nil, err
	}

	var matches []*CallEntry
	for _, e := range candidates {
		if len(e.Args) != len(args) {
			continue
		}
		if named && !sameNames(e, args) {
			continue
		}
		matches = append(matches, e)
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		if len(candidates) == 1 {
			e := candidates[0]
			if len(e.Args) == len(args) {
				return nil, errors.New(errors.PhaseResolve, errors.KindArityMismatch).
					Path(name).
					Value(len(args)).
					Detail("arguments %s do not match parameters %s", argNames(args), paramNames(e)).
					Build()
			}
			return nil, errors.ArityMismatch(errors.PhaseResolve, []string{name}, len(e.Args), len(args))
		}
		return nil, errors.New(errors.PhaseResolve, errors.KindArityMismatch).
			Path(name).
			Value(len(args)).
			Detail("no overload of %s takes %d arguments %s", name, len(args), overloads(candidates)).
			Build()
	}

	labels := make([]string, len(matches))
	for i, e := range matches {
		labels[i] = e.Kind.String() + " " + e.Label + " " + e.Selector.String()
	}
	return nil, errors.New(errors.PhaseResolve, errors.KindAmbiguousCall).
		Path(name).
		Detail("%d entries match: %s", len(matches), strings.Join(labels, ", ")).
		Build()
}

// Lookup returns the entries of the given kinds identified by name. A 0x
// selector matches by selector. Otherwise exact labels win over labels
// matched without their trait prefix.
func (c *Contract) Lookup(name string, kinds ...CallKind) []*CallEntry {
	if len(kinds) == 0 {
		kinds = []CallKind{CallConstructor, CallMessage}
	}

	if sel, ok := ParseSelector(name); ok {
		var out []*CallEntry
		for _, k := range kinds {
			for _, e := range c.entries(k) {
				if e.Selector == sel {
					out = append(out, e)
				}
			}
		}
		return out
	}

	var exact, short []*CallEntry
	for _, k := range kinds {
		for _, e := range c.entries(k) {
			switch {
			case e.Label == name:
				exact = append(exact, e)
			case e.ShortLabel() == name:
				short = append(short, e)
			}
		}
	}
	if len(exact) > 0 {
		return exact
	}
	return short
}

// Message returns the message with the given label or selector when
// exactly one matches.
func (c *Contract) Message(name string) (*CallEntry, bool) {
	return single(c.Lookup(name, CallMessage))
}

// Constructor returns the constructor with the given label or selector
// when exactly one matches.
func (c *Contract) Constructor(name string) (*CallEntry, bool) {
	return single(c.Lookup(name, CallConstructor))
}

func single(es []*CallEntry) (*CallEntry, bool) {
	if len(es) != 1 {
		return nil, false
	}
	return es[0], true
}

func argsNamed(call string, args []Arg) (bool, error) {
	named := 0
	for _, a := range args {
		if a.Name != "" {
			named++
		}
	}
	if named != 0 && named != len(args) {
		return false, errors.New(errors.PhaseResolve, errors.KindArityMismatch).
			Path(call).
			Detail("%d of %d arguments are named; name all or none", named, len(args)).
			Build()
	}
	return named > 0, nil
}

func sameNames(e *CallEntry, args []Arg) bool {
	want := make(map[string]bool, len(e.Args))
	for _, p := range e.Args {
		want[p.Name] = true
	}
	for _, a := range args {
		if !want[a.Name] {
			return false
		}
		delete(want, a.Name)
	}
	return len(want) == 0
}

// orderArgs returns args in parameter order.
func orderArgs(e *CallEntry, args []Arg) ([]Arg, error) {
	if len(args) == 0 || args[0].Name == "" {
		return args, nil
	}
	byName := make(map[string]Arg, len(args))
	for _, a := range args {
		byName[a.Name] = a
	}
	out := make([]Arg, len(e.Args))
	for i, p := range e.Args {
		a, ok := byName[p.Name]
		if !ok {
			return nil, errors.New(errors.PhaseResolve, errors.KindArityMismatch).
				Path(e.Label, p.Name).
				Detail("missing argument %s", p.Name).
				Build()
		}
		out[i] = a
	}
	return out, nil
}

func kindList(kinds []CallKind) string {
	if len(kinds) == 1 {
		return kinds[0].String()
	}
	return "constructor or message"
}

func argNames(args []Arg) string {
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = a.Name
	}
	sort.Strings(names)
	return "(" + strings.Join(names, ", ") + ")"
}

func paramNames(e *CallEntry) string {
	names := make([]string, len(e.Args))
	for i, p := range e.Args {
		names[i] = p.Name
	}
	sort.Strings(names)
	return "(" + strings.Join(names, ", ") + ")"
}

func overloads(es []*CallEntry) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = fmt.Sprintf("%s/%d", e.Label, len(e.Args))
	}
	return "(have " + strings.Join(parts, ", ") + ")"
}

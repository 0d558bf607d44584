package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wippyai/contract-transcode/contract"
)

type encodeFlags struct {
	message     string
	constructor string
	args        []string
	named       []string
	jsonArgs    bool
}

type encodeResult struct {
	Kind     string     `json:"kind"`
	Label    string     `json:"label"`
	Selector string     `json:"selector"`
	Data     string     `json:"data"`
	Args     jsonFields `json:"args"`
}

func newEncodeCmd(a *app) *cobra.Command {
	var f encodeFlags
	cmd := &cobra.Command{
		Use:   "encode (--message NAME | --constructor NAME) [ARG...]",
		Short: "Encode a constructor or message call",
		Long: `Encode a call as its selector followed by the encoded arguments.

Arguments are literals such as 42, true, "text", 0xdeadbeef, [1, 2],
Some(5) or { x: 1, y: 2 }. Account ids also accept SS58 addresses.
With --json-args every argument is JSON instead.`,
		Example: `  transcode -m flipper.json encode --message flip
  transcode -m erc20.json encode --message transfer 5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY 100
  transcode -m erc20.json encode --message transfer --named to=5Grw... --named value=100`,
		RunE: func(cmd *cobra.Command, positional []string) error {
			f.args = append(f.args, positional...)
			return runEncode(a, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.message, "message", "", "message label or 0x selector")
	fl.StringVar(&f.constructor, "constructor", "", "constructor label or 0x selector")
	fl.StringArrayVar(&f.args, "args", nil, "positional argument (repeatable)")
	fl.StringArrayVar(&f.named, "named", nil, "named argument as name=value (repeatable)")
	fl.BoolVar(&f.jsonArgs, "json-args", false, "arguments are JSON")
	cmd.MarkFlagsMutuallyExclusive("message", "constructor")
	cmd.MarkFlagsOneRequired("message", "constructor")
	return cmd
}

func runEncode(a *app, f encodeFlags) error {
	c, err := a.contract()
	if err != nil {
		return err
	}
	args, err := buildArgs(f.args, f.named, f.jsonArgs)
	if err != nil {
		return err
	}

	var call *contract.EncodedCall
	if f.constructor != "" {
		call, err = c.EncodeConstructor(f.constructor, args...)
	} else {
		call, err = c.EncodeMessage(f.message, args...)
	}
	if err != nil {
		return err
	}

	res := encodeResult{
		Kind:     call.Entry.Kind.String(),
		Label:    call.Entry.Label,
		Selector: call.Entry.Selector.String(),
		Data:     "0x" + hex.EncodeToString(call.Data),
		Args:     jsonFields(c.DisplayFields(call.Entry.Args, call.Args)),
	}
	p := a.printer()
	return p.emit(res, func(b *strings.Builder) {
		p.field(b, res.Kind, p.style(labelStyle, res.Label)+" "+p.style(dimStyle, res.Selector))
		for i, arg := range call.Entry.Args {
			p.field(b, arg.Name, c.Format(arg.Type, call.Args[i].Value))
		}
		p.field(b, "data", p.style(dataStyle, res.Data))
	})
}

// buildArgs turns command line arguments into call arguments. Positional
// and named arguments cannot be mixed.
func buildArgs(positional, named []string, asJSON bool) ([]contract.Arg, error) {
	if len(positional) > 0 && len(named) > 0 {
		return nil, fmt.Errorf("use either positional or named arguments, not both")
	}

	out := make([]contract.Arg, 0, len(positional)+len(named))
	for _, text := range positional {
		out = append(out, newArg("", text, asJSON))
	}
	for _, kv := range named {
		name, text, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("named argument %q is not name=value", kv)
		}
		out = append(out, newArg(name, text, asJSON))
	}
	return out, nil
}

func newArg(name, text string, asJSON bool) contract.Arg {
	if asJSON {
		return contract.JSONArg(name, json.RawMessage(text))
	}
	return contract.Arg{Name: name, Text: text}
}

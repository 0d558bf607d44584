package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wippyai/contract-transcode/contract"
	"github.com/wippyai/contract-transcode/value"
)

type callResult struct {
	Kind     string     `json:"kind"`
	Label    string     `json:"label"`
	Selector string     `json:"selector"`
	Args     jsonFields `json:"args"`
}

type returnResult struct {
	Label string    `json:"label"`
	Type  string    `json:"type"`
	Value jsonValue `json:"value"`
}

type eventResult struct {
	Event  string     `json:"event"`
	Index  uint8      `json:"index"`
	Fields jsonFields `json:"fields"`
}

func newDecodeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode call data, return values or events",
	}
	cmd.AddCommand(
		newDecodeCallCmd(a),
		newDecodeReturnCmd(a),
		newDecodeEventCmd(a),
	)
	return cmd
}

func newDecodeCallCmd(a *app) *cobra.Command {
	var constructor bool
	cmd := &cobra.Command{
		Use:     "call HEX",
		Short:   "Decode message or constructor call data",
		Example: "  transcode -m flipper.json decode call 0x633aa551",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, data, err := loadWithData(a, args[0])
			if err != nil {
				return err
			}
			var call *contract.DecodedCall
			if constructor {
				call, err = c.DecodeConstructorCall(data)
			} else {
				call, err = c.DecodeMessageCall(data)
			}
			if err != nil {
				return err
			}
			return printCall(a, c, call)
		},
	}
	cmd.Flags().BoolVar(&constructor, "constructor", false, "data addresses a constructor")
	return cmd
}

func printCall(a *app, c *contract.Contract, call *contract.DecodedCall) error {
	e := call.Entry
	res := callResult{
		Kind:     e.Kind.String(),
		Label:    e.Label,
		Selector: e.Selector.String(),
		Args:     jsonFields(c.DisplayFields(e.Args, call.Args)),
	}
	p := a.printer()
	return p.emit(res, func(b *strings.Builder) {
		p.field(b, res.Kind, p.style(labelStyle, res.Label)+" "+p.style(dimStyle, res.Selector))
		for i, arg := range e.Args {
			p.field(b, arg.Name, c.Format(arg.Type, call.Args[i].Value))
		}
	})
}

func newDecodeReturnCmd(a *app) *cobra.Command {
	var message, constructor string
	cmd := &cobra.Command{
		Use:     "return (--message NAME | --constructor NAME) HEX",
		Short:   "Decode the value a call returned",
		Example: "  transcode -m flipper.json decode return --message get 0x0001",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, data, err := loadWithData(a, args[0])
			if err != nil {
				return err
			}
			name := message
			var v value.Value
			if constructor != "" {
				name = constructor
				v, err = c.DecodeConstructorReturn(constructor, data)
			} else {
				v, err = c.DecodeReturn(message, data)
			}
			if err != nil {
				return err
			}
			return printReturn(a, c, name, constructor != "", v)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&message, "message", "", "message label or 0x selector")
	fl.StringVar(&constructor, "constructor", "", "constructor label or 0x selector")
	cmd.MarkFlagsMutuallyExclusive("message", "constructor")
	cmd.MarkFlagsOneRequired("message", "constructor")
	return cmd
}

func printReturn(a *app, c *contract.Contract, name string, constructor bool, v value.Value) error {
	var (
		e  *contract.CallEntry
		ok bool
	)
	if constructor {
		e, ok = c.Constructor(name)
	} else {
		e, ok = c.Message(name)
	}

	res := returnResult{Label: name, Type: "()", Value: jsonValue{v}}
	text := value.Format(v)
	if ok {
		res.Label = e.Label
		if e.ReturnType != nil {
			res.Type = c.Registry().TypeName(*e.ReturnType)
			disp := c.Display(*e.ReturnType, v)
			res.Value = jsonValue{disp}
			text = value.Format(disp)
		}
	}

	p := a.printer()
	return p.emit(res, func(b *strings.Builder) {
		p.field(b, "return", p.style(labelStyle, res.Label)+" "+p.style(typeStyle, res.Type))
		p.field(b, "value", text)
	})
}

func newDecodeEventCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "event HEX",
		Short:   "Decode an emitted event",
		Example: "  transcode -m erc20.json decode event 0x0000016400000000000000000000000000000000",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, data, err := loadWithData(a, args[0])
			if err != nil {
				return err
			}
			e, ev, err := c.DecodeEvent(data)
			if err != nil {
				return err
			}
			disp := c.DisplayEvent(e, ev)
			res := eventResult{Event: e.Label, Index: e.Index, Fields: jsonFields(disp.Fields)}
			p := a.printer()
			return p.emit(res, func(b *strings.Builder) {
				p.field(b, "event", p.style(labelStyle, e.Label)+" "+p.style(dimStyle, fmt.Sprintf("#%d", e.Index)))
				for _, f := range disp.Fields {
					p.field(b, f.Name, value.Format(f.Value))
				}
			})
		},
	}
}

func loadWithData(a *app, text string) (*contract.Contract, []byte, error) {
	data, err := parseHex(text)
	if err != nil {
		return nil, nil, err
	}
	c, err := a.contract()
	if err != nil {
		return nil, nil, err
	}
	return c, data, nil
}

// parseHex decodes hex text with an optional 0x prefix.
func parseHex(text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
	data, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("data is not hex: %w", err)
	}
	return data, nil
}

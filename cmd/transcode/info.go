package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/contract-transcode/contract"
	"github.com/wippyai/contract-transcode/registry"
)

type infoResult struct {
	Code         *codeResult   `json:"code,omitempty"`
	Name         string        `json:"name"`
	Version      string        `json:"version"`
	Metadata     string        `json:"metadata_version"`
	Language     string        `json:"language,omitempty"`
	Compiler     string        `json:"compiler,omitempty"`
	Authors      []string      `json:"authors,omitempty"`
	Constructors []entryResult `json:"constructors"`
	Messages     []entryResult `json:"messages"`
	Events       []eventInfo   `json:"events"`
	Types        int           `json:"types"`
}

type entryResult struct {
	Label     string       `json:"label"`
	Selector  string       `json:"selector"`
	Args      []paramEntry `json:"args"`
	Returns   string       `json:"returns,omitempty"`
	Docs      []string     `json:"docs,omitempty"`
	Mutates   bool         `json:"mutates,omitempty"`
	Payable   bool         `json:"payable,omitempty"`
	IsDefault bool         `json:"default,omitempty"`
}

type paramEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type eventInfo struct {
	Label  string       `json:"label"`
	Fields []paramEntry `json:"fields"`
	Index  uint8        `json:"index"`
}

type codeResult struct {
	Hash    string   `json:"hash"`
	Exports []string `json:"exports"`
	Imports []string `json:"imports"`
	Size    int      `json:"size"`
	Valid   bool     `json:"valid"`
}

func newInfoCmd(a *app) *cobra.Command {
	var asWIT bool
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the contract's constructors, messages and events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.contract()
			if err != nil {
				return err
			}
			names := typeNamer(c.Registry(), asWIT)
			res := infoResult{
				Name:         c.Name(),
				Version:      c.Version(),
				Metadata:     c.MetadataVersion(),
				Language:     c.Language(),
				Compiler:     c.Compiler(),
				Authors:      c.Authors(),
				Constructors: entries(c.Constructors(), names),
				Messages:     entries(c.Messages(), names),
				Types:        c.Registry().Len(),
			}
			for _, e := range c.Events() {
				ev := eventInfo{Label: e.Label, Index: e.Index}
				for _, f := range e.Fields {
					ev.Fields = append(ev.Fields, paramEntry{Name: f.Name, Type: names(f.Type)})
				}
				res.Events = append(res.Events, ev)
			}
			if c.HasCode() {
				ci, err := c.InspectCode(cmd.Context())
				if err != nil {
					return err
				}
				res.Code = newCodeResult(ci)
			}
			return printInfo(a, &res)
		},
	}
	cmd.Flags().BoolVar(&asWIT, "wit", false, "show argument types in WIT notation")
	return cmd
}

func entries(es []*contract.CallEntry, names func(registry.TypeID) string) []entryResult {
	out := make([]entryResult, 0, len(es))
	for _, e := range es {
		r := entryResult{
			Label:     e.Label,
			Selector:  e.Selector.String(),
			Args:      make([]paramEntry, len(e.Args)),
			Docs:      e.Docs,
			Mutates:   e.Mutates,
			Payable:   e.Payable,
			IsDefault: e.Default,
		}
		for i, p := range e.Args {
			r.Args[i] = paramEntry{Name: p.Name, Type: names(p.Type)}
		}
		if e.ReturnType != nil {
			r.Returns = names(*e.ReturnType)
		}
		out = append(out, r)
	}
	return out
}

func newCodeResult(ci *contract.CodeInfo) *codeResult {
	r := &codeResult{
		Hash:    "0x" + hex.EncodeToString(ci.Hash[:]),
		Exports: ci.Exports,
		Imports: make([]string, len(ci.Imports)),
		Size:    ci.Size,
		Valid:   ci.Valid(),
	}
	for i, imp := range ci.Imports {
		r.Imports[i] = imp.String()
	}
	return r
}

func printInfo(a *app, res *infoResult) error {
	p := a.printer()
	return p.emit(res, func(b *strings.Builder) {
		b.WriteString(p.style(titleStyle, res.Name))
		fmt.Fprintf(b, " %s\n\n", res.Version)
		if res.Language != "" {
			p.field(b, "language", res.Language)
		}
		if res.Compiler != "" {
			p.field(b, "compiler", res.Compiler)
		}
		if len(res.Authors) > 0 {
			p.field(b, "authors", strings.Join(res.Authors, ", "))
		}
		p.field(b, "metadata", res.Metadata)
		p.field(b, "types", fmt.Sprint(res.Types))

		p.section(b, "Constructors")
		for _, e := range res.Constructors {
			b.WriteString(p.signature(e))
		}
		p.section(b, "Messages")
		for _, e := range res.Messages {
			b.WriteString(p.signature(e))
		}
		if len(res.Events) > 0 {
			p.section(b, "Events")
			for _, ev := range res.Events {
				fmt.Fprintf(b, "  %s %s(%s)\n",
					p.style(dimStyle, fmt.Sprintf("#%d", ev.Index)),
					p.style(labelStyle, ev.Label),
					p.params(ev.Fields))
			}
		}
		if res.Code != nil {
			p.section(b, "Code")
			p.field(b, "size", fmt.Sprintf("%d bytes", res.Code.Size))
			p.field(b, "hash", p.style(dataStyle, res.Code.Hash))
			p.field(b, "exports", strings.Join(res.Code.Exports, ", "))
			p.field(b, "imports", strings.Join(res.Code.Imports, ", "))
			p.field(b, "valid", fmt.Sprint(res.Code.Valid))
		}
	})
}

func (p *printer) section(b *strings.Builder, title string) {
	fmt.Fprintf(b, "\n%s\n", p.style(titleStyle, title))
}

func (p *printer) params(ps []paramEntry) string {
	parts := make([]string, len(ps))
	for i, a := range ps {
		parts[i] = a.Name + ": " + p.style(typeStyle, a.Type)
	}
	return strings.Join(parts, ", ")
}

func (p *printer) signature(e entryResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %s %s(%s)", p.style(dimStyle, e.Selector), p.style(labelStyle, e.Label), p.params(e.Args))
	if e.Returns != "" {
		b.WriteString(" -> " + p.style(typeStyle, e.Returns))
	}
	var flags []string
	if e.Mutates {
		flags = append(flags, "mut")
	}
	if e.Payable {
		flags = append(flags, "payable")
	}
	if e.IsDefault {
		flags = append(flags, "default")
	}
	if len(flags) > 0 {
		b.WriteString(" " + p.style(dimStyle, "["+strings.Join(flags, ", ")+"]"))
	}
	b.WriteString("\n")
	for _, d := range e.Docs {
		if d = strings.TrimSpace(d); d != "" {
			b.WriteString("      " + p.style(dimStyle, d) + "\n")
		}
	}
	return b.String()
}

// typeNamer returns the function used to render argument types: registry
// names by default, WIT notation when asWIT is set.
func typeNamer(reg *registry.Registry, asWIT bool) func(registry.TypeID) string {
	if !asWIT {
		return reg.TypeName
	}
	return func(id registry.TypeID) string {
		t, err := reg.WIT(id)
		if err != nil {
			return reg.TypeName(id)
		}
		return witTypeStr(t)
	}
}

const maxWITDepth = 16

func witTypeStr(t wit.Type) string {
	return witTypeStrDepth(t, 0)
}

func witTypeStrDepth(t wit.Type, depth int) string {
	if depth > maxWITDepth {
		return "..."
	}
	switch v := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		return witKindStr(v.Kind, depth+1)
	default:
		return fmt.Sprintf("%T", t)
	}
}

func witKindStr(k wit.TypeDefKind, depth int) string {
	switch v := k.(type) {
	case *wit.List:
		return "list<" + witTypeStrDepth(v.Type, depth) + ">"
	case *wit.Option:
		return "option<" + witTypeStrDepth(v.Type, depth) + ">"
	case *wit.Result:
		ok, errT := "_", "_"
		if v.OK != nil {
			ok = witTypeStrDepth(v.OK, depth)
		}
		if v.Err != nil {
			errT = witTypeStrDepth(v.Err, depth)
		}
		if v.OK == nil && v.Err == nil {
			return "result"
		}
		return "result<" + ok + ", " + errT + ">"
	case *wit.Tuple:
		parts := make([]string, len(v.Types))
		for i, t := range v.Types {
			parts[i] = witTypeStrDepth(t, depth)
		}
		return "tuple<" + strings.Join(parts, ", ") + ">"
	case *wit.Record:
		parts := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			parts[i] = f.Name + ": " + witTypeStrDepth(f.Type, depth)
		}
		return "record { " + strings.Join(parts, ", ") + " }"
	case *wit.Enum:
		parts := make([]string, len(v.Cases))
		for i, c := range v.Cases {
			parts[i] = c.Name
		}
		return "enum { " + strings.Join(parts, ", ") + " }"
	case *wit.Variant:
		parts := make([]string, len(v.Cases))
		for i, c := range v.Cases {
			parts[i] = c.Name
			if c.Type != nil {
				parts[i] += "(" + witTypeStrDepth(c.Type, depth) + ")"
			}
		}
		return "variant { " + strings.Join(parts, ", ") + " }"
	default:
		return "typedef"
	}
}

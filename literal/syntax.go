package literal

import (
	"strconv"

	"github.com/wippyai/contract-transcode/errors"
	"github.com/wippyai/contract-transcode/literal/internal/token"
)

type nodeKind int

const (
	nodeWord   nodeKind = iota // bare identifier, number or blob
	nodeString                 // quoted string, unescaped
	nodeChar                   // quoted character, unescaped
	nodeNull                   // JSON null
	nodeList                   // [a, b]
	nodeTuple                  // (a, b) or Name(a, b)
	nodeStruct                 // { k: v } or Name { k: v }
)

func (k nodeKind) String() string {
	switch k {
	case nodeWord:
		return "word"
	case nodeString:
		return "string"
	case nodeChar:
		return "character"
	case nodeNull:
		return "null"
	case nodeList:
		return "list"
	case nodeTuple:
		return "tuple"
	case nodeStruct:
		return "struct"
	}
	return "unknown"
}

// node is the untyped syntax tree shared by the text and JSON surfaces.
// Spans are byte offsets into the literal text and are -1 for JSON input.
type node struct {
	text  string
	name  string
	items []*node
	keys  []string
	kind  nodeKind
	start int
	end   int
}

func (n *node) hasSpan() bool { return n.start >= 0 }

// isEmptyGroup reports whether n is (), [], {} or null.
func (n *node) isEmptyGroup() bool {
	switch n.kind {
	case nodeNull:
		return true
	case nodeList, nodeTuple, nodeStruct:
		return n.name == "" && len(n.items) == 0
	}
	return false
}

type syntaxParser struct {
	src      string
	tokens   []token.Token
	pos      int
	depth    int
	maxDepth int
}

// parseText builds the syntax tree of a complete literal.
func parseText(src string, maxDepth int) (*node, error) {
	p := &syntaxParser{src: src, tokens: token.Tokenize(src), maxDepth: maxDepth}
	if len(p.tokens) == 0 {
		return nil, errors.New(errors.PhaseParse, errors.KindLiteralParse).
			Span(src, 0, len(src)).
			Detail("empty literal").
			Build()
	}
	n, err := p.value()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t != nil {
		return nil, p.unexpected(t, "end of input")
	}
	return n, nil
}

func (p *syntaxParser) peek() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos]
}

func (p *syntaxParser) next() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	t := &p.tokens[p.pos]
	p.pos++
	return t
}

func (p *syntaxParser) value() (*node, error) {
	t := p.next()
	if t == nil {
		return nil, p.endOfInput("a value")
	}

	switch t.Type {
	case token.Word:
		n := &node{kind: nodeWord, text: t.Value, start: t.Start, end: t.End}
		// A word directly followed by a group names it
		if nt := p.peek(); nt != nil && (nt.Type == token.LParen || nt.Type == token.LBrace) {
			g, err := p.value()
			if err != nil {
				return nil, err
			}
			g.name = t.Value
			g.start = t.Start
			return g, nil
		}
		return n, nil

	case token.String, token.Char:
		s, err := strconv.Unquote(t.Value)
		if err != nil {
			return nil, p.errorAt(t, "malformed %s literal", t.Type)
		}
		kind := nodeString
		if t.Type == token.Char {
			kind = nodeChar
		}
		return &node{kind: kind, text: s, start: t.Start, end: t.End}, nil

	case token.LBracket:
		return p.group(t, nodeList, token.RBracket)
	case token.LParen:
		return p.group(t, nodeTuple, token.RParen)
	case token.LBrace:
		return p.group(t, nodeStruct, token.RBrace)
	}

	return nil, p.unexpected(t, "a value")
}

func (p *syntaxParser) group(open *token.Token, kind nodeKind, closing token.Type) (*node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		return nil, errors.New(errors.PhaseParse, errors.KindRecursionLimit).
			Span(p.src[open.Start:], open.Start, len(p.src)).
			Detail("nesting exceeds %d levels", p.maxDepth).
			Build()
	}

	n := &node{kind: kind, start: open.Start}
	for {
		t := p.peek()
		if t == nil {
			return nil, p.endOfInput(closing.String())
		}
		if t.Type == closing {
			p.next()
			n.end = t.End
			return n, nil
		}

		if kind == nodeStruct {
			key, err := p.key()
			if err != nil {
				return nil, err
			}
			n.keys = append(n.keys, key)
		}
		item, err := p.value()
		if err != nil {
			return nil, err
		}
		n.items = append(n.items, item)

		t = p.peek()
		if t == nil {
			return nil, p.endOfInput(closing.String())
		}
		switch t.Type {
		case token.Comma:
			p.next()
		case closing:
		default:
			return nil, p.unexpected(t, "',' or "+closing.String())
		}
	}
}

func (p *syntaxParser) key() (string, error) {
	t := p.next()
	if t == nil {
		return "", p.endOfInput("a field name")
	}
	var key string
	switch t.Type {
	case token.Word:
		key = t.Value
	case token.String:
		s, err := strconv.Unquote(t.Value)
		if err != nil {
			return "", p.errorAt(t, "malformed field name")
		}
		key = s
	default:
		return "", p.unexpected(t, "a field name")
	}

	c := p.next()
	if c == nil {
		return "", p.endOfInput("':'")
	}
	if c.Type != token.Colon {
		return "", p.unexpected(c, "':'")
	}
	return key, nil
}

func (p *syntaxParser) errorAt(t *token.Token, format string, args ...any) error {
	return errors.New(errors.PhaseParse, errors.KindLiteralParse).
		Span(t.Value, t.Start, t.End).
		Detail(format, args...).
		Build()
}

func (p *syntaxParser) unexpected(t *token.Token, want string) error {
	return p.errorAt(t, "expected %s, got %s", want, t.Type)
}

func (p *syntaxParser) endOfInput(want string) error {
	return errors.New(errors.PhaseParse, errors.KindLiteralParse).
		Span("", len(p.src), len(p.src)).
		Detail("expected %s, got end of input", want).
		Build()
}

package token

import (
	"unicode"
	"unicode/utf8"
)

type Type int

const (
	LParen Type = iota
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	Comma
	Colon
	Word
	String
	Char
	Illegal
)

func (t Type) String() string {
	switch t {
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case LBracket:
		return "'['"
	case RBracket:
		return "']'"
	case LBrace:
		return "'{'"
	case RBrace:
		return "'}'"
	case Comma:
		return "','"
	case Colon:
		return "':'"
	case Word:
		return "word"
	case String:
		return "string"
	case Char:
		return "character"
	case Illegal:
		return "illegal input"
	}
	return "unknown"
}

// Token is a lexeme with its byte span in the input. String and Char
// tokens keep their quotes and escapes.
type Token struct {
	Value string
	Type  Type
	Start int
	End   int
}

var punct = map[byte]Type{
	'(': LParen,
	')': RParen,
	'[': LBracket,
	']': RBracket,
	'{': LBrace,
	'}': RBrace,
	',': Comma,
}

// Tokenize splits a value literal into tokens. Input it cannot classify
// becomes an Illegal token rather than an error so the parser can report
// it with context.
func Tokenize(input string) []Token {
	var tokens []Token

	for i := 0; i < len(input); {
		r, size := utf8.DecodeRuneInString(input[i:])

		if unicode.IsSpace(r) {
			i += size
			continue
		}

		if typ, ok := punct[input[i]]; ok {
			tokens = append(tokens, Token{input[i : i+1], typ, i, i + 1})
			i++
			continue
		}

		// Path separators belong to words; a lone colon separates fields
		if r == ':' && !(i+1 < len(input) && input[i+1] == ':') {
			tokens = append(tokens, Token{":", Colon, i, i + 1})
			i++
			continue
		}

		// Quoted string or character literal
		if r == '"' || r == '\'' {
			end := scanQuoted(input, i)
			typ := String
			if r == '\'' {
				typ = Char
			}
			if end < 0 {
				tokens = append(tokens, Token{input[i:], Illegal, i, len(input)})
				return tokens
			}
			tokens = append(tokens, Token{input[i:end], typ, i, end})
			i = end
			continue
		}

		// Word: identifiers, paths, numbers, hex blobs, base58 text and #N
		// case indices.
		// A sign may lead when a word character follows.
		start := i
		if (r == '-' || r == '+') && i+1 < len(input) {
			next, _ := utf8.DecodeRuneInString(input[i+1:])
			if isWordRune(next) {
				i++
			}
		}
		for i < len(input) {
			c, n := utf8.DecodeRuneInString(input[i:])
			if isWordRune(c) {
				i += n
				continue
			}
			if c == ':' && i+1 < len(input) && input[i+1] == ':' && i > start {
				i += 2
				continue
			}
			break
		}
		if i == start || (i == start+1 && (r == '-' || r == '+')) {
			i = start + size
			tokens = append(tokens, Token{input[start:i], Illegal, start, i})
			continue
		}
		tokens = append(tokens, Token{input[start:i], Word, start, i})
	}

	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' || r == '#'
}

// scanQuoted returns the index just past the closing quote of the literal
// starting at i, or -1 when it is unterminated.
func scanQuoted(input string, i int) int {
	quote := input[i]
	for j := i + 1; j < len(input); j++ {
		switch input[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		}
	}
	return -1
}

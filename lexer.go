package xlspill

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType identifies a lexical token of a formula body.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenNumber
	TokenString
	TokenIdent
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenComma
	TokenOperator
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of formula"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	case TokenIdent:
		return "identifier"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenLBracket:
		return "'['"
	case TokenRBracket:
		return "']'"
	case TokenComma:
		return "','"
	case TokenOperator:
		return "operator"
	default:
		return "unknown"
	}
}

// Token is one lexeme with its byte offset in the source.
type Token struct {
	Type TokenType
	Text string
	Pos  int
}

// operators lists multi-character operators before their prefixes so the
// longest match wins.
var operators = []string{
	"===", "!==",
	"==", "!=", "<>", "<=", ">=", "&&", "||",
	"+", "-", "*", "/", "^", "&", "=", "<", ">", "!",
}

// Tokenize splits a formula body into tokens.
func Tokenize(src string) ([]Token, error) {
	var tokens []Token
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '"':
			text, next, err := lexString(src, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, Token{Type: TokenString, Text: text, Pos: i})
			i = next
		case isDigit(src[i]) || (src[i] == '.' && i+1 < len(src) && isDigit(src[i+1])):
			next := lexNumber(src, i)
			tokens = append(tokens, Token{Type: TokenNumber, Text: src[i:next], Pos: i})
			i = next
		case r == '_' || unicode.IsLetter(r):
			j := i
			for j < len(src) {
				r2, s2 := utf8.DecodeRuneInString(src[j:])
				if r2 != '_' && r2 != '.' && !unicode.IsLetter(r2) && !unicode.IsDigit(r2) {
					break
				}
				j += s2
			}
			tokens = append(tokens, Token{Type: TokenIdent, Text: src[i:j], Pos: i})
			i = j
		default:
			tok, ok := lexPunct(src, i)
			if !ok {
				return nil, fmt.Errorf("unexpected character %q at position %d", r, i)
			}
			tokens = append(tokens, tok)
			i += len(tok.Text)
		}
	}
	tokens = append(tokens, Token{Type: TokenEOF, Pos: len(src)})
	return tokens, nil
}

func lexPunct(src string, i int) (Token, bool) {
	switch src[i] {
	case '(':
		return Token{Type: TokenLParen, Text: "(", Pos: i}, true
	case ')':
		return Token{Type: TokenRParen, Text: ")", Pos: i}, true
	case '[':
		return Token{Type: TokenLBracket, Text: "[", Pos: i}, true
	case ']':
		return Token{Type: TokenRBracket, Text: "]", Pos: i}, true
	case ',':
		return Token{Type: TokenComma, Text: ",", Pos: i}, true
	}
	for _, op := range operators {
		if strings.HasPrefix(src[i:], op) {
			return Token{Type: TokenOperator, Text: op, Pos: i}, true
		}
	}
	return Token{}, false
}

func lexNumber(src string, i int) int {
	j := i
	for j < len(src) && isDigit(src[j]) {
		j++
	}
	if j < len(src) && src[j] == '.' {
		j++
		for j < len(src) && isDigit(src[j]) {
			j++
		}
	}
	if j < len(src) && (src[j] == 'e' || src[j] == 'E') {
		k := j + 1
		if k < len(src) && (src[k] == '+' || src[k] == '-') {
			k++
		}
		if k < len(src) && isDigit(src[k]) {
			for k < len(src) && isDigit(src[k]) {
				k++
			}
			j = k
		}
	}
	return j
}

// lexString reads a double-quoted literal starting at src[start]. It
// accepts backslash escapes and doubled quotes.
func lexString(src string, start int) (string, int, error) {
	var b strings.Builder
	i := start + 1
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\\' && i+1 < len(src):
			switch src[i+1] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(src[i+1])
			}
			i += 2
		case c == '"':
			if i+1 < len(src) && src[i+1] == '"' {
				b.WriteByte('"')
				i += 2
				continue
			}
			return b.String(), i + 1, nil
		default:
			b.WriteByte(c)
			i++
		}
	}
	return "", 0, fmt.Errorf("unterminated string starting at position %d", start)
}

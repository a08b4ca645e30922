package xlspill

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse turns a resolved formula body into an expression tree.
func Parse(src string) (Node, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	if p.peek().Type == TokenEOF {
		return nil, fmt.Errorf("empty formula")
	}
	n, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, fmt.Errorf("unexpected %s %q at position %d", tok.Type, tok.Text, tok.Pos)
	}
	return n, nil
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Type != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(tt TokenType) (Token, error) {
	tok := p.next()
	if tok.Type != tt {
		return tok, fmt.Errorf("expected %s, found %s at position %d", tt, tok.Type, tok.Pos)
	}
	return tok, nil
}

// acceptOp consumes the next token when it is one of ops.
func (p *parser) acceptOp(ops ...string) (string, bool) {
	tok := p.peek()
	if tok.Type != TokenOperator {
		return "", false
	}
	for _, op := range ops {
		if tok.Text == op {
			p.pos++
			return op, true
		}
	}
	return "", false
}

// binaryLevel parses a left-associative chain of ops over operands
// produced by sub.
func (p *parser) binaryLevel(sub func() (Node, error), ops ...string) (Node, error) {
	left, err := sub()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOp(ops...)
		if !ok {
			return left, nil
		}
		right, err := sub()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseOr() (Node, error) {
	return p.binaryLevel(p.parseAnd, "||")
}

func (p *parser) parseAnd() (Node, error) {
	return p.binaryLevel(p.parseComparison, "&&")
}

func (p *parser) parseComparison() (Node, error) {
	return p.binaryLevel(p.parseConcat, "===", "!==", "==", "!=", "<>", "<=", ">=", "=", "<", ">")
}

func (p *parser) parseConcat() (Node, error) {
	return p.binaryLevel(p.parseAdditive, "&")
}

func (p *parser) parseAdditive() (Node, error) {
	return p.binaryLevel(p.parseMultiplicative, "+", "-")
}

func (p *parser) parseMultiplicative() (Node, error) {
	return p.binaryLevel(p.parsePower, "*", "/")
}

// parsePower is right-associative: 2^3^2 is 2^(3^2).
func (p *parser) parsePower() (Node, error) {
	base, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if _, ok := p.acceptOp("^"); !ok {
		return base, nil
	}
	exp, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	return &BinaryExpr{Op: "^", Left: base, Right: exp}, nil
}

func (p *parser) parseUnary() (Node, error) {
	if op, ok := p.acceptOp("-", "+", "!"); ok {
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op, Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Node, error) {
	tok := p.next()
	switch tok.Type {
	case TokenNumber:
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", tok.Text)
		}
		return &NumberLit{Value: f}, nil
	case TokenString:
		return &StringLit{Value: tok.Text}, nil
	case TokenLParen:
		n, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return n, nil
	case TokenLBracket:
		elems, err := p.parseList(TokenRBracket)
		if err != nil {
			return nil, err
		}
		return &ArrayLit{Elems: elems}, nil
	case TokenIdent:
		if p.peek().Type == TokenLParen {
			p.next()
			args, err := p.parseList(TokenRParen)
			if err != nil {
				return nil, err
			}
			return &CallExpr{Name: strings.ToUpper(tok.Text), Args: args}, nil
		}
		switch strings.ToUpper(tok.Text) {
		case "TRUE":
			return &BoolLit{Value: true}, nil
		case "FALSE":
			return &BoolLit{Value: false}, nil
		}
		return nil, fmt.Errorf("%s is not defined", tok.Text)
	case TokenEOF:
		return nil, fmt.Errorf("unexpected end of formula")
	default:
		return nil, fmt.Errorf("unexpected %s %q at position %d", tok.Type, tok.Text, tok.Pos)
	}
}

// parseList reads comma-separated expressions up to the closing token,
// which it consumes. The opening token is already consumed.
func (p *parser) parseList(closing TokenType) ([]Node, error) {
	var items []Node
	if p.peek().Type == closing {
		p.next()
		return items, nil
	}
	for {
		n, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		items = append(items, n)
		tok := p.next()
		switch tok.Type {
		case TokenComma:
			continue
		case closing:
			return items, nil
		default:
			return nil, fmt.Errorf("expected ',' or %s, found %s at position %d", closing, tok.Type, tok.Pos)
		}
	}
}

package xlspill

import (
	"strconv"
	"strings"
)

// Node is a parsed formula expression.
type Node interface {
	String() string
}

// NumberLit is a numeric literal.
type NumberLit struct {
	Value float64
}

// StringLit is a text literal.
type StringLit struct {
	Value string
}

// BoolLit is true or false.
type BoolLit struct {
	Value bool
}

// ArrayLit is a bracketed list; nested lists form a table.
type ArrayLit struct {
	Elems []Node
}

// CallExpr invokes a library function by upper-case name.
type CallExpr struct {
	Name string
	Args []Node
}

// UnaryExpr is a prefix operator applied to one operand.
type UnaryExpr struct {
	Op      string
	Operand Node
}

// BinaryExpr is an infix operator.
type BinaryExpr struct {
	Op    string
	Left  Node
	Right Node
}

func (n *NumberLit) String() string { return formatNumber(n.Value) }
func (n *StringLit) String() string { return strconv.Quote(n.Value) }
func (n *BoolLit) String() string   { return strconv.FormatBool(n.Value) }

func (n *ArrayLit) String() string {
	parts := make([]string, len(n.Elems))
	for i, e := range n.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (n *CallExpr) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return n.Name + "(" + strings.Join(parts, ", ") + ")"
}

func (n *UnaryExpr) String() string {
	return "(" + n.Op + n.Operand.String() + ")"
}

func (n *BinaryExpr) String() string {
	return "(" + n.Left.String() + " " + n.Op + " " + n.Right.String() + ")"
}

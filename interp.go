package xlspill

import (
	"math"
	"strings"
)

// interpreter walks an expression tree. Function calls are limited to the
// library; there is no access to anything else.
type interpreter struct {
	lib *Library
	ctx *CallContext
}

func (in *interpreter) eval(n Node) (any, error) {
	switch n := n.(type) {
	case *NumberLit:
		return n.Value, nil
	case *StringLit:
		return n.Value, nil
	case *BoolLit:
		return n.Value, nil
	case *ArrayLit:
		return in.evalArray(n)
	case *CallExpr:
		return in.evalCall(n)
	case *UnaryExpr:
		return in.evalUnary(n)
	case *BinaryExpr:
		return in.evalBinary(n)
	default:
		return nil, newError(ErrError, "unsupported expression %T", n)
	}
}

// evalArray builds a list, or a table when every element is itself a list.
func (in *interpreter) evalArray(n *ArrayLit) (any, error) {
	items := make([]any, len(n.Elems))
	rows := len(n.Elems) > 0
	for i, e := range n.Elems {
		v, err := in.eval(e)
		if err != nil {
			return nil, err
		}
		if _, ok := v.([]any); !ok {
			rows = false
		}
		items[i] = v
	}
	if !rows {
		return items, nil
	}
	table := make([][]any, len(items))
	for i, v := range items {
		table[i] = v.([]any)
	}
	return table, nil
}

func (in *interpreter) evalCall(n *CallExpr) (any, error) {
	fn, ok := in.lib.Lookup(n.Name)
	if !ok {
		return nil, newError(ErrError, "%s is not defined", n.Name)
	}
	args := make([]any, len(n.Args))
	for i, a := range n.Args {
		v, err := in.eval(a)
		if err != nil {
			if !fn.CatchErrors {
				return nil, err
			}
			v = asFormulaError(err)
		}
		args[i] = v
	}
	return in.lib.invoke(in.ctx, fn, args)
}

func (in *interpreter) evalUnary(n *UnaryExpr) (any, error) {
	v, err := in.eval(n.Operand)
	if err != nil {
		return nil, err
	}
	if n.Op == "!" {
		return !truthy(v), nil
	}
	return mapArray(v, func(x any) (any, error) {
		f, err := arithOperand(x)
		if err != nil {
			return nil, err
		}
		if n.Op == "-" {
			return -f, nil
		}
		return f, nil
	})
}

func (in *interpreter) evalBinary(n *BinaryExpr) (any, error) {
	left, err := in.eval(n.Left)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "&&":
		if !truthy(left) {
			return false, nil
		}
		right, err := in.eval(n.Right)
		if err != nil {
			return nil, err
		}
		return truthy(right), nil
	case "||":
		if truthy(left) {
			return true, nil
		}
		right, err := in.eval(n.Right)
		if err != nil {
			return nil, err
		}
		return truthy(right), nil
	}
	right, err := in.eval(n.Right)
	if err != nil {
		return nil, err
	}
	return broadcast(left, right, func(a, b any) (any, error) {
		return applyOperator(n.Op, a, b)
	})
}

func applyOperator(op string, a, b any) (any, error) {
	switch op {
	case "+", "-", "*", "/", "^":
		x, err := arithOperand(a)
		if err != nil {
			return nil, err
		}
		y, err := arithOperand(b)
		if err != nil {
			return nil, err
		}
		switch op {
		case "+":
			return x + y, nil
		case "-":
			return x - y, nil
		case "*":
			return x * y, nil
		case "/":
			return x / y, nil
		default:
			return math.Pow(x, y), nil
		}
	case "&":
		return toText(a) + toText(b), nil
	case "=", "==", "===":
		return looseEqual(a, b), nil
	case "<>", "!=", "!==":
		return !looseEqual(a, b), nil
	case "<":
		return compareValues(a, b) < 0, nil
	case "<=":
		return compareValues(a, b) <= 0, nil
	case ">":
		return compareValues(a, b) > 0, nil
	case ">=":
		return compareValues(a, b) >= 0, nil
	default:
		return nil, newError(ErrError, "unknown operator %s", op)
	}
}

// arithOperand coerces an operand strictly. Error tokens keep their kind.
func arithOperand(v any) (float64, error) {
	if s, ok := v.(string); ok {
		if k, isErr := ParseErrorToken(s); isErr {
			return 0, &FormulaError{Kind: k}
		}
	}
	if fe, ok := v.(*FormulaError); ok {
		return 0, fe
	}
	f, ok := parseNumber(v)
	if !ok {
		return 0, newError(ErrValue, "%q is not a number", toText(v))
	}
	return f, nil
}

// compareValues orders two scalars: numerically when both are numeric
// (blank counts as 0), otherwise by case-insensitive text.
func compareValues(a, b any) int {
	aNum := isNumeric(a) || (IsBlank(a) && isNumeric(b))
	bNum := isNumeric(b) || (IsBlank(b) && isNumeric(a))
	if aNum && bNum {
		x, _ := parseNumber(a)
		y, _ := parseNumber(b)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(strings.ToLower(toText(a)), strings.ToLower(toText(b)))
}

// mapArray applies fn to a scalar or to every element of an array. Element
// failures become error tokens in place.
func mapArray(v any, fn func(any) (any, error)) (any, error) {
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = elementResult(fn(e))
		}
		return out, nil
	case [][]any:
		out := make([][]any, len(x))
		for r, row := range x {
			out[r] = make([]any, len(row))
			for c, e := range row {
				out[r][c] = elementResult(fn(e))
			}
		}
		return out, nil
	default:
		return fn(v)
	}
}

// broadcast combines two operands element-wise. A one-dimensional list is
// treated as a column; dimensions of size one stretch to match the other
// side, and positions with no partner yield #N/A.
func broadcast(a, b any, fn func(x, y any) (any, error)) (any, error) {
	if !isArray(a) && !isArray(b) {
		return fn(a, b)
	}
	_, a2 := a.([][]any)
	_, b2 := b.([][]any)
	if !a2 && !b2 {
		la, lb := listOrScalar(a), listOrScalar(b)
		n := max(len(la), len(lb))
		out := make([]any, n)
		for i := range out {
			x, okx := pick(la, i)
			y, oky := pick(lb, i)
			if !okx || !oky {
				out[i] = ErrNA.Token()
				continue
			}
			out[i] = elementResult(fn(x, y))
		}
		return out, nil
	}

	ta, tb := tableOrScalar(a), tableOrScalar(b)
	rows := max(len(ta), len(tb))
	cols := max(tableWidth(ta), tableWidth(tb))
	out := make([][]any, rows)
	for r := range out {
		out[r] = make([]any, cols)
		for c := range out[r] {
			x, okx := pickCell(ta, r, c)
			y, oky := pickCell(tb, r, c)
			if !okx || !oky {
				out[r][c] = ErrNA.Token()
				continue
			}
			out[r][c] = elementResult(fn(x, y))
		}
	}
	return out, nil
}

func elementResult(v any, err error) any {
	if err != nil {
		return asFormulaError(err).Token()
	}
	return v
}

func listOrScalar(v any) []any {
	if l, ok := v.([]any); ok {
		return l
	}
	return []any{v}
}

func pick(l []any, i int) (any, bool) {
	if len(l) == 1 {
		return l[0], true
	}
	if i < len(l) {
		return l[i], true
	}
	return nil, false
}

func tableOrScalar(v any) [][]any {
	switch x := v.(type) {
	case [][]any:
		return x
	case []any:
		t := make([][]any, len(x))
		for i, e := range x {
			t[i] = []any{e}
		}
		return t
	default:
		return [][]any{{v}}
	}
}

func tableWidth(t [][]any) int {
	w := 0
	for _, row := range t {
		w = max(w, len(row))
	}
	return w
}

func pickCell(t [][]any, r, c int) (any, bool) {
	if len(t) == 1 {
		r = 0
	}
	if r >= len(t) {
		return nil, false
	}
	row := t[r]
	if len(row) == 1 {
		c = 0
	}
	if c >= len(row) {
		return nil, false
	}
	return row[c], true
}

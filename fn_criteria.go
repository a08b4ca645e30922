package xlspill

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

var criteriaOperator = regexp.MustCompile(`^(>=|<=|<>|>|<|=)(.+)$`)

// comparisonPrograms caches one compiled predicate per operator.
var comparisonPrograms sync.Map // operator → *vm.Program

var comparisonEnv = map[string]any{"v": 0.0, "c": 0.0}

func comparisonProgram(op string) (*vm.Program, error) {
	if cached, ok := comparisonPrograms.Load(op); ok {
		return cached.(*vm.Program), nil
	}
	exprOp := op
	switch op {
	case "=":
		exprOp = "=="
	case "<>":
		exprOp = "!="
	}
	program, err := expr.Compile("v "+exprOp+" c", expr.Env(comparisonEnv), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile criteria operator %q: %w", op, err)
	}
	comparisonPrograms.Store(op, program)
	return program, nil
}

// criterion is one parsed COUNTIF-style condition.
type criterion struct {
	program *vm.Program // operator comparison against number
	op      string
	number  float64
	text    string         // "=" or "<>" against non-numeric text
	negate  bool           // with text
	pattern *regexp.Regexp // wildcard match
	exact   any            // numbers and booleans
}

func parseCriterion(c any) (*criterion, error) {
	switch x := c.(type) {
	case nil:
		return nil, newError(ErrValue, "missing criteria")
	case []any, [][]any:
		return nil, newError(ErrValue, "criteria must be a single value")
	case string:
		if m := criteriaOperator.FindStringSubmatch(x); m != nil {
			op, operand := m[1], m[2]
			if !isNumeric(operand) && (op == "=" || op == "<>") {
				return &criterion{text: operand, negate: op == "<>"}, nil
			}
			program, err := comparisonProgram(op)
			if err != nil {
				return nil, err
			}
			return &criterion{program: program, op: op, number: toNumber(operand)}, nil
		}
		re, err := wildcardPattern(x)
		if err != nil {
			return nil, newError(ErrValue, "invalid criteria %q", x)
		}
		return &criterion{pattern: re}, nil
	default:
		return &criterion{exact: x}, nil
	}
}

// wildcardPattern anchors a case-insensitive match where * is any run and
// ? any single character. Everything else is literal.
func wildcardPattern(s string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("(?is)^")
	for _, r := range s {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

func (c *criterion) match(v any) bool {
	switch {
	case c.program != nil:
		// Text and blanks only satisfy "not equal".
		if !isNumeric(v) {
			return c.op == "<>"
		}
		out, err := expr.Run(c.program, map[string]any{"v": toNumber(v), "c": c.number})
		if err != nil {
			return false
		}
		ok, _ := out.(bool)
		return ok
	case c.pattern != nil:
		return c.pattern.MatchString(toText(v))
	case c.exact != nil:
		switch x := c.exact.(type) {
		case bool:
			b, ok := v.(bool)
			return ok && b == x
		default:
			return isNumeric(v) && looseEqual(v, x)
		}
	default:
		return strings.EqualFold(toText(v), c.text) != c.negate
	}
}

func registerCriteria(l *Library) {
	l.Register(&Function{Name: "COUNTIF", MinArgs: 2, MaxArgs: 2, Call: fnCountIf})
	l.Register(&Function{Name: "SUMIF", MinArgs: 2, MaxArgs: 3, Call: fnSumIf})
	l.Register(&Function{Name: "COUNTIFS", MinArgs: 2, MaxArgs: Variadic, Call: fnCountIfs})
	l.Register(&Function{Name: "SUMIFS", MinArgs: 3, MaxArgs: Variadic, Call: fnSumIfs})
}

// rangeArg flattens a required, non-empty range argument.
func rangeArg(name string, v any) ([]any, error) {
	if !isArray(v) {
		return nil, newError(ErrValue, "%s needs a range", name)
	}
	vals := flatten(v)
	if len(vals) == 0 {
		return nil, newError(ErrValue, "%s: empty range", name)
	}
	return vals, nil
}

func fnCountIf(_ *CallContext, args []any) (any, error) {
	vals, err := rangeArg("COUNTIF", args[0])
	if err != nil {
		return nil, err
	}
	crit, err := parseCriterion(args[1])
	if err != nil {
		return nil, err
	}
	n := 0
	for _, v := range vals {
		if crit.match(v) {
			n++
		}
	}
	return float64(n), nil
}

func fnSumIf(_ *CallContext, args []any) (any, error) {
	vals, err := rangeArg("SUMIF", args[0])
	if err != nil {
		return nil, err
	}
	crit, err := parseCriterion(args[1])
	if err != nil {
		return nil, err
	}
	sums := vals
	if len(args) > 2 {
		if sums, err = rangeArg("SUMIF", args[2]); err != nil {
			return nil, err
		}
	}
	sum := 0.0
	for i, v := range vals {
		if i < len(sums) && crit.match(v) {
			sum += toNumber(sums[i])
		}
	}
	return sum, nil
}

type criteriaPair struct {
	values []any
	crit   *criterion
}

func criteriaPairs(name string, args []any) ([]criteriaPair, error) {
	if len(args) < 2 || len(args)%2 != 0 {
		return nil, newError(ErrValue, "%s needs range/criteria pairs", name)
	}
	pairs := make([]criteriaPair, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		if !isArray(args[i]) {
			return nil, newError(ErrValue, "%s needs a range", name)
		}
		crit, err := parseCriterion(args[i+1])
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, criteriaPair{values: flatten(args[i]), crit: crit})
	}
	return pairs, nil
}

func matchesAll(pairs []criteriaPair, i int) bool {
	for _, p := range pairs {
		if i >= len(p.values) || !p.crit.match(p.values[i]) {
			return false
		}
	}
	return true
}

func fnCountIfs(_ *CallContext, args []any) (any, error) {
	pairs, err := criteriaPairs("COUNTIFS", args)
	if err != nil {
		return nil, err
	}
	n := 0
	for i := range pairs[0].values {
		if matchesAll(pairs, i) {
			n++
		}
	}
	return float64(n), nil
}

func fnSumIfs(_ *CallContext, args []any) (any, error) {
	if !isArray(args[0]) {
		return nil, newError(ErrValue, "SUMIFS needs a sum range")
	}
	sums := flatten(args[0])
	pairs, err := criteriaPairs("SUMIFS", args[1:])
	if err != nil {
		return nil, err
	}
	sum := 0.0
	for i, v := range sums {
		if matchesAll(pairs, i) {
			sum += toNumber(v)
		}
	}
	return sum, nil
}

package xlspill

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func registerText(l *Library) {
	l.Register(&Function{Name: "CONCATENATE", MinArgs: 1, MaxArgs: Variadic, Call: fnConcatenate})
	l.Register(&Function{Name: "LEFT", MinArgs: 1, MaxArgs: 2, Vectorized: true, Call: fnLeft})
	l.Register(&Function{Name: "RIGHT", MinArgs: 1, MaxArgs: 2, Vectorized: true, Call: fnRight})
	l.Register(&Function{Name: "LEN", MinArgs: 1, MaxArgs: 1, Vectorized: true, Call: fnLen})
	l.Register(&Function{Name: "TRIM", MinArgs: 1, MaxArgs: 1, Vectorized: true, Call: fnTrim})
	l.Register(&Function{Name: "UPPER", MinArgs: 1, MaxArgs: 1, Vectorized: true, Call: fnUpper})
	l.Register(&Function{Name: "LOWER", MinArgs: 1, MaxArgs: 1, Vectorized: true, Call: fnLower})
	l.Register(&Function{Name: "SEARCH", MinArgs: 2, MaxArgs: 3, Vectorized: true, Call: fnSearch})
	l.Register(&Function{Name: "ISNUMBER", MinArgs: 1, MaxArgs: 1, Vectorized: true, Call: fnIsNumber})
}

// textArg reads a required text argument.
func textArg(name string, v any) (string, error) {
	if v == nil {
		return "", newError(ErrValue, "%s needs text", name)
	}
	return toText(v), nil
}

// countArg reads an optional character count, default 1.
func countArg(name string, args []any) (int, error) {
	n, ok := parseNumber(optArg(args, 1, 1.0))
	if !ok || n < 0 {
		return 0, newError(ErrValue, "%s: invalid character count", name)
	}
	return clampInt(n, 0, math.MaxInt32), nil
}

// clampInt converts v to an int within [lo, hi]; NaN maps to lo.
func clampInt(v, lo, hi float64) int {
	if math.IsNaN(v) {
		return int(lo)
	}
	return int(math.Max(lo, math.Min(v, hi)))
}

func fnConcatenate(_ *CallContext, args []any) (any, error) {
	var b strings.Builder
	for _, a := range args {
		b.WriteString(toText(a))
	}
	return b.String(), nil
}

func fnLeft(_ *CallContext, args []any) (any, error) {
	s, err := textArg("LEFT", args[0])
	if err != nil {
		return nil, err
	}
	n, err := countArg("LEFT", args)
	if err != nil {
		return nil, err
	}
	r := []rune(s)
	return string(r[:min(n, len(r))]), nil
}

func fnRight(_ *CallContext, args []any) (any, error) {
	s, err := textArg("RIGHT", args[0])
	if err != nil {
		return nil, err
	}
	n, err := countArg("RIGHT", args)
	if err != nil {
		return nil, err
	}
	r := []rune(s)
	return string(r[len(r)-min(n, len(r)):]), nil
}

func fnLen(_ *CallContext, args []any) (any, error) {
	s, err := textArg("LEN", args[0])
	if err != nil {
		return nil, err
	}
	return float64(len([]rune(s))), nil
}

// fnTrim strips the ends and collapses inner whitespace runs, ideographic
// spaces included, to a single space.
func fnTrim(_ *CallContext, args []any) (any, error) {
	s, err := textArg("TRIM", args[0])
	if err != nil {
		return nil, err
	}
	return strings.Join(strings.Fields(s), " "), nil
}

func fnUpper(_ *CallContext, args []any) (any, error) {
	s, err := textArg("UPPER", args[0])
	if err != nil {
		return nil, err
	}
	return cases.Upper(language.Und).String(s), nil
}

func fnLower(_ *CallContext, args []any) (any, error) {
	s, err := textArg("LOWER", args[0])
	if err != nil {
		return nil, err
	}
	return cases.Lower(language.Und).String(s), nil
}

// fnSearch finds text case-insensitively and returns its 1-based position.
func fnSearch(_ *CallContext, args []any) (any, error) {
	if args[0] == nil || args[1] == nil {
		return nil, newError(ErrValue, "SEARCH needs text")
	}
	fold := cases.Fold()
	find := []rune(fold.String(toText(args[0])))
	within := []rune(fold.String(toText(args[1])))
	start := 1
	if len(args) > 2 {
		start = clampInt(toNumber(args[2]), 1, float64(len(within)+1))
	}
	for i := start - 1; i+len(find) <= len(within); i++ {
		if string(within[i:i+len(find)]) == string(find) {
			return float64(i + 1), nil
		}
	}
	return nil, newError(ErrValue, "SEARCH: %q not found", toText(args[0]))
}

func fnIsNumber(_ *CallContext, args []any) (any, error) {
	if _, ok := args[0].(bool); ok {
		return false, nil
	}
	return isNumeric(args[0]), nil
}

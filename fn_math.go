package xlspill

import "math"

func registerMath(l *Library) {
	l.Register(&Function{Name: "SUM", MaxArgs: Variadic, Call: fnSum})
	l.Register(&Function{Name: "AVERAGE", MaxArgs: Variadic, Call: fnAverage})
	l.Register(&Function{Name: "COUNT", MaxArgs: Variadic, Call: fnCount})
	l.Register(&Function{Name: "MAX", MaxArgs: Variadic, Call: fnMax})
	l.Register(&Function{Name: "MIN", MaxArgs: Variadic, Call: fnMin})
	l.Register(&Function{Name: "ROUND", MinArgs: 1, MaxArgs: 2, Call: fnRound})
}

// numbers flattens the arguments and coerces each value permissively.
func numbers(args []any) []float64 {
	vals := flattenArgs(args)
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = toNumber(v)
	}
	return out
}

func fnSum(_ *CallContext, args []any) (any, error) {
	sum := 0.0
	for _, f := range numbers(args) {
		sum += f
	}
	return sum, nil
}

func fnAverage(_ *CallContext, args []any) (any, error) {
	nums := numbers(args)
	if len(nums) == 0 {
		return nil, newError(ErrValue, "AVERAGE of no values")
	}
	sum := 0.0
	for _, f := range nums {
		sum += f
	}
	return sum / float64(len(nums)), nil
}

func fnCount(_ *CallContext, args []any) (any, error) {
	n := 0
	for _, v := range flattenArgs(args) {
		switch x := v.(type) {
		case float64, int:
			n++
		case string:
			if _, ok := parseLeadingNumber(x); ok {
				n++
			}
		}
	}
	return float64(n), nil
}

func fnMax(_ *CallContext, args []any) (any, error) {
	nums := numbers(args)
	if len(nums) == 0 {
		return nil, newError(ErrValue, "MAX of no values")
	}
	m := math.Inf(-1)
	for _, f := range nums {
		m = math.Max(m, f)
	}
	return m, nil
}

func fnMin(_ *CallContext, args []any) (any, error) {
	nums := numbers(args)
	if len(nums) == 0 {
		return nil, newError(ErrValue, "MIN of no values")
	}
	m := math.Inf(1)
	for _, f := range nums {
		m = math.Min(m, f)
	}
	return m, nil
}

// fnRound rounds half away from zero to the given number of digits.
func fnRound(_ *CallContext, args []any) (any, error) {
	if args[0] == nil {
		return nil, newError(ErrValue, "ROUND needs a number")
	}
	n := toNumber(args[0])
	digits := 0.0
	if len(args) > 1 {
		digits = math.Trunc(toNumber(args[1]))
	}
	mult := math.Pow(10, digits)
	return math.Round(n*mult) / mult, nil
}

// optArg returns args[i] or def when the argument was not given.
func optArg(args []any, i int, def any) any {
	if i < len(args) {
		return args[i]
	}
	return def
}

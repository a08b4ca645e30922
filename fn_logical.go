package xlspill

import "math"

func registerLogical(l *Library) {
	l.Register(&Function{Name: "IF", MinArgs: 3, MaxArgs: 3, CatchErrors: true, Call: fnIf})
	l.Register(&Function{Name: "IFS", MaxArgs: Variadic, Call: fnIfs})
	l.Register(&Function{Name: "AND", MinArgs: 1, MaxArgs: Variadic, Call: fnAnd})
	l.Register(&Function{Name: "OR", MinArgs: 1, MaxArgs: Variadic, Call: fnOr})
	l.Register(&Function{Name: "IFERROR", MinArgs: 2, MaxArgs: 2, CatchErrors: true, Call: fnIfError})
}

// fnIf only surfaces an error from the condition or the chosen branch.
func fnIf(_ *CallContext, args []any) (any, error) {
	if fe, ok := args[0].(*FormulaError); ok {
		return nil, fe
	}
	chosen := args[2]
	if truthy(args[0]) {
		chosen = args[1]
	}
	if fe, ok := chosen.(*FormulaError); ok {
		return nil, fe
	}
	return chosen, nil
}

func fnIfs(_ *CallContext, args []any) (any, error) {
	if len(args) == 0 || len(args)%2 != 0 {
		return nil, newError(ErrValue, "IFS needs condition/value pairs")
	}
	for i := 0; i < len(args); i += 2 {
		if isTrueFlag(args[i]) {
			return args[i+1], nil
		}
	}
	return nil, newError(ErrNA, "IFS: no condition matched")
}

func fnAnd(_ *CallContext, args []any) (any, error) {
	for _, v := range flattenArgs(args) {
		if !truthy(v) {
			return false, nil
		}
	}
	return true, nil
}

func fnOr(_ *CallContext, args []any) (any, error) {
	for _, v := range flattenArgs(args) {
		if truthy(v) {
			return true, nil
		}
	}
	return false, nil
}

// fnIfError replaces error values with the fallback. Arrays are checked
// element by element.
func fnIfError(_ *CallContext, args []any) (any, error) {
	fallback := args[1]
	if fe, ok := fallback.(*FormulaError); ok && isErrorValue(args[0]) {
		return nil, fe
	}
	return mapArray(args[0], func(v any) (any, error) {
		if isErrorValue(v) {
			return fallback, nil
		}
		return v, nil
	})
}

func isErrorValue(v any) bool {
	switch x := v.(type) {
	case *FormulaError:
		return true
	case float64:
		return math.IsNaN(x) || math.IsInf(x, 0)
	default:
		return IsErrorToken(v)
	}
}

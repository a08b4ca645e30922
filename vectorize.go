package xlspill

func hasArrayArg(args []any) bool {
	for _, a := range args {
		if isArray(a) {
			return true
		}
	}
	return false
}

// vectorize applies fn element-wise across its array arguments. The length
// is that of the longest array; scalars broadcast and short arrays pad with
// "". Each element becomes one row of a column vector, and an element whose
// call fails becomes false.
func vectorize(ctx *CallContext, fn *Function, args []any) [][]any {
	lists := make([][]any, len(args))
	n := 0
	for i, a := range args {
		if !isArray(a) {
			continue
		}
		lists[i] = elements(a)
		n = max(n, len(lists[i]))
	}

	out := make([][]any, n)
	elemArgs := make([]any, len(args))
	for row := 0; row < n; row++ {
		for i, a := range args {
			switch {
			case lists[i] == nil && !isArray(a):
				elemArgs[i] = a
			case row < len(lists[i]):
				elemArgs[i] = lists[i][row]
			default:
				elemArgs[i] = ""
			}
		}
		out[row] = []any{callElement(ctx, fn, elemArgs)}
	}
	return out
}

// callElement runs one element-wise call; an error or panic yields false.
func callElement(ctx *CallContext, fn *Function, args []any) (v any) {
	defer func() {
		if r := recover(); r != nil {
			v = false
		}
	}()
	v, err := fn.Call(ctx, args)
	if err != nil {
		return false
	}
	return v
}

// elements views an array argument as the sequence a vectorized call walks:
// a single column collapses to its values, wider tables are read row-major.
func elements(v any) []any {
	if t, ok := v.([][]any); ok && !isColumnVector(t) {
		return flatten(t)
	}
	list, _ := asList(v)
	if list == nil {
		return []any{}
	}
	return list
}

package xlspill

import "math"

func registerLookup(l *Library) {
	l.Register(&Function{Name: "VLOOKUP", MinArgs: 3, MaxArgs: 4, Call: fnVLookup})
	l.Register(&Function{Name: "XLOOKUP", MinArgs: 3, MaxArgs: 4, Call: fnXLookup})
	l.Register(&Function{Name: "INDEX", MinArgs: 2, MaxArgs: 3, Call: fnIndex})
	l.Register(&Function{Name: "MATCH", MinArgs: 2, MaxArgs: 3, Call: fnMatch})
}

// VLOOKUP(value, table, column, [approximate=TRUE])
func fnVLookup(_ *CallContext, args []any) (any, error) {
	value := args[0]
	if value == nil {
		return nil, newError(ErrValue, "VLOOKUP needs a lookup value")
	}
	table, ok := asTable(args[1])
	if !ok || len(table) == 0 {
		return nil, newError(ErrValue, "VLOOKUP needs a table")
	}
	if args[2] == nil {
		return nil, newError(ErrValue, "VLOOKUP needs a column index")
	}
	col := int(math.Floor(toNumber(args[2])))
	if col < 1 || col > len(table[0]) {
		return nil, newError(ErrRef, "VLOOKUP: column %d out of range", col)
	}
	cell := func(row []any) any {
		if col-1 < len(row) {
			return row[col-1]
		}
		return ""
	}

	if !truthy(optArg(args, 3, true)) {
		for _, row := range table {
			if len(row) > 0 && looseEqual(row[0], value) {
				return cell(row), nil
			}
		}
		return nil, newError(ErrNA, "VLOOKUP: %s not found", toText(value))
	}

	// Approximate: the table is assumed sorted ascending on its first column.
	target := toNumber(value)
	last := -1
	for i, row := range table {
		if len(row) == 0 || toNumber(row[0]) > target {
			break
		}
		last = i
	}
	if last < 0 {
		return nil, newError(ErrNA, "VLOOKUP: no key at or below %s", toText(value))
	}
	return cell(table[last]), nil
}

// XLOOKUP(value, lookup, return, [ifNotFound])
func fnXLookup(_ *CallContext, args []any) (any, error) {
	value := args[0]
	if value == nil {
		return nil, newError(ErrValue, "XLOOKUP needs a lookup value")
	}
	keys, ok := asList(args[1])
	if !ok || len(keys) == 0 {
		return nil, newError(ErrValue, "XLOOKUP needs a lookup array")
	}
	if !isArray(args[2]) {
		return nil, newError(ErrValue, "XLOOKUP needs a return array")
	}
	returns, _ := asList(args[2])
	if len(returns) == 0 {
		return nil, newError(ErrValue, "XLOOKUP needs a return array")
	}
	notFound := func() (any, error) {
		if len(args) > 3 {
			return args[3], nil
		}
		return nil, newError(ErrNA, "XLOOKUP: %s not found", toText(value))
	}
	for i, k := range keys {
		if !looseEqual(k, value) {
			continue
		}
		if i >= len(returns) {
			return notFound()
		}
		if row, ok := returns[i].([]any); ok {
			return [][]any{row}, nil
		}
		return returns[i], nil
	}
	return notFound()
}

// INDEX(array, row, [column]) with 1-based positions. On a table, row 0
// selects a whole column and an omitted column selects a whole row.
func fnIndex(_ *CallContext, args []any) (any, error) {
	if !isArray(args[0]) {
		return nil, newError(ErrValue, "INDEX needs an array")
	}
	if args[1] == nil {
		return nil, newError(ErrValue, "INDEX needs a row number")
	}
	row := int(math.Floor(toNumber(args[1])))

	table, isTable := args[0].([][]any)
	if !isTable {
		list := args[0].([]any)
		if row < 1 || row > len(list) {
			return nil, newError(ErrRef, "INDEX: row %d out of range", row)
		}
		return list[row-1], nil
	}

	if len(args) < 3 {
		if row < 1 || row > len(table) {
			return nil, newError(ErrRef, "INDEX: row %d out of range", row)
		}
		if len(table[row-1]) == 1 {
			return table[row-1][0], nil
		}
		return [][]any{table[row-1]}, nil
	}

	col := int(math.Floor(toNumber(args[2])))
	if row == 0 {
		out := make([][]any, len(table))
		for i, r := range table {
			if col < 1 || col > len(r) {
				return nil, newError(ErrRef, "INDEX: column %d out of range", col)
			}
			out[i] = []any{r[col-1]}
		}
		return out, nil
	}
	if row < 1 || row > len(table) {
		return nil, newError(ErrRef, "INDEX: row %d out of range", row)
	}
	r := table[row-1]
	if col < 1 || col > len(r) {
		return nil, newError(ErrRef, "INDEX: column %d out of range", col)
	}
	return r[col-1], nil
}

// MATCH(value, array, [type=1]). Type 1 expects ascending data and finds
// the largest value <= target; -1 expects descending data and finds the
// smallest value >= target.
func fnMatch(_ *CallContext, args []any) (any, error) {
	value := args[0]
	list, ok := asList(args[1])
	if value == nil || !ok {
		return nil, newError(ErrValue, "MATCH needs a value and an array")
	}
	mode := int(math.Floor(toNumber(optArg(args, 2, 1.0))))
	target := toNumber(value)
	switch mode {
	case 0:
		for i, v := range list {
			if looseEqual(v, value) {
				return float64(i + 1), nil
			}
		}
	case 1:
		last := -1
		for i, v := range list {
			if toNumber(v) > target {
				break
			}
			last = i
		}
		if last >= 0 {
			return float64(last + 1), nil
		}
	case -1:
		last := -1
		for i, v := range list {
			if toNumber(v) < target {
				break
			}
			last = i
		}
		if last >= 0 {
			return float64(last + 1), nil
		}
	default:
		return nil, newError(ErrValue, "MATCH: unknown match type %d", mode)
	}
	return nil, newError(ErrNA, "MATCH: %s not found", toText(value))
}

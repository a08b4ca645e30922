package xlspill

import (
	"fmt"
	"math"
	"strings"
)

func registerArray(l *Library) {
	l.Register(&Function{Name: "UNIQUE", MinArgs: 1, MaxArgs: 2, Call: fnUnique})
	l.Register(&Function{Name: "FILTER", MinArgs: 2, MaxArgs: 3, Call: fnFilter})
	l.Register(&Function{Name: "SHOWDATA", MinArgs: 1, MaxArgs: 2, Call: fnShowData})
}

// fnUnique lists the distinct non-blank values as a single text summary.
func fnUnique(_ *CallContext, args []any) (any, error) {
	if !isArray(args[0]) {
		return nil, newError(ErrValue, "UNIQUE needs an array")
	}
	seen := make(map[any]bool)
	var values []string
	for _, v := range flatten(args[0]) {
		if IsBlank(v) || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, toText(v))
	}
	return fmt.Sprintf("[%d unique values]\n%s", len(values), strings.Join(values, "\n")), nil
}

// fnFilter keeps the rows of array selected either by a condition array
// or, with three arguments, by a case-insensitive substring search over
// a column.
func fnFilter(_ *CallContext, args []any) (any, error) {
	rows, ok := asTable(args[0])
	if !ok {
		return nil, newError(ErrValue, "FILTER needs an array")
	}
	var out [][]any
	switch {
	case len(args) == 3 && !isArray(args[1]):
		if !isArray(args[2]) {
			return nil, newError(ErrValue, "FILTER needs a search column")
		}
		column, _ := asList(args[2])
		needle := strings.ToLower(toText(args[1]))
		for i, row := range rows {
			var cell any
			if i < len(column) {
				cell = column[i]
			}
			if strings.Contains(strings.ToLower(toText(cell)), needle) {
				out = append(out, append([]any(nil), row...))
			}
		}
	case isArray(args[1]):
		conds, _ := asList(args[1])
		for i := 0; i < min(len(rows), len(conds)); i++ {
			if isTrueFlag(conds[i]) {
				out = append(out, append([]any(nil), rows[i]...))
			}
		}
	default:
		return nil, newError(ErrValue, "FILTER needs conditions or search text")
	}
	if len(out) == 0 {
		return nil, newError(ErrNA, "FILTER: no rows matched")
	}
	return out, nil
}

// fnShowData previews the first rows of an array as text.
func fnShowData(ctx *CallContext, args []any) (any, error) {
	rows, ok := asTable(args[0])
	if !ok {
		return "Not an array", nil
	}
	limit := DefaultPreviewRows
	if ctx != nil && ctx.PreviewRows > 0 {
		limit = ctx.PreviewRows
	}
	if len(args) > 1 {
		limit = clampInt(toNumber(args[1]), 0, math.MaxInt32)
	}
	lines := make([]string, 0, min(limit, len(rows)))
	for _, row := range rows[:min(limit, len(rows))] {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = toText(v)
		}
		lines = append(lines, strings.Join(cells, " | "))
	}
	return fmt.Sprintf("%d rows of data:\n%s", len(rows), strings.Join(lines, "\n")), nil
}

package xlspill

// Grid is a row-major snapshot of cell values. Values are nil, string,
// float64 or bool; error tokens are strings starting with '#'. Rows may be
// ragged.
type Grid [][]any

// Rows returns the current row count.
func (g Grid) Rows() int {
	return len(g)
}

// Cols returns the width of the widest row.
func (g Grid) Cols() int {
	w := 0
	for _, row := range g {
		w = max(w, len(row))
	}
	return w
}

// At returns the value at (row, col) and whether the cell exists.
func (g Grid) At(row, col int) (any, bool) {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return nil, false
	}
	return g[row][col], true
}

// Value returns the value at ref, or nil when out of bounds.
func (g Grid) Value(ref CellRef) any {
	v, _ := g.At(ref.Row, ref.Col)
	return v
}

// Clone returns a deep copy of the row slices.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = append([]any(nil), row...)
	}
	return out
}

// IsBlank reports whether a cell value counts as empty for spill checks.
func IsBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

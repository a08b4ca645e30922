package xlspill

import (
	"fmt"
	"strconv"
	"strings"
)

// CellRef is a 0-based cell coordinate. It is comparable and used directly
// as a map key by the spill bookkeeping.
type CellRef struct {
	Row int
	Col int
}

// NewCellRef creates a CellRef from 0-based row and column indexes.
func NewCellRef(row, col int) CellRef {
	return CellRef{Row: row, Col: col}
}

// ParseCellRef parses an A1-style reference such as "B2" or "$AA$10".
func ParseCellRef(s string) (CellRef, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "$", "")
	if s == "" {
		return CellRef{}, fmt.Errorf("empty cell reference")
	}

	i := 0
	for i < len(s) && isUpper(s[i]) {
		i++
	}
	if i == 0 || i == len(s) {
		return CellRef{}, fmt.Errorf("invalid cell reference: %q", s)
	}

	col, err := NameToCol(s[:i])
	if err != nil {
		return CellRef{}, fmt.Errorf("invalid cell reference %q: %w", s, err)
	}
	rowNum, err := strconv.Atoi(s[i:])
	if err != nil || rowNum < 1 {
		return CellRef{}, fmt.Errorf("invalid row in cell reference: %q", s)
	}
	return CellRef{Row: rowNum - 1, Col: col}, nil
}

// String formats the reference as "A1".
func (c CellRef) String() string {
	return ColToName(c.Col) + strconv.Itoa(c.Row+1)
}

// Offset returns the reference moved by dr rows and dc columns.
func (c CellRef) Offset(dr, dc int) CellRef {
	return CellRef{Row: c.Row + dr, Col: c.Col + dc}
}

// Less orders references row-major.
func (c CellRef) Less(o CellRef) bool {
	if c.Row != o.Row {
		return c.Row < o.Row
	}
	return c.Col < o.Col
}

// ColToName converts a 0-based column index to a column name.
// 0→"A", 25→"Z", 26→"AA", 702→"AAA"
func ColToName(col int) string {
	if col < 0 {
		return ""
	}
	result := ""
	col++
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

// NameToCol converts an upper-case column name to a 0-based index.
// "A"→0, "Z"→25, "AA"→26
func NameToCol(name string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("empty column name")
	}
	col := 0
	for i := 0; i < len(name); i++ {
		if !isUpper(name[i]) {
			return 0, fmt.Errorf("invalid column name: %q", name)
		}
		col = col*26 + int(name[i]-'A') + 1
	}
	return col - 1, nil
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// AreaRef is a rectangular range between two corners, inclusive. A
// whole-column area (e.g. "B:D") has WholeColumn set and its rows are fixed
// only when it is resolved against a grid.
type AreaRef struct {
	First       CellRef
	Last        CellRef
	WholeColumn bool
}

// ParseAreaRef parses "A1:C5" or the whole-column form "B:B".
// Corners are normalised so that First is the top-left cell.
func ParseAreaRef(s string) (AreaRef, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "$", "")
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return AreaRef{}, fmt.Errorf("invalid area reference (missing ':'): %q", s)
	}

	if isColumnName(parts[0]) && isColumnName(parts[1]) {
		c1, _ := NameToCol(parts[0])
		c2, _ := NameToCol(parts[1])
		if c1 > c2 {
			c1, c2 = c2, c1
		}
		return AreaRef{First: CellRef{Col: c1}, Last: CellRef{Col: c2}, WholeColumn: true}, nil
	}

	first, err := ParseCellRef(parts[0])
	if err != nil {
		return AreaRef{}, fmt.Errorf("invalid area reference %q: %w", s, err)
	}
	last, err := ParseCellRef(parts[1])
	if err != nil {
		return AreaRef{}, fmt.Errorf("invalid area reference %q: %w", s, err)
	}
	return NewAreaRef(first, last), nil
}

// NewAreaRef creates a normalised AreaRef from any two corners.
func NewAreaRef(a, b CellRef) AreaRef {
	return AreaRef{
		First: CellRef{Row: min(a.Row, b.Row), Col: min(a.Col, b.Col)},
		Last:  CellRef{Row: max(a.Row, b.Row), Col: max(a.Col, b.Col)},
	}
}

func isColumnName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isUpper(s[i]) {
			return false
		}
	}
	return true
}

// String formats the area as "A1:C5" or "B:D".
func (a AreaRef) String() string {
	if a.WholeColumn {
		return ColToName(a.First.Col) + ":" + ColToName(a.Last.Col)
	}
	return a.First.String() + ":" + a.Last.String()
}

// Width is the number of columns covered.
func (a AreaRef) Width() int {
	return a.Last.Col - a.First.Col + 1
}

// Bounded fixes the row extent of a whole-column area to rows [0, rows).
// Bounded areas are returned unchanged.
func (a AreaRef) Bounded(rows int) AreaRef {
	if !a.WholeColumn {
		return a
	}
	return AreaRef{
		First: CellRef{Row: 0, Col: a.First.Col},
		Last:  CellRef{Row: rows - 1, Col: a.Last.Col},
	}
}

// Contains reports whether ref lies inside the (bounded) area.
func (a AreaRef) Contains(ref CellRef) bool {
	if a.WholeColumn {
		return ref.Col >= a.First.Col && ref.Col <= a.Last.Col
	}
	return ref.Row >= a.First.Row && ref.Row <= a.Last.Row &&
		ref.Col >= a.First.Col && ref.Col <= a.Last.Col
}

// Height is the number of rows covered by a bounded area.
func (a AreaRef) Height() int {
	return a.Last.Row - a.First.Row + 1
}

// Overlaps reports whether two bounded areas share at least one cell.
func (a AreaRef) Overlaps(b AreaRef) bool {
	return a.First.Row <= b.Last.Row && b.First.Row <= a.Last.Row &&
		a.First.Col <= b.Last.Col && b.First.Col <= a.Last.Col
}

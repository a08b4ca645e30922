package xlspill

import "fmt"

// Sheet is the editor-side grid the Manager reads and writes.
type Sheet interface {
	// Snapshot returns a copy of the current values for evaluation.
	Snapshot() Grid
	// Value returns the value at (row, col), nil when empty or out of range.
	Value(row, col int) any
	SetCell(row, col int, v any) error
	ClearCell(row, col int) error
}

// MemorySheet is an in-memory Sheet that grows on write.
type MemorySheet struct {
	grid Grid
}

// NewMemorySheet wraps g. The sheet takes ownership of g.
func NewMemorySheet(g Grid) *MemorySheet {
	return &MemorySheet{grid: g}
}

func (s *MemorySheet) Snapshot() Grid {
	return s.grid.Clone()
}

func (s *MemorySheet) Value(row, col int) any {
	v, _ := s.grid.At(row, col)
	return v
}

func (s *MemorySheet) SetCell(row, col int, v any) error {
	if row < 0 || col < 0 {
		return fmt.Errorf("cell (%d, %d) out of range", row, col)
	}
	for len(s.grid) <= row {
		s.grid = append(s.grid, nil)
	}
	for len(s.grid[row]) <= col {
		s.grid[row] = append(s.grid[row], nil)
	}
	s.grid[row][col] = v
	return nil
}

func (s *MemorySheet) ClearCell(row, col int) error {
	if _, ok := s.grid.At(row, col); !ok {
		return nil
	}
	s.grid[row][col] = ""
	return nil
}

// Grid returns the live grid. Callers must not modify it.
func (s *MemorySheet) Grid() Grid {
	return s.grid
}

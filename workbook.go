package xlspill

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// WorkbookSheet is a Sheet backed by one worksheet of an excelize file.
// Values are cached in memory and every write goes through to the file.
// Error tokens are written with a highlight style.
type WorkbookSheet struct {
	file       *excelize.File
	name       string
	grid       *MemorySheet
	errorStyle int
	styled     map[CellRef]bool // cells currently carrying errorStyle
}

// NewWorkbookSheet reads sheet from f. An empty name selects the active
// sheet.
func NewWorkbookSheet(f *excelize.File, sheet string) (*WorkbookSheet, error) {
	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}
	g, err := ReadGrid(f, sheet)
	if err != nil {
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "9C0006"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create error style: %w", err)
	}
	return &WorkbookSheet{
		file:       f,
		name:       sheet,
		grid:       NewMemorySheet(g),
		errorStyle: style,
		styled:     make(map[CellRef]bool),
	}, nil
}

// OpenWorkbook opens an xlsx file and wraps one of its sheets.
func OpenWorkbook(path, sheet string) (*WorkbookSheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	ws, err := NewWorkbookSheet(f, sheet)
	if err != nil {
		f.Close()
		return nil, err
	}
	return ws, nil
}

// OpenWorkbookReader reads an xlsx stream and wraps one of its sheets.
func OpenWorkbookReader(r io.Reader, sheet string) (*WorkbookSheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	ws, err := NewWorkbookSheet(f, sheet)
	if err != nil {
		f.Close()
		return nil, err
	}
	return ws, nil
}

// ReadGrid loads a worksheet into a Grid. Numeric cells become float64,
// boolean cells bool and everything else its text.
func ReadGrid(f *excelize.File, sheet string) (Grid, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %q: %w", sheet, err)
	}
	g := make(Grid, len(rows))
	for r, row := range rows {
		g[r] = make([]any, len(row))
		for c, raw := range row {
			if raw == "" {
				g[r][c] = ""
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(sheet, cell)
			if err != nil {
				return nil, fmt.Errorf("read cell type %s!%s: %w", sheet, cell, err)
			}
			g[r][c] = cellValue(typ, raw)
		}
	}
	return g, nil
}

func cellValue(typ excelize.CellType, raw string) any {
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	case excelize.CellTypeBool:
		return raw == "1" || raw == "TRUE" || raw == "true"
	}
	return raw
}

// Name returns the worksheet name.
func (s *WorkbookSheet) Name() string {
	return s.name
}

// File returns the underlying workbook.
func (s *WorkbookSheet) File() *excelize.File {
	return s.file
}

func (s *WorkbookSheet) Snapshot() Grid {
	return s.grid.Snapshot()
}

func (s *WorkbookSheet) Value(row, col int) any {
	return s.grid.Value(row, col)
}

func (s *WorkbookSheet) SetCell(row, col int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return fmt.Errorf("cell (%d, %d): %w", row, col, err)
	}
	if err := s.file.SetCellValue(s.name, cell, v); err != nil {
		return fmt.Errorf("set %s!%s: %w", s.name, cell, err)
	}
	if err := s.applyStyle(NewCellRef(row, col), cell, IsErrorToken(v)); err != nil {
		return err
	}
	return s.grid.SetCell(row, col, v)
}

func (s *WorkbookSheet) ClearCell(row, col int) error {
	if _, ok := s.grid.Grid().At(row, col); !ok {
		return nil
	}
	return s.SetCell(row, col, "")
}

// applyStyle sets or removes the error highlight on one cell.
func (s *WorkbookSheet) applyStyle(ref CellRef, cell string, isError bool) error {
	if isError == s.styled[ref] {
		return nil
	}
	style := 0
	if isError {
		style = s.errorStyle
	}
	if err := s.file.SetCellStyle(s.name, cell, cell, style); err != nil {
		return fmt.Errorf("style %s!%s: %w", s.name, cell, err)
	}
	if isError {
		s.styled[ref] = true
	} else {
		delete(s.styled, ref)
	}
	return nil
}

// Write writes the workbook to w.
func (s *WorkbookSheet) Write(w io.Writer) error {
	if err := s.file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveAs writes the workbook to path.
func (s *WorkbookSheet) SaveAs(path string) error {
	if err := s.file.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %q: %w", path, err)
	}
	return nil
}

// Close releases the workbook.
func (s *WorkbookSheet) Close() error {
	return s.file.Close()
}

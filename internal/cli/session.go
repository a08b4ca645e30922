package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/javajack/xlspill"
)

// session is an opened input sheet plus the manager editing it.
type session struct {
	cfg      *Config
	sheet    xlspill.Sheet
	workbook *xlspill.WorkbookSheet // nil for CSV or empty input
	manager  *xlspill.Manager
	log      *xlspill.OperationLog
}

func openSession(cfg *Config, logger *slog.Logger) (*session, error) {
	s := &session{cfg: cfg, log: xlspill.NewOperationLog()}
	switch ext := strings.ToLower(filepath.Ext(cfg.Input)); {
	case cfg.Input == "":
		s.sheet = xlspill.NewMemorySheet(nil)
	case ext == ".csv":
		g, err := xlspill.LoadCSV(cfg.Input)
		if err != nil {
			return nil, err
		}
		s.sheet = xlspill.NewMemorySheet(g)
	case ext == ".xlsx" || ext == ".xlsm":
		ws, err := xlspill.OpenWorkbook(cfg.Input, cfg.Sheet)
		if err != nil {
			return nil, err
		}
		s.sheet, s.workbook = ws, ws
	default:
		return nil, fmt.Errorf("unsupported input %q: want .csv or .xlsx", cfg.Input)
	}
	s.manager = xlspill.NewManager(s.sheet,
		xlspill.WithLogger(logger),
		xlspill.WithPreviewRows(cfg.PreviewRows),
		xlspill.WithListener(s.log),
	)
	return s, nil
}

func (s *session) Close() error {
	if s.workbook != nil {
		return s.workbook.Close()
	}
	return nil
}

// inputFormulas returns an edit for every formula text already present in
// the input, so that loading a sheet evaluates it.
func (s *session) inputFormulas() []xlspill.Edit {
	var edits []xlspill.Edit
	for r, row := range s.sheet.Snapshot() {
		for c, v := range row {
			if xlspill.IsFormula(v) {
				edits = append(edits, xlspill.Edit{Row: r, Col: c, OldValue: v, NewValue: v})
			}
		}
	}
	return edits
}

// parseEdits turns "B2==SUM(A1:A3)" style assignments and the config
// edits map into Edits. Flag assignments win over config entries.
func (s *session) parseEdits(assignments []string) ([]xlspill.Edit, error) {
	merged := make(map[xlspill.CellRef]string)
	for cell, value := range s.cfg.Edits {
		ref, err := xlspill.ParseCellRef(strings.ToUpper(strings.TrimSpace(cell)))
		if err != nil {
			return nil, fmt.Errorf("config edit %q: %w", cell, err)
		}
		merged[ref] = value
	}
	for _, a := range assignments {
		cell, value, ok := strings.Cut(a, "=")
		if !ok {
			return nil, fmt.Errorf("edit %q: want CELL=VALUE", a)
		}
		ref, err := xlspill.ParseCellRef(strings.ToUpper(strings.TrimSpace(cell)))
		if err != nil {
			return nil, fmt.Errorf("edit %q: %w", a, err)
		}
		merged[ref] = value
	}
	edits := make([]xlspill.Edit, 0, len(merged))
	for ref, value := range merged {
		edits = append(edits, xlspill.Edit{
			Row:      ref.Row,
			Col:      ref.Col,
			OldValue: s.sheet.Value(ref.Row, ref.Col),
			NewValue: xlspill.ParseValue(value),
		})
	}
	return edits, nil
}

// run applies the input's own formulas, then the requested edits.
func (s *session) run(assignments []string) ([]xlspill.Outcome, error) {
	edits, err := s.parseEdits(assignments)
	if err != nil {
		return nil, err
	}
	outcomes, err := s.manager.ApplyBatch(s.inputFormulas())
	if err != nil {
		return nil, err
	}
	more, err := s.manager.ApplyBatch(edits)
	if err != nil {
		return nil, err
	}
	return append(outcomes, more...), nil
}

// save writes the sheet to path, as xlsx when the input was a workbook
// and the path ends in .xlsx, as CSV otherwise.
func (s *session) save(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if s.workbook != nil && (ext == ".xlsx" || ext == ".xlsm") {
		return s.workbook.SaveAs(path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	if err := xlspill.WriteCSV(f, s.sheet.Snapshot()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *session) writeLog(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create operation log %q: %w", path, err)
	}
	if err := s.log.WriteJSON(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printOutcomes(w io.Writer, outcomes []xlspill.Outcome) {
	for _, o := range outcomes {
		switch o.Kind {
		case xlspill.OutcomeSpilled:
			fmt.Fprintf(w, "%s\t%s\t%s\n", o.Cell, o.Kind, o.Spill)
		case xlspill.OutcomeScalar, xlspill.OutcomeBlocked:
			fmt.Fprintf(w, "%s\t%s\t%s\n", o.Cell, o.Kind, o.Result)
		default:
			fmt.Fprintf(w, "%s\t%s\n", o.Cell, o.Kind)
		}
	}
}

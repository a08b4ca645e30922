package xlspill

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// SpillRange is the footprint of one array result, anchored at its origin.
type SpillRange struct {
	Origin CellRef
	Rows   int
	Cols   int
}

// Contains reports whether ref lies inside the footprint.
func (s SpillRange) Contains(ref CellRef) bool {
	return ref.Row >= s.Origin.Row && ref.Row < s.Origin.Row+s.Rows &&
		ref.Col >= s.Origin.Col && ref.Col < s.Origin.Col+s.Cols
}

// Area returns the footprint as an area reference.
func (s SpillRange) Area() AreaRef {
	return NewAreaRef(s.Origin, s.Origin.Offset(s.Rows-1, s.Cols-1))
}

// String formats the footprint as "B2:C4 (3x2)".
func (s SpillRange) String() string {
	return fmt.Sprintf("%s (%dx%d)", s.Area(), s.Rows, s.Cols)
}

// cells visits every footprint cell in row-major order.
func (s SpillRange) cells(fn func(ref CellRef, origin bool)) {
	for r := 0; r < s.Rows; r++ {
		for c := 0; c < s.Cols; c++ {
			fn(s.Origin.Offset(r, c), r == 0 && c == 0)
		}
	}
}

// Edit is one user change to a cell.
type Edit struct {
	Row      int
	Col      int
	OldValue any
	NewValue any
}

// Cell returns the edited cell.
func (e Edit) Cell() CellRef {
	return NewCellRef(e.Row, e.Col)
}

// OutcomeKind tells what the Manager did with an edit.
type OutcomeKind int

const (
	OutcomeValue    OutcomeKind = iota // plain value written
	OutcomeCleared                     // cell blanked
	OutcomeScalar                      // formula with a scalar or error result
	OutcomeSpilled                     // formula spilled an array
	OutcomeBlocked                     // array could not spill, #SPILL! written
	OutcomeRejected                    // edit inside a spill footprint undone
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeValue:
		return "value"
	case OutcomeCleared:
		return "cleared"
	case OutcomeScalar:
		return "scalar"
	case OutcomeSpilled:
		return "spilled"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Outcome describes the effect of one handled edit.
type Outcome struct {
	Kind   OutcomeKind
	Cell   CellRef
	Result Result      // formula edits only
	Spill  *SpillRange // OutcomeSpilled, or the claiming range for OutcomeRejected
}

// Manager owns formula bindings and spill ranges over a Sheet. It is not
// safe for concurrent use; callers serialise edits.
type Manager struct {
	sheet    Sheet
	engine   *Engine
	opts     *Options
	logger   *slog.Logger
	formulas map[CellRef]string
	spills   map[CellRef]SpillRange // keyed by origin
	claims   map[CellRef]CellRef    // footprint cell → origin
	values   map[CellRef][][]any    // spilled values by origin
}

// NewManager creates a Manager over sheet.
func NewManager(sheet Sheet, opts ...Option) *Manager {
	o := buildOptions(opts)
	return &Manager{
		sheet:    sheet,
		engine:   newEngineFromOptions(o),
		opts:     o,
		logger:   o.logger,
		formulas: make(map[CellRef]string),
		spills:   make(map[CellRef]SpillRange),
		claims:   make(map[CellRef]CellRef),
		values:   make(map[CellRef][][]any),
	}
}

// Engine returns the evaluator used for formula edits.
func (m *Manager) Engine() *Engine {
	return m.engine
}

// Sheet returns the managed sheet.
func (m *Manager) Sheet() Sheet {
	return m.sheet
}

// IsFormula reports whether v is formula text.
func IsFormula(v any) bool {
	s, ok := v.(string)
	return ok && strings.HasPrefix(strings.TrimSpace(s), "=")
}

// HandleEdit applies one edit. Edits inside a footprint other than its
// origin are rejected and the spilled value is restored. The returned error
// reports Sheet failures only; formula failures are part of the Outcome.
func (m *Manager) HandleEdit(e Edit) (Outcome, error) {
	ref := e.Cell()
	if ref.Row < 0 || ref.Col < 0 {
		return Outcome{}, fmt.Errorf("edit at (%d, %d): negative cell position", e.Row, e.Col)
	}

	if origin, ok := m.claims[ref]; ok && origin != ref {
		return m.reject(e, origin)
	}
	if _, ok := m.spills[ref]; ok {
		if err := m.clearSpill(ref); err != nil {
			return Outcome{}, err
		}
	}

	if IsFormula(e.NewValue) {
		return m.applyFormula(e)
	}
	return m.applyValue(e)
}

// ApplyBatch applies edits in row-major order, the order pasted or
// simultaneous edits are serialised in. It stops at the first Sheet error.
func (m *Manager) ApplyBatch(edits []Edit) ([]Outcome, error) {
	ordered := append([]Edit(nil), edits...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Cell().Less(ordered[j].Cell())
	})
	outcomes := make([]Outcome, 0, len(ordered))
	for _, e := range ordered {
		out, err := m.HandleEdit(e)
		if err != nil {
			return outcomes, fmt.Errorf("batch edit %s: %w", e.Cell(), err)
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

func (m *Manager) reject(e Edit, origin CellRef) (Outcome, error) {
	ref := e.Cell()
	sr := m.spills[origin]
	restore := m.spilledValue(origin, ref)
	if err := m.sheet.SetCell(ref.Row, ref.Col, restore); err != nil {
		return Outcome{}, fmt.Errorf("restore %s: %w", ref, err)
	}
	m.logger.Debug("edit rejected inside spill", "cell", ref.String(), "origin", origin.String())
	m.emit(EventEditRejected, EventData{Row: e.Row, Col: e.Col, OldValue: restore, NewValue: e.NewValue})
	return Outcome{Kind: OutcomeRejected, Cell: ref, Spill: &sr}, nil
}

func (m *Manager) spilledValue(origin, ref CellRef) any {
	vals := m.values[origin]
	r, c := ref.Row-origin.Row, ref.Col-origin.Col
	if r < len(vals) && c < len(vals[r]) {
		return vals[r][c]
	}
	return ""
}

func (m *Manager) applyFormula(e Edit) (Outcome, error) {
	ref := e.Cell()
	formula := strings.TrimSpace(e.NewValue.(string))
	res := m.engine.Evaluate(formula, m.sheet.Snapshot(), ref.Row, ref.Col)
	m.formulas[ref] = formula

	if res.Kind != ResultArray {
		if err := m.sheet.SetCell(ref.Row, ref.Col, res.CellValue()); err != nil {
			return Outcome{}, fmt.Errorf("write %s: %w", ref, err)
		}
		m.emit(EventFormulaInput, EventData{Row: e.Row, Col: e.Col, Formula: formula, Result: res.CellValue(), OldValue: e.OldValue})
		return Outcome{Kind: OutcomeScalar, Cell: ref, Result: res}, nil
	}

	sr := SpillRange{Origin: ref, Rows: res.Rows(), Cols: res.Cols()}
	m.logger.Debug("array result", "cell", ref.String(), "rows", sr.Rows, "cols", sr.Cols)
	if !m.CanSpill(ref, sr.Rows, sr.Cols) {
		if err := m.sheet.SetCell(ref.Row, ref.Col, ErrSpill.Token()); err != nil {
			return Outcome{}, fmt.Errorf("write %s: %w", ref, err)
		}
		m.logger.Debug("spill blocked", "cell", ref.String(), "footprint", sr.String())
		m.emit(EventSpillBlocked, EventData{Row: e.Row, Col: e.Col, Formula: formula, Result: ErrSpill.Token(), OldValue: e.OldValue})
		return Outcome{Kind: OutcomeBlocked, Cell: ref, Result: res}, nil
	}

	var werr error
	sr.cells(func(cell CellRef, _ bool) {
		if werr != nil {
			return
		}
		v := res.Array[cell.Row-ref.Row][cell.Col-ref.Col]
		if err := m.sheet.SetCell(cell.Row, cell.Col, v); err != nil {
			werr = fmt.Errorf("write %s: %w", cell, err)
		}
	})
	if werr != nil {
		return Outcome{}, werr
	}
	m.spills[ref] = sr
	m.values[ref] = res.Array
	sr.cells(func(cell CellRef, _ bool) {
		m.claims[cell] = ref
	})
	m.logger.Debug("spill committed", "cell", ref.String(), "footprint", sr.String())
	m.emit(EventFormulaInput, EventData{
		Row: e.Row, Col: e.Col, Formula: formula, OldValue: e.OldValue,
		Result: fmt.Sprintf("Spilled: %dx%d array", sr.Rows, sr.Cols),
	})
	return Outcome{Kind: OutcomeSpilled, Cell: ref, Result: res, Spill: &sr}, nil
}

func (m *Manager) applyValue(e Edit) (Outcome, error) {
	ref := e.Cell()
	delete(m.formulas, ref)
	kind := OutcomeValue
	var err error
	if IsBlank(e.NewValue) {
		kind = OutcomeCleared
		err = m.sheet.ClearCell(ref.Row, ref.Col)
	} else {
		err = m.sheet.SetCell(ref.Row, ref.Col, e.NewValue)
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("write %s: %w", ref, err)
	}
	m.emit(EventCellEdit, EventData{Row: e.Row, Col: e.Col, OldValue: e.OldValue, NewValue: e.NewValue})
	return Outcome{Kind: kind, Cell: ref}, nil
}

// CanSpill reports whether a rows x cols array can spill from origin:
// every footprint cell except the origin must be blank, unbound and
// unclaimed by another spill.
func (m *Manager) CanSpill(origin CellRef, rows, cols int) bool {
	ok := true
	SpillRange{Origin: origin, Rows: rows, Cols: cols}.cells(func(ref CellRef, isOrigin bool) {
		if !ok || isOrigin {
			return
		}
		if owner, claimed := m.claims[ref]; claimed && owner != origin {
			ok = false
			return
		}
		if _, bound := m.formulas[ref]; bound {
			ok = false
			return
		}
		if !IsBlank(m.sheet.Value(ref.Row, ref.Col)) {
			ok = false
		}
	})
	return ok
}

// clearSpill blanks the non-origin cells of the range anchored at origin
// and forgets the range.
func (m *Manager) clearSpill(origin CellRef) error {
	sr, ok := m.spills[origin]
	if !ok {
		return nil
	}
	var werr error
	sr.cells(func(ref CellRef, isOrigin bool) {
		delete(m.claims, ref)
		if isOrigin || werr != nil {
			return
		}
		if err := m.sheet.ClearCell(ref.Row, ref.Col); err != nil {
			werr = fmt.Errorf("clear %s: %w", ref, err)
		}
	})
	delete(m.spills, origin)
	delete(m.values, origin)
	m.logger.Debug("spill cleared", "cell", origin.String(), "footprint", sr.String())
	return werr
}

func (m *Manager) emit(t EventType, data EventData) {
	if len(m.opts.listeners) == 0 {
		return
	}
	ev := Event{Type: t, Timestamp: m.opts.clock.Now().UnixMilli(), Data: data}
	for _, l := range m.opts.listeners {
		l.OnEvent(ev)
	}
}

// FormulaAt returns the formula bound to ref, if any.
func (m *Manager) FormulaAt(ref CellRef) (string, bool) {
	f, ok := m.formulas[ref]
	return f, ok
}

// SpillAt returns the range claiming ref, if any.
func (m *Manager) SpillAt(ref CellRef) (SpillRange, bool) {
	origin, ok := m.claims[ref]
	if !ok {
		return SpillRange{}, false
	}
	return m.spills[origin], true
}

// IsSpillOrigin reports whether a spill range is anchored at ref.
func (m *Manager) IsSpillOrigin(ref CellRef) bool {
	_, ok := m.spills[ref]
	return ok
}

// Spills returns all ranges ordered by origin.
func (m *Manager) Spills() []SpillRange {
	out := make([]SpillRange, 0, len(m.spills))
	for _, sr := range m.spills {
		out = append(out, sr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Origin.Less(out[j].Origin) })
	return out
}

// Formulas returns a copy of the formula bindings.
func (m *Manager) Formulas() map[CellRef]string {
	out := make(map[CellRef]string, len(m.formulas))
	for k, v := range m.formulas {
		out[k] = v
	}
	return out
}

// Clear forgets all bindings and ranges. The sheet is left untouched.
func (m *Manager) Clear() {
	m.formulas = make(map[CellRef]string)
	m.spills = make(map[CellRef]SpillRange)
	m.claims = make(map[CellRef]CellRef)
	m.values = make(map[CellRef][][]any)
}

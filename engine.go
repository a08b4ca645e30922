package xlspill

import (
	"fmt"
	"math"
	"strings"
)

// ResultKind tells how an evaluation result is placed on the sheet.
type ResultKind int

const (
	ResultScalar ResultKind = iota
	ResultArray
	ResultError
)

func (k ResultKind) String() string {
	switch k {
	case ResultScalar:
		return "scalar"
	case ResultArray:
		return "array"
	case ResultError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the outcome of evaluating one formula.
type Result struct {
	Kind    ResultKind
	Value   any       // ResultScalar
	Array   [][]any   // ResultArray, rectangular, at least 1x1
	Err     ErrorKind // ResultError
	Message string    // ResultError, only for ErrError
}

// Token returns the error cell text, or "" for non-error results.
func (r Result) Token() string {
	if r.Kind != ResultError {
		return ""
	}
	return (&FormulaError{Kind: r.Err, Message: r.Message}).Token()
}

// CellValue is what a single cell shows: the scalar, the error token, or
// the top-left element of an array.
func (r Result) CellValue() any {
	switch r.Kind {
	case ResultArray:
		return r.Array[0][0]
	case ResultError:
		return r.Token()
	default:
		return r.Value
	}
}

// Rows returns the spill height, 1 for non-array results.
func (r Result) Rows() int {
	if r.Kind == ResultArray {
		return len(r.Array)
	}
	return 1
}

// Cols returns the spill width, 1 for non-array results.
func (r Result) Cols() int {
	if r.Kind == ResultArray {
		return len(r.Array[0])
	}
	return 1
}

// String summarises the result for logs and the operation log.
func (r Result) String() string {
	switch r.Kind {
	case ResultArray:
		return fmt.Sprintf("array %dx%d", r.Rows(), r.Cols())
	case ResultError:
		return r.Token()
	default:
		return toText(r.Value)
	}
}

func errorResult(fe *FormulaError) Result {
	res := Result{Kind: ResultError, Err: fe.Kind}
	if fe.Kind == ErrError {
		res.Message = fe.Message
	}
	return res
}

// Engine evaluates formulas against grid snapshots.
type Engine struct {
	opts *Options
}

// NewEngine creates an Engine. Without options it uses the built-in
// library, the wall clock and a discarding logger.
func NewEngine(opts ...Option) *Engine {
	return &Engine{opts: buildOptions(opts)}
}

func newEngineFromOptions(o *Options) *Engine {
	return &Engine{opts: o}
}

// Library returns the function library in use.
func (e *Engine) Library() *Library {
	return e.opts.library
}

// Evaluate computes formula (with or without its leading "=") against g.
// row and col locate the cell being entered. Evaluate never panics and
// never mutates g; every failure is reported as a ResultError.
func (e *Engine) Evaluate(formula string, g Grid, row, col int) (res Result) {
	logger := e.opts.logger.With("cell", NewCellRef(row, col).String())
	defer func() {
		if r := recover(); r != nil {
			logger.Error("formula evaluation panicked", "formula", formula, "panic", r)
			res = errorResult(newError(ErrError, "%v", r))
		}
	}()

	body := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(formula), "="))
	resolved := ResolveReferences(body, g)
	logger.Debug("formula resolved", "formula", formula, "resolved", resolved)

	node, err := Parse(resolved)
	if err != nil {
		logger.Debug("formula parse failed", "formula", formula, "error", err)
		return errorResult(newError(ErrError, "%s", err.Error()))
	}
	in := &interpreter{
		lib: e.opts.library,
		ctx: &CallContext{Clock: e.opts.clock, PreviewRows: e.opts.previewRows},
	}
	v, err := in.eval(node)
	if err != nil {
		fe := asFormulaError(err)
		logger.Debug("formula failed", "formula", formula, "error", fe.Token())
		return errorResult(fe)
	}
	res = normalize(v)
	logger.Debug("formula evaluated", "formula", formula, "result", res.String())
	return res
}

var defaultEngine = NewEngine()

// EvaluateFormula evaluates with a default Engine.
func EvaluateFormula(formula string, g Grid, row, col int) Result {
	return defaultEngine.Evaluate(formula, g, row, col)
}

// normalize maps an interpreter value onto a Result.
func normalize(v any) Result {
	switch x := v.(type) {
	case *FormulaError:
		return errorResult(x)
	case float64:
		if fe := numericError(x); fe != nil {
			return errorResult(fe)
		}
		return Result{Kind: ResultScalar, Value: x}
	case int:
		return Result{Kind: ResultScalar, Value: float64(x)}
	case string:
		if k, ok := ParseErrorToken(x); ok {
			return errorResult(&FormulaError{Kind: k, Message: strings.TrimSpace(strings.TrimPrefix(x, "#ERROR:"))})
		}
		return Result{Kind: ResultScalar, Value: x}
	case nil:
		return Result{Kind: ResultScalar, Value: ""}
	case [][]any:
		return tableResult(x)
	case []any:
		if len(x) == 0 {
			return errorResult(newError(ErrNA, "empty array"))
		}
		if t, ok := rowsOf(x); ok {
			return tableResult(t)
		}
		t := make([][]any, len(x))
		for i, e := range x {
			t[i] = []any{e}
		}
		return tableResult(t)
	default:
		return Result{Kind: ResultScalar, Value: x}
	}
}

// tableResult squares off a table to the width of its first row; missing
// cells become "".
func tableResult(t [][]any) Result {
	if len(t) == 0 || len(t[0]) == 0 {
		return errorResult(newError(ErrNA, "empty array"))
	}
	width := len(t[0])
	out := make([][]any, len(t))
	for r, row := range t {
		out[r] = make([]any, width)
		for c := range out[r] {
			if c < len(row) {
				out[r][c] = spillValue(row[c])
			} else {
				out[r][c] = ""
			}
		}
	}
	return Result{Kind: ResultArray, Array: out}
}

// spillValue converts one array element into a storable cell value.
func spillValue(v any) any {
	switch x := v.(type) {
	case nil:
		return ""
	case int:
		return float64(x)
	case float64:
		if fe := numericError(x); fe != nil {
			return fe.Token()
		}
		return x
	case *FormulaError:
		return x.Token()
	case []any, [][]any:
		return toText(x)
	default:
		return x
	}
}

func numericError(f float64) *FormulaError {
	switch {
	case math.IsNaN(f):
		return newError(ErrNum, "not a number")
	case math.IsInf(f, 0):
		return newError(ErrDiv0, "division by zero")
	default:
		return nil
	}
}

func rowsOf(l []any) ([][]any, bool) {
	t := make([][]any, len(l))
	for i, e := range l {
		row, ok := e.([]any)
		if !ok {
			return nil, false
		}
		t[i] = row
	}
	return t, true
}
